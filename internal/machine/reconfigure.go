package machine

import (
	"fmt"

	"github.com/osse101/reelflow/internal/domain"
)

// SetOptions applies new options while idle. Reels are added or removed at the
// end of the bank, surviving reels are refit to the row count, and the index
// map is rebuilt.
func (c *Coordinator) SetOptions(opts Options) error {
	if err := c.checkIdle(OpSetOptions); err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return c.reject(OpSetOptions, err)
	}

	c.opts = opts
	if len(c.reels) > opts.Reels {
		c.reels = c.reels[:opts.Reels]
	}
	for i, r := range c.reels {
		_ = r.SetSymbols(opts.fit(i, r.Symbols()))
	}
	for i := len(c.reels); i < opts.Reels; i++ {
		c.reels = append(c.reels, c.newReel(i, nil))
	}
	c.slots = nil
	c.reindex()
	c.log.Info(LogMsgReconfigured, "reels", len(c.reels), "rows", opts.Rows)
	return nil
}

// AddReel inserts a reel at position at (0..Len) showing symbols, or the
// derived default strip when symbols is nil.
func (c *Coordinator) AddReel(at int, symbols domain.Strip) error {
	if err := c.checkIdle(OpAddReel); err != nil {
		return err
	}
	if at < 0 || at > len(c.reels) || len(c.reels) >= MaxReels {
		return c.reject(OpAddReel, fmt.Errorf("%w: %d", domain.ErrInvalidReelIndex, at))
	}

	r := c.newReel(at, symbols)
	c.reels = append(c.reels, nil)
	copy(c.reels[at+1:], c.reels[at:])
	c.reels[at] = r
	c.opts.Reels = len(c.reels)
	c.slots = nil
	c.reindex()
	c.log.Info(LogMsgReconfigured, "op", OpAddReel, "at", at, "reels", len(c.reels))
	return nil
}

// RemoveReel drops the reel at position at; later reels shift down one index.
func (c *Coordinator) RemoveReel(at int) error {
	if err := c.checkIdle(OpRemoveReel); err != nil {
		return err
	}
	if at < 0 || at >= len(c.reels) {
		return c.reject(OpRemoveReel, fmt.Errorf("%w: %d", domain.ErrInvalidReelIndex, at))
	}

	c.reels = append(c.reels[:at:at], c.reels[at+1:]...)
	c.opts.Reels = len(c.reels)
	c.slots = nil
	c.reindex()
	c.log.Info(LogMsgReconfigured, "op", OpRemoveReel, "at", at, "reels", len(c.reels))
	return nil
}
