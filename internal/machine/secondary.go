package machine

import (
	"fmt"
	"time"

	"github.com/osse101/reelflow/internal/domain"
)

// Refresh redraws the reels with layout without animation. Idle only.
func (c *Coordinator) Refresh(layout domain.Layout) error {
	if err := c.checkIdle(OpRefresh); err != nil {
		return err
	}
	for i, r := range c.reels {
		if s := layout.At(i); s != nil {
			if err := r.SetSymbols(c.opts.fit(i, s)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Nudge shifts the listed reels concurrently and emits NudgeComplete once all
// of them settled. A reel that fails still counts as settled.
func (c *Coordinator) Nudge(nudges []domain.Nudge) error {
	if err := c.checkIdle(OpNudge); err != nil {
		return err
	}
	for _, n := range nudges {
		if !c.HasIndex(n.Reel) {
			return c.reject(OpNudge, fmt.Errorf("%w: %d", domain.ErrInvalidReelIndex, n.Reel))
		}
	}

	cycle := c.beginOp(len(nudges))
	c.nudging = true
	if len(nudges) == 0 {
		c.opDone(cycle)
		return nil
	}
	for _, n := range nudges {
		n := n
		done := func(err error) {
			if err != nil {
				c.reelFault(n.Reel, OpNudge, err)
			}
			c.opDone(cycle)
		}
		if err := c.byIndex[n.Reel].Nudge(n.Steps, c.target(n.Reel, n.Symbols), done); err != nil {
			done(err)
		}
	}
	return nil
}

// Cascade refills every reel with layout, reel i after i*CascadeDelay, and
// emits CascadeComplete once all reels settled.
func (c *Coordinator) Cascade(layout domain.Layout) error {
	if err := c.checkIdle(OpCascade); err != nil {
		return err
	}

	cycle := c.beginOp(len(c.reels))
	c.cascading = true
	c.pendingStopData = layout.Clone()
	if len(c.reels) == 0 {
		c.opDone(cycle)
		return nil
	}
	c.slots = make([]slot, len(c.reels))
	for i := range c.reels {
		i := i
		h := c.after(time.Duration(i)*c.opts.CascadeDelay, func() { c.cascadeReel(i, cycle) })
		if cycle == c.cycle && c.cascading && !c.slots[i].started {
			c.slots[i].startTimer = h
		}
	}
	return nil
}

func (c *Coordinator) cascadeReel(i int, cycle uint64) {
	if cycle != c.cycle || !c.cascading {
		return
	}
	c.slots[i].startTimer = nil
	c.slots[i].started = true
	done := func(err error) {
		if err != nil {
			c.reelFault(i, OpCascade, err)
		}
		c.opDone(cycle)
	}
	if err := c.reels[i].Cascade(c.target(i, c.pendingStopData.At(i)), done); err != nil {
		done(err)
	}
}

func (c *Coordinator) beginOp(n int) uint64 {
	c.cycle++
	c.opPending = n
	return c.cycle
}

// opDone counts one settled reel of a nudge or cascade.
func (c *Coordinator) opDone(cycle uint64) {
	if cycle != c.cycle || (!c.nudging && !c.cascading) {
		return
	}
	if c.opPending > 0 {
		c.opPending--
	}
	if c.opPending > 0 {
		return
	}
	switch {
	case c.nudging:
		c.nudging = false
		c.listener.NudgeComplete()
	case c.cascading:
		c.cascading = false
		c.pendingStopData = nil
		c.cancelTimers()
		c.listener.CascadeComplete()
	}
}

// target sizes s for reel i; a missing strip keeps what the reel shows.
func (c *Coordinator) target(i int, s domain.Strip) domain.Strip {
	if s == nil {
		return c.byIndex[i].Symbols()
	}
	return c.opts.fit(i, s)
}
