package machine

import (
	"time"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/reel"
	"github.com/osse101/reelflow/internal/scheduler"
)

// Spin starts a cycle: reel i begins spinning after i*SpinDelay. The cycle
// stays open until ProvideStopData has run and every reel settled.
func (c *Coordinator) Spin() error {
	if err := c.checkIdle(OpSpin); err != nil {
		return err
	}
	c.cycle++
	cycle := c.cycle
	c.spinning = true
	c.waitingForStopData = true
	c.forceStopped = false
	c.pendingStopData = nil
	c.expected = len(c.reels)
	c.slots = make([]slot, len(c.reels))

	c.listener.SpinStarted()

	for i := range c.reels {
		i := i
		h := c.after(time.Duration(i)*c.opts.SpinDelay, func() { c.startReel(i, cycle) })
		if c.active(cycle) && !c.slots[i].started {
			c.slots[i].startTimer = h
		}
	}
	return nil
}

func (c *Coordinator) startReel(i int, cycle uint64) {
	if !c.active(cycle) {
		return
	}
	s := &c.slots[i]
	s.startTimer = nil
	s.started = true

	err := c.reels[i].Spin(func(err error) {
		if err != nil {
			c.reelFault(i, OpSpin, err)
			c.settle(i, cycle)
		}
	})
	if err != nil {
		c.reelFault(i, OpSpin, err)
		c.settle(i, cycle)
		return
	}
	if !c.active(cycle) {
		return
	}
	if c.forceStopped {
		c.reels[i].ForceStop()
	}
	if s.stopQueued {
		s.stopQueued = false
		c.stopReel(i, cycle)
	}
}

// ProvideStopData hands the cycle its landing layout. It is accepted once per
// cycle while spinning; later calls are ignored with a warning.
func (c *Coordinator) ProvideStopData(layout domain.Layout) error {
	if c.destroyed {
		return c.reject(OpProvideStopData, domain.ErrMachineDestroyed)
	}
	if !c.spinning {
		c.log.Warn(LogMsgStopDataIgnored, "reason", domain.ErrMsgNotSpinning)
		return domain.ErrNotSpinning
	}
	if !c.waitingForStopData {
		c.log.Warn(LogMsgStopDataIgnored, "reason", domain.ErrMsgStopDataAlreadyProvided)
		return domain.ErrStopDataAlreadyProvided
	}
	if len(layout) != len(c.reels) {
		c.log.Warn(LogMsgStopDataSizeMismatch, "layout", len(layout), "reels", len(c.reels))
	}

	cycle := c.cycle
	c.waitingForStopData = false
	c.pendingStopData = layout.Clone()
	for i := range c.slots {
		scheduler.CancelAll(c.slots[i].stopTimer)
		c.slots[i].stopTimer = nil
	}

	// Reels that already settled (failed spin-up, cancelled start) only take the symbols.
	for i, r := range c.reels {
		if c.slots[i].settled && r.IsIdle() {
			if s := c.pendingStopData.At(i); s != nil {
				_ = r.SetSymbols(c.opts.fit(i, s))
			}
		}
	}

	for i := range c.reels {
		if !c.active(cycle) {
			return nil
		}
		if c.slots[i].settled {
			continue
		}
		if c.forceStopped {
			c.stopReel(i, cycle)
			continue
		}
		i := i
		h := c.after(time.Duration(i)*c.opts.StopDelay, func() { c.stopDue(i, cycle) })
		if c.active(cycle) && !c.slots[i].settled {
			c.slots[i].stopTimer = h
		}
	}
	c.maybeFinalize()
	return nil
}

func (c *Coordinator) stopDue(i int, cycle uint64) {
	if !c.active(cycle) {
		return
	}
	s := &c.slots[i]
	s.stopTimer = nil
	if !s.started {
		s.stopQueued = true
		return
	}
	c.stopReel(i, cycle)
}

func (c *Coordinator) stopReel(i int, cycle uint64) {
	if c.slots[i].settled {
		return
	}
	opts := reel.StopOptions{Duration: c.opts.StopDuration}
	if c.forceStopped {
		opts = opts.AsForced()
	}
	c.reels[i].Stop(c.target(i, c.pendingStopData.At(i)), opts, func(err error) {
		if err != nil {
			c.reelFault(i, OpStop, err)
		}
		c.settle(i, cycle)
	})
}

// settle records reel i's stop contribution for the cycle, at most once.
func (c *Coordinator) settle(i int, cycle uint64) {
	if !c.active(cycle) || c.slots[i].settled {
		return
	}
	c.slots[i].settled = true
	c.expected--
	c.maybeFinalize()
}

func (c *Coordinator) maybeFinalize() {
	if !c.spinning || c.waitingForStopData || c.expected > 0 {
		return
	}
	c.cancelTimers()
	landing := c.Symbols()
	c.spinning = false
	c.forceStopped = false
	c.pendingStopData = nil
	c.log.Debug(LogMsgCycleFinalized, "reels", len(landing))
	c.listener.AllReelsStopped(landing)
}

// ForceStop lands every reel as fast as possible. The flag is set before
// anything else so no stagger timer can slip through. Before stop data it puts
// spinning reels in their terminal posture and drops reels that never started;
// after stop data it cancels the stagger and stops the remaining reels at once.
// Repeated calls are no-ops.
func (c *Coordinator) ForceStop() error {
	if c.destroyed {
		return c.reject(OpForceStop, domain.ErrMachineDestroyed)
	}
	if !c.spinning {
		c.log.Debug(LogMsgForceStopIgnored, "reason", domain.ErrMsgNotSpinning)
		return domain.ErrNotSpinning
	}
	if c.forceStopped {
		return nil
	}
	c.forceStopped = true
	cycle := c.cycle
	c.log.Info(LogMsgForceStop, "waiting_for_stop_data", c.waitingForStopData, "expected", c.expected)

	var unstarted, running []int
	for i := range c.slots {
		s := &c.slots[i]
		scheduler.CancelAll(s.startTimer, s.stopTimer)
		s.startTimer, s.stopTimer = nil, nil
		s.stopQueued = false
		switch {
		case s.settled:
		case !s.started:
			unstarted = append(unstarted, i)
		default:
			running = append(running, i)
		}
	}

	for _, i := range running {
		if !c.active(cycle) {
			return nil
		}
		r := c.reels[i]
		if c.waitingForStopData || r.State() == reel.StateStopping {
			r.ForceStop()
			continue
		}
		c.stopReel(i, cycle)
	}

	for _, i := range unstarted {
		if !c.active(cycle) {
			return nil
		}
		if s := c.pendingStopData.At(i); s != nil {
			_ = c.reels[i].SetSymbols(c.opts.fit(i, s))
		}
		c.settle(i, cycle)
	}
	return nil
}
