// Package machine coordinates a bank of reels through spin cycles.
//
// The Coordinator starts reels with a stagger, waits for the round's stop
// layout, stops reels with a stagger and emits exactly one AllReelsStopped per
// cycle. Force stop collapses every remaining delay. A Coordinator is not safe
// for concurrent use: all calls, timer callbacks and animator completions must
// arrive on one goroutine (the session loop).
package machine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/reel"
	"github.com/osse101/reelflow/internal/scheduler"
)

// Status is a read-only view of the coordinator flags.
type Status struct {
	Idle                bool `json:"idle"`
	Spinning            bool `json:"spinning"`
	WaitingForStopData  bool `json:"waiting_for_stop_data"`
	ForceStopped        bool `json:"force_stopped"`
	Nudging             bool `json:"nudging"`
	Cascading           bool `json:"cascading"`
	ReelsExpectedToStop int  `json:"reels_expected_to_stop"`
	Reels               int  `json:"reels"`
	Destroyed           bool `json:"destroyed"`
}

// Coordinator owns the reels and sequences their operations.
type Coordinator struct {
	opts     Options
	reels    []*reel.Reel
	byIndex  map[int]*reel.Reel
	animator reel.Animator
	sched    scheduler.Scheduler
	listener Listener
	log      *slog.Logger

	spinning           bool
	waitingForStopData bool
	forceStopped       bool
	nudging            bool
	cascading          bool
	destroyed          bool

	// cycle identifies the current operation; callbacks from older cycles are ignored.
	cycle           uint64
	expected        int
	pendingStopData domain.Layout
	slots           []slot
	opPending       int
}

// slot is the per-reel bookkeeping of one cycle.
type slot struct {
	startTimer scheduler.Handle
	stopTimer  scheduler.Handle
	started    bool
	settled    bool
	stopQueued bool
}

// New builds a coordinator with opts.Reels idle reels.
func New(opts Options, animator reel.Animator, sched scheduler.Scheduler, listener Listener, log *slog.Logger) (*Coordinator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	if listener == nil {
		listener = ListenerFuncs{}
	}
	c := &Coordinator{
		opts:     opts,
		animator: animator,
		sched:    sched,
		listener: listener,
		log:      log,
	}
	for i := 0; i < opts.Reels; i++ {
		c.reels = append(c.reels, c.newReel(i, nil))
	}
	c.reindex()
	return c, nil
}

func (c *Coordinator) newReel(i int, symbols domain.Strip) *reel.Reel {
	return reel.New(i, c.opts.fit(i, symbols), c.animator, c.log)
}

// reindex renumbers reels by position and rebuilds the index map from scratch.
func (c *Coordinator) reindex() {
	c.byIndex = make(map[int]*reel.Reel, len(c.reels))
	for i, r := range c.reels {
		r.SetIndex(i)
		c.byIndex[i] = r
	}
}

// Status returns the current flags.
func (c *Coordinator) Status() Status {
	return Status{
		Idle:                c.isIdle(),
		Spinning:            c.spinning,
		WaitingForStopData:  c.waitingForStopData,
		ForceStopped:        c.forceStopped,
		Nudging:             c.nudging,
		Cascading:           c.cascading,
		ReelsExpectedToStop: c.expected,
		Reels:               len(c.reels),
		Destroyed:           c.destroyed,
	}
}

// Options returns the active options.
func (c *Coordinator) Options() Options { return c.opts }

// Len returns the number of reels.
func (c *Coordinator) Len() int { return len(c.reels) }

// Indices returns the logical index of every reel in list order.
func (c *Coordinator) Indices() []int {
	out := make([]int, len(c.reels))
	for i, r := range c.reels {
		out[i] = r.Index()
	}
	return out
}

// HasIndex reports whether the index map holds i.
func (c *Coordinator) HasIndex(i int) bool {
	_, ok := c.byIndex[i]
	return ok
}

// IndexMapSize returns the number of index map entries.
func (c *Coordinator) IndexMapSize() int { return len(c.byIndex) }

// ReelState returns the state of reel i.
func (c *Coordinator) ReelState(i int) (reel.State, bool) {
	r, ok := c.byIndex[i]
	if !ok {
		return "", false
	}
	return r.State(), true
}

// Symbols returns the visible layout.
func (c *Coordinator) Symbols() domain.Layout {
	out := make(domain.Layout, len(c.reels))
	for i, r := range c.reels {
		out[i] = r.Symbols()
	}
	return out
}

func (c *Coordinator) isIdle() bool {
	return !c.destroyed && !c.spinning && !c.nudging && !c.cascading
}

// checkIdle rejects op unless no operation class is running.
func (c *Coordinator) checkIdle(op string) error {
	if c.destroyed {
		return c.reject(op, domain.ErrMachineDestroyed)
	}
	if !c.isIdle() {
		return c.reject(op, domain.ErrMachineBusy)
	}
	return nil
}

func (c *Coordinator) reject(op string, err error) error {
	c.log.Warn(LogMsgOpRejected, "op", op, "error", err,
		"spinning", c.spinning, "nudging", c.nudging, "cascading", c.cascading)
	return fmt.Errorf("%w: %s", err, op)
}

// after runs fn now when d is zero, otherwise schedules it.
func (c *Coordinator) after(d time.Duration, fn func()) scheduler.Handle {
	if d <= 0 {
		fn()
		return nil
	}
	return c.sched.After(d, fn)
}

func (c *Coordinator) active(cycle uint64) bool {
	return cycle == c.cycle && c.spinning
}

func (c *Coordinator) reelFault(i int, op string, err error) {
	c.log.Warn(LogMsgReelFault, "reel", i, "op", op, "error", err)
	c.listener.ReelFault(i, op, err)
}

func (c *Coordinator) cancelTimers() {
	for i := range c.slots {
		scheduler.CancelAll(c.slots[i].startTimer, c.slots[i].stopTimer)
		c.slots[i].startTimer = nil
		c.slots[i].stopTimer = nil
	}
}

// Destroy cancels every timer and releases the reels. Nothing fires afterwards
// and every later operation fails with ErrMachineDestroyed.
func (c *Coordinator) Destroy() {
	if c.destroyed {
		return
	}
	c.cancelTimers()
	c.cycle++
	c.destroyed = true
	c.spinning, c.waitingForStopData, c.forceStopped = false, false, false
	c.nudging, c.cascading = false, false
	c.pendingStopData = nil
	c.reels = nil
	c.byIndex = nil
	c.slots = nil
	c.log.Info(LogMsgDestroyed)
}
