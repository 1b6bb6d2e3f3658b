// Package reel implements a single reel: one strip of symbols with its own
// idle/spinning/stopping/nudging/cascading/error lifecycle.
//
// A Reel is not safe for concurrent use. Its owner calls it, and delivers
// animator completions, from a single goroutine.
package reel

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/looplab/fsm"

	"github.com/osse101/reelflow/internal/domain"
)

// Reel is one independently animated strip.
type Reel struct {
	index        int
	symbols      domain.Strip
	fsm          *fsm.FSM
	animator     Animator
	forceStopped bool
	stopDone     func(error)
	stopTarget   domain.Strip
	gen          uint64
	log          *slog.Logger
}

// New creates an idle reel showing symbols.
func New(index int, symbols domain.Strip, animator Animator, log *slog.Logger) *Reel {
	if log == nil {
		log = slog.Default()
	}
	return &Reel{
		index:    index,
		symbols:  symbols.Clone(),
		animator: animator,
		fsm:      newFSM(),
		log:      log,
	}
}

func newFSM() *fsm.FSM {
	busy := []string{string(StateSpinning), string(StateStopping), string(StateNudging), string(StateCascading)}
	return fsm.NewFSM(
		string(StateIdle),
		fsm.Events{
			{Name: eventSpin, Src: []string{string(StateIdle)}, Dst: string(StateSpinning)},
			{Name: eventStop, Src: []string{string(StateSpinning)}, Dst: string(StateStopping)},
			{Name: eventLand, Src: []string{string(StateStopping)}, Dst: string(StateIdle)},
			{Name: eventNudge, Src: []string{string(StateIdle)}, Dst: string(StateNudging)},
			{Name: eventCascade, Src: []string{string(StateIdle)}, Dst: string(StateCascading)},
			{Name: eventSettle, Src: []string{string(StateNudging), string(StateCascading)}, Dst: string(StateIdle)},
			{Name: eventFail, Src: busy, Dst: string(StateError)},
			{Name: eventRecover, Src: []string{string(StateError)}, Dst: string(StateIdle)},
		},
		fsm.Callbacks{},
	)
}

// Index returns the reel's logical index.
func (r *Reel) Index() int { return r.index }

// SetIndex renumbers the reel after the machine's reel list changes.
func (r *Reel) SetIndex(i int) {
	r.index = i
}

// State returns the current lifecycle state.
func (r *Reel) State() State { return State(r.fsm.Current()) }

// IsIdle reports whether the reel accepts a new operation.
func (r *Reel) IsIdle() bool { return r.State() == StateIdle }

// ForceStopped reports whether a force stop is pending for the current cycle.
func (r *Reel) ForceStopped() bool { return r.forceStopped }

// Symbols returns a copy of the visible strip.
func (r *Reel) Symbols() domain.Strip { return r.symbols.Clone() }

// SetSymbols replaces the visible strip without animation. Only allowed while idle.
func (r *Reel) SetSymbols(symbols domain.Strip) error {
	if !r.IsIdle() {
		return r.reject(OpStop, domain.ErrReelBusy)
	}
	r.symbols = symbols.Clone()
	return nil
}

// Spin starts the spin animation. done runs once spin-up finished or failed;
// on failure the reel is back to idle. Spin is rejected unless the reel is idle.
func (r *Reel) Spin(done func(error)) error {
	if err := r.transition(eventSpin); err != nil {
		return r.reject(OpSpin, domain.ErrReelBusy)
	}
	r.gen++
	gen := r.gen
	r.forceStopped = false

	finished := false
	complete := func(err error) {
		if gen != r.gen || finished {
			return
		}
		finished = true
		if err != nil {
			r.fail(OpSpin, err)
			if r.stopDone != nil {
				// A stop already under way still lands where the round says.
				r.symbols = r.stopTarget
				r.finishStop(err)
			}
		}
		done(err)
	}
	r.guard(OpSpin, complete, func() { r.animator.StartSpin(r.index, complete) })
	return nil
}

// Stop lands the reel on symbols. Calling it while not spinning is tolerated:
// it logs a warning and completes immediately.
func (r *Reel) Stop(symbols domain.Strip, opts StopOptions, done func(error)) {
	state := r.State()
	if state != StateSpinning {
		r.log.Warn(LogMsgStopWhileNotSpinning, "reel", r.index, "state", state)
		if state == StateIdle && symbols != nil {
			r.symbols = symbols.Clone()
		}
		done(nil)
		return
	}

	if err := r.transition(eventStop); err != nil {
		done(err)
		return
	}
	if r.forceStopped {
		opts = opts.AsForced()
	}
	gen := r.gen
	target := symbols.Clone()
	if target == nil {
		target = r.symbols.Clone()
	}
	r.stopDone = done
	r.stopTarget = target

	complete := func(err error) {
		if gen != r.gen || r.stopDone == nil {
			return
		}
		r.symbols = target
		r.finishStop(err)
	}
	r.guard(OpStop, complete, func() { r.animator.Stop(r.index, target, opts, complete) })
}

func (r *Reel) finishStop(err error) {
	done := r.stopDone
	r.stopDone = nil
	r.stopTarget = nil
	r.forceStopped = false
	if err != nil {
		if r.State() == StateStopping {
			r.fail(OpStop, err)
		}
	} else {
		r.mustTransition(eventLand)
	}
	if done != nil {
		done(err)
	}
}

// ForceStop flags the current cycle for the shortest possible landing.
// A reel already stopping is hurried. Idle reels ignore it, as do repeated calls.
func (r *Reel) ForceStop() {
	switch r.State() {
	case StateSpinning:
		r.forceStopped = true
	case StateStopping:
		if r.forceStopped {
			return
		}
		r.forceStopped = true
		r.guard(OpStop, func(err error) {
			r.log.Warn(LogMsgReelOpFailed, "reel", r.index, "op", OpStop, "error", err)
		}, func() { r.animator.Hurry(r.index) })
	default:
		r.log.Debug(LogMsgForceStopIgnored, "reel", r.index, "state", r.State())
	}
}

// Nudge shifts the reel by steps positions, landing on symbols.
func (r *Reel) Nudge(steps int, symbols domain.Strip, done func(error)) error {
	if err := r.transition(eventNudge); err != nil {
		return r.reject(OpNudge, domain.ErrReelBusy)
	}
	complete := r.settleFunc(OpNudge, StateNudging, symbols, done)
	r.guard(OpNudge, complete, func() { r.animator.Nudge(r.index, steps, symbols.Clone(), complete) })
	return nil
}

// Cascade drops the reel's winning symbols and refills it with symbols.
func (r *Reel) Cascade(symbols domain.Strip, done func(error)) error {
	if err := r.transition(eventCascade); err != nil {
		return r.reject(OpCascade, domain.ErrReelBusy)
	}
	complete := r.settleFunc(OpCascade, StateCascading, symbols, done)
	r.guard(OpCascade, complete, func() { r.animator.Cascade(r.index, symbols.Clone(), complete) })
	return nil
}

// settleFunc builds the completion of a nudge or cascade. It releases the busy
// state exactly once whatever the animator does.
func (r *Reel) settleFunc(op string, busy State, symbols domain.Strip, done func(error)) func(error) {
	r.gen++
	gen := r.gen
	target := symbols.Clone()
	return func(err error) {
		if gen != r.gen || r.State() != busy {
			return
		}
		if target != nil {
			r.symbols = target
		}
		if err != nil {
			r.fail(op, err)
		} else {
			r.mustTransition(eventSettle)
		}
		done(err)
	}
}

// guard runs call and turns a panic into a failed completion.
func (r *Reel) guard(op string, complete func(error), call func()) {
	defer func() {
		if p := recover(); p != nil {
			complete(fmt.Errorf("%w: %s panicked: %v", domain.ErrReelAnimation, op, p))
		}
	}()
	call()
}

// fail passes through the error state back to idle.
func (r *Reel) fail(op string, err error) {
	r.log.Warn(LogMsgReelOpFailed, "reel", r.index, "op", op, "error", err)
	r.mustTransition(eventFail)
	r.mustTransition(eventRecover)
}

func (r *Reel) transition(event string) error {
	return r.fsm.Event(context.Background(), event)
}

func (r *Reel) mustTransition(event string) {
	if err := r.transition(event); err != nil {
		r.log.Error(LogMsgReelTransitionFailed, "reel", r.index, "event", event, "state", r.State(), "error", err)
	}
}

func (r *Reel) reject(op string, err error) error {
	r.log.Warn(LogMsgReelOpRejected, "reel", r.index, "op", op, "state", r.State())
	return fmt.Errorf("%w: reel %d is %s, cannot %s", err, r.index, r.State(), op)
}
