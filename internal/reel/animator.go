package reel

import (
	"fmt"
	"time"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/scheduler"
)

// StopOptions tunes one stop animation.
type StopOptions struct {
	Duration time.Duration
	// Forced requests the shortest landing with no settle bounce.
	Forced bool
}

// AsForced returns the options with Forced set and the duration collapsed.
func (o StopOptions) AsForced() StopOptions {
	o.Forced = true
	o.Duration = 0
	return o
}

// Animator plays reel animations. Every call must invoke its done callback
// exactly once, on the owner's goroutine.
type Animator interface {
	// StartSpin reports once the reel reached full speed. The reel keeps spinning until Stop.
	StartSpin(reel int, done func(error))
	Stop(reel int, symbols domain.Strip, opts StopOptions, done func(error))
	// Hurry shortens an in-flight stop.
	Hurry(reel int)
	Nudge(reel int, steps int, symbols domain.Strip, done func(error))
	Cascade(reel int, symbols domain.Strip, done func(error))
}

// Timings are the TimedAnimator durations.
type Timings struct {
	SpinUp     time.Duration `yaml:"spin_up"`
	Stop       time.Duration `yaml:"stop"`
	ForcedStop time.Duration `yaml:"forced_stop"`
	NudgeStep  time.Duration `yaml:"nudge_step"`
	Cascade    time.Duration `yaml:"cascade"`
}

// DefaultTimings returns the stock animation timings.
func DefaultTimings() Timings {
	return Timings{
		SpinUp:     DefaultSpinUpDuration,
		Stop:       DefaultStopDuration,
		ForcedStop: DefaultForcedStopDuration,
		NudgeStep:  DefaultNudgeStepDuration,
		Cascade:    DefaultCascadeDuration,
	}
}

// FaultFunc lets a caller inject animation failures, e.g. to rehearse degraded cycles.
type FaultFunc func(op string, reel int) error

// TimedAnimator stands in for a renderer: each animation is a timer of the
// configured length. It is used headless and in tests.
type TimedAnimator struct {
	sched   scheduler.Scheduler
	timings Timings
	faults  FaultFunc
	stops   map[int]*pendingStop
}

type pendingStop struct {
	handle scheduler.Handle
	done   func(error)
}

// NewTimedAnimator creates an animator driven by sched.
func NewTimedAnimator(sched scheduler.Scheduler, timings Timings, faults FaultFunc) *TimedAnimator {
	return &TimedAnimator{
		sched:   sched,
		timings: timings,
		faults:  faults,
		stops:   make(map[int]*pendingStop),
	}
}

func (a *TimedAnimator) fault(op string, reel int) error {
	if a.faults == nil {
		return nil
	}
	if err := a.faults(op, reel); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrReelAnimation, err)
	}
	return nil
}

// StartSpin completes after the spin-up duration.
func (a *TimedAnimator) StartSpin(reel int, done func(error)) {
	err := a.fault(OpSpin, reel)
	a.sched.After(a.timings.SpinUp, func() { done(err) })
}

// Stop completes after the stop duration, or the forced duration when forced.
func (a *TimedAnimator) Stop(reel int, _ domain.Strip, opts StopOptions, done func(error)) {
	d := opts.Duration
	if d <= 0 {
		d = a.timings.Stop
	}
	if opts.Forced {
		d = a.timings.ForcedStop
	}
	err := a.fault(OpStop, reel)
	a.scheduleStop(reel, d, func() { done(err) })
}

func (a *TimedAnimator) scheduleStop(reel int, d time.Duration, fire func()) {
	p := &pendingStop{done: func(error) { fire() }}
	p.handle = a.sched.After(d, func() {
		if a.stops[reel] == p {
			delete(a.stops, reel)
		}
		fire()
	})
	a.stops[reel] = p
}

// Hurry reschedules an in-flight stop with the forced duration.
func (a *TimedAnimator) Hurry(reel int) {
	p, ok := a.stops[reel]
	if !ok || !p.handle.Cancel() {
		return
	}
	delete(a.stops, reel)
	a.scheduleStop(reel, a.timings.ForcedStop, func() { p.done(nil) })
}

// Nudge takes one step duration per position moved.
func (a *TimedAnimator) Nudge(reel int, steps int, _ domain.Strip, done func(error)) {
	if steps < 0 {
		steps = -steps
	}
	err := a.fault(OpNudge, reel)
	a.sched.After(time.Duration(steps)*a.timings.NudgeStep, func() { done(err) })
}

// Cascade completes after the cascade duration.
func (a *TimedAnimator) Cascade(reel int, _ domain.Strip, done func(error)) {
	err := a.fault(OpCascade, reel)
	a.sched.After(a.timings.Cascade, func() { done(err) })
}

// InFlightStops returns the number of stop animations still running.
func (a *TimedAnimator) InFlightStops() int { return len(a.stops) }
