package reel

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/scheduler"
)

func newTestReel(t *testing.T, faults FaultFunc) (*Reel, *scheduler.Manual, *TimedAnimator) {
	t.Helper()
	sched := scheduler.NewManual()
	anim := NewTimedAnimator(sched, DefaultTimings(), faults)
	return New(0, domain.Strip{"A", "B", "C"}, anim, nil), sched, anim
}

// recorder captures completion callbacks.
type recorder struct {
	calls int
	errs  []error
}

func (r *recorder) done(err error) {
	r.calls++
	r.errs = append(r.errs, err)
}

func TestReel_SpinStopCycle(t *testing.T) {
	r, sched, _ := newTestReel(t, nil)
	spun, stopped := &recorder{}, &recorder{}

	require.NoError(t, r.Spin(spun.done))
	assert.Equal(t, StateSpinning, r.State())

	sched.Flush()
	assert.Equal(t, 1, spun.calls)
	assert.NoError(t, spun.errs[0])

	r.Stop(domain.Strip{"X", "Y", "Z"}, StopOptions{}, stopped.done)
	assert.Equal(t, StateStopping, r.State())

	sched.Flush()
	assert.Equal(t, 1, stopped.calls)
	assert.Equal(t, StateIdle, r.State())
	assert.Equal(t, domain.Strip{"X", "Y", "Z"}, r.Symbols())
}

func TestReel_SpinRejectedUnlessIdle(t *testing.T) {
	r, _, _ := newTestReel(t, nil)
	require.NoError(t, r.Spin(func(error) {}))

	err := r.Spin(func(error) { t.Error("rejected spin must not complete") })
	assert.ErrorIs(t, err, domain.ErrReelBusy)
	assert.Equal(t, StateSpinning, r.State())
}

func TestReel_StopWhileIdleIsTolerated(t *testing.T) {
	r, _, _ := newTestReel(t, nil)
	rec := &recorder{}

	r.Stop(domain.Strip{"Q"}, StopOptions{}, rec.done)
	assert.Equal(t, 1, rec.calls)
	assert.NoError(t, rec.errs[0])
	assert.Equal(t, StateIdle, r.State())
	assert.Equal(t, domain.Strip{"Q"}, r.Symbols())
}

func TestReel_ForceStopIdleIsNoop(t *testing.T) {
	r, _, _ := newTestReel(t, nil)
	r.ForceStop()
	assert.False(t, r.ForceStopped())
	assert.Equal(t, StateIdle, r.State())
}

func TestReel_ForceStopBeforeStopUsesForcedDuration(t *testing.T) {
	r, sched, _ := newTestReel(t, nil)
	require.NoError(t, r.Spin(func(error) {}))
	sched.Flush()

	r.ForceStop()
	r.ForceStop()
	assert.True(t, r.ForceStopped())

	start := sched.Now()
	rec := &recorder{}
	r.Stop(nil, StopOptions{Duration: time.Second}, rec.done)
	sched.Flush()

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, DefaultForcedStopDuration, sched.Now()-start)
	assert.False(t, r.ForceStopped())
}

func TestReel_ForceStopHurriesInFlightStop(t *testing.T) {
	r, sched, anim := newTestReel(t, nil)
	require.NoError(t, r.Spin(func(error) {}))
	sched.Flush()

	rec := &recorder{}
	start := sched.Now()
	r.Stop(domain.Strip{"Z"}, StopOptions{}, rec.done)
	require.Equal(t, 1, anim.InFlightStops())

	r.ForceStop()
	sched.Flush()

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, DefaultForcedStopDuration, sched.Now()-start)
	assert.Equal(t, 0, anim.InFlightStops())
}

func TestReel_SpinFailureReturnsToIdle(t *testing.T) {
	boom := errors.New("texture lost")
	r, sched, _ := newTestReel(t, func(op string, reel int) error {
		if op == OpSpin {
			return boom
		}
		return nil
	})
	rec := &recorder{}

	require.NoError(t, r.Spin(rec.done))
	sched.Flush()

	require.Equal(t, 1, rec.calls)
	assert.ErrorIs(t, rec.errs[0], domain.ErrReelAnimation)
	assert.Equal(t, StateIdle, r.State())
}

func TestReel_SpinFailureDuringStopLandsTarget(t *testing.T) {
	r, sched, _ := newTestReel(t, func(op string, _ int) error {
		if op == OpSpin {
			return errors.New("spin-up")
		}
		return nil
	})
	spun, stopped := &recorder{}, &recorder{}

	require.NoError(t, r.Spin(spun.done))
	r.Stop(domain.Strip{"X", "Y", "Z"}, StopOptions{}, stopped.done)
	require.Equal(t, StateStopping, r.State())

	sched.Flush()
	assert.Equal(t, 1, spun.calls)
	assert.Equal(t, 1, stopped.calls)
	assert.ErrorIs(t, stopped.errs[0], domain.ErrReelAnimation)
	assert.Equal(t, StateIdle, r.State())
	assert.Equal(t, domain.Strip{"X", "Y", "Z"}, r.Symbols())
}

func TestStopOptions_AsForced(t *testing.T) {
	opts := StopOptions{Duration: time.Second}.AsForced()
	assert.True(t, opts.Forced)
	assert.Zero(t, opts.Duration)
}

func TestReel_StopFailureStillCompletes(t *testing.T) {
	r, sched, _ := newTestReel(t, func(op string, reel int) error {
		if op == OpStop {
			return errors.New("tween crashed")
		}
		return nil
	})
	require.NoError(t, r.Spin(func(error) {}))
	sched.Flush()

	rec := &recorder{}
	r.Stop(domain.Strip{"W"}, StopOptions{}, rec.done)
	sched.Flush()

	require.Equal(t, 1, rec.calls)
	assert.Error(t, rec.errs[0])
	assert.Equal(t, StateIdle, r.State())
	assert.Equal(t, domain.Strip{"W"}, r.Symbols())
}

func TestReel_NudgeAndCascade(t *testing.T) {
	r, sched, _ := newTestReel(t, nil)
	rec := &recorder{}

	require.NoError(t, r.Nudge(2, domain.Strip{"N"}, rec.done))
	assert.Equal(t, StateNudging, r.State())
	assert.ErrorIs(t, r.Cascade(nil, rec.done), domain.ErrReelBusy)
	assert.ErrorIs(t, r.Spin(rec.done), domain.ErrReelBusy)

	sched.Flush()
	assert.Equal(t, 2*DefaultNudgeStepDuration, sched.Now())
	assert.Equal(t, StateIdle, r.State())
	assert.Equal(t, domain.Strip{"N"}, r.Symbols())

	require.NoError(t, r.Cascade(domain.Strip{"C"}, rec.done))
	assert.Equal(t, StateCascading, r.State())
	sched.Flush()
	assert.Equal(t, StateIdle, r.State())
	assert.Equal(t, 2, rec.calls)
}

// panicAnimator blows up on every call.
type panicAnimator struct{}

func (panicAnimator) StartSpin(int, func(error))                       { panic("spin") }
func (panicAnimator) Stop(int, domain.Strip, StopOptions, func(error)) { panic("stop") }
func (panicAnimator) Hurry(int)                                        { panic("hurry") }
func (panicAnimator) Nudge(int, int, domain.Strip, func(error))        { panic("nudge") }
func (panicAnimator) Cascade(int, domain.Strip, func(error))           { panic("cascade") }

func TestReel_PanickingAnimatorReleasesBusyState(t *testing.T) {
	r := New(3, domain.Strip{"A"}, panicAnimator{}, nil)

	for name, op := range map[string]func(func(error)) error{
		"nudge":   func(done func(error)) error { return r.Nudge(1, nil, done) },
		"cascade": func(done func(error)) error { return r.Cascade(nil, done) },
		"spin":    func(done func(error)) error { return r.Spin(done) },
	} {
		rec := &recorder{}
		require.NoError(t, op(rec.done), name)
		assert.Equal(t, 1, rec.calls, name)
		assert.ErrorIs(t, rec.errs[0], domain.ErrReelAnimation, name)
		assert.Equal(t, StateIdle, r.State(), name)
	}
}

func TestReel_SetSymbolsOnlyWhileIdle(t *testing.T) {
	r, _, _ := newTestReel(t, nil)
	require.NoError(t, r.SetSymbols(domain.Strip{"R"}))
	assert.Equal(t, domain.Strip{"R"}, r.Symbols())

	require.NoError(t, r.Spin(func(error) {}))
	assert.ErrorIs(t, r.SetSymbols(domain.Strip{"S"}), domain.ErrReelBusy)
}
