package session

import (
	"time"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/flow"
	"github.com/osse101/reelflow/internal/scheduler"
)

// FeatureTimings sets how long the timed runners play each feature.
type FeatureTimings struct {
	Duration     time.Duration                        `yaml:"duration" validate:"min=0"`
	LineInterval time.Duration                        `yaml:"line_interval" validate:"min=0"`
	Overrides    map[domain.FeatureKind]time.Duration `yaml:"overrides"`
}

// DefaultFeatureTimings returns the timings used when a profile sets none.
func DefaultFeatureTimings() FeatureTimings {
	return FeatureTimings{Duration: DefaultFeatureTime, LineInterval: DefaultLineInterval}
}

// TimedFeatureRunner stands in for a real presentation: it announces each win
// line in turn and finishes after a fixed time.
type TimedFeatureRunner struct {
	sched        scheduler.Scheduler
	duration     time.Duration
	lineInterval time.Duration
}

// NewTimedFeatureRunner creates a runner on sched.
func NewTimedFeatureRunner(sched scheduler.Scheduler, duration, lineInterval time.Duration) *TimedFeatureRunner {
	return &TimedFeatureRunner{sched: sched, duration: duration, lineInterval: lineInterval}
}

// Initialize plays the feature.
func (r *TimedFeatureRunner) Initialize(data flow.FeatureData, cb FeatureCallbacks) {
	for i := range data.Wins {
		r.sched.After(time.Duration(i)*r.lineInterval, func() {
			if cb.OnCurrentStart != nil {
				cb.OnCurrentStart(i)
			}
		})
	}
	total := r.duration + time.Duration(len(data.Wins))*r.lineInterval
	r.sched.After(total, func() {
		if cb.OnFinish != nil {
			cb.OnFinish()
		}
	})
}

// NewTimedFeatureRunners returns a timed runner for every feature kind.
func NewTimedFeatureRunners(sched scheduler.Scheduler, t FeatureTimings) map[domain.FeatureKind]FeatureRunner {
	kinds := []domain.FeatureKind{
		domain.FeatureWin,
		domain.FeatureBigWin,
		domain.FeatureFreeSpinIntro,
		domain.FeatureFreeSpinOutro,
		domain.FeatureFreeSpinMultiplier,
		domain.FeatureExtraFreeSpins,
	}
	out := make(map[domain.FeatureKind]FeatureRunner, len(kinds))
	for _, k := range kinds {
		d := t.Duration
		if o, ok := t.Overrides[k]; ok {
			d = o
		}
		out[k] = NewTimedFeatureRunner(sched, d, t.LineInterval)
	}
	return out
}
