package machine

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/reelflow/internal/domain"
)

// Options configures the reel bank.
type Options struct {
	Reels int `yaml:"reels" validate:"min=0,max=12"`
	Rows  int `yaml:"rows" validate:"min=1,max=10"`
	// SpinDelay staggers reel starts: reel i starts after i*SpinDelay.
	SpinDelay time.Duration `yaml:"spin_delay" validate:"min=0"`
	// StopDelay staggers reel stops: reel i stops after i*StopDelay.
	StopDelay    time.Duration `yaml:"stop_delay" validate:"min=0"`
	StopDuration time.Duration `yaml:"stop_duration" validate:"min=0"`
	CascadeDelay time.Duration `yaml:"cascade_delay" validate:"min=0"`
	// DefaultStrip seeds the symbols of newly created reels.
	DefaultStrip domain.Strip `yaml:"default_strip" validate:"min=1"`
}

// DefaultOptions returns a five by three machine.
func DefaultOptions() Options {
	return Options{
		Reels:        DefaultReels,
		Rows:         DefaultRows,
		SpinDelay:    DefaultSpinDelay,
		StopDelay:    DefaultStopDelay,
		StopDuration: DefaultStopDuration,
		CascadeDelay: DefaultCascadeDelay,
		DefaultStrip: domain.Strip{"LEMON", "CHERRY", "BELL", "BAR", "SEVEN"},
	}
}

var validate = validator.New()

// Validate checks the options against their limits.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidMachineOptions, err)
	}
	return nil
}

// stripFor derives the starting strip of reel i: the default strip rotated by
// i and cut or cycled to the row count.
func (o Options) stripFor(i int) domain.Strip {
	out := make(domain.Strip, o.Rows)
	n := len(o.DefaultStrip)
	for row := range out {
		out[row] = o.DefaultStrip[(i+row)%n]
	}
	return out
}

// fit resizes s to the row count, cycling its own symbols when it is too short.
func (o Options) fit(i int, s domain.Strip) domain.Strip {
	if len(s) == 0 {
		return o.stripFor(i)
	}
	out := make(domain.Strip, o.Rows)
	for row := range out {
		out[row] = s[row%len(s)]
	}
	return out
}
