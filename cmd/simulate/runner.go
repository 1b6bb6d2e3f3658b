package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/reelflow/internal/config"
	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/event"
	"github.com/osse101/reelflow/internal/flow"
	"github.com/osse101/reelflow/internal/gameserver"
	"github.com/osse101/reelflow/internal/history"
	"github.com/osse101/reelflow/internal/scheduler"
	"github.com/osse101/reelflow/internal/session"
)

// tick is the virtual time advanced per step.
const tick = 50 * time.Millisecond

var errStalled = errors.New("simulation stalled")

// Options configures one headless run.
type Options struct {
	Profile         config.Profile
	Rounds          int
	Speed           domain.GameSpeed
	AcceptFreeRound bool
	// MaxVirtual bounds the virtual clock; zero derives it from Rounds.
	MaxVirtual time.Duration
}

// Summary is what a run reports.
type Summary struct {
	Rounds        int
	Wagered       decimal.Decimal
	Won           decimal.Decimal
	StartBalance  decimal.Decimal
	FinalBalance  decimal.Decimal
	Features      int
	BiggestWin    decimal.Decimal
	StopReason    string
	Errors        int
	VirtualTime   time.Duration
	FinalState    flow.State
	RecentRecords []domain.RoundRecord
}

// RTP is won over wagered, zero when nothing was wagered.
func (s Summary) RTP() decimal.Decimal {
	if s.Wagered.IsZero() {
		return decimal.Zero
	}
	return s.Won.Div(s.Wagered)
}

// simulate plays an autoplay run against the in-process simulator on a virtual clock.
func simulate(opts Options, log *slog.Logger) (Summary, error) {
	sim, err := gameserver.NewSimulator(opts.Profile.Server, log)
	if err != nil {
		return Summary{}, err
	}
	sched := scheduler.NewManual()
	bus := event.NewMemoryBus()
	recorder := history.NewRecorder(opts.Rounds+1, 24*time.Hour)
	recorder.Register(bus)

	sum := Summary{
		StartBalance: sim.Balance(),
		Wagered:      decimal.Zero,
		Won:          decimal.Zero,
		BiggestWin:   decimal.Zero,
	}
	bus.Subscribe(event.RoundCompleted, func(_ context.Context, e event.Event) error {
		p, ok := e.Payload.(event.RoundCompletedPayloadV1)
		if !ok {
			return nil
		}
		sum.Rounds++
		sum.Wagered = sum.Wagered.Add(p.Record.Bet)
		sum.Won = sum.Won.Add(p.Record.Win)
		if p.Record.Win.GreaterThan(sum.BiggestWin) {
			sum.BiggestWin = p.Record.Win
		}
		if p.Record.FeatureTriggered {
			sum.Features++
		}
		return nil
	})
	bus.Subscribe(event.AutoplayStopped, func(_ context.Context, e event.Event) error {
		if p, ok := e.Payload.(event.AutoplayStoppedPayloadV1); ok {
			sum.StopReason = p.Reason
		}
		return nil
	})
	bus.Subscribe(event.SessionError, func(context.Context, event.Event) error {
		sum.Errors++
		return nil
	})

	sess, err := session.New(opts.Profile.Session, session.Deps{
		Server:    sim,
		Scheduler: sched,
		Executor:  session.InlineExecutor{},
		Bus:       bus,
		History:   recorder,
		Logger:    log,
	})
	if err != nil {
		return Summary{}, err
	}
	defer sess.Close(context.Background())
	sched.AfterFire = func() { sess.Drain() }

	if err := sess.Start(); err != nil {
		return Summary{}, err
	}
	sess.Drain()

	maxVirtual := opts.MaxVirtual
	if maxVirtual <= 0 {
		maxVirtual = time.Duration(opts.Rounds+1) * time.Minute
	}

	send := func(ev flow.Event) {
		sess.Send(ev)
		sess.Drain()
	}
	if opts.Speed != "" {
		send(flow.GameSpeedChange{Speed: opts.Speed})
	}

	started := false
	for sched.Now() < maxVirtual {
		v := sess.View()
		switch {
		case v.Popup != nil:
			send(popupAnswer(v.Popup, opts.AcceptFreeRound))
		case !started && v.State == flow.StateIdle:
			send(flow.AutoplayStart{Settings: domain.AutoplaySettings{Count: opts.Rounds}})
			started = sess.View().Autoplay.Active
			if !started {
				return finish(sum, sess, sched, recorder), fmt.Errorf("%w: autoplay refused in %s", errStalled, v.State)
			}
		case started && v.State == flow.StateIdle && !v.Autoplay.Active:
			return finish(sum, sess, sched, recorder), nil
		default:
			sched.Advance(tick)
			sess.Drain()
		}
	}
	return finish(sum, sess, sched, recorder), fmt.Errorf("%w after %s of virtual time", errStalled, maxVirtual)
}

// popupAnswer picks the intent that closes a popup.
func popupAnswer(p *domain.Popup, acceptFreeRound bool) flow.Event {
	if p.Kind == domain.PopupFreeRoundIntro {
		if acceptFreeRound {
			return flow.FreeRoundAccept{}
		}
		return flow.FreeRoundDecline{}
	}
	for _, a := range p.Actions {
		switch a {
		case domain.PopupActionRestore:
			return flow.ErrorRestore{}
		case domain.PopupActionDismiss:
			return flow.ErrorDismiss{}
		}
	}
	return flow.PopupClosed{}
}

func finish(sum Summary, sess *session.Session, sched *scheduler.Manual, rec *history.Recorder) Summary {
	v := sess.View()
	sum.FinalBalance = v.Credits
	sum.FinalState = v.State
	sum.VirtualTime = sched.Now()
	sum.RecentRecords = rec.Recent(5)
	return sum
}
