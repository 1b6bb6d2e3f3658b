package flow

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/osse101/reelflow/internal/domain"
)

var (
	startReels = domain.Layout{{"A", "B", "C"}, {"A", "B", "C"}, {"A", "B", "C"}}
	finalReels = domain.Layout{{"X", "Y", "Z"}, {"X", "Y", "Z"}, {"X", "Y", "Z"}}
	unitBet    = domain.Bet{Level: 1, CoinValue: decimal.NewFromInt(1), Line: 1}
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func initialState(balance int64) domain.InitialState {
	return domain.InitialState{
		SessionID: "session-1",
		Balance:   dec(balance),
		Reels:     startReels.Clone(),
		BetTable: domain.BetTable{
			Levels:     []int{1, 2, 5},
			CoinValues: []decimal.Decimal{dec(1)},
			Lines:      []int{1},
		},
		DefaultBet: unitBet,
		GameMode:   domain.GameModeBase,
		Features:   []domain.FeatureOffer{{ID: "bonus", CostMultiplier: 50, FreeSpins: 10}},
	}
}

// run drives a Machine one event at a time and keeps the last effects.
type run struct {
	t  *testing.T
	m  *Machine
	s  Snapshot
	fx []Effect
}

func newRun(t *testing.T, initial domain.InitialState) *run {
	t.Helper()
	m := New(DefaultConfig())
	s, _ := m.Start()
	r := &run{t: t, m: m, s: s}
	r.send(RequestResolved{Path: domain.PathInit, Initial: &initial})
	return r
}

func (r *run) send(ev Event) []Effect {
	r.t.Helper()
	r.s, r.fx = r.m.Step(r.s, ev)
	return r.fx
}

func (r *run) state() State { return r.s.State }

func (r *run) ctx() *Context { return &r.s.Ctx }

// fire delivers a pending timer.
func (r *run) fire(name TimerName) []Effect {
	r.t.Helper()
	require.True(r.t, r.ctx().HasTimer(name), "timer %s not pending", name)
	return r.send(TimerFired{Name: name})
}

func (r *run) finish(kind domain.FeatureKind) []Effect {
	r.t.Helper()
	return r.send(FeatureFinished{Feature: kind, Seq: r.ctx().FeatureSeq})
}

// land resolves the in-flight request and lets the reels stop on its layout.
func (r *run) land(res domain.RoundResult) {
	r.t.Helper()
	require.Equal(r.t, StateSpinning, r.state())
	r.send(RequestResolved{Path: r.ctx().RoundPath, Result: &res})
	if r.ctx().HasTimer(TimerMinSpin) {
		r.fire(TimerMinSpin)
	}
	require.False(r.t, r.ctx().IsWaitingForStopData)
	r.send(AllReelsStopped{Landing: res.Reels.Clone()})
}

// playRound spins and lands a plain round, leaving the flow in postWinEvaluation.
func (r *run) playRound(res domain.RoundResult) {
	r.t.Helper()
	r.send(Spin{})
	r.land(res)
}

func result(balance int64) domain.RoundResult {
	return domain.RoundResult{
		RoundID:  "round-1",
		Reels:    finalReels.Clone(),
		Balance:  dec(balance),
		GameMode: domain.GameModeBase,
	}
}

func find[T Effect](fx []Effect) (T, bool) {
	for _, e := range fx {
		if v, ok := e.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func has[T Effect](fx []Effect) bool {
	_, ok := find[T](fx)
	return ok
}

func ofType[T Effect](fx []Effect) []T {
	var out []T
	for _, e := range fx {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
