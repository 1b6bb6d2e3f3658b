package flow

import (
	"maps"

	"github.com/shopspring/decimal"

	"github.com/osse101/reelflow/internal/domain"
)

// Autoplay holds the running autoplay session.
type Autoplay struct {
	// Count is the number of spins left; negative means unlimited.
	Count          int
	WinLimit       decimal.Decimal
	LossLimit      decimal.Decimal
	IsActive       bool
	IsStopped      bool
	InitialCredits decimal.Decimal
	TotalWin       decimal.Decimal
	Settings       domain.AutoplaySettings
	DisabledByRule bool
}

// Context is the round context threaded through every transition.
// Step works on a deep copy, so a Context held by a caller never changes.
type Context struct {
	SessionID string
	RoundID   string
	RoundPath string
	// Loaded is set once the initial state arrived.
	Loaded bool

	// wager
	Bet       domain.Bet
	BetAmount decimal.Decimal
	BetTable  domain.BetTable
	Features  []domain.FeatureOffer
	FeatureID string

	// economy
	Credits           decimal.Decimal
	PrevCredits       decimal.Decimal
	PendingCredits    decimal.Decimal
	HasPendingCredits bool
	RoundWinAmount    decimal.Decimal
	// RoundCost is what the current round charged, zero for free spins and free rounds.
	RoundCost      decimal.Decimal
	TotalWinAmount decimal.Decimal

	// round results
	Reels      domain.Layout
	FinalReels domain.Layout
	Wins       []domain.Win
	BigWins    []domain.BigWin
	Nudges     []domain.Nudge
	Cascades   []domain.Cascade

	// free spins
	FreeSpins          int
	FreeSpinsUsed      int
	FreeSpinMultiplier int
	FreeSpinExtra      int

	Autoplay Autoplay

	// flow flags
	IsSpinBlocked        bool
	IsSpinning           bool
	IsWaitingForStopData bool
	IsForceStopped       bool
	ReelsInMotion        bool
	DeferMachineSpin     bool
	StopDataReady        bool
	ReelsLanded          bool
	IsWinRunning         bool
	IsBigWinRunning      bool
	IsNudgeRunning       bool
	IsCascadeRunning     bool
	IsAutoplayTick       bool
	FeatureTriggered     bool
	RoundSettled         bool
	GameMode             domain.GameMode
	NextGameMode         domain.GameMode
	GameSpeed            domain.GameSpeed

	FreeRound        *domain.FreeRound
	FreeRoundOffered bool
	Replay           *domain.Replay

	// transient
	Err           error
	Popup         *domain.Popup
	Saved         *Context
	PendingTimers map[TimerName]struct{}
	FeatureSeq    int
}

// NewContext returns the context of a session that has not loaded yet.
func NewContext() Context {
	return Context{
		GameMode:           domain.GameModeBase,
		NextGameMode:       domain.GameModeBase,
		GameSpeed:          domain.GameSpeedNormal,
		FreeSpinMultiplier: 1,
		PendingTimers:      map[TimerName]struct{}{},
	}
}

// Clone returns a deep copy of c.
func (c Context) Clone() Context {
	out := c
	out.BetTable = c.BetTable.Clone()
	out.Features = append([]domain.FeatureOffer(nil), c.Features...)
	out.Reels = c.Reels.Clone()
	out.FinalReels = c.FinalReels.Clone()
	out.Wins = cloneWins(c.Wins)
	out.BigWins = append([]domain.BigWin(nil), c.BigWins...)
	out.Nudges = cloneNudges(c.Nudges)
	out.Cascades = cloneCascades(c.Cascades)
	if c.FreeRound != nil {
		fr := *c.FreeRound
		out.FreeRound = &fr
	}
	if c.Replay != nil {
		rp := *c.Replay
		out.Replay = &rp
	}
	out.Popup = c.Popup.Clone()
	if c.Saved != nil {
		saved := c.Saved.Clone()
		out.Saved = &saved
	}
	out.PendingTimers = maps.Clone(c.PendingTimers)
	if out.PendingTimers == nil {
		out.PendingTimers = map[TimerName]struct{}{}
	}
	return out
}

// HasTimer reports whether a timer with that name is pending.
func (c *Context) HasTimer(name TimerName) bool {
	_, ok := c.PendingTimers[name]
	return ok
}

// InFreeSpins reports whether the current round is played in free-spin mode.
func (c *Context) InFreeSpins() bool {
	return c.GameMode == domain.GameModeFreeSpins
}

// FreeRoundActive reports whether spins are paid by an accepted free-round package.
func (c *Context) FreeRoundActive() bool {
	return c.FreeRound != nil && c.FreeRound.Accepted && c.FreeRound.Remaining > 0
}

// snapshot captures c for rollback.
func (c *Context) snapshot() *Context {
	s := c.Clone()
	s.Saved = nil
	s.Popup = nil
	s.Err = nil
	return &s
}

// restoreFrom re-applies a rollback snapshot. Live bookkeeping that describes
// the outside world or the player's choices (timers, reel motion, feature
// sequence, speed, autoplay) is kept.
func (c *Context) restoreFrom(saved *Context) {
	keep := *c
	*c = saved.Clone()
	c.Saved = keep.Saved
	c.Err = keep.Err
	c.Popup = keep.Popup
	c.PendingTimers = keep.PendingTimers
	c.ReelsInMotion = keep.ReelsInMotion
	c.FeatureSeq = keep.FeatureSeq
	c.GameSpeed = keep.GameSpeed
	c.Autoplay = keep.Autoplay
}

func cloneWins(in []domain.Win) []domain.Win {
	if in == nil {
		return nil
	}
	out := make([]domain.Win, len(in))
	for i, w := range in {
		w.Positions = append([]domain.Position(nil), w.Positions...)
		out[i] = w
	}
	return out
}

func cloneNudges(in []domain.Nudge) []domain.Nudge {
	if in == nil {
		return nil
	}
	out := make([]domain.Nudge, len(in))
	for i, n := range in {
		n.Symbols = n.Symbols.Clone()
		out[i] = n
	}
	return out
}

func cloneCascades(in []domain.Cascade) []domain.Cascade {
	if in == nil {
		return nil
	}
	out := make([]domain.Cascade, len(in))
	for i, c := range in {
		out[i] = domain.Cascade{Layout: c.Layout.Clone(), Wins: cloneWins(c.Wins), Amount: c.Amount}
	}
	return out
}
