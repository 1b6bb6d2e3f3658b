package session

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/flow"
	"github.com/osse101/reelflow/internal/machine"
)

// AutoplayView is the running autoplay as seen from outside.
type AutoplayView struct {
	Active    bool            `json:"active"`
	Stopping  bool            `json:"stopping"`
	Remaining int             `json:"remaining"`
	TotalWin  decimal.Decimal `json:"total_win"`
}

// View is a read-only copy of the session published after every event.
// Other goroutines read it without touching the loop.
type View struct {
	SessionID  string                `json:"session_id"`
	State      flow.State            `json:"state"`
	RoundID    string                `json:"round_id,omitempty"`
	Credits    decimal.Decimal       `json:"credits"`
	Bet        domain.Bet            `json:"bet"`
	BetAmount  decimal.Decimal       `json:"bet_amount"`
	RoundWin   decimal.Decimal       `json:"round_win"`
	TotalWin   decimal.Decimal       `json:"total_win"`
	GameMode   domain.GameMode       `json:"game_mode"`
	GameSpeed  domain.GameSpeed      `json:"game_speed"`
	FreeSpins  int                   `json:"free_spins"`
	FreeRound  *domain.FreeRound     `json:"free_round,omitempty"`
	Autoplay   AutoplayView          `json:"autoplay"`
	Popup      *domain.Popup         `json:"popup,omitempty"`
	Reels      domain.Layout         `json:"reels"`
	Features   []domain.FeatureOffer `json:"features,omitempty"`
	Machine    machine.Status        `json:"machine"`
	RawState   json.RawMessage       `json:"raw_state,omitempty"`
	UpdatedAt  time.Time             `json:"updated_at"`
	SpinLocked bool                  `json:"spin_locked"`
}

func newView(s flow.Snapshot, status machine.Status, raw json.RawMessage, now time.Time) *View {
	c := s.Ctx
	v := &View{
		SessionID: c.SessionID,
		State:     s.State,
		RoundID:   c.RoundID,
		Credits:   c.Credits,
		Bet:       c.Bet,
		BetAmount: c.BetAmount,
		RoundWin:  c.RoundWinAmount,
		TotalWin:  c.TotalWinAmount,
		GameMode:  c.GameMode,
		GameSpeed: c.GameSpeed,
		FreeSpins: c.FreeSpins,
		Autoplay: AutoplayView{
			Active:    c.Autoplay.IsActive,
			Stopping:  c.Autoplay.IsStopped,
			Remaining: c.Autoplay.Count,
			TotalWin:  c.Autoplay.TotalWin,
		},
		Popup:      c.Popup.Clone(),
		Reels:      c.Reels.Clone(),
		Features:   append([]domain.FeatureOffer(nil), c.Features...),
		Machine:    status,
		RawState:   raw,
		UpdatedAt:  now,
		SpinLocked: !flow.CanSpin(&c),
	}
	if c.FreeRound != nil {
		fr := *c.FreeRound
		v.FreeRound = &fr
	}
	return v
}
