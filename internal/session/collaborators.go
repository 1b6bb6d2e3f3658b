package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/flow"
	"github.com/osse101/reelflow/internal/worker"
)

// Server is the game server. Request is called at most once per round phase
// before its answer arrives.
type Server interface {
	Request(ctx context.Context, path string, body []byte) (json.RawMessage, error)
}

// Response is what a response adapter extracts from a raw answer.
type Response struct {
	Result  *domain.RoundResult
	Initial *domain.InitialState
}

// RequestAdapter rewrites an outgoing request for a particular game.
type RequestAdapter func(path string, req domain.RoundRequest) (string, any, error)

// ResponseAdapter parses a raw answer into the next round state and the raw state to keep.
type ResponseAdapter func(path string, raw json.RawMessage) (Response, json.RawMessage, error)

// AutoplayMenu lists the choices the UI offers when autoplay is configured.
type AutoplayMenu struct {
	Counts     []int             `json:"counts" yaml:"counts" validate:"dive,min=1"`
	WinLimits  []decimal.Decimal `json:"win_limits,omitempty" yaml:"win_limits"`
	LossLimits []decimal.Decimal `json:"loss_limits,omitempty" yaml:"loss_limits"`
}

// DefaultAutoplayMenu returns the stock autoplay choices.
func DefaultAutoplayMenu() AutoplayMenu {
	return AutoplayMenu{
		Counts:     []int{10, 25, 50, 100},
		WinLimits:  []decimal.Decimal{decimal.NewFromInt(50), decimal.NewFromInt(200)},
		LossLimits: []decimal.Decimal{decimal.NewFromInt(50), decimal.NewFromInt(200)},
	}
}

func (m AutoplayMenu) clone() AutoplayMenu {
	return AutoplayMenu{
		Counts:     append([]int(nil), m.Counts...),
		WinLimits:  append([]decimal.Decimal(nil), m.WinLimits...),
		LossLimits: append([]decimal.Decimal(nil), m.LossLimits...),
	}
}

// UIOptions is handed to the UI once the initial state is known.
type UIOptions struct {
	SessionID string                `json:"session_id"`
	Credits   decimal.Decimal       `json:"credits"`
	Bet       domain.Bet            `json:"bet"`
	BetAmount decimal.Decimal       `json:"bet_amount"`
	BetTable  domain.BetTable       `json:"bet_table"`
	Features  []domain.FeatureOffer `json:"features,omitempty"`
	Reels     domain.Layout         `json:"reels"`
	GameMode  domain.GameMode       `json:"game_mode"`
	GameSpeed domain.GameSpeed      `json:"game_speed"`
	Autoplay  AutoplayMenu          `json:"autoplay"`
}

// UI is the presentation layer. Calls arrive on the session goroutine and must not block.
type UI interface {
	Initialize(opts UIOptions)
	ShowCurrentWin(amount decimal.Decimal, mode domain.WinMode, tickup, delay time.Duration)
	SetVisible(element domain.UIElement, visible bool)
	ShowPopup(popup domain.Popup)
	ClosePopup()
	SyncBet(bet domain.Bet, amount decimal.Decimal)
	ShowHistory(records []domain.RoundRecord)
}

// FeatureCallbacks report feature progress. They may be called from any goroutine.
type FeatureCallbacks struct {
	OnFinish       func()
	OnCurrentStart func(index int)
	OnInteraction  func(action string)
}

// FeatureRunner plays one kind of presentation sequence.
type FeatureRunner interface {
	Initialize(data flow.FeatureData, cb FeatureCallbacks)
}

// History serves recent rounds to the history intent.
type History interface {
	Recent(limit int) []domain.RoundRecord
}

// Executor runs request jobs off the session goroutine. *worker.Pool satisfies it.
type Executor interface {
	Enqueue(job worker.Job) error
}

type nopUI struct{}

func (nopUI) Initialize(UIOptions)                                                         {}
func (nopUI) ShowCurrentWin(decimal.Decimal, domain.WinMode, time.Duration, time.Duration) {}
func (nopUI) SetVisible(domain.UIElement, bool)                                            {}
func (nopUI) ShowPopup(domain.Popup)                                                       {}
func (nopUI) ClosePopup()                                                                  {}
func (nopUI) SyncBet(domain.Bet, decimal.Decimal)                                          {}
func (nopUI) ShowHistory([]domain.RoundRecord)                                             {}
