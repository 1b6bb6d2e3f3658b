package flow

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/event"
)

// Effect is a side effect requested by a transition. The session runtime executes them in order.
type Effect interface {
	effect()
}

// SendRequest starts the single-flight server request for a round phase.
type SendRequest struct {
	Path    string
	Payload domain.RoundRequest
}

type MachineSpin struct{}

type MachineProvideStopData struct{ Layout domain.Layout }

type MachineForceStop struct{}

type MachineNudge struct{ Nudges []domain.Nudge }

type MachineCascade struct{ Layout domain.Layout }

type MachineRefresh struct{ Layout domain.Layout }

type StartTimer struct {
	Name  TimerName
	Delay time.Duration
}

type CancelTimer struct{ Name TimerName }

type ShowPopup struct{ Popup domain.Popup }

type ClosePopup struct{}

// ShowWin updates the win meter.
type ShowWin struct {
	Amount decimal.Decimal
	Mode   domain.WinMode
	Tickup time.Duration
	Delay  time.Duration
}

// FeatureData is handed to a feature runner on start.
type FeatureData struct {
	Wins       []domain.Win
	BigWins    []domain.BigWin
	Amount     decimal.Decimal
	Count      int
	Multiplier int
}

// RunFeature starts a feature presentation. Its callbacks come back tagged with Seq.
type RunFeature struct {
	Kind domain.FeatureKind
	Seq  int
	Data FeatureData
}

// SyncBet pushes the authoritative bet to the UI.
type SyncBet struct {
	Bet    domain.Bet
	Amount decimal.Decimal
}

type SetVisible struct {
	Element domain.UIElement
	Visible bool
}

type ShowHistory struct{}

// Publish forwards a domain event to the bus.
type Publish struct{ Event event.Event }

func (SendRequest) effect()            {}
func (MachineSpin) effect()            {}
func (MachineProvideStopData) effect() {}
func (MachineForceStop) effect()       {}
func (MachineNudge) effect()           {}
func (MachineCascade) effect()         {}
func (MachineRefresh) effect()         {}
func (StartTimer) effect()             {}
func (CancelTimer) effect()            {}
func (ShowPopup) effect()              {}
func (ClosePopup) effect()             {}
func (ShowWin) effect()                {}
func (RunFeature) effect()             {}
func (SyncBet) effect()                {}
func (SetVisible) effect()             {}
func (ShowHistory) effect()            {}
func (Publish) effect()                {}

type effects struct {
	list []Effect
}

func (fx *effects) add(e ...Effect) {
	fx.list = append(fx.list, e...)
}
