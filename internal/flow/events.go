package flow

import (
	"github.com/osse101/reelflow/internal/domain"
)

// EventKind keys the transition table.
type EventKind string

const (
	KindSpin                EventKind = "spin"
	KindForceStop           EventKind = "force_stop"
	KindAutoplayStart       EventKind = "autoplay_start"
	KindAutoplayStop        EventKind = "autoplay_stop"
	KindBetChange           EventKind = "bet_change"
	KindBuyFeature          EventKind = "buy_feature"
	KindGameSpeedChange     EventKind = "game_speed_change"
	KindPopupClosed         EventKind = "popup_closed"
	KindFreeRoundAccept     EventKind = "free_round_accept"
	KindFreeRoundDecline    EventKind = "free_round_decline"
	KindErrorDismiss        EventKind = "error_dismiss"
	KindErrorRestore        EventKind = "error_restore"
	KindHistoryRequest      EventKind = "history_request"
	KindRequestResolved     EventKind = "request_resolved"
	KindRequestRejected     EventKind = "request_rejected"
	KindAllReelsStopped     EventKind = "all_reels_stopped"
	KindNudgeComplete       EventKind = "nudge_complete"
	KindCascadeComplete     EventKind = "cascade_complete"
	KindReelFault           EventKind = "reel_fault"
	KindTimerFired          EventKind = "timer_fired"
	KindFeatureFinished     EventKind = "feature_finished"
	KindFeatureCurrentStart EventKind = "feature_current_start"
	KindFeatureInteraction  EventKind = "feature_interaction"
)

// Event is anything the flow reacts to: UI intents and completions.
type Event interface {
	Kind() EventKind
}

// UI intents

type Spin struct{}
type ForceStop struct{}
type AutoplayStart struct{ Settings domain.AutoplaySettings }
type AutoplayStop struct{}
type BetChange struct{ Bet domain.Bet }
type BuyFeature struct{ FeatureID string }
type GameSpeedChange struct{ Speed domain.GameSpeed }
type PopupClosed struct{}
type FreeRoundAccept struct{}
type FreeRoundDecline struct{}
type ErrorDismiss struct{}
type ErrorRestore struct{}
type HistoryRequest struct{}

// Completions

// RequestResolved carries a parsed server response. Initial is set for the init path, Result otherwise.
type RequestResolved struct {
	Path    string
	Result  *domain.RoundResult
	Initial *domain.InitialState
}

// RequestRejected carries a failed request.
type RequestRejected struct {
	Path string
	Err  error
}

type AllReelsStopped struct{ Landing domain.Layout }
type NudgeComplete struct{}
type CascadeComplete struct{}

// ReelFault reports a degraded reel operation. The flow never changes state on it.
type ReelFault struct {
	Reel int
	Op   string
	Err  error
}

type TimerFired struct{ Name TimerName }

// Feature runner callbacks. Seq matches the RunFeature effect that started the feature.
type FeatureFinished struct {
	Feature domain.FeatureKind
	Seq     int
}
type FeatureCurrentStart struct {
	Feature domain.FeatureKind
	Seq     int
	Index   int
}
type FeatureInteraction struct {
	Feature domain.FeatureKind
	Seq     int
	Action  string
}

func (Spin) Kind() EventKind                { return KindSpin }
func (ForceStop) Kind() EventKind           { return KindForceStop }
func (AutoplayStart) Kind() EventKind       { return KindAutoplayStart }
func (AutoplayStop) Kind() EventKind        { return KindAutoplayStop }
func (BetChange) Kind() EventKind           { return KindBetChange }
func (BuyFeature) Kind() EventKind          { return KindBuyFeature }
func (GameSpeedChange) Kind() EventKind     { return KindGameSpeedChange }
func (PopupClosed) Kind() EventKind         { return KindPopupClosed }
func (FreeRoundAccept) Kind() EventKind     { return KindFreeRoundAccept }
func (FreeRoundDecline) Kind() EventKind    { return KindFreeRoundDecline }
func (ErrorDismiss) Kind() EventKind        { return KindErrorDismiss }
func (ErrorRestore) Kind() EventKind        { return KindErrorRestore }
func (HistoryRequest) Kind() EventKind      { return KindHistoryRequest }
func (RequestResolved) Kind() EventKind     { return KindRequestResolved }
func (RequestRejected) Kind() EventKind     { return KindRequestRejected }
func (AllReelsStopped) Kind() EventKind     { return KindAllReelsStopped }
func (NudgeComplete) Kind() EventKind       { return KindNudgeComplete }
func (CascadeComplete) Kind() EventKind     { return KindCascadeComplete }
func (ReelFault) Kind() EventKind           { return KindReelFault }
func (TimerFired) Kind() EventKind          { return KindTimerFired }
func (FeatureFinished) Kind() EventKind     { return KindFeatureFinished }
func (FeatureCurrentStart) Kind() EventKind { return KindFeatureCurrentStart }
func (FeatureInteraction) Kind() EventKind  { return KindFeatureInteraction }
