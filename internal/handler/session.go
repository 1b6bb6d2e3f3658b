package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/flow"
	"github.com/osse101/reelflow/internal/logger"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// SessionHandler exposes player intents of one game session over HTTP.
type SessionHandler struct {
	session SessionService
	history HistoryReader
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(session SessionService, history HistoryReader) *SessionHandler {
	return &SessionHandler{session: session, history: history}
}

// AutoplayRequest starts autoplay with the given stop conditions.
type AutoplayRequest struct {
	Count         int             `json:"count" validate:"required,min=-1,max=1000"`
	WinLimit      decimal.Decimal `json:"win_limit"`
	LossLimit     decimal.Decimal `json:"loss_limit"`
	StopOnFeature bool            `json:"stop_on_feature"`
}

// BetRequest picks a bet from the bet table.
type BetRequest struct {
	Level     int             `json:"level" validate:"required,min=1"`
	CoinValue decimal.Decimal `json:"coin_value"`
	Line      int             `json:"line" validate:"required,min=1"`
}

// BuyFeatureRequest names the feature to buy.
type BuyFeatureRequest struct {
	FeatureID string `json:"feature_id" validate:"required,max=64"`
}

// SpeedRequest changes the game speed.
type SpeedRequest struct {
	Speed string `json:"speed" validate:"required,oneof=normal fast turbo"`
}

// HandleGetState returns the current session view.
func (h *SessionHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.session.View())
}

// HandleSpin requests a spin.
func (h *SessionHandler) HandleSpin(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, flow.Spin{})
}

// HandleForceStop requests the reels to land early.
func (h *SessionHandler) HandleForceStop(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, flow.ForceStop{})
}

// HandleAutoplayStart starts autoplay.
func (h *SessionHandler) HandleAutoplayStart(w http.ResponseWriter, r *http.Request) {
	var req AutoplayRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Autoplay start"); err != nil {
		return
	}
	if req.WinLimit.IsNegative() || req.LossLimit.IsNegative() {
		respondError(w, http.StatusBadRequest, ErrMsgLimitsNotNegative)
		return
	}
	h.dispatch(w, r, flow.AutoplayStart{Settings: domain.AutoplaySettings{
		Count:         req.Count,
		WinLimit:      req.WinLimit,
		LossLimit:     req.LossLimit,
		StopOnFeature: req.StopOnFeature,
	}})
}

// HandleAutoplayStop stops autoplay after the current round.
func (h *SessionHandler) HandleAutoplayStop(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, flow.AutoplayStop{})
}

// HandleBetChange changes the bet.
func (h *SessionHandler) HandleBetChange(w http.ResponseWriter, r *http.Request) {
	var req BetRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Bet change"); err != nil {
		return
	}
	if !req.CoinValue.IsPositive() {
		respondError(w, http.StatusBadRequest, ErrMsgCoinValuePositive)
		return
	}
	h.dispatch(w, r, flow.BetChange{Bet: domain.Bet{
		Level:     req.Level,
		CoinValue: req.CoinValue,
		Line:      req.Line,
	}})
}

// HandleBuyFeature buys a feature round.
func (h *SessionHandler) HandleBuyFeature(w http.ResponseWriter, r *http.Request) {
	var req BuyFeatureRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Buy feature"); err != nil {
		return
	}
	h.dispatch(w, r, flow.BuyFeature{FeatureID: req.FeatureID})
}

// HandleSpeedChange changes the game speed.
func (h *SessionHandler) HandleSpeedChange(w http.ResponseWriter, r *http.Request) {
	var req SpeedRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Speed change"); err != nil {
		return
	}
	h.dispatch(w, r, flow.GameSpeedChange{Speed: domain.GameSpeed(req.Speed)})
}

// HandlePopupClose closes the open popup.
func (h *SessionHandler) HandlePopupClose(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, flow.PopupClosed{})
}

// HandleFreeRoundAccept accepts the offered free round.
func (h *SessionHandler) HandleFreeRoundAccept(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, flow.FreeRoundAccept{})
}

// HandleFreeRoundDecline declines the offered free round.
func (h *SessionHandler) HandleFreeRoundDecline(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, flow.FreeRoundDecline{})
}

// HandleErrorDismiss dismisses the error popup.
func (h *SessionHandler) HandleErrorDismiss(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, flow.ErrorDismiss{})
}

// HandleErrorRestore retries after a network error.
func (h *SessionHandler) HandleErrorRestore(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, flow.ErrorRestore{})
}

// HandleHistoryShow opens the history view in the UI.
func (h *SessionHandler) HandleHistoryShow(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, flow.HistoryRequest{})
}

// HandleGetHistory lists recent rounds.
func (h *SessionHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	limit, ok := GetIntQueryParam(r, w, "limit", defaultHistoryLimit, maxHistoryLimit)
	if !ok {
		return
	}
	rounds := h.history.Recent(limit)
	if rounds == nil {
		rounds = []domain.RoundRecord{}
	}
	respondJSON(w, http.StatusOK, HistoryResponse{Rounds: rounds})
}

// dispatch hands the intent to the session. An absorbed intent answers 409 with the unchanged view.
func (h *SessionHandler) dispatch(w http.ResponseWriter, r *http.Request, ev flow.Event) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	accepted, err := h.session.Dispatch(ctx, ev)
	if err != nil {
		log.Warn(LogMsgIntentFailed, "intent", ev.Kind(), "error", err)
		status, msg := mapServiceErrorToUserMessage(err)
		respondError(w, status, msg)
		return
	}

	log.Debug(LogMsgIntentDispatched, "intent", ev.Kind(), "accepted", accepted)
	resp := IntentResponse{Accepted: accepted, Message: MsgIntentAccepted, View: h.session.View()}
	if !accepted {
		resp.Message = ErrMsgIntentAbsorbed
		respondJSON(w, http.StatusConflict, resp)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
