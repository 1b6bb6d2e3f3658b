package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/flow"
	"github.com/osse101/reelflow/internal/session"
)

type MockSession struct {
	mock.Mock
}

func (m *MockSession) View() session.View {
	args := m.Called()
	return args.Get(0).(session.View)
}

func (m *MockSession) Dispatch(ctx context.Context, ev flow.Event) (bool, error) {
	args := m.Called(ctx, ev)
	return args.Bool(0), args.Error(1)
}

type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) Recent(limit int) []domain.RoundRecord {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.RoundRecord)
}

func idleView() session.View {
	return session.View{SessionID: "s-1", State: flow.StateIdle, Credits: decimal.NewFromInt(100)}
}

func doRequest(h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandleGetState(t *testing.T) {
	svc := &MockSession{}
	svc.On("View").Return(idleView())
	h := NewSessionHandler(svc, &MockHistory{})

	w := doRequest(h.HandleGetState, http.MethodGet, "/state", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var view session.View
	require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
	assert.Equal(t, "s-1", view.SessionID)
	assert.Equal(t, flow.StateIdle, view.State)
	svc.AssertExpectations(t)
}

func TestSessionHandler_SimpleIntents(t *testing.T) {
	tests := []struct {
		name    string
		handler func(h *SessionHandler) http.HandlerFunc
		event   flow.Event
	}{
		{"spin", func(h *SessionHandler) http.HandlerFunc { return h.HandleSpin }, flow.Spin{}},
		{"force stop", func(h *SessionHandler) http.HandlerFunc { return h.HandleForceStop }, flow.ForceStop{}},
		{"autoplay stop", func(h *SessionHandler) http.HandlerFunc { return h.HandleAutoplayStop }, flow.AutoplayStop{}},
		{"popup close", func(h *SessionHandler) http.HandlerFunc { return h.HandlePopupClose }, flow.PopupClosed{}},
		{"free round accept", func(h *SessionHandler) http.HandlerFunc { return h.HandleFreeRoundAccept }, flow.FreeRoundAccept{}},
		{"free round decline", func(h *SessionHandler) http.HandlerFunc { return h.HandleFreeRoundDecline }, flow.FreeRoundDecline{}},
		{"error dismiss", func(h *SessionHandler) http.HandlerFunc { return h.HandleErrorDismiss }, flow.ErrorDismiss{}},
		{"error restore", func(h *SessionHandler) http.HandlerFunc { return h.HandleErrorRestore }, flow.ErrorRestore{}},
		{"history show", func(h *SessionHandler) http.HandlerFunc { return h.HandleHistoryShow }, flow.HistoryRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockSession{}
			svc.On("Dispatch", mock.Anything, tt.event).Return(true, nil)
			svc.On("View").Return(idleView())
			h := NewSessionHandler(svc, &MockHistory{})

			w := doRequest(tt.handler(h), http.MethodPost, "/", "")

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), `"accepted":true`)
			svc.AssertExpectations(t)
		})
	}
}

func TestSessionHandler_AbsorbedIntent(t *testing.T) {
	svc := &MockSession{}
	svc.On("Dispatch", mock.Anything, flow.Spin{}).Return(false, nil)
	svc.On("View").Return(idleView())
	h := NewSessionHandler(svc, &MockHistory{})

	w := doRequest(h.HandleSpin, http.MethodPost, "/spin", "")

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp IntentResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Accepted)
	assert.Equal(t, ErrMsgIntentAbsorbed, resp.Message)
	assert.Equal(t, "s-1", resp.View.SessionID)
}

func TestSessionHandler_DispatchErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"closed", domain.ErrSessionClosed, http.StatusServiceUnavailable, ErrMsgSessionClosedError},
		{"loading", domain.ErrSessionLoading, http.StatusServiceUnavailable, ErrMsgSessionLoadingErr},
		{"deadline", fmt.Errorf("dispatch: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, ErrMsgTimeoutError},
		{"unexpected", assert.AnError, http.StatusInternalServerError, ErrMsgGenericServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockSession{}
			svc.On("Dispatch", mock.Anything, flow.Spin{}).Return(false, tt.err)
			h := NewSessionHandler(svc, &MockHistory{})

			w := doRequest(h.HandleSpin, http.MethodPost, "/spin", "")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantMsg)
			svc.AssertNotCalled(t, "View")
		})
	}
}

func TestHandleAutoplayStart(t *testing.T) {
	t.Run("dispatches settings", func(t *testing.T) {
		svc := &MockSession{}
		svc.On("Dispatch", mock.Anything, mock.MatchedBy(func(ev flow.Event) bool {
			start, ok := ev.(flow.AutoplayStart)
			return ok && start.Settings.Count == 25 &&
				start.Settings.LossLimit.Equal(decimal.NewFromInt(50)) &&
				start.Settings.StopOnFeature
		})).Return(true, nil)
		svc.On("View").Return(idleView())
		h := NewSessionHandler(svc, &MockHistory{})

		w := doRequest(h.HandleAutoplayStart, http.MethodPost, "/autoplay/start",
			`{"count":25,"loss_limit":"50","stop_on_feature":true}`)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("negative limit", func(t *testing.T) {
		svc := &MockSession{}
		h := NewSessionHandler(svc, &MockHistory{})

		w := doRequest(h.HandleAutoplayStart, http.MethodPost, "/autoplay/start", `{"count":10,"win_limit":"-5"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgLimitsNotNegative)
		svc.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})

	t.Run("count out of range", func(t *testing.T) {
		svc := &MockSession{}
		h := NewSessionHandler(svc, &MockHistory{})

		w := doRequest(h.HandleAutoplayStart, http.MethodPost, "/autoplay/start", `{"count":5000}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"count"`)
	})
}

func TestHandleBetChange(t *testing.T) {
	t.Run("dispatches bet", func(t *testing.T) {
		want := domain.Bet{Level: 2, CoinValue: decimal.RequireFromString("0.5"), Line: 10}
		svc := &MockSession{}
		svc.On("Dispatch", mock.Anything, mock.MatchedBy(func(ev flow.Event) bool {
			bc, ok := ev.(flow.BetChange)
			return ok && bc.Bet.Level == want.Level && bc.Bet.Line == want.Line && bc.Bet.CoinValue.Equal(want.CoinValue)
		})).Return(true, nil)
		svc.On("View").Return(idleView())
		h := NewSessionHandler(svc, &MockHistory{})

		w := doRequest(h.HandleBetChange, http.MethodPost, "/bet", `{"level":2,"coin_value":"0.5","line":10}`)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("denied bet answers conflict with the authoritative bet", func(t *testing.T) {
		current := idleView()
		current.Bet = domain.Bet{Level: 1, CoinValue: decimal.NewFromInt(1), Line: 10}
		svc := &MockSession{}
		svc.On("Dispatch", mock.Anything, mock.AnythingOfType("flow.BetChange")).Return(false, nil)
		svc.On("View").Return(current)
		h := NewSessionHandler(svc, &MockHistory{})

		w := doRequest(h.HandleBetChange, http.MethodPost, "/bet", `{"level":9,"coin_value":"1","line":10}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		var resp IntentResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.False(t, resp.Accepted)
		assert.Equal(t, ErrMsgIntentAbsorbed, resp.Message)
		assert.Equal(t, 1, resp.View.Bet.Level)
		svc.AssertExpectations(t)
	})

	t.Run("zero coin value", func(t *testing.T) {
		h := NewSessionHandler(&MockSession{}, &MockHistory{})

		w := doRequest(h.HandleBetChange, http.MethodPost, "/bet", `{"level":1,"coin_value":"0","line":10}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgCoinValuePositive)
	})

	t.Run("malformed body", func(t *testing.T) {
		h := NewSessionHandler(&MockSession{}, &MockHistory{})

		w := doRequest(h.HandleBetChange, http.MethodPost, "/bet", `{"level":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgInvalidRequest)
	})
}

func TestHandleBuyFeatureAndSpeed(t *testing.T) {
	svc := &MockSession{}
	svc.On("Dispatch", mock.Anything, flow.BuyFeature{FeatureID: "bonus"}).Return(true, nil)
	svc.On("Dispatch", mock.Anything, flow.GameSpeedChange{Speed: domain.GameSpeedTurbo}).Return(true, nil)
	svc.On("View").Return(idleView())
	h := NewSessionHandler(svc, &MockHistory{})

	w := doRequest(h.HandleBuyFeature, http.MethodPost, "/buy-feature", `{"feature_id":"bonus"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(h.HandleSpeedChange, http.MethodPost, "/speed", `{"speed":"turbo"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(h.HandleSpeedChange, http.MethodPost, "/speed", `{"speed":"warp"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}

func TestHandleGetHistory(t *testing.T) {
	t.Run("default limit", func(t *testing.T) {
		hist := &MockHistory{}
		hist.On("Recent", defaultHistoryLimit).Return([]domain.RoundRecord{{RoundID: "r-2"}, {RoundID: "r-1"}})
		h := NewSessionHandler(&MockSession{}, hist)

		w := doRequest(h.HandleGetHistory, http.MethodGet, "/history", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var resp HistoryResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp.Rounds, 2)
		assert.Equal(t, "r-2", resp.Rounds[0].RoundID)
		hist.AssertExpectations(t)
	})

	t.Run("limit is capped", func(t *testing.T) {
		hist := &MockHistory{}
		hist.On("Recent", maxHistoryLimit).Return(nil)
		h := NewSessionHandler(&MockSession{}, hist)

		w := doRequest(h.HandleGetHistory, http.MethodGet, "/history?limit=5000", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `{"rounds":[]}`+"\n", w.Body.String())
		hist.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		hist := &MockHistory{}
		h := NewSessionHandler(&MockSession{}, hist)

		w := doRequest(h.HandleGetHistory, http.MethodGet, "/history?limit=abc", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		hist.AssertNotCalled(t, "Recent", mock.Anything)
	})
}
