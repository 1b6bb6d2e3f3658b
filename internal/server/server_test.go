package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/flow"
	"github.com/osse101/reelflow/internal/gameserver"
	"github.com/osse101/reelflow/internal/session"
)

const testAPIKey = "test-key"

type fakeSession struct {
	mu         sync.Mutex
	view       session.View
	accept     bool
	dispatched []flow.Event
	healthErr  error
}

func (f *fakeSession) ID() string         { return "s-1" }
func (f *fakeSession) View() session.View { return f.view }

func (f *fakeSession) Dispatch(_ context.Context, ev flow.Event) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dispatched = append(f.dispatched, ev)
	return f.accept, nil
}

func (f *fakeSession) last() flow.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.dispatched) == 0 {
		return nil
	}
	return f.dispatched[len(f.dispatched)-1]
}

func (f *fakeSession) setHealth(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.healthErr = err
}

func (f *fakeSession) CheckHealth(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.healthErr
}

type fakeHistory struct{}

func (fakeHistory) Recent(int) []domain.RoundRecord {
	return []domain.RoundRecord{{RoundID: "r-1"}}
}

func bytesOf(n int) io.Reader {
	return bytes.NewReader(make([]byte, n))
}

func newTestServer(t *testing.T, opts Options) (*httptest.Server, *fakeSession) {
	t.Helper()
	sess := &fakeSession{view: session.View{SessionID: "s-1", State: flow.StateIdle}, accept: true}
	opts.APIKey = testAPIKey
	opts.Session = sess
	opts.History = fakeHistory{}
	ts := httptest.NewServer(NewServer(opts).Handler())
	t.Cleanup(ts.Close)
	return ts, sess
}

func call(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set(HeaderAPIKey, testAPIKey)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_SessionRoutes(t *testing.T) {
	ts, sess := newTestServer(t, Options{Profile: "classic"})

	routes := []struct {
		path  string
		body  string
		event flow.Event
	}{
		{"/spin", "", flow.Spin{}},
		{"/force-stop", "", flow.ForceStop{}},
		{"/autoplay/start", `{"count":10}`, flow.AutoplayStart{Settings: domain.AutoplaySettings{Count: 10}}},
		{"/autoplay/stop", "", flow.AutoplayStop{}},
		{"/speed", `{"speed":"fast"}`, flow.GameSpeedChange{Speed: domain.GameSpeedFast}},
		{"/buy-feature", `{"feature_id":"bonus"}`, flow.BuyFeature{FeatureID: "bonus"}},
		{"/popup/close", "", flow.PopupClosed{}},
		{"/free-round/accept", "", flow.FreeRoundAccept{}},
		{"/free-round/decline", "", flow.FreeRoundDecline{}},
		{"/error/dismiss", "", flow.ErrorDismiss{}},
		{"/error/restore", "", flow.ErrorRestore{}},
		{"/history/show", "", flow.HistoryRequest{}},
	}

	for _, rt := range routes {
		t.Run(rt.path, func(t *testing.T) {
			resp := call(t, http.MethodPost, ts.URL+"/api/v1/session"+rt.path, rt.body)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			last := sess.last()
			require.NotNil(t, last)
			assert.Equal(t, rt.event.Kind(), last.Kind())
		})
	}

	t.Run("state", func(t *testing.T) {
		resp := call(t, http.MethodGet, ts.URL+"/api/v1/session/state", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var view session.View
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
		assert.Equal(t, flow.StateIdle, view.State)
	})

	t.Run("history", func(t *testing.T) {
		resp := call(t, http.MethodGet, ts.URL+"/api/v1/session/history?limit=5", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("wrong method", func(t *testing.T) {
		resp := call(t, http.MethodGet, ts.URL+"/api/v1/session/spin", "")
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestServer_PublicAndProtected(t *testing.T) {
	ts, sess := newTestServer(t, Options{Profile: "classic"})

	resp, err := http.Get(ts.URL + PathHealthz)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + PathMetrics)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/v1/session/state")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	sess.setHealth(domain.ErrSessionLoading)
	resp, err = http.Get(ts.URL + PathReadyz)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestServer_MountsSimulator(t *testing.T) {
	cfg := gameserver.DefaultConfig()
	cfg.Seed = 7
	sim, err := gameserver.NewSimulator(cfg, nil)
	require.NoError(t, err)

	ts, _ := newTestServer(t, Options{Simulator: sim})

	resp := call(t, http.MethodPost, ts.URL+PathSimulator+"/"+domain.PathInit, "{}")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var st domain.InitialState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.NotEmpty(t, st.SessionID)
}
