package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/flow"
	"github.com/osse101/reelflow/internal/worker"
)

// completion is a finished request, delivered back on the session goroutine.
type completion struct {
	path     string
	event    flow.Event
	raw      json.RawMessage
	duration time.Duration
}

// requestActor runs one server request at a time. Every accepted send ends in
// exactly one completion, whether the server answers, fails, or panics.
type requestActor struct {
	server   Server
	adaptReq RequestAdapter
	adaptRes ResponseAdapter
	exec     Executor
	timeout  time.Duration
	deliver  func(completion)
	log      *slog.Logger

	// owned by the session goroutine
	inFlight bool
}

// send starts a request. It returns the round id stamped on the payload.
func (a *requestActor) send(ctx context.Context, path string, req domain.RoundRequest) (string, error) {
	if a.inFlight {
		a.log.Warn(LogMsgRequestDuplicate, "path", path)
		return "", domain.ErrRequestInFlight
	}
	if path != domain.PathInit && req.RoundID == "" {
		req.RoundID = uuid.NewString()
	}

	outPath, payload, err := a.adaptReq(path, req)
	var body []byte
	if err == nil {
		body, err = json.Marshal(payload)
	}
	a.inFlight = true
	if err != nil {
		a.log.Error(LogMsgRequestAdaptFailed, "path", path, "error", err)
		a.deliver(completion{path: path, event: flow.RequestRejected{Path: path, Err: err}})
		return req.RoundID, err
	}

	job := worker.JobFunc(func(context.Context) error {
		return a.run(ctx, path, outPath, body)
	})
	if err := a.exec.Enqueue(job); err != nil {
		a.log.Error(LogMsgRequestEnqueueError, "path", path, "error", err)
		a.deliver(completion{path: path, event: flow.RequestRejected{Path: path, Err: err}})
		return req.RoundID, err
	}
	a.log.Debug(LogMsgRequestSent, "path", path, "round_id", req.RoundID)
	return req.RoundID, nil
}

// run executes on an executor goroutine.
func (a *requestActor) run(ctx context.Context, path, outPath string, body []byte) (err error) {
	start := time.Now()
	c := completion{path: path}
	defer func() {
		if r := recover(); r != nil {
			a.log.Error(LogMsgRequestPanicked, "path", path, "panic", fmt.Sprint(r))
			err = fmt.Errorf("%w: %v", domain.ErrInvalidResponse, r)
			c.event = flow.RequestRejected{Path: path, Err: err}
		}
		c.duration = time.Since(start)
		a.deliver(c)
	}()

	rctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.server.Request(rctx, outPath, body)
	if err != nil {
		c.event = flow.RequestRejected{Path: path, Err: err}
		return err
	}
	resp, state, err := a.adaptRes(path, raw)
	if err != nil {
		a.log.Warn(LogMsgResponseInvalid, "path", path, "error", err)
		c.event = flow.RequestRejected{Path: path, Err: err}
		return err
	}
	c.raw = state
	c.event = flow.RequestResolved{Path: path, Result: resp.Result, Initial: resp.Initial}
	return nil
}

// done marks the request finished. Called on the session goroutine.
func (a *requestActor) done() {
	a.inFlight = false
}

// InlineExecutor runs jobs on the caller's goroutine. Headless runs use it to stay deterministic.
type InlineExecutor struct{}

func (InlineExecutor) Enqueue(job worker.Job) error {
	_ = job.Process(context.Background())
	return nil
}
