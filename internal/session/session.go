// Package session runs one game session: the flow graph, the reel machine and
// the server request actor, all driven from a single loop goroutine.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/event"
	"github.com/osse101/reelflow/internal/flow"
	"github.com/osse101/reelflow/internal/machine"
	"github.com/osse101/reelflow/internal/reel"
	"github.com/osse101/reelflow/internal/scheduler"
	"github.com/osse101/reelflow/internal/worker"
)

// Config holds everything a session needs that is not a collaborator.
type Config struct {
	Machine        machine.Options `yaml:"machine"`
	Flow           flow.Config     `yaml:"flow"`
	Timings        reel.Timings    `yaml:"timings"`
	Features       FeatureTimings  `yaml:"features"`
	Autoplay       AutoplayMenu    `yaml:"autoplay"`
	RequestTimeout time.Duration   `yaml:"request_timeout" validate:"min=0"`
	HistoryLimit   int             `yaml:"history_limit" validate:"min=0"`
}

// DefaultConfig returns a five reel session with stock delays.
func DefaultConfig() Config {
	return Config{
		Machine:        machine.DefaultOptions(),
		Flow:           flow.DefaultConfig(),
		Timings:        reel.DefaultTimings(),
		Features:       DefaultFeatureTimings(),
		Autoplay:       DefaultAutoplayMenu(),
		RequestTimeout: DefaultRequestTimeout,
		HistoryLimit:   DefaultHistoryLimit,
	}
}

var validate = validator.New()

// Deps are the collaborators of a session. Only Server is required.
type Deps struct {
	Server          Server
	RequestAdapter  RequestAdapter
	ResponseAdapter ResponseAdapter
	UI              UI
	Features        map[domain.FeatureKind]FeatureRunner
	// Animator defaults to a TimedAnimator on the session scheduler.
	Animator reel.Animator
	// Scheduler defaults to wall clock timers posting onto the session loop.
	// A caller-supplied scheduler must invoke callbacks on the goroutine driving the loop.
	Scheduler scheduler.Scheduler
	// Executor defaults to a worker pool owned by the session.
	Executor Executor
	Bus      event.Bus
	History  History
	Logger   *slog.Logger
	Now      func() time.Time
}

// Session owns one player's game. All state lives on the loop goroutine;
// other goroutines talk to it through Send, Dispatch and View.
type Session struct {
	id       string
	cfg      Config
	loop     *worker.Loop
	flow     *flow.Machine
	coord    *machine.Coordinator
	requests *requestActor
	sched    scheduler.Scheduler
	ui       UI
	features map[domain.FeatureKind]FeatureRunner
	bus      event.Bus
	history  History
	log      *slog.Logger
	now      func() time.Time

	timers *scheduler.Timers
	pool   *worker.Pool

	ctx    context.Context
	cancel context.CancelFunc

	// loop-owned state
	snap       flow.Snapshot
	flowTimers map[flow.TimerName]scheduler.Handle
	rawState   json.RawMessage
	roundID    string
	torn       bool

	view      atomic.Pointer[View]
	started   atomic.Bool
	running   atomic.Bool
	closeOnce sync.Once
	closed    chan struct{}
}

// New wires a session. Nothing runs until Start is posted and the loop is driven.
func New(cfg Config, deps Deps) (*Session, error) {
	if deps.Server == nil {
		return nil, fmt.Errorf("%w: server is required", domain.ErrSessionConfig)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionConfig, err)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}

	s := &Session{
		id:         uuid.NewString(),
		cfg:        cfg,
		flow:       flow.New(cfg.Flow),
		ui:         deps.UI,
		bus:        deps.Bus,
		history:    deps.History,
		now:        deps.Now,
		flowTimers: make(map[flow.TimerName]scheduler.Handle),
		closed:     make(chan struct{}),
	}
	if s.ui == nil {
		s.ui = nopUI{}
	}
	if s.bus == nil {
		s.bus = event.NewMemoryBus()
	}
	if s.now == nil {
		s.now = time.Now
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	s.log = log.With("session", s.id)
	s.loop = worker.NewLoop(s.log)
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.sched = deps.Scheduler
	if s.sched == nil {
		s.timers = scheduler.NewTimers(s.loop)
		s.sched = s.timers
	}

	exec := deps.Executor
	if exec == nil {
		s.pool = worker.NewPool(DefaultPoolWorkers, DefaultPoolQueue)
		s.pool.Start()
		exec = s.pool
	}

	animator := deps.Animator
	if animator == nil {
		animator = reel.NewTimedAnimator(s.sched, cfg.Timings, nil)
	}
	s.features = deps.Features
	if s.features == nil {
		s.features = NewTimedFeatureRunners(s.sched, cfg.Features)
	}

	coord, err := machine.New(cfg.Machine, animator, s.sched, s.listener(), s.log)
	if err != nil {
		s.release(context.Background())
		return nil, err
	}
	s.coord = coord

	adaptReq := deps.RequestAdapter
	if adaptReq == nil {
		adaptReq = DefaultRequestAdapter
	}
	adaptRes := deps.ResponseAdapter
	if adaptRes == nil {
		adaptRes = DefaultResponseAdapter
	}
	s.requests = &requestActor{
		server:   deps.Server,
		adaptReq: adaptReq,
		adaptRes: adaptRes,
		exec:     exec,
		timeout:  cfg.RequestTimeout,
		deliver:  s.deliver,
		log:      s.log,
	}

	s.storeView()
	return s, nil
}

// ID identifies the session runtime.
func (s *Session) ID() string { return s.id }

// Bus returns the bus the session publishes on.
func (s *Session) Bus() event.Bus { return s.bus }

// Start posts the initial transition: the session enters loading and asks for the initial state.
func (s *Session) Start() error {
	if !s.started.CompareAndSwap(false, true) {
		return domain.ErrSessionStarted
	}
	ok := s.loop.Post(func() {
		snap, fx := s.flow.Start()
		s.snap = snap
		s.log.Info(LogMsgSessionStarted, "state", snap.State)
		s.apply(fx)
		s.storeView()
	})
	if !ok {
		return domain.ErrSessionClosed
	}
	return nil
}

// Run drives the loop until ctx is done or the session is closed.
func (s *Session) Run(ctx context.Context) {
	s.running.Store(true)
	s.loop.Run(ctx)
}

// Drain runs queued work on the calling goroutine. Headless runs and tests drive the session with it instead of Run.
func (s *Session) Drain() int {
	return s.loop.Drain()
}

// Send queues ev without waiting. It returns false once the session is closed.
func (s *Session) Send(ev flow.Event) bool {
	return s.post(ev)
}

// Dispatch queues ev and waits until the loop processed it. accepted reports
// whether ev was accepted; absorbed intents, corrective ones included, return false.
// Dispatch needs the loop driven by Run.
func (s *Session) Dispatch(ctx context.Context, ev flow.Event) (bool, error) {
	res := make(chan bool, 1)
	ok := s.loop.Post(func() {
		accepted := s.flow.Handles(s.snap, ev)
		s.handle(ev)
		res <- accepted
	})
	if !ok {
		return false, domain.ErrSessionClosed
	}
	select {
	case accepted := <-res:
		return accepted, nil
	case <-s.closed:
		return false, domain.ErrSessionClosed
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// CheckHealth reports whether the session can take intents: it must be open
// and past its initial state request.
func (s *Session) CheckHealth(context.Context) error {
	select {
	case <-s.closed:
		return domain.ErrSessionClosed
	default:
	}
	if s.View().SessionID == "" {
		return domain.ErrSessionLoading
	}
	return nil
}

// View returns the latest published view.
func (s *Session) View() View {
	return *s.view.Load()
}

// Close tears the session down: every timer is cancelled, the machine is
// destroyed and nothing fires afterwards. Safe to call more than once.
func (s *Session) Close(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		finished := make(chan struct{})
		if s.loop.Post(func() {
			s.teardown()
			close(finished)
		}) {
			if !s.running.Load() {
				s.loop.Drain()
			}
			select {
			case <-finished:
			case <-ctx.Done():
				s.log.Warn(LogMsgTeardownTimedOut, "error", ctx.Err())
				err = ctx.Err()
			}
		} else {
			if s.running.Load() {
				select {
				case <-s.loop.Done():
				case <-ctx.Done():
				}
			}
			s.teardown()
		}
		s.release(ctx)
		close(s.closed)
		s.log.Info(LogMsgSessionClosed)
	})
	return err
}

// teardown runs on the loop.
func (s *Session) teardown() {
	if s.torn {
		return
	}
	s.torn = true
	for name, h := range s.flowTimers {
		h.Cancel()
		delete(s.flowTimers, name)
	}
	if s.coord != nil {
		s.coord.Destroy()
	}
	s.cancel()
}

// release stops what the session owns.
func (s *Session) release(ctx context.Context) {
	s.cancel()
	s.loop.Close()
	if s.timers != nil {
		s.timers.Stop(ctx)
	}
	if s.pool != nil {
		s.pool.Stop()
	}
}

func (s *Session) post(ev flow.Event) bool {
	return s.loop.Post(func() { s.handle(ev) })
}

// handle steps the flow with ev and runs the resulting effects.
func (s *Session) handle(ev flow.Event) {
	if s.torn {
		return
	}
	prev := s.snap
	next, fx := s.flow.Step(prev, ev)
	s.snap = next

	if next.State != prev.State {
		s.log.Debug(LogMsgStateChanged, "from", prev.State, "to", next.State, "event", ev.Kind())
		s.publish(event.NewStateChangedEvent(string(prev.State), string(next.State), string(ev.Kind())))
	} else if len(fx) == 0 {
		s.log.Debug(LogMsgIntentAbsorbed, "state", next.State, "event", ev.Kind())
	}

	if !prev.Ctx.Loaded && next.Ctx.Loaded {
		s.ui.Initialize(s.uiOptions())
	}
	s.apply(fx)
	s.storeView()
}

func (s *Session) uiOptions() UIOptions {
	c := s.snap.Ctx
	return UIOptions{
		SessionID: c.SessionID,
		Credits:   c.Credits,
		Bet:       c.Bet,
		BetAmount: c.BetAmount,
		BetTable:  c.BetTable.Clone(),
		Features:  append([]domain.FeatureOffer(nil), c.Features...),
		Reels:     c.Reels.Clone(),
		GameMode:  c.GameMode,
		GameSpeed: c.GameSpeed,
		Autoplay:  s.cfg.Autoplay.clone(),
	}
}

// apply executes effects in order.
func (s *Session) apply(fx []flow.Effect) {
	for _, e := range fx {
		switch e := e.(type) {
		case flow.SendRequest:
			s.sendRequest(e)
		case flow.MachineSpin:
			if err := s.coord.Spin(); err != nil {
				s.machineFailed("spin", err)
			}
		case flow.MachineProvideStopData:
			if err := s.coord.ProvideStopData(e.Layout); err != nil {
				// Nothing is spinning, so no cycle will report the landing.
				s.machineFailed("provide_stop_data", err)
				s.post(flow.AllReelsStopped{Landing: e.Layout.Clone()})
			}
		case flow.MachineForceStop:
			already := s.coord.Status().ForceStopped
			if err := s.coord.ForceStop(); err != nil {
				s.machineFailed("force_stop", err)
				continue
			}
			// Published once per round, when the machine first goes into force stop.
			if !already {
				s.publish(event.NewForceStoppedEvent(s.roundID, s.snap.Ctx.StopDataReady))
			}
		case flow.MachineNudge:
			if err := s.coord.Nudge(e.Nudges); err != nil {
				s.machineFailed("nudge", err)
				s.post(flow.NudgeComplete{})
			}
		case flow.MachineCascade:
			if err := s.coord.Cascade(e.Layout); err != nil {
				s.machineFailed("cascade", err)
				s.post(flow.CascadeComplete{})
			}
		case flow.MachineRefresh:
			if err := s.coord.Refresh(e.Layout); err != nil {
				s.machineFailed("refresh", err)
			}
		case flow.StartTimer:
			s.startTimer(e.Name, e.Delay)
		case flow.CancelTimer:
			if h, ok := s.flowTimers[e.Name]; ok {
				h.Cancel()
				delete(s.flowTimers, e.Name)
			}
		case flow.ShowPopup:
			s.ui.ShowPopup(e.Popup)
		case flow.ClosePopup:
			s.ui.ClosePopup()
		case flow.ShowWin:
			s.ui.ShowCurrentWin(e.Amount, e.Mode, e.Tickup, e.Delay)
		case flow.SyncBet:
			s.ui.SyncBet(e.Bet, e.Amount)
		case flow.SetVisible:
			s.ui.SetVisible(e.Element, e.Visible)
		case flow.ShowHistory:
			var records []domain.RoundRecord
			if s.history != nil {
				records = s.history.Recent(s.cfg.HistoryLimit)
			}
			s.ui.ShowHistory(records)
		case flow.RunFeature:
			s.runFeature(e)
		case flow.Publish:
			s.publish(s.stamp(e.Event))
		default:
			s.log.Error(LogMsgUnknownEffect, "effect", fmt.Sprintf("%T", e))
		}
	}
}

func (s *Session) sendRequest(e flow.SendRequest) {
	roundID, err := s.requests.send(s.ctx, e.Path, e.Payload)
	if err != nil {
		if errors.Is(err, domain.ErrRequestInFlight) {
			return
		}
		s.log.Warn(LogMsgRequestRejected, "path", e.Path, "error", err)
	}
	if e.Path == domain.PathInit {
		return
	}
	s.roundID = roundID
	c := s.snap.Ctx
	s.publish(event.NewRoundStartedEvent(roundID, e.Path, c.RoundCost, c.GameMode, c.DeferMachineSpin, c.Autoplay.IsActive))
}

func (s *Session) machineFailed(op string, err error) {
	s.log.Warn(LogMsgMachineCallFailed, "op", op, "state", s.snap.State, "error", err)
}

// startTimer replaces any running timer of the same name.
func (s *Session) startTimer(name flow.TimerName, d time.Duration) {
	if h, ok := s.flowTimers[name]; ok {
		h.Cancel()
	}
	var h scheduler.Handle
	h = s.sched.After(d, func() {
		if cur, ok := s.flowTimers[name]; ok && cur == h {
			delete(s.flowTimers, name)
		}
		s.post(flow.TimerFired{Name: name})
	})
	s.flowTimers[name] = h
}

func (s *Session) runFeature(e flow.RunFeature) {
	runner, ok := s.features[e.Kind]
	if !ok || runner == nil {
		s.log.Warn(LogMsgFeatureMissing, "feature", e.Kind)
		s.post(flow.FeatureFinished{Feature: e.Kind, Seq: e.Seq})
		return
	}
	kind, seq := e.Kind, e.Seq
	runner.Initialize(e.Data, FeatureCallbacks{
		OnFinish: func() {
			s.post(flow.FeatureFinished{Feature: kind, Seq: seq})
		},
		OnCurrentStart: func(i int) {
			s.post(flow.FeatureCurrentStart{Feature: kind, Seq: seq, Index: i})
		},
		OnInteraction: func(action string) {
			s.post(flow.FeatureInteraction{Feature: kind, Seq: seq, Action: action})
		},
	})
}

// stamp fills in what only the runtime knows.
func (s *Session) stamp(ev event.Event) event.Event {
	if p, ok := ev.Payload.(event.RoundCompletedPayloadV1); ok {
		p.Record.CompletedAt = s.now()
		if p.Record.SessionID == "" {
			p.Record.SessionID = s.id
		}
		ev.Payload = p
	}
	return ev
}

func (s *Session) publish(ev event.Event) {
	if err := s.bus.Publish(s.ctx, ev.WithSessionID(s.id)); err != nil {
		s.log.Warn(LogMsgPublishFailed, "type", ev.Type, "error", err)
	}
}

// deliver is called from an executor goroutine.
func (s *Session) deliver(c completion) {
	s.loop.Post(func() { s.complete(c) })
}

func (s *Session) complete(c completion) {
	s.requests.done()
	outcome := OutcomeResolved
	if rej, ok := c.event.(flow.RequestRejected); ok {
		outcome = OutcomeRejected
		s.log.Warn(LogMsgRequestRejected, "path", c.path, "error", rej.Err)
	} else {
		s.log.Debug(LogMsgRequestResolved, "path", c.path, "duration", c.duration)
		if c.raw != nil {
			s.rawState = c.raw
		}
	}
	s.publish(event.NewRequestCompletedEvent(c.path, c.duration, outcome))
	if c.event != nil {
		s.handle(c.event)
	}
}

func (s *Session) listener() machine.Listener {
	return machine.ListenerFuncs{
		OnAllReelsStopped: func(landing domain.Layout) {
			s.publish(event.NewReelsStoppedEvent(s.roundID, landing))
			s.post(flow.AllReelsStopped{Landing: landing.Clone()})
		},
		OnNudgeComplete: func() {
			s.post(flow.NudgeComplete{})
		},
		OnCascadeComplete: func() {
			s.post(flow.CascadeComplete{})
		},
		OnReelFault: func(i int, op string, err error) {
			s.log.Warn(LogMsgReelFault, "reel", i, "op", op, "error", err)
			s.publish(event.NewReelFaultEvent(i, op, err))
			s.post(flow.ReelFault{Reel: i, Op: op, Err: err})
		},
	}
}

func (s *Session) storeView() {
	var status machine.Status
	if s.coord != nil {
		status = s.coord.Status()
	}
	v := newView(s.snap, status, s.rawState, s.now())
	if v.SessionID == "" {
		v.SessionID = s.id
	}
	s.view.Store(v)
}
