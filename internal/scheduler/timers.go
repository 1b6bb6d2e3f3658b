package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/reelflow/internal/logger"
)

// Timers is the wall-clock Scheduler. Callbacks run on the timer goroutine, or on
// the loop given to NewTimers. Stop cancels every outstanding timer.
type Timers struct {
	mu      sync.Mutex
	timers  map[uuid.UUID]*timer
	poster  Poster
	stopped bool
}

type timer struct {
	id    uuid.UUID
	t     *time.Timer
	state atomic.Int32
	owner *Timers
}

// NewTimers creates a scheduler. A nil poster runs callbacks on the timer goroutine.
func NewTimers(poster Poster) *Timers {
	return &Timers{
		timers: make(map[uuid.UUID]*timer),
		poster: poster,
	}
}

// After schedules fn. After Stop the returned handle is already cancelled.
func (s *Timers) After(d time.Duration, fn func()) Handle {
	h := &timer{id: uuid.New(), owner: s}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		h.state.Store(stateCancelled)
		return h
	}
	s.timers[h.id] = h
	h.t = time.AfterFunc(d, func() { s.fire(h, fn) })
	return h
}

func (s *Timers) fire(h *timer, fn func()) {
	run := func() {
		if !h.state.CompareAndSwap(statePending, stateFired) {
			return
		}
		s.remove(h.id)
		fn()
	}
	if s.poster == nil {
		run()
		return
	}
	if !s.poster.Post(run) {
		h.state.CompareAndSwap(statePending, stateCancelled)
		s.remove(h.id)
	}
}

func (s *Timers) remove(id uuid.UUID) {
	s.mu.Lock()
	delete(s.timers, id)
	s.mu.Unlock()
}

// Pending returns the number of timers that have neither fired nor been cancelled.
func (s *Timers) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels all outstanding timers; later After calls return cancelled handles.
func (s *Timers) Stop(ctx context.Context) {
	s.mu.Lock()
	s.stopped = true
	pending := s.timers
	s.timers = make(map[uuid.UUID]*timer)
	s.mu.Unlock()

	log := logger.FromContext(ctx)
	for id, h := range pending {
		if h.state.CompareAndSwap(statePending, stateCancelled) {
			h.t.Stop()
			log.Debug(LogMsgTimerCancelledOnStop, "timer_id", id)
		}
	}
}

func (h *timer) ID() uuid.UUID { return h.id }

func (h *timer) Cancel() bool {
	if !h.state.CompareAndSwap(statePending, stateCancelled) {
		return false
	}
	if h.t != nil {
		h.t.Stop()
	}
	h.owner.remove(h.id)
	return true
}
