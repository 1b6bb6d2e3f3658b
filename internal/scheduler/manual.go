package scheduler

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxManualFires bounds Flush so a timer that keeps rescheduling itself fails loudly.
const maxManualFires = 100000

// Manual is a Scheduler driven by a virtual clock. Nothing fires until Advance
// or Flush is called, and timers fire in due order (ties in scheduling order)
// on the calling goroutine.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []*manualTimer

	// AfterFire runs after every fired callback, e.g. to drain an event loop the
	// callback posted to.
	AfterFire func()
}

type manualTimer struct {
	id        uuid.UUID
	at        time.Duration
	seq       uint64
	fn        func()
	cancelled bool
	fired     bool
	owner     *Manual
}

// NewManual returns a manual scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

// After schedules fn at now+d. Negative durations count as zero.
func (m *Manual) After(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{id: uuid.New(), at: m.now + d, seq: m.seq, fn: fn, owner: m}
	m.pending = append(m.pending, t)
	return t
}

// Now returns the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of timers waiting to fire.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Advance moves the clock forward by d, firing every timer that comes due,
// including timers scheduled by callbacks that fall inside the window.
// It returns the number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	fired := 0
	for {
		t := m.popDue(target)
		if t == nil {
			break
		}
		t.fn()
		fired++
		if m.AfterFire != nil {
			m.AfterFire()
		}
	}

	m.mu.Lock()
	if m.now < target {
		m.now = target
	}
	m.mu.Unlock()
	return fired
}

// Flush fires timers in order until none remain and returns the number run.
func (m *Manual) Flush() int {
	fired := 0
	for fired < maxManualFires {
		m.mu.Lock()
		next, ok := m.earliest()
		m.mu.Unlock()
		if !ok {
			return fired
		}
		fired += m.Advance(next - m.Now())
	}
	panic("scheduler: manual flush did not converge")
}

func (m *Manual) popDue(target time.Duration) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, t := range m.pending {
		if t.at > target {
			continue
		}
		if idx < 0 || t.at < m.pending[idx].at || (t.at == m.pending[idx].at && t.seq < m.pending[idx].seq) {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	t := m.pending[idx]
	m.pending = append(m.pending[:idx], m.pending[idx+1:]...)
	t.fired = true
	if t.at > m.now {
		m.now = t.at
	}
	return t
}

func (m *Manual) earliest() (time.Duration, bool) {
	if len(m.pending) == 0 {
		return 0, false
	}
	min := m.pending[0].at
	for _, t := range m.pending[1:] {
		if t.at < min {
			min = t.at
		}
	}
	return min, true
}

func (t *manualTimer) ID() uuid.UUID { return t.id }

func (t *manualTimer) Cancel() bool {
	m := t.owner
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.cancelled || t.fired {
		return false
	}
	t.cancelled = true
	for i, p := range m.pending {
		if p == t {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			break
		}
	}
	return true
}
