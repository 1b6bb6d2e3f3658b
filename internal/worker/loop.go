package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Loop is a single-goroutine mailbox. Everything posted to it runs one task at a time,
// in post order, on the goroutine that drives it (Run or Drain).
// Post never blocks, so tasks may post follow-up tasks to their own loop.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	signal chan struct{}
	closed bool
	done   chan struct{}
	log    *slog.Logger
}

// NewLoop creates an idle loop.
func NewLoop(log *slog.Logger) *Loop {
	if log == nil {
		log = slog.Default()
	}
	return &Loop{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
		log:    log,
	}
}

// Post enqueues fn. It returns false once the loop is closed; fn is then dropped.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.signal <- struct{}{}:
	default:
	}
	return true
}

// Run processes tasks until ctx is done or Close is called.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		l.Drain()
		select {
		case <-ctx.Done():
			l.Close()
			return
		case <-l.signal:
			if l.isClosed() {
				return
			}
		}
	}
}

// Drain runs queued tasks on the calling goroutine until the queue is empty and
// returns how many ran. Tests use it in place of Run.
func (l *Loop) Drain() int {
	n := 0
	for {
		fn, ok := l.next()
		if !ok {
			return n
		}
		l.runTask(fn)
		n++
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

func (l *Loop) runTask(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error(LogMsgLoopTaskPanicked, "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

// Close drops queued tasks and rejects further posts. Safe to call more than once.
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.queue = nil
	l.mu.Unlock()

	select {
	case l.signal <- struct{}{}:
	default:
	}
}

// Len returns the number of queued tasks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
