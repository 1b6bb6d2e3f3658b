// Package leaktest holds goroutine-leak assertions for teardown tests.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	settleTimeout  = 2 * time.Second
	settleInterval = 10 * time.Millisecond
)

// GoroutineChecker records the goroutine count before a test body runs.
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker creates a new checker and records the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()

	runtime.Gosched()
	time.Sleep(settleInterval)

	return &GoroutineChecker{
		before: runtime.NumGoroutine(),
		t:      t,
	}
}

// Check fails the test if more than tolerance goroutines are still alive after
// the settle timeout. Goroutines that are merely slow to exit are waited for.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	after := settle(g.before + tolerance)
	if leaked := after - g.before; leaked > tolerance {
		g.t.Errorf("Potential goroutine leak: before=%d, after=%d, leaked=%d (tolerance=%d)",
			g.before, after, leaked, tolerance)
	}
}

// CheckNoGoroutineLeak runs fn and asserts it left no goroutines behind.
func CheckNoGoroutineLeak(t *testing.T, fn func()) {
	t.Helper()

	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}

// WaitForGoroutines waits until at most target goroutines are alive.
func WaitForGoroutines(t *testing.T, target int, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= target {
			return
		}
		time.Sleep(settleInterval)
	}

	t.Errorf("Timeout waiting for goroutines to complete: current=%d, target=%d",
		runtime.NumGoroutine(), target)
}

func settle(target int) int {
	deadline := time.Now().Add(settleTimeout)
	n := runtime.NumGoroutine()
	for n > target && time.Now().Before(deadline) {
		runtime.Gosched()
		time.Sleep(settleInterval)
		n = runtime.NumGoroutine()
	}
	return n
}
