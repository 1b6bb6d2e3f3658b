package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual_FiresInDueOrder(t *testing.T) {
	m := NewManual()
	var got []string
	m.After(30*time.Millisecond, func() { got = append(got, "c") })
	m.After(10*time.Millisecond, func() { got = append(got, "a") })
	m.After(10*time.Millisecond, func() { got = append(got, "b") })

	assert.Equal(t, 2, m.Advance(10*time.Millisecond))
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, m.Pending())

	assert.Equal(t, 1, m.Advance(20*time.Millisecond))
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 30*time.Millisecond, m.Now())
}

func TestManual_CancelPreventsFire(t *testing.T) {
	m := NewManual()
	fired := false
	h := m.After(time.Second, func() { fired = true })

	assert.True(t, h.Cancel())
	assert.False(t, h.Cancel())
	m.Flush()
	assert.False(t, fired)
}

func TestManual_CancelAfterFireIsNoop(t *testing.T) {
	m := NewManual()
	h := m.After(0, func() {})
	m.Advance(0)
	assert.False(t, h.Cancel())
}

func TestManual_CallbackSchedulesInsideWindow(t *testing.T) {
	m := NewManual()
	var at []time.Duration
	m.After(10*time.Millisecond, func() {
		at = append(at, m.Now())
		m.After(5*time.Millisecond, func() { at = append(at, m.Now()) })
	})

	m.Advance(20 * time.Millisecond)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 15 * time.Millisecond}, at)
}

func TestManual_CallbackCancelsSibling(t *testing.T) {
	m := NewManual()
	fired := false
	var sibling Handle
	m.After(time.Millisecond, func() { sibling.Cancel() })
	sibling = m.After(time.Millisecond, func() { fired = true })

	m.Flush()
	assert.False(t, fired)
}

func TestManual_AfterFireHook(t *testing.T) {
	m := NewManual()
	hooks := 0
	m.AfterFire = func() { hooks++ }
	m.After(0, func() {})
	m.After(time.Second, func() {})

	assert.Equal(t, 2, m.Flush())
	assert.Equal(t, 2, hooks)
}

func TestCancelAll(t *testing.T) {
	m := NewManual()
	a := m.After(time.Second, func() {})
	b := m.After(time.Second, func() {})
	b.Cancel()

	assert.Equal(t, 1, CancelAll(a, b, nil))
	assert.Equal(t, 0, m.Pending())
}
