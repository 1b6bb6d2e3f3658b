package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/event"
)

func record(id string) domain.RoundRecord {
	return domain.RoundRecord{RoundID: id, Bet: decimal.NewFromInt(1), Win: decimal.Zero}
}

func TestRecorder_RecentNewestFirst(t *testing.T) {
	r := NewRecorder(10, time.Hour)
	for i := 1; i <= 4; i++ {
		r.Add(record(fmt.Sprintf("r%d", i)))
	}

	recent := r.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "r4", recent[0].RoundID)
	assert.Equal(t, "r3", recent[1].RoundID)
	assert.Len(t, r.Recent(0), 4)
}

func TestRecorder_EvictsOldest(t *testing.T) {
	r := NewRecorder(2, time.Hour)
	r.Add(record("r1"))
	r.Add(record("r2"))
	r.Add(record("r3"))

	_, ok := r.Get("r1")
	assert.False(t, ok)
	assert.Equal(t, 2, r.Len())
}

func TestRecorder_Expires(t *testing.T) {
	r := NewRecorder(10, 20*time.Millisecond)
	r.Add(record("r1"))

	require.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestRecorder_SubscribesToRoundCompleted(t *testing.T) {
	bus := event.NewMemoryBus()
	r := NewRecorder(10, time.Hour)
	r.Register(bus)

	require.NoError(t, bus.Publish(context.Background(), event.NewRoundCompletedEvent(record("r9"))))
	require.NoError(t, bus.Publish(context.Background(), event.Event{Type: event.RoundCompleted, Payload: "junk"}))

	got, ok := r.Get("r9")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(1).Equal(got.Bet))
	assert.Equal(t, 1, r.Len())
}

func TestRecorder_Clear(t *testing.T) {
	r := NewRecorder(0, time.Hour)
	r.Add(record("r1"))
	r.Clear()
	assert.Empty(t, r.Recent(5))
}
