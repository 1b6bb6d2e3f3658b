package event

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/reelflow/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	handled := false

	bus.Subscribe(RoundStarted, func(ctx context.Context, event Event) error {
		assert.Equal(t, RoundStarted, event.Type)
		p, ok := event.Payload.(RoundStartedPayloadV1)
		require.True(t, ok)
		assert.Equal(t, "r-1", p.RoundID)
		assert.True(t, p.Deferred)
		handled = true
		return nil
	})

	err := bus.Publish(context.Background(), NewRoundStartedEvent("r-1", domain.PathSpin, decimal.NewFromInt(1), domain.GameModeBase, true, false))
	require.NoError(t, err)
	assert.True(t, handled)
}

func TestMemoryBus_PublishMultipleHandlers(t *testing.T) {
	bus := NewMemoryBus()
	count := 0
	handler := func(ctx context.Context, event Event) error {
		count++
		return nil
	}

	bus.Subscribe(ReelFault, handler)
	bus.Subscribe(ReelFault, handler)

	require.NoError(t, bus.Publish(context.Background(), NewReelFaultEvent(2, "stop", errors.New("boom"))))
	assert.Equal(t, 2, count)
}

func TestMemoryBus_PublishError(t *testing.T) {
	bus := NewMemoryBus()
	bus.Subscribe(SessionError, func(ctx context.Context, event Event) error {
		return errors.New("handler error")
	})

	err := bus.Publish(context.Background(), NewSessionErrorEvent("r", &domain.Popup{Kind: domain.PopupNetworkError}))
	assert.Error(t, err)
}

func TestMemoryBus_NoSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	assert.NoError(t, bus.Publish(context.Background(), NewAutoplayStartedEvent(domain.AutoplaySettings{Count: 5})))
}

func TestSubscribeAll(t *testing.T) {
	bus := NewMemoryBus()
	seen := map[Type]int{}
	SubscribeAll(bus, AllTypes, func(ctx context.Context, e Event) error {
		seen[e.Type]++
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), NewForceStoppedEvent("r", true)))
	require.NoError(t, bus.Publish(context.Background(), NewStateChangedEvent("idle", "spinning", "spin")))
	assert.Equal(t, 1, seen[ForceStopped])
	assert.Equal(t, 1, seen[StateChanged])
}

func TestMetadataRoundID(t *testing.T) {
	e := NewReelsStoppedEvent("round-9", domain.Layout{{"A"}})
	assert.Equal(t, "round-9", e.GetMetadataValue(MetadataKeyRoundID))
	assert.Nil(t, NewAutoplayStoppedEvent("count", decimal.Zero).GetMetadataValue(MetadataKeyRoundID))
}

func TestWithSessionID(t *testing.T) {
	orig := NewForceStoppedEvent("round-1", false)
	e := orig.WithSessionID("sess-1")

	assert.Equal(t, "sess-1", e.GetMetadataValue(MetadataKeySessionID))
	assert.Equal(t, "round-1", e.GetMetadataValue(MetadataKeyRoundID))
	assert.Nil(t, orig.GetMetadataValue(MetadataKeySessionID), "original metadata is untouched")

	bare := NewAutoplayStoppedEvent("user", decimal.Zero).WithSessionID("sess-2")
	assert.Equal(t, "sess-2", bare.GetMetadataValue(MetadataKeySessionID))
}
