// Package history keeps the most recent finished rounds in memory.
package history

import (
	"context"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/event"
	"github.com/osse101/reelflow/internal/logger"
)

// Recorder is an LRU of round records with time-based expiry.
type Recorder struct {
	lru *expirable.LRU[string, domain.RoundRecord]
}

// NewRecorder keeps at most size rounds, each for at most ttl.
func NewRecorder(size int, ttl time.Duration) *Recorder {
	if size <= 0 {
		size = DefaultSize
	}
	return &Recorder{
		lru: expirable.NewLRU[string, domain.RoundRecord](size, nil, ttl),
	}
}

// Register subscribes the recorder to finished rounds.
func (r *Recorder) Register(bus event.Bus) {
	bus.Subscribe(event.RoundCompleted, r.HandleRoundCompleted)
}

// HandleRoundCompleted stores the record carried by a round.completed event.
func (r *Recorder) HandleRoundCompleted(ctx context.Context, evt event.Event) error {
	payload, ok := evt.Payload.(event.RoundCompletedPayloadV1)
	if !ok {
		logger.FromContext(ctx).Warn(LogMsgUnexpectedPayload, "type", evt.Type)
		return nil
	}
	r.Add(payload.Record)
	logger.FromContext(ctx).Debug(LogMsgRoundRecorded, "round_id", payload.Record.RoundID)
	return nil
}

// Add stores rec, replacing any record with the same round id.
func (r *Recorder) Add(rec domain.RoundRecord) {
	rec.Reels = rec.Reels.Clone()
	r.lru.Add(rec.RoundID, rec)
}

// Recent returns up to limit records, newest first. A limit <= 0 returns all of them.
func (r *Recorder) Recent(limit int) []domain.RoundRecord {
	values := r.lru.Values()
	slices.Reverse(values)
	if limit > 0 && len(values) > limit {
		values = values[:limit]
	}
	return values
}

// Get returns the record of one round.
func (r *Recorder) Get(roundID string) (domain.RoundRecord, bool) {
	return r.lru.Peek(roundID)
}

// Len returns the number of live records.
func (r *Recorder) Len() int {
	return r.lru.Len()
}

// Clear drops every record.
func (r *Recorder) Clear() {
	r.lru.Purge()
}
