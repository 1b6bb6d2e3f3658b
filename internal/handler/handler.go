// Package handler holds the HTTP handlers of the session control API.
package handler

import (
	"context"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/flow"
	"github.com/osse101/reelflow/internal/session"
)

// SessionService is the part of a game session the API drives. *session.Session satisfies it.
type SessionService interface {
	View() session.View
	Dispatch(ctx context.Context, ev flow.Event) (bool, error)
}

// HistoryReader serves recent rounds. *history.Recorder satisfies it.
type HistoryReader interface {
	Recent(limit int) []domain.RoundRecord
}
