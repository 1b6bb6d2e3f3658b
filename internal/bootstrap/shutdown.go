package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/reelflow/internal/server"
	"github.com/osse101/reelflow/internal/session"
	"github.com/osse101/reelflow/internal/sse"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server  *server.Server
	Session *session.Session
	Hub     *sse.Hub
}

// GracefulShutdown stops components in order:
// 1. HTTP server (stop accepting intents)
// 2. Game session (finish in-flight requests and reel work)
// 3. SSE hub (after the session's last events went out)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Session != nil {
		slog.Info(LogMsgClosingSession, "session", components.Session.ID())
		if err := components.Session.Close(ctx); err != nil {
			slog.Error(LogMsgSessionCloseFailed, "error", err)
		}
	}

	if components.Hub != nil {
		slog.Info(LogMsgStoppingEventStream, "clients", components.Hub.ClientCount())
		components.Hub.Stop()
	}

	slog.Info(LogMsgServerStopped)
}
