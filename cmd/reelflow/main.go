// Command reelflow serves one game session over HTTP: player intents in,
// session state and UI events out over SSE.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/reelflow/internal/bootstrap"
	"github.com/osse101/reelflow/internal/config"
	"github.com/osse101/reelflow/internal/gameserver"
	"github.com/osse101/reelflow/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("reelflow failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()
	for _, w := range warnings {
		slog.Warn("Environment warning", "warning", w)
	}

	bus, hub := bootstrap.InitializeEventSystem()
	recorder := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:    bus,
		Hub:         hub,
		HistorySize: cfg.HistorySize,
		HistoryTTL:  cfg.HistoryTTL,
	})

	backend, sim, err := bootstrap.GameServer(cfg, slog.Default())
	if err != nil {
		return err
	}

	sess, err := bootstrap.NewGameSession(bootstrap.SessionDependencies{
		Config:  cfg,
		Server:  backend,
		Bus:     bus,
		UI:      hub,
		History: recorder,
	})
	if err != nil {
		return err
	}

	// The session loop outlives the signal context so Close can drain it.
	runCtx, stopRun := context.WithCancel(context.Background())
	defer stopRun()
	go sess.Run(runCtx)

	var exposed *gameserver.Simulator
	if cfg.ExposeSimulator {
		exposed = sim
	}
	srv := server.NewServer(server.Options{
		Port:            cfg.Port,
		APIKey:          cfg.APIKey,
		TrustedProxies:  cfg.TrustedProxies,
		Profile:         cfg.Profile.Name,
		Session:         sess,
		History:         recorder,
		Hub:             hub,
		Simulator:       exposed,
		SimulatorAPIKey: cfg.GameServerAPIKey,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:  srv,
		Session: sess,
		Hub:     hub,
	})
	return err
}
