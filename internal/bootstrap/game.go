package bootstrap

import (
	"fmt"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/osse101/reelflow/internal/config"
	"github.com/osse101/reelflow/internal/event"
	"github.com/osse101/reelflow/internal/gameserver"
	"github.com/osse101/reelflow/internal/session"
	"github.com/osse101/reelflow/internal/ui"
)

var languageMatcher = language.NewMatcher(ui.SupportedLanguages)

// GameServer picks the round backend. The simulator is returned as well so it
// can be mounted over HTTP; it is nil for a remote server.
func GameServer(cfg *config.Config, log *slog.Logger) (session.Server, *gameserver.Simulator, error) {
	if !cfg.UsesSimulator() {
		log.Info(LogMsgUsingRemoteServer, "url", cfg.GameServerURL)
		return gameserver.NewHTTPClient(cfg.GameServerURL, cfg.GameServerAPIKey, GameServerClientTimeout, log), nil, nil
	}

	sim, err := gameserver.NewSimulator(cfg.Profile.Server, log)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateSimulator, err)
	}
	log.Info(LogMsgUsingSimulator, "balance", sim.Balance(), "seed", cfg.Profile.Server.Seed)
	return sim, sim, nil
}

// UILanguage resolves the configured language to a supported catalog.
func UILanguage(raw string) language.Tag {
	tag, err := language.Parse(raw)
	if err != nil {
		slog.Warn(LogMsgLanguageFallback, "language", raw, "error", err)
		return language.English
	}
	_, idx, conf := languageMatcher.Match(tag)
	if conf == language.No {
		slog.Warn(LogMsgLanguageFallback, "language", raw)
		return language.English
	}
	return ui.SupportedLanguages[idx]
}

// SessionDependencies holds what NewGameSession wires together.
type SessionDependencies struct {
	Config  *config.Config
	Server  session.Server
	Bus     event.Bus
	UI      ui.Broadcaster
	History session.History
	Logger  *slog.Logger
}

// NewGameSession builds the session with the presenter as its UI and posts Start.
// The caller drives it with Run.
func NewGameSession(deps SessionDependencies) (*session.Session, error) {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	var presenter session.UI
	if deps.UI != nil {
		presenter = ui.NewPresenter(deps.UI, UILanguage(deps.Config.Language))
	}

	sess, err := session.New(deps.Config.Profile.Session, session.Deps{
		Server:  deps.Server,
		UI:      presenter,
		Bus:     deps.Bus,
		History: deps.History,
		Logger:  log,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateSession, err)
	}
	if err := sess.Start(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedStartSession, err)
	}

	log.Info(LogMsgSessionCreated, "session", sess.ID(), "profile", deps.Config.Profile.Name)
	return sess, nil
}
