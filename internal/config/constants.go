package config

import "time"

// Defaults for values not present in the environment.
const (
	DefaultPort        = 8080
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultEnvironment = "dev"
	DefaultServiceName = "reelflow"
	DefaultVersion     = "dev"
	DefaultHistorySize = 100
	DefaultHistoryTTL  = 24 * time.Hour
	DefaultProfileName = "classic"
	DefaultLanguage    = "en"
)

// Environment variable names.
const (
	EnvPort             = "PORT"
	EnvAPIKey           = "API_KEY"
	EnvLogLevel         = "LOG_LEVEL"
	EnvLogFormat        = "LOG_FORMAT"
	EnvServiceName      = "SERVICE_NAME"
	EnvVersion          = "VERSION"
	EnvEnvironment      = "ENVIRONMENT"
	EnvGameProfile      = "GAME_PROFILE"
	EnvGameServerURL    = "GAME_SERVER_URL"
	EnvGameServerAPIKey = "GAME_SERVER_API_KEY"
	EnvHistorySize      = "HISTORY_SIZE"
	EnvHistoryTTL       = "HISTORY_TTL"
	EnvStartingCredits  = "STARTING_CREDITS"
	EnvSimulatorSeed    = "SIMULATOR_SEED"
	EnvSchemaVersion    = "ENV_SCHEMA_VERSION"
	EnvTrustedProxies   = "TRUSTED_PROXIES"
	EnvExposeSimulator  = "EXPOSE_SIMULATOR"
	EnvLogDir           = "LOG_DIR"
	EnvLanguage         = "UI_LANGUAGE"
)

// ConfigPathProfiles is where the bundled game profiles live.
const ConfigPathProfiles = "configs/profiles/"
