package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	ServiceName string
	Version     string
	Environment string
	APIKey      string // API key for the control API

	// LogDir adds a rotating log file next to stdout when set.
	LogDir string
	// Language selects the UI text catalog, e.g. "en" or "de".
	Language string

	// TrustedProxies may set X-Forwarded-For.
	TrustedProxies []string

	// GameProfile is a path to a YAML profile. Empty selects the built-in one.
	GameProfile string
	// GameServerURL points at a remote game server. Empty runs the in-process simulator.
	GameServerURL    string
	GameServerAPIKey string

	HistorySize int
	HistoryTTL  time.Duration

	// ExposeSimulator serves the simulator under /sim for remote clients.
	ExposeSimulator bool

	// StartingCredits overrides the simulator wallet when set.
	StartingCredits decimal.Decimal
	SimulatorSeed   uint64

	Profile Profile
}

// Load loads the configuration from environment variables and the game profile
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:         getEnv(EnvLogLevel, DefaultLogLevel),
		LogFormat:        getEnv(EnvLogFormat, DefaultLogFormat),
		ServiceName:      getEnv(EnvServiceName, DefaultServiceName),
		Version:          getEnv(EnvVersion, DefaultVersion),
		Environment:      getEnv(EnvEnvironment, DefaultEnvironment),
		APIKey:           getEnv(EnvAPIKey, ""),
		LogDir:           getEnv(EnvLogDir, ""),
		Language:         getEnv(EnvLanguage, DefaultLanguage),
		GameProfile:      getEnv(EnvGameProfile, ""),
		GameServerURL:    getEnv(EnvGameServerURL, ""),
		GameServerAPIKey: getEnv(EnvGameServerAPIKey, ""),
		HistorySize:      getEnvAsInt(EnvHistorySize, DefaultHistorySize),
		HistoryTTL:       getEnvAsDuration(EnvHistoryTTL, DefaultHistoryTTL),
		TrustedProxies:   getEnvAsList(EnvTrustedProxies),
		ExposeSimulator:  getEnvAsBool(EnvExposeSimulator, false),
	}

	port, err := strconv.Atoi(getEnv(EnvPort, strconv.Itoa(DefaultPort)))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if raw := getEnv(EnvStartingCredits, ""); raw != "" {
		credits, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid STARTING_CREDITS value: %w", err)
		}
		cfg.StartingCredits = credits
	}

	if raw := getEnv(EnvSimulatorSeed, ""); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SIMULATOR_SEED value: %w", err)
		}
		cfg.SimulatorSeed = seed
	}

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	profile, err := LoadProfile(cfg.GameProfile)
	if err != nil {
		return nil, err
	}
	cfg.applyOverrides(&profile)
	cfg.Profile = profile

	return cfg, nil
}

// applyOverrides lets the environment win over the profile for the simulator wallet and seed.
func (c *Config) applyOverrides(p *Profile) {
	if !c.StartingCredits.IsZero() {
		p.Server.StartingBalance = c.StartingCredits
	}
	if c.SimulatorSeed != 0 {
		p.Server.Seed = c.SimulatorSeed
	}
}

// UsesSimulator reports whether rounds are played against the in-process simulator.
func (c *Config) UsesSimulator() bool {
	return c.GameServerURL == ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
