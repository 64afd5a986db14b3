// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath     = "config.toml"
	DefaultBackendTimeout = 15 * time.Second
	DefaultSessionTTL     = 15 * time.Minute
	DefaultSweepSpec      = "@every 1m"
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Discord  DiscordConfig  `toml:"discord"`
	Backend  BackendConfig  `toml:"backend"`
	Session  SessionConfig  `toml:"session"`
	Announce AnnounceConfig `toml:"announce"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DiscordConfig holds the bot token and the guild slash commands are
// registered against.
type DiscordConfig struct {
	BotToken string `toml:"bot_token"`
	GuildID  string `toml:"guild_id"`
	AppID    string `toml:"app_id"`
}

// BackendConfig holds the turn backend base URL, bearer token, and the
// per-request timeout in seconds.
type BackendConfig struct {
	BaseURL        string `toml:"base_url"`
	BearerToken    string `toml:"bearer_token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the backend request timeout as a duration.
func (c BackendConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultBackendTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SessionConfig holds the abandoned roll-session TTL and the cron spec of
// the sweep that reclaims them.
type SessionConfig struct {
	TTLMinutes int    `toml:"ttl_minutes"`
	SweepSpec  string `toml:"sweep_spec"`
}

// TTL returns the session time-to-live as a duration.
func (c SessionConfig) TTL() time.Duration {
	if c.TTLMinutes <= 0 {
		return DefaultSessionTTL
	}
	return time.Duration(c.TTLMinutes) * time.Minute
}

// AnnounceConfig holds the channel completed rolls are broadcast to.
// An empty channel id disables the broadcast.
type AnnounceConfig struct {
	ChannelID string `toml:"channel_id"`
}

// Load reads and parses the TOML config file at path and applies default
// values for missing fields. A missing file is not an error; environment
// overrides are applied by the boot provider, not here.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Session: SessionConfig{
			SweepSpec: DefaultSweepSpec,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
