package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Fatalf("unexpected log defaults: %+v", cfg.Log)
	}
	if cfg.Backend.Timeout() != DefaultBackendTimeout {
		t.Fatalf("unexpected backend timeout: %v", cfg.Backend.Timeout())
	}
	if cfg.Session.TTL() != DefaultSessionTTL {
		t.Fatalf("unexpected session ttl: %v", cfg.Session.TTL())
	}
	if cfg.Session.SweepSpec != DefaultSweepSpec {
		t.Fatalf("unexpected sweep spec: %q", cfg.Session.SweepSpec)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[log]
level = "debug"

[discord]
bot_token = "token"
guild_id = "123"

[backend]
base_url = "https://sp.example.com/api"
timeout_seconds = 30

[session]
ttl_minutes = 5
sweep_spec = "@every 30s"

[announce]
channel_id = "456"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("unexpected level: %q", cfg.Log.Level)
	}
	if cfg.Discord.BotToken != "token" || cfg.Discord.GuildID != "123" {
		t.Fatalf("unexpected discord config: %+v", cfg.Discord)
	}
	if cfg.Backend.BaseURL != "https://sp.example.com/api" {
		t.Fatalf("unexpected base url: %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout() != 30*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Backend.Timeout())
	}
	if cfg.Session.TTL() != 5*time.Minute || cfg.Session.SweepSpec != "@every 30s" {
		t.Fatalf("unexpected session config: %+v", cfg.Session)
	}
	if cfg.Announce.ChannelID != "456" {
		t.Fatalf("unexpected announce config: %+v", cfg.Announce)
	}
}
