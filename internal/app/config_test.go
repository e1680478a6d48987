package app

import (
	"strings"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("POLY_USER", "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200300")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.TelegramChatID != -100200300 {
		t.Fatalf("chat id: %d", cfg.TelegramChatID)
	}
	if cfg.PollIntervalSec != 15 {
		t.Fatalf("expected default interval 15, got=%d", cfg.PollIntervalSec)
	}
	if cfg.Limit != 100 {
		t.Fatalf("expected default limit 100, got=%d", cfg.Limit)
	}
	if cfg.DBPath != "/data/polymarket.sqlite3" {
		t.Fatalf("expected default db path, got=%q", cfg.DBPath)
	}
	if !strings.Contains(cfg.DataAPIURL, "data-api.polymarket.com") {
		t.Fatalf("expected default api url, got=%q", cfg.DataAPIURL)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("POLL_INTERVAL_SEC", "60")
	t.Setenv("LIMIT", "50")
	t.Setenv("DB_PATH", "/tmp/x.sqlite3")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.PollIntervalSec != 60 || cfg.Limit != 50 || cfg.DBPath != "/tmp/x.sqlite3" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfig_BadUser(t *testing.T) {
	setRequired(t)
	t.Setenv("POLY_USER", "not-an-address")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for invalid address")
	}
}

func TestLoadConfig_BadInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("POLL_INTERVAL_SEC", "0")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for zero interval")
	}
}
