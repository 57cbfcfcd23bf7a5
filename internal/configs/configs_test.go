package configs

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{"ENVIRONMENT", "PORT", "ALLOWED_ORIGINS", "GRACE_PERIOD_SECONDS", "CHAT_HISTORY_LIMIT"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Environment != "development" {
		t.Fatalf("expected development, got %q", cfg.Environment)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.GracePeriod != 60*time.Second {
		t.Fatalf("expected 60s grace period, got %v", cfg.GracePeriod)
	}
	if cfg.ChatHistoryLimit != 100 {
		t.Fatalf("expected history limit 100, got %d", cfg.ChatHistoryLimit)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Fatalf("expected no allowed origins, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("GRACE_PERIOD_SECONDS", "5")
	t.Setenv("CHAT_HISTORY_LIMIT", "42")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Environment != "production" || cfg.Port != 9000 {
		t.Fatalf("unexpected server settings: %+v", cfg)
	}
	if cfg.GracePeriod != 5*time.Second {
		t.Fatalf("expected 5s grace period, got %v", cfg.GracePeriod)
	}
	if cfg.ChatHistoryLimit != 42 {
		t.Fatalf("expected history limit 42, got %d", cfg.ChatHistoryLimit)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://a.example" || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins not trimmed/split: %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", "PORT", "abc"},
		{"privileged port", "PORT", "80"},
		{"non-numeric grace", "GRACE_PERIOD_SECONDS", "soon"},
		{"zero grace", "GRACE_PERIOD_SECONDS", "0"},
		{"zero history limit", "CHAT_HISTORY_LIMIT", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}
