package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.StoreBackend != StoreDynamoDB {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ExpirySweepInterval != time.Minute || cfg.NotifyRetryBaseDelay != 100*time.Millisecond || cfg.NotifyRetryMaxDelay != 2*time.Second {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
	if cfg.NotifyMaxAttempts != 4 || cfg.DefaultPageSize != 20 || cfg.MaxPageSize != 100 || cfg.AdminInboxID != "admin" {
		t.Fatalf("unexpected values: %+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Memory")
	t.Setenv("EXPIRY_SWEEP_INTERVAL", "30s")
	t.Setenv("QUOTES_TABLE", "devis")
	t.Setenv("NOTIFY_MAX_ATTEMPTS", "6")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StoreBackend != StoreMemory || cfg.ExpirySweepInterval != 30*time.Second || cfg.QuotesTable != "devis" || cfg.NotifyMaxAttempts != 6 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "postgres")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("page sizes", func(t *testing.T) {
		t.Setenv("DEFAULT_PAGE_SIZE", "50")
		t.Setenv("MAX_PAGE_SIZE", "10")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error")
		}
	})
}
