package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Ledger.MaxRetries != 3 {
		t.Errorf("expected default max retries 3, got %d", cfg.Ledger.MaxRetries)
	}
	if cfg.Import.StagingTTL != 24*time.Hour {
		t.Errorf("expected default staging TTL 24h, got %s", cfg.Import.StagingTTL)
	}
	if cfg.Ledger.DefaultCurrency != "USD" {
		t.Errorf("expected default currency USD, got %s", cfg.Ledger.DefaultCurrency)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("IMPORT_WORKER_CONCURRENCY", "5")
	t.Setenv("IMPORT_STAGING_TTL", "90m")
	t.Setenv("LEDGER_DEFAULT_CURRENCY", "eur")
	t.Setenv("IMPORT_UPLOAD_RATE_LIMIT", "0")
	t.Setenv("IMPORT_UPLOAD_RATE_WINDOW", "30s")

	cfg := Load()

	if cfg.Server.Port != 9191 {
		t.Errorf("expected port 9191, got %d", cfg.Server.Port)
	}
	if cfg.Import.WorkerConcurrency != 5 {
		t.Errorf("expected worker concurrency 5, got %d", cfg.Import.WorkerConcurrency)
	}
	if cfg.Import.StagingTTL != 90*time.Minute {
		t.Errorf("expected staging TTL 90m, got %s", cfg.Import.StagingTTL)
	}
	if cfg.Ledger.DefaultCurrency != "EUR" {
		t.Errorf("expected currency EUR, got %s", cfg.Ledger.DefaultCurrency)
	}
	if cfg.Import.UploadRateLimit != 0 {
		t.Errorf("expected upload throttling disabled, got %d", cfg.Import.UploadRateLimit)
	}
	if cfg.Import.UploadRateWindow != 30*time.Second {
		t.Errorf("expected upload window 30s, got %s", cfg.Import.UploadRateWindow)
	}
}
