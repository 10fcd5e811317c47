package config

import (
	"testing"
	"time"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_HOST", "SERVER_PORT", "LEDGER_BACKEND", "DB_PATH", "LEDGER_CSV_PATH",
		"REFERENCE_CURRENCY", "PRICE_TIMEOUT", "PRICE_RETRIES", "PRICE_RATE_PER_MINUTE",
		"AGGREGATE_WORKERS", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != "localhost:5001" {
		t.Errorf("Addr = %s, want localhost:5001", cfg.Server.Addr)
	}
	if cfg.Ledger.Backend != BackendSQLite {
		t.Errorf("Backend = %s, want sqlite", cfg.Ledger.Backend)
	}
	if cfg.Report.ReferenceCurrency != model.CAD {
		t.Errorf("ReferenceCurrency = %s, want CAD", cfg.Report.ReferenceCurrency)
	}
	if cfg.Prices.Timeout != 15*time.Second || cfg.Prices.Retries != 3 || cfg.Prices.RatePerMinute != 120 {
		t.Errorf("Prices = %+v", cfg.Prices)
	}
	if cfg.Report.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Report.Workers)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LEDGER_BACKEND", "CSV")
	t.Setenv("LEDGER_CSV_PATH", "/tmp/ledger.csv")
	t.Setenv("REFERENCE_CURRENCY", "usd")
	t.Setenv("PRICE_TIMEOUT", "3s")
	t.Setenv("AGGREGATE_WORKERS", "16")
	t.Setenv("REPORT_SCHEDULE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Ledger.Backend != BackendCSV || cfg.Ledger.CSVPath != "/tmp/ledger.csv" {
		t.Errorf("Ledger = %+v", cfg.Ledger)
	}
	if cfg.Report.ReferenceCurrency != model.USD {
		t.Errorf("ReferenceCurrency = %s, want USD", cfg.Report.ReferenceCurrency)
	}
	if cfg.Prices.Timeout != 3*time.Second {
		t.Errorf("Timeout = %s, want 3s", cfg.Prices.Timeout)
	}
	if cfg.Report.Workers != 16 {
		t.Errorf("Workers = %d, want 16", cfg.Report.Workers)
	}
	if cfg.Report.Schedule != "" {
		t.Errorf("Schedule = %q, want disabled", cfg.Report.Schedule)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"LEDGER_BACKEND", "postgres"},
		{"REFERENCE_CURRENCY", "GBP"},
		{"PRICE_TIMEOUT", "soon"},
		{"PRICE_RETRIES", "-1"},
		{"AGGREGATE_WORKERS", "zero"},
		{"AGGREGATE_WORKERS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s succeeded", tt.key, tt.value)
			}
		})
	}
}
