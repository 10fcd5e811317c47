// Package bootstrap wires configuration into the ledger store and price
// source shared by the server and the CLI.
package bootstrap

import (
	"database/sql"
	"fmt"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/config"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/database"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/ledger"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/logger"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/pricesource"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/repository"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/yahoo"
)

// OpenLedger opens the configured ledger backend. db is nil for the CSV
// backend; otherwise the caller closes it.
func OpenLedger(cfg config.LedgerConfig) (ledger.Store, *sql.DB, error) {
	switch cfg.Backend {
	case config.BackendCSV:
		return ledger.NewCSVStore(cfg.CSVPath), nil, nil
	case config.BackendSQLite:
		db, err := database.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPositionRepository(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.Backend)
	}
}

// NewPriceSource creates the Yahoo Finance source. PRICE_TIMEOUT bounds each
// HTTP attempt; a whole call, retries and backoff included, is bounded by the
// client's call budget. The returned func releases the HTTP client.
func NewPriceSource(cfg config.PriceConfig, log logger.Logger) (pricesource.Source, func()) {
	opts := priceOptions(cfg)
	client := yahoo.NewFinanceClient(opts, log.With("component", "yahoo"))

	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Warnf("can't close price client: %s", err)
		}
	}
	return pricesource.NewTimeout(client, opts.CallBudget()), closeFn
}

func priceOptions(cfg config.PriceConfig) yahoo.Options {
	return yahoo.Options{
		Timeout:       cfg.Timeout,
		Retries:       cfg.Retries,
		RatePerMinute: cfg.RatePerMinute,
	}
}
