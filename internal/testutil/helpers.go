package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/ledger"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/logger"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/pricesource"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/profit"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/repository"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/service"
)

// Date parses a YYYY-MM-DD date in UTC and panics on malformed input.
func Date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// DatePtr is Date returning a pointer.
func DatePtr(s string) *time.Time {
	t := Date(s)
	return &t
}

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 {
	return &v
}

// FixedClock returns a clock stuck at the given YYYY-MM-DD date.
func FixedClock(s string) profit.Clock {
	t := Date(s)
	return func() time.Time { return t }
}

// MakeID generates a random UUID for test records.
func MakeID() string {
	return uuid.New().String()
}

// SeedLedger appends records to store in order and fails the test on error.
func SeedLedger(t *testing.T, store ledger.Store, records ...model.Position) {
	t.Helper()
	for _, r := range records {
		if err := store.Append(context.Background(), r); err != nil {
			t.Fatalf("Failed to seed ledger: %v", err)
		}
	}
}

// NewTestLedgerService creates a LedgerService over the SQLite ledger in db.
func NewTestLedgerService(t *testing.T, db *sql.DB) *service.LedgerService {
	t.Helper()
	return service.NewLedgerService(repository.NewPositionRepository(db), logger.NewNop())
}

// NewTestReportService creates a ReportService over store and source with
// a fixed clock and CAD as reference currency.
func NewTestReportService(t *testing.T, store ledger.Store, source pricesource.Source, today string) *service.ReportService {
	t.Helper()
	clock := FixedClock(today)
	agg := service.NewAggregator(source, clock, 4, logger.NewNop())
	return service.NewReportService(store, agg, model.CAD, clock, logger.NewNop())
}

// NewTestSystemService creates a SystemService backed by db.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db, "sqlite")
}
