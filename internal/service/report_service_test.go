package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/repository"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/testutil"
)

func TestReportService(t *testing.T) {
	setup := func(t *testing.T) *testutil.StubSource {
		t.Helper()
		return testutil.NewStubSource().
			WithPoint("AAA", testutil.Date("2023-01-01"), 100).
			WithPoint("AAA", testutil.Date(today), 150)
	}

	t.Run("latest is unavailable before the first build", func(t *testing.T) {
		store := repository.NewPositionRepository(testutil.SetupTestDB(t))
		svc := testutil.NewTestReportService(t, store, setup(t), today)

		if _, err := svc.Latest(); !errors.Is(err, apperrors.ErrReportNotYetAvailable) {
			t.Errorf("Latest() error = %v, want ErrReportNotYetAvailable", err)
		}
	})

	t.Run("builds one row per owner and caches it", func(t *testing.T) {
		store := repository.NewPositionRepository(testutil.SetupTestDB(t))
		testutil.SeedLedger(t, store,
			testutil.NewPosition().WithOwner("alice").WithCurrency(model.CAD).Build(),
			testutil.NewPosition().WithOwner("bob").WithCurrency(model.CAD).InAccount(model.AccountTFSA).Build(),
			testutil.NewPosition().WithOwner("alice").WithCurrency(model.CAD).Build(),
		)
		svc := testutil.NewTestReportService(t, store, setup(t), today)

		table, err := svc.BuildReport(context.Background())
		if err != nil {
			t.Fatalf("BuildReport() error = %v", err)
		}
		if len(table.Rows) != 2 || table.Rows[0].Owner != "alice" || table.Rows[1].Owner != "bob" {
			t.Fatalf("rows = %+v, want alice then bob", table.Rows)
		}
		if table.Rows[0].Personal != 1000 || table.Rows[1].TFSA != 500 {
			t.Errorf("profits = %v / %v, want 1000 / 500", table.Rows[0].Personal, table.Rows[1].TFSA)
		}
		if len(table.Incomplete) != 0 {
			t.Errorf("Incomplete = %v, want none", table.Incomplete)
		}
		if table.ReferenceCurrency != model.CAD {
			t.Errorf("ReferenceCurrency = %s, want CAD", table.ReferenceCurrency)
		}

		latest, err := svc.Latest()
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if !latest.GeneratedAt.Equal(table.GeneratedAt) {
			t.Errorf("Latest() generated at %v, want %v", latest.GeneratedAt, table.GeneratedAt)
		}
	})

	t.Run("refresh fills latest", func(t *testing.T) {
		store := repository.NewPositionRepository(testutil.SetupTestDB(t))
		svc := testutil.NewTestReportService(t, store, setup(t), today)

		svc.Refresh(context.Background())

		latest, err := svc.Latest()
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if len(latest.Rows) != 0 {
			t.Errorf("rows = %v, want empty report", latest.Rows)
		}
	})

	t.Run("ledger read failure aborts the run", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		store := repository.NewPositionRepository(db)
		svc := testutil.NewTestReportService(t, store, setup(t), today)
		db.Close()

		if _, err := svc.BuildReport(context.Background()); !errors.Is(err, apperrors.ErrFailedToReadLedger) {
			t.Errorf("BuildReport() error = %v, want ErrFailedToReadLedger", err)
		}
	})
}
