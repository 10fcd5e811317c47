package ledger_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/ledger"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/testutil"
)

func TestCSVStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "save.csv")
	store := ledger.NewCSVStore(path)
	ctx := context.Background()

	buy := testutil.NewPosition().WithOwner("alice").Crypto().WithTicker("BTC").InAccount(model.AccountCrypto).BoughtOn("2021-03-04", 0.125).Build()
	legacy := testutil.NewPosition().WithID("").WithOwner("bob").SoldOn("2022-02-02", 3).Build()
	tranche := testutil.SaleTranche(buy, "2021-09-09", 0.1)
	want := []model.Position{buy, legacy, tranche}

	testutil.SeedLedger(t, store, want...)

	got, err := store.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadAll() =\n%+v\nwant\n%+v", got, want)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if lines[0] != strings.Join(ledger.Columns, ",") {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 4 {
		t.Errorf("file has %d lines, want header plus 3 rows", len(lines))
	}
	if !strings.Contains(lines[1], ",NULL,NULL,") {
		t.Errorf("unsold row %q should carry NULL sentinels", lines[1])
	}
}

func TestCSVStore_MissingFileIsEmpty(t *testing.T) {
	store := ledger.NewCSVStore(filepath.Join(t.TempDir(), "missing.csv"))

	got, err := store.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records, want 0", len(got))
	}
}

func TestReadCSV(t *testing.T) {
	t.Run("legacy header with spaces and absent sentinels", func(t *testing.T) {
		in := "\ufeffCURRENCY,OWNER,STOCK TYPE,ACCOUNT,TICKER,DATE BOUGHT,SHARES BOUGHT,DATE SOLD,SHARES SOLD\n" +
			"usd,alice,stock,tfsa,aapl,2021-01-01,10,NULL,nan\n" +
			"\n" +
			"CAD,bob,CRYPTO,CRYPTO,ETH,2021-02-01,1.5,2021-05-01,0.5\n"

		got, err := ledger.ReadCSV(strings.NewReader(in))
		if err != nil {
			t.Fatalf("ReadCSV() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d records, want 2", len(got))
		}

		first := got[0]
		if first.Currency != model.USD || first.StockType != model.StockTypeStock || first.Account != model.AccountTFSA || first.Ticker != "AAPL" {
			t.Errorf("first record not canonicalized: %+v", first)
		}
		if first.DateSold != nil || first.SharesSold != nil {
			t.Errorf("sentinels should decode as absent: %+v", first)
		}
		if first.ID != "" || first.TrancheOf != "" {
			t.Errorf("legacy record should have no identifiers: %+v", first)
		}

		second := got[1]
		if second.DateSold == nil || !second.DateSold.Equal(testutil.Date("2021-05-01")) {
			t.Errorf("DateSold = %v, want 2021-05-01", second.DateSold)
		}
		if second.SharesSold == nil || *second.SharesSold != 0.5 {
			t.Errorf("SharesSold = %v, want 0.5", second.SharesSold)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		got, err := ledger.ReadCSV(strings.NewReader(""))
		if err != nil || len(got) != 0 {
			t.Errorf("ReadCSV(\"\") = %v, %v; want empty", got, err)
		}
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := ledger.ReadCSV(strings.NewReader("CURRENCY,OWNER\nUSD,alice\n"))
		if err == nil {
			t.Error("expected error for missing columns")
		}
	})

	t.Run("bad number reports the line", func(t *testing.T) {
		in := strings.Join(ledger.Columns[:9], ",") + "\nUSD,alice,STOCK,PERS,AAA,2021-01-01,ten,NULL,NULL\n"
		_, err := ledger.ReadCSV(strings.NewReader(in))
		if err == nil || !strings.Contains(err.Error(), "line 2") {
			t.Errorf("error = %v, want line 2", err)
		}
	})
}

func TestIsAbsent(t *testing.T) {
	for _, raw := range []string{"", " ", "NULL", "null", "nan", "NaN", "NAN"} {
		if !ledger.IsAbsent(raw) {
			t.Errorf("IsAbsent(%q) = false, want true", raw)
		}
	}
	for _, raw := range []string{"0", "2021-01-01", "N/A"} {
		if ledger.IsAbsent(raw) {
			t.Errorf("IsAbsent(%q) = true, want false", raw)
		}
	}
}
