package pricesource_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/pricesource"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/testutil"
)

var (
	start = testutil.Date("2023-01-01")
	end   = testutil.Date("2023-01-05")
)

func TestMemo(t *testing.T) {
	t.Run("caches by symbol and range", func(t *testing.T) {
		src := testutil.NewStubSource().WithCloses("AAA", start, 1, 2, 3, 4, 5)
		memo := pricesource.NewMemo(src)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			points, err := memo.Fetch(ctx, "AAA", start, end)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if len(points) != 5 {
				t.Fatalf("got %d points, want 5", len(points))
			}
		}
		if _, err := memo.Fetch(ctx, "AAA", start, end.AddDate(0, 0, -1)); err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}

		if got := src.Calls("AAA"); got != 2 {
			t.Errorf("source called %d times, want 2", got)
		}
		if memo.Len() != 2 {
			t.Errorf("Len() = %d, want 2", memo.Len())
		}
	})

	t.Run("concurrent identical fetches share one call", func(t *testing.T) {
		src := testutil.NewStubSource().WithCloses("AAA", start, 1).WithDelay(50 * time.Millisecond)
		memo := pricesource.NewMemo(src)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := memo.Fetch(context.Background(), "AAA", start, end); err != nil {
					t.Errorf("Fetch() error = %v", err)
				}
			}()
		}
		wg.Wait()

		if got := src.Calls("AAA"); got != 1 {
			t.Errorf("source called %d times, want 1", got)
		}
	})

	t.Run("failures are not cached", func(t *testing.T) {
		fail := true
		src := pricesource.SourceFunc(func(_ context.Context, _ string, _, _ time.Time) ([]model.PricePoint, error) {
			if fail {
				return nil, errors.New("flaky")
			}
			return []model.PricePoint{{Date: start, Close: 1}}, nil
		})
		memo := pricesource.NewMemo(src)

		if _, err := memo.Fetch(context.Background(), "AAA", start, end); err == nil {
			t.Fatal("expected first fetch to fail")
		}
		fail = false
		points, err := memo.Fetch(context.Background(), "AAA", start, end)
		if err != nil || len(points) != 1 {
			t.Errorf("Fetch() = %v, %v; want one point", points, err)
		}
	})
}

func TestTimeout(t *testing.T) {
	t.Run("slow source times out", func(t *testing.T) {
		src := testutil.NewStubSource().WithCloses("AAA", start, 1).WithDelay(time.Second)
		bounded := pricesource.NewTimeout(src, 20*time.Millisecond)

		_, err := bounded.Fetch(context.Background(), "AAA", start, end)
		if !errors.Is(err, apperrors.ErrPriceSourceTimeout) {
			t.Errorf("error = %v, want ErrPriceSourceTimeout", err)
		}
	})

	t.Run("source ignoring the context still times out", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		src := pricesource.SourceFunc(func(_ context.Context, _ string, _, _ time.Time) ([]model.PricePoint, error) {
			<-release
			return nil, nil
		})

		_, err := pricesource.NewTimeout(src, 20*time.Millisecond).Fetch(context.Background(), "AAA", start, end)
		if !errors.Is(err, apperrors.ErrPriceSourceTimeout) {
			t.Errorf("error = %v, want ErrPriceSourceTimeout", err)
		}
	})

	t.Run("fast source passes through", func(t *testing.T) {
		src := testutil.NewStubSource().WithCloses("AAA", start, 1, 2)
		points, err := pricesource.NewTimeout(src, time.Second).Fetch(context.Background(), "AAA", start, end)
		if err != nil || len(points) != 2 {
			t.Errorf("Fetch() = %v, %v; want two points", points, err)
		}
	})

	t.Run("caller cancellation is not a timeout", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		src := testutil.NewStubSource().WithDelay(time.Second)

		_, err := pricesource.NewTimeout(src, time.Second).Fetch(ctx, "AAA", start, end)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
		if errors.Is(err, apperrors.ErrPriceSourceTimeout) {
			t.Error("cancellation reported as timeout")
		}
	})
}
