package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/logger"
)

func TestScheduler_Add(t *testing.T) {
	s := New(logger.NewNop())

	if err := s.Add("refresh", "@every 1h", func(context.Context) {}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add("nightly", "0 6 * * *", func(context.Context) {}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add("broken", "every now and then", func(context.Context) {}); err == nil {
		t.Error("Add() with invalid spec succeeded")
	}

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestScheduler_RunsAndStops(t *testing.T) {
	s := New(logger.NewNop())

	ran := make(chan struct{}, 1)
	stopped := make(chan struct{})
	err := s.Add("tick", "@every 1s", func(ctx context.Context) {
		select {
		case ran <- struct{}{}:
		default:
		}
		<-ctx.Done()
		close(stopped)
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	s.Start()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Stop(ctx)

	select {
	case <-stopped:
	default:
		t.Error("job context was not cancelled by Stop")
	}
}
