package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/ledger"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/logger"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/profit"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/report"
)

// ReportService builds the owner profit report from the whole ledger.
type ReportService struct {
	store       ledger.Store
	aggregator  *Aggregator
	refCurrency model.Currency
	now         profit.Clock
	logger      logger.Logger

	mu     sync.RWMutex
	latest *report.Table
}

// NewReportService creates a new ReportService. A nil clock uses time.Now.
func NewReportService(
	store ledger.Store,
	aggregator *Aggregator,
	refCurrency model.Currency,
	now profit.Clock,
	log logger.Logger,
) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{
		store:       store,
		aggregator:  aggregator,
		refCurrency: refCurrency,
		now:         now,
		logger:      log,
	}
}

// BuildReport reads the ledger, aggregates it per owner and returns the table.
// The result also becomes the latest report.
func (s *ReportService) BuildReport(ctx context.Context) (*report.Table, error) {
	records, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToReadLedger, err)
	}

	rows, err := s.aggregator.Aggregate(ctx, PartitionByOwner(records), s.refCurrency)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToBuildReport, err)
	}

	table := report.Build(rows, s.refCurrency, s.now().UTC())

	s.mu.Lock()
	s.latest = &table
	s.mu.Unlock()

	return &table, nil
}

// Refresh rebuilds the latest report, logging instead of returning failures.
// It is meant for scheduled runs.
func (s *ReportService) Refresh(ctx context.Context) {
	start := time.Now()
	table, err := s.BuildReport(ctx)
	if err != nil {
		s.logger.Errorf("report refresh failed: %s", err)
		return
	}
	s.logger.Infof("report refreshed: %d owners, %d incomplete, took %s",
		len(table.Rows), len(table.Incomplete), time.Since(start))
}

// Latest returns the most recently built report.
//
// Returns apperrors.ErrReportNotYetAvailable before the first build.
func (s *ReportService) Latest() (*report.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return nil, apperrors.ErrReportNotYetAvailable
	}
	table := *s.latest
	return &table, nil
}
