package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/api/request"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/ledger"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/logger"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/validation"
)

// LedgerService handles position business logic on top of an append-only
// ledger store.
type LedgerService struct {
	store  ledger.Store
	logger logger.Logger
}

// NewLedgerService creates a new LedgerService with the provided store.
func NewLedgerService(store ledger.Store, log logger.Logger) *LedgerService {
	return &LedgerService{
		store:  store,
		logger: log,
	}
}

// AddPosition validates a new position, assigns it an ID and appends it.
// A request carrying dateSold and sharesSold records a buy that was already
// sold in one go.
func (s *LedgerService) AddPosition(ctx context.Context, req request.CreatePositionRequest) (*model.Position, error) {
	p, err := validation.ValidateCreatePosition(req)
	if err != nil {
		return nil, err
	}
	p.ID = uuid.New().String()

	if err := s.store.Append(ctx, p); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToAppendLedger, err)
	}

	s.logger.With("id", p.ID, "owner", p.Owner).Infof("recorded %g shares of %s", p.SharesBought, p.MarketSymbol())
	return &p, nil
}

// RecordSale appends a sale tranche against the buy record with the given
// ID. The buy record itself is never modified.
//
// Returns apperrors.ErrPositionNotFound when no buy record has that ID, and a
// validation error when the sale would exceed the remaining shares.
func (s *LedgerService) RecordSale(ctx context.Context, parentID string, req request.CreateSaleRequest) (*model.Position, error) {
	records, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToReadLedger, err)
	}

	var parent *model.Position
	var alreadySold float64
	for i := range records {
		r := records[i]
		switch {
		case r.ID == parentID && !r.IsTranche():
			parent = &records[i]
			if r.IsSold() {
				alreadySold += *r.SharesSold
			}
		case r.TrancheOf == parentID && r.IsSold():
			alreadySold += *r.SharesSold
		}
	}
	if parent == nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrPositionNotFound, parentID)
	}

	dateSold, err := validation.ValidateCreateSale(req, *parent, alreadySold)
	if err != nil {
		return nil, err
	}

	shares := req.SharesSold
	tranche := model.Position{
		ID:           uuid.New().String(),
		TrancheOf:    parent.ID,
		Currency:     parent.Currency,
		Owner:        parent.Owner,
		StockType:    parent.StockType,
		Account:      parent.Account,
		Ticker:       parent.Ticker,
		DateBought:   parent.DateBought,
		SharesBought: parent.SharesBought,
		DateSold:     &dateSold,
		SharesSold:   &shares,
	}
	if err := validation.ValidatePosition(tranche); err != nil {
		return nil, err
	}

	if err := s.store.Append(ctx, tranche); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToAppendLedger, err)
	}

	s.logger.With("id", tranche.ID, "trancheOf", parent.ID).Infof("recorded sale of %g shares of %s", shares, parent.MarketSymbol())
	return &tranche, nil
}

// ListPositions returns the ledger in append order. A non-empty owner limits
// the result to that owner's records.
func (s *LedgerService) ListPositions(ctx context.Context, owner string) ([]model.Position, error) {
	records, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToReadLedger, err)
	}
	if owner == "" {
		return records, nil
	}

	filtered := []model.Position{}
	for _, r := range records {
		if r.Owner == owner {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}
