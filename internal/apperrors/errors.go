package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// Domain entity errors represent missing or invalid entities in the system.
var (
	// ErrPositionNotFound indicates that a ledger record with the given ID does not exist.
	ErrPositionNotFound = errors.New("position not found")

	// ErrOrphanTranche indicates a sale tranche whose buy record is missing from the ledger.
	ErrOrphanTranche = errors.New("sale tranche references unknown position")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrValidation indicates that a position record violates an invariant.
	ErrValidation = errors.New("validation failed")

	// ErrOversold indicates that the sale tranches of a position exceed the shares bought.
	ErrOversold = errors.New("shares sold exceed shares bought")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrInvalidDateRange indicates that the provided date range is invalid.
	ErrInvalidDateRange = errors.New("invalid date range")
)

// Price source errors.
var (
	// ErrPriceUnavailable indicates an empty or insufficient price series.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrPriceSourceTimeout indicates that a price lookup did not return in time.
	ErrPriceSourceTimeout = errors.New("price source timeout")

	// ErrPriceSource indicates a transport level failure talking to the price source.
	ErrPriceSource = errors.New("price source error")

	// ErrCurrencyConversion indicates that the FX pair lookup failed.
	ErrCurrencyConversion = errors.New("currency conversion failed")
)

// Operation failure errors.
var (
	ErrFailedToReadLedger     = errors.New("failed to read ledger")
	ErrFailedToAppendLedger   = errors.New("failed to append to ledger")
	ErrFailedToBuildReport    = errors.New("failed to build report")
	ErrFailedToRetrieveTrend  = errors.New("failed to retrieve trend")
	ErrReportNotYetAvailable  = errors.New("report not yet available")
	ErrFailedToComputeProfits = errors.New("failed to compute profits")
)

// PriceUnavailableError names the symbol and range for which the price
// source returned no usable data.
type PriceUnavailableError struct {
	Symbol string
	Start  time.Time
	End    time.Time
}

func (e *PriceUnavailableError) Error() string {
	return fmt.Sprintf("%s: no close prices for %s between %s and %s",
		ErrPriceUnavailable, e.Symbol, e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// Unwrap allows errors.Is(err, ErrPriceUnavailable).
func (e *PriceUnavailableError) Unwrap() error {
	return ErrPriceUnavailable
}
