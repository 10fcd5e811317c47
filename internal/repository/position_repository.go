package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
)

// PositionRepository provides data access methods for the position table.
// It implements the append-only ledger on top of SQLite.
type PositionRepository struct {
	db *sql.DB
}

// NewPositionRepository creates a new PositionRepository with the provided database connection.
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// Append inserts one ledger row. Unsold positions store NULL in the sold columns.
func (r *PositionRepository) Append(ctx context.Context, p model.Position) error {
	query := `
		INSERT INTO position (
			id, tranche_of, currency, owner, stock_type, account, ticker,
			date_bought, shares_bought, date_sold, shares_sold
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var dateSold sql.NullString
	if p.DateSold != nil {
		dateSold = sql.NullString{String: p.DateSold.Format("2006-01-02"), Valid: true}
	}
	var sharesSold sql.NullFloat64
	if p.SharesSold != nil {
		sharesSold = sql.NullFloat64{Float64: *p.SharesSold, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		nullIfEmpty(p.ID),
		nullIfEmpty(p.TrancheOf),
		string(p.Currency),
		p.Owner,
		string(p.StockType),
		string(p.Account),
		p.Ticker,
		p.DateBought.Format("2006-01-02"),
		p.SharesBought,
		dateSold,
		sharesSold,
	)
	if err != nil {
		return fmt.Errorf("failed to insert position: %w", err)
	}

	return nil
}

// ReadAll retrieves every ledger row in insertion order.
func (r *PositionRepository) ReadAll(ctx context.Context) ([]model.Position, error) {
	query := `
		SELECT id, tranche_of, currency, owner, stock_type, account, ticker,
			date_bought, shares_bought, date_sold, shares_sold
		FROM position
		ORDER BY seq ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query position table: %w", err)
	}
	defer rows.Close()

	positions := []model.Position{}

	for rows.Next() {
		var (
			p             model.Position
			id, trancheOf sql.NullString
			dateBoughtStr string
			dateSoldStr   sql.NullString
			sharesSold    sql.NullFloat64
			currency      string
			stockType     string
			account       string
		)

		err := rows.Scan(
			&id,
			&trancheOf,
			&currency,
			&p.Owner,
			&stockType,
			&account,
			&p.Ticker,
			&dateBoughtStr,
			&p.SharesBought,
			&dateSoldStr,
			&sharesSold,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position table results: %w", err)
		}

		p.ID = id.String
		p.TrancheOf = trancheOf.String
		p.Currency = model.Currency(currency)
		p.StockType = model.StockType(stockType)
		p.Account = model.Account(account)

		p.DateBought, err = ParseTime(dateBoughtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date_bought: %w", err)
		}

		if dateSoldStr.Valid && dateSoldStr.String != "" {
			var dateSold time.Time
			dateSold, err = ParseTime(dateSoldStr.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse date_sold: %w", err)
			}
			p.DateSold = &dateSold
		}
		if sharesSold.Valid {
			shares := sharesSold.Float64
			p.SharesSold = &shares
		}

		positions = append(positions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position table: %w", err)
	}

	return positions, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
