package service

import (
	"database/sql"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/database"
)

// SystemService handles system-related operations
type SystemService struct {
	db      *sql.DB
	backend string
}

// NewSystemService creates a new SystemService. db is nil when the ledger
// lives in a CSV file.
func NewSystemService(db *sql.DB, backend string) *SystemService {
	return &SystemService{
		db:      db,
		backend: backend,
	}
}

// CheckHealth checks the health of the ledger backend
func (s *SystemService) CheckHealth() error {
	if s.db == nil {
		return nil
	}
	return database.HealthCheck(s.db)
}

// Backend returns the configured ledger backend name.
func (s *SystemService) Backend() string {
	return s.backend
}
