// Package ledger persists position records. The ledger is append-only: records
// are never updated or deleted, and sales are expressed as new tranche rows.
package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
)

// Store is a tabular position ledger supporting append and full read.
type Store interface {
	Append(ctx context.Context, p model.Position) error
	ReadAll(ctx context.Context) ([]model.Position, error)
}

// CSVStore keeps the ledger in a comma separated file with a header row.
//
// Appends from one process are serialized. Concurrent writers in separate
// processes can interleave rows; the ledger assumes a single writer.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

// NewCSVStore creates a store backed by the file at path. The file and its
// parent directory are created on first append.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Append writes one row, writing the header first when the file is new.
func (s *CSVStore) Append(ctx context.Context, p model.Position) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat ledger: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Columns); err != nil {
			return fmt.Errorf("failed to write ledger header: %w", err)
		}
	}
	if err := w.Write(EncodeRow(p)); err != nil {
		return fmt.Errorf("failed to write ledger row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush ledger: %w", err)
	}

	return f.Sync()
}

// ReadAll returns every record in file order. A missing file is an empty ledger.
func (s *CSVStore) ReadAll(ctx context.Context) ([]model.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []model.Position{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV decodes a ledger from r. The first row must be the header.
func ReadCSV(r io.Reader) ([]model.Position, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	first, err := reader.Read()
	if err == io.EOF {
		return []model.Position{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger header: %w", err)
	}
	h, err := parseHeader(first)
	if err != nil {
		return nil, err
	}

	positions := []model.Position{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ledger line %d: %w", line, err)
		}
		if isBlank(row) {
			continue
		}
		p, err := h.decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("ledger line %d: %w", line, err)
		}
		positions = append(positions, p)
	}

	return positions, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
