// Package repository persists workbook loads and their parsed records to
// SQLite. The published dashboard state lives in memory; this layer is the
// load-history archive behind it.
package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/luizfelipehx/vales-analytics/internal/models"
)

// LoadRepository handles load-history database operations.
type LoadRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLoadRepository creates a new load repository.
func NewLoadRepository(db *sql.DB, logger *zap.Logger) *LoadRepository {
	return &LoadRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new load row and fills in its generated ID.
func (r *LoadRepository) Create(tx *sql.Tx, load *models.Load) error {
	query := `
		INSERT INTO workbook_loads (source, sheet_name, record_count, loaded_at)
		VALUES (?, ?, ?, ?)
	`

	var result sql.Result
	var err error

	if tx != nil {
		result, err = tx.Exec(query, load.Source, load.SheetName, load.RecordCount, load.LoadedAt)
	} else {
		result, err = r.db.Exec(query, load.Source, load.SheetName, load.RecordCount, load.LoadedAt)
	}
	if err != nil {
		r.logger.Error("Failed to create load", zap.Error(err))
		return fmt.Errorf("failed to create load: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	load.ID = id
	return nil
}

// ListRecent returns the most recent loads, newest first.
func (r *LoadRepository) ListRecent(limit int) ([]*models.Load, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, source, sheet_name, record_count, loaded_at
		FROM workbook_loads
		ORDER BY loaded_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		r.logger.Error("Failed to list loads", zap.Error(err))
		return nil, fmt.Errorf("failed to list loads: %w", err)
	}
	defer rows.Close()

	var loads []*models.Load
	for rows.Next() {
		var load models.Load
		if err := rows.Scan(&load.ID, &load.Source, &load.SheetName, &load.RecordCount, &load.LoadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan load: %w", err)
		}
		loads = append(loads, &load)
	}

	return loads, rows.Err()
}
