package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/luizfelipehx/vales-analytics/internal/models"
)

// RecordRepository handles voucher-record database operations.
type RecordRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRecordRepository creates a new record repository.
func NewRecordRepository(db *sql.DB, logger *zap.Logger) *RecordRepository {
	return &RecordRepository{
		db:     db,
		logger: logger,
	}
}

// CreateBatch inserts all records of one load. Callers run it inside the
// load transaction so a failed load leaves no partial archive.
func (r *RecordRepository) CreateBatch(tx *sql.Tx, loadID int64, records []models.VoucherRecord) error {
	query := `
		INSERT INTO voucher_records (load_id, row_index, employee_name, room, status, value, period)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.Exec(loadID, i, rec.EmployeeName, rec.Room, rec.Status, rec.Value, rec.Period); err != nil {
			r.logger.Error("Failed to insert record",
				zap.Int64("load_id", loadID),
				zap.Int("row_index", i),
				zap.Error(err))
			return fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	return nil
}

// GetByLoadID returns the records of one load in original row order.
func (r *RecordRepository) GetByLoadID(loadID int64) ([]models.VoucherRecord, error) {
	query := `
		SELECT employee_name, room, status, value, period
		FROM voucher_records
		WHERE load_id = ?
		ORDER BY row_index
	`

	rows, err := r.db.Query(query, loadID)
	if err != nil {
		r.logger.Error("Failed to get records", zap.Int64("load_id", loadID), zap.Error(err))
		return nil, fmt.Errorf("failed to get records: %w", err)
	}
	defer rows.Close()

	var records []models.VoucherRecord
	for rows.Next() {
		var rec models.VoucherRecord
		if err := rows.Scan(&rec.EmployeeName, &rec.Room, &rec.Status, &rec.Value, &rec.Period); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
