package repository

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/luizfelipehx/vales-analytics/internal/models"
	"github.com/luizfelipehx/vales-analytics/pkg/database"
)

// Archive combines the load and record repositories behind a single
// transactional save path.
type Archive struct {
	db      *database.DB
	loads   *LoadRepository
	records *RecordRepository
}

// NewArchive creates the archive over one database handle.
func NewArchive(db *database.DB, logger *zap.Logger) *Archive {
	return &Archive{
		db:      db,
		loads:   NewLoadRepository(db.DB, logger),
		records: NewRecordRepository(db.DB, logger),
	}
}

// SaveLoad persists a load and all of its records in one transaction, so a
// failed save leaves no partial history.
func (a *Archive) SaveLoad(load *models.Load, records []models.VoucherRecord) error {
	return a.db.WithTransaction(func(tx *sql.Tx) error {
		if err := a.loads.Create(tx, load); err != nil {
			return err
		}
		return a.records.CreateBatch(tx, load.ID, records)
	})
}

// RecentLoads returns the most recent loads, newest first.
func (a *Archive) RecentLoads(limit int) ([]*models.Load, error) {
	return a.loads.ListRecent(limit)
}

// LoadRecords returns the archived records of one load.
func (a *Archive) LoadRecords(loadID int64) ([]models.VoucherRecord, error) {
	return a.records.GetByLoadID(loadID)
}
