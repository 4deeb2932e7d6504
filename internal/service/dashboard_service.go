// Package service orchestrates workbook loads: fetch, ingest, archive and
// snapshot publication.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/luizfelipehx/vales-analytics/internal/ingest"
	"github.com/luizfelipehx/vales-analytics/internal/models"
	"github.com/luizfelipehx/vales-analytics/internal/store"
)

// ErrNoSnapshot is returned by read paths before the first successful load.
var ErrNoSnapshot = errors.New("no workbook loaded yet")

// WorkbookFetcher downloads workbook bytes from a URL.
type WorkbookFetcher interface {
	FetchWithRetry(ctx context.Context, url string, maxAttempts int) ([]byte, error)
}

// LoadArchive persists load history.
type LoadArchive interface {
	SaveLoad(load *models.Load, records []models.VoucherRecord) error
	RecentLoads(limit int) ([]*models.Load, error)
	LoadRecords(loadID int64) ([]models.VoucherRecord, error)
}

// Config holds the service's workbook-source settings.
type Config struct {
	WorkbookURL   string
	FetchAttempts int
}

// DashboardService runs workbook loads end to end and owns the published
// snapshot. A load that fails at any stage leaves the published snapshot
// untouched; a load that finishes after a newer one is discarded.
type DashboardService struct {
	cfg      Config
	pipeline *ingest.Pipeline
	fetcher  WorkbookFetcher
	archive  LoadArchive
	store    *store.SnapshotStore
	logger   *zap.Logger
}

// NewDashboardService creates the service.
func NewDashboardService(
	cfg Config,
	pipeline *ingest.Pipeline,
	fetcher WorkbookFetcher,
	archive LoadArchive,
	snapshots *store.SnapshotStore,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		cfg:      cfg,
		pipeline: pipeline,
		fetcher:  fetcher,
		archive:  archive,
		store:    snapshots,
		logger:   logger,
	}
}

// RefreshFromURL fetches the configured workbook and loads it.
func (s *DashboardService) RefreshFromURL(ctx context.Context) (*models.Load, error) {
	if s.cfg.WorkbookURL == "" {
		return nil, errors.New("no workbook URL configured")
	}

	// Sequence allocated before the fetch so a refresh started later
	// always supersedes this one, whatever order they finish in.
	seq := s.store.Begin()

	data, err := s.fetcher.FetchWithRetry(ctx, s.cfg.WorkbookURL, s.cfg.FetchAttempts)
	if err != nil {
		return nil, err
	}

	return s.load(seq, s.cfg.WorkbookURL, data)
}

// LoadWorkbook ingests caller-supplied workbook bytes (upload, local file).
func (s *DashboardService) LoadWorkbook(_ context.Context, source string, data []byte) (*models.Load, error) {
	return s.load(s.store.Begin(), source, data)
}

func (s *DashboardService) load(seq uint64, source string, data []byte) (*models.Load, error) {
	result, err := s.pipeline.Load(data)
	if err != nil {
		s.logger.Error("Workbook load failed",
			zap.String("source", source),
			zap.Error(err))
		return nil, err
	}

	load := &models.Load{
		Source:      source,
		SheetName:   result.SheetName,
		RecordCount: len(result.Records),
		LoadedAt:    time.Now().UTC(),
	}
	if err := s.archive.SaveLoad(load, result.Records); err != nil {
		return nil, err
	}

	committed := s.store.Commit(seq, &store.Snapshot{
		Records:   result.Records,
		SheetName: result.SheetName,
		Source:    source,
		LoadedAt:  load.LoadedAt,
	})
	if !committed {
		s.logger.Warn("Load superseded by a newer one, snapshot unchanged",
			zap.String("source", source),
			zap.Uint64("seq", seq))
		return load, nil
	}

	s.logger.Info("Workbook loaded",
		zap.String("source", source),
		zap.String("sheet", result.SheetName),
		zap.Int("records", load.RecordCount))
	return load, nil
}

// Snapshot returns the published snapshot or ErrNoSnapshot.
func (s *DashboardService) Snapshot() (*store.Snapshot, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// RecentLoads lists the load history, newest first.
func (s *DashboardService) RecentLoads(limit int) ([]*models.Load, error) {
	return s.archive.RecentLoads(limit)
}
