package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/luizfelipehx/vales-analytics/internal/models"
)

// Refresher reloads the dashboard from its configured workbook source.
type Refresher interface {
	RefreshFromURL(ctx context.Context) (*models.Load, error)
}

// RefreshPoller periodically refetches the workbook so the dashboard
// tracks edits to the hand-maintained spreadsheet without a manual
// refresh. Failed refreshes are logged and retried on the next tick; the
// published snapshot is never touched by a failed load.
type RefreshPoller struct {
	refresher Refresher
	interval  time.Duration
	logger    *zap.Logger

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
}

// NewRefreshPoller creates a poller with the given refresh interval.
func NewRefreshPoller(refresher Refresher, interval time.Duration, logger *zap.Logger) *RefreshPoller {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &RefreshPoller{
		refresher: refresher,
		interval:  interval,
		logger:    logger,
	}
}

// Start begins the polling loop. The first refresh runs immediately.
func (p *RefreshPoller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("refresh poller is already running")
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.isRunning = true

	p.logger.Info("RefreshPoller started", zap.Duration("interval", p.interval))
	go p.loop(ctx)
	return nil
}

// Stop stops the polling loop.
func (p *RefreshPoller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return
	}
	p.isRunning = false
	p.cancel()
}

// Name returns the worker name for identification.
func (p *RefreshPoller) Name() string {
	return "RefreshPoller"
}

func (p *RefreshPoller) loop(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *RefreshPoller) refresh(ctx context.Context) {
	load, err := p.refresher.RefreshFromURL(ctx)
	if err != nil {
		p.logger.Warn("Scheduled refresh failed", zap.Error(err))
		return
	}

	p.logger.Info("Scheduled refresh completed",
		zap.Int64("load_id", load.ID),
		zap.Int("records", load.RecordCount))
}
