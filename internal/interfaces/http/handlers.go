package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luizfelipehx/vales-analytics/internal/analytics"
	"github.com/luizfelipehx/vales-analytics/internal/ingest"
	"github.com/luizfelipehx/vales-analytics/internal/models"
	"github.com/luizfelipehx/vales-analytics/internal/service"
)

// maxUploadBytes caps workbook uploads at 20 MiB.
const maxUploadBytes = 20 << 20

// Handlers contains all HTTP request handlers.
type Handlers struct {
	dashboard *service.DashboardService
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(dashboard *service.DashboardService, logger *zap.Logger) *Handlers {
	return &Handlers{dashboard: dashboard, logger: logger}
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "vales-analytics",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// Refresh handles POST /api/v1/refresh: fetches the configured workbook
// URL and reloads the dashboard.
func (h *Handlers) Refresh(c *gin.Context) {
	load, err := h.dashboard.RefreshFromURL(c.Request.Context())
	if err != nil {
		h.logger.Error("Refresh failed", zap.Error(err))
		status := http.StatusBadGateway
		if errors.Is(err, ingest.ErrWorkbookFormat) || errors.Is(err, ingest.ErrNoRecords) || errors.Is(err, ingest.ErrNoWorksheets) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, load)
}

// UploadWorkbook handles POST /api/v1/workbooks with the xlsx bytes either
// as a multipart "file" field or as the raw request body.
func (h *Handlers) UploadWorkbook(c *gin.Context) {
	data, source, err := readWorkbookUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	load, err := h.dashboard.LoadWorkbook(c.Request.Context(), source, data)
	if err != nil {
		h.logger.Error("Upload ingest failed", zap.String("source", source), zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, load)
}

// Summary handles GET /api/v1/summary.
func (h *Handlers) Summary(c *gin.Context) {
	records, snap, ok := h.filteredRecords(c)
	if !ok {
		return
	}

	summary := analytics.Summarize(records)
	c.JSON(http.StatusOK, gin.H{
		"summary":      summary,
		"record_count": len(records),
		"sheet_name":   snap.SheetName,
		"loaded_at":    snap.LoadedAt,
	})
}

// EmployeeRanking handles GET /api/v1/rankings/employees.
func (h *Handlers) EmployeeRanking(c *gin.Context) {
	records, _, ok := h.filteredRecords(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.TopEmployees(records, rankBy(c), rankLimit(c)))
}

// RoomRanking handles GET /api/v1/rankings/rooms.
func (h *Handlers) RoomRanking(c *gin.Context) {
	records, _, ok := h.filteredRecords(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.TopRooms(records, rankBy(c), rankLimit(c)))
}

// Evolution handles GET /api/v1/evolution.
func (h *Handlers) Evolution(c *gin.Context) {
	records, _, ok := h.filteredRecords(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.Evolution(records))
}

// FilterOptions handles GET /api/v1/filters. Options come from the full
// snapshot, not the filtered view, so selecting a filter never empties the
// other dropdowns.
func (h *Handlers) FilterOptions(c *gin.Context) {
	snap, err := h.dashboard.Snapshot()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analytics.Filters(snap.Records))
}

// Records handles GET /api/v1/records.
func (h *Handlers) Records(c *gin.Context) {
	records, _, ok := h.filteredRecords(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, records)
}

// Loads handles GET /api/v1/loads.
func (h *Handlers) Loads(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	loads, err := h.dashboard.RecentLoads(limit)
	if err != nil {
		h.logger.Error("Failed to list loads", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if loads == nil {
		loads = []*models.Load{}
	}
	c.JSON(http.StatusOK, loads)
}

// filteredRecords resolves the snapshot and applies the period/room/status
// query filters. It writes the error response itself when no snapshot is
// available.
func (h *Handlers) filteredRecords(c *gin.Context) ([]models.VoucherRecord, *snapshotMeta, bool) {
	snap, err := h.dashboard.Snapshot()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return nil, nil, false
	}

	records := analytics.Filter(snap.Records,
		c.Query("period"),
		c.Query("room"),
		c.Query("status"))

	return records, &snapshotMeta{SheetName: snap.SheetName, LoadedAt: snap.LoadedAt}, true
}

type snapshotMeta struct {
	SheetName string
	LoadedAt  time.Time
}

func rankBy(c *gin.Context) analytics.RankBy {
	if c.Query("by") == string(analytics.RankByValue) {
		return analytics.RankByValue
	}
	return analytics.RankByCount
}

func rankLimit(c *gin.Context) int {
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return 10
}

func readWorkbookUpload(c *gin.Context) ([]byte, string, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, "", err
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
		if err != nil {
			return nil, "", err
		}
		return data, "upload:" + file.Filename, nil
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUploadBytes))
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", errors.New("empty workbook upload")
	}
	return data, "upload", nil
}
