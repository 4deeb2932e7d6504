package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/luizfelipehx/vales-analytics/internal/ingest"
	"github.com/luizfelipehx/vales-analytics/internal/models"
	"github.com/luizfelipehx/vales-analytics/internal/service"
	"github.com/luizfelipehx/vales-analytics/internal/store"
)

// MockFetcher implements service.WorkbookFetcher.
type MockFetcher struct {
	data []byte
	err  error
}

func (m *MockFetcher) FetchWithRetry(_ context.Context, _ string, _ int) ([]byte, error) {
	return m.data, m.err
}

// MockArchive implements service.LoadArchive.
type MockArchive struct {
	loads []*models.Load
}

func (m *MockArchive) SaveLoad(load *models.Load, _ []models.VoucherRecord) error {
	load.ID = int64(len(m.loads) + 1)
	m.loads = append(m.loads, load)
	return nil
}

func (m *MockArchive) RecentLoads(_ int) ([]*models.Load, error) { return m.loads, nil }

func (m *MockArchive) LoadRecords(_ int64) ([]models.VoucherRecord, error) { return nil, nil }

func testWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Acomp Fisico"))
	rows := [][]interface{}{
		{"Data", "Nome", "Sala", "Status", "Valor"},
		{"15/01/2024", "João", "Sala A", "Reprovado", "100"},
		{"20/01/2024", "Maria", "Sala B", "Abonado", "50"},
		{"05/02/2024", "João", "Sala A", "Reprovado", "30"},
		{"", "Total", "", "", "180"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Acomp Fisico", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func newTestServer(t *testing.T, fetcher service.WorkbookFetcher) *Server {
	t.Helper()

	dashboard := service.NewDashboardService(
		service.Config{WorkbookURL: "https://example.com/dados.xlsx", FetchAttempts: 1},
		ingest.NewPipeline(ingest.Config{}, zap.NewNop()),
		fetcher,
		&MockArchive{},
		store.NewSnapshotStore(),
		zap.NewNop(),
	)

	cfg := ServerConfig{Host: "127.0.0.1", Port: 0, ReadTimeout: time.Second, WriteTimeout: time.Second}
	return NewServer(cfg, dashboard, zap.NewNop())
}

func doRequest(srv *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHandlers_BeforeFirstLoad(t *testing.T) {
	srv := newTestServer(t, &MockFetcher{})

	for _, path := range []string{
		"/api/v1/summary",
		"/api/v1/rankings/employees",
		"/api/v1/rankings/rooms",
		"/api/v1/evolution",
		"/api/v1/filters",
		"/api/v1/records",
	} {
		w := doRequest(srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}
}

func TestHandlers_RefreshAndRead(t *testing.T) {
	srv := newTestServer(t, &MockFetcher{data: testWorkbook(t)})

	w := doRequest(srv, http.MethodPost, "/api/v1/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var load models.Load
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &load))
	assert.Equal(t, 3, load.RecordCount)

	t.Run("summary", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/api/v1/summary", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Summary     models.Summary `json:"summary"`
			RecordCount int            `json:"record_count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.RecordCount)
		assert.Equal(t, 2, resp.Summary.Reprovado.Count)
		assert.InDelta(t, 130, resp.Summary.Reprovado.Value, 1e-9)
	})

	t.Run("summary with period filter", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/api/v1/summary?period=jan+2024", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			RecordCount int `json:"record_count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.RecordCount)
	})

	t.Run("employee ranking", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/api/v1/rankings/employees?by=value&limit=5", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var entries []models.RankingEntry
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, "João", entries[0].Name)
		assert.Equal(t, 2, entries[0].Count)
	})

	t.Run("filters", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/api/v1/filters", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var opts models.FilterOptions
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
		assert.Equal(t, []string{"jan 2024", "fev 2024"}, opts.Periods)
		assert.Equal(t, []string{"Sala A", "Sala B"}, opts.Rooms)
	})

	t.Run("evolution", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/api/v1/evolution", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var buckets []models.PeriodBucket
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &buckets))
		require.Len(t, buckets, 2)
	})

	t.Run("loads", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/api/v1/loads", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var loads []models.Load
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loads))
		require.Len(t, loads, 1)
	})
}

func TestHandlers_RefreshErrors(t *testing.T) {
	t.Run("unparseable workbook", func(t *testing.T) {
		srv := newTestServer(t, &MockFetcher{data: []byte("not a workbook")})
		w := doRequest(srv, http.MethodPost, "/api/v1/refresh", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("fetch failure", func(t *testing.T) {
		srv := newTestServer(t, &MockFetcher{err: assert.AnError})
		w := doRequest(srv, http.MethodPost, "/api/v1/refresh", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestHandlers_UploadWorkbook(t *testing.T) {
	srv := newTestServer(t, &MockFetcher{})

	w := doRequest(srv, http.MethodPost, "/api/v1/workbooks", testWorkbook(t))
	require.Equal(t, http.StatusOK, w.Code)

	var load models.Load
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &load))
	assert.Equal(t, 3, load.RecordCount)

	t.Run("empty body", func(t *testing.T) {
		w := doRequest(srv, http.MethodPost, "/api/v1/workbooks", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("garbage body", func(t *testing.T) {
		w := doRequest(srv, http.MethodPost, "/api/v1/workbooks", []byte("junk"))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
