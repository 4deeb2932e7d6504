// Package fetcher retrieves workbook bytes from a network source. It is
// the I/O boundary in front of the ingestion pipeline; timeouts and
// cancellation live here, not in the pipeline.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Downloader fetches workbook byte buffers over HTTP.
type Downloader struct {
	client *http.Client
	logger *zap.Logger
}

// NewDownloader creates a downloader with the given request timeout.
func NewDownloader(timeout time.Duration, logger *zap.Logger) *Downloader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Downloader{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Fetch downloads the workbook at rawURL. A cache-busting timestamp is
// appended so intermediaries never serve a stale copy of the
// hand-maintained file.
func (d *Downloader) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid workbook URL: %w", err)
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(time.Now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workbook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, URL: rawURL}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook body: %w", err)
	}

	d.logger.Debug("Workbook fetched",
		zap.String("url", rawURL),
		zap.Int("bytes", len(data)))

	return data, nil
}

// FetchWithRetry retries transient failures with exponential backoff.
// Client errors other than 429 are permanent and fail immediately.
func (d *Downloader) FetchWithRetry(ctx context.Context, rawURL string, maxAttempts int) ([]byte, error) {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		data, err := d.Fetch(ctx, rawURL)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if isPermanent(err) {
			d.logger.Warn("Permanent fetch error, not retrying",
				zap.Int("attempt", attempt),
				zap.Error(err))
			return nil, err
		}

		if attempt < maxAttempts {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			d.logger.Info("Retrying workbook fetch",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(err))

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("fetch failed after %d attempts: %w", maxAttempts, lastErr)
}

// StatusError reports a non-200 response from the workbook source.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("workbook source returned status %d for %s", e.Code, e.URL)
}

func isPermanent(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code >= 400 && se.Code < 500 && se.Code != http.StatusTooManyRequests
}
