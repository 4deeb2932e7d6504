package models

import "time"

// Load is one persisted workbook-load event.
type Load struct {
	ID          int64     `json:"id"`
	Source      string    `json:"source"`
	SheetName   string    `json:"sheet_name"`
	RecordCount int       `json:"record_count"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// LoadResult is the output of one pipeline run: the chosen worksheet, the
// resolved column map and the full normalized record sequence, in original
// row order.
type LoadResult struct {
	SheetName string          `json:"sheet_name"`
	Columns   ColumnMap       `json:"columns"`
	Records   []VoucherRecord `json:"records"`
}
