package ingest

import (
	"strings"

	"github.com/luizfelipehx/vales-analytics/internal/models"
)

// Labels of spreadsheet-generated total lines. The authoritative set has
// drifted across versions of the source file, so it is configurable; this
// is the merged default.
var defaultSummaryLabels = []string{
	"total", "total de vale", "total de vales", "soma", "subtotal", "grand total",
}

// RecordParser walks data rows and emits normalized voucher records.
type RecordParser struct {
	summaryLabels map[string]bool
}

// NewRecordParser creates a parser. An empty label list falls back to the
// default summary-row labels.
func NewRecordParser(summaryLabels []string) *RecordParser {
	if len(summaryLabels) == 0 {
		summaryLabels = defaultSummaryLabels
	}
	set := make(map[string]bool, len(summaryLabels))
	for _, l := range summaryLabels {
		set[strings.ToLower(strings.TrimSpace(l))] = true
	}
	return &RecordParser{summaryLabels: set}
}

// IsSummaryLabel reports whether a cell's lower-trimmed form is a
// total/subtotal label.
func (p *RecordParser) IsSummaryLabel(text string) bool {
	if text == "" {
		return false
	}
	return p.summaryLabels[strings.ToLower(strings.TrimSpace(text))]
}

// Parse walks rows from cols.DataStart to the end and emits one record per
// valid data row, in original row order. Structurally blank rows (empty
// name and status) and summary rows (summary label in the name column) are
// dropped; a summary label in the room column only downgrades the room to
// the "N/A" sentinel. Malformed cells coerce to defaults and never abort
// the walk.
func (p *RecordParser) Parse(rows [][]string, cols models.ColumnMap) []models.VoucherRecord {
	records := make([]models.VoucherRecord, 0, len(rows))

	for i := cols.DataStart; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 {
			continue
		}

		name := CleanString(cellAt(row, cols.Name))
		room := CleanString(cellAt(row, cols.Room))
		status := CleanString(cellAt(row, cols.Status))
		value := ParseCurrency(cellAt(row, cols.Value))

		if name == "" && status == "" {
			continue
		}
		if p.IsSummaryLabel(name) {
			continue
		}

		period := ""
		if date, ok := ParseCellDate(cellAt(row, cols.Date)); ok {
			period = PeriodLabel(date)
		}

		if p.IsSummaryLabel(room) || room == "" {
			room = models.SentinelNA
		}
		if name == "" {
			name = models.SentinelNA
		}

		records = append(records, models.VoucherRecord{
			EmployeeName: name,
			Room:         room,
			Status:       NormalizeStatus(status),
			Value:        value,
			Period:       period,
		})
	}

	return records
}
