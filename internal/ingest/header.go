package ingest

import (
	"strings"

	"github.com/luizfelipehx/vales-analytics/internal/models"
)

// headerScanLimit bounds the header search window; headers are always near
// the top of the sheet.
const headerScanLimit = 10

// minHeaderMatches is how many distinct fields must match within one row
// before it qualifies as the header row. Three tolerates a stray false
// positive without misfiring on a data row.
const minHeaderMatches = 3

// Fixed column positions of the known common layout (G, K, L, O, T),
// used when no header row is recognized.
var defaultColumns = models.ColumnMap{
	Date:      6,
	Name:      10,
	Room:      11,
	Status:    14,
	Value:     19,
	HeaderRow: 7,
	DataStart: 8,
}

// fieldMatcher binds one semantic field to a header-cell predicate.
type fieldMatcher struct {
	field string
	match func(cell string) bool
	apply func(m *models.ColumnMap, col int)
}

// headerMatchers is the declarative matching table, evaluated in order for
// every cell. Rules are non-exclusive per cell; the last matching rule in
// iteration order wins for its field.
var headerMatchers = []fieldMatcher{
	{
		field: "date",
		match: func(c string) bool {
			return c == "data" ||
				(strings.Contains(c, "data") && (strings.Contains(c, "lan") || strings.Contains(c, "lcto")))
		},
		apply: func(m *models.ColumnMap, col int) { m.Date = col },
	},
	{
		field: "name",
		match: func(c string) bool {
			return strings.Contains(c, "nome") || strings.Contains(c, "funcionário") || strings.Contains(c, "funcionario")
		},
		apply: func(m *models.ColumnMap, col int) { m.Name = col },
	},
	{
		field: "room",
		match: func(c string) bool {
			return strings.Contains(c, "sala") || c == "setor" || c == "unidade"
		},
		apply: func(m *models.ColumnMap, col int) { m.Room = col },
	},
	{
		field: "status",
		match: func(c string) bool {
			return strings.Contains(c, "status") || strings.Contains(c, "situação") || strings.Contains(c, "situacao")
		},
		apply: func(m *models.ColumnMap, col int) { m.Status = col },
	},
	{
		field: "value",
		match: func(c string) bool {
			return strings.Contains(c, "valor") || c == "vl"
		},
		apply: func(m *models.ColumnMap, col int) { m.Value = col },
	},
}

// ResolveColumns scans the first rows of the raw matrix for a header row
// and maps the five semantic fields to column indices. The first row where
// at least minHeaderMatches distinct fields match wins. When no row in the
// window qualifies, the fixed default layout is returned; resolution never
// fails.
func ResolveColumns(rows [][]string) models.ColumnMap {
	last := len(rows) - 1
	if last > headerScanLimit {
		last = headerScanLimit
	}

	for r := 0; r <= last; r++ {
		row := rows[r]
		if len(row) == 0 {
			continue
		}

		cols := defaultColumns
		matched := make(map[string]bool, len(headerMatchers))

		for j, raw := range row {
			cell := strings.ToLower(strings.TrimSpace(raw))
			if cell == "" {
				continue
			}
			for _, fm := range headerMatchers {
				if fm.match(cell) {
					fm.apply(&cols, j)
					matched[fm.field] = true
				}
			}
		}

		if len(matched) >= minHeaderMatches {
			cols.HeaderRow = r
			cols.DataStart = r + 1
			return cols
		}
	}

	return defaultColumns
}
