// Package ingest implements the spreadsheet ingestion pipeline: worksheet
// selection, header resolution, row parsing and status normalization. The
// pipeline is a pure transformation of one workbook into one record
// sequence; it keeps no state between loads.
package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// excelEpochOffsetDays is the distance between the spreadsheet serial-date
// epoch (1899-12-30) and the Unix epoch.
const excelEpochOffsetDays = 25569

const secondsPerDay = 86400

// ptMonthAbbrev holds lowercase Brazilian Portuguese month abbreviations,
// indexed by time.Month - 1.
var ptMonthAbbrev = [12]string{
	"jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez",
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// CleanString trims surrounding whitespace from a raw cell value.
func CleanString(raw string) string {
	return strings.TrimSpace(raw)
}

// StripAccents removes diacritical marks ("Físico" -> "Fisico"). On a
// transform failure the input is returned unchanged.
func StripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// normalizeKey lower-cases, trims and strips accents for fuzzy matching.
func normalizeKey(s string) string {
	return StripAccents(strings.ToLower(strings.TrimSpace(s)))
}

// ParseCurrency coerces a raw value cell into a non-negative currency
// amount. Unparseable and negative inputs coerce to 0, never to NaN or an
// error. Both "150.50" and the Brazilian "1.150,50" shapes are accepted.
func ParseCurrency(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if s == "" {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil && strings.Contains(s, ",") {
		alt := strings.ReplaceAll(s, ".", "")
		alt = strings.ReplaceAll(alt, ",", ".")
		v, err = strconv.ParseFloat(alt, 64)
	}
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ParseCellDate interprets a raw date cell. A numeric cell is a spreadsheet
// serial date counted from the 1899 epoch; a string cell is split on "/"
// and read as day/month/year (pt-BR convention). Any other shape yields
// ok=false rather than an error.
func ParseCellDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		if len(parts) != 3 {
			return time.Time{}, false
		}
		day, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		month, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		year, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err1 != nil || err2 != nil || err3 != nil {
			return time.Time{}, false
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, false
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
	}

	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, false
	}
	secs := (serial - excelEpochOffsetDays) * secondsPerDay
	return time.Unix(int64(secs), 0).UTC(), true
}

// PeriodLabel formats a date as the month/year grouping label used across
// the dashboard, e.g. "mar 2024".
func PeriodLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", ptMonthAbbrev[int(t.Month())-1], t.Year())
}

// cellAt returns the raw cell at idx, tolerating short (sparse) rows.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
