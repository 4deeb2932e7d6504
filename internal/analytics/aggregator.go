// Package analytics computes the dashboard aggregates consumed by the UI:
// KPI summaries, offender rankings, per-period evolution series and filter
// option sets. Everything is a single or grouped pass over an
// already-normalized record sequence.
package analytics

import (
	"sort"

	"github.com/luizfelipehx/vales-analytics/internal/ingest"
	"github.com/luizfelipehx/vales-analytics/internal/models"
)

// RankBy selects the ranking sort key.
type RankBy string

const (
	RankByCount RankBy = "count"
	RankByValue RankBy = "value"
)

// Summarize computes the KPI totals for a record sequence.
func Summarize(records []models.VoucherRecord) models.Summary {
	var s models.Summary
	s.Total = len(records)

	for _, r := range records {
		s.TotalValue += r.Value
		switch ingest.Classify(r.Status) {
		case models.CategoryReprovado:
			s.Reprovado.Count++
			s.Reprovado.Value += r.Value
		case models.CategoryAbonado:
			s.Abonado.Count++
			s.Abonado.Value += r.Value
		case models.CategoryAnalise:
			s.Analise.Count++
			s.Analise.Value += r.Value
		default:
			s.Outros.Count++
			s.Outros.Value += r.Value
		}
	}

	if s.Reprovado.Count > 0 {
		s.AvgRejectedValue = s.Reprovado.Value / float64(s.Reprovado.Count)
	}
	if s.Total > 0 {
		s.RejectionRate = float64(s.Reprovado.Count) / float64(s.Total) * 100
	}
	return s
}

// TopEmployees ranks employees by their rejected vouchers, descending by
// the chosen key. Ties keep first-seen order. Each entry carries the room
// of the employee's first rejected voucher.
func TopEmployees(records []models.VoucherRecord, by RankBy, limit int) []models.RankingEntry {
	order := make([]string, 0)
	grouped := make(map[string]*models.RankingEntry)

	for _, r := range records {
		if ingest.Classify(r.Status) != models.CategoryReprovado {
			continue
		}
		entry, ok := grouped[r.EmployeeName]
		if !ok {
			entry = &models.RankingEntry{Name: r.EmployeeName, Room: r.Room}
			grouped[r.EmployeeName] = entry
			order = append(order, r.EmployeeName)
		}
		entry.Count++
		entry.Value += r.Value
	}

	return rank(order, grouped, by, limit)
}

// TopRooms ranks rooms by rejected vouchers; the "N/A" sentinel room is
// excluded.
func TopRooms(records []models.VoucherRecord, by RankBy, limit int) []models.RankingEntry {
	order := make([]string, 0)
	grouped := make(map[string]*models.RankingEntry)

	for _, r := range records {
		if ingest.Classify(r.Status) != models.CategoryReprovado {
			continue
		}
		if r.Room == models.SentinelNA {
			continue
		}
		entry, ok := grouped[r.Room]
		if !ok {
			entry = &models.RankingEntry{Name: r.Room}
			grouped[r.Room] = entry
			order = append(order, r.Room)
		}
		entry.Count++
		entry.Value += r.Value
	}

	return rank(order, grouped, by, limit)
}

// rank sorts grouped entries descending by the chosen key. Insertion order
// breaks ties, which sort.SliceStable preserves because order holds keys in
// first-seen sequence.
func rank(order []string, grouped map[string]*models.RankingEntry, by RankBy, limit int) []models.RankingEntry {
	entries := make([]models.RankingEntry, 0, len(order))
	for _, key := range order {
		entries = append(entries, *grouped[key])
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if by == RankByValue {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Count > entries[j].Count
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Evolution groups records by period and counts the three named categories
// per period. Records without a period are skipped; periods sort
// ascending by label.
func Evolution(records []models.VoucherRecord) []models.PeriodBucket {
	order := make([]string, 0)
	buckets := make(map[string]*models.PeriodBucket)

	for _, r := range records {
		if r.Period == "" {
			continue
		}
		b, ok := buckets[r.Period]
		if !ok {
			b = &models.PeriodBucket{Period: r.Period}
			buckets[r.Period] = b
			order = append(order, r.Period)
		}
		switch ingest.Classify(r.Status) {
		case models.CategoryReprovado:
			b.Reprovado++
		case models.CategoryAbonado:
			b.Abonado++
		case models.CategoryAnalise:
			b.Analise++
		}
	}

	sort.Strings(order)
	out := make([]models.PeriodBucket, 0, len(order))
	for _, p := range order {
		out = append(out, *buckets[p])
	}
	return out
}

// Filters collects the distinct values available for dashboard filters:
// periods descending, rooms and statuses ascending, sentinels excluded.
func Filters(records []models.VoucherRecord) models.FilterOptions {
	periods := make(map[string]bool)
	rooms := make(map[string]bool)
	statuses := make(map[string]bool)

	for _, r := range records {
		if r.Period != "" {
			periods[r.Period] = true
		}
		if r.Room != "" && r.Room != models.SentinelNA {
			rooms[r.Room] = true
		}
		if r.Status != "" && r.Status != models.SentinelStatus {
			statuses[r.Status] = true
		}
	}

	opts := models.FilterOptions{
		Periods:  sortedKeys(periods),
		Rooms:    sortedKeys(rooms),
		Statuses: sortedKeys(statuses),
	}
	// Period labels sort descending for the dropdown.
	for i, j := 0, len(opts.Periods)-1; i < j; i, j = i+1, j-1 {
		opts.Periods[i], opts.Periods[j] = opts.Periods[j], opts.Periods[i]
	}
	return opts
}

// Filter returns the records matching the given filter values; an empty
// value means no constraint on that dimension.
func Filter(records []models.VoucherRecord, period, room, status string) []models.VoucherRecord {
	if period == "" && room == "" && status == "" {
		return records
	}

	out := make([]models.VoucherRecord, 0, len(records))
	for _, r := range records {
		if period != "" && r.Period != period {
			continue
		}
		if room != "" && r.Room != room {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, r)
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
