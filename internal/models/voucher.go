package models

// Sentinel values substituted for missing cells during ingestion.
const (
	SentinelNA     = "N/A"
	SentinelStatus = "Não informado"
)

// VoucherRecord represents a single expense-voucher ("vale") row after
// normalization. Field contents follow the ingestion contract: names and
// rooms are trimmed with the "N/A" sentinel for blanks, status is never
// empty, value is finite and non-negative, and Period is empty when the
// date cell was missing or unparseable.
type VoucherRecord struct {
	EmployeeName string  `json:"employee_name"`
	Room         string  `json:"room"`
	Status       string  `json:"status"`
	Value        float64 `json:"value"`
	Period       string  `json:"period,omitempty"`
}

// StatusCategory is one of the four fixed approval buckets.
type StatusCategory string

const (
	CategoryReprovado StatusCategory = "reprovado"
	CategoryAbonado   StatusCategory = "abonado"
	CategoryAnalise   StatusCategory = "analise"
	CategoryOutros    StatusCategory = "outros"
)

// ColumnMap maps the five semantic fields to zero-based column indices for
// one workbook load. It is built once by the header resolver and read once
// by the record parser.
type ColumnMap struct {
	Date      int `json:"date"`
	Name      int `json:"name"`
	Room      int `json:"room"`
	Status    int `json:"status"`
	Value     int `json:"value"`
	HeaderRow int `json:"header_row"`
	DataStart int `json:"data_start"`
}

// CategoryTotal holds count and value sums for one status bucket.
type CategoryTotal struct {
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// Summary is the KPI payload computed from a record sequence.
type Summary struct {
	Total            int           `json:"total"`
	TotalValue       float64       `json:"total_value"`
	Reprovado        CategoryTotal `json:"reprovado"`
	Abonado          CategoryTotal `json:"abonado"`
	Analise          CategoryTotal `json:"analise"`
	Outros           CategoryTotal `json:"outros"`
	AvgRejectedValue float64       `json:"avg_rejected_value"`
	RejectionRate    float64       `json:"rejection_rate"`
}

// RankingEntry is one row of an offender ranking, grouped by employee or
// by room. Room is populated only for employee rankings.
type RankingEntry struct {
	Name  string  `json:"name"`
	Room  string  `json:"room,omitempty"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// PeriodBucket holds per-period category counts for the evolution series.
type PeriodBucket struct {
	Period    string `json:"period"`
	Reprovado int    `json:"reprovado"`
	Abonado   int    `json:"abonado"`
	Analise   int    `json:"analise"`
}

// FilterOptions lists the distinct values available for dashboard filters.
// Periods are sorted descending, rooms and statuses ascending; sentinel
// values are excluded.
type FilterOptions struct {
	Periods  []string `json:"periods"`
	Rooms    []string `json:"rooms"`
	Statuses []string `json:"statuses"`
}
