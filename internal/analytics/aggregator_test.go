package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luizfelipehx/vales-analytics/internal/models"
)

func sampleRecords() []models.VoucherRecord {
	return []models.VoucherRecord{
		{EmployeeName: "João", Room: "Sala A", Status: "Reprovado", Value: 100, Period: "jan 2024"},
		{EmployeeName: "Maria", Room: "Sala B", Status: "Reprovado", Value: 50, Period: "jan 2024"},
		{EmployeeName: "João", Room: "Sala A", Status: "Reprovado", Value: 30, Period: "fev 2024"},
		{EmployeeName: "Ana", Room: "Sala A", Status: "Abonado", Value: 200, Period: "fev 2024"},
		{EmployeeName: "Pedro", Room: "N/A", Status: "Reprovado", Value: 70, Period: ""},
		{EmployeeName: "Carla", Room: "Sala C", Status: "Em análise", Value: 25, Period: "fev 2024"},
		{EmployeeName: "Rui", Room: "Sala C", Status: "Não informado", Value: 10, Period: "fev 2024"},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleRecords())

	assert.Equal(t, 7, s.Total)
	assert.InDelta(t, 485, s.TotalValue, 1e-9)

	assert.Equal(t, 4, s.Reprovado.Count)
	assert.InDelta(t, 250, s.Reprovado.Value, 1e-9)
	assert.Equal(t, 1, s.Abonado.Count)
	assert.Equal(t, 1, s.Analise.Count)
	assert.Equal(t, 1, s.Outros.Count)

	assert.InDelta(t, 62.5, s.AvgRejectedValue, 1e-9)
	assert.InDelta(t, 4.0/7.0*100, s.RejectionRate, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Zero(t, s.Total)
	assert.Zero(t, s.AvgRejectedValue)
	assert.Zero(t, s.RejectionRate)
}

func TestTopEmployees(t *testing.T) {
	t.Run("by count", func(t *testing.T) {
		top := TopEmployees(sampleRecords(), RankByCount, 10)
		require.Len(t, top, 3)

		assert.Equal(t, "João", top[0].Name)
		assert.Equal(t, "Sala A", top[0].Room)
		assert.Equal(t, 2, top[0].Count)
		assert.InDelta(t, 130, top[0].Value, 1e-9)

		// Maria and Pedro tie on count; first seen ranks first.
		assert.Equal(t, "Maria", top[1].Name)
		assert.Equal(t, "Pedro", top[2].Name)
	})

	t.Run("by value", func(t *testing.T) {
		top := TopEmployees(sampleRecords(), RankByValue, 10)
		require.Len(t, top, 3)
		assert.Equal(t, "João", top[0].Name)
		assert.Equal(t, "Pedro", top[1].Name)
		assert.Equal(t, "Maria", top[2].Name)
	})

	t.Run("limit", func(t *testing.T) {
		assert.Len(t, TopEmployees(sampleRecords(), RankByCount, 1), 1)
	})
}

func TestTopRooms(t *testing.T) {
	top := TopRooms(sampleRecords(), RankByCount, 10)
	require.Len(t, top, 2)

	assert.Equal(t, "Sala A", top[0].Name)
	assert.Equal(t, 2, top[0].Count)
	assert.Equal(t, "Sala B", top[1].Name)

	// Pedro's rejected voucher has the sentinel room and must not rank.
	for _, e := range top {
		assert.NotEqual(t, models.SentinelNA, e.Name)
	}
}

func TestEvolution(t *testing.T) {
	buckets := Evolution(sampleRecords())
	require.Len(t, buckets, 2)

	assert.Equal(t, "fev 2024", buckets[0].Period)
	assert.Equal(t, 1, buckets[0].Reprovado)
	assert.Equal(t, 1, buckets[0].Abonado)
	assert.Equal(t, 1, buckets[0].Analise)

	assert.Equal(t, "jan 2024", buckets[1].Period)
	assert.Equal(t, 2, buckets[1].Reprovado)
}

func TestFilters(t *testing.T) {
	opts := Filters(sampleRecords())

	assert.Equal(t, []string{"jan 2024", "fev 2024"}, opts.Periods)
	assert.Equal(t, []string{"Sala A", "Sala B", "Sala C"}, opts.Rooms)
	assert.Equal(t, []string{"Abonado", "Em análise", "Reprovado"}, opts.Statuses)
	assert.NotContains(t, opts.Statuses, models.SentinelStatus)
}

func TestFilter(t *testing.T) {
	records := sampleRecords()

	t.Run("no constraints returns all", func(t *testing.T) {
		assert.Len(t, Filter(records, "", "", ""), len(records))
	})

	t.Run("by period", func(t *testing.T) {
		assert.Len(t, Filter(records, "jan 2024", "", ""), 2)
	})

	t.Run("combined", func(t *testing.T) {
		out := Filter(records, "fev 2024", "Sala A", "")
		require.Len(t, out, 2)
		for _, r := range out {
			assert.Equal(t, "Sala A", r.Room)
		}
	})

	t.Run("by status", func(t *testing.T) {
		assert.Len(t, Filter(records, "", "", "Reprovado"), 4)
	})
}
