package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveColumns_HeaderDetected(t *testing.T) {
	rows := [][]string{
		{},
		{"Relatório de Vales"},
		{},
		{"Data Lçto", "Nome", "Sala", "", "", "", "Situação", "Valor"},
		{"15/03/2024", "João", "Sala A", "", "", "", "Reprovado", "100"},
	}

	cols := ResolveColumns(rows)

	assert.Equal(t, 1, cols.Name)
	assert.Equal(t, 2, cols.Room)
	assert.Equal(t, 6, cols.Status)
	assert.Equal(t, 7, cols.Value)
	assert.Equal(t, 3, cols.HeaderRow)
	assert.Equal(t, 4, cols.DataStart)
}

func TestResolveColumns_FullHeader(t *testing.T) {
	rows := [][]string{
		{"Data de Lançamento", "Funcionário", "Setor", "Status", "Valor"},
	}

	cols := ResolveColumns(rows)

	assert.Equal(t, 0, cols.Date)
	assert.Equal(t, 1, cols.Name)
	assert.Equal(t, 2, cols.Room)
	assert.Equal(t, 3, cols.Status)
	assert.Equal(t, 4, cols.Value)
	assert.Equal(t, 0, cols.HeaderRow)
	assert.Equal(t, 1, cols.DataStart)
}

func TestResolveColumns_FallbackToDefaults(t *testing.T) {
	t.Run("no recognizable header", func(t *testing.T) {
		rows := [][]string{
			{"a", "b", "c"},
			{"1", "2", "3"},
		}

		cols := ResolveColumns(rows)

		assert.Equal(t, defaultColumns, cols)
		assert.Equal(t, 7, cols.HeaderRow)
		assert.Equal(t, 8, cols.DataStart)
	})

	t.Run("empty matrix", func(t *testing.T) {
		assert.Equal(t, defaultColumns, ResolveColumns(nil))
	})

	t.Run("fewer than three field matches is not a header", func(t *testing.T) {
		rows := [][]string{
			{"Nome", "Valor"},
		}

		cols := ResolveColumns(rows)
		assert.Equal(t, defaultColumns, cols)
	})
}

func TestResolveColumns_FirstQualifyingRowWins(t *testing.T) {
	rows := [][]string{
		{"Nome", "Sala", "Status", "Valor"},
		{"Nome2", "Sala2", "Status2", "Valor2"},
	}

	cols := ResolveColumns(rows)
	assert.Equal(t, 0, cols.HeaderRow)
	assert.Equal(t, 1, cols.DataStart)
}

func TestResolveColumns_ScanWindowIsBounded(t *testing.T) {
	rows := make([][]string, 20)
	for i := range rows {
		rows[i] = []string{"x"}
	}
	// Header beyond row 10 must not be picked up.
	rows[15] = []string{"Data", "Nome", "Sala", "Status", "Valor"}

	cols := ResolveColumns(rows)
	assert.Equal(t, defaultColumns, cols)
}
