package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luizfelipehx/vales-analytics/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		status string
		want   models.StatusCategory
	}{
		{"Reprovado", models.CategoryReprovado},
		{"reprovada - sem justificativa", models.CategoryReprovado},
		{"Enviado para cobrança", models.CategoryReprovado},
		{"Abonado", models.CategoryAbonado},
		{"abonada pelo gestor", models.CategoryAbonado},
		{"Em análise", models.CategoryAnalise},
		{"em analise", models.CategoryAnalise},
		{"Não informado", models.CategoryOutros},
		{"Pendente", models.CategoryOutros},
		{"", models.CategoryOutros},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.status))
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// A status carrying both markers resolves to the higher-priority bucket.
	assert.Equal(t, models.CategoryReprovado, Classify("reprovado mas abonado depois"))
	assert.Equal(t, models.CategoryAbonado, Classify("abonado em análise"))
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, "Não informado", NormalizeStatus(""))
	assert.Equal(t, "Reprovado", NormalizeStatus("REPROVADO"))
	assert.Equal(t, "Em análise", NormalizeStatus("em ANÁLISE"))
	assert.Equal(t, "Abonado", NormalizeStatus("abonado"))
}
