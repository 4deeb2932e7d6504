package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/luizfelipehx/vales-analytics/internal/models"
)

// categoryRule binds a status bucket to its substring markers.
type categoryRule struct {
	category models.StatusCategory
	markers  []string
}

// categoryRules is checked in priority order; the first matching rule wins,
// so a free-text status carrying both "reprovado" and "abonado" markers
// resolves to Reprovado.
var categoryRules = []categoryRule{
	{models.CategoryReprovado, []string{"reprovad", "cobrança"}},
	{models.CategoryAbonado, []string{"abonad"}},
	{models.CategoryAnalise, []string{"análise", "analise"}},
}

// Classify maps a status string to exactly one of the four fixed
// categories by case-insensitive substring containment.
func Classify(status string) models.StatusCategory {
	lower := strings.ToLower(status)
	for _, rule := range categoryRules {
		for _, marker := range rule.markers {
			if strings.Contains(lower, marker) {
				return rule.category
			}
		}
	}
	return models.CategoryOutros
}

// NormalizeStatus maps an empty status to the "Não informado" sentinel and
// otherwise capitalizes the first rune and lower-cases the remainder.
func NormalizeStatus(status string) string {
	if status == "" {
		return models.SentinelStatus
	}
	first, size := utf8.DecodeRuneInString(status)
	return string(unicode.ToUpper(first)) + strings.ToLower(status[size:])
}
