package ingest

import "strings"

// Worksheet names that are known to hold voucher data in the source
// workbook, tried verbatim before any fuzzy matching.
var defaultSheetNames = []string{"Acomp Físico", "Acomp Fisico"}

// Keywords matched accent-insensitively against worksheet names when no
// exact name is present. Tab names drift as the file is hand-edited, so
// matching is deliberately loose.
var defaultSheetKeywords = []string{"acomp", "fisico", "vales", "dados", "planilha"}

// SheetSelector picks the worksheet that holds voucher data from a
// workbook's sheet list.
type SheetSelector struct {
	exactNames []string
	keywords   []string
}

// NewSheetSelector creates a selector. Empty slices fall back to the
// built-in canonical names and keywords.
func NewSheetSelector(exactNames, keywords []string) *SheetSelector {
	if len(exactNames) == 0 {
		exactNames = defaultSheetNames
	}
	if len(keywords) == 0 {
		keywords = defaultSheetKeywords
	}
	return &SheetSelector{exactNames: exactNames, keywords: keywords}
}

// Select returns the worksheet to ingest. Precedence: exact canonical name,
// then accent-insensitive keyword containment, then the first sheet. It
// never fails for a workbook with at least one sheet; ok is false only for
// an empty sheet list.
func (s *SheetSelector) Select(sheetNames []string) (string, bool) {
	if len(sheetNames) == 0 {
		return "", false
	}

	for _, want := range s.exactNames {
		for _, name := range sheetNames {
			if name == want {
				return name, true
			}
		}
	}

	for _, name := range sheetNames {
		lower := normalizeKey(name)
		for _, kw := range s.keywords {
			if strings.Contains(lower, kw) {
				return name, true
			}
		}
	}

	return sheetNames[0], true
}
