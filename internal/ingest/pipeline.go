package ingest

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/luizfelipehx/vales-analytics/internal/models"
)

// Fatal pipeline errors, surfaced to the caller. Every other malformed
// input (bad cells, missing headers, summary rows) is absorbed by the
// coercion and skip rules.
var (
	ErrWorkbookFormat = errors.New("byte buffer is not a readable workbook")
	ErrNoWorksheets   = errors.New("workbook has no worksheets")
	ErrNoRecords      = errors.New("no voucher records found in worksheet")
)

// Config tunes the heuristic parts of the pipeline. Zero values use the
// built-in defaults.
type Config struct {
	SheetNames    []string
	SheetKeywords []string
	SummaryLabels []string
}

// Pipeline converts a workbook byte buffer into a normalized voucher
// record sequence. A Pipeline is stateless across loads and safe for
// concurrent use.
type Pipeline struct {
	selector *SheetSelector
	parser   *RecordParser
	logger   *zap.Logger
}

// NewPipeline creates a pipeline with the given tunables.
func NewPipeline(cfg Config, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		selector: NewSheetSelector(cfg.SheetNames, cfg.SheetKeywords),
		parser:   NewRecordParser(cfg.SummaryLabels),
		logger:   logger,
	}
}

// Load runs the full pipeline: sheet selection, header resolution and row
// parsing. It returns a complete valid record sequence or an error and
// nothing; partial results are never produced.
func (p *Pipeline) Load(data []byte) (*models.LoadResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWorkbookFormat, err)
	}
	defer f.Close()

	sheetName, ok := p.selector.Select(f.GetSheetList())
	if !ok {
		return nil, ErrNoWorksheets
	}

	// Raw values so date cells keep their serial form instead of the
	// workbook's display format.
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %q: %w", sheetName, err)
	}

	cols := ResolveColumns(rows)
	records := p.parser.Parse(rows, cols)

	p.logger.Info("Workbook parsed",
		zap.String("sheet", sheetName),
		zap.Int("header_row", cols.HeaderRow),
		zap.Int("rows", len(rows)),
		zap.Int("records", len(records)))

	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	return &models.LoadResult{
		SheetName: sheetName,
		Columns:   cols,
		Records:   records,
	}, nil
}
