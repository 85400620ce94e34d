package spreadsheet

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// xlsxParser reads the first worksheet of an Office Open XML workbook.
type xlsxParser struct{}

// NewXLSXParser creates a parser for .xlsx files.
func NewXLSXParser() adapter.SpreadsheetParser {
	return &xlsxParser{}
}

// Parse returns raw cell values so dates arrive as Excel serial numbers.
func (p *xlsxParser) Parse(ctx context.Context, r io.Reader) (*adapter.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = workbook.Close() }()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, domainerror.ErrNoSheet
	}

	records, err := workbook.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return buildSheet(records)
}
