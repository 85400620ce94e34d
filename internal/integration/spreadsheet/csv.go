package spreadsheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// csvParser reads comma separated files with a header line.
type csvParser struct{}

// NewCSVParser creates a parser for .csv files.
func NewCSVParser() adapter.SpreadsheetParser {
	return &csvParser{}
}

// Parse reads every record. Rows may have fewer fields than the header.
func (p *csvParser) Parse(ctx context.Context, r io.Reader) (*adapter.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return buildSheet(records)
}
