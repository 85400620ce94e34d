// Package spreadsheet parses uploaded statement files into header-keyed rows.
package spreadsheet

import (
	"path/filepath"
	"strings"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// Registry picks a parser by file extension.
type Registry struct {
	parsers map[string]adapter.SpreadsheetParser
}

// NewRegistry creates a registry with the xlsx and csv parsers.
func NewRegistry() *Registry {
	return &Registry{
		parsers: map[string]adapter.SpreadsheetParser{
			".xlsx": NewXLSXParser(),
			".csv":  NewCSVParser(),
		},
	}
}

// ParserFor returns the parser for a file name.
func (r *Registry) ParserFor(fileName string) (adapter.SpreadsheetParser, error) {
	parser, ok := r.parsers[strings.ToLower(filepath.Ext(fileName))]
	if !ok {
		return nil, domainerror.ErrUnsupportedFileType
	}
	return parser, nil
}

// buildSheet turns raw records into a Sheet. The first non-blank record is
// the header; blank records are skipped but keep their row numbers.
func buildSheet(records [][]string) (*adapter.Sheet, error) {
	headerIdx := -1
	for i, record := range records {
		if !isBlank(record) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, domainerror.ErrNoRows
	}

	headers := make([]string, len(records[headerIdx]))
	for i, h := range records[headerIdx] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	sheet := &adapter.Sheet{Headers: headers}
	for i := headerIdx + 1; i < len(records); i++ {
		record := records[i]
		if isBlank(record) {
			continue
		}
		values := make(map[string]string, len(headers))
		for col, header := range headers {
			if header == "" {
				continue
			}
			if col < len(record) {
				values[header] = strings.TrimSpace(record[col])
			} else {
				values[header] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, adapter.SheetRow{Number: i + 1, Values: values})
	}

	if len(sheet.Rows) == 0 {
		return nil, domainerror.ErrNoRows
	}
	return sheet, nil
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
