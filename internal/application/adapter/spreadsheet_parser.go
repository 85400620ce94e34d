package adapter

import (
	"context"
	"io"
)

// SheetRow is one data row keyed by the header text as it appears in the file.
type SheetRow struct {
	Number int // 1-based row number in the file, header is row 1
	Values map[string]string
}

// Sheet is the parsed content of the first worksheet of a spreadsheet.
type Sheet struct {
	Headers []string
	Rows    []SheetRow
}

// SpreadsheetParser parses one file format into rows.
// It must report ErrNoSheet or ErrNoRows rather than an empty Sheet.
type SpreadsheetParser interface {
	Parse(ctx context.Context, r io.Reader) (*Sheet, error)
}

// ParserRegistry selects a SpreadsheetParser from an uploaded file name.
// Unknown extensions yield ErrUnsupportedFileType.
type ParserRegistry interface {
	ParserFor(fileName string) (SpreadsheetParser, error)
}
