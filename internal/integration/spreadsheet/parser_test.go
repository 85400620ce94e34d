package spreadsheet

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("invalid coordinates: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("failed to write row: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to write workbook: %v", err)
	}
	return buf
}

func TestXLSXParser_Parse(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Text", "Amount", "Type", "Transfer", "Category", "Date"},
		{"Salary", 1500.25, "income", "wire", "Salary", 45658},
		{},
		{"Rent", 700, "expense", "pix", "Housing", "2025-01-05"},
	})

	sheet, err := NewXLSXParser().Parse(context.Background(), buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sheet.Headers) != 6 {
		t.Fatalf("expected 6 headers, got %v", sheet.Headers)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(sheet.Rows))
	}
	if sheet.Rows[0].Values["Amount"] != "1500.25" {
		t.Errorf("expected raw amount 1500.25, got %q", sheet.Rows[0].Values["Amount"])
	}
	if sheet.Rows[0].Values["Date"] != "45658" {
		t.Errorf("expected raw serial date, got %q", sheet.Rows[0].Values["Date"])
	}
	if sheet.Rows[1].Number != 4 {
		t.Errorf("expected blank row to keep numbering, got row %d", sheet.Rows[1].Number)
	}
}

func TestXLSXParser_NoRows(t *testing.T) {
	tests := []struct {
		name string
		rows [][]any
	}{
		{"empty sheet", nil},
		{"header only", [][]any{{"Text", "Amount", "Type", "Transfer", "Category", "Date"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewXLSXParser().Parse(context.Background(), buildWorkbook(t, tt.rows))
			if !errors.Is(err, domainerror.ErrNoRows) {
				t.Errorf("expected ErrNoRows, got %v", err)
			}
		})
	}
}

func TestCSVParser_Parse(t *testing.T) {
	input := "\ufeffText,Amount,Type,Transfer,Category,Date\n" +
		"Coffee, 4.50,expense,card,Food,2025-02-01\n" +
		"\n" +
		"Refund,10,income\n"

	sheet, err := NewCSVParser().Parse(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sheet.Headers[0] != "Text" {
		t.Errorf("expected BOM to be stripped, got %q", sheet.Headers[0])
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sheet.Rows))
	}
	if sheet.Rows[0].Values["Amount"] != "4.50" {
		t.Errorf("expected trimmed amount, got %q", sheet.Rows[0].Values["Amount"])
	}
	if sheet.Rows[1].Values["Category"] != "" {
		t.Errorf("expected short row to pad missing cells, got %q", sheet.Rows[1].Values["Category"])
	}
}

func TestRegistry_ParserFor(t *testing.T) {
	registry := NewRegistry()

	for _, name := range []string{"march.xlsx", "MARCH.XLSX", "export.csv"} {
		if _, err := registry.ParserFor(name); err != nil {
			t.Errorf("expected parser for %s, got %v", name, err)
		}
	}
	if _, err := registry.ParserFor("statement.pdf"); !errors.Is(err, domainerror.ErrUnsupportedFileType) {
		t.Errorf("expected ErrUnsupportedFileType, got %v", err)
	}
}
