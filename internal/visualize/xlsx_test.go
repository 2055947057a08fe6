package visualize

import (
	"bytes"
	"slices"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, Summarize(samplePath)); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	for _, want := range []string{SheetStructure, SheetTimeline, SheetResources} {
		if !slices.Contains(sheets, want) {
			t.Fatalf("expected sheet %q in %v", want, sheets)
		}
	}

	tests := []struct {
		sheet, cell, want string
	}{
		{SheetStructure, "A1", "Topic"},
		{SheetStructure, "A2", "Go Fundamentals"},
		{SheetStructure, "B3", "Syntax"},
		{SheetStructure, "C3", "2 weeks"},
		{SheetTimeline, "A5", "HTTP"},
		{SheetTimeline, "A6", "Total"},
		{SheetResources, "A2", "Book"},
		{SheetResources, "B2", "1"},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue(tt.sheet, tt.cell)
		if err != nil {
			t.Fatalf("%s!%s: %v", tt.sheet, tt.cell, err)
		}
		if got != tt.want {
			t.Errorf("%s!%s: expected %q, got %q", tt.sheet, tt.cell, tt.want, got)
		}
	}
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, Summarize("")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected a workbook")
	}
}
