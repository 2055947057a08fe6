package visualize

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook.
const (
	SheetStructure = "Structure"
	SheetTimeline  = "Timeline"
	SheetResources = "Resources"
)

// WriteXLSX writes viz as a workbook with one sheet per chart and a
// column chart of the resource breakdown.
func WriteXLSX(w io.Writer, viz *Visualization) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetStructure); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetTimeline, SheetResources} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"8B5CF6"}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := writeStructure(f, viz.Document, header); err != nil {
		return err
	}
	if err := writeTimeline(f, viz.Timeline, header); err != nil {
		return err
	}
	if err := writeResources(f, viz.Resources, header); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("%s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, style int, titles ...string) error {
	values := make([]any, len(titles))
	for i, t := range titles {
		values[i] = t
	}
	if err := writeRow(f, sheet, 1, values...); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(titles), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func writeStructure(f *excelize.File, doc *Document, style int) error {
	if err := writeHeader(f, SheetStructure, style, "Topic", "Subtopic", "Estimated time", "Resources"); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetStructure, "A", "B", 32); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetStructure, "C", "C", 16); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetStructure, "D", "D", 60); err != nil {
		return err
	}

	row := 2
	for _, t := range doc.Topics {
		if err := writeRow(f, SheetStructure, row, t.Title, "", t.Time, strings.Join(t.Resources, "\n")); err != nil {
			return err
		}
		row++
		for _, s := range t.Subtopics {
			if err := writeRow(f, SheetStructure, row, t.Title, s.Title, s.Time, strings.Join(s.Resources, "\n")); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeTimeline(f *excelize.File, tl Timeline, style int) error {
	if err := writeHeader(f, SheetTimeline, style, "Scope", "Estimate", "Weeks", "Start week", "End week"); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetTimeline, "A", "A", 32); err != nil {
		return err
	}
	for i, it := range tl.Items {
		if err := writeRow(f, SheetTimeline, i+2, it.Scope, it.Raw, it.Weeks, it.Start, it.End); err != nil {
			return err
		}
	}
	return writeRow(f, SheetTimeline, len(tl.Items)+2, "Total", "", tl.TotalWeeks)
}

func writeResources(f *excelize.File, counts []ResourceCount, style int) error {
	if err := writeHeader(f, SheetResources, style, "Type", "Count"); err != nil {
		return err
	}
	for i, c := range counts {
		if err := writeRow(f, SheetResources, i+2, string(c.Kind), c.Count); err != nil {
			return err
		}
	}
	if len(counts) == 0 {
		return nil
	}

	last := len(counts) + 1
	return f.AddChart(SheetResources, "D2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", SheetResources),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", SheetResources, last),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", SheetResources, last),
		}},
		Title: []excelize.RichTextRun{{Text: "Resource types"}},
	})
}
