package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
)

// Sheet is one tab of the analysis workbook.
type Sheet struct {
	Name    string
	Headers []string
	Records [][]string
}

// WorkbookWriter collects the summary tables of an analysis run into a
// single xlsx workbook for the analyst.
type WorkbookWriter struct {
	runID string
}

// NewWorkbookWriter creates a workbook writer tagged with the run ID.
func NewWorkbookWriter(runID string) *WorkbookWriter {
	return &WorkbookWriter{runID: runID}
}

// Write renders the sheets into an xlsx file at path. The first sheet
// becomes the active one and a Run Info sheet is appended with the run ID
// and timestamp.
func (w *WorkbookWriter) Write(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			// Rename the default sheet instead of leaving it empty.
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("rename first sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return fmt.Errorf("create sheet %q: %w", sheet.Name, err)
			}
		}
		if err := writeSheet(f, sheet); err != nil {
			return fmt.Errorf("write sheet %q: %w", sheet.Name, err)
		}
	}

	if err := w.writeRunInfo(f); err != nil {
		return fmt.Errorf("write run info: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	slog.Debug("wrote workbook",
		slog.String("path", path),
		slog.Int("sheets", len(sheets)))
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet) error {
	if len(sheet.Headers) > 0 {
		if err := f.SetSheetRow(sheet.Name, "A1", &sheet.Headers); err != nil {
			return err
		}
	}
	for i, record := range sheet.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet.Name, cell, &record); err != nil {
			return err
		}
	}
	return nil
}

func (w *WorkbookWriter) writeRunInfo(f *excelize.File) error {
	const name = "Run Info"
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	rows := [][]string{
		{"run_id", w.runID},
		{"generated_at", time.Now().Format(time.RFC3339)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
