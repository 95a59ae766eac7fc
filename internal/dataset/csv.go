package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"sdmcli/internal/errors"
)

// naTokens are the cell values treated as missing data.
var naTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
}

// LoadCSV reads a CSV file into a Table. The first row must be a header.
// Column types are inferred: a column where every non-NA cell parses as a
// float becomes numeric, anything else becomes categorical.
func LoadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("open %s", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewParsingError(fmt.Sprintf("%s is empty", path), nil)
	}
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("read header of %s", path), err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
		if header[i] == "" {
			return nil, errors.NewParsingError(fmt.Sprintf("%s has an empty column name at position %d", path, i+1), nil)
		}
	}

	cells := make([][]string, len(header))
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.NewMalformedRowError(path, line, "", err)
		}
		if len(record) != len(header) {
			return nil, errors.NewMalformedRowError(path, line, "",
				fmt.Errorf("expected %d fields, got %d", len(header), len(record)))
		}
		for i, cell := range record {
			cells[i] = append(cells[i], strings.TrimSpace(cell))
		}
	}

	table := NewTable(path)
	for i, name := range header {
		if values, ok := parseNumericColumn(cells[i]); ok {
			if err := table.AddNumericColumn(name, values); err != nil {
				return nil, fmt.Errorf("add column %q: %w", name, err)
			}
		} else {
			if err := table.AddLabelColumn(name, cells[i]); err != nil {
				return nil, fmt.Errorf("add column %q: %w", name, err)
			}
		}
	}
	if table.NumRows() == 0 {
		slog.Warn("loaded table has no data rows", slog.String("path", path))
	}

	slog.Debug("loaded CSV table",
		slog.String("path", path),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumCols()))

	return table, nil
}

// parseNumericColumn attempts to parse every cell as float64. NA tokens
// become NaN. Returns ok=false if any non-NA cell fails to parse, in which
// case the column is categorical.
func parseNumericColumn(cells []string) ([]float64, bool) {
	values := make([]float64, len(cells))
	sawNumber := false
	for i, cell := range cells {
		if naTokens[cell] {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		values[i] = v
		sawNumber = true
	}
	// A column of nothing but NA tokens stays categorical; there is no
	// number to work with either way.
	if !sawNumber && len(cells) > 0 {
		return nil, false
	}
	return values, true
}

// formatCell renders a numeric cell the way the source files carry them,
// trimming trailing zeros without losing precision.
func formatCell(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
