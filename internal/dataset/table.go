package dataset

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"sdmcli/internal/errors"
)

// Table is a column-oriented view of one CSV input. Numeric columns store
// NA cells as NaN; categorical columns (sector, life stage) store strings.
// Transforming operations return a new Table and leave the receiver intact.
type Table struct {
	Source  string
	names   []string
	numeric map[string][]float64
	labels  map[string][]string
	rows    int
}

// NewTable builds an empty table with the given column order. Columns are
// registered afterwards with AddNumericColumn / AddLabelColumn.
func NewTable(source string) *Table {
	return &Table{
		Source:  source,
		numeric: make(map[string][]float64),
		labels:  make(map[string][]string),
	}
}

// AddNumericColumn appends a numeric column. All columns must share the
// same length.
func (t *Table) AddNumericColumn(name string, values []float64) error {
	if err := t.checkNewColumn(name, len(values)); err != nil {
		return err
	}
	t.names = append(t.names, name)
	t.numeric[name] = values
	t.rows = len(values)
	return nil
}

// AddLabelColumn appends a categorical column.
func (t *Table) AddLabelColumn(name string, values []string) error {
	if err := t.checkNewColumn(name, len(values)); err != nil {
		return err
	}
	t.names = append(t.names, name)
	t.labels[name] = values
	t.rows = len(values)
	return nil
}

func (t *Table) checkNewColumn(name string, length int) error {
	if _, ok := t.numeric[name]; ok {
		return fmt.Errorf("column %q already present", name)
	}
	if _, ok := t.labels[name]; ok {
		return fmt.Errorf("column %q already present", name)
	}
	if len(t.names) > 0 && length != t.rows {
		return fmt.Errorf("column %q has %d rows, table has %d", name, length, t.rows)
	}
	return nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.names) }

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// NumericColumns returns the names of the numeric columns in file order.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, name := range t.names {
		if _, ok := t.numeric[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// HasColumn reports whether the table contains a column with this name.
func (t *Table) HasColumn(name string) bool {
	_, num := t.numeric[name]
	_, lab := t.labels[name]
	return num || lab
}

// IsNumeric reports whether name is a numeric column.
func (t *Table) IsNumeric(name string) bool {
	_, ok := t.numeric[name]
	return ok
}

// Column returns a copy of the named numeric column.
func (t *Table) Column(name string) ([]float64, error) {
	values, ok := t.numeric[name]
	if !ok {
		if _, lab := t.labels[name]; lab {
			return nil, errors.NewValidationError(fmt.Sprintf("column %q is categorical, not numeric", name), nil)
		}
		return nil, errors.NewNotFoundError(fmt.Sprintf("column %q", name), nil)
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out, nil
}

// Label returns a copy of the named categorical column.
func (t *Table) Label(name string) ([]string, error) {
	values, ok := t.labels[name]
	if !ok {
		if _, num := t.numeric[name]; num {
			return nil, errors.NewValidationError(fmt.Sprintf("column %q is numeric, not categorical", name), nil)
		}
		return nil, errors.NewNotFoundError(fmt.Sprintf("column %q", name), nil)
	}
	out := make([]string, len(values))
	copy(out, values)
	return out, nil
}

// DropColumn returns a new table without the named column. Row count is
// unchanged and exactly one column is removed.
func (t *Table) DropColumn(name string) (*Table, error) {
	if !t.HasColumn(name) {
		return nil, errors.NewNotFoundError(fmt.Sprintf("column %q", name), nil)
	}
	out := NewTable(t.Source)
	for _, col := range t.names {
		if col == name {
			continue
		}
		if values, ok := t.numeric[col]; ok {
			copied := make([]float64, len(values))
			copy(copied, values)
			out.names = append(out.names, col)
			out.numeric[col] = copied
		} else {
			copied := make([]string, len(t.labels[col]))
			copy(copied, t.labels[col])
			out.names = append(out.names, col)
			out.labels[col] = copied
		}
	}
	out.rows = t.rows
	return out, nil
}

// DropNARows returns a new table containing only the rows with no NA in
// any numeric column, along with the number of rows removed.
func (t *Table) DropNARows() (*Table, int) {
	keep := make([]bool, t.rows)
	kept := 0
	for i := 0; i < t.rows; i++ {
		keep[i] = true
		for _, values := range t.numeric {
			if math.IsNaN(values[i]) {
				keep[i] = false
				break
			}
		}
		if keep[i] {
			kept++
		}
	}
	return t.selectRows(keep, kept), t.rows - kept
}

// FilterRows returns a new table with only the rows where the categorical
// column equals value.
func (t *Table) FilterRows(column, value string) (*Table, error) {
	labels, err := t.Label(column)
	if err != nil {
		return nil, err
	}
	keep := make([]bool, t.rows)
	kept := 0
	for i, v := range labels {
		if v == value {
			keep[i] = true
			kept++
		}
	}
	return t.selectRows(keep, kept), nil
}

func (t *Table) selectRows(keep []bool, kept int) *Table {
	out := NewTable(t.Source)
	out.names = append(out.names, t.names...)
	for name, values := range t.numeric {
		filtered := make([]float64, 0, kept)
		for i, v := range values {
			if keep[i] {
				filtered = append(filtered, v)
			}
		}
		out.numeric[name] = filtered
	}
	for name, values := range t.labels {
		filtered := make([]string, 0, kept)
		for i, v := range values {
			if keep[i] {
				filtered = append(filtered, v)
			}
		}
		out.labels[name] = filtered
	}
	out.rows = kept
	return out
}

// Matrix assembles the named numeric columns into a dense row-major matrix
// with one row per table row and one column per name.
func (t *Table) Matrix(columns []string) (*mat.Dense, error) {
	if len(columns) == 0 {
		return nil, errors.NewValidationError("no columns requested", nil)
	}
	if t.rows == 0 {
		return nil, errors.NewValidationError("table has no rows", nil)
	}
	m := mat.NewDense(t.rows, len(columns), nil)
	for j, name := range columns {
		values, err := t.Column(name)
		if err != nil {
			return nil, fmt.Errorf("assemble matrix: %w", err)
		}
		for i, v := range values {
			m.Set(i, j, v)
		}
	}
	return m, nil
}

// Records renders the table back into CSV header and rows, preserving
// column order. NA numeric cells render as "NA".
func (t *Table) Records() ([]string, [][]string) {
	header := t.Columns()
	records := make([][]string, t.rows)
	for i := 0; i < t.rows; i++ {
		row := make([]string, len(t.names))
		for j, name := range t.names {
			if values, ok := t.numeric[name]; ok {
				if math.IsNaN(values[i]) {
					row[j] = "NA"
				} else {
					row[j] = formatCell(values[i])
				}
			} else {
				row[j] = t.labels[name][i]
			}
		}
		records[i] = row
	}
	return header, records
}
