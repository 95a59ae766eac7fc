package collinearity

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// CorrelationMatrix holds a symmetric pairwise correlation matrix keyed by
// predictor name.
type CorrelationMatrix struct {
	Names  []string
	matrix *mat.SymDense
	index  map[string]int
}

// Pair is one predictor pair with its correlation coefficient.
type Pair struct {
	A, B string
	Rho  float64
}

// SpearmanMatrix computes the pairwise Spearman rank correlation of the
// columns of m. Ties receive average ranks, matching the convention of the
// source analysis.
func SpearmanMatrix(m *mat.Dense, names []string) (*CorrelationMatrix, error) {
	rows, cols := m.Dims()
	if cols != len(names) {
		return nil, fmt.Errorf("matrix has %d columns, got %d names", cols, len(names))
	}
	if rows < 3 {
		return nil, fmt.Errorf("need at least 3 rows for correlation, got %d", rows)
	}

	ranks := make([][]float64, cols)
	for j := 0; j < cols; j++ {
		ranks[j] = averageRanks(mat.Col(nil, j, m))
	}

	sym := mat.NewSymDense(cols, nil)
	for i := 0; i < cols; i++ {
		sym.SetSym(i, i, 1)
		for j := i + 1; j < cols; j++ {
			rho := stat.Correlation(ranks[i], ranks[j], nil)
			sym.SetSym(i, j, rho)
		}
	}

	index := make(map[string]int, cols)
	for i, name := range names {
		index[name] = i
	}
	return &CorrelationMatrix{Names: names, matrix: sym, index: index}, nil
}

// At returns the correlation between two named predictors.
func (c *CorrelationMatrix) At(a, b string) (float64, error) {
	i, ok := c.index[a]
	if !ok {
		return 0, fmt.Errorf("unknown predictor %q", a)
	}
	j, ok := c.index[b]
	if !ok {
		return 0, fmt.Errorf("unknown predictor %q", b)
	}
	return c.matrix.At(i, j), nil
}

// ValueAt returns the correlation at matrix position (i, j).
func (c *CorrelationMatrix) ValueAt(i, j int) float64 {
	return c.matrix.At(i, j)
}

// HighPairs returns every pair with |rho| > threshold, strongest first.
func (c *CorrelationMatrix) HighPairs(threshold float64) []Pair {
	var pairs []Pair
	for i := 0; i < len(c.Names); i++ {
		for j := i + 1; j < len(c.Names); j++ {
			rho := c.matrix.At(i, j)
			if math.Abs(rho) > threshold {
				pairs = append(pairs, Pair{A: c.Names[i], B: c.Names[j], Rho: rho})
			}
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		return math.Abs(pairs[a].Rho) > math.Abs(pairs[b].Rho)
	})
	return pairs
}

// PairCounts returns, per predictor, how many high-correlation pairs it
// participates in at the given threshold.
func (c *CorrelationMatrix) PairCounts(threshold float64) map[string]int {
	counts := make(map[string]int, len(c.Names))
	for _, name := range c.Names {
		counts[name] = 0
	}
	for _, p := range c.HighPairs(threshold) {
		counts[p.A]++
		counts[p.B]++
	}
	return counts
}

// Records renders the matrix as CSV rows with a leading name column.
func (c *CorrelationMatrix) Records() ([]string, [][]string) {
	header := append([]string{"predictor"}, c.Names...)
	records := make([][]string, len(c.Names))
	for i, name := range c.Names {
		row := make([]string, len(c.Names)+1)
		row[0] = name
		for j := range c.Names {
			row[j+1] = fmt.Sprintf("%.6f", c.matrix.At(i, j))
		}
		records[i] = row
	}
	return header, records
}

// averageRanks assigns 1-based ranks to values, giving tied runs the mean
// of the ranks they span.
func averageRanks(values []float64) []float64 {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[order[j+1]] == values[order[i]] {
			j++
		}
		// Ranks i+1..j+1 average over the tied run.
		avg := float64(i+j+2) / 2
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}
	return ranks
}
