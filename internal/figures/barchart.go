package figures

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"sdmcli/internal/dataset"
	"sdmcli/internal/ensemble"
	"sdmcli/internal/errors"
)

// Importance is one predictor's relative importance for one algorithm.
type Importance struct {
	Predictor string
	Percent   float64
}

// LoadImportance parses a long-format variable-importance table with
// columns predictor, algorithm and importance, grouped by algorithm.
func LoadImportance(table *dataset.Table) (map[string][]Importance, error) {
	predictors, err := table.Label("predictor")
	if err != nil {
		return nil, fmt.Errorf("importance table: %w", err)
	}
	algorithms, err := table.Label("algorithm")
	if err != nil {
		return nil, fmt.Errorf("importance table: %w", err)
	}
	values, err := table.Column("importance")
	if err != nil {
		return nil, fmt.Errorf("importance table: %w", err)
	}

	out := make(map[string][]Importance)
	for i := 0; i < table.NumRows(); i++ {
		out[algorithms[i]] = append(out[algorithms[i]], Importance{
			Predictor: predictors[i],
			Percent:   values[i],
		})
	}
	if len(out) == 0 {
		return nil, errors.NewValidationError("importance table has no rows", nil)
	}
	return out, nil
}

// ImportanceBarChart builds a horizontal bar chart of predictor importance,
// largest at the top.
func ImportanceBarChart(title string, imps []Importance) (*plot.Plot, error) {
	if len(imps) == 0 {
		return nil, errors.NewValidationError("no importance rows for "+title, nil)
	}

	sorted := append([]Importance(nil), imps...)
	sort.Slice(sorted, func(a, b int) bool {
		// Ascending so the largest bar lands at the top of the axis.
		return sorted[a].Percent < sorted[b].Percent
	})

	values := make(plotter.Values, len(sorted))
	names := make([]string, len(sorted))
	for i, imp := range sorted {
		values[i] = imp.Percent
		names[i] = imp.Predictor
	}

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return nil, fmt.Errorf("bar chart %q: %w", title, err)
	}
	bars.Horizontal = true

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "relative importance (%)"
	p.Add(bars)
	p.NominalY(names...)
	return p, nil
}

// BuildImportancePanels builds one bar chart per algorithm, in sorted
// algorithm order. Panels build concurrently; composition happens later on
// a single canvas.
func BuildImportancePanels(ctx context.Context, sets map[string][]Importance) ([]*plot.Plot, []string, error) {
	algorithms := make([]string, 0, len(sets))
	for alg := range sets {
		algorithms = append(algorithms, alg)
	}
	sort.Strings(algorithms)

	panels := make([]*plot.Plot, len(algorithms))
	g, _ := errgroup.WithContext(ctx)
	for i, alg := range algorithms {
		g.Go(func() error {
			p, err := ImportanceBarChart(alg, sets[alg])
			if err != nil {
				return err
			}
			panels[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return panels, algorithms, nil
}

// RMSEBarChart builds a bar chart comparing the candidate weighting
// schemes by RMSE, in the selection's (ascending) order.
func RMSEBarChart(selection *ensemble.Selection) (*plot.Plot, error) {
	if len(selection.Results) == 0 {
		return nil, errors.NewValidationError("selection holds no schemes", nil)
	}

	values := make(plotter.Values, len(selection.Results))
	names := make([]string, len(selection.Results))
	for i, r := range selection.Results {
		values[i] = r.RMSE
		names[i] = string(r.Scheme)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, fmt.Errorf("RMSE chart: %w", err)
	}

	p := plot.New()
	p.Title.Text = "Ensemble RMSE by weighting scheme"
	p.Y.Label.Text = "RMSE"
	p.Add(bars)
	p.NominalX(names...)
	return p, nil
}
