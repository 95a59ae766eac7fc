package collinearity

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"sdmcli/internal/dataset"
	"sdmcli/internal/errors"
)

// Options controls the reduction procedure.
type Options struct {
	CorrelationThreshold float64  // |rho| above this counts as a collinear pairing
	VIFLimit             float64  // stop once every VIF is below this
	SignificanceAlpha    float64  // p-values at or above this mark a predictor non-significant
	DensityBins          int      // bins for the separation histograms
	MaxDrops             int      // 0 means no limit
	ManualDrops          []string // analyst-ordered drops, applied before automatic ranking
}

// DefaultOptions returns the thresholds used by the source analysis.
func DefaultOptions() Options {
	return Options{
		CorrelationThreshold: 0.75,
		VIFLimit:             5,
		SignificanceAlpha:    0.05,
		DensityBins:          30,
	}
}

// Candidate is one predictor's diagnostics within a reduction round.
type Candidate struct {
	Name          string
	PValue        float64
	VIF           float64
	HighCorrPairs int
	Separation    float64
}

// Round records one elimination round.
type Round struct {
	Number     int
	MaxVIF     float64
	Dropped    string
	Reason     string
	Candidates []Candidate
}

// Result is the outcome of the reduction procedure.
type Result struct {
	Kept         []string
	DroppedOrder []string
	Rounds       []Round
	FinalVIF     map[string]float64
	Correlations *CorrelationMatrix // over the kept predictors
	Table        *dataset.Table     // NA-free table reduced to the kept predictors
	RowsDropped  int                // NA rows removed before screening
}

// Reduce runs the iterative collinearity reduction over the numeric
// predictors of table, excluding the response column. NA rows are removed
// once up front; each round computes Spearman correlations, an OLS fit of
// the response on the remaining predictors, per-predictor VIF and density
// separation, then drops one predictor until every VIF falls below the
// limit. Manual drops, when provided, take precedence over the automatic
// ranking; the ranking itself prefers non-significant predictors with many
// collinear pairings and weak presence/background separation.
func Reduce(ctx context.Context, table *dataset.Table, response string, opts Options, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !table.IsNumeric(response) {
		return nil, errors.NewValidationError(fmt.Sprintf("response column %q missing or not numeric", response), nil)
	}

	clean, rowsDropped := table.DropNARows()
	if clean.NumRows() == 0 {
		return nil, errors.NewValidationError("no observation rows after NA removal", nil)
	}
	logger.InfoContext(ctx, "screening predictors",
		"rows", clean.NumRows(),
		"na_rows_dropped", rowsDropped,
		"vif_limit", opts.VIFLimit,
		"correlation_threshold", opts.CorrelationThreshold,
	)

	predictors := predictorColumns(clean, response)
	if len(predictors) < 2 {
		return nil, errors.NewValidationError("need at least two numeric predictors", nil)
	}

	result := &Result{
		FinalVIF:    map[string]float64{},
		Table:       clean,
		RowsDropped: rowsDropped,
	}
	manual := append([]string(nil), opts.ManualDrops...)

	for round := 1; ; round++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("reduction cancelled: %w", ctx.Err())
		default:
		}

		diag, err := diagnoseRound(clean, predictors, response, opts)
		if err != nil {
			return nil, fmt.Errorf("round %d diagnostics: %w", round, err)
		}

		maxName, maxVIF := MaxVIF(diag.vifs)
		rec := Round{Number: round, MaxVIF: maxVIF, Candidates: diag.candidates}

		if maxVIF < opts.VIFLimit {
			rec.Reason = "all VIF below limit"
			result.Rounds = append(result.Rounds, rec)
			logger.InfoContext(ctx, "reduction converged",
				"round", round, "max_vif", maxVIF, "kept", len(predictors))
			break
		}
		if opts.MaxDrops > 0 && len(result.DroppedOrder) >= opts.MaxDrops {
			rec.Reason = "drop limit reached"
			result.Rounds = append(result.Rounds, rec)
			logger.WarnContext(ctx, "stopping before convergence, drop limit reached",
				"round", round, "max_vif", maxVIF, "max_vif_predictor", maxName)
			break
		}
		if len(predictors) == 2 {
			// Dropping below two predictors would leave nothing to screen.
			rec.Reason = "two predictors remain"
			result.Rounds = append(result.Rounds, rec)
			logger.WarnContext(ctx, "stopping with two predictors above VIF limit",
				"round", round, "max_vif", maxVIF)
			break
		}

		drop, reason := pickDrop(diag, manual, opts)
		if drop == "" {
			rec.Reason = "no candidate"
			result.Rounds = append(result.Rounds, rec)
			break
		}
		manual = removeName(manual, drop)

		rec.Dropped = drop
		rec.Reason = reason
		result.Rounds = append(result.Rounds, rec)
		result.DroppedOrder = append(result.DroppedOrder, drop)

		logger.InfoContext(ctx, "dropping predictor",
			"round", round,
			"predictor", drop,
			"reason", reason,
			"max_vif", maxVIF,
		)

		clean, err = clean.DropColumn(drop)
		if err != nil {
			return nil, fmt.Errorf("drop %q: %w", drop, err)
		}
		predictors = removeName(predictors, drop)
	}

	finalMatrix, err := clean.Matrix(predictors)
	if err != nil {
		return nil, fmt.Errorf("final matrix: %w", err)
	}
	result.Correlations, err = SpearmanMatrix(finalMatrix, predictors)
	if err != nil {
		return nil, fmt.Errorf("final correlations: %w", err)
	}
	result.FinalVIF, err = ComputeVIF(finalMatrix, predictors)
	if err != nil {
		return nil, fmt.Errorf("final VIF: %w", err)
	}
	result.Kept = predictors
	result.Table = clean
	return result, nil
}

type roundDiagnostics struct {
	candidates []Candidate
	vifs       map[string]float64
	pairCounts map[string]int
}

func diagnoseRound(table *dataset.Table, predictors []string, response string, opts Options) (*roundDiagnostics, error) {
	x, err := table.Matrix(predictors)
	if err != nil {
		return nil, err
	}
	y, err := table.Column(response)
	if err != nil {
		return nil, err
	}

	corr, err := SpearmanMatrix(x, predictors)
	if err != nil {
		return nil, err
	}
	pairCounts := corr.PairCounts(opts.CorrelationThreshold)

	fit, err := FitOLS(x, predictors, y)
	if err != nil {
		return nil, err
	}

	vifs, err := ComputeVIF(x, predictors)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(predictors))
	for j, name := range predictors {
		values := make([]float64, len(y))
		for i := range values {
			values[i] = x.At(i, j)
		}
		sep, err := SeparationScore(name, values, y, opts.DensityBins)
		if err != nil {
			return nil, fmt.Errorf("separation for %q: %w", name, err)
		}
		candidates = append(candidates, Candidate{
			Name:          name,
			PValue:        fit.PValues[j],
			VIF:           vifs[name],
			HighCorrPairs: pairCounts[name],
			Separation:    sep.Separation,
		})
	}

	return &roundDiagnostics{candidates: candidates, vifs: vifs, pairCounts: pairCounts}, nil
}

// pickDrop selects the predictor to eliminate this round. Analyst-supplied
// drops win; otherwise non-significant predictors are preferred, ranked by
// collinear pairings (more first), separation (weaker first) and VIF
// (higher first), with the name as a deterministic tie-break.
func pickDrop(diag *roundDiagnostics, manual []string, opts Options) (string, string) {
	byName := make(map[string]Candidate, len(diag.candidates))
	for _, c := range diag.candidates {
		byName[c.Name] = c
	}
	for _, name := range manual {
		if _, ok := byName[name]; ok {
			return name, "analyst override"
		}
	}

	pool := make([]Candidate, 0, len(diag.candidates))
	for _, c := range diag.candidates {
		if c.PValue >= opts.SignificanceAlpha {
			pool = append(pool, c)
		}
	}
	reason := "non-significant, most collinear pairings, weakest separation"
	if len(pool) == 0 {
		pool = append(pool, diag.candidates...)
		reason = "most collinear pairings, weakest separation"
	}

	sort.Slice(pool, func(a, b int) bool {
		if pool[a].HighCorrPairs != pool[b].HighCorrPairs {
			return pool[a].HighCorrPairs > pool[b].HighCorrPairs
		}
		if pool[a].Separation != pool[b].Separation {
			return pool[a].Separation < pool[b].Separation
		}
		if pool[a].VIF != pool[b].VIF {
			return pool[a].VIF > pool[b].VIF
		}
		return pool[a].Name < pool[b].Name
	})
	return pool[0].Name, reason
}

func predictorColumns(table *dataset.Table, response string) []string {
	var out []string
	for _, name := range table.NumericColumns() {
		if name != response {
			out = append(out, name)
		}
	}
	return out
}

func removeName(names []string, target string) []string {
	out := names[:0]
	for _, n := range names {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}
