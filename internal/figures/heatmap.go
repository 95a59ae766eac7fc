package figures

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"

	"sdmcli/internal/collinearity"
)

// corrGrid adapts a correlation matrix to plotter.GridXYZ. Rows are
// flipped so the first predictor appears at the top, matching the usual
// correlogram orientation.
type corrGrid struct {
	corr *collinearity.CorrelationMatrix
}

func (g corrGrid) Dims() (int, int) {
	n := len(g.corr.Names)
	return n, n
}

func (g corrGrid) Z(c, r int) float64 {
	n := len(g.corr.Names)
	return g.corr.ValueAt(n-1-r, c)
}

func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// CorrelationHeatmap renders the Spearman matrix as a heatmap with a
// diverging palette anchored at -1 and 1.
func CorrelationHeatmap(corr *collinearity.CorrelationMatrix) (*plot.Plot, error) {
	if len(corr.Names) == 0 {
		return nil, fmt.Errorf("empty correlation matrix")
	}

	heatMap := plotter.NewHeatMap(corrGrid{corr: corr}, moreland.SmoothBlueRed().Palette(255))
	heatMap.Min = -1
	heatMap.Max = 1

	p := plot.New()
	p.Title.Text = "Spearman correlation"
	p.Add(heatMap)
	p.NominalX(corr.Names...)

	reversed := make([]string, len(corr.Names))
	for i, name := range corr.Names {
		reversed[len(corr.Names)-1-i] = name
	}
	p.NominalY(reversed...)
	return p, nil
}
