package figures

import (
	"context"
	"fmt"
	"image/color"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"sdmcli/internal/collinearity"
	"sdmcli/internal/errors"
)

// DensityPanel renders the presence and background distributions of one
// predictor as two lines over the shared histogram bins.
func DensityPanel(pair *collinearity.DensityPair) (*plot.Plot, error) {
	if pair == nil || len(pair.Presence) == 0 {
		return nil, errors.NewValidationError("empty density pair", nil)
	}
	if len(pair.BinEdges) != len(pair.Presence)+1 {
		return nil, errors.NewValidationError("density pair bins and edges disagree", nil)
	}

	presence := make(plotter.XYs, len(pair.Presence))
	background := make(plotter.XYs, len(pair.Background))
	for i := range pair.Presence {
		center := (pair.BinEdges[i] + pair.BinEdges[i+1]) / 2
		presence[i] = plotter.XY{X: center, Y: pair.Presence[i]}
		background[i] = plotter.XY{X: center, Y: pair.Background[i]}
	}

	presLine, err := plotter.NewLine(presence)
	if err != nil {
		return nil, fmt.Errorf("presence line: %w", err)
	}
	presLine.Color = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}

	backLine, err := plotter.NewLine(background)
	if err != nil {
		return nil, fmt.Errorf("background line: %w", err)
	}
	backLine.Color = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	backLine.Dashes = plotutil.DefaultDashes[1]

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (separation %.2f)", pair.Predictor, pair.Separation)
	p.X.Label.Text = pair.Predictor
	p.Y.Label.Text = "proportion"
	p.Add(presLine, backLine)
	p.Legend.Add("presence", presLine)
	p.Legend.Add("background", backLine)
	p.Legend.Top = true
	p.Legend.Padding = vg.Points(2)
	return p, nil
}

// BuildDensityPanels builds one density panel per pair, preserving order.
func BuildDensityPanels(ctx context.Context, pairs []*collinearity.DensityPair) ([]*plot.Plot, error) {
	panels := make([]*plot.Plot, len(pairs))
	g, _ := errgroup.WithContext(ctx)
	for i, pair := range pairs {
		g.Go(func() error {
			p, err := DensityPanel(pair)
			if err != nil {
				return err
			}
			panels[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return panels, nil
}
