package figures

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"sdmcli/internal/errors"
)

// SaveComposite arranges the panels into a grid with the given number of
// columns and writes the whole canvas as one PNG.
func SaveComposite(panels []*plot.Plot, cols int, width, height vg.Length, path string) error {
	if len(panels) == 0 {
		return errors.NewValidationError("no panels to compose", nil)
	}
	if cols < 1 {
		return errors.NewValidationError("grid needs at least one column", nil)
	}

	rows := (len(panels) + cols - 1) / cols
	grid := make([][]*plot.Plot, rows)
	for r := range grid {
		grid[r] = make([]*plot.Plot, cols)
		for c := 0; c < cols; c++ {
			idx := r*cols + c
			if idx < len(panels) {
				grid[r][c] = panels[idx]
			}
		}
	}

	img := vgimg.New(width, height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows,
		Cols: cols,
		PadX: vg.Millimeter * 2,
		PadY: vg.Millimeter * 2,
	}

	canvases := plot.Align(grid, tiles, dc)
	for r := range grid {
		for c := range grid[r] {
			if grid[r][c] != nil {
				grid[r][c].Draw(canvases[r][c])
			}
		}
	}

	return writePNG(img, path)
}

// SaveSingle writes one plot as a PNG of the given size.
func SaveSingle(p *plot.Plot, width, height vg.Length, path string) error {
	if p == nil {
		return errors.NewValidationError("nil plot", nil)
	}
	img := vgimg.New(width, height)
	p.Draw(draw.New(img))
	return writePNG(img, path)
}

func writePNG(img *vgimg.Canvas, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(file); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
