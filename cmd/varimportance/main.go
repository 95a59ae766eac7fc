// Command varimportance renders per-algorithm variable importance bar
// charts and composes them into a single figure.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"gonum.org/v1/plot/vg"

	"sdmcli/internal/config"
	"sdmcli/internal/dataset"
	"sdmcli/internal/figures"
)

func main() {
	configFile := flag.String("config", "", "optional YAML configuration file")
	baseDir := flag.String("base", ".", "base directory for data, reports and figures")
	input := flag.String("input", "variable_importance.csv", "importance CSV under the data directory")
	output := flag.String("output", "variable_importance.png", "figure filename under the figures directory")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.Logging.NewLogger().With("run_id", uuid.NewString())
	slog.SetDefault(logger)

	paths := config.NewPaths(*baseDir, cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to prepare directories", "error", err)
		os.Exit(1)
	}

	table, err := dataset.LoadCSV(paths.DataPath(*input))
	if err != nil {
		slog.Error("Failed to load importance table", "error", err)
		os.Exit(1)
	}
	sets, err := figures.LoadImportance(table)
	if err != nil {
		slog.Error("Failed to parse importance table", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	panels, algorithms, err := figures.BuildImportancePanels(ctx, sets)
	if err != nil {
		slog.Error("Failed to build importance panels", "error", err)
		os.Exit(1)
	}
	slog.Info("Built importance panels", "algorithms", len(algorithms))

	width := vg.Length(cfg.Figures.WidthCentimeters) * vg.Centimeter
	height := vg.Length(cfg.Figures.HeightCentimeters) * vg.Centimeter
	outPath := paths.FigurePath(*output)
	if err := figures.SaveComposite(panels, cfg.Figures.GridColumns, width, height, outPath); err != nil {
		slog.Error("Failed to save composite figure", "error", err)
		os.Exit(1)
	}
	slog.Info("Variable importance figure done", "path", outPath)
}
