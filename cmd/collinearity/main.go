// Command collinearity screens a species observation table for collinear
// environmental predictors. It removes incomplete rows, runs the iterative
// correlation/VIF reduction, and writes the filtered table, the diagnostic
// reports and the correlation heatmap plus density panels.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/plot/vg"

	"sdmcli/internal/collinearity"
	"sdmcli/internal/config"
	"sdmcli/internal/dataset"
	"sdmcli/internal/exporter"
	"sdmcli/internal/figures"
	"sdmcli/internal/files"
)

func main() {
	configFile := flag.String("config", "", "optional YAML configuration file")
	baseDir := flag.String("base", ".", "base directory for data, reports and figures")
	input := flag.String("input", "", "observation CSV (defaults to the newest obs_*.csv under the data directory)")
	response := flag.String("response", "", "response column (defaults to the configured one)")
	sector := flag.String("sector", "", "optional sector label to filter rows by")
	lifeStage := flag.String("life-stage", "", "optional life_stage label to filter rows by")
	drops := flag.String("drop", "", "comma-separated predictors to drop first, in order")
	maxDrops := flag.Int("max-drops", -1, "maximum predictors to drop (-1 uses the configured limit)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	runID := uuid.NewString()
	logger := cfg.Logging.NewLogger().With("run_id", runID)
	slog.SetDefault(logger)

	paths := config.NewPaths(*baseDir, cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to prepare directories", "error", err)
		os.Exit(1)
	}

	inputPath := *input
	if inputPath == "" {
		discovery := files.NewDiscovery(*baseDir)
		latest, err := discovery.FindLatest(paths.DataDir, "obs_*.csv")
		if err != nil {
			slog.Error("No observation CSV found",
				"dir", paths.DataDir,
				"hint", "pass -input or place an obs_*.csv under the data directory")
			os.Exit(1)
		}
		inputPath = latest.Path
	}

	slog.Info("Loading observations", "path", inputPath)
	table, err := dataset.LoadCSV(inputPath)
	if err != nil {
		slog.Error("Failed to load observations", "error", err)
		os.Exit(1)
	}
	table, err = filterTable(table, *sector, *lifeStage)
	if err != nil {
		slog.Error("Failed to filter observations", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded observations", "rows", table.NumRows(), "columns", table.NumCols())

	opts := collinearity.Options{
		CorrelationThreshold: cfg.Collinearity.CorrelationThreshold,
		VIFLimit:             cfg.Collinearity.VIFLimit,
		SignificanceAlpha:    cfg.Collinearity.SignificanceAlpha,
		DensityBins:          cfg.Collinearity.DensityBins,
		MaxDrops:             cfg.Collinearity.MaxDrops,
	}
	if *maxDrops >= 0 {
		opts.MaxDrops = *maxDrops
	}
	if *drops != "" {
		for _, name := range strings.Split(*drops, ",") {
			if name = strings.TrimSpace(name); name != "" {
				opts.ManualDrops = append(opts.ManualDrops, name)
			}
		}
	}

	respColumn := *response
	if respColumn == "" {
		respColumn = cfg.Ensemble.ResponseColumn
	}

	ctx := context.Background()
	result, err := collinearity.Reduce(ctx, table, respColumn, opts, logger)
	if err != nil {
		slog.Error("Predictor screening failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Screening complete",
		"kept", len(result.Kept),
		"dropped", len(result.DroppedOrder),
		"rounds", len(result.Rounds),
	)

	if err := writeReports(paths, runID, result); err != nil {
		slog.Error("Failed to write reports", "error", err)
		os.Exit(1)
	}
	if err := writeFigures(ctx, cfg, paths, respColumn, result); err != nil {
		slog.Error("Failed to write figures", "error", err)
		os.Exit(1)
	}
	slog.Info("Collinearity screening done", "reports_dir", paths.ReportsDir, "figures_dir", paths.FiguresDir)
}

func filterTable(table *dataset.Table, sector, lifeStage string) (*dataset.Table, error) {
	var err error
	if sector != "" {
		if table, err = table.FilterRows("sector", sector); err != nil {
			return nil, fmt.Errorf("filter sector %q: %w", sector, err)
		}
	}
	if lifeStage != "" {
		if table, err = table.FilterRows("life_stage", lifeStage); err != nil {
			return nil, fmt.Errorf("filter life_stage %q: %w", lifeStage, err)
		}
	}
	return table, nil
}

func writeReports(paths *config.Paths, runID string, result *collinearity.Result) error {
	writer := exporter.NewCSVWriter(paths.ReportsDir)

	header, records := result.Table.Records()
	if err := writer.WriteSimpleCSV("predictors_reduced.csv", header, records); err != nil {
		return fmt.Errorf("write reduced table: %w", err)
	}

	corrHeader, corrRecords := result.Correlations.Records()
	if err := writer.WriteSimpleCSV("correlation_matrix.csv", corrHeader, corrRecords); err != nil {
		return fmt.Errorf("write correlation matrix: %w", err)
	}

	roundHeader, roundRecords := result.RoundRecords()
	if err := writer.WriteSimpleCSV("reduction_rounds.csv", roundHeader, roundRecords); err != nil {
		return fmt.Errorf("write reduction rounds: %w", err)
	}

	vifHeader, vifRecords := result.VIFRecords()
	if err := writer.WriteSimpleCSV("final_vif.csv", vifHeader, vifRecords); err != nil {
		return fmt.Errorf("write final VIF: %w", err)
	}

	candHeader, candRecords := result.CandidateRecords()
	workbook := exporter.NewWorkbookWriter(runID)
	sheets := []exporter.Sheet{
		{Name: "Rounds", Headers: roundHeader, Records: roundRecords},
		{Name: "Candidates", Headers: candHeader, Records: candRecords},
		{Name: "Final VIF", Headers: vifHeader, Records: vifRecords},
		{Name: "Correlations", Headers: corrHeader, Records: corrRecords},
	}
	if err := workbook.Write(paths.ReportPath("collinearity_report.xlsx"), sheets); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeFigures(ctx context.Context, cfg *config.Config, paths *config.Paths, response string, result *collinearity.Result) error {
	width := vg.Length(cfg.Figures.WidthCentimeters) * vg.Centimeter
	height := vg.Length(cfg.Figures.HeightCentimeters) * vg.Centimeter

	heatmap, err := figures.CorrelationHeatmap(result.Correlations)
	if err != nil {
		return fmt.Errorf("build heatmap: %w", err)
	}
	if err := figures.SaveSingle(heatmap, width, height, paths.FigurePath("correlation_heatmap.png")); err != nil {
		return fmt.Errorf("save heatmap: %w", err)
	}

	observed, err := result.Table.Column(response)
	if err != nil {
		return fmt.Errorf("response column: %w", err)
	}
	pairs := make([]*collinearity.DensityPair, 0, len(result.Kept))
	for _, name := range result.Kept {
		values, err := result.Table.Column(name)
		if err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}
		pair, err := collinearity.SeparationScore(name, values, observed, cfg.Collinearity.DensityBins)
		if err != nil {
			return fmt.Errorf("densities for %q: %w", name, err)
		}
		pairs = append(pairs, pair)
	}
	panels, err := figures.BuildDensityPanels(ctx, pairs)
	if err != nil {
		return fmt.Errorf("build density panels: %w", err)
	}
	if err := figures.SaveComposite(panels, cfg.Figures.GridColumns, width, height, paths.FigurePath("density_panels.png")); err != nil {
		return fmt.Errorf("save density panels: %w", err)
	}
	return nil
}
