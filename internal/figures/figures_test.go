package figures

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"sdmcli/internal/collinearity"
	"sdmcli/internal/dataset"
	"sdmcli/internal/ensemble"
)

func decodePNG(t *testing.T, path string) (int, int) {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	img, err := png.Decode(file)
	require.NoError(t, err)
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy()
}

func sampleImportance() map[string][]Importance {
	return map[string][]Importance{
		"GAM": {
			{Predictor: "sst_mean", Percent: 35},
			{Predictor: "depth", Percent: 25},
			{Predictor: "ice_cover", Percent: 40},
		},
		"Maxent": {
			{Predictor: "sst_mean", Percent: 50},
			{Predictor: "depth", Percent: 30},
			{Predictor: "ice_cover", Percent: 20},
		},
		"RandomForest": {
			{Predictor: "sst_mean", Percent: 20},
			{Predictor: "depth", Percent: 45},
			{Predictor: "ice_cover", Percent: 35},
		},
		"BRT": {
			{Predictor: "sst_mean", Percent: 30},
			{Predictor: "depth", Percent: 30},
			{Predictor: "ice_cover", Percent: 40},
		},
	}
}

func TestLoadImportance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "importance.csv")
	content := `predictor,algorithm,importance
sst_mean,GAM,35
depth,GAM,25
sst_mean,Maxent,50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := dataset.LoadCSV(path)
	require.NoError(t, err)

	sets, err := LoadImportance(table)
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Len(t, sets["GAM"], 2)
	assert.Equal(t, Importance{Predictor: "sst_mean", Percent: 50}, sets["Maxent"][0])
}

func TestLoadImportanceMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "importance.csv")
	require.NoError(t, os.WriteFile(path, []byte("predictor,importance\nsst,1\n"), 0644))

	table, err := dataset.LoadCSV(path)
	require.NoError(t, err)

	_, err = LoadImportance(table)
	assert.Error(t, err)
}

func TestImportanceBarChart(t *testing.T) {
	p, err := ImportanceBarChart("GAM", sampleImportance()["GAM"])
	require.NoError(t, err)
	assert.Equal(t, "GAM", p.Title.Text)

	_, err = ImportanceBarChart("empty", nil)
	assert.Error(t, err)
}

func TestBuildImportancePanelsComposite(t *testing.T) {
	panels, algorithms, err := BuildImportancePanels(context.Background(), sampleImportance())
	require.NoError(t, err)
	require.Len(t, panels, 4)
	assert.Equal(t, []string{"BRT", "GAM", "Maxent", "RandomForest"}, algorithms, "deterministic panel order")

	path := filepath.Join(t.TempDir(), "importance_composite.png")
	require.NoError(t, err)
	require.NoError(t, SaveComposite(panels, 2, 24*vg.Centimeter, 18*vg.Centimeter, path))

	w, h := decodePNG(t, path)
	assert.Greater(t, w, 0)
	assert.Greater(t, h, 0)
}

func TestSaveCompositeUnevenGrid(t *testing.T) {
	panels, _, err := BuildImportancePanels(context.Background(), sampleImportance())
	require.NoError(t, err)

	// 4 panels into 3 columns leaves a hole in the second row.
	path := filepath.Join(t.TempDir(), "uneven.png")
	require.NoError(t, SaveComposite(panels, 3, 30*vg.Centimeter, 20*vg.Centimeter, path))
	assert.FileExists(t, path)
}

func TestSaveCompositeValidation(t *testing.T) {
	assert.Error(t, SaveComposite(nil, 2, vg.Centimeter, vg.Centimeter, "x.png"))

	panels, _, err := BuildImportancePanels(context.Background(), sampleImportance())
	require.NoError(t, err)
	assert.Error(t, SaveComposite(panels, 0, vg.Centimeter, vg.Centimeter, "x.png"))
}

func TestCorrelationHeatmap(t *testing.T) {
	corr := buildCorrelation(t)
	p, err := CorrelationHeatmap(corr)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "heatmap.png")
	require.NoError(t, SaveSingle(p, 16*vg.Centimeter, 14*vg.Centimeter, path))
	assert.FileExists(t, path)
}

func buildCorrelation(t *testing.T) *collinearity.CorrelationMatrix {
	t.Helper()
	table := dataset.NewTable("synthetic")
	require.NoError(t, table.AddNumericColumn("a", []float64{1, 2, 3, 4, 5}))
	require.NoError(t, table.AddNumericColumn("b", []float64{2, 1, 4, 3, 5}))
	require.NoError(t, table.AddNumericColumn("c", []float64{5, 4, 3, 2, 1}))

	m, err := table.Matrix([]string{"a", "b", "c"})
	require.NoError(t, err)

	corr, err := collinearity.SpearmanMatrix(m, []string{"a", "b", "c"})
	require.NoError(t, err)
	return corr
}

func TestDensityPanels(t *testing.T) {
	values := []float64{0.1, 0.2, 0.3, 0.4, 5.1, 5.2, 5.3, 5.4}
	response := []float64{0, 0, 0, 0, 1, 1, 1, 1}

	pair, err := collinearity.SeparationScore("sst_mean", values, response, 8)
	require.NoError(t, err)

	panels, err := BuildDensityPanels(context.Background(), []*collinearity.DensityPair{pair})
	require.NoError(t, err)
	require.Len(t, panels, 1)

	path := filepath.Join(t.TempDir(), "density.png")
	require.NoError(t, SaveComposite(panels, 1, 12*vg.Centimeter, 10*vg.Centimeter, path))
	assert.FileExists(t, path)
}

func TestDensityPanelValidation(t *testing.T) {
	_, err := DensityPanel(nil)
	assert.Error(t, err)

	_, err = DensityPanel(&collinearity.DensityPair{Presence: []float64{1}, BinEdges: []float64{0}})
	assert.Error(t, err)
}

func TestRMSEBarChart(t *testing.T) {
	selection := &ensemble.Selection{
		Best: ensemble.SchemeNormPearson,
		Results: []ensemble.SchemeResult{
			{Scheme: ensemble.SchemeNormPearson, RMSE: 0.135},
			{Scheme: ensemble.SchemeNormAUCPRG, RMSE: 0.159},
			{Scheme: ensemble.SchemeUnweighted, RMSE: 0.205},
		},
	}

	p, err := RMSEBarChart(selection)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "rmse.png")
	require.NoError(t, SaveSingle(p, 14*vg.Centimeter, 10*vg.Centimeter, path))
	assert.FileExists(t, path)

	_, err = RMSEBarChart(&ensemble.Selection{})
	assert.Error(t, err)
}
