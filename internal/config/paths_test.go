package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	t.Run("relative directories join base", func(t *testing.T) {
		p := NewPaths("/work", PathsConfig{DataDir: "data", ReportsDir: "reports", FiguresDir: "figures"})
		assert.Equal(t, filepath.Join("/work", "data"), p.DataDir)
		assert.Equal(t, filepath.Join("/work", "reports"), p.ReportsDir)
		assert.Equal(t, filepath.Join("/work", "figures"), p.FiguresDir)
	})

	t.Run("absolute directories pass through", func(t *testing.T) {
		p := NewPaths("/work", PathsConfig{DataDir: "/srv/data", ReportsDir: "reports", FiguresDir: "figures"})
		assert.Equal(t, "/srv/data", p.DataDir)
	})
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "data"), 0755))

	p := NewPaths(base, PathsConfig{DataDir: "data", ReportsDir: "reports", FiguresDir: "figures"})
	require.NoError(t, p.EnsureDirectories())

	assert.DirExists(t, p.ReportsDir)
	assert.DirExists(t, p.FiguresDir)
}

func TestEnsureDirectoriesMissingData(t *testing.T) {
	p := NewPaths(t.TempDir(), PathsConfig{DataDir: "data", ReportsDir: "reports", FiguresDir: "figures"})
	assert.Error(t, p.EnsureDirectories())
}

func TestPathHelpers(t *testing.T) {
	p := &Paths{DataDir: "/d", ReportsDir: "/r", FiguresDir: "/f"}
	assert.Equal(t, filepath.Join("/d", "obs.csv"), p.DataPath("obs.csv"))
	assert.Equal(t, filepath.Join("/r", "weights.csv"), p.ReportPath("weights.csv"))
	assert.Equal(t, filepath.Join("/f", "importance.png"), p.FigurePath("importance.png"))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x.csv")
	require.NoError(t, os.WriteFile(file, []byte("a,b\n"), 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "missing.csv")))
	assert.False(t, FileExists(dir))
}
