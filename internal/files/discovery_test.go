package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFileAt(t *testing.T, path string, modTime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func TestFindCSVFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	writeFileAt(t, filepath.Join(dir, "obs_2019.csv"), now.Add(-2*time.Hour))
	writeFileAt(t, filepath.Join(dir, "obs_2020.csv"), now.Add(-1*time.Hour))
	writeFileAt(t, filepath.Join(dir, "notes.txt"), now)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))

	d := NewDiscovery(dir)
	files, err := d.FindCSVFiles(".")
	require.NoError(t, err)

	require.Len(t, files, 2)
	// Newest first.
	assert.Equal(t, "obs_2020.csv", files[0].Name)
	assert.Equal(t, "obs_2019.csv", files[1].Name)
}

func TestFindCSVFilesMissingDir(t *testing.T) {
	d := NewDiscovery(t.TempDir())
	_, err := d.FindCSVFiles("absent")
	assert.Error(t, err)
}

func TestFindMatching(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeFileAt(t, filepath.Join(dir, "obs_weaning.csv"), now.Add(-time.Hour))
	writeFileAt(t, filepath.Join(dir, "obs_moult.csv"), now)
	writeFileAt(t, filepath.Join(dir, "weights.csv"), now)

	d := NewDiscovery(dir)

	matched, err := d.FindMatching(".", "obs_*.csv")
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "obs_moult.csv", matched[0].Name)

	_, err = d.FindMatching(".", "[")
	assert.Error(t, err)
}

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeFileAt(t, filepath.Join(dir, "preds_v1.csv"), now.Add(-time.Hour))
	writeFileAt(t, filepath.Join(dir, "preds_v2.csv"), now)

	d := NewDiscovery(dir)

	latest, err := d.FindLatest(".", "preds_*.csv")
	require.NoError(t, err)
	assert.Equal(t, "preds_v2.csv", latest.Name)

	_, err = d.FindLatest(".", "nothing_*.csv")
	assert.Error(t, err)
}
