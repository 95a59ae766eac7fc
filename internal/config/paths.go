package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the resolved directories used by the analysis commands.
type Paths struct {
	DataDir    string
	ReportsDir string
	FiguresDir string
}

// NewPaths resolves the configured directories relative to baseDir
// (typically the working directory) and returns them without touching disk.
func NewPaths(baseDir string, cfg PathsConfig) *Paths {
	resolve := func(dir string) string {
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(baseDir, dir)
	}
	return &Paths{
		DataDir:    resolve(cfg.DataDir),
		ReportsDir: resolve(cfg.ReportsDir),
		FiguresDir: resolve(cfg.FiguresDir),
	}
}

// EnsureDirectories creates the report and figure directories if missing.
// The data directory is input-only and must already exist.
func (p *Paths) EnsureDirectories() error {
	if _, err := os.Stat(p.DataDir); err != nil {
		return fmt.Errorf("data directory %s: %w", p.DataDir, err)
	}
	for _, dir := range []string{p.ReportsDir, p.FiguresDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DataPath returns the path of an input file under the data directory.
func (p *Paths) DataPath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// ReportPath returns the path of an output file under the reports directory.
func (p *Paths) ReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// FigurePath returns the path of an output image under the figures directory.
func (p *Paths) FigurePath(filename string) string {
	return filepath.Join(p.FiguresDir, filename)
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
