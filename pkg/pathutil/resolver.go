// Package pathutil provides centralized path management for output batch
// files and the conversion-history database.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathResolver manages paths under the output root.
type PathResolver struct {
	outputRoot   string
	databasePath string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// OutputRoot is the directory batch files are written to.
	OutputRoot string
	// DatabasePath is the path to the SQLite conversion-history database.
	DatabasePath string
}

// New creates a new PathResolver with the given configuration.
// If DatabasePath is empty, it defaults to {OutputRoot}/.recon/history.db.
func New(config Config) *PathResolver {
	root := config.OutputRoot
	if root == "" {
		root = "."
	}

	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(root, ".recon", "history.db")
	}

	return &PathResolver{
		outputRoot:   root,
		databasePath: dbPath,
	}
}

// GetOutputRoot returns the output root directory.
func (p *PathResolver) GetOutputRoot() string {
	return p.outputRoot
}

// GetDatabasePath returns the database file path.
func (p *PathResolver) GetDatabasePath() string {
	return p.databasePath
}

// GetBatchPath returns the output path for one settlement-method batch.
// base may name a path outside the output root; a bare base is placed
// under the root.
// Example: GetBatchPath("sales_2025-07", "urikake_mercari")
// → {OutputRoot}/sales_2025-07_urikake_mercari.csv
func (p *PathResolver) GetBatchPath(base, slug string) string {
	filename := fmt.Sprintf("%s_%s.csv", base, slug)
	if filepath.IsAbs(base) || strings.ContainsRune(base, filepath.Separator) {
		return filename
	}
	return filepath.Join(p.outputRoot, filename)
}

// DefaultBase derives a batch base name from an input file path by
// stripping the directory and .csv extension and appending "_yayoi".
func DefaultBase(inputPath string) string {
	name := filepath.Base(inputPath)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return name + "_yayoi"
}

// EnsureDir creates a directory if it doesn't exist, including parents.
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// EnsureParentDir ensures the parent directory of a file exists.
func (p *PathResolver) EnsureParentDir(filePath string) error {
	dir := filepath.Dir(filePath)
	return p.EnsureDir(dir)
}

// FileExists checks if a file exists.
func (p *PathResolver) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}
