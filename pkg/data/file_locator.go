package data

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileLocator implements FileLocator for standard file system layouts
type DefaultFileLocator struct{}

// NewDefaultFileLocator creates a new default file locator
func NewDefaultFileLocator() *DefaultFileLocator {
	return &DefaultFileLocator{}
}

// CandidatePaths lists the locations searched for a symbol, in order:
//
//	{root}/{SYMBOL}/{interval}/candles.csv
//	{root}/{SYMBOL}.csv
//	{root}/{symbol}.csv
func (f *DefaultFileLocator) CandidatePaths(dataRoot, symbol, interval string) []string {
	upper := strings.ToUpper(symbol)
	var paths []string
	if interval != "" {
		paths = append(paths, filepath.Join(dataRoot, upper, interval, "candles.csv"))
	}
	paths = append(paths, filepath.Join(dataRoot, upper+".csv"))
	if lower := strings.ToLower(symbol); lower != upper {
		paths = append(paths, filepath.Join(dataRoot, lower+".csv"))
	}
	return paths
}

// FindDataFile returns the first candidate path that exists, or "" if none do
func (f *DefaultFileLocator) FindDataFile(dataRoot, symbol, interval string) string {
	for _, path := range f.CandidatePaths(dataRoot, symbol, interval) {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
