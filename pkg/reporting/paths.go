package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultPathManager builds output locations for reports
type DefaultPathManager struct {
	root string
}

// NewDefaultPathManager creates a path manager rooted at root ("" = "results")
func NewDefaultPathManager(root string) *DefaultPathManager {
	if root == "" {
		root = "results"
	}
	return &DefaultPathManager{root: root}
}

// OutputDir returns the directory for a symbol's reports: {root}/{SYMBOL}
func (p *DefaultPathManager) OutputDir(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		s = "UNKNOWN"
	}
	// index tickers like ^GSPC are not valid on every filesystem
	s = strings.NewReplacer("^", "", "/", "_", "\\", "_", ":", "_").Replace(s)
	return filepath.Join(p.root, s)
}

// FilePath returns {root}/{SYMBOL}/{name}_{YYYYMMDD}{ext}
func (p *DefaultPathManager) FilePath(symbol, name string, at time.Time, ext string) string {
	return filepath.Join(p.OutputDir(symbol), fmt.Sprintf("%s_%s%s", name, at.Format("20060102"), ext))
}

// EnsureDirectoryExists creates the parent directory of path
func (p *DefaultPathManager) EnsureDirectoryExists(path string) error {
	return ensureParent(path)
}

func ensureParent(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}
