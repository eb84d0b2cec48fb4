package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/analysis"
)

// Manager fans a report out to every configured format
type Manager struct {
	config  ReportingConfig
	console *DefaultConsoleReporter
	writers map[string]FileReporter
	paths   *DefaultPathManager
}

// NewManager creates a reporting manager. Console output goes to out (nil = stdout).
func NewManager(config ReportingConfig, out io.Writer) (*Manager, error) {
	m := &Manager{
		config:  config,
		console: NewDefaultConsoleReporter(out),
		writers: map[string]FileReporter{
			FormatJSON:  NewDefaultJSONFormatter(),
			FormatExcel: NewDefaultExcelReporter(),
			FormatCSV:   NewDefaultCSVReporter(),
		},
		paths: NewDefaultPathManager(config.OutputDirectory),
	}
	for _, f := range config.Formats {
		if _, ok := m.writers[f]; !ok && f != FormatConsole {
			return nil, fmt.Errorf("unknown report format %q", f)
		}
	}
	return m, nil
}

// Console returns the console reporter
func (m *Manager) Console() *DefaultConsoleReporter {
	return m.console
}

// Paths returns the path manager
func (m *Manager) Paths() *DefaultPathManager {
	return m.paths
}

// Report outputs a report in every configured format and returns the files written
func (m *Manager) Report(report *analysis.Report) ([]string, error) {
	if report == nil {
		return nil, fmt.Errorf("nil report")
	}

	var written []string
	var errs []string
	for _, format := range m.config.Formats {
		if format == FormatConsole {
			m.console.OutputReport(report)
			continue
		}
		w := m.writers[format]
		path := m.paths.FilePath(report.Symbol, "analysis", report.GeneratedAt, w.Extension())
		if err := w.Write(report, path); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", format, err))
			continue
		}
		written = append(written, path)
	}

	if len(errs) > 0 {
		return written, fmt.Errorf("report %s: %s", report.Symbol, strings.Join(errs, "; "))
	}
	return written, nil
}

// ReportBatch outputs every successful report then prints the batch summary
// when the console is enabled.
func (m *Manager) ReportBatch(results []analysis.BatchResult) ([]string, error) {
	var written []string
	var errs []string
	for _, res := range results {
		if res.Err != nil || res.Report == nil {
			continue
		}
		paths, err := m.Report(res.Report)
		written = append(written, paths...)
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if m.hasConsole() {
		m.console.OutputBatchSummary(results)
	}
	if len(errs) > 0 {
		return written, fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return written, nil
}

func (m *Manager) hasConsole() bool {
	for _, f := range m.config.Formats {
		if f == FormatConsole {
			return true
		}
	}
	return false
}
