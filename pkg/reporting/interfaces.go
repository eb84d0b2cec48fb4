// Package reporting renders analysis reports to the console and to files.
package reporting

import (
	"github.com/Adarshh9/FinSaathi-Datathon/internal/analysis"
)

// Output formats understood by the Manager
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatExcel   = "excel"
	FormatCSV     = "csv"
)

// FileReporter writes one report to a file
type FileReporter interface {
	// Write stores the report at path
	Write(report *analysis.Report, path string) error

	// Extension is the file extension including the dot
	Extension() string
}

// ReportingConfig holds configuration for reporting
type ReportingConfig struct {
	OutputDirectory string
	Formats         []string
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle       int
	TitleStyle        int
	LabelStyle        int
	NumberStyle       int
	CurrencyStyle     int
	PercentStyle      int
	RedPercentStyle   int
	GreenPercentStyle int
	DateStyle         int
	BaseStyle         int
}
