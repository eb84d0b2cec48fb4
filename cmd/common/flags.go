package common

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/config"
)

// CommonFlags contains flags that are shared across commands. Empty values
// leave the configuration untouched.
type CommonFlags struct {
	Config   *string
	EnvFile  *string
	Provider *string
	DataRoot *string
	Period   *string
	Formats  *string
	Output   *string
	LogLevel *string
	Verbose  *bool

	Version *bool
	Help    *bool
}

// RegisterCommonFlags registers common flags on fs
func RegisterCommonFlags(fs *flag.FlagSet) *CommonFlags {
	return &CommonFlags{
		Config:   fs.String("config", "", "Configuration file (e.g. analyze or configs/analyze.yaml)"),
		EnvFile:  fs.String("env", ".env", "Environment file path"),
		Provider: fs.String("provider", "", "Data provider: csv, yahoo or bybit"),
		DataRoot: fs.String("data-root", "", "Data root directory for the csv provider"),
		Period:   fs.String("period", "", "Lookback period (e.g. 6mo, 1y, ytd, max)"),
		Formats:  fs.String("formats", "", "Comma-separated report formats: console, json, excel, csv"),
		Output:   fs.String("output", "", "Report output directory"),
		LogLevel: fs.String("log-level", "", "Log level (debug, info, warn, error)"),
		Verbose:  fs.Bool("verbose", false, "Enable debug logging"),

		Version: fs.Bool("version", false, "Show version information"),
		Help:    fs.Bool("help", false, "Show help information"),
	}
}

// Apply copies the flags that were set onto cfg. Flags take precedence over
// the file and the environment.
func (f *CommonFlags) Apply(cfg *config.Config) {
	if *f.Provider != "" {
		cfg.Data.Provider = strings.ToLower(*f.Provider)
	}
	if *f.DataRoot != "" {
		cfg.Data.Dir = *f.DataRoot
	}
	if *f.Period != "" {
		cfg.Data.Period = *f.Period
	}
	if *f.Formats != "" {
		cfg.Report.Formats = SplitList(*f.Formats)
	}
	if *f.Output != "" {
		cfg.Report.OutputDir = *f.Output
	}
	if *f.LogLevel != "" {
		cfg.Logging.Level = strings.ToLower(*f.LogLevel)
	}
	if *f.Verbose {
		cfg.Logging.Level = "debug"
	}
}

// SplitList splits a comma-separated flag value, dropping blanks
func SplitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// UsageFormatter provides utilities for formatting flag usage
type UsageFormatter struct {
	AppName        string
	AppDescription string
	Examples       []UsageExample
}

// UsageExample represents a usage example
type UsageExample struct {
	Command     string
	Description string
}

// NewUsageFormatter creates a new usage formatter
func NewUsageFormatter(appName, description string) *UsageFormatter {
	return &UsageFormatter{
		AppName:        appName,
		AppDescription: description,
	}
}

// AddExample adds a usage example
func (u *UsageFormatter) AddExample(command, description string) *UsageFormatter {
	u.Examples = append(u.Examples, UsageExample{
		Command:     command,
		Description: description,
	})
	return u
}

// PrintUsage prints formatted usage information for fs
func (u *UsageFormatter) PrintUsage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintf(out, "%s - %s\n\n", u.AppName, u.AppDescription)

	fmt.Fprintf(out, "USAGE:\n")
	fmt.Fprintf(out, "  %s [OPTIONS] [SYMBOL...]\n\n", filepath.Base(os.Args[0]))

	if len(u.Examples) > 0 {
		fmt.Fprintf(out, "EXAMPLES:\n")
		for _, example := range u.Examples {
			fmt.Fprintf(out, "  # %s\n", example.Description)
			fmt.Fprintf(out, "  %s\n\n", example.Command)
		}
	}

	fmt.Fprintf(out, "OPTIONS:\n")
	fs.PrintDefaults()
}

// CheckHelpAndVersion handles -help and -version. It returns true when the
// command should exit.
func CheckHelpAndVersion(appName string, fs *flag.FlagSet, f *CommonFlags, usage *UsageFormatter) bool {
	if *f.Version {
		PrintVersion(appName)
		return true
	}
	if *f.Help {
		usage.PrintUsage(fs)
		return true
	}
	return false
}
