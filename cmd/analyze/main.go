package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adarshh9/FinSaathi-Datathon/cmd/common"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/analysis"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/config"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
	"github.com/Adarshh9/FinSaathi-Datathon/pkg/reporting"
)

const appName = "finsaathi-analyze"

func main() {
	fs := flag.NewFlagSet(appName, flag.ExitOnError)
	flags := common.RegisterCommonFlags(fs)
	workers := fs.Int("workers", 0, "Concurrent analyses for multiple symbols (0 = config)")
	prompt := fs.Bool("prompt", false, "Print the narrative prompt for each report")

	usage := common.NewUsageFormatter(appName, "Technical analysis, Monte Carlo risk and backtest for one or more symbols").
		AddExample(appName+" AAPL", "Analyze one symbol with defaults (Yahoo Finance, 1y)").
		AddExample(appName+" -period 6mo -formats console,excel AAPL MSFT", "Analyze two symbols and write Excel workbooks").
		AddExample(appName+" -provider csv -data-root data BTCUSDT", "Analyze a local CSV file")
	fs.Usage = func() { usage.PrintUsage(fs) }

	fs.Parse(os.Args[1:])
	if common.CheckHelpAndVersion(appName, fs, flags, usage) {
		return
	}

	cfg, err := common.LoadConfig(flags)
	if err != nil {
		common.Error("configuration: %v", err)
		os.Exit(2)
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}

	log, err := common.NewLogger(cfg)
	if err != nil {
		common.Error("logger: %v", err)
		os.Exit(2)
	}
	defer log.Close()

	symbols := common.Symbols(fs.Args(), cfg.Watch.Symbols)
	if len(symbols) == 0 {
		usage.PrintUsage(fs)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, symbols, *prompt, log); err != nil {
		common.Error("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, symbols []string, printPrompt bool, log *logger.Logger) error {
	svc, err := common.NewService(cfg, nil, log)
	if err != nil {
		return err
	}
	reporter, err := reporting.NewManager(reporting.ReportingConfig{
		OutputDirectory: cfg.Report.OutputDir,
		Formats:         cfg.Report.Formats,
	}, os.Stdout)
	if err != nil {
		return err
	}

	common.Header(fmt.Sprintf("%s v%s", common.ProjectName, common.ProjectVersion))
	common.Info("Provider: %s | Period: %s | Symbols: %d", cfg.Data.Provider, cfg.Data.Period, len(symbols))

	var results []analysis.BatchResult
	if len(symbols) == 1 {
		report, err := svc.Analyze(ctx, symbols[0])
		results = []analysis.BatchResult{{Symbol: symbols[0], Report: report, Err: err}}
		if err != nil {
			return fmt.Errorf("analysis of %s failed: %w", symbols[0], err)
		}
		written, err := reporter.Report(report)
		announce(written)
		if err != nil {
			return err
		}
	} else {
		results = analysis.NewBatchAnalyzer(svc, cfg.Batch.Workers, log).Run(ctx, symbols)
		written, err := reporter.ReportBatch(results)
		announce(written)
		if err != nil {
			return err
		}
	}

	if printPrompt {
		for _, report := range analysis.Succeeded(results) {
			text, err := analysis.BuildPrompt(report)
			if err != nil {
				return err
			}
			common.Header("prompt: " + report.Symbol)
			fmt.Println(text)
		}
	}

	failed := len(results) - len(analysis.Succeeded(results))
	if failed > 0 {
		return fmt.Errorf("%d of %d symbols failed", failed, len(results))
	}
	common.Success("Analyzed %d symbol(s)", len(results))
	return nil
}

func announce(paths []string) {
	for _, p := range paths {
		common.Success("Report saved: %s", p)
	}
}
