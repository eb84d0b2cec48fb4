package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adarshh9/FinSaathi-Datathon/cmd/common"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
	"github.com/Adarshh9/FinSaathi-Datathon/pkg/data"
)

const appName = "finsaathi-fetch"

func main() {
	fs := flag.NewFlagSet(appName, flag.ExitOnError)
	flags := common.RegisterCommonFlags(fs)
	interval := fs.String("interval", "", "Bar interval (e.g. 1d, 1h); defaults to data.interval")
	outdir := fs.String("outdir", "", "Directory to write CSV snapshots (defaults to data.dir)")

	usage := common.NewUsageFormatter(appName, "Download price history into the CSV provider's layout").
		AddExample(appName+" -provider bybit -period 2y BTCUSDT ETHUSDT", "Snapshot two Bybit symbols").
		AddExample(appName+" -period max ^GSPC", "Snapshot the S&P 500 from Yahoo Finance")
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
	if cfg.Data.Provider == "csv" {
		common.Error("fetch needs a remote provider (yahoo or bybit)")
		os.Exit(2)
	}
	if *interval != "" {
		cfg.Data.Interval = *interval
	}
	root := cfg.Data.Dir
	if *outdir != "" {
		root = *outdir
	}

	symbols := common.Symbols(fs.Args(), cfg.Watch.Symbols)
	if len(symbols) == 0 {
		usage.PrintUsage(fs)
		os.Exit(2)
	}

	log, err := common.NewLogger(cfg)
	if err != nil {
		common.Error("logger: %v", err)
		os.Exit(2)
	}
	defer log.Close()

	opts := cfg.ProviderOptions(log)
	opts.Cache = false
	provider, err := data.NewProvider(opts)
	if err != nil {
		common.Error("%v", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	common.Header("Downloading " + cfg.Data.Period + " of " + cfg.Data.Interval + " bars")
	failed := 0
	for _, symbol := range symbols {
		series, err := provider.FetchSeries(ctx, symbol, cfg.Data.Period)
		if err != nil {
			failed++
			common.Error("%s: %v", symbol, err)
			continue
		}
		path := data.SnapshotPath(root, symbol, cfg.Data.Interval)
		if err := data.WriteSeriesCSV(path, series); err != nil {
			failed++
			common.Error("%s: %v", symbol, err)
			continue
		}
		first, last := series.Bars[0].Timestamp, series.Bars[series.Len()-1].Timestamp
		log.Debug("snapshot written", logger.String("symbol", symbol), logger.String("path", path))
		common.Success("%s: %d bars (%s → %s) saved to %s",
			symbol, series.Len(), first.Format("2006-01-02"), last.Format("2006-01-02"), path)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
