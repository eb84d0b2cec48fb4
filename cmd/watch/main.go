package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Adarshh9/FinSaathi-Datathon/cmd/common"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/analysis"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/config"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/monitoring"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/notifications"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/scheduler"
	"github.com/Adarshh9/FinSaathi-Datathon/pkg/reporting"
)

const (
	appName  = "finsaathi-watch"
	taskName = "watchlist"
)

func main() {
	fs := flag.NewFlagSet(appName, flag.ExitOnError)
	flags := common.RegisterCommonFlags(fs)
	schedule := fs.String("schedule", "", "Six-field cron spec overriding watch.schedule")
	once := fs.Bool("once", false, "Analyze the watchlist once and exit")

	usage := common.NewUsageFormatter(appName, "Re-analyze a watchlist on a schedule and serve metrics").
		AddExample(appName+" -config watch", "Run with configs/watch.yaml").
		AddExample(appName+" -schedule '0 */30 * * * *' AAPL MSFT", "Every 30 minutes for two symbols")
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
	if *schedule != "" {
		cfg.Watch.Schedule = *schedule
	}
	cfg.Watch.Symbols = common.Symbols(fs.Args(), cfg.Watch.Symbols)
	if err := cfg.Validate(); err != nil {
		common.Error("configuration: %v", err)
		os.Exit(2)
	}
	if len(cfg.Watch.Symbols) == 0 {
		common.Error("no symbols to watch: pass them as arguments or set watch.symbols")
		os.Exit(2)
	}

	log, err := common.NewLogger(cfg)
	if err != nil {
		common.Error("logger: %v", err)
		os.Exit(2)
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *once, log); err != nil {
		log.Error("watch failed", logger.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, once bool, log *logger.Logger) error {
	metrics := monitoring.NewMetrics()
	health := monitoring.NewHealthChecker(cfg.Metrics.MaxAge)

	svc, err := common.NewService(cfg, metrics, log)
	if err != nil {
		return err
	}

	formats := make([]string, 0, len(cfg.Report.Formats))
	for _, f := range cfg.Report.Formats {
		if f != reporting.FormatConsole {
			formats = append(formats, f)
		}
	}
	reporter, err := reporting.NewManager(reporting.ReportingConfig{
		OutputDirectory: cfg.Report.OutputDir,
		Formats:         formats,
	}, nil)
	if err != nil {
		return err
	}

	journals := newJournalSet(cfg.Watch.JournalDir, log)
	defer journals.Close()

	var alerter *notifications.SignalAlerter
	if cfg.Watch.Alerts.Enabled {
		alerter = notifications.NewSignalAlerter(
			notifications.NewTelegramNotifier(cfg.Watch.Alerts.TelegramToken, cfg.Watch.Alerts.TelegramChatID), log)
	}

	sink := func(res analysis.BatchResult) {
		if alerter != nil {
			alerter.Observe(ctx, res)
		}
		j := journals.Get(res.Symbol)
		if res.Err != nil {
			health.RecordFailure(res.Symbol, res.Err)
			if j != nil {
				j.LogError("analysis", res.Err)
			}
			return
		}
		health.RecordSuccess(res.Symbol)
		if j != nil {
			j.LogAnalysis(journalEntry(res.Report))
			for _, w := range res.Report.Warnings {
				j.Warning("%s", w)
			}
		}
		written, err := reporter.Report(res.Report)
		if err != nil {
			log.Warn("report output failed", logger.String("symbol", res.Symbol), logger.Err(err))
		}
		for _, p := range written {
			log.Info("report saved", logger.String("symbol", res.Symbol), logger.String("path", p))
		}
	}

	watchlist := scheduler.NewWatchlist(
		analysis.NewBatchAnalyzer(svc, cfg.Batch.Workers, log),
		cfg.Watch.Symbols, sink, log)

	if once {
		watchlist.Run(ctx)
		return nil
	}

	var srv *http.Server
	if cfg.Metrics.Enabled {
		srv = newServer(cfg.Metrics.Listen, metrics, health)
		go func() {
			log.Info("metrics server listening", logger.String("addr", cfg.Metrics.Listen))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", logger.Err(err))
			}
		}()
	}

	sched := scheduler.NewScheduler(ctx, log)
	if err := sched.Register(taskName, cfg.Watch.Schedule, watchlist.Run); err != nil {
		return err
	}
	sched.Start()
	if next, ok := sched.Next(taskName); ok {
		log.Info("watch started",
			logger.Strings("symbols", watchlist.Symbols()),
			logger.String("schedule", cfg.Watch.Schedule),
			logger.String("next_run", next.Format(time.RFC3339)))
	}
	if cfg.Watch.RunOnStart {
		if err := sched.RunNow(taskName); err != nil {
			return err
		}
	}

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sched.Stop(shutdownCtx); err != nil {
		log.Warn("scheduler did not stop cleanly", logger.Err(err))
	}
	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics server shutdown", logger.Err(err))
		}
	}
	return nil
}

func newServer(addr string, metrics *monitoring.Metrics, health *monitoring.HealthChecker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/health", health)
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func journalEntry(r *analysis.Report) logger.AnalysisEntry {
	e := logger.AnalysisEntry{
		Price:  r.Snapshot.Price,
		Signal: r.Snapshot.Signal,
		RSI:    r.Snapshot.RSI,
	}
	if r.Simulation != nil {
		e.VaR95 = r.Simulation.Risk.VaR95
		e.ExpectedReturn = r.Simulation.Risk.ExpectedReturn
	}
	if r.Backtest != nil {
		e.TotalReturn = r.Backtest.TotalReturn
		e.SharpeRatio = r.Backtest.SharpeRatio
	}
	return e
}

// journalSet opens one journal per symbol on first use
type journalSet struct {
	mu       sync.Mutex
	dir      string
	journals map[string]*logger.Journal
	log      *logger.Logger
}

func newJournalSet(dir string, log *logger.Logger) *journalSet {
	return &journalSet{dir: dir, journals: make(map[string]*logger.Journal), log: log}
}

func (s *journalSet) Get(symbol string) *logger.Journal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.journals[symbol]; ok {
		return j
	}
	j, err := logger.NewJournal(s.dir, symbol)
	if err != nil {
		s.log.Warn("journal unavailable", logger.String("symbol", symbol), logger.Err(err))
		return nil
	}
	s.journals[symbol] = j
	return j
}

func (s *journalSet) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.journals {
		j.Close()
	}
}
