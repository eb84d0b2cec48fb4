package data

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
)

// Lookback is a parsed trailing period such as "1y", "6mo", "30d" or "ytd"
type Lookback struct {
	All      bool
	YTD      bool
	Years    int
	Months   int
	Days     int
	Duration time.Duration
}

var lookbackPattern = regexp.MustCompile(`^(\d+)\s*(d|day|days|w|wk|week|weeks|mo|mos|month|months|y|yr|yrs|year|years)$`)

// ParseLookbackPeriod parses period strings like "7d", "2wk", "6mo", "1y", "ytd" or "max".
// Raw Go durations ("168h") are accepted too. The empty string means everything.
func ParseLookbackPeriod(s string) (Lookback, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "max", "all":
		return Lookback{All: true}, nil
	case "ytd":
		return Lookback{YTD: true}, nil
	}

	if m := lookbackPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return Lookback{}, fmt.Errorf("invalid lookback period %q", s)
		}
		switch m[2] {
		case "d", "day", "days":
			return Lookback{Days: n}, nil
		case "w", "wk", "week", "weeks":
			return Lookback{Days: 7 * n}, nil
		case "mo", "mos", "month", "months":
			return Lookback{Months: n}, nil
		default:
			return Lookback{Years: n}, nil
		}
	}

	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return Lookback{Duration: d}, nil
	}
	return Lookback{}, fmt.Errorf("invalid lookback period %q", s)
}

// Cutoff returns the earliest timestamp inside the lookback window ending at last
func (l Lookback) Cutoff(last time.Time) time.Time {
	switch {
	case l.All:
		return time.Time{}
	case l.YTD:
		return time.Date(last.Year(), time.January, 1, 0, 0, 0, 0, last.Location())
	case l.Duration > 0:
		return last.Add(-l.Duration)
	default:
		return last.AddDate(-l.Years, -l.Months, -l.Days)
	}
}

// ApproxDays is an upper bound on the calendar days the lookback spans (0 = unbounded)
func (l Lookback) ApproxDays() int {
	switch {
	case l.All:
		return 0
	case l.YTD:
		return 366
	case l.Duration > 0:
		return int(l.Duration/(24*time.Hour)) + 1
	default:
		return l.Years*366 + l.Months*31 + l.Days
	}
}

// ProviderOptions selects and configures a PriceProvider
type ProviderOptions struct {
	Name      string // csv, yahoo or bybit
	DataRoot  string
	CSVFormat string // default or yahoo
	Interval  string
	Category  string // bybit market category
	Cache     bool
	Timeout   time.Duration
	Retry     RetryConfig
	Guard     GuardConfig // applies to yahoo and bybit only
	Logger    *logger.Logger
}

// NewProvider builds the configured provider, optionally wrapped in a cache
func NewProvider(opts ProviderOptions) (PriceProvider, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	if opts.Retry.MaxRetries == 0 && opts.Retry.InitialDelay == 0 {
		opts.Retry = DefaultRetryConfig()
	}

	var provider PriceProvider
	switch strings.ToLower(opts.Name) {
	case "csv":
		format := DefaultCSVFormat
		if strings.EqualFold(opts.CSVFormat, "yahoo") {
			format = YahooCSVFormat
		}
		provider = NewCSVProvider(opts.DataRoot, opts.Interval, format, log)
	case "", "yahoo":
		provider = NewYahooProvider(YahooConfig{
			Interval: opts.Interval,
			Timeout:  opts.Timeout,
			Retry:    opts.Retry,
		}, log)
	case "bybit":
		provider = NewBybitProvider(BybitConfig{
			Category: opts.Category,
			Interval: opts.Interval,
			Retry:    opts.Retry,
		}, log)
	default:
		return nil, fmt.Errorf("unknown data provider %q (want csv, yahoo or bybit)", opts.Name)
	}

	if provider.GetName() != "csv" {
		provider = NewGuardedProvider(provider, opts.Guard, log)
	}
	if opts.Cache {
		provider = NewCachedProvider(provider, log)
	}
	return provider, nil
}
