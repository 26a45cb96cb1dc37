// Package main provides the floor TWAP command.
// Executes: fetch → parse → resample → rolling average → (verify) → render
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"nft-floor-twap/internal/config"
	"nft-floor-twap/internal/logging"
	"nft-floor-twap/internal/observability"
	"nft-floor-twap/internal/pipeline"
	"nft-floor-twap/internal/source"
	chsource "nft-floor-twap/internal/source/clickhouse"
	"nft-floor-twap/internal/source/file"
	"nft-floor-twap/internal/source/httpjson"
	"nft-floor-twap/internal/source/memory"
	pgsource "nft-floor-twap/internal/source/postgres"
	"nft-floor-twap/internal/twap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds parsed command-line flags.
type options struct {
	configPath string
	envFile    string
	outputDir  string
	set        map[string]bool // flags given explicitly

	collection    string
	sourceKind    string
	urlPattern    string
	dir           string
	postgresDSN   string
	clickhouseDSN string
	windows       string
	format        string
	output        string
	verify        bool
	metricsAddr   string
	logLevel      string
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("twap", flag.ContinueOnError)
	o := &options{set: make(map[string]bool)}

	fs.StringVar(&o.configPath, "config", "", "Path to YAML config file")
	fs.StringVar(&o.envFile, "env-file", ".env", "Path to .env file (skipped if missing)")
	fs.StringVar(&o.collection, "collection", "", "Collection slug")
	fs.StringVar(&o.sourceKind, "source", "", "Floor source: http|file|memory|postgres|clickhouse")
	fs.StringVar(&o.urlPattern, "url-pattern", "", "URL pattern for http source, {collection} is replaced")
	fs.StringVar(&o.dir, "dir", "", "Directory of <collection>.json files for file source")
	fs.StringVar(&o.postgresDSN, "postgres-dsn", "", "PostgreSQL connection string for postgres source")
	fs.StringVar(&o.clickhouseDSN, "clickhouse-dsn", "", "ClickHouse connection string for clickhouse source")
	fs.StringVar(&o.windows, "windows", "", "Comma-separated TWAP windows in hours (default 1,4,8)")
	fs.StringVar(&o.format, "format", "", "Output format: csv|json|markdown")
	fs.StringVar(&o.output, "output", "", "Output file (default stdout)")
	fs.StringVar(&o.outputDir, "output-dir", "", "Write twap.csv, chart.json and REPORT.md into this directory")
	fs.BoolVar(&o.verify, "verify", false, "Re-check computed series before rendering")
	fs.StringVar(&o.metricsAddr, "metrics-addr", "", "Prometheus metrics HTTP address (disabled if empty)")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level: debug|info|warn|error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// apply overrides config values with explicitly given flags.
func (o *options) apply(cfg *config.Config) error {
	if o.set["collection"] {
		cfg.Collection = o.collection
	}
	if o.set["source"] {
		cfg.Source.Kind = o.sourceKind
	}
	if o.set["url-pattern"] {
		cfg.Source.URLPattern = o.urlPattern
	}
	if o.set["dir"] {
		cfg.Source.Dir = o.dir
	}
	if o.set["postgres-dsn"] {
		cfg.Source.PostgresDSN = o.postgresDSN
	}
	if o.set["clickhouse-dsn"] {
		cfg.Source.ClickHouseDSN = o.clickhouseDSN
	}
	if o.set["windows"] {
		windows, err := config.ParseWindows(o.windows)
		if err != nil {
			return fmt.Errorf("-windows: %w", err)
		}
		cfg.Twap.WindowHours = windows
	}
	if o.set["format"] {
		cfg.Output.Format = o.format
	}
	if o.set["output"] {
		cfg.Output.Path = o.output
	}
	if o.set["verify"] {
		cfg.Twap.Verify = o.verify
	}
	if o.set["metrics-addr"] {
		cfg.Metrics.Addr = o.metricsAddr
	}
	if o.set["log-level"] {
		cfg.Log.Level = o.logLevel
	}
	return nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	if err := config.LoadEnv(opts.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := opts.apply(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Metrics.Addr != "" {
		go startMetricsServer(cfg.Metrics.Addr, logger)
	}

	src, cleanup, err := openSource(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("opening %s source: %w", cfg.Source.Kind, err)
	}
	defer cleanup()

	processor := twap.NewProcessor(
		twap.WithWindowHours(cfg.Twap.WindowHours),
		twap.WithLogger(logger),
		twap.WithMetrics(observability.DefaultMetrics),
	)
	p := pipeline.New(src, processor,
		pipeline.WithLogger(logger),
		pipeline.WithVerify(cfg.Twap.Verify),
	)

	start := time.Now()
	out, err := p.Run(ctx, cfg.Collection)
	if err != nil {
		return err
	}

	if opts.outputDir != "" {
		if err := pipeline.WriteOutputs(opts.outputDir, out); err != nil {
			return fmt.Errorf("writing outputs: %w", err)
		}
		logger.Info("wrote outputs", zap.String("dir", opts.outputDir))
	}

	data, err := pipeline.Render(out, cfg.Output.Format)
	if err != nil {
		return err
	}
	if cfg.Output.Path != "" {
		if err := os.WriteFile(cfg.Output.Path, data, 0644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	} else if _, err := stdout.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	logger.Info("done",
		zap.String("collection", cfg.Collection),
		zap.String("format", cfg.Output.Format),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// openSource builds the configured floor source and its cleanup function.
func openSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (source.Source, func(), error) {
	noop := func() {}

	switch cfg.Source.Kind {
	case config.SourceHTTP:
		return httpjson.NewClient(cfg.Source.URLPattern,
			httpjson.WithTimeout(cfg.Source.Timeout),
			httpjson.WithMaxRetries(*cfg.Source.MaxRetries),
			httpjson.WithLogger(logger),
		), noop, nil

	case config.SourceFile:
		return file.NewFloorDir(cfg.Source.Dir), noop, nil

	case config.SourceMemory:
		store := memory.NewFloorStore()
		pipeline.LoadFixtures(store)
		return store, noop, nil

	case config.SourcePostgres:
		pool, err := pgsource.NewPool(ctx, cfg.Source.PostgresDSN,
			pgsource.WithReadOnly(), pgsource.WithMaxConns(2))
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		return pgsource.NewFloorSource(pool), pool.Close, nil

	case config.SourceClickHouse:
		conn, err := chsource.NewConn(ctx, cfg.Source.ClickHouseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		return chsource.NewFloorSource(conn), func() { _ = conn.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

// startMetricsServer serves /metrics and /health until the process exits.
func startMetricsServer(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("/metrics", observability.Handler())

	logger.Info("starting metrics server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server error", zap.Error(err))
	}
}
