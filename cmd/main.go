package main

//
//  @title           nfsindex API
//  @version         1.0
//  @description     Auction-sale listings dashboard: listings, monthly price trends and summary statistics per vehicle model.
//  @termsOfService  https://github.com/guttosm/nfsindex
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/nfsindex
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        models
//  @tag.description Vehicle models known to the data source
//
//  @tag.name        listings
//  @tag.description Historical auction-sale listings
//
//  @tag.name        analytics
//  @tag.description Monthly price trends and summary statistics
//
//  @tag.name        dashboard
//  @tag.description Combined dashboard views
//
//  @tag.name        sessions
//  @tag.description Stateful dashboard sessions (model selection, trim filter)
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

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

	"github.com/fatih/color"

	"github.com/guttosm/nfsindex/config"
	_ "github.com/guttosm/nfsindex/docs" // swagger docs
	"github.com/guttosm/nfsindex/internal/app"
	"github.com/guttosm/nfsindex/internal/ingestion"
	"github.com/guttosm/nfsindex/internal/logger"
	"github.com/guttosm/nfsindex/internal/report"
	"github.com/guttosm/nfsindex/internal/service"
)

const shutdownTimeout = 10 * time.Second

// flags holds the command line of every mode.
type flags struct {
	mode     string
	dir      string
	rules    string
	parallel int
	force    bool
	modelID  int64
	trim     string
	limit    int
	port     string
}

func parseFlags(args []string, defaultPort string) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("nfsindex", flag.ContinueOnError)
	fs.StringVar(&f.mode, "mode", "api", "Mode: api, ingest or report")
	fs.StringVar(&f.dir, "dir", "./data/exports", "Directory with scraped .json exports")
	fs.StringVar(&f.rules, "rules", "", "Normalization rules file (engine, transmission, variant)")
	fs.IntVar(&f.parallel, "parallel", 0, "How many files to process concurrently (0=auto up to CPU, max 8)")
	fs.BoolVar(&f.force, "force", false, "Reprocess files even if already ingested")
	fs.Int64Var(&f.modelID, "model-id", 0, "Model id for report mode")
	fs.StringVar(&f.trim, "trim", "", "Trim filter for report mode")
	fs.IntVar(&f.limit, "limit", 25, "Maximum listings printed in report mode (0=all)")
	fs.StringVar(&f.port, "port", defaultPort, "Port for API mode")
	err := fs.Parse(args)
	return f, err
}

// serve runs the HTTP server until ctx is done, then shuts it down and
// calls cleanup. A listen failure is returned without waiting for ctx.
func serve(ctx context.Context, router http.Handler, port string, cleanup func()) error {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	defer cleanup()

	listenErr := make(chan error, 1)
	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("listen on :%s: %w", port, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.L().Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.L().Info().Msg("server exited gracefully")
	return nil
}

// runIngest loads every export under f.dir into Postgres.
func runIngest(ctx context.Context, cfg config.Config, f flags) error {
	if err := config.ValidatePostgres(cfg.Postgres); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	normalizer, err := ingestion.LoadRules(f.rules)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	db, err := app.InitPostgres(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	logger.L().Info().Str("dir", f.dir).Bool("force", f.force).Msg("running ingestion")
	opts := ingestion.Options{Rules: normalizer, Parallel: f.parallel, Force: f.force}
	if err := ingestion.ProcessDirectory(ctx, f.dir, db, opts); err != nil {
		return fmt.Errorf("ingestion: %w", err)
	}
	logger.L().Info().Msg("ingestion completed successfully")
	return nil
}

// runReport loads the dashboard of modelID under trim and renders it to out.
func runReport(ctx context.Context, source service.ListingSource, mode string, out io.Writer, modelID int64, trim string, opts report.Options) error {
	if modelID <= 0 {
		return fmt.Errorf("--model-id must be a positive integer")
	}
	svc := service.NewDashboardService(source, mode)
	dashboard, err := svc.Dashboard(ctx, modelID, trim)
	if err != nil {
		return fmt.Errorf("load dashboard: %w", err)
	}
	return report.NewRenderer(out, opts).Render(dashboard)
}

func run(ctx context.Context, cfg config.Config, f flags) error {
	switch f.mode {
	case "ingest":
		return runIngest(ctx, cfg, f)

	case "report":
		source, cleanup, err := app.NewListingSource(cfg)
		if err != nil {
			return fmt.Errorf("data source: %w", err)
		}
		defer cleanup()
		opts := report.Options{Colors: !color.NoColor, MaxListings: f.limit}
		return runReport(ctx, source, cfg.Dashboard.AnalyticsMode, os.Stdout, f.modelID, f.trim, opts)

	case "api":
		logger.L().Info().Str("data_source", cfg.Dashboard.DataSource).Msg("starting API server")
		router, cleanup, err := app.InitializeApp()
		if err != nil {
			return fmt.Errorf("app init: %w", err)
		}
		return serve(ctx, router, f.port, cleanup)

	default:
		return fmt.Errorf("unknown mode %q", f.mode)
	}
}

// main runs one of three modes, selected with --mode:
//   - api:    REST API serving dashboards over the configured data source.
//   - ingest: loads scraped JSON listing exports from --dir into PostgreSQL.
//   - report: prints the dashboard of --model-id (optionally --trim) to stdout.
//
// SIGINT and SIGTERM cancel the running mode.
func main() {
	config.LoadConfig()
	logger.Init()

	f, err := parseFlags(os.Args[1:], config.AppConfig.Server.Port)
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, config.AppConfig, f)
	stop()
	if err != nil {
		logger.L().Fatal().Err(err).Str("mode", f.mode).Msg("nfsindex failed")
	}
}
