package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/adhruv/bms-events/internal/browser"
	"github.com/adhruv/bms-events/internal/config"
	"github.com/adhruv/bms-events/internal/logger"
	"github.com/adhruv/bms-events/internal/notifier"
	"github.com/adhruv/bms-events/internal/schedule"
	"github.com/adhruv/bms-events/internal/scraper"
	"github.com/adhruv/bms-events/internal/server"
	"github.com/adhruv/bms-events/internal/storage"
	"github.com/adhruv/bms-events/internal/tracker"
)

var (
	flagConfig  string
	flagCity    string
	flagStatus  string
	flagFormat  string
	flagVerbose bool
)

// NewRootCmd creates the root command with its subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bms-events",
		Short: "Track city event listings from BookMyShow",
		Long: `Scrapes city event listings from BookMyShow's explore pages,
normalizes and deduplicates them into a persisted event set, and serves
them over HTTP.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config (default: $BMS_CONFIG)")
	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	root.AddCommand(newScrapeCmd(), newServeCmd(), newListCmd())
	return root
}

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape one city (or all configured cities) and update the store",
		RunE:  runScrape,
	}
	cmd.Flags().StringVar(&flagCity, "city", "", "City to scrape (default: all configured cities)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with the periodic refresh schedule",
		RunE:  runServe,
	}
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print stored events with statuses recomputed",
		RunE:  runList,
	}
	cmd.Flags().StringVar(&flagCity, "city", "", "Filter by city")
	cmd.Flags().StringVar(&flagStatus, "status", "", "Filter by status: upcoming, today, or expired")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	return cmd
}

// setup loads config, configures logging, and opens the storage backend.
func setup(ctx context.Context) (config.Config, storage.Store, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, nil, err
	}

	level := logger.ParseLevel(cfg.Logging.Level)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return cfg, nil, fmt.Errorf("opening storage: %w", err)
	}
	return cfg, store, nil
}

// buildTracker assembles the scrape pipeline for the loaded config.
func buildTracker(cfg config.Config, store storage.Store) (*tracker.Tracker, error) {
	factory := browser.ChromeFactory{
		Headless:  cfg.Scrape.Headless,
		UserAgent: cfg.Scrape.UserAgent,
	}
	sc := scraper.New(factory, nil, scraper.Config{
		BaseURL:         cfg.Scrape.BaseURL,
		PageLoadTimeout: cfg.Scrape.PageLoadTimeout(),
		InitialWait:     cfg.Scrape.InitialWait(),
		Stabilize:       cfg.Scrape.Stabilize(),
	})

	var n notifier.Notifier
	switch cfg.Notify.Mode {
	case "", "off":
	case "dryrun":
		n = notifier.NewDryRunNotifier()
	case "twitter":
		tw, err := notifier.NewTwitterNotifier()
		if err != nil {
			return nil, fmt.Errorf("configuring twitter notifier: %w", err)
		}
		n = tw
	default:
		return nil, fmt.Errorf("unknown notify mode %q", cfg.Notify.Mode)
	}

	return tracker.New(sc, store, n, nil), nil
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, store, err := setup(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	t, err := buildTracker(cfg, store)
	if err != nil {
		return err
	}

	cities := cfg.Cities
	if flagCity != "" {
		cities = []string{flagCity}
	}

	var results []cityResult
	failures := 0
	for _, city := range cities {
		result, err := t.RefreshCity(ctx, city)
		if err != nil {
			logger.Error("refresh failed", logger.Fields{"city": city}, err)
			failures++
		}
		results = append(results, cityResult{
			City:   city,
			Source: result.Source,
			Events: len(result.Events),
			Added:  len(result.Added),
		})
	}

	if err := writeScrapeOutput(os.Stdout, results, outputFormat(flagFormat)); err != nil {
		return err
	}
	if failures == len(cities) && failures > 0 {
		return fmt.Errorf("all %d city refreshes failed", failures)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, store, err := setup(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	t, err := buildTracker(cfg, store)
	if err != nil {
		return err
	}

	if err := storage.Seed(ctx, store, timeNow()); err != nil {
		logger.Warn("seeding sample data", logger.Fields{"error": err.Error()})
	}

	runner := schedule.NewRunner(t, cfg.Cities, cfg.Refresh.Interval())
	go runner.Start(ctx)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(t, cfg.Cities),
	}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	logger.Info("http server listening", logger.Fields{"addr": cfg.Server.Addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	_, store, err := setup(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	events, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading events: %w", err)
	}

	now := timeNow()
	for i := range events {
		events[i].Refresh(now)
	}
	events = filterEvents(events, flagCity, flagStatus)

	return writeListOutput(os.Stdout, events, outputFormat(flagFormat))
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
