package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/mmcdole/kinostat/internal/adapter"
	"github.com/mmcdole/kinostat/internal/analysis"
	"github.com/mmcdole/kinostat/internal/catalog"
	"github.com/mmcdole/kinostat/internal/domain"
	"github.com/mmcdole/kinostat/internal/export"
	"github.com/mmcdole/kinostat/internal/report"
	"github.com/mmcdole/kinostat/internal/search"
	"github.com/mmcdole/kinostat/internal/store"
	"github.com/mmcdole/kinostat/internal/tui"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// listFlag collects a repeatable string flag
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type options struct {
	configFile string
	dataPath   string
	types      listFlag
	countries  listFlag
	years      string
	genre      string
	report     bool
	exportPath string
	verbose    bool
	clearCache bool
	initConfig bool
}

func main() {
	var opts options
	var showVersion bool
	flag.StringVar(&opts.configFile, "config", "", "config file (default ~/.config/kinostat/config.yaml)")
	flag.StringVar(&opts.dataPath, "data", "", "titles CSV to load")
	flag.Var(&opts.types, "type", "content type to include (repeatable)")
	flag.Var(&opts.countries, "country", "country to include (repeatable)")
	flag.StringVar(&opts.years, "years", "", "release year range as MIN:MAX")
	flag.StringVar(&opts.genre, "genre", "", "genre for the top directors panel")
	flag.BoolVar(&opts.report, "report", false, "print the text report instead of starting the TUI")
	flag.StringVar(&opts.exportPath, "export", "", "write the dashboard to a .json, .yaml or .db file and exit")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.BoolVar(&opts.clearCache, "clear-cache", false, "drop the normalized table cache before loading")
	flag.BoolVar(&opts.initConfig, "init-config", false, "write the effective config to the config file and exit")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("kinostat %s\n", Version)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	// Load configuration
	cfg, err := adapter.LoadConfig(opts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.dataPath != "" {
		cfg.Dataset.Path = adapter.ExpandPath(opts.dataPath)
	}
	if opts.verbose {
		cfg.Logging.Level = "DEBUG"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if opts.initConfig {
		if err := adapter.SaveConfig(cfg, opts.configFile); err != nil {
			return err
		}
		fmt.Println("✓ Configuration saved")
		return nil
	}

	// Setup logger
	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting kinostat", "version", Version, "dataset", cfg.Dataset.Path)

	reportOpts, err := cfg.ReportOptions()
	if err != nil {
		return err
	}

	tableStore, err := store.NewTableStore(cfg.Cache.Dir)
	if err != nil {
		// The dashboard still works without a persistent cache
		logger.Warn("cache unavailable, using memory", "error", err, "dir", cfg.Cache.Dir)
		tableStore, _ = store.NewTableStore("")
	}
	defer tableStore.Close()

	if opts.clearCache {
		tableStore.InvalidateAll()
		logger.Info("cache cleared", "dir", cfg.Cache.Dir)
	}

	svc := catalog.NewService(tableStore, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	table, err := svc.Open(ctx, cfg.Dataset.Path)
	cancel()
	if err != nil {
		var schemaErr *domain.SchemaError
		if errors.As(err, &schemaErr) {
			return fmt.Errorf("%s is not a titles dataset: %w", cfg.Dataset.Path, err)
		}
		return err
	}

	var available domain.FilterOptions
	table.View(func(rows []domain.Title) { available = analysis.Options(rows) })
	sel, err := selection(opts, available)
	if err != nil {
		return err
	}

	batch := opts.report || opts.exportPath != ""
	if !batch && !term.IsTerminal(int(os.Stdout.Fd())) {
		logger.Debug("stdout is not a terminal, printing report")
		opts.report = true
		batch = true
	}

	if batch {
		return runBatch(opts, table.Titles(), sel, reportOpts, logger)
	}

	defaultTab, err := tui.ParseTab(cfg.UI.DefaultTab)
	if err != nil {
		logger.Warn("ignoring ui.default_tab", "error", err)
	}

	model := tui.NewModel(tui.Config{
		Catalog:    svc,
		Table:      table,
		Options:    reportOpts,
		Selection:  sel,
		ExportPath: cfg.Export.Path,
		DefaultTab: defaultTab,
		Logger:     logger,
	})

	// Run the TUI
	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI", "titles", table.Len(), "cached", table.FromCache())

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runBatch builds one dashboard and prints or exports it
func runBatch(opts options, titles []domain.Title, sel report.Selection, reportOpts report.Options, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	d, err := report.Build(ctx, titles, sel, reportOpts)
	if d == nil {
		return fmt.Errorf("failed to build dashboard: %w", err)
	}
	if err != nil {
		// Duration panels failed under the fail policy; the rest stands
		logger.Warn("duration panels unavailable", "error", err)
	}

	if opts.report {
		if err := report.WriteText(os.Stdout, d); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if opts.exportPath != "" {
		path := adapter.ExpandPath(opts.exportPath)
		if err := export.Write(ctx, path, d); err != nil {
			return err
		}
		logger.Info("dashboard exported", "path", path, "records", len(d.Records))
		fmt.Fprintf(os.Stderr, "✓ Exported %s records to %s\n", humanize.Comma(int64(len(d.Records))), path)
	}
	return nil
}

// selection resolves the filter flags against the values the table offers
func selection(opts options, available domain.FilterOptions) (report.Selection, error) {
	var sel report.Selection

	if len(opts.types) > 0 {
		types, err := search.ResolveTypes(opts.types, available.Types)
		if err != nil {
			return sel, fmt.Errorf("-type: %w", err)
		}
		sel.Predicates.Types = types
	}

	if len(opts.countries) > 0 {
		countries, err := search.ResolveAll(opts.countries, available.Countries)
		if err != nil {
			return sel, fmt.Errorf("-country: %w", err)
		}
		sel.Predicates.Countries = countries
	}

	if opts.years != "" {
		years, err := parseYears(opts.years)
		if err != nil {
			return sel, err
		}
		sel.Predicates.Years = &years
	}

	if opts.genre != "" {
		genre, err := search.Resolve(opts.genre, available.Genres)
		if err != nil {
			return sel, fmt.Errorf("-genre: %w", err)
		}
		sel.Genre = genre
	}

	return sel, nil
}

// parseYears parses MIN:MAX, where either side may be omitted
func parseYears(s string) (domain.YearRange, error) {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return domain.YearRange{}, fmt.Errorf("-years: want MIN:MAX, got %q", s)
	}
	r := domain.YearRange{Min: 0, Max: 9999}
	var err error
	if lo = strings.TrimSpace(lo); lo != "" {
		if r.Min, err = strconv.Atoi(lo); err != nil {
			return r, fmt.Errorf("-years: bad minimum %q", lo)
		}
	}
	if hi = strings.TrimSpace(hi); hi != "" {
		if r.Max, err = strconv.Atoi(hi); err != nil {
			return r, fmt.Errorf("-years: bad maximum %q", hi)
		}
	}
	if r.Min > r.Max {
		return r, fmt.Errorf("-years: minimum %d is after maximum %d", r.Min, r.Max)
	}
	return r, nil
}
