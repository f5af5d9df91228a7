package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/term"

	"github.com/scipunch/newspulse/cache"
	"github.com/scipunch/newspulse/config"
	"github.com/scipunch/newspulse/export"
	"github.com/scipunch/newspulse/fetcher"
	"github.com/scipunch/newspulse/logging"
	"github.com/scipunch/newspulse/pipeline"
	"github.com/scipunch/newspulse/report"
	"github.com/scipunch/newspulse/session"
	"github.com/scipunch/newspulse/tracing"
)

const (
	defaultTermWidth = 100
	dashboardHTML    = "dashboard.html"
	dashboardPDF     = "dashboard.pdf"
)

func main() {
	var (
		cfgPath    string
		query      string
		limit      int
		sinceStr   string
		exportStr  string
		refresh    bool
		writeHTML  bool
		writePDF   bool
		cleanCache bool
		initConfig bool
	)
	flag.StringVar(&cfgPath, "config", config.DefaultPath(), "path to a TOML config")
	flag.StringVar(&query, "query", config.DefaultQuery, "news search query")
	flag.IntVar(&limit, "limit", config.DefaultLimit, fmt.Sprintf("maximum number of news (%d-%d)", config.MinLimit, config.MaxLimit))
	flag.StringVar(&sinceStr, "since", "", "only show news published on or after this date (YYYY-MM-DD)")
	flag.StringVar(&exportStr, "export", "", "comma separated export formats: csv, xlsx, json")
	flag.BoolVar(&refresh, "refresh", false, "fetch news instead of showing the stored result")
	flag.BoolVar(&writeHTML, "html", false, "write the dashboard as HTML")
	flag.BoolVar(&writePDF, "pdf", false, "write the dashboard as PDF (implies -html)")
	flag.BoolVar(&cleanCache, "clean", false, "remove the stored result")
	flag.BoolVar(&initConfig, "init-config", false, "write the default config and exit")
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// The config file is optional
	conf, err := config.Read(cfgPath)
	if errors.Is(err, os.ErrNotExist) {
		if initConfig {
			if err := config.Write(cfgPath, conf); err != nil {
				log.Fatalf("failed to write default config with %s", err)
			}
			return
		}
	} else if err != nil {
		log.Fatalf("failed to read config with %s", err)
	} else if initConfig {
		fmt.Fprintf(os.Stderr, "config already exists at %s\n", cfgPath)
		return
	}

	if set["query"] {
		conf.Query = query
	}
	if set["limit"] {
		conf.Limit = limit
	}
	if os.Getenv("DEBUG") != "" {
		conf.LogLevel = "debug"
	}
	if err := conf.Validate(); err != nil {
		usageError(err)
	}
	since, err := report.ParseSince(sinceStr)
	if err != nil {
		usageError(err)
	}
	formats, err := export.ParseFormats(exportStr)
	if err != nil {
		usageError(err)
	}

	syncLogs, err := logging.Setup(conf.LogLevel)
	if err != nil {
		log.Fatalf("failed to set up logging with %s", err)
	}
	defer syncLogs()

	shutdownTracing, err := tracing.Init(conf.Tracing)
	if err != nil {
		log.Fatalf("failed to set up tracing with %s", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := cache.NewCache(conf.DatabasePath)
	if err != nil {
		log.Fatalf("failed to initialize result store: %v", err)
	}
	defer store.Close()

	if cleanCache {
		if err := store.Clear(); err != nil {
			log.Fatalf("failed to clear stored result: %v", err)
		}
		slog.Info("stored result cleared")
		return
	}

	stats, err := store.Stats()
	if err != nil {
		slog.Warn("failed to get store stats", "error", err)
	} else {
		slog.Debug("result store opened",
			"path", conf.DatabasePath,
			"result_id", stats.ResultID,
			"items", stats.Items)
	}

	lexicon, err := conf.BuildLexicon()
	if err != nil {
		log.Fatalf("failed to build lexicon: %s", err)
	}
	p := pipeline.New(fetcher.NewRSSFetcher(conf.FetcherOptions()), lexicon)
	sess := session.New(p, store)

	var refreshErr error
	if refresh || stats.ResultID == "" {
		_, err := sess.Refresh(ctx, conf.Query, conf.Limit)
		refreshErr = err
		var fetchErr *fetcher.FetchError
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			slog.Info("interrupted by user, exiting gracefully")
			return
		case errors.Is(err, pipeline.ErrNoResults), errors.As(err, &fetchErr):
			slog.Warn("refresh kept the previous result", "query", conf.Query, "error", err)
			fmt.Fprintln(os.Stderr, report.Describe(err))
		default:
			log.Fatalf("failed to refresh news: %s", err)
		}
	}

	rs, found, err := sess.Current()
	if err != nil {
		log.Fatalf("failed to load stored result: %s", err)
	}
	if !found {
		if msg := missingResultMessage(refreshErr); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		return
	}
	if rs.Query != conf.Query && !refresh {
		slog.Warn("showing stored result for a different query, use -refresh to fetch", "stored", rs.Query, "requested", conf.Query)
	}

	dashboard := report.Build(rs, since, conf.Dashboard.CloudWords)
	if err := report.WriteTerminal(os.Stdout, dashboard, terminalWidth()); err != nil {
		log.Fatalf("failed to print dashboard: %s", err)
	}

	if len(formats) > 0 {
		if _, err := export.Save(conf.OutputDirectory, formats, dashboard.Rows); err != nil {
			slog.Error("export failed", "error", err)
		}
	}

	if writeHTML || writePDF {
		htmlPath := filepath.Join(conf.OutputDirectory, dashboardHTML)
		if err := report.SaveHTML(htmlPath, dashboard); err != nil {
			log.Fatalf("failed to write dashboard HTML: %s", err)
		}
		slog.Info("HTML file generated", "path", htmlPath)

		if writePDF {
			pdfPath := filepath.Join(conf.OutputDirectory, dashboardPDF)
			if err := report.RenderPDF(ctx, htmlPath, pdfPath); err != nil {
				slog.Error("failed to generate PDF", "error", err)
			} else {
				slog.Info("PDF file generated", "path", pdfPath)
			}
		}
	}
}

// missingResultMessage explains an empty store. A failed refresh has
// already been reported with its own message.
func missingResultMessage(refreshErr error) string {
	if refreshErr != nil {
		return ""
	}
	return report.Describe(pipeline.ErrNoResults)
}

func usageError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n\n", err)
	flag.Usage()
	os.Exit(2)
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultTermWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultTermWidth
	}
	return width
}
