package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	var (
		seedURL    = flag.String("url", "", "Seed URL to audit (required)")
		maxPages   = flag.Int("max", defaultMaxPages, "Maximum number of pages to audit")
		workers    = flag.Int("workers", defaultPageWorkers, "Concurrent page analyzers")
		timeout    = flag.Duration("timeout", defaultTimeout, "Per-request timeout")
		linkSample = flag.Int("link-sample", defaultLinkSample, "Internal links sampled per page for broken-link checks")
		rps        = flag.Float64("rps", 0, "Per-host requests per second (0 = unlimited)")
		excelPath  = flag.String("o", "", "Write the Excel report to this path")
		jsonPath   = flag.String("json", "", "Write the JSON results to this path")
		noSpider   = flag.Bool("no-spider", false, "Do not spider for pages when no sitemap is found")
		verbose    = flag.Bool("v", false, "Verbose logging")
		quiet      = flag.Bool("quiet", false, "Suppress per-page output")
	)
	flag.Parse()

	setupLogging(*verbose, *quiet)

	if *seedURL == "" {
		fmt.Println("Usage: seoaudit -url=<URL> [-max=<pages>] [-o=<report.xlsx>] [-json=<results.json>] [-v]")
		fmt.Println("Example: seoaudit -url=https://example.com -o=audit.xlsx")
		os.Exit(1)
	}

	cfg := Config{
		SeedURL:       *seedURL,
		MaxPages:      *maxPages,
		PageWorkers:   *workers,
		LinkSampleCap: *linkSample,
		Timeout:       *timeout,
		PerHostRPS:    *rps,
		NoSpider:      *noSpider,
		ExcelPath:     *excelPath,
		JSONPath:      *jsonPath,
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	coordinator, err := NewCoordinator(cfg)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if !*quiet {
		coordinator.Progress = printProgress
	}

	// Ctrl-C finishes the run early with whatever was gathered.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Auditing %s (up to %d pages)\n\n", cfg.SeedURL, cfg.MaxPages)
	records, sum := coordinator.Run(ctx)

	if !*quiet {
		fmt.Println()
		for i := range records {
			printPageLine(&records[i])
		}
	}
	printRunSummary(sum)

	var reporters []Reporter
	if cfg.ExcelPath != "" {
		reporters = append(reporters, ExcelReporter{Path: cfg.ExcelPath})
	}
	if cfg.JSONPath != "" {
		reporters = append(reporters, JSONReporter{Path: cfg.JSONPath})
	}

	failed := false
	for _, rep := range reporters {
		if err := rep.Write(records, sum); err != nil {
			slog.Error("report failed", "error", err)
			failed = true
		}
	}
	if cfg.ExcelPath != "" && !failed {
		fmt.Printf("\n%s Report written to %s\n", colorSuccess(prefixOK), cfg.ExcelPath)
	}
	if cfg.JSONPath != "" && !failed {
		fmt.Printf("%s Results written to %s\n", colorSuccess(prefixOK), cfg.JSONPath)
	}
	if failed {
		os.Exit(1)
	}
}

// setupLogging installs the process-wide structured logger. Every failure
// the crawl swallows surfaces here and nowhere else.
func setupLogging(verbose, quiet bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	} else if quiet {
		level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
