package main

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// ProgressEvent is one tick of crawl progress for an external sink.
// Completed increases strictly from 1 to Total.
type ProgressEvent struct {
	Completed int
	Total     int
	URL       string
}

// Coordinator drives a whole audit run: discovery, fan-out over the page
// pool, the duplicate-title post-pass and the final summary.
type Coordinator struct {
	cfg      Config
	target   CrawlTarget
	fetcher  *Fetcher
	resolver *SitemapResolver
	analyzer *PageAnalyzer

	// Progress, when set, receives one event per finished page. Events are
	// delivered from a dedicated goroutine, so a slow sink never stalls the
	// workers.
	Progress func(ProgressEvent)
}

// NewCoordinator wires up the engine for one run. The config must have been
// validated already.
func NewCoordinator(cfg Config) (*Coordinator, error) {
	target, err := newCrawlTarget(cfg.SeedURL)
	if err != nil {
		return nil, err
	}
	fetcher := NewFetcher(cfg)
	return &Coordinator{
		cfg:      cfg,
		target:   target,
		fetcher:  fetcher,
		resolver: NewSitemapResolver(fetcher),
		analyzer: NewPageAnalyzer(fetcher, cfg),
	}, nil
}

// Run executes the audit and always comes back with data: a canceled or
// completely unreachable site yields records marked with connection errors,
// never a failure.
func (c *Coordinator) Run(ctx context.Context) ([]PageRecord, RunSummary) {
	startedAt := time.Now()

	pages, rb := c.resolver.Resolve(ctx, c.target)
	if !c.cfg.NoSpider && len(pages) <= 1 {
		spiderDiscover(ctx, c.target, c.cfg, pages)
	}

	urls := make([]string, 0, len(pages))
	for u := range pages {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	discovered := len(urls)
	if discovered > c.cfg.MaxPages {
		urls = urls[:c.cfg.MaxPages]
		slog.Info("discovery exceeded page cap", "discovered", discovered, "auditing", len(urls))
	}

	records := c.analyzeAll(ctx, urls)
	flagDuplicateTitles(records)

	sum := buildSummary(c.target, startedAt, discovered, rb.Present, records)
	slog.Info("run complete", "pages", sum.PageCount, "duration", sum.Duration)
	return records, sum
}

// analyzeAll fans the URL list out over the bounded page pool. Each worker
// writes only its own slot, so the slice needs no lock and the output keeps
// dispatch order regardless of completion order.
func (c *Coordinator) analyzeAll(ctx context.Context, urls []string) []PageRecord {
	records := make([]PageRecord, len(urls))
	if len(urls) == 0 {
		return records
	}

	// The channel holds every possible event, so workers never block on it.
	finished := make(chan string, len(urls))
	forwarderDone := make(chan struct{})
	go func() {
		defer close(forwarderDone)
		completed := 0
		for u := range finished {
			completed++
			if c.Progress != nil {
				c.Progress(ProgressEvent{Completed: completed, Total: len(urls), URL: u})
			}
		}
	}()

	sem := semaphore.NewWeighted(int64(c.cfg.PageWorkers))
	var wg sync.WaitGroup
	for i, u := range urls {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Run canceled; fill the slot so the output stays complete.
			records[i] = canceledRecord(u, err)
			finished <- u
			continue
		}
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			defer sem.Release(1)
			records[i] = c.analyzer.Analyze(ctx, u, c.target.Host)
			finished <- u
		}(i, u)
	}
	wg.Wait()
	close(finished)
	<-forwarderDone

	return records
}

func canceledRecord(u string, err error) PageRecord {
	return PageRecord{
		URL:         u,
		StatusClass: StatusConnectionError,
		Issues:      []Issue{issuef(IssueConnectionFailed, "Connection Error: %s", err)},
	}
}

// flagDuplicateTitles annotates every record whose non-empty title is shared
// with at least one other record. It needs the whole completed set, hence a
// post-pass rather than a per-record rule.
func flagDuplicateTitles(records []PageRecord) {
	counts := make(map[string]int)
	for i := range records {
		if t := normalizedTitle(&records[i]); t != "" {
			counts[t]++
		}
	}
	for i := range records {
		t := normalizedTitle(&records[i])
		if t != "" && counts[t] >= 2 {
			records[i].DuplicateTitle = true
			records[i].Issues = append(records[i].Issues, issuef(IssueDuplicateTitle, "Duplicate Title"))
		}
	}
}

func normalizedTitle(r *PageRecord) string {
	return strings.ToLower(strings.TrimSpace(r.Title))
}
