package main

import (
	"context"
	"log/slog"

	"github.com/temoto/robotstxt"
)

// robotsInfo is what the discovery phase learns from /robots.txt: whether
// the file exists at all (reported on the audit summary) and any sitemap
// locations it advertises.
type robotsInfo struct {
	Present  bool
	Sitemaps []string
}

// fetchRobots probes the well-known robots.txt path. Absence or any fetch
// failure never fails the run; it just means no directives to work with.
func fetchRobots(ctx context.Context, f *Fetcher, scheme, host string) robotsInfo {
	robotsURL := scheme + "://" + host + "/robots.txt"

	res, err := f.Get(ctx, robotsURL)
	if err != nil {
		slog.Debug("robots.txt unreachable", "url", robotsURL, "error", err)
		return robotsInfo{}
	}
	if res.StatusCode != 200 {
		slog.Debug("robots.txt not found", "url", robotsURL, "status", res.StatusCode)
		return robotsInfo{}
	}

	data, err := robotstxt.FromBytes(res.Body)
	if err != nil {
		// The file exists, it just does not parse; still worth reporting.
		slog.Warn("robots.txt unparseable", "url", robotsURL, "error", err)
		return robotsInfo{Present: true}
	}
	return robotsInfo{Present: true, Sitemaps: data.Sitemaps}
}
