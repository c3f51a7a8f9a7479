package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// normalizeURL applies the one normalization policy used everywhere URLs are
// deduplicated: lowercase scheme and host, fragment, query string and default
// port dropped, trailing slashes trimmed. Returns "" for anything that does
// not parse.
func normalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	switch {
	case u.Scheme == "http" && strings.HasSuffix(host, ":80"):
		host = strings.TrimSuffix(host, ":80")
	case u.Scheme == "https" && strings.HasSuffix(host, ":443"):
		host = strings.TrimSuffix(host, ":443")
	}
	u.Host = host
	u.Fragment = ""
	u.RawQuery = ""
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String()
}

// sameHost treats the bare and www forms of a host as the same site.
func sameHost(a, b string) bool {
	return strings.EqualFold(stripWWW(a), stripWWW(b))
}

func stripWWW(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// linkPartition is the outcome of sorting one page's anchors.
type linkPartition struct {
	Internal int
	External int
	Samples  []string
}

// partitionLinks resolves every anchor href against the page URL and counts
// it as internal or external. javascript:, mailto:, tel: and bare fragment
// links are not navigation and are skipped entirely. Samples collects the
// first sampleCap distinct internal targets, in document order, for the
// broken-link probe.
func partitionLinks(doc *goquery.Document, base *url.URL, siteHost string, sampleCap int) linkPartition {
	var part linkPartition
	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		lower := strings.ToLower(href)
		if strings.HasPrefix(lower, "javascript:") ||
			strings.HasPrefix(lower, "mailto:") ||
			strings.HasPrefix(lower, "tel:") {
			return
		}
		u, err := base.Parse(href)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return
		}
		if !sameHost(u.Host, siteHost) {
			part.External++
			return
		}
		part.Internal++

		key := normalizeURL(u.String())
		if key == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		if len(part.Samples) < sampleCap {
			u.Fragment = ""
			part.Samples = append(part.Samples, u.String())
		}
	})
	return part
}

// checkBrokenLinks probes targets with concurrent HEAD requests and reports
// how many came back broken. The pool lives only for this call and is joined
// before returning, so no probe outlives its page.
func checkBrokenLinks(ctx context.Context, f *Fetcher, targets []string, workers int, timeout time.Duration) int {
	if len(targets) == 0 {
		return 0
	}
	if workers > len(targets) {
		workers = len(targets)
	}

	jobs := make(chan string)
	var broken atomic.Int64
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for target := range jobs {
				if res := probeLink(ctx, f, target, timeout); res.Broken {
					broken.Add(1)
					slog.Debug("broken link", "url", res.URL)
				}
			}
		}()
	}

	for _, t := range targets {
		jobs <- t
	}
	close(jobs)
	wg.Wait()

	return int(broken.Load())
}

// probeLink checks one target. Servers that reject HEAD outright get a
// second chance with GET before the link counts as broken. A probe cut off
// by run cancellation is no finding at all: the link was never tested.
func probeLink(ctx context.Context, f *Fetcher, target string, timeout time.Duration) LinkCheckResult {
	res, err := f.Head(ctx, target, timeout)
	if err != nil {
		return LinkCheckResult{URL: target, Broken: !probeCanceled(err)}
	}
	if res.StatusCode == http.StatusMethodNotAllowed || res.StatusCode == http.StatusForbidden {
		got, err := f.do(ctx, http.MethodGet, target, timeout, false)
		if err != nil {
			return LinkCheckResult{URL: target, Broken: !probeCanceled(err)}
		}
		res = got
	}
	return LinkCheckResult{URL: target, Broken: res.StatusCode >= 400}
}

func probeCanceled(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	var fe *FetchError
	return errors.As(err, &fe) && fe.Cause == "canceled"
}
