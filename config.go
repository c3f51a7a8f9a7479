package main

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	defaultUserAgent = "Mozilla/5.0 (compatible; SEOAuditor/6.0; +https://example.com/bot)"

	defaultMaxPages    = 50
	defaultPageWorkers = 10
	defaultLinkWorkers = 20
	defaultLinkSample  = 20

	defaultTimeout     = 10 * time.Second
	defaultLinkTimeout = 5 * time.Second

	// Discovery guards so a hostile or broken sitemap host cannot stall a run.
	maxSitemapFetches = 200
	maxSitemapDepth   = 8

	// Body reads are capped well above the large-page threshold.
	maxBodyBytes = 10 << 20
)

// Config holds the read-only settings for one audit run. Built once in main
// and never mutated afterwards.
type Config struct {
	SeedURL       string
	MaxPages      int
	PageWorkers   int
	LinkWorkers   int
	LinkSampleCap int
	Timeout       time.Duration
	LinkTimeout   time.Duration
	UserAgent     string
	PerHostRPS    float64
	NoSpider      bool

	ExcelPath string
	JSONPath  string
}

// Validate normalizes the seed URL and fills unset values with defaults.
// A missing or unparseable seed is the only fatal configuration error.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SeedURL) == "" {
		return fmt.Errorf("seed URL is required")
	}
	seed, err := normalizeSeed(c.SeedURL)
	if err != nil {
		return err
	}
	c.SeedURL = seed

	if c.MaxPages <= 0 {
		c.MaxPages = defaultMaxPages
	}
	if c.PageWorkers <= 0 {
		c.PageWorkers = defaultPageWorkers
	}
	if c.LinkWorkers <= 0 {
		c.LinkWorkers = defaultLinkWorkers
	}
	if c.LinkSampleCap <= 0 {
		c.LinkSampleCap = defaultLinkSample
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.LinkTimeout <= 0 {
		c.LinkTimeout = defaultLinkTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	return nil
}

// CrawlTarget is the normalized root of one run: the seed URL plus the host
// used to split internal from external links. Immutable for the whole run.
type CrawlTarget struct {
	URL    string
	Scheme string
	Host   string
}

// newCrawlTarget parses an already normalized seed URL.
func newCrawlTarget(seed string) (CrawlTarget, error) {
	u, err := url.Parse(seed)
	if err != nil {
		return CrawlTarget{}, fmt.Errorf("invalid seed URL: %w", err)
	}
	if u.Host == "" {
		return CrawlTarget{}, fmt.Errorf("seed URL %q has no host", seed)
	}
	return CrawlTarget{URL: seed, Scheme: u.Scheme, Host: u.Host}, nil
}

// normalizeSeed turns user input into an absolute URL, defaulting the scheme
// to https when none was given.
func normalizeSeed(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid seed URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("seed URL %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("seed URL %q has no host", raw)
	}
	return normalizeURL(u.String()), nil
}
