package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// PageAnalyzer fetches one page and extracts everything the audit scores.
type PageAnalyzer struct {
	fetcher     *Fetcher
	sampleCap   int
	linkWorkers int
	linkTimeout time.Duration
}

// NewPageAnalyzer wires an analyzer to the shared Fetcher.
func NewPageAnalyzer(f *Fetcher, cfg Config) *PageAnalyzer {
	return &PageAnalyzer{
		fetcher:     f,
		sampleCap:   cfg.LinkSampleCap,
		linkWorkers: cfg.LinkWorkers,
		linkTimeout: cfg.LinkTimeout,
	}
}

// Analyze audits a single URL. It never fails: network trouble, error
// statuses and unparseable markup all come back as a record carrying
// whatever could still be gathered.
func (pa *PageAnalyzer) Analyze(ctx context.Context, pageURL, siteHost string) PageRecord {
	rec := PageRecord{URL: pageURL}

	res, err := pa.fetcher.Get(ctx, pageURL)
	if err != nil {
		cause := err.Error()
		var fe *FetchError
		if errors.As(err, &fe) {
			cause = fe.Cause
		}
		rec.StatusClass = StatusConnectionError
		rec.Issues = []Issue{issuef(IssueConnectionFailed, "Connection Error: %s", cause)}
		slog.Debug("page unreachable", "url", pageURL, "error", err)
		return rec
	}

	rec.StatusCode = res.StatusCode
	rec.StatusClass = classifyStatus(res.StatusCode)
	rec.LoadSeconds = res.Elapsed.Seconds()
	rec.PageSizeBytes = int64(len(res.Body))
	rec.IsHTTPS = strings.HasPrefix(res.FinalURL, "https://")

	contentType := res.Header.Get("Content-Type")
	if res.StatusCode >= 400 || !strings.Contains(contentType, "text/html") {
		if res.StatusCode >= 400 {
			rec.Issues = []Issue{issuef(IssueHTTPError, "Status %d", res.StatusCode)}
		}
		slog.Debug("skipping parse", "url", pageURL, "status", res.StatusCode, "content_type", contentType)
		return rec
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		slog.Warn("unparseable HTML", "url", pageURL, "error", err)
		return rec
	}

	pa.extractSignals(&rec, doc)
	rec.WordCount = wordCount(string(res.Body))

	if base, err := url.Parse(res.FinalURL); err != nil {
		slog.Debug("unusable final URL, skipping link checks", "url", res.FinalURL, "error", err)
	} else {
		part := partitionLinks(doc, base, siteHost, pa.sampleCap)
		rec.InternalLinkCount = part.Internal
		rec.ExternalLinkCount = part.External
		rec.BrokenInternalLinkCount = checkBrokenLinks(ctx, pa.fetcher, part.Samples, pa.linkWorkers, pa.linkTimeout)
	}

	rec.Issues = deriveIssues(&rec)
	return rec
}

// extractSignals pulls the on-page SEO fields out of the parsed document.
func (pa *PageAnalyzer) extractSignals(rec *PageRecord, doc *goquery.Document) {
	titles := doc.Find("title")
	rec.TitleTagCount = titles.Length()
	rec.Title = strings.TrimSpace(titles.First().Text())
	rec.TitleLength = utf8.RuneCountInString(rec.Title)

	if desc, ok := doc.Find(`meta[name='description']`).First().Attr("content"); ok {
		rec.MetaDescription = strings.TrimSpace(desc)
		rec.MetaDescriptionLength = utf8.RuneCountInString(rec.MetaDescription)
	}

	h1s := doc.Find("h1")
	rec.H1Count = h1s.Length()
	rec.H1Text = strings.TrimSpace(h1s.First().Text())
	rec.TitleEqualsH1 = rec.Title != "" && rec.H1Text != "" && strings.EqualFold(rec.Title, rec.H1Text)

	// The first heading in document order should be the H1.
	headings := doc.Find("h1, h2, h3, h4, h5, h6")
	if headings.Length() > 0 && goquery.NodeName(headings.First()) != "h1" {
		rec.SequentialH1Error = true
	}

	if canonical, ok := doc.Find(`link[rel='canonical']`).First().Attr("href"); ok {
		rec.CanonicalURL = strings.TrimSpace(canonical)
	}

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		if alt, ok := img.Attr("alt"); !ok || strings.TrimSpace(alt) == "" {
			rec.MissingAltImageCount++
		}
	})

	rec.StructuredDataTypes = structuredDataTypes(doc, rec.URL)
}
