package main

import (
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/PuerkitoBio/goquery"
)

// structuredDataTypes collects every @type value declared in the page's
// JSON-LD script blocks. One malformed block is skipped and logged; the
// remaining blocks still contribute.
func structuredDataTypes(doc *goquery.Document, pageURL string) []string {
	found := make(map[string]struct{})

	doc.Find(`script[type='application/ld+json']`).Each(func(i int, s *goquery.Selection) {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			slog.Debug("skipping malformed JSON-LD block", "url", pageURL, "block", i, "error", err)
			return
		}
		collectTypes(payload, found)
	})

	if len(found) == 0 {
		return nil
	}
	types := make([]string, 0, len(found))
	for t := range found {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// collectTypes walks a decoded JSON value. Objects may declare @type as a
// string or a list of strings; nested objects and arrays are visited too.
// Anything with an unexpected shape is skipped, not an error.
func collectTypes(v any, found map[string]struct{}) {
	switch val := v.(type) {
	case map[string]any:
		if t, ok := val["@type"]; ok {
			switch tv := t.(type) {
			case string:
				found[tv] = struct{}{}
			case []any:
				for _, item := range tv {
					if s, ok := item.(string); ok {
						found[s] = struct{}{}
					}
				}
			}
		}
		for _, nested := range val {
			collectTypes(nested, found)
		}
	case []any:
		for _, item := range val {
			collectTypes(item, found)
		}
	}
}
