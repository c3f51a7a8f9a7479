package main

import "fmt"

// IssueCode is a stable machine-readable tag for one failed audit check.
type IssueCode string

const (
	IssueHTTPError        IssueCode = "http_error"
	IssueConnectionFailed IssueCode = "connection_failed"
	IssueMultipleTitles   IssueCode = "multiple_titles"
	IssueMissingTitle     IssueCode = "missing_title"
	IssueLongTitle        IssueCode = "long_title"
	IssueMissingH1        IssueCode = "missing_h1"
	IssueMultipleH1s      IssueCode = "multiple_h1s"
	IssueHeadingOrder     IssueCode = "heading_order"
	IssueTitleEqualsH1    IssueCode = "title_equals_h1"
	IssueBrokenLinks      IssueCode = "broken_links"
	IssueMissingAlt       IssueCode = "missing_alt"
	IssueThinContent      IssueCode = "thin_content"
	IssueNotHTTPS         IssueCode = "not_https"
	IssueLargePage        IssueCode = "large_page"
	IssueNoSchema         IssueCode = "no_schema"
	IssueDuplicateTitle   IssueCode = "duplicate_title"
)

// Audit thresholds.
const (
	maxTitleLength   = 60
	thinContentWords = 300
	largePageBytes   = 2000 * 1024
)

// Issue pairs a code with the human wording used on reports.
type Issue struct {
	Code    IssueCode `json:"code"`
	Message string    `json:"message"`
}

func issuef(code IssueCode, format string, args ...any) Issue {
	return Issue{Code: code, Message: fmt.Sprintf(format, args...)}
}

// deriveIssues applies the rule table to a fully parsed page. Rules are
// independent; every applicable one fires exactly once. Pages that were not
// parsed (connection failures, error statuses, non-HTML responses) never
// reach this function, they get their single status issue inline.
func deriveIssues(r *PageRecord) []Issue {
	var issues []Issue

	if r.StatusCode >= 400 {
		issues = append(issues, issuef(IssueHTTPError, "Status %d", r.StatusCode))
	}
	if r.TitleTagCount > 1 {
		issues = append(issues, issuef(IssueMultipleTitles, "Multiple <title> tags"))
	}
	if r.Title == "" {
		issues = append(issues, issuef(IssueMissingTitle, "Missing Title"))
	} else if r.TitleLength > maxTitleLength {
		issues = append(issues, issuef(IssueLongTitle, "Title > %d chars", maxTitleLength))
	}
	if r.H1Count == 0 {
		issues = append(issues, issuef(IssueMissingH1, "Missing H1"))
	} else if r.H1Count > 1 {
		issues = append(issues, issuef(IssueMultipleH1s, "Multiple H1s"))
	}
	if r.SequentialH1Error {
		issues = append(issues, issuef(IssueHeadingOrder, "Hierarchy Error: H1 is not first heading"))
	}
	if r.TitleEqualsH1 {
		issues = append(issues, issuef(IssueTitleEqualsH1, "Title identical to H1"))
	}
	if r.BrokenInternalLinkCount > 0 {
		issues = append(issues, issuef(IssueBrokenLinks, "%d Broken Links", r.BrokenInternalLinkCount))
	}
	if r.MissingAltImageCount > 0 {
		issues = append(issues, issuef(IssueMissingAlt, "%d Images missing Alt", r.MissingAltImageCount))
	}
	if r.WordCount < thinContentWords {
		issues = append(issues, issuef(IssueThinContent, "Thin Content"))
	}
	if !r.IsHTTPS {
		issues = append(issues, issuef(IssueNotHTTPS, "Not HTTPS"))
	}
	if r.PageSizeBytes > largePageBytes {
		issues = append(issues, issuef(IssueLargePage, "Large Page (>2MB)"))
	}
	if len(r.StructuredDataTypes) == 0 {
		issues = append(issues, issuef(IssueNoSchema, "No Schema"))
	}

	return issues
}
