package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Reporter consumes a finished run. Implementations format and persist the
// data; they never alter field semantics.
type Reporter interface {
	Write(records []PageRecord, sum RunSummary) error
}

// ExcelReporter writes the two-sheet workbook the audit has always shipped:
// a Summary sheet and the per-page Audit sheet with conditional highlights.
type ExcelReporter struct {
	Path string
}

// JSONReporter dumps the full result set for downstream tooling.
type JSONReporter struct {
	Path string
}

const (
	summarySheet = "Summary"
	auditSheet   = "Audit"
)

var auditHeaders = []any{
	"URL", "Status", "Class", "Title", "Title Length", "Title Tags",
	"Meta Description", "Meta Length", "H1", "H1 Count", "Title = H1",
	"Hierarchy Error", "Word Count", "Canonical", "Internal Links",
	"External Links", "Broken Links (sampled)", "Images Missing Alt",
	"Page Size (KB)", "HTTPS", "Schema Types", "Load Time (s)",
	"Duplicate Title", "Orphan", "Issues",
}

func (r ExcelReporter) Write(records []PageRecord, sum RunSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("excel: %w", err)
	}
	if _, err := f.NewSheet(auditSheet); err != nil {
		return fmt.Errorf("excel: %w", err)
	}

	styles, err := newReportStyles(f)
	if err != nil {
		return fmt.Errorf("excel: %w", err)
	}

	w := &excelWriter{f: f}
	w.summarySheet(sum, styles)
	w.auditSheet(records, styles)
	if w.err != nil {
		return fmt.Errorf("excel: %w", w.err)
	}

	if idx, err := f.GetSheetIndex(summarySheet); err == nil {
		f.SetActiveSheet(idx)
	}
	if err := f.SaveAs(r.Path); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// reportStyles holds the style IDs reused across both sheets.
type reportStyles struct {
	header int
	label  int
	red    int
	yellow int
}

func newReportStyles(f *excelize.File) (reportStyles, error) {
	var s reportStyles
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return s, err
	}
	s.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return s, err
	}
	s.red, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "9C0006"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return s, err
	}
	s.yellow, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "9C6500"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFEB9C"}, Pattern: 1},
	})
	return s, err
}

// excelWriter keeps the first error and lets the sheet-building code read as
// a straight sequence of writes.
type excelWriter struct {
	f   *excelize.File
	err error
}

func (w *excelWriter) cell(sheet, cell string, value any) {
	if w.err == nil {
		w.err = w.f.SetCellValue(sheet, cell, value)
	}
}

func (w *excelWriter) row(sheet, start string, values []any) {
	if w.err == nil {
		w.err = w.f.SetSheetRow(sheet, start, &values)
	}
}

func (w *excelWriter) style(sheet, from, to string, styleID int) {
	if w.err == nil {
		w.err = w.f.SetCellStyle(sheet, from, to, styleID)
	}
}

func (w *excelWriter) colWidth(sheet, from, to string, width float64) {
	if w.err == nil {
		w.err = w.f.SetColWidth(sheet, from, to, width)
	}
}

func (w *excelWriter) summarySheet(sum RunSummary, styles reportStyles) {
	truncNote := ""
	if sum.Truncated {
		truncNote = fmt.Sprintf(" (audited first %d)", sum.PageCount)
	}
	rows := [][2]any{
		{"Target", sum.TargetURL},
		{"Audit Date", sum.StartedAt.Format("2006-01-02 15:04:05")},
		{"Robots.txt Found", yesNo(sum.RobotsTxtPresent)},
		{"URLs Discovered", fmt.Sprintf("%d%s", sum.DiscoveredCount, truncNote)},
		{"Pages Scanned", sum.PageCount},
		{"All Pages HTTPS", yesNo(sum.AllHTTPS)},
		{"Avg Load Time", fmt.Sprintf("%.2fs", sum.MeanLoadSeconds)},
		{"Total Downloaded (KB)", fmt.Sprintf("%.1f", float64(sum.TotalBytes)/1024)},
		{"Duration", sum.Duration},
	}
	line := 1
	for _, kv := range rows {
		w.cell(summarySheet, fmt.Sprintf("A%d", line), kv[0])
		w.cell(summarySheet, fmt.Sprintf("B%d", line), kv[1])
		line++
	}
	w.style(summarySheet, "A1", fmt.Sprintf("A%d", line-1), styles.label)

	line++
	w.cell(summarySheet, fmt.Sprintf("A%d", line), "Status Breakdown")
	w.style(summarySheet, fmt.Sprintf("A%d", line), fmt.Sprintf("A%d", line), styles.header)
	line++
	for _, k := range sortedKeys(sum.StatusCounts) {
		w.cell(summarySheet, fmt.Sprintf("A%d", line), k)
		w.cell(summarySheet, fmt.Sprintf("B%d", line), sum.StatusCounts[k])
		line++
	}

	line++
	w.cell(summarySheet, fmt.Sprintf("A%d", line), "Issues Found")
	w.style(summarySheet, fmt.Sprintf("A%d", line), fmt.Sprintf("A%d", line), styles.header)
	line++
	for _, k := range sortedKeys(sum.IssueCounts) {
		w.cell(summarySheet, fmt.Sprintf("A%d", line), k)
		w.cell(summarySheet, fmt.Sprintf("B%d", line), sum.IssueCounts[k])
		line++
	}

	w.colWidth(summarySheet, "A", "A", 24)
	w.colWidth(summarySheet, "B", "B", 48)
}

func (w *excelWriter) auditSheet(records []PageRecord, styles reportStyles) {
	w.row(auditSheet, "A1", auditHeaders)
	w.style(auditSheet, "A1", lastAuditColumn+"1", styles.header)

	for i := range records {
		r := &records[i]
		line := i + 2
		w.row(auditSheet, fmt.Sprintf("A%d", line), []any{
			r.URL,
			r.StatusCode,
			string(r.StatusClass),
			r.Title,
			r.TitleLength,
			r.TitleTagCount,
			r.MetaDescription,
			r.MetaDescriptionLength,
			r.H1Text,
			r.H1Count,
			yesNo(r.TitleEqualsH1),
			yesNo(r.SequentialH1Error),
			r.WordCount,
			r.CanonicalURL,
			r.InternalLinkCount,
			r.ExternalLinkCount,
			r.BrokenInternalLinkCount,
			r.MissingAltImageCount,
			fmt.Sprintf("%.1f", float64(r.PageSizeBytes)/1024),
			yesNo(r.IsHTTPS),
			strings.Join(r.StructuredDataTypes, ", "),
			fmt.Sprintf("%.2f", r.LoadSeconds),
			yesNo(r.DuplicateTitle),
			"N/A",
			issueSummary(r),
		})
		w.highlightRow(r, line, styles)
	}

	w.colWidth(auditSheet, "A", "A", 52)
	w.colWidth(auditSheet, "D", "D", 36)
	w.colWidth(auditSheet, "G", "G", 40)
	w.colWidth(auditSheet, "I", "I", 30)
	w.colWidth(auditSheet, "N", "N", 34)
	w.colWidth(auditSheet, "U", "U", 24)
	w.colWidth(auditSheet, "Y", "Y", 48)
}

const lastAuditColumn = "Y"

// highlightRow applies the same conditional fills the audit workbook has
// always used so problem cells stand out without reading the issue text.
func (w *excelWriter) highlightRow(r *PageRecord, line int, styles reportStyles) {
	mark := func(col string, styleID int) {
		cell := fmt.Sprintf("%s%d", col, line)
		w.style(auditSheet, cell, cell, styleID)
	}

	switch {
	case r.StatusCode >= 400 || r.StatusClass == StatusConnectionError:
		mark("B", styles.red)
	case r.StatusCode >= 300:
		mark("B", styles.yellow)
	}
	if r.H1Count == 0 {
		mark("J", styles.red)
	}
	if r.SequentialH1Error {
		mark("L", styles.yellow)
	}
	if r.HasIssue(IssueThinContent) {
		mark("M", styles.yellow)
	}
	if r.BrokenInternalLinkCount > 0 {
		mark("Q", styles.red)
	}
	if !r.IsHTTPS {
		mark("T", styles.red)
	}
	if r.DuplicateTitle {
		mark("W", styles.red)
	}
}

// auditExport is the JSON document handed to downstream consumers.
type auditExport struct {
	Summary RunSummary   `json:"summary"`
	Pages   []PageRecord `json:"pages"`
}

func (r JSONReporter) Write(records []PageRecord, sum RunSummary) error {
	data, err := json.MarshalIndent(auditExport{Summary: sum, Pages: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if err := os.WriteFile(r.Path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

func issueSummary(r *PageRecord) string {
	if len(r.Issues) == 0 {
		return "OK"
	}
	msgs := make([]string, len(r.Issues))
	for i, is := range r.Issues {
		msgs[i] = is.Message
	}
	return strings.Join(msgs, " | ")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
