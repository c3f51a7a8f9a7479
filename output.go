package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Color definitions
var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorDim     = color.New(color.Faint).SprintFunc()
	colorBold    = color.New(color.Bold).SprintFunc()
)

// Output prefixes
const (
	prefixOK       = "✓"
	prefixWarn     = "⚠"
	prefixError    = "✗"
	prefixProgress = "◆"
)

// printProgress renders one progress tick.
func printProgress(ev ProgressEvent) {
	pct := float64(ev.Completed) / float64(ev.Total) * 100
	fmt.Printf("%s [%d/%d] (%.0f%%) %s\n",
		colorInfo(prefixProgress), ev.Completed, ev.Total, pct, colorDim(ev.URL))
}

// printPageLine renders one finished record with a status-colored glyph.
func printPageLine(r *PageRecord) {
	var glyph string
	switch {
	case r.StatusClass == StatusConnectionError || r.StatusCode >= 400:
		glyph = colorError(prefixError)
	case r.StatusCode >= 300:
		glyph = colorWarn(prefixWarn)
	default:
		glyph = colorSuccess(prefixOK)
	}

	status := string(r.StatusClass)
	if r.StatusCode > 0 {
		status = fmt.Sprintf("%d %s", r.StatusCode, getHTTPStatusText(r.StatusCode))
	}

	line := fmt.Sprintf("%s %-20s %s", glyph, status, r.URL)
	if n := len(r.Issues); n == 1 {
		line += colorWarn("  (1 issue)")
	} else if n > 1 {
		line += colorWarn(fmt.Sprintf("  (%d issues)", n))
	}
	fmt.Println(line)
}

// printRunSummary renders the closing block and the issue table.
func printRunSummary(sum RunSummary) {
	fmt.Println()
	fmt.Println(colorBold("Audit Summary"))
	fmt.Printf("  Target:         %s\n", sum.TargetURL)
	if sum.Truncated {
		fmt.Printf("  Pages scanned:  %d %s\n", sum.PageCount,
			colorDim(fmt.Sprintf("(of %d discovered)", sum.DiscoveredCount)))
	} else {
		fmt.Printf("  Pages scanned:  %d\n", sum.PageCount)
	}
	fmt.Printf("  Robots.txt:     %s\n", yesNo(sum.RobotsTxtPresent))
	fmt.Printf("  All HTTPS:      %s\n", yesNo(sum.AllHTTPS))
	fmt.Printf("  Avg load time:  %.2fs\n", sum.MeanLoadSeconds)
	fmt.Printf("  Duration:       %s\n", sum.Duration)

	if len(sum.IssueCounts) == 0 {
		fmt.Println()
		fmt.Printf("%s %s\n", colorSuccess(prefixOK), "No issues found")
		return
	}

	fmt.Println()
	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"Issue", "Pages"})
	for _, code := range sortedKeys(sum.IssueCounts) {
		table.Append([]string{code, strconv.Itoa(sum.IssueCounts[code])})
	}
	table.Render()
}

// getHTTPStatusText returns a human-readable status text for common HTTP codes
func getHTTPStatusText(code int) string {
	switch code {
	case 200:
		return "OK"
	case 301:
		return "Moved Permanently"
	case 302:
		return "Found"
	case 304:
		return "Not Modified"
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 429:
		return "Too Many Requests"
	case 500:
		return "Internal Server Error"
	case 502:
		return "Bad Gateway"
	case 503:
		return "Service Unavailable"
	default:
		return "Unknown"
	}
}
