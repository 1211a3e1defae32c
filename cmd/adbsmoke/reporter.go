package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/microsoft/adbsmoke/internal/models"
)

// statusIcon maps a check status to its report marker.
func statusIcon(s models.Status) string {
	switch s {
	case models.StatusPass:
		return "✓"
	case models.StatusWarn:
		return "!"
	default:
		return "✗"
	}
}

// printProgress emits one line per finished check, in execution order.
func printProgress(w io.Writer, c models.CheckResult) {
	duration := time.Duration(c.DurationMs) * time.Millisecond
	if c.ErrorCode != "" {
		fmt.Fprintf(w, "%s %s (%v) [%s]\n", statusIcon(c.Status), c.Name, duration, c.ErrorCode)
		return
	}
	fmt.Fprintf(w, "%s %s (%v)\n", statusIcon(c.Status), c.Name, duration)
}

// printReport renders the human-readable report: one section per executed
// check, mirroring execution order, followed by the overall verdict.
func printReport(w io.Writer, summary *models.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "="+strings.Repeat("=", 50))
	fmt.Fprintln(w, " SMOKE TEST RESULTS")
	fmt.Fprintln(w, "="+strings.Repeat("=", 50))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Device:   %s\n", summary.Serial)
	fmt.Fprintf(w, "Output:   %s\n", summary.OutDir)
	fmt.Fprintf(w, "Overall:  %s\n", strings.ToUpper(string(summary.Status)))
	fmt.Fprintln(w)

	nameWidth := 0
	for _, c := range summary.Checks {
		if w := runewidth.StringWidth(c.Name); w > nameWidth {
			nameWidth = w
		}
	}

	fmt.Fprintln(w, "-"+strings.Repeat("-", 50))
	for _, c := range summary.Checks {
		duration := time.Duration(c.DurationMs) * time.Millisecond
		fmt.Fprintf(w, "  %s %s  %v\n", statusIcon(c.Status), padRight(c.Name, nameWidth), duration)
		if c.ErrorCode != "" {
			fmt.Fprintf(w, "      [%s] %s\n", c.ErrorCode, c.Error)
		}
		for _, artifact := range c.Artifacts {
			fmt.Fprintf(w, "      %s\n", artifact)
		}
	}
	fmt.Fprintln(w, "-"+strings.Repeat("-", 50))
	fmt.Fprintln(w)
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
