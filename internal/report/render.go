package report

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gpgkeyhash/gpgkeyhash/internal/types"
	"github.com/olekukonko/tablewriter"
)

type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
	CacheHits    int
}

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// PrintLines writes one hash line per successful result, nothing else, so
// the output can be fed to hashcat directly.
func PrintLines(w io.Writer, results []types.Result) {
	for _, r := range results {
		if r.Status == types.StatusOK {
			fmt.Fprintln(w, r.Line)
		}
	}
}

// PrintText writes one status line per result followed by a summary footer.
func PrintText(w io.Writer, results []types.Result, opts PrintOptions) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No key files found")
	}
	for _, r := range results {
		status := string(r.Status)
		if !opts.NoColor {
			status = colorStatus(r.Status)
		}
		switch r.Status {
		case types.StatusOK:
			fmt.Fprintf(w, "%-7s %s\n        %s\n", status, r.Path, r.Line)
			if r.Warning != "" {
				warn := "warning: " + r.Warning
				if !opts.NoColor {
					warn = warnStyle.Render(warn)
				}
				fmt.Fprintf(w, "        %s\n", warn)
			}
		default:
			fmt.Fprintf(w, "%-7s %s  %s\n", status, r.Path, r.Error)
		}
	}
	printFooter(w, results, opts)
}

// PrintTable renders results as a bordered table with abbreviated lines.
func PrintTable(w io.Writer, results []types.Result, opts PrintOptions) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No key files found")
		printFooter(w, results, opts)
		return
	}
	table := tablewriter.NewWriter(w)
	table.Header("PATH", "STATUS", "KIND", "DETAIL")
	for _, r := range results {
		detail := r.Error
		if r.Status == types.StatusOK {
			detail = abbreviate(r.Line, 48)
			if r.Warning != "" {
				detail += " (!)"
			}
		}
		_ = table.Append([]string{r.Path, string(r.Status), r.Kind, detail})
	}
	_ = table.Render()
	printFooter(w, results, opts)
}

func printFooter(w io.Writer, results []types.Result, opts PrintOptions) {
	ok, skipped, failed := Counts(results)
	if opts.Duration > 0 || opts.FilesScanned > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Keys: %d (extracted: %d, skipped: %d, failed: %d)\n", len(results), ok, skipped, failed)
		if opts.Duration > 0 {
			fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
		}
		if opts.FilesScanned > 0 {
			fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
		}
		if opts.CacheHits > 0 {
			fmt.Fprintf(w, "Cache hits: %d\n", opts.CacheHits)
		}
	}
}

// Counts tallies results by status.
func Counts(results []types.Result) (ok, skipped, failed int) {
	for _, r := range results {
		switch r.Status {
		case types.StatusOK:
			ok++
		case types.StatusSkipped:
			skipped++
		default:
			failed++
		}
	}
	return ok, skipped, failed
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	half := (n - 1) / 2
	return s[:half] + "…" + s[len(s)-half:]
}

func colorStatus(s types.Status) string {
	switch s {
	case types.StatusOK:
		return okStyle.Render("ok")
	case types.StatusSkipped:
		return skippedStyle.Render("skipped")
	default:
		return failedStyle.Render("failed")
	}
}
