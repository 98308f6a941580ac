package gpgkeyhash

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gpgkeyhash/gpgkeyhash/internal/audit"
	"github.com/gpgkeyhash/gpgkeyhash/internal/cache"
	"github.com/gpgkeyhash/gpgkeyhash/internal/engine"
	"github.com/gpgkeyhash/gpgkeyhash/internal/report"
	"github.com/gpgkeyhash/gpgkeyhash/internal/update"
	"github.com/spf13/cobra"
)

var (
	flagPath        string
	flagInclude     string
	flagExclude     string
	flagMaxBytes    int64
	flagThreads     int
	flagNoCache     bool
	flagFormat      string
	flagFailOnError bool
	flagLast        bool
	flagAudit       bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Extract hash lines from every key file in a directory",
		Args:  cobra.NoArgs,
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", "", "directory to scan (default $GNUPGHOME/private-keys-v1.d)")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs (default "+engine.DefaultInclude+")")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (0 = no limit)")
	cmd.Flags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "disable the digest cache")
	cmd.Flags().StringVar(&flagFormat, "format", "", "output format: lines|table|text|json (default lines)")
	cmd.Flags().BoolVar(&flagFailOnError, "fail-on-error", false, "exit 1 when any key file fails to extract")
	cmd.Flags().BoolVar(&flagLast, "last", false, "print the results of the previous scan without rescanning")
	cmd.Flags().BoolVar(&flagAudit, "audit", false, "append a summary of this scan to the audit log")
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletions("lines", "table", "text", "json"))
}

func runScan(cmd *cobra.Command, _ []string) error {
	root := flagPath
	if root == "" {
		root = engine.DefaultRoot()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	settings, err := loadSettings(abs)
	if err != nil {
		return err
	}
	lg, err := newLogger(settings)
	if err != nil {
		return err
	}

	include := pickString(flagInclude, settings.Include)
	if include == "" {
		include = engine.DefaultInclude
	}
	exclude := pickString(flagExclude, settings.Exclude)
	for _, g := range []string{include, exclude} {
		if bad, ok := engine.ValidGlobs(g); !ok {
			return fmt.Errorf("invalid glob %q", bad)
		}
	}
	format := strings.ToLower(pickString(flagFormat, settings.Format))
	if flagJSON {
		format = "json"
	}
	switch format {
	case "", "lines", "table", "text", "json":
	default:
		return fmt.Errorf("unsupported format %q (want lines, table, text or json)", format)
	}
	failOnError := pickBool(flagFailOnError, settings.FailOnError)
	out := cmd.OutOrStdout()
	opts := report.PrintOptions{NoColor: !colorEnabled(out, settings)}

	var res engine.Result
	if flagLast {
		last, err := cache.LoadResults(abs)
		if err != nil {
			return fmt.Errorf("no previous scan for %s: %w", abs, err)
		}
		res.Results = last.Results
		res.FilesScanned = last.Count
	} else {
		if format != "json" && !flagNoUpdateCheck {
			if latest, newer, _ := update.Check(version, false); newer && latest != "" {
				_, _ = fmt.Fprintf(os.Stderr, "(new version available: v%s)  run 'gpgkeyhash update' to upgrade\n", latest)
			}
		}
		cfg := engine.Config{
			Root:         abs,
			IncludeGlobs: include,
			ExcludeGlobs: exclude,
			MaxBytes:     pickInt64(flagMaxBytes, settings.MaxBytes),
			Threads:      pickInt(flagThreads, settings.Threads),
			NoCache:      pickBool(flagNoCache, settings.NoCache),
			Logger:       lg,
		}
		showProgress := format != "json" && format != "lines" && colorEnabled(os.Stderr, settings)
		total, _ := engine.CountTargets(cfg)
		progressed := 0
		if showProgress && total > 0 {
			cfg.Progress = func() {
				progressed++
				pct := float64(progressed) / float64(total) * 100
				_, _ = fmt.Fprintf(os.Stderr, "\r[%d/%d] %.0f%%", progressed, total, pct)
			}
		}
		res, err = engine.Scan(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("scan error: %w", err)
		}
		if showProgress && total > 0 {
			_, _ = fmt.Fprintln(os.Stderr)
		}
		if !cfg.NoCache {
			if err := cache.SaveResults(abs, res.Results); err != nil {
				lg.WithError(err).Warn("could not save scan results")
			}
		}
		if flagAudit {
			rec := audit.CreateScanRecord(abs, res.Results, res.CacheHits, res.Duration)
			if err := audit.NewAuditLog(abs).LogScan(rec); err != nil {
				lg.WithError(err).Warn("could not write audit log")
			}
		}
	}
	opts.Duration = res.Duration
	opts.FilesScanned = res.FilesScanned
	opts.CacheHits = res.CacheHits

	switch format {
	case "json":
		if err := report.WriteJSON(out, res.Results); err != nil {
			return err
		}
	case "table":
		report.PrintTable(out, res.Results, opts)
	case "text":
		report.PrintText(out, res.Results, opts)
	default:
		report.PrintLines(out, res.Results)
	}
	copyLines(lg, res.Lines()...)

	if report.ShouldFail(res.Results, failOnError) {
		return &exitError{code: 1}
	}
	return nil
}
