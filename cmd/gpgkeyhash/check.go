package gpgkeyhash

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/gpgkeyhash/gpgkeyhash/internal/hashline"
	"github.com/spf13/cobra"
)

type checkResult struct {
	Line  string `json:"line"`
	Valid bool   `json:"valid"`
	Field string `json:"field,omitempty"`
	Error string `json:"error,omitempty"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "check [line...]",
		Short: "Validate $gpg$ lines against hashcat's mode 17050 parser",
		Long:  "check validates hash lines given as arguments, or one per line on stdin when no arguments are given.",
		RunE:  runCheck,
	}
	rootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	lines := args
	if len(lines) == 0 {
		sc := bufio.NewScanner(cmd.InOrStdin())
		sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for sc.Scan() {
			if l := strings.TrimSpace(sc.Text()); l != "" {
				lines = append(lines, l)
			}
		}
		if err := sc.Err(); err != nil {
			return err
		}
	}
	if len(lines) == 0 {
		return fmt.Errorf("no hash lines to check")
	}

	results := make([]checkResult, 0, len(lines))
	bad := 0
	for _, l := range lines {
		r := checkResult{Line: l, Valid: true}
		if _, err := hashline.Parse(l); err != nil {
			r.Valid = false
			r.Error = err.Error()
			var he *hashline.Error
			if errors.As(err, &he) {
				r.Field = he.Name
			}
			bad++
		}
		results = append(results, r)
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		if err := writeJSON(out, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				_, _ = fmt.Fprintf(out, "ok      %s\n", abbreviateLine(r.Line))
				continue
			}
			_, _ = fmt.Fprintf(out, "invalid %s: %s\n", abbreviateLine(r.Line), r.Error)
		}
	}
	if bad > 0 {
		return &exitError{code: 1}
	}
	return nil
}

func abbreviateLine(s string) string {
	const max = 48
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
