package gpgkeyhash

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/gpgkeyhash/gpgkeyhash/internal/audit"
	"github.com/gpgkeyhash/gpgkeyhash/internal/engine"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	flagHistoryPath   string
	flagHistoryDelete int
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List scans recorded with 'scan --audit'",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	cmd.Flags().StringVarP(&flagHistoryPath, "path", "p", "", "scanned directory (default $GNUPGHOME/private-keys-v1.d)")
	cmd.Flags().IntVar(&flagHistoryDelete, "delete", -1, "delete the record at this index (0 = newest)")
	rootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	root := flagHistoryPath
	if root == "" {
		root = engine.DefaultRoot()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	log := audit.NewAuditLog(abs)
	if flagHistoryDelete >= 0 {
		if err := log.DeleteRecord(flagHistoryDelete); err != nil {
			return err
		}
	}
	records, err := log.LoadHistory()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		if records == nil {
			records = []audit.ScanRecord{}
		}
		return writeJSON(out, records)
	}
	table := tablewriter.NewWriter(out)
	table.Header("#", "WHEN", "FILES", "EXTRACTED", "SKIPPED", "FAILED", "DURATION")
	for i, r := range records {
		_ = table.Append([]string{
			strconv.Itoa(i),
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(r.FilesScanned),
			strconv.Itoa(r.Extracted),
			strconv.Itoa(r.Skipped),
			strconv.Itoa(r.Failed),
			r.Duration,
		})
	}
	_ = table.Render()
	_, _ = fmt.Fprintf(out, "%d scans recorded in %s\n", len(records), log.Path())
	return nil
}
