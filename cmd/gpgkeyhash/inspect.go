package gpgkeyhash

import (
	"fmt"
	"os"

	"github.com/gpgkeyhash/gpgkeyhash/internal/hashline"
	"github.com/gpgkeyhash/gpgkeyhash/internal/keyfile"
	"github.com/gpgkeyhash/gpgkeyhash/internal/report"
	"github.com/spf13/cobra"
)

var flagReveal bool

type inspectSummary struct {
	Path          string `json:"path"`
	BlockStart    int    `json:"block_start"`
	BlockEnd      int    `json:"block_end"`
	SaltLen       int    `json:"salt_len"`
	Iterations    uint64 `json:"iterations"`
	NonceLen      int    `json:"nonce_len"`
	CiphertextLen int    `json:"ciphertext_len"`
	Line          string `json:"line"`
	Accepted      bool   `json:"accepted"`
	Reason        string `json:"reason,omitempty"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "inspect <keyfile>",
		Short: "Show the protected block of a key file and its extracted fields",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	cmd.Flags().BoolVar(&flagReveal, "reveal", false, "show literal payloads instead of masking them")
	rootCmd.AddCommand(cmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings("")
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	span, err := keyfile.Locate(data)
	if err != nil {
		return err
	}
	rec, err := keyfile.Scan(keyfile.Normalize(span.Bytes(data)))
	if err != nil {
		return err
	}
	line := hashline.Format(rec)
	sum := inspectSummary{
		Path:          args[0],
		BlockStart:    span.Start,
		BlockEnd:      span.End,
		SaltLen:       len(rec.Salt),
		Iterations:    rec.Iterations,
		NonceLen:      len(rec.Nonce),
		CiphertextLen: len(rec.Ciphertext),
		Line:          line,
		Accepted:      true,
	}
	if _, err := hashline.Parse(line); err != nil {
		sum.Accepted = false
		sum.Reason = err.Error()
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(out, sum)
	}
	block := span.Bytes(data)
	if !flagReveal {
		block = report.MaskLiterals(block)
	}
	if err := report.Highlight(out, block, !colorEnabled(out, settings)); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "\n\nblock:       bytes %d-%d\n", span.Start, span.End)
	_, _ = fmt.Fprintf(out, "salt:        %d bytes\n", sum.SaltLen)
	_, _ = fmt.Fprintf(out, "iterations:  %d\n", sum.Iterations)
	_, _ = fmt.Fprintf(out, "nonce:       %d bytes\n", sum.NonceLen)
	_, _ = fmt.Fprintf(out, "ciphertext:  %d bytes\n", sum.CiphertextLen)
	if sum.Accepted {
		_, _ = fmt.Fprintln(out, "hashcat:     accepted by -m 17050")
	} else {
		_, _ = fmt.Fprintf(out, "hashcat:     rejected (%s)\n", sum.Reason)
	}
	return nil
}
