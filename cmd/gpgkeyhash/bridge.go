package gpgkeyhash

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gpgkeyhash/gpgkeyhash/internal/hcctx"
	"github.com/gpgkeyhash/gpgkeyhash/internal/keyfile"
	"github.com/gpgkeyhash/gpgkeyhash/internal/saltrec"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	flagCtxInit   bool
	flagCtxVerify string
)

type saltView struct {
	Index      int    `json:"index"`
	Salt       string `json:"salt"`
	Iter       uint32 `json:"iter"`
	DigestsCnt uint32 `json:"digests_cnt"`
	OrigPos    uint32 `json:"orig_pos"`
}

type ctxView struct {
	Parallelism   int        `json:"parallelism"`
	Salts         []saltView `json:"salts"`
	SelfTestSalts []saltView `json:"self_test_salts"`
	EsaltBytes    int        `json:"esalt_bytes"`
	Verified      *bool      `json:"self_test_verified,omitempty"`
}

func init() {
	bridge := &cobra.Command{Use: "bridge", Short: "Inspect hashcat bridge plugin state"}
	rootCmd.AddCommand(bridge)

	salts := &cobra.Command{
		Use:   "salts <blob>",
		Short: "Decode a raw salt record dump",
		Args:  cobra.ExactArgs(1),
		RunE:  runBridgeSalts,
	}
	bridge.AddCommand(salts)

	ctx := &cobra.Command{
		Use:   "ctx [file]",
		Short: "Show, create or verify a saved bridge context",
		Long:  "ctx shows the bridge context saved in file, or the default unsalted context when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBridgeCtx,
	}
	ctx.Flags().BoolVar(&flagCtxInit, "init", false, "write the default unsalted context to <file> if it does not exist")
	ctx.Flags().StringVar(&flagCtxVerify, "verify", "", "check that a hash line matches the context's self-test salt")
	bridge.AddCommand(ctx)
}

func runBridgeSalts(cmd *cobra.Command, args []string) error {
	blob, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	recs, err := saltrec.Decode(blob)
	if err != nil {
		return err
	}
	views := saltViews(recs)
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), views)
	}
	printSalts(cmd.OutOrStdout(), views)
	return nil
}

func runBridgeCtx(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	}
	if flagCtxInit && path == "" {
		return keyfile.UsageError("--init needs a context file")
	}
	var (
		c   hcctx.Context
		err error
	)
	if _, statErr := os.Stat(path); flagCtxInit && os.IsNotExist(statErr) {
		c = hcctx.Default()
		err = hcctx.Store(path, c)
	} else {
		c, err = hcctx.LoadOrDefault(path)
	}
	if err != nil {
		return err
	}

	salts, err := c.SaltRecords(false)
	if err != nil {
		return fmt.Errorf("salts: %w", err)
	}
	st, err := c.SaltRecords(true)
	if err != nil {
		return fmt.Errorf("self-test salts: %w", err)
	}
	view := ctxView{
		Parallelism:   c.Parallelism,
		Salts:         saltViews(salts),
		SelfTestSalts: saltViews(st),
		EsaltBytes:    len(c.Esalts),
	}
	var verifyErr error
	if flagCtxVerify != "" {
		verifyErr = c.VerifySelfTest(flagCtxVerify)
		ok := verifyErr == nil
		view.Verified = &ok
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		if err := writeJSON(out, view); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(out, "parallelism: %d\nesalt bytes: %d\n\nsalts:\n", view.Parallelism, view.EsaltBytes)
		printSalts(out, view.Salts)
		_, _ = fmt.Fprintln(out, "\nself-test salts:")
		printSalts(out, view.SelfTestSalts)
		if view.Verified != nil && *view.Verified {
			_, _ = fmt.Fprintln(out, "\nself-test: line matches")
		}
	}
	return verifyErr
}

func saltViews(recs []saltrec.Record) []saltView {
	out := make([]saltView, 0, len(recs))
	for i, r := range recs {
		out = append(out, saltView{
			Index:      i,
			Salt:       fmt.Sprintf("%x", r.Salt),
			Iter:       r.Iter,
			DigestsCnt: r.DigestsCnt,
			OrigPos:    r.OrigPos,
		})
	}
	return out
}

func printSalts(w io.Writer, views []saltView) {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Salt", "Iterations", "Digests", "Orig Pos")
	for _, v := range views {
		salt := v.Salt
		if salt == "" {
			salt = "-"
		}
		_ = table.Append([]string{
			strconv.Itoa(v.Index),
			salt,
			strconv.FormatUint(uint64(v.Iter), 10),
			strconv.FormatUint(uint64(v.DigestsCnt), 10),
			strconv.FormatUint(uint64(v.OrigPos), 10),
		})
	}
	_ = table.Render()
}
