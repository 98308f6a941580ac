package gpgkeyhash

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gpgkeyhash/gpgkeyhash/internal/engine"
	"github.com/gpgkeyhash/gpgkeyhash/internal/keyfile"
	"github.com/spf13/cobra"
)

var (
	flagJSON          bool
	flagNoColor       bool
	flagLogLevel      string
	flagLogFormat     string
	flagConfig        string
	flagNoUpdateCheck bool
	flagCopy          bool

	version = "0.1.0"
)

const usageLine = "gpgkeyhash /path/to/private-keys-v1-file"

// rootCmd converts a single key file. Subcommands register themselves in init.
var rootCmd = &cobra.Command{
	Use:   "gpgkeyhash <keyfile>",
	Short: "Convert GnuPG OCB-protected keys to hashcat lines",
	Long: "gpgkeyhash reads a private-keys-v1.d key file protected with openpgp-s2k3-ocb-aes\n" +
		"and prints the $gpg$ line accepted by hashcat -m 17050.",
	Args: func(_ *cobra.Command, args []string) error {
		if len(args) != 1 {
			return keyfile.UsageError(usageLine)
		}
		return nil
	},
	RunE:          runExtract,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit status without a diagnostic.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// Execute runs the gpgkeyhash CLI. It should be called by the main package.
func Execute() {
	os.Exit(exitStatus(rootCmd.Execute(), os.Stderr))
}

// exitStatus prints err to w and returns the process exit status.
func exitStatus(err error, w io.Writer) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if errors.Is(err, keyfile.ErrUsage) {
		_, _ = fmt.Fprintln(w, err)
		return 1
	}
	_, _ = fmt.Fprintln(w, "error:", err)
	return 2
}

func runExtract(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings("")
	if err != nil {
		return err
	}
	lg, err := newLogger(settings)
	if err != nil {
		return err
	}
	lg.WithField("path", args[0]).Debug("extracting key file")
	line, err := engine.ExtractFile(args[0], lg)
	if err != nil {
		return err
	}
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), map[string]string{"path": args[0], "line": line})
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
	copyLines(lg, line)
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (default warn)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: text|json")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (overrides .gpgkeyhash.yml and the global config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
	rootCmd.PersistentFlags().BoolVar(&flagCopy, "copy", false, "copy produced hash lines to the clipboard")
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", fixedCompletions("debug", "info", "warn", "error"))
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", fixedCompletions("text", "json"))
	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return keyfile.UsageError("%v (see '%s --help')", err, c.CommandPath())
	})
}
