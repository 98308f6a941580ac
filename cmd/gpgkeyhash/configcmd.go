package gpgkeyhash

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gpgkeyhash/gpgkeyhash/internal/config"
	"github.com/gpgkeyhash/gpgkeyhash/internal/engine"
	"github.com/spf13/cobra"
)

var (
	cfgOutput   string
	cfgThreads  int
	cfgMaxBytes int64
	cfgFormat   string
	cfgNoColor  bool
)

func init() {
	cfgCmd := &cobra.Command{
		Use:   "config [dir]",
		Short: "Print the effective configuration",
		Long:  "config prints the merged YAML configuration for dir (default: the current directory).",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigShow,
	}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .gpgkeyhash.yml",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", ".gpgkeyhash.yml", "output file path")
	initCmd.Flags().IntVar(&cfgThreads, "threads", 0, "worker threads (0=GOMAXPROCS)")
	initCmd.Flags().Int64Var(&cfgMaxBytes, "max-bytes", 1<<20, "skip files larger than this")
	initCmd.Flags().StringVar(&cfgFormat, "format", "lines", "default scan output: lines|table|text|json")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	cfg, err := loadSettings(abs)
	if err != nil {
		return err
	}
	b, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(b)
	return err
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	fc := config.FileConfig{
		Include:  strPtr(engine.DefaultInclude),
		MaxBytes: int64Ptr(cfgMaxBytes),
		Threads:  intPtr(cfgThreads),
		Format:   strPtr(cfgFormat),
		NoColor:  boolPtr(cfgNoColor),
	}
	b, err := config.Marshal(fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
	return nil
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }
