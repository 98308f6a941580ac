package gpgkeyhash

import (
	"fmt"

	"github.com/gpgkeyhash/gpgkeyhash/internal/update"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the gpgkeyhash version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "gpgkeyhash v%s\n", version)
			if flagNoUpdateCheck {
				return nil
			}
			if latest, newer, _ := update.Check(version, false); newer {
				_, _ = fmt.Fprintf(out, "new version available: v%s (run 'gpgkeyhash update')\n", latest)
			}
			return nil
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "update",
		Short: "Update gpgkeyhash to the latest GitHub release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := update.SelfUpdate(version)
			if err != nil {
				return fmt.Errorf("self-update: %w", err)
			}
			if !update.Newer(v, version) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "already up to date (v%s)\n", version)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated to v%s\n", v)
			return nil
		},
	})
}
