package gpgkeyhash

import (
	"io"

	"github.com/spf13/cobra"
)

var completionWriters = map[string]func(io.Writer) error{
	"bash":       rootCmd.GenBashCompletion,
	"zsh":        rootCmd.GenZshCompletion,
	"fish":       func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
	"powershell": rootCmd.GenPowerShellCompletionWithDesc,
}

func init() {
	cmd := &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Generate shell completion scripts",
		Long: "completion prints a completion script for gpgkeyhash. Besides subcommands and\n" +
			"flags, 'scan --format', '--log-level' and '--log-format' complete their accepted values.",
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionWriters[args[0]](cmd.OutOrStdout())
		},
		Example: `  gpgkeyhash completion bash > /etc/bash_completion.d/gpgkeyhash
  gpgkeyhash completion zsh > "${fpath[1]}/_gpgkeyhash"
  gpgkeyhash completion fish > ~/.config/fish/completions/gpgkeyhash.fish`,
	}
	rootCmd.AddCommand(cmd)
}

// fixedCompletions completes a flag with a fixed set of values.
func fixedCompletions(values ...string) cobra.CompletionFunc {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
