package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
)

// shells maps each supported shell to its script generator.
var shells = map[string]func(root, cmd *cobra.Command) error{
	"bash": func(root, cmd *cobra.Command) error { return root.GenBashCompletionV2(cmd.OutOrStdout(), true) },
	"zsh":  func(root, cmd *cobra.Command) error { return root.GenZshCompletion(cmd.OutOrStdout()) },
	"fish": func(root, cmd *cobra.Command) error { return root.GenFishCompletion(cmd.OutOrStdout(), true) },
	"powershell": func(root, cmd *cobra.Command) error {
		return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
	},
}

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for the given shell.

Besides commands and flags, the scripts complete --prev pairs and
graph formats.`,
		Example: `  source <(flowglyph completion bash)
  flowglyph completion zsh > "${fpath[1]}/_flowglyph"
  flowglyph completion fish > ~/.config/fish/completions/flowglyph.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return shells[args[0]](cmd.Root(), cmd)
		},
	}
}

// completeOrientationPairs offers every color=orientation pair matching
// the typed prefix.
func completeOrientationPairs(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, c := range pictograph.Colors {
		for _, o := range []pictograph.Orientation{pictograph.In, pictograph.Out, pictograph.Clock, pictograph.Counter} {
			if pair := string(c) + "=" + string(o); strings.HasPrefix(pair, toComplete) {
				out = append(out, pair)
			}
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeGraphFormats(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{formatDOT, formatSVG, formatPNG}, cobra.ShellCompDirectiveNoFileComp
}
