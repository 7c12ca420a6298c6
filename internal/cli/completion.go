package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// assemblyExtensions are the file types offered when completing an
// assembly argument.
var assemblyExtensions = []string{"json", "yaml", "yml"}

// completeAssembly completes the single assembly argument of export, graph
// and tree with assembly files.
func completeAssembly(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return assemblyExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for kinetree.

To load completions:

Bash:
  $ source <(kinetree completion bash)

Zsh:
  $ kinetree completion zsh > "${fpath[1]}/_kinetree"

Fish:
  $ kinetree completion fish | source

PowerShell:
  PS> kinetree completion powershell | Out-String | Invoke-Expression

Assembly arguments complete to .json, .yaml and .yml files.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
