package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// completionCmd generates shell completion scripts.
func completionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate completion scripts for your shell.

  # Bash (add to ~/.bashrc)
  eval "$(graphlens completion bash)"

  # Zsh (add to ~/.zshrc)
  eval "$(graphlens completion zsh)"

  # Fish
  graphlens completion fish | source

  # PowerShell
  graphlens completion powershell | Out-String | Invoke-Expression`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Run: func(cmd *cobra.Command, args []string) {
			switch args[0] {
			case "bash":
				_ = rootCmd.GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				_ = rootCmd.GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				_ = rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				_ = rootCmd.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}

	return cmd
}

// historyCompletionFunc completes file arguments from recorded sources
// that still exist on disk.
func historyCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || cfg == nil {
		return nil, cobra.ShellCompDirectiveDefault
	}
	hist := openHistory()
	if hist == nil {
		return nil, cobra.ShellCompDirectiveDefault
	}
	defer hist.Close()

	snaps, err := hist.List("", 0)
	if err != nil {
		return nil, cobra.ShellCompDirectiveDefault
	}
	seen := map[string]bool{}
	var completions []string
	for _, s := range snaps {
		if seen[s.Source] {
			continue
		}
		seen[s.Source] = true
		if _, err := os.Stat(s.Source); err == nil {
			completions = append(completions, s.Source)
		}
	}
	if wd, err := os.Getwd(); err == nil {
		for i, c := range completions {
			if rel, err := filepath.Rel(wd, c); err == nil {
				completions[i] = rel
			}
		}
	}
	return completions, cobra.ShellCompDirectiveDefault
}
