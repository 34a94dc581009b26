package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/msalah0e/graphlens/internal/config"
	"github.com/msalah0e/graphlens/internal/ui"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Run: func(cmd *cobra.Command, args []string) {
			ui.Banner("config")
			printSetting("mode", cfg.Display.Mode)
			printSetting("filter", cfg.Display.Filter)
			printSetting("dark", strconv.FormatBool(cfg.Display.Dark))
			printSetting("serve.addr", cfg.Serve.Addr)
			printSetting("debounce_ms", strconv.Itoa(cfg.Serve.DebounceMS))
			printSetting("history", strconv.FormatBool(cfg.History.Enabled))
			printSetting("history.db", cfg.HistoryPath())
			printSetting("concurrency", strconv.Itoa(cfg.Check.Concurrency))
			fmt.Println()
			ui.Subtle.Printf("  Global: %s\n", config.Path())
			ui.Subtle.Printf("  Project override: %s\n", config.ProjectFile)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default global config if none exists",
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.EnsureExists(); err != nil {
				ui.Bad.Printf("  Failed to write config: %v\n", err)
				os.Exit(1)
			}
			ui.Good.Printf("  %s %s\n", ui.StatusIcon(true), config.Path())
		},
	})
	return cmd
}

func printSetting(name, value string) {
	fmt.Printf("  %s  %s\n", ui.Brand.Sprintf("%-12s", name), value)
}
