package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/msalah0e/graphlens/internal/store"
	"github.com/msalah0e/graphlens/internal/ui"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [file]",
		Short: "Show recorded good versions of watched files",
		Long: `List the snapshots recorded whenever a watched file parsed successfully.

  graphlens history                  # Every file, newest first
  graphlens history flows.txt -n 5   # Last five versions of one file
  graphlens history prune --keep 20  # Trim old versions`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: historyCompletionFunc,
		Run: func(cmd *cobra.Command, args []string) {
			hist := mustOpenHistory()
			defer hist.Close()

			source := ""
			if len(args) == 1 {
				source = sourceKey(args[0])
			}

			snaps, err := hist.List(source, limit)
			if err != nil {
				ui.Bad.Printf("  Failed to read history: %v\n", err)
				os.Exit(1)
			}

			ui.Banner("history")
			if len(snaps) == 0 {
				fmt.Println("  No history yet. Run `graphlens serve <file>` to start recording.")
				return
			}

			rows := make([][]string, 0, len(snaps))
			for _, s := range snaps {
				rows = append(rows, []string{
					strconv.FormatInt(s.ID, 10),
					displayName(s.Source),
					strconv.Itoa(s.Nodes),
					strconv.Itoa(s.Edges),
					formatAge(time.Since(s.CreatedAt)),
				})
			}
			ui.Table([]string{"ID", "File", "Nodes", "Edges", "Recorded"}, rows)
			fmt.Println()
			ui.Subtle.Printf("  %s\n", hist.Path)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	cmd.AddCommand(historyShowCmd(), historyPruneCmd())
	return cmd
}

func historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "show <file>",
		Short:             "Print the last good text recorded for a file",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: historyCompletionFunc,
		Run: func(cmd *cobra.Command, args []string) {
			hist := mustOpenHistory()
			defer hist.Close()

			last, err := hist.Latest(sourceKey(args[0]))
			if err != nil {
				ui.Bad.Printf("  Failed to read history: %v\n", err)
				os.Exit(1)
			}
			if last == nil {
				ui.Warn.Printf("  No history for %s\n", args[0])
				os.Exit(1)
			}
			fmt.Print(last.Text)
		},
	}
}

func historyPruneCmd() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Keep only the newest versions of each file",
		Run: func(cmd *cobra.Command, args []string) {
			hist := mustOpenHistory()
			defer hist.Close()

			removed, err := hist.Prune(keep)
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}
			ui.Good.Printf("  %s Removed %d snapshot(s)\n", ui.StatusIcon(true), removed)
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 10, "Snapshots to keep per file")
	return cmd
}

func mustOpenHistory() *store.Store {
	hist, err := store.Open(cfg.HistoryPath())
	if err != nil {
		ui.Bad.Printf("  Failed to open history: %v\n", err)
		os.Exit(1)
	}
	return hist
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}
