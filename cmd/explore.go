package cmd

import (
	"os"

	"github.com/msalah0e/graphlens/internal/explore"
	"github.com/msalah0e/graphlens/internal/session"
	"github.com/msalah0e/graphlens/internal/ui"
	"github.com/spf13/cobra"
)

func exploreCmd() *cobra.Command {
	var (
		flags viewFlags
		dark  bool
	)

	cmd := &cobra.Command{
		Use:     "explore [file]",
		Aliases: []string{"ui", "tui"},
		Short:   "Edit and explore a graph in the terminal",
		Long: `Open an interactive terminal explorer.

The editor is re-parsed on every keystroke. Tab moves between the editor,
the node list and the edge list; enter focuses a node, moving through the
edge list hovers edges, and esc clears focus.

  graphlens explore flows.txt
  graphlens explore -m undirected --dark`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mode, filter, err := flags.resolve()
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}

			sess := session.New(mode, filter)
			if len(args) == 1 {
				text, err := readInput(args[0])
				if err != nil {
					ui.Bad.Printf("  Failed to read input: %v\n", err)
					os.Exit(1)
				}
				if hist := openHistory(); hist != nil {
					defer hist.Close()
					sess.OnRebuild = recordTo(hist, sourceKey(args[0]))
				}
				// A bad file still opens; the status line shows the error.
				_ = sess.Edit(text)
			}

			if err := explore.Run(sess, dark || cfg.Display.Dark); err != nil {
				ui.Bad.Printf("  Explorer failed: %v\n", err)
				os.Exit(1)
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&dark, "dark", false, "Use the dark palette")
	return cmd
}
