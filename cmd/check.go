package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/msalah0e/graphlens/internal/graph"
	"github.com/msalah0e/graphlens/internal/parallel"
	"github.com/msalah0e/graphlens/internal/ui"
	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate dictionary files in parallel",
		Long: `Parse every file and report which ones are valid.

Exits non-zero when any file fails to parse.

  graphlens check graphs/*.txt
  graphlens check -j 8 a.txt b.txt`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if concurrency < 1 {
				concurrency = cfg.Check.Concurrency
			}

			ui.Banner(fmt.Sprintf("checking %d file(s)", len(args)))
			results := parallel.Run(cmd.Context(), checkTasks(args), concurrency, os.Stdout)

			failed := parallel.Failed(results)
			fmt.Println()
			if failed > 0 {
				ui.Bad.Printf("  %d of %d file(s) failed to parse\n", failed, len(results))
				os.Exit(1)
			}
			ui.Good.Printf("  %s All %d file(s) parsed\n", ui.StatusIcon(true), len(results))
		},
	}

	cmd.Flags().IntVarP(&concurrency, "jobs", "j", 0, "Files to parse at once (default from config)")
	return cmd
}

func checkTasks(paths []string) []parallel.Task {
	tasks := make([]parallel.Task, len(paths))
	for i, path := range paths {
		path := path
		tasks[i] = parallel.Task{
			Name: path,
			Fn: func(ctx context.Context) (string, error) {
				return checkFile(path)
			},
		}
	}
	return tasks
}

// checkFile parses one file and summarizes its size.
func checkFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	c, err := graph.Parse(string(data))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d nodes, %d edges", len(c.Nodes), len(c.Edges)), nil
}
