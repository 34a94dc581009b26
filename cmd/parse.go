package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/msalah0e/graphlens/internal/display"
	"github.com/msalah0e/graphlens/internal/export"
	"github.com/msalah0e/graphlens/internal/graph"
	"github.com/msalah0e/graphlens/internal/session"
	"github.com/msalah0e/graphlens/internal/ui"
	"github.com/spf13/cobra"
)

func parseCmd() *cobra.Command {
	var (
		flags  viewFlags
		format string
		output string
		tap    string
		hover  string
		open   bool
	)

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a dictionary and print the graph",
		Long: `Parse adjacency-dictionary text into a graph and render it.

Reads the file, or stdin when no file (or "-") is given.

  graphlens parse flows.txt                    # Degree table
  graphlens parse flows.txt -m undirected      # Undirected degrees
  graphlens parse flows.txt --tap a            # Preview focusing node a
  graphlens parse flows.txt --format json      # Canonical + display JSON
  graphlens parse flows.txt --format dot | neato -Tsvg > g.svg
  graphlens parse flows.txt --format html --open`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			mode, filter, err := flags.resolve()
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}

			text, err := readInput(path)
			if err != nil {
				ui.Bad.Printf("  Failed to read input: %v\n", err)
				os.Exit(1)
			}

			sess := session.New(mode, filter)
			if err := sess.Edit(text); err != nil {
				reportParseError(displayName(path), err)
				os.Exit(1)
			}
			if tap != "" {
				if err := sess.TapNode(graph.NodeID(tap)); err != nil {
					ui.Bad.Printf("  %v\n", err)
					os.Exit(1)
				}
			} else if hover != "" {
				if err := sess.HoverEdge(hover); err != nil {
					ui.Bad.Printf("  %v\n", err)
					os.Exit(1)
				}
			}

			out, err := render(sess, format, path)
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}
			if format == "table" {
				return
			}

			if open {
				if format != "html" {
					ui.Bad.Println("  --open only works with --format html")
					os.Exit(1)
				}
				if output == "" {
					output = filepath.Join(os.TempDir(), "graphlens.html")
				}
			}

			if output == "" {
				fmt.Print(out)
				return
			}
			if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
				ui.Bad.Printf("  Failed to write %s: %v\n", output, err)
				os.Exit(1)
			}
			ui.Good.Printf("  %s Wrote %s\n", ui.StatusIcon(true), output)
			if open {
				openBrowser(output)
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "table", "Output format: "+strings.Join(export.Formats, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().StringVar(&tap, "tap", "", "Focus this node before rendering")
	cmd.Flags().StringVar(&hover, "hover", "", "Hover this edge id before rendering")
	cmd.Flags().BoolVar(&open, "open", false, "Open the HTML output in a browser")

	return cmd
}

// render produces the chosen format. The table format prints directly.
func render(sess *session.Session, format, path string) (string, error) {
	v := sess.View()

	switch format {
	case "table":
		printTable(v, path)
		return "", nil
	case "json":
		data, err := export.NewDocument(sess.Canonical(), v.Graph).JSON()
		return string(data) + "\n", err
	case "yaml":
		data, err := export.NewDocument(sess.Canonical(), v.Graph).YAML()
		return string(data), err
	case "dot":
		return export.DOT(v.Graph, &v.Decorations), nil
	case "html":
		return export.HTML(v, export.PageOptions{Title: displayName(path), Dark: cfg.Display.Dark}), nil
	}
	return "", fmt.Errorf("unknown format %q (use %s)", format, strings.Join(export.Formats, ", "))
}

func printTable(v session.View, path string) {
	g := v.Graph
	ui.Banner(fmt.Sprintf("%s · %s · %d nodes, %d edges", displayName(path), g.Mode, len(g.Nodes), len(g.Edges)))

	if len(g.Nodes) == 0 {
		fmt.Println("  Empty graph.")
		return
	}

	ui.Table(export.Headers(g.Mode), export.Rows(g, &v.Decorations))

	if len(g.Edges) == 0 {
		return
	}
	arrow := "→"
	if g.Mode == display.Undirected {
		arrow = "—"
	}
	fmt.Println()
	for _, e := range g.Edges {
		line := fmt.Sprintf("%s %s %s", e.Source, arrow, e.Target)
		fmt.Printf("  %s  %s\n", ui.Decorate(string(v.Decorations.Edges[e.ID]), line), ui.Subtle.Sprint(e.ID))
	}
	if v.State.Selected != "" {
		fmt.Printf("\n  %s focused\n", ui.Emphasis.Sprint(v.State.Selected))
	}
}

func displayName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return filepath.Base(path)
}

// openBrowser opens path with the platform's default handler, printing the
// path instead when that fails.
func openBrowser(path string) {
	var openCmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		openCmd = exec.Command("open", path)
	case "linux":
		openCmd = exec.Command("xdg-open", path)
	default:
		openCmd = exec.Command("cmd", "/c", "start", path)
	}

	if err := openCmd.Start(); err != nil {
		fmt.Printf("  Open %s in your browser to see the graph\n", path)
	}
}
