package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/msalah0e/graphlens/internal/config"
	"github.com/msalah0e/graphlens/internal/display"
	"github.com/msalah0e/graphlens/internal/graph"
	"github.com/msalah0e/graphlens/internal/interact"
	"github.com/msalah0e/graphlens/internal/session"
	"github.com/msalah0e/graphlens/internal/store"
	"github.com/msalah0e/graphlens/internal/ui"
	"github.com/spf13/cobra"
)

var version = "0.4.0"

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "graphlens",
	Short: "graphlens — explore dictionary-style graphs",
	Long: ui.Brand.Sprint(ui.Lens+" graphlens") + " — turn adjacency dictionaries into explorable graphs\n" +
		ui.Subtle.Sprint(`Parse {"a": ["b", ("c", 2)]} text, inspect degrees, and highlight neighborhoods`),
	Version: version + " " + ui.Lens,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
	},
}

func init() {
	rootCmd.SetVersionTemplate("graphlens {{ .Version }}\n")

	rootCmd.AddCommand(
		parseCmd(),
		checkCmd(),
		exploreCmd(),
		serveCmd(),
		historyCmd(),
		configCmd(),
		completionCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// viewFlags are the radio-group choices shared by several commands. Empty
// values fall back to the config.
type viewFlags struct {
	mode   string
	filter string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "Edge mode: directed or undirected")
	cmd.Flags().StringVarP(&f.filter, "filter", "f", "", "Highlight filter: none, in or out")
}

func (f *viewFlags) resolve() (display.Mode, interact.Filter, error) {
	modeName, filterName := f.mode, f.filter
	if modeName == "" {
		modeName = cfg.Display.Mode
	}
	if filterName == "" {
		filterName = cfg.Display.Filter
	}
	mode, err := display.ParseMode(modeName)
	if err != nil {
		return "", "", err
	}
	filter, err := interact.ParseFilter(filterName)
	if err != nil {
		return "", "", err
	}
	return mode, filter, nil
}

// readInput reads path, or stdin when path is empty or "-".
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// sourceKey names a file in the history database.
func sourceKey(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// openHistory opens the snapshot database if history is enabled. Failures
// are reported and history is skipped.
func openHistory() *store.Store {
	if !cfg.History.Enabled {
		return nil
	}
	s, err := store.Open(cfg.HistoryPath())
	if err != nil {
		ui.Warn.Printf("  %s history disabled: %v\n", ui.WarnIcon(), err)
		return nil
	}
	return s
}

// recordTo returns a rebuild hook that saves good texts for source. Blank
// texts are skipped; editors briefly truncate files while saving.
func recordTo(hist *store.Store, source string) func(string, *graph.Canonical) {
	return func(text string, c *graph.Canonical) {
		if strings.TrimSpace(text) == "" {
			return
		}
		if _, err := hist.Record(source, text, c); err != nil {
			ui.Warn.Printf("  %s history: %v\n", ui.WarnIcon(), err)
		}
	}
}

// reportParseError prints the status line and the parser's detail.
func reportParseError(name string, err error) {
	ui.Bad.Printf("  %s %s\n", ui.StatusIcon(false), session.StatusParseError)
	fmt.Printf("    %s %s\n", ui.Subtle.Sprint(name+":"), err)
}
