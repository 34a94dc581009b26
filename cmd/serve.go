package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msalah0e/graphlens/internal/display"
	"github.com/msalah0e/graphlens/internal/graph"
	"github.com/msalah0e/graphlens/internal/interact"
	"github.com/msalah0e/graphlens/internal/live"
	"github.com/msalah0e/graphlens/internal/session"
	"github.com/msalah0e/graphlens/internal/store"
	"github.com/msalah0e/graphlens/internal/ui"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var (
		flags      viewFlags
		addr       string
		debounceMS int
		dark       bool
		noHistory  bool
	)

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a live graph view in the browser",
		Long: `Serve an interactive page that follows a dictionary file.

Saving the file rebuilds the graph for every open browser. Edits, taps and
hovers made in the page are shared by all clients. When the file does not
parse at startup, the last good version from history is shown instead.

  graphlens serve flows.txt
  graphlens serve flows.txt --addr :9000 --debounce 150`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mode, filter, err := flags.resolve()
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}
			if addr == "" {
				addr = cfg.Serve.Addr
			}
			if !cmd.Flags().Changed("debounce") {
				debounceMS = cfg.Serve.DebounceMS
			}

			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			var hist *store.Store
			if !noHistory && path != "" {
				hist = openHistory()
			}
			if hist != nil {
				defer hist.Close()
			}

			sess, err := seedSession(mode, filter, path, hist)
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}

			srv := live.New(sess, live.Options{
				Source:   path,
				Title:    displayName(path),
				Dark:     dark || cfg.Display.Dark,
				Debounce: time.Duration(debounceMS) * time.Millisecond,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ui.Banner("live view")
			fmt.Printf("  %s  http://%s\n", ui.Brand.Sprintf("%-10s", "Serving"), addr)
			if path != "" {
				fmt.Printf("  %s  %s\n", ui.Brand.Sprintf("%-10s", "Watching"), path)
			}
			fmt.Println(ui.Subtle.Sprint("  Press Ctrl+C to stop"))
			fmt.Println()

			if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, context.Canceled) {
				ui.Bad.Printf("  Server failed: %v\n", err)
				os.Exit(1)
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().IntVar(&debounceMS, "debounce", 0, "Milliseconds to wait after a file change")
	cmd.Flags().BoolVar(&dark, "dark", false, "Start the page in dark mode")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record or restore history")
	return cmd
}

// seedSession loads path into a new session. If the file does not parse
// and history has a good version, that version is loaded first so the page
// opens on a graph while still showing the error status.
func seedSession(mode display.Mode, filter interact.Filter, path string, hist *store.Store) (*session.Session, error) {
	sess := session.New(mode, filter)
	if path == "" {
		return sess, nil
	}

	text, err := readInput(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	source := sourceKey(path)

	if _, err := graph.Parse(text); err != nil && hist != nil {
		if last, herr := hist.Latest(source); herr == nil && last != nil {
			_ = sess.Edit(last.Text)
			ui.Warn.Printf("  %s %s does not parse; showing the version from %s\n",
				ui.WarnIcon(), displayName(path), last.CreatedAt.Format("2006-01-02 15:04"))
		}
	}
	if hist != nil {
		sess.OnRebuild = recordTo(hist, source)
	}
	if err := sess.Edit(text); err != nil {
		reportParseError(displayName(path), err)
	}
	return sess, nil
}
