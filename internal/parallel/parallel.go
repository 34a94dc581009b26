package parallel

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/msalah0e/graphlens/internal/ui"
	"golang.org/x/sync/errgroup"
)

// Result holds the outcome of one checked input.
type Result struct {
	Name    string
	OK      bool
	Err     error
	Summary string
	Elapsed time.Duration
}

// Task checks one input and returns a one-line summary.
type Task struct {
	Name string
	Fn   func(ctx context.Context) (string, error)
}

// Run executes tasks with the given concurrency limit and reports progress
// lines to w (nil for silent). Results come back in submission order.
// Cancelling ctx stops tasks that have not started yet.
func Run(ctx context.Context, tasks []Task, concurrency int, w io.Writer) []Result {
	if concurrency < 1 {
		concurrency = 4
	}
	if w == nil {
		w = io.Discard
	}

	results := make([]Result, len(tasks))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				mu.Lock()
				results[i] = Result{Name: task.Name, Err: err}
				mu.Unlock()
				return nil
			}

			start := time.Now()
			summary, err := task.Fn(gctx)
			elapsed := time.Since(start)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[i] = Result{Name: task.Name, Err: err, Summary: summary, Elapsed: elapsed}
				fmt.Fprintf(w, "  %s %s\n", ui.StatusIcon(false), task.Name)
				for _, line := range truncateLines(err.Error(), 3) {
					fmt.Fprintf(w, "      %s\n", ui.Bad.Sprint(line))
				}
				return nil
			}
			results[i] = Result{Name: task.Name, OK: true, Summary: summary, Elapsed: elapsed}
			fmt.Fprintf(w, "  %s %s %s\n", ui.StatusIcon(true), task.Name, ui.Subtle.Sprint(summary))
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// Failed counts results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.OK {
			n++
		}
	}
	return n
}

// truncateLines splits text into lines and returns at most n lines.
func truncateLines(s string, n int) []string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) <= n {
		return lines
	}
	out := lines[:n]
	out = append(out, fmt.Sprintf("... (%d more lines)", len(lines)-n))
	return out
}
