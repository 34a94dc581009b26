package parallel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func ok(summary string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return summary, nil }
}

func TestRun_Success(t *testing.T) {
	tasks := []Task{
		{Name: "a.txt", Fn: ok("3 nodes")},
		{Name: "b.txt", Fn: ok("1 node")},
		{Name: "c.txt", Fn: ok("0 nodes")},
	}

	results := Run(context.Background(), tasks, 4, nil)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.OK || r.Err != nil {
			t.Errorf("task %s should be OK", r.Name)
		}
	}
	if Failed(results) != 0 {
		t.Errorf("expected no failures")
	}
}

func TestRun_WithErrors(t *testing.T) {
	var out bytes.Buffer
	tasks := []Task{
		{Name: "good.txt", Fn: ok("2 nodes")},
		{Name: "bad.txt", Fn: func(context.Context) (string, error) {
			return "", errors.New("parse error at line 1, column 3: expected ':'")
		}},
	}

	results := Run(context.Background(), tasks, 4, &out)
	if !results[0].OK || results[0].Summary != "2 nodes" {
		t.Errorf("first task should pass, got %+v", results[0])
	}
	if results[1].OK || results[1].Err == nil {
		t.Error("second task should have failed")
	}
	if Failed(results) != 1 {
		t.Errorf("expected 1 failure, got %d", Failed(results))
	}
	if !strings.Contains(out.String(), "expected ':'") {
		t.Errorf("expected error detail in progress output, got %q", out.String())
	}
}

func TestRun_Concurrency(t *testing.T) {
	var maxConcurrent, current int64

	tasks := make([]Task, 10)
	for i := range tasks {
		tasks[i] = Task{
			Name: fmt.Sprintf("file-%d", i),
			Fn: func(context.Context) (string, error) {
				c := atomic.AddInt64(&current, 1)
				for {
					old := atomic.LoadInt64(&maxConcurrent)
					if c <= old || atomic.CompareAndSwapInt64(&maxConcurrent, old, c) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				atomic.AddInt64(&current, -1)
				return "", nil
			},
		}
	}

	results := Run(context.Background(), tasks, 2, nil)
	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}
	if maxConcurrent > 2 {
		t.Errorf("max concurrent should be <= 2, got %d", maxConcurrent)
	}
}

func TestRun_DefaultConcurrency(t *testing.T) {
	results := Run(context.Background(), []Task{{Name: "x", Fn: ok("")}}, 0, nil)
	if len(results) != 1 || !results[0].OK {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int64
	tasks := []Task{{Name: "x", Fn: func(context.Context) (string, error) {
		atomic.AddInt64(&ran, 1)
		return "", nil
	}}}

	results := Run(ctx, tasks, 1, nil)
	if ran != 0 {
		t.Error("task should not run after cancellation")
	}
	if results[0].OK || !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("expected cancelled result, got %+v", results[0])
	}
}

func TestTruncateLines(t *testing.T) {
	lines := truncateLines("a\nb\nc\nd\ne", 2)
	if len(lines) != 3 || lines[2] != "... (3 more lines)" {
		t.Errorf("unexpected lines %v", lines)
	}
}
