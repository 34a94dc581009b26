package live

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/msalah0e/graphlens/internal/graph"
)

// Run owns the session until ctx is cancelled: it executes posted client
// work and, when a source file is configured, reloads it on change.
func (s *Server) Run(ctx context.Context) error {
	defer s.once.Do(func() {
		close(s.done)
		s.closeAll()
	})

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
		target string
	)
	if s.opts.Source != "" {
		abs, err := filepath.Abs(s.opts.Source)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", s.opts.Source, err)
		}
		target = abs

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		defer watcher.Close()

		// Watch the directory so editors that save by rename keep working.
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
		}
		events, errs = watcher.Events, watcher.Errors
		log.Printf("[live] watching %s", abs)
	}

	debounce := time.NewTimer(0)
	<-debounce.C
	defer debounce.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case fn := <-s.inbox:
			fn()

		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if s.opts.Debounce <= 0 {
				s.reload()
				continue
			}
			pending = true
			debounce.Reset(s.opts.Debounce)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Printf("[live] watcher error: %v", err)

		case <-debounce.C:
			if pending {
				pending = false
				s.reload()
			}
		}
	}
}

// reload re-reads the source file into the session and broadcasts.
func (s *Server) reload() {
	data, err := os.ReadFile(s.opts.Source)
	if err != nil {
		log.Printf("[live] reading %s: %v", s.opts.Source, err)
		return
	}
	text := string(data)
	if text == s.sess.Text() {
		return
	}

	if err := s.sess.Edit(text); err != nil {
		var perr *graph.ParseError
		if errors.As(err, &perr) {
			log.Printf("[live] %s: %v", s.opts.Source, perr)
		}
	} else {
		c := s.sess.Canonical()
		log.Printf("[live] %s: %d nodes, %d edges", s.opts.Source, len(c.Nodes), len(c.Edges))
	}
	s.broadcast()
}
