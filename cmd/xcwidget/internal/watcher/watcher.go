// Package watcher invokes a callback when Swift sources under a set of
// directories change. Rapid bursts of filesystem events (editor saves,
// git checkouts) are coalesced into a single callback per quiet period.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

const defaultDebounce = 500 * time.Millisecond

// Options configures Watch.
type Options struct {
	// Dirs are the directories to watch. Watching is non-recursive;
	// callers list each directory that holds sources.
	Dirs []string

	// Debounce is the quiet period after the last event before OnChange
	// fires. Zero selects a default of 500ms.
	Debounce time.Duration

	// OnChange receives the settled batch of changed Swift files. A
	// non-nil error stops the watch and is returned from Watch.
	OnChange func(ctx context.Context, paths []string) error
}

// Watch blocks until ctx is cancelled or OnChange fails. Cancellation is
// a clean shutdown and returns nil.
func Watch(ctx context.Context, opts Options) error {
	if opts.OnChange == nil {
		return fmt.Errorf("change callback is required")
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	watched := 0
	for _, dir := range opts.Dirs {
		if err := fw.Add(dir); err == nil {
			watched++
		}
	}
	if watched == 0 {
		return fmt.Errorf("no directories could be watched")
	}

	g, gctx := errgroup.WithContext(ctx)
	batches := make(chan []string)

	// Collector: filters events, debounces, and emits settled batches.
	g.Go(func() error {
		defer close(batches)

		pending := make(map[string]struct{})
		timer := time.NewTimer(debounce)
		if !timer.Stop() {
			<-timer.C
		}
		defer timer.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil

			case event, ok := <-fw.Events:
				if !ok {
					return nil
				}
				if !isSwiftChange(event) {
					continue
				}
				pending[event.Name] = struct{}{}
				timer.Reset(debounce)

			case err, ok := <-fw.Errors:
				if !ok {
					return nil
				}
				return fmt.Errorf("watch error: %w", err)

			case <-timer.C:
				if len(pending) == 0 {
					continue
				}
				batch := make([]string, 0, len(pending))
				for path := range pending {
					batch = append(batch, path)
				}
				sort.Strings(batch)
				pending = make(map[string]struct{})

				select {
				case batches <- batch:
				case <-gctx.Done():
					return nil
				}
			}
		}
	})

	// Runner: serializes OnChange invocations.
	g.Go(func() error {
		for batch := range batches {
			if err := opts.OnChange(gctx, batch); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}

func isSwiftChange(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), ".swift") {
		return false
	}
	switch {
	case event.Op&fsnotify.Create != 0:
	case event.Op&fsnotify.Write != 0:
	case event.Op&fsnotify.Remove != 0:
	case event.Op&fsnotify.Rename != 0:
	default:
		return false // chmod and friends
	}
	return true
}
