package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/internal/outwriter"
	"github.com/huangsam/snapcal/internal/source"
)

// watchDebounce collapses bursts of writes from editors into one render.
const watchDebounce = 250 * time.Millisecond

// ExecuteWatch prints the report, then prints it again after every change to
// the source file until ctx is cancelled.
func ExecuteWatch(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if cfg.SourcePath == "" || cfg.SourcePath == source.StdinPath {
		return fmt.Errorf("watch needs a source file: %w", contract.ErrNoSource)
	}
	target, err := filepath.Abs(cfg.SourcePath)
	if err != nil {
		return fmt.Errorf("failed to resolve source path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory so files replaced by editors keep being tracked
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	loader := source.NewFileLoader()
	ow := outwriter.NewOutWriter()
	render := func(ctx context.Context) error {
		return executeReport(ctx, cfg, loader, mgr, ow)
	}
	if err := render(ctx); err != nil {
		contract.LogWarn("Report failed", err)
	}
	contract.LogInfo("Watching %s for changes (Ctrl+C to stop)", cfg.SourcePath)
	return watchLoop(withSuppressHeader(ctx), watcher.Events, watcher.Errors, target, watchDebounce, render)
}

// watchLoop calls render once per burst of events on target. Render errors are
// reported and do not stop the loop.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, target string, debounce time.Duration, render func(context.Context) error) error {
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			contract.LogWarn("File watcher error", err)
		case <-timer.C:
			if err := render(ctx); err != nil {
				contract.LogWarn("Report failed", err)
			}
		}
	}
}
