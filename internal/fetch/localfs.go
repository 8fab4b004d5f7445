// Copyright (C) 2025-2026 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultScanInterval = 5 * time.Second

	// pauseRecheckInterval is how long the watch loop sleeps between pause
	// checks. While paused the loop does not drain watcher events, so pause
	// takes effect within one interval of the current emission finishing.
	pauseRecheckInterval = 150 * time.Millisecond
)

// LocalFSConfig holds the drop-directory fetcher settings.
type LocalFSConfig struct {
	// Dir is the drop directory, created on Start if missing.
	Dir string

	// Suffix selects claim files by name, matched case-insensitively.
	// Defaults to ".xml".
	Suffix string

	// ScanInterval is the period of the sweep loop. Defaults to 5s.
	ScanInterval time.Duration
}

// LocalFSFetcher watches one drop directory and emits each claim file at
// most once per instance. Two discovery loops run concurrently: a periodic
// sweep that doubles as the startup catch-up pass, and a change-notification
// loop for prompt pickup of new arrivals. Notifications can be missed under
// load or before the watch registers, so the sweep is the correctness
// backstop; the shared registry keeps the pair from double-emitting.
type LocalFSFetcher struct {
	cfg      LocalFSConfig
	registry *Registry
	paused   atomic.Bool
	started  atomic.Bool
}

var _ Fetcher = (*LocalFSFetcher)(nil)

func NewLocalFSFetcher(cfg LocalFSConfig) *LocalFSFetcher {
	if cfg.Suffix == "" {
		cfg.Suffix = ".xml"
	}
	cfg.Suffix = strings.ToLower(cfg.Suffix)
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = defaultScanInterval
	}
	return &LocalFSFetcher{
		cfg:      cfg,
		registry: NewRegistry(),
	}
}

// Start creates the drop directory if needed, registers the change watcher,
// and launches both discovery loops. Only setup problems are returned; after
// that every failure is log-and-continue.
func (f *LocalFSFetcher) Start(ctx context.Context, deliver Consumer) error {
	if !f.started.CompareAndSwap(false, true) {
		return fmt.Errorf("localfs fetcher already started")
	}

	if err := os.MkdirAll(f.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create drop directory %s: %w", f.cfg.Dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create directory watcher: %w", err)
	}
	if err := watcher.Add(f.cfg.Dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", f.cfg.Dir, err)
	}

	go f.scanLoop(ctx, deliver)
	go f.watchLoop(ctx, watcher, deliver)

	slog.Info("LocalFS fetcher started",
		slog.String("dir", f.cfg.Dir),
		slog.String("suffix", f.cfg.Suffix),
		slog.Duration("scanInterval", f.cfg.ScanInterval))
	return nil
}

func (f *LocalFSFetcher) Pause() {
	f.paused.Store(true)
}

func (f *LocalFSFetcher) Resume() {
	f.paused.Store(false)
}

// Paused reports whether emission is currently suspended.
func (f *LocalFSFetcher) Paused() bool {
	return f.paused.Load()
}

// Sweep lists the unclaimed matching files currently in the drop directory,
// without claiming or reading them. Diagnostic use only.
func (f *LocalFSFetcher) Sweep() ([]string, error) {
	entries, err := os.ReadDir(f.cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read drop directory %s: %w", f.cfg.Dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !f.matches(entry.Name()) {
			continue
		}
		if f.registry.Seen(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// scanLoop sweeps the whole directory once per interval. The first sweep
// runs immediately so files that predate the fetcher are picked up without
// waiting a full period.
func (f *LocalFSFetcher) scanLoop(ctx context.Context, deliver Consumer) {
	if !f.paused.Load() {
		f.scanOnce(ctx, deliver)
	}

	ticker := time.NewTicker(f.cfg.ScanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if f.paused.Load() {
				continue
			}
			f.scanOnce(ctx, deliver)
		}
	}
}

func (f *LocalFSFetcher) scanOnce(ctx context.Context, deliver Consumer) {
	entries, err := os.ReadDir(f.cfg.Dir)
	if err != nil {
		// Transient; the next sweep retries.
		slog.Warn("Drop directory sweep failed",
			slog.String("dir", f.cfg.Dir),
			slog.Any("error", err))
		scanErrors.Add(ctx, 1)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !f.matches(entry.Name()) {
			continue
		}
		f.emit(ctx, deliver, filepath.Join(f.cfg.Dir, entry.Name()))
	}
}

// watchLoop reacts to directory change notifications. While paused it stops
// draining the event channel, leaving arrivals buffered upstream; the sweep
// loop covers anything the watcher drops during a long pause.
func (f *LocalFSFetcher) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, deliver Consumer) {
	defer func() {
		if err := watcher.Close(); err != nil {
			slog.Warn("Directory watcher close failed", slog.Any("error", err))
		}
	}()

	for {
		if f.paused.Load() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(pauseRecheckInterval):
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				slog.Warn("Directory watcher channel closed, sweep loop continues alone",
					slog.String("dir", f.cfg.Dir))
				return
			}
			if !ev.Op.Has(fsnotify.Create) {
				continue
			}
			if !f.matches(filepath.Base(ev.Name)) {
				continue
			}
			f.emit(ctx, deliver, ev.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Directory watcher error", slog.Any("error", err))
			watchErrors.Add(ctx, 1)
		}
	}
}

// emit delivers one file to the consumer at most once per instance. The id
// is claimed before the read: when both loops spot the same file, exactly
// one wins the claim and proceeds. A failed read leaves the id claimed, so
// the file is abandoned rather than retried later.
func (f *LocalFSFetcher) emit(ctx context.Context, deliver Consumer, path string) {
	id := filepath.Base(path)
	if !f.registry.Claim(id) {
		itemsDuplicate.Add(ctx, 1,
			metric.WithAttributes(attribute.String("origin", string(OriginLocalFS))))
		return
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Unreadable claim file abandoned",
			slog.String("file", path),
			slog.Any("error", err))
		itemsUnreadable.Add(ctx, 1)
		return
	}

	deliver(ctx, NewWorkItem(id, payload, OriginLocalFS, path, id))
	itemsEmitted.Add(ctx, 1,
		metric.WithAttributes(attribute.String("origin", string(OriginLocalFS))))
}

func (f *LocalFSFetcher) matches(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), f.cfg.Suffix)
}
