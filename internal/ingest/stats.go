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

package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// StatsAggregator collects and periodically reports feed processing
// statistics, keyed by work item origin. One KPI line per interval keeps the
// log usable as a coarse audit trail even where no metrics backend is wired.
type StatsAggregator struct {
	mu       sync.Mutex
	stats    map[string]*originStats
	interval time.Duration
	done     chan struct{}
	wg       sync.WaitGroup
}

type originStats struct {
	processed int64
	failed    int64
}

// NewStatsAggregator creates a stats aggregator with the given reporting
// interval.
func NewStatsAggregator(interval time.Duration) *StatsAggregator {
	return &StatsAggregator{
		stats:    make(map[string]*originStats),
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins periodic reporting.
func (sa *StatsAggregator) Start(ctx context.Context) {
	sa.wg.Add(1)
	go func() {
		defer sa.wg.Done()
		ticker := time.NewTicker(sa.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				sa.reportStats()
				return
			case <-sa.done:
				sa.reportStats()
				return
			case <-ticker.C:
				sa.reportStats()
			}
		}
	}()
}

// Stop stops the aggregator and reports final stats.
func (sa *StatsAggregator) Stop() {
	close(sa.done)
	sa.wg.Wait()
}

// RecordProcessed records successfully processed items for an origin.
func (sa *StatsAggregator) RecordProcessed(origin string, count int) {
	sa.mu.Lock()
	defer sa.mu.Unlock()

	if sa.stats[origin] == nil {
		sa.stats[origin] = &originStats{}
	}
	sa.stats[origin].processed += int64(count)
}

// RecordFailed records failed items for an origin.
func (sa *StatsAggregator) RecordFailed(origin string, count int) {
	sa.mu.Lock()
	defer sa.mu.Unlock()

	if sa.stats[origin] == nil {
		sa.stats[origin] = &originStats{}
	}
	sa.stats[origin].failed += int64(count)
}

// reportStats logs and resets the accumulated statistics. Intervals with no
// activity stay silent.
func (sa *StatsAggregator) reportStats() {
	sa.mu.Lock()
	defer sa.mu.Unlock()

	if len(sa.stats) == 0 {
		return
	}

	var totalProcessed, totalFailed int64
	originDetails := make([]any, 0)

	originOrder := []string{"localfs", "inbox", "remote"}
	for _, origin := range originOrder {
		if stats, exists := sa.stats[origin]; exists && (stats.processed > 0 || stats.failed > 0) {
			totalProcessed += stats.processed
			totalFailed += stats.failed

			originDetails = append(originDetails,
				slog.Group(origin,
					slog.Int64("processed", stats.processed),
					slog.Int64("failed", stats.failed),
				))
		}
	}

	for origin, stats := range sa.stats {
		isKnown := false
		for _, known := range originOrder {
			if origin == known {
				isKnown = true
				break
			}
		}
		if !isKnown && (stats.processed > 0 || stats.failed > 0) {
			totalProcessed += stats.processed
			totalFailed += stats.failed

			originDetails = append(originDetails,
				slog.Group(origin,
					slog.Int64("processed", stats.processed),
					slog.Int64("failed", stats.failed),
				))
		}
	}

	if totalProcessed > 0 || totalFailed > 0 {
		attrs := []any{
			slog.Int64("total_processed", totalProcessed),
			slog.Int64("total_failed", totalFailed),
		}
		attrs = append(attrs, originDetails...)

		slog.Info("Claim feed stats", attrs...)
	}

	sa.stats = make(map[string]*originStats)
}

// snapshotTotals returns the current unreported totals, for tests.
func (sa *StatsAggregator) snapshotTotals() (processed, failed int64) {
	sa.mu.Lock()
	defer sa.mu.Unlock()
	for _, stats := range sa.stats {
		processed += stats.processed
		failed += stats.failed
	}
	return processed, failed
}
