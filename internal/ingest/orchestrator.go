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
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/cardinalhq/claimrunner/internal/archive"
	"github.com/cardinalhq/claimrunner/internal/fetch"
	"github.com/cardinalhq/claimrunner/internal/idgen"
	"github.com/cardinalhq/claimrunner/internal/logctx"
)

// Config holds the feed orchestration settings.
type Config struct {
	// QueueCapacity bounds the in-flight buffer between the fetcher and the
	// worker pool.
	QueueCapacity int

	// Workers is the number of concurrent sink calls.
	Workers int

	// DrainInterval is how often a paused fetcher is reconsidered for
	// resumption.
	DrainInterval time.Duration

	// StatsInterval is the KPI reporting period.
	StatsInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		QueueCapacity: 256,
		Workers:       8,
		DrainInterval: 2 * time.Second,
		StatsInterval: 10 * time.Minute,
	}
}

// Orchestrator owns the feed: it starts exactly one fetcher, buffers emitted
// work items in a bounded queue, and drains them through a worker pool into
// the downstream sink. A full queue pauses the fetcher, and a monitor
// resumes it once headroom returns; that pause is the only backpressure
// between discovery and processing.
type Orchestrator struct {
	cfg      Config
	fetcher  fetch.Fetcher
	sink     Sink
	archiver *archive.Archiver
	stats    *StatsAggregator
	queue    chan *fetch.WorkItem
	runID    string
	paused   atomic.Bool
	tracer   trace.Tracer

	queueGauge metric.Int64ObservableGauge
}

// NewOrchestrator wires a fetcher to a sink. The archiver may be nil when
// processed files should stay where they were found.
func NewOrchestrator(cfg Config, fetcher fetch.Fetcher, sink Sink, archiver *archive.Archiver) (*Orchestrator, error) {
	def := DefaultConfig()
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = def.QueueCapacity
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.DrainInterval <= 0 {
		cfg.DrainInterval = def.DrainInterval
	}
	if cfg.StatsInterval <= 0 {
		cfg.StatsInterval = def.StatsInterval
	}

	o := &Orchestrator{
		cfg:      cfg,
		fetcher:  fetcher,
		sink:     sink,
		archiver: archiver,
		stats:    NewStatsAggregator(cfg.StatsInterval),
		queue:    make(chan *fetch.WorkItem, cfg.QueueCapacity),
		runID:    idgen.NextRunID(),
		tracer:   otel.Tracer("github.com/cardinalhq/claimrunner/internal/ingest"),
	}

	meter := otel.Meter("github.com/cardinalhq/claimrunner/internal/ingest")
	gauge, err := meter.Int64ObservableGauge(
		"ingest_queue_depth",
		metric.WithDescription("Number of work items buffered between fetcher and workers"),
		metric.WithInt64Callback(func(_ context.Context, observer metric.Int64Observer) error {
			observer.Observe(int64(len(o.queue)))
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create queue depth gauge: %w", err)
	}
	o.queueGauge = gauge

	return o, nil
}

// RunID returns the identifier tagging every log line of this feed run.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// Run starts the fetcher and blocks until ctx is cancelled and the workers
// have stopped. The returned error covers fetcher setup; a cancelled context
// is a normal shutdown, not an error.
func (o *Orchestrator) Run(ctx context.Context) error {
	logger := slog.Default().With(slog.String("runID", o.runID))
	ctx = logctx.WithLogger(ctx, logger)

	o.stats.Start(ctx)

	if err := o.fetcher.Start(ctx, o.enqueue); err != nil {
		o.stats.Stop()
		return fmt.Errorf("failed to start fetcher: %w", err)
	}

	logger.Info("Claim feed started",
		slog.Int("workers", o.cfg.Workers),
		slog.Int("queueCapacity", o.cfg.QueueCapacity),
		slog.Duration("drainInterval", o.cfg.DrainInterval))

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < o.cfg.Workers; i++ {
		g.Go(func() error {
			o.workerLoop(gctx)
			return nil
		})
	}
	g.Go(func() error {
		o.resumeLoop(gctx)
		return nil
	})

	err := g.Wait()
	o.stats.Stop()
	logger.Info("Claim feed stopped")
	return err
}

// enqueue receives synchronous emissions from the discovery loops. A full
// queue pauses the fetcher and then blocks until the hand-off lands, so an
// item whose id has been claimed is never dropped while the feed is alive;
// discovery stays paused until the resume monitor sees headroom again.
func (o *Orchestrator) enqueue(ctx context.Context, item *fetch.WorkItem) {
	select {
	case o.queue <- item:
		return
	default:
	}

	o.pauseFetcher(ctx)
	select {
	case o.queue <- item:
	case <-ctx.Done():
		logctx.FromContext(ctx).Warn("Feed shutting down, abandoning queued hand-off",
			slog.String("id", item.ID),
			slog.String("origin", string(item.Origin)))
	}
}

func (o *Orchestrator) pauseFetcher(ctx context.Context) {
	if o.paused.CompareAndSwap(false, true) {
		o.fetcher.Pause()
		fetcherPauses.Add(ctx, 1)
		logctx.FromContext(ctx).Info("Feed queue full, pausing fetcher",
			slog.Int("depth", len(o.queue)))
	}
}

// resumeLoop periodically lifts the pause once the queue has headroom.
func (o *Orchestrator) resumeLoop(ctx context.Context) {
	ticker := time.NewTicker(o.cfg.DrainInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if o.paused.Load() && len(o.queue) < cap(o.queue) {
				if o.paused.CompareAndSwap(true, false) {
					o.fetcher.Resume()
					logctx.FromContext(ctx).Info("Feed queue has headroom, resuming fetcher",
						slog.Int("depth", len(o.queue)))
				}
			}
		}
	}
}

func (o *Orchestrator) workerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case item := <-o.queue:
			o.processOne(ctx, item)
		}
	}
}

// processOne hands a single item to the sink and files the outcome. Sink
// failures are terminal for the item: it is logged, counted, and archived to
// the fail directory, never retried here.
func (o *Orchestrator) processOne(ctx context.Context, item *fetch.WorkItem) {
	ctx, span := o.tracer.Start(ctx, "Orchestrator.Process",
		trace.WithAttributes(
			attribute.String("id", item.ID),
			attribute.String("origin", string(item.Origin)),
		))
	defer span.End()

	logger := logctx.FromContext(ctx).With(
		slog.String("id", item.ID),
		slog.String("origin", string(item.Origin)))

	start := time.Now()
	err := o.sink.Process(logctx.WithLogger(ctx, logger), item)
	elapsed := time.Since(start)

	attrs := metric.WithAttributes(attribute.String("origin", string(item.Origin)))
	processDuration.Record(ctx, elapsed.Seconds(), attrs)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error", err.Error()))
		logger.Error("Claim file processing failed",
			slog.Int64("size", item.Size),
			slog.Duration("elapsed", elapsed),
			slog.Any("error", err))
		itemsFailed.Add(ctx, 1, attrs)
		o.stats.RecordFailed(string(item.Origin), 1)
		if o.archiver != nil {
			o.archiver.ArchiveFail(item)
		}
		return
	}

	span.SetAttributes(attribute.String("status", "success"))
	logger.Info("Claim file processed",
		slog.Int64("size", item.Size),
		slog.String("checksum", fmt.Sprintf("%016x", item.Checksum)),
		slog.Duration("elapsed", elapsed))
	itemsProcessed.Add(ctx, 1, attrs)
	o.stats.RecordProcessed(string(item.Origin), 1)
	if o.archiver != nil {
		o.archiver.ArchiveOK(item)
	}
}
