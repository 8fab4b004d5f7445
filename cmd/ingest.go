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

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/cardinalhq/claimrunner/config"
	"github.com/cardinalhq/claimrunner/internal/archive"
	"github.com/cardinalhq/claimrunner/internal/broker"
	"github.com/cardinalhq/claimrunner/internal/debugging"
	"github.com/cardinalhq/claimrunner/internal/fetch"
	"github.com/cardinalhq/claimrunner/internal/healthcheck"
	"github.com/cardinalhq/claimrunner/internal/ingest"
	"github.com/cardinalhq/claimrunner/internal/ingress"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run the claim-file feed",
		RunE: func(_ *cobra.Command, _ []string) error {
			servicename := "claimrunner-ingest"
			addlAttrs := attribute.NewSet(
				attribute.String("action", "ingest"),
			)
			ctx, doneFx, err := setupTelemetry(servicename, &addlAttrs)
			if err != nil {
				return fmt.Errorf("failed to setup telemetry: %w", err)
			}

			defer func() {
				if err := doneFx(); err != nil {
					slog.Error("Error shutting down telemetry", slog.Any("error", err))
				}
			}()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			return runFeed(ctx, cfg)
		},
	}

	rootCmd.AddCommand(cmd)
}

// runFeed wires the configured claim-file source into the feed orchestrator
// and runs everything until ctx is cancelled.
func runFeed(ctx context.Context, cfg *config.Config) error {
	// Start pprof server
	go debugging.RunPprof(ctx)

	healthServer := healthcheck.NewServer(healthcheck.Config{Port: cfg.Health.Port})

	go func() {
		if err := healthServer.Start(ctx); err != nil {
			slog.Error("Health check server stopped", slog.Any("error", err))
		}
	}()

	factory := broker.NewFactory(cfg.Broker)

	var sink ingest.Sink
	var producer *broker.Producer
	if factory.IsEnabled() {
		var err error
		producer, err = factory.NewProducer()
		if err != nil {
			return fmt.Errorf("failed to create broker producer: %w", err)
		}
		sink = broker.NewSink(producer)
	} else {
		slog.Warn("Broker disabled, processed claim files are discarded")
		sink = ingest.DiscardSink{}
	}

	var archiver *archive.Archiver
	if cfg.Archive.Enabled {
		archiver = archive.New(cfg.Archive.OKDir, cfg.Archive.FailDir)
	}

	var fetcher fetch.Fetcher
	var inbox *fetch.Inbox
	switch cfg.Source.Kind {
	case config.SourceLocalFS:
		fetcher = fetch.NewLocalFSFetcher(fetch.LocalFSConfig{
			Dir:          cfg.LocalFS.Dir,
			Suffix:       cfg.LocalFS.Suffix,
			ScanInterval: cfg.LocalFS.ScanInterval,
		})
	case config.SourceInbox:
		inbox = fetch.NewInbox(cfg.Inbox.Capacity)
		fetcher = fetch.NewInboxFetcher(inbox)
	case config.SourceRemote:
		fetcher = fetch.NewRemoteFetcher(fetch.RemoteConfig{Endpoint: cfg.Remote.Endpoint})
	default:
		return fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}

	// Keep /readyz honest about the drop directory while the feed runs.
	if cfg.Source.Kind == config.SourceLocalFS {
		dropDir := cfg.LocalFS.Dir
		probe := healthcheck.NewProbe(healthServer, "source", 30*time.Second, func(_ context.Context) error {
			return os.MkdirAll(dropDir, 0o755)
		})
		probeCancel := probe.Start(ctx)
		defer probeCancel()
	}

	orch, err := ingest.NewOrchestrator(ingest.Config{
		QueueCapacity: cfg.Feed.QueueCapacity,
		Workers:       cfg.Feed.Workers,
		DrainInterval: cfg.Feed.DrainInterval,
		StatsInterval: cfg.Feed.StatsInterval,
	}, fetcher, sink, archiver)
	if err != nil {
		return fmt.Errorf("failed to create feed orchestrator: %w", err)
	}

	slog.Info("Starting claim feed",
		slog.String("source", cfg.Source.Kind),
		slog.String("runID", orch.RunID()))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return orch.Run(gctx)
	})

	// An inbox source needs at least one front door feeding it.
	if inbox != nil {
		if cfg.Ingress.Enabled {
			server := ingress.NewServer(cfg.Ingress.Addr, inbox)
			g.Go(func() error {
				return server.Run(gctx)
			})
		}
		if factory.IsEnabled() {
			consumer, err := factory.NewConsumer()
			if err != nil {
				return fmt.Errorf("failed to create broker consumer: %w", err)
			}
			bridge := broker.NewBridge(consumer, inbox)
			g.Go(func() error {
				return bridge.Run(gctx)
			})
		}
		if !cfg.Ingress.Enabled && !factory.IsEnabled() {
			slog.Warn("Inbox source has no ingress or broker bridge, nothing will arrive")
		}
	}

	// Mark as healthy once every component is wired and running.
	healthServer.SetStatus(healthcheck.StatusHealthy)
	healthServer.SetReady(true)
	healthServer.SetReadyCondition("feed", true)

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	var result *multierror.Error
	result = multierror.Append(result, err)
	if producer != nil {
		result = multierror.Append(result, producer.Close())
	}
	return result.ErrorOrNil()
}
