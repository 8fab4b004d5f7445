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
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	itemsProcessed  metric.Int64Counter
	itemsFailed     metric.Int64Counter
	fetcherPauses   metric.Int64Counter
	processDuration metric.Float64Histogram
)

func init() {
	meter := otel.Meter("github.com/cardinalhq/claimrunner/internal/ingest")

	var err error
	itemsProcessed, err = meter.Int64Counter(
		"ingest_items_processed_total",
		metric.WithDescription("Total number of work items handed to the sink successfully"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create itemsProcessed counter: %w", err))
	}

	itemsFailed, err = meter.Int64Counter(
		"ingest_items_failed_total",
		metric.WithDescription("Total number of work items the sink rejected"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create itemsFailed counter: %w", err))
	}

	fetcherPauses, err = meter.Int64Counter(
		"ingest_fetcher_pauses_total",
		metric.WithDescription("Total number of times the feed paused its fetcher on a full queue"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create fetcherPauses counter: %w", err))
	}

	processDuration, err = meter.Float64Histogram(
		"ingest_process_duration_seconds",
		metric.WithDescription("Time spent processing one work item in the sink"),
		metric.WithUnit("s"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create processDuration histogram: %w", err))
	}
}
