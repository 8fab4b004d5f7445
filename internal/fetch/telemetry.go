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
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	itemsEmitted    metric.Int64Counter
	itemsDuplicate  metric.Int64Counter
	itemsUnreadable metric.Int64Counter
	inboxDropped    metric.Int64Counter
	scanErrors      metric.Int64Counter
	watchErrors     metric.Int64Counter
)

func init() {
	meter := otel.Meter("github.com/cardinalhq/claimrunner/internal/fetch")

	var err error
	itemsEmitted, err = meter.Int64Counter(
		"fetch_items_emitted_total",
		metric.WithDescription("Total number of work items handed to the consumer"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create itemsEmitted counter: %w", err))
	}

	itemsDuplicate, err = meter.Int64Counter(
		"fetch_items_duplicate_total",
		metric.WithDescription("Total number of discoveries skipped because the id was already claimed"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create itemsDuplicate counter: %w", err))
	}

	itemsUnreadable, err = meter.Int64Counter(
		"fetch_items_unreadable_total",
		metric.WithDescription("Total number of claimed files abandoned because the read failed"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create itemsUnreadable counter: %w", err))
	}

	inboxDropped, err = meter.Int64Counter(
		"fetch_inbox_dropped_total",
		metric.WithDescription("Total number of inbox submissions dropped on overflow"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create inboxDropped counter: %w", err))
	}

	scanErrors, err = meter.Int64Counter(
		"fetch_scan_errors_total",
		metric.WithDescription("Total number of failed drop-directory sweeps"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create scanErrors counter: %w", err))
	}

	watchErrors, err = meter.Int64Counter(
		"fetch_watch_errors_total",
		metric.WithDescription("Total number of errors reported by the directory watcher"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create watchErrors counter: %w", err))
	}
}
