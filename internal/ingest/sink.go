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

// Package ingest runs the claim-file feed: one fetcher in, a bounded queue,
// and a worker pool handing each item to the downstream sink.
package ingest

import (
	"context"
	"log/slog"

	"github.com/cardinalhq/claimrunner/internal/fetch"
)

// Sink is the downstream pipeline boundary. The feed's whole contract with
// it is the hand-off of one fully read, uniquely identified claim file;
// parsing and persistence live on the other side. Implementations must be
// safe for concurrent calls and should stay idempotent on item id: the
// in-memory dedup registry does not survive a restart, so an already
// processed identifier can arrive again after one.
type Sink interface {
	Process(ctx context.Context, item *fetch.WorkItem) error
}

// DiscardSink acknowledges every item without processing it. It backs dev
// and test deployments where no broker is configured.
type DiscardSink struct{}

var _ Sink = (*DiscardSink)(nil)

func (DiscardSink) Process(ctx context.Context, item *fetch.WorkItem) error {
	slog.Debug("Discarding work item",
		slog.String("id", item.ID),
		slog.String("origin", string(item.Origin)),
		slog.Int64("size", item.Size))
	return nil
}
