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
)

// Consumer receives one fully read work item, invoked synchronously from the
// discovery loop that found it. It sits on that loop's critical path, so a
// consumer needing sustained backpressure should pause the fetcher rather
// than stall the callback.
type Consumer func(ctx context.Context, item *WorkItem)

// Fetcher is a source of claim files. Implementations push work items to the
// consumer from their own background loops; exactly one fetcher is active
// per process, selected by configuration.
type Fetcher interface {
	// Start performs setup and launches the discovery loops, returning
	// immediately. The returned error covers setup only; once the loops are
	// running, failures are logged and never surfaced here. Loops exit when
	// ctx is cancelled.
	Start(ctx context.Context, deliver Consumer) error

	// Pause suspends discovery and emission until Resume. An emission already
	// in flight may still complete. Calling Pause while paused is a no-op.
	Pause()

	// Resume lifts a pause; loops pick up again on their next cycle. Calling
	// Resume while running is a no-op.
	Resume()
}
