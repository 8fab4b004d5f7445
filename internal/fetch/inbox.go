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
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// DefaultInboxCapacity bounds memory under burst arrival when producers
	// outrun the feed.
	DefaultInboxCapacity = 1024

	inboxPauseRecheckInterval = 200 * time.Millisecond
)

// Inbox is a fixed-capacity buffer between push-style producers (HTTP
// ingress, broker bridge) and the feed. Submission never blocks: a full
// inbox drops the item and reports it, and durability is the upstream
// producer's problem. The inbox performs no deduplication; identifier
// uniqueness belongs to the producer.
type Inbox struct {
	items chan *WorkItem
}

func NewInbox(capacity int) *Inbox {
	if capacity <= 0 {
		capacity = DefaultInboxCapacity
	}
	return &Inbox{items: make(chan *WorkItem, capacity)}
}

// Submit offers one claim file to the inbox. It returns false when the inbox
// is full and the item was dropped.
func (i *Inbox) Submit(ctx context.Context, id string, payload []byte, sourcePath string, origin Origin, name string) bool {
	item := NewWorkItem(id, payload, origin, sourcePath, name)
	select {
	case i.items <- item:
		return true
	default:
		slog.Warn("Inbox full, dropping submission",
			slog.String("id", id),
			slog.String("origin", string(origin)),
			slog.Int64("size", item.Size))
		inboxDropped.Add(ctx, 1,
			metric.WithAttributes(attribute.String("origin", string(origin))))
		return false
	}
}

// Len returns the number of buffered items.
func (i *Inbox) Len() int {
	return len(i.items)
}

// Cap returns the configured capacity.
func (i *Inbox) Cap() int {
	return cap(i.items)
}

// InboxFetcher adapts a push inbox to the fetcher contract: one forward loop
// takes buffered items in submission order and hands them to the consumer,
// honoring pause between takes.
type InboxFetcher struct {
	inbox   *Inbox
	paused  atomic.Bool
	started atomic.Bool
}

var _ Fetcher = (*InboxFetcher)(nil)

func NewInboxFetcher(inbox *Inbox) *InboxFetcher {
	return &InboxFetcher{inbox: inbox}
}

// Start launches the forward loop. Setup cannot fail beyond double-start.
func (f *InboxFetcher) Start(ctx context.Context, deliver Consumer) error {
	if !f.started.CompareAndSwap(false, true) {
		return fmt.Errorf("inbox fetcher already started")
	}

	go f.forwardLoop(ctx, deliver)

	slog.Info("Inbox fetcher started", slog.Int("capacity", f.inbox.Cap()))
	return nil
}

func (f *InboxFetcher) Pause() {
	f.paused.Store(true)
}

func (f *InboxFetcher) Resume() {
	f.paused.Store(false)
}

// Paused reports whether forwarding is currently suspended.
func (f *InboxFetcher) Paused() bool {
	return f.paused.Load()
}

// forwardLoop drains the inbox into the consumer. While paused it leaves
// items buffered, so Submit keeps accepting until the inbox itself fills.
func (f *InboxFetcher) forwardLoop(ctx context.Context, deliver Consumer) {
	for {
		if f.paused.Load() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(inboxPauseRecheckInterval):
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		case item := <-f.inbox.items:
			deliver(ctx, item)
			itemsEmitted.Add(ctx, 1,
				metric.WithAttributes(attribute.String("origin", string(item.Origin))))
		}
	}
}
