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

package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cardinalhq/claimrunner/internal/fetch"
)

// Bridge drains the inbound claim-file topic into the push inbox. A
// submission dropped on overflow is still committed: the inbox contract is
// best-effort, and durability belongs to the upstream producer, which keeps
// the message until its own delivery policy is satisfied.
type Bridge struct {
	consumer *Consumer
	inbox    *fetch.Inbox
}

func NewBridge(consumer *Consumer, inbox *fetch.Inbox) *Bridge {
	return &Bridge{consumer: consumer, inbox: inbox}
}

// Run consumes until ctx is cancelled. Cancellation is a normal shutdown.
func (b *Bridge) Run(ctx context.Context) error {
	defer func() {
		if err := b.consumer.Close(); err != nil {
			slog.Warn("Broker bridge close failed", slog.Any("error", err))
		}
	}()

	err := b.consumer.Consume(ctx, b.handle)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (b *Bridge) handle(ctx context.Context, msg ConsumedMessage) error {
	if len(msg.Value) == 0 {
		return fmt.Errorf("empty claim-file message at offset %d", msg.Offset)
	}

	id := msg.Headers[HeaderID]
	if id == "" {
		id = string(msg.Key)
	}
	if id == "" {
		return fmt.Errorf("claim-file message at offset %d has no id header or key", msg.Offset)
	}

	name := msg.Headers[HeaderName]
	if name == "" {
		name = id
	}

	b.inbox.Submit(ctx, id, msg.Value, "", fetch.OriginInbox, name)
	return nil
}
