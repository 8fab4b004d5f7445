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
	"fmt"
	"strconv"

	"github.com/cardinalhq/claimrunner/internal/fetch"
	"github.com/cardinalhq/claimrunner/internal/ingest"
)

// Sink publishes each processed work item to the downstream feed topic.
// Claimrunner's custody of a claim file ends when the produce is
// acknowledged; pipeline workers on the other side of the topic take over
// from there. Messages are keyed by item id so replays of the same id land
// on the same partition.
type Sink struct {
	producer *Producer
}

var _ ingest.Sink = (*Sink)(nil)

func NewSink(producer *Producer) *Sink {
	return &Sink{producer: producer}
}

func (s *Sink) Process(ctx context.Context, item *fetch.WorkItem) error {
	if err := s.producer.Send(ctx, newItemMessage(item)); err != nil {
		return fmt.Errorf("failed to publish work item %s: %w", item.ID, err)
	}
	return nil
}

func newItemMessage(item *fetch.WorkItem) Message {
	return Message{
		Key:   []byte(item.ID),
		Value: item.Payload,
		Headers: map[string]string{
			HeaderID:       item.ID,
			HeaderOrigin:   string(item.Origin),
			HeaderName:     item.Name,
			HeaderChecksum: strconv.FormatUint(item.Checksum, 16),
			HeaderSize:     strconv.FormatInt(item.Size, 10),
		},
	}
}
