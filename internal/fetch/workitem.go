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

// Package fetch discovers claim files and feeds them, exactly once per
// source instance, into the ingestion pipeline. A fetcher owns the discovery
// mechanics for one source kind (drop directory, push inbox, remote gateway)
// and hands fully read work items to a consumer callback; everything past
// that hand-off belongs to the feed orchestration.
package fetch

import (
	"time"

	"github.com/cespare/xxhash/v2"
)

// Origin tags which source kind produced a work item. It rides along for
// logging, metrics dimensions, and downstream audit.
type Origin string

const (
	OriginLocalFS Origin = "localfs"
	OriginInbox   Origin = "inbox"
	OriginRemote  Origin = "remote"
)

// WorkItem is one discovered claim file, fully read into memory. Treat it as
// immutable after construction: the same value is shared across the feed
// queue, the sink, and the archive path.
type WorkItem struct {
	// ID is the stable identifier deduplication and downstream idempotency
	// key on: the file name for drop-directory finds, the producer-assigned
	// message id for pushed items.
	ID string

	// Payload is the raw claim file content. Parsing happens downstream; the
	// bytes pass through untouched.
	Payload []byte

	// Origin tags the producing source kind.
	Origin Origin

	// SourcePath is the on-disk location for drop-directory items, empty for
	// pushed ones.
	SourcePath string

	// Name is a human-readable label for logs and audit trails.
	Name string

	// Checksum is the xxhash64 of Payload.
	Checksum uint64

	// Size is len(Payload) in bytes.
	Size int64

	// QueuedAt is when the item was discovered.
	QueuedAt time.Time
}

// NewWorkItem builds a work item, stamping checksum, size, and discovery
// time.
func NewWorkItem(id string, payload []byte, origin Origin, sourcePath, name string) *WorkItem {
	return &WorkItem{
		ID:         id,
		Payload:    payload,
		Origin:     origin,
		SourcePath: sourcePath,
		Name:       name,
		Checksum:   xxhash.Sum64(payload),
		Size:       int64(len(payload)),
		QueuedAt:   time.Now(),
	}
}
