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
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
)

func TestNewWorkItem(t *testing.T) {
	payload := []byte("<Claim.Submission/>")
	before := time.Now()
	item := NewWorkItem("A.xml", payload, OriginLocalFS, "/in/ready/A.xml", "A.xml")

	assert.Equal(t, "A.xml", item.ID)
	assert.Equal(t, payload, item.Payload)
	assert.Equal(t, OriginLocalFS, item.Origin)
	assert.Equal(t, "/in/ready/A.xml", item.SourcePath)
	assert.Equal(t, "A.xml", item.Name)
	assert.Equal(t, xxhash.Sum64(payload), item.Checksum)
	assert.Equal(t, int64(len(payload)), item.Size)
	assert.WithinRange(t, item.QueuedAt, before, time.Now())
}

func TestNewWorkItem_EmptyPayload(t *testing.T) {
	item := NewWorkItem("empty.xml", nil, OriginInbox, "", "empty.xml")

	assert.Zero(t, item.Size)
	assert.Equal(t, xxhash.Sum64(nil), item.Checksum)
	assert.Empty(t, item.SourcePath)
}
