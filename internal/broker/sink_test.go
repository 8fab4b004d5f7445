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
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardinalhq/claimrunner/internal/fetch"
)

func TestNewItemMessage(t *testing.T) {
	item := fetch.NewWorkItem("A.xml", []byte("<claim/>"), fetch.OriginLocalFS, "/in/ready/A.xml", "A.xml")

	msg := newItemMessage(item)

	assert.Equal(t, []byte("A.xml"), msg.Key)
	assert.Equal(t, []byte("<claim/>"), msg.Value)
	assert.Equal(t, "A.xml", msg.Headers[HeaderID])
	assert.Equal(t, "localfs", msg.Headers[HeaderOrigin])
	assert.Equal(t, "A.xml", msg.Headers[HeaderName])
	assert.Equal(t, strconv.FormatUint(item.Checksum, 16), msg.Headers[HeaderChecksum])
	assert.Equal(t, "8", msg.Headers[HeaderSize])
}

func TestMessageRoundTrip(t *testing.T) {
	msg := Message{
		Key:   []byte("A.xml"),
		Value: []byte("<claim/>"),
		Headers: map[string]string{
			HeaderID:     "A.xml",
			HeaderOrigin: "inbox",
		},
	}

	km := msg.ToKafkaMessage()
	assert.Len(t, km.Headers, 2)

	back := FromKafkaMessage(km)
	assert.Equal(t, msg.Key, back.Key)
	assert.Equal(t, msg.Value, back.Value)
	assert.Equal(t, msg.Headers, back.Headers)
}
