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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/claimrunner/internal/fetch"
)

func claimMessage(id, name string, value []byte) ConsumedMessage {
	headers := map[string]string{}
	if id != "" {
		headers[HeaderID] = id
	}
	if name != "" {
		headers[HeaderName] = name
	}
	return ConsumedMessage{
		Message: Message{Value: value, Headers: headers},
		Topic:   "claimrunner.ingest",
	}
}

func TestBridge_HandleSubmitsToInbox(t *testing.T) {
	inbox := fetch.NewInbox(4)
	b := NewBridge(nil, inbox)

	err := b.handle(context.Background(), claimMessage("msg-1", "claim one", []byte("<claim/>")))
	require.NoError(t, err)
	assert.Equal(t, 1, inbox.Len())
}

func TestBridge_HandleFallsBackToKey(t *testing.T) {
	inbox := fetch.NewInbox(4)
	b := NewBridge(nil, inbox)

	msg := claimMessage("", "", []byte("<claim/>"))
	msg.Key = []byte("key-id")

	require.NoError(t, b.handle(context.Background(), msg))
	assert.Equal(t, 1, inbox.Len())
}

func TestBridge_HandleRejectsEmptyValue(t *testing.T) {
	inbox := fetch.NewInbox(4)
	b := NewBridge(nil, inbox)

	err := b.handle(context.Background(), claimMessage("msg-1", "", nil))
	require.Error(t, err)
	assert.Zero(t, inbox.Len())
}

func TestBridge_HandleRejectsMissingID(t *testing.T) {
	inbox := fetch.NewInbox(4)
	b := NewBridge(nil, inbox)

	err := b.handle(context.Background(), claimMessage("", "", []byte("<claim/>")))
	require.Error(t, err)
	assert.Zero(t, inbox.Len())
}

func TestBridge_HandleToleratesOverflow(t *testing.T) {
	inbox := fetch.NewInbox(1)
	b := NewBridge(nil, inbox)

	require.NoError(t, b.handle(context.Background(), claimMessage("msg-1", "", []byte("<a/>"))))
	// The second submission is dropped by the full inbox, but the message is
	// still handled so its offset commits.
	require.NoError(t, b.handle(context.Background(), claimMessage("msg-2", "", []byte("<b/>"))))
	assert.Equal(t, 1, inbox.Len())
}
