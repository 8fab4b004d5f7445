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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInbox_SubmitAndForward(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inbox := NewInbox(4)
	var c capture
	f := NewInboxFetcher(inbox)
	require.NoError(t, f.Start(ctx, c.consumer()))

	require.True(t, inbox.Submit(ctx, "msg-1", []byte("<claim/>"), "", OriginInbox, "claim one"))

	require.Eventually(t, func() bool { return c.count() == 1 }, 3*time.Second, 10*time.Millisecond)
	item := c.byID("msg-1")
	require.NotNil(t, item)
	assert.Equal(t, []byte("<claim/>"), item.Payload)
	assert.Equal(t, OriginInbox, item.Origin)
	assert.Empty(t, item.SourcePath)
	assert.Equal(t, "claim one", item.Name)
	assert.NotZero(t, item.Checksum)
}

func TestInbox_DropsWhenFull(t *testing.T) {
	ctx := context.Background()
	inbox := NewInbox(2)

	require.True(t, inbox.Submit(ctx, "a", []byte("1"), "", OriginInbox, "a"))
	require.True(t, inbox.Submit(ctx, "b", []byte("2"), "", OriginInbox, "b"))
	assert.False(t, inbox.Submit(ctx, "c", []byte("3"), "", OriginInbox, "c"),
		"a full inbox must drop, not block")

	assert.Equal(t, 2, inbox.Len())
	assert.Equal(t, 2, inbox.Cap())
}

func TestInbox_ForwardsInSubmissionOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inbox := NewInbox(8)
	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("msg-%d", i)
		require.True(t, inbox.Submit(ctx, id, []byte(id), "", OriginInbox, id))
	}

	var c capture
	f := NewInboxFetcher(inbox)
	require.NoError(t, f.Start(ctx, c.consumer()))

	require.Eventually(t, func() bool { return c.count() == 3 }, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"msg-0", "msg-1", "msg-2"}, c.ids())
	assert.Zero(t, inbox.Len())
}

func TestInboxFetcher_PauseHoldsItems(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inbox := NewInbox(4)
	var c capture
	f := NewInboxFetcher(inbox)
	f.Pause()
	require.NoError(t, f.Start(ctx, c.consumer()))

	require.True(t, inbox.Submit(ctx, "held", []byte("<h/>"), "", OriginInbox, "held"))

	time.Sleep(500 * time.Millisecond)
	assert.Zero(t, c.count(), "paused fetcher must leave the inbox buffered")
	assert.Equal(t, 1, inbox.Len())
	assert.True(t, f.Paused())

	f.Resume()
	require.Eventually(t, func() bool { return c.count() == 1 }, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"held"}, c.ids())
}

func TestInbox_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultInboxCapacity, NewInbox(0).Cap())
	assert.Equal(t, DefaultInboxCapacity, NewInbox(-5).Cap())
	assert.Equal(t, 16, NewInbox(16).Cap())
}

func TestInboxFetcher_StartTwice(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := NewInboxFetcher(NewInbox(1))
	require.NoError(t, f.Start(ctx, (&capture{}).consumer()))
	require.Error(t, f.Start(ctx, (&capture{}).consumer()))
}

func TestRemoteFetcher_StartIsInert(t *testing.T) {
	f := NewRemoteFetcher(RemoteConfig{Endpoint: "https://gateway.example/claims"})

	var c capture
	require.NoError(t, f.Start(context.Background(), c.consumer()))
	f.Pause()
	f.Resume()

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, c.count())
}
