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

package ingress

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/claimrunner/internal/constants"
	"github.com/cardinalhq/claimrunner/internal/fetch"
)

func postClaim(t *testing.T, s *Server, id string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/claimfiles", bytes.NewReader(body))
	if id != "" {
		req.Header.Set(HeaderClaimFileID, id)
	}
	rec := httptest.NewRecorder()
	s.handleSubmit(rec, req)
	return rec
}

func TestServer_AcceptsClaimFile(t *testing.T) {
	inbox := fetch.NewInbox(4)
	s := NewServer(":0", inbox)

	rec := postClaim(t, s, "A.xml", []byte("<claim/>"))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "A.xml", rec.Header().Get(HeaderClaimFileID))
	assert.Equal(t, 1, inbox.Len())
}

func TestServer_AssignsIDWhenMissing(t *testing.T) {
	inbox := fetch.NewInbox(4)
	s := NewServer(":0", inbox)

	rec := postClaim(t, s, "", []byte("<claim/>"))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(HeaderClaimFileID))
	assert.Equal(t, 1, inbox.Len())
}

func TestServer_RejectsOverflowAsRetryable(t *testing.T) {
	inbox := fetch.NewInbox(1)
	s := NewServer(":0", inbox)

	require.Equal(t, http.StatusAccepted, postClaim(t, s, "a", []byte("<a/>")).Code)
	rec := postClaim(t, s, "b", []byte("<b/>"))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, 1, inbox.Len())
}

func TestServer_RejectsEmptyBody(t *testing.T) {
	s := NewServer(":0", fetch.NewInbox(4))

	rec := postClaim(t, s, "a", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_RejectsOversizedBody(t *testing.T) {
	inbox := fetch.NewInbox(4)
	s := NewServer(":0", inbox)

	rec := postClaim(t, s, "big", bytes.Repeat([]byte("x"), int(constants.MaxClaimFileBytes)+1))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Zero(t, inbox.Len())
}

func TestServer_RejectsWrongMethod(t *testing.T) {
	s := NewServer(":0", fetch.NewInbox(4))

	req := httptest.NewRequest(http.MethodGet, "/v1/claimfiles", nil)
	rec := httptest.NewRecorder()
	s.handleSubmit(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
