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

// Package ingress accepts claim files pushed over HTTP and submits them to
// the bounded inbox.
package ingress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cardinalhq/claimrunner/internal/constants"
	"github.com/cardinalhq/claimrunner/internal/fetch"
)

// HeaderClaimFileID carries the producer-assigned identifier for a pushed
// claim file. Without it the server assigns a random UUID, which forfeits
// producer-side idempotency across retries.
const HeaderClaimFileID = "X-Claimfile-ID"

const shutdownTimeout = 5 * time.Second

// Server is the HTTP push ingress. Acceptance is not processing: a 202
// means buffered in the inbox, and overflow comes back as 503 so the
// upstream retries with backoff.
type Server struct {
	addr  string
	inbox *fetch.Inbox
	srv   *http.Server
}

func NewServer(addr string, inbox *fetch.Inbox) *Server {
	s := &Server{
		addr:  addr,
		inbox: inbox,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/claimfiles", s.handleSubmit)
	s.srv = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	slog.Info("Push ingress listening", slog.String("addr", s.addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("push ingress server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down push ingress")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown push ingress: %w", err)
	}
	return nil
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxClaimFileBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			http.Error(w, "claim file too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	if len(payload) == 0 {
		http.Error(w, "empty claim file", http.StatusBadRequest)
		return
	}

	id := r.Header.Get(HeaderClaimFileID)
	if id == "" {
		id = uuid.NewString()
	}

	if !s.inbox.Submit(r.Context(), id, payload, "", fetch.OriginInbox, id) {
		http.Error(w, "inbox full, retry later", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(HeaderClaimFileID, id)
	w.WriteHeader(http.StatusAccepted)
}
