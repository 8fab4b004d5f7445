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
	"log/slog"
	"sync/atomic"
)

// RemoteConfig identifies the upstream gateway a remote fetcher pulls from.
type RemoteConfig struct {
	Endpoint string
}

// RemoteFetcher is the placeholder for a gateway-pull source, kept so the
// fetcher contract stays polymorphic over all three source kinds.
// TODO: poll the gateway for pending claim batches and emit one work item
// per downloaded message id.
type RemoteFetcher struct {
	cfg    RemoteConfig
	paused atomic.Bool
}

var _ Fetcher = (*RemoteFetcher)(nil)

func NewRemoteFetcher(cfg RemoteConfig) *RemoteFetcher {
	return &RemoteFetcher{cfg: cfg}
}

// Start logs the configured endpoint and returns without launching any
// loops. Nothing is ever emitted.
func (f *RemoteFetcher) Start(ctx context.Context, deliver Consumer) error {
	endpoint := f.cfg.Endpoint
	if endpoint == "" {
		endpoint = "(unset)"
	}
	slog.Warn("Remote fetcher is not implemented, no claim files will arrive",
		slog.String("endpoint", endpoint))
	return nil
}

func (f *RemoteFetcher) Pause() {
	f.paused.Store(true)
}

func (f *RemoteFetcher) Resume() {
	f.paused.Store(false)
}
