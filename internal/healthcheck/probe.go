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

package healthcheck

import (
	"context"
	"log/slog"
	"time"
)

// CheckFunc reports whether a dependency is currently usable.
type CheckFunc func(ctx context.Context) error

// Probe periodically runs a check and mirrors its outcome into a readiness
// condition on the server, so /readyz degrades when a dependency (say, the
// claim drop directory) goes away and recovers when it comes back.
type Probe struct {
	server    *Server
	condition string
	check     CheckFunc
	ll        *slog.Logger
	interval  time.Duration
}

// NewProbe creates a probe that maintains the named readiness condition.
func NewProbe(server *Server, condition string, interval time.Duration, check CheckFunc) *Probe {
	return &Probe{
		server:    server,
		condition: condition,
		check:     check,
		ll:        slog.Default().With("component", "probe", "condition", condition),
		interval:  interval,
	}
}

// Start begins probing in a goroutine and returns a cancel function.
func (p *Probe) Start(ctx context.Context) context.CancelFunc {
	probeCtx, cancel := context.WithCancel(ctx)

	go p.run(probeCtx)

	return cancel
}

func (p *Probe) run(ctx context.Context) {
	p.ll.Debug("Starting probe loop", "interval", p.interval)

	// Probe once up front so readiness reflects reality immediately.
	p.probe(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.ll.Debug("Context cancelled, stopping probe loop")
			return
		case <-ticker.C:
			p.probe(ctx)
		}
	}
}

func (p *Probe) probe(ctx context.Context) {
	err := p.check(ctx)
	if err != nil && ctx.Err() != nil {
		return
	}

	wasReady, known := p.server.readyCondition(p.condition)
	ready := err == nil
	p.server.SetReadyCondition(p.condition, ready)

	// Only log transitions, not every pass.
	if known && wasReady == ready {
		return
	}
	if ready {
		p.ll.Info("Readiness condition satisfied")
	} else {
		p.ll.Warn("Readiness condition failing", slog.Any("error", err))
	}
}
