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
	mapset "github.com/deckarep/golang-set/v2"
)

// Registry tracks the identifiers one fetcher instance has already claimed
// for emission. It lives for the lifetime of that instance, grows
// monotonically, and is never persisted: a restart forgets all prior claims,
// so downstream consumers must stay idempotent on item id.
type Registry struct {
	claimed mapset.Set[string]
}

func NewRegistry() *Registry {
	return &Registry{claimed: mapset.NewSet[string]()}
}

// Claim atomically marks id as taken and reports whether this call took it.
// It returns true exactly once per id for the registry's lifetime; when both
// discovery loops race on the same new file, the loser sees false and walks
// away.
func (r *Registry) Claim(id string) bool {
	return r.claimed.Add(id)
}

// Seen reports whether id has been claimed.
func (r *Registry) Seen(id string) bool {
	return r.claimed.Contains(id)
}

// Len returns the number of claimed identifiers.
func (r *Registry) Len() int {
	return r.claimed.Cardinality()
}
