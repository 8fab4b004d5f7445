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

// Package constants defines shared constants used across claimrunner.
package constants

const (
	// MaxClaimFileBytes caps the size of a single claim file accepted over a
	// push ingress. Larger files must arrive through the drop directory.
	MaxClaimFileBytes = int64(4 * 1024 * 1024)

	// DefaultClaimFileSuffix is the file suffix matched by the drop-directory
	// fetcher when none is configured.
	DefaultClaimFileSuffix = ".xml"
)
