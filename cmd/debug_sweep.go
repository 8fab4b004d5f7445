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

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/claimrunner/config"
	"github.com/cardinalhq/claimrunner/internal/fetch"
)

func init() {
	var dir string
	var suffix string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "List claim files waiting in the drop directory",
		RunE: func(_ *cobra.Command, _ []string) error {
			return debugSweep(dir, suffix)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Drop directory to sweep (defaults to the configured one)")
	cmd.Flags().StringVar(&suffix, "suffix", "", "Claim file suffix (defaults to the configured one)")

	debugCmd.AddCommand(cmd)
}

func debugSweep(dir, suffix string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if dir == "" {
		dir = cfg.LocalFS.Dir
	}
	if suffix == "" {
		suffix = cfg.LocalFS.Suffix
	}

	fetcher := fetch.NewLocalFSFetcher(fetch.LocalFSConfig{Dir: dir, Suffix: suffix})
	paths, err := fetcher.Sweep()
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	if len(paths) == 0 {
		fmt.Println("no claim files waiting")
		return nil
	}
	for _, path := range paths {
		fmt.Println(path)
	}
	return nil
}
