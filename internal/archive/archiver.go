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

// Package archive files processed claim files away from the drop directory
// so a restart does not rediscover them.
package archive

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cardinalhq/claimrunner/internal/fetch"
)

// Archiver moves the source files of processed drop-directory items into ok
// and fail directories. Every move is best-effort: failures are logged and
// the feed carries on, so archiving can never stall ingestion. Items with no
// source path (pushed ones) are ignored.
type Archiver struct {
	okDir   string
	failDir string
}

func New(okDir, failDir string) *Archiver {
	return &Archiver{okDir: okDir, failDir: failDir}
}

// ArchiveOK files the item's source under the ok directory.
func (a *Archiver) ArchiveOK(item *fetch.WorkItem) {
	a.move(item, a.okDir)
}

// ArchiveFail files the item's source under the fail directory.
func (a *Archiver) ArchiveFail(item *fetch.WorkItem) {
	a.move(item, a.failDir)
}

func (a *Archiver) move(item *fetch.WorkItem, dir string) {
	if item == nil || item.SourcePath == "" || dir == "" {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Warn("Archive directory create failed",
			slog.String("dir", dir),
			slog.Any("error", err))
		return
	}
	dest := filepath.Join(dir, item.ID)
	if err := os.Rename(item.SourcePath, dest); err != nil {
		slog.Warn("Archive move failed",
			slog.String("source", item.SourcePath),
			slog.String("dest", dest),
			slog.Any("error", err))
	}
}
