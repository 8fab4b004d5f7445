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

package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/claimrunner/internal/fetch"
)

func writeClaim(t *testing.T, dir, name string) *fetch.WorkItem {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("<claim/>"), 0o644))
	return fetch.NewWorkItem(name, []byte("<claim/>"), fetch.OriginLocalFS, path, name)
}

func TestArchiver_ArchiveOK(t *testing.T) {
	dropDir := t.TempDir()
	okDir := filepath.Join(t.TempDir(), "ok")
	failDir := filepath.Join(t.TempDir(), "fail")

	a := New(okDir, failDir)
	item := writeClaim(t, dropDir, "A.xml")

	a.ArchiveOK(item)

	assert.NoFileExists(t, item.SourcePath)
	assert.FileExists(t, filepath.Join(okDir, "A.xml"))
	assert.NoDirExists(t, failDir)
}

func TestArchiver_ArchiveFail(t *testing.T) {
	dropDir := t.TempDir()
	okDir := filepath.Join(t.TempDir(), "ok")
	failDir := filepath.Join(t.TempDir(), "fail")

	a := New(okDir, failDir)
	item := writeClaim(t, dropDir, "B.xml")

	a.ArchiveFail(item)

	assert.NoFileExists(t, item.SourcePath)
	assert.FileExists(t, filepath.Join(failDir, "B.xml"))
}

func TestArchiver_ReplacesExisting(t *testing.T) {
	dropDir := t.TempDir()
	okDir := t.TempDir()

	a := New(okDir, "")
	require.NoError(t, os.WriteFile(filepath.Join(okDir, "A.xml"), []byte("old"), 0o644))
	item := writeClaim(t, dropDir, "A.xml")

	a.ArchiveOK(item)

	data, err := os.ReadFile(filepath.Join(okDir, "A.xml"))
	require.NoError(t, err)
	assert.Equal(t, []byte("<claim/>"), data)
}

func TestArchiver_IgnoresPushedItems(t *testing.T) {
	okDir := filepath.Join(t.TempDir(), "ok")
	a := New(okDir, "")

	item := fetch.NewWorkItem("msg-1", []byte("<claim/>"), fetch.OriginInbox, "", "msg-1")
	a.ArchiveOK(item)
	a.ArchiveOK(nil)

	assert.NoDirExists(t, okDir)
}

func TestArchiver_MissingSourceLogsAndContinues(t *testing.T) {
	okDir := t.TempDir()
	a := New(okDir, "")

	item := fetch.NewWorkItem("gone.xml", nil, fetch.OriginLocalFS,
		filepath.Join(t.TempDir(), "gone.xml"), "gone.xml")

	// Source was removed out from under us; the move fails quietly.
	a.ArchiveOK(item)
	assert.NoFileExists(t, filepath.Join(okDir, "gone.xml"))
}
