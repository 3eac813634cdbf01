// Copyright 2025 Reposcope Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) []string {
	t.Helper()
	paths := make([]string, 0, len(files))
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		paths = append(paths, path)
	}
	return paths
}

func TestRoundTrip_ByteIdentical(t *testing.T) {
	src := t.TempDir()
	paths := writeTree(t, src, map[string]string{
		"main.go":          "package main\n",
		"internal/util.go": "package internal\n\nfunc helper() {}\n",
	})

	snap, err := Capture(src, paths)
	require.NoError(t, err)
	snap.Timestamp = "20260829_120000"

	store := NewStore(filepath.Join(t.TempDir(), DefaultDir))
	path, err := store.Write(snap)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "snapshot-20260829_120000.json"))

	dst := t.TempDir()
	report, err := store.Restore("20260829_120000", dst)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Restored)
	assert.Equal(t, 2, report.Matched, "hash-match count equals total when nothing mutated")
	assert.Empty(t, report.Mismatched)

	got, err := os.ReadFile(filepath.Join(dst, "internal", "util.go"))
	require.NoError(t, err)
	assert.Equal(t, "package internal\n\nfunc helper() {}\n", string(got))
}

func TestRestore_CorruptedHashStillWritesAll(t *testing.T) {
	src := t.TempDir()
	paths := writeTree(t, src, map[string]string{
		"a.go": "package a\n",
		"b.go": "package b\n",
		"c.go": "package c\n",
	})

	snap, err := Capture(src, paths)
	require.NoError(t, err)
	snap.Timestamp = "20260829_130000"
	entry := snap.Files["b.go"]
	entry.Hash = strings.Repeat("0", 64) // deliberately corrupt
	snap.Files["b.go"] = entry

	store := NewStore(filepath.Join(t.TempDir(), DefaultDir))
	_, err = store.Write(snap)
	require.NoError(t, err)

	dst := t.TempDir()
	report, err := store.Restore("20260829_130000", dst)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Restored, "every entry is attempted")
	assert.Equal(t, 2, report.Matched, "matches = total - 1")
	assert.Equal(t, []string{"b.go"}, report.Mismatched)

	// The mismatching file is still written verbatim.
	got, err := os.ReadFile(filepath.Join(dst, "b.go"))
	require.NoError(t, err)
	assert.Equal(t, "package b\n", string(got))
}

func TestRestore_NotFound(t *testing.T) {
	dir := filepath.Join(t.TempDir(), DefaultDir)
	store := NewStore(dir)

	dst := t.TempDir()
	_, err := store.Restore("19990101_000000", dst)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	// No file may be created or modified by a failed lookup.
	entries, readErr := os.ReadDir(dst)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestStore_List_NewestFirst(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), DefaultDir))

	for _, ts := range []string{"20260101_000000", "20260301_000000", "20260201_000000"} {
		snap := &Snapshot{
			Timestamp: ts,
			Files:     map[string]FileEntry{"x.go": {Content: "x", Hash: HashContent([]byte("x"))}},
		}
		_, err := store.Write(snap)
		require.NoError(t, err)
	}

	infos, err := store.List()
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "20260301_000000", infos[0].ID)
	assert.Equal(t, "20260101_000000", infos[2].ID)
	assert.Equal(t, 1, infos[0].FileCount)
}

func TestStore_List_MissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope"))
	infos, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestWriteFile_LeavesNoTempOnSuccess(t *testing.T) {
	dir := t.TempDir()
	snap := &Snapshot{Timestamp: "t", Files: map[string]FileEntry{}}
	require.NoError(t, WriteFile(filepath.Join(dir, "snapshot-t.json"), snap))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "snapshot-t.json", entries[0].Name())
}

func TestHashContent_LowercaseHex(t *testing.T) {
	h := HashContent([]byte("hello"))
	assert.Len(t, h, 64)
	assert.Equal(t, strings.ToLower(h), h)
	// Known vector.
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", h)
}

func TestCapture_UnreadableFileFails(t *testing.T) {
	src := t.TempDir()
	_, err := Capture(src, []string{filepath.Join(src, "missing.go")})
	require.Error(t, err)
}
