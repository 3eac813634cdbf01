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

// Package snapshot persists named, timestamped, hash-verified captures of
// a file set and restores them with per-file integrity checking.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileEntry is one captured file: its content and the lowercase-hex
// SHA-256 of that content at capture time.
type FileEntry struct {
	Content string `json:"content"`
	Hash    string `json:"hash"`
}

// Snapshot is a point-in-time capture of a file set, keyed by path
// relative to the captured root. Never mutated after creation; a restore
// writes new files, it does not produce a new snapshot.
type Snapshot struct {
	Timestamp string               `json:"timestamp"`
	Files     map[string]FileEntry `json:"files"`
	Analysis  string               `json:"analysis,omitempty"`
}

// HashContent returns the lowercase-hex SHA-256 of content.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Capture reads every path (absolute or relative to the working
// directory) and builds a snapshot keyed by path relative to root.
// Capture is all-or-nothing: any unreadable file fails the capture.
func Capture(root string, paths []string) (*Snapshot, error) {
	snap := &Snapshot{Files: make(map[string]FileEntry, len(paths))}
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "capture %s", path)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || filepath.IsAbs(rel) {
			rel = path
		}
		snap.Files[filepath.ToSlash(rel)] = FileEntry{
			Content: string(content),
			Hash:    HashContent(content),
		}
	}
	return snap, nil
}

// WriteFile serializes the snapshot as a JSON document at path, creating
// parent directories as needed. The write is atomic: the document lands
// under a temporary name and is renamed into place, so a failed write
// leaves no partial snapshot behind.
func WriteFile(path string, snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp snapshot")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "write snapshot")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "close snapshot")
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "rename snapshot into %s", path)
	}
	return nil
}
