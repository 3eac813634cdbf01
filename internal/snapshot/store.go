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
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// DefaultDir is the conventional snapshot directory.
const DefaultDir = ".ai-snapshots"

// ErrNotFound reports a snapshot identifier with no document on disk.
// A missing snapshot is a clean outcome, not a fault.
var ErrNotFound = errors.New("snapshot not found")

const (
	filePrefix = "snapshot-"
	fileSuffix = ".json"
)

// Store reads and writes snapshot documents under one directory.
type Store struct {
	Dir string
}

// NewStore returns a store over dir, defaulting to DefaultDir.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	return &Store{Dir: dir}
}

// Path returns the on-disk location for a snapshot identifier.
func (s *Store) Path(id string) string {
	return filepath.Join(s.Dir, filePrefix+id+fileSuffix)
}

// Write persists the snapshot under its timestamp identifier and returns
// the written path.
func (s *Store) Write(snap *Snapshot) (string, error) {
	if snap.Timestamp == "" {
		return "", errors.New("snapshot has no timestamp")
	}
	path := s.Path(snap.Timestamp)
	if err := WriteFile(path, snap); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads the snapshot document for id. Returns ErrNotFound when no
// document exists.
func (s *Store) Load(id string) (*Snapshot, error) {
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrNotFound, id)
		}
		return nil, errors.Wrapf(err, "read snapshot %s", id)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrapf(err, "decode snapshot %s", id)
	}
	return &snap, nil
}

// Info describes one stored snapshot.
type Info struct {
	ID        string
	Timestamp string
	FileCount int
}

// List returns the stored snapshots, newest identifier first. A missing
// store directory yields an empty list.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read %s", s.Dir)
	}

	infos := make([]Info, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		snap, err := s.Load(id)
		if err != nil {
			// Corrupt document: skip it rather than failing the listing.
			continue
		}
		infos = append(infos, Info{ID: id, Timestamp: snap.Timestamp, FileCount: len(snap.Files)})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID > infos[j].ID })
	return infos, nil
}

// Report summarizes one restore: counts instead of all-or-nothing status,
// because partial success is the designed behavior.
type Report struct {
	Restored   int
	Matched    int
	Mismatched []string
	Failed     []string
}

// Restore writes every captured file of snapshot id back under root,
// creating parent directories as needed, and verifies each written file
// by recomputing its SHA-256. Every entry is attempted: a hash mismatch
// or a per-file write failure is recorded and does not stop the rest.
// A missing snapshot returns ErrNotFound without touching the
// filesystem.
func (s *Store) Restore(id, root string) (*Report, error) {
	snap, err := s.Load(id)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(snap.Files))
	for p := range snap.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	report := &Report{}
	for _, rel := range paths {
		entry := snap.Files[rel]
		target := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			report.Failed = append(report.Failed, rel)
			continue
		}
		if err := os.WriteFile(target, []byte(entry.Content), 0o644); err != nil {
			report.Failed = append(report.Failed, rel)
			continue
		}
		report.Restored++

		written, err := os.ReadFile(target)
		if err == nil && HashContent(written) == entry.Hash {
			report.Matched++
		} else {
			report.Mismatched = append(report.Mismatched, rel)
		}
	}
	return report, nil
}
