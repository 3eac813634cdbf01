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

package stages

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/reposcope/reposcope/internal/flow"
	"github.com/reposcope/reposcope/internal/logging"
	"github.com/reposcope/reposcope/internal/snapshot"
)

// SaveSnapshot captures the collected files and writes a snapshot
// document. A disk write failure is fatal to the run. Params:
//
//	dir string  snapshot directory, default .ai-snapshots under the
//	            project root
type SaveSnapshot struct{}

func (SaveSnapshot) Name() string { return "save_snapshot" }

type saveInput struct {
	root      string
	files     []string
	timestamp string
	dir       string
	analysis  string
}

type saveOutput struct {
	id   string
	path string
}

func (SaveSnapshot) Prepare(c *flow.Context, p flow.Params) (any, error) {
	in := saveInput{
		root:      c.GetString(KeyProjectRoot),
		files:     c.GetStringSlice(KeyFiles),
		timestamp: c.GetString(KeyTimestamp),
		dir:       p.String("dir", ""),
		analysis:  c.GetString(KeyLLMResponse),
	}
	if in.root == "" {
		return nil, errors.New("project_root not set")
	}
	if in.timestamp == "" {
		return nil, errors.New("timestamp not set")
	}
	if in.dir == "" {
		in.dir = filepath.Join(in.root, snapshot.DefaultDir)
	}
	return in, nil
}

func (SaveSnapshot) Execute(ctx context.Context, local any, p flow.Params) (any, error) {
	in := local.(saveInput)

	paths := make([]string, len(in.files))
	for i, rel := range in.files {
		paths[i] = filepath.Join(in.root, rel)
	}
	snap, err := snapshot.Capture(in.root, paths)
	if err != nil {
		return nil, errors.Wrap(err, "capturing files")
	}
	snap.Timestamp = in.timestamp
	snap.Analysis = in.analysis

	store := snapshot.NewStore(in.dir)
	path, err := store.Write(snap)
	if err != nil {
		return nil, errors.Wrap(err, "writing snapshot")
	}

	logging.New("snapshot").Info("snapshot saved",
		"id", in.timestamp, "path", path, "files", len(in.files))
	return saveOutput{id: in.timestamp, path: path}, nil
}

func (SaveSnapshot) Finalize(c *flow.Context, local, out any, p flow.Params) flow.Signal {
	o := out.(saveOutput)
	c.Set(KeySnapshotID, o.id)
	c.Set(KeySnapshotPath, o.path)
	return SignalSnapshotSaved
}
