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

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSnapshotDir(t *testing.T) {
	tests := []struct {
		args []string
		dir  string
		want string
	}{
		{nil, "", filepath.Join(".", ".ai-snapshots")},
		{[]string{"/srv/app"}, "", filepath.Join("/srv/app", ".ai-snapshots")},
		{[]string{"/srv/app"}, "/tmp/snaps", "/tmp/snaps"},
	}
	for _, tt := range tests {
		if got := snapshotDir(tt.args, tt.dir); got != tt.want {
			t.Errorf("snapshotDir(%v, %q) = %q, want %q", tt.args, tt.dir, got, tt.want)
		}
	}
}

func TestSnapshotCommand_EndToEnd(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	cmd := NewRootCommand("test")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"snapshot", root})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v\noutput:\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "snapshot:") {
		t.Errorf("output missing snapshot path:\n%s", out.String())
	}

	out.Reset()
	cmd = NewRootCommand("test")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"snapshot-list", root})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), "1 files") {
		t.Errorf("list output:\n%s", out.String())
	}
}

func TestSnapshotRestoreCommand_NotFound(t *testing.T) {
	root := t.TempDir()

	var out bytes.Buffer
	cmd := NewRootCommand("test")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"snapshot-restore", "20200101_000000", root})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for missing snapshot")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v, want a not-found message", err)
	}
}
