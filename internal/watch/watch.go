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

// Package watch triggers a callback when files under a directory tree
// change, with debouncing so a burst of writes fires once.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/reposcope/reposcope/internal/logging"
	"github.com/reposcope/reposcope/internal/snapshot"
)

// DefaultDebounce is long enough to coalesce editor save bursts.
const DefaultDebounce = 500 * time.Millisecond

// Watcher observes a directory tree and invokes a callback after
// changes settle.
type Watcher struct {
	root     string
	debounce time.Duration
	fw       *fsnotify.Watcher
}

// New builds a watcher over root. A non-positive debounce falls back to
// DefaultDebounce.
func New(root string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	w := &Watcher{root: root, debounce: debounce, fw: fw}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Close releases the underlying file system watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

// Run blocks, invoking onChange after each settled burst of changes,
// until ctx is cancelled or the watcher fails.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	logger := logging.New("watch")
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if ShouldSkip(w.root, ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				// New directories need their own watch.
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.addTree(ev.Name)
				}
			}
			logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-fire:
			fire = nil
			onChange()
		}
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.Walk(root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if ShouldSkip(w.root, path) && path != w.root {
			return filepath.SkipDir
		}
		if err := w.fw.Add(path); err != nil {
			return errors.Wrapf(err, "watch %s", path)
		}
		return nil
	})
}

// ShouldSkip reports whether a path sits in a tree the watcher ignores:
// version control internals and the snapshot directory itself, which
// every run rewrites.
func ShouldSkip(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		switch part {
		case ".git", snapshot.DefaultDir, "node_modules":
			return true
		}
	}
	return false
}
