// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package walker enumerates the files of one or more source directories.
package walker

import (
	"context"
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// 📁 SourceRoot is a logical source set: several directories sharing one filter
type SourceRoot struct {
	Dirs     []string // walked in order
	Includes []string // doublestar patterns on the slash-separated relative path, empty keeps everything
	Excludes []string // doublestar patterns, checked after includes
}

// 🔍 Validate checks every include/exclude pattern
func (r SourceRoot) Validate() error {
	for _, p := range append(append([]string{}, r.Includes...), r.Excludes...) {
		if !doublestar.ValidatePattern(p) {
			return errors.Errorf("invalid pattern %q", p)
		}
	}
	return nil
}

// Matches reports whether a slash-separated relative path passes the filter
func (r SourceRoot) Matches(rel string) bool {
	if len(r.Includes) > 0 && !matchAny(r.Includes, rel) {
		return false
	}
	return !matchAny(r.Excludes, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// 📄 File is a discovered source file
type File struct {
	Root string // canonical source directory the file was found under
	Path string // absolute path of the file
	Rel  string // path relative to Root, OS separators
}

// 🚶 Walker walks source roots on a filesystem
type Walker struct {
	fs afero.Fs
}

// 🏭 New creates a walker over fs
func New(fs afero.Fs) *Walker {
	return &Walker{fs: fs}
}

// Walk lazily yields the files of every directory of root that pass its
// filter. Directories are visited in configured order and entries in
// lexical order, so an unchanged tree always yields the same sequence.
// Missing roots and roots that are not directories are logged and skipped.
// Symlinked roots and symlinked subdirectories are followed; a link back to
// a directory already being walked is skipped.
// Every range over the returned sequence walks again from scratch.
func (w *Walker) Walk(ctx context.Context, root SourceRoot) iter.Seq2[File, error] {
	return func(yield func(File, error) bool) {
		logger := zerolog.Ctx(ctx)

		for _, dir := range root.Dirs {
			dir, err := w.resolve(dir)
			if err != nil {
				logger.Debug().Err(err).Str("dir", dir).Msg("skipping invalid directory")
				continue
			}

			info, err := w.fs.Stat(dir)
			if err != nil || !info.IsDir() {
				logger.Debug().Str("dir", dir).Msg("skipping invalid directory")
				continue
			}

			t := &traversal{ctx: ctx, fs: w.fs, filter: root, base: dir, yield: yield, active: map[string]struct{}{}}
			cont, err := t.walk(dir, dir)
			if !cont {
				return
			}
			if err != nil {
				yield(File{}, errors.Errorf("walking %s: %w", dir, err))
				return
			}
		}
	}
}

// resolve makes dir absolute and, on the OS filesystem, resolves symlinks
func (w *Walker) resolve(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return dir, errors.Errorf("resolving source directory: %w", err)
	}
	if _, ok := w.fs.(*afero.OsFs); !ok {
		return dir, nil
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return dir, errors.Errorf("resolving source directory: %w", err)
	}
	return resolved, nil
}

// traversal is the state of walking one source directory
type traversal struct {
	ctx    context.Context
	fs     afero.Fs
	filter SourceRoot
	base   string
	yield  func(File, error) bool
	active map[string]struct{} // real paths of the directories being walked
}

// walk visits dir, whose symlink-free location is canonical. It returns false
// once the consumer has stopped.
func (t *traversal) walk(dir, canonical string) (bool, error) {
	if err := t.ctx.Err(); err != nil {
		return true, err
	}
	if _, ok := t.active[canonical]; ok {
		zerolog.Ctx(t.ctx).Debug().Str("dir", dir).Msg("skipping symlink cycle")
		return true, nil
	}
	t.active[canonical] = struct{}{}
	defer delete(t.active, canonical)

	entries, err := afero.ReadDir(t.fs, dir)
	if err != nil {
		return true, err
	}

	for _, entry := range entries {
		if err := t.ctx.Err(); err != nil {
			return true, err
		}

		path := filepath.Join(dir, entry.Name())
		entryCanonical := filepath.Join(canonical, entry.Name())

		if entry.Mode()&fs.ModeSymlink != 0 {
			target, err := t.fs.Stat(path)
			if err != nil {
				zerolog.Ctx(t.ctx).Debug().Err(err).Str("path", path).Msg("skipping dangling symlink")
				continue
			}
			if target.IsDir() {
				if entryCanonical, err = filepath.EvalSymlinks(path); err != nil {
					return true, errors.Errorf("resolving %s: %w", path, err)
				}
			}
			entry = target
		}

		if entry.IsDir() {
			cont, err := t.walk(path, entryCanonical)
			if !cont || err != nil {
				return cont, err
			}
			continue
		}

		rel, err := filepath.Rel(t.base, path)
		if err != nil {
			return true, errors.Errorf("relativizing %s: %w", path, err)
		}
		if !t.filter.Matches(filepath.ToSlash(rel)) {
			continue
		}
		if !t.yield(File{Root: t.base, Path: path, Rel: rel}, nil) {
			return false, nil
		}
	}
	return true, nil
}

// Files collects Walk into a slice
func (w *Walker) Files(ctx context.Context, root SourceRoot) ([]File, error) {
	var files []File
	for f, err := range w.Walk(ctx, root) {
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}
