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

package walker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.FromSlash(path), []byte(content), 0o644))
	}
	return fs
}

func rels(files []File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, filepath.ToSlash(f.Rel))
	}
	return out
}

func TestWalk(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		"/src/java/b/B.java":      "b",
		"/src/java/a/A.java":      "a",
		"/src/java/Main.java":     "main",
		"/src/java/notes.txt":     "notes",
		"/src/java/gen/G.java":    "gen",
		"/src/kotlin/K.kt":        "k",
		"/src/kotlin/sub/Sub.kt":  "sub",
		"/src/kotlin/Ignored.txt": "ignored",
	})

	tests := []struct {
		name string
		root SourceRoot
		want []string
	}{
		{
			name: "no_filter",
			root: SourceRoot{Dirs: []string{"/src/java"}},
			want: []string{"Main.java", "a/A.java", "b/B.java", "gen/G.java", "notes.txt"},
		},
		{
			name: "include_pattern",
			root: SourceRoot{Dirs: []string{"/src/java"}, Includes: []string{"**/*.java"}},
			want: []string{"Main.java", "a/A.java", "b/B.java", "gen/G.java"},
		},
		{
			name: "include_and_exclude",
			root: SourceRoot{
				Dirs:     []string{"/src/java"},
				Includes: []string{"**/*.java"},
				Excludes: []string{"gen/**"},
			},
			want: []string{"Main.java", "a/A.java", "b/B.java"},
		},
		{
			name: "filter_applies_to_every_root",
			root: SourceRoot{
				Dirs:     []string{"/src/java", "/src/kotlin"},
				Excludes: []string{"**/*.txt", "gen/**"},
			},
			want: []string{"Main.java", "a/A.java", "b/B.java", "K.kt", "sub/Sub.kt"},
		},
		{
			name: "missing_and_file_roots_skipped",
			root: SourceRoot{Dirs: []string{"/does/not/exist", "/src/java/Main.java", "/src/kotlin"}},
			want: []string{"Ignored.txt", "K.kt", "sub/Sub.kt"},
		},
		{
			name: "no_roots",
			root: SourceRoot{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
			w := New(fs)

			files, err := w.Files(ctx, tt.root)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rels(files))
		})
	}
}

func TestWalkFileFields(t *testing.T) {
	fs := newTestFs(t, map[string]string{"/src/a/A.java": "a"})

	files, err := New(fs).Files(context.Background(), SourceRoot{Dirs: []string{"/src/../src"}})
	require.NoError(t, err)
	require.Len(t, files, 1)

	assert.Equal(t, filepath.FromSlash("/src"), files[0].Root)
	assert.Equal(t, filepath.FromSlash("/src/a/A.java"), files[0].Path)
	assert.Equal(t, filepath.FromSlash("a/A.java"), files[0].Rel)
}

func TestWalkDeterministicAndRestartable(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		"/src/z.txt":   "z",
		"/src/m/m.txt": "m",
		"/src/a.txt":   "a",
	})
	w := New(fs)
	seq := w.Walk(context.Background(), SourceRoot{Dirs: []string{"/src"}})

	var first, second []string
	for f, err := range seq {
		require.NoError(t, err)
		first = append(first, f.Rel)
	}
	for f, err := range seq {
		require.NoError(t, err)
		second = append(second, f.Rel)
	}
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestWalkEarlyBreak(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		"/a/1.txt": "1",
		"/a/2.txt": "2",
		"/b/3.txt": "3",
	})

	count := 0
	for _, err := range New(fs).Walk(context.Background(), SourceRoot{Dirs: []string{"/a", "/b"}}) {
		require.NoError(t, err)
		count++
		if count == 1 {
			break
		}
	}
	assert.Equal(t, 1, count)
}

func TestWalkCancelled(t *testing.T) {
	fs := newTestFs(t, map[string]string{"/a/1.txt": "1"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(fs).Files(ctx, SourceRoot{Dirs: []string{"/a"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSourceRootValidate(t *testing.T) {
	assert.NoError(t, SourceRoot{Includes: []string{"**/*.java"}, Excludes: []string{"gen/**"}}.Validate())

	err := SourceRoot{Excludes: []string{"[unclosed"}}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid pattern "[unclosed"`)
}

func symlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
}

func TestWalkFollowsSymlinks(t *testing.T) {
	tmp := t.TempDir()
	for rel, content := range map[string]string{
		"shared/S.java": "s",
		"src/Main.java": "m",
		"src/notes.txt": "n",
	} {
		path := filepath.Join(tmp, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	src := filepath.Join(tmp, "src")
	symlink(t, filepath.Join(tmp, "shared"), filepath.Join(src, "shared"))
	symlink(t, filepath.Join(tmp, "shared", "S.java"), filepath.Join(src, "Link.java"))
	symlink(t, src, filepath.Join(src, "loop"))
	symlink(t, filepath.Join(tmp, "missing"), filepath.Join(src, "dangling"))
	symlink(t, src, filepath.Join(tmp, "linkroot"))

	canonicalSrc, err := filepath.EvalSymlinks(src)
	require.NoError(t, err)

	tests := []struct {
		name string
		root SourceRoot
		want []string
	}{
		{
			name: "symlinked_subdirectory",
			root: SourceRoot{Dirs: []string{src}},
			want: []string{"Link.java", "Main.java", "notes.txt", "shared/S.java"},
		},
		{
			name: "symlinked_root",
			root: SourceRoot{Dirs: []string{filepath.Join(tmp, "linkroot")}},
			want: []string{"Link.java", "Main.java", "notes.txt", "shared/S.java"},
		},
		{
			name: "symlinked_root_with_include",
			root: SourceRoot{Dirs: []string{filepath.Join(tmp, "linkroot")}, Includes: []string{"**/*.java"}},
			want: []string{"Link.java", "Main.java", "shared/S.java"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

			files, err := New(afero.NewOsFs()).Files(ctx, tt.root)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rels(files))
			for _, f := range files {
				assert.Equal(t, canonicalSrc, f.Root)
			}
		})
	}
}
