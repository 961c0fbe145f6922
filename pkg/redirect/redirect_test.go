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

package redirect

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/bloom/pkg/failure"
	"gitlab.com/tozd/go/errors"
)

func TestOutputDirectoryFor(t *testing.T) {
	tests := []struct {
		buildDir  string
		sourceSet string
		language  string
		want      string
	}{
		{"/p/build", "main", "java", "/p/build/bloom/main/java"},
		{"/p/build", "test", "kotlin", "/p/build/bloom/test/kotlin"},
		{"build", "integration", "java", "build/bloom/integration/java"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := OutputDirectoryFor(filepath.FromSlash(tt.buildDir), tt.sourceSet, tt.language)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
			// pure: same inputs, same answer
			assert.Equal(t, got, OutputDirectoryFor(filepath.FromSlash(tt.buildDir), tt.sourceSet, tt.language))
		})
	}
}

type fakeCompile struct {
	setErr  error
	input   string
	depends []string
}

func (f *fakeCompile) SetSourceInput(dir string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.input = dir
	return nil
}

func (f *fakeCompile) DependsOn(task string) {
	f.depends = append(f.depends, task)
}

func TestWire(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	t.Run("redirects_and_orders", func(t *testing.T) {
		c := &fakeCompile{}
		require.NoError(t, Wire(ctx, c, "bloomReplaceJava", "/b/bloom/main/java"))
		assert.Equal(t, "/b/bloom/main/java", c.input)
		assert.Equal(t, []string{"bloomReplaceJava"}, c.depends)
	})

	t.Run("setter_failure_is_wiring", func(t *testing.T) {
		c := &fakeCompile{setErr: errors.New("field is final")}
		err := Wire(ctx, c, "bloomReplaceJava", "/b")
		require.Error(t, err)
		assert.ErrorIs(t, err, failure.Wiring)
		assert.Contains(t, err.Error(), "field is final")
		assert.Empty(t, c.depends, "no ordering after a failed redirect")
	})

	t.Run("nil_compile_is_wiring", func(t *testing.T) {
		assert.ErrorIs(t, Wire(ctx, nil, "bloomReplaceJava", "/b"), failure.Wiring)
	})
}

func TestManifest(t *testing.T) {
	ctx := context.Background()
	out := filepath.FromSlash("/p/build/bloom/main/java")

	m := NewManifest("compileJava", "compileKotlin")
	_, ok := m.Lookup("compileTestJava")
	assert.False(t, ok)

	c, ok := m.Lookup("compileJava")
	require.True(t, ok)
	require.NoError(t, Wire(ctx, c, "bloomReplaceJava", out))
	require.NoError(t, Wire(ctx, c, "bloomReplaceJava", out))

	assert.Equal(t, []ManifestEntry{
		{Name: "compileJava", Sources: []string{out}, DependsOn: []string{"bloomReplaceJava"}},
		{Name: "compileKotlin"},
	}, m.Entries())

	k, ok := m.Lookup("compileKotlin")
	require.True(t, ok)
	assert.ErrorIs(t, Wire(ctx, k, "bloomReplaceKotlin", "relative/dir"), failure.Wiring)
	assert.ErrorIs(t, Wire(ctx, k, "bloomReplaceKotlin", ""), failure.Wiring)
}

func TestManifestWriteRead(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := filepath.FromSlash("/p/build/bloom/" + ManifestFile)
	out := filepath.FromSlash("/p/build/bloom/test/java")

	m := NewManifest("compileTestJava")
	c, _ := m.Lookup("compileTestJava")
	require.NoError(t, c.SetSourceInput(out))
	c.DependsOn("bloomReplaceJavaTest")

	require.NoError(t, m.Write(fs, path))

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "compile_tasks:")
	assert.Contains(t, string(data), "depends_on:")

	read, err := ReadManifest(fs, path)
	require.NoError(t, err)
	assert.Equal(t, m.Entries(), read.Entries())

	_, err = ReadManifest(fs, "/missing.yaml")
	assert.ErrorIs(t, err, failure.IO)

	require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte("compile_tasks: {"), 0o644))
	_, err = ReadManifest(fs, "/bad.yaml")
	assert.ErrorIs(t, err, failure.Configuration)

	assert.ErrorIs(t, m.Write(afero.NewReadOnlyFs(fs), "/other/"+ManifestFile), failure.IO)
}
