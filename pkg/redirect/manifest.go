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
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"github.com/spf13/afero"
	"github.com/walteh/bloom/pkg/failure"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the manifest location relative to the build dir
const ManifestFile = "redirects.yaml"

// 📝 ManifestEntry is the redirected state of one compile step
type ManifestEntry struct {
	Name      string   `yaml:"name"`
	Sources   []string `yaml:"sources"`
	DependsOn []string `yaml:"depends_on,omitempty"`
}

type manifestFile struct {
	CompileTasks []ManifestEntry `yaml:"compile_tasks"`
}

// 🗂️ Manifest is a Registry of named compile steps whose redirected inputs
// and ordering are persisted as YAML for an external build to pick up.
type Manifest struct {
	mu      sync.Mutex
	entries map[string]*ManifestEntry
}

// 🏭 NewManifest creates a manifest knowing the given compile steps
func NewManifest(names ...string) *Manifest {
	m := &Manifest{entries: make(map[string]*ManifestEntry)}
	for _, name := range names {
		m.Register(name)
	}
	return m
}

// Register adds a compile step, keeping it as is when already known
func (m *Manifest) Register(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[name]; !ok {
		m.entries[name] = &ManifestEntry{Name: name}
	}
}

// Lookup implements Registry
func (m *Manifest) Lookup(name string) (CompileTask, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[name]; !ok {
		return nil, false
	}
	return &manifestTask{m: m, name: name}, true
}

// Entries returns a copy of every entry sorted by name
func (m *Manifest) Entries() []ManifestEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ManifestEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, ManifestEntry{
			Name:      e.Name,
			Sources:   slices.Clone(e.Sources),
			DependsOn: slices.Clone(e.DependsOn),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// 💾 Write stores the manifest at path, creating parent directories
func (m *Manifest) Write(fs afero.Fs, path string) error {
	data, err := yaml.Marshal(manifestFile{CompileTasks: m.Entries()})
	if err != nil {
		return errors.Errorf("marshaling manifest: %w", err)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return failure.New(failure.IO, "creating manifest directory", path, err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return failure.New(failure.IO, "writing manifest", path, err)
	}
	return nil
}

// 📖 ReadManifest loads a manifest written by Write
func ReadManifest(fs afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, failure.New(failure.IO, "reading manifest", path, err)
	}

	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, failure.New(failure.Configuration, "parsing manifest", path, err)
	}

	m := NewManifest()
	for _, e := range file.CompileTasks {
		m.entries[e.Name] = &e
	}
	return m, nil
}

type manifestTask struct {
	m    *Manifest
	name string
}

func (t *manifestTask) SetSourceInput(dir string) error {
	if dir == "" {
		return errors.Errorf("compile step %s: empty source input", t.name)
	}
	if !filepath.IsAbs(dir) {
		return errors.Errorf("compile step %s: source input %q is not absolute", t.name, dir)
	}

	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	t.m.entries[t.name].Sources = []string{filepath.Clean(dir)}
	return nil
}

func (t *manifestTask) DependsOn(task string) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	e := t.m.entries[t.name]
	if !slices.Contains(e.DependsOn, task) {
		e.DependsOn = append(e.DependsOn, task)
	}
}
