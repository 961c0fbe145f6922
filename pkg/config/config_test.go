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

package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/bloom/pkg/failure"
	"github.com/walteh/bloom/pkg/rules"
)

func loadString(t *testing.T, name, content string) (*Config, error) {
	t.Helper()
	fs := afero.NewMemMapFs()
	path := filepath.Join(string(filepath.Separator)+"p", name)
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	return LoadFs(ctx, fs, path)
}

func TestLoadYAML(t *testing.T) {
	cfg, err := loadString(t, ".bloom.yaml", `
project:
  name: bloom
  version: 0.1.0
build_dir: out
replacements:
  disabled_files: [out/bloom/main/java/Secret.java]
  rules:
    - token: "@PROJECT_NAME@"
      value: bloom
    - token: "@PORT@"
      value: 8080
      file: out/bloom/main/java/App.java
    - token: "@DEBUG@"
      value: true
source_sets:
  - name: main
    languages:
      - name: java
        dirs: [src/main/java]
        includes: ["**/*.java"]
  - name: test
    inherit: true
    languages:
      - name: java
        dirs: [src/test/java]
        excludes: ["fixtures/**"]
`)
	require.NoError(t, err)

	assert.Equal(t, Project{Name: "bloom", Version: "0.1.0"}, cfg.Project)
	assert.Equal(t, filepath.FromSlash("/p/.bloom.yaml"), cfg.Location())
	assert.Equal(t, filepath.FromSlash("/p"), cfg.BaseDir())
	assert.Equal(t, filepath.FromSlash("/p/out"), cfg.BuildPath())
	require.Len(t, cfg.SourceSets, 2)

	test, ok := cfg.SourceSet("test")
	require.True(t, ok)
	assert.True(t, test.Inherit)
	assert.Equal(t, []string{"fixtures/**"}, test.Languages[0].Excludes)

	root := cfg.SourceRoot(cfg.SourceSets[0].Languages[0])
	assert.Equal(t, []string{filepath.FromSlash("/p/src/main/java")}, root.Dirs)
	assert.Equal(t, []string{"**/*.java"}, root.Includes)

	snap := cfg.RuleSetFor(MainSourceSet).Freeze(cfg.BaseDir())
	assert.Equal(t, []rules.Rule{
		{Token: "@PROJECT_NAME@", Value: "bloom"},
		{Token: "@PORT@", Value: "8080", Scope: filepath.FromSlash("/p/out/bloom/main/java/App.java")},
		{Token: "@DEBUG@", Value: "true"},
	}, snap.Rules())
	assert.False(t, snap.IsEnabled(filepath.FromSlash("/p/out/bloom/main/java/Secret.java")))
	assert.True(t, snap.IsEnabled(filepath.FromSlash("/p/out/bloom/main/java/App.java")))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadString(t, ".bloom.yaml", "")
	require.NoError(t, err)

	assert.Equal(t, DefaultBuildDir, cfg.BuildDir)
	assert.Equal(t, DefaultSourceSets(), cfg.SourceSets)
	assert.Equal(t, filepath.FromSlash("/p/build"), cfg.BuildPath())
	assert.Equal(t, 0, cfg.RuleSetFor(MainSourceSet).Freeze(cfg.BaseDir()).Len())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		config      string
		errContains string
	}{
		{
			name:        "unknown_field",
			file:        ".bloom.yaml",
			config:      "destination: nowhere\n",
			errContains: "field destination not found",
		},
		{
			name:        "empty_token",
			file:        ".bloom.yaml",
			config:      "replacements:\n  rules:\n    - value: x\n",
			errContains: "replacements: rules[0]: token is required",
		},
		{
			name:        "unnamed_source_set",
			file:        ".bloom.yaml",
			config:      "source_sets:\n  - languages: [{name: java, dirs: [src]}]\n",
			errContains: "source_sets[0]: name is required",
		},
		{
			name:        "duplicate_source_set",
			file:        ".bloom.yaml",
			config:      "source_sets:\n  - {name: main, languages: [{name: java, dirs: [a]}]}\n  - {name: main, languages: [{name: java, dirs: [b]}]}\n",
			errContains: "source set main: defined more than once",
		},
		{
			name:        "no_languages",
			file:        ".bloom.yaml",
			config:      "source_sets:\n  - name: main\n",
			errContains: "source set main: at least one language is required",
		},
		{
			name:        "language_without_dirs",
			file:        ".bloom.yaml",
			config:      "source_sets:\n  - {name: main, languages: [{name: java}]}\n",
			errContains: "language java: dirs are required",
		},
		{
			name:        "bad_pattern",
			file:        ".bloom.yaml",
			config:      "source_sets:\n  - {name: main, languages: [{name: java, dirs: [a], excludes: [\"[x\"]}]}\n",
			errContains: "invalid pattern",
		},
		{
			name:        "scoped_set_empty_token",
			file:        ".bloom.yaml",
			config:      "source_sets:\n  - name: test\n    languages: [{name: java, dirs: [a]}]\n    replacements:\n      rules: [{token: \"\"}]\n",
			errContains: "source set test replacements: rules[0]: token is required",
		},
		{
			name:        "broken_hcl",
			file:        ".bloom.hcl",
			config:      "project {",
			errContains: "parsing HCL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadString(t, tt.file, tt.config)
			require.Error(t, err)
			assert.ErrorIs(t, err, failure.Configuration)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFs(context.Background(), afero.NewMemMapFs(), "/nope/.bloom.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.IO)
}

func TestLoadHCL(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := filepath.FromSlash("/p/.bloom.hcl")
	require.NoError(t, afero.WriteFile(fs, path, []byte(`
project {
  name    = "bloom"
  version = "1.2.3"
}

build_dir = "build"

replacements {
  disabled_files = ["build/bloom/main/java/Skip.java"]

  rule {
    token = "@VERSION@"
    value = project.version
  }

  rule {
    token = "@PORT@"
    value = 8080
    file  = "build/bloom/main/java/App.java"
  }

  rule {
    token = "@NAME@"
    value = "${project.name}-app"
  }
}

source_set "main" {
  language "java" {
    dirs     = ["src/main/java"]
    includes = ["**/*.java"]
  }
}

source_set "test" {
  language "kotlin" {
    dirs = ["src/test/kotlin"]
  }

  replacements {
    disable_global = true
    allowed_files  = ["build/bloom/test/kotlin/Only.kt"]

    rule {
      token = "@ENABLED@"
      value = false
    }
  }
}
`), 0o644))

	cfg, err := LoadFs(context.Background(), fs, path)
	require.NoError(t, err)

	assert.Equal(t, Project{Name: "bloom", Version: "1.2.3"}, cfg.Project)
	require.Len(t, cfg.SourceSets, 2)
	assert.Equal(t, "main", cfg.SourceSets[0].Name)
	assert.Equal(t, []Language{{Name: "java", Dirs: []string{"src/main/java"}, Includes: []string{"**/*.java"}}}, cfg.SourceSets[0].Languages)

	require.NotNil(t, cfg.Replacements)
	assert.Equal(t, []Rule{
		{Token: "@VERSION@", Value: "1.2.3"},
		{Token: "@PORT@", Value: "8080", File: "build/bloom/main/java/App.java"},
		{Token: "@NAME@", Value: "bloom-app"},
	}, cfg.Replacements.Rules)

	test := cfg.RuleSetFor("test")
	assert.True(t, test.IsDisabled())
	assert.Equal(t, []string{"build/bloom/test/kotlin/Only.kt"}, test.AllowedFiles())
	assert.Equal(t, []rules.Rule{{Token: "@ENABLED@", Value: "false"}}, test.Rules())
}

func TestHCLEnv(t *testing.T) {
	p := &HCLParser{Env: map[string]string{"BUILD_NUMBER": "42"}}
	cfg, err := p.Parse(context.Background(), "env.hcl", []byte(`
project {
  version = "1.0.${env.BUILD_NUMBER}"
}

replacements {
  rule {
    token = "@BUILD@"
    value = env.BUILD_NUMBER
  }
}
`))
	require.NoError(t, err)
	assert.Equal(t, "1.0.42", cfg.Project.Version)
	assert.Equal(t, "42", cfg.Replacements.Rules[0].Value)

	_, err = (&HCLParser{Env: map[string]string{}}).Parse(context.Background(), "env.hcl", []byte(`build_dir = env.MISSING`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding HCL")
}

func TestLoadWithoutExtension(t *testing.T) {
	cfg, err := loadString(t, ".bloom", "build_dir: gen\n")
	require.NoError(t, err)
	assert.Equal(t, "gen", cfg.BuildDir)

	cfg, err = loadString(t, ".bloom", "build_dir = \"gen2\"\n")
	require.NoError(t, err)
	assert.Equal(t, "gen2", cfg.BuildDir)

	_, err = loadString(t, ".bloom", "build_dir = [\n")
	assert.ErrorIs(t, err, failure.Configuration)
}

func TestGetParser(t *testing.T) {
	assert.IsType(t, &YAMLParser{}, GetParser("a/.bloom.yaml"))
	assert.IsType(t, &YAMLParser{}, GetParser("bloom.yml"))
	assert.IsType(t, &HCLParser{}, GetParser("bloom.hcl"))
	assert.Nil(t, GetParser("bloom.toml"))
}

func TestRuleSetFor(t *testing.T) {
	cfg := &Config{
		Replacements: &Replacements{
			Rules: []Rule{{Token: "@P@", Value: "project"}},
		},
		SourceSets: []SourceSet{
			{Name: "main"},
			{Name: "inherits", Inherit: true, Replacements: &Replacements{
				Rules: []Rule{{Token: "@P@", Value: "own"}},
			}},
			{Name: "own", Replacements: &Replacements{
				Rules: []Rule{{Token: "@O@", Value: 1}},
			}},
			{Name: "bare"},
		},
	}

	tests := []struct {
		set  string
		want []rules.Rule
	}{
		{"main", []rules.Rule{{Token: "@P@", Value: "project"}}},
		{"inherits", []rules.Rule{{Token: "@P@", Value: "project"}, {Token: "@P@", Value: "own"}}},
		{"own", []rules.Rule{{Token: "@O@", Value: "1"}}},
		{"bare", nil},
		{"unknown", nil},
	}
	for _, tt := range tests {
		t.Run(tt.set, func(t *testing.T) {
			got := cfg.RuleSetFor(tt.set).Rules()
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}

	// every call builds an independent RuleSet
	a := cfg.RuleSetFor("main")
	a.Replacement("@X@", "x")
	assert.Len(t, cfg.RuleSetFor("main").Rules(), 1)
}

func TestAllowedBeforeDisabled(t *testing.T) {
	cfg := &Config{Replacements: &Replacements{
		DisableGlobal: true,
		AllowedFiles:  []string{"/o/Both.java", "/o/Allowed.java"},
		DisabledFiles: []string{"/o/Both.java"},
		Rules:         []Rule{{Token: "@A@", Value: "a"}},
	}}

	snap := cfg.RuleSetFor(MainSourceSet).Freeze("/")
	assert.False(t, snap.IsEnabled("/o/Both.java"))
	assert.True(t, snap.IsEnabled("/o/Allowed.java"))
	assert.False(t, snap.IsEnabled("/o/Other.java"))
}
