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

	"github.com/rs/zerolog"
	"github.com/walteh/bloom/pkg/failure"
	"github.com/walteh/bloom/pkg/rules"
	"github.com/walteh/bloom/pkg/walker"
)

const (
	// MainSourceSet is the source set whose tasks and compile steps carry no suffix
	MainSourceSet = "main"

	// DefaultBuildDir is used when build_dir is not set
	DefaultBuildDir = "build"
)

// 📦 Project identifies the project being built
type Project struct {
	Name    string `yaml:"name,omitempty"`
	Version string `yaml:"version,omitempty"`
}

// 🔄 Rule is one declarative token replacement
type Rule struct {
	Token string `yaml:"token"`
	Value any    `yaml:"value"`          // stringified when the rule set is built
	File  string `yaml:"file,omitempty"` // destination path the rule is scoped to
}

// 🔧 Replacements is the declarative form of a rules.RuleSet
type Replacements struct {
	DisableGlobal bool     `yaml:"disable_global,omitempty"`
	DisabledFiles []string `yaml:"disabled_files,omitempty"`
	AllowedFiles  []string `yaml:"allowed_files,omitempty"`
	Rules         []Rule   `yaml:"rules,omitempty"`
}

// 🗣️ Language is one source tree of a source set
type Language struct {
	Name     string   `yaml:"name"`
	Dirs     []string `yaml:"dirs"`
	Includes []string `yaml:"includes,omitempty"`
	Excludes []string `yaml:"excludes,omitempty"`
}

// 🧩 SourceSet groups the languages compiled together
type SourceSet struct {
	Name         string        `yaml:"name"`
	Inherit      bool          `yaml:"inherit,omitempty"`
	Languages    []Language    `yaml:"languages"`
	Replacements *Replacements `yaml:"replacements,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Project      Project       `yaml:"project,omitempty"`
	BuildDir     string        `yaml:"build_dir,omitempty"`
	Replacements *Replacements `yaml:"replacements,omitempty"`
	SourceSets   []SourceSet   `yaml:"source_sets,omitempty"`

	location string
}

// Location returns the absolute path the config was loaded from, if any
func (c *Config) Location() string {
	return c.location
}

// 📁 BaseDir is the directory relative paths are resolved against
func (c *Config) BaseDir() string {
	if c.location == "" {
		return rules.Canonical("", ".")
	}
	return filepath.Dir(c.location)
}

// BuildPath returns the canonical build directory
func (c *Config) BuildPath() string {
	dir := c.BuildDir
	if dir == "" {
		dir = DefaultBuildDir
	}
	return rules.Canonical(c.BaseDir(), dir)
}

// SourceSet returns the named source set
func (c *Config) SourceSet(name string) (SourceSet, bool) {
	for _, s := range c.SourceSets {
		if s.Name == name {
			return s, true
		}
	}
	return SourceSet{}, false
}

// 📂 SourceRoot returns the walker root of a language with its dirs made absolute
func (c *Config) SourceRoot(l Language) walker.SourceRoot {
	dirs := make([]string, 0, len(l.Dirs))
	for _, d := range l.Dirs {
		dirs = append(dirs, rules.Canonical(c.BaseDir(), d))
	}
	return walker.SourceRoot{
		Dirs:     dirs,
		Includes: l.Includes,
		Excludes: l.Excludes,
	}
}

// 🏗️ RuleSetFor builds a fresh RuleSet for a source set. Unknown source sets
// other than main get an empty RuleSet, which makes their passes no-ops.
func (c *Config) RuleSetFor(sourceSet string) *rules.RuleSet {
	rs := rules.New()
	set, _ := c.SourceSet(sourceSet)

	if sourceSet == MainSourceSet || set.Inherit {
		c.Replacements.applyTo(rs)
	}
	set.Replacements.applyTo(rs)
	return rs
}

func (r *Replacements) applyTo(rs *rules.RuleSet) {
	if r == nil {
		return
	}
	if r.DisableGlobal {
		rs.DisableGlobalReplacements()
	}
	for _, p := range r.AllowedFiles {
		rs.AllowFile(p)
	}
	for _, p := range r.DisabledFiles {
		rs.DisableReplacements(p)
	}
	for _, rule := range r.Rules {
		if rule.File != "" {
			rs.ScopedReplacement(rule.Token, rule.Value, rule.File)
			continue
		}
		rs.Replacement(rule.Token, rule.Value)
	}
}

// 🔍 Validate fills defaults and checks the configuration
func (c *Config) Validate(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	if c.BuildDir == "" {
		c.BuildDir = DefaultBuildDir
	}
	if len(c.SourceSets) == 0 {
		logger.Debug().Msg("no source sets configured, using defaults")
		c.SourceSets = DefaultSourceSets()
	}

	if err := c.Replacements.validate("replacements"); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.SourceSets))
	for i, s := range c.SourceSets {
		if s.Name == "" {
			return failure.Newf(failure.Configuration, "source_sets[%d]: name is required", i)
		}
		if seen[s.Name] {
			return failure.Newf(failure.Configuration, "source set %s: defined more than once", s.Name)
		}
		seen[s.Name] = true

		if len(s.Languages) == 0 {
			return failure.Newf(failure.Configuration, "source set %s: at least one language is required", s.Name)
		}
		langs := make(map[string]bool, len(s.Languages))
		for j, l := range s.Languages {
			if l.Name == "" {
				return failure.Newf(failure.Configuration, "source set %s: languages[%d]: name is required", s.Name, j)
			}
			if langs[l.Name] {
				return failure.Newf(failure.Configuration, "source set %s: language %s defined more than once", s.Name, l.Name)
			}
			langs[l.Name] = true
			if len(l.Dirs) == 0 {
				return failure.Newf(failure.Configuration, "source set %s: language %s: dirs are required", s.Name, l.Name)
			}
			if err := c.SourceRoot(l).Validate(); err != nil {
				return failure.New(failure.Configuration, "validating source set "+s.Name+" language "+l.Name, "", err)
			}
		}

		if err := s.Replacements.validate("source set " + s.Name + " replacements"); err != nil {
			return err
		}
	}

	return nil
}

func (r *Replacements) validate(where string) error {
	if r == nil {
		return nil
	}
	for i, rule := range r.Rules {
		if rule.Token == "" {
			return failure.Newf(failure.Configuration, "%s: rules[%d]: token is required", where, i)
		}
	}
	return nil
}

// DefaultSourceSets is the layout used when the config names no source sets
func DefaultSourceSets() []SourceSet {
	return []SourceSet{
		{
			Name: MainSourceSet,
			Languages: []Language{
				{Name: "java", Dirs: []string{filepath.Join("src", "main", "java")}},
				{Name: "kotlin", Dirs: []string{filepath.Join("src", "main", "kotlin")}},
			},
		},
	}
}
