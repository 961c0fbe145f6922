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

package rules

import (
	"path/filepath"
	"slices"
	"sync"
)

// 📚 RuleSet accumulates replacement configuration before a pass.
// It only grows: rules are appended, the global disable flag can only be set,
// and the disabled/allowed lists evict each other so a path is never in both.
type RuleSet struct {
	mu            sync.Mutex
	disabled      bool
	disabledFiles []string
	allowedFiles  []string
	rules         []Rule
}

// 🏭 New creates an empty RuleSet
func New() *RuleSet {
	return &RuleSet{}
}

// DisableGlobalReplacements turns replacements off for every file not explicitly allowed
func (rs *RuleSet) DisableGlobalReplacements() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.disabled = true
}

// DisableReplacements excludes a destination file from the output
func (rs *RuleSet) DisableReplacements(path string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.disabledFiles = appendUnique(rs.disabledFiles, path)
	rs.allowedFiles = remove(rs.allowedFiles, path)
}

// AllowFile re-enables a destination file when global replacements are disabled
func (rs *RuleSet) AllowFile(path string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.allowedFiles = appendUnique(rs.allowedFiles, path)
	rs.disabledFiles = remove(rs.disabledFiles, path)
}

// Replacement adds a rule applied to every processed file
func (rs *RuleSet) Replacement(token string, value any) Rule {
	return rs.add(NewRule(token, value, ""))
}

// ScopedReplacement adds a rule applied only to the destination file at path
func (rs *RuleSet) ScopedReplacement(token string, value any, path string) Rule {
	return rs.add(NewRule(token, value, path))
}

func (rs *RuleSet) add(r Rule) Rule {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.rules = append(rs.rules, r)
	return r
}

func (rs *RuleSet) IsDisabled() bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.disabled
}

func (rs *RuleSet) DisabledFiles() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return slices.Clone(rs.disabledFiles)
}

func (rs *RuleSet) AllowedFiles() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return slices.Clone(rs.allowedFiles)
}

func (rs *RuleSet) Rules() []Rule {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return slices.Clone(rs.rules)
}

// 🧊 Freeze snapshots the current state for one pass. Relative paths (in the
// disabled/allowed lists and rule scopes) are resolved against baseDir.
// Later changes to the RuleSet do not affect the snapshot.
func (rs *RuleSet) Freeze(baseDir string) *Snapshot {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	snap := &Snapshot{
		globallyDisabled: rs.disabled,
		disabled:         make(map[string]struct{}, len(rs.disabledFiles)),
		allowed:          make(map[string]struct{}, len(rs.allowedFiles)),
		rules:            make([]Rule, 0, len(rs.rules)),
	}
	for _, p := range rs.disabledFiles {
		snap.disabled[Canonical(baseDir, p)] = struct{}{}
	}
	for _, p := range rs.allowedFiles {
		snap.allowed[Canonical(baseDir, p)] = struct{}{}
	}
	for _, r := range rs.rules {
		r.Scope = Canonical(baseDir, r.Scope)
		snap.rules = append(snap.rules, r)
	}
	return snap
}

func appendUnique(list []string, path string) []string {
	if slices.Contains(list, path) {
		return list
	}
	return append(list, path)
}

func remove(list []string, path string) []string {
	return slices.DeleteFunc(list, func(p string) bool { return p == path })
}

// 🧊 Snapshot is the read-only rule state consumed by a single pass
type Snapshot struct {
	globallyDisabled bool
	disabled         map[string]struct{}
	allowed          map[string]struct{}
	rules            []Rule
}

// ✅ IsEnabled is the path policy: disabled paths are always excluded, allowed
// paths override the global flag, everything else follows the global flag.
func (s *Snapshot) IsEnabled(dest string) bool {
	if s == nil {
		return true
	}
	dest = filepath.Clean(dest)
	if _, ok := s.disabled[dest]; ok {
		return false
	}
	if _, ok := s.allowed[dest]; ok {
		return true
	}
	return !s.globallyDisabled
}

// Len returns the number of rules, zero for a nil snapshot
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

func (s *Snapshot) GloballyDisabled() bool {
	return s != nil && s.globallyDisabled
}

// Rules returns all rules in order
func (s *Snapshot) Rules() []Rule {
	if s == nil {
		return nil
	}
	return slices.Clone(s.rules)
}

// RulesFor returns, in order, the rules applicable to dest
func (s *Snapshot) RulesFor(dest string) []Rule {
	if s == nil {
		return nil
	}
	dest = filepath.Clean(dest)
	out := make([]Rule, 0, len(s.rules))
	for _, r := range s.rules {
		if r.AppliesTo(dest) {
			out = append(out, r)
		}
	}
	return out
}
