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
	"fmt"
	"path/filepath"

	"github.com/spf13/cast"
)

// 🔄 Rule replaces every literal occurrence of Token with Value.
// Rule is comparable; == is structural equality.
type Rule struct {
	Token string // exact substring, not a pattern
	Value string // already stringified
	Scope string // canonical destination path, empty for every file
}

// 🏭 NewRule creates a rule, stringifying value
func NewRule(token string, value any, scope string) Rule {
	return Rule{
		Token: token,
		Value: Stringify(value),
		Scope: scope,
	}
}

// IsGlobal reports whether the rule applies to every processed file
func (r Rule) IsGlobal() bool {
	return r.Scope == ""
}

// AppliesTo reports whether the rule is applicable to the canonical destination path
func (r Rule) AppliesTo(dest string) bool {
	return r.Scope == "" || r.Scope == dest
}

func (r Rule) String() string {
	if r.IsGlobal() {
		return fmt.Sprintf("%s -> %s", r.Token, r.Value)
	}
	return fmt.Sprintf("%s -> %s (%s)", r.Token, r.Value, r.Scope)
}

// 🔤 Stringify turns any replacement value into a string deterministically.
// Scalars, Stringers and errors go through cast; anything else through fmt,
// which prints map keys in sorted order.
func Stringify(v any) string {
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

// 📂 Canonical resolves path against baseDir and cleans it. Empty stays empty.
func Canonical(baseDir, path string) string {
	if path == "" {
		return ""
	}
	if !filepath.IsAbs(path) {
		if baseDir == "" {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
		}
		path = filepath.Join(baseDir, path)
	}
	return filepath.Clean(path)
}
