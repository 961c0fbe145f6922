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

package text

import (
	"context"
	"io"
	"strings"

	"github.com/walteh/bloom/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// SimpleTextReplacer implements TextReplacer using literal string replacement
type SimpleTextReplacer struct{}

// NewSimpleTextReplacer creates a new SimpleTextReplacer
func NewSimpleTextReplacer() *SimpleTextReplacer {
	return &SimpleTextReplacer{}
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *SimpleTextReplacer) ReplaceText(ctx context.Context, content io.Reader, rs []rules.Rule, dest string) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
	}

	currentContent := string(originalContent)
	for _, rule := range Effective(rs, dest) {
		result.ReplacementCount += strings.Count(currentContent, rule.Token)
		currentContent = strings.ReplaceAll(currentContent, rule.Token, rule.Value)

		// applicability, not match count, marks the content modified
		result.WasModified = true
		result.AppliedRules++
	}

	if result.WasModified {
		result.ModifiedContent = []byte(currentContent)
	}
	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *SimpleTextReplacer) ValidateRules(rs []rules.Rule) error {
	for i, rule := range rs {
		if rule.Token == "" {
			return errors.Errorf("rule %d: token is required", i)
		}
	}
	return nil
}

// 🔄 Apply runs rules over content sequentially for the destination path dest.
// Later rules see the output of earlier ones. modified is true whenever an
// applicable rule was evaluated, even if its token was absent; with no
// rules the content is returned untouched and modified is false.
func Apply(content string, rs []rules.Rule, dest string) (string, bool) {
	if len(rs) == 0 {
		return content, false
	}
	modified := false
	for _, rule := range Effective(rs, dest) {
		content = strings.ReplaceAll(content, rule.Token, rule.Value)
		modified = true
	}
	return content, modified
}

// 🎯 Effective returns, in order, the rules applicable to dest. When several
// applicable rules share a token only the last one is kept, so a later rule
// (a scoped one, say) overrides an earlier value for the same token.
// Order matters: a scoped rule only overrides a global rule for the same
// token when it is declared after it. The kept rule also keeps its own
// position, so with @A@->@B@, @B@->x, @A@->y the result for @A@ is y.
func Effective(rs []rules.Rule, dest string) []rules.Rule {
	last := make(map[string]int, len(rs))
	for i, rule := range rs {
		if rule.AppliesTo(dest) {
			last[rule.Token] = i
		}
	}
	out := make([]rules.Rule, 0, len(last))
	for i, rule := range rs {
		if rule.AppliesTo(dest) && last[rule.Token] == i {
			out = append(out, rule)
		}
	}
	return out
}
