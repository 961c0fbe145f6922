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

	"github.com/walteh/bloom/pkg/rules"
)

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified is true when at least one applicable rule was evaluated,
	// whether or not its token occurred in the content
	WasModified bool

	// ReplacementCount is the number of token occurrences replaced
	ReplacementCount int

	// AppliedRules is the number of rules whose scope matched
	AppliedRules int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// Changed reports whether the content actually differs after replacement
func (r *ReplacementResult) Changed() bool {
	return string(r.OriginalContent) != string(r.ModifiedContent)
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies, in order, the rules applicable to the destination
	// path dest to the content
	ReplaceText(ctx context.Context, content io.Reader, rules []rules.Rule, dest string) (*ReplacementResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []rules.Rule) error
}
