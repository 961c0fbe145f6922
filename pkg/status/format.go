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

package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	statusWidth = 15 // Width for status text
)

// 🎯 FormatEntry formats a status entry for display
func FormatEntry(e Entry) string {
	var prefix string
	switch e.Status {
	case StatusNew:
		prefix = color.GreenString("✓")
	case StatusModified:
		prefix = color.YellowString("⟳")
	case StatusStale:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	return fmt.Sprintf("%s%s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		fmt.Sprintf("%-*s", nameWidth, e.Path),
		fmt.Sprintf("%-*s", statusWidth, e.Status),
	)
}

// 📝 FormatSummary formats the counts of a report on one line
func FormatSummary(r *Report) string {
	if r.NoOp {
		return fmt.Sprintf("%s: no replacements configured", r.Task)
	}
	if r.UpToDate() {
		return fmt.Sprintf("%s: up to date (%d files)", r.Task, len(r.Entries))
	}
	return fmt.Sprintf("%s: %d new, %d modified, %d stale, %d unchanged",
		r.Task,
		r.Count(StatusNew),
		r.Count(StatusModified),
		r.Count(StatusStale),
		r.Count(StatusUnchanged),
	)
}
