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
	"sort"
)

// 📊 FileStatus represents how an output file compares with what a fresh pass would produce
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusNew                  // file would be created
	StatusModified             // file exists but content differs
	StatusUnchanged            // file exists and content matches
	StatusStale                // file exists but a fresh pass would not produce it
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusStale:
		return "stale"
	default:
		return "unknown"
	}
}

// 📄 Entry is the status of one output file
type Entry struct {
	Path   string     // path relative to the output directory
	Status FileStatus // comparison result
}

// 📋 Report is the status of one task's output directory
type Report struct {
	Task      string
	OutputDir string
	NoOp      bool // the task has no rules, its output is never touched
	Entries   []Entry
}

// Add records an entry
func (r *Report) Add(path string, s FileStatus) {
	r.Entries = append(r.Entries, Entry{Path: path, Status: s})
}

// Sort orders entries by path
func (r *Report) Sort() {
	sort.SliceStable(r.Entries, func(i, j int) bool {
		return r.Entries[i].Path < r.Entries[j].Path
	})
}

// Count returns the number of entries with status s
func (r *Report) Count(s FileStatus) int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == s {
			n++
		}
	}
	return n
}

// UpToDate reports whether running the task would leave the output as it is
func (r *Report) UpToDate() bool {
	if r.NoOp {
		return true
	}
	return r.Count(StatusUnchanged) == len(r.Entries)
}
