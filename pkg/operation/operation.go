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

package operation

import (
	"context"

	"github.com/spf13/afero"
	"github.com/walteh/bloom/pkg/rules"
	"github.com/walteh/bloom/pkg/text"
	"github.com/walteh/bloom/pkg/walker"
)

// 🎬 Action is what a pass does with one source file
type Action int

const (
	ActionWrite Action = iota // replaced text written
	ActionCopy                // original bytes copied
	ActionSkip                // excluded by the path policy, absent from the output
)

func (a Action) String() string {
	switch a {
	case ActionWrite:
		return "written"
	case ActionCopy:
		return "copied"
	case ActionSkip:
		return "skipped"
	default:
		return "unknown"
	}
}

// 📦 Pass is the complete, self-contained input of one materialization
type Pass struct {
	Name      string             // task name, used for logging
	Source    *walker.SourceRoot // nil is a configuration error
	Rules     *rules.Snapshot    // nil or empty makes the pass a no-op
	OutputDir string             // removed and recreated on every pass
}

// 📄 FileEvent describes what happened to one source file
type FileEvent struct {
	Task         string
	Source       string // absolute source path
	Dest         string // canonical destination path
	Rel          string // path relative to its source root and to the output dir
	Action       Action
	Replacements int // token occurrences replaced
}

// 📣 Reporter receives an event for every file a pass handles.
// Implementations must be safe for concurrent use when passes run in parallel.
type Reporter interface {
	ReportFile(ctx context.Context, ev FileEvent)
}

// 📊 Summary is the outcome of a pass
type Summary struct {
	Task      string
	OutputDir string
	NoOp      bool
	Written   int
	Copied    int
	Skipped   int
	Files     []FileEvent
}

func (s *Summary) add(ev FileEvent) {
	switch ev.Action {
	case ActionWrite:
		s.Written++
	case ActionCopy:
		s.Copied++
	case ActionSkip:
		s.Skipped++
	}
	s.Files = append(s.Files, ev)
}

// 🔧 Options configures a Materializer
type Options struct {
	Fs       afero.Fs          // defaults to the OS filesystem
	Replacer text.TextReplacer // defaults to text.SimpleTextReplacer
	Reporter Reporter          // optional
}

// 🏗️ Materializer runs passes. It holds no per-pass state and may run
// several passes concurrently as long as their output directories differ.
type Materializer struct {
	fs       afero.Fs
	walker   *walker.Walker
	replacer text.TextReplacer
	reporter Reporter
}

// 🏭 New creates a Materializer
func New(opts Options) *Materializer {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Replacer == nil {
		opts.Replacer = text.NewSimpleTextReplacer()
	}
	return &Materializer{
		fs:       opts.Fs,
		walker:   walker.New(opts.Fs),
		replacer: opts.Replacer,
		reporter: opts.Reporter,
	}
}

func (m *Materializer) report(ctx context.Context, ev FileEvent) {
	if m.reporter != nil {
		m.reporter.ReportFile(ctx, ev)
	}
}
