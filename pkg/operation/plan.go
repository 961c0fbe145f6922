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
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/bloom/pkg/failure"
	"github.com/walteh/bloom/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// 📝 PlannedFile is a file event together with the bytes the pass would put at Dest
type PlannedFile struct {
	FileEvent
	Content []byte      // nil when skipped
	Mode    fs.FileMode // permission bits the file is written with
}

// outputDir validates the pass inputs and returns its canonical output directory
func (p Pass) outputDir() (string, error) {
	if p.Source == nil {
		return "", failure.Newf(failure.Configuration, "task %s: input source directory set is not set", p.Name)
	}
	if p.OutputDir == "" {
		return "", failure.Newf(failure.Configuration, "task %s: output directory is not set", p.Name)
	}
	if err := p.Source.Validate(); err != nil {
		return "", failure.New(failure.Configuration, "validating source filter of task "+p.Name, "", err)
	}
	return rules.Canonical("", p.OutputDir), nil
}

// validate checks the pass inputs and its rules before any I/O happens
func (m *Materializer) validate(pass Pass) (string, error) {
	out, err := pass.outputDir()
	if err != nil {
		return "", err
	}
	if err := m.replacer.ValidateRules(pass.Rules.Rules()); err != nil {
		return "", failure.New(failure.Configuration, "validating rules of task "+pass.Name, "", err)
	}
	return out, nil
}

// 🗺️ Plan lazily computes what a pass would produce without writing anything.
// It does not short-circuit on empty rules; callers decide what a no-op means.
func (m *Materializer) Plan(ctx context.Context, pass Pass) iter.Seq2[PlannedFile, error] {
	out, err := m.validate(pass)
	if err != nil {
		return func(yield func(PlannedFile, error) bool) {
			yield(PlannedFile{}, err)
		}
	}
	return m.plan(ctx, pass, out)
}

func (m *Materializer) plan(ctx context.Context, pass Pass, out string) iter.Seq2[PlannedFile, error] {
	return func(yield func(PlannedFile, error) bool) {
		logger := zerolog.Ctx(ctx)

		for file, err := range m.walker.Walk(ctx, *pass.Source) {
			if err != nil {
				yield(PlannedFile{}, failure.New(failure.IO, "walking sources of task "+pass.Name, "", err))
				return
			}

			dest := filepath.Join(out, file.Rel)
			ev := FileEvent{
				Task:   pass.Name,
				Source: file.Path,
				Dest:   dest,
				Rel:    file.Rel,
			}

			if !pass.Rules.IsEnabled(dest) {
				logger.Debug().Str("file", dest).Msg("skipping file")
				ev.Action = ActionSkip
				if !yield(PlannedFile{FileEvent: ev}, nil) {
					return
				}
				continue
			}
			logger.Debug().Str("file", dest).Msg("processing file")

			planned, err := m.planFile(ctx, pass, ev)
			if err != nil {
				yield(PlannedFile{}, err)
				return
			}
			if !yield(planned, nil) {
				return
			}
		}
	}
}

// 📄 planFile reads a source file and runs the applicable rules over it
func (m *Materializer) planFile(ctx context.Context, pass Pass, ev FileEvent) (PlannedFile, error) {
	info, err := m.fs.Stat(ev.Source)
	if err != nil {
		return PlannedFile{}, failure.New(failure.IO, "reading file", ev.Source, err)
	}

	f, err := m.fs.Open(ev.Source)
	if err != nil {
		return PlannedFile{}, failure.New(failure.IO, "reading file", ev.Source, err)
	}
	defer f.Close()

	result, err := m.replacer.ReplaceText(ctx, f, pass.Rules.RulesFor(ev.Dest), ev.Dest)
	if err != nil {
		return PlannedFile{}, failure.New(failure.IO, "reading file", ev.Source, errors.Errorf("replacing text: %w", err))
	}

	if result.WasModified {
		ev.Action = ActionWrite
		ev.Replacements = result.ReplacementCount
		return PlannedFile{FileEvent: ev, Content: result.ModifiedContent, Mode: 0o644}, nil
	}

	ev.Action = ActionCopy
	return PlannedFile{FileEvent: ev, Content: result.OriginalContent, Mode: info.Mode().Perm()}, nil
}
