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
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/bloom/pkg/failure"
)

// 🏃 Run materializes pass into its output directory. With no rules it
// returns a NoOp summary and leaves the output directory as it is.
// Otherwise the output directory is rebuilt from scratch, so a failed pass
// can simply be run again.
func (m *Materializer) Run(ctx context.Context, pass Pass) (*Summary, error) {
	logger := zerolog.Ctx(ctx).With().Str("task", pass.Name).Logger()
	ctx = logger.WithContext(ctx)

	summary := &Summary{Task: pass.Name, OutputDir: pass.OutputDir}
	if pass.Rules.Len() == 0 {
		logger.Debug().Msg("no replacements to make")
		summary.NoOp = true
		return summary, nil
	}

	out, err := m.validate(pass)
	if err != nil {
		return nil, err
	}
	summary.OutputDir = out

	if err := m.fs.RemoveAll(out); err != nil {
		return nil, failure.New(failure.IO, "clearing output directory", out, err)
	}
	if err := m.fs.MkdirAll(out, 0o755); err != nil {
		return nil, failure.New(failure.IO, "creating output directory", out, err)
	}

	for planned, err := range m.plan(ctx, pass, out) {
		if err != nil {
			return nil, err
		}

		switch planned.Action {
		case ActionWrite:
			logger.Debug().Str("file", planned.Dest).Msg("writing to file")
		case ActionCopy:
			logger.Debug().Str("file", planned.Dest).Msg("copying file")
		}

		if planned.Action != ActionSkip {
			if err := m.writeFile(planned); err != nil {
				return nil, err
			}
		}

		summary.add(planned.FileEvent)
		m.report(ctx, planned.FileEvent)
	}

	logger.Debug().
		Int("written", summary.Written).
		Int("copied", summary.Copied).
		Int("skipped", summary.Skipped).
		Msg("task complete")

	return summary, nil
}

// 💾 writeFile puts planned content at its destination, creating parents
func (m *Materializer) writeFile(planned PlannedFile) error {
	if err := m.fs.MkdirAll(filepath.Dir(planned.Dest), 0o755); err != nil {
		return failure.New(failure.IO, "creating parent directories", planned.Dest, err)
	}
	if err := afero.WriteFile(m.fs, planned.Dest, planned.Content, planned.Mode); err != nil {
		return failure.New(failure.IO, "writing file", planned.Dest, err)
	}
	return nil
}
