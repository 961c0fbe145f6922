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
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/walteh/bloom/pkg/failure"
	"github.com/walteh/bloom/pkg/status"
)

// 🔍 Status compares a task's output directory with what Run would produce,
// without writing anything. Files a fresh pass would not create are stale.
func (m *Materializer) Status(ctx context.Context, pass Pass) (*status.Report, error) {
	report := &status.Report{Task: pass.Name, OutputDir: pass.OutputDir}
	if pass.Rules.Len() == 0 {
		report.NoOp = true
		return report, nil
	}

	out, err := m.validate(pass)
	if err != nil {
		return nil, err
	}
	report.OutputDir = out

	expected := make(map[string]struct{})
	for planned, err := range m.plan(ctx, pass, out) {
		if err != nil {
			return nil, err
		}
		if planned.Action == ActionSkip {
			continue
		}
		expected[planned.Dest] = struct{}{}

		current, err := afero.ReadFile(m.fs, planned.Dest)
		switch {
		case os.IsNotExist(err):
			report.Add(planned.Rel, status.StatusNew)
		case err != nil:
			return nil, failure.New(failure.IO, "reading output file", planned.Dest, err)
		case bytes.Equal(current, planned.Content):
			report.Add(planned.Rel, status.StatusUnchanged)
		default:
			report.Add(planned.Rel, status.StatusModified)
		}
	}

	exists, err := afero.DirExists(m.fs, out)
	if err != nil {
		return nil, failure.New(failure.IO, "reading output directory", out, err)
	}
	if exists {
		err = afero.Walk(m.fs, out, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			if _, ok := expected[path]; ok {
				return nil
			}
			rel, err := filepath.Rel(out, path)
			if err != nil {
				return err
			}
			report.Add(rel, status.StatusStale)
			return nil
		})
		if err != nil {
			return nil, failure.New(failure.IO, "reading output directory", out, err)
		}
	}

	report.Sort()
	return report, nil
}
