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

	"github.com/rs/zerolog"
	"github.com/walteh/bloom/pkg/failure"
	"github.com/walteh/bloom/pkg/rules"
)

// 🧹 Clean removes a task's output directory. A missing directory is not an error.
func (m *Materializer) Clean(ctx context.Context, outputDir string) error {
	if outputDir == "" {
		return failure.Newf(failure.Configuration, "output directory is not set")
	}
	out := rules.Canonical("", outputDir)

	zerolog.Ctx(ctx).Debug().Str("dir", out).Msg("removing output directory")
	if err := m.fs.RemoveAll(out); err != nil {
		return failure.New(failure.IO, "removing output directory", out, err)
	}
	return nil
}
