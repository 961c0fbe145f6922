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

// Package redirect points downstream compile steps at generated source trees.
//
// Output directories follow a fixed layout so they can be computed during
// configuration, before any pass has run:
//
//	<buildDir>/bloom/<sourceSet>/<language>
//
// A compile step is anything that can take a new source input and be
// ordered after a replacement task. Manifest is the file-backed
// implementation used by the CLI.
package redirect

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/bloom/pkg/failure"
)

// OutputDirName is the directory under the build dir that holds every generated tree
const OutputDirName = "bloom"

// 🔌 SourceInputSetter replaces the source input of a compile step
type SourceInputSetter interface {
	SetSourceInput(dir string) error
}

// 🔗 DependencyTarget orders a compile step after another task
type DependencyTarget interface {
	DependsOn(task string)
}

// 🛠️ CompileTask is a compile step that can be redirected
type CompileTask interface {
	SourceInputSetter
	DependencyTarget
}

// 📚 Registry finds compile steps by name
type Registry interface {
	Lookup(name string) (CompileTask, bool)
}

// 📁 OutputDirectoryFor returns the generated tree of one source set and language
func OutputDirectoryFor(buildDir, sourceSet, language string) string {
	return filepath.Join(buildDir, OutputDirName, sourceSet, language)
}

// 🔀 Wire makes compile read from outputDir and run after task
func Wire(ctx context.Context, compile CompileTask, task, outputDir string) error {
	if compile == nil {
		return failure.Newf(failure.Wiring, "task %s: no compile step to redirect", task)
	}
	if err := compile.SetSourceInput(outputDir); err != nil {
		return failure.New(failure.Wiring, "redirecting compile input of "+task, outputDir, err)
	}
	compile.DependsOn(task)

	zerolog.Ctx(ctx).Debug().
		Str("task", task).
		Str("dir", outputDir).
		Msg("compile input redirected")
	return nil
}
