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

package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/walteh/bloom/cmd/bloom/opts"
	"github.com/walteh/bloom/pkg/config"
	"github.com/walteh/bloom/pkg/redirect"
	"gitlab.com/tozd/go/errors"
)

// manifestPath is where the redirect manifest of cfg lives
func manifestPath(cfg *config.Config) string {
	return filepath.Join(cfg.BuildPath(), redirect.OutputDirName, redirect.ManifestFile)
}

// NewRunCommand creates the run command
func NewRunCommand(load opts.Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [task...]",
		Short: "Materialize all or the named tasks",
		Long: `Run regenerates the output directory of every task (or only the named
ones) from its source set, then writes the redirect manifest that points
each compile step at its generated directory.
It will:
1. Load and validate the config
2. Redirect compile steps to the output directories
3. Rebuild every output directory from scratch
4. Save the redirect manifest`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			o, err := load(ctx)
			if err != nil {
				return err
			}

			compiles := make([]string, 0, len(o.Tasks))
			for _, t := range o.Tasks {
				compiles = append(compiles, t.CompileTask)
			}
			manifest := redirect.NewManifest(compiles...)
			if err := o.Pipeline.Configure(ctx, manifest); err != nil {
				return errors.Errorf("configuring compile steps: %w", err)
			}

			o.Logger.Header("materializing sources")

			summaries, err := o.Pipeline.Run(ctx, args...)
			if err != nil {
				o.Logger.Errorf("materializing failed: %v", err)
				return errors.Errorf("running tasks: %w", err)
			}

			if err := manifest.Write(o.Fs, manifestPath(o.Config)); err != nil {
				return errors.Errorf("writing redirect manifest: %w", err)
			}

			o.Logger.LogNewline()
			o.Logger.Successf("%d tasks complete", len(summaries))
			return nil
		},
	}

	return cmd
}
