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
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/bloom/cmd/bloom/opts"
	"gitlab.com/tozd/go/errors"
)

// NewCleanCommand creates the clean command
func NewCleanCommand(load opts.Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove generated output directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			o, err := load(ctx)
			if err != nil {
				return err
			}

			if err := o.Pipeline.Clean(ctx); err != nil {
				return errors.Errorf("cleaning output directories: %w", err)
			}
			if err := o.Fs.Remove(manifestPath(o.Config)); err != nil && !os.IsNotExist(err) {
				return errors.Errorf("removing redirect manifest: %w", err)
			}

			o.Logger.Successf("removed output of %d tasks", len(o.Tasks))
			return nil
		},
	}
}
