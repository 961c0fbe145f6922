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
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/bloom/cmd/bloom/opts"
	"gitlab.com/tozd/go/errors"
)

// NewTasksCommand creates the tasks command
func NewTasksCommand(load opts.Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List the planned replacement tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := load(cmd.Context())
			if err != nil {
				return err
			}

			data := pterm.TableData{{"Task", "Source set", "Language", "Sources", "Output", "Compile step", "Rules"}}
			for _, t := range o.Tasks {
				data = append(data, []string{
					t.Name,
					t.SourceSet,
					t.Language,
					strings.Join(t.Source.Dirs, ", "),
					t.OutputDir,
					t.CompileTask,
					fmt.Sprint(t.Rules.Len()),
				})
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering tasks: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}
