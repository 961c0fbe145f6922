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

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/bloom/cmd/bloom/opts"
	"github.com/walteh/bloom/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewStatusCommand creates the status command
func NewStatusCommand(load opts.Loader) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check if output directories are up to date",
		Long: `Status computes what run would produce and compares it with the output
directories on disk, without writing anything. Files are reported as new,
modified, unchanged, or stale when a fresh run would remove them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			o, err := load(ctx)
			if err != nil {
				return err
			}

			reports, err := o.Pipeline.Status(ctx)
			if err != nil {
				return errors.Errorf("checking status: %w", err)
			}

			out := cmd.OutOrStdout()
			data := pterm.TableData{{"Task", "New", "Modified", "Stale", "Unchanged", "State"}}
			pending := 0
			for _, r := range reports {
				state := "up to date"
				switch {
				case r.NoOp:
					state = "no replacements"
				case !r.UpToDate():
					state = "needs run"
					pending++
				}
				data = append(data, []string{
					r.Task,
					fmt.Sprint(r.Count(status.StatusNew)),
					fmt.Sprint(r.Count(status.StatusModified)),
					fmt.Sprint(r.Count(status.StatusStale)),
					fmt.Sprint(r.Count(status.StatusUnchanged)),
					state,
				})
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering status: %w", err)
			}
			fmt.Fprintln(out, table)

			if verbose {
				for _, r := range reports {
					fmt.Fprintln(out, status.FormatSummary(r))
					for _, e := range r.Entries {
						if e.Status != status.StatusUnchanged {
							fmt.Fprintln(out, status.FormatEntry(e))
						}
					}
				}
			}

			if pending > 0 {
				o.Logger.Warningf("%d tasks need to run", pending)
			} else {
				o.Logger.Success("all tasks are up to date")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list changed files of every task")
	return cmd
}
