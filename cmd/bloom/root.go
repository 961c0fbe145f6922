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

package main

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/walteh/bloom/cmd/bloom/commands"
	"github.com/walteh/bloom/cmd/bloom/opts"
	"github.com/walteh/bloom/pkg/config"
	"github.com/walteh/bloom/pkg/log"
	"github.com/walteh/bloom/pkg/pipeline"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	envPrefix = "BLOOM"

	configFlagName  = "config"
	debugFlagName   = "debug"
	logFileFlagName = "log-file"
	jobsFlagName    = "jobs"

	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// newRootCommand builds the bloom command tree. Flags can also be set
// through BLOOM_CONFIG, BLOOM_DEBUG, BLOOM_LOG_FILE and BLOOM_JOBS.
func newRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "bloom",
		Short: "Materialize source trees with build-time token replacement",
		Long: `bloom copies a project's source sets into generated directories under the
build dir, replacing literal tokens such as @VERSION@ with build values,
and points the compile steps at the generated copies.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(setupLogging(cmd.Context(), v, cmd.OutOrStdout(), cmd.ErrOrStderr()))
			return nil
		},
	}

	addRootFlags(cmd, v)

	load := func(ctx context.Context) (*opts.RootOpts, error) {
		return newRootOpts(ctx, v)
	}

	cmd.AddCommand(
		commands.NewRunCommand(load),
		commands.NewTasksCommand(load),
		commands.NewStatusCommand(load),
		commands.NewCleanCommand(load),
		newVersionCommand(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.PersistentFlags().StringP(configFlagName, "c", config.DefaultFile, "config file path")
	cmd.PersistentFlags().BoolP(debugFlagName, "d", false, "enable debug logging")
	cmd.PersistentFlags().String(logFileFlagName, "", "also write JSON logs to this rotated file")
	cmd.PersistentFlags().IntP(jobsFlagName, "j", 0, "tasks to run in parallel (default GOMAXPROCS)")

	for _, name := range []string{configFlagName, debugFlagName, logFileFlagName, jobsFlagName} {
		bindFlag(v, cmd.PersistentFlags().Lookup(name))
	}
}

// bindFlag wires a flag to a viper key so env values feed the flag
func bindFlag(v *viper.Viper, flag *pflag.Flag) {
	cobra.CheckErr(v.BindPFlag(flag.Name, flag))
}

// setupLogging configures zerolog and the console logger from flags.
// Structured logs only reach the terminal with --debug.
func setupLogging(ctx context.Context, v *viper.Viper, stdout, stderr io.Writer) context.Context {
	level := zerolog.InfoLevel
	var writers []io.Writer
	if v.GetBool(debugFlagName) {
		level = zerolog.DebugLevel
		writers = append(writers, zerolog.ConsoleWriter{Out: stderr})
	}
	if path := v.GetString(logFileFlagName); path != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAgeDays,
		})
	}

	var out io.Writer = io.Discard
	if len(writers) > 0 {
		out = zerolog.MultiLevelWriter(writers...)
	}
	zlog := zerolog.New(out).Level(level).With().Timestamp().Logger()

	ctx = zlog.WithContext(ctx)
	return log.NewContext(ctx, log.New(stdout, zlog))
}

// newRootOpts loads the config and plans the pipeline
func newRootOpts(ctx context.Context, v *viper.Viper) (*opts.RootOpts, error) {
	fs := afero.NewOsFs()

	cfg, err := config.LoadFs(ctx, fs, v.GetString(configFlagName))
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	tasks, err := pipeline.Plan(cfg)
	if err != nil {
		return nil, errors.Errorf("planning tasks: %w", err)
	}

	logger := log.FromContext(ctx)
	pl, err := pipeline.New(tasks, pipeline.Options{
		Fs:       fs,
		Reporter: logger,
		Observer: logger,
		Jobs:     v.GetInt(jobsFlagName),
	})
	if err != nil {
		return nil, errors.Errorf("creating pipeline: %w", err)
	}

	return &opts.RootOpts{
		Fs:       fs,
		Config:   cfg,
		Tasks:    tasks,
		Pipeline: pl,
		Logger:   logger,
	}, nil
}
