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

package pipeline

import (
	"context"
	"runtime"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/bloom/pkg/failure"
	"github.com/walteh/bloom/pkg/operation"
	"github.com/walteh/bloom/pkg/redirect"
	"github.com/walteh/bloom/pkg/rules"
	"github.com/walteh/bloom/pkg/status"
	"golang.org/x/sync/errgroup"
)

// 👀 TaskObserver is told when a task starts and ends
type TaskObserver interface {
	StartTask(ctx context.Context, t Task)
	EndTask(ctx context.Context, t Task, s *operation.Summary)
}

// 🔧 Options configures a Pipeline
type Options struct {
	Fs       afero.Fs           // defaults to the OS filesystem
	Reporter operation.Reporter // per-file events, optional
	Observer TaskObserver       // optional
	Jobs     int                // parallel passes, defaults to GOMAXPROCS
}

// 🚰 Pipeline runs a fixed list of tasks
type Pipeline struct {
	tasks    []Task
	m        *operation.Materializer
	observer TaskObserver
	jobs     int
}

// 🏭 New creates a pipeline, refusing task lists where two tasks share a
// name or an output directory
func New(tasks []Task, opts Options) (*Pipeline, error) {
	names := make(map[string]bool, len(tasks))
	outs := make(map[string]string, len(tasks))
	for _, t := range tasks {
		if names[t.Name] {
			return nil, failure.Newf(failure.Configuration, "task %s: defined more than once", t.Name)
		}
		names[t.Name] = true

		out := rules.Canonical("", t.OutputDir)
		if other, ok := outs[out]; ok {
			return nil, failure.Newf(failure.Configuration, "tasks %s and %s share output directory %s", other, t.Name, out)
		}
		outs[out] = t.Name
	}

	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}

	return &Pipeline{
		tasks:    slices.Clone(tasks),
		m:        operation.New(operation.Options{Fs: opts.Fs, Reporter: opts.Reporter}),
		observer: opts.Observer,
		jobs:     opts.Jobs,
	}, nil
}

// Tasks returns the planned tasks in order
func (p *Pipeline) Tasks() []Task {
	return slices.Clone(p.tasks)
}

// 🔀 Configure redirects the compile step of every task found in reg.
// Tasks whose compile step does not exist are left unwired.
func (p *Pipeline) Configure(ctx context.Context, reg redirect.Registry) error {
	logger := zerolog.Ctx(ctx)
	for _, t := range p.tasks {
		compile, ok := reg.Lookup(t.CompileTask)
		if !ok {
			logger.Debug().Str("task", t.Name).Str("compile", t.CompileTask).Msg("no compile step, leaving unwired")
			continue
		}
		if err := redirect.Wire(ctx, compile, t.Name, t.OutputDir); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) selectTasks(names []string) ([]Task, error) {
	if len(names) == 0 {
		return p.tasks, nil
	}
	var selected []Task
	for _, t := range p.tasks {
		if slices.Contains(names, t.Name) {
			selected = append(selected, t)
		}
	}
	for _, name := range names {
		if !slices.ContainsFunc(selected, func(t Task) bool { return t.Name == name }) {
			return nil, failure.Newf(failure.Configuration, "unknown task %s", name)
		}
	}
	return selected, nil
}

// 🏃 Run materializes the named tasks, or all of them, in parallel.
// Summaries come back in task order. The first failure cancels the rest.
func (p *Pipeline) Run(ctx context.Context, names ...string) ([]*operation.Summary, error) {
	tasks, err := p.selectTasks(names)
	if err != nil {
		return nil, err
	}

	summaries := make([]*operation.Summary, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.jobs)

	for i, t := range tasks {
		g.Go(func() error {
			if p.observer != nil {
				p.observer.StartTask(gctx, t)
			}
			summary, err := p.m.Run(gctx, t.Pass())
			if err != nil {
				return err
			}
			summaries[i] = summary
			if p.observer != nil {
				p.observer.EndTask(gctx, t, summary)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// 🔍 Status reports what running every task would change, without writing
func (p *Pipeline) Status(ctx context.Context) ([]*status.Report, error) {
	reports := make([]*status.Report, len(p.tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.jobs)

	for i, t := range p.tasks {
		g.Go(func() error {
			report, err := p.m.Status(gctx, t.Pass())
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// 🧹 Clean removes the output directory of every task
func (p *Pipeline) Clean(ctx context.Context) error {
	for _, t := range p.tasks {
		if err := p.m.Clean(ctx, t.OutputDir); err != nil {
			return err
		}
	}
	return nil
}
