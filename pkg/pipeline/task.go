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

// Package pipeline derives replacement tasks from a config and runs them.
//
// One task exists per source set and language. Tasks are planned during
// configuration without touching the filesystem, can redirect their
// compile steps, and run in parallel since no two of them share an
// output directory.
package pipeline

import (
	"unicode"
	"unicode/utf8"

	"github.com/walteh/bloom/pkg/config"
	"github.com/walteh/bloom/pkg/failure"
	"github.com/walteh/bloom/pkg/operation"
	"github.com/walteh/bloom/pkg/redirect"
	"github.com/walteh/bloom/pkg/rules"
	"github.com/walteh/bloom/pkg/walker"
)

// TaskPrefix starts the name of every replacement task
const TaskPrefix = "bloomReplace"

// 📋 Task is one planned replacement pass
type Task struct {
	Name        string // bloomReplaceJava, bloomReplaceKotlinTest ...
	SourceSet   string
	Language    string
	Source      walker.SourceRoot
	Rules       *rules.Snapshot
	OutputDir   string
	CompileTask string // compile step reading OutputDir once wired
}

// Pass returns the materializer input of the task
func (t Task) Pass() operation.Pass {
	src := t.Source
	return operation.Pass{
		Name:      t.Name,
		Source:    &src,
		Rules:     t.Rules,
		OutputDir: t.OutputDir,
	}
}

// TaskName names the replacement task of a source set and language
func TaskName(sourceSet, language string) string {
	name := TaskPrefix + capitalize(language)
	if sourceSet != config.MainSourceSet {
		name += capitalize(sourceSet)
	}
	return name
}

// CompileTaskName names the compile step a task redirects
func CompileTaskName(sourceSet, language string) string {
	if sourceSet == config.MainSourceSet {
		return "compile" + capitalize(language)
	}
	return "compile" + capitalize(sourceSet) + capitalize(language)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// 🗺️ Plan derives every task of cfg. Each source set's RuleSet is frozen
// once and shared read-only by the tasks of its languages.
func Plan(cfg *config.Config) ([]Task, error) {
	if cfg == nil {
		return nil, failure.Newf(failure.Configuration, "no configuration to plan")
	}

	var tasks []Task
	for _, set := range cfg.SourceSets {
		snapshot := cfg.RuleSetFor(set.Name).Freeze(cfg.BaseDir())
		for _, lang := range set.Languages {
			tasks = append(tasks, Task{
				Name:        TaskName(set.Name, lang.Name),
				SourceSet:   set.Name,
				Language:    lang.Name,
				Source:      cfg.SourceRoot(lang),
				Rules:       snapshot,
				OutputDir:   redirect.OutputDirectoryFor(cfg.BuildPath(), set.Name, lang.Name),
				CompileTask: CompileTaskName(set.Name, lang.Name),
			})
		}
	}
	return tasks, nil
}
