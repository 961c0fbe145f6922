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

package log

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/bloom/pkg/operation"
	"github.com/walteh/bloom/pkg/pipeline"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 35 // Base width for filename
	actionWidth  = 15 // Width for the action
	summaryLabel = "bloom"
)

// 🎯 Logger prints human readable progress to a console and mirrors every
// line to zerolog. It is safe for concurrent use by parallel passes.
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	files   map[string]int // files reported per running task
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		files:   make(map[string]int),
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileEvent formats a file event for display
func (l *Logger) formatFileEvent(ev operation.FileEvent) string {
	var symbol rune
	var symbolColor color.Attribute
	switch ev.Action {
	case operation.ActionWrite:
		symbol = '✓'
		symbolColor = color.FgGreen
	case operation.ActionCopy:
		symbol = '•'
		symbolColor = color.FgCyan
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	action := ev.Action.String()
	if ev.Action == operation.ActionWrite && ev.Replacements > 0 {
		action = fmt.Sprintf("%s (%d)", action, ev.Replacements)
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, filepath.ToSlash(ev.Rel)),
		fmt.Sprintf("%-*s", actionWidth, action),
		color.New(color.Faint).Sprint(ev.Task))
}

// 📝 ReportFile implements operation.Reporter
func (l *Logger) ReportFile(ctx context.Context, ev operation.FileEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.files[ev.Task]++
	fmt.Fprintln(l.console, l.formatFileEvent(ev))

	l.zlog.Info().
		Str("task", ev.Task).
		Str("file", ev.Dest).
		Str("action", ev.Action.String()).
		Int("replacements", ev.Replacements).
		Msg("file processed")
}

// 📝 StartTask implements pipeline.TaskObserver
func (l *Logger) StartTask(ctx context.Context, t pipeline.Task) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.files[t.Name] = 0

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(t.Name),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgCyan).Sprint(t.OutputDir))

	l.zlog.Info().
		Str("task", t.Name).
		Str("source_set", t.SourceSet).
		Str("language", t.Language).
		Str("output", t.OutputDir).
		Msg("starting task")
}

// 📝 EndTask implements pipeline.TaskObserver
func (l *Logger) EndTask(ctx context.Context, t pipeline.Task, s *operation.Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	files := l.files[t.Name]
	delete(l.files, t.Name)

	if s.NoOp {
		fmt.Fprintf(l.console, "%s %s\n", color.New(color.Faint).Sprint(t.Name), "• no replacements configured")
		l.zlog.Info().Str("task", t.Name).Msg("task skipped, no replacements")
		return
	}

	fmt.Fprintf(l.console, "%s %s\n",
		color.New(color.Faint).Sprint(t.Name),
		fmt.Sprintf("• %d written, %d copied, %d skipped", s.Written, s.Copied, s.Skipped))

	l.zlog.Info().
		Str("task", t.Name).
		Int("files", files).
		Int("written", s.Written).
		Int("copied", s.Copied).
		Int("skipped", s.Skipped).
		Msg("task complete")
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	label := color.New(color.Bold, color.FgCyan).Sprint(summaryLabel)
	fmt.Fprintf(l.console, "\n%s %s\n\n", label, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...any) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...any) {
	l.Success(fmt.Sprintf(format, args...))
}
