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

// Package failure classifies the fatal errors a materialization can raise.
package failure

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind identifies a class of fatal error. Kinds are errors themselves so
// callers can match with errors.Is(err, failure.IO).
type Kind string

const (
	Configuration Kind = "configuration error" // required input absent, aborts before any I/O
	IO            Kind = "io failure"          // output dir or a file could not be read/written
	Wiring        Kind = "wiring failure"      // compile task source input could not be redirected
)

func (k Kind) Error() string {
	return string(k)
}

// ❌ Error is a classified failure
type Error struct {
	Kind Kind
	Op   string // what was being done
	Path string // optional
	Err  error  // optional underlying cause
}

// 🏭 New creates a classified error. err may be nil.
func New(kind Kind, op, path string, err error) error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// 🏭 Newf creates a classified error without a path or cause
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Op: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	msg := string(e.Kind) + ": " + e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error's Kind
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// 🔍 KindOf returns the kind of the first classified error in err's chain
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}
