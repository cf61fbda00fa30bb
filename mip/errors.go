// Copyright 2010-2024 Google LLC
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

package mip

import "fmt"

// ConfigurationError reports an invalid model-building call, such as an
// out-of-range variable index, a mismatched start-vector length, or a
// mutation attempted after the search has started.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "mip: invalid configuration: " + e.Reason
}

func configurationErrorf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// ScopeError reports a callback accessor invoked outside the search event
// it is valid in. It always indicates a programming error in callback
// code.
type ScopeError struct {
	Accessor string
	Event    string
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("mip: %s is not available during a %s event", e.Accessor, e.Event)
}

// StateError reports a post-solve accessor invoked before a successful
// Optimize, or on a session with no solution available.
type StateError struct {
	Op string
}

func (e *StateError) Error() string {
	return "mip: " + e.Op + ": no solution available"
}

// Error codes attached to SolverError.
const (
	// ErrCodeCallback marks a failure raised by client callback code
	// during dispatch.
	ErrCodeCallback = 1
	// ErrCodeInternal marks an unrecoverable failure inside the solver.
	ErrCodeInternal = 2
)

// SolverError reports an unrecoverable failure of the in-progress
// Optimize call, including a failure originating inside client callback
// code. The original cause, if any, is preserved and unwrappable.
type SolverError struct {
	Code  int
	Msg   string
	Cause error
}

func (e *SolverError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("mip: solver error %d: %s: %v", e.Code, e.Msg, e.Cause)
	}
	return fmt.Sprintf("mip: solver error %d: %s", e.Code, e.Msg)
}

func (e *SolverError) Unwrap() error {
	return e.Cause
}
