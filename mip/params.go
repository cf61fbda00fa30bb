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

import (
	"fmt"
	"time"
)

// Focus biases the search toward finding feasible solutions quickly,
// proving optimality, or improving the best bound.
type Focus int8

// Possible Focus values. The zero value is the balanced default.
const (
	FocusBalanced Focus = iota
	FocusFeasibility
	FocusOptimality
	FocusBestBound
)

func (f Focus) String() string {
	switch f {
	case FocusBalanced:
		return "balanced"
	case FocusFeasibility:
		return "feasibility"
	case FocusOptimality:
		return "optimality"
	case FocusBestBound:
		return "bestBound"
	}
	return fmt.Sprintf("Focus(%d)", int8(f))
}

// LPMethod selects the algorithm used for node relaxations. It is an
// advisory hint; the zero value leaves the choice to the solver.
type LPMethod int8

// Possible LPMethod values.
const (
	LPMethodAuto LPMethod = iota
	LPMethodPrimalSimplex
	LPMethodDualSimplex
	LPMethodBarrier
	LPMethodSifting
)

func (m LPMethod) String() string {
	switch m {
	case LPMethodAuto:
		return "auto"
	case LPMethodPrimalSimplex:
		return "primalSimplex"
	case LPMethodDualSimplex:
		return "dualSimplex"
	case LPMethodBarrier:
		return "barrier"
	case LPMethodSifting:
		return "sifting"
	}
	return fmt.Sprintf("LPMethod(%d)", int8(m))
}

// PresolveMode selects the presolve reduction applied before the search.
type PresolveMode int8

// Possible PresolveMode values. The zero value is automatic.
const (
	PresolveAuto PresolveMode = iota
	PresolvePrimal
	PresolveDual
	PresolveNone
)

func (m PresolveMode) String() string {
	switch m {
	case PresolveAuto:
		return "auto"
	case PresolvePrimal:
		return "primal"
	case PresolveDual:
		return "dual"
	case PresolveNone:
		return "none"
	}
	return fmt.Sprintf("PresolveMode(%d)", int8(m))
}

// Params configures a solve. The zero value of each field retains the
// solver default for that knob.
type Params struct {
	// TimeLimit stops the search after the given wall-clock duration.
	// Zero means no limit.
	TimeLimit time.Duration
	// Threads is a parallelism hint. Zero or one searches sequentially.
	Threads int
	// AbsoluteGap stops the search once the absolute difference between
	// the incumbent objective and the best bound falls below it.
	AbsoluteGap float64
	// RelativeGap stops the search once the relative gap falls below it.
	RelativeGap float64
	// Focus biases the search.
	Focus Focus
	// Verbosity enables progress logging during the search.
	Verbosity bool
	// LPMethod selects the node relaxation algorithm.
	LPMethod LPMethod
	// Presolve selects the presolve mode, with PresolvePasses capping
	// the number of reduction rounds (zero means automatic).
	Presolve       PresolveMode
	PresolvePasses int
}

func (p Params) validate() error {
	if p.TimeLimit < 0 {
		return configurationErrorf("time limit must not be negative")
	}
	if p.Threads < 0 {
		return configurationErrorf("thread count must not be negative")
	}
	if p.AbsoluteGap < 0 || p.RelativeGap < 0 {
		return configurationErrorf("gap tolerances must not be negative")
	}
	if p.PresolvePasses < 0 {
		return configurationErrorf("presolve pass count must not be negative")
	}
	return nil
}
