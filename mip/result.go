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
	"math"
)

// Status describes how a solve terminated.
type Status int8

// Possible Status values.
const (
	// StatusOptimal: the search proved optimality, or closed the gap
	// below the configured tolerance.
	StatusOptimal Status = iota
	// StatusFeasible: the search stopped early with an integer solution
	// but without an optimality proof.
	StatusFeasible
	// StatusInfeasible: the search proved no feasible solution exists.
	StatusInfeasible
	// StatusInterrupted: the search stopped early without any solution.
	StatusInterrupted
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusInterrupted:
		return "INTERRUPTED"
	}
	return fmt.Sprintf("Status(%d)", int8(s))
}

// Result is the read-only outcome of an Optimize call.
type Result struct {
	status    Status
	objective float64
	bound     float64
	values    []float64
}

// Status returns how the solve terminated.
func (r *Result) Status() Status {
	return r.status
}

// HasSolution reports whether an integer-feasible solution is available.
func (r *Result) HasSolution() bool {
	return r.status == StatusOptimal || r.status == StatusFeasible
}

// Objective returns the objective value of the best solution found, or
// +Inf when there is none.
func (r *Result) Objective() float64 {
	return r.objective
}

// Bound returns the best proven lower bound on the objective.
func (r *Result) Bound() float64 {
	return r.bound
}

// Gap returns the relative gap (objective - bound) / (1 + |objective|).
func (r *Result) Gap() float64 {
	return (r.objective - r.bound) / (1 + math.Abs(r.objective))
}

// Label returns the best-known value of the variable.
func (r *Result) Label(variable int) (float64, error) {
	if !r.HasSolution() {
		return 0, &StateError{Op: "Label"}
	}
	if variable < 0 || variable >= len(r.values) {
		return 0, configurationErrorf("variable index %d out of range [0, %d)", variable, len(r.values))
	}
	return r.values[variable], nil
}

// Values returns a copy of the best-known assignment, one value per
// variable in index order.
func (r *Result) Values() []float64 {
	out := make([]float64, len(r.values))
	copy(out, r.values)
	return out
}
