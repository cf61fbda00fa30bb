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

import "math"

// Term is one (variable index, coefficient) entry of a linear row.
type Term struct {
	Var   int
	Coeff float64
}

// Infinity returns the value to pass as a constraint bound to leave that
// side unconstrained.
func Infinity() float64 {
	return math.Inf(1)
}

// feasEps is the feasibility tolerance applied when checking rows
// against an assignment.
const feasEps = 1e-6

type rowSense int8

const (
	rowEqual rowSense = iota
	rowAtLeast
	rowAtMost
)

func (s rowSense) String() string {
	switch s {
	case rowEqual:
		return "="
	case rowAtLeast:
		return ">="
	case rowAtMost:
		return "<="
	}
	return "?"
}

// row is one normalized one-sided or equality linear constraint.
type row struct {
	terms []Term
	sense rowSense
	rhs   float64
	lazy  bool
}

// rowsFromBounds translates a two-sided constraint into zero, one or two
// rows. Equal bounds emit a single equality row; otherwise each finite
// side emits one one-sided row and each infinite side is omitted. Bounds
// are assumed validated.
func rowsFromBounds(terms []Term, lower, upper float64, lazy bool) []row {
	if lower == upper {
		return []row{{terms: terms, sense: rowEqual, rhs: lower, lazy: lazy}}
	}
	var rows []row
	if !math.IsInf(lower, -1) {
		rows = append(rows, row{terms: terms, sense: rowAtLeast, rhs: lower, lazy: lazy})
	}
	if !math.IsInf(upper, 1) {
		rows = append(rows, row{terms: terms, sense: rowAtMost, rhs: upper, lazy: lazy})
	}
	return rows
}

// validateConstraint checks a constraint addition eagerly, before any row
// is emitted.
func validateConstraint(terms []Term, lower, upper float64, numVariables int) error {
	if math.IsNaN(lower) || math.IsNaN(upper) {
		return configurationErrorf("constraint bounds must not be NaN")
	}
	if lower > upper {
		return configurationErrorf("constraint lower bound %v exceeds upper bound %v", lower, upper)
	}
	if math.IsInf(lower, 0) && lower == upper {
		return configurationErrorf("constraint bounds must not both be infinite")
	}
	for _, t := range terms {
		if t.Var < 0 || t.Var >= numVariables {
			return configurationErrorf("variable index %d out of range [0, %d)", t.Var, numVariables)
		}
		if math.IsNaN(t.Coeff) || math.IsInf(t.Coeff, 0) {
			return configurationErrorf("coefficient of variable %d must be finite", t.Var)
		}
	}
	return nil
}

// activity evaluates the row's linear expression under the assignment.
func (r row) activity(values []float64) float64 {
	var sum float64
	for _, t := range r.terms {
		sum += t.Coeff * values[t.Var]
	}
	return sum
}

// satisfied reports whether the assignment meets the row within the
// feasibility tolerance.
func (r row) satisfied(values []float64) bool {
	a := r.activity(values)
	switch r.sense {
	case rowEqual:
		return math.Abs(a-r.rhs) <= feasEps
	case rowAtLeast:
		return a >= r.rhs-feasEps
	default:
		return a <= r.rhs+feasEps
	}
}

// feasible reports whether the assignment satisfies every row.
func feasible(rows []row, values []float64) bool {
	for _, r := range rows {
		if !r.satisfied(values) {
			return false
		}
	}
	return true
}

// objectiveValue evaluates the linear objective under the assignment.
func objectiveValue(objective, values []float64) float64 {
	var sum float64
	for i, c := range objective {
		sum += c * values[i]
	}
	return sum
}
