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
	"math"

	"github.com/bits-and-blooms/bitset"
	log "github.com/golang/glog"
)

// presolveOutcome carries the variable fixings derived before the
// search, or proof that the static rows admit no assignment at all.
type presolveOutcome struct {
	fixed      *bitset.BitSet
	value      *bitset.BitSet
	infeasible bool
	rounds     int
}

// rowBounds returns the smallest and largest activity the row can still
// reach given the partial assignment.
func rowBounds(r row, fixed, value *bitset.BitSet) (minAch, maxAch float64) {
	for _, t := range r.terms {
		i := uint(t.Var)
		if fixed.Test(i) {
			if value.Test(i) {
				minAch += t.Coeff
				maxAch += t.Coeff
			}
		} else if t.Coeff < 0 {
			minAch += t.Coeff
		} else {
			maxAch += t.Coeff
		}
	}
	return minAch, maxAch
}

// rowImpossible reports whether no completion of the partial assignment
// can satisfy the row.
func rowImpossible(r row, fixed, value *bitset.BitSet) bool {
	minAch, maxAch := rowBounds(r, fixed, value)
	switch r.sense {
	case rowEqual:
		return minAch > r.rhs+feasEps || maxAch < r.rhs-feasEps
	case rowAtLeast:
		return maxAch < r.rhs-feasEps
	default:
		return minAch > r.rhs+feasEps
	}
}

// valuePossible reports whether some completion with the free variable
// at x can still satisfy the row, given the row's achievable activity
// range.
func valuePossible(r row, minAch, maxAch, coeff, x float64) bool {
	minWith := minAch - math.Min(0, coeff) + coeff*x
	maxWith := maxAch - math.Max(0, coeff) + coeff*x
	switch r.sense {
	case rowEqual:
		return minWith <= r.rhs+feasEps && maxWith >= r.rhs-feasEps
	case rowAtLeast:
		return maxWith >= r.rhs-feasEps
	default:
		return minWith <= r.rhs+feasEps
	}
}

type propagation int8

const (
	propNone propagation = iota
	propChanged
	propInfeasible
)

// propagateRow fixes every free variable of the row whose two values are
// not both achievable, updating the partial assignment in place.
func propagateRow(r row, fixed, value *bitset.BitSet) propagation {
	minAch, maxAch := rowBounds(r, fixed, value)
	if rowImpossible(r, fixed, value) {
		return propInfeasible
	}
	result := propNone
	for _, t := range r.terms {
		i := uint(t.Var)
		if fixed.Test(i) {
			continue
		}
		can0 := valuePossible(r, minAch, maxAch, t.Coeff, 0)
		can1 := valuePossible(r, minAch, maxAch, t.Coeff, 1)
		if !can0 && !can1 {
			return propInfeasible
		}
		if can0 == can1 {
			continue
		}
		fixed.Set(i)
		if can1 {
			value.Set(i)
			if t.Coeff < 0 {
				maxAch += t.Coeff
			} else {
				minAch += t.Coeff
			}
		} else {
			if t.Coeff < 0 {
				minAch -= t.Coeff
			} else {
				maxAch -= t.Coeff
			}
		}
		result = propChanged
	}
	return result
}

// runPresolve performs rounds of bound propagation over all rows until a
// fixed point, the pass limit, or an infeasibility proof. A pass limit
// of zero lets the propagation run to its fixed point.
func runPresolve(rows []row, numVariables int, mode PresolveMode, passes int, verbose bool) presolveOutcome {
	out := presolveOutcome{
		fixed: bitset.New(uint(numVariables)),
		value: bitset.New(uint(numVariables)),
	}
	if mode == PresolveNone {
		return out
	}
	maxRounds := passes
	if maxRounds == 0 {
		maxRounds = numVariables + 1
	}
	for out.rounds < maxRounds {
		changed := false
		for _, r := range rows {
			switch propagateRow(r, out.fixed, out.value) {
			case propInfeasible:
				out.infeasible = true
				return out
			case propChanged:
				changed = true
			}
		}
		out.rounds++
		if !changed {
			break
		}
	}
	if verbose {
		log.Infof("presolve (%v): fixed %d of %d variables in %d rounds", mode, out.fixed.Count(), numVariables, out.rounds)
	}
	return out
}
