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
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func Example() {
	session := NewSession()
	// Maximize x0 + x1 by minimizing the negated coefficients, subject
	// to x0 + x1 <= 1.
	if err := session.AddVariables([]float64{-1, -1}); err != nil {
		fmt.Println(err)
		return
	}
	terms := []Term{{Var: 0, Coeff: 1}, {Var: 1, Coeff: 1}}
	if err := session.AddConstraint(terms, math.Inf(-1), 1); err != nil {
		fmt.Println(err)
		return
	}
	result, err := session.Optimize()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("Status:", result.Status())
	fmt.Println("Objective:", result.Objective())
	fmt.Println("Gap:", result.Gap())
	// Output:
	// Status: OPTIMAL
	// Objective: -1
	// Gap: 0
}

func TestOptimizeStaticConstraint(t *testing.T) {
	session := NewSession()
	if err := session.AddVariables([]float64{-1, -1}); err != nil {
		t.Fatalf("AddVariables() returned with error %v", err)
	}
	terms := []Term{{Var: 0, Coeff: 1}, {Var: 1, Coeff: 1}}
	if err := session.AddConstraint(terms, math.Inf(-1), 1); err != nil {
		t.Fatalf("AddConstraint() returned with error %v", err)
	}

	result, err := session.Optimize()
	if err != nil {
		t.Fatalf("Optimize() returned with error %v", err)
	}
	if got := result.Status(); got != StatusOptimal {
		t.Errorf("Status() = %v, want %v", got, StatusOptimal)
	}
	if got, err := session.Objective(); err != nil || got != -1 {
		t.Errorf("Objective() = %v, %v, want -1, nil", got, err)
	}
	if got, err := session.Gap(); err != nil || got != 0 {
		t.Errorf("Gap() = %v, %v, want 0, nil", got, err)
	}
	l0, err := session.Label(0)
	if err != nil {
		t.Fatalf("Label(0) returned with error %v", err)
	}
	l1, err := session.Label(1)
	if err != nil {
		t.Fatalf("Label(1) returned with error %v", err)
	}
	if l0+l1 != 1 {
		t.Errorf("Label(0) + Label(1) = %v, want exactly one variable set", l0+l1)
	}
}

// pairCallback cuts off candidates that select both variables, lazily
// reproducing the static constraint x0 + x1 <= 1.
type pairCallback struct {
	separations int
}

func (p *pairCallback) SeparateAndAddLazyConstraints(ctx *Context) error {
	p.separations++
	v0, err := ctx.CandidateValue(0)
	if err != nil {
		return err
	}
	v1, err := ctx.CandidateValue(1)
	if err != nil {
		return err
	}
	if v0 > 0.5 && v1 > 0.5 {
		terms := []Term{{Var: 0, Coeff: 1}, {Var: 1, Coeff: 1}}
		return ctx.AddLazyConstraint(terms, math.Inf(-1), 1)
	}
	return nil
}

func (p *pairCallback) ComputeFeasibleSolution(ctx *Context) error {
	return nil
}

func TestOptimizeLazyMatchesStatic(t *testing.T) {
	session := NewSession()
	if err := session.AddVariables([]float64{-1, -1}); err != nil {
		t.Fatalf("AddVariables() returned with error %v", err)
	}
	cb := &pairCallback{}
	if err := session.RegisterCallback(cb); err != nil {
		t.Fatalf("RegisterCallback() returned with error %v", err)
	}

	result, err := session.Optimize()
	if err != nil {
		t.Fatalf("Optimize() returned with error %v", err)
	}
	if got := result.Status(); got != StatusOptimal {
		t.Errorf("Status() = %v, want %v", got, StatusOptimal)
	}
	if got := result.Objective(); got != -1 {
		t.Errorf("Objective() = %v, want -1", got)
	}
	if cb.separations == 0 {
		t.Errorf("separation routine never ran")
	}
	l0, _ := session.Label(0)
	l1, _ := session.Label(1)
	if l0+l1 != 1 {
		t.Errorf("Label(0) + Label(1) = %v, want exactly one variable set", l0+l1)
	}
}

// allOnesInjector injects every variable at one, ignoring the model's
// constraints.
type allOnesInjector struct{}

func (allOnesInjector) SeparateAndAddLazyConstraints(ctx *Context) error {
	return nil
}

func (allOnesInjector) ComputeFeasibleSolution(ctx *Context) error {
	for i := 0; i < 3; i++ {
		if err := ctx.InjectValue(i, 1); err != nil {
			return err
		}
	}
	return nil
}

func TestOptimizeRejectsInfeasibleInjection(t *testing.T) {
	session := NewSession()
	if err := session.AddVariables([]float64{-1, -1, -1}); err != nil {
		t.Fatalf("AddVariables() returned with error %v", err)
	}
	terms := []Term{{Var: 0, Coeff: 1}, {Var: 1, Coeff: 1}, {Var: 2, Coeff: 1}}
	if err := session.AddConstraint(terms, math.Inf(-1), 1); err != nil {
		t.Fatalf("AddConstraint() returned with error %v", err)
	}
	if err := session.RegisterCallback(&allOnesInjector{}); err != nil {
		t.Fatalf("RegisterCallback() returned with error %v", err)
	}

	result, err := session.Optimize()
	if err != nil {
		t.Fatalf("Optimize() returned with error %v", err)
	}
	if got := result.Status(); got != StatusOptimal {
		t.Errorf("Status() = %v, want %v", got, StatusOptimal)
	}
	// The all-ones injection violates the constraint and must not win;
	// the true optimum selects exactly one variable.
	if got := result.Objective(); got != -1 {
		t.Errorf("Objective() = %v, want -1", got)
	}
	var sum float64
	for _, v := range result.Values() {
		sum += v
	}
	if sum != 1 {
		t.Errorf("selected %v variables, want exactly 1", sum)
	}
}

func TestAccessorsBeforeOptimize(t *testing.T) {
	session := NewSession()
	if err := session.AddVariables([]float64{1}); err != nil {
		t.Fatalf("AddVariables() returned with error %v", err)
	}
	var stateErr *StateError
	if _, err := session.Objective(); !errors.As(err, &stateErr) {
		t.Errorf("Objective() before Optimize = %v, want StateError", err)
	}
	if _, err := session.Bound(); !errors.As(err, &stateErr) {
		t.Errorf("Bound() before Optimize = %v, want StateError", err)
	}
	if _, err := session.Gap(); !errors.As(err, &stateErr) {
		t.Errorf("Gap() before Optimize = %v, want StateError", err)
	}
	if _, err := session.Label(0); !errors.As(err, &stateErr) {
		t.Errorf("Label(0) before Optimize = %v, want StateError", err)
	}
}

func TestWarmStartRoundTrip(t *testing.T) {
	tests := []struct {
		name         string
		coefficients []float64
		start        []float64
	}{
		{
			name:         "unique optimum",
			coefficients: []float64{1, -1},
			start:        []float64{0, 1},
		},
		{
			name:         "tie preserved",
			coefficients: []float64{0, 0},
			start:        []float64{1, 0},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			session := NewSession()
			if err := session.AddVariables(test.coefficients); err != nil {
				t.Fatalf("AddVariables() returned with error %v", err)
			}
			if err := session.SetStart(test.start); err != nil {
				t.Fatalf("SetStart() returned with error %v", err)
			}
			result, err := session.Optimize()
			if err != nil {
				t.Fatalf("Optimize() returned with error %v", err)
			}
			if got := result.Status(); got != StatusOptimal {
				t.Errorf("Status() = %v, want %v", got, StatusOptimal)
			}
			if diff := cmp.Diff(test.start, result.Values()); diff != "" {
				t.Errorf("Values() returned with diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestModelFrozenAfterOptimize(t *testing.T) {
	session := NewSession()
	if err := session.AddVariables([]float64{1}); err != nil {
		t.Fatalf("AddVariables() returned with error %v", err)
	}
	if _, err := session.Optimize(); err != nil {
		t.Fatalf("Optimize() returned with error %v", err)
	}

	var cfgErr *ConfigurationError
	if err := session.AddVariables([]float64{1}); !errors.As(err, &cfgErr) {
		t.Errorf("AddVariables() after Optimize = %v, want ConfigurationError", err)
	}
	if err := session.AddConstraint([]Term{{Var: 0, Coeff: 1}}, 0, 1); !errors.As(err, &cfgErr) {
		t.Errorf("AddConstraint() after Optimize = %v, want ConfigurationError", err)
	}
}

func TestConfigurationValidation(t *testing.T) {
	session := NewSession()
	if err := session.AddVariables([]float64{1, 2}); err != nil {
		t.Fatalf("AddVariables() returned with error %v", err)
	}

	var cfgErr *ConfigurationError
	if err := session.AddConstraint([]Term{{Var: 5, Coeff: 1}}, 0, 1); !errors.As(err, &cfgErr) {
		t.Errorf("AddConstraint() with bad index = %v, want ConfigurationError", err)
	}
	if err := session.SetStart([]float64{1}); !errors.As(err, &cfgErr) {
		t.Errorf("SetStart() with short vector = %v, want ConfigurationError", err)
	}
	if err := session.SetBranchPriority(7, 1); !errors.As(err, &cfgErr) {
		t.Errorf("SetBranchPriority() with bad index = %v, want ConfigurationError", err)
	}
	if err := session.SetParameters(Params{Threads: -1}); !errors.As(err, &cfgErr) {
		t.Errorf("SetParameters() with negative threads = %v, want ConfigurationError", err)
	}
	if err := session.AddVariables([]float64{math.NaN()}); !errors.As(err, &cfgErr) {
		t.Errorf("AddVariables() with NaN coefficient = %v, want ConfigurationError", err)
	}
}

func TestSessionReuse(t *testing.T) {
	session := NewSession()
	if err := session.AddVariables([]float64{-2, -1}); err != nil {
		t.Fatalf("AddVariables() returned with error %v", err)
	}
	terms := []Term{{Var: 0, Coeff: 1}, {Var: 1, Coeff: 1}}
	if err := session.AddConstraint(terms, math.Inf(-1), 1); err != nil {
		t.Fatalf("AddConstraint() returned with error %v", err)
	}

	first, err := session.Optimize()
	if err != nil {
		t.Fatalf("first Optimize() returned with error %v", err)
	}
	second, err := session.Optimize()
	if err != nil {
		t.Fatalf("second Optimize() returned with error %v", err)
	}
	if first.Objective() != second.Objective() {
		t.Errorf("objectives differ across reuse: %v != %v", first.Objective(), second.Objective())
	}
	if got := second.Objective(); got != -2 {
		t.Errorf("Objective() = %v, want -2", got)
	}
}

func TestOptimizeCallbackErrorAborts(t *testing.T) {
	session := NewSession()
	if err := session.AddVariables([]float64{-1}); err != nil {
		t.Fatalf("AddVariables() returned with error %v", err)
	}
	cause := errors.New("no separation today")
	cb := &scriptedCallback{separate: func(*Context) error { return cause }}
	if err := session.RegisterCallback(cb); err != nil {
		t.Fatalf("RegisterCallback() returned with error %v", err)
	}

	_, err := session.Optimize()
	var solverErr *SolverError
	if !errors.As(err, &solverErr) {
		t.Fatalf("Optimize() = %v, want SolverError", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
	// The failed solve must not publish a result.
	var stateErr *StateError
	if _, err := session.Objective(); !errors.As(err, &stateErr) {
		t.Errorf("Objective() after failed Optimize = %v, want StateError", err)
	}
}

func TestOptimizeInfeasible(t *testing.T) {
	session := NewSession()
	if err := session.AddVariables([]float64{1}); err != nil {
		t.Fatalf("AddVariables() returned with error %v", err)
	}
	if err := session.AddConstraint([]Term{{Var: 0, Coeff: 1}}, 1, 1); err != nil {
		t.Fatalf("AddConstraint() returned with error %v", err)
	}
	if err := session.AddConstraint([]Term{{Var: 0, Coeff: 1}}, 0, 0); err != nil {
		t.Fatalf("AddConstraint() returned with error %v", err)
	}

	result, err := session.Optimize()
	if err != nil {
		t.Fatalf("Optimize() returned with error %v", err)
	}
	if got := result.Status(); got != StatusInfeasible {
		t.Errorf("Status() = %v, want %v", got, StatusInfeasible)
	}
	var stateErr *StateError
	if _, err := session.Objective(); !errors.As(err, &stateErr) {
		t.Errorf("Objective() after infeasible solve = %v, want StateError", err)
	}
	if _, err := result.Label(0); !errors.As(err, &stateErr) {
		t.Errorf("Label(0) on infeasible result = %v, want StateError", err)
	}
}
