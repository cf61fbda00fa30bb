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
	"sync"
)

// Session owns a model under construction (variables, objective, static
// constraints), its solver configuration and, once Optimize has run, the
// solve result. A session minimizes its objective over binary variables.
//
// The model is frozen once the first Optimize call starts: variables and
// static constraints cannot be added afterwards. Configuration,
// priorities, warm starts and the callback registration may change
// between solves. A session must not be used from multiple goroutines
// while Optimize is running.
type Session struct {
	mu sync.Mutex

	objective  []float64
	priorities []int
	start      []float64
	rows       []row
	lazyPool   []row
	params     Params
	cb         Callback
	ctx        *Context

	frozen bool
	active bool
	result *Result
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{}
}

// NumVariables returns the number of variables in the model.
func (s *Session) NumVariables() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objective)
}

// AddVariables appends one binary variable per coefficient and extends
// the objective by coefficient * variable. It fails once Optimize has
// started.
func (s *Session) AddVariables(coefficients []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frozen {
		return configurationErrorf("cannot add variables after Optimize has started")
	}
	for i, c := range coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return configurationErrorf("objective coefficient %d must be finite", i)
		}
	}
	s.objective = append(s.objective, coefficients...)
	s.priorities = append(s.priorities, make([]int, len(coefficients))...)
	return nil
}

// AddConstraint adds a static constraint bounding the linear expression
// over the terms by [lower, upper]. Equal bounds emit one equality row;
// otherwise up to two one-sided rows are emitted, omitting any side
// whose bound is infinite. It fails once Optimize has started; from
// inside a callback, use Context.AddLazyConstraint instead.
func (s *Session) AddConstraint(terms []Term, lower, upper float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frozen {
		return configurationErrorf("cannot add static constraints after Optimize has started")
	}
	if err := validateConstraint(terms, lower, upper, len(s.objective)); err != nil {
		return err
	}
	ts := make([]Term, len(terms))
	copy(ts, terms)
	s.rows = append(s.rows, rowsFromBounds(ts, lower, upper, false)...)
	return nil
}

// SetParameters replaces the solver configuration.
func (s *Session) SetParameters(p Params) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return configurationErrorf("cannot change parameters while Optimize is running")
	}
	if err := p.validate(); err != nil {
		return err
	}
	s.params = p
	return nil
}

// SetBranchPriority hints the search order for the variable. Higher
// priorities branch earlier. Purely advisory.
func (s *Session) SetBranchPriority(variable, priority int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return configurationErrorf("cannot change branch priorities while Optimize is running")
	}
	if variable < 0 || variable >= len(s.objective) {
		return configurationErrorf("variable index %d out of range [0, %d)", variable, len(s.objective))
	}
	s.priorities[variable] = priority
	return nil
}

// SetStart supplies a warm-start value per variable in index order. The
// length must equal the current variable count.
func (s *Session) SetStart(values []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return configurationErrorf("cannot set a warm start while Optimize is running")
	}
	if len(values) != len(s.objective) {
		return configurationErrorf("start vector has %d values for %d variables", len(values), len(s.objective))
	}
	s.start = make([]float64, len(values))
	copy(s.start, values)
	return nil
}

// RegisterCallback enables lazy-constraint mode and installs the
// callback the search will dispatch events to. The callback's state
// (best objective, best bound, heuristic gate) lives for the lifetime of
// the registration, across Optimize calls.
func (s *Session) RegisterCallback(cb Callback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return configurationErrorf("cannot register a callback while Optimize is running")
	}
	s.cb = cb
	s.ctx = newContext(s, cb, len(s.objective))
	return nil
}

// poolLazyRows records lazily added rows so later Optimize calls on the
// same session keep the cuts discovered so far.
func (s *Session) poolLazyRows(rows []row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lazyPool = append(s.lazyPool, rows...)
}

// Optimize runs the search synchronously and blocks until a stopping
// criterion is met. It fails with a SolverError if the solver or a
// callback routine reports an unrecoverable error.
func (s *Session) Optimize() (*Result, error) {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return nil, configurationErrorf("Optimize is already running on this session")
	}
	if s.start != nil && len(s.start) != len(s.objective) {
		s.mu.Unlock()
		return nil, configurationErrorf("start vector has %d values for %d variables", len(s.start), len(s.objective))
	}
	s.frozen = true
	s.active = true

	objective := make([]float64, len(s.objective))
	copy(objective, s.objective)
	priorities := make([]int, len(s.priorities))
	copy(priorities, s.priorities)
	rows := make([]row, 0, len(s.rows)+len(s.lazyPool))
	rows = append(rows, s.rows...)
	rows = append(rows, s.lazyPool...)
	var start []float64
	if s.start != nil {
		start = make([]float64, len(s.start))
		copy(start, s.start)
	}
	params := s.params
	ctx := s.ctx
	if ctx != nil {
		ctx.numVariables = len(objective)
	}
	s.mu.Unlock()

	eng := newEngine(objective, rows, priorities, start, params, ctx)
	res, err := eng.solve()

	s.mu.Lock()
	s.active = false
	if err == nil {
		s.result = res
	}
	s.mu.Unlock()
	return res, err
}

// Objective returns the objective value of the best solution found by
// the last Optimize call.
func (s *Session) Objective() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil || !s.result.HasSolution() {
		return 0, &StateError{Op: "Objective"}
	}
	return s.result.Objective(), nil
}

// Bound returns the best proven lower bound from the last Optimize call.
func (s *Session) Bound() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return 0, &StateError{Op: "Bound"}
	}
	return s.result.Bound(), nil
}

// Gap returns the relative gap of the last Optimize call.
func (s *Session) Gap() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil || !s.result.HasSolution() {
		return 0, &StateError{Op: "Gap"}
	}
	return s.result.Gap(), nil
}

// Label returns the best-known value of the variable from the last
// Optimize call.
func (s *Session) Label(variable int) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil || !s.result.HasSolution() {
		return 0, &StateError{Op: "Label"}
	}
	return s.result.Label(variable)
}
