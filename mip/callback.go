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
	"time"
)

// solverInfinity is the sentinel the engine uses for "no value" in place
// of an IEEE infinity, mirroring C-style solver APIs. It is translated
// to a true infinity exactly once, when a value enters the Context.
const solverInfinity = 1e100

// fromSolverValue translates engine sentinel infinities into IEEE
// infinities. Finite values pass through unchanged.
func fromSolverValue(v float64) float64 {
	if v >= solverInfinity {
		return math.Inf(1)
	}
	if v <= -solverInfinity {
		return math.Inf(-1)
	}
	return v
}

// Callback is implemented by clients to take part in the search.
//
// SeparateAndAddLazyConstraints runs once for every integer-feasible
// candidate the search discovers. It inspects the candidate through
// Context.CandidateValue and, for every violated problem-specific
// condition it detects, cuts the candidate off through
// Context.AddLazyConstraint.
//
// ComputeFeasibleSolution runs at the next node event after a candidate
// was discovered, at most once per candidate. It may inject a full or
// partial assignment through Context.InjectValue; variables it leaves
// unset keep the solver's relaxation-derived value.
//
// An error returned by either routine aborts the in-progress Optimize
// call, which then fails with a SolverError wrapping it.
type Callback interface {
	SeparateAndAddLazyConstraints(ctx *Context) error
	ComputeFeasibleSolution(ctx *Context) error
}

type eventKind int8

const (
	eventNone eventKind = iota
	eventCandidate
	eventNode
)

func (e eventKind) String() string {
	switch e {
	case eventNone:
		return "non-dispatch"
	case eventCandidate:
		return "integer-candidate"
	case eventNode:
		return "relaxation-node"
	}
	return "unknown"
}

// Context is the state the protocol exposes to callback routines. One
// Context exists per callback registration; its accessors are scoped to
// the event currently being dispatched and must only be called from
// within the callback routines themselves.
type Context struct {
	session      *Session
	cb           Callback
	numVariables int

	// mu serializes event dispatch. The engine may explore subtrees in
	// parallel, but no two events are ever dispatched concurrently.
	mu sync.Mutex

	event eventKind

	bestObjective    float64
	bestBound        float64
	elapsed          time.Duration
	pendingHeuristic bool

	candidate []float64
	injection []float64
	injected  bool
	newRows   []row
}

func newContext(s *Session, cb Callback, numVariables int) *Context {
	return &Context{
		session:       s,
		cb:            cb,
		numVariables:  numVariables,
		bestObjective: math.Inf(1),
		bestBound:     math.Inf(-1),
	}
}

// BestObjective returns the objective value of the best integer solution
// known to the search, or +Inf while none has been found.
func (c *Context) BestObjective() float64 {
	return c.bestObjective
}

// BestBound returns the best proven lower bound on the objective, or
// -Inf before the first bound is known.
func (c *Context) BestBound() float64 {
	return c.bestBound
}

// Elapsed returns the wall-clock time the search had spent at the most
// recent progress event.
func (c *Context) Elapsed() time.Duration {
	return c.elapsed
}

// CandidateValue returns the candidate's value for the variable. It is
// valid only while an integer-candidate event is being dispatched.
func (c *Context) CandidateValue(variable int) (float64, error) {
	if c.event != eventCandidate {
		return 0, &ScopeError{Accessor: "CandidateValue", Event: c.event.String()}
	}
	if variable < 0 || variable >= c.numVariables {
		return 0, configurationErrorf("variable index %d out of range [0, %d)", variable, c.numVariables)
	}
	return c.candidate[variable], nil
}

// InjectValue assigns a value to the variable in the heuristic solution
// under construction. It is valid only while a relaxation-node event is
// being dispatched.
func (c *Context) InjectValue(variable int, value float64) error {
	if c.event != eventNode {
		return &ScopeError{Accessor: "InjectValue", Event: c.event.String()}
	}
	if variable < 0 || variable >= c.numVariables {
		return configurationErrorf("variable index %d out of range [0, %d)", variable, c.numVariables)
	}
	c.injection[variable] = value
	c.injected = true
	return nil
}

// AddLazyConstraint adds a constraint enforceable from this point of the
// search onward. It follows the same bound-emission rule as
// Session.AddConstraint and is valid only during event dispatch.
func (c *Context) AddLazyConstraint(terms []Term, lower, upper float64) error {
	if c.event == eventNone {
		return &ScopeError{Accessor: "AddLazyConstraint", Event: c.event.String()}
	}
	if err := validateConstraint(terms, lower, upper, c.numVariables); err != nil {
		return err
	}
	ts := make([]Term, len(terms))
	copy(ts, terms)
	rows := rowsFromBounds(ts, lower, upper, true)
	c.newRows = append(c.newRows, rows...)
	c.session.poolLazyRows(rows)
	return nil
}

// onProgress records a new best objective, bound and elapsed time. No
// client code is invoked; the values become visible through
// BestObjective, BestBound and Elapsed.
func (c *Context) onProgress(best, bound float64, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bestObjective = fromSolverValue(best)
	c.bestBound = fromSolverValue(bound)
	c.elapsed = elapsed
}

// onCandidate dispatches an integer-candidate event: the separation
// routine runs with read access to the candidate, and the heuristic
// opportunity is armed afterwards regardless of whether any constraint
// was added. It returns the rows the routine added.
func (c *Context) onCandidate(values []float64) ([]row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.event = eventCandidate
	c.candidate = values
	c.newRows = nil
	err := c.cb.SeparateAndAddLazyConstraints(c)
	c.candidate = nil
	c.event = eventNone
	c.pendingHeuristic = true

	if err != nil {
		return nil, &SolverError{Code: ErrCodeCallback, Msg: "separation routine failed", Cause: err}
	}
	return c.newRows, nil
}

// onNode dispatches a relaxation-node event. If no heuristic opportunity
// is armed the event is a no-op. Otherwise the heuristic routine runs
// exactly once, the opportunity is disarmed regardless of what it did,
// and any injected assignment is completed with the relaxation's values
// and returned, together with rows the routine added.
func (c *Context) onNode(relaxation []float64) ([]float64, []row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.pendingHeuristic {
		return nil, nil, nil
	}

	c.event = eventNode
	c.injection = make([]float64, c.numVariables)
	for i := range c.injection {
		c.injection[i] = math.NaN()
	}
	c.injected = false
	c.newRows = nil
	err := c.cb.ComputeFeasibleSolution(c)
	c.event = eventNone
	c.pendingHeuristic = false

	if err != nil {
		return nil, nil, &SolverError{Code: ErrCodeCallback, Msg: "heuristic completion routine failed", Cause: err}
	}
	if !c.injected {
		return nil, c.newRows, nil
	}
	solution := make([]float64, c.numVariables)
	for i := range solution {
		if math.IsNaN(c.injection[i]) {
			solution[i] = relaxation[i]
		} else {
			solution[i] = c.injection[i]
		}
	}
	c.injection = nil
	return solution, c.newRows, nil
}
