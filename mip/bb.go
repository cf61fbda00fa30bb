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
	"math"
	"sort"
	"sync"
	"time"

	"github.com/bits-and-blooms/bitset"
	log "github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

// errSearchStopped aborts the depth-first traversal when a stopping
// criterion is met. It never escapes the engine.
var errSearchStopped = errors.New("mip: search stopped")

type stopReason int8

const (
	stopNone stopReason = iota
	stopTime
	stopGap
)

// engine is the in-process branch-and-cut search behind
// Session.Optimize. It explores binary assignments depth first, prunes
// on an objective bound and on row infeasibility, and reports candidate,
// node and progress events to the callback context.
type engine struct {
	objective []float64
	order     []int
	start     []float64
	params    Params
	ctx       *Context

	began       time.Time
	deadline    time.Time
	hasDeadline bool

	// staticRows are the model's rows, frozen at construction; injected
	// heuristic solutions are checked against them.
	staticRows []row

	// mu guards the live row set, the incumbent and the stop reason.
	// Subtrees may be searched in parallel when Threads > 1; callback
	// dispatch itself is serialized by the Context.
	mu           sync.Mutex
	rows         []row
	incumbent    []float64
	incumbentObj float64
	bound        float64
	reason       stopReason
}

func newEngine(objective []float64, rows []row, priorities []int, start []float64, params Params, ctx *Context) *engine {
	order := make([]int, len(objective))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return priorities[order[a]] > priorities[order[b]]
	})
	var static []row
	for _, r := range rows {
		if !r.lazy {
			static = append(static, r)
		}
	}
	return &engine{
		staticRows:   static,
		objective:    objective,
		order:        order,
		start:        start,
		params:       params,
		ctx:          ctx,
		rows:         rows,
		incumbentObj: solverInfinity,
		bound:        -solverInfinity,
	}
}

func (e *engine) solve() (*Result, error) {
	e.began = time.Now()
	if e.params.TimeLimit > 0 {
		e.deadline = e.began.Add(e.params.TimeLimit)
		e.hasDeadline = true
	}
	n := len(e.objective)
	if e.params.Verbosity {
		log.Infof("search start: %d variables, %d rows, focus=%v, lpMethod=%v", n, len(e.rows), e.params.Focus, e.params.LPMethod)
	}

	pre := runPresolve(e.rows, n, e.params.Presolve, e.params.PresolvePasses, e.params.Verbosity)
	if pre.infeasible {
		if e.params.Verbosity {
			log.Infof("presolve proved infeasibility")
		}
		return &Result{status: StatusInfeasible, objective: math.Inf(1), bound: math.Inf(1)}, nil
	}

	if e.start != nil && isBinaryVector(e.start) {
		vals := roundBinary(e.start)
		if feasible(e.rows, vals) {
			e.incumbent = vals
			e.incumbentObj = objectiveValue(e.objective, vals)
			if e.params.Verbosity {
				log.Infof("warm start accepted with objective %v", e.incumbentObj)
			}
		}
	}

	e.bound = e.nodeBound(pre.fixed, pre.value)
	e.reportProgress()

	err := e.search(pre)
	if errors.Is(err, errSearchStopped) {
		err = nil
	}
	if err != nil {
		return nil, err
	}
	return e.buildResult(), nil
}

func (e *engine) search(pre presolveOutcome) error {
	threads := e.params.Threads
	b := e.nextBranchVar(pre.fixed)
	if threads > 1 && b >= 0 {
		relaxFirst := e.objective[b] < 0
		var g errgroup.Group
		for _, v := range e.childOrder(relaxFirst) {
			v := v
			fixed := pre.fixed.Clone()
			value := pre.value.Clone()
			fixed.Set(uint(b))
			value.SetTo(uint(b), v)
			g.Go(func() error {
				return e.dfs(fixed, value)
			})
		}
		return g.Wait()
	}
	return e.dfs(pre.fixed.Clone(), pre.value.Clone())
}

func (e *engine) dfs(fixed, value *bitset.BitSet) error {
	if err := e.checkStop(); err != nil {
		return err
	}

	e.mu.Lock()
	rows := e.rows
	inc := e.incumbentObj
	e.mu.Unlock()

	if e.nodeBound(fixed, value) >= inc-feasEps {
		return nil
	}
	for _, r := range rows {
		if rowImpossible(r, fixed, value) {
			return nil
		}
	}

	b := e.nextBranchVar(fixed)
	if b < 0 {
		return e.foundCandidate(e.assignment(fixed, value))
	}

	relax := e.relaxation(fixed, value)
	if e.ctx != nil {
		solution, newRows, err := e.ctx.onNode(relax)
		if err != nil {
			return err
		}
		e.appendRows(newRows)
		if solution != nil {
			e.acceptInjected(solution)
		}
	}

	for _, v := range e.childOrder(relax[b] > 0.5) {
		fixed.Set(uint(b))
		value.SetTo(uint(b), v)
		if err := e.dfs(fixed, value); err != nil {
			return err
		}
	}
	fixed.Clear(uint(b))
	value.Clear(uint(b))
	return nil
}

// foundCandidate handles a complete integer-feasible assignment: the
// separation routine runs first, and only a candidate that survives the
// rows it added can replace the incumbent. Replacement requires strict
// improvement, so an optimal warm start survives ties.
func (e *engine) foundCandidate(values []float64) error {
	e.mu.Lock()
	rows := e.rows
	e.mu.Unlock()
	if !feasible(rows, values) {
		return nil
	}

	if e.ctx != nil {
		candidate := make([]float64, len(values))
		copy(candidate, values)
		newRows, err := e.ctx.onCandidate(candidate)
		if err != nil {
			return err
		}
		if len(newRows) > 0 {
			e.appendRows(newRows)
			for _, r := range newRows {
				if !r.satisfied(values) {
					if e.params.Verbosity {
						log.Infof("candidate cut off by lazy constraint")
					}
					return nil
				}
			}
		}
	}

	obj := objectiveValue(e.objective, values)
	improved := false
	e.mu.Lock()
	if obj < e.incumbentObj {
		vals := make([]float64, len(values))
		copy(vals, values)
		e.incumbent = vals
		e.incumbentObj = obj
		improved = true
	}
	e.mu.Unlock()
	if improved {
		e.reportProgress()
	}
	return nil
}

// acceptInjected evaluates a heuristic solution injected at a node
// event. The assignment must satisfy the model's static rows;
// feasibility with respect to lazily added rows is the heuristic
// routine's contract. Replacement requires strict improvement.
func (e *engine) acceptInjected(values []float64) {
	if !feasible(e.staticRows, values) {
		if e.params.Verbosity {
			log.Infof("heuristic solution rejected: violates a model constraint")
		}
		return
	}
	obj := objectiveValue(e.objective, values)
	improved := false
	e.mu.Lock()
	if obj < e.incumbentObj {
		e.incumbent = values
		e.incumbentObj = obj
		improved = true
	}
	e.mu.Unlock()
	if improved {
		if e.params.Verbosity {
			log.Infof("heuristic solution accepted with objective %v", obj)
		}
		e.reportProgress()
	}
}

func (e *engine) appendRows(rows []row) {
	if len(rows) == 0 {
		return
	}
	e.mu.Lock()
	e.rows = append(e.rows, rows...)
	e.mu.Unlock()
}

func (e *engine) checkStop() error {
	if e.hasDeadline && time.Now().After(e.deadline) {
		e.setReason(stopTime)
		return errSearchStopped
	}
	e.mu.Lock()
	inc, bound := e.incumbentObj, e.bound
	e.mu.Unlock()
	if inc < solverInfinity {
		abs := inc - bound
		if abs <= e.params.AbsoluteGap {
			e.setReason(stopGap)
			return errSearchStopped
		}
		if abs/(1+math.Abs(inc)) <= e.params.RelativeGap {
			e.setReason(stopGap)
			return errSearchStopped
		}
	}
	return nil
}

func (e *engine) setReason(r stopReason) {
	e.mu.Lock()
	if e.reason == stopNone {
		e.reason = r
	}
	e.mu.Unlock()
}

func (e *engine) reportProgress() {
	e.mu.Lock()
	inc, bound := e.incumbentObj, e.bound
	e.mu.Unlock()
	elapsed := time.Since(e.began)
	if e.params.Verbosity {
		log.Infof("progress: incumbent %v, bound %v, elapsed %v", fromSolverValue(inc), fromSolverValue(bound), elapsed)
	}
	if e.ctx != nil {
		e.ctx.onProgress(inc, bound, elapsed)
	}
}

// nodeBound is a lower bound on any completion of the partial
// assignment: fixed variables contribute their value, free variables
// their cheapest one.
func (e *engine) nodeBound(fixed, value *bitset.BitSet) float64 {
	var b float64
	for i, c := range e.objective {
		if fixed.Test(uint(i)) {
			if value.Test(uint(i)) {
				b += c
			}
		} else if c < 0 {
			b += c
		}
	}
	return b
}

// relaxation is the node's relaxation-derived assignment: fixed
// variables keep their value, free variables take their bound-optimal
// one.
func (e *engine) relaxation(fixed, value *bitset.BitSet) []float64 {
	vals := make([]float64, len(e.objective))
	for i, c := range e.objective {
		switch {
		case fixed.Test(uint(i)):
			if value.Test(uint(i)) {
				vals[i] = 1
			}
		case c < 0:
			vals[i] = 1
		}
	}
	return vals
}

func (e *engine) assignment(fixed, value *bitset.BitSet) []float64 {
	vals := make([]float64, len(e.objective))
	for i := range vals {
		if value.Test(uint(i)) {
			vals[i] = 1
		}
	}
	return vals
}

// nextBranchVar returns the first free variable in branching order, or
// -1 when the assignment is complete.
func (e *engine) nextBranchVar(fixed *bitset.BitSet) int {
	for _, i := range e.order {
		if !fixed.Test(uint(i)) {
			return i
		}
	}
	return -1
}

// childOrder decides which branch to explore first. The default follows
// the relaxation value; a best-bound focus explores the opposite branch
// first to move the bound.
func (e *engine) childOrder(relaxFirst bool) [2]bool {
	first := relaxFirst
	if e.params.Focus == FocusBestBound {
		first = !relaxFirst
	}
	return [2]bool{first, !first}
}

func (e *engine) buildResult() *Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.incumbentObj >= solverInfinity {
		if e.reason == stopNone {
			return &Result{status: StatusInfeasible, objective: math.Inf(1), bound: math.Inf(1)}
		}
		return &Result{status: StatusInterrupted, objective: math.Inf(1), bound: fromSolverValue(e.bound)}
	}
	values := make([]float64, len(e.incumbent))
	copy(values, e.incumbent)
	switch e.reason {
	case stopTime:
		return &Result{status: StatusFeasible, objective: e.incumbentObj, bound: fromSolverValue(e.bound), values: values}
	case stopGap:
		return &Result{status: StatusOptimal, objective: e.incumbentObj, bound: fromSolverValue(e.bound), values: values}
	default:
		// Exhausted the tree: the incumbent is proven optimal.
		return &Result{status: StatusOptimal, objective: e.incumbentObj, bound: e.incumbentObj, values: values}
	}
}

func isBinaryVector(values []float64) bool {
	for _, v := range values {
		if math.Abs(v) > feasEps && math.Abs(v-1) > feasEps {
			return false
		}
	}
	return true
}

func roundBinary(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if v > 0.5 {
			out[i] = 1
		}
	}
	return out
}
