// Copyright 2010-2025 Google LLC
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

// The independent_set_sample command finds a maximum-weight independent
// set with lazily separated edge constraints: the model starts with no
// constraints at all, and every time the search proposes a set that uses
// both endpoints of an edge, the separation routine cuts it off. The
// heuristic routine repairs the last candidate into an independent set
// and injects it back.
package main

import (
	"fmt"
	"math"

	log "github.com/golang/glog"

	"github.com/optlab/branchcut/mip"
)

type edge struct {
	u, v int
}

// independentSetCallback separates violated edge constraints and repairs
// candidates greedily.
type independentSetCallback struct {
	weights   []float64
	edges     []edge
	candidate []float64
}

func (c *independentSetCallback) SeparateAndAddLazyConstraints(ctx *mip.Context) error {
	c.candidate = make([]float64, len(c.weights))
	for i := range c.candidate {
		v, err := ctx.CandidateValue(i)
		if err != nil {
			return err
		}
		c.candidate[i] = v
	}
	for _, e := range c.edges {
		if c.candidate[e.u] > 0.5 && c.candidate[e.v] > 0.5 {
			terms := []mip.Term{{Var: e.u, Coeff: 1}, {Var: e.v, Coeff: 1}}
			if err := ctx.AddLazyConstraint(terms, math.Inf(-1), 1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *independentSetCallback) ComputeFeasibleSolution(ctx *mip.Context) error {
	if c.candidate == nil {
		return nil
	}
	// Repair the stashed candidate: for every conflicting edge, drop the
	// lighter endpoint.
	repaired := make([]float64, len(c.candidate))
	copy(repaired, c.candidate)
	for _, e := range c.edges {
		if repaired[e.u] > 0.5 && repaired[e.v] > 0.5 {
			if c.weights[e.u] < c.weights[e.v] {
				repaired[e.u] = 0
			} else {
				repaired[e.v] = 0
			}
		}
	}
	for i, v := range repaired {
		if err := ctx.InjectValue(i, v); err != nil {
			return err
		}
	}
	return nil
}

func independentSet() error {
	weights := []float64{3, 2, 4, 1, 5}
	edges := []edge{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {0, 4}}

	session := mip.NewSession()
	// Minimize the negated weights to maximize the selected weight.
	coefficients := make([]float64, len(weights))
	for i, w := range weights {
		coefficients[i] = -w
	}
	if err := session.AddVariables(coefficients); err != nil {
		return err
	}
	if err := session.RegisterCallback(&independentSetCallback{weights: weights, edges: edges}); err != nil {
		return err
	}
	if err := session.SetParameters(mip.Params{Verbosity: true}); err != nil {
		return err
	}

	result, err := session.Optimize()
	if err != nil {
		return err
	}

	fmt.Printf("Status: %v\n", result.Status())
	fmt.Printf("Total weight: %v\n", -result.Objective())
	for i := range weights {
		value, err := result.Label(i)
		if err != nil {
			return err
		}
		if value > 0.5 {
			fmt.Printf("vertex %d (weight %v)\n", i, weights[i])
		}
	}
	return nil
}

func main() {
	if err := independentSet(); err != nil {
		log.Exitf("independent set sample returned with error: %v", err)
	}
}
