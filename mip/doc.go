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

// Package mip provides a callback-driven interface to a branch-and-cut
// solver for binary integer linear programs.
//
// A Session owns the variables, the constraint pool and the solver
// configuration, and runs the search through Optimize. Problems whose
// constraint set is too large to state up front register a Callback:
// during the search, integer-feasible candidates are handed
// to the callback's separation routine, which may cut them off with lazy
// constraints, and discovered candidates may be completed into full
// solutions by the callback's heuristic routine at node events.
//
// All variables are binary. Constraints are linear rows over explicit
// (variable, coefficient) terms, bounded below and/or above; an infinite
// bound leaves that side unconstrained.
package mip
