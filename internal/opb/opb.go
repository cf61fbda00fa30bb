// Package opb reads linear pseudo-Boolean problems from an OPB-style
// text format: an optional "min:" objective line followed by one
// constraint per line, each a sequence of coefficient/variable pairs, a
// relational operator (>=, <= or =), a right-hand side and a closing
// semicolon. Lines starting with '*' are comments. Variables are named
// x1..xn.
package opb

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Term is one (variable index, coefficient) pair. Variable indices are
// zero-based.
type Term struct {
	Var   int
	Coeff float64
}

// Constraint bounds a linear expression below and/or above. An infinite
// bound leaves that side unconstrained.
type Constraint struct {
	Terms []Term
	Lower float64
	Upper float64
}

// Problem is a parsed pseudo-Boolean minimization problem.
type Problem struct {
	NumVars     int
	Objective   []float64
	Constraints []Constraint
}

// ParseFile reads a problem from the file at path.
func ParseFile(path string) (*Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a problem from r.
func Parse(r io.Reader) (*Problem, error) {
	p := &Problem{}
	var objTerms []Term
	haveObjective := false
	maxVar := 0

	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}
		line = strings.TrimSpace(strings.TrimSuffix(line, ";"))
		if rest, ok := strings.CutPrefix(line, "min:"); ok {
			if haveObjective {
				return nil, fmt.Errorf("opb: line %d: duplicate objective", lineno)
			}
			terms, mv, err := parseTerms(strings.Fields(rest))
			if err != nil {
				return nil, fmt.Errorf("opb: line %d: %v", lineno, err)
			}
			objTerms = terms
			haveObjective = true
			if mv > maxVar {
				maxVar = mv
			}
			continue
		}
		c, mv, err := parseConstraint(line)
		if err != nil {
			return nil, fmt.Errorf("opb: line %d: %v", lineno, err)
		}
		if mv > maxVar {
			maxVar = mv
		}
		p.Constraints = append(p.Constraints, c)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	p.NumVars = maxVar
	p.Objective = make([]float64, maxVar)
	for _, t := range objTerms {
		p.Objective[t.Var] += t.Coeff
	}
	return p, nil
}

func parseConstraint(line string) (Constraint, int, error) {
	op := ""
	at := -1
	for _, cand := range []string{">=", "<=", "="} {
		if i := strings.Index(line, cand); i >= 0 {
			op = cand
			at = i
			break
		}
	}
	if at < 0 {
		return Constraint{}, 0, fmt.Errorf("no relational operator in %q", line)
	}
	terms, maxVar, err := parseTerms(strings.Fields(line[:at]))
	if err != nil {
		return Constraint{}, 0, err
	}
	rhs, err := strconv.ParseFloat(strings.TrimSpace(line[at+len(op):]), 64)
	if err != nil {
		return Constraint{}, 0, fmt.Errorf("invalid right-hand side %q", strings.TrimSpace(line[at+len(op):]))
	}
	c := Constraint{Terms: terms, Lower: math.Inf(-1), Upper: math.Inf(1)}
	switch op {
	case ">=":
		c.Lower = rhs
	case "<=":
		c.Upper = rhs
	case "=":
		c.Lower = rhs
		c.Upper = rhs
	}
	return c, maxVar, nil
}

// parseTerms reads alternating coefficient and variable tokens, e.g.
// "+2 x1 -1 x3".
func parseTerms(fields []string) ([]Term, int, error) {
	if len(fields)%2 != 0 {
		return nil, 0, fmt.Errorf("odd number of tokens in term list %v", fields)
	}
	var terms []Term
	maxVar := 0
	for i := 0; i < len(fields); i += 2 {
		coeff, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid coefficient %q", fields[i])
		}
		name := fields[i+1]
		if !strings.HasPrefix(name, "x") {
			return nil, 0, fmt.Errorf("invalid variable %q", name)
		}
		idx, err := strconv.Atoi(name[1:])
		if err != nil || idx < 1 {
			return nil, 0, fmt.Errorf("invalid variable %q", name)
		}
		terms = append(terms, Term{Var: idx - 1, Coeff: coeff})
		if idx > maxVar {
			maxVar = idx
		}
	}
	return terms, maxVar, nil
}
