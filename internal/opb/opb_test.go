package opb

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	const input = `* a small knapsack
min: -6 x1 -10 x2 -12 x3 ;
+1 x1 +2 x2 +3 x3 <= 5 ;
+1 x2 >= 1 ;
+1 x1 +1 x3 = 1 ;
`
	got, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() returned error %v", err)
	}
	want := &Problem{
		NumVars:   3,
		Objective: []float64{-6, -10, -12},
		Constraints: []Constraint{
			{
				Terms: []Term{{Var: 0, Coeff: 1}, {Var: 1, Coeff: 2}, {Var: 2, Coeff: 3}},
				Lower: math.Inf(-1),
				Upper: 5,
			},
			{
				Terms: []Term{{Var: 1, Coeff: 1}},
				Lower: 1,
				Upper: math.Inf(1),
			},
			{
				Terms: []Term{{Var: 0, Coeff: 1}, {Var: 2, Coeff: 1}},
				Lower: 1,
				Upper: 1,
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() returned unexpected diff (-want +got):\n%s", diff)
	}
}

func TestParseNoObjective(t *testing.T) {
	got, err := Parse(strings.NewReader("+1 x1 +1 x2 >= 1 ;\n"))
	if err != nil {
		t.Fatalf("Parse() returned error %v", err)
	}
	if got.NumVars != 2 {
		t.Errorf("NumVars = %d, want 2", got.NumVars)
	}
	if diff := cmp.Diff([]float64{0, 0}, got.Objective); diff != "" {
		t.Errorf("Objective returned unexpected diff (-want +got):\n%s", diff)
	}
}

func TestParseObjectiveWidensVariableRange(t *testing.T) {
	got, err := Parse(strings.NewReader("min: +1 x4 ;\n+1 x1 <= 1 ;\n"))
	if err != nil {
		t.Fatalf("Parse() returned error %v", err)
	}
	if got.NumVars != 4 {
		t.Errorf("NumVars = %d, want 4", got.NumVars)
	}
	if diff := cmp.Diff([]float64{0, 0, 0, 1}, got.Objective); diff != "" {
		t.Errorf("Objective returned unexpected diff (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{
			name:  "duplicate_objective",
			input: "min: +1 x1 ;\nmin: +1 x2 ;\n",
		},
		{
			name:  "missing_operator",
			input: "+1 x1 +1 x2 5 ;\n",
		},
		{
			name:  "odd_token_count",
			input: "+1 x1 +1 <= 5 ;\n",
		},
		{
			name:  "bad_coefficient",
			input: "one x1 <= 5 ;\n",
		},
		{
			name:  "bad_variable_name",
			input: "+1 y1 <= 5 ;\n",
		},
		{
			name:  "zero_variable_index",
			input: "+1 x0 <= 5 ;\n",
		},
		{
			name:  "bad_right_hand_side",
			input: "+1 x1 <= five ;\n",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tc.input)); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tc.input)
			}
		})
	}
}
