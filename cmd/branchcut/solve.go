package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/optlab/branchcut/internal/opb"
	"github.com/optlab/branchcut/mip"
)

func newSolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve FILE",
		Short: "Solve the problem in the given OPB file",
		Args:  cobra.ExactArgs(1),
	}
	flags := cmd.Flags()
	flags.Duration("time-limit", 0, "stop the search after this duration")
	flags.Int("threads", 0, "parallelism hint (0 = solver default)")
	flags.Float64("absolute-gap", 0, "stop once the absolute gap falls below this")
	flags.Float64("relative-gap", 0, "stop once the relative gap falls below this")
	flags.String("focus", "balanced", "search focus: balanced, feasibility, optimality or bestBound")
	flags.String("presolve", "auto", "presolve mode: auto, primal, dual or none")
	flags.Int("presolve-passes", 0, "presolve pass limit (0 = automatic)")
	flags.Bool("verbose", false, "log search progress")
	flags.String("config", "", "config file with parameter defaults")

	v := viper.New()
	v.SetEnvPrefix("BRANCHCUT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if cfg := v.GetString("config"); cfg != "" {
			v.SetConfigFile(cfg)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config: %w", err)
			}
		}
		params, err := paramsFromConfig(v)
		if err != nil {
			return err
		}
		return solve(cmd, args[0], params)
	}
	return cmd
}

func paramsFromConfig(v *viper.Viper) (mip.Params, error) {
	focus, err := parseFocus(v.GetString("focus"))
	if err != nil {
		return mip.Params{}, err
	}
	presolve, err := parsePresolve(v.GetString("presolve"))
	if err != nil {
		return mip.Params{}, err
	}
	return mip.Params{
		TimeLimit:      v.GetDuration("time-limit"),
		Threads:        v.GetInt("threads"),
		AbsoluteGap:    v.GetFloat64("absolute-gap"),
		RelativeGap:    v.GetFloat64("relative-gap"),
		Focus:          focus,
		Verbosity:      v.GetBool("verbose"),
		Presolve:       presolve,
		PresolvePasses: v.GetInt("presolve-passes"),
	}, nil
}

func parseFocus(s string) (mip.Focus, error) {
	switch s {
	case "balanced":
		return mip.FocusBalanced, nil
	case "feasibility":
		return mip.FocusFeasibility, nil
	case "optimality":
		return mip.FocusOptimality, nil
	case "bestBound":
		return mip.FocusBestBound, nil
	}
	return 0, fmt.Errorf("unknown focus %q", s)
}

func parsePresolve(s string) (mip.PresolveMode, error) {
	switch s {
	case "auto":
		return mip.PresolveAuto, nil
	case "primal":
		return mip.PresolvePrimal, nil
	case "dual":
		return mip.PresolveDual, nil
	case "none":
		return mip.PresolveNone, nil
	}
	return 0, fmt.Errorf("unknown presolve mode %q", s)
}

func solve(cmd *cobra.Command, path string, params mip.Params) error {
	started := time.Now()
	problem, err := opb.ParseFile(path)
	if err != nil {
		return err
	}

	session := mip.NewSession()
	if err := session.AddVariables(problem.Objective); err != nil {
		return err
	}
	for _, c := range problem.Constraints {
		terms := make([]mip.Term, len(c.Terms))
		for i, t := range c.Terms {
			terms[i] = mip.Term{Var: t.Var, Coeff: t.Coeff}
		}
		if err := session.AddConstraint(terms, c.Lower, c.Upper); err != nil {
			return err
		}
	}
	if err := session.SetParameters(params); err != nil {
		return err
	}

	result, err := session.Optimize()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "c solved %s in %v\n", path, time.Since(started).Round(time.Millisecond))
	fmt.Fprintf(out, "s %v\n", result.Status())
	if !result.HasSolution() {
		return nil
	}
	fmt.Fprintf(out, "o %v\n", result.Objective())
	fmt.Fprintf(out, "c bound %v gap %v\n", result.Bound(), result.Gap())
	var sb strings.Builder
	sb.WriteString("v")
	for i, val := range result.Values() {
		if val > 0.5 {
			fmt.Fprintf(&sb, " x%d", i+1)
		} else {
			fmt.Fprintf(&sb, " -x%d", i+1)
		}
	}
	fmt.Fprintln(out, sb.String())
	return nil
}
