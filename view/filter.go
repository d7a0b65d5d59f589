package view

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
	"github.com/iquod/wod/profile"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Filter is a compiled boolean expression over the keys of DictOf.
//
// Expressions use govaluate syntax, for example
//
//	latitude > 0 && country == 'US' && max(t) < 30
//
// Per-level series can be reduced with count, min, max, mean and sum, which
// skip absent values. A key the cast does not carry evaluates to NaN, so any
// comparison against it is false.
type Filter struct {
	source string
	expr   *govaluate.EvaluableExpression
	vars   []string
}

var filterFuncs = map[string]govaluate.ExpressionFunction{
	"count": seriesFunc("count", func(v []float64) float64 { return float64(len(v)) }),
	"min":   seriesFunc("min", floats.Min),
	"max":   seriesFunc("max", floats.Max),
	"mean":  seriesFunc("mean", func(v []float64) float64 { return stat.Mean(v, nil) }),
	"sum":   seriesFunc("sum", floats.Sum),
}

func seriesFunc(name string, fn func([]float64) float64) govaluate.ExpressionFunction {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("got %d arguments for function '%s', but needs 1", len(args), name)
		}

		var values []float64
		switch a := args[0].(type) {
		case []float64:
			values = a
		case float64:
			values = []float64{a}
		default:
			return nil, fmt.Errorf("function '%s' needs a numeric series, got %T", name, args[0])
		}

		out := aggregate(values, fn)
		if name == "count" && math.IsNaN(out) {
			return 0.0, nil
		}

		return out, nil
	}
}

// CompileFilter parses expr.
func CompileFilter(expr string) (*Filter, error) {
	e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, filterFuncs)
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expr, err)
	}

	return &Filter{source: expr, expr: e, vars: e.Vars()}, nil
}

// String returns the source expression.
func (f *Filter) String() string { return f.source }

// Match evaluates the filter against p.
func (f *Filter) Match(p profile.Profile) (bool, error) {
	params := filterParams(DictOf(p))
	for _, v := range f.vars {
		if _, ok := params[v]; !ok {
			params[v] = math.NaN()
		}
	}

	out, err := f.expr.Evaluate(params)
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q on uid %d: %w", f.source, p.UID(), err)
	}

	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("filter %q yields %T, not a boolean", f.source, out)
	}

	return ok, nil
}

// Select returns the profiles of ps that match, in order.
func (f *Filter) Select(ps []profile.Profile) ([]profile.Profile, error) {
	out := make([]profile.Profile, 0, len(ps))
	for _, p := range ps {
		ok, err := f.Match(p)
		if err != nil {
			return out, err
		}
		if ok {
			out = append(out, p)
		}
	}

	return out, nil
}

// filterParams converts the integer scalars of a dictionary to float64, the
// only numeric type the evaluator compares.
func filterParams(d map[string]any) map[string]any {
	for k, v := range d {
		switch n := v.(type) {
		case int:
			d[k] = float64(n)
		case int64:
			d[k] = float64(n)
		}
	}

	return d
}
