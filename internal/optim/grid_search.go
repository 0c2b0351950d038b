package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/experiment"
)

// Builder prepares an experiment for one combination of parameter values.
type Builder func(params map[string]float64) (*experiment.Experiment, error)

type Evaluation struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type Result struct {
	Best        map[string]float64
	Value       float64
	Evaluations []Evaluation
}

// GridSearch evaluates a metric on the cartesian product of parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Maximize makes Search look for the largest metric value instead of the
// smallest.
func (g *GridSearch) Maximize() *GridSearch {
	g.maximize = true
	return g
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Search runs every grid point in order. Points whose build or run fails are
// recorded with their error and skipped when picking the best value.
func (g *GridSearch) Search(ctx context.Context, build Builder, metricName string) (*Result, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	res := &Result{Value: math.Inf(1)}
	if g.maximize {
		res.Value = math.Inf(-1)
	}

	if err := g.searchRecursive(ctx, 0, map[string]float64{}, build, metricName, res); err != nil {
		return res, err
	}
	if res.Best == nil {
		return res, fmt.Errorf("optim: no grid point produced %q", metricName)
	}
	return res, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build Builder,
	metricName string,
	res *Result,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		eval := Evaluation{Params: current}
		eval.Value, eval.Err = evaluate(ctx, build, current, metricName)
		res.Evaluations = append(res.Evaluations, eval)
		if eval.Err != nil {
			return nil
		}
		if g.better(eval.Value, res.Value) {
			res.Value = eval.Value
			res.Best = make(map[string]float64, len(current))
			for k, v := range current {
				res.Best[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, next, build, metricName, res); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) better(v, best float64) bool {
	if math.IsNaN(v) {
		return false
	}
	if g.maximize {
		return v > best
	}
	return v < best
}

func evaluate(ctx context.Context, build Builder, params map[string]float64, metricName string) (float64, error) {
	exp, err := build(params)
	if err != nil {
		return 0, err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	val, ok := result.Metrics[metricName]
	if !ok && metricName == "energy_drift" {
		return result.EnergyDrift, nil
	}
	if !ok {
		return 0, fmt.Errorf("optim: run has no metric %q", metricName)
	}
	return val, nil
}
