package optim

import (
	"fmt"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/config"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/experiment"
)

// ParamBuilder returns a Builder that copies base for every grid point and
// sets the point's values as model parameters.
func ParamBuilder(base *config.Config, opts ...experiment.Option) Builder {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := *base
		exp := experiment.New(&cfg, opts...)
		if err := exp.Setup(); err != nil {
			return nil, err
		}

		sys, ok := exp.System().(dynamo.Configurable)
		if !ok {
			return nil, fmt.Errorf("optim: model %q has no tunable parameters", cfg.Model)
		}
		for name, val := range params {
			if err := sys.SetParam(name, val); err != nil {
				return nil, err
			}
		}
		return exp, nil
	}
}
