package metrics

import (
	"math"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
)

// Stability is the fraction of samples whose components all stay finite and
// under threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(x dynamo.State, t float64) {
	s.samples++
	for _, val := range x {
		if math.IsNaN(val) || math.Abs(val) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// MaxAbs records the largest component magnitude seen; NaN sticks.
type MaxAbs struct {
	max float64
}

func NewMaxAbs() *MaxAbs { return &MaxAbs{} }

func (m *MaxAbs) Name() string { return "max_abs" }

func (m *MaxAbs) Observe(x dynamo.State, t float64) {
	if math.IsNaN(m.max) {
		return
	}
	for _, v := range x {
		if math.IsNaN(v) {
			m.max = math.NaN()
			return
		}
		m.max = math.Max(m.max, math.Abs(v))
	}
}

func (m *MaxAbs) Value() float64 { return m.max }
func (m *MaxAbs) Reset()         { m.max = 0 }
