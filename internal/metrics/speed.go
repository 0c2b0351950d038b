package metrics

import (
	"math"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
)

// SpeedDeviation is max|E(t) - 1| with E(t) = (u²+v²)/(u0²+v0²), reading the
// velocity from components U and U+1 of the state.
type SpeedDeviation struct {
	U int

	initial float64
	samples int
	maxDev  float64
}

func NewSpeedDeviation(u int) *SpeedDeviation {
	return &SpeedDeviation{U: u}
}

func (s *SpeedDeviation) Name() string { return "speed_deviation" }

func (s *SpeedDeviation) Observe(x dynamo.State, t float64) {
	if len(x) < s.U+2 {
		return
	}
	sq := x[s.U]*x[s.U] + x[s.U+1]*x[s.U+1]
	if s.samples == 0 {
		s.initial = sq
	}
	s.samples++
	if s.initial == 0 {
		return
	}
	s.maxDev = math.Max(s.maxDev, math.Abs(sq/s.initial-1))
}

func (s *SpeedDeviation) Value() float64 { return s.maxDev }

func (s *SpeedDeviation) Reset() {
	s.initial = 0
	s.samples = 0
	s.maxDev = 0
}
