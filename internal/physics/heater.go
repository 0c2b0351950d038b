package physics

import (
	"fmt"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
)

const (
	StefanBoltzmann = 5.67e-8
	ZeroCelsius     = 273.13
)

// Heater is a lumped body of mass m heated by a source of power P with
// efficiency η, losing heat by convection and radiation to the ambient.
// State is [T] in kelvin. Heating is a fixed switch; there is no thermostat.
type Heater struct {
	Power        float64 `yaml:"power"`
	Mass         float64 `yaml:"mass"`
	HeatCapacity float64 `yaml:"heat_capacity"`
	Area         float64 `yaml:"area"`
	Convection   float64 `yaml:"convection"`
	Ambient      float64 `yaml:"ambient"`
	Efficiency   float64 `yaml:"efficiency"`
	Heating      bool    `yaml:"heating"`
}

func NewHeater() *Heater {
	return &Heater{
		Power:        100,
		Mass:         0.3,
		HeatCapacity: 500,
		Area:         0.01,
		Convection:   10,
		Ambient:      CelsiusToKelvin(20),
		Efficiency:   0.9,
		Heating:      true,
	}
}

func (h *Heater) StateDim() int { return 1 }

func (h *Heater) Derive(s dynamo.State, _ float64) dynamo.State {
	temp := s[0]
	gen := 0.0
	if h.Heating {
		gen = h.Power * h.Efficiency
	}
	conv := h.Convection * h.Area * (temp - h.Ambient)
	t4, a4 := temp*temp*temp*temp, h.Ambient*h.Ambient*h.Ambient*h.Ambient
	rad := StefanBoltzmann * h.Area * (t4 - a4)

	return dynamo.State{(gen - conv - rad) / (h.Mass * h.HeatCapacity)}
}

func CelsiusToKelvin(c float64) float64 { return c + ZeroCelsius }
func KelvinToCelsius(k float64) float64 { return k - ZeroCelsius }

func (h *Heater) Validate() error {
	if h.Mass <= 0 || h.HeatCapacity <= 0 {
		return fmt.Errorf("%w: heater mass and heat capacity must be positive", dynamo.ErrParameterBounds)
	}
	return nil
}

func (h *Heater) GetParams() map[string]float64 {
	return map[string]float64{
		"power":         h.Power,
		"mass":          h.Mass,
		"heat_capacity": h.HeatCapacity,
		"area":          h.Area,
		"convection":    h.Convection,
		"ambient":       h.Ambient,
		"efficiency":    h.Efficiency,
	}
}

func (h *Heater) SetParam(name string, value float64) error {
	switch name {
	case "power":
		h.Power = value
	case "mass":
		h.Mass = value
	case "heat_capacity":
		h.HeatCapacity = value
	case "area":
		h.Area = value
	case "convection":
		h.Convection = value
	case "ambient":
		h.Ambient = value
	case "efficiency":
		h.Efficiency = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
