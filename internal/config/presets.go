package config

import (
	"math"
	"sort"
)

// Preset adjusts a default configuration into one of the lab scenarios.
type Preset func(c *Config)

func pendulumPreset(theta, duration float64, steps int, friction, amplitude, frequency float64) Preset {
	return func(c *Config) {
		c.Model = "pendulum"
		c.Duration = duration
		c.Dt = duration / float64(steps)
		c.InitState.Theta = theta
		c.InitState.Omega = 0
		c.Pendulum.Friction = friction
		c.Pendulum.Amplitude = amplitude
		c.Pendulum.Frequency = frequency
	}
}

func coriolisPreset(omega, x, y, u, v float64) Preset {
	return func(c *Config) {
		c.Model = "coriolis"
		c.Dt = 0.01
		c.Duration = 20
		c.Coriolis.Omega = omega
		c.Coriolis.DiskRadius = DefaultDiskRadius
		c.InitState.X, c.InitState.Y = x, y
		c.InitState.U, c.InitState.V = u, v
	}
}

func lotkaPreset(prey, predator float64) Preset {
	return func(c *Config) {
		c.Model = "lotka"
		c.Dt = 0.01
		c.Duration = 128
		c.InitState.Prey = prey
		c.InitState.Predator = predator
	}
}

func heaterPreset(power float64) Preset {
	return func(c *Config) {
		c.Model = "heater"
		c.Dt = 0.1
		c.Duration = 2400
		c.Heater.Power = power
		c.InitState.Temperature = 20
	}
}

func advectionPreset(ic string) Preset {
	return func(c *Config) {
		c.Model = "advection"
		c.Advection.Initial = ic
		c.Advection.Duration = 4
	}
}

func swarmPreset(turbulence bool) Preset {
	return func(c *Config) {
		c.Model = "swarm"
		c.Swarm.Particles = DefaultParticles
		c.Swarm.Dt = DefaultSwarmDt
		c.Swarm.Turbulence = turbulence
		c.Swarm.Times = []float64{0, 0.1, 0.2, 0.3, DefaultSwarmTime}
	}
}

var Presets = map[string]map[string]Preset{
	"pendulum": {
		"free":      pendulumPreset(math.Pi/18, 6*math.Pi, 10000, 0, 0, 0),
		"friction":  pendulumPreset(math.Pi/18, 6*math.Pi, 10000, 1, 0, 0),
		"forced":    pendulumPreset(math.Pi/6, 50, 3000, 0.2, 0.7, 3.13),
		"resonance": pendulumPreset(math.Pi/6, 50, 3000, 0.05, 1.5, 3.13),
	},
	"coriolis": {
		"e1": coriolisPreset(1.0, 1, 0, 0, 2),
		"e2": coriolisPreset(2.0, 0, 1, 2, 0),
		"e3": coriolisPreset(3.0, 2, 0, 0, 1.5),
		"e4": coriolisPreset(1.5, 1, 1, 1, -1),
	},
	"lotka": {
		"balanced":  lotkaPreset(40, 9),
		"predators": lotkaPreset(20, 30),
		"prey":      lotkaPreset(80, 5),
	},
	"heater": {
		"low":    heaterPreset(50),
		"medium": heaterPreset(100),
		"high":   heaterPreset(150),
	},
	"advection": {
		"box":      advectionPreset("box"),
		"gaussian": advectionPreset("gaussian"),
		"sine":     advectionPreset("sine"),
	},
	"swarm": {
		"laminar":   swarmPreset(false),
		"turbulent": swarmPreset(true),
	},
}

// GetPreset returns a fresh default configuration with the named preset
// applied, or nil if there is no such preset.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	apply, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Models lists every model that has presets.
func Models() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
