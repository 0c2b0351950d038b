package config

import (
	"fmt"
	"os"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/advection"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt         = 0.01
	DefaultDuration   = 10.0
	DefaultTheta      = 0.5
	DefaultDiskRadius = 5.0
	DefaultParticles  = 20000
	DefaultSwarmDt    = 0.001
	DefaultSwarmTime  = 0.4
)

type Config struct {
	Model      string          `yaml:"model"`
	Integrator string          `yaml:"integrator"`
	Dt         float64         `yaml:"dt"`
	Duration   float64         `yaml:"duration"`
	Seed       int64           `yaml:"seed"`
	InitState  InitStateConfig `yaml:"init_state"`

	Pendulum  physics.Pendulum      `yaml:"pendulum"`
	Coriolis  CoriolisConfig        `yaml:"coriolis"`
	Lotka     physics.LotkaVolterra `yaml:"lotka"`
	Heater    physics.Heater        `yaml:"heater"`
	Advection AdvectionConfig       `yaml:"advection"`
	Swarm     SwarmConfig           `yaml:"swarm"`
}

type InitStateConfig struct {
	Theta       float64 `yaml:"theta"`
	Omega       float64 `yaml:"omega"`
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	U           float64 `yaml:"u"`
	V           float64 `yaml:"v"`
	Prey        float64 `yaml:"prey"`
	Predator    float64 `yaml:"predator"`
	Temperature float64 `yaml:"temperature"` // celsius
}

type CoriolisConfig struct {
	physics.Coriolis `yaml:",inline"`
	// DiskRadius ends the run once the particle leaves the disk. Zero disables it.
	DiskRadius float64 `yaml:"disk_radius"`
}

type AdvectionConfig struct {
	advection.Grid `yaml:",inline"`
	Initial        string   `yaml:"initial"`
	Duration       float64  `yaml:"duration"`
	Schemes        []string `yaml:"schemes"`
}

type SwarmConfig struct {
	Particles  int       `yaml:"particles"`
	Dt         float64   `yaml:"dt"`
	Field      string    `yaml:"field"`
	Turbulence bool      `yaml:"turbulence"`
	Amplitude  float64   `yaml:"amplitude"`
	Times      []float64 `yaml:"times"`
	// Grid is the Eulerian grid used to compare against the particle swarm.
	Grid advection.Grid2D `yaml:"grid"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "pendulum",
		Integrator: "rk4",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Seed:       1,
		InitState: InitStateConfig{
			Theta:       DefaultTheta,
			Temperature: 20,
		},
		Pendulum: *physics.NewPendulum(),
		Coriolis: CoriolisConfig{
			Coriolis:   *physics.NewCoriolis(1),
			DiskRadius: DefaultDiskRadius,
		},
		Lotka:  *physics.NewLotkaVolterra(),
		Heater: *physics.NewHeater(),
		Advection: AdvectionConfig{
			Grid:     advection.DefaultGrid(),
			Initial:  "box",
			Duration: 4.0,
			Schemes:  []string{"upwind", "implicit"},
		},
		Swarm: SwarmConfig{
			Particles: DefaultParticles,
			Dt:        DefaultSwarmDt,
			Field:     "cellular",
			Amplitude: 0.5,
			Times:     []float64{0, 0.1, 0.2, 0.3, DefaultSwarmTime},
			Grid:      advection.DefaultGrid2D(),
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Span is the integration interval [0, Duration] at step Dt.
func (c *Config) Span() dynamo.Span {
	return dynamo.SpanFromStep(0, c.Duration, c.Dt)
}

func (c *Config) Validate() error {
	switch c.Model {
	case "advection":
		return c.Advection.Validate()
	case "swarm":
		return c.Swarm.Validate()
	}

	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrParameterBounds, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", dynamo.ErrParameterBounds, c.Duration)
	}
	if err := c.Span().Validate(); err != nil {
		return err
	}
	switch c.Model {
	case "pendulum":
		return c.Pendulum.Validate()
	case "heater":
		return c.Heater.Validate()
	case "coriolis", "lotka":
		return nil
	default:
		return fmt.Errorf("unknown model: %s", c.Model)
	}
}

func (a *AdvectionConfig) Validate() error {
	if err := a.Grid.Validate(); err != nil {
		return err
	}
	if a.Duration <= 0 {
		return fmt.Errorf("%w: advection duration must be positive, got %g", dynamo.ErrParameterBounds, a.Duration)
	}
	if _, ok := advection.InitialConditions[a.Initial]; !ok {
		return fmt.Errorf("unknown initial condition: %s", a.Initial)
	}
	for _, name := range a.Schemes {
		if _, err := advection.ParseScheme(name); err != nil {
			return err
		}
	}
	return nil
}

func (s *SwarmConfig) Validate() error {
	if s.Particles < 1 {
		return fmt.Errorf("%w: need at least one particle, got %d", dynamo.ErrParameterBounds, s.Particles)
	}
	if err := s.Grid.Validate(); err != nil {
		return err
	}
	if s.Dt <= 0 {
		return fmt.Errorf("%w: swarm dt must be positive, got %g", dynamo.ErrParameterBounds, s.Dt)
	}
	for i := 1; i < len(s.Times); i++ {
		if s.Times[i] < s.Times[i-1] {
			return fmt.Errorf("%w: snapshot times must be sorted", dynamo.ErrParameterBounds)
		}
	}
	return nil
}

func (c *Config) GetInitState() []float64 {
	switch c.Model {
	case "coriolis":
		return []float64{c.InitState.X, c.InitState.Y, c.InitState.U, c.InitState.V}
	case "lotka":
		return []float64{c.InitState.Prey, c.InitState.Predator}
	case "heater":
		return []float64{physics.CelsiusToKelvin(c.InitState.Temperature)}
	default:
		return []float64{c.InitState.Theta, c.InitState.Omega}
	}
}
