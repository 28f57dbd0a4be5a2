package config

import (
	"fmt"
	"os"

	"github.com/san-kum/kerrsim/internal/geom"
	"github.com/san-kum/kerrsim/internal/kerr"
	"github.com/san-kum/kerrsim/internal/tracer"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSpin   = 0.0
	DefaultMass   = 1.0
	DefaultCharge = 0.0
	DefaultZ      = 15.0
	DefaultWidth  = 8.0
	DefaultRays   = 9
)

type Config struct {
	Name       string           `yaml:"name"`
	BlackHole  BlackHoleConfig  `yaml:"black_hole"`
	Ray        RayConfig        `yaml:"ray"`
	Integrator IntegratorConfig `yaml:"integrator"`
	Scan       ScanConfig       `yaml:"scan"`
}

type BlackHoleConfig struct {
	A      float64 `yaml:"a"`
	Mass   float64 `yaml:"mass"`
	Charge float64 `yaml:"charge"`
}

type RayConfig struct {
	Origin    [4]float64 `yaml:"origin,flow"`
	Direction [3]float64 `yaml:"direction,flow"`
}

type IntegratorConfig struct {
	Steps         int     `yaml:"steps"`
	StepScale     float64 `yaml:"step_scale"`
	MomentumScale float64 `yaml:"momentum_scale"`
	EscapeRadius  float64 `yaml:"escape_radius"`
}

// ScanConfig describes a fan of parallel rays: origins are shifted along
// Offset by impact parameters in [From, To].
type ScanConfig struct {
	Offset  [3]float64 `yaml:"offset,flow"`
	From    float64    `yaml:"from"`
	To      float64    `yaml:"to"`
	Count   int        `yaml:"count"`
	Workers int        `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "default",
		BlackHole: BlackHoleConfig{
			A:      DefaultSpin,
			Mass:   DefaultMass,
			Charge: DefaultCharge,
		},
		Ray: RayConfig{
			Origin:    [4]float64{0, 0, 0, DefaultZ},
			Direction: [3]float64{0, 0, -1},
		},
		Integrator: IntegratorConfig{
			Steps:         tracer.DefaultSteps,
			StepScale:     tracer.DefaultStepScale,
			MomentumScale: tracer.DefaultMomentumScale,
		},
		Scan: ScanConfig{
			Offset: [3]float64{1, 0, 0},
			From:   0,
			To:     DefaultWidth,
			Count:  DefaultRays,
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

// Validate checks the black hole, the integrator settings and the view
// direction.
func (c *Config) Validate() error {
	if err := c.NewBlackHole().Validate(); err != nil {
		return err
	}
	if err := c.Options().Validate(); err != nil {
		return err
	}
	if c.Direction().Len() == 0 {
		return fmt.Errorf("ray direction must be non-zero: %w", kerr.ErrInvalidState)
	}
	if c.Scan.Count < 0 {
		return fmt.Errorf("scan count must not be negative, got %d", c.Scan.Count)
	}
	return nil
}

func (c *Config) NewBlackHole() *kerr.BlackHole {
	return kerr.New(c.BlackHole.A, c.BlackHole.Mass, c.BlackHole.Charge)
}

func (c *Config) Options() tracer.Options {
	return tracer.Options{
		Steps:         c.Integrator.Steps,
		StepScale:     c.Integrator.StepScale,
		MomentumScale: c.Integrator.MomentumScale,
		EscapeRadius:  c.Integrator.EscapeRadius,
	}
}

func (c *Config) Origin() geom.Vec4 { return geom.Vec4(c.Ray.Origin) }

func (c *Config) Direction() geom.Vec3 { return geom.Vec3(c.Ray.Direction) }

func (c *Config) ScanJobs() []tracer.Job {
	return tracer.FanJobs(c.Origin(), c.Direction(), geom.Vec3(c.Scan.Offset), c.Scan.From, c.Scan.To, c.Scan.Count)
}
