package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/kerrsim/internal/kerr"
	"github.com/san-kum/kerrsim/internal/tracer"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Integrator.Steps != tracer.DefaultSteps {
		t.Errorf("expected %d steps, got %d", tracer.DefaultSteps, cfg.Integrator.Steps)
	}
	if cfg.Origin()[3] != DefaultZ {
		t.Errorf("expected origin z %f, got %f", DefaultZ, cfg.Origin()[3])
	}
	if len(cfg.ScanJobs()) != DefaultRays {
		t.Errorf("expected %d scan jobs, got %d", DefaultRays, len(cfg.ScanJobs()))
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("kerr-newman-escape")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	cfg := &Config{BlackHole: BlackHoleConfig{A: 0.5, Mass: 2}}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.BlackHole.A != 0.5 || loaded.BlackHole.Mass != 2 {
		t.Errorf("unexpected black hole %+v", loaded.BlackHole)
	}
	// zero values in the file override defaults
	if loaded.Integrator.Steps != 0 {
		t.Errorf("expected explicit zero steps, got %d", loaded.Integrator.Steps)
	}
	if err := loaded.Validate(); !errors.Is(err, kerr.ErrInvalidSteps) {
		t.Errorf("expected ErrInvalidSteps, got %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"naked singularity", func(c *Config) { c.BlackHole.A, c.BlackHole.Charge = 0.9, 0.9 }, kerr.ErrParameterBounds},
		{"zero mass", func(c *Config) { c.BlackHole.Mass = 0 }, kerr.ErrParameterBounds},
		{"negative steps", func(c *Config) { c.Integrator.Steps = -3 }, kerr.ErrInvalidSteps},
		{"zero step scale", func(c *Config) { c.Integrator.StepScale = 0 }, kerr.ErrInvalidSteps},
		{"zero direction", func(c *Config) { c.Ray.Direction = [3]float64{} }, kerr.ErrInvalidState},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for _, name := range names {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %s missing", name)
		}
		if cfg.Name != name {
			t.Errorf("preset %s has name %s", name, cfg.Name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	cfg := GetPreset("schwarzschild-radial")
	cfg.BlackHole.Mass = 42
	if Presets["schwarzschild-radial"].BlackHole.Mass == 42 {
		t.Error("GetPreset must not expose the shared preset")
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}
