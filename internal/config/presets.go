package config

import "sort"

var Presets = map[string]*Config{
	"schwarzschild-radial": {
		Name:       "schwarzschild-radial",
		BlackHole:  BlackHoleConfig{A: 0, Mass: 1, Charge: 0},
		Ray:        RayConfig{Origin: [4]float64{0, 0, 0, 15}, Direction: [3]float64{0, 0, -1}},
		Integrator: IntegratorConfig{Steps: 50, StepScale: 0.05, MomentumScale: 2},
		Scan:       ScanConfig{Offset: [3]float64{1, 0, 0}, From: 0, To: 8, Count: 9},
	},
	"kerr-newman-capture": {
		Name:       "kerr-newman-capture",
		BlackHole:  BlackHoleConfig{A: 0.6, Mass: 1, Charge: 0.3},
		Ray:        RayConfig{Origin: [4]float64{0, 1.5, 0, 15}, Direction: [3]float64{0, 0, -1}},
		Integrator: IntegratorConfig{Steps: 50, StepScale: 0.05, MomentumScale: 2},
		Scan:       ScanConfig{Offset: [3]float64{1, 0, 0}, From: -4, To: 4, Count: 17},
	},
	"kerr-newman-escape": {
		Name:       "kerr-newman-escape",
		BlackHole:  BlackHoleConfig{A: 0.6, Mass: 1, Charge: 0.3},
		Ray:        RayConfig{Origin: [4]float64{0, 3, 0, 15}, Direction: [3]float64{0, 0, -1}},
		Integrator: IntegratorConfig{Steps: 50, StepScale: 0.05, MomentumScale: 2, EscapeRadius: 100},
		Scan:       ScanConfig{Offset: [3]float64{1, 0, 0}, From: 2, To: 6, Count: 9},
	},
	"reissner-nordstrom": {
		Name:       "reissner-nordstrom",
		BlackHole:  BlackHoleConfig{A: 0, Mass: 1, Charge: 0.8},
		Ray:        RayConfig{Origin: [4]float64{0, 2, 0, 15}, Direction: [3]float64{0, 0, -1}},
		Integrator: IntegratorConfig{Steps: 50, StepScale: 0.05, MomentumScale: 2, EscapeRadius: 100},
		Scan:       ScanConfig{Offset: [3]float64{1, 0, 0}, From: 0, To: 6, Count: 13},
	},
	"fast-kerr": {
		Name:       "fast-kerr",
		BlackHole:  BlackHoleConfig{A: 0.95, Mass: 1, Charge: 0},
		Ray:        RayConfig{Origin: [4]float64{0, 0, 2, 15}, Direction: [3]float64{0, 0, -1}},
		Integrator: IntegratorConfig{Steps: 80, StepScale: 0.05, MomentumScale: 2, EscapeRadius: 100},
		Scan:       ScanConfig{Offset: [3]float64{0, 1, 0}, From: -5, To: 5, Count: 21},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
