package config

import "sort"

// Presets are named starting points for the CLI and the explorer. Unset
// fields take their DefaultConfig values.
var Presets = map[string]*Config{
	// The notebook defaults: ten trajectories over four time units.
	"notebook": {},
	"classic": {
		N: 1, MaxTime: 30.0, Elevation: 20, Azimuth: 60,
	},
	// β clamped to an integer, as an integer slider would.
	"integer-beta": {
		Beta: 3,
	},
	// Past ρ≈13.93 orbits wander chaotically before settling onto C±.
	"transient": {
		Rho: 20.0, N: 20, MaxTime: 4.0,
	},
	// Below the Hopf bifurcation every orbit spirals into a fixed point.
	"stable": {
		Rho: 10.0, N: 20, MaxTime: 4.0,
	},
	"many": {
		N: 50, Workers: 4,
	},
}

// GetPreset returns a copy of the named preset merged over the defaults,
// or nil when no such preset exists.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	if p.Sigma != 0 {
		cfg.Sigma = p.Sigma
	}
	if p.Beta != 0 {
		cfg.Beta = p.Beta
	}
	if p.Rho != 0 {
		cfg.Rho = p.Rho
	}
	if p.N != 0 {
		cfg.N = p.N
	}
	if p.MaxTime != 0 {
		cfg.MaxTime = p.MaxTime
	}
	if p.Seed != 0 {
		cfg.Seed = p.Seed
	}
	if p.Elevation != 0 {
		cfg.Elevation = p.Elevation
	}
	if p.Azimuth != 0 {
		cfg.Azimuth = p.Azimuth
	}
	if p.Workers != 0 {
		cfg.Workers = p.Workers
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
