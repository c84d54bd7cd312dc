package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/lorenzlab/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Sigma != 10 || cfg.Rho != 28 || cfg.Beta != 8.0/3.0 {
		t.Errorf("expected classic parameters, got σ=%v β=%v ρ=%v", cfg.Sigma, cfg.Beta, cfg.Rho)
	}
	if cfg.N != 10 {
		t.Errorf("expected 10 trajectories, got %d", cfg.N)
	}
	if g := cfg.Grid(); g.Samples != 1000 || g.MaxTime != 4 {
		t.Errorf("expected 1000 samples over 4.0, got %+v", g)
	}
	if v := cfg.View(); v.Elevation != 30 || v.Azimuth != 0 {
		t.Errorf("unexpected default view %+v", v)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lorenz.yaml")

	cfg := DefaultConfig()
	cfg.Rho = 99.96
	cfg.N = 3
	cfg.Integrator = "rk4"
	cfg.Solver.MaxStep = 0.01

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("rho: 15\nn: 4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Rho != 15 || cfg.N != 4 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Sigma != 10 || cfg.Density != 250 {
		t.Errorf("defaults lost: σ=%v density=%v", cfg.Sigma, cfg.Density)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Config)
		field string
	}{
		{"nan sigma", func(c *Config) { c.Sigma = math.NaN() }, "sigma"},
		{"negative n", func(c *Config) { c.N = -1 }, "n"},
		{"zero density", func(c *Config) { c.Density = 0 }, "density"},
		{"empty box", func(c *Config) { c.Box.Hi = c.Box.Lo }, "box"},
		{"unknown integrator", func(c *Config) { c.Integrator = "verlet" }, "integrator"},
		{"inf azimuth", func(c *Config) { c.Azimuth = math.Inf(1) }, "azimuth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(cfg)
			var ve *dynamo.ValidationError
			if err := cfg.Validate(); !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("Validate() = %v, want ValidationError on %q", err, tt.field)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("integer-beta")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Beta != 3 {
		t.Errorf("expected beta 3, got %f", cfg.Beta)
	}
	if cfg.Sigma != 10 || cfg.N != DefaultN {
		t.Errorf("preset lost defaults: %+v", cfg)
	}

	cfg.Beta = 100
	if GetPreset("integer-beta").Beta != 3 {
		t.Error("GetPreset returned shared state")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsAreValid(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("ListPresets returned %d names, want %d", len(names), len(Presets))
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestNotebookPresetIsDefault(t *testing.T) {
	if diff := cmp.Diff(DefaultConfig(), GetPreset("notebook")); diff != "" {
		t.Errorf("notebook preset differs from defaults:\n%s", diff)
	}
}
