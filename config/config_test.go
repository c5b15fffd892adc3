package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Grid.NX != 25 || cfg.Grid.NY != 25 {
		t.Errorf("default grid = %dx%d, want 25x25", cfg.Grid.NX, cfg.Grid.NY)
	}
	if cfg.Grid.Boundary != BoundaryPeriodic {
		t.Errorf("default boundary = %q, want periodic", cfg.Grid.Boundary)
	}
	if cfg.Physics.DT != 0.05 || cfg.Physics.Viscosity != 0.01 {
		t.Errorf("default physics = %+v", cfg.Physics)
	}
	if cfg.Schemes.Advection != AdvectionSemiLagrangian || cfg.Schemes.Diffusion != DiffusionImplicit {
		t.Errorf("default schemes = %+v", cfg.Schemes)
	}
	if cfg.Run.Steps != 100 {
		t.Errorf("default steps = %d, want 100", cfg.Run.Steps)
	}

	// Derived values must be filled in by Load.
	if cfg.Derived.DX != 1 || cfg.Derived.DY != 1 {
		t.Errorf("derived spacing = (%v, %v), want (1, 1)", cfg.Derived.DX, cfg.Derived.DY)
	}
	wantStab := 0.01 * 0.05 / 1.0
	if math.Abs(cfg.Derived.StabilityX-wantStab) > 1e-15 {
		t.Errorf("derived stability = %v, want %v", cfg.Derived.StabilityX, wantStab)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	body := "grid:\n  nx: 50\n  ny: 40\n  upper_x: 10.0\n  upper_y: 10.0\nrun:\n  steps: 7\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Grid.NX != 50 || cfg.Grid.NY != 40 || cfg.Run.Steps != 7 {
		t.Errorf("overrides not applied: %+v, steps %d", cfg.Grid, cfg.Run.Steps)
	}
	// Untouched sections keep their defaults.
	if cfg.Physics.DT != 0.05 {
		t.Errorf("default dt lost on merge: %v", cfg.Physics.DT)
	}
	if cfg.Derived.DX != 0.2 || cfg.Derived.DY != 0.25 {
		t.Errorf("derived spacing = (%v, %v), want (0.2, 0.25)", cfg.Derived.DX, cfg.Derived.DY)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero resolution", func(c *Config) { c.Grid.NX = 0 }},
		{"inverted bounds", func(c *Config) { c.Grid.UpperX = c.Grid.LowerX - 1 }},
		{"unknown boundary", func(c *Config) { c.Grid.Boundary = "mirror" }},
		{"non-positive dt", func(c *Config) { c.Physics.DT = 0 }},
		{"negative viscosity", func(c *Config) { c.Physics.Viscosity = -0.01 }},
		{"unknown advection scheme", func(c *Config) { c.Schemes.Advection = "upwind" }},
		{"unknown diffusion scheme", func(c *Config) { c.Schemes.Diffusion = "crank_nicolson" }},
		{"zero iteration cap", func(c *Config) { c.Solver.PressureMaxIters = 0 }},
		{"non-positive tolerance", func(c *Config) { c.Solver.DiffusionTolerance = 0 }},
		{"source outside domain", func(c *Config) { c.Source.X = c.Grid.UpperX + 1 }},
		{"non-finite source strength", func(c *Config) { c.Source.Concentration = math.NaN() }},
		{"unknown initial preset", func(c *Config) { c.Initial.Velocity = "jet" }},
		{"negative steps", func(c *Config) { c.Run.Steps = -1 }},
		{"negative workers", func(c *Config) { c.Run.Workers = -1 }},
		{"zero snapshot interval", func(c *Config) { c.Output.SnapshotInterval = 0 }},
		{"unstable explicit diffusion", func(c *Config) {
			c.Schemes.Diffusion = DiffusionExplicit
			c.Physics.Viscosity = 100 // viscosity*dt/dx² = 5
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			cfg.computeDerived()
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestValidateAcceptsStableExplicitDiffusion(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Schemes.Diffusion = DiffusionExplicit
	cfg.computeDerived()
	// 0.01 * 0.05 / 1 is far below the 0.5 per-axis limit.
	if err := cfg.Validate(); err != nil {
		t.Errorf("stable explicit diffusion rejected: %v", err)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	old := global
	global = nil
	defer func() {
		global = old
		if recover() == nil {
			t.Error("Cfg before Init must panic")
		}
	}()
	Cfg()
}
