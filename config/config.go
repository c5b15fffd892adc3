// Package config provides configuration loading and access for the simulator.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Boundary policy names accepted in configuration files.
const (
	BoundaryPeriodic = "periodic"
	BoundaryZero     = "zero"
	BoundaryHold     = "hold"
)

// Advection scheme names.
const (
	AdvectionSemiLagrangian = "semi_lagrangian"
	AdvectionMacCormack     = "mac_cormack"
)

// Diffusion scheme names.
const (
	DiffusionExplicit = "explicit"
	DiffusionImplicit = "implicit"
)

// Initial velocity presets.
const (
	InitialStill       = "still"
	InitialTaylorGreen = "taylor_green"
	InitialNoise       = "noise"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Grid    GridConfig    `yaml:"grid"`
	Physics PhysicsConfig `yaml:"physics"`
	Schemes SchemesConfig `yaml:"schemes"`
	Solver  SolverConfig  `yaml:"solver"`
	Source  SourceConfig  `yaml:"source"`
	Initial InitialConfig `yaml:"initial"`
	Run     RunConfig     `yaml:"run"`
	Output  OutputConfig  `yaml:"output"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds domain discretization parameters.
type GridConfig struct {
	NX       int     `yaml:"nx"`       // Cell count along x
	NY       int     `yaml:"ny"`       // Cell count along y
	LowerX   float64 `yaml:"lower_x"`  // Physical lower bound, x axis
	LowerY   float64 `yaml:"lower_y"`  // Physical lower bound, y axis
	UpperX   float64 `yaml:"upper_x"`  // Physical upper bound, x axis
	UpperY   float64 `yaml:"upper_y"`  // Physical upper bound, y axis
	Boundary string  `yaml:"boundary"` // periodic | zero | hold
}

// PhysicsConfig holds timestep and material parameters.
type PhysicsConfig struct {
	DT        float64 `yaml:"dt"`
	Viscosity float64 `yaml:"viscosity"`
}

// SchemesConfig selects the numerical schemes used per step.
type SchemesConfig struct {
	Advection string `yaml:"advection"` // semi_lagrangian | mac_cormack
	Diffusion string `yaml:"diffusion"` // explicit | implicit
}

// SolverConfig holds iterative solver controls shared by implicit diffusion
// and the pressure projection.
type SolverConfig struct {
	DiffusionMaxIters  int     `yaml:"diffusion_max_iters"`
	DiffusionTolerance float64 `yaml:"diffusion_tolerance"`
	PressureMaxIters   int     `yaml:"pressure_max_iters"`
	PressureTolerance  float64 `yaml:"pressure_tolerance"`
}

// SourceConfig describes the fixed emission source.
type SourceConfig struct {
	X             float64 `yaml:"x"` // World-space source position
	Y             float64 `yaml:"y"`
	VelocityX     float64 `yaml:"velocity_x"` // Momentum added per step
	VelocityY     float64 `yaml:"velocity_y"`
	Concentration float64 `yaml:"concentration"` // Pollutant added per step
}

// InitialConfig selects the initial velocity field.
type InitialConfig struct {
	Velocity   string  `yaml:"velocity"`    // still | taylor_green | noise
	Amplitude  float64 `yaml:"amplitude"`   // Peak speed of the initial field
	NoiseScale float64 `yaml:"noise_scale"` // Noise frequency (noise preset only)
	Seed       int64   `yaml:"seed"`        // Noise seed (noise preset only)
}

// RunConfig holds run-length and execution parameters.
type RunConfig struct {
	Steps   int `yaml:"steps"`
	Workers int `yaml:"workers"` // 0 = GOMAXPROCS
}

// OutputConfig holds telemetry output parameters.
type OutputConfig struct {
	Dir              string `yaml:"dir"`               // Empty disables file output
	WriteMetrics     bool   `yaml:"write_metrics"`     // Per-step CSV metrics
	WriteSnapshots   bool   `yaml:"write_snapshots"`   // JSON frame snapshots
	SnapshotInterval int    `yaml:"snapshot_interval"` // Steps between snapshots (1 = every step)
}

// DerivedConfig holds values computed from the loaded configuration.
type DerivedConfig struct {
	DX, DY       float64 // Cell spacing per axis
	StabilityX   float64 // viscosity*dt/dx²
	StabilityY   float64 // viscosity*dt/dy²
	DomainWidth  float64
	DomainHeight float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The returned configuration
// has passed Validate; an invalid file fails here, before anything runs.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DomainWidth = c.Grid.UpperX - c.Grid.LowerX
	c.Derived.DomainHeight = c.Grid.UpperY - c.Grid.LowerY
	if c.Grid.NX > 0 {
		c.Derived.DX = c.Derived.DomainWidth / float64(c.Grid.NX)
	}
	if c.Grid.NY > 0 {
		c.Derived.DY = c.Derived.DomainHeight / float64(c.Grid.NY)
	}
	if c.Derived.DX > 0 {
		c.Derived.StabilityX = c.Physics.Viscosity * c.Physics.DT / (c.Derived.DX * c.Derived.DX)
	}
	if c.Derived.DY > 0 {
		c.Derived.StabilityY = c.Physics.Viscosity * c.Physics.DT / (c.Derived.DY * c.Derived.DY)
	}
}

// Validate checks for configuration errors that would make the run meaningless
// or unstable. Called by Load; a failure here is fatal before any stepping occurs.
func (c *Config) Validate() error {
	if c.Grid.NX < 1 || c.Grid.NY < 1 {
		return fmt.Errorf("config: grid resolution must be at least 1 per axis, got %dx%d", c.Grid.NX, c.Grid.NY)
	}
	if c.Derived.DomainWidth <= 0 || c.Derived.DomainHeight <= 0 {
		return fmt.Errorf("config: domain bounds must have positive extent, got %gx%g",
			c.Derived.DomainWidth, c.Derived.DomainHeight)
	}
	switch c.Grid.Boundary {
	case BoundaryPeriodic, BoundaryZero, BoundaryHold:
	default:
		return fmt.Errorf("config: unknown boundary policy %q", c.Grid.Boundary)
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", c.Physics.DT)
	}
	if c.Physics.Viscosity < 0 {
		return fmt.Errorf("config: viscosity must be non-negative, got %g", c.Physics.Viscosity)
	}
	switch c.Schemes.Advection {
	case AdvectionSemiLagrangian, AdvectionMacCormack:
	default:
		return fmt.Errorf("config: unknown advection scheme %q", c.Schemes.Advection)
	}
	switch c.Schemes.Diffusion {
	case DiffusionExplicit:
		// The explicit scheme diverges once viscosity*dt/spacing² reaches 0.5
		// on either axis. Reject the combination up front rather than letting
		// the run blow up step by step.
		if c.Derived.StabilityX >= 0.5 || c.Derived.StabilityY >= 0.5 {
			return fmt.Errorf(
				"config: explicit diffusion unstable: viscosity*dt/spacing² = (%.3f, %.3f), must stay below 0.5 per axis",
				c.Derived.StabilityX, c.Derived.StabilityY)
		}
	case DiffusionImplicit:
	default:
		return fmt.Errorf("config: unknown diffusion scheme %q", c.Schemes.Diffusion)
	}
	if c.Solver.DiffusionMaxIters < 1 || c.Solver.PressureMaxIters < 1 {
		return fmt.Errorf("config: solver iteration caps must be at least 1")
	}
	if c.Solver.DiffusionTolerance <= 0 || c.Solver.PressureTolerance <= 0 {
		return fmt.Errorf("config: solver tolerances must be positive")
	}
	if c.Source.X < c.Grid.LowerX || c.Source.X > c.Grid.UpperX ||
		c.Source.Y < c.Grid.LowerY || c.Source.Y > c.Grid.UpperY {
		return fmt.Errorf("config: source point (%g, %g) lies outside the domain", c.Source.X, c.Source.Y)
	}
	for _, v := range []float64{c.Source.VelocityX, c.Source.VelocityY, c.Source.Concentration} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("config: source strengths must be finite")
		}
	}
	switch c.Initial.Velocity {
	case InitialStill, InitialTaylorGreen, InitialNoise:
	default:
		return fmt.Errorf("config: unknown initial velocity preset %q", c.Initial.Velocity)
	}
	if c.Run.Steps < 0 {
		return fmt.Errorf("config: steps must be non-negative, got %d", c.Run.Steps)
	}
	if c.Run.Workers < 0 {
		return fmt.Errorf("config: workers must be non-negative, got %d", c.Run.Workers)
	}
	if c.Output.SnapshotInterval < 1 {
		return fmt.Errorf("config: snapshot_interval must be at least 1, got %d", c.Output.SnapshotInterval)
	}
	return nil
}
