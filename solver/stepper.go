package solver

import (
	"fmt"
	"time"

	"github.com/joseph-kwk/Pollution-Dispersion-Simulator/config"
	"github.com/joseph-kwk/Pollution-Dispersion-Simulator/field"
)

// Phase names for the simulation step, in execution order.
const (
	PhaseAdvectVelocity      = "advect_velocity"
	PhaseAdvectConcentration = "advect_concentration"
	PhaseDiffuse             = "diffuse"
	PhaseProject             = "project"
	PhaseInject              = "inject"
)

// Status is the stepper's lifecycle state.
type Status uint8

const (
	// Initialized means no step has run yet.
	Initialized Status = iota
	// Stepping means at least one step has run and budget remains.
	Stepping
	// Done means the step budget is exhausted. Further Step calls are
	// no-ops returning the last state, so a UI loop can over-drive the
	// stepper safely.
	Done
)

// State is an immutable snapshot of the simulation after one step. Fields
// published in a State are never mutated again; each step produces fresh
// ones, so recorded frames can be consumed concurrently with stepping.
type State struct {
	Step          int
	Velocity      *field.VectorField
	Concentration *field.ScalarField

	// Solve outcomes for this step. A false Converged is a warning, not
	// an error; the state still holds the best available iterate.
	Diffusion SolveResult
	Pressure  SolveResult
}

// Converged reports whether every iterative solve in this step reached its
// tolerance.
func (s State) Converged() bool {
	return s.Diffusion.Converged && s.Pressure.Converged
}

// Stepper advances the simulation one timestep at a time, in fixed phase
// order: advect velocity by itself, advect concentration by velocity,
// diffuse velocity, project out divergence, inject the source. It owns the
// timestep and scheme configuration and appends every produced state to
// the frame history.
type Stepper struct {
	grid      *field.Grid
	dt        float64
	advector  Advector
	diffuser  Diffuser
	projector Projector
	source    Source

	status  Status
	budget  int
	current State
	history []State

	// OnPhase, when set, receives the duration of each step phase.
	OnPhase func(phase string, d time.Duration)
}

// NewStepper builds a stepper from a validated configuration: grid and
// boundary policy, initial velocity preset, zero initial concentration,
// schemes and solver controls. The initial state is published as frame 0.
func NewStepper(cfg *config.Config) (*Stepper, error) {
	grid, err := field.NewGrid(cfg.Grid.NX, cfg.Grid.NY,
		cfg.Grid.LowerX, cfg.Grid.LowerY, cfg.Grid.UpperX, cfg.Grid.UpperY)
	if err != nil {
		return nil, err
	}
	policy, err := field.ParseBoundaryPolicy(cfg.Grid.Boundary)
	if err != nil {
		return nil, err
	}
	advScheme, err := ParseAdvectionScheme(cfg.Schemes.Advection)
	if err != nil {
		return nil, err
	}
	diffScheme, err := ParseDiffusionScheme(cfg.Schemes.Diffusion)
	if err != nil {
		return nil, err
	}

	var velInit func(x, y float64) (u, v float64)
	switch cfg.Initial.Velocity {
	case config.InitialStill:
		velInit = nil
	case config.InitialTaylorGreen:
		velInit = field.TaylorGreenVelocity(grid, cfg.Initial.Amplitude)
	case config.InitialNoise:
		velInit = field.NoiseVelocity(grid, cfg.Initial.Amplitude, cfg.Initial.NoiseScale, cfg.Initial.Seed)
	default:
		return nil, fmt.Errorf("solver: unknown initial velocity preset %q", cfg.Initial.Velocity)
	}

	s := &Stepper{
		grid:     grid,
		dt:       cfg.Physics.DT,
		advector: Advector{Scheme: advScheme},
		diffuser: Diffuser{
			Scheme:    diffScheme,
			Viscosity: cfg.Physics.Viscosity,
			MaxIters:  cfg.Solver.DiffusionMaxIters,
			Tolerance: cfg.Solver.DiffusionTolerance,
		},
		projector: Projector{
			MaxIters:  cfg.Solver.PressureMaxIters,
			Tolerance: cfg.Solver.PressureTolerance,
		},
		source: Source{
			X: cfg.Source.X, Y: cfg.Source.Y,
			VelocityX:     cfg.Source.VelocityX,
			VelocityY:     cfg.Source.VelocityY,
			Concentration: cfg.Source.Concentration,
		},
		budget: cfg.Run.Steps,
	}
	s.current = State{
		Step:          0,
		Velocity:      field.NewVectorField(grid, policy, field.Staggered, velInit),
		Concentration: field.NewScalarField(grid, policy, nil),
		Diffusion:     SolveResult{Converged: true},
		Pressure:      SolveResult{Converged: true},
	}
	s.history = append(s.history, s.current)
	return s, nil
}

// Grid returns the shared grid descriptor.
func (s *Stepper) Grid() *field.Grid { return s.grid }

// DT returns the configured timestep.
func (s *Stepper) DT() float64 { return s.dt }

// Status returns the stepper's lifecycle state.
func (s *Stepper) Status() Status { return s.status }

// Current returns the most recent state.
func (s *Stepper) Current() State { return s.current }

// History returns the frame history: one state per step, the initial state
// included, in order. The returned slice must be treated as read-only.
func (s *Stepper) History() []State { return s.history }

// Step advances the simulation by one timestep and returns the new state.
// Once the step budget is exhausted the stepper is Done and Step returns
// the last state unchanged.
func (s *Stepper) Step() State {
	if s.status == Done {
		return s.current
	}
	if s.current.Step >= s.budget {
		s.status = Done
		return s.current
	}
	s.status = Stepping

	timed := func(phase string, fn func()) {
		if s.OnPhase == nil {
			fn()
			return
		}
		start := time.Now()
		fn()
		s.OnPhase(phase, time.Since(start))
	}

	vel := s.current.Velocity
	conc := s.current.Concentration
	var diffRes, pressRes SolveResult

	timed(PhaseAdvectVelocity, func() {
		vel = s.advector.Velocity(vel, s.dt)
	})
	timed(PhaseAdvectConcentration, func() {
		conc = s.advector.Scalar(conc, vel, s.dt)
	})
	timed(PhaseDiffuse, func() {
		vel, diffRes = s.diffuser.Velocity(vel, s.dt)
	})
	timed(PhaseProject, func() {
		vel, pressRes = s.projector.Project(vel)
	})
	timed(PhaseInject, func() {
		vel, conc = s.source.Inject(vel, conc)
	})

	s.current = State{
		Step:          s.current.Step + 1,
		Velocity:      vel,
		Concentration: conc,
		Diffusion:     diffRes,
		Pressure:      pressRes,
	}
	s.history = append(s.history, s.current)

	if s.current.Step >= s.budget {
		s.status = Done
	}
	return s.current
}

// Run steps until the budget is exhausted and returns the final state.
func (s *Stepper) Run() State {
	for s.status != Done {
		s.Step()
	}
	return s.current
}
