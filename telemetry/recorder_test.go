package telemetry

import (
	"math"
	"testing"
	"time"

	"github.com/joseph-kwk/Pollution-Dispersion-Simulator/field"
	"github.com/joseph-kwk/Pollution-Dispersion-Simulator/solver"
)

func TestRecorderMetricsRow(t *testing.T) {
	g := field.MustGrid(8, 8, 0, 0, 8, 8)
	st := solver.State{
		Step:          4,
		Velocity:      field.NewVectorField(g, field.Periodic, field.Staggered, nil),
		Concentration: field.NewScalarField(g, field.Periodic, func(x, y float64) float64 { return 0.5 }),
		Diffusion:     solver.SolveResult{Converged: true, Iterations: 12},
		Pressure:      solver.SolveResult{Converged: true, Iterations: 40, Residual: 3e-6},
	}

	r := NewRecorder(0.05)
	m := r.Record(st, 1500*time.Microsecond)

	if m.Step != 4 || math.Abs(m.SimTime-0.2) > eps {
		t.Errorf("step/time = (%d, %v), want (4, 0.2)", m.Step, m.SimTime)
	}
	if m.KineticEnergy != 0 {
		t.Errorf("still field kinetic energy = %v, want 0", m.KineticEnergy)
	}
	if math.Abs(m.PollutantMass-32) > eps {
		t.Errorf("pollutant mass = %v, want 32", m.PollutantMass)
	}
	if m.MaxDivergence != 0 {
		t.Errorf("still field max divergence = %v, want 0", m.MaxDivergence)
	}
	if m.MinConcentration != 0.5 || m.MaxConcentration != 0.5 {
		t.Errorf("concentration range = (%v, %v), want (0.5, 0.5)", m.MinConcentration, m.MaxConcentration)
	}
	if m.PressureIters != 40 || m.DiffusionIters != 12 || !m.Converged {
		t.Errorf("solver outcomes not carried into the row: %+v", m)
	}
	if m.StepDurationMicros != 1500 {
		t.Errorf("step duration = %dus, want 1500us", m.StepDurationMicros)
	}
}

func TestRecorderKeepsFrameOrder(t *testing.T) {
	g := field.MustGrid(4, 4, 0, 0, 4, 4)
	r := NewRecorder(0.05)

	for step := 0; step < 3; step++ {
		st := solver.State{
			Step:          step,
			Velocity:      field.NewVectorField(g, field.Periodic, field.Staggered, nil),
			Concentration: field.NewScalarField(g, field.Periodic, nil),
		}
		r.Record(st, 0)
	}

	if r.Len() != 3 {
		t.Fatalf("recorded %d frames, want 3", r.Len())
	}
	for i := 0; i < r.Len(); i++ {
		if r.Frame(i).Step != i {
			t.Errorf("frame %d holds step %d", i, r.Frame(i).Step)
		}
		if r.Metrics()[i].Step != i {
			t.Errorf("metrics row %d holds step %d", i, r.Metrics()[i].Step)
		}
	}
}
