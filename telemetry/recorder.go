package telemetry

import (
	"time"

	"github.com/joseph-kwk/Pollution-Dispersion-Simulator/solver"
)

// StepMetrics is one CSV row of per-step diagnostics.
type StepMetrics struct {
	Step               int     `csv:"step"`
	SimTime            float64 `csv:"sim_time"`
	KineticEnergy      float64 `csv:"kinetic_energy"`
	PollutantMass      float64 `csv:"pollutant_mass"`
	MaxDivergence      float64 `csv:"max_divergence"`
	MinConcentration   float64 `csv:"min_concentration"`
	MaxConcentration   float64 `csv:"max_concentration"`
	PressureIters      int     `csv:"pressure_iters"`
	PressureResidual   float64 `csv:"pressure_residual"`
	DiffusionIters     int     `csv:"diffusion_iters"`
	Converged          bool    `csv:"converged"`
	StepDurationMicros int64   `csv:"step_duration_us"`
}

// Recorder keeps the append-only frame history and its per-step metrics.
// States are immutable snapshots, so holding them is safe while the
// stepper keeps running.
type Recorder struct {
	dt      float64
	frames  []solver.State
	metrics []StepMetrics
}

// NewRecorder creates a recorder for a run with timestep dt.
func NewRecorder(dt float64) *Recorder {
	return &Recorder{dt: dt}
}

// Record appends a state snapshot and computes its metrics row.
func (r *Recorder) Record(st solver.State, stepDuration time.Duration) StepMetrics {
	lo, hi := FieldRange(st.Concentration)
	m := StepMetrics{
		Step:               st.Step,
		SimTime:            float64(st.Step) * r.dt,
		KineticEnergy:      KineticEnergy(st.Velocity),
		PollutantMass:      TotalMass(st.Concentration),
		MaxDivergence:      solver.MaxDivergence(st.Velocity),
		MinConcentration:   lo,
		MaxConcentration:   hi,
		PressureIters:      st.Pressure.Iterations,
		PressureResidual:   st.Pressure.Residual,
		DiffusionIters:     st.Diffusion.Iterations,
		Converged:          st.Converged(),
		StepDurationMicros: stepDuration.Microseconds(),
	}
	r.frames = append(r.frames, st)
	r.metrics = append(r.metrics, m)
	return m
}

// Len returns the number of recorded frames.
func (r *Recorder) Len() int { return len(r.frames) }

// Frame returns the recorded frame at index i.
func (r *Recorder) Frame(i int) solver.State { return r.frames[i] }

// Metrics returns all recorded metric rows in step order. Read-only.
func (r *Recorder) Metrics() []StepMetrics { return r.metrics }
