// Package telemetry records simulation frames and derived metrics for
// external consumers: CSV logs, JSON snapshots for replay, and per-phase
// performance timing. It only ever reads published states; frames are
// consumed strictly by index and never mutated.
package telemetry

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/joseph-kwk/Pollution-Dispersion-Simulator/field"
)

// KineticEnergy returns the total kinetic energy of a velocity field,
// 0.5 * sum(u² + v²) * cell area. For the staggered layout each face
// sample stands in for one cell, which is exact up to the usual staggered
// averaging and is what the decay diagnostics expect.
func KineticEnergy(vel *field.VectorField) float64 {
	cellArea := vel.Grid.DX * vel.Grid.DY
	return 0.5 * cellArea * (floats.Dot(vel.U, vel.U) + floats.Dot(vel.V, vel.V))
}

// TotalMass returns the integral of a concentration field over the domain.
func TotalMass(conc *field.ScalarField) float64 {
	return floats.Sum(conc.Values) * conc.Grid.DX * conc.Grid.DY
}

// FieldRange returns the minimum and maximum sample of a scalar field.
func FieldRange(conc *field.ScalarField) (lo, hi float64) {
	return floats.Min(conc.Values), floats.Max(conc.Values)
}

// FieldMeanStd returns the mean and standard deviation of a scalar field's
// samples, for run summaries.
func FieldMeanStd(conc *field.ScalarField) (mean, std float64) {
	return stat.MeanStdDev(conc.Values, nil)
}
