package solver

import (
	"math"

	"github.com/joseph-kwk/Pollution-Dispersion-Simulator/field"
)

// Projector removes the divergent component of a staggered velocity field
// by solving a pressure Poisson equation and subtracting the discrete
// pressure gradient at the faces. This is the one step that enforces
// incompressibility; everything qualitative about the flow (vortex
// persistence, absence of spurious sources) depends on this solve
// converging adequately.
type Projector struct {
	MaxIters  int
	Tolerance float64
}

// Divergence computes the per-cell divergence of a staggered velocity
// field as a centered scalar field.
func Divergence(vel *field.VectorField) *field.ScalarField {
	g := vel.Grid
	div := field.NewScalarField(g, vel.Policy, nil)
	parallelRows(0, g.NY, func(j int) {
		for i := 0; i < g.NX; i++ {
			div.Values[g.Idx(i, j)] = (vel.AtU(i+1, j)-vel.AtU(i, j))/g.DX +
				(vel.AtV(i, j+1)-vel.AtV(i, j))/g.DY
		}
	})
	return div
}

// MaxDivergence returns the maximum absolute per-cell divergence.
func MaxDivergence(vel *field.VectorField) float64 {
	div := Divergence(vel)
	maxAbs := 0.0
	for _, v := range div.Values {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	return maxAbs
}

// Project returns a divergence-free copy of vel along with the pressure
// solve outcome. The output shares the input's grid, layout, and policy.
// A solve that hits its iteration cap still projects with the best
// available pressure iterate; the caller sees Converged false and decides
// whether to log or degrade.
func (p *Projector) Project(vel *field.VectorField) (*field.VectorField, SolveResult) {
	g := vel.Grid
	div := Divergence(vel)

	// Solve -Laplacian(pressure) = -divergence, so that subtracting the
	// pressure gradient cancels the divergent component.
	rhs := make([]float64, g.Cells())
	for idx, v := range div.Values {
		rhs[idx] = -v
	}
	pressure := make([]float64, g.Cells())
	res := relaxJacobi(g, vel.Policy, poissonStencil(g), pressure, rhs, p.MaxIters, p.Tolerance)

	dst := vel.Clone()
	parallelRows(0, g.NY, func(j int) {
		for i := 0; i < g.NX; i++ {
			idx := g.Idx(i, j)
			dst.U[idx] -= (field.At(g, vel.Policy, pressure, i, j) - field.At(g, vel.Policy, pressure, i-1, j)) / g.DX
			dst.V[idx] -= (field.At(g, vel.Policy, pressure, i, j) - field.At(g, vel.Policy, pressure, i, j-1)) / g.DY
		}
	})
	return dst, res
}
