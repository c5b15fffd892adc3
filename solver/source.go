package solver

import "github.com/joseph-kwk/Pollution-Dispersion-Simulator/field"

// Source is a fixed emission point: each injection adds a constant
// velocity offset to the nearest face samples and a constant pollutant
// increment to the nearest cell, then clamps the whole concentration field
// into [0, 1]. Strengths are constant per call, so runs are reproducible.
//
// Velocity is deliberately left unclamped: repeated injections keep
// feeding momentum at the source point, matching the plume-driving
// behavior of the reference scenario.
type Source struct {
	X, Y                 float64
	VelocityX, VelocityY float64
	Concentration        float64
}

// Inject returns copies of vel and conc with the source applied.
func (s *Source) Inject(vel *field.VectorField, conc *field.ScalarField) (*field.VectorField, *field.ScalarField) {
	g := vel.Grid
	dstVel := vel.Clone()
	dstConc := conc.Clone()

	// Nearest face sample per component. The far-boundary face resolves
	// through the policy like any other out-of-range index; under the
	// zero policy an out-of-range target simply receives nothing.
	iu := roundIndex((s.X - g.LowerX) / g.DX)
	ju := roundIndex((s.Y-g.LowerY)/g.DY - 0.5)
	if i, okX := field.ResolveIndex(vel.Policy, iu, g.NX); okX {
		if j, okY := field.ResolveIndex(vel.Policy, ju, g.NY); okY {
			dstVel.U[g.Idx(i, j)] += s.VelocityX
		}
	}
	iv := roundIndex((s.X-g.LowerX)/g.DX - 0.5)
	jv := roundIndex((s.Y - g.LowerY) / g.DY)
	if i, okX := field.ResolveIndex(vel.Policy, iv, g.NX); okX {
		if j, okY := field.ResolveIndex(vel.Policy, jv, g.NY); okY {
			dstVel.V[g.Idx(i, j)] += s.VelocityY
		}
	}

	ic, jc := g.NearestCell(s.X, s.Y)
	dstConc.Values[g.Idx(ic, jc)] += s.Concentration

	// Concentration stays a fraction: clamp every sample, not just the
	// injected one, so negative strengths cannot push the field below 0.
	for idx, v := range dstConc.Values {
		dstConc.Values[idx] = clamp(v, 0, 1)
	}
	return dstVel, dstConc
}

// roundIndex rounds a continuous lattice coordinate to the nearest sample
// index, truncating consistently for negative values.
func roundIndex(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return -int(-v + 0.5)
}
