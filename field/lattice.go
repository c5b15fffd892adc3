package field

// At reads a row-major sample array through a grid and boundary policy.
// It backs the accessors on ScalarField and VectorField and lets the solver
// run stencil sweeps over raw component arrays with the same boundary
// semantics as field sampling.
func At(g *Grid, p BoundaryPolicy, values []float64, i, j int) float64 {
	ii, okX := p.resolve(i, g.NX)
	jj, okY := p.resolve(j, g.NY)
	if !okX || !okY {
		return 0
	}
	return values[g.Idx(ii, jj)]
}

// ResolveIndex maps index i on an axis of n samples through the policy.
// ok is false only for ZeroValue out-of-range requests, which have no
// backing sample.
func ResolveIndex(p BoundaryPolicy, i, n int) (idx int, ok bool) {
	return p.resolve(i, n)
}

// StencilBounds returns the min and max of the four samples the bilinear
// stencil at continuous index position (gx, gy) interpolates between.
// Used by MacCormack advection to clamp its corrected estimate.
func StencilBounds(gx, gy float64, at func(i, j int) float64) (lo, hi float64) {
	i0 := floorInt(gx)
	j0 := floorInt(gy)
	lo = at(i0, j0)
	hi = lo
	for _, v := range [3]float64{at(i0+1, j0), at(i0, j0+1), at(i0+1, j0+1)} {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// UIndex returns the continuous index-space position of world point (x, y)
// on the u-component lattice for the given layout.
func UIndex(g *Grid, layout Layout, x, y float64) (gx, gy float64) {
	if layout == Staggered {
		return (x - g.LowerX) / g.DX, (y-g.LowerY)/g.DY - 0.5
	}
	return (x-g.LowerX)/g.DX - 0.5, (y-g.LowerY)/g.DY - 0.5
}

// VIndex returns the continuous index-space position of world point (x, y)
// on the v-component lattice for the given layout.
func VIndex(g *Grid, layout Layout, x, y float64) (gx, gy float64) {
	if layout == Staggered {
		return (x-g.LowerX)/g.DX - 0.5, (y - g.LowerY) / g.DY
	}
	return (x-g.LowerX)/g.DX - 0.5, (y-g.LowerY)/g.DY - 0.5
}

// CellIndex returns the continuous index-space position of world point
// (x, y) on the cell-centered lattice.
func CellIndex(g *Grid, x, y float64) (gx, gy float64) {
	return (x-g.LowerX)/g.DX - 0.5, (y-g.LowerY)/g.DY - 0.5
}
