package field

// ScalarField holds one sample per cell, centered. The backing array has
// exactly Grid.Cells() entries in row-major order.
type ScalarField struct {
	Grid   *Grid
	Policy BoundaryPolicy
	Values []float64
}

// NewScalarField builds a centered scalar field by evaluating init once at
// every cell center. A nil init leaves the field at zero.
func NewScalarField(g *Grid, policy BoundaryPolicy, init func(x, y float64) float64) *ScalarField {
	f := &ScalarField{
		Grid:   g,
		Policy: policy,
		Values: make([]float64, g.Cells()),
	}
	if init != nil {
		for j := 0; j < g.NY; j++ {
			for i := 0; i < g.NX; i++ {
				x, y := g.CellCenter(i, j)
				f.Values[g.Idx(i, j)] = init(x, y)
			}
		}
	}
	return f
}

// Clone returns a deep copy sharing the same grid descriptor.
func (f *ScalarField) Clone() *ScalarField {
	c := &ScalarField{Grid: f.Grid, Policy: f.Policy, Values: make([]float64, len(f.Values))}
	copy(c.Values, f.Values)
	return c
}

// At returns the sample at cell (i, j), resolving out-of-range indices
// through the boundary policy.
func (f *ScalarField) At(i, j int) float64 {
	return At(f.Grid, f.Policy, f.Values, i, j)
}

// Set writes the sample at in-range cell (i, j).
func (f *ScalarField) Set(i, j int, v float64) {
	f.Values[f.Grid.Idx(i, j)] = v
}

// Sample returns the bilinearly interpolated value at an arbitrary
// world-space position. Out-of-domain neighbor lookups resolve through the
// boundary policy, so sampling is total over the plane.
func (f *ScalarField) Sample(x, y float64) float64 {
	gx, gy := CellIndex(f.Grid, x, y)
	return bilinear(gx, gy, f.At)
}

// bilinear interpolates at continuous index position (gx, gy) between the
// four nearest samples provided by at.
func bilinear(gx, gy float64, at func(i, j int) float64) float64 {
	i0 := floorInt(gx)
	j0 := floorInt(gy)
	tx := gx - float64(i0)
	ty := gy - float64(j0)

	v00 := at(i0, j0)
	v10 := at(i0+1, j0)
	v01 := at(i0, j0+1)
	v11 := at(i0+1, j0+1)

	return v00*(1-tx)*(1-ty) +
		v10*tx*(1-ty) +
		v01*(1-tx)*ty +
		v11*tx*ty
}

// floorInt is floor for the index magnitudes used here; int() truncates
// toward zero, which is wrong for negative positions.
func floorInt(v float64) int {
	i := int(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return i
}
