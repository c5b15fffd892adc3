package field

import "fmt"

// Layout declares where a vector field's component samples live.
type Layout uint8

const (
	// Centered collocates both components at cell centers.
	Centered Layout = iota
	// Staggered places the x component at vertical cell faces and the y
	// component at horizontal cell faces (MAC layout). The solver keeps
	// velocity staggered so the pressure projection cannot develop the
	// checkerboard mode a collocated grid admits.
	Staggered
)

// String returns the layout name.
func (l Layout) String() string {
	switch l {
	case Centered:
		return "centered"
	case Staggered:
		return "staggered"
	}
	return fmt.Sprintf("Layout(%d)", uint8(l))
}

// VectorField holds a two-component field on a grid. Both component arrays
// have Grid.Cells() entries in row-major order. For the staggered layout,
// U[i,j] sits on the left face of cell (i,j) and V[i,j] on its bottom face;
// the domain's far faces resolve through the boundary policy like any other
// out-of-range sample.
type VectorField struct {
	Grid   *Grid
	Policy BoundaryPolicy
	Layout Layout
	U, V   []float64
}

// NewVectorField builds a vector field by evaluating init once at every
// component sample position. A nil init leaves the field at zero.
func NewVectorField(g *Grid, policy BoundaryPolicy, layout Layout, init func(x, y float64) (u, v float64)) *VectorField {
	f := &VectorField{
		Grid:   g,
		Policy: policy,
		Layout: layout,
		U:      make([]float64, g.Cells()),
		V:      make([]float64, g.Cells()),
	}
	if init == nil {
		return f
	}
	for j := 0; j < g.NY; j++ {
		for i := 0; i < g.NX; i++ {
			idx := g.Idx(i, j)
			if layout == Centered {
				x, y := g.CellCenter(i, j)
				f.U[idx], f.V[idx] = init(x, y)
			} else {
				ux, uy := g.FaceX(i, j)
				u, _ := init(ux, uy)
				vx, vy := g.FaceY(i, j)
				_, v := init(vx, vy)
				f.U[idx], f.V[idx] = u, v
			}
		}
	}
	return f
}

// Clone returns a deep copy sharing the same grid descriptor.
func (f *VectorField) Clone() *VectorField {
	c := &VectorField{
		Grid:   f.Grid,
		Policy: f.Policy,
		Layout: f.Layout,
		U:      make([]float64, len(f.U)),
		V:      make([]float64, len(f.V)),
	}
	copy(c.U, f.U)
	copy(c.V, f.V)
	return c
}

// AtU returns the x-component sample at index (i, j) through the policy.
func (f *VectorField) AtU(i, j int) float64 {
	return At(f.Grid, f.Policy, f.U, i, j)
}

// AtV returns the y-component sample at index (i, j) through the policy.
func (f *VectorField) AtV(i, j int) float64 {
	return At(f.Grid, f.Policy, f.V, i, j)
}

// SampleU interpolates the x component at a world-space position, honoring
// the component's sample offset for the declared layout.
func (f *VectorField) SampleU(x, y float64) float64 {
	gx, gy := UIndex(f.Grid, f.Layout, x, y)
	return bilinear(gx, gy, f.AtU)
}

// SampleV interpolates the y component at a world-space position.
func (f *VectorField) SampleV(x, y float64) float64 {
	gx, gy := VIndex(f.Grid, f.Layout, x, y)
	return bilinear(gx, gy, f.AtV)
}

// Sample interpolates both components at a world-space position.
func (f *VectorField) Sample(x, y float64) (u, v float64) {
	return f.SampleU(x, y), f.SampleV(x, y)
}

// VelocityAtUFace reconstructs the full velocity vector at the x-face sample
// position (i, j): the stored u plus the average of the four surrounding v
// samples. Staggered layout only.
func (f *VectorField) VelocityAtUFace(i, j int) (u, v float64) {
	u = f.AtU(i, j)
	v = 0.25 * (f.AtV(i-1, j) + f.AtV(i, j) + f.AtV(i-1, j+1) + f.AtV(i, j+1))
	return u, v
}

// VelocityAtVFace reconstructs the full velocity vector at the y-face sample
// position (i, j). Staggered layout only.
func (f *VectorField) VelocityAtVFace(i, j int) (u, v float64) {
	u = 0.25 * (f.AtU(i, j-1) + f.AtU(i, j) + f.AtU(i+1, j-1) + f.AtU(i+1, j))
	v = f.AtV(i, j)
	return u, v
}

// VelocityAtCenter reconstructs the cell-centered velocity of cell (i, j)
// by averaging the cell's opposing faces. For a centered layout the stored
// samples are returned directly.
func (f *VectorField) VelocityAtCenter(i, j int) (u, v float64) {
	if f.Layout == Centered {
		return f.AtU(i, j), f.AtV(i, j)
	}
	u = 0.5 * (f.AtU(i, j) + f.AtU(i+1, j))
	v = 0.5 * (f.AtV(i, j) + f.AtV(i, j+1))
	return u, v
}
