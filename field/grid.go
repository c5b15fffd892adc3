// Package field provides the grid descriptor and the scalar and vector
// sample containers the solver operates on. Fields sample anywhere in the
// plane: positions outside the domain resolve through the field's boundary
// policy, never through an error path.
package field

import "fmt"

// Grid is an immutable descriptor of a structured 2D grid: cell counts,
// physical bounds, and derived spacing. Fields hold a shared *Grid and
// never mutate it after creation.
type Grid struct {
	NX, NY         int
	LowerX, LowerY float64
	UpperX, UpperY float64
	DX, DY         float64
}

// NewGrid creates a grid descriptor. Resolution must be at least 1 per axis
// and bounds must have positive extent.
func NewGrid(nx, ny int, lowerX, lowerY, upperX, upperY float64) (*Grid, error) {
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("field: grid resolution must be at least 1 per axis, got %dx%d", nx, ny)
	}
	if upperX <= lowerX || upperY <= lowerY {
		return nil, fmt.Errorf("field: grid bounds must have positive extent, got [%g,%g]x[%g,%g]",
			lowerX, upperX, lowerY, upperY)
	}
	return &Grid{
		NX: nx, NY: ny,
		LowerX: lowerX, LowerY: lowerY,
		UpperX: upperX, UpperY: upperY,
		DX: (upperX - lowerX) / float64(nx),
		DY: (upperY - lowerY) / float64(ny),
	}, nil
}

// MustGrid is like NewGrid but panics on error. Intended for tests and
// initializers with known-good constants.
func MustGrid(nx, ny int, lowerX, lowerY, upperX, upperY float64) *Grid {
	g, err := NewGrid(nx, ny, lowerX, lowerY, upperX, upperY)
	if err != nil {
		panic(err)
	}
	return g
}

// Cells returns the total cell count.
func (g *Grid) Cells() int { return g.NX * g.NY }

// Idx flattens a cell index. Callers must pass in-range indices.
func (g *Grid) Idx(i, j int) int { return j*g.NX + i }

// Width returns the physical domain extent along x.
func (g *Grid) Width() float64 { return g.UpperX - g.LowerX }

// Height returns the physical domain extent along y.
func (g *Grid) Height() float64 { return g.UpperY - g.LowerY }

// CellCenter returns the world-space center of cell (i, j).
func (g *Grid) CellCenter(i, j int) (x, y float64) {
	return g.LowerX + (float64(i)+0.5)*g.DX, g.LowerY + (float64(j)+0.5)*g.DY
}

// FaceX returns the world-space position of the x-face sample (i, j):
// the left face of cell i, vertically centered on cell j.
func (g *Grid) FaceX(i, j int) (x, y float64) {
	return g.LowerX + float64(i)*g.DX, g.LowerY + (float64(j)+0.5)*g.DY
}

// FaceY returns the world-space position of the y-face sample (i, j):
// the bottom face of cell j, horizontally centered on cell i.
func (g *Grid) FaceY(i, j int) (x, y float64) {
	return g.LowerX + (float64(i)+0.5)*g.DX, g.LowerY + float64(j)*g.DY
}

// NearestCell returns the cell whose center is nearest to the world-space
// point, clamped into the grid.
func (g *Grid) NearestCell(x, y float64) (i, j int) {
	i = clampIndex(int((x-g.LowerX)/g.DX), g.NX)
	j = clampIndex(int((y-g.LowerY)/g.DY), g.NY)
	return i, j
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
