package field

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// TaylorGreenVelocity returns an initializer for the classic Taylor-Green
// vortex array scaled to the grid's bounds. The field is divergence-free,
// which makes it the standard smoke test for the incompressibility
// projection and for viscous energy decay.
func TaylorGreenVelocity(g *Grid, amplitude float64) func(x, y float64) (u, v float64) {
	kx := 2 * math.Pi / g.Width()
	ky := 2 * math.Pi / g.Height()
	// The kx/ky ratio keeps divergence zero on non-square domains.
	return func(x, y float64) (u, v float64) {
		px := kx * (x - g.LowerX)
		py := ky * (y - g.LowerY)
		u = amplitude * math.Sin(px) * math.Cos(py)
		v = -amplitude * (kx / ky) * math.Cos(px) * math.Sin(py)
		return u, v
	}
}

// NoiseVelocity returns an initializer producing a smooth pseudo-random
// flow. The velocity is the curl of a simplex-noise stream function, so the
// field starts out close to divergence-free before the first projection.
func NoiseVelocity(g *Grid, amplitude, scale float64, seed int64) func(x, y float64) (u, v float64) {
	noise := opensimplex.New(seed)
	psi := func(x, y float64) float64 {
		return noise.Eval2(scale*x, scale*y)
	}
	// Central differences at half a cell keep the curl consistent with the
	// grid resolution.
	hx := 0.5 * g.DX
	hy := 0.5 * g.DY
	return func(x, y float64) (u, v float64) {
		u = amplitude * (psi(x, y+hy) - psi(x, y-hy)) / (2 * hy)
		v = -amplitude * (psi(x+hx, y) - psi(x-hx, y)) / (2 * hx)
		return u, v
	}
}

// GaussianBlob returns a scalar initializer with a normalized Gaussian bump
// centered at (cx, cy). Useful for seeding a pollutant puff.
func GaussianBlob(cx, cy, sigma, peak float64) func(x, y float64) float64 {
	inv := 1 / (2 * sigma * sigma)
	return func(x, y float64) float64 {
		dx := x - cx
		dy := y - cy
		return peak * math.Exp(-(dx*dx+dy*dy)*inv)
	}
}
