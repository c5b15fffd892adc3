// Command render rasterizes recorded snapshot frames into PNG heatmaps of
// the pollutant concentration. It is a pure consumer of the frame history:
// frames are read by index and never modified.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/joseph-kwk/Pollution-Dispersion-Simulator/solver"
	"github.com/joseph-kwk/Pollution-Dispersion-Simulator/telemetry"
)

func main() {
	snapshotDir := flag.String("snapshots", "", "Directory containing manifest.json and frame files")
	outDir := flag.String("out", "frames", "Directory for rendered PNGs")
	frame := flag.Int("frame", -1, "Render a single frame index (-1 = all)")
	size := flag.Float64("size", 12, "Image size in cm")

	flag.Parse()

	if *snapshotDir == "" {
		slog.Error("missing -snapshots directory")
		os.Exit(1)
	}

	m, err := telemetry.ReadManifest(*snapshotDir)
	if err != nil {
		slog.Error("failed to read manifest", "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	first, last := 0, m.Frames-1
	if *frame >= 0 {
		first, last = *frame, *frame
	}
	for step := first; step <= last; step++ {
		st, err := telemetry.ReadFrame(*snapshotDir, m, step)
		if err != nil {
			slog.Error("failed to read frame", "step", step, "error", err)
			os.Exit(1)
		}
		path := filepath.Join(*outDir, fmt.Sprintf("concentration_%05d.png", step))
		if err := renderFrame(st, path, vg.Length(*size)*vg.Centimeter); err != nil {
			slog.Error("failed to render frame", "step", step, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("rendered frames", "count", last-first+1, "dir", *outDir)
}

// concentrationGrid adapts a frame's concentration field to plotter.GridXYZ.
type concentrationGrid struct {
	st *solver.State
}

func (g concentrationGrid) Dims() (c, r int) { return g.st.Concentration.Grid.NX, g.st.Concentration.Grid.NY }

func (g concentrationGrid) Z(c, r int) float64 { return g.st.Concentration.At(c, r) }

func (g concentrationGrid) X(c int) float64 {
	x, _ := g.st.Concentration.Grid.CellCenter(c, 0)
	return x
}

func (g concentrationGrid) Y(r int) float64 {
	_, y := g.st.Concentration.Grid.CellCenter(0, r)
	return y
}

func renderFrame(st *solver.State, path string, size vg.Length) error {
	pal := moreland.BlackBody().Palette(255)
	hm := plotter.NewHeatMap(concentrationGrid{st: st}, pal)
	// Concentration is clamped to [0,1] by the solver; fixing the color
	// range keeps frames comparable across the run.
	hm.Min, hm.Max = 0, 1

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Pollutant concentration, step %d", st.Step)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(hm)

	return p.Save(size, size, path)
}
