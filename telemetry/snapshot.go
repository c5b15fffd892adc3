package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joseph-kwk/Pollution-Dispersion-Simulator/field"
	"github.com/joseph-kwk/Pollution-Dispersion-Simulator/solver"
)

// SnapshotVersion is incremented when the on-disk format changes.
const SnapshotVersion = 1

// Manifest describes a recorded run: the grid is written once here, with
// explicit resolution, bounds, and policy headers, so a reader can
// reconstruct every frame's fields without re-deriving layout assumptions.
type Manifest struct {
	Version  int     `json:"version"`
	NX       int     `json:"nx"`
	NY       int     `json:"ny"`
	LowerX   float64 `json:"lower_x"`
	LowerY   float64 `json:"lower_y"`
	UpperX   float64 `json:"upper_x"`
	UpperY   float64 `json:"upper_y"`
	Boundary string  `json:"boundary"`
	Layout   string  `json:"layout"`
	DT       float64 `json:"dt"`
	Frames   int     `json:"frames"`
}

// Frame is one persisted step: flat row-major component arrays.
type Frame struct {
	Step          int       `json:"step"`
	U             []float64 `json:"u"`
	V             []float64 `json:"v"`
	Concentration []float64 `json:"concentration"`
	Converged     bool      `json:"converged"`
}

// manifestName and frameName define the file layout of a snapshot dir.
// Frames are numbered by consumption index, not by step: with a snapshot
// interval above 1 the recorded steps are sparse, but readers still walk
// frames 0..Frames-1. The true step lives inside each frame.
const manifestName = "manifest.json"

func frameName(index int) string { return fmt.Sprintf("frame_%05d.json", index) }

// SnapshotWriter persists frames of one run into a directory.
type SnapshotWriter struct {
	dir      string
	manifest Manifest
}

// NewSnapshotWriter creates the snapshot directory and prepares a manifest
// for the given grid and policy.
func NewSnapshotWriter(dir string, g *field.Grid, policy field.BoundaryPolicy, dt float64) (*SnapshotWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	return &SnapshotWriter{
		dir: dir,
		manifest: Manifest{
			Version: SnapshotVersion,
			NX:      g.NX, NY: g.NY,
			LowerX: g.LowerX, LowerY: g.LowerY,
			UpperX: g.UpperX, UpperY: g.UpperY,
			Boundary: policy.String(),
			Layout:   field.Staggered.String(),
			DT:       dt,
		},
	}, nil
}

// WriteFrame persists one state snapshot.
func (w *SnapshotWriter) WriteFrame(st solver.State) error {
	frame := Frame{
		Step:          st.Step,
		U:             st.Velocity.U,
		V:             st.Velocity.V,
		Concentration: st.Concentration.Values,
		Converged:     st.Converged(),
	}
	if err := writeJSON(filepath.Join(w.dir, frameName(w.manifest.Frames)), frame); err != nil {
		return err
	}
	w.manifest.Frames++
	return nil
}

// Close writes the manifest. Call after the last frame.
func (w *SnapshotWriter) Close() error {
	return writeJSON(filepath.Join(w.dir, manifestName), w.manifest)
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadManifest loads and validates a snapshot directory's manifest.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if m.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d (want %d)", m.Version, SnapshotVersion)
	}
	if m.NX < 1 || m.NY < 1 {
		return nil, fmt.Errorf("manifest has invalid resolution %dx%d", m.NX, m.NY)
	}
	return &m, nil
}

// ReadFrame loads the persisted frame at consumption index and
// reconstructs its fields using the manifest's grid and policy headers.
func ReadFrame(dir string, m *Manifest, index int) (*solver.State, error) {
	data, err := os.ReadFile(filepath.Join(dir, frameName(index)))
	if err != nil {
		return nil, fmt.Errorf("reading frame %d: %w", index, err)
	}
	var fr Frame
	if err := json.Unmarshal(data, &fr); err != nil {
		return nil, fmt.Errorf("parsing frame %d: %w", index, err)
	}

	grid, err := field.NewGrid(m.NX, m.NY, m.LowerX, m.LowerY, m.UpperX, m.UpperY)
	if err != nil {
		return nil, err
	}
	policy, err := field.ParseBoundaryPolicy(m.Boundary)
	if err != nil {
		return nil, err
	}
	if len(fr.U) != grid.Cells() || len(fr.V) != grid.Cells() || len(fr.Concentration) != grid.Cells() {
		return nil, fmt.Errorf("frame %d array lengths do not match %dx%d grid", index, m.NX, m.NY)
	}

	vel := field.NewVectorField(grid, policy, field.Staggered, nil)
	copy(vel.U, fr.U)
	copy(vel.V, fr.V)
	conc := field.NewScalarField(grid, policy, nil)
	copy(conc.Values, fr.Concentration)

	return &solver.State{
		Step:          fr.Step,
		Velocity:      vel,
		Concentration: conc,
		Diffusion:     solver.SolveResult{Converged: fr.Converged},
		Pressure:      solver.SolveResult{Converged: fr.Converged},
	}, nil
}
