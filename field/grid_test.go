package field

import "testing"

func TestNewGridValidation(t *testing.T) {
	tests := []struct {
		name    string
		nx, ny  int
		lx, ly  float64
		ux, uy  float64
		wantErr bool
	}{
		{"valid", 25, 25, 0, 0, 25, 25, false},
		{"single cell", 1, 1, 0, 0, 1, 1, false},
		{"zero nx", 0, 25, 0, 0, 25, 25, true},
		{"negative ny", 25, -1, 0, 0, 25, 25, true},
		{"zero extent x", 25, 25, 5, 0, 5, 25, true},
		{"inverted bounds y", 25, 25, 0, 10, 25, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.nx, tt.ny, tt.lx, tt.ly, tt.ux, tt.uy)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewGrid() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGridGeometry(t *testing.T) {
	g := MustGrid(10, 20, 0, 0, 5, 10)

	if g.DX != 0.5 || g.DY != 0.5 {
		t.Errorf("spacing = (%v, %v), want (0.5, 0.5)", g.DX, g.DY)
	}
	if g.Cells() != 200 {
		t.Errorf("Cells() = %d, want 200", g.Cells())
	}

	x, y := g.CellCenter(0, 0)
	if x != 0.25 || y != 0.25 {
		t.Errorf("CellCenter(0,0) = (%v, %v), want (0.25, 0.25)", x, y)
	}

	x, y = g.FaceX(0, 0)
	if x != 0 || y != 0.25 {
		t.Errorf("FaceX(0,0) = (%v, %v), want (0, 0.25)", x, y)
	}
	x, y = g.FaceY(0, 0)
	if x != 0.25 || y != 0 {
		t.Errorf("FaceY(0,0) = (%v, %v), want (0.25, 0)", x, y)
	}
}

func TestNearestCell(t *testing.T) {
	g := MustGrid(10, 10, 0, 0, 10, 10)

	tests := []struct {
		name     string
		x, y     float64
		wantI    int
		wantJ    int
	}{
		{"interior", 3.7, 5.2, 3, 5},
		{"origin", 0.0, 0.0, 0, 0},
		{"below domain", -3, -3, 0, 0},
		{"above domain", 40, 40, 9, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, j := g.NearestCell(tt.x, tt.y)
			if i != tt.wantI || j != tt.wantJ {
				t.Errorf("NearestCell(%v, %v) = (%d, %d), want (%d, %d)",
					tt.x, tt.y, i, j, tt.wantI, tt.wantJ)
			}
		})
	}
}
