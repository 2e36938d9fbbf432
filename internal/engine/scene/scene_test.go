package scene

import (
	stdmath "math"
	"testing"

	"github.com/Faultbox/terrain-viewer/pkg/math"
)

func TestHex(t *testing.T) {
	c := Hex(0x00ff00)
	if c.R != 0 || c.G != 1 || c.B != 0 {
		t.Errorf("Hex(0x00ff00) = %+v", c)
	}
	c = Hex(0x050505)
	if got := c.R * 255; stdmath.Abs(float64(got-5)) > 1e-4 {
		t.Errorf("Hex(0x050505).R*255 = %f", got)
	}
}

func TestPlaneGeometry(t *testing.T) {
	tests := []struct {
		name      string
		w, h      float32
		sx, sy    int
		wantVerts int
		wantIdx   int
	}{
		{"unit", 1, 1, 1, 1, 4, 6},
		{"terrain grid", 30, 15, 256, 256, 257 * 257, 256 * 256 * 6},
		{"clamped segments", 2, 2, 0, -3, 4, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewPlaneGeometry(tt.w, tt.h, tt.sx, tt.sy)
			if g.VertexCount() != tt.wantVerts {
				t.Errorf("vertices = %d, want %d", g.VertexCount(), tt.wantVerts)
			}
			if len(g.Indices) != tt.wantIdx {
				t.Errorf("indices = %d, want %d", len(g.Indices), tt.wantIdx)
			}
			if len(g.UVs) != tt.wantVerts*2 || len(g.Normals) != tt.wantVerts*3 {
				t.Errorf("attribute lengths mismatch: uvs %d normals %d", len(g.UVs), len(g.Normals))
			}
		})
	}
}

func TestPlaneGeometryCorners(t *testing.T) {
	g := NewPlaneGeometry(4, 2, 2, 2)

	// First vertex is top-left with V=1.
	if g.Positions[0] != -2 || g.Positions[1] != 1 || g.Positions[2] != 0 {
		t.Errorf("first vertex = %v", g.Positions[0:3])
	}
	if g.UVs[0] != 0 || g.UVs[1] != 1 {
		t.Errorf("first uv = %v", g.UVs[0:2])
	}

	last := g.VertexCount() - 1
	if g.Positions[last*3] != 2 || g.Positions[last*3+1] != -1 {
		t.Errorf("last vertex = %v", g.Positions[last*3:last*3+3])
	}
	if g.UVs[last*2] != 1 || g.UVs[last*2+1] != 0 {
		t.Errorf("last uv = %v", g.UVs[last*2:last*2+2])
	}
}

func TestDisposeOnce(t *testing.T) {
	g := NewPlaneGeometry(1, 1, 1, 1)
	calls := 0
	g.OnDispose(func() { calls++ })

	g.Dispose()
	g.Dispose()

	if calls != 1 {
		t.Errorf("dispose hook ran %d times, want 1", calls)
	}
	if !g.Disposed() {
		t.Error("expected geometry disposed")
	}

	late := 0
	g.OnDispose(func() { late++ })
	if late != 1 {
		t.Error("hook registered after dispose should run immediately")
	}
}

func TestResourceIDsUnique(t *testing.T) {
	a := NewStandardMaterial()
	b := NewStandardMaterial()
	if a.ID() == b.ID() || a.ID() == 0 {
		t.Errorf("ids not unique: %d %d", a.ID(), b.ID())
	}
}

func TestSharedMeshLeavesGeometry(t *testing.T) {
	geo := NewPlaneGeometry(1, 1, 1, 1)
	owner := NewMesh("terrain", geo, NewStandardMaterial())
	shared := NewSharedMesh("overlay", geo, NewStandardMaterial())

	if shared.OwnsGeometry() || !owner.OwnsGeometry() {
		t.Fatal("ownership flags wrong")
	}

	if !shared.Dispose() {
		t.Fatal("first dispose should report true")
	}
	if geo.Disposed() {
		t.Fatal("shared mesh disposed geometry it does not own")
	}
	if !shared.Material.Disposed() {
		t.Error("shared mesh should dispose its own material")
	}
	if shared.Dispose() {
		t.Error("second dispose should report false")
	}

	owner.Dispose()
	if !geo.Disposed() {
		t.Error("owner should dispose geometry")
	}
}

func TestMaterialKeepsTextures(t *testing.T) {
	tex := NewTexture("a.png", nil, 2, 1)
	m := NewStandardMaterial()
	m.Map = tex
	m.Dispose()
	if tex.Disposed() {
		t.Error("material dispose must not dispose textures")
	}
}

func TestMaterialVersion(t *testing.T) {
	m := NewStandardMaterial()
	v := m.Version()
	m.MarkNeedsUpdate()
	if m.Version() != v+1 {
		t.Errorf("version = %d, want %d", m.Version(), v+1)
	}
}

func TestTextureAspect(t *testing.T) {
	tests := []struct {
		w, h int
		want float32
	}{
		{800, 400, 2},
		{400, 800, 0.5},
		{0, 0, 1},
		{100, 0, 1},
	}
	for _, tt := range tests {
		tex := NewTexture("", nil, tt.w, tt.h)
		if got := tex.Aspect(); got != tt.want {
			t.Errorf("Aspect(%dx%d) = %f, want %f", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestSceneAddRemove(t *testing.T) {
	s := New()
	m := NewMesh("a", NewPlaneGeometry(1, 1, 1, 1), NewStandardMaterial())

	s.Add(m)
	s.Add(m)
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	if !s.Remove(m) || s.Contains(m) {
		t.Error("Remove failed")
	}
	if s.Remove(m) {
		t.Error("second Remove should report false")
	}
	if m.Disposed() {
		t.Error("Remove must not dispose")
	}
}

func TestModelMatrixLaysFlat(t *testing.T) {
	m := NewMesh("plane", nil, nil)
	m.Rotation.X = -stdmath.Pi / 2

	// +Y in plane space maps to -Z in world.
	p := m.ModelMatrix().TransformVec3(math.Vec3{Y: 1})
	if stdmath.Abs(float64(p.Z+1)) > 1e-5 || stdmath.Abs(float64(p.Y)) > 1e-5 {
		t.Errorf("got %+v", p)
	}
	// +Z (displacement direction) maps to +Y.
	p = m.ModelMatrix().TransformVec3(math.Vec3{Z: 1})
	if stdmath.Abs(float64(p.Y-1)) > 1e-5 {
		t.Errorf("normal maps to %+v", p)
	}
}

func TestFogFactor(t *testing.T) {
	f := &FogExp2{Density: 0.02}
	if f.Factor(0) != 0 {
		t.Error("no fog at distance 0")
	}
	if f.Factor(100) <= f.Factor(10) {
		t.Error("fog should grow with distance")
	}
}

func TestColorLinear(t *testing.T) {
	tests := []struct {
		in   float32
		want float32
	}{
		{0, 0},
		{1, 1},
		{0.04045, 0.04045 / 12.92},
		{0.5, 0.21404},
	}
	for _, tt := range tests {
		got := Color{R: tt.in, G: tt.in, B: tt.in}.Linear()
		if stdmath.Abs(float64(got.R-tt.want)) > 1e-4 || got.R != got.G || got.G != got.B {
			t.Errorf("Linear(%v) = %+v, want %v", tt.in, got, tt.want)
		}
	}
}
