package renderer

import (
	"image"
	"image/color"
	stdmath "math"
	"testing"

	"github.com/Faultbox/terrain-viewer/internal/engine/scene"
	"github.com/Faultbox/terrain-viewer/pkg/math"
)

func newMesh(name string, transparent bool) *scene.Mesh {
	mat := scene.NewStandardMaterial()
	mat.Transparent = transparent
	return scene.NewMesh(name, scene.NewPlaneGeometry(30, 15, 4, 4), mat)
}

func TestDrawOrder(t *testing.T) {
	overlay := newMesh("overlay", true)
	terrain := newMesh("terrain", false)
	hidden := newMesh("hidden", false)
	hidden.Visible = false
	disposed := newMesh("disposed", false)
	disposed.Dispose()
	second := newMesh("second", false)

	got := drawOrder([]*scene.Mesh{overlay, terrain, hidden, disposed, second})

	want := []string{"terrain", "second", "overlay"}
	if len(got) != len(want) {
		t.Fatalf("got %d meshes, want %d", len(got), len(want))
	}
	for i, m := range got {
		if m.Name != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, m.Name, want[i])
		}
	}
}

func TestShadowBounds(t *testing.T) {
	caster := newMesh("terrain", false)
	caster.CastShadow = true
	caster.Material.DisplacementScale = 1.5
	ignored := newMesh("overlay", true)
	ignored.Position = math.Vec3{X: 100}

	s := shadowBounds([]*scene.Mesh{caster, ignored}, math.Vec3{})
	want := math.Vec3{X: 15, Y: 7.5, Z: 1.5}.Length()
	if d := s.Radius - want; d > 1e-4 || d < -1e-4 {
		t.Errorf("radius = %v, want %v", s.Radius, want)
	}

	caster.Position = math.Vec3{X: 10}
	caster.Scale = math.Vec3{X: 2, Y: 2, Z: 2}
	s = shadowBounds([]*scene.Mesh{caster}, math.Vec3{})
	want = math.Vec3{X: 40, Y: 15, Z: 3}.Length()
	if d := s.Radius - want; d > 1e-3 || d < -1e-3 {
		t.Errorf("moved radius = %v, want %v", s.Radius, want)
	}

	// Laid flat, the displacement headroom points up.
	caster.Position = math.Vec3{}
	caster.Scale = math.Vec3{X: 1, Y: 1, Z: 1}
	caster.Rotation = math.Vec3{X: -stdmath.Pi / 2}
	s = shadowBounds([]*scene.Mesh{caster}, math.Vec3{Y: 1.5})
	want = math.Vec3{X: 15, Y: 1.5, Z: 7.5}.Length()
	if d := s.Radius - want; d > 1e-3 || d < -1e-3 {
		t.Errorf("flat radius = %v, want %v", s.Radius, want)
	}

	empty := shadowBounds(nil, math.Vec3{Y: 2})
	if empty.Radius != 1 || empty.Center.Y != 2 {
		t.Errorf("empty bounds = %+v", empty)
	}
}

func TestDrawableSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		ratio, limit float32
		wantW, wantH int32
	}{
		{"unit", 800, 600, 1, 2, 800, 600},
		{"retina", 800, 600, 2, 2, 1600, 1200},
		{"capped", 800, 600, 3, 2, 1600, 1200},
		{"no cap", 100, 50, 3, 0, 300, 150},
		{"unset ratio", 640, 480, 0, 2, 640, 480},
		{"negative", -5, 10, 1, 2, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := drawableSize(tt.w, tt.h, tt.ratio, tt.limit)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFlipRows(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(y), G: uint8(x), A: 255})
		}
	}

	out := flipRows(img)
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			got := out.RGBAAt(x, y)
			if got.R != uint8(2-y) || got.G != uint8(x) {
				t.Errorf("(%d,%d) = %+v", x, y, got)
			}
		}
	}
}

func TestFlipRowsSubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(1, 1, color.RGBA{R: 9, A: 255})
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)

	out := flipRows(sub)
	if out.Rect != image.Rect(0, 0, 2, 2) {
		t.Fatalf("rect = %v", out.Rect)
	}
	if got := out.RGBAAt(0, 1); got.R != 9 {
		t.Errorf("bottom-left after flip = %+v", got)
	}
}
