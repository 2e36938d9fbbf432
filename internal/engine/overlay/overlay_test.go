package overlay

import (
	"image"
	"testing"

	"github.com/Faultbox/terrain-viewer/internal/engine/scene"
	"github.com/Faultbox/terrain-viewer/internal/engine/terrain"
)

func buildTerrain(t *testing.T) *terrain.Asset {
	t.Helper()
	tex := scene.NewTexture("base.png", image.NewRGBA(image.Rect(0, 0, 4, 2)), 4, 2)
	asset, err := terrain.Build(tex)
	if err != nil {
		t.Fatal(err)
	}
	return asset
}

func TestBuildSharesGeometry(t *testing.T) {
	ter := buildTerrain(t)
	ov := Build(ter)

	if ov.Mesh.Geometry != ter.Mesh.Geometry {
		t.Fatal("overlay must reference the terrain geometry")
	}
	if ov.Mesh.OwnsGeometry() {
		t.Error("overlay must not own the geometry")
	}
	m := ov.Mesh.Material
	if m == ter.Mesh.Material {
		t.Fatal("overlay needs its own material")
	}
	if m.DisplacementMap != ter.Mesh.Material.DisplacementMap || m.DisplacementScale != ter.Mesh.Material.DisplacementScale {
		t.Error("displacement must match the terrain")
	}
	if ov.Mesh.Rotation != ter.Mesh.Rotation || ov.Mesh.Position != ter.Mesh.Position {
		t.Error("transform must match the terrain")
	}
}

func TestBuildMaterialDefaults(t *testing.T) {
	ov := Build(buildTerrain(t))
	m := ov.Mesh.Material

	if m.Opacity != 0 || !m.Transparent {
		t.Errorf("opacity %f transparent %v, want 0 true", m.Opacity, m.Transparent)
	}
	if m.Color != scene.Hex(0x00ff00) {
		t.Errorf("color = %+v", m.Color)
	}
	if !m.PolygonOffset || m.PolygonOffsetFactor != -1 || m.PolygonOffsetUnits != -1 {
		t.Error("expected polygon offset -1/-1")
	}
	if m.Side != scene.DoubleSide {
		t.Errorf("side = %v, want double sided", m.Side)
	}
	if ov.Mesh.CastShadow {
		t.Error("overlay must not cast shadows")
	}
	if m.Map != nil || m.AlphaMap != nil {
		t.Error("overlay starts without textures")
	}
}

func TestApplyMaskStateOpacity(t *testing.T) {
	tests := []struct {
		name    string
		visible bool
		opacity float32
		want    float32
	}{
		{"shown", true, 0.6, 0.6},
		{"hidden", false, 0.6, 0},
		{"clamped high", true, 2, 1},
		{"clamped low", true, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ov := Build(buildTerrain(t))
			ov.ApplyMaskState(tt.visible, tt.opacity, nil)
			if ov.EffectiveOpacity() != tt.want {
				t.Errorf("opacity = %f, want %f", ov.EffectiveOpacity(), tt.want)
			}
			if ov.Mesh.Visible != tt.visible {
				t.Errorf("visible = %v, want %v", ov.Mesh.Visible, tt.visible)
			}
		})
	}
}

func TestApplyMaskStateInPlace(t *testing.T) {
	ter := buildTerrain(t)
	ov := Build(ter)
	mesh, geo, mat := ov.Mesh, ov.Mesh.Geometry, ov.Mesh.Material
	mat.Map = ter.Texture

	mask := scene.NewTexture("mask.png", image.NewRGBA(image.Rect(0, 0, 1, 1)), 1, 1)
	v := mat.Version()

	ov.ApplyMaskState(true, 0.5, mask)
	ov.ApplyMaskState(false, 0.5, nil)
	ov.ApplyMaskState(true, 0.7, nil)

	if ov.Mesh != mesh || ov.Mesh.Geometry != geo || ov.Mesh.Material != mat {
		t.Fatal("ApplyMaskState must not rebuild the mesh")
	}
	if mat.AlphaMap != mask || mat.Map != nil {
		t.Error("mask must become the alpha map and clear the color map")
	}
	if ov.Mask() != mask {
		t.Error("a nil mask must keep the previous one")
	}
	if mat.Version() != v+3 {
		t.Errorf("version = %d, want %d", mat.Version(), v+3)
	}
	if ov.EffectiveOpacity() != 0.7 {
		t.Errorf("opacity = %f, want 0.7", ov.EffectiveOpacity())
	}
}

func TestDisposeLeavesTerrain(t *testing.T) {
	ter := buildTerrain(t)
	ov := Build(ter)
	mask := scene.NewTexture("mask.png", image.NewRGBA(image.Rect(0, 0, 1, 1)), 1, 1)
	ov.ApplyMaskState(true, 1, mask)

	ov.Dispose()

	if !ov.Mesh.Material.Disposed() {
		t.Error("overlay material should be disposed")
	}
	if ter.Geometry().Disposed() || ter.Mesh.Material.Disposed() || ter.Texture.Disposed() {
		t.Error("overlay dispose must not touch terrain resources")
	}
	if mask.Disposed() {
		t.Error("overlay does not own the mask")
	}
}

func TestClearMask(t *testing.T) {
	ov := Build(buildTerrain(t))
	mask := scene.NewTexture("mask.png", image.NewRGBA(image.Rect(0, 0, 1, 1)), 1, 1)
	ov.ApplyMaskState(true, 1, mask)

	ov.ClearMask()
	if ov.Mask() != nil || ov.Mesh.Material.AlphaMap != nil {
		t.Error("ClearMask should drop the alpha map")
	}
	if mask.Disposed() {
		t.Error("ClearMask must not dispose the texture")
	}
}
