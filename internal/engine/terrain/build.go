package terrain

import (
	"errors"
	stdmath "math"

	"github.com/Faultbox/terrain-viewer/internal/engine/picking"
	"github.com/Faultbox/terrain-viewer/internal/engine/scene"
	"github.com/Faultbox/terrain-viewer/pkg/math"
)

// ErrNoTexture is returned when Build is called without decoded pixels.
var ErrNoTexture = errors.New("terrain: texture has no pixels")

// Build creates the terrain for a loaded base texture. The plane is
// PlaneHeight tall and PlaneHeight*aspect wide, subdivided Segments times
// each way, laid flat on XZ and displaced along +Y by image luminance.
// The asset takes ownership of tex.
func Build(tex *scene.Texture) (*Asset, error) {
	if tex == nil || tex.Image == nil || tex.Disposed() {
		return nil, ErrNoTexture
	}

	aspect := tex.Aspect()
	width := PlaneHeight * aspect
	height := float32(PlaneHeight)

	geometry := scene.NewPlaneGeometry(width, height, Segments, Segments)

	material := scene.NewStandardMaterial()
	material.Map = tex
	material.DisplacementMap = tex
	material.DisplacementScale = DisplacementScale
	material.Roughness = Roughness
	material.Metalness = Metalness
	material.Side = scene.DoubleSide

	mesh := scene.NewMesh("terrain", geometry, material)
	mesh.Rotation.X = -stdmath.Pi / 2
	mesh.CastShadow = true
	mesh.ReceiveShadow = true

	hm := NewHeightmap(tex.Image, Segments+1, Segments+1)

	lo, hi := hm.Range()
	bounds := Bounds{
		Min: math.Vec3{X: -width / 2, Y: lo * DisplacementScale, Z: -height / 2},
		Max: math.Vec3{X: width / 2, Y: hi * DisplacementScale, Z: height / 2},
	}

	return &Asset{
		Source:            tex.Source,
		Aspect:            aspect,
		Width:             width,
		Height:            height,
		Segments:          Segments,
		DisplacementScale: DisplacementScale,
		Texture:           tex,
		Mesh:              mesh,
		Heightmap:         hm,
		Bounds:            bounds,
	}, nil
}

// HeightAt returns the displaced surface height at world (x, z).
// Points outside the plane return 0.
func (a *Asset) HeightAt(x, z float32) float32 {
	u := x/a.Width + 0.5
	v := 0.5 - z/a.Height
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return 0
	}
	return a.Heightmap.Sample(u, v) * a.DisplacementScale
}

// Pick returns the first point where r meets the displaced surface.
func (a *Asset) Pick(r picking.Ray) (math.Vec3, bool) {
	const pad = 1e-3
	box := picking.AABB{
		Min: a.Bounds.Min.Sub(math.Vec3{Y: pad}),
		Max: a.Bounds.Max.Add(math.Vec3{Y: pad}),
	}
	return picking.IntersectHeightfield(r, box, a.HeightAt, 2*a.Segments)
}
