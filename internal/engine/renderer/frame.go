package renderer

import (
	"sort"

	"github.com/Faultbox/terrain-viewer/internal/engine/scene"
	"github.com/Faultbox/terrain-viewer/internal/engine/shadow"
	"github.com/Faultbox/terrain-viewer/pkg/math"
)

// drawOrder keeps drawable meshes, opaque first then transparent, each group
// in scene order.
func drawOrder(meshes []*scene.Mesh) []*scene.Mesh {
	out := make([]*scene.Mesh, 0, len(meshes))
	for _, m := range meshes {
		if m == nil || !m.Visible || m.Disposed() || m.Geometry == nil || m.Material == nil {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return !out[i].Material.Transparent && out[j].Material.Transparent
	})
	return out
}

// shadowBounds returns a sphere around center enclosing every shadow caster,
// including its displacement headroom along the plane normal.
func shadowBounds(meshes []*scene.Mesh, center math.Vec3) shadow.Sphere {
	var radius float32
	for _, m := range meshes {
		if !m.CastShadow {
			continue
		}
		model := m.ModelMatrix()
		hw, hh := m.Geometry.Width/2, m.Geometry.Height/2
		for _, x := range [2]float32{-hw, hw} {
			for _, y := range [2]float32{-hh, hh} {
				for _, z := range [2]float32{0, m.Material.DisplacementScale} {
					r := model.TransformVec3(math.Vec3{X: x, Y: y, Z: z}).Distance(center)
					radius = max(radius, r)
				}
			}
		}
	}
	if radius == 0 {
		radius = 1
	}
	return shadow.Sphere{Center: center, Radius: radius}
}

// drawableSize converts a window size to framebuffer pixels.
func drawableSize(width, height int, ratio, maxRatio float32) (int32, int32) {
	if ratio <= 0 {
		ratio = 1
	}
	if maxRatio > 0 && ratio > maxRatio {
		ratio = maxRatio
	}
	w := int32(float32(max(width, 0)) * ratio)
	h := int32(float32(max(height, 0)) * ratio)
	return w, h
}
