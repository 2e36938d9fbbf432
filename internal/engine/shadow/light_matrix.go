package shadow

import (
	"github.com/Faultbox/terrain-viewer/pkg/math"
)

// Sphere bounds the region that must fall inside the shadow map.
type Sphere struct {
	Center math.Vec3
	Radius float32
}

// LightMatrix computes the light view-projection for a directional light.
// toLight is the direction from the scene towards the light; it need not be
// normalized. The orthographic volume is fitted around bounds with a small
// margin so edge texels never clip.
func LightMatrix(toLight math.Vec3, bounds Sphere) math.Mat4 {
	dir := toLight.Normalize()
	if dir == (math.Vec3{}) {
		dir = math.Vec3{Y: 1}
	}
	radius := bounds.Radius
	if radius <= 0 {
		radius = 1
	}

	lightDistance := radius * 2
	lightPos := bounds.Center.Add(dir.Scale(lightDistance))

	up := math.Vec3{Y: 1}
	if abs32(dir.Y) > 0.99 {
		up = math.Vec3{Z: 1}
	}
	view := math.LookAt(lightPos, bounds.Center, up)

	padding := radius * 0.1
	halfSize := radius + padding
	far := lightDistance + radius + padding

	proj := math.Ortho(-halfSize, halfSize, -halfSize, halfSize, 0.1, far)
	return proj.Mul(view)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
