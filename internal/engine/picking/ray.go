// Package picking casts rays from the screen into the terrain.
package picking

import (
	gomath "math"

	"github.com/Faultbox/terrain-viewer/internal/engine/camera"
	"github.com/Faultbox/terrain-viewer/pkg/math"
)

// Ray is a half-line in world space. Direction is normalized.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// ScreenToRay returns the ray through pixel (screenX, screenY) of a
// viewportW x viewportH view seen by cam. Pixel (0, 0) is the top-left.
func ScreenToRay(cam *camera.Perspective, screenX, screenY, viewportW, viewportH float32) Ray {
	ndcX := 2*screenX/max(viewportW, 1) - 1
	ndcY := 1 - 2*screenY/max(viewportH, 1)

	forward := cam.Target.Sub(cam.Position).Normalize()
	right := forward.Cross(cam.Up).Normalize()
	up := right.Cross(forward)

	tanHalf := float32(gomath.Tan(float64(cam.FOV) * gomath.Pi / 360))
	dir := forward.
		Add(right.Scale(ndcX * tanHalf * cam.Aspect)).
		Add(up.Scale(ndcY * tanHalf))

	return Ray{Origin: cam.Position, Direction: dir.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlaneY intersects the ray with the horizontal plane at height y.
func (r Ray) IntersectPlaneY(y float32) (x, z float32, ok bool) {
	if gomath.Abs(float64(r.Direction.Y)) < 1e-6 {
		return 0, 0, false
	}
	t := (y - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return 0, 0, false
	}
	p := r.At(t)
	return p.X, p.Z, true
}

// IntersectAABB returns the entry and exit distances of the ray through box.
// A ray starting inside the box has tNear 0.
func (r Ray) IntersectAABB(box AABB) (tNear, tFar float32, hit bool) {
	tNear = 0
	tFar = float32(gomath.MaxFloat32)

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	lo := box.Min.Array()
	hi := box.Max.Array()

	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, 0, false
			}
			continue
		}
		t1 := (lo[i] - origin[i]) / dir[i]
		t2 := (hi[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tNear = max(tNear, t1)
		tFar = min(tFar, t2)
		if tNear > tFar {
			return 0, 0, false
		}
	}
	return tNear, tFar, true
}

// HeightFunc returns the surface height at world (x, z).
type HeightFunc func(x, z float32) float32

// IntersectHeightfield finds where the ray first passes below the surface
// inside box. It marches in steps and refines the crossing by bisection.
func IntersectHeightfield(r Ray, box AABB, height HeightFunc, steps int) (math.Vec3, bool) {
	tNear, tFar, ok := r.IntersectAABB(box)
	if !ok {
		return math.Vec3{}, false
	}
	if steps < 1 {
		steps = 1
	}

	below := func(t float32) bool {
		p := r.At(t)
		return p.Y <= height(p.X, p.Z)
	}

	if below(tNear) {
		return r.At(tNear), true
	}

	step := (tFar - tNear) / float32(steps)
	prev := tNear
	for i := 1; i <= steps; i++ {
		t := tNear + step*float32(i)
		if !below(t) {
			prev = t
			continue
		}
		lo, hi := prev, t
		for j := 0; j < 20; j++ {
			mid := (lo + hi) / 2
			if below(mid) {
				hi = mid
			} else {
				lo = mid
			}
		}
		p := r.At(hi)
		p.Y = height(p.X, p.Z)
		return p, true
	}
	return math.Vec3{}, false
}
