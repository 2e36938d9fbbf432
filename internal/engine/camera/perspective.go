// Package camera provides the perspective camera and the damped orbit controller.
package camera

import (
	gomath "math"

	"github.com/Faultbox/terrain-viewer/pkg/math"
)

// Perspective is a perspective camera looking at a target point.
type Perspective struct {
	FOV    float32 // vertical field of view, degrees
	Aspect float32
	Near   float32
	Far    float32

	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3
}

// NewPerspective creates a camera at the origin looking down -Z.
func NewPerspective(fov, aspect, near, far float32) *Perspective {
	return &Perspective{
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Target: math.Vec3{Z: -1},
		Up:     math.Vec3{Y: 1},
	}
}

// Aspect returns width/height for a viewport. A zero or negative height is
// treated as 1 and a zero width yields 1, so layout passes with an empty
// container never produce NaN or Inf.
func Aspect(width, height int) float32 {
	if width <= 0 {
		return 1
	}
	return float32(width) / float32(max(height, 1))
}

// SetViewport updates the aspect ratio from viewport size.
func (c *Perspective) SetViewport(width, height int) {
	c.Aspect = Aspect(width, height)
}

// LookAt points the camera at target.
func (c *Perspective) LookAt(target math.Vec3) {
	c.Target = target
}

// ProjectionMatrix returns the perspective projection.
func (c *Perspective) ProjectionMatrix() math.Mat4 {
	fovY := c.FOV * gomath.Pi / 180
	return math.Perspective(fovY, c.Aspect, c.Near, c.Far)
}

// ViewMatrix returns the world-to-camera transform.
func (c *Perspective) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Target, c.Up)
}

// ViewProjection returns projection * view.
func (c *Perspective) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}
