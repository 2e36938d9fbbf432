package camera

import (
	gomath "math"

	"github.com/Faultbox/terrain-viewer/pkg/math"
)

// OrbitControls orbits a camera around a target with optional damping.
//
// Drag and zoom input accumulate into pending deltas that Update applies.
// With damping enabled, each Update applies DampingFactor of the pending
// rotation and keeps the rest for later frames, so motion eases out.
type OrbitControls struct {
	Camera *Perspective
	Target math.Vec3

	MinDistance   float32
	MaxDistance   float32
	MinPolarAngle float32
	MaxPolarAngle float32

	EnableDamping bool
	DampingFactor float32

	// Radians of rotation per pixel of drag.
	RotateSpeed float32
	// Fractional distance change per wheel step.
	ZoomSpeed float32
	// World units of pan per pixel, scaled by distance.
	PanSpeed float32

	deltaTheta float32
	deltaPhi   float32
	scale      float32
	panOffset  math.Vec3

	home       math.Vec3
	homeOffset math.Vec3
	disposed   bool
}

// NewOrbitControls binds controls to cam. The current camera position and
// target become the home pose used by Reset.
func NewOrbitControls(cam *Perspective) *OrbitControls {
	c := &OrbitControls{
		Camera:        cam,
		Target:        cam.Target,
		MinDistance:   0,
		MaxDistance:   float32(gomath.Inf(1)),
		MinPolarAngle: 0,
		MaxPolarAngle: gomath.Pi,
		DampingFactor: 0.05,
		RotateSpeed:   0.005,
		ZoomSpeed:     0.1,
		PanSpeed:      0.002,
		scale:         1,
	}
	c.SaveState()
	return c
}

// SaveState records the current pose as the home pose.
func (c *OrbitControls) SaveState() {
	c.home = c.Target
	c.homeOffset = c.Camera.Position.Sub(c.Target)
}

// Reset returns to the home pose and drops pending motion.
func (c *OrbitControls) Reset() {
	c.Target = c.home
	c.Camera.Position = c.home.Add(c.homeOffset)
	c.Camera.LookAt(c.Target)
	c.clearPending()
}

// SetTarget moves the orbit center without moving the camera.
func (c *OrbitControls) SetTarget(target math.Vec3) {
	c.Target = target
	c.Camera.LookAt(target)
}

// HandleDrag queues a rotation from a mouse drag delta in pixels.
func (c *OrbitControls) HandleDrag(deltaX, deltaY float32) {
	if c.disposed {
		return
	}
	c.deltaTheta -= deltaX * c.RotateSpeed
	c.deltaPhi -= deltaY * c.RotateSpeed
}

// HandleZoom queues a zoom from a scroll wheel delta. Positive zooms in.
func (c *OrbitControls) HandleZoom(delta float32) {
	if c.disposed || delta == 0 {
		return
	}
	step := float32(gomath.Pow(float64(1-c.ZoomSpeed), float64(delta)))
	c.scale *= step
}

// HandlePan queues a target translation on the XZ plane relative to the
// current view direction.
func (c *OrbitControls) HandlePan(right, forward float32) {
	if c.disposed {
		return
	}
	offset := c.Camera.Position.Sub(c.Target)
	dist := offset.Length()

	fwd := math.Vec3{X: -offset.X, Z: -offset.Z}.Normalize()
	side := fwd.Cross(math.Vec3{Y: 1}).Normalize()

	move := side.Scale(right).Add(fwd.Scale(forward)).Scale(dist * c.PanSpeed)
	c.panOffset = c.panOffset.Add(move)
}

// Update applies pending input and repositions the camera. It reports
// whether the camera moved.
func (c *OrbitControls) Update() bool {
	if c.disposed {
		return false
	}

	offset := c.Camera.Position.Sub(c.Target)
	s := math.SphericalFromVec3(offset)

	if c.idle() && c.withinLimits(s) {
		return false
	}

	if c.EnableDamping {
		s.Theta += c.deltaTheta * c.DampingFactor
		s.Phi += c.deltaPhi * c.DampingFactor
	} else {
		s.Theta += c.deltaTheta
		s.Phi += c.deltaPhi
	}

	s.Phi = math.Clamp(s.Phi, c.MinPolarAngle, c.MaxPolarAngle)
	s = s.MakeSafe()

	s.Radius = math.Clamp(s.Radius*c.scale, c.MinDistance, c.MaxDistance)

	if c.EnableDamping {
		c.Target = c.Target.Add(c.panOffset.Scale(c.DampingFactor))
	} else {
		c.Target = c.Target.Add(c.panOffset)
	}

	newPos := c.Target.Add(s.Vec3())
	moved := newPos.Distance(c.Camera.Position) > 1e-5
	c.Camera.Position = newPos
	c.Camera.LookAt(c.Target)

	if c.EnableDamping {
		keep := 1 - c.DampingFactor
		c.deltaTheta *= keep
		c.deltaPhi *= keep
		c.panOffset = c.panOffset.Scale(keep)
		c.settle()
	} else {
		c.deltaTheta, c.deltaPhi = 0, 0
		c.panOffset = math.Vec3{}
	}
	c.scale = 1

	return moved
}

// Distance returns the current camera-to-target distance.
func (c *OrbitControls) Distance() float32 {
	return c.Camera.Position.Distance(c.Target)
}

// PolarAngle returns the current angle from +Y in radians.
func (c *OrbitControls) PolarAngle() float32 {
	return math.SphericalFromVec3(c.Camera.Position.Sub(c.Target)).Phi
}

// Dispose detaches the controls. Further input and updates are ignored.
func (c *OrbitControls) Dispose() {
	c.disposed = true
	c.clearPending()
}

// Disposed reports whether Dispose has run.
func (c *OrbitControls) Disposed() bool { return c.disposed }

// idle reports whether no input is pending.
func (c *OrbitControls) idle() bool {
	return c.deltaTheta == 0 && c.deltaPhi == 0 && c.scale == 1 && c.panOffset == (math.Vec3{})
}

func (c *OrbitControls) withinLimits(s math.Spherical) bool {
	return s.Radius >= c.MinDistance && s.Radius <= c.MaxDistance &&
		s.Phi >= c.MinPolarAngle && s.Phi <= c.MaxPolarAngle
}

// settle drops damped motion once it is too small to see.
func (c *OrbitControls) settle() {
	const eps = 1e-6
	if abs32(c.deltaTheta) < eps {
		c.deltaTheta = 0
	}
	if abs32(c.deltaPhi) < eps {
		c.deltaPhi = 0
	}
	if c.panOffset.Length() < eps {
		c.panOffset = math.Vec3{}
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func (c *OrbitControls) clearPending() {
	c.deltaTheta, c.deltaPhi = 0, 0
	c.scale = 1
	c.panOffset = math.Vec3{}
}
