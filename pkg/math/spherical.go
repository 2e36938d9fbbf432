package math

import "math"

// sphericalEpsilon keeps Phi away from the poles where the up vector degenerates.
const sphericalEpsilon = 1e-6

// Spherical is a point in spherical coordinates around an origin, Y-up.
// Phi is the polar angle measured from +Y, Theta the azimuth around Y
// measured from +Z towards +X.
type Spherical struct {
	Radius float32
	Phi    float32
	Theta  float32
}

// SphericalFromVec3 converts an offset from the origin to spherical coordinates.
func SphericalFromVec3(v Vec3) Spherical {
	r := v.Length()
	if r == 0 {
		return Spherical{}
	}
	return Spherical{
		Radius: r,
		Theta:  float32(math.Atan2(float64(v.X), float64(v.Z))),
		Phi:    float32(math.Acos(float64(Clamp(v.Y/r, -1, 1)))),
	}
}

// Vec3 converts back to a Cartesian offset.
func (s Spherical) Vec3() Vec3 {
	sinPhi := math.Sin(float64(s.Phi))
	return Vec3{
		X: s.Radius * float32(sinPhi*math.Sin(float64(s.Theta))),
		Y: s.Radius * float32(math.Cos(float64(s.Phi))),
		Z: s.Radius * float32(sinPhi*math.Cos(float64(s.Theta))),
	}
}

// MakeSafe clamps Phi into (0, pi) so the view never flips over a pole.
func (s Spherical) MakeSafe() Spherical {
	s.Phi = Clamp(s.Phi, sphericalEpsilon, math.Pi-sphericalEpsilon)
	return s
}
