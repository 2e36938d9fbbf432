package scene

import "github.com/Faultbox/terrain-viewer/pkg/math"

// AmbientLight lights every surface uniformly.
type AmbientLight struct {
	Color     Color
	Intensity float32
}

// DirectionalLight shines from Position towards Target.
type DirectionalLight struct {
	Color     Color
	Intensity float32
	Position  math.Vec3
	Target    math.Vec3

	CastShadow    bool
	ShadowMapSize int
}

// Direction returns the normalized direction light travels in.
func (l *DirectionalLight) Direction() math.Vec3 {
	return l.Target.Sub(l.Position).Normalize()
}
