package scene

// Side selects which triangle faces are drawn.
type Side int

const (
	FrontSide Side = iota
	BackSide
	DoubleSide
)

// StandardMaterial is a physically based material with optional displacement.
//
// Textures are referenced, not owned: disposing a material leaves its
// textures alive.
type StandardMaterial struct {
	resource

	Color     Color
	Roughness float32
	Metalness float32

	Map             *Texture
	AlphaMap        *Texture
	DisplacementMap *Texture

	DisplacementScale float32

	Opacity     float32
	Transparent bool
	Side        Side

	PolygonOffset       bool
	PolygonOffsetFactor float32
	PolygonOffsetUnits  float32

	version uint64
}

// NewStandardMaterial returns a white, opaque, front-sided material.
func NewStandardMaterial() *StandardMaterial {
	return &StandardMaterial{
		resource:  newResource(),
		Color:     Color{1, 1, 1},
		Roughness: 1,
		Opacity:   1,
		Side:      FrontSide,
	}
}

// MarkNeedsUpdate flags that texture bindings or blend state changed and
// the renderer must refresh its GPU state before the next draw.
func (m *StandardMaterial) MarkNeedsUpdate() {
	m.version++
}

// Version increases each time MarkNeedsUpdate is called.
func (m *StandardMaterial) Version() uint64 {
	return m.version
}

// Dispose releases GPU state for the material. Safe to call twice.
func (m *StandardMaterial) Dispose() {
	m.release()
}
