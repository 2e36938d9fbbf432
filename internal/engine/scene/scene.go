package scene

import "math"

// FogExp2 is exponential-squared distance fog.
type FogExp2 struct {
	Color   Color
	Density float32
}

// Factor returns the fog blend amount for a view distance.
func (f *FogExp2) Factor(distance float32) float32 {
	d := f.Density * distance
	return 1 - float32(math.Exp(float64(-d*d)))
}

// Scene is the root of the scene graph.
type Scene struct {
	Background Color
	Fog        *FogExp2

	Ambient *AmbientLight
	Sun     *DirectionalLight

	meshes []*Mesh
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add appends a mesh. Adding a mesh twice is a no-op.
func (s *Scene) Add(m *Mesh) {
	if m == nil || s.Contains(m) {
		return
	}
	s.meshes = append(s.meshes, m)
}

// Remove detaches a mesh without disposing it.
func (s *Scene) Remove(m *Mesh) bool {
	for i, existing := range s.meshes {
		if existing == m {
			s.meshes = append(s.meshes[:i], s.meshes[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether m is attached.
func (s *Scene) Contains(m *Mesh) bool {
	for _, existing := range s.meshes {
		if existing == m {
			return true
		}
	}
	return false
}

// Meshes returns attached meshes in insertion order.
// The slice must not be modified.
func (s *Scene) Meshes() []*Mesh {
	return s.meshes
}

// Len returns the number of attached meshes.
func (s *Scene) Len() int {
	return len(s.meshes)
}

// Clear detaches all meshes and lights without disposing them.
func (s *Scene) Clear() {
	s.meshes = nil
	s.Ambient = nil
	s.Sun = nil
}
