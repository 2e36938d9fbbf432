package viewer

import "github.com/Faultbox/terrain-viewer/internal/engine/scene"

// Stats counts GPU-backed resources created and released by a Viewer.
type Stats struct {
	GeometriesCreated  int
	GeometriesDisposed int
	MaterialsCreated   int
	MaterialsDisposed  int
	TexturesCreated    int
	TexturesDisposed   int
	StaleDiscarded     int
	LoadFailures       int
}

// LiveGeometries returns geometries created but not yet disposed.
func (s Stats) LiveGeometries() int { return s.GeometriesCreated - s.GeometriesDisposed }

// LiveMaterials returns materials created but not yet disposed.
func (s Stats) LiveMaterials() int { return s.MaterialsCreated - s.MaterialsDisposed }

// LiveTextures returns textures created but not yet disposed.
func (s Stats) LiveTextures() int { return s.TexturesCreated - s.TexturesDisposed }

func (s *Stats) trackGeometry(g *scene.Geometry) {
	s.GeometriesCreated++
	g.OnDispose(func() { s.GeometriesDisposed++ })
}

func (s *Stats) trackMaterial(m *scene.StandardMaterial) {
	s.MaterialsCreated++
	m.OnDispose(func() { s.MaterialsDisposed++ })
}

func (s *Stats) trackTexture(t *scene.Texture) {
	s.TexturesCreated++
	t.OnDispose(func() { s.TexturesDisposed++ })
}
