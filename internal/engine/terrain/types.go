// Package terrain builds the displacement-mapped terrain mesh from a base image.
package terrain

import (
	"github.com/Faultbox/terrain-viewer/internal/engine/scene"
	"github.com/Faultbox/terrain-viewer/pkg/math"
)

// Fixed terrain parameters. Grid resolution does not depend on image size.
const (
	PlaneHeight       = 15
	Segments          = 256
	DisplacementScale = 1.5
	Roughness         = 0.8
	Metalness         = 0.1
)

// Asset is a built terrain: the owned mesh plus data derived from the image.
type Asset struct {
	Source string
	Aspect float32

	Width             float32
	Height            float32
	Segments          int
	DisplacementScale float32

	Texture   *scene.Texture
	Mesh      *scene.Mesh
	Heightmap *Heightmap
	Bounds    Bounds
}

// Bounds holds the world-space axis-aligned bounding box of the terrain.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Geometry returns the terrain's grid geometry.
func (a *Asset) Geometry() *scene.Geometry {
	return a.Mesh.Geometry
}

// Dispose releases the mesh geometry, material and base texture.
// Meshes sharing the geometry must be disposed first.
func (a *Asset) Dispose() {
	a.Mesh.Dispose()
	a.Texture.Dispose()
}
