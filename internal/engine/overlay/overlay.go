// Package overlay builds the translucent annotation surface that sits on the
// terrain and shows the mask.
package overlay

import (
	"github.com/Faultbox/terrain-viewer/internal/engine/scene"
	"github.com/Faultbox/terrain-viewer/internal/engine/terrain"
	"github.com/Faultbox/terrain-viewer/pkg/math"
)

// Fixed overlay material parameters.
const (
	Color               = 0x00ff00
	PolygonOffsetFactor = -1
	PolygonOffsetUnits  = -1
)

// Asset is the overlay mesh. It references the terrain geometry and owns
// only its material. Mask textures are referenced, not owned.
type Asset struct {
	Mesh *scene.Mesh

	visible bool
	opacity float32
	mask    *scene.Texture
}

// Build creates the overlay for t. The mesh shares t's geometry and
// displacement so both surfaces coincide at every vertex. It starts fully
// transparent.
func Build(t *terrain.Asset) *Asset {
	src := t.Mesh

	material := scene.NewStandardMaterial()
	material.Color = scene.Hex(Color)
	material.Transparent = true
	material.Opacity = 0
	material.DisplacementMap = src.Material.DisplacementMap
	material.DisplacementScale = src.Material.DisplacementScale
	material.Roughness = 1
	material.Metalness = 0
	material.Side = scene.DoubleSide
	material.PolygonOffset = true
	material.PolygonOffsetFactor = PolygonOffsetFactor
	material.PolygonOffsetUnits = PolygonOffsetUnits

	mesh := scene.NewSharedMesh("overlay", src.Geometry, material)
	mesh.Position = src.Position
	mesh.Rotation = src.Rotation
	mesh.Scale = src.Scale
	mesh.CastShadow = false
	mesh.ReceiveShadow = false

	return &Asset{Mesh: mesh, visible: true}
}

// ApplyMaskState updates visibility, opacity and, when mask is non-nil, the
// alpha map. The displayed opacity is opacity when visible and 0 otherwise.
// A mask replaces any color map. The mesh and geometry are never rebuilt.
func (a *Asset) ApplyMaskState(visible bool, opacity float32, mask *scene.Texture) {
	a.visible = visible
	a.opacity = math.Clamp(opacity, 0, 1)

	m := a.Mesh.Material
	a.Mesh.Visible = visible
	if visible {
		m.Opacity = a.opacity
	} else {
		m.Opacity = 0
	}

	if mask != nil {
		a.mask = mask
		m.AlphaMap = mask
		m.Map = nil
	}
	m.MarkNeedsUpdate()
}

// ClearMask removes the alpha map so the overlay is a flat color again.
func (a *Asset) ClearMask() {
	a.mask = nil
	a.Mesh.Material.AlphaMap = nil
	a.Mesh.Material.MarkNeedsUpdate()
}

// Visible reports the last applied visibility.
func (a *Asset) Visible() bool { return a.visible }

// Opacity reports the last requested opacity, before visibility is applied.
func (a *Asset) Opacity() float32 { return a.opacity }

// EffectiveOpacity is the opacity the material is drawn with.
func (a *Asset) EffectiveOpacity() float32 { return a.Mesh.Material.Opacity }

// Mask returns the applied mask texture, or nil.
func (a *Asset) Mask() *scene.Texture { return a.mask }

// Dispose releases the overlay material. The shared geometry is left to the terrain.
func (a *Asset) Dispose() {
	a.Mesh.Dispose()
}
