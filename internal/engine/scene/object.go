package scene

import "github.com/Faultbox/terrain-viewer/pkg/math"

// Object3D holds a transform and visibility.
type Object3D struct {
	Name     string
	Position math.Vec3
	Rotation math.Vec3 // Euler angles in radians, applied X then Y then Z
	Scale    math.Vec3
	Visible  bool
}

func newObject3D(name string) Object3D {
	return Object3D{Name: name, Scale: math.Vec3{X: 1, Y: 1, Z: 1}, Visible: true}
}

// ModelMatrix returns the local-to-world transform.
func (o *Object3D) ModelMatrix() math.Mat4 {
	rot := math.RotateZ(o.Rotation.Z).
		Mul(math.RotateY(o.Rotation.Y)).
		Mul(math.RotateX(o.Rotation.X))
	return math.Translate(o.Position.X, o.Position.Y, o.Position.Z).
		Mul(rot).
		Mul(math.Scale(o.Scale.X, o.Scale.Y, o.Scale.Z))
}

// Mesh binds geometry and a material.
type Mesh struct {
	Object3D

	Geometry *Geometry
	Material *StandardMaterial

	CastShadow    bool
	ReceiveShadow bool

	ownsGeometry bool
	disposed     bool
}

// NewMesh creates a mesh that owns its geometry.
func NewMesh(name string, geometry *Geometry, material *StandardMaterial) *Mesh {
	return &Mesh{
		Object3D:     newObject3D(name),
		Geometry:     geometry,
		Material:     material,
		ownsGeometry: true,
	}
}

// NewSharedMesh creates a mesh that references geometry owned by another mesh.
// Disposing it never disposes the geometry.
func NewSharedMesh(name string, geometry *Geometry, material *StandardMaterial) *Mesh {
	m := NewMesh(name, geometry, material)
	m.ownsGeometry = false
	return m
}

// OwnsGeometry reports whether Dispose releases the geometry.
func (m *Mesh) OwnsGeometry() bool { return m.ownsGeometry }

// Disposed reports whether Dispose has run.
func (m *Mesh) Disposed() bool { return m.disposed }

// Dispose releases the material and, if owned, the geometry.
// It returns false when the mesh was already disposed.
func (m *Mesh) Dispose() bool {
	if m.disposed {
		return false
	}
	m.disposed = true
	if m.ownsGeometry && m.Geometry != nil {
		m.Geometry.Dispose()
	}
	if m.Material != nil {
		m.Material.Dispose()
	}
	return true
}
