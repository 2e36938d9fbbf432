package scene

// Geometry is an indexed triangle mesh.
type Geometry struct {
	resource

	Positions []float32 // xyz
	Normals   []float32 // xyz
	UVs       []float32 // uv
	Indices   []uint32

	Width          float32
	Height         float32
	WidthSegments  int
	HeightSegments int
}

// NewPlaneGeometry builds a plane in the XY plane facing +Z, centered on the
// origin, with (widthSegments+1)*(heightSegments+1) vertices. UV (0,0) is the
// bottom-left corner, V grows with +Y.
func NewPlaneGeometry(width, height float32, widthSegments, heightSegments int) *Geometry {
	if widthSegments < 1 {
		widthSegments = 1
	}
	if heightSegments < 1 {
		heightSegments = 1
	}

	gridX1 := widthSegments + 1
	gridY1 := heightSegments + 1
	segW := width / float32(widthSegments)
	segH := height / float32(heightSegments)
	halfW := width / 2
	halfH := height / 2

	vertexCount := gridX1 * gridY1
	g := &Geometry{
		resource:       newResource(),
		Positions:      make([]float32, 0, vertexCount*3),
		Normals:        make([]float32, 0, vertexCount*3),
		UVs:            make([]float32, 0, vertexCount*2),
		Indices:        make([]uint32, 0, widthSegments*heightSegments*6),
		Width:          width,
		Height:         height,
		WidthSegments:  widthSegments,
		HeightSegments: heightSegments,
	}

	for iy := 0; iy < gridY1; iy++ {
		y := float32(iy)*segH - halfH
		for ix := 0; ix < gridX1; ix++ {
			x := float32(ix)*segW - halfW
			g.Positions = append(g.Positions, x, -y, 0)
			g.Normals = append(g.Normals, 0, 0, 1)
			g.UVs = append(g.UVs, float32(ix)/float32(widthSegments), 1-float32(iy)/float32(heightSegments))
		}
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint32(ix + gridX1*iy)
			b := uint32(ix + gridX1*(iy+1))
			c := uint32(ix + 1 + gridX1*(iy+1))
			d := uint32(ix + 1 + gridX1*iy)
			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}

	return g
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// Dispose releases the vertex data and any GPU buffers. Safe to call twice.
func (g *Geometry) Dispose() {
	if g.release() {
		g.Positions, g.Normals, g.UVs, g.Indices = nil, nil, nil, nil
	}
}
