package renderer

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-viewer/internal/engine/scene"
)

type gpuGeometry struct {
	vao     uint32
	buffers [4]uint32 // positions, normals, uvs, indices
	count   int32
}

func (g *gpuGeometry) delete() {
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteBuffers(int32(len(g.buffers)), &g.buffers[0])
}

// materialBinding caches the texture handles a material resolved to at a
// given version.
type materialBinding struct {
	version      uint64
	color        uint32
	alpha        uint32
	displacement uint32
}

// geometry returns the GPU copy of g, uploading it on first use.
func (r *Renderer) geometry(g *scene.Geometry) *gpuGeometry {
	if g == nil || g.Disposed() || len(g.Indices) == 0 {
		return nil
	}
	if geo, ok := r.geometries[g.ID()]; ok {
		return geo
	}

	geo := &gpuGeometry{count: int32(len(g.Indices))}
	gl.GenVertexArrays(1, &geo.vao)
	gl.BindVertexArray(geo.vao)
	gl.GenBuffers(int32(len(geo.buffers)), &geo.buffers[0])

	attribute := func(loc uint32, buf uint32, data []float32, size int32) {
		gl.BindBuffer(gl.ARRAY_BUFFER, buf)
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
		gl.VertexAttribPointerWithOffset(loc, size, gl.FLOAT, false, size*4, 0)
		gl.EnableVertexAttribArray(loc)
	}
	attribute(0, geo.buffers[0], g.Positions, 3)
	attribute(1, geo.buffers[1], g.Normals, 3)
	attribute(2, geo.buffers[2], g.UVs, 2)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, geo.buffers[3])
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, gl.Ptr(g.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	id := g.ID()
	r.geometries[id] = geo
	g.OnDispose(func() {
		if r.disposed {
			return
		}
		if geo, ok := r.geometries[id]; ok {
			geo.delete()
			delete(r.geometries, id)
		}
	})

	r.log.Debug("geometry uploaded", zap.Uint64("id", id), zap.Int32("indices", geo.count))
	return geo
}

// texture returns the GPU handle for t, uploading it on first use.
// A nil, disposed or empty texture yields 0.
func (r *Renderer) texture(t *scene.Texture) uint32 {
	if t == nil || t.Disposed() {
		return 0
	}
	if handle, ok := r.textures[t.ID()]; ok {
		return handle
	}
	if t.Image == nil || t.Image.Rect.Empty() {
		return 0
	}

	img := flipRows(t.Image)
	w, h := int32(img.Rect.Dx()), int32(img.Rect.Dy())

	internal := int32(gl.RGBA8)
	if t.ColorSpace == scene.ColorSpaceSRGB {
		internal = gl.SRGB8_ALPHA8
	}

	var handle uint32
	gl.GenTextures(1, &handle)
	gl.BindTexture(gl.TEXTURE_2D, handle)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	id := t.ID()
	r.textures[id] = handle
	t.OnDispose(func() {
		if r.disposed {
			return
		}
		if handle, ok := r.textures[id]; ok {
			gl.DeleteTextures(1, &handle)
			delete(r.textures, id)
		}
	})

	r.log.Debug("texture uploaded",
		zap.Uint64("id", id),
		zap.String("source", t.Source),
		zap.Int32("width", w),
		zap.Int32("height", h),
	)
	return handle
}

// binding resolves a material's textures, refreshing when its version moves.
func (r *Renderer) binding(m *scene.StandardMaterial) *materialBinding {
	b, ok := r.materials[m.ID()]
	if ok && b.version == m.Version() {
		return b
	}
	if !ok {
		b = &materialBinding{}
		id := m.ID()
		r.materials[id] = b
		m.OnDispose(func() {
			if !r.disposed {
				delete(r.materials, id)
			}
		})
	}
	b.version = m.Version()
	b.color = r.texture(m.Map)
	b.alpha = r.texture(m.AlphaMap)
	b.displacement = r.texture(m.DisplacementMap)
	return b
}

// flipRows returns img with rows reversed so row 0 is the bottom of the
// picture, as GL expects for v=0.
func flipRows(img *image.RGBA) *image.RGBA {
	b := img.Rect
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	rowLen := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		src := img.PixOffset(b.Min.X, b.Max.Y-1-y)
		copy(out.Pix[y*out.Stride:y*out.Stride+rowLen], img.Pix[src:src+rowLen])
	}
	return out
}
