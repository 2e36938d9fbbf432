// Package renderer draws scene graphs with OpenGL.
package renderer

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-viewer/internal/engine/camera"
	"github.com/Faultbox/terrain-viewer/internal/engine/scene"
	"github.com/Faultbox/terrain-viewer/internal/engine/shader"
	"github.com/Faultbox/terrain-viewer/internal/engine/shadow"
	"github.com/Faultbox/terrain-viewer/internal/logger"
	"github.com/Faultbox/terrain-viewer/pkg/math"
)

// ErrDisposed is returned when rendering with a disposed renderer.
var ErrDisposed = errors.New("renderer disposed")

var (
	//go:embed shaders/surface.vert
	surfaceVertSrc string
	//go:embed shaders/surface.frag
	surfaceFragSrc string
	//go:embed shaders/depth.vert
	depthVertSrc string
	//go:embed shaders/depth.frag
	depthFragSrc string
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int

	// PixelRatio is drawable pixels per window unit, capped at MaxPixelRatio.
	PixelRatio    float32
	MaxPixelRatio float32

	Shadows       bool
	ShadowMapSize int32
}

// Stats reports live GPU objects and the last frame's draw calls.
type Stats struct {
	Geometries int
	Textures   int
	DrawCalls  int
}

// Renderer mirrors scene resources into GPU objects and draws them.
// Must be created and used on the goroutine that owns the GL context.
type Renderer struct {
	cfg Config
	log *zap.Logger

	surface *shader.Program
	depth   *shader.Program
	shadows *shadow.Map

	viewportW int32
	viewportH int32

	geometries map[uint64]*gpuGeometry
	textures   map[uint64]uint32
	materials  map[uint64]*materialBinding

	drawCalls int
	disposed  bool
}

// New initializes OpenGL and compiles the shaders.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		cfg:        cfg,
		log:        logger.Named("renderer"),
		geometries: make(map[uint64]*gpuGeometry),
		textures:   make(map[uint64]uint32),
		materials:  make(map[uint64]*materialBinding),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	defines := map[string]string{}
	if cfg.Shadows {
		shadows, err := shadow.NewMap(cfg.ShadowMapSize)
		if err != nil {
			r.log.Warn("shadows disabled", zap.Error(err))
		} else {
			r.shadows = shadows
			defines["USE_SHADOWMAP"] = ""
		}
	}

	var err error
	r.surface, err = shader.Compile("surface", surfaceVertSrc, surfaceFragSrc, defines)
	if err != nil {
		r.Dispose()
		return nil, err
	}
	r.depth, err = shader.Compile("depth", depthVertSrc, depthFragSrc, nil)
	if err != nil {
		r.Dispose()
		return nil, err
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.FRAMEBUFFER_SRGB)

	r.SetSize(cfg.Width, cfg.Height)
	return r, nil
}

// SetSize resizes the drawable area. Sizes are in window units.
func (r *Renderer) SetSize(width, height int) {
	r.cfg.Width = width
	r.cfg.Height = height
	r.viewportW, r.viewportH = drawableSize(width, height, r.cfg.PixelRatio, r.cfg.MaxPixelRatio)
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int32("viewport_w", r.viewportW),
		zap.Int32("viewport_h", r.viewportH),
	)
}

// Viewport returns the drawable size in pixels.
func (r *Renderer) Viewport() (width, height int) {
	return int(r.viewportW), int(r.viewportH)
}

// Render draws one frame.
func (r *Renderer) Render(s *scene.Scene, cam *camera.Perspective) error {
	if r.disposed {
		return ErrDisposed
	}
	r.drawCalls = 0

	meshes := drawOrder(s.Meshes())

	lightSpace := math.Identity()
	shadowsOn := r.shadows != nil && s.Sun != nil && s.Sun.CastShadow
	if shadowsOn {
		bounds := shadowBounds(meshes, s.Sun.Target)
		lightSpace = shadow.LightMatrix(s.Sun.Position.Sub(s.Sun.Target), bounds)
		r.renderDepth(meshes, lightSpace)
	}

	gl.Viewport(0, 0, r.viewportW, r.viewportH)
	bg := s.Background.Linear()
	gl.ClearColor(bg.R, bg.G, bg.B, 1)
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	p := r.surface
	p.Use()

	viewProj := cam.ViewProjection()
	gl.UniformMatrix4fv(p.Uniform("uViewProj"), 1, false, &viewProj[0])
	gl.UniformMatrix4fv(p.Uniform("uLightSpace"), 1, false, &lightSpace[0])
	camPos := cam.Position.Array()
	gl.Uniform3fv(p.Uniform("uCameraPos"), 1, &camPos[0])

	ambient := [3]float32{}
	if s.Ambient != nil {
		ambient = scaled(s.Ambient.Color, s.Ambient.Intensity)
	}
	gl.Uniform3fv(p.Uniform("uAmbient"), 1, &ambient[0])

	sunColor := [3]float32{}
	toLight := [3]float32{0, 1, 0}
	if s.Sun != nil {
		sunColor = scaled(s.Sun.Color, s.Sun.Intensity)
		toLight = s.Sun.Direction().Scale(-1).Array()
	}
	gl.Uniform3fv(p.Uniform("uSunColor"), 1, &sunColor[0])
	gl.Uniform3fv(p.Uniform("uToLight"), 1, &toLight[0])

	if s.Fog != nil {
		fog := s.Fog.Color.Linear().Array()
		gl.Uniform1i(p.Uniform("uFogEnabled"), 1)
		gl.Uniform3fv(p.Uniform("uFogColor"), 1, &fog[0])
		gl.Uniform1f(p.Uniform("uFogDensity"), s.Fog.Density)
	} else {
		gl.Uniform1i(p.Uniform("uFogEnabled"), 0)
	}

	gl.Uniform1i(p.Uniform("uDisplacementMap"), 0)
	gl.Uniform1i(p.Uniform("uMap"), 1)
	gl.Uniform1i(p.Uniform("uAlphaMap"), 2)
	if shadowsOn {
		r.shadows.BindTexture(gl.TEXTURE3)
		gl.Uniform1i(p.Uniform("uShadowMap"), 3)
	}

	for _, m := range meshes {
		mat := m.Material
		if mat.Transparent && mat.Opacity <= 0 {
			continue
		}
		r.drawSurface(m, shadowsOn)
	}

	gl.Disable(gl.BLEND)
	gl.Disable(gl.POLYGON_OFFSET_FILL)
	gl.BindVertexArray(0)
	return nil
}

func (r *Renderer) renderDepth(meshes []*scene.Mesh, lightSpace math.Mat4) {
	r.shadows.Bind()
	p := r.depth
	p.Use()
	gl.UniformMatrix4fv(p.Uniform("uLightSpace"), 1, false, &lightSpace[0])
	gl.Uniform1i(p.Uniform("uDisplacementMap"), 0)

	for _, m := range meshes {
		if !m.CastShadow {
			continue
		}
		geo := r.geometry(m.Geometry)
		if geo == nil {
			continue
		}
		binding := r.binding(m.Material)

		model := m.ModelMatrix()
		gl.UniformMatrix4fv(p.Uniform("uModel"), 1, false, &model[0])
		r.bindDisplacement(p, m.Material, binding)

		gl.BindVertexArray(geo.vao)
		gl.DrawElements(gl.TRIANGLES, geo.count, gl.UNSIGNED_INT, nil)
		r.drawCalls++
	}
	r.shadows.Unbind()
}

func (r *Renderer) drawSurface(m *scene.Mesh, shadowsOn bool) {
	geo := r.geometry(m.Geometry)
	if geo == nil {
		return
	}
	mat := m.Material
	binding := r.binding(mat)
	p := r.surface

	model := m.ModelMatrix()
	normal := model.Mat3x3()
	gl.UniformMatrix4fv(p.Uniform("uModel"), 1, false, &model[0])
	gl.UniformMatrix3fv(p.Uniform("uNormalMatrix"), 1, false, &normal[0])

	g := m.Geometry
	step := [2]float32{1 / float32(g.WidthSegments), 1 / float32(g.HeightSegments)}
	cell := [2]float32{g.Width / float32(g.WidthSegments), g.Height / float32(g.HeightSegments)}
	gl.Uniform2fv(p.Uniform("uTexelStep"), 1, &step[0])
	gl.Uniform2fv(p.Uniform("uCellSize"), 1, &cell[0])
	r.bindDisplacement(p, mat, binding)

	color := mat.Color.Linear().Array()
	gl.Uniform3fv(p.Uniform("uColor"), 1, &color[0])
	gl.Uniform1f(p.Uniform("uOpacity"), mat.Opacity)
	gl.Uniform1f(p.Uniform("uRoughness"), mat.Roughness)
	gl.Uniform1f(p.Uniform("uMetalness"), mat.Metalness)
	gl.Uniform1i(p.Uniform("uReceiveShadow"), boolToInt(shadowsOn && m.ReceiveShadow))

	gl.Uniform1i(p.Uniform("uHasMap"), boolToInt(binding.color != 0))
	if binding.color != 0 {
		gl.ActiveTexture(gl.TEXTURE1)
		gl.BindTexture(gl.TEXTURE_2D, binding.color)
	}
	gl.Uniform1i(p.Uniform("uHasAlphaMap"), boolToInt(binding.alpha != 0))
	if binding.alpha != 0 {
		gl.ActiveTexture(gl.TEXTURE2)
		gl.BindTexture(gl.TEXTURE_2D, binding.alpha)
	}

	applySide(mat.Side)
	if mat.Transparent {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		gl.Disable(gl.BLEND)
	}
	if mat.PolygonOffset {
		gl.Enable(gl.POLYGON_OFFSET_FILL)
		gl.PolygonOffset(mat.PolygonOffsetFactor, mat.PolygonOffsetUnits)
	} else {
		gl.Disable(gl.POLYGON_OFFSET_FILL)
	}

	gl.BindVertexArray(geo.vao)
	gl.DrawElements(gl.TRIANGLES, geo.count, gl.UNSIGNED_INT, nil)
	r.drawCalls++
}

func (r *Renderer) bindDisplacement(p *shader.Program, mat *scene.StandardMaterial, binding *materialBinding) {
	has := binding.displacement != 0
	gl.Uniform1i(p.Uniform("uHasDisplacement"), boolToInt(has))
	gl.Uniform1f(p.Uniform("uDisplacementScale"), mat.DisplacementScale)
	if has {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, binding.displacement)
	}
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := int(r.viewportW), int(r.viewportH)
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, r.viewportW, r.viewportH, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pixels[0]))
	return pixels, w, h
}

// Stats returns live GPU object counts.
func (r *Renderer) Stats() Stats {
	return Stats{
		Geometries: len(r.geometries),
		Textures:   len(r.textures),
		DrawCalls:  r.drawCalls,
	}
}

// Dispose releases every GPU object. Scene resources disposed later no
// longer touch GL. Safe to call twice.
func (r *Renderer) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	r.log.Info("disposing renderer",
		zap.Int("geometries", len(r.geometries)),
		zap.Int("textures", len(r.textures)),
	)

	for id, geo := range r.geometries {
		geo.delete()
		delete(r.geometries, id)
	}
	for id, tex := range r.textures {
		gl.DeleteTextures(1, &tex)
		delete(r.textures, id)
	}
	clear(r.materials)

	if r.surface != nil {
		r.surface.Delete()
	}
	if r.depth != nil {
		r.depth.Delete()
	}
	if r.shadows != nil {
		r.shadows.Destroy()
	}
}

func applySide(side scene.Side) {
	switch side {
	case scene.DoubleSide:
		gl.Disable(gl.CULL_FACE)
	case scene.BackSide:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
}

func scaled(c scene.Color, intensity float32) [3]float32 {
	l := c.Linear()
	return [3]float32{l.R * intensity, l.G * intensity, l.B * intensity}
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
