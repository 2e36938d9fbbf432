package viewer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/terrain-viewer/internal/engine/camera"
	"github.com/Faultbox/terrain-viewer/internal/engine/scene"
	"github.com/Faultbox/terrain-viewer/internal/logger"
	"github.com/Faultbox/terrain-viewer/pkg/math"
)

// ErrContextInit is returned when no rendering surface can be created.
var ErrContextInit = errors.New("rendering context unavailable")

// Surface draws a scene. Implementations own GPU state.
type Surface interface {
	Render(s *scene.Scene, cam *camera.Perspective) error
	SetSize(width, height int)
	Dispose()
}

// SurfaceFactory creates a drawing surface of the given size.
type SurfaceFactory func(width, height int) (Surface, error)

// Container hosts at most one drawing surface and reports its size.
// Clear detaches the mounted surface without disposing it.
type Container interface {
	Size() (width, height int)
	Surface() Surface
	Mount(s Surface)
	Clear()
}

// RenderContext is everything needed to draw a frame.
type RenderContext struct {
	Scene    *scene.Scene
	Camera   *camera.Perspective
	Controls *camera.OrbitControls
	Ambient  *scene.AmbientLight
	Sun      *scene.DirectionalLight
	Surface  Surface
	Loop     *Loop
}

// Context owns the render context of one viewer: surface, camera, lights,
// controls and the render loop.
type Context struct {
	settings   Settings
	factory    SurfaceFactory
	dispatcher *Dispatcher
	log        *zap.Logger

	container Container
	rc        *RenderContext
	hooks     []FrameFunc
}

// NewContext creates an uninitialized context. Callbacks posted to
// dispatcher run at the start of every frame.
func NewContext(factory SurfaceFactory, dispatcher *Dispatcher, settings Settings) *Context {
	return &Context{
		settings:   settings,
		factory:    factory,
		dispatcher: dispatcher,
		log:        logger.Named("context"),
	}
}

// Initialize builds the render context inside container. Any surface
// already mounted in the container is disposed first, and an existing
// render context of this Context is torn down.
func (c *Context) Initialize(container Container) (*RenderContext, error) {
	if c.rc != nil {
		c.Teardown()
	}
	if old := container.Surface(); old != nil {
		c.log.Debug("disposing stale surface in container")
		old.Dispose()
		container.Clear()
	}

	width, height := container.Size()
	s := c.settings

	sc := scene.New()
	sc.Background = s.Background
	if s.Fog {
		sc.Fog = &scene.FogExp2{Color: s.Background, Density: s.FogDensity}
	}

	cam := camera.NewPerspective(s.FOV, camera.Aspect(width, height), s.Near, s.Far)
	cam.Position = s.CameraPosition
	cam.LookAt(math.Vec3{})

	surface, err := c.factory(width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContextInit, err)
	}
	container.Mount(surface)

	controls := camera.NewOrbitControls(cam)
	controls.EnableDamping = true
	controls.DampingFactor = s.DampingFactor
	controls.MinDistance = s.MinDistance
	controls.MaxDistance = s.MaxDistance
	controls.MaxPolarAngle = s.MaxPolarAngle

	ambient := &scene.AmbientLight{Color: s.AmbientColor, Intensity: s.AmbientIntensity}
	sun := &scene.DirectionalLight{
		Color:         s.SunColor,
		Intensity:     s.SunIntensity,
		Position:      s.SunPosition,
		CastShadow:    s.Shadows,
		ShadowMapSize: s.ShadowMapSize,
	}
	sc.Ambient = ambient
	sc.Sun = sun

	rc := &RenderContext{
		Scene:    sc,
		Camera:   cam,
		Controls: controls,
		Ambient:  ambient,
		Sun:      sun,
		Surface:  surface,
	}
	rc.Loop = NewLoop(c.frame, s.FPSLimit, c.log)

	c.container = container
	c.rc = rc

	c.log.Info("render context initialized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float32("aspect", cam.Aspect))
	return rc, nil
}

// RenderContext returns the active render context, or nil.
func (c *Context) RenderContext() *RenderContext {
	return c.rc
}

// OnFrame registers fn to run at the start of every frame, before
// dispatched callbacks. Hooks survive re-initialization.
func (c *Context) OnFrame(fn FrameFunc) {
	c.hooks = append(c.hooks, fn)
}

// Resize matches the camera projection and surface to a new container size.
func (c *Context) Resize(width, height int) {
	if c.rc == nil {
		return
	}
	c.rc.Camera.SetViewport(width, height)
	c.rc.Surface.SetSize(width, height)
	c.log.Debug("resized", zap.Int("width", width), zap.Int("height", height), zap.Float32("aspect", c.rc.Camera.Aspect))
}

// frame runs hooks, dispatched callbacks, the controls and the draw.
func (c *Context) frame(dt float32) {
	for _, fn := range c.hooks {
		fn(dt)
	}
	c.dispatcher.Drain()

	// A hook or callback may have torn the context down.
	rc := c.rc
	if rc == nil || rc.Loop.Stopped() {
		return
	}

	rc.Controls.Update()
	if err := rc.Surface.Render(rc.Scene, rc.Camera); err != nil {
		c.log.Error("render failed", zap.Error(err))
	}
}

// Teardown stops the render loop, releases the surface, disposes the
// controls and clears the scene, in that order. Safe to call twice.
func (c *Context) Teardown() {
	rc := c.rc
	if rc == nil {
		return
	}
	c.rc = nil

	rc.Loop.Stop()
	rc.Surface.Dispose()
	if c.container != nil {
		c.container.Clear()
		c.container = nil
	}
	rc.Controls.Dispose()
	rc.Scene.Clear()

	c.log.Info("render context torn down", zap.Uint64("frames", rc.Loop.Frames()))
}
