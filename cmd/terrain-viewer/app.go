package main

import (
	"context"
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-viewer/internal/assets"
	"github.com/Faultbox/terrain-viewer/internal/config"
	"github.com/Faultbox/terrain-viewer/internal/engine/debug"
	"github.com/Faultbox/terrain-viewer/internal/engine/input"
	"github.com/Faultbox/terrain-viewer/internal/engine/renderer"
	"github.com/Faultbox/terrain-viewer/internal/engine/texture"
	"github.com/Faultbox/terrain-viewer/internal/engine/window"
	"github.com/Faultbox/terrain-viewer/internal/logger"
	"github.com/Faultbox/terrain-viewer/internal/viewer"
)

// opacityStep is the overlay opacity change per key press.
const opacityStep = 0.1

type app struct {
	cfg *config.Config
	log *zap.Logger

	win        *window.Window
	assets     *assets.Manager
	loader     *texture.Loader
	dispatcher *viewer.Dispatcher
	context    *viewer.Context
	viewer     *viewer.Viewer
	container  *container

	input    *input.Input
	gestures input.Gestures
	shots    *debug.ScreenshotCapture
	title    string
}

func newApp(cfg *config.Config) (*app, error) {
	a := &app{
		cfg:        cfg,
		log:        logger.Named("app"),
		dispatcher: viewer.NewDispatcher(),
		input:      input.New(),
		shots:      debug.NewScreenshotCapture(cfg.Screenshots.Dir, cfg.Screenshots.Prefix),
	}

	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}
	a.win = win
	a.container = &container{win: win}

	a.assets = assets.NewManager(assets.Options{HTTPTimeout: cfg.Loader.HTTPTimeout})
	for _, path := range cfg.Loader.Archives {
		if err := a.assets.AddArchive(path); err != nil {
			a.log.Warn("archive not mounted", zap.String("path", path), zap.Error(err))
		}
	}

	a.loader = texture.NewLoader(a.assets, a.dispatcher, texture.Options{
		MaxTextureSize: cfg.Loader.MaxTextureSize,
		MaxConcurrent:  cfg.Loader.MaxConcurrent,
	})

	a.context = viewer.NewContext(a.newSurface, a.dispatcher, viewer.SettingsFromConfig(cfg))
	a.context.OnFrame(a.handleInput)

	a.viewer = viewer.New(a.context, a.loader)
	a.viewer.OnLoadError = a.onLoadError
	a.viewer.Update(propsFromConfig(cfg))

	return a, nil
}

func propsFromConfig(cfg *config.Config) viewer.Props {
	return viewer.Props{
		TerrainSource:  cfg.Viewer.Terrain,
		MaskSource:     cfg.Viewer.Mask,
		ShowOverlay:    cfg.Viewer.ShowOverlay,
		OverlayOpacity: cfg.Viewer.OverlayOpacity,
	}
}

// newSurface is the viewer.SurfaceFactory for the SDL window.
func (a *app) newSurface(width, height int) (viewer.Surface, error) {
	r, err := renderer.New(renderer.Config{
		Width:         width,
		Height:        height,
		PixelRatio:    a.win.PixelRatio(),
		MaxPixelRatio: a.cfg.Render.MaxPixelRatio,
		Shadows:       a.cfg.Render.Shadows,
		ShadowMapSize: a.cfg.Render.ShadowResolution,
	})
	if err != nil {
		return nil, err
	}
	return &windowSurface{Renderer: r, win: a.win, shots: a.shots, log: a.log}, nil
}

// Run mounts the viewer and blocks until the window is closed.
func (a *app) Run(ctx context.Context) error {
	rc, err := a.viewer.Mount(a.container)
	if err != nil {
		return err
	}
	return rc.Loop.Run(ctx)
}

// handleInput runs at the start of every frame.
func (a *app) handleInput(float32) {
	rc := a.viewer.RenderContext()
	if rc == nil {
		return
	}

	if a.input.Update() {
		rc.Loop.Stop()
		return
	}

	for _, e := range a.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			a.context.Resize(e.Width, e.Height)
		case input.EventKeyDown:
			a.handleKey(e.Key, rc)
		case input.EventMouseMove:
			if !a.gestures.Dragging() {
				a.probe(e.MouseX, e.MouseY)
			}
		}
	}
	a.gestures.Apply(a.input.Events(), rc.Controls)
}

// probe shows the terrain coordinates under the cursor in the title bar.
func (a *app) probe(x, y int) {
	title := a.cfg.Window.Title
	if p, ok := a.viewer.Probe(float32(x), float32(y)); ok {
		title = fmt.Sprintf("%s | x %.2f  z %.2f  h %.3f", title, p.X, p.Z, p.Y)
	}
	a.setTitle(title)
}

func (a *app) setTitle(title string) {
	if title == a.title {
		return
	}
	a.title = title
	a.win.SetTitle(title)
}

func (a *app) handleKey(key sdl.Scancode, rc *viewer.RenderContext) {
	props := a.viewer.Props()

	switch key {
	case sdl.SCANCODE_ESCAPE:
		rc.Loop.Stop()
	case sdl.SCANCODE_O:
		props.ShowOverlay = !props.ShowOverlay
		a.viewer.Update(props)
		a.log.Info("overlay toggled", zap.Bool("show", props.ShowOverlay))
	case sdl.SCANCODE_LEFTBRACKET, sdl.SCANCODE_RIGHTBRACKET:
		delta := float32(opacityStep)
		if key == sdl.SCANCODE_LEFTBRACKET {
			delta = -delta
		}
		props.OverlayOpacity = clampOpacity(props.OverlayOpacity + delta)
		a.viewer.Update(props)
		a.log.Debug("overlay opacity", zap.Float32("opacity", props.OverlayOpacity))
	case sdl.SCANCODE_R:
		rc.Controls.Reset()
	case sdl.SCANCODE_F12:
		if s, ok := a.container.Surface().(*windowSurface); ok {
			s.captureNext = true
		}
	}
}

func clampOpacity(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	// Snap float drift from repeated steps.
	return float32(int(v*100+0.5)) / 100
}

func (a *app) onLoadError(slot viewer.Slot, err error) {
	a.setTitle(fmt.Sprintf("%s (%s failed to load)", a.cfg.Window.Title, slot))
}

// Close releases everything in reverse order of creation.
func (a *app) Close() {
	if a.viewer != nil {
		a.viewer.Unmount()
	}
	if a.loader != nil {
		a.loader.Close()
	}
	if a.assets != nil {
		a.assets.Close()
	}
	if a.win != nil {
		a.win.Close()
	}
}
