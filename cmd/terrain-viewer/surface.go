package main

import (
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-viewer/internal/engine/camera"
	"github.com/Faultbox/terrain-viewer/internal/engine/debug"
	"github.com/Faultbox/terrain-viewer/internal/engine/renderer"
	"github.com/Faultbox/terrain-viewer/internal/engine/scene"
	"github.com/Faultbox/terrain-viewer/internal/engine/window"
	"github.com/Faultbox/terrain-viewer/internal/viewer"
)

// container hosts the surface inside the SDL window.
type container struct {
	win     *window.Window
	surface viewer.Surface
}

func (c *container) Size() (int, int)        { return c.win.GetSize() }
func (c *container) Surface() viewer.Surface { return c.surface }
func (c *container) Mount(s viewer.Surface)  { c.surface = s }
func (c *container) Clear()                  { c.surface = nil }

// windowSurface presents each rendered frame and takes screenshots on request.
type windowSurface struct {
	*renderer.Renderer
	win   *window.Window
	shots *debug.ScreenshotCapture
	log   *zap.Logger

	captureNext bool
}

func (s *windowSurface) Render(sc *scene.Scene, cam *camera.Perspective) error {
	if err := s.Renderer.Render(sc, cam); err != nil {
		return err
	}
	if s.captureNext {
		s.captureNext = false
		pixels, w, h := s.ReadPixels()
		if path, err := s.shots.CaptureFromPixels(pixels, w, h); err != nil {
			s.log.Warn("screenshot failed", zap.Error(err))
		} else {
			s.log.Info("screenshot saved", zap.String("path", path))
		}
	}
	s.win.SwapBuffers()
	return nil
}
