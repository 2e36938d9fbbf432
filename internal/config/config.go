// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"time"
)

// Config holds all viewer settings.
type Config struct {
	Window      WindowConfig     `yaml:"window"`
	Viewer      ViewerConfig     `yaml:"viewer"`
	Camera      CameraConfig     `yaml:"camera"`
	Render      RenderConfig     `yaml:"render"`
	Loader      LoaderConfig     `yaml:"loader"`
	Screenshots ScreenshotConfig `yaml:"screenshots"`
	Logging     LoggingConfig    `yaml:"logging"`
}

// WindowConfig holds display settings for the container window.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	FPSLimit   int    `yaml:"fps_limit"`
}

// ViewerConfig holds the initial sources and overlay UI state.
type ViewerConfig struct {
	Terrain        string  `yaml:"terrain"` // Base image locator (path, URL or grf:// entry)
	Mask           string  `yaml:"mask"`    // Mask image locator
	ShowOverlay    bool    `yaml:"show_overlay"`
	OverlayOpacity float32 `yaml:"overlay_opacity"` // 0..1
}

// CameraConfig holds camera and orbit controller settings.
type CameraConfig struct {
	FOV           float32    `yaml:"fov"` // Degrees
	Near          float32    `yaml:"near"`
	Far           float32    `yaml:"far"`
	Position      [3]float32 `yaml:"position"`
	MinDistance   float32    `yaml:"min_distance"`
	MaxDistance   float32    `yaml:"max_distance"`
	DampingFactor float32    `yaml:"damping_factor"`
}

// RenderConfig holds GPU rendering settings.
type RenderConfig struct {
	Shadows          bool    `yaml:"shadows"`
	ShadowResolution int32   `yaml:"shadow_resolution"`
	Fog              bool    `yaml:"fog"`
	FogDensity       float32 `yaml:"fog_density"`
	MaxPixelRatio    float32 `yaml:"max_pixel_ratio"`
}

// LoaderConfig holds texture loading settings.
type LoaderConfig struct {
	HTTPTimeout    time.Duration `yaml:"http_timeout"`
	MaxTextureSize int           `yaml:"max_texture_size"` // Longest edge in pixels; larger images are downscaled
	MaxConcurrent  int           `yaml:"max_concurrent"`
	Archives       []string      `yaml:"archives"` // GRF archives mounted for grf://!/ sources, last wins
}

// ScreenshotConfig holds screenshot capture settings.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Satellite Terrain 3D",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Viewer: ViewerConfig{
			ShowOverlay:    true,
			OverlayOpacity: 0.5,
		},
		Camera: CameraConfig{
			FOV:           45,
			Near:          0.1,
			Far:           1000,
			Position:      [3]float32{0, 12, 12},
			MinDistance:   2,
			MaxDistance:   50,
			DampingFactor: 0.05,
		},
		Render: RenderConfig{
			Shadows:          true,
			ShadowResolution: 2048,
			Fog:              true,
			FogDensity:       0.02,
			MaxPixelRatio:    2,
		},
		Loader: LoaderConfig{
			HTTPTimeout:    30 * time.Second,
			MaxTextureSize: 8192,
			MaxConcurrent:  2,
		},
		Screenshots: ScreenshotConfig{
			Dir:    "screenshots",
			Prefix: "terrain",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate clamps soft values into range and rejects unusable ones.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("camera fov must be in (0, 180), got %v", c.Camera.FOV)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera planes invalid: near=%v far=%v", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.MinDistance <= 0 || c.Camera.MaxDistance < c.Camera.MinDistance {
		return fmt.Errorf("camera distance range invalid: [%v, %v]", c.Camera.MinDistance, c.Camera.MaxDistance)
	}
	if c.Camera.DampingFactor <= 0 || c.Camera.DampingFactor > 1 {
		return fmt.Errorf("camera damping factor must be in (0, 1], got %v", c.Camera.DampingFactor)
	}
	if c.Loader.MaxConcurrent < 1 {
		c.Loader.MaxConcurrent = 1
	}
	if c.Viewer.OverlayOpacity < 0 {
		c.Viewer.OverlayOpacity = 0
	}
	if c.Viewer.OverlayOpacity > 1 {
		c.Viewer.OverlayOpacity = 1
	}
	return nil
}
