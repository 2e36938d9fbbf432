package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	if !cfg.Viewer.ShowOverlay {
		t.Error("expected overlay to be shown by default")
	}
	if cfg.Viewer.OverlayOpacity != 0.5 {
		t.Errorf("expected overlay opacity 0.5, got %f", cfg.Viewer.OverlayOpacity)
	}

	if cfg.Camera.FOV != 45 {
		t.Errorf("expected fov 45, got %f", cfg.Camera.FOV)
	}
	if cfg.Camera.Position != [3]float32{0, 12, 12} {
		t.Errorf("expected camera at (0,12,12), got %v", cfg.Camera.Position)
	}
	if cfg.Camera.MinDistance != 2 || cfg.Camera.MaxDistance != 50 {
		t.Errorf("expected distance [2,50], got [%f,%f]", cfg.Camera.MinDistance, cfg.Camera.MaxDistance)
	}
	if cfg.Camera.DampingFactor != 0.05 {
		t.Errorf("expected damping 0.05, got %f", cfg.Camera.DampingFactor)
	}

	if cfg.Render.ShadowResolution != 2048 {
		t.Errorf("expected shadow resolution 2048, got %d", cfg.Render.ShadowResolution)
	}
	if cfg.Loader.HTTPTimeout != 30*time.Second {
		t.Errorf("expected http timeout 30s, got %v", cfg.Loader.HTTPTimeout)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  fps_limit: 144

viewer:
  terrain: "https://example.com/tiles/field.tif"
  mask: "masks/irrigation.png"
  show_overlay: false
  overlay_opacity: 0.6

camera:
  min_distance: 4
  max_distance: 80

loader:
  http_timeout: 5s
  max_texture_size: 4096

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.Window.FPSLimit)
	}
	if cfg.Viewer.Terrain != "https://example.com/tiles/field.tif" {
		t.Errorf("unexpected terrain source %q", cfg.Viewer.Terrain)
	}
	if cfg.Viewer.Mask != "masks/irrigation.png" {
		t.Errorf("unexpected mask source %q", cfg.Viewer.Mask)
	}
	if cfg.Viewer.ShowOverlay {
		t.Error("expected show_overlay false")
	}
	if cfg.Viewer.OverlayOpacity != 0.6 {
		t.Errorf("expected opacity 0.6, got %f", cfg.Viewer.OverlayOpacity)
	}
	if cfg.Camera.MaxDistance != 80 {
		t.Errorf("expected max distance 80, got %f", cfg.Camera.MaxDistance)
	}
	// Untouched keys keep defaults.
	if cfg.Camera.FOV != 45 {
		t.Errorf("expected fov to stay 45, got %f", cfg.Camera.FOV)
	}
	if cfg.Loader.HTTPTimeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.Loader.HTTPTimeout)
	}
	if cfg.Loader.MaxTextureSize != 4096 {
		t.Errorf("expected max texture size 4096, got %d", cfg.Loader.MaxTextureSize)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero width", mutate: func(c *Config) { c.Window.Width = 0 }, wantErr: true},
		{name: "bad fov", mutate: func(c *Config) { c.Camera.FOV = 180 }, wantErr: true},
		{name: "far before near", mutate: func(c *Config) { c.Camera.Far = 0.01 }, wantErr: true},
		{name: "inverted distance", mutate: func(c *Config) { c.Camera.MaxDistance = 1 }, wantErr: true},
		{name: "zero damping", mutate: func(c *Config) { c.Camera.DampingFactor = 0 }, wantErr: true},
		{name: "damping overshoots", mutate: func(c *Config) { c.Camera.DampingFactor = 1.5 }, wantErr: true},
		{name: "full damping", mutate: func(c *Config) { c.Camera.DampingFactor = 1 }},
		{
			name:   "opacity clamped high",
			mutate: func(c *Config) { c.Viewer.OverlayOpacity = 3 },
			check: func(t *testing.T, c *Config) {
				if c.Viewer.OverlayOpacity != 1 {
					t.Errorf("opacity = %f, want 1", c.Viewer.OverlayOpacity)
				}
			},
		},
		{
			name:   "opacity clamped low",
			mutate: func(c *Config) { c.Viewer.OverlayOpacity = -0.5 },
			check: func(t *testing.T, c *Config) {
				if c.Viewer.OverlayOpacity != 0 {
					t.Errorf("opacity = %f, want 0", c.Viewer.OverlayOpacity)
				}
			},
		},
		{
			name:   "concurrency floor",
			mutate: func(c *Config) { c.Loader.MaxConcurrent = 0 },
			check: func(t *testing.T, c *Config) {
				if c.Loader.MaxConcurrent != 1 {
					t.Errorf("max concurrent = %d, want 1", c.Loader.MaxConcurrent)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "sources",
			setup: func() {
				*flagTerrain = "field.png"
				*flagMask = "mask.png"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Viewer.Terrain != "field.png" || cfg.Viewer.Mask != "mask.png" {
					t.Errorf("unexpected sources %q / %q", cfg.Viewer.Terrain, cfg.Viewer.Mask)
				}
			},
			teardown: func() {
				*flagTerrain = ""
				*flagMask = ""
			},
		},
		{
			name:  "opacity and hidden overlay",
			setup: func() { *flagOpacity = 0.25; *flagNoOverlay = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Viewer.OverlayOpacity != 0.25 {
					t.Errorf("expected opacity 0.25, got %f", cfg.Viewer.OverlayOpacity)
				}
				if cfg.Viewer.ShowOverlay {
					t.Error("expected overlay hidden")
				}
			},
			teardown: func() { *flagOpacity = -1; *flagNoOverlay = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestResolveSources(t *testing.T) {
	dir := filepath.Join("srv", "viewer")

	tests := []struct {
		source string
		want   string
	}{
		{"", ""},
		{"field.png", filepath.Join(dir, "field.png")},
		{"masks/irrigation.png", filepath.Join(dir, "masks", "irrigation.png")},
		{"/data/field.png", "/data/field.png"},
		{"https://example.com/field.tif", "https://example.com/field.tif"},
		{"file:///data/field.png", "file:///data/field.png"},
		{"grf://!/data/texture/field.bmp", "grf://!/data/texture/field.bmp"},
		{"grf://maps.grf!/data/field.bmp", "grf://" + filepath.Join(dir, "maps.grf") + "!/data/field.bmp"},
	}

	for _, tt := range tests {
		if got := resolveSource(tt.source, dir); got != tt.want {
			t.Errorf("resolveSource(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}

func TestLoadResolvesRelativeToFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
viewer:
  terrain: "tiles/field.png"
  mask: "https://example.com/mask.png"
loader:
  archives: ["maps.grf", "/opt/data.grf"]
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if want := filepath.Join(dir, "tiles", "field.png"); cfg.Viewer.Terrain != want {
		t.Errorf("terrain = %q, want %q", cfg.Viewer.Terrain, want)
	}
	if cfg.Viewer.Mask != "https://example.com/mask.png" {
		t.Errorf("mask = %q, want URL unchanged", cfg.Viewer.Mask)
	}
	if len(cfg.Loader.Archives) != 2 {
		t.Fatalf("expected 2 archives, got %d", len(cfg.Loader.Archives))
	}
	if want := filepath.Join(dir, "maps.grf"); cfg.Loader.Archives[0] != want {
		t.Errorf("archive = %q, want %q", cfg.Loader.Archives[0], want)
	}
	if cfg.Loader.Archives[1] != "/opt/data.grf" {
		t.Errorf("absolute archive rewritten to %q", cfg.Loader.Archives[1])
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Viewer.Terrain = "grf://assets.grf!/data/texture/field.bmp"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Viewer.Terrain != cfg.Viewer.Terrain {
		t.Errorf("terrain = %q, want %q", loaded.Viewer.Terrain, cfg.Viewer.Terrain)
	}
}
