package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagTerrain    = flag.String("terrain", "", "Terrain image (path, URL or grf:// entry)")
	flagMask       = flag.String("mask", "", "Overlay mask image")
	flagOpacity    = flag.Float64("opacity", -1, "Overlay opacity (0..1)")
	flagNoOverlay  = flag.Bool("no-overlay", false, "Start with the overlay hidden")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagTerrain != "" {
		cfg.Viewer.Terrain = *flagTerrain
	}
	if *flagMask != "" {
		cfg.Viewer.Mask = *flagMask
	}
	if *flagOpacity >= 0 {
		cfg.Viewer.OverlayOpacity = float32(*flagOpacity)
	}
	if *flagNoOverlay {
		cfg.Viewer.ShowOverlay = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}
