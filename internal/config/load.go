package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
		resolveSources(cfg, filepath.Dir(configPath))
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "TerrainViewer")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "TerrainViewer")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "terrain-viewer")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "terrain-viewer")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// resolveSources rewrites relative local paths read from a config file so they
// point next to that file. URLs, absolute paths and empty values are kept.
func resolveSources(cfg *Config, dir string) {
	cfg.Viewer.Terrain = resolveSource(cfg.Viewer.Terrain, dir)
	cfg.Viewer.Mask = resolveSource(cfg.Viewer.Mask, dir)
	for i, archive := range cfg.Loader.Archives {
		cfg.Loader.Archives[i] = resolvePath(archive, dir)
	}
}

func resolveSource(source, dir string) string {
	switch {
	case source == "":
		return source
	case strings.HasPrefix(source, "grf://"):
		archive, entry, ok := strings.Cut(strings.TrimPrefix(source, "grf://"), "!/")
		if !ok || archive == "" {
			return source
		}
		return "grf://" + resolvePath(archive, dir) + "!/" + entry
	case strings.Contains(source, "://"):
		return source
	}
	return resolvePath(source, dir)
}

func resolvePath(path, dir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
