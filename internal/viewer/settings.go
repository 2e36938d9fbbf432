package viewer

import (
	gomath "math"

	"github.com/Faultbox/terrain-viewer/internal/config"
	"github.com/Faultbox/terrain-viewer/internal/engine/scene"
	"github.com/Faultbox/terrain-viewer/pkg/math"
)

// Settings fixes the camera, lighting and atmosphere of a render context.
type Settings struct {
	Background scene.Color
	Fog        bool
	FogDensity float32

	FOV            float32
	Near           float32
	Far            float32
	CameraPosition math.Vec3

	MinDistance   float32
	MaxDistance   float32
	MaxPolarAngle float32
	DampingFactor float32

	AmbientColor     scene.Color
	AmbientIntensity float32
	SunColor         scene.Color
	SunIntensity     float32
	SunPosition      math.Vec3
	Shadows          bool
	ShadowMapSize    int

	FPSLimit int
}

// DefaultSettings returns the standard viewer rig: a dark fogged
// background, a 45 degree camera up and back from the origin, and one
// ambient plus one shadow-casting sun light.
func DefaultSettings() Settings {
	return Settings{
		Background: scene.Hex(0x050505),
		Fog:        true,
		FogDensity: 0.02,

		FOV:            45,
		Near:           0.1,
		Far:            1000,
		CameraPosition: math.Vec3{Y: 12, Z: 12},

		MinDistance:   2,
		MaxDistance:   50,
		MaxPolarAngle: gomath.Pi/2 - 0.05,
		DampingFactor: 0.05,

		AmbientColor:     scene.Hex(0xffffff),
		AmbientIntensity: 0.4,
		SunColor:         scene.Hex(0xffffff),
		SunIntensity:     1.2,
		SunPosition:      math.Vec3{X: 10, Y: 20, Z: 10},
		Shadows:          true,
		ShadowMapSize:    2048,
	}
}

// SettingsFromConfig applies user configuration on top of the defaults.
func SettingsFromConfig(cfg *config.Config) Settings {
	s := DefaultSettings()

	s.Fog = cfg.Render.Fog
	s.FogDensity = cfg.Render.FogDensity
	s.Shadows = cfg.Render.Shadows
	s.ShadowMapSize = int(cfg.Render.ShadowResolution)

	s.FOV = cfg.Camera.FOV
	s.Near = cfg.Camera.Near
	s.Far = cfg.Camera.Far
	s.CameraPosition = math.Vec3{X: cfg.Camera.Position[0], Y: cfg.Camera.Position[1], Z: cfg.Camera.Position[2]}
	s.MinDistance = cfg.Camera.MinDistance
	s.MaxDistance = cfg.Camera.MaxDistance
	s.DampingFactor = cfg.Camera.DampingFactor

	s.FPSLimit = cfg.Window.FPSLimit
	return s
}
