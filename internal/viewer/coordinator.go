// Package viewer runs the terrain view: it owns the render context and
// decides, for each input change, what to dispose, what to rebuild and what
// to leave alone.
//
// All methods must be called from the goroutine that owns the scene, the
// same one that runs the render loop. Texture loads complete through the
// Dispatcher on that goroutine.
package viewer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-viewer/internal/engine/overlay"
	"github.com/Faultbox/terrain-viewer/internal/engine/picking"
	"github.com/Faultbox/terrain-viewer/internal/engine/scene"
	"github.com/Faultbox/terrain-viewer/internal/engine/terrain"
	"github.com/Faultbox/terrain-viewer/internal/engine/texture"
	"github.com/Faultbox/terrain-viewer/internal/logger"
	"github.com/Faultbox/terrain-viewer/pkg/math"
)

// TextureLoader starts an asynchronous texture load.
type TextureLoader interface {
	Load(source string, done texture.DoneFunc)
}

// Viewer coordinates the terrain, the overlay and the mask.
type Viewer struct {
	ctx    *Context
	loader TextureLoader
	log    *zap.Logger

	// OnLoadError is called on the scene goroutine when a current load fails.
	OnLoadError func(slot Slot, err error)

	rc      *RenderContext
	mounted bool
	props   Props

	terrain *terrain.Asset
	overlay *overlay.Asset
	mask    *scene.Texture

	terrainSlot slot
	maskSlot    slot

	stats Stats
}

// New creates a viewer that draws through ctx and loads through loader.
func New(ctx *Context, loader TextureLoader) *Viewer {
	return &Viewer{
		ctx:         ctx,
		loader:      loader,
		log:         logger.Named("viewer"),
		terrainSlot: slot{kind: SlotTerrain},
		maskSlot:    slot{kind: SlotMask},
	}
}

// Mount initializes the render context in container and starts loading
// whatever the current props ask for.
func (v *Viewer) Mount(container Container) (*RenderContext, error) {
	if v.mounted {
		v.Unmount()
	}

	rc, err := v.ctx.Initialize(container)
	if err != nil {
		v.log.Error("mount failed", zap.Error(err))
		return nil, err
	}
	v.rc = rc
	v.mounted = true

	if v.props.TerrainSource != "" {
		v.requestTerrain(v.props.TerrainSource)
	}
	return rc, nil
}

// Update diffs p against the previous props and runs only the handlers
// whose inputs changed.
func (v *Viewer) Update(p Props) {
	prev := v.props
	if p.TerrainSource != prev.TerrainSource {
		v.SetTerrainSource(p.TerrainSource)
	}
	if p.Mask() != prev.Mask() {
		v.SetMaskState(p.Mask())
	}
}

// Props returns the last requested props.
func (v *Viewer) Props() Props {
	return v.props
}

// SetTerrainSource requests a new base image. An empty source removes the
// terrain. The current terrain stays on screen until the new one is built.
func (v *Viewer) SetTerrainSource(source string) {
	v.props.TerrainSource = source

	if source == "" {
		v.terrainSlot.invalidate()
		v.disposeAssets()
		return
	}
	if !v.mounted {
		return
	}
	v.requestTerrain(source)
}

func (v *Viewer) requestTerrain(source string) {
	gen := v.terrainSlot.begin(source)
	v.log.Debug("terrain requested", zap.String("source", source), zap.Uint64("generation", gen))
	v.loader.Load(source, func(tex *scene.Texture, err error) {
		v.onTerrainLoaded(gen, source, tex, err)
	})
}

func (v *Viewer) onTerrainLoaded(gen uint64, source string, tex *scene.Texture, err error) {
	if !v.mounted || !v.terrainSlot.current(gen) {
		v.discard(SlotTerrain, gen, source, tex)
		return
	}
	if err != nil {
		v.fail(SlotTerrain, source, err)
		return
	}
	v.stats.trackTexture(tex)

	ta, err := terrain.Build(tex)
	if err != nil {
		tex.Dispose()
		v.fail(SlotTerrain, source, err)
		return
	}

	v.disposeAssets()

	ov := overlay.Build(ta)
	v.stats.trackGeometry(ta.Geometry())
	v.stats.trackMaterial(ta.Mesh.Material)
	v.stats.trackMaterial(ov.Mesh.Material)

	v.terrain = ta
	v.overlay = ov
	v.rc.Scene.Add(ta.Mesh)
	v.rc.Scene.Add(ov.Mesh)

	v.rc.Controls.SetTarget(math.Vec3{})

	v.log.Info("terrain built",
		zap.String("source", source),
		zap.Int("width_px", tex.Width),
		zap.Int("height_px", tex.Height),
		zap.Float32("plane_width", ta.Width),
		zap.Float32("plane_height", ta.Height))

	// The new overlay picks up the remembered mask state.
	v.applyMaskState(v.props.Mask())
}

// SetMaskState updates overlay visibility, opacity and mask source. It never
// touches terrain or overlay geometry. Without an overlay the state is only
// remembered and applied when the next terrain is built.
func (v *Viewer) SetMaskState(ms MaskState) {
	v.props.MaskSource = ms.Source
	v.props.ShowOverlay = ms.Show
	v.props.OverlayOpacity = ms.Opacity

	if ms.Source == "" {
		v.dropMask()
	} else if ms.Source != v.maskSlot.source {
		v.retargetMask(ms.Source)
	}
	if v.overlay == nil {
		return
	}
	v.applyMaskState(ms)
}

// applyMaskState pushes ms into the overlay and starts a mask load when the
// source differs from both the loaded mask and the newest request.
func (v *Viewer) applyMaskState(ms MaskState) {
	v.overlay.ApplyMaskState(ms.Show, ms.Opacity, v.mask)

	if ms.Show && ms.Source != "" && ms.Source != v.maskSlot.source && !v.hasMask(ms.Source) {
		v.requestMask(ms.Source)
	}
}

// retargetMask makes source the newest mask request, so a load still in
// flight for another source goes stale. A source that is already loaded
// needs no fetch; any other is loaded by applyMaskState once the overlay is
// shown.
func (v *Viewer) retargetMask(source string) {
	if v.hasMask(source) {
		v.maskSlot.begin(source)
		return
	}
	v.maskSlot.invalidate()
}

// dropMask forgets the mask: pending loads go stale and the loaded texture
// is released.
func (v *Viewer) dropMask() {
	if v.maskSlot.source != "" {
		v.maskSlot.invalidate()
	}
	if v.mask == nil {
		return
	}
	if v.overlay != nil {
		v.overlay.ClearMask()
	}
	v.mask.Dispose()
	v.mask = nil
}

// hasMask reports whether source is already loaded.
func (v *Viewer) hasMask(source string) bool {
	return v.mask != nil && v.mask.Source == source
}

func (v *Viewer) requestMask(source string) {
	gen := v.maskSlot.begin(source)
	v.log.Debug("mask requested", zap.String("source", source), zap.Uint64("generation", gen))
	v.loader.Load(source, func(tex *scene.Texture, err error) {
		v.onMaskLoaded(gen, source, tex, err)
	})
}

func (v *Viewer) onMaskLoaded(gen uint64, source string, tex *scene.Texture, err error) {
	if !v.mounted || !v.maskSlot.current(gen) {
		v.discard(SlotMask, gen, source, tex)
		return
	}
	if err != nil {
		v.fail(SlotMask, source, err)
		return
	}
	v.stats.trackTexture(tex)

	old := v.mask
	v.mask = tex
	if v.overlay != nil {
		ms := v.props.Mask()
		v.overlay.ApplyMaskState(ms.Show, ms.Opacity, tex)
	}
	if old != nil {
		old.Dispose()
	}

	v.log.Info("mask applied", zap.String("source", source), zap.Uint64("generation", gen))
}

// Unmount tears down the render context, then releases the remaining
// terrain, overlay and mask. Loads still in flight are discarded when they
// complete.
func (v *Viewer) Unmount() {
	if !v.mounted {
		return
	}
	v.mounted = false

	v.ctx.Teardown()
	v.disposeAssets()
	if v.mask != nil {
		v.mask.Dispose()
		v.mask = nil
	}
	v.terrainSlot.invalidate()
	v.maskSlot.invalidate()
	v.rc = nil

	v.log.Info("viewer unmounted",
		zap.Int("live_geometries", v.stats.LiveGeometries()),
		zap.Int("live_materials", v.stats.LiveMaterials()),
		zap.Int("live_textures", v.stats.LiveTextures()))
}

// disposeAssets removes terrain and overlay from the scene and releases
// them. The overlay goes first: it only references the terrain geometry,
// which the terrain disposes exactly once.
func (v *Viewer) disposeAssets() {
	if v.overlay != nil {
		if v.rc != nil {
			v.rc.Scene.Remove(v.overlay.Mesh)
		}
		v.overlay.Dispose()
		v.overlay = nil
	}
	if v.terrain != nil {
		if v.rc != nil {
			v.rc.Scene.Remove(v.terrain.Mesh)
		}
		v.terrain.Dispose()
		v.terrain = nil
	}
}

func (v *Viewer) discard(kind Slot, gen uint64, source string, tex *scene.Texture) {
	if tex != nil {
		tex.Dispose()
	}
	v.stats.StaleDiscarded++
	v.log.Debug("stale load discarded",
		zap.Stringer("slot", kind),
		zap.String("source", source),
		zap.Uint64("generation", gen))
}

func (v *Viewer) fail(kind Slot, source string, err error) {
	v.stats.LoadFailures++
	v.log.Warn("load failed", zap.Stringer("slot", kind), zap.String("source", source), zap.Error(err))
	if v.OnLoadError != nil {
		v.OnLoadError(kind, err)
	}
}

// Probe returns the terrain surface point under container pixel (x, y).
func (v *Viewer) Probe(x, y float32) (math.Vec3, bool) {
	if v.terrain == nil || v.rc == nil || v.ctx.container == nil {
		return math.Vec3{}, false
	}
	w, h := v.ctx.container.Size()
	ray := picking.ScreenToRay(v.rc.Camera, x, y, float32(w), float32(h))
	return v.terrain.Pick(ray)
}

// Terrain returns the current terrain, or nil.
func (v *Viewer) Terrain() *terrain.Asset { return v.terrain }

// Overlay returns the current overlay, or nil.
func (v *Viewer) Overlay() *overlay.Asset { return v.overlay }

// Mask returns the loaded mask texture, or nil.
func (v *Viewer) Mask() *scene.Texture { return v.mask }

// RenderContext returns the mounted render context, or nil.
func (v *Viewer) RenderContext() *RenderContext { return v.rc }

// Mounted reports whether the viewer is mounted.
func (v *Viewer) Mounted() bool { return v.mounted }

// Stats returns resource counters.
func (v *Viewer) Stats() Stats { return v.stats }
