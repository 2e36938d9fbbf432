package viewer

// Props are the inputs supplied by the host application.
type Props struct {
	TerrainSource  string // empty means no terrain
	MaskSource     string // empty means no mask
	ShowOverlay    bool
	OverlayOpacity float32
}

// MaskState is the overlay-related subset of Props.
type MaskState struct {
	Source  string
	Show    bool
	Opacity float32
}

// Mask returns the overlay-related subset of p.
func (p Props) Mask() MaskState {
	return MaskState{Source: p.MaskSource, Show: p.ShowOverlay, Opacity: p.OverlayOpacity}
}
