package input

// Orbiter receives camera gestures.
type Orbiter interface {
	HandleDrag(deltaX, deltaY float32)
	HandleZoom(delta float32)
	HandlePan(right, forward float32)
}

// Gestures turns mouse events into orbit gestures: left drag rotates,
// right or middle drag pans, the wheel zooms.
type Gestures struct {
	rotating bool
	panning  bool
}

// Apply feeds one frame of events to o.
func (g *Gestures) Apply(events []Event, o Orbiter) {
	for _, e := range events {
		switch e.Type {
		case EventMouseDown:
			g.setButton(e.Button, true)
		case EventMouseUp:
			g.setButton(e.Button, false)
		case EventMouseMove:
			if e.RelX == 0 && e.RelY == 0 {
				continue
			}
			switch {
			case g.rotating:
				o.HandleDrag(float32(e.RelX), float32(e.RelY))
			case g.panning:
				o.HandlePan(-float32(e.RelX), float32(e.RelY))
			}
		case EventMouseWheel:
			if e.Wheel != 0 {
				o.HandleZoom(e.Wheel)
			}
		}
	}
}

// Dragging reports whether a button drag is in progress.
func (g *Gestures) Dragging() bool {
	return g.rotating || g.panning
}

// Release ends any drag, e.g. when the window loses focus.
func (g *Gestures) Release() {
	g.rotating = false
	g.panning = false
}

func (g *Gestures) setButton(button uint8, down bool) {
	switch button {
	case ButtonLeft:
		g.rotating = down
	case ButtonRight, ButtonMiddle:
		g.panning = down
	}
}
