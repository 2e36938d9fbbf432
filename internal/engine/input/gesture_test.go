package input

import "testing"

type recorder struct {
	drags [][2]float32
	pans  [][2]float32
	zooms []float32
}

func (r *recorder) HandleDrag(dx, dy float32)        { r.drags = append(r.drags, [2]float32{dx, dy}) }
func (r *recorder) HandleZoom(delta float32)         { r.zooms = append(r.zooms, delta) }
func (r *recorder) HandlePan(right, forward float32) { r.pans = append(r.pans, [2]float32{right, forward}) }

func TestGesturesRotate(t *testing.T) {
	var g Gestures
	r := &recorder{}

	g.Apply([]Event{
		{Type: EventMouseMove, RelX: 5, RelY: 5},
		{Type: EventMouseDown, Button: ButtonLeft},
		{Type: EventMouseMove, RelX: 3, RelY: -2},
		{Type: EventMouseMove},
		{Type: EventMouseUp, Button: ButtonLeft},
		{Type: EventMouseMove, RelX: 7, RelY: 7},
	}, r)

	if len(r.drags) != 1 || r.drags[0] != [2]float32{3, -2} {
		t.Errorf("drags = %v, want [[3 -2]]", r.drags)
	}
	if len(r.pans) != 0 {
		t.Errorf("unexpected pans %v", r.pans)
	}
	if g.Dragging() {
		t.Error("still dragging after button up")
	}
}

func TestGesturesPanAndZoom(t *testing.T) {
	var g Gestures
	r := &recorder{}

	g.Apply([]Event{
		{Type: EventMouseDown, Button: ButtonRight},
		{Type: EventMouseMove, RelX: 4, RelY: 1},
		{Type: EventMouseWheel, Wheel: 1},
		{Type: EventMouseWheel},
	}, r)

	if len(r.pans) != 1 || r.pans[0] != [2]float32{-4, 1} {
		t.Errorf("pans = %v", r.pans)
	}
	if len(r.zooms) != 1 || r.zooms[0] != 1 {
		t.Errorf("zooms = %v", r.zooms)
	}
	if !g.Dragging() {
		t.Error("expected drag in progress")
	}

	g.Release()
	g.Apply([]Event{{Type: EventMouseMove, RelX: 1}}, r)
	if len(r.pans) != 1 {
		t.Errorf("pan after Release: %v", r.pans)
	}
}

func TestIsKeyPressed(t *testing.T) {
	in := New()
	in.events = append(in.events, Event{Type: EventKeyDown, Key: 21}, Event{Type: EventKeyUp, Key: 22})
	if !in.IsKeyPressed(21) {
		t.Error("key 21 should be pressed")
	}
	if in.IsKeyPressed(22) {
		t.Error("key 22 was released, not pressed")
	}
}
