package viewer

// Slot names an independently loaded asset.
type Slot int

const (
	SlotTerrain Slot = iota
	SlotMask
)

func (s Slot) String() string {
	switch s {
	case SlotTerrain:
		return "terrain"
	case SlotMask:
		return "mask"
	default:
		return "unknown"
	}
}

// slot tracks the newest request for one asset. Each request takes a new
// generation; a completion is applied only if its generation is still the
// newest, so results land by request order rather than completion order.
type slot struct {
	kind       Slot
	generation uint64
	source     string // source of the newest request
}

// begin records a new request and returns its generation.
func (s *slot) begin(source string) uint64 {
	s.generation++
	s.source = source
	return s.generation
}

// current reports whether generation is the newest request.
func (s *slot) current(generation uint64) bool {
	return s.generation == generation
}

// invalidate makes every outstanding request stale.
func (s *slot) invalidate() {
	s.generation++
	s.source = ""
}
