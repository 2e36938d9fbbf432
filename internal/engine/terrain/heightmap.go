package terrain

import (
	"image"

	"github.com/Faultbox/terrain-viewer/internal/engine/scene"
)

// Heightmap is a grid of displacement values in [0,1] sampled from image
// luminance, matching what the vertex shader reads from the texture.
type Heightmap struct {
	Values []float32 // row-major, row 0 is v=0 (bottom of the image)
	Cols   int
	Rows   int
}

// NewHeightmap samples img on a cols x rows grid. Texels are decoded from
// sRGB before luminance is taken.
func NewHeightmap(img *image.RGBA, cols, rows int) *Heightmap {
	cols = max(cols, 2)
	rows = max(rows, 2)
	hm := &Heightmap{Values: make([]float32, cols*rows), Cols: cols, Rows: rows}

	b := img.Bounds()
	if b.Empty() {
		return hm
	}

	for r := 0; r < rows; r++ {
		v := float32(r) / float32(rows-1)
		// Image rows run top-down, v runs bottom-up.
		py := b.Min.Y + int((1-v)*float32(b.Dy()-1)+0.5)
		for c := 0; c < cols; c++ {
			u := float32(c) / float32(cols-1)
			px := b.Min.X + int(u*float32(b.Dx()-1)+0.5)
			i := img.PixOffset(px, py)
			hm.Values[r*cols+c] = luminance(img.Pix[i], img.Pix[i+1], img.Pix[i+2])
		}
	}
	return hm
}

// Sample returns the bilinearly interpolated value at texture coordinate (u, v).
func (h *Heightmap) Sample(u, v float32) float32 {
	fx := clampf(u, 0, 1) * float32(h.Cols-1)
	fy := clampf(v, 0, 1) * float32(h.Rows-1)

	x0 := min(int(fx), h.Cols-2)
	y0 := min(int(fy), h.Rows-2)
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	at := func(x, y int) float32 { return h.Values[y*h.Cols+x] }
	bottom := at(x0, y0)*(1-tx) + at(x0+1, y0)*tx
	top := at(x0, y0+1)*(1-tx) + at(x0+1, y0+1)*tx
	return bottom*(1-ty) + top*ty
}

// Range returns the smallest and largest values.
func (h *Heightmap) Range() (lo, hi float32) {
	if len(h.Values) == 0 {
		return 0, 0
	}
	lo, hi = h.Values[0], h.Values[0]
	for _, v := range h.Values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// luminance converts an sRGB texel to linear Rec. 709 luminance.
func luminance(r, g, b uint8) float32 {
	return 0.2126*srgbToLinear(r) + 0.7152*srgbToLinear(g) + 0.0722*srgbToLinear(b)
}

func srgbToLinear(c uint8) float32 {
	return scene.SRGBToLinear(float32(c) / 255)
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
