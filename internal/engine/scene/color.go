package scene

import "math"

// Color is an RGB color with sRGB-encoded components in [0, 1].
type Color struct {
	R, G, B float32
}

// Hex builds a Color from a 0xRRGGBB value.
func Hex(v uint32) Color {
	return Color{
		R: float32((v>>16)&0xff) / 255,
		G: float32((v>>8)&0xff) / 255,
		B: float32(v&0xff) / 255,
	}
}

// Array returns the color as a [3]float32 for uniform uploads.
func (c Color) Array() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

// Linear converts the color to linear light for shading.
func (c Color) Linear() Color {
	return Color{R: SRGBToLinear(c.R), G: SRGBToLinear(c.G), B: SRGBToLinear(c.B)}
}

// SRGBToLinear decodes one sRGB component.
func SRGBToLinear(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return float32(math.Pow((float64(v)+0.055)/1.055, 2.4))
}
