package scene

import "image"

// ColorSpace tells the renderer how to interpret texel values.
type ColorSpace int

const (
	ColorSpaceLinear ColorSpace = iota
	ColorSpaceSRGB
)

func (c ColorSpace) String() string {
	if c == ColorSpaceSRGB {
		return "srgb"
	}
	return "linear"
}

// Texture is a decoded image ready for GPU upload.
type Texture struct {
	resource

	Source     string
	Image      *image.RGBA
	ColorSpace ColorSpace

	// Width and Height are the pixel dimensions of the source image,
	// which may differ from Image bounds when the image was downscaled.
	Width  int
	Height int
}

// NewTexture wraps decoded pixels. width and height are the original image size.
func NewTexture(source string, img *image.RGBA, width, height int) *Texture {
	return &Texture{
		resource:   newResource(),
		Source:     source,
		Image:      img,
		ColorSpace: ColorSpaceSRGB,
		Width:      width,
		Height:     height,
	}
}

// Aspect returns width/height of the source image. Degenerate sizes give 1.
func (t *Texture) Aspect() float32 {
	if t.Width <= 0 || t.Height <= 0 {
		return 1
	}
	return float32(t.Width) / float32(t.Height)
}

// Dispose releases the pixel data and any GPU copy. Safe to call twice.
func (t *Texture) Dispose() {
	if t.release() {
		t.Image = nil
	}
}
