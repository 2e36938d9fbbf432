// Package texture fetches and decodes images into scene textures.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Faultbox/terrain-viewer/internal/engine/scene"
)

var (
	// ErrUnreachable means the source could not be fetched.
	ErrUnreachable = errors.New("texture source unreachable")
	// ErrUndecodable means the fetched bytes are not a supported image.
	ErrUndecodable = errors.New("texture undecodable")

	errTooManyPixels = errors.New("image too large")
)

// MaxPixels caps the declared pixel count of an image before it is decoded.
// The limit is a 16384 x 16384 image.
const MaxPixels = 1 << 28

// LoadError reports a failed load for a source.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading texture %q: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Decode turns encoded image bytes into an sRGB texture. Images whose longer
// side exceeds maxSize are downscaled; the texture keeps the original size
// in Width and Height. maxSize <= 0 disables downscaling.
func Decode(source string, data []byte, maxSize int) (*scene.Texture, error) {
	cfg, format, err := decodeConfig(source, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUndecodable, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %w: %s %dx%d", ErrUndecodable, errTooManyPixels, format, cfg.Width, cfg.Height)
	}

	img, format, err := decodeImage(source, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUndecodable, err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: %s image has no pixels", ErrUndecodable, format)
	}

	rgba := fitRGBA(img, maxSize)
	return scene.NewTexture(source, rgba, bounds.Dx(), bounds.Dy()), nil
}

func decodeImage(source string, data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", errors.New("empty data")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, format, nil
	}

	// TGA has no magic number; fall back on the extension.
	if errors.Is(err, image.ErrFormat) && isTGA(source) {
		tga, tgaErr := DecodeTGA(data)
		if tgaErr != nil {
			return nil, "tga", tgaErr
		}
		return tga, "tga", nil
	}
	return nil, format, err
}

// decodeConfig reads the image dimensions from the header only.
func decodeConfig(source string, data []byte) (image.Config, string, error) {
	if len(data) == 0 {
		return image.Config{}, "", errors.New("empty data")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		return cfg, format, nil
	}
	if errors.Is(err, image.ErrFormat) && isTGA(source) {
		cfg, err = DecodeTGAConfig(data)
		return cfg, "tga", err
	}
	return image.Config{}, format, err
}

func isTGA(source string) bool {
	return strings.EqualFold(path.Ext(stripQuery(source)), ".tga")
}

// fitRGBA converts img to RGBA at its own size or, when larger than
// maxSize, at a size whose longer side is maxSize.
func fitRGBA(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			h = max(1, h*maxSize/w)
			w = maxSize
		} else {
			w = max(1, w*maxSize/h)
			h = maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}

	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func stripQuery(source string) string {
	if i := strings.IndexAny(source, "?#"); i >= 0 {
		return source[:i]
	}
	return source
}
