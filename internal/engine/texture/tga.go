package texture

import (
	"errors"
	"image"
	"image/color"
)

// TGA image types.
const (
	TGATypeUncompressed = 2
	TGATypeRLE          = 10
)

// tgaInfo is the part of a TGA header the decoder needs.
type tgaInfo struct {
	imageType   byte
	width       int
	height      int
	bpp         int
	topToBottom bool
	offset      int
}

func readTGAHeader(data []byte) (tgaInfo, error) {
	if len(data) < 18 {
		return tgaInfo{}, errors.New("tga: header truncated")
	}

	h := tgaInfo{
		imageType:   data[2],
		width:       int(data[12]) | int(data[13])<<8,
		height:      int(data[14]) | int(data[15])<<8,
		bpp:         int(data[16]),
		topToBottom: data[17]&0x20 != 0,
		offset:      18 + int(data[0]),
	}

	switch {
	case data[1] != 0:
		return tgaInfo{}, errors.New("tga: color-mapped images not supported")
	case h.imageType != TGATypeUncompressed && h.imageType != TGATypeRLE:
		return tgaInfo{}, errors.New("tga: only true-color images supported")
	case h.bpp != 24 && h.bpp != 32:
		return tgaInfo{}, errors.New("tga: only 24 and 32 bit images supported")
	case h.width == 0 || h.height == 0:
		return tgaInfo{}, errors.New("tga: empty image")
	}
	return h, nil
}

// DecodeTGAConfig returns the dimensions of TGA data without decoding pixels.
func DecodeTGAConfig(data []byte) (image.Config, error) {
	h, err := readTGAHeader(data)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.RGBAModel, Width: h.width, Height: h.height}, nil
}

// DecodeTGA decodes uncompressed (type 2) and RLE (type 10) true-color TGA
// data with 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	h, err := readTGAHeader(data)
	if err != nil {
		return nil, err
	}
	if h.offset > len(data) {
		return nil, errors.New("tga: data truncated")
	}

	d := &tgaDecoder{
		img:         image.NewRGBA(image.Rect(0, 0, h.width, h.height)),
		src:         data[h.offset:],
		bytesPP:     h.bpp / 8,
		topToBottom: h.topToBottom,
	}

	var ok bool
	if h.imageType == TGATypeUncompressed {
		ok = d.readRaw(h.width * h.height)
	} else {
		ok = d.readRLE()
	}
	if !ok {
		return nil, errors.New("tga: pixel data truncated")
	}
	return d.img, nil
}

type tgaDecoder struct {
	img         *image.RGBA
	src         []byte
	pos         int
	pixel       int
	bytesPP     int
	topToBottom bool
}

// next reads one BGR(A) pixel into RGBA order.
func (d *tgaDecoder) next() ([4]uint8, bool) {
	if d.pos+d.bytesPP > len(d.src) {
		return [4]uint8{}, false
	}
	p := d.src[d.pos:]
	c := [4]uint8{p[2], p[1], p[0], 255}
	if d.bytesPP == 4 {
		c[3] = p[3]
	}
	d.pos += d.bytesPP
	return c, true
}

// put writes c at the current pixel cursor and advances it.
func (d *tgaDecoder) put(c [4]uint8) {
	w := d.img.Rect.Dx()
	h := d.img.Rect.Dy()
	x := d.pixel % w
	y := d.pixel / w
	if !d.topToBottom {
		y = h - 1 - y
	}
	i := d.img.PixOffset(x, y)
	copy(d.img.Pix[i:i+4], c[:])
	d.pixel++
}

func (d *tgaDecoder) total() int {
	return d.img.Rect.Dx() * d.img.Rect.Dy()
}

func (d *tgaDecoder) readRaw(count int) bool {
	for i := 0; i < count && d.pixel < d.total(); i++ {
		c, ok := d.next()
		if !ok {
			return false
		}
		d.put(c)
	}
	return true
}

func (d *tgaDecoder) readRLE() bool {
	for d.pixel < d.total() {
		if d.pos >= len(d.src) {
			return false
		}
		packet := d.src[d.pos]
		d.pos++
		count := int(packet&0x7f) + 1

		if packet&0x80 == 0 {
			if !d.readRaw(count) {
				return false
			}
			continue
		}

		c, ok := d.next()
		if !ok {
			return false
		}
		for i := 0; i < count && d.pixel < d.total(); i++ {
			d.put(c)
		}
	}
	return true
}
