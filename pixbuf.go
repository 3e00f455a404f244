package pixpipe

import (
	"image"
	"image/color"
	"unsafe"

	"golang.org/x/image/draw"
)

// PixBuf is a fixed-size, row-major grid of Colors.
//
// The dimensions are fixed at construction. A PixBuf is NOT safe for
// concurrent use.
type PixBuf struct {
	width  uint32
	height uint32
	data   []Color
}

// WithDimensions creates a buffer of width*height pixels, each set to
// DefaultColor.
func WithDimensions(width, height uint32) *PixBuf {
	n := uint64(width) * uint64(height)
	data := make([]Color, n)
	for i := range data {
		data[i] = DefaultColor
	}
	return &PixBuf{
		width:  width,
		height: height,
		data:   data,
	}
}

// Width returns the width of the buffer in pixels.
func (p *PixBuf) Width() uint32 {
	return p.width
}

// Height returns the height of the buffer in pixels.
func (p *PixBuf) Height() uint32 {
	return p.height
}

// Len returns the number of pixels.
func (p *PixBuf) Len() int {
	return len(p.data)
}

// Set writes c at (left, top). Coordinates outside the buffer are ignored.
func (p *PixBuf) Set(left, top uint32, c Color) {
	if left >= p.width || top >= p.height {
		return
	}
	p.data[uint64(top)*uint64(p.width)+uint64(left)] = c
}

// Get returns the pixel at (left, top), or the zero Color when the
// coordinates are outside the buffer.
func (p *PixBuf) Get(left, top uint32) Color {
	if left >= p.width || top >= p.height {
		return Color{}
	}
	return p.data[uint64(top)*uint64(p.width)+uint64(left)]
}

// Fill overwrites every pixel with c.
func (p *PixBuf) Fill(c Color) {
	for i := range p.data {
		p.data[i] = c
	}
}

// AsSlice returns the pixels in row-major order. The slice aliases the
// buffer; callers must treat it as read-only.
func (p *PixBuf) AsSlice() []Color {
	return p.data
}

// AsRawBytes returns the pixels as r,g,b,a bytes in row-major order,
// top to bottom. The length is always Width*Height*4. The slice aliases
// the buffer; callers must treat it as read-only.
func (p *PixBuf) AsRawBytes() []byte {
	if len(p.data) == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&p.data[0])), len(p.data)*int(unsafe.Sizeof(Color{})))
}

// Bounds implements the image.Image interface.
func (p *PixBuf) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(p.width), int(p.height))
}

// ColorModel implements the image.Image interface.
func (p *PixBuf) ColorModel() color.Model {
	return color.NRGBAModel
}

// At implements the image.Image interface.
func (p *PixBuf) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= int(p.width) || y >= int(p.height) {
		return Color{}
	}
	return p.Get(uint32(x), uint32(y)) //nolint:gosec // bounds checked above
}

// ToImage copies the buffer into a new image.NRGBA.
func (p *PixBuf) ToImage() *image.NRGBA {
	img := image.NewNRGBA(p.Bounds())
	copy(img.Pix, p.AsRawBytes())
	return img
}

// FromImage creates a buffer from an image. The result has the image's
// size and its top-left pixel at (0, 0).
func FromImage(img image.Image) *PixBuf {
	bounds := img.Bounds()
	width := uint32(bounds.Dx())  //nolint:gosec // image sizes are non-negative
	height := uint32(bounds.Dy()) //nolint:gosec // image sizes are non-negative
	p := WithDimensions(width, height)
	if width == 0 || height == 0 {
		return p
	}

	src, ok := img.(*image.NRGBA)
	if !ok {
		src = image.NewNRGBA(bounds)
		draw.Draw(src, bounds, img, bounds.Min, draw.Src)
	}

	raw := p.AsRawBytes()
	rowLen := int(width) * 4
	for y := 0; y < int(height); y++ {
		off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(raw[y*rowLen:(y+1)*rowLen], src.Pix[off:off+rowLen])
	}
	return p
}
