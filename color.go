package pixpipe

import (
	"image/color"
	"unsafe"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a non-premultiplied 8-bit RGBA pixel.
//
// The field order and the absence of padding are part of the contract:
// PixBuf.AsRawBytes reinterprets a []Color as r,g,b,a bytes.
type Color struct {
	R, G, B, A uint8
}

// Compile-time layout check: Color must be exactly four bytes.
var (
	_ [unsafe.Sizeof(Color{}) - 4]struct{}
	_ [4 - unsafe.Sizeof(Color{})]struct{}
)

// NewColor creates a color from its four channels.
func NewColor(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// The 16-color CGA/EGA text-mode palette.
var (
	Black         = Color{0, 0, 0, 255}
	Blue          = Color{0, 0, 170, 255}
	Green         = Color{0, 170, 0, 255}
	Cyan          = Color{0, 170, 170, 255}
	Red           = Color{170, 0, 0, 255}
	Magenta       = Color{170, 0, 170, 255}
	Yellow        = Color{170, 85, 0, 255}
	White         = Color{170, 170, 170, 255}
	DarkGray      = Color{85, 85, 85, 255}
	BrightBlue    = Color{85, 85, 255, 255}
	BrightGreen   = Color{85, 255, 85, 255}
	BrightCyan    = Color{85, 255, 255, 255}
	BrightRed     = Color{255, 85, 85, 255}
	BrightMagenta = Color{255, 85, 255, 255}
	BrightYellow  = Color{255, 255, 85, 255}
	BrightWhite   = Color{255, 255, 255, 255}
)

// DefaultColor is the value every pixel of a new PixBuf starts with.
var DefaultColor = Black

// Palette holds the 16 named colors ordered by their attribute number
// (0 = Black ... 15 = BrightWhite).
var Palette = color.Palette{
	Black, Blue, Green, Cyan, Red, Magenta, Yellow, White,
	DarkGray, BrightBlue, BrightGreen, BrightCyan, BrightRed, BrightMagenta, BrightYellow, BrightWhite,
}

// PaletteIndex returns the attribute number of the palette entry closest to c.
func PaletteIndex(c color.Color) int {
	return Palette.Index(c)
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// ColorFrom converts any color.Color to a non-premultiplied Color.
func ColorFrom(c color.Color) Color {
	if pc, ok := c.(Color); ok {
		return pc
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

// Mix blends a towards b by t in [0, 1]. Chromatic pairs are blended in
// CIE L*a*b*; if either side is grey the blend is plain RGB, which keeps
// grey ramps free of hue drift. Alpha is interpolated linearly.
func Mix(a, b Color, t float64) Color {
	switch {
	case t <= 0:
		return a
	case t >= 1:
		return b
	}

	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}

	var mixed colorful.Color
	if isGray(a) || isGray(b) {
		mixed = ca.BlendRgb(cb, t)
	} else {
		mixed = ca.BlendLab(cb, t)
	}
	r, g, bl := mixed.Clamped().RGB255()

	alpha := float64(a.A) + (float64(b.A)-float64(a.A))*t
	return Color{R: r, G: g, B: bl, A: uint8(alpha + 0.5)}
}

func isGray(c Color) bool {
	return c.R == c.G && c.G == c.B
}
