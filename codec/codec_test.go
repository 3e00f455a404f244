// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package codec

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/gogpu/pixpipe"
)

// testPattern returns a small opaque buffer with a distinct color per pixel.
func testPattern() *pixpipe.PixBuf {
	pb := pixpipe.WithDimensions(4, 3)
	for i, c := range pixpipe.Palette[:12] {
		pb.Set(uint32(i%4), uint32(i/4), pixpipe.ColorFrom(c))
	}
	return pb
}

func assertSamePixels(t *testing.T, got, want *pixpipe.PixBuf) {
	t.Helper()
	if got.Width() != want.Width() || got.Height() != want.Height() {
		t.Fatalf("size = %dx%d, want %dx%d", got.Width(), got.Height(), want.Width(), want.Height())
	}
	for y := uint32(0); y < want.Height(); y++ {
		for x := uint32(0); x < want.Width(); x++ {
			if g, w := got.Get(x, y), want.Get(x, y); g != w {
				t.Errorf("pixel (%d, %d) = %v, want %v", x, y, g, w)
			}
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatPNG, FormatBMP, FormatTIFF, FormatWebP} {
		t.Run(format.String(), func(t *testing.T) {
			want := testPattern()

			var buf bytes.Buffer
			if err := Encode(&buf, want, format); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, detected, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if detected != format {
				t.Errorf("detected %v, want %v", detected, format)
			}
			assertSamePixels(t, got, want)
		})
	}
}

func TestPNGKeepsAlpha(t *testing.T) {
	want := pixpipe.WithDimensions(2, 1)
	want.Set(0, 0, pixpipe.NewColor(200, 100, 50, 128))
	want.Set(1, 0, pixpipe.NewColor(0, 0, 0, 0))

	var buf bytes.Buffer
	if err := Encode(&buf, want, FormatPNG); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, _, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	assertSamePixels(t, got, want)
}

func TestDecodeTGA(t *testing.T) {
	// Uncompressed 32-bit true-color, 2x1, top-left origin.
	data := []byte{
		0, 0, 2,       // id length, no color map, true-color
		0, 0, 0, 0, 0, // color map spec
		0, 0, 0, 0,    // origin
		2, 0, 1, 0,    // width, height
		32, 0x28,      // bpp, descriptor
		// BGRA pixels
		0, 0, 255, 255,
		255, 0, 0, 255,
	}
	pb, format, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != FormatTGA {
		t.Errorf("format = %v, want tga", format)
	}
	if got, want := pb.Get(0, 0), pixpipe.NewColor(255, 0, 0, 255); got != want {
		t.Errorf("pixel 0 = %v, want %v", got, want)
	}
	if got, want := pb.Get(1, 0), pixpipe.NewColor(0, 0, 255, 255); got != want {
		t.Errorf("pixel 1 = %v, want %v", got, want)
	}
}

func TestEncodeErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil, FormatPNG); !errors.Is(err, ErrNilPixBuf) {
		t.Errorf("nil buffer: got %v, want ErrNilPixBuf", err)
	}
	for _, f := range []Format{FormatTGA, FormatUnknown} {
		if err := Encode(&buf, testPattern(), f); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%v: got %v, want ErrUnsupportedFormat", f, err)
		}
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, _, err := Decode(bytes.NewReader([]byte("\x89PNG\r\n\x1a\nnot really"))); err == nil {
		t.Error("expected an error for a truncated PNG")
	}
}

func TestSniff(t *testing.T) {
	tests := []struct {
		header string
		want   Format
	}{
		{"\x89PNG\r\n\x1a\n\x00\x00\x00\x0d", FormatPNG},
		{"BM\x00\x00", FormatBMP},
		{"II*\x00", FormatTIFF},
		{"MM\x00*", FormatTIFF},
		{"RIFF\x00\x00\x00\x00WEBP", FormatWebP},
		{"RIFF\x00\x00\x00\x00WAVE", FormatTGA},
		{"", FormatTGA},
	}
	for _, tt := range tests {
		if got := Sniff([]byte(tt.header)); got != tt.want {
			t.Errorf("Sniff(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"test.png":        FormatPNG,
		"out/frame.BMP":   FormatBMP,
		"a.tif":           FormatTIFF,
		"a.tiff":          FormatTIFF,
		"sprite.webp":     FormatWebP,
		"texture.tga":     FormatTGA,
		"noext":           FormatUnknown,
		"archive.tar.gz":  FormatUnknown,
		"dir.png/picture": FormatUnknown,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	want := testPattern()

	for _, name := range []string{"out.png", "out.webp"} {
		path := filepath.Join(dir, name)
		if err := Save(path, want); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		assertSamePixels(t, got, want)
	}

	if err := Save(filepath.Join(dir, "out.xyz"), want); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("unknown extension: got %v, want ErrUnsupportedFormat", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestUpscale(t *testing.T) {
	src := pixpipe.WithDimensions(2, 1)
	src.Set(0, 0, pixpipe.Red)
	src.Set(1, 0, pixpipe.Green)

	got, err := Upscale(src, 3)
	if err != nil {
		t.Fatalf("Upscale: %v", err)
	}
	if got.Width() != 6 || got.Height() != 3 {
		t.Fatalf("size = %dx%d, want 6x3", got.Width(), got.Height())
	}
	for y := uint32(0); y < 3; y++ {
		for x := uint32(0); x < 6; x++ {
			want := pixpipe.Red
			if x >= 3 {
				want = pixpipe.Green
			}
			if c := got.Get(x, y); c != want {
				t.Errorf("pixel (%d, %d) = %v, want %v", x, y, c, want)
			}
		}
	}

	same, err := Upscale(src, 1)
	if err != nil {
		t.Fatalf("Upscale(1): %v", err)
	}
	assertSamePixels(t, same, src)
	same.Set(0, 0, pixpipe.Blue)
	if src.Get(0, 0) != pixpipe.Red {
		t.Error("Upscale(1) aliases the source buffer")
	}

	if _, err := Upscale(src, 0); !errors.Is(err, ErrInvalidScale) {
		t.Errorf("factor 0: got %v, want ErrInvalidScale", err)
	}
	big := pixpipe.WithDimensions(320, 200)
	for _, factor := range []uint32{1 << 31, 1 << 25, math.MaxUint32} {
		if out, err := Upscale(big, factor); !errors.Is(err, ErrInvalidScale) || out != nil {
			t.Errorf("factor %d: got %v, %v; want nil, ErrInvalidScale", factor, out, err)
		}
	}
	if _, err := Upscale(nil, 2); !errors.Is(err, ErrNilPixBuf) {
		t.Errorf("nil: got %v, want ErrNilPixBuf", err)
	}
}
