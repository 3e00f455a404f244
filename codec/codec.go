// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package codec saves and loads pixpipe pixel buffers as image files.
//
// PNG, BMP, TIFF and lossless WebP can be written. All of those plus TGA
// can be read; the format is detected from the file content.
package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/gogpu/pixpipe"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// Format is an image file format.
type Format int

// Supported formats.
const (
	FormatUnknown Format = iota
	FormatPNG
	FormatBMP
	FormatTIFF
	FormatWebP
	FormatTGA
)

var (
	// ErrUnsupportedFormat is returned for formats that cannot be written
	// or file extensions that are not recognised.
	ErrUnsupportedFormat = errors.New("codec: unsupported format")

	// ErrNilPixBuf is returned when a nil buffer is encoded.
	ErrNilPixBuf = errors.New("codec: nil pixel buffer")

	// ErrInvalidScale is returned by Upscale for a zero factor.
	ErrInvalidScale = errors.New("codec: scale factor must be at least 1")
)

// String returns the lower-case format name.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	case FormatWebP:
		return "webp"
	case FormatTGA:
		return "tga"
	default:
		return "unknown"
	}
}

// ParseFormat maps a format name or file extension to a Format.
func ParseFormat(name string) Format {
	switch strings.ToLower(name) {
	case "png":
		return FormatPNG
	case "bmp":
		return FormatBMP
	case "tiff", "tif":
		return FormatTIFF
	case "webp":
		return FormatWebP
	case "tga":
		return FormatTGA
	default:
		return FormatUnknown
	}
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) Format {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Encode writes pb to w in the given format. WebP output is lossless.
func Encode(w io.Writer, pb *pixpipe.PixBuf, format Format) error {
	if pb == nil {
		return ErrNilPixBuf
	}
	img := pb.ToImage()

	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case FormatWebP:
		err = nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("%w: cannot encode %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("codec: encode %s: %w", format, err)
	}
	return nil
}

// Sniff detects the format from the leading bytes of an image file. TGA
// has no signature, so anything unrecognised is reported as TGA.
func Sniff(header []byte) Format {
	switch {
	case bytes.HasPrefix(header, []byte("\x89PNG\r\n\x1a\n")):
		return FormatPNG
	case bytes.HasPrefix(header, []byte("BM")):
		return FormatBMP
	case bytes.HasPrefix(header, []byte("II*\x00")), bytes.HasPrefix(header, []byte("MM\x00*")):
		return FormatTIFF
	case len(header) >= 12 && string(header[:4]) == "RIFF" && string(header[8:12]) == "WEBP":
		return FormatWebP
	default:
		return FormatTGA
	}
}

// Decode reads an image in any supported format.
func Decode(r io.Reader) (*pixpipe.PixBuf, Format, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(12)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, FormatUnknown, fmt.Errorf("codec: decode: %w", err)
	}
	format := Sniff(header)

	var img image.Image
	switch format {
	case FormatPNG:
		img, err = png.Decode(br)
	case FormatBMP:
		img, err = bmp.Decode(br)
	case FormatTIFF:
		img, err = tiff.Decode(br)
	case FormatWebP:
		img, err = nativewebp.Decode(br)
	default:
		img, err = tga.Decode(br)
	}
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("codec: decode %s: %w", format, err)
	}
	return pixpipe.FromImage(img), format, nil
}

// Save writes pb to path, choosing the format from the extension.
func Save(path string, pb *pixpipe.PixBuf) error {
	format := FormatFromPath(path)
	if format == FormatUnknown {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, pb, format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	pixpipe.Logger().Debug("codec: saved", "path", path, "format", format,
		"width", pb.Width(), "height", pb.Height())
	return nil
}

// Load reads the image at path.
func Load(path string) (*pixpipe.PixBuf, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pb, format, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	pixpipe.Logger().Debug("codec: loaded", "path", path, "format", format,
		"width", pb.Width(), "height", pb.Height())
	return pb, nil
}

// Upscale returns a copy of pb enlarged by factor with nearest-neighbour
// sampling, so every source pixel becomes a factor x factor block. A factor
// whose result does not fit the pixel grid returns ErrInvalidScale.
func Upscale(pb *pixpipe.PixBuf, factor uint32) (*pixpipe.PixBuf, error) {
	if pb == nil {
		return nil, ErrNilPixBuf
	}
	if factor == 0 {
		return nil, ErrInvalidScale
	}
	if factor == 1 {
		return pixpipe.FromImage(pb), nil
	}

	w := uint64(pb.Width()) * uint64(factor)
	h := uint64(pb.Height()) * uint64(factor)
	if w > math.MaxUint32 || h > math.MaxUint32 || w*h > math.MaxInt/4 {
		return nil, fmt.Errorf("%w: %dx%d by %d overflows", ErrInvalidScale, pb.Width(), pb.Height(), factor)
	}

	src := pb.ToImage()
	dst := image.NewNRGBA(image.Rect(0, 0, int(w), int(h)))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return pixpipe.FromImage(dst), nil
}
