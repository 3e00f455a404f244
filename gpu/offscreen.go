// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/pixpipe"
	"github.com/gogpu/wgpu/hal"
)

// copyRowAlignment is the required BytesPerRow alignment for
// texture-to-buffer copies.
const copyRowAlignment = 256

// Offscreen is a render target texture that can be read back to the CPU.
// It stands in for a window surface in headless tools and tests.
type Offscreen struct {
	display *Display
	width   uint32
	height  uint32

	texture hal.Texture
	view    hal.TextureView
}

// NewOffscreen creates a width x height render target in the display's
// surface format.
func NewOffscreen(display *Display, width, height uint32) (*Offscreen, error) {
	if display == nil || display.device == nil {
		return nil, ErrNilDisplay
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	tex, err := display.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "pixpipe_offscreen",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        display.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create offscreen texture: %w", err)
	}
	view, err := display.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "pixpipe_offscreen_view",
		Format:        display.format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		display.device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: create offscreen view: %w", err)
	}

	return &Offscreen{
		display: display,
		width:   width,
		height:  height,
		texture: tex,
		view:    view,
	}, nil
}

// View returns the view to pass to Display.BeginFrame.
func (o *Offscreen) View() hal.TextureView { return o.view }

// Width returns the target width in pixels.
func (o *Offscreen) Width() uint32 { return o.width }

// Height returns the target height in pixels.
func (o *Offscreen) Height() uint32 { return o.height }

// ReadPixels copies the target back to the CPU. BGRA targets are swizzled
// so the result is always RGBA.
func (o *Offscreen) ReadPixels() (*pixpipe.PixBuf, error) {
	if o.texture == nil {
		return nil, fmt.Errorf("gpu: read pixels: offscreen destroyed")
	}
	d := o.display
	w, h := o.width, o.height
	tightRow := w * 4
	paddedRow := (tightRow + copyRowAlignment - 1) / copyRowAlignment * copyRowAlignment
	size := uint64(paddedRow) * uint64(h)

	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "pixpipe_readback",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "pixpipe_readback_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("pixpipe_readback"); err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("gpu: begin encoding: %w", err)
	}

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: o.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(o.texture, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  paddedRow,
			RowsPerImage: h,
		},
		TextureBase: hal.ImageCopyTexture{Texture: o.texture, MipLevel: 0},
		Size:        hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	if err := d.submitAndWait(cmdBuf); err != nil {
		return nil, err
	}

	mapping, err := d.device.MapBuffer(staging, 0, size)
	if err != nil {
		return nil, fmt.Errorf("gpu: map staging buffer: %w", err)
	}
	raw := unsafe.Slice((*byte)(mapping.Ptr), size)

	pb := pixpipe.WithDimensions(w, h)
	dst := pb.AsRawBytes()
	for y := uint32(0); y < h; y++ {
		copy(dst[y*tightRow:(y+1)*tightRow], raw[y*paddedRow:y*paddedRow+tightRow])
	}
	if err := d.device.UnmapBuffer(staging); err != nil {
		return nil, fmt.Errorf("gpu: unmap staging buffer: %w", err)
	}

	if d.format == gputypes.TextureFormatBGRA8Unorm || d.format == gputypes.TextureFormatBGRA8UnormSrgb {
		swizzleBGRA(dst)
	}
	return pb, nil
}

// Destroy releases the target. It is safe to call more than once.
func (o *Offscreen) Destroy() {
	if o.display == nil || o.display.device == nil {
		return
	}
	if o.view != nil {
		o.display.device.DestroyTextureView(o.view)
		o.view = nil
	}
	if o.texture != nil {
		o.display.device.DestroyTexture(o.texture)
		o.texture = nil
	}
}

// swizzleBGRA swaps the R and B channels of packed 4-byte pixels in place.
func swizzleBGRA(data []byte) {
	for i := 0; i+3 < len(data); i += 4 {
		data[i], data[i+2] = data[i+2], data[i]
	}
}
