// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Frame is one render pass over a target view. It is the per-repaint
// counterpart of Display: begin it, draw into it, then Finish it.
//
//	frame, err := display.BeginFrame(view, gputypes.Color{A: 1})
//	if err != nil { ... }
//	if err := pipeline.Draw(display, frame, pb); err != nil {
//	    frame.Discard()
//	    return err
//	}
//	return frame.Finish()
//
// Resources created by draws live until the frame is finished or discarded.
type Frame struct {
	display *Display
	encoder hal.CommandEncoder
	pass    hal.RenderPassEncoder

	resources []*drawResources
	draws     int
	done      bool
}

// BeginFrame starts a frame on view, clearing it to clear.
func (d *Display) BeginFrame(view hal.TextureView, clear gputypes.Color) (*Frame, error) {
	if d == nil || d.device == nil {
		return nil, ErrNilDisplay
	}
	if view == nil {
		return nil, ErrNilView
	}

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "pixpipe_frame_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("pixpipe_frame"); err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("gpu: begin encoding: %w", err)
	}

	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "pixpipe_frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clear,
		}},
	})

	return &Frame{
		display: d,
		encoder: encoder,
		pass:    pass,
	}, nil
}

// Draws returns the number of draws recorded so far.
func (f *Frame) Draws() int {
	return f.draws
}

// Finish ends the pass, submits it and waits for the GPU, then releases
// the per-draw resources. A finished frame cannot be reused.
func (f *Frame) Finish() error {
	if f.done {
		return ErrFrameFinished
	}
	f.done = true
	defer f.release()

	d := f.display
	f.pass.End()

	cmdBuf, err := f.encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	return d.submitAndWait(cmdBuf)
}

// Discard abandons the frame without submitting it. Calling Discard on a
// finished frame is a no-op.
func (f *Frame) Discard() {
	if f.done {
		return
	}
	f.done = true
	f.pass.End()
	f.encoder.DiscardEncoding()
	f.release()
}

func (f *Frame) track(r *drawResources) {
	f.resources = append(f.resources, r)
	f.draws++
}

func (f *Frame) release() {
	for _, r := range f.resources {
		r.destroy(f.display.device)
	}
	f.resources = nil
}
