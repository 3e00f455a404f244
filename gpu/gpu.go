// Package gpu blits pixpipe pixel buffers to the screen with wgpu/hal.
//
// A Pipeline owns the static GPU objects: a unit quad, the blit shader, a
// nearest-filtering sampler and the render pipeline. Every Draw uploads the
// PixBuf as a new RGBA8 texture and renders the quad scaled so one buffer
// pixel covers one viewport pixel.
//
// The host supplies the device through a Display and a target view per
// frame:
//
//	display, err := gpu.DisplayFromProvider(app.GPUContextProvider())
//	p, err := gpu.New(display)
//	p.Resize(width, height)
//
//	frame, err := display.BeginFrame(view, gputypes.Color{A: 1})
//	if err := p.Draw(display, frame, pb); err != nil {
//	    frame.Discard()
//	    return err
//	}
//	err = frame.Finish()
//
// Headless callers render into an Offscreen target and read it back with
// ReadPixels.
//
// Shader tiers are tried in order: WGSL first, then SPIR-V compiled with
// naga. The chosen tier is reported by Pipeline.ShaderTier.
package gpu
