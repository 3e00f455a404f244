// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/pixpipe"
	"github.com/gogpu/wgpu/hal"
)

// Pipeline blits a PixBuf to a surface: every Draw uploads the buffer as a
// fresh texture and renders it on a fixed quad scaled to the viewport.
//
// The quad buffers, shader, sampler and render pipeline are created once in
// New and reused for every frame. Pipeline is NOT safe for concurrent use.
type Pipeline struct {
	device hal.Device
	queue  hal.Queue
	label  string

	vertexBuf hal.Buffer
	indexBuf  hal.Buffer

	shader     hal.ShaderModule
	shaderTier string
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler

	viewportWidth  float32
	viewportHeight float32

	adjust    *scaleAdjust
	destroyed bool
}

// New creates the static GPU objects for display. On failure nothing is
// leaked and the returned error is a *PipelineError.
func New(display *Display, opts ...Option) (*Pipeline, error) {
	if display == nil || display.device == nil {
		return nil, ErrNilDisplay
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pipeline{
		device:         display.device,
		queue:          display.queue,
		label:          o.label,
		viewportWidth:  1,
		viewportHeight: 1,
		adjust:         o.adjust,
	}

	if err := p.createVertexBuffer(); err != nil {
		p.Destroy()
		return nil, err
	}
	if err := p.createIndexBuffer(); err != nil {
		p.Destroy()
		return nil, err
	}
	if err := p.createProgram(display.format, o.variants); err != nil {
		p.Destroy()
		return nil, err
	}
	if err := p.createSampler(); err != nil {
		p.Destroy()
		return nil, err
	}

	pixpipe.Logger().Info("gpu: pipeline created",
		"label", p.label, "shader", p.shaderTier, "format", display.format)
	return p, nil
}

// ShaderTier returns the name of the shader variant the device accepted.
func (p *Pipeline) ShaderTier() string {
	return p.shaderTier
}

// Viewport returns the viewport size used for the next draw.
func (p *Pipeline) Viewport() (width, height float32) {
	return p.viewportWidth, p.viewportHeight
}

// Resize sets the viewport size used by subsequent draws. It makes no GPU
// calls.
func (p *Pipeline) Resize(width, height uint32) {
	p.viewportWidth = float32(width)
	p.viewportHeight = float32(height)
}

// Transform returns the matrix a draw of a width x height buffer would use.
func (p *Pipeline) Transform(width, height uint32) Matrix4 {
	return p.adjust.apply(ScaleMatrix(width, height, p.viewportWidth, p.viewportHeight))
}

// Draw uploads pb as a new texture and records one draw of the quad into
// frame. The texture is re-created and re-uploaded on every call.
//
// Errors are *PipelineError values of kind Texture or Draw, or one of the
// argument sentinels. display and frame must be on the device the Pipeline
// was created with. After an error the frame should be discarded; the
// Pipeline itself stays usable.
func (p *Pipeline) Draw(display *Display, frame *Frame, pb *pixpipe.PixBuf) error {
	switch {
	case p.destroyed:
		return ErrPipelineDestroyed
	case display == nil || display.device == nil:
		return ErrNilDisplay
	case frame == nil:
		return ErrNilFrame
	case display.device != p.device || frame.display.device != p.device:
		return ErrDisplayMismatch
	case frame.done:
		return ErrFrameFinished
	case pb == nil:
		return ErrNilPixBuf
	case pb.Width() == 0 || pb.Height() == 0:
		return ErrEmptyPixBuf
	}

	res := &drawResources{}
	if err := p.uploadTexture(display, res, pb); err != nil {
		res.destroy(display.device)
		return newPipelineError(KindTexture, err)
	}

	matrix := p.Transform(pb.Width(), pb.Height())
	if err := p.bindResources(display, res, matrix); err != nil {
		res.destroy(display.device)
		return newPipelineError(KindDraw, err)
	}

	frame.track(res)
	rp := frame.pass
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, res.bindGroup, nil)
	rp.SetVertexBuffer(0, p.vertexBuf, 0)
	rp.SetIndexBuffer(p.indexBuf, gputypes.IndexFormatUint16, 0)
	rp.DrawIndexed(uint32(len(quadIndices)), 1, 0, 0, 0)

	pixpipe.Logger().Debug("gpu: draw",
		"width", pb.Width(), "height", pb.Height(),
		"scale_x", matrix.At(0, 0), "scale_y", matrix.At(1, 1))
	return nil
}

// Destroy releases all GPU objects in reverse creation order. It is safe
// to call more than once.
func (p *Pipeline) Destroy() {
	p.destroyed = true
	if p.device == nil {
		return
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
	if p.indexBuf != nil {
		p.device.DestroyBuffer(p.indexBuf)
		p.indexBuf = nil
	}
	if p.vertexBuf != nil {
		p.device.DestroyBuffer(p.vertexBuf)
		p.vertexBuf = nil
	}
}

func (p *Pipeline) createVertexBuffer() error {
	data := quadVertexBytes()
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: p.label + "_vertices",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return newPipelineError(KindVertexBuffer, err)
	}
	p.vertexBuf = buf
	if err := p.queue.WriteBuffer(buf, 0, data); err != nil {
		return newPipelineError(KindVertexBuffer, fmt.Errorf("upload vertices: %w", err))
	}
	return nil
}

func (p *Pipeline) createIndexBuffer() error {
	data := quadIndexBytes()
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: p.label + "_indices",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return newPipelineError(KindIndexBuffer, err)
	}
	p.indexBuf = buf
	if err := p.queue.WriteBuffer(buf, 0, data); err != nil {
		return newPipelineError(KindIndexBuffer, fmt.Errorf("upload indices: %w", err))
	}
	return nil
}

// createProgram selects a shader tier and builds the layouts and render
// pipeline around it.
//
// Bind group layout:
//
//	Binding 0: matrix (uniform buffer, vertex)
//	Binding 1: pixel buffer texture (texture_2d, fragment)
//	Binding 2: sampler (fragment)
func (p *Pipeline) createProgram(format gputypes.TextureFormat, variants []ShaderVariant) error {
	shader, tier, err := selectShader(p.device, p.label+"_shader", variants)
	if err != nil {
		return newPipelineError(KindShaderProgram, err)
	}
	p.shader = shader
	p.shaderTier = tier

	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: p.label + "_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return newPipelineError(KindShaderProgram, fmt.Errorf("create bind group layout: %w", err))
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            p.label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return newPipelineError(KindShaderProgram, fmt.Errorf("create pipeline layout: %w", err))
	}
	p.pipeLayout = pipeLayout

	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  p.label + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: vertexEntryPoint,
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: fragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleStrip,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return newPipelineError(KindShaderProgram, fmt.Errorf("create render pipeline: %w", err))
	}
	p.pipeline = pipeline
	return nil
}

// createSampler creates the pixel-exact sampler: nearest filtering and
// mirrored addressing on every axis.
func (p *Pipeline) createSampler() error {
	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        p.label + "_sampler",
		AddressModeU: gputypes.AddressModeMirrorRepeat,
		AddressModeV: gputypes.AddressModeMirrorRepeat,
		AddressModeW: gputypes.AddressModeMirrorRepeat,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return newPipelineError(KindTexture, fmt.Errorf("create sampler: %w", err))
	}
	p.sampler = sampler
	return nil
}

// uploadTexture creates an RGBA8 texture the size of pb and copies the
// buffer into it.
func (p *Pipeline) uploadTexture(display *Display, res *drawResources, pb *pixpipe.PixBuf) error {
	w, h := pb.Width(), pb.Height()
	tex, err := display.device.CreateTexture(&hal.TextureDescriptor{
		Label:         p.label + "_pixbuf",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create %dx%d texture: %w", w, h, err)
	}
	res.texture = tex

	view, err := display.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         p.label + "_pixbuf_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return fmt.Errorf("create texture view: %w", err)
	}
	res.view = view

	err = display.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
		},
		pb.AsRawBytes(),
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w * 4,
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("upload pixels: %w", err)
	}
	return nil
}

// bindResources uploads the matrix uniform and creates the bind group.
func (p *Pipeline) bindResources(display *Display, res *drawResources, matrix Matrix4) error {
	uniform := matrix.Bytes()
	buf, err := display.device.CreateBuffer(&hal.BufferDescriptor{
		Label: p.label + "_matrix",
		Size:  uint64(len(uniform)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	res.uniformBuf = buf
	if err := display.queue.WriteBuffer(buf, 0, uniform); err != nil {
		return fmt.Errorf("upload matrix: %w", err)
	}

	bindGroup, err := display.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  p.label + "_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: matrixUniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: res.view.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: p.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	res.bindGroup = bindGroup
	return nil
}

// drawResources holds the per-draw GPU objects, owned by a Frame.
type drawResources struct {
	texture    hal.Texture
	view       hal.TextureView
	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup
}

func (r *drawResources) destroy(device hal.Device) {
	if device == nil {
		return
	}
	if r.bindGroup != nil {
		device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	if r.uniformBuf != nil {
		device.DestroyBuffer(r.uniformBuf)
		r.uniformBuf = nil
	}
	if r.view != nil {
		device.DestroyTextureView(r.view)
		r.view = nil
	}
	if r.texture != nil {
		device.DestroyTexture(r.texture)
		r.texture = nil
	}
}
