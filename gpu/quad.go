// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// quadVertexStride is the byte stride per vertex.
// Layout per vertex:
//
//	position   (vec2<f32>) = 8 bytes (location 0)
//	tex_coords (vec2<f32>) = 8 bytes (location 1)
const quadVertexStride = 16

// quadVertex is one corner of the full-screen quad.
type quadVertex struct {
	X, Y float32 // clip space
	U, V float32 // texture space, V grows downwards
}

// quadVertices is a unit square covering clip space. Texture row 0 maps to
// the top edge.
var quadVertices = [4]quadVertex{
	{-1, -1, 0, 1},
	{-1, 1, 0, 0},
	{1, 1, 1, 0},
	{1, -1, 1, 1},
}

// quadIndices draws quadVertices as a two-triangle strip.
var quadIndices = [4]uint16{1, 2, 0, 3}

// quadVertexBytes encodes quadVertices in little-endian float32.
func quadVertexBytes() []byte {
	buf := make([]byte, len(quadVertices)*quadVertexStride)
	for i, v := range quadVertices {
		off := i * quadVertexStride
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v.X))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(v.Y))
		binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(v.U))
		binary.LittleEndian.PutUint32(buf[off+12:], math.Float32bits(v.V))
	}
	return buf
}

// quadIndexBytes encodes quadIndices as little-endian uint16.
func quadIndexBytes() []byte {
	buf := make([]byte, len(quadIndices)*2)
	for i, idx := range quadIndices {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}

// quadVertexLayout returns the vertex buffer layout for the blit pipeline.
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // tex_coords
			},
		},
	}
}
