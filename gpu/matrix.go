// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"encoding/binary"
	"math"
)

// Matrix4 is a column-major 4x4 matrix as laid out in a WGSL mat4x4<f32>.
type Matrix4 [16]float32

// matrixUniformSize is the byte size of the matrix uniform.
const matrixUniformSize = 64

// ScaleMatrix returns diag(bufW/viewW, bufH/viewH, 1, 1): the quad is
// shrunk so one buffer pixel covers one viewport pixel.
//
// A zero viewport dimension is treated as 1.
func ScaleMatrix(bufW, bufH uint32, viewW, viewH float32) Matrix4 {
	if viewW <= 0 {
		viewW = 1
	}
	if viewH <= 0 {
		viewH = 1
	}
	return Diagonal(float32(bufW)/viewW, float32(bufH)/viewH, 1, 1)
}

// Diagonal returns a matrix with the given diagonal and zeros elsewhere.
func Diagonal(x, y, z, w float32) Matrix4 {
	var m Matrix4
	m[0] = x
	m[5] = y
	m[10] = z
	m[15] = w
	return m
}

// At returns the element in the given row and column.
func (m Matrix4) At(row, col int) float32 {
	return m[col*4+row]
}

// Bytes encodes the matrix as 64 little-endian bytes for a uniform buffer.
func (m Matrix4) Bytes() []byte {
	buf := make([]byte, matrixUniformSize)
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// scaleAdjust is the legacy "scaled" variant of the draw transform: an
// overall scale on x, y and z plus an extra vertical aspect factor.
type scaleAdjust struct {
	scale  float32
	aspect float32
}

// apply multiplies the diagonal of m by the adjustment.
func (a *scaleAdjust) apply(m Matrix4) Matrix4 {
	if a == nil {
		return m
	}
	m[0] *= a.scale
	m[5] *= a.scale * a.aspect
	m[10] *= a.scale
	return m
}
