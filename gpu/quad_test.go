// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestQuadVertexBytes(t *testing.T) {
	b := quadVertexBytes()
	if len(b) != 4*quadVertexStride {
		t.Fatalf("len = %d, want %d", len(b), 4*quadVertexStride)
	}
	want := []float32{
		-1, -1, 0, 1,
		-1, 1, 0, 0,
		1, 1, 1, 0,
		1, -1, 1, 1,
	}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		if got != w {
			t.Errorf("float %d = %v, want %v", i, got, w)
		}
	}
}

func TestQuadIndexBytes(t *testing.T) {
	b := quadIndexBytes()
	want := []uint16{1, 2, 0, 3}
	if len(b) != len(want)*2 {
		t.Fatalf("len = %d, want %d", len(b), len(want)*2)
	}
	for i, w := range want {
		if got := binary.LittleEndian.Uint16(b[i*2:]); got != w {
			t.Errorf("index %d = %d, want %d", i, got, w)
		}
	}
}

func TestQuadVertexLayout(t *testing.T) {
	layouts := quadVertexLayout()
	if len(layouts) != 1 {
		t.Fatalf("got %d layouts, want 1", len(layouts))
	}
	l := layouts[0]
	if l.ArrayStride != quadVertexStride {
		t.Errorf("ArrayStride = %d, want %d", l.ArrayStride, quadVertexStride)
	}
	if len(l.Attributes) != 2 {
		t.Fatalf("got %d attributes, want 2", len(l.Attributes))
	}
	for i, a := range l.Attributes {
		if a.ShaderLocation != uint32(i) || a.Offset != uint64(i*8) {
			t.Errorf("attribute %d: location %d offset %d", i, a.ShaderLocation, a.Offset)
		}
	}
}
