// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/pixpipe"
)

func TestNewOffscreenInvalid(t *testing.T) {
	d, cleanup := createNoopDisplay(t)
	defer cleanup()

	if _, err := NewOffscreen(nil, 4, 4); !errors.Is(err, ErrNilDisplay) {
		t.Errorf("nil display: got %v, want ErrNilDisplay", err)
	}
	for _, size := range [][2]uint32{{0, 4}, {4, 0}, {0, 0}} {
		if _, err := NewOffscreen(d, size[0], size[1]); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("%dx%d: got %v, want ErrInvalidDimensions", size[0], size[1], err)
		}
	}
}

func TestOffscreenReadPixels(t *testing.T) {
	d, cleanup := createNoopDisplay(t)
	defer cleanup()

	// 3 pixels wide so rows need padding to the copy alignment.
	target, err := NewOffscreen(d, 3, 2)
	if err != nil {
		t.Fatalf("NewOffscreen: %v", err)
	}
	defer target.Destroy()

	if target.Width() != 3 || target.Height() != 2 || target.View() == nil {
		t.Fatalf("unexpected target %dx%d view=%v", target.Width(), target.Height(), target.View())
	}

	pb, err := target.ReadPixels()
	if err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	if pb.Width() != 3 || pb.Height() != 2 {
		t.Errorf("ReadPixels size = %dx%d, want 3x2", pb.Width(), pb.Height())
	}
	// The noop backend never writes the staging buffer.
	if got := pb.Get(2, 1); got != (pixpipe.Color{}) {
		t.Errorf("Get(2, 1) = %v, want zero", got)
	}
}

func TestOffscreenDestroy(t *testing.T) {
	d, cleanup := createNoopDisplay(t)
	defer cleanup()

	target, err := NewOffscreen(d, 2, 2)
	if err != nil {
		t.Fatalf("NewOffscreen: %v", err)
	}
	target.Destroy()
	target.Destroy()
	if _, err := target.ReadPixels(); err == nil {
		t.Error("ReadPixels after Destroy succeeded")
	}
}

func TestSwizzleBGRA(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	swizzleBGRA(data)
	want := []byte{3, 2, 1, 4, 7, 6, 5, 8}
	for i := range want {
		if data[i] != want[i] {
			t.Fatalf("swizzleBGRA = %v, want %v", data, want)
		}
	}
}
