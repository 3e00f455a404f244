// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"fmt"
)

// Package errors.
var (
	// ErrVertexBuffer is the kind sentinel for quad vertex buffer failures.
	ErrVertexBuffer = errors.New("gpu: vertex buffer creation failed")

	// ErrIndexBuffer is the kind sentinel for quad index buffer failures.
	ErrIndexBuffer = errors.New("gpu: index buffer creation failed")

	// ErrShaderProgram is the kind sentinel for shader, layout and render
	// pipeline failures.
	ErrShaderProgram = errors.New("gpu: shader program creation failed")

	// ErrTexture is the kind sentinel for texture, sampler and upload failures.
	ErrTexture = errors.New("gpu: texture creation failed")

	// ErrDraw is the kind sentinel for draw recording failures.
	ErrDraw = errors.New("gpu: draw failed")

	// ErrPipelineDestroyed is returned by Draw after Destroy.
	ErrPipelineDestroyed = errors.New("gpu: pipeline destroyed")

	// ErrNilDisplay is returned when a nil Display is passed.
	ErrNilDisplay = errors.New("gpu: nil display")

	// ErrNilDevice is returned when a Display is built without a device or queue.
	ErrNilDevice = errors.New("gpu: nil device or queue")

	// ErrDisplayMismatch is returned when Draw is given a display or frame
	// on a different device than the one the Pipeline was created on.
	ErrDisplayMismatch = errors.New("gpu: display does not match pipeline device")

	// ErrNilView is returned when a frame is begun without a target view.
	ErrNilView = errors.New("gpu: nil target view")

	// ErrInvalidDimensions is returned when an offscreen target has a zero dimension.
	ErrInvalidDimensions = errors.New("gpu: invalid dimensions")

	// ErrNilFrame is returned when Draw is given a nil Frame.
	ErrNilFrame = errors.New("gpu: nil frame")

	// ErrNilPixBuf is returned when Draw is given a nil PixBuf.
	ErrNilPixBuf = errors.New("gpu: nil pixel buffer")

	// ErrEmptyPixBuf is returned when Draw is given a buffer with a zero dimension.
	ErrEmptyPixBuf = errors.New("gpu: empty pixel buffer")

	// ErrFrameFinished is returned when a finished or discarded Frame is reused.
	ErrFrameFinished = errors.New("gpu: frame already finished")

	// ErrWaitTimeout is returned when submitted work does not complete in time.
	ErrWaitTimeout = errors.New("gpu: timed out waiting for GPU")

	// ErrNoShaderVariant is returned when no shader tier is accepted by the device.
	ErrNoShaderVariant = errors.New("gpu: no supported shader variant")

	// ErrBackendUnavailable is returned when the requested HAL backend is not registered.
	ErrBackendUnavailable = errors.New("gpu: backend not available")

	// ErrNoAdapter is returned when the backend reports no adapters.
	ErrNoAdapter = errors.New("gpu: no GPU adapters found")

	// ErrProviderNotHAL is returned when a device provider does not expose HAL types.
	ErrProviderNotHAL = errors.New("gpu: provider does not expose HAL device and queue")
)

// ErrorKind classifies a PipelineError.
type ErrorKind int

// Error kinds. Construction may fail with VertexBuffer, IndexBuffer,
// ShaderProgram or Texture; Draw may fail with Texture or Draw.
const (
	KindVertexBuffer ErrorKind = iota
	KindIndexBuffer
	KindShaderProgram
	KindTexture
	KindDraw
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindVertexBuffer:
		return "vertex buffer"
	case KindIndexBuffer:
		return "index buffer"
	case KindShaderProgram:
		return "shader program"
	case KindTexture:
		return "texture"
	case KindDraw:
		return "draw"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindVertexBuffer:
		return ErrVertexBuffer
	case KindIndexBuffer:
		return ErrIndexBuffer
	case KindShaderProgram:
		return ErrShaderProgram
	case KindTexture:
		return ErrTexture
	case KindDraw:
		return ErrDraw
	default:
		return nil
	}
}

// PipelineError is a tagged error from Pipeline construction or drawing.
// It wraps the GPU layer's diagnostic unchanged.
//
//	var pe *gpu.PipelineError
//	if errors.As(err, &pe) && pe.Kind == gpu.KindShaderProgram { ... }
//
// errors.Is also matches the kind's sentinel (e.g. ErrShaderProgram).
type PipelineError struct {
	Kind ErrorKind
	Err  error
}

func newPipelineError(kind ErrorKind, err error) *PipelineError {
	return &PipelineError{Kind: kind, Err: err}
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Err == nil {
		return "gpu: " + e.Kind.String()
	}
	return fmt.Sprintf("gpu: %s: %v", e.Kind, e.Err)
}

// Unwrap returns the wrapped GPU layer error.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *PipelineError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}
