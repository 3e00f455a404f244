// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"
	"strings"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/pixpipe"
	"github.com/gogpu/wgpu/hal"
)

// defaultWaitTimeout bounds how long a submission may take to complete.
const defaultWaitTimeout = 5 * time.Second

// Display is the device-side facade a Pipeline draws through: a HAL device,
// its queue and the color format of the surfaces it renders into.
//
// A Display built with NewDisplay or DisplayFromProvider borrows the
// device; one built with OpenDisplay owns it and must be closed.
type Display struct {
	device hal.Device
	queue  hal.Queue

	format      gputypes.TextureFormat
	waitTimeout time.Duration

	// Set only when OpenDisplay created the device.
	instance    hal.Instance
	owned       bool
	adapterName string
}

// DisplayOption configures a Display.
type DisplayOption func(*displayOptions)

type displayOptions struct {
	format      gputypes.TextureFormat
	waitTimeout time.Duration
}

func defaultDisplayOptions() displayOptions {
	return displayOptions{
		format:      gputypes.TextureFormatBGRA8Unorm,
		waitTimeout: defaultWaitTimeout,
	}
}

// WithSurfaceFormat sets the color format of the surfaces the display
// renders into. The default is BGRA8Unorm, the common swapchain format.
func WithSurfaceFormat(format gputypes.TextureFormat) DisplayOption {
	return func(o *displayOptions) {
		o.format = format
	}
}

// WithWaitTimeout sets how long Frame.Finish and Offscreen.ReadPixels wait
// for submitted work to complete.
func WithWaitTimeout(d time.Duration) DisplayOption {
	return func(o *displayOptions) {
		if d > 0 {
			o.waitTimeout = d
		}
	}
}

// NewDisplay wraps an existing device and queue. The caller keeps
// ownership of both.
func NewDisplay(device hal.Device, queue hal.Queue, opts ...DisplayOption) (*Display, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	o := defaultDisplayOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Display{
		device:      device,
		queue:       queue,
		format:      o.format,
		waitTimeout: o.waitTimeout,
	}, nil
}

// DisplayFromProvider builds a Display on a host's shared GPU device
// (e.g. a gogpu window). Either the provider's Device() exposes
// HalDevice() and HalQueue() the way *wgpu.Device does, or the provider
// itself implements HalDevice() any and HalQueue() any.
//
// The provider's surface format is used unless WithSurfaceFormat is given.
func DisplayFromProvider(provider gpucontext.DeviceProvider, opts ...DisplayOption) (*Display, error) {
	if provider == nil {
		return nil, ErrNilDevice
	}
	device, queue, err := providerHAL(provider)
	if err != nil {
		return nil, err
	}

	if format := provider.SurfaceFormat(); format != gputypes.TextureFormatUndefined {
		opts = append([]DisplayOption{WithSurfaceFormat(format)}, opts...)
	}
	d, err := NewDisplay(device, queue, opts...)
	if err != nil {
		return nil, err
	}
	d.adapterName = provider.AdapterInfo().Name
	return d, nil
}

// providerHAL extracts the HAL device and queue behind a provider.
func providerHAL(provider gpucontext.DeviceProvider) (hal.Device, hal.Queue, error) {
	type wgpuDevice interface {
		HalDevice() hal.Device
		HalQueue() hal.Queue
	}
	if wd, ok := provider.Device().(wgpuDevice); ok {
		device, queue := wd.HalDevice(), wd.HalQueue()
		if device == nil || queue == nil {
			return nil, nil, fmt.Errorf("%w: device has been released", ErrProviderNotHAL)
		}
		return device, queue, nil
	}

	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, ErrProviderNotHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrProviderNotHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrProviderNotHAL)
	}
	return device, queue, nil
}

// ParseBackend maps a backend name (vulkan, metal, dx12, gl or software) to
// its HAL identifier. The software renderer registers as BackendEmpty.
func ParseBackend(name string) (gputypes.Backend, error) {
	switch strings.ToLower(name) {
	case "vulkan", "vk":
		return gputypes.BackendVulkan, nil
	case "metal":
		return gputypes.BackendMetal, nil
	case "dx12", "d3d12":
		return gputypes.BackendDX12, nil
	case "gl", "gles", "opengl":
		return gputypes.BackendGL, nil
	case "software", "cpu":
		return gputypes.BackendEmpty, nil
	default:
		return gputypes.BackendEmpty, fmt.Errorf("%w: unknown backend %q", ErrBackendUnavailable, name)
	}
}

// OpenDisplay creates an instance and device on the given HAL backend,
// preferring discrete or integrated GPUs. The backend package must be
// imported for its side effects, e.g.:
//
//	import _ "github.com/gogpu/wgpu/hal/vulkan"
//
// The returned Display owns the device; call Close when done.
func OpenDisplay(backendType gputypes.Backend, opts ...DisplayOption) (*Display, error) {
	backend, ok := hal.GetBackend(backendType)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, backendType)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}

	d, err := NewDisplay(openDev.Device, openDev.Queue, opts...)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	d.instance = instance
	d.owned = true
	d.adapterName = selected.Info.Name

	pixpipe.Logger().Info("gpu: display opened", "adapter", d.adapterName, "backend", backendType)
	return d, nil
}

// Device returns the HAL device.
func (d *Display) Device() hal.Device {
	return d.device
}

// Queue returns the HAL queue.
func (d *Display) Queue() hal.Queue {
	return d.queue
}

// Format returns the surface color format.
func (d *Display) Format() gputypes.TextureFormat {
	return d.format
}

// AdapterName returns the adapter name, or "" for displays built with
// NewDisplay.
func (d *Display) AdapterName() string {
	return d.adapterName
}

// WaitTimeout returns how long submissions are waited for.
func (d *Display) WaitTimeout() time.Duration {
	return d.waitTimeout
}

// submitAndWait submits cmdBuf and polls the queue until the submission
// completes or the wait timeout elapses.
func (d *Display) submitAndWait(cmdBuf hal.CommandBuffer) error {
	index, err := d.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	deadline := time.Now().Add(d.waitTimeout)
	for d.queue.PollCompleted() < index {
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: submission %d after %v", ErrWaitTimeout, index, d.waitTimeout)
		}
		time.Sleep(time.Millisecond)
	}
	return nil
}

// Close destroys the device and instance if the Display owns them.
// Borrowed devices are left alone. Close is idempotent.
func (d *Display) Close() {
	if d.owned {
		if d.device != nil {
			d.device.Destroy()
		}
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device = nil
	d.queue = nil
	d.instance = nil
	d.owned = false
}
