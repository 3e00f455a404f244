// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/wgpu/hal"
)

func TestBlitShaderSource(t *testing.T) {
	for _, want := range []string{
		"@vertex",
		"@fragment",
		vertexEntryPoint,
		fragmentEntryPoint,
		"mat4x4<f32>",
		"texture_2d<f32>",
		"sampler",
		"textureSample",
	} {
		if !strings.Contains(blitShaderSource, want) {
			t.Errorf("blit shader is missing %q", want)
		}
	}
}

func TestCompileSPIRV(t *testing.T) {
	code, err := compileSPIRV(blitShaderSource)
	if err != nil {
		t.Fatalf("compileSPIRV: %v", err)
	}
	if len(code) == 0 {
		t.Fatal("compileSPIRV returned no words")
	}
	const spirvMagic = 0x07230203
	if code[0] != spirvMagic {
		t.Errorf("first word = %#x, want SPIR-V magic %#x", code[0], spirvMagic)
	}
}

func TestCompileSPIRVInvalid(t *testing.T) {
	if _, err := compileSPIRV("fn broken( {"); err == nil {
		t.Error("expected an error for invalid WGSL")
	}
}

func TestShaderVariantSources(t *testing.T) {
	src, err := WGSLVariant().Source()
	if err != nil {
		t.Fatalf("wgsl: %v", err)
	}
	if src.WGSL == "" || src.SPIRV != nil {
		t.Error("wgsl variant should carry only WGSL source")
	}

	src, err = SPIRVVariant().Source()
	if err != nil {
		t.Fatalf("spirv: %v", err)
	}
	if src.WGSL != "" || len(src.SPIRV) == 0 {
		t.Error("spirv variant should carry only SPIR-V code")
	}

	names := []string{}
	for _, v := range DefaultShaderVariants() {
		names = append(names, v.Name)
	}
	if strings.Join(names, ",") != "wgsl,spirv" {
		t.Errorf("default order = %v, want [wgsl spirv]", names)
	}
}

// wgslRejectingDevice accepts only SPIR-V shader modules.
type wgslRejectingDevice struct {
	hal.Device
	attempts []string
}

func (d *wgslRejectingDevice) CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	d.attempts = append(d.attempts, desc.Label)
	if desc.Source.WGSL != "" {
		return nil, errors.New("WGSL front end not available")
	}
	return d.Device.CreateShaderModule(desc)
}

func TestSelectShaderFallback(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	dev := &wgslRejectingDevice{Device: device}
	module, tier, err := selectShader(dev, "test", DefaultShaderVariants())
	if err != nil {
		t.Fatalf("selectShader: %v", err)
	}
	if module == nil {
		t.Fatal("nil module")
	}
	if tier != "spirv" {
		t.Errorf("tier = %q, want spirv", tier)
	}
	if len(dev.attempts) != 2 || dev.attempts[0] != "test_wgsl" || dev.attempts[1] != "test_spirv" {
		t.Errorf("attempts = %v, want [test_wgsl test_spirv]", dev.attempts)
	}
}

func TestSelectShaderNoneAccepted(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	dev := &wgslRejectingDevice{Device: device}
	_, _, err := selectShader(dev, "test", []ShaderVariant{WGSLVariant(), {Name: "empty"}})
	if !errors.Is(err, ErrNoShaderVariant) {
		t.Fatalf("got %v, want ErrNoShaderVariant", err)
	}
	if !strings.Contains(err.Error(), "WGSL front end not available") {
		t.Errorf("error %q lost the device diagnostic", err.Error())
	}
}
