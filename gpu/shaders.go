// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/pixpipe"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/blit.wgsl
var blitShaderSource string

// Shader entry points shared by every variant.
const (
	vertexEntryPoint   = "vs_main"
	fragmentEntryPoint = "fs_main"
)

// ShaderVariant is one tier of the blit shader. Variants are tried in
// order and the first one the device accepts is used. All variants must
// expose the same entry points and bindings.
type ShaderVariant struct {
	// Name identifies the tier in logs and errors.
	Name string

	// Source produces the shader source for this tier.
	Source func() (hal.ShaderSource, error)
}

// WGSLVariant hands the WGSL source to the device unchanged. Backends with
// a built-in WGSL front end accept it directly.
func WGSLVariant() ShaderVariant {
	return ShaderVariant{
		Name: "wgsl",
		Source: func() (hal.ShaderSource, error) {
			if blitShaderSource == "" {
				return hal.ShaderSource{}, errors.New("blit shader source is empty")
			}
			return hal.ShaderSource{WGSL: blitShaderSource}, nil
		},
	}
}

// SPIRVVariant compiles the WGSL source to SPIR-V with naga, for backends
// that only consume SPIR-V.
func SPIRVVariant() ShaderVariant {
	return ShaderVariant{
		Name: "spirv",
		Source: func() (hal.ShaderSource, error) {
			code, err := compileSPIRV(blitShaderSource)
			if err != nil {
				return hal.ShaderSource{}, err
			}
			return hal.ShaderSource{SPIRV: code}, nil
		},
	}
}

// DefaultShaderVariants returns the tiers in preference order.
func DefaultShaderVariants() []ShaderVariant {
	return []ShaderVariant{WGSLVariant(), SPIRVVariant()}
}

// compileSPIRV compiles WGSL to SPIR-V words.
func compileSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("compile WGSL to SPIR-V: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile WGSL to SPIR-V: output length %d is not word aligned", len(spirvBytes))
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return code, nil
}

// selectShader creates a shader module from the first variant the device
// accepts. It returns the module and the name of the chosen tier.
func selectShader(device hal.Device, label string, variants []ShaderVariant) (hal.ShaderModule, string, error) {
	log := pixpipe.Logger()

	var errs []error
	for _, v := range variants {
		if v.Source == nil {
			continue
		}
		src, err := v.Source()
		if err != nil {
			log.Warn("shader variant unavailable", "variant", v.Name, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", v.Name, err))
			continue
		}
		module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label:  label + "_" + v.Name,
			Source: src,
		})
		if err != nil {
			log.Warn("shader variant rejected by device", "variant", v.Name, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", v.Name, err))
			continue
		}
		log.Info("shader variant selected", "variant", v.Name)
		return module, v.Name, nil
	}
	return nil, "", errors.Join(append([]error{ErrNoShaderVariant}, errs...)...)
}
