// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	variants []ShaderVariant
	adjust   *scaleAdjust
	label    string
}

func defaultOptions() options {
	return options{
		variants: DefaultShaderVariants(),
		label:    "pixpipe",
	}
}

// WithShaderVariants replaces the shader tiers tried by New, in order.
// Passing no variants keeps the defaults.
func WithShaderVariants(variants ...ShaderVariant) Option {
	return func(o *options) {
		if len(variants) > 0 {
			o.variants = variants
		}
	}
}

// WithScaleAdjust multiplies the fit-to-viewport transform by scale on
// every axis and additionally by aspect on Y.
//
// Without this option the buffer fills the viewport exactly:
//
//	p, err := gpu.New(display, gpu.WithScaleAdjust(2.0, 1.2))
func WithScaleAdjust(scale, aspect float32) Option {
	return func(o *options) {
		o.adjust = &scaleAdjust{scale: scale, aspect: aspect}
	}
}

// WithLabel sets the prefix for GPU object debug labels.
func WithLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.label = label
		}
	}
}
