package driver

import (
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// SamplerBuilderOption configures a pending wgpu.SamplerDescriptor.
type SamplerBuilderOption func(*wgpu.SamplerDescriptor)

// WithSamplerLabel sets the sampler's debug label.
func WithSamplerLabel(label string) SamplerBuilderOption {
	return func(d *wgpu.SamplerDescriptor) {
		d.Label = label
	}
}

// WithAddressModes sets the U/V/W address (wrap) modes.
func WithAddressModes(u, v, w wgpu.AddressMode) SamplerBuilderOption {
	return func(d *wgpu.SamplerDescriptor) {
		d.AddressModeU = u
		d.AddressModeV = v
		d.AddressModeW = w
	}
}

// WithFilters sets the mag/min/mipmap filter modes.
func WithFilters(mag, min wgpu.FilterMode, mipmap wgpu.MipmapFilterMode) SamplerBuilderOption {
	return func(d *wgpu.SamplerDescriptor) {
		d.MagFilter = mag
		d.MinFilter = min
		d.MipmapFilter = mipmap
	}
}

// WithLodClamp sets the minimum and maximum level-of-detail clamps.
func WithLodClamp(min, max float32) SamplerBuilderOption {
	return func(d *wgpu.SamplerDescriptor) {
		d.LodMinClamp = min
		d.LodMaxClamp = max
	}
}

// WithCompare sets the sampler's comparison function, making it a
// comparison sampler. Leave unset for a filtering/non-filtering sampler.
func WithCompare(fn wgpu.CompareFunction) SamplerBuilderOption {
	return func(d *wgpu.SamplerDescriptor) {
		d.Compare = fn
	}
}

// WithMaxAnisotropy sets the maximum anisotropic filtering level.
func WithMaxAnisotropy(max uint16) SamplerBuilderOption {
	return func(d *wgpu.SamplerDescriptor) {
		d.MaxAnisotropy = max
	}
}

// WithBorderColor sets the color sampled for texels outside the texture
// when an address mode is ClampToBorder.
func WithBorderColor(c wgpu.SamplerBorderColor) SamplerBuilderOption {
	return func(d *wgpu.SamplerDescriptor) {
		d.BorderColor = c
	}
}

// NewSampler creates a sampler on device from the given options,
// defaulting unset fields to the sampler builder's stated defaults:
// clamp-to-edge addressing, nearest filtering, LOD clamp [0, +inf),
// anisotropy 1.
func NewSampler(device *wgpu.Device, opts ...SamplerBuilderOption) (*wgpu.Sampler, error) {
	desc := &wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   float32(math.Inf(1)),
		MaxAnisotropy: 1,
	}
	for _, opt := range opts {
		opt(desc)
	}
	return device.CreateSampler(desc)
}
