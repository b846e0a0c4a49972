package driver

import "github.com/cogentcore/webgpu/wgpu"

// TextureViewBuilderOption configures a pending wgpu.TextureViewDescriptor.
type TextureViewBuilderOption func(*wgpu.TextureViewDescriptor)

// WithViewLabel sets the view's debug label.
func WithViewLabel(label string) TextureViewBuilderOption {
	return func(d *wgpu.TextureViewDescriptor) {
		d.Label = label
	}
}

// WithViewFormat overrides the view's format; leave unset to inherit the
// texture's own format.
func WithViewFormat(format wgpu.TextureFormat) TextureViewBuilderOption {
	return func(d *wgpu.TextureViewDescriptor) {
		d.Format = format
	}
}

// WithViewDimension overrides the view's dimension; leave unset to
// inherit the texture's own dimension.
func WithViewDimension(dim wgpu.TextureViewDimension) TextureViewBuilderOption {
	return func(d *wgpu.TextureViewDescriptor) {
		d.Dimension = dim
	}
}

// WithViewAspect restricts the view to one aspect of the texture (color,
// depth, or stencil).
func WithViewAspect(aspect wgpu.TextureAspect) TextureViewBuilderOption {
	return func(d *wgpu.TextureViewDescriptor) {
		d.Aspect = aspect
	}
}

// WithMipRange restricts the view to [base, base+count) mip levels.
func WithMipRange(base, count uint32) TextureViewBuilderOption {
	return func(d *wgpu.TextureViewDescriptor) {
		d.BaseMipLevel = base
		d.MipLevelCount = count
	}
}

// WithLayerRange restricts the view to [base, base+count) array layers.
func WithLayerRange(base, count uint32) TextureViewBuilderOption {
	return func(d *wgpu.TextureViewDescriptor) {
		d.BaseArrayLayer = base
		d.ArrayLayerCount = count
	}
}

// NewTextureView creates a view of tex from the given options. A
// zero-value descriptor (no options) yields the same whole-texture,
// inherited-format view wgpu_renderer_backend.go gets from
// tex.CreateView(nil).
func NewTextureView(tex *wgpu.Texture, opts ...TextureViewBuilderOption) (*wgpu.TextureView, error) {
	if len(opts) == 0 {
		return tex.CreateView(nil)
	}
	desc := &wgpu.TextureViewDescriptor{}
	for _, opt := range opts {
		opt(desc)
	}
	return tex.CreateView(desc)
}
