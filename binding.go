package rgraph

import "github.com/cogentcore/webgpu/wgpu"

// RWMode tags the read/write mode a storage buffer or storage texture
// binding was declared with, grounded on
// original_source/src/resources/buffer.rs's RWMode bitflags.
type RWMode int

const (
	RWModeRead RWMode = 1 << iota
	RWModeWrite
)

const RWModeReadWrite = RWModeRead | RWModeWrite

// BufferUse tags how a buffer binding was passed to a bind_group call:
// explicitly as a uniform, explicitly as storage with a read/write mode, or
// left for the dispatch-time validator to infer from the pipeline layout.
type BufferUse struct {
	Kind    BufferUseKind
	Storage RWMode
}

type BufferUseKind int

const (
	BufferUseInfer BufferUseKind = iota
	BufferUseUniform
	BufferUseStorage
)

// MatchesUse reports whether a binding declared with use "b" satisfies the
// layout's expected use "want", grounded on
// original_source/src/resources/buffer.rs's BufferUse::matches_use.
func (b BufferUse) MatchesUse(want BufferUse) bool {
	if b.Kind == BufferUseInfer {
		return true
	}
	if b.Kind != want.Kind {
		return false
	}
	if b.Kind == BufferUseStorage {
		return b.Storage&want.Storage == want.Storage
	}
	return true
}

// BufferSlice names a byte range of a buffer, optionally tagged with its
// intended binding use via Uniform()/Storage(mode). Grounded on
// original_source/src/resources/buffer.rs's BufferSlice.
type BufferSlice struct {
	Handle BufferHandle
	Offset uint64
	Size   uint64 // 0 means "to end of buffer"
	Use    BufferUse
}

// Slice returns a BufferSlice over [offset, offset+size) of h, with its use
// left for dispatch-time inference.
func (h BufferHandle) Slice(offset, size uint64) BufferSlice {
	return BufferSlice{Handle: h, Offset: offset, Size: size}
}

// Uniform tags the slice as intended for a uniform-buffer binding slot.
func (s BufferSlice) Uniform() BufferSlice {
	s.Use = BufferUse{Kind: BufferUseUniform}
	return s
}

// Storage tags the slice as intended for a storage-buffer binding slot
// with the given read/write mode. Panics if mode is write-only, mirroring
// original_source's assertion that a storage binding mode is never
// write-only (WGSL has no write-only storage address space).
func (s BufferSlice) Storage(mode RWMode) BufferSlice {
	if mode == RWModeWrite {
		panic("rgraph: storage buffer binding mode must include read access")
	}
	s.Use = BufferUse{Kind: BufferUseStorage, Storage: mode}
	return s
}

// TextureViewDimension mirrors wgpu.TextureViewDimension for bindings whose
// dimension is inferred from the pipeline layout rather than declared by
// the caller.
type TextureViewDimension int

const (
	TextureViewDimensionUndefined TextureViewDimension = iota
	TextureViewDimension1D
	TextureViewDimension2D
	TextureViewDimension2DArray
	TextureViewDimensionCube
	TextureViewDimensionCubeArray
	TextureViewDimension3D
)

func (d TextureViewDimension) ToWGPU() wgpu.TextureViewDimension {
	switch d {
	case TextureViewDimension1D:
		return wgpu.TextureViewDimension1D
	case TextureViewDimension2D:
		return wgpu.TextureViewDimension2D
	case TextureViewDimension2DArray:
		return wgpu.TextureViewDimension2DArray
	case TextureViewDimensionCube:
		return wgpu.TextureViewDimensionCube
	case TextureViewDimensionCubeArray:
		return wgpu.TextureViewDimensionCubeArray
	case TextureViewDimension3D:
		return wgpu.TextureViewDimension3D
	default:
		return wgpu.TextureViewDimensionUndefined
	}
}

// ResourceBindingKind distinguishes the buffer, texture (sampled or
// storage) and sampler variants of a ResourceBinding.
type ResourceBindingKind int

const (
	ResourceBindingBuffer ResourceBindingKind = iota
	ResourceBindingTexture
	ResourceBindingSampler
)

// ResourceBinding is one binding payload a node supplies to bind_group,
// paired with its target slot via SlotBinding. Grounded on
// original_source/src/resources/bindgroup.rs's ResourceBinding enum.
type ResourceBinding struct {
	Kind ResourceBindingKind

	// ResourceBindingBuffer
	Buffer BufferSlice

	// ResourceBindingTexture
	Texture    TextureHandle
	Dimension  TextureViewDimension
	Aspect     TextureAspectKind
	BaseMip    uint32
	MipCount   uint32 // 0 means "to the last mip"
	BaseLayer  uint32
	LayerCount uint32 // 0 means "to the last layer"

	// ResourceBindingSampler names a retained sampler by the name its
	// constraints were accumulated under via RenderCommands.SamplerConstraints.
	SamplerName string
}

// Bind returns a ResourceBinding wrapping this buffer slice.
func (s BufferSlice) Bind() ResourceBinding {
	return ResourceBinding{Kind: ResourceBindingBuffer, Buffer: s}
}

// BindView returns a ResourceBinding wrapping a texture view over h.
func (h TextureHandle) BindView(baseMip, mipCount, baseLayer, layerCount uint32, aspect TextureAspectKind) ResourceBinding {
	return ResourceBinding{
		Kind:       ResourceBindingTexture,
		Texture:    h,
		Aspect:     aspect,
		BaseMip:    baseMip,
		MipCount:   mipCount,
		BaseLayer:  baseLayer,
		LayerCount: layerCount,
	}
}

// BindSampler returns a ResourceBinding naming a retained sampler.
func BindSampler(name string) ResourceBinding {
	return ResourceBinding{Kind: ResourceBindingSampler, SamplerName: name}
}

// DepthOnly restricts a texture binding to the depth aspect, grounded on
// original_source/src/resources/texture.rs's TextureView builder.
func (b ResourceBinding) DepthOnly() ResourceBinding {
	b.Aspect = TextureAspectDepthOnly
	return b
}

// StencilOnly restricts a texture binding to the stencil aspect.
func (b ResourceBinding) StencilOnly() ResourceBinding {
	b.Aspect = TextureAspectStencilOnly
	return b
}

// SliceMips restricts a texture binding to [base, base+count) mip levels.
func (b ResourceBinding) SliceMips(base, count uint32) ResourceBinding {
	b.BaseMip = base
	b.MipCount = count
	return b
}

// SliceLayers restricts a texture binding to [base, base+count) array layers.
func (b ResourceBinding) SliceLayers(base, count uint32) ResourceBinding {
	b.BaseLayer = base
	b.LayerCount = count
	return b
}
