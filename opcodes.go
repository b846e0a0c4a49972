package rgraph

// RenderCommandKind tags the variant of a RenderCommand opcode. Replay fans
// out over this flat enumeration rather than nested closures (spec §9),
// keeping the command queue a linear vector suitable for artifact
// recycling.
type RenderCommandKind int

const (
	OpWriteBuffer RenderCommandKind = iota
	OpWriteTexture
	OpComputePass
	OpCopyBufferToBuffer
)

// RenderCommand is one opcode in the outer command queue.
type RenderCommand struct {
	Kind RenderCommandKind

	// OpWriteBuffer
	WriteBufferHandle BufferHandle
	WriteBufferOffset uint64
	WriteBufferData   []byte

	// OpWriteTexture
	WriteTextureView   TextureCopyView
	WriteTextureData   []byte
	WriteTextureLayout TextureDataLayout
	WriteTextureExt    Extent3D

	// OpComputePass
	ComputePassLabel string
	ComputePassQueue []ComputePassCommand

	// OpCopyBufferToBuffer
	CopySrc       BufferHandle
	CopySrcOffset uint64
	CopyDst       BufferHandle
	CopyDstOffset uint64
	CopySize      uint64
}

// ComputePassCommandKind tags the variant of an inner compute-pass opcode.
type ComputePassCommandKind int

const (
	OpSetPipeline ComputePassCommandKind = iota
	OpSetBindGroup
	OpDispatch
)

// ComputePassCommand is one opcode in a compute pass's inner queue.
type ComputePassCommand struct {
	Kind ComputePassCommandKind

	// OpSetPipeline
	Pipeline ComputePipelineHandle

	// OpSetBindGroup
	GroupIndex uint32
	BindGroup  BindGroupHandle

	// OpDispatch
	X, Y, Z uint32
}

// Extent3D mirrors wgpu's copy-extent shape without importing the driver
// package into the opcode definitions themselves.
type Extent3D struct {
	Width, Height, DepthOrArrayLayers uint32
}

// Origin3D is a copy origin.
type Origin3D struct {
	X, Y, Z uint32
}

// TextureAspectKind mirrors wgpu.TextureAspect for copy/view operations.
type TextureAspectKind int

const (
	TextureAspectAll TextureAspectKind = iota
	TextureAspectDepthOnly
	TextureAspectStencilOnly
)

// TextureCopyView names a texture, mip level, origin, and aspect for a
// write_texture or copy operation.
type TextureCopyView struct {
	Texture TextureHandle
	MipLevel uint32
	Origin   Origin3D
	Aspect   TextureAspectKind
}

// TextureDataLayout describes the CPU-side layout of pixel data being
// uploaded to a texture.
type TextureDataLayout struct {
	Offset       uint64
	BytesPerRow  uint32
	RowsPerImage uint32
}
