package rgraph

// BufferHandle identifies a buffer resource, virtual or materialized.
type BufferHandle uint32

// TextureHandle identifies a texture resource, virtual or materialized.
type TextureHandle uint32

// ComputePipelineHandle identifies a reflected compute pipeline registered
// in a PipelineStorage.
type ComputePipelineHandle uint32

// BindGroupLayoutHandle identifies a bind-group layout owned by a
// PipelineStorage.
type BindGroupLayoutHandle uint32

// PipelineLayoutHandle identifies a pipeline layout owned by a
// PipelineStorage.
type PipelineLayoutHandle uint32

// BindGroupHandle identifies a materialized (or to-be-materialized) bind
// group in the bind-group cache.
type BindGroupHandle uint32

// ResourceKind distinguishes the variants of ResourceHandle.
type ResourceKind int

const (
	ResourceKindBuffer ResourceKind = iota
	ResourceKindTexture
)

// ResourceHandle is the tagged union over the two virtual-resource kinds a
// node can reference by name.
type ResourceHandle struct {
	Kind    ResourceKind
	Buffer  BufferHandle
	Texture TextureHandle
}

func bufferResource(h BufferHandle) ResourceHandle {
	return ResourceHandle{Kind: ResourceKindBuffer, Buffer: h}
}

func textureResource(h TextureHandle) ResourceHandle {
	return ResourceHandle{Kind: ResourceKindTexture, Texture: h}
}
