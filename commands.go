package rgraph

// RenderCommands is the outer recording surface (spec §4.2): a stateful
// builder exposed to node run functions, persisted across nodes for the
// duration of one compilation. Grounded on
// original_source/src/commands/mod.rs's RenderCommands.
type RenderCommands struct {
	resources   *VirtualResources
	pipelines   *PipelineStorage
	bindCache   *BindGroupCache
	samplers    map[string]*SamplerConstraints
	queue       []RenderCommand
	access      []AccessSet
	currentNode int
}

// newRenderCommands returns a RenderCommands bound to the given shared
// state, with its node-access bitsets pre-sized for nodeCount nodes.
func newRenderCommands(resources *VirtualResources, pipelines *PipelineStorage, bindCache *BindGroupCache, nodeCount int) *RenderCommands {
	return &RenderCommands{
		resources: resources,
		pipelines: pipelines,
		bindCache: bindCache,
		samplers:  make(map[string]*SamplerConstraints),
		access:    make([]AccessSet, nodeCount),
	}
}

// setCurrentNode points subsequent recording calls at nodeIndex's
// access-set (spec §4.3 Phase C: "set the surface's current node index").
func (c *RenderCommands) setCurrentNode(nodeIndex int) {
	c.currentNode = nodeIndex
}

func (c *RenderCommands) markRead(resourceIndex int) {
	c.access[c.currentNode].MarkRead(resourceIndex)
}

func (c *RenderCommands) markWrite(resourceIndex int) {
	c.access[c.currentNode].MarkWrite(resourceIndex)
}

// Buffer returns the stable virtual handle for name, allocating one on
// first reference.
func (c *RenderCommands) Buffer(name string) BufferHandle {
	h, _ := c.resources.Buffer(name)
	return h
}

// Texture returns the stable virtual handle for name, allocating one on
// first reference.
func (c *RenderCommands) Texture(name string) TextureHandle {
	h, _ := c.resources.Texture(name)
	return h
}

// TextureConstraints returns the mutable constraint cursor for a texture
// handle, letting a node declare has_size/has_format (equality constraints;
// conflicting re-declaration panics, per spec §4.2).
func (c *RenderCommands) TextureConstraints(h TextureHandle) *TextureConstraints {
	return c.resources.TextureConstraints(h)
}

// SamplerConstraints returns the mutable constraint record for a
// retained sampler named name, allocating one on first reference.
func (c *RenderCommands) SamplerConstraints(name string) *SamplerConstraints {
	if sc, ok := c.samplers[name]; ok {
		return sc
	}
	sc := NewSamplerConstraints()
	c.samplers[name] = &sc
	return c.samplers[name]
}

// ComputePipeline returns the pipeline handle registered under name in the
// surrounding pipeline store.
func (c *RenderCommands) ComputePipeline(name string) ComputePipelineHandle {
	h, ok := c.pipelines.PipelineNamed(name)
	if !ok {
		panic("rgraph: no compute pipeline registered under name \"" + name + "\"")
	}
	return h
}

// WriteBuffer enqueues a buffer write command. Bumps min_size to at least
// offset+len(data) and requires COPY_DST; marks the buffer as written by
// the current node.
func (c *RenderCommands) WriteBuffer(h BufferHandle, offset uint64, data []byte) {
	idx := c.resources.IndexOf(bufferResource(h))
	constr := c.resources.BufferConstraints(h)
	constr.Merge(offset+uint64(len(data)), BufferUsageCopyDst)
	c.markWrite(idx)

	c.queue = append(c.queue, RenderCommand{
		Kind:              OpWriteBuffer,
		WriteBufferHandle: h,
		WriteBufferOffset: offset,
		WriteBufferData:   data,
	})
}

// WriteTexture enqueues a texture write command, bumping the destination
// texture's min-size from origin+extent, requiring COPY_DST, bumping the
// mip level count, and setting has_depth/has_stencil from the copy aspect.
func (c *RenderCommands) WriteTexture(view TextureCopyView, data []byte, layout TextureDataLayout, extent Extent3D) {
	idx := c.resources.IndexOf(textureResource(view.Texture))
	constr := c.resources.TextureConstraints(view.Texture)
	constr.BumpMinSize(view.Origin.X+extent.Width, view.Origin.Y+extent.Height, view.Origin.Z+extent.DepthOrArrayLayers)
	constr.MinUsages |= TextureUsageCopyDst
	if view.MipLevel+1 > constr.MinMipLevels {
		constr.MinMipLevels = view.MipLevel + 1
	}
	switch view.Aspect {
	case TextureAspectDepthOnly:
		constr.HasDepth = true
	case TextureAspectStencilOnly:
		constr.HasStencil = true
	}
	c.markWrite(idx)

	c.queue = append(c.queue, RenderCommand{
		Kind:               OpWriteTexture,
		WriteTextureView:   view,
		WriteTextureData:   data,
		WriteTextureLayout: layout,
		WriteTextureExt:    extent,
	})
}

// CopyBufferToBuffer enqueues a buffer-to-buffer copy, constraining src
// with min_size≥src_off+size and COPY_SRC, dst with min_size≥dst_off+size
// and COPY_DST; marks a read on src and a write on dst.
func (c *RenderCommands) CopyBufferToBuffer(src BufferHandle, srcOffset uint64, dst BufferHandle, dstOffset uint64, size uint64) {
	srcIdx := c.resources.IndexOf(bufferResource(src))
	dstIdx := c.resources.IndexOf(bufferResource(dst))

	c.resources.BufferConstraints(src).Merge(srcOffset+size, BufferUsageCopySrc)
	c.resources.BufferConstraints(dst).Merge(dstOffset+size, BufferUsageCopyDst)

	c.markRead(srcIdx)
	c.markWrite(dstIdx)

	c.queue = append(c.queue, RenderCommand{
		Kind:          OpCopyBufferToBuffer,
		CopySrc:       src,
		CopySrcOffset: srcOffset,
		CopyDst:       dst,
		CopyDstOffset: dstOffset,
		CopySize:      size,
	})
}

// ComputePass opens a compute-pass sub-recorder (spec §4.2 inner scope).
// BindGroup calls on the returned *ComputePassCommands are validated as
// they are made; its recorded commands reach the outer queue only when
// Dispatch is called.
func (c *RenderCommands) ComputePass(label string) *ComputePassCommands {
	index := len(c.queue)
	c.queue = append(c.queue, RenderCommand{Kind: OpComputePass, ComputePassLabel: label})
	return &ComputePassCommands{
		outer:        c,
		commandIndex: index,
	}
}
