package rgraph

import (
	"fmt"
	"log"

	"github.com/cogentcore/webgpu/wgpu"
)

// RetainedBuffer pairs a caller-owned driver buffer with the actual
// size/usage metadata the materializer verifies accumulated constraints
// against. The cogentcore/webgpu driver object itself is opaque here the
// same way original_source/src/resources/texture.rs's Texture wraps its
// own size/format/usage fields alongside the wrapped wgpu::Texture rather
// than querying them back out of the driver handle.
type RetainedBuffer struct {
	Buffer *wgpu.Buffer
	Size   uint64
	Usages BufferUsage
}

// RetainedTexture pairs a caller-owned driver texture with the actual
// size/format/mip/sample metadata the materializer verifies against,
// grounded on original_source/src/resources/texture.rs's Texture struct.
type RetainedTexture struct {
	Texture       *wgpu.Texture
	Size          TextureSize
	Format        wgpu.TextureFormat
	MipLevelCount uint32
	SampleCount   uint32
	Usages        TextureUsage
}

// RetainedSampler pairs a caller-owned driver sampler with the resolved
// descriptor SamplerConstraints.Verify checks against.
type RetainedSampler struct {
	Sampler    *wgpu.Sampler
	Descriptor SamplerDescriptor
}

// ResourceBindings is the caller-supplied table of retained resources a
// Compilation run materializes against. A virtual buffer or texture name
// absent from Buffers/Textures is materialized as a transient, sized and
// formatted purely from its accumulated constraints (spec §4.4.1 "or else
// create one"). Samplers are never allocated as transients: every sampler
// name a node binds must be present in Samplers.
type ResourceBindings struct {
	Buffers  map[string]RetainedBuffer
	Textures map[string]RetainedTexture
	Samplers map[string]RetainedSampler
}

// NewResourceBindings returns an empty ResourceBindings table.
func NewResourceBindings() *ResourceBindings {
	return &ResourceBindings{
		Buffers:  make(map[string]RetainedBuffer),
		Textures: make(map[string]RetainedTexture),
		Samplers: make(map[string]RetainedSampler),
	}
}

// materializedBuffer and materializedTexture are the per-run resolution
// of a virtual handle to a driver object, whether it came from the
// caller's retained table or was allocated fresh for this run.
type materializedBuffer struct {
	buffer    *wgpu.Buffer
	transient bool
}

type materializedTexture struct {
	texture   *wgpu.Texture
	transient bool
}

// materializer resolves one Compilation's virtual resources into driver
// objects (verifying retained ones, allocating transients), resolves
// every bind group the recording pass touched, and then replays the
// opcode queue against a single command encoder. Grounded on
// engine/renderer/wgpu_renderer_backend.go's Init*/Compute-pass methods
// for the concrete device-call sequence.
type materializer struct {
	device   *wgpu.Device
	queue    *wgpu.Queue
	bindings *ResourceBindings

	resources *VirtualResources
	pipelines *PipelineStorage
	bindCache *BindGroupCache

	buffers    map[BufferHandle]materializedBuffer
	textures   map[TextureHandle]materializedTexture
	views      []*wgpu.TextureView // kept alive for the duration of one run
	bindGroups map[BindGroupHandle]*wgpu.BindGroup

	logger *log.Logger
}

func newMaterializer(device *wgpu.Device, queue *wgpu.Queue, bindings *ResourceBindings, c *Compilation, logger *log.Logger) *materializer {
	return &materializer{
		device:     device,
		queue:      queue,
		bindings:   bindings,
		resources:  c.resources,
		pipelines:  c.pipelines,
		bindCache:  c.bindCache,
		buffers:    make(map[BufferHandle]materializedBuffer),
		textures:   make(map[TextureHandle]materializedTexture),
		bindGroups: make(map[BindGroupHandle]*wgpu.BindGroup),
		logger:     logger,
	}
}

func (m *materializer) logf(format string, args ...any) {
	if m.logger != nil {
		m.logger.Printf(format, args...)
	}
}

// resolveBuffers verifies every retained buffer against its accumulated
// constraints and allocates a transient for every virtual buffer with no
// retained entry, per spec §4.4.1.
func (m *materializer) resolveBuffers() error {
	for idx := 0; idx < m.resources.Len(); idx++ {
		h := m.resources.HandleAt(idx)
		if h.Kind != ResourceKindBuffer {
			continue
		}
		name := m.resources.NameAt(idx)
		constr := m.resources.BufferConstraints(h.Buffer)

		if retained, ok := m.bindings.Buffers[name]; ok {
			if retained.Size < constr.MinSize {
				return &BufferTooSmallError{Name: name, Actual: retained.Size, MinReq: constr.MinSize}
			}
			if !retained.Usages.Contains(constr.MinUsages) {
				return &BufferMissingUsagesError{Name: name, Missing: constr.MinUsages &^ retained.Usages}
			}
			m.buffers[h.Buffer] = materializedBuffer{buffer: retained.Buffer}
			continue
		}

		m.logf("rgraph: allocating transient buffer %q (size=%d)", name, constr.MinSize)
		buf, err := m.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: name,
			Size:  constr.MinSize,
			Usage: constr.MinUsages.ToWGPU(),
		})
		if err != nil {
			return fmt.Errorf("rgraph: allocating transient buffer %q: %w", name, err)
		}
		m.buffers[h.Buffer] = materializedBuffer{buffer: buf, transient: true}
	}
	return nil
}

// resolveTextures verifies every retained texture against its
// accumulated constraints and allocates a transient for every virtual
// texture with no retained entry, per spec §4.4.1's texture verification
// rules: a declared size and format are required, and a retained texture
// must match them exactly and carry at least the accumulated usages, mip
// level count and sample count (the conflicted-sample-type case is
// already rejected in RenderGraph.Compile's Phase E). The has_depth/
// has_stencil aspect requirements and the per-axis minimum size are not
// checked.
func (m *materializer) resolveTextures() error {
	for idx := 0; idx < m.resources.Len(); idx++ {
		h := m.resources.HandleAt(idx)
		if h.Kind != ResourceKindTexture {
			continue
		}
		name := m.resources.NameAt(idx)
		constr := m.resources.TextureConstraints(h.Texture)

		if !constr.HasSize {
			return &UnconstrainedTextureSizeError{Name: name}
		}
		if !constr.HasFormat {
			return &UnconstrainedTextureFormatError{Name: name}
		}

		if retained, ok := m.bindings.Textures[name]; ok {
			if retained.Size != constr.Size {
				return &TextureSizeMismatchError{Name: name, Want: constr.Size, Got: retained.Size}
			}
			if retained.Format != constr.Format {
				return &TextureFormatMismatchError{Name: name, Want: constr.Format, Got: retained.Format}
			}
			if !retained.Usages.Contains(constr.MinUsages) {
				return &TextureMissingUsagesError{Name: name, Missing: constr.MinUsages &^ retained.Usages}
			}
			if retained.MipLevelCount < constr.MinMipLevels {
				return &InsufficientMipLevelsError{Name: name, Min: constr.MinMipLevels, Actual: retained.MipLevelCount}
			}
			if retained.SampleCount < constr.MinSamples {
				return &InsufficientSamplesError{Name: name, Min: constr.MinSamples, Actual: retained.SampleCount}
			}
			m.textures[h.Texture] = materializedTexture{texture: retained.Texture}
			continue
		}

		dimension, extent := constr.Size.ToWGPU()
		mipLevels := constr.MinMipLevels
		if mipLevels == 0 {
			mipLevels = 1
		}
		sampleCount := constr.MinSamples
		if sampleCount == 0 {
			sampleCount = 1
		}
		m.logf("rgraph: allocating transient texture %q (size=%v, format=%v)", name, extent, constr.Format)
		tex, err := m.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         name,
			Usage:         constr.MinUsages.ToWGPU(),
			Dimension:     dimension,
			Size:          extent,
			Format:        constr.Format,
			MipLevelCount: mipLevels,
			SampleCount:   sampleCount,
		})
		if err != nil {
			return fmt.Errorf("rgraph: allocating transient texture %q: %w", name, err)
		}
		m.textures[h.Texture] = materializedTexture{texture: tex, transient: true}
	}
	return nil
}

// resolveSamplers verifies every sampler name the recording pass
// accumulated constraints for against its retained descriptor (spec
// Invariant #4); rgraph has no transient-sampler allocation path, since a
// sampler referenced by BindSampler must always name a caller-retained
// sampler.
func (m *materializer) resolveSamplers(c *Compilation) error {
	for name, constr := range c.samplers {
		retained, ok := m.bindings.Samplers[name]
		if !ok {
			return fmt.Errorf("rgraph: sampler %q has no retained entry in the supplied bindings", name)
		}
		if err := constr.Verify(name, retained.Descriptor); err != nil {
			return err
		}
	}
	return nil
}

// buildBindGroups resolves every bind group the recording pass allocated
// in the bind cache into a driver wgpu.BindGroup, per spec §4.4.2.
func (m *materializer) buildBindGroups() error {
	for h := 0; h < m.bindCache.Len(); h++ {
		handle := BindGroupHandle(h)
		layoutHandle, bindings, ok := m.bindCache.Entry(handle)
		if !ok {
			continue
		}
		layout, ok := m.pipelines.BindGroupLayout(layoutHandle)
		if !ok {
			return fmt.Errorf("rgraph: bind group %d references an unknown layout", h)
		}

		entries := make([]wgpu.BindGroupEntry, 0, len(bindings))
		for _, sb := range bindings {
			entry, err := m.resolveBindGroupEntry(sb.Slot, sb.Binding)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}

		bindGroup, err := m.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:   fmt.Sprintf("rgraph bind group %d", h),
			Layout:  layout.WGPU,
			Entries: entries,
		})
		if err != nil {
			return fmt.Errorf("rgraph: creating bind group %d: %w", h, err)
		}
		m.bindGroups[handle] = bindGroup
	}
	return nil
}

func (m *materializer) resolveBindGroupEntry(slot uint32, binding ResourceBinding) (wgpu.BindGroupEntry, error) {
	switch binding.Kind {
	case ResourceBindingBuffer:
		mb, ok := m.buffers[binding.Buffer.Handle]
		if !ok {
			return wgpu.BindGroupEntry{}, fmt.Errorf("rgraph: bind group entry references an unresolved buffer handle")
		}
		size := binding.Buffer.Size
		if size == 0 {
			size = wgpu.WholeSize
		}
		return wgpu.BindGroupEntry{Binding: slot, Buffer: mb.buffer, Offset: binding.Buffer.Offset, Size: size}, nil

	case ResourceBindingTexture:
		mt, ok := m.textures[binding.Texture]
		if !ok {
			return wgpu.BindGroupEntry{}, fmt.Errorf("rgraph: bind group entry references an unresolved texture handle")
		}
		view, err := m.viewFor(mt.texture, binding)
		if err != nil {
			return wgpu.BindGroupEntry{}, err
		}
		return wgpu.BindGroupEntry{Binding: slot, TextureView: view}, nil

	case ResourceBindingSampler:
		retained, ok := m.bindings.Samplers[binding.SamplerName]
		if !ok {
			return wgpu.BindGroupEntry{}, fmt.Errorf("rgraph: bind group entry references unregistered sampler %q", binding.SamplerName)
		}
		return wgpu.BindGroupEntry{Binding: slot, Sampler: retained.Sampler}, nil

	default:
		return wgpu.BindGroupEntry{}, fmt.Errorf("rgraph: bind group entry has no binding kind")
	}
}

// viewFor creates a texture view honoring the aspect/mip/layer range a
// ResourceBinding declared, grounded on
// original_source/src/resources/texture.rs's TextureView builder.
func (m *materializer) viewFor(tex *wgpu.Texture, binding ResourceBinding) (*wgpu.TextureView, error) {
	desc := &wgpu.TextureViewDescriptor{
		BaseMipLevel:   binding.BaseMip,
		MipLevelCount:  binding.MipCount,
		BaseArrayLayer: binding.BaseLayer,
		ArrayLayerCount: binding.LayerCount,
	}
	switch binding.Aspect {
	case TextureAspectDepthOnly:
		desc.Aspect = wgpu.TextureAspectDepthOnly
	case TextureAspectStencilOnly:
		desc.Aspect = wgpu.TextureAspectStencilOnly
	default:
		desc.Aspect = wgpu.TextureAspectAll
	}
	if binding.Dimension != TextureViewDimensionUndefined {
		desc.Dimension = binding.Dimension.ToWGPU()
	}

	view, err := tex.CreateView(desc)
	if err != nil {
		return nil, fmt.Errorf("rgraph: creating texture view: %w", err)
	}
	m.views = append(m.views, view)
	return view, nil
}

// replay walks the Compilation's opcode queue against one command
// encoder, submitting once at the end, grounded on
// wgpu_renderer_backend.go's RunComputeFrame encode/submit sequence.
func (m *materializer) replay(queue []RenderCommand) error {
	encoder, err := m.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("rgraph: creating command encoder: %w", err)
	}

	for _, cmd := range queue {
		switch cmd.Kind {
		case OpWriteBuffer:
			mb := m.buffers[cmd.WriteBufferHandle]
			m.queue.WriteBuffer(mb.buffer, cmd.WriteBufferOffset, cmd.WriteBufferData)

		case OpWriteTexture:
			mt := m.textures[cmd.WriteTextureView.Texture]
			m.queue.WriteTexture(
				&wgpu.ImageCopyTexture{
					Texture:  mt.texture,
					MipLevel: cmd.WriteTextureView.MipLevel,
					Origin: wgpu.Origin3D{
						X: cmd.WriteTextureView.Origin.X,
						Y: cmd.WriteTextureView.Origin.Y,
						Z: cmd.WriteTextureView.Origin.Z,
					},
					Aspect: textureAspectToWGPU(cmd.WriteTextureView.Aspect),
				},
				cmd.WriteTextureData,
				&wgpu.TextureDataLayout{
					Offset:       cmd.WriteTextureLayout.Offset,
					BytesPerRow:  cmd.WriteTextureLayout.BytesPerRow,
					RowsPerImage: cmd.WriteTextureLayout.RowsPerImage,
				},
				&wgpu.Extent3D{
					Width:              cmd.WriteTextureExt.Width,
					Height:             cmd.WriteTextureExt.Height,
					DepthOrArrayLayers: cmd.WriteTextureExt.DepthOrArrayLayers,
				},
			)

		case OpCopyBufferToBuffer:
			src := m.buffers[cmd.CopySrc]
			dst := m.buffers[cmd.CopyDst]
			encoder.CopyBufferToBuffer(src.buffer, cmd.CopySrcOffset, dst.buffer, cmd.CopyDstOffset, cmd.CopySize)

		case OpComputePass:
			if err := m.replayComputePass(encoder, cmd); err != nil {
				return err
			}
		}
	}

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("rgraph: finishing command encoder: %w", err)
	}
	m.queue.Submit(commandBuffer)
	return nil
}

func (m *materializer) replayComputePass(encoder *wgpu.CommandEncoder, cmd RenderCommand) error {
	desc := &wgpu.ComputePassDescriptor{Label: cmd.ComputePassLabel}
	pass := encoder.BeginComputePass(desc)
	for _, inner := range cmd.ComputePassQueue {
		switch inner.Kind {
		case OpSetPipeline:
			pipeline, ok := m.pipelines.Pipeline(inner.Pipeline)
			if !ok {
				return fmt.Errorf("rgraph: compute pass references an unknown pipeline handle")
			}
			pass.SetPipeline(pipeline.WGPU)

		case OpSetBindGroup:
			bindGroup, ok := m.bindGroups[inner.BindGroup]
			if !ok {
				return fmt.Errorf("rgraph: compute pass references an unresolved bind group handle")
			}
			pass.SetBindGroup(inner.GroupIndex, bindGroup, nil)

		case OpDispatch:
			pass.DispatchWorkgroups(inner.X, inner.Y, inner.Z)
		}
	}
	pass.End()
	return nil
}

func textureAspectToWGPU(a TextureAspectKind) wgpu.TextureAspect {
	switch a {
	case TextureAspectDepthOnly:
		return wgpu.TextureAspectDepthOnly
	case TextureAspectStencilOnly:
		return wgpu.TextureAspectStencilOnly
	default:
		return wgpu.TextureAspectAll
	}
}
