package rgraph

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ComputePassCommands is the inner recording surface opened by
// RenderCommands.ComputePass, grounded on
// original_source/src/commands/pass.rs's ComputePassCommands. It implements
// the §4.2.1 binding-vs-layout validation algorithm: every BindGroup call is
// checked against the currently set pipeline's reflected layout before it is
// resolved into a cached bind group.
type ComputePassCommands struct {
	outer        *RenderCommands
	commandIndex int // index of the OpComputePass entry in outer.queue

	pipeline    ComputePipelineHandle
	hasPipeline bool
	groups      []BindGroupLayoutHandle // current pipeline's per-group layout handles
	boundGroups Bitset                  // group indices that received a BindGroup call

	inner []ComputePassCommand
}

// Pipeline selects the compute pipeline subsequent BindGroup/Dispatch calls
// validate against.
func (p *ComputePassCommands) Pipeline(name string) {
	h := p.outer.ComputePipeline(name)
	pipeline, ok := p.outer.pipelines.Pipeline(h)
	if !ok {
		panic("rgraph: compute pipeline handle has no backing pipeline")
	}
	layout, ok := p.outer.pipelines.PipelineLayout(pipeline.Layout)
	if !ok {
		panic("rgraph: compute pipeline layout handle has no backing layout")
	}

	p.pipeline = h
	p.hasPipeline = true
	p.groups = layout.Groups
	p.boundGroups = NewBitset(len(layout.Groups))

	p.inner = append(p.inner, ComputePassCommand{Kind: OpSetPipeline, Pipeline: h})
}

// SlotBinding pairs an explicit binding slot with the ResourceBinding placed
// there, the (slot, binding) pairs bind_group takes per spec §4.2.
type SlotBinding struct {
	Slot    uint32
	Binding ResourceBinding
}

// BindGroup validates bindings against group's layout entries in the
// current pipeline, resolves them into a content-addressed bind group via
// the surrounding cache, and enqueues a set-bind-group opcode.
//
// Per §4.2.1: a (slot, binding) pair whose slot has no corresponding layout
// entry is ignored (the shader may have stripped that slot). Validation for
// a pair that does match an entry:
//   - a buffer entry requires a Buffer binding whose declared use (if any)
//     matches the layout's binding type, and bumps the buffer's min_size and
//     usage-flag constraints;
//   - a texture entry requires a Texture binding, bumps the texture's
//     usage-flag constraint, merges the entry's sample type into the
//     texture's sample-type constraint, records the layout's view dimension
//     onto the binding, bumps min_mip_levels and the layer extent from the
//     binding's mip/layer range, sets has_depth/has_stencil from its aspect,
//     and sets multisampled if the layout says so;
//   - a storage-texture entry requires a Texture binding, bumps
//     STORAGE_BINDING usage, declares the texture's format from the layout
//     entry, records the layout's view dimension onto the binding, bumps
//     min_mip_levels and the layer extent, and sets has_depth/has_stencil
//     from its aspect the same way;
//   - a sampler entry requires a Sampler binding, and merges the entry's
//     sampler binding type into that sampler's constraints.
//
// The current node is marked as reading every resource referenced by a
// read-only binding, and writing every resource referenced by a binding
// that admits write access.
func (p *ComputePassCommands) BindGroup(group uint32, bindings ...SlotBinding) {
	if !p.hasPipeline {
		panic("rgraph: BindGroup called before Pipeline")
	}
	if int(group) >= len(p.groups) {
		panic(&BindGroupTooHighError{Group: group})
	}
	layoutHandle := p.groups[group]
	layout, ok := p.outer.pipelines.BindGroupLayout(layoutHandle)
	if !ok {
		panic("rgraph: bind group layout handle has no backing layout")
	}

	resolved := make([]slotBinding, 0, len(bindings))
	seen := make(map[uint32]bool, len(bindings))

	for _, sb := range bindings {
		entry, ok := layout.Entries[sb.Slot]
		if !ok {
			continue
		}
		if seen[sb.Slot] {
			panic("rgraph: duplicate binding for the same slot in one bind group call")
		}
		seen[sb.Slot] = true

		binding := p.validateAndMark(entry, sb.Binding)
		resolved = append(resolved, slotBinding{Slot: sb.Slot, Binding: binding})
	}

	handle := p.outer.bindCache.GetHandle(layoutHandle, resolved)
	p.inner = append(p.inner, ComputePassCommand{Kind: OpSetBindGroup, GroupIndex: group, BindGroup: handle})
	p.boundGroups.Insert(int(group))
}

// validateAndMark checks binding against entry, folds its requirements into
// the referenced resource's accumulated constraints, and returns binding
// with its Dimension filled in from the layout entry (spec §4.2.1: "record
// the view dimension onto the binding").
func (p *ComputePassCommands) validateAndMark(entry BindGroupLayoutEntry, binding ResourceBinding) ResourceBinding {
	switch {
	case entry.Buffer != nil:
		if binding.Kind != ResourceBindingBuffer {
			panic("rgraph: bind group slot expects a buffer binding")
		}
		want := BufferUse{Kind: BufferUseUniform}
		if entry.Buffer.Type != wgpu.BufferBindingTypeUniform {
			want = BufferUse{Kind: BufferUseStorage, Storage: RWModeRead}
			if entry.Buffer.Type == wgpu.BufferBindingTypeStorage {
				want.Storage = RWModeReadWrite
			}
		}
		if !binding.Buffer.Use.MatchesUse(want) {
			panic("rgraph: buffer binding use does not match its bind group layout slot")
		}

		idx := p.outer.resources.IndexOf(bufferResource(binding.Buffer.Handle))
		size := binding.Buffer.Size
		if size == 0 {
			size = entry.Buffer.MinBindingSize
		}
		constr := p.outer.resources.BufferConstraints(binding.Buffer.Handle)
		usage := BufferUsageUniform
		if want.Kind == BufferUseStorage {
			usage = BufferUsageStorage
		}
		constr.Merge(binding.Buffer.Offset+size, usage)

		p.outer.markRead(idx)
		if want.Kind == BufferUseStorage && want.Storage&RWModeWrite != 0 {
			p.outer.markWrite(idx)
		}
		return binding

	case entry.Texture != nil:
		if binding.Kind != ResourceBindingTexture {
			panic("rgraph: bind group slot expects a texture binding")
		}
		idx := p.outer.resources.IndexOf(textureResource(binding.Texture))
		constr := p.outer.resources.TextureConstraints(binding.Texture)
		constr.MinUsages |= TextureUsageTextureBinding
		constr.SampleType.Merge(entry.Texture.SampleType)
		if entry.Texture.Multisampled {
			constr.Multisampled = true
		}
		if binding.BaseMip+binding.MipCount > constr.MinMipLevels {
			constr.MinMipLevels = binding.BaseMip + binding.MipCount
		}
		constr.BumpMinSize(0, 0, binding.BaseLayer+binding.LayerCount)
		switch binding.Aspect {
		case TextureAspectDepthOnly:
			constr.HasDepth = true
		case TextureAspectStencilOnly:
			constr.HasStencil = true
		}
		binding.Dimension = entry.Texture.ViewDimension
		p.outer.markRead(idx)
		return binding

	case entry.Storage != nil:
		if binding.Kind != ResourceBindingTexture {
			panic("rgraph: bind group slot expects a texture binding")
		}
		idx := p.outer.resources.IndexOf(textureResource(binding.Texture))
		constr := p.outer.resources.TextureConstraints(binding.Texture)
		constr.MinUsages |= TextureUsageStorageBinding
		constr.DeclareFormat(p.outer.resources.NameAt(idx), entry.Storage.Format)
		if binding.BaseMip+binding.MipCount > constr.MinMipLevels {
			constr.MinMipLevels = binding.BaseMip + binding.MipCount
		}
		constr.BumpMinSize(0, 0, binding.BaseLayer+binding.LayerCount)
		switch binding.Aspect {
		case TextureAspectDepthOnly:
			constr.HasDepth = true
		case TextureAspectStencilOnly:
			constr.HasStencil = true
		}
		binding.Dimension = entry.Storage.ViewDimension
		p.outer.markRead(idx)
		if entry.Storage.Access != wgpu.StorageTextureAccessReadOnly {
			p.outer.markWrite(idx)
		}
		return binding

	case entry.Sampler != nil:
		if binding.Kind != ResourceBindingSampler {
			panic("rgraph: bind group slot expects a sampler binding")
		}
		sc := p.outer.SamplerConstraints(binding.SamplerName)
		sc.Type.Merge(entry.Sampler.Type)
		return binding

	default:
		panic("rgraph: bind group layout entry has no binding kind set")
	}
}

// Dispatch enqueues a dispatch opcode with the given workgroup counts and
// records the compute pass's finished inner queue onto its outer opcode.
// Panics if any group index required by the current pipeline's layout never
// received a BindGroup call ("too few groups bound for a pipeline", spec §7).
func (p *ComputePassCommands) Dispatch(x, y, z uint32) {
	if !p.hasPipeline {
		panic("rgraph: Dispatch called before Pipeline")
	}
	for i := range p.groups {
		if !p.boundGroups.Contains(i) {
			panic(fmt.Sprintf("rgraph: too few groups bound for a pipeline: group %d has no BindGroup call", i))
		}
	}
	p.inner = append(p.inner, ComputePassCommand{Kind: OpDispatch, X: x, Y: y, Z: z})
	p.outer.queue[p.commandIndex].ComputePassQueue = append(p.outer.queue[p.commandIndex].ComputePassQueue, p.inner...)
	p.inner = p.inner[:0]
}
