package rgraph

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func twoGroupPipeline() ReflectedComputePipeline {
	return ReflectedComputePipeline{
		GroupLayouts: []ReflectedGroupLayout{
			{Entries: map[uint32]BindGroupLayoutEntry{
				0: {Binding: 0, Buffer: &BufferLayoutEntry{Type: wgpu.BufferBindingTypeStorage}},
			}},
			{Entries: map[uint32]BindGroupLayoutEntry{
				0: {Binding: 0, Buffer: &BufferLayoutEntry{Type: wgpu.BufferBindingTypeUniform}},
			}},
		},
	}
}

func TestDispatchPanicsWhenAGroupWasNeverBound(t *testing.T) {
	pipelines := NewPipelineStorage()
	pipelines.InsertComputePipeline("p", twoGroupPipeline())

	g := NewRenderGraph()
	g.AddNode(NewFunctionNode("n", func(cmds *RenderCommands) {
		pass := cmds.ComputePass("pass")
		pass.Pipeline("p")
		pass.BindGroup(0, SlotBinding{Slot: 0, Binding: cmds.Buffer("a").Slice(0, 4).Storage(RWModeReadWrite).Bind()})
		pass.Dispatch(1, 1, 1)
	}))

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for an unbound group")
		}
	}()
	g.Compile(NewVirtualResources(), pipelines, NewBindGroupCache())
}

func TestDispatchSucceedsWhenEveryGroupIsBound(t *testing.T) {
	pipelines := NewPipelineStorage()
	pipelines.InsertComputePipeline("p", twoGroupPipeline())

	g := NewRenderGraph()
	g.AddNode(NewFunctionNode("n", func(cmds *RenderCommands) {
		pass := cmds.ComputePass("pass")
		pass.Pipeline("p")
		pass.BindGroup(0, SlotBinding{Slot: 0, Binding: cmds.Buffer("a").Slice(0, 4).Storage(RWModeReadWrite).Bind()})
		pass.BindGroup(1, SlotBinding{Slot: 0, Binding: cmds.Buffer("b").Slice(0, 4).Uniform().Bind()})
		pass.Dispatch(1, 1, 1)
	}))

	if _, err := g.Compile(NewVirtualResources(), pipelines, NewBindGroupCache()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func textureStoragePipeline() ReflectedComputePipeline {
	return ReflectedComputePipeline{
		GroupLayouts: []ReflectedGroupLayout{
			{Entries: map[uint32]BindGroupLayoutEntry{
				0: {Binding: 0, Texture: &TextureLayoutEntry{
					SampleType:    SampleType{Kind: SampleTypeFloat, Filterable: true},
					ViewDimension: TextureViewDimension2D,
					Multisampled:  true,
				}},
				1: {Binding: 1, Storage: &StorageTextureLayoutEntry{
					Access:        wgpu.StorageTextureAccessReadWrite,
					Format:        wgpu.TextureFormatRGBA8Unorm,
					ViewDimension: TextureViewDimension2D,
				}},
			}},
		},
	}
}

// TestBindGroupPropagatesTextureLayoutOntoBindingAndConstraints exercises a
// dispatch against Texture and StorageTexture layout entries and checks
// that validateAndMark folds the layout's view dimension, mip/layer range,
// aspect, multisample flag, and declared format onto the bound resource,
// per spec §4.2.1.
func TestBindGroupPropagatesTextureLayoutOntoBindingAndConstraints(t *testing.T) {
	pipelines := NewPipelineStorage()
	pipelines.InsertComputePipeline("p", textureStoragePipeline())
	resources := NewVirtualResources()

	g := NewRenderGraph()
	g.AddNode(NewFunctionNode("n", func(cmds *RenderCommands) {
		pass := cmds.ComputePass("pass")
		pass.Pipeline("p")
		pass.BindGroup(0,
			SlotBinding{Slot: 0, Binding: cmds.Texture("sampled").BindView(1, 2, 3, 4, TextureAspectDepthOnly)},
			SlotBinding{Slot: 1, Binding: cmds.Texture("storage").BindView(0, 1, 0, 1, TextureAspectAll)},
		)
		pass.Dispatch(1, 1, 1)
	}))

	bindCache := NewBindGroupCache()
	if _, err := g.Compile(resources, pipelines, bindCache); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, bound, ok := bindCache.Entry(0)
	if !ok {
		t.Fatalf("expected the dispatch to record bind group 0")
	}
	for _, sb := range bound {
		if sb.Binding.Dimension != TextureViewDimension2D {
			t.Errorf("expected slot %d to carry the layout's 2D view dimension, got %v", sb.Slot, sb.Binding.Dimension)
		}
	}

	sampledHandle, _ := resources.Texture("sampled")
	sc := resources.TextureConstraints(sampledHandle)
	if !sc.MinUsages.Contains(TextureUsageTextureBinding) {
		t.Errorf("expected TEXTURE_BINDING usage on sampled texture")
	}
	if !sc.Multisampled {
		t.Errorf("expected multisampled constraint to propagate from the layout entry")
	}
	if !sc.HasDepth {
		t.Errorf("expected has_depth to be set from the DepthOnly binding aspect")
	}
	if sc.MinMipLevels != 3 {
		t.Errorf("expected min_mip_levels=3 (base_mip 1 + mip_count 2), got %d", sc.MinMipLevels)
	}
	if sc.MinSizeZ != 7 {
		t.Errorf("expected layer extent 7 (base_layer 3 + layer_count 4), got %d", sc.MinSizeZ)
	}

	storageHandle, _ := resources.Texture("storage")
	st := resources.TextureConstraints(storageHandle)
	if !st.MinUsages.Contains(TextureUsageStorageBinding) {
		t.Errorf("expected STORAGE_BINDING usage on storage texture")
	}
	if !st.HasFormat || st.Format != wgpu.TextureFormatRGBA8Unorm {
		t.Errorf("expected format to be declared from the storage layout entry, got has=%v format=%v", st.HasFormat, st.Format)
	}
}

func TestBindGroupIgnoresSlotNotInLayout(t *testing.T) {
	pipelines := NewPipelineStorage()
	pipelines.InsertComputePipeline("p", twoGroupPipeline())

	g := NewRenderGraph()
	g.AddNode(NewFunctionNode("n", func(cmds *RenderCommands) {
		pass := cmds.ComputePass("pass")
		pass.Pipeline("p")
		pass.BindGroup(0,
			SlotBinding{Slot: 0, Binding: cmds.Buffer("a").Slice(0, 4).Storage(RWModeReadWrite).Bind()},
			SlotBinding{Slot: 7, Binding: cmds.Buffer("stripped").Slice(0, 4).Storage(RWModeReadWrite).Bind()},
		)
		pass.BindGroup(1, SlotBinding{Slot: 0, Binding: cmds.Buffer("b").Slice(0, 4).Uniform().Bind()})
		pass.Dispatch(1, 1, 1)
	}))

	if _, err := g.Compile(NewVirtualResources(), pipelines, NewBindGroupCache()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
