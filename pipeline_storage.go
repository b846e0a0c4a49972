package rgraph

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupLayoutEntry is the CPU-side description of one binding slot
// within a bind-group layout, as produced by the reflector.
type BindGroupLayoutEntry struct {
	Binding    uint32
	Visibility wgpu.ShaderStage
	Buffer     *BufferLayoutEntry
	Texture    *TextureLayoutEntry
	Storage    *StorageTextureLayoutEntry
	Sampler    *SamplerLayoutEntry
}

type BufferLayoutEntry struct {
	Type            wgpu.BufferBindingType
	MinBindingSize  uint64
	HasDynamicOffset bool
}

type TextureLayoutEntry struct {
	SampleType    SampleType
	ViewDimension TextureViewDimension
	Multisampled  bool
}

type StorageTextureLayoutEntry struct {
	Access        wgpu.StorageTextureAccess
	Format        wgpu.TextureFormat
	ViewDimension TextureViewDimension
}

type SamplerLayoutEntry struct {
	Type wgpu.SamplerBindingType
}

// ToWGPU converts a reflected layout entry to the driver's descriptor
// shape, exactly the fields wgpu_renderer_backend.go's InitBindGroup reads.
func (e BindGroupLayoutEntry) ToWGPU() wgpu.BindGroupLayoutEntry {
	out := wgpu.BindGroupLayoutEntry{Binding: e.Binding, Visibility: e.Visibility}
	switch {
	case e.Buffer != nil:
		out.Buffer = wgpu.BufferBindingLayout{
			Type:             e.Buffer.Type,
			HasDynamicOffset: e.Buffer.HasDynamicOffset,
			MinBindingSize:   e.Buffer.MinBindingSize,
		}
	case e.Texture != nil:
		out.Texture = wgpu.TextureBindingLayout{
			SampleType:    e.Texture.SampleType.ToWGPU(),
			ViewDimension: e.Texture.ViewDimension.ToWGPU(),
			Multisampled:  e.Texture.Multisampled,
		}
	case e.Storage != nil:
		out.StorageTexture = wgpu.StorageTextureBindingLayout{
			Access:        e.Storage.Access,
			Format:        e.Storage.Format,
			ViewDimension: e.Storage.ViewDimension.ToWGPU(),
		}
	case e.Sampler != nil:
		out.Sampler = wgpu.SamplerBindingLayout{Type: e.Sampler.Type}
	}
	return out
}

// BindGroupLayout is a materialized (or reflector-produced) bind-group
// layout plus the CPU-side entries that describe it, needed by dispatch
// validation.
type BindGroupLayout struct {
	WGPU    *wgpu.BindGroupLayout
	Entries map[uint32]BindGroupLayoutEntry
}

// PipelineLayout is a materialized pipeline layout plus the ordered list of
// bind-group layout handles it was built from.
type PipelineLayout struct {
	WGPU   *wgpu.PipelineLayout
	Groups []BindGroupLayoutHandle
}

// ComputePipeline is a materialized compute pipeline plus the pipeline
// layout handle it was bound with.
type ComputePipeline struct {
	WGPU   *wgpu.ComputePipeline
	Layout PipelineLayoutHandle
}

// ReflectedComputePipeline is the output of the reflector (spec §4.1): the
// compiled pipeline, its pipeline layout, and the ordered per-group layouts.
type ReflectedComputePipeline struct {
	Pipeline      *wgpu.ComputePipeline
	PipelineLayout *wgpu.PipelineLayout
	GroupLayouts  []ReflectedGroupLayout
}

// ReflectedGroupLayout pairs a materialized bind-group layout with its
// CPU-side entries, in group-index order.
type ReflectedGroupLayout struct {
	WGPU    *wgpu.BindGroupLayout
	Entries map[uint32]BindGroupLayoutEntry
}

// PipelineStorage owns every compute pipeline, bind-group layout, and
// pipeline layout a graph's nodes may reference by name, grounded on
// original_source/src/resources/pipeline.rs's PipelineStorage.
type PipelineStorage struct {
	pipelines        *NamedSlotMap[ComputePipelineHandle, *ComputePipeline]
	bindGroupLayouts map[BindGroupLayoutHandle]*BindGroupLayout
	pipelineLayouts  map[PipelineLayoutHandle]*PipelineLayout
	nextBGL          BindGroupLayoutHandle
	nextPL           PipelineLayoutHandle
}

// NewPipelineStorage returns an empty PipelineStorage.
func NewPipelineStorage() *PipelineStorage {
	return &PipelineStorage{
		pipelines:        NewNamedSlotMap[ComputePipelineHandle, *ComputePipeline](),
		bindGroupLayouts: make(map[BindGroupLayoutHandle]*BindGroupLayout),
		pipelineLayouts:  make(map[PipelineLayoutHandle]*PipelineLayout),
	}
}

// InsertComputePipeline registers a reflected pipeline under name,
// allocating handles for its pipeline layout and per-group bind-group
// layouts, and returns its ComputePipelineHandle.
func (s *PipelineStorage) InsertComputePipeline(name string, reflected ReflectedComputePipeline) ComputePipelineHandle {
	groups := make([]BindGroupLayoutHandle, len(reflected.GroupLayouts))
	for i, g := range reflected.GroupLayouts {
		h := s.nextBGL
		s.nextBGL++
		s.bindGroupLayouts[h] = &BindGroupLayout{WGPU: g.WGPU, Entries: g.Entries}
		groups[i] = h
	}

	plHandle := s.nextPL
	s.nextPL++
	s.pipelineLayouts[plHandle] = &PipelineLayout{WGPU: reflected.PipelineLayout, Groups: groups}

	return s.pipelines.Insert(name, &ComputePipeline{WGPU: reflected.Pipeline, Layout: plHandle})
}

// Pipeline looks up a compute pipeline by handle.
func (s *PipelineStorage) Pipeline(h ComputePipelineHandle) (*ComputePipeline, bool) {
	return s.pipelines.Get(h)
}

// PipelineNamed looks up a compute pipeline handle by its registered name.
func (s *PipelineStorage) PipelineNamed(name string) (ComputePipelineHandle, bool) {
	return s.pipelines.GetKey(name)
}

// PipelineLayout looks up a pipeline layout by handle.
func (s *PipelineStorage) PipelineLayout(h PipelineLayoutHandle) (*PipelineLayout, bool) {
	pl, ok := s.pipelineLayouts[h]
	return pl, ok
}

// BindGroupLayout looks up a bind-group layout by handle.
func (s *PipelineStorage) BindGroupLayout(h BindGroupLayoutHandle) (*BindGroupLayout, bool) {
	bgl, ok := s.bindGroupLayouts[h]
	return bgl, ok
}
