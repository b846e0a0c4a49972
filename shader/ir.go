// Package shader reflects a compute shader module — WGSL or SPIR-V
// source — into the bind-group/pipeline-layout shape
// rgraph.PipelineStorage needs, per spec §4.1. Both front ends populate
// the same front-end-agnostic ModuleIR before a single classification
// pass (reflect.go) turns it into driver objects, mirroring how
// original_source/src/reflect.rs's compute_pipeline_from_module walks a
// single naga Module regardless of which front end produced it.
package shader

import "github.com/cogentcore/webgpu/wgpu"

// AddressSpaceKind classifies which WGSL/SPIR-V storage class a global
// variable was declared in, the same distinction
// original_source/src/reflect.rs switches on via naga's AddressSpace.
type AddressSpaceKind int

const (
	AddressSpaceUniform AddressSpaceKind = iota
	AddressSpaceStorage
	AddressSpaceHandleTexture
	AddressSpaceHandleSampler
	AddressSpacePushConstant
)

// ImageClassKind distinguishes the sampled/depth/storage image kinds a
// Handle+Image global can take, mirroring naga's ImageClass.
type ImageClassKind int

const (
	ImageClassSampled ImageClassKind = iota
	ImageClassDepth
	ImageClassStorage
)

// ImageDimensionKind mirrors naga's ImageDimension / WGSL's
// texture_1d/2d/2d_array/cube/cube_array/3d type family.
type ImageDimensionKind int

const (
	ImageDimension1D ImageDimensionKind = iota
	ImageDimension2D
	ImageDimensionCube
	ImageDimension3D
)

// BufferGlobal describes a Uniform or Storage address-space global.
type BufferGlobal struct {
	ReadOnly       bool // only meaningful for AddressSpaceStorage
	MinBindingSize uint64
}

// TextureGlobal describes a Handle+Image global.
type TextureGlobal struct {
	Dim           ImageDimensionKind
	Arrayed       bool
	Class         ImageClassKind
	SampleKind    SampleTypeKindIR
	Filterable    bool
	Multisampled  bool
	StorageFormat wgpu.TextureFormat
	StorageAccess wgpu.StorageTextureAccess
}

// SampleTypeKindIR mirrors rgraph.SampleTypeKind without importing the
// root package's constraint model into the reflector's own IR.
type SampleTypeKindIR int

const (
	SampleKindFloat SampleTypeKindIR = iota
	SampleKindUint
	SampleKindSint
)

// SamplerGlobal describes a Handle+Sampler global.
type SamplerGlobal struct {
	Comparison bool
}

// Global is one module-scope resource variable with an explicit
// @group/@binding (or SPIR-V DescriptorSet/Binding decoration).
type Global struct {
	Name    string
	Group   uint32
	Binding uint32
	Space   AddressSpaceKind

	Buffer  *BufferGlobal
	Texture *TextureGlobal
	Sampler *SamplerGlobal
}

// EntryPoint is one entry point the module declares, with the set of
// global indices it actually references — computed the way naga's
// per-entry-point ModuleInfo tracks non-empty GlobalUse per handle.
type EntryPoint struct {
	Name          string
	IsCompute     bool
	WorkgroupSize [3]uint32
	UsedGlobals   map[int]bool // index into ModuleIR.Globals

	// SamplingPairs lists (textureGlobalIndex, samplerGlobalIndex) pairs
	// this entry point samples together, needed to compute the
	// non-filtering-sampler-driven Filterable flag on each TextureGlobal
	// the way rending_reflect/src/lib.rs's sampling_set does.
	SamplingPairs [][2]int
}

// ModuleIR is the parsed, front-end-agnostic shape both the WGSL and
// SPIR-V front ends populate; reflect.go's classification pass only ever
// reads this, never the WGSL or SPIR-V syntax directly.
type ModuleIR struct {
	EntryPoints []EntryPoint
	Globals     []Global
}

// FindEntryPoint returns the index of the entry point named name, or -1.
func (m *ModuleIR) FindEntryPoint(name string) int {
	for i, ep := range m.EntryPoints {
		if ep.Name == name {
			return i
		}
	}
	return -1
}
