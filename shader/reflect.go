// Package shader reflects a compute shader module — WGSL or SPIR-V
// source — into the bind-group/pipeline-layout shape rgraph needs to
// create a compute pipeline, per spec §4.1. See ir.go for the
// front-end-agnostic intermediate representation both front ends
// populate.
package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/corvid-gpu/rgraph"
)

// SourceKind selects which front end parses Source.
type SourceKind int

const (
	SourceWGSL SourceKind = iota
	SourceSPIRV
)

// Module is a parsed shader module ready for reflection against a
// chosen entry point. Grounded on original_source/src/reflect.rs's
// ShaderModule, which likewise wraps a parsed naga Module plus its
// validation info and is reflected once per entry point.
type Module struct {
	ir     *ModuleIR
	kind   SourceKind
	wgsl   string
	spirv  []uint32
	label  string
}

// ParseWGSL parses WGSL source into a Module.
func ParseWGSL(label, source string) (*Module, error) {
	ir, err := parseWGSL(source)
	if err != nil {
		return nil, &rgraph.WgslParseError{Err: err}
	}
	return &Module{ir: ir, kind: SourceWGSL, wgsl: source, label: label}, nil
}

// ParseSPIRV parses a SPIR-V binary (as a little-endian word stream)
// into a Module.
func ParseSPIRV(label string, words []uint32) (*Module, error) {
	ir, err := parseSPIRV(words)
	if err != nil {
		return nil, &rgraph.SpirvParseError{Err: err}
	}
	return &Module{ir: ir, kind: SourceSPIRV, spirv: words, label: label}, nil
}

// CreateShaderModule creates the driver shader module for m, in the
// same descriptor shape wgpu_renderer_backend.go's InitComputePipeline
// builds for WGSL sources, extended with the SPIR-V descriptor variant
// for SourceSPIRV modules.
func (m *Module) CreateShaderModule(device *wgpu.Device) (*wgpu.ShaderModule, error) {
	desc := &wgpu.ShaderModuleDescriptor{Label: m.label}
	switch m.kind {
	case SourceSPIRV:
		desc.SPIRVDescriptor = &wgpu.ShaderModuleSPIRVDescriptor{Code: m.spirv}
	default:
		desc.WGSLDescriptor = &wgpu.ShaderModuleWGSLDescriptor{Code: m.wgsl}
	}
	module, err := device.CreateShaderModule(desc)
	if err != nil {
		return nil, fmt.Errorf("rgraph/shader: create shader module: %w", err)
	}
	return module, nil
}

// maxBindGroups mirrors the driver's default bind-group limit; groups
// at or beyond this index are rejected the same way
// original_source/src/reflect.rs rejects group indices past
// MAX_BIND_GROUPS.
const maxBindGroups = 4

// SamplerBinding names one (group, binding) pair declared in a shader
// module, used to mark which sampler bindings the caller has decided
// are non-filtering ahead of reflection.
type SamplerBinding struct {
	Group   uint32
	Binding uint32
}

// reflectConfig holds Reflect's optional configuration, populated by
// ReflectorOption the same way renderer_builder.go populates its
// builder config from RendererBuilderOption.
type reflectConfig struct {
	nonFilteringSamplers map[SamplerBinding]bool
}

// ReflectorOption configures Reflect.
type ReflectorOption func(*reflectConfig)

// WithNonFilteringSamplers marks the given sampler bindings as
// non-filtering: Reflect classifies them as Sampler(NonFiltering)
// rather than Sampler(Filtering), and any sampled-float image paired
// with one of them through a sampling call loses its filterable flag.
func WithNonFilteringSamplers(bindings ...SamplerBinding) ReflectorOption {
	return func(c *reflectConfig) {
		for _, b := range bindings {
			c.nonFilteringSamplers[b] = true
		}
	}
}

// Reflect finds entryPoint within the module, verifies it is a compute
// shader, classifies every global it actually uses into per-group
// bind-group layout entries, and creates the pipeline layout and
// compute pipeline against device. Mirrors
// original_source/src/reflect.rs's compute_pipeline_from_module: find
// entry point, check stage, collect used-and-bound globals, group by
// bind-group index, truncate to the last active group, build layouts.
func Reflect(device *wgpu.Device, m *Module, entryPoint string, opts ...ReflectorOption) (rgraph.ReflectedComputePipeline, error) {
	epIdx := m.ir.FindEntryPoint(entryPoint)
	if epIdx < 0 {
		return rgraph.ReflectedComputePipeline{}, &rgraph.MissingEntryPointError{Name: entryPoint}
	}
	ep := m.ir.EntryPoints[epIdx]
	if !ep.IsCompute {
		return rgraph.ReflectedComputePipeline{}, &rgraph.WrongShaderTypeError{Name: entryPoint}
	}

	cfg := &reflectConfig{nonFilteringSamplers: make(map[SamplerBinding]bool)}
	for _, opt := range opts {
		opt(cfg)
	}

	shaderModule, err := m.CreateShaderModule(device)
	if err != nil {
		return rgraph.ReflectedComputePipeline{}, err
	}

	filterable := computeFilterableOverrides(m.ir.Globals, ep, cfg.nonFilteringSamplers)

	lastActiveGroup := -1
	perGroup := make(map[uint32][]rgraph.BindGroupLayoutEntry)
	for idx, used := range ep.UsedGlobals {
		if !used {
			continue
		}
		g := m.ir.Globals[idx]
		if g.Space == AddressSpacePushConstant {
			return rgraph.ReflectedComputePipeline{}, fmt.Errorf("rgraph/shader: push constants are not supported")
		}
		if int(g.Group) >= maxBindGroups {
			return rgraph.ReflectedComputePipeline{}, &rgraph.BindGroupTooHighError{Group: g.Group}
		}

		nonFiltering := cfg.nonFilteringSamplers[SamplerBinding{Group: g.Group, Binding: g.Binding}]
		entry, err := classifyToLayoutEntry(g, filterable[idx], nonFiltering)
		if err != nil {
			return rgraph.ReflectedComputePipeline{}, err
		}
		perGroup[g.Group] = append(perGroup[g.Group], entry)
		if int(g.Group) > lastActiveGroup {
			lastActiveGroup = int(g.Group)
		}
	}

	groupLayouts := make([]rgraph.ReflectedGroupLayout, 0, lastActiveGroup+1)
	bglHandles := make([]*wgpu.BindGroupLayout, 0, lastActiveGroup+1)
	for i := 0; i <= lastActiveGroup; i++ {
		entries := perGroup[uint32(i)]
		wgpuEntries := make([]wgpu.BindGroupLayoutEntry, len(entries))
		byBinding := make(map[uint32]rgraph.BindGroupLayoutEntry, len(entries))
		for j, e := range entries {
			wgpuEntries[j] = e.ToWGPU()
			byBinding[e.Binding] = e
		}

		layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s/group%d", entryPoint, i),
			Entries: wgpuEntries,
		})
		if err != nil {
			return rgraph.ReflectedComputePipeline{}, fmt.Errorf("rgraph/shader: create bind group layout %d: %w", i, err)
		}
		groupLayouts = append(groupLayouts, rgraph.ReflectedGroupLayout{WGPU: layout, Entries: byBinding})
		bglHandles = append(bglHandles, layout)
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            entryPoint + "/layout",
		BindGroupLayouts: bglHandles,
	})
	if err != nil {
		return rgraph.ReflectedComputePipeline{}, fmt.Errorf("rgraph/shader: create pipeline layout: %w", err)
	}

	pipeline, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  entryPoint,
		Layout: pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     shaderModule,
			EntryPoint: entryPoint,
		},
	})
	if err != nil {
		return rgraph.ReflectedComputePipeline{}, fmt.Errorf("rgraph/shader: create compute pipeline: %w", err)
	}

	return rgraph.ReflectedComputePipeline{
		Pipeline:       pipeline,
		PipelineLayout: pipelineLayout,
		GroupLayouts:   groupLayouts,
	}, nil
}

// computeFilterableOverrides refines each sampled-float TextureGlobal's
// Filterable flag to false if any sampler it is paired with (via
// SamplingPairs) is comparison or in the caller's non-filtering set,
// the same narrowing crates/rending_reflect/src/lib.rs applies via its
// sampling_set before deciding TextureSampleType::Float { filterable }.
// A texture never sampled through such a sampler keeps its default.
func computeFilterableOverrides(globals []Global, ep EntryPoint, nonFilteringSamplers map[SamplerBinding]bool) map[int]bool {
	result := make(map[int]bool, len(globals))
	for idx := range ep.UsedGlobals {
		if g := globals[idx]; g.Texture != nil {
			result[idx] = g.Texture.Filterable
		}
	}
	for _, pair := range ep.SamplingPairs {
		texIdx, sampIdx := pair[0], pair[1]
		if sampIdx >= len(globals) || globals[sampIdx].Sampler == nil {
			continue
		}
		samp := globals[sampIdx]
		if samp.Sampler.Comparison || nonFilteringSamplers[SamplerBinding{Group: samp.Group, Binding: samp.Binding}] {
			result[texIdx] = false
		}
	}
	return result
}

// classifyToLayoutEntry turns one used Global into the bind-group
// layout entry the pipeline/group layout creation above consumes,
// mirroring compute_pipeline_from_module's per-binding dispatch on
// naga's AddressSpace/TypeInner.
func classifyToLayoutEntry(g Global, filterable, nonFiltering bool) (rgraph.BindGroupLayoutEntry, error) {
	entry := rgraph.BindGroupLayoutEntry{
		Binding:    g.Binding,
		Visibility: wgpu.ShaderStageCompute,
	}

	switch g.Space {
	case AddressSpaceUniform:
		entry.Buffer = &rgraph.BufferLayoutEntry{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: g.Buffer.MinBindingSize,
		}
	case AddressSpaceStorage:
		bindingType := wgpu.BufferBindingTypeStorage
		if g.Buffer.ReadOnly {
			bindingType = wgpu.BufferBindingTypeReadOnlyStorage
		}
		entry.Buffer = &rgraph.BufferLayoutEntry{
			Type:           bindingType,
			MinBindingSize: g.Buffer.MinBindingSize,
		}
	case AddressSpaceHandleSampler:
		bindingType := wgpu.SamplerBindingTypeFiltering
		switch {
		case g.Sampler.Comparison:
			bindingType = wgpu.SamplerBindingTypeComparison
		case nonFiltering:
			bindingType = wgpu.SamplerBindingTypeNonFiltering
		}
		entry.Sampler = &rgraph.SamplerLayoutEntry{Type: bindingType}
	case AddressSpaceHandleTexture:
		tex := g.Texture
		viewDim := imageDimensionToViewDimension(tex.Dim, tex.Arrayed)
		switch tex.Class {
		case ImageClassStorage:
			entry.Storage = &rgraph.StorageTextureLayoutEntry{
				Access:        tex.StorageAccess,
				Format:        tex.StorageFormat,
				ViewDimension: viewDim,
			}
		case ImageClassDepth:
			entry.Texture = &rgraph.TextureLayoutEntry{
				SampleType:    rgraph.SampleType{Kind: rgraph.SampleTypeDepth},
				ViewDimension: viewDim,
				Multisampled:  tex.Multisampled,
			}
		default:
			sampleKind := sampleTypeKindIRToKind(tex.SampleKind)
			entry.Texture = &rgraph.TextureLayoutEntry{
				SampleType:    rgraph.SampleType{Kind: sampleKind, Filterable: filterable},
				ViewDimension: viewDim,
				Multisampled:  tex.Multisampled,
			}
		}
	case AddressSpacePushConstant:
		return entry, fmt.Errorf("rgraph/shader: push constants are not supported")
	}

	return entry, nil
}

func sampleTypeKindIRToKind(k SampleTypeKindIR) rgraph.SampleTypeKind {
	switch k {
	case SampleKindUint:
		return rgraph.SampleTypeUint
	case SampleKindSint:
		return rgraph.SampleTypeSint
	default:
		return rgraph.SampleTypeFloat
	}
}

func imageDimensionToViewDimension(dim ImageDimensionKind, arrayed bool) rgraph.TextureViewDimension {
	switch dim {
	case ImageDimension1D:
		return rgraph.TextureViewDimension1D
	case ImageDimension3D:
		return rgraph.TextureViewDimension3D
	case ImageDimensionCube:
		if arrayed {
			return rgraph.TextureViewDimensionCubeArray
		}
		return rgraph.TextureViewDimensionCube
	default:
		if arrayed {
			return rgraph.TextureViewDimension2DArray
		}
		return rgraph.TextureViewDimension2D
	}
}
