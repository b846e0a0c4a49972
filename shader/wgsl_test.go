package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const storageComputeWGSL = `
struct Params {
	scale: f32,
}

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var<storage, read_write> data: array<u32>;

@compute @workgroup_size(64, 1, 1)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
	data[gid.x] = data[gid.x] * u32(params.scale);
}
`

func TestParseWGSLFindsGlobalsAndEntryPoint(t *testing.T) {
	ir, err := parseWGSL(storageComputeWGSL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ir.Globals) != 2 {
		t.Fatalf("expected 2 globals, got %d", len(ir.Globals))
	}
	if ir.FindEntryPoint("main") < 0 {
		t.Fatalf("expected to find entry point \"main\"")
	}
	ep := ir.EntryPoints[ir.FindEntryPoint("main")]
	if !ep.IsCompute {
		t.Fatalf("expected main to be classified as a compute entry point")
	}
	if ep.WorkgroupSize != [3]uint32{64, 1, 1} {
		t.Fatalf("expected workgroup size [64 1 1], got %v", ep.WorkgroupSize)
	}
	if len(ep.UsedGlobals) != 2 {
		t.Fatalf("expected both globals to be marked used, got %v", ep.UsedGlobals)
	}
}

func TestParseWGSLClassifiesUniformAndStorage(t *testing.T) {
	ir, err := parseWGSL(storageComputeWGSL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var uniform, storage *Global
	for i := range ir.Globals {
		g := &ir.Globals[i]
		switch g.Space {
		case AddressSpaceUniform:
			uniform = g
		case AddressSpaceStorage:
			storage = g
		}
	}
	if uniform == nil || uniform.Buffer == nil {
		t.Fatalf("expected a uniform buffer global")
	}
	if storage == nil || storage.Buffer == nil {
		t.Fatalf("expected a storage buffer global")
	}
	if storage.Buffer.ReadOnly {
		t.Fatalf("expected read_write storage buffer to not be marked read-only")
	}
}

const sampledTextureWGSL = `
@group(0) @binding(0) var tex: texture_2d<f32>;
@group(0) @binding(1) var samp: sampler;

@compute @workgroup_size(8, 8, 1)
fn sample_main(@builtin(global_invocation_id) gid: vec3<u32>) {
	let c = textureSampleLevel(tex, samp, vec2<f32>(0.0, 0.0), 0.0);
}
`

func TestParseWGSLFindsSamplingPairs(t *testing.T) {
	ir, err := parseWGSL(sampledTextureWGSL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ep := ir.EntryPoints[ir.FindEntryPoint("sample_main")]
	if len(ep.SamplingPairs) != 1 {
		t.Fatalf("expected exactly one sampling pair, got %d", len(ep.SamplingPairs))
	}
	texIdx, sampIdx := ep.SamplingPairs[0][0], ep.SamplingPairs[0][1]
	if ir.Globals[texIdx].Texture == nil {
		t.Fatalf("expected sampling pair's first element to be a texture global")
	}
	if ir.Globals[sampIdx].Sampler == nil {
		t.Fatalf("expected sampling pair's second element to be a sampler global")
	}
}

func TestReflectMissingEntryPoint(t *testing.T) {
	m, err := ParseWGSL("test", storageComputeWGSL)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, err = Reflect(nil, m, "does_not_exist")
	if err == nil {
		t.Fatalf("expected an error for a missing entry point")
	}
}

func TestNonFilteringSamplerOverridesLayoutAndFilterable(t *testing.T) {
	ir, err := parseWGSL(sampledTextureWGSL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ep := ir.EntryPoints[ir.FindEntryPoint("sample_main")]
	texIdx, sampIdx := ep.SamplingPairs[0][0], ep.SamplingPairs[0][1]
	sampGlobal := ir.Globals[sampIdx]

	nonFiltering := map[SamplerBinding]bool{
		{Group: sampGlobal.Group, Binding: sampGlobal.Binding}: true,
	}
	filterable := computeFilterableOverrides(ir.Globals, ep, nonFiltering)
	if filterable[texIdx] {
		t.Fatalf("expected the sampled texture to lose its filterable flag")
	}

	entry, err := classifyToLayoutEntry(sampGlobal, false, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Sampler == nil || entry.Sampler.Type != wgpu.SamplerBindingTypeNonFiltering {
		t.Fatalf("expected Sampler(NonFiltering), got %+v", entry.Sampler)
	}
}

func TestClassifyToLayoutEntryStorageTexture(t *testing.T) {
	g := Global{
		Group:   0,
		Binding: 0,
		Space:   AddressSpaceHandleTexture,
		Texture: &TextureGlobal{
			Dim:           ImageDimension2D,
			Class:         ImageClassStorage,
			StorageFormat: wgpu.TextureFormatRGBA8Unorm,
			StorageAccess: wgpu.StorageTextureAccessWriteOnly,
		},
	}
	entry, err := classifyToLayoutEntry(g, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Storage == nil {
		t.Fatalf("expected a storage texture layout entry")
	}
	if entry.Storage.Format != wgpu.TextureFormatRGBA8Unorm {
		t.Fatalf("expected RGBA8Unorm format, got %v", entry.Storage.Format)
	}
}
