package rgraph

import "github.com/cogentcore/webgpu/wgpu"

// BufferUsage is a bitflag set over the buffer usage kinds the constraint
// model tracks, independent of the driver's own flag type so that
// constraint accumulation (union merges) stays a plain value type.
type BufferUsage uint32

const (
	BufferUsageUniform BufferUsage = 1 << iota
	BufferUsageStorage
	BufferUsageCopySrc
	BufferUsageCopyDst
	BufferUsageMapRead
	BufferUsageMapWrite
	BufferUsageIndirect
	BufferUsageIndex
	BufferUsageVertex
	BufferUsageQueryResolve
)

// Contains reports whether u has every flag set in other.
func (u BufferUsage) Contains(other BufferUsage) bool {
	return u&other == other
}

// ToWGPU converts the constraint-space flag set to the driver's own
// wgpu.BufferUsage flags.
func (u BufferUsage) ToWGPU() wgpu.BufferUsage {
	var out wgpu.BufferUsage
	if u&BufferUsageUniform != 0 {
		out |= wgpu.BufferUsageUniform
	}
	if u&BufferUsageStorage != 0 {
		out |= wgpu.BufferUsageStorage
	}
	if u&BufferUsageCopySrc != 0 {
		out |= wgpu.BufferUsageCopySrc
	}
	if u&BufferUsageCopyDst != 0 {
		out |= wgpu.BufferUsageCopyDst
	}
	if u&BufferUsageMapRead != 0 {
		out |= wgpu.BufferUsageMapRead
	}
	if u&BufferUsageMapWrite != 0 {
		out |= wgpu.BufferUsageMapWrite
	}
	if u&BufferUsageIndirect != 0 {
		out |= wgpu.BufferUsageIndirect
	}
	if u&BufferUsageIndex != 0 {
		out |= wgpu.BufferUsageIndex
	}
	if u&BufferUsageVertex != 0 {
		out |= wgpu.BufferUsageVertex
	}
	if u&BufferUsageQueryResolve != 0 {
		out |= wgpu.BufferUsageQueryResolve
	}
	return out
}

// BufferConstraints is the per-virtual-buffer accumulating constraint
// record: min_size merges by max, min_usages merges by union.
type BufferConstraints struct {
	MinSize   uint64
	MinUsages BufferUsage
}

// Merge folds additional requirements into b.
func (b *BufferConstraints) Merge(minSize uint64, usages BufferUsage) {
	if minSize > b.MinSize {
		b.MinSize = minSize
	}
	b.MinUsages |= usages
}

// TextureUsage is a bitflag set over the texture usage kinds tracked by the
// constraint model.
type TextureUsage uint32

const (
	TextureUsageTextureBinding TextureUsage = 1 << iota
	TextureUsageStorageBinding
	TextureUsageRenderAttachment
	TextureUsageCopySrc
	TextureUsageCopyDst
)

func (u TextureUsage) Contains(other TextureUsage) bool {
	return u&other == other
}

func (u TextureUsage) ToWGPU() wgpu.TextureUsage {
	var out wgpu.TextureUsage
	if u&TextureUsageTextureBinding != 0 {
		out |= wgpu.TextureUsageTextureBinding
	}
	if u&TextureUsageStorageBinding != 0 {
		out |= wgpu.TextureUsageStorageBinding
	}
	if u&TextureUsageRenderAttachment != 0 {
		out |= wgpu.TextureUsageRenderAttachment
	}
	if u&TextureUsageCopySrc != 0 {
		out |= wgpu.TextureUsageCopySrc
	}
	if u&TextureUsageCopyDst != 0 {
		out |= wgpu.TextureUsageCopyDst
	}
	return out
}

// TextureSizeKind distinguishes the dimensionality of a declared texture
// size.
type TextureSizeKind int

const (
	TextureSizeD1 TextureSizeKind = iota
	TextureSizeD2
	TextureSizeD3
	TextureSizeD2Array
)

// TextureSize is the tagged-union declared texture size from spec §3.
type TextureSize struct {
	Kind   TextureSizeKind
	X      uint32
	Y      uint32
	Z      uint32 // depth for D3
	Layers uint32 // for D2Array
}

// ToWGPU converts a declared TextureSize into the driver's dimension and
// extent pair, following the same (dimension, extent) split the teacher's
// RenderContext.texture helper performs in original_source/src/context.rs.
func (s TextureSize) ToWGPU() (wgpu.TextureDimension, wgpu.Extent3D) {
	switch s.Kind {
	case TextureSizeD1:
		return wgpu.TextureDimension1D, wgpu.Extent3D{Width: s.X, Height: 1, DepthOrArrayLayers: 1}
	case TextureSizeD3:
		return wgpu.TextureDimension3D, wgpu.Extent3D{Width: s.X, Height: s.Y, DepthOrArrayLayers: s.Z}
	case TextureSizeD2Array:
		return wgpu.TextureDimension2D, wgpu.Extent3D{Width: s.X, Height: s.Y, DepthOrArrayLayers: s.Layers}
	default:
		return wgpu.TextureDimension2D, wgpu.Extent3D{Width: s.X, Height: s.Y, DepthOrArrayLayers: 1}
	}
}

// SampleTypeKind distinguishes the scalar kinds a texture sample type can
// take.
type SampleTypeKind int

const (
	SampleTypeFloat SampleTypeKind = iota
	SampleTypeDepth
	SampleTypeUint
	SampleTypeSint
)

// SampleType is a texture sample type as inferred from shader usage: a
// scalar kind plus, for Float, whether filtering sampling is required.
type SampleType struct {
	Kind       SampleTypeKind
	Filterable bool
}

func (s SampleType) ToWGPU() wgpu.TextureSampleType {
	switch s.Kind {
	case SampleTypeDepth:
		return wgpu.TextureSampleTypeDepth
	case SampleTypeUint:
		return wgpu.TextureSampleTypeUint
	case SampleTypeSint:
		return wgpu.TextureSampleTypeSint
	default:
		return wgpu.TextureSampleTypeFloat
	}
}

// SampleTypeConstraintState distinguishes the three states a constrained
// sample type can be in, matching the Unconstrained|Constrained|Conflicted
// tagged union from spec §3.
type SampleTypeConstraintState int

const (
	SampleTypeUnconstrained SampleTypeConstraintState = iota
	SampleTypeConstrained
	SampleTypeConflicted
)

// SampleTypeConstraint tracks the accumulated, possibly-conflicting sample
// type declared for a texture across all of its bindings.
type SampleTypeConstraint struct {
	State SampleTypeConstraintState
	A, B  SampleType
}

// sampleTypeCompatible reports whether merging "next" into "have" can be
// resolved to a single sample type, and if so, what that type is. It
// implements the compatibility ladder from spec §3:
//   - Float{filterable:false} upgrades to Float{filterable:true} or Depth.
//   - Depth is compatible with Depth and with Float{filterable:false}.
//   - All other cross-kind pairs conflict.
func sampleTypeCompatible(have, next SampleType) (SampleType, bool) {
	if have == next {
		return have, true
	}
	if have.Kind == SampleTypeFloat && !have.Filterable {
		if next.Kind == SampleTypeFloat {
			return next, true
		}
		if next.Kind == SampleTypeDepth {
			return next, true
		}
	}
	if next.Kind == SampleTypeFloat && !next.Filterable {
		if have.Kind == SampleTypeFloat {
			return have, true
		}
		if have.Kind == SampleTypeDepth {
			return have, true
		}
	}
	if have.Kind == SampleTypeDepth && next.Kind == SampleTypeFloat && !next.Filterable {
		return have, true
	}
	return SampleType{}, false
}

// Merge folds an observed sample type into the constraint, applying the
// ladder above and recording a Conflicted state if the two are
// incompatible.
func (c *SampleTypeConstraint) Merge(next SampleType) {
	switch c.State {
	case SampleTypeUnconstrained:
		c.State = SampleTypeConstrained
		c.A = next
	case SampleTypeConstrained:
		if merged, ok := sampleTypeCompatible(c.A, next); ok {
			c.A = merged
			return
		}
		c.State = SampleTypeConflicted
		c.B = next
	case SampleTypeConflicted:
		// Already conflicted; preserve the first recorded conflict pair so
		// error reporting can name both original inputs.
	}
}

// TextureConstraints is the per-virtual-texture accumulating constraint
// record from spec §3.
type TextureConstraints struct {
	HasSize      bool
	Size         TextureSize
	MinSizeX     uint32
	MinSizeY     uint32
	MinSizeZ     uint32
	HasFormat    bool
	Format       wgpu.TextureFormat
	MinMipLevels uint32
	MinSamples   uint32
	MinUsages    TextureUsage
	HasDepth     bool
	HasStencil   bool
	Multisampled bool
	SampleType   SampleTypeConstraint
}

// DeclareSize applies an explicit has_size declaration. A later conflicting
// declaration on the same texture is a construction-time programmer error
// and panics, per spec §3 ("subsequent conflicting has_size is fatal").
func (t *TextureConstraints) DeclareSize(name string, size TextureSize) {
	if t.HasSize && t.Size != size {
		panic(conflictingDeclarationMessage(name, "size"))
	}
	t.HasSize = true
	t.Size = size
}

// DeclareFormat applies an explicit has_format declaration; conflicting
// re-declaration panics.
func (t *TextureConstraints) DeclareFormat(name string, format wgpu.TextureFormat) {
	if t.HasFormat && t.Format != format {
		panic(conflictingDeclarationMessage(name, "format"))
	}
	t.HasFormat = true
	t.Format = format
}

// BumpMinSize raises the per-axis size maxima.
func (t *TextureConstraints) BumpMinSize(x, y, z uint32) {
	if x > t.MinSizeX {
		t.MinSizeX = x
	}
	if y > t.MinSizeY {
		t.MinSizeY = y
	}
	if z > t.MinSizeZ {
		t.MinSizeZ = z
	}
}

func conflictingDeclarationMessage(name, field string) string {
	return "rgraph: conflicting " + field + " declaration for texture \"" + name + "\""
}
