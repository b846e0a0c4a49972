package rgraph

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Reflection errors.

// MissingEntryPointError reports that the requested entry point name is not
// present in the shader module.
type MissingEntryPointError struct{ Name string }

func (e *MissingEntryPointError) Error() string {
	return fmt.Sprintf("rgraph: entry point %q is missing from module", e.Name)
}

// WrongShaderTypeError reports that the requested entry point exists but is
// not a compute shader.
type WrongShaderTypeError struct{ Name string }

func (e *WrongShaderTypeError) Error() string {
	return fmt.Sprintf("rgraph: entry point %q is not a compute shader", e.Name)
}

// BindGroupTooHighError reports a resource binding whose group index
// exceeds the driver's maximum bind-group count.
type BindGroupTooHighError struct{ Group uint32 }

func (e *BindGroupTooHighError) Error() string {
	return fmt.Sprintf("rgraph: bind group %d is greater than the maximum amount of bind groups", e.Group)
}

// SpirvParseError wraps a failure decoding a SPIR-V word stream.
type SpirvParseError struct{ Err error }

func (e *SpirvParseError) Error() string { return fmt.Sprintf("rgraph: spirv parse error: %v", e.Err) }
func (e *SpirvParseError) Unwrap() error { return e.Err }

// WgslParseError wraps a failure parsing WGSL source.
type WgslParseError struct{ Err error }

func (e *WgslParseError) Error() string { return fmt.Sprintf("rgraph: wgsl parse error: %v", e.Err) }
func (e *WgslParseError) Unwrap() error { return e.Err }

// ValidationError reports that a parsed module failed semantic validation.
type ValidationError struct{ Reason string }

func (e *ValidationError) Error() string { return "rgraph: module validation failed: " + e.Reason }

// Graph errors.

// MissingNodeError reports a before/after edge naming a node that was
// never added to the graph.
type MissingNodeError struct{ Name string }

func (e *MissingNodeError) Error() string {
	return fmt.Sprintf("rgraph: node %q referenced in ordering constraints was never added", e.Name)
}

// CycleDetectedError reports a dependency cycle discovered during
// topological sort.
type CycleDetectedError struct{ A, B string }

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("rgraph: cycle detected between %q and %q", e.A, e.B)
}

// ConflictPair names two nodes whose access to a shared resource is
// unordered and conflicting.
type ConflictPair struct{ A, B string }

// WriteOrderAmbiguityError reports every unordered, conflicting node pair
// discovered during ambiguity analysis.
type WriteOrderAmbiguityError struct{ Pairs []ConflictPair }

func (e *WriteOrderAmbiguityError) Error() string {
	return fmt.Sprintf("rgraph: write-order ambiguity across %d node pair(s)", len(e.Pairs))
}

// Buffer binding errors.

// BufferTooSmallError reports a retained buffer whose actual size is
// smaller than the accumulated minimum.
type BufferTooSmallError struct {
	Name           string
	Actual, MinReq uint64
}

func (e *BufferTooSmallError) Error() string {
	return fmt.Sprintf("rgraph: buffer %q is too small (actual %d, needs at least %d)", e.Name, e.Actual, e.MinReq)
}

// BufferMissingUsagesError reports a retained buffer that does not carry
// every usage flag its uses require.
type BufferMissingUsagesError struct {
	Name    string
	Missing BufferUsage
}

func (e *BufferMissingUsagesError) Error() string {
	return fmt.Sprintf("rgraph: buffer %q is missing required usage flags %v", e.Name, e.Missing)
}

// Texture binding errors, field shapes grounded on
// original_source/src/resources/texture.rs's TextureError enum.

type UnconstrainedTextureSizeError struct{ Name string }

func (e *UnconstrainedTextureSizeError) Error() string {
	return fmt.Sprintf("rgraph: texture %q has no declared size", e.Name)
}

type SizeLessThanMinSizeError struct {
	Name     string
	Min, Got TextureSize
}

func (e *SizeLessThanMinSizeError) Error() string {
	return fmt.Sprintf("rgraph: texture %q size %v is smaller than required minimum %v", e.Name, e.Got, e.Min)
}

type UnconstrainedTextureFormatError struct{ Name string }

func (e *UnconstrainedTextureFormatError) Error() string {
	return fmt.Sprintf("rgraph: texture %q has no declared format", e.Name)
}

type FormatNotStorageCompatibleError struct {
	Name   string
	Format wgpu.TextureFormat
}

func (e *FormatNotStorageCompatibleError) Error() string {
	return fmt.Sprintf("rgraph: texture %q format %v is not storage-binding compatible", e.Name, e.Format)
}

type FormatNotRenderCompatibleError struct {
	Name   string
	Format wgpu.TextureFormat
}

func (e *FormatNotRenderCompatibleError) Error() string {
	return fmt.Sprintf("rgraph: texture %q format %v is not render-attachment compatible", e.Name, e.Format)
}

type FormatNotMultisampleCompatibleError struct {
	Name   string
	Format wgpu.TextureFormat
}

func (e *FormatNotMultisampleCompatibleError) Error() string {
	return fmt.Sprintf("rgraph: texture %q format %v cannot be multisampled", e.Name, e.Format)
}

type FormatNotSampleTypeCompatibleError struct {
	Name       string
	Format     wgpu.TextureFormat
	SampleType SampleType
}

func (e *FormatNotSampleTypeCompatibleError) Error() string {
	return fmt.Sprintf("rgraph: texture %q format %v is not compatible with required sample type %v", e.Name, e.Format, e.SampleType)
}

type ConflictingSampleTypesError struct {
	Name string
	A, B SampleType
}

func (e *ConflictingSampleTypesError) Error() string {
	return fmt.Sprintf("rgraph: texture %q has conflicting sample types %v and %v", e.Name, e.A, e.B)
}

type FormatNotDepthError struct{ Name string }

func (e *FormatNotDepthError) Error() string {
	return fmt.Sprintf("rgraph: texture %q format is not a depth format", e.Name)
}

type FormatNotStencilError struct{ Name string }

func (e *FormatNotStencilError) Error() string {
	return fmt.Sprintf("rgraph: texture %q format is not a stencil format", e.Name)
}

type TooFewSamplesError struct {
	Name          string
	Min, Actual   uint32
}

func (e *TooFewSamplesError) Error() string {
	return fmt.Sprintf("rgraph: texture %q has %d samples, needs at least %d", e.Name, e.Actual, e.Min)
}

type TextureSizeMismatchError struct {
	Name        string
	Want, Got   TextureSize
}

func (e *TextureSizeMismatchError) Error() string {
	return fmt.Sprintf("rgraph: retained texture %q size %v does not match declared size %v", e.Name, e.Got, e.Want)
}

type TextureFormatMismatchError struct {
	Name      string
	Want, Got wgpu.TextureFormat
}

func (e *TextureFormatMismatchError) Error() string {
	return fmt.Sprintf("rgraph: retained texture %q format %v does not match declared format %v", e.Name, e.Got, e.Want)
}

type TextureMissingUsagesError struct {
	Name    string
	Missing TextureUsage
}

func (e *TextureMissingUsagesError) Error() string {
	return fmt.Sprintf("rgraph: texture %q is missing required usage flags %v", e.Name, e.Missing)
}

type InsufficientMipLevelsError struct {
	Name        string
	Min, Actual uint32
}

func (e *InsufficientMipLevelsError) Error() string {
	return fmt.Sprintf("rgraph: texture %q has %d mip levels, needs at least %d", e.Name, e.Actual, e.Min)
}

type InsufficientSamplesError struct {
	Name        string
	Min, Actual uint32
}

func (e *InsufficientSamplesError) Error() string {
	return fmt.Sprintf("rgraph: texture %q has %d samples, needs at least %d", e.Name, e.Actual, e.Min)
}

// SamplerConstraintsUnfulfilledError reports a retained sampler that does
// not fulfill its accumulated constraints, grounded on
// original_source/src/resources/sampler.rs's SamplerError::ConstraintsUnfulfilled.
type SamplerConstraintsUnfulfilledError struct {
	Name string
	Want SamplerConstraints
	Got  SamplerDescriptor
}

func (e *SamplerConstraintsUnfulfilledError) Error() string {
	return fmt.Sprintf("rgraph: retained sampler %q does not fulfill its constraints (want %+v, got %+v)", e.Name, e.Want, e.Got)
}
