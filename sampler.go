package rgraph

import (
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// SamplerTypeConstraintState mirrors SampleTypeConstraintState but for the
// sampler binding type (Filtering/NonFiltering/Comparison) a retained
// sampler is used as across all of its bindings.
type SamplerTypeConstraintState int

const (
	SamplerTypeUnconstrained SamplerTypeConstraintState = iota
	SamplerTypeConstrained
	SamplerTypeConflicted
)

// SamplerTypeConstraint accumulates the wgpu.SamplerBindingType a sampler
// is bound as, flagging Filtering->NonFiltering upgrades as compatible (a
// filtering-capable sampler can always satisfy a non-filtering slot) and
// anything else as conflicted.
type SamplerTypeConstraint struct {
	State SamplerTypeConstraintState
	A, B  wgpu.SamplerBindingType
}

func (c *SamplerTypeConstraint) Merge(next wgpu.SamplerBindingType) {
	switch c.State {
	case SamplerTypeUnconstrained:
		c.State = SamplerTypeConstrained
		c.A = next
	case SamplerTypeConstrained:
		switch {
		case c.A == next:
			return
		case c.A == wgpu.SamplerBindingTypeFiltering && next == wgpu.SamplerBindingTypeNonFiltering:
			return
		case next == wgpu.SamplerBindingTypeFiltering && c.A == wgpu.SamplerBindingTypeNonFiltering:
			c.A = next
			return
		default:
			c.State = SamplerTypeConflicted
			c.B = next
		}
	case SamplerTypeConflicted:
	}
}

// SamplerConstraints is the per-virtual-sampler accumulating constraint
// record, grounded on original_source/src/resources/sampler.rs's
// SamplerConstraints. Verify checks a retained sampler's actual
// descriptor against the accumulated binding type (Filtering needs a
// linear mag or min filter, Comparison needs a compare function) and
// against any address modes set here; the MagFilter, MinFilter,
// MipmapFilter, LodMinClamp, LodMaxClamp, Compare and Anisotropy fields
// are not checked.
type SamplerConstraints struct {
	AddressModeU  *wgpu.AddressMode
	AddressModeV  *wgpu.AddressMode
	AddressModeW  *wgpu.AddressMode
	MagFilter     *wgpu.FilterMode
	MinFilter     *wgpu.FilterMode
	MipmapFilter  *wgpu.FilterMode
	LodMinClamp   float32
	LodMaxClamp   float32
	Compare       *wgpu.CompareFunction
	Anisotropy    uint16
	Type          SamplerTypeConstraint
}

// NewSamplerConstraints returns a SamplerConstraints with the default LOD
// clamp range used throughout the driver surface.
func NewSamplerConstraints() SamplerConstraints {
	return SamplerConstraints{LodMinClamp: 0, LodMaxClamp: float32(math.Inf(1))}
}

// Verify checks that an actual, caller-supplied sampler descriptor
// satisfies every constraint accumulated for a retained sampler named
// name. It returns a *SamplerConstraintsUnfulfilledError carrying both
// sides on the first mismatch, or nil.
func (c SamplerConstraints) Verify(name string, actual SamplerDescriptor) error {
	if c.Type.State == SamplerTypeConflicted {
		return &SamplerConstraintsUnfulfilledError{Name: name, Want: c, Got: actual}
	}
	if c.Type.State == SamplerTypeConstrained {
		switch c.Type.A {
		case wgpu.SamplerBindingTypeFiltering:
			if actual.MagFilter != wgpu.FilterModeLinear && actual.MinFilter != wgpu.FilterModeLinear {
				return &SamplerConstraintsUnfulfilledError{Name: name, Want: c, Got: actual}
			}
		case wgpu.SamplerBindingTypeComparison:
			if actual.Compare == nil {
				return &SamplerConstraintsUnfulfilledError{Name: name, Want: c, Got: actual}
			}
		}
	}
	if c.AddressModeU != nil && *c.AddressModeU != actual.AddressModeU {
		return &SamplerConstraintsUnfulfilledError{Name: name, Want: c, Got: actual}
	}
	if c.AddressModeV != nil && *c.AddressModeV != actual.AddressModeV {
		return &SamplerConstraintsUnfulfilledError{Name: name, Want: c, Got: actual}
	}
	if c.AddressModeW != nil && *c.AddressModeW != actual.AddressModeW {
		return &SamplerConstraintsUnfulfilledError{Name: name, Want: c, Got: actual}
	}
	return nil
}

// SamplerDescriptor is the resolved set of parameters a caller-retained
// sampler actually has, used only for constraint verification.
type SamplerDescriptor struct {
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	MagFilter, MinFilter, MipmapFilter        wgpu.FilterMode
	Compare                                   *wgpu.CompareFunction
	BorderColor                               wgpu.SamplerBorderColor
}
