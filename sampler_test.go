package rgraph

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestSamplerTypeConstraintFilteringSatisfiesNonFiltering(t *testing.T) {
	var c SamplerTypeConstraint
	c.Merge(wgpu.SamplerBindingTypeFiltering)
	c.Merge(wgpu.SamplerBindingTypeNonFiltering)

	if c.State != SamplerTypeConstrained {
		t.Fatalf("expected filtering to satisfy a non-filtering use, got state %v", c.State)
	}
	if c.A != wgpu.SamplerBindingTypeFiltering {
		t.Fatalf("expected the filtering requirement to be retained, got %v", c.A)
	}
}

func TestSamplerTypeConstraintConflict(t *testing.T) {
	var c SamplerTypeConstraint
	c.Merge(wgpu.SamplerBindingTypeComparison)
	c.Merge(wgpu.SamplerBindingTypeFiltering)

	if c.State != SamplerTypeConflicted {
		t.Fatalf("expected comparison/filtering to conflict, got state %v", c.State)
	}
}

func TestSamplerConstraintsVerifyAddressModeMismatch(t *testing.T) {
	u := wgpu.AddressModeClampToEdge
	c := NewSamplerConstraints()
	c.AddressModeU = &u

	err := c.Verify("s", SamplerDescriptor{AddressModeU: wgpu.AddressModeRepeat})
	if err == nil {
		t.Fatalf("expected a mismatch error")
	}
}

func TestSamplerConstraintsVerifyPasses(t *testing.T) {
	u := wgpu.AddressModeClampToEdge
	c := NewSamplerConstraints()
	c.AddressModeU = &u

	err := c.Verify("s", SamplerDescriptor{AddressModeU: wgpu.AddressModeClampToEdge})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSamplerConstraintsVerifyFilteringRequiresLinearFilter(t *testing.T) {
	c := NewSamplerConstraints()
	c.Type.Merge(wgpu.SamplerBindingTypeFiltering)

	err := c.Verify("s", SamplerDescriptor{MagFilter: wgpu.FilterModeNearest, MinFilter: wgpu.FilterModeNearest})
	if err == nil {
		t.Fatalf("expected an error when neither filter is linear")
	}

	err = c.Verify("s", SamplerDescriptor{MagFilter: wgpu.FilterModeLinear})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
