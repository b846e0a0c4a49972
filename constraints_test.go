package rgraph

import "testing"

func TestBufferConstraintsMerge(t *testing.T) {
	var b BufferConstraints
	b.Merge(16, BufferUsageCopyDst)
	b.Merge(8, BufferUsageStorage)

	if b.MinSize != 16 {
		t.Fatalf("expected min size to stay at the larger value 16, got %d", b.MinSize)
	}
	if !b.MinUsages.Contains(BufferUsageCopyDst) || !b.MinUsages.Contains(BufferUsageStorage) {
		t.Fatalf("expected usages to union, got %v", b.MinUsages)
	}
}

func TestTextureConstraintsDeclareSizeConflictPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic on conflicting size declaration")
		}
	}()
	var tc TextureConstraints
	tc.DeclareSize("tex", TextureSize{Kind: TextureSizeD2, X: 64, Y: 64})
	tc.DeclareSize("tex", TextureSize{Kind: TextureSizeD2, X: 128, Y: 128})
}

func TestTextureConstraintsDeclareSizeRepeatedAgreement(t *testing.T) {
	var tc TextureConstraints
	size := TextureSize{Kind: TextureSizeD2, X: 64, Y: 64}
	tc.DeclareSize("tex", size)
	tc.DeclareSize("tex", size)
	if tc.Size != size {
		t.Fatalf("expected declared size to be retained unchanged")
	}
}

func TestSampleTypeConstraintMergeCompatible(t *testing.T) {
	var c SampleTypeConstraint
	c.Merge(SampleType{Kind: SampleTypeFloat, Filterable: false})
	c.Merge(SampleType{Kind: SampleTypeFloat, Filterable: true})

	if c.State != SampleTypeConstrained {
		t.Fatalf("expected compatible merges to stay Constrained, got state %v", c.State)
	}
	if c.A != (SampleType{Kind: SampleTypeFloat, Filterable: true}) {
		t.Fatalf("expected the filterable sample type to win, got %+v", c.A)
	}
}

func TestSampleTypeConstraintMergeConflict(t *testing.T) {
	var c SampleTypeConstraint
	c.Merge(SampleType{Kind: SampleTypeUint})
	c.Merge(SampleType{Kind: SampleTypeSint})

	if c.State != SampleTypeConflicted {
		t.Fatalf("expected incompatible kinds to conflict, got state %v", c.State)
	}
}

func TestSampleTypeConstraintDepthAndUnfilterableFloatCompatible(t *testing.T) {
	var c SampleTypeConstraint
	c.Merge(SampleType{Kind: SampleTypeDepth})
	c.Merge(SampleType{Kind: SampleTypeFloat, Filterable: false})

	if c.State != SampleTypeConstrained {
		t.Fatalf("expected depth/unfilterable-float to be compatible, got state %v", c.State)
	}
}
