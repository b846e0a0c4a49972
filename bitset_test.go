package rgraph

import "testing"

func TestBitsetInsertContains(t *testing.T) {
	var b Bitset
	b.Insert(3)
	b.Insert(130)

	if !b.Contains(3) || !b.Contains(130) {
		t.Fatalf("expected 3 and 130 to be members")
	}
	if b.Contains(4) {
		t.Fatalf("did not expect 4 to be a member")
	}
}

func TestBitsetRemove(t *testing.T) {
	var b Bitset
	b.Insert(10)
	b.Remove(10)
	if b.Contains(10) {
		t.Fatalf("expected 10 to be removed")
	}
	// Removing an index beyond capacity must not panic.
	b.Remove(500)
}

func TestBitsetUnion(t *testing.T) {
	var a, b Bitset
	a.Insert(1)
	b.Insert(2)
	u := a.Union(b)
	if !u.Contains(1) || !u.Contains(2) {
		t.Fatalf("union missing members")
	}
	if a.Contains(2) {
		t.Fatalf("union must not mutate its receiver")
	}
}

func TestBitsetUnionWith(t *testing.T) {
	var a, b Bitset
	a.Insert(1)
	b.Insert(64)
	a.UnionWith(b)
	if !a.Contains(1) || !a.Contains(64) {
		t.Fatalf("expected union to grow backing storage")
	}
}

func TestBitsetDifference(t *testing.T) {
	var a, b Bitset
	a.Insert(1)
	a.Insert(2)
	b.Insert(2)
	d := a.Difference(b)
	if !d.Contains(1) || d.Contains(2) {
		t.Fatalf("expected difference {1}, got %s", d)
	}
}

func TestBitsetIntersectsWith(t *testing.T) {
	var a, b Bitset
	a.Insert(5)
	b.Insert(9)
	if a.IntersectsWith(b) {
		t.Fatalf("did not expect intersection")
	}
	b.Insert(5)
	if !a.IntersectsWith(b) {
		t.Fatalf("expected intersection on 5")
	}
}

func TestBitsetComplement(t *testing.T) {
	b := NewBitset(8)
	b.Insert(0)
	c := b.Complement()
	if c.Contains(0) {
		t.Fatalf("complement should not contain 0")
	}
	if !c.Contains(1) {
		t.Fatalf("complement should contain 1")
	}
}

func TestBitsetIterate(t *testing.T) {
	var b Bitset
	want := map[int]bool{2: true, 65: true, 128: true}
	for idx := range want {
		b.Insert(idx)
	}
	got := map[int]bool{}
	b.Iterate(func(idx int) { got[idx] = true })
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for idx := range want {
		if !got[idx] {
			t.Fatalf("missing index %d in iteration", idx)
		}
	}
}
