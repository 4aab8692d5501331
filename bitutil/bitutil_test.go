package bitutil

import "testing"

func TestPagedUint32(t *testing.T) {
	p := NewPagedUint32(10)
	if p.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", p.Len())
	}
	p.Set(3, 42)
	if got := p.Get(3); got != 42 {
		t.Fatalf("Get(3) = %d, want 42", got)
	}
	p.Fill(7)
	for i := 0; i < p.Len(); i++ {
		if got := p.Get(i); got != 7 {
			t.Fatalf("Get(%d) = %d, want 7 after Fill", i, got)
		}
	}
}

func TestPagedUint32Paging(t *testing.T) {
	// force a second page; this allocates one full first page plus a
	// five-element second page
	n := pageSize + 5
	p := NewPagedUint32(n)
	p.Set(pageSize+2, 99)
	if got := p.Get(pageSize + 2); got != 99 {
		t.Fatalf("Get across page boundary = %d, want 99", got)
	}
	if got := p.Get(0); got != 0 {
		t.Fatalf("Get(0) = %d, want 0", got)
	}
}

func TestBitVector(t *testing.T) {
	b := NewBitVector(100)
	b.Set(5)
	b.Set(9)
	if !b.Test(5) || !b.Test(9) {
		t.Fatal("expected bits 5 and 9 set")
	}
	if b.Test(6) {
		t.Fatal("bit 6 should not be set")
	}
	if b.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", b.Count())
	}
	next, ok := b.NextSet(0)
	if !ok || next != 5 {
		t.Fatalf("NextSet(0) = (%d, %v), want (5, true)", next, ok)
	}
	b.Clear(5)
	if b.Test(5) {
		t.Fatal("bit 5 should be cleared")
	}
}

func TestSparseSet(t *testing.T) {
	s := NewSparseSet()
	s.Add(1)
	s.Add(1000000)
	if !s.Contains(1) || !s.Contains(1000000) {
		t.Fatal("expected both values present")
	}
	if s.Cardinality() != 2 {
		t.Fatalf("Cardinality() = %d, want 2", s.Cardinality())
	}
	var seen []uint32
	s.ForEach(func(v uint32) { seen = append(seen, v) })
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 1000000 {
		t.Fatalf("ForEach order = %v", seen)
	}
	s.Remove(1)
	if s.Contains(1) {
		t.Fatal("expected 1 removed")
	}
}

func TestCheckClassIndex(t *testing.T) {
	if err := CheckClassIndex(0); err != nil {
		t.Fatalf("CheckClassIndex(0) = %v, want nil", err)
	}
	if err := CheckClassIndex(1<<30 - 1); err != nil {
		t.Fatalf("CheckClassIndex(max) = %v, want nil", err)
	}
	if err := CheckClassIndex(1 << 30); err == nil {
		t.Fatal("CheckClassIndex(overflow) = nil, want error")
	}
	if err := CheckClassIndex(-1); err == nil {
		t.Fatal("CheckClassIndex(-1) = nil, want error")
	}
}
