// Package bitutil provides the packed-integer and bit-vector backing
// storage used throughout the snapshot engine: large flat arrays of u32
// values and dense/sparse bit-vectors used for visited-sets, mark-sets and
// the negative-match caches the engine keeps during analysis.
package bitutil

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"github.com/bits-and-blooms/bitset"
)

// pageSize is the number of uint32 slots per page. A snapshot whose
// node or edge array would exceed a single Go slice's practical addressing
// (or simply whose element count times field width overflows int on a
// 32-bit platform) is stored across multiple pages instead of one
// contiguous slice.
const pageSize = 1 << 28

// PagedUint32 is a flat, paged array of uint32 values. It behaves like a
// single []uint32 of arbitrary length without requiring one contiguous
// allocation, so it can back arrays whose total bit count exceeds 2^32.
// No method on PagedUint32 allocates once the array has been constructed.
type PagedUint32 struct {
	pages  [][]uint32
	length int
}

// NewPagedUint32 allocates a PagedUint32 with the given length, all zeroed.
func NewPagedUint32(length int) *PagedUint32 {
	if length < 0 {
		panic("bitutil: negative length")
	}
	p := &PagedUint32{length: length}
	if length == 0 {
		p.pages = [][]uint32{{}}
		return p
	}
	remaining := length
	for remaining > 0 {
		n := remaining
		if n > pageSize {
			n = pageSize
		}
		p.pages = append(p.pages, make([]uint32, n))
		remaining -= n
	}
	return p
}

// Len returns the number of elements.
func (p *PagedUint32) Len() int { return p.length }

// Get returns the value at index i.
func (p *PagedUint32) Get(i int) uint32 {
	page, offset := i/pageSize, i%pageSize
	return p.pages[page][offset]
}

// Set stores v at index i.
func (p *PagedUint32) Set(i int, v uint32) {
	page, offset := i/pageSize, i%pageSize
	p.pages[page][offset] = v
}

// Fill sets every element to v.
func (p *PagedUint32) Fill(v uint32) {
	for _, page := range p.pages {
		for i := range page {
			page[i] = v
		}
	}
}

// BitVector is a dense bit-vector over indexes [0, Len). It is used for
// the post-order visited-set, the DOM propagator's attached/detached sets
// and the page-object reachability set, where many bits will be touched
// and a dense representation beats a sparse one.
type BitVector struct {
	bits *bitset.BitSet
}

// NewBitVector creates a BitVector sized to hold indexes [0, length).
func NewBitVector(length int) *BitVector {
	return &BitVector{bits: bitset.New(uint(length))}
}

// Set marks index i.
func (b *BitVector) Set(i int) { b.bits.Set(uint(i)) }

// Clear unmarks index i.
func (b *BitVector) Clear(i int) { b.bits.Clear(uint(i)) }

// Test reports whether index i is marked.
func (b *BitVector) Test(i int) bool { return b.bits.Test(uint(i)) }

// Count returns the number of set bits.
func (b *BitVector) Count() int { return int(b.bits.Count()) }

// ClearAll unmarks every index.
func (b *BitVector) ClearAll() { b.bits.ClearAll() }

// NextSet returns the next set bit at or after i, and false if none remain,
// scanning from low to high.
func (b *BitVector) NextSet(i int) (int, bool) {
	next, ok := b.bits.NextSet(uint(i))
	return int(next), ok
}

// SparseSet is a sparse mark-set over u32 indexes (string indexes, node
// ordinals), backed by a Roaring bitmap. It is used where the set of
// marked indexes is expected to be a small fraction of the index space:
// named filters (including duplicated-string marks) and the WeakMap
// negative-match cache.
type SparseSet struct {
	bm *roaring.Bitmap
}

// NewSparseSet creates an empty SparseSet.
func NewSparseSet() *SparseSet {
	return &SparseSet{bm: roaring.New()}
}

// Add marks v.
func (s *SparseSet) Add(v uint32) { s.bm.Add(v) }

// Contains reports whether v is marked.
func (s *SparseSet) Contains(v uint32) bool { return s.bm.Contains(v) }

// Remove unmarks v.
func (s *SparseSet) Remove(v uint32) { s.bm.Remove(v) }

// Cardinality returns the number of marked values.
func (s *SparseSet) Cardinality() int { return int(s.bm.GetCardinality()) }

// ForEach calls fn for every marked value in ascending order.
func (s *SparseSet) ForEach(fn func(uint32)) {
	it := s.bm.Iterator()
	for it.HasNext() {
		fn(it.Next())
	}
}

// CheckClassIndex validates a class index fits the 30-bit field the
// packed detachedness+class layout reserves for it.
func CheckClassIndex(idx int) error {
	const maxClassIndex = 1<<30 - 1
	if idx < 0 || idx > maxClassIndex {
		return fmt.Errorf("bitutil: class index %d overflows 30-bit field", idx)
	}
	return nil
}
