package pcollect

import "github.com/bits-and-blooms/bitset"

// IDSet is a persistent set of non-negative integer identifiers, backed by a
// bits-and-blooms/bitset.BitSet. Every mutation clones the underlying bitset
// rather than setting bits in place, so that a snapshot already holding a
// reference to an IDSet never observes bits set by a later fork.
type IDSet struct {
	bits *bitset.BitSet
}

// NewIDSet returns an empty set.
func NewIDSet() IDSet {
	return IDSet{bitset.New(0)}
}

// Contains reports whether id is a member of the set.
func (s IDSet) Contains(id uint64) bool {
	if s.bits == nil {
		return false
	}
	return s.bits.Test(uint(id))
}

// Insert returns a new set with id added, leaving the receiver untouched.
func (s IDSet) Insert(id uint64) IDSet {
	var clone *bitset.BitSet
	if s.bits == nil {
		clone = bitset.New(uint(id) + 1)
	} else {
		clone = s.bits.Clone()
	}
	clone.Set(uint(id))
	return IDSet{clone}
}

// Len returns the number of members in the set.
func (s IDSet) Len() int {
	if s.bits == nil {
		return 0
	}
	return int(s.bits.Count())
}
