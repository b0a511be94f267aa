package tshape

import "sync/atomic"

// IDManager is the one piece of state shared, by pointer, across every
// descendant of a constraint set. It hands out the monotonically increasing
// symbol and constraint identifiers that make symbol identity and the
// installed-id membership cache well defined even after a snapshot has been forked many
// times over. Forking a ConstraintSet never copies the manager itself: both
// branches keep minting from the same counters, which is what guarantees a
// symbol or constraint id is never reused by two unrelated snapshots.
type IDManager struct {
	nextSymID atomic.Uint64
	nextCtrID atomic.Uint64
}

// NewIDManager returns a fresh manager whose first minted symbol id and
// constraint id are both 1. Zero is reserved as the never-minted sentinel.
func NewIDManager() *IDManager {
	return &IDManager{}
}

// NextSymbolID returns a freshly minted, previously unused symbol id.
func (m *IDManager) NextSymbolID() uint64 {
	return m.nextSymID.Add(1)
}

// NextConstraintID returns a freshly minted, previously unused constraint id.
func (m *IDManager) NextConstraintID() uint64 {
	return m.nextCtrID.Add(1)
}
