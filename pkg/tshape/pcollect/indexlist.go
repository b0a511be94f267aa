package pcollect

// IndexList is a persistent, order-preserving, duplicate-free sequence of
// pool indices, used for the hard/soft/path constraint classes. Membership
// tests go through an IDSet so checking for an existing index before
// appending stays O(1) instead of scanning the whole sequence.
type IndexList struct {
	order  Vector[int]
	member IDSet
}

// NewIndexList returns an empty index list.
func NewIndexList() IndexList {
	return IndexList{NewVector[int](), NewIDSet()}
}

// Len returns the number of indices in the list.
func (l IndexList) Len() int {
	return l.order.Len()
}

// Contains reports whether idx is already present.
func (l IndexList) Contains(idx int) bool {
	return l.member.Contains(uint64(idx))
}

// Append returns a new list with idx appended, unless idx is already
// present, in which case the receiver is returned unchanged.
func (l IndexList) Append(idx int) IndexList {
	if l.Contains(idx) {
		return l
	}
	return IndexList{l.order.Append(idx), l.member.Insert(uint64(idx))}
}

// ForEach calls f for every index, in the order they were first appended.
func (l IndexList) ForEach(f func(idx int)) {
	l.order.ForEach(func(_ int, idx int) { f(idx) })
}

// Slice materializes the index list as a plain, freshly allocated slice.
func (l IndexList) Slice() []int {
	return l.order.Slice()
}
