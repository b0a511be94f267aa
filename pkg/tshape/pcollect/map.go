// Package pcollect implements the persistent, copy-on-write containers that
// back every cache and pool in a constraint-set snapshot. Each mutation
// returns a new value that shares unmodified structure with its parent
// instead of copying the whole container, which is what lets a snapshot be
// forked cheaply along two branches of a conditional.
package pcollect

// nibbleBits is the number of key bits consumed per trie level. A uint64 key
// is therefore fully consumed after 64/nibbleBits levels.
const nibbleBits = 4
const nibbleWidth = 1 << nibbleBits
const nibbleMask = nibbleWidth - 1
const keyLevels = 64 / nibbleBits

// Map is a persistent, immutable association from uint64 keys to values of
// type V, implemented as a fixed-depth trie keyed on the nibbles of the key.
// The zero value is an empty map.
type Map[V any] struct {
	root *mapNode[V]
	size int
}

type mapNode[V any] struct {
	hasValue bool
	value    V
	children [nibbleWidth]*mapNode[V]
}

func nibbleAt(key uint64, depth int) int {
	shift := uint(64 - nibbleBits*(depth+1))
	return int((key >> shift) & nibbleMask)
}

// NewMap returns an empty map.
func NewMap[V any]() Map[V] {
	return Map[V]{}
}

// Size returns the number of entries in the map.
func (m Map[V]) Size() int {
	return m.size
}

// Get returns the value associated with key, if any.
func (m Map[V]) Get(key uint64) (V, bool) {
	n := m.root
	for depth := 0; depth < keyLevels && n != nil; depth++ {
		n = n.children[nibbleAt(key, depth)]
	}
	if n == nil || !n.hasValue {
		var zero V
		return zero, false
	}
	return n.value, true
}

// ContainsKey reports whether key is present in the map.
func (m Map[V]) ContainsKey(key uint64) bool {
	_, ok := m.Get(key)
	return ok
}

// Insert returns a new map with key associated to value, sharing every
// subtree not on the path from the root to key's leaf with the receiver.
func (m Map[V]) Insert(key uint64, value V) Map[V] {
	root, grew := insertAt(m.root, key, 0, value)
	size := m.size
	if grew {
		size++
	}
	return Map[V]{root, size}
}

func insertAt[V any](n *mapNode[V], key uint64, depth int, value V) (*mapNode[V], bool) {
	var fresh mapNode[V]
	if n != nil {
		fresh = *n
	}
	if depth == keyLevels {
		grew := !fresh.hasValue
		fresh.hasValue = true
		fresh.value = value
		return &fresh, grew
	}
	idx := nibbleAt(key, depth)
	child, grew := insertAt(fresh.children[idx], key, depth+1, value)
	fresh.children[idx] = child
	return &fresh, grew
}

// ForEach calls f for every key/value pair currently stored, in unspecified
// order. f must not retain the children array reference.
func (m Map[V]) ForEach(f func(key uint64, value V)) {
	walk(m.root, 0, f)
}

func walk[V any](n *mapNode[V], prefix uint64, f func(key uint64, value V)) {
	if n == nil {
		return
	}
	if n.hasValue {
		f(prefix, n.value)
	}
	for i, child := range n.children {
		if child != nil {
			walk(child, prefix<<nibbleBits|uint64(i), f)
		}
	}
}
