package pcollect

import "hash/fnv"

// StringSet is a persistent set of strings, bucketed by 64-bit FNV hash to
// keep lookups close to O(1) while still resolving hash collisions by exact
// comparison within a bucket.
type StringSet struct {
	buckets Map[[]string]
}

// NewStringSet returns an empty set.
func NewStringSet() StringSet {
	return StringSet{NewMap[[]string]()}
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Contains reports whether v is a member of the set.
func (s StringSet) Contains(v string) bool {
	bucket, ok := s.buckets.Get(hashString(v))
	if !ok {
		return false
	}
	for _, x := range bucket {
		if x == v {
			return true
		}
	}
	return false
}

// Insert returns a new set with v added, leaving the receiver untouched. The
// bucket slice is always freshly allocated, never grown in place, so two
// sets forked from the same bucket never alias each other's backing array.
func (s StringSet) Insert(v string) StringSet {
	h := hashString(v)
	bucket, ok := s.buckets.Get(h)
	if !ok {
		return StringSet{s.buckets.Insert(h, []string{v})}
	}
	for _, x := range bucket {
		if x == v {
			return s
		}
	}
	grown := make([]string, len(bucket)+1)
	copy(grown, bucket)
	grown[len(bucket)] = v
	return StringSet{s.buckets.Insert(h, grown)}
}
