package tshape

import (
	"math/big"

	log "github.com/sirupsen/logrus"

	"github.com/pytea-go/tshape/pkg/tshape/pcollect"
	"github.com/pytea-go/tshape/pkg/util/math"
)

// ConstraintSet is a single, immutable snapshot of everything known along
// one execution path: every constraint installed so far, partitioned into
// hard/soft/path classes, and the caches the Local Propagator keeps
// narrowed as a side effect of guarantee/addIf. Every mutating method
// returns a new ConstraintSet; the receiver is left untouched, which is
// what makes forking a snapshot along two branches of a conditional safe.
type ConstraintSet struct {
	mgr  *IDManager
	opts EngineOptions

	pool pcollect.Vector[Constraint]

	hardIdx pcollect.IndexList
	softIdx pcollect.IndexList
	pathIdx pcollect.IndexList

	ctrIdCache pcollect.IDSet

	rangeCache     pcollect.Map[Range]
	shapeCache     pcollect.Map[[]NumExpr]
	shapeCtrCache  pcollect.Map[[]int]
	stringCache    pcollect.Map[string]
	nonStringCache pcollect.Map[pcollect.StringSet]

	valid Tri
}

// NewConstraintSet returns an empty constraint set sharing mgr with every
// other snapshot of the same analysis run.
func NewConstraintSet(mgr *IDManager, opts EngineOptions) ConstraintSet {
	return ConstraintSet{
		mgr:     mgr,
		opts:    opts,
		pool:    pcollect.NewVector[Constraint](),
		hardIdx: pcollect.NewIndexList(),
		softIdx: pcollect.NewIndexList(),
		pathIdx: pcollect.NewIndexList(),

		ctrIdCache:     pcollect.NewIDSet(),
		rangeCache:     pcollect.NewMap[Range](),
		shapeCache:     pcollect.NewMap[[]NumExpr](),
		shapeCtrCache:  pcollect.NewMap[[]int](),
		stringCache:    pcollect.NewMap[string](),
		nonStringCache: pcollect.NewMap[pcollect.StringSet](),

		valid: TriTrue,
	}
}

// Valid reports this snapshot's own tri-state feasibility: TriFalse once
// any hard or path constraint has been decided false, or the Local
// Propagator has found a narrowing empty; TriTrue otherwise. Soft
// constraints never change it, and TriUnknown never appears here.
func (s ConstraintSet) Valid() Tri {
	return s.valid
}

// RangeOf implements RangeEnv against this snapshot's rangeCache.
func (s ConstraintSet) RangeOf(sym Symbol) Range {
	if r, ok := s.rangeCache.Get(sym.ID()); ok {
		return r
	}
	return Top()
}

// --- special generators ---

// GenSymIntGte mints a fresh integer symbol and installs
// guarantee(k <= sym), letting the Local Propagator seed its cached range to
// [k, +∞) as a side effect.
func (s ConstraintSet) GenSymIntGte(name string, k int64) (ConstraintSet, Symbol) {
	sym := NewSymbol(s.mgr, SymInt, name)
	c := GenNumCompare(s.mgr, CmpLe, NumIntConst(k), NumSymbolRef{Sym: sym})
	next, _ := s.Guarantee(c)
	return next, sym
}

// GenSymFloatGte mints a fresh float symbol and installs
// guarantee(k <= sym).
func (s ConstraintSet) GenSymFloatGte(name string, k *big.Rat) (ConstraintSet, Symbol) {
	sym := NewSymbol(s.mgr, SymFloat, name)
	c := GenNumCompare(s.mgr, CmpLe, NumConst{Value: k, IsInt: false}, NumSymbolRef{Sym: sym})
	next, _ := s.Guarantee(c)
	return next, sym
}

// GenShaped mints a fresh shape symbol of the given rank, together with one
// fresh non-negative integer symbol per dimension (one guarantee each, via
// GenSymIntGte), and seeds the shape symbol's shapeCache entry to the
// concrete vector of those dim symbols. A negative rank is a UsageError:
// there is no such thing as a tensor of rank -1 for the interpreter to have
// meant.
func (s ConstraintSet) GenShaped(name string, rank int) (ConstraintSet, Symbol, []Symbol, error) {
	if rank < 0 {
		return s, Symbol{}, nil, usageErrorf("genShaped", "rank must be non-negative, got %d", rank)
	}
	next := s
	dimSyms := make([]Symbol, rank)
	dims := make([]NumExpr, rank)
	for i := 0; i < rank; i++ {
		var sym Symbol
		next, sym = next.GenSymIntGte(shapeSymbolName(name, i), 0)
		dimSyms[i] = sym
		dims[i] = NumSymbolRef{Sym: sym}
	}
	shapeSym := NewShapeSymbol(s.mgr, name, NumIntConst(int64(rank)))
	next.shapeCache = next.shapeCache.Insert(shapeSym.ID(), dims)
	return next, shapeSym, dimSyms, nil
}

// HeapValueDescriptor is the minimal handle the interpreter's heap-value
// representation is expected to provide to GenFalsy. It is intentionally
// opaque here: nothing in this module inspects its fields.
type HeapValueDescriptor struct {
	Kind string
	Ref  uint64
}

// GenFalsy is a hook the teacher source left as an unused, semantics-free
// stub. Per the decision to preserve that ambiguity rather than invent a
// meaning for it, this always returns (nil, s) unchanged.
func (s ConstraintSet) GenFalsy(v HeapValueDescriptor) (BoolExpr, ConstraintSet) {
	return nil, s
}

// CastBoolToInt lifts a boolean expression into the numeric algebra. A
// constant folds directly to 0 or 1 with no installed constraint; anything
// else mints a fresh Int symbol n and installs
// guarantee((e ∧ n=1) ∨ (¬e ∧ n=0)).
func (s ConstraintSet) CastBoolToInt(e BoolExpr) (NumExpr, ConstraintSet) {
	if bc, ok := e.(BoolConst); ok {
		if bc.Value {
			return NumIntConst(1), s
		}
		return NumIntConst(0), s
	}
	n := NewSymbol(s.mgr, SymInt, "castBoolToInt")
	nRef := NumSymbolRef{Sym: n}
	eIsTrue := GenFromBool(s.mgr, e)
	nEq1, _ := GenEquality(s.mgr, nRef, NumIntConst(1))
	nEq0, _ := GenEquality(s.mgr, nRef, NumIntConst(0))
	whenTrue := GenAnd(s.mgr, eIsTrue, nEq1)
	whenFalse := GenAnd(s.mgr, GenNot(s.mgr, eIsTrue), nEq0)
	next, _ := s.Guarantee(GenOr(s.mgr, whenTrue, whenFalse))
	return nRef, next
}

// CastNumToBool lifts a numeric expression into the boolean algebra. When
// its current range already decides e != 0 or e == 0, it folds directly
// with no installed constraint; otherwise it mints a fresh Bool symbol b
// and installs guarantee((b ∧ e≠0) ∨ (¬b ∧ e=0)).
func (s ConstraintSet) CastNumToBool(e NumExpr) (BoolExpr, ConstraintSet) {
	zero := FromConst(FromInt(0))
	r := EvalRange(e, s)
	if r.NotEq(zero) == TriTrue {
		return BoolConst{Value: true}, s
	}
	if r.Eq(zero) == TriTrue {
		return BoolConst{Value: false}, s
	}
	b := NewSymbol(s.mgr, SymBool, "castNumToBool")
	bRef := BoolSymbolRef{Sym: b}
	bIsTrue := GenFromBool(s.mgr, bRef)
	eNeq0, _ := GenNotEquality(s.mgr, e, NumIntConst(0))
	eEq0, _ := GenEquality(s.mgr, e, NumIntConst(0))
	whenTrue := GenAnd(s.mgr, bIsTrue, eNeq0)
	whenFalse := GenAnd(s.mgr, GenNot(s.mgr, bIsTrue), eEq0)
	next, _ := s.Guarantee(GenOr(s.mgr, whenTrue, whenFalse))
	return bRef, next
}

// --- installers ---

func (s ConstraintSet) addToPool(c Constraint) (ConstraintSet, int) {
	next := s
	idx := next.pool.Len()
	next.pool = next.pool.Append(c)
	next.ctrIdCache = next.ctrIdCache.Insert(c.CtrID())
	return next, idx
}

// Require installs c as a soft constraint: a hypothesis the propagator does
// not narrow caches for, and whose immediate decision is reported back to
// the caller but never used to flip the snapshot's own validity.
func (s ConstraintSet) Require(c Constraint) (ConstraintSet, Tri) {
	next, idx := s.addToPool(c)
	next.softIdx = next.softIdx.Append(idx)
	decision := TriUnknown
	if next.opts.ImmediateCheckEnabled {
		decision = DecideImmediate(c, next)
	}
	log.Debugf("tshape: require #%d -> %v", c.CtrID(), decision)
	return next, decision
}

// RequireAll installs a sequence of soft constraints, left to right.
func (s ConstraintSet) RequireAll(cs []Constraint) ConstraintSet {
	next := s
	for _, c := range cs {
		next, _ = next.Require(c)
	}
	return next
}

// Guarantee installs c as a hard constraint. If the Immediate Decision
// Procedure finds it definitely false, the whole snapshot's validity
// becomes TriFalse; if definitely or possibly true, the Local Propagator
// narrows the relevant caches (see propagate.go).
func (s ConstraintSet) Guarantee(c Constraint) (ConstraintSet, Tri) {
	next, idx := s.addToPool(c)
	next.hardIdx = next.hardIdx.Append(idx)
	var decision Tri
	if next.opts.ImmediateCheckEnabled {
		decision = DecideImmediate(c, next)
	} else {
		decision = TriUnknown
	}
	if decision == TriFalse {
		next.valid = TriFalse
		log.Debugf("tshape: guarantee #%d decided false; snapshot now invalid", c.CtrID())
		return next, decision
	}
	next = propagate(next, c)
	log.Debugf("tshape: guarantee #%d -> %v", c.CtrID(), decision)
	return next, decision
}

// GuaranteeAll installs a sequence of hard constraints, left to right,
// short-circuiting the remainder once the snapshot becomes invalid.
func (s ConstraintSet) GuaranteeAll(cs []Constraint) ConstraintSet {
	next := s
	for _, c := range cs {
		if next.valid == TriFalse {
			break
		}
		next, _ = next.Guarantee(c)
	}
	return next
}

// AddIf installs c as a path constraint: a branch condition the
// interpreter has committed to, which narrows caches exactly like
// Guarantee but is kept in its own class so the downward JSON bundle can
// tell a real invariant apart from "the analyzer happened to walk this
// branch".
func (s ConstraintSet) AddIf(c Constraint) (ConstraintSet, Tri) {
	next, idx := s.addToPool(c)
	next.pathIdx = next.pathIdx.Append(idx)
	var decision Tri
	if next.opts.ImmediateCheckEnabled {
		decision = DecideImmediate(c, next)
	} else {
		decision = TriUnknown
	}
	if decision == TriFalse {
		next.valid = TriFalse
		log.Debugf("tshape: addIf #%d decided false; snapshot now invalid", c.CtrID())
		return next, decision
	}
	next = propagate(next, c)
	log.Debugf("tshape: addIf #%d -> %v", c.CtrID(), decision)
	return next, decision
}

// AddIfAll installs a sequence of path constraints, left to right,
// short-circuiting once the snapshot becomes invalid.
func (s ConstraintSet) AddIfAll(cs []Constraint) ConstraintSet {
	next := s
	for _, c := range cs {
		if next.valid == TriFalse {
			break
		}
		next, _ = next.AddIf(c)
	}
	return next
}

// --- queries ---

// GetCachedRange returns the narrowed range of sym, if any narrowing has
// ever been recorded for it.
func (s ConstraintSet) GetCachedRange(sym Symbol) (Range, bool) {
	return s.rangeCache.Get(sym.ID())
}

// GetSymbolRange returns sym's current range, defaulting to Top() if
// nothing has narrowed it yet.
func (s ConstraintSet) GetSymbolRange(sym Symbol) Range {
	return s.RangeOf(sym)
}

// GetCachedShape returns the narrowed, dim-by-dim expression vector of a
// shape symbol, if known.
func (s ConstraintSet) GetCachedShape(sym Symbol) ([]NumExpr, bool) {
	return s.shapeCache.Get(sym.ID())
}

// GetCachedString returns the narrowed scalar value of a string symbol, if
// it has been pinned down to exactly one string.
func (s ConstraintSet) GetCachedString(sym Symbol) (string, bool) {
	return s.stringCache.Get(sym.ID())
}

// GetBroadcastLinks returns the ids of every shape symbol sym has been
// asserted broadcastable against, in the order those constraints were
// installed.
func (s ConstraintSet) GetBroadcastLinks(sym Symbol) []int {
	links, _ := s.shapeCtrCache.Get(sym.ID())
	return links
}

// CheckNonString reports whether v has been recorded as a value a string
// symbol is definitely not equal to.
func (s ConstraintSet) CheckNonString(sym Symbol, v string) bool {
	set, ok := s.nonStringCache.Get(sym.ID())
	if !ok {
		return false
	}
	return set.Contains(v)
}

// GetConstraints returns a simplified snapshot of every installed
// constraint across all three classes, pool order, each run through
// SimplifyConstraint against this snapshot's own caches.
func (s ConstraintSet) GetConstraints() []Constraint {
	pool := s.pool.Slice()
	out := make([]Constraint, len(pool))
	for i, c := range pool {
		out[i] = SimplifyConstraint(c, s)
	}
	return out
}

// PoolSize returns the number of constraints ever installed into this
// snapshot.
func (s ConstraintSet) PoolSize() int {
	return s.pool.Len()
}

// HardIndices, SoftIndices and PathIndices return the pool indices
// belonging to each class, in the order they were first installed.
func (s ConstraintSet) HardIndices() []int { return s.hardIdx.Slice() }
func (s ConstraintSet) SoftIndices() []int { return s.softIdx.Slice() }
func (s ConstraintSet) PathIndices() []int { return s.pathIdx.Slice() }

// TotalConstraints returns the number of constraints across all three
// classes. A constraint installed into more than one class — a Guarantee
// that is also an AddIf, say — is counted once per class, matching what
// HardIndices/SoftIndices/PathIndices each report on their own.
func (s ConstraintSet) TotalConstraints() int {
	return math.Sum(s.hardIdx.Len(), s.softIdx.Len(), s.pathIdx.Len())
}
