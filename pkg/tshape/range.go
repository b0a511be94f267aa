package tshape

// Tri is a three-valued decision result: true, false, or not decidable from
// the information at hand.
type Tri int

const (
	// TriUnknown means neither true nor false could be established.
	TriUnknown Tri = iota
	// TriTrue means the property holds in every concrete instance.
	TriTrue
	// TriFalse means the property fails in every concrete instance.
	TriFalse
)

// Range is the interval abstract domain over extended rationals used to
// over-approximate the set of values a Num expression can take. Unlike the
// teacher's Interval, a Range is an ordinary Go value: every operation
// returns a new Range rather than mutating the receiver, which is what lets
// a Range live unmodified inside a ConstraintSet snapshot that has since
// been forked.
type Range struct {
	start ExtNum
	end   ExtNum
	valid bool
}

// Top returns the range containing every value, (-∞, +∞).
func Top() Range {
	return Range{NegInfinity, PosInfinity, true}
}

// Bottom returns the empty range.
func Bottom() Range {
	return Range{valid: false}
}

// FromConst returns the singleton range {c}.
func FromConst(c ExtNum) Range {
	return Range{c, c, true}
}

// NewRange returns the range [start, end], or Bottom() if start > end.
func NewRange(start, end ExtNum) Range {
	return Range{start, end, start.Cmp(end) <= 0}
}

// GenGte returns the range [k, +∞).
func GenGte(k ExtNum) Range {
	return Range{k, PosInfinity, true}
}

// GenLte returns the range (-∞, k].
func GenLte(k ExtNum) Range {
	return Range{NegInfinity, k, true}
}

// Valid reports whether this range denotes a non-empty set of values.
func (r Range) Valid() bool {
	return r.valid
}

// Start returns the lower endpoint.
func (r Range) Start() ExtNum {
	return r.start
}

// End returns the upper endpoint.
func (r Range) End() ExtNum {
	return r.end
}

// IsConst reports whether the range contains exactly one value.
func (r Range) IsConst() bool {
	return r.valid && r.start.Cmp(r.end) == 0
}

// ConstValue returns the single value of a constant range. It panics if the
// range is not constant.
func (r Range) ConstValue() ExtNum {
	if !r.IsConst() {
		panic("tshape: ConstValue called on a non-constant range")
	}
	return r.start
}

// Contains reports whether n falls within this range.
func (r Range) Contains(n ExtNum) bool {
	return r.valid && r.start.Cmp(n) <= 0 && r.end.Cmp(n) >= 0
}

func (r Range) containsZero() bool {
	return r.Contains(FromInt(0))
}

// LtRange reports whether every value of r is strictly less than every
// value of o.
func (r Range) LtRange(o Range) bool {
	return r.valid && o.valid && r.end.Cmp(o.start) < 0
}

// LteRange reports whether every value of r is less than or equal to every
// value of o.
func (r Range) LteRange(o Range) bool {
	return r.valid && o.valid && r.end.Cmp(o.start) <= 0
}

// Lt decides whether r < o holds for every pair of concrete values, fails
// for every pair, or neither.
func (r Range) Lt(o Range) Tri {
	switch {
	case r.LtRange(o):
		return TriTrue
	case o.LteRange(r):
		return TriFalse
	default:
		return TriUnknown
	}
}

// Le decides whether r <= o holds for every pair, fails for every pair, or
// neither.
func (r Range) Le(o Range) Tri {
	switch {
	case r.LteRange(o):
		return TriTrue
	case o.LtRange(r):
		return TriFalse
	default:
		return TriUnknown
	}
}

// Gt decides r > o.
func (r Range) Gt(o Range) Tri {
	return o.Lt(r)
}

// Ge decides r >= o.
func (r Range) Ge(o Range) Tri {
	return o.Le(r)
}

// Eq decides whether r and o denote the same single value, are disjoint, or
// neither.
func (r Range) Eq(o Range) Tri {
	switch {
	case r.IsConst() && o.IsConst():
		if r.start.Cmp(o.start) == 0 {
			return TriTrue
		}
		return TriFalse
	case r.LtRange(o) || o.LtRange(r):
		return TriFalse
	default:
		return TriUnknown
	}
}

// NotEq decides the complement of Eq.
func (r Range) NotEq(o Range) Tri {
	switch {
	case r.LtRange(o) || o.LtRange(r):
		return TriTrue
	case r.IsConst() && o.IsConst() && r.start.Cmp(o.start) == 0:
		return TriFalse
	default:
		return TriUnknown
	}
}

// Neg negates every value in the range.
func (r Range) Neg() Range {
	if !r.valid {
		return r
	}
	return Range{r.end.Neg(), r.start.Neg(), true}
}

// Abs returns the range of absolute values.
func (r Range) Abs() Range {
	if !r.valid {
		return r
	}
	if r.start.Cmp(FromInt(0)) >= 0 {
		return r
	}
	if r.end.Cmp(FromInt(0)) <= 0 {
		return r.Neg()
	}
	return Range{FromInt(0), r.start.Neg().Max(r.end), true}
}

// Floor rounds every value down, toward -∞. Floor is monotonic, so it maps
// the endpoints of r exactly onto the endpoints of the result.
func (r Range) Floor() Range {
	if !r.valid {
		return r
	}
	return Range{r.start.Floor(), r.end.Floor(), true}
}

// Ceil rounds every value up, toward +∞.
func (r Range) Ceil() Range {
	if !r.valid {
		return r
	}
	return Range{r.start.Ceil(), r.end.Ceil(), true}
}

// Add adds two ranges elementwise.
func (r Range) Add(o Range) Range {
	if !r.valid || !o.valid {
		return Bottom()
	}
	return Range{r.start.Add(o.start), r.end.Add(o.end), true}
}

// Sub subtracts o from r elementwise.
func (r Range) Sub(o Range) Range {
	if !r.valid || !o.valid {
		return Bottom()
	}
	return Range{r.start.Sub(o.end), r.end.Sub(o.start), true}
}

// Mul multiplies two ranges via endpoint enumeration: the product of two
// intervals is bounded by the min and max of the four corner products,
// exactly mirroring the x1..x4 pattern of the teacher's Interval.Mul.
func (r Range) Mul(o Range) Range {
	if !r.valid || !o.valid {
		return Bottom()
	}
	x1 := r.start.Mul(o.start)
	x2 := r.start.Mul(o.end)
	x3 := r.end.Mul(o.start)
	x4 := r.end.Mul(o.end)

	min := x1.Min(x2).Min(x3.Min(x4))
	max := x1.Max(x2).Max(x3.Max(x4))
	return Range{min, max, true}
}

// TrueDiv divides r by o using the same corner-enumeration idea as Mul, on
// reciprocals of o's endpoints. If o straddles zero the quotient is
// unbounded and Top() is returned.
func (r Range) TrueDiv(o Range) Range {
	if !r.valid || !o.valid {
		return Bottom()
	}
	if o.containsZero() {
		return Top()
	}
	x1 := r.start.Div(o.start)
	x2 := r.start.Div(o.end)
	x3 := r.end.Div(o.start)
	x4 := r.end.Div(o.end)

	min := x1.Min(x2).Min(x3.Min(x4))
	max := x1.Max(x2).Max(x3.Max(x4))
	return Range{min, max, true}
}

// FloorDiv computes the range of floor(r/o), widening outward (floor on the
// lower bound, ceil on the upper bound) to stay sound in the face of
// endpoints that are themselves already over-approximations.
func (r Range) FloorDiv(o Range) Range {
	if !r.valid || !o.valid {
		return Bottom()
	}
	if o.containsZero() {
		return Top()
	}
	div := r.TrueDiv(o)
	return Range{div.start.Floor(), div.end.Ceil(), true}
}

// Mod computes the range of r mod m. Only a positive integer constant
// modulus is supported exactly, yielding [0, m-1]; any other modulus range
// is reported as unbounded.
func (r Range) Mod(o Range) Range {
	if !r.valid || !o.valid {
		return Bottom()
	}
	if o.IsConst() {
		m := o.ConstValue()
		if m.IsInteger() && m.Cmp(FromInt(0)) > 0 {
			return Range{FromInt(0), m.Sub(FromInt(1)), true}
		}
	}
	return Top()
}

// Max returns the elementwise maximum of two ranges. Since max is monotonic
// in both arguments, the bounds of the result are exact given the bounds of
// the inputs.
func (r Range) Max(o Range) Range {
	if !r.valid || !o.valid {
		return Bottom()
	}
	return Range{r.start.Max(o.start), r.end.Max(o.end), true}
}

// Min returns the elementwise minimum of two ranges.
func (r Range) Min(o Range) Range {
	if !r.valid || !o.valid {
		return Bottom()
	}
	return Range{r.start.Min(o.start), r.end.Min(o.end), true}
}

// Intersect returns the greatest lower bound of r and o in the range
// lattice: the narrowest range containing every value common to both.
func (r Range) Intersect(o Range) Range {
	if !r.valid || !o.valid {
		return Bottom()
	}
	start := r.start.Max(o.start)
	end := r.end.Min(o.end)
	return NewRange(start, end)
}

// Union returns the least upper bound of r and o: the narrowest range
// containing every value of both.
func (r Range) Union(o Range) Range {
	switch {
	case !r.valid:
		return o
	case !o.valid:
		return r
	default:
		return Range{r.start.Min(o.start), r.end.Max(o.end), true}
	}
}

func (r Range) String() string {
	if !r.valid {
		return "∅"
	}
	return "[" + r.start.String() + ", " + r.end.String() + "]"
}
