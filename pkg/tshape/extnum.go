package tshape

import (
	"fmt"
	"math/big"
)

const (
	finite infSign = 0
	negInf infSign = 1
	posInf infSign = 2
)

type infSign uint8

// NegInfinity represents negative infinity.
var NegInfinity = ExtNum{sign: negInf}

// PosInfinity represents positive infinity.
var PosInfinity = ExtNum{sign: posInf}

// ExtNum is an exact rational value, extended with negative and positive
// infinity sentinels, used as the endpoint type of Range. Unlike the
// teacher's InfInt, there is no "plain infinity" covering both signs at
// once: a Range already carries its two endpoints separately, so a single
// ExtNum only ever needs to be one specific kind of infinity or a specific
// finite rational.
type ExtNum struct {
	val  big.Rat
	sign infSign
}

// FromInt returns the finite extended-rational value of i.
func FromInt(i int64) ExtNum {
	var r big.Rat
	r.SetInt64(i)
	return ExtNum{val: r, sign: finite}
}

// FromRat returns the finite extended-rational value of r.
func FromRat(r *big.Rat) ExtNum {
	var v big.Rat
	v.Set(r)
	return ExtNum{val: v, sign: finite}
}

// IsFinite reports whether this value is an ordinary rational, as opposed to
// an infinity sentinel.
func (e ExtNum) IsFinite() bool {
	return e.sign == finite
}

// Rat returns the underlying rational value. It panics if e is infinite.
func (e ExtNum) Rat() *big.Rat {
	if e.sign != finite {
		panic("tshape: cannot convert an infinite ExtNum to a rational")
	}
	var v big.Rat
	v.Set(&e.val)
	return &v
}

// IsInteger reports whether a finite value has an integral exact value. It
// is always false for an infinity.
func (e ExtNum) IsInteger() bool {
	return e.sign == finite && e.val.IsInt()
}

func signOf(e ExtNum) int {
	switch e.sign {
	case negInf:
		return -1
	case posInf:
		return 1
	default:
		return e.val.Sign()
	}
}

// Cmp compares e against o, returning -1, 0 or 1.
func (e ExtNum) Cmp(o ExtNum) int {
	if e.sign == o.sign {
		if e.sign == finite {
			return e.val.Cmp(&o.val)
		}
		return 0
	}
	if e.sign == negInf || o.sign == posInf {
		return -1
	}
	return 1
}

// Min returns the lesser of e and o.
func (e ExtNum) Min(o ExtNum) ExtNum {
	if e.Cmp(o) <= 0 {
		return e
	}
	return o
}

// Max returns the greater of e and o.
func (e ExtNum) Max(o ExtNum) ExtNum {
	if e.Cmp(o) >= 0 {
		return e
	}
	return o
}

// Neg negates e.
func (e ExtNum) Neg() ExtNum {
	switch e.sign {
	case negInf:
		return PosInfinity
	case posInf:
		return NegInfinity
	default:
		var r big.Rat
		r.Neg(&e.val)
		return ExtNum{val: r, sign: finite}
	}
}

// Add adds e and o. Adding negative and positive infinity together is not
// meaningful and is never reached by a Range constructed through this
// package's own invariants, so it panics rather than returning a silently
// wrong answer.
func (e ExtNum) Add(o ExtNum) ExtNum {
	if e.sign == finite && o.sign == finite {
		var r big.Rat
		r.Add(&e.val, &o.val)
		return ExtNum{val: r, sign: finite}
	}
	if e.sign != finite && o.sign != finite {
		if e.sign != o.sign {
			panic(fmt.Sprintf("tshape: indeterminate sum (%s + %s)", e.String(), o.String()))
		}
		return e
	}
	if e.sign != finite {
		return e
	}
	return o
}

// Sub subtracts o from e.
func (e ExtNum) Sub(o ExtNum) ExtNum {
	return e.Add(o.Neg())
}

// Mul multiplies e and o, treating a finite zero operand as absorbing even
// against an infinite counterpart.
func (e ExtNum) Mul(o ExtNum) ExtNum {
	es, os := signOf(e), signOf(o)
	if es == 0 || os == 0 {
		return FromInt(0)
	}
	if e.sign == finite && o.sign == finite {
		var r big.Rat
		r.Mul(&e.val, &o.val)
		return ExtNum{val: r, sign: finite}
	}
	if es*os > 0 {
		return PosInfinity
	}
	return NegInfinity
}

// Div divides e by o. o must not be a finite zero; dividing by an infinity
// always yields zero, since any finite numerator is infinitesimal relative
// to an unbounded divisor.
func (e ExtNum) Div(o ExtNum) ExtNum {
	if o.sign != finite {
		return FromInt(0)
	}
	if o.val.Sign() == 0 {
		panic("tshape: division by zero extended rational")
	}
	if e.sign != finite {
		if signOf(e)*o.val.Sign() > 0 {
			return PosInfinity
		}
		return NegInfinity
	}
	var r big.Rat
	r.Quo(&e.val, &o.val)
	return ExtNum{val: r, sign: finite}
}

// Floor rounds e down to the nearest integer, toward negative infinity.
// Infinities are fixed points.
func (e ExtNum) Floor() ExtNum {
	if e.sign != finite {
		return e
	}
	var q big.Int
	q.Div(e.val.Num(), e.val.Denom())
	var r big.Rat
	r.SetInt(&q)
	return ExtNum{val: r, sign: finite}
}

// Ceil rounds e up to the nearest integer, toward positive infinity.
// Infinities are fixed points.
func (e ExtNum) Ceil() ExtNum {
	if e.sign != finite {
		return e
	}
	floor := e.Floor()
	if floor.val.Cmp(&e.val) == 0 {
		return floor
	}
	return floor.Add(FromInt(1))
}

// Abs returns the absolute value of e.
func (e ExtNum) Abs() ExtNum {
	if signOf(e) < 0 {
		return e.Neg()
	}
	return e
}

func (e ExtNum) String() string {
	switch e.sign {
	case negInf:
		return "-∞"
	case posInf:
		return "+∞"
	default:
		return e.val.RatString()
	}
}
