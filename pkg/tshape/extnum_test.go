package tshape

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtNumCmpOrdersInfinitiesCorrectly(t *testing.T) {
	five := FromInt(5)
	require.Equal(t, -1, NegInfinity.Cmp(five))
	require.Equal(t, 1, five.Cmp(NegInfinity))
	require.Equal(t, -1, five.Cmp(PosInfinity))
	require.Equal(t, 1, PosInfinity.Cmp(five))
	require.Equal(t, -1, NegInfinity.Cmp(PosInfinity))
	require.Equal(t, 0, five.Cmp(FromInt(5)))
}

func TestExtNumMulZeroAbsorbsInfinity(t *testing.T) {
	require.Equal(t, 0, FromInt(0).Mul(PosInfinity).Cmp(FromInt(0)))
	require.Equal(t, 0, NegInfinity.Mul(FromInt(0)).Cmp(FromInt(0)))
}

func TestExtNumMulSignRules(t *testing.T) {
	require.Equal(t, 0, PosInfinity.Mul(FromInt(-3)).Cmp(NegInfinity))
	require.Equal(t, 0, NegInfinity.Mul(FromInt(-3)).Cmp(PosInfinity))
	require.Equal(t, 0, PosInfinity.Mul(PosInfinity).Cmp(PosInfinity))
	require.Equal(t, 0, NegInfinity.Mul(PosInfinity).Cmp(NegInfinity))
}

func TestExtNumDivByInfinityIsZero(t *testing.T) {
	require.Equal(t, 0, FromInt(7).Div(PosInfinity).Cmp(FromInt(0)))
	require.Equal(t, 0, FromInt(-7).Div(NegInfinity).Cmp(FromInt(0)))
}

func TestExtNumFloorAndCeilOnRationals(t *testing.T) {
	r := big.NewRat(7, 2) // 3.5
	v := FromRat(r)
	require.Equal(t, 0, v.Floor().Cmp(FromInt(3)))
	require.Equal(t, 0, v.Ceil().Cmp(FromInt(4)))

	neg := FromRat(big.NewRat(-7, 2)) // -3.5
	require.Equal(t, 0, neg.Floor().Cmp(FromInt(-4)))
	require.Equal(t, 0, neg.Ceil().Cmp(FromInt(-3)))
}

func TestExtNumFloorCeilFixedPointOnIntegers(t *testing.T) {
	v := FromInt(5)
	require.Equal(t, 0, v.Floor().Cmp(v))
	require.Equal(t, 0, v.Ceil().Cmp(v))
}

func TestExtNumAbs(t *testing.T) {
	require.Equal(t, 0, FromInt(-4).Abs().Cmp(FromInt(4)))
	require.Equal(t, 0, FromInt(4).Abs().Cmp(FromInt(4)))
}
