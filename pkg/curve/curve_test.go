package curve_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noiseproto/binomial-dp/pkg/curve"
)

func TestScalarArithmetic(t *testing.T) {
	a := curve.NewFromUint64(7)
	b := curve.NewFromUint64(5)

	require.True(t, a.Add(b).Equal(curve.NewFromUint64(12)))
	require.True(t, a.Sub(b).Equal(curve.NewFromUint64(2)))
	require.True(t, a.Mul(b).Equal(curve.NewFromUint64(35)))
	require.True(t, a.Add(a.Negate()).IsZero())
	require.True(t, curve.Zero().IsZero())
	require.False(t, curve.One().IsZero())
}

func TestScalarCanonicalBytesRoundTrip(t *testing.T) {
	s := curve.NewFromUint64(123456789)
	got := curve.FromCanonicalBytes(s.Bytes())
	require.True(t, s.Equal(got))
}

func TestScalarRandomDistinct(t *testing.T) {
	a := curve.Random()
	b := curve.Random()
	require.False(t, a.Equal(b))
}

func TestNewFromBitPanicsOnInvalidInput(t *testing.T) {
	require.Panics(t, func() { curve.NewFromBit(2) })
}

func TestPointIdentity(t *testing.T) {
	id := curve.Identity()
	g := curve.G()

	require.True(t, g.Add(id).Equal(g))
	require.True(t, g.Mul(curve.Zero()).Equal(id))
}

func TestPointAddMulConsistency(t *testing.T) {
	g := curve.G()
	three := g.Add(g).Add(g)
	require.True(t, g.Mul(curve.NewFromUint64(3)).Equal(three))
}

func TestPointCompressedRoundTrip(t *testing.T) {
	p := curve.G().Mul(curve.NewFromUint64(42))
	decoded, err := curve.DeserializePoint(p.Bytes())
	require.NoError(t, err)
	require.True(t, p.Equal(decoded))
}

func TestPointIdentityRoundTrip(t *testing.T) {
	decoded, err := curve.DeserializePoint(curve.Identity().Bytes())
	require.NoError(t, err)
	require.True(t, decoded.Equal(curve.Identity()))
}

func TestGeneratorsAreDistinctAndOnCurve(t *testing.T) {
	require.True(t, curve.G().IsOnCurve())
	require.True(t, curve.H().IsOnCurve())
	require.False(t, curve.G().Equal(curve.H()))
}

func TestScalarFromHashDeterministic(t *testing.T) {
	a := curve.ScalarFromHash([]byte("tag"), []byte("msg"))
	b := curve.ScalarFromHash([]byte("tag"), []byte("msg"))
	c := curve.ScalarFromHash([]byte("tag"), []byte("other"))

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}
