package commitment_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noiseproto/binomial-dp/pkg/commitment"
	"github.com/noiseproto/binomial-dp/pkg/curve"
)

func TestCommitHomomorphism(t *testing.T) {
	x1, r1 := curve.NewFromUint64(3), curve.Random()
	x2, r2 := curve.NewFromUint64(4), curve.Random()

	c1 := commitment.Commit(x1, r1)
	c2 := commitment.Commit(x2, r2)

	want := commitment.Commit(x1.Add(x2), r1.Add(r2))
	require.True(t, commitment.Add(c1, c2).Equal(want))
}

func TestCommitSub(t *testing.T) {
	x1, r1 := curve.NewFromUint64(10), curve.Random()
	x2, r2 := curve.NewFromUint64(4), curve.Random()

	c1 := commitment.Commit(x1, r1)
	c2 := commitment.Commit(x2, r2)

	want := commitment.Commit(x1.Sub(x2), r1.Sub(r2))
	require.True(t, commitment.Sub(c1, c2).Equal(want))
}

func TestSumEmptyIsIdentity(t *testing.T) {
	require.True(t, commitment.Sum(nil).Equal(curve.Identity()))
}

func TestSumMatchesRepeatedAdd(t *testing.T) {
	coms := make([]commitment.Commitment, 4)
	want := curve.Identity()
	for i := range coms {
		coms[i] = commitment.Commit(curve.NewFromUint64(uint64(i)), curve.Random())
		want = want.Add(coms[i])
	}
	require.True(t, commitment.Sum(coms).Equal(want))
}

func TestCommitmentsAreBindingNotReusable(t *testing.T) {
	r := curve.Random()
	c0 := commitment.Commit(curve.NewFromBit(0), r)
	c1 := commitment.Commit(curve.NewFromBit(1), r)
	require.False(t, c0.Equal(c1))
}
