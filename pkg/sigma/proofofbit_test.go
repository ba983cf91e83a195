package sigma_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noiseproto/binomial-dp/pkg/curve"
	"github.com/noiseproto/binomial-dp/pkg/sigma"
)

func TestProveVerifyRoundTrip(t *testing.T) {
	for _, bit := range []int{0, 1} {
		blinding := curve.Random()
		tr, err := sigma.Prove(bit, blinding)
		require.NoError(t, err)
		require.True(t, sigma.Verify(tr))
	}
}

func TestProveRejectsInvalidBit(t *testing.T) {
	_, err := sigma.Prove(2, curve.Random())
	require.Error(t, err)
}

func TestVerifyRejectsTamperedChallenge(t *testing.T) {
	tr, err := sigma.Prove(1, curve.Random())
	require.NoError(t, err)

	tr.C = tr.C.Add(curve.One())
	require.False(t, sigma.Verify(tr))
}

func TestVerifyRejectsMismatchedCommitment(t *testing.T) {
	tr, err := sigma.Prove(0, curve.Random())
	require.NoError(t, err)

	tr.Com = tr.Com.Add(curve.G())
	require.False(t, sigma.Verify(tr))
}

func TestVerifyRejectsNilTranscript(t *testing.T) {
	require.False(t, sigma.Verify(nil))
}

func TestVerifyRejectsSwappedResponses(t *testing.T) {
	tr, err := sigma.Prove(1, curve.Random())
	require.NoError(t, err)

	tr.Z0, tr.Z1 = tr.Z1, tr.Z0
	require.False(t, sigma.Verify(tr))
}
