package coin_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noiseproto/binomial-dp/pkg/coin"
)

func TestCryptoSourceFlipLength(t *testing.T) {
	bits, err := coin.CryptoSource{}.Flip(16)
	require.NoError(t, err)
	require.Len(t, bits, 16)
	for _, b := range bits {
		require.True(t, b == 0 || b == 1)
	}
}

func TestCryptoSourceFlipZero(t *testing.T) {
	bits, err := coin.CryptoSource{}.Flip(0)
	require.NoError(t, err)
	require.Empty(t, bits)
}
