package pool_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noiseproto/binomial-dp/pkg/pool"
)

func TestMapPreservesOrder(t *testing.T) {
	p := pool.NewPool(4)
	defer p.TearDown()

	results, err := pool.Map(p, 100, func(i int) (int, error) {
		return i * i, nil
	})
	require.NoError(t, err)
	require.Len(t, results, 100)
	for i, r := range results {
		require.Equal(t, i*i, r)
	}
}

func TestMapEmpty(t *testing.T) {
	p := pool.NewPool(0)
	defer p.TearDown()

	results, err := pool.Map(p, 0, func(i int) (int, error) {
		t.Fatal("fn should not be called for n == 0")
		return 0, nil
	})
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestMapPropagatesError(t *testing.T) {
	p := pool.NewPool(2)
	defer p.TearDown()

	wantErr := errors.New("boom")
	_, err := pool.Map(p, 10, func(i int) (int, error) {
		if i == 5 {
			return 0, wantErr
		}
		return i, nil
	})
	require.ErrorIs(t, err, wantErr)
}
