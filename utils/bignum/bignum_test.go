package bignum

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCombinatorics(t *testing.T) {

	t.Run("Binomial", func(t *testing.T) {
		for n := 0; n < 24; n++ {
			for k := 0; k <= n; k++ {
				require.Zero(t, new(big.Int).Binomial(int64(n), int64(k)).Cmp(Binomial(n, k)), "n=%d k=%d", n, k)
			}
		}
		require.Zero(t, Binomial(3, 4).Sign())
		require.Zero(t, Binomial(3, -1).Sign())
	})

	t.Run("Multinomial", func(t *testing.T) {
		// 4!/(2!1!1!) = 12
		require.Equal(t, int64(12), Multinomial(2, 1, 1).Int64())
		// 6!/(2!2!2!) = 90
		require.Equal(t, int64(90), Multinomial(2, 2, 2).Int64())
		require.Equal(t, int64(1), Multinomial().Int64())
		require.Equal(t, int64(1), Multinomial(0, 0, 5).Int64())
		require.Panics(t, func() { Multinomial(1, -1) })
	})
}

func TestPow2(t *testing.T) {

	t.Run("ModPow2", func(t *testing.T) {
		require.Equal(t, int64(255), ModPow2(new(big.Int), big.NewInt(-1), 8).Int64())
		require.Equal(t, int64(1), ModPow2(new(big.Int), big.NewInt(257), 8).Int64())
		require.Equal(t, int64(0), ModPow2(new(big.Int), big.NewInt(-256), 8).Int64())
	})

	t.Run("CenterPow2", func(t *testing.T) {
		// (-128, 128]
		require.Equal(t, int64(128), CenterPow2(new(big.Int), big.NewInt(128), 8).Int64())
		require.Equal(t, int64(-127), CenterPow2(new(big.Int), big.NewInt(129), 8).Int64())
		require.Equal(t, int64(-1), CenterPow2(new(big.Int), big.NewInt(255), 8).Int64())
		require.Equal(t, int64(-5), CenterPow2(new(big.Int), big.NewInt(-5), 8).Int64())
		require.Equal(t, int64(0), CenterPow2(new(big.Int), big.NewInt(0), 8).Int64())
	})
}

func TestFloat(t *testing.T) {
	x := NewFloat(1024, 128)
	log2, _ := Log2(x).Float64()
	require.InDelta(t, 10, log2, 1e-12)

	e, _ := Exp(NewFloat(1, 128)).Float64()
	require.InDelta(t, math.E, e, 1e-12)

	p, _ := Pow(NewFloat(2, 128), NewFloat(0.5, 128)).Float64()
	require.InDelta(t, math.Sqrt2, p, 1e-12)
}
