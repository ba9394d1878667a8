package bignum

import (
	"fmt"
	"math/big"
)

// NewInt allocates a new *big.Int.
// Accepted types are: string, uint, uint64, int64, int, *big.Float or *big.Int.
func NewInt(x interface{}) (y *big.Int) {

	y = new(big.Int)

	if x == nil {
		return
	}

	switch x := x.(type) {
	case string:
		y.SetString(x, 0)
	case uint:
		y.SetUint64(uint64(x))
	case uint64:
		y.SetUint64(x)
	case int64:
		y.SetInt64(x)
	case int:
		y.SetInt64(int64(x))
	case *big.Float:
		x.Int(y)
	case *big.Int:
		if x != nil {
			y.Set(x)
		}
	default:
		panic(fmt.Sprintf("cannot Newint: accepted types are string, uint, uint64, int, int64, *big.Float, *big.Int, but is %T", x))
	}

	return
}

// Pow2 returns 2^logQ.
func Pow2(logQ int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(logQ))
}

// ModPow2 sets y to x mod 2^logQ, in [0, 2^logQ), and returns y.
// Negative x are mapped to their positive representative.
func ModPow2(y, x *big.Int, logQ int) *big.Int {
	mask := Pow2(logQ)
	mask.Sub(mask, big.NewInt(1))
	// Two's-complement semantics of big.Int.And make this
	// correct for negative x as well.
	return y.And(x, mask)
}

// CenterPow2 sets y to the signed representative of x mod 2^logQ in
// (-2^{logQ-1}, 2^{logQ-1}] and returns y: values strictly larger than
// 2^{logQ-1} are mapped to value - 2^logQ.
func CenterPow2(y, x *big.Int, logQ int) *big.Int {
	ModPow2(y, x, logQ)
	if logQ > 0 && y.Cmp(Pow2(logQ-1)) > 0 {
		y.Sub(y, Pow2(logQ))
	}
	return y
}
