package bignum

import (
	"fmt"
	"math/big"
)

// Binomial returns the binomial coefficient n choose k, computed with
// the falling-factorial recurrence C <- C * (n - k + i) / i for i = 1..k,
// in which every intermediate division is exact.
// It returns 0 if k < 0 or k > n.
func Binomial(n, k int) (c *big.Int) {

	c = new(big.Int)

	if k < 0 || n < 0 || k > n {
		return
	}

	k = min(k, n-k)

	c.SetInt64(1)
	tmp := new(big.Int)
	for i := 1; i <= k; i++ {
		c.Mul(c, tmp.SetInt64(int64(n-k+i)))
		c.Quo(c, tmp.SetInt64(int64(i)))
	}

	return
}

// Multinomial returns the multinomial coefficient
// (e_0 + ... + e_{t-1})! / (e_0! * ... * e_{t-1}!),
// computed as a product of binomial coefficients.
// The method panics if one of the exponents is negative.
func Multinomial(exponents ...int) (c *big.Int) {

	c = big.NewInt(1)

	var sum int
	for _, e := range exponents {

		if e < 0 {
			panic(fmt.Errorf("invalid exponent: must be >= 0 but is %d", e))
		}

		sum += e
		c.Mul(c, Binomial(sum, e))
	}

	return
}
