package prs

import (
	"fmt"
	"math/big"

	"github.com/Pro7ech/prshss/utils/bignum"
	"github.com/Pro7ech/prshss/utils/sampling"
)

// KeyGenerator is a structure that stores the elements required to create new keys.
type KeyGenerator struct {
	params Parameters
	source *sampling.Source
}

// NewKeyGenerator creates a new [KeyGenerator] drawing its randomness from source.
// If source is nil, a new source is seeded from crypto/rand.
func NewKeyGenerator(params Parameters, source *sampling.Source) *KeyGenerator {
	if source == nil {
		source = sampling.NewSource(sampling.NewSeed())
	}
	return &KeyGenerator{
		params: params,
		source: source,
	}
}

// GenKeyPairNew generates a new PRS key pair:
//   - p, a prime of PBits bits with p = 1 mod 2^K
//   - q, a prime of PBits bits with q = 3 mod 4 (or q = 1 mod 2^K if StrongPrimes is set), q != p
//   - n = p*q
//   - y in Z_n^* with jacobi(y, p) = jacobi(y, q) = -1
//   - the decryption ladder d_i = y^{-2^i * (p-1)/2^K} mod p for i = 0..K-2.
//
// The method returns an error wrapping [ErrGenerationExhausted] if one of the
// rejection-sampling loops exceeds [Parameters.MaxAttempts] attempts.
func (kgen KeyGenerator) GenKeyPairNew() (sk *SecretKey, pk *PublicKey, err error) {

	params := kgen.params
	k := params.K()

	var p, q *big.Int

	if p, err = kgen.genPrime("p", k, 1, nil); err != nil {
		return nil, nil, err
	}

	if params.StrongPrimes() {
		q, err = kgen.genPrime("q", k, 1, p)
	} else {
		q, err = kgen.genPrime("q", 2, 3, p)
	}

	if err != nil {
		return nil, nil, err
	}

	n := new(big.Int).Mul(p, q)

	var y *big.Int
	if y, err = kgen.genNonResidue(n, p, q); err != nil {
		return nil, nil, err
	}

	pk = NewPublicKey(params)
	pk.N.Set(n)
	pk.Y.Set(y)

	sk = &SecretKey{
		P:      p,
		Q:      q,
		Ladder: GenLadder(p, y, k),
	}

	return
}

// GenLadder returns the K-1 decryption constants d_0 = y^{-(p-1)/2^K} mod p
// and d_i = d_{i-1}^2 mod p.
func GenLadder(p, y *big.Int, k int) (ladder []Integer) {

	if k < 2 {
		return []Integer{}
	}

	e := new(big.Int).Sub(p, big.NewInt(1))
	e.Rsh(e, uint(k))

	d := new(big.Int).Exp(y, e, p)
	if d.ModInverse(d, p) == nil {
		// Sanity check, this error should not happen (gcd(y, p) = 1).
		panic(fmt.Errorf("y is not invertible mod p"))
	}

	ladder = make([]Integer, k-1)
	ladder[0] = Integer{Int: d}
	for i := 1; i < k-1; i++ {
		di := new(big.Int).Mul(ladder[i-1].Int, ladder[i-1].Int)
		ladder[i] = Integer{Int: di.Mod(di, p)}
	}

	return
}

// genPrime samples a prime of exactly PBits bits of the form r * 2^shift + low,
// with r uniform on PBits - shift bits. If StrongPrimes is set and low = 1,
// r must also be prime. Candidates equal to exclude are rejected.
func (kgen KeyGenerator) genPrime(stage string, shift int, low int64, exclude *big.Int) (*big.Int, error) {

	params := kgen.params
	pBits := params.PBits()
	strong := params.StrongPrimes() && low == 1

	bLow := big.NewInt(low)

	for i := 0; i < params.MaxAttempts(); i++ {

		r := kgen.source.Bits(pBits - shift)

		candidate := new(big.Int).Lsh(r, uint(shift))
		candidate.Or(candidate, bLow)

		if candidate.BitLen() != pBits {
			continue
		}

		if exclude != nil && candidate.Cmp(exclude) == 0 {
			continue
		}

		if strong && !r.ProbablyPrime(MillerRabinRounds) {
			continue
		}

		if candidate.ProbablyPrime(MillerRabinRounds) {
			return candidate, nil
		}
	}

	return nil, fmt.Errorf("%w: prime %s after %d attempts", ErrGenerationExhausted, stage, params.MaxAttempts())
}

// genNonResidue samples y uniformly on NBits bits until gcd(y, n) = 1 and
// y is a quadratic non-residue modulo both p and q. It returns y mod n.
func (kgen KeyGenerator) genNonResidue(n, p, q *big.Int) (*big.Int, error) {

	params := kgen.params
	gcd := new(big.Int)
	one := bignum.NewInt(1)

	for i := 0; i < params.MaxAttempts(); i++ {

		y := kgen.source.Bits(params.NBits())

		if gcd.GCD(nil, nil, y, n).Cmp(one) != 0 {
			continue
		}

		if big.Jacobi(y, p) != -1 || big.Jacobi(y, q) != -1 {
			continue
		}

		return y.Mod(y, n), nil
	}

	return nil, fmt.Errorf("%w: non-residue y after %d attempts", ErrGenerationExhausted, params.MaxAttempts())
}
