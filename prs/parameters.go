// Package prs implements the 2^k-th power residue public-key cryptosystem (PRS):
// an additively homomorphic scheme with plaintexts in Z_{2^k} and ciphertexts
// in Z_n^*, where n = p*q and p = 1 mod 2^k.
package prs

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/Pro7ech/prshss/utils/bignum"
	"github.com/Pro7ech/prshss/utils/buffer"
)

const (
	// DefaultMaxAttempts is the default bound on every rejection-sampling
	// loop of the key generation.
	DefaultMaxAttempts = 1 << 20

	// MillerRabinRounds is the number of Miller-Rabin rounds used
	// by the primality tests of the key generation.
	MillerRabinRounds = 12
)

// ParametersLiteral is a literal representation of PRS parameters. It has public fields and
// is used to express unchecked user-defined parameters literally into Go programs.
// The NewParametersFromLiteral function is used to generate the actual checked parameters
// from the literal representation.
//
// Users must set the message bit-width (K) and the modulus bit-size (NBits).
//
// Optionally, users may specify
//   - the bit-size of the encryption blinding factor (BlindBits, default K)
//   - the strengthened prime variant (StrongPrimes)
//   - the bound on the rejection-sampling loops of the key generation (MaxAttempts).
type ParametersLiteral struct {
	K            int
	NBits        int
	BlindBits    int  `json:",omitempty"`
	StrongPrimes bool `json:",omitempty"`
	MaxAttempts  int  `json:",omitempty"`
}

// BinarySize returns the serialized size of the object in bytes.
func (p ParametersLiteral) BinarySize() (size int) {
	return 8 + 8 + 8 + 1 + 8
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (p ParametersLiteral) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		for _, v := range []int{p.K, p.NBits, p.BlindBits} {
			if inc, err = buffer.WriteAsUint64(w, v); err != nil {
				return n + inc, err
			}
			n += inc
		}

		if inc, err = buffer.WriteBool(w, p.StrongPrimes); err != nil {
			return n + inc, err
		}

		n += inc

		if inc, err = buffer.WriteAsUint64(w, p.MaxAttempts); err != nil {
			return n + inc, err
		}

		n += inc

		return n, w.Flush()
	default:
		return p.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
func (p *ParametersLiteral) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var inc int64

		for _, v := range []*int{&p.K, &p.NBits, &p.BlindBits} {
			if inc, err = buffer.ReadAsUint64(r, v); err != nil {
				return n + inc, err
			}
			n += inc
		}

		if inc, err = buffer.ReadBool(r, &p.StrongPrimes); err != nil {
			return n + inc, err
		}

		n += inc

		if inc, err = buffer.ReadAsUint64(r, &p.MaxAttempts); err != nil {
			return n + inc, err
		}

		return n + inc, nil
	default:
		return p.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (p ParametersLiteral) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(p.BinarySize())
	_, err = p.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (p *ParametersLiteral) UnmarshalBinary(data []byte) (err error) {
	_, err = p.ReadFrom(buffer.NewBuffer(data))
	return
}

// Parameters represents a set of checked PRS parameters. Parameters are
// immutable and should be created with [NewParametersFromLiteral].
type Parameters struct {
	k            int
	nBits        int
	blindBits    int
	strongPrimes bool
	maxAttempts  int
}

// NewParametersFromLiteral instantiates a set of PRS parameters from a [ParametersLiteral].
// It returns an error wrapping [ErrParameter] if the parameters are invalid.
//
// The following constraints are enforced:
//   - K >= 1 and NBits > 1
//   - K < NBits/2, so that a prime of NBits/2 bits congruent to 1 mod 2^K exists
//   - 0 < BlindBits <= K, with BlindBits = 0 replaced by K
//   - MaxAttempts >= 0, with MaxAttempts = 0 replaced by [DefaultMaxAttempts].
func NewParametersFromLiteral(pl ParametersLiteral) (params Parameters, err error) {

	if pl.NBits <= 1 {
		return params, fmt.Errorf("%w: NBits must be > 1 but is %d", ErrParameter, pl.NBits)
	}

	if pl.K < 1 {
		return params, fmt.Errorf("%w: K must be >= 1 but is %d", ErrParameter, pl.K)
	}

	if pl.K >= pl.NBits>>1 {
		return params, fmt.Errorf("%w: K must be < NBits/2 = %d but is %d", ErrParameter, pl.NBits>>1, pl.K)
	}

	blindBits := pl.BlindBits
	if blindBits == 0 {
		blindBits = pl.K
	}

	if err = checkBlindBits(blindBits, pl.K); err != nil {
		return
	}

	maxAttempts := pl.MaxAttempts
	switch {
	case maxAttempts == 0:
		maxAttempts = DefaultMaxAttempts
	case maxAttempts < 0:
		return params, fmt.Errorf("%w: MaxAttempts must be >= 0 but is %d", ErrParameter, maxAttempts)
	}

	return Parameters{
		k:            pl.K,
		nBits:        pl.NBits,
		blindBits:    blindBits,
		strongPrimes: pl.StrongPrimes,
		maxAttempts:  maxAttempts,
	}, nil
}

func checkBlindBits(blindBits, k int) (err error) {
	if blindBits <= 0 || blindBits > k {
		return fmt.Errorf("%w: BlindBits must be in [1, %d] but is %d", ErrParameter, k, blindBits)
	}
	return
}

// ParametersLiteral returns the [ParametersLiteral] of the target [Parameters].
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		K:            p.k,
		NBits:        p.nBits,
		BlindBits:    p.blindBits,
		StrongPrimes: p.strongPrimes,
		MaxAttempts:  p.maxAttempts,
	}
}

// K returns the message bit-width: plaintexts live in Z_{2^K}.
func (p Parameters) K() int {
	return p.k
}

// NBits returns the target bit-size of the public modulus n.
func (p Parameters) NBits() int {
	return p.nBits
}

// PBits returns the bit-size of each of the two prime factors of n.
func (p Parameters) PBits() int {
	return p.nBits >> 1
}

// BlindBits returns the bit-size of the blinding factor sampled at encryption.
func (p Parameters) BlindBits() int {
	return p.blindBits
}

// StrongPrimes returns true if the key generation samples primes
// p and q such that (p-1)/2^K and (q-1)/2^K are also prime.
func (p Parameters) StrongPrimes() bool {
	return p.strongPrimes
}

// MaxAttempts returns the bound on every rejection-sampling loop of the key generation.
func (p Parameters) MaxAttempts() int {
	return p.maxAttempts
}

// MessageModulus returns a new *big.Int equal to 2^K.
func (p Parameters) MessageModulus() *big.Int {
	return bignum.Pow2(p.k)
}

// Centered returns the signed representative of m mod 2^K in (-2^{K-1}, 2^{K-1}].
func (p Parameters) Centered(m *big.Int) *big.Int {
	return bignum.CenterPow2(new(big.Int), m, p.k)
}

// SecurityLevel returns a heuristic estimate, in bits, of the cost of factoring
// the modulus with the general number field sieve: log2(L_n[1/3, (64/9)^{1/3}]).
// The estimate ignores the o(1) term and is only meant for comparing parameter sets.
func (p Parameters) SecurityLevel() float64 {

	prec := uint(128)

	ln2 := bignum.Log(bignum.NewFloat(2, prec))

	// ln(n)
	lnN := bignum.NewFloat(p.nBits, prec)
	lnN.Mul(lnN, ln2)

	c := bignum.NewFloat(64, prec)
	c.Quo(c, bignum.NewFloat(9, prec))
	third := bignum.NewFloat(1, prec)
	third.Quo(third, bignum.NewFloat(3, prec))
	twoThird := new(big.Float).SetPrec(prec).Add(third, third)

	// c * ln(n)^{1/3} * ln(ln(n))^{2/3}
	lnL := bignum.Pow(c, third)
	lnL.Mul(lnL, bignum.Pow(lnN, third))
	lnL.Mul(lnL, bignum.Pow(bignum.Log(lnN), twoThird))

	f64, _ := lnL.Quo(lnL, ln2).Float64()
	return f64
}

// Equal returns true if the receiver and the operand are identical.
func (p Parameters) Equal(other *Parameters) bool {
	return p == *other
}

// BinarySize returns the serialized size of the object in bytes.
func (p Parameters) BinarySize() int {
	return p.ParametersLiteral().BinarySize()
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (p Parameters) WriteTo(w io.Writer) (n int64, err error) {
	return p.ParametersLiteral().WriteTo(w)
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface. The decoded parameters are checked.
func (p *Parameters) ReadFrom(r io.Reader) (n int64, err error) {
	var pl ParametersLiteral
	if n, err = pl.ReadFrom(r); err != nil {
		return
	}
	*p, err = NewParametersFromLiteral(pl)
	return
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (p Parameters) MarshalBinary() (data []byte, err error) {
	return p.ParametersLiteral().MarshalBinary()
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (p *Parameters) UnmarshalBinary(data []byte) (err error) {
	_, err = p.ReadFrom(buffer.NewBuffer(data))
	return
}

// MarshalJSON returns a JSON representation of this parameter set. See Marshal from the [encoding/json] package.
func (p Parameters) MarshalJSON() (data []byte, err error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation of a parameter set into the receiver Parameter. See Unmarshal from the [encoding/json] package.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var params ParametersLiteral
	if err = json.Unmarshal(data, &params); err != nil {
		return
	}
	*p, err = NewParametersFromLiteral(params)
	return
}
