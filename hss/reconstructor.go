package hss

import (
	"fmt"
	"math/big"

	"github.com/Pro7ech/prshss/prs"
	"github.com/Pro7ech/prshss/utils/bignum"
)

// Reconstructor combines the contributions of all the parties and decrypts the result.
// It is the only component of the protocol holding the secret key.
type Reconstructor struct {
	params prs.Parameters
	n      *big.Int
	*prs.Decryptor
}

// NewReconstructor instantiates a new [Reconstructor] from the secret key sk.
func NewReconstructor(params prs.Parameters, sk *prs.SecretKey) *Reconstructor {
	return &Reconstructor{
		params:    params,
		n:         new(big.Int).Mul(sk.P, sk.Q),
		Decryptor: prs.NewDecryptor(params, sk),
	}
}

// Combine returns the product mod n of the contributions, an encryption of the sum of their plaintexts.
func (rec Reconstructor) Combine(contributions []*prs.Ciphertext) (ct *prs.Ciphertext, err error) {

	if len(contributions) == 0 {
		return nil, fmt.Errorf("cannot Combine: no contribution")
	}

	ct = &prs.Ciphertext{Value: big.NewInt(1)}

	for i, c := range contributions {

		if c == nil || c.Value == nil {
			return nil, fmt.Errorf("cannot Combine: contribution %d is nil", i)
		}

		ct.Value.Mul(ct.Value, c.Value)
		ct.Value.Mod(ct.Value, rec.n)
	}

	return
}

// Decode combines the contributions and decrypts the result once. The
// returned value is in [0, 2^K).
func (rec Reconstructor) Decode(contributions []*prs.Ciphertext) (pt *prs.Plaintext, err error) {

	var ct *prs.Ciphertext
	if ct, err = rec.Combine(contributions); err != nil {
		return
	}

	return rec.DecryptNew(ct), nil
}

// DecodeSigned decodes the contributions and returns the signed representative
// of the result in (-2^{K-1}, 2^{K-1}].
func (rec Reconstructor) DecodeSigned(contributions []*prs.Ciphertext) (m *big.Int, err error) {

	var pt *prs.Plaintext
	if pt, err = rec.Decode(contributions); err != nil {
		return
	}

	return rec.params.Centered(pt.Value), nil
}

// DecodeAndCheck decodes the contributions and returns an error wrapping
// [ErrVerificationMismatch] if the result differs from want mod 2^K.
func (rec Reconstructor) DecodeAndCheck(contributions []*prs.Ciphertext, want *big.Int) (pt *prs.Plaintext, err error) {

	if pt, err = rec.Decode(contributions); err != nil {
		return
	}

	expected := bignum.ModPow2(new(big.Int), want, rec.params.K())

	if pt.Value.Cmp(expected) != 0 {
		return pt, fmt.Errorf("%w: decoded %s but expected %s", ErrVerificationMismatch, pt.Value, expected)
	}

	return
}
