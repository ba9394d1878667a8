package prs

import (
	"fmt"
	"math/big"
)

// Decryptor is a structure used to decrypt [Ciphertext]. It stores the secret key.
type Decryptor struct {
	params Parameters
	sk     *SecretKey
	exp    *big.Int // (p-1)/2^K
}

// NewDecryptor instantiates a new [Decryptor] from the secret key sk.
// The method panics if sk does not match params: its ladder must have K-1
// entries and p must be congruent to 1 modulo 2^K.
func NewDecryptor(params Parameters, sk *SecretKey) *Decryptor {

	if err := checkSecretKey(params, sk); err != nil {
		panic(fmt.Errorf("cannot NewDecryptor: %w", err))
	}

	exp := new(big.Int).Sub(sk.P, big.NewInt(1))
	exp.Rsh(exp, uint(params.K()))
	return &Decryptor{
		params: params,
		sk:     sk,
		exp:    exp,
	}
}

// WithKey returns an instance of the receiver with a new secret key.
func (d Decryptor) WithKey(sk *SecretKey) *Decryptor {
	return NewDecryptor(d.params, sk)
}

// DecryptNew decrypts the [Ciphertext] and returns the result in a new [Plaintext].
func (d Decryptor) DecryptNew(ct *Ciphertext) (pt *Plaintext) {
	pt = &Plaintext{Value: new(big.Int)}
	d.Decrypt(ct, pt)
	return
}

// Decrypt decrypts the [Ciphertext] and writes the result on pt, in [0, 2^K).
//
// The bits of m are recovered from the least significant one: with
// C = c^{(p-1)/2^K} mod p = (y^{(p-1)/2^K})^m mod p, the j-th bit is set iff
// C^{2^{K-j}} != 1 mod p, in which case it is removed from C with the ladder.
func (d Decryptor) Decrypt(ct *Ciphertext, pt *Plaintext) {

	p := d.sk.P
	k := d.params.K()

	C := new(big.Int).Exp(ct.Value, d.exp, p)

	if pt.Value == nil {
		pt.Value = new(big.Int)
	}

	m := pt.Value.SetInt64(0)
	B := big.NewInt(1)
	z := new(big.Int)
	e := new(big.Int)

	for j := 1; j < k; j++ {

		e.SetInt64(1)
		e.Lsh(e, uint(k-j))

		if z.Exp(C, e, p); !isOne(z) {
			m.Add(m, B)
			C.Mul(C, d.sk.Ladder[j-1].Int)
			C.Mod(C, p)
		}

		B.Lsh(B, 1)
	}

	if !isOne(C) {
		m.Add(m, B)
	}
}

func checkSecretKey(params Parameters, sk *SecretKey) error {

	if sk == nil || sk.P == nil {
		return fmt.Errorf("secret key is nil")
	}

	k := params.K()

	if sk.P.BitLen() <= k || sk.P.TrailingZeroBits() != 0 {
		return fmt.Errorf("secret key prime is invalid for K=%d", k)
	}

	if tz := new(big.Int).Sub(sk.P, big.NewInt(1)).TrailingZeroBits(); tz < uint(k) {
		return fmt.Errorf("secret key prime is not 1 mod 2^%d", k)
	}

	if len(sk.Ladder) != k-1 {
		return fmt.Errorf("secret key ladder has %d entries but K=%d requires %d", len(sk.Ladder), k, k-1)
	}

	for i := range sk.Ladder {
		if sk.Ladder[i].Int == nil {
			return fmt.Errorf("secret key ladder entry %d is nil", i)
		}
	}

	return nil
}

func isOne(x *big.Int) bool {
	return x.IsInt64() && x.Int64() == 1
}
