package prs

import (
	"fmt"
	"math/big"

	"github.com/Pro7ech/prshss/utils/bignum"
	"github.com/Pro7ech/prshss/utils/sampling"
)

// Evaluator is a struct that holds the necessary elements to execute the
// homomorphic operations of the PRS cryptosystem. All operations are
// performed modulo the public modulus n and act on plaintexts modulo 2^K.
type Evaluator struct {
	params Parameters
	pk     *PublicKey
	*Encryptor
}

// NewEvaluator instantiates a new [Evaluator] for the public key pk. The source
// is only used by the operations which re-encrypt ([Evaluator.Rerandomize]);
// if it is nil, a new source is seeded from crypto/rand.
func NewEvaluator(params Parameters, pk *PublicKey, source *sampling.Source) *Evaluator {
	return &Evaluator{
		params:    params,
		pk:        pk,
		Encryptor: NewEncryptor(params, pk, source),
	}
}

// GetParameters returns the parameters of the receiver.
func (eval Evaluator) GetParameters() Parameters {
	return eval.params
}

// WithSource returns an instance of the receiver drawing its randomness from source.
// The returned object and the receiver can be used concurrently.
func (eval Evaluator) WithSource(source *sampling.Source) *Evaluator {
	eval.Encryptor = eval.Encryptor.WithSource(source)
	return &eval
}

// ShallowCopy creates a shallow copy of the receiver whose source is derived from
// the receiver's source. The receiver and the returned object can be used concurrently.
func (eval Evaluator) ShallowCopy() *Evaluator {
	return eval.WithSource(eval.Encryptor.source.NewSource())
}

// Add computes opOut = op0 * op1 mod n, an encryption of m0 + m1 mod 2^K.
func (eval Evaluator) Add(op0, op1, opOut *Ciphertext) {
	out := eval.out(opOut)
	out.Mul(op0.Value, op1.Value)
	out.Mod(out, eval.pk.N)
}

// AddNew computes op0 * op1 mod n on a new [Ciphertext].
func (eval Evaluator) AddNew(op0, op1 *Ciphertext) (opOut *Ciphertext) {
	opOut = NewCiphertext()
	eval.Add(op0, op1, opOut)
	return
}

// Sub computes opOut = op0 * op1^{-1} mod n, an encryption of m0 - m1 mod 2^K.
func (eval Evaluator) Sub(op0, op1, opOut *Ciphertext) (err error) {
	inv := new(big.Int)
	if inv.ModInverse(op1.Value, eval.pk.N) == nil {
		return fmt.Errorf("cannot Sub: op1 is not invertible mod n")
	}
	eval.Add(op0, &Ciphertext{Value: inv}, opOut)
	return
}

// Neg computes opOut = op0^{-1} mod n, an encryption of -m0 mod 2^K.
func (eval Evaluator) Neg(op0, opOut *Ciphertext) (err error) {
	out := eval.out(opOut)
	if out.ModInverse(op0.Value, eval.pk.N) == nil {
		return fmt.Errorf("cannot Neg: op0 is not invertible mod n")
	}
	return
}

// MulScalar computes opOut = op0^scalar mod n, an encryption of m0 * scalar mod 2^K.
// The scalar is reduced mod 2^K first, so negative scalars are supported.
// Accepted types for scalar are those of [bignum.NewInt].
func (eval Evaluator) MulScalar(op0 *Ciphertext, scalar interface{}, opOut *Ciphertext) {
	e := bignum.NewInt(scalar)
	bignum.ModPow2(e, e, eval.params.K())
	out := eval.out(opOut)
	out.Exp(op0.Value, e, eval.pk.N)
}

// MulScalarNew computes op0^scalar mod n on a new [Ciphertext].
func (eval Evaluator) MulScalarNew(op0 *Ciphertext, scalar interface{}) (opOut *Ciphertext) {
	opOut = NewCiphertext()
	eval.MulScalar(op0, scalar, opOut)
	return
}

// AddPlain computes opOut = op0 * y^m mod n, an encryption of m0 + m mod 2^K,
// without fresh randomness. Accepted types for op1 are *[Plaintext] and those
// of [bignum.NewInt].
func (eval Evaluator) AddPlain(op0 *Ciphertext, op1 interface{}, opOut *Ciphertext) {

	var m *big.Int
	switch op1 := op1.(type) {
	case *Plaintext:
		m = bignum.NewInt(op1.Value)
	default:
		m = bignum.NewInt(op1)
	}

	bignum.ModPow2(m, m, eval.params.K())

	m.Exp(eval.pk.Y, m, eval.pk.N)

	eval.Add(op0, &Ciphertext{Value: m}, opOut)
}

// Rerandomize computes opOut = op0 * Enc(0): the result decrypts to the same
// value as op0 but is unlinkable to it.
func (eval Evaluator) Rerandomize(op0, opOut *Ciphertext) (err error) {
	var zero *Ciphertext
	if zero, err = eval.EncryptZeroNew(); err != nil {
		return fmt.Errorf("EncryptZeroNew: %w", err)
	}
	eval.Add(op0, zero, opOut)
	return
}

// out returns the value of opOut, allocating it if necessary.
func (eval Evaluator) out(opOut *Ciphertext) *big.Int {
	if opOut.Value == nil {
		opOut.Value = new(big.Int)
	}
	return opOut.Value
}
