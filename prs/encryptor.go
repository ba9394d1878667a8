package prs

import (
	"fmt"
	"math/big"

	"github.com/Pro7ech/prshss/utils/bignum"
	"github.com/Pro7ech/prshss/utils/sampling"
)

// Encryptor is a structure that stores the elements required to encrypt plaintexts.
// An Encryptor is not safe for concurrent use if its source is shared: use
// [Encryptor.WithSource] to give each goroutine its own stream.
type Encryptor struct {
	params Parameters
	pk     *PublicKey
	source *sampling.Source
}

// NewEncryptor creates a new [Encryptor] from the public key pk, drawing the blinding
// factors from source. If source is nil, a new source is seeded from crypto/rand.
func NewEncryptor(params Parameters, pk *PublicKey, source *sampling.Source) *Encryptor {
	if source == nil {
		source = sampling.NewSource(sampling.NewSeed())
	}
	return &Encryptor{
		params: params,
		pk:     pk,
		source: source,
	}
}

// GetPublicKey returns the public key of the receiver.
func (enc Encryptor) GetPublicKey() *PublicKey {
	return enc.pk
}

// GetSource returns the source from which the receiver draws its blinding factors.
func (enc Encryptor) GetSource() *sampling.Source {
	return enc.source
}

// WithKey returns an instance of the receiver with a new public key.
// The source is shared with the receiver.
func (enc Encryptor) WithKey(pk *PublicKey) *Encryptor {
	enc.pk = pk
	return &enc
}

// WithSource returns an instance of the receiver drawing its randomness from source.
// The returned object and the receiver can be used concurrently.
func (enc Encryptor) WithSource(source *sampling.Source) *Encryptor {
	enc.source = source
	return &enc
}

// EncryptNew encrypts pt and returns the result on a newly allocated [Ciphertext].
func (enc Encryptor) EncryptNew(pt *Plaintext) (ct *Ciphertext, err error) {
	ct = NewCiphertext()
	return ct, enc.Encrypt(pt, ct)
}

// Encrypt encrypts pt on ct: ct = y^m * x^{2^K} mod n with m = pt mod 2^K and
// x a blinding factor sampled on [Parameters.BlindBits] bits.
func (enc Encryptor) Encrypt(pt *Plaintext, ct *Ciphertext) (err error) {
	return enc.EncryptWithBlindBits(pt, enc.params.BlindBits(), ct)
}

// EncryptZeroNew returns a fresh encryption of zero.
func (enc Encryptor) EncryptZeroNew() (ct *Ciphertext, err error) {
	return enc.EncryptNew(&Plaintext{Value: new(big.Int)})
}

// EncryptWithBlindBits encrypts pt on ct with a blinding factor sampled on
// blindBits bits. blindBits must be in [1, K].
func (enc Encryptor) EncryptWithBlindBits(pt *Plaintext, blindBits int, ct *Ciphertext) (err error) {

	if err = checkBlindBits(blindBits, enc.params.K()); err != nil {
		return
	}

	if enc.pk == nil {
		return fmt.Errorf("cannot Encrypt: public key is nil")
	}

	if pt == nil || pt.Value == nil {
		return fmt.Errorf("cannot Encrypt: plaintext is nil")
	}

	n := enc.pk.N

	m := bignum.ModPow2(new(big.Int), pt.Value, enc.params.K())

	// x = 0 is the only value of [0, 2^K) not coprime with n,
	// since both prime factors are larger than 2^K.
	x := enc.source.Bits(blindBits)
	for x.Sign() == 0 {
		x = enc.source.Bits(blindBits)
	}

	x.Exp(x, enc.pk.K2, n)

	if ct.Value == nil {
		ct.Value = new(big.Int)
	}

	ct.Value.Exp(enc.pk.Y, m, n)
	ct.Value.Mul(ct.Value, x)
	ct.Value.Mod(ct.Value, n)

	return
}
