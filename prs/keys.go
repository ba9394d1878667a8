package prs

import (
	"bufio"
	"fmt"
	"io"
	"math/big"

	"github.com/Pro7ech/prshss/utils/bignum"
	"github.com/Pro7ech/prshss/utils/buffer"
	"github.com/Pro7ech/prshss/utils/structs"
)

// PublicKey is a type for PRS public keys.
type PublicKey struct {
	// N is the public modulus p*q.
	N *big.Int
	// Y is a non-residue modulo both p and q, in [0, N).
	Y *big.Int
	// K is the message bit-width.
	K int
	// K2 is 2^K.
	K2 *big.Int
}

// NewPublicKey returns a new [PublicKey] with zero values for the given parameters.
func NewPublicKey(params Parameters) *PublicKey {
	return &PublicKey{
		N:  new(big.Int),
		Y:  new(big.Int),
		K:  params.K(),
		K2: params.MessageModulus(),
	}
}

// Clone returns a deep copy of the object.
func (pk PublicKey) Clone() *PublicKey {
	return &PublicKey{
		N:  bignum.NewInt(pk.N),
		Y:  bignum.NewInt(pk.Y),
		K:  pk.K,
		K2: bignum.NewInt(pk.K2),
	}
}

// Equal performs a deep equal.
func (pk PublicKey) Equal(other *PublicKey) bool {
	return pk.K == other.K && cmpNil(pk.N, other.N) == 0 && cmpNil(pk.Y, other.Y) == 0
}

// BinarySize returns the serialized size of the object in bytes.
func (pk PublicKey) BinarySize() int {
	return 8 + buffer.BigIntBinarySize(pk.N) + buffer.BigIntBinarySize(pk.Y)
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (pk PublicKey) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		if inc, err = buffer.WriteAsUint64(w, pk.K); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteAsUint64: %w", err)
		}

		n += inc

		for _, x := range []*big.Int{pk.N, pk.Y} {
			if inc, err = buffer.WriteBigInt(w, x); err != nil {
				return n + inc, fmt.Errorf("buffer.WriteBigInt: %w", err)
			}
			n += inc
		}

		return n, w.Flush()
	default:
		return pk.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
func (pk *PublicKey) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var inc int64

		if inc, err = buffer.ReadAsUint64(r, &pk.K); err != nil {
			return n + inc, fmt.Errorf("buffer.ReadAsUint64: %w", err)
		}

		n += inc

		if pk.K < 1 || pk.K > maxK {
			return n, fmt.Errorf("invalid public key: K must be in [1, %d] but is %d", maxK, pk.K)
		}

		pk.K2 = bignum.Pow2(pk.K)

		if pk.N == nil {
			pk.N = new(big.Int)
		}

		if pk.Y == nil {
			pk.Y = new(big.Int)
		}

		for _, x := range []*big.Int{pk.N, pk.Y} {
			if inc, err = buffer.ReadBigInt(r, x); err != nil {
				return n + inc, fmt.Errorf("buffer.ReadBigInt: %w", err)
			}
			n += inc
		}

		return
	default:
		return pk.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (pk PublicKey) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(pk.BinarySize())
	_, err = pk.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (pk *PublicKey) UnmarshalBinary(p []byte) (err error) {
	_, err = pk.ReadFrom(buffer.NewBuffer(p))
	return
}

// maxK bounds the message bit-width accepted when decoding keys.
const maxK = 1 << 16

// SecretKey is a type for PRS secret keys.
type SecretKey struct {
	// P is the prime factor of N congruent to 1 mod 2^K.
	P *big.Int
	// Q is the second prime factor of N.
	Q *big.Int
	// Ladder stores the K-1 decryption constants
	// d_i = y^{-2^i * (P-1)/2^K} mod P.
	Ladder structs.Vector[Integer]
}

// Integer is a serializable *big.Int, used as component of [structs.Vector].
type Integer struct {
	*big.Int
}

// Clone returns a deep copy of the object.
func (i Integer) Clone() *Integer {
	return &Integer{Int: bignum.NewInt(i.Int)}
}

// Equal performs a deep equal.
func (i Integer) Equal(other *Integer) bool {
	return cmpNil(i.Int, other.Int) == 0
}

// BinarySize returns the serialized size of the object in bytes.
func (i Integer) BinarySize() int {
	return buffer.BigIntBinarySize(i.Int)
}

// WriteTo writes the object on an io.Writer.
func (i Integer) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:
		if n, err = buffer.WriteBigInt(w, i.Int); err != nil {
			return
		}
		return n, w.Flush()
	default:
		return i.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Reader.
func (i *Integer) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:
		if i.Int == nil {
			i.Int = new(big.Int)
		}
		return buffer.ReadBigInt(r, i.Int)
	default:
		return i.ReadFrom(bufio.NewReader(r))
	}
}

// Clone returns a deep copy of the object.
func (sk SecretKey) Clone() *SecretKey {
	return &SecretKey{
		P:      bignum.NewInt(sk.P),
		Q:      bignum.NewInt(sk.Q),
		Ladder: sk.Ladder.Clone(),
	}
}

// Equal performs a deep equal.
func (sk SecretKey) Equal(other *SecretKey) bool {
	return cmpNil(sk.P, other.P) == 0 && cmpNil(sk.Q, other.Q) == 0 && sk.Ladder.Equal(other.Ladder)
}

// Zeroize overwrites the secret material of the receiver with zeros.
// The receiver must not be used afterwards.
func (sk *SecretKey) Zeroize() {
	wipe(sk.P)
	wipe(sk.Q)
	for i := range sk.Ladder {
		wipe(sk.Ladder[i].Int)
	}
	sk.Ladder = sk.Ladder[:0]
}

func wipe(x *big.Int) {
	if x != nil {
		clear(x.Bits())
		x.SetInt64(0)
	}
}

// BinarySize returns the serialized size of the object in bytes.
func (sk SecretKey) BinarySize() int {
	return buffer.BigIntBinarySize(sk.P) + buffer.BigIntBinarySize(sk.Q) + sk.Ladder.BinarySize()
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (sk SecretKey) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		for _, x := range []*big.Int{sk.P, sk.Q} {
			if inc, err = buffer.WriteBigInt(w, x); err != nil {
				return n + inc, fmt.Errorf("buffer.WriteBigInt: %w", err)
			}
			n += inc
		}

		if inc, err = sk.Ladder.WriteTo(w); err != nil {
			return n + inc, fmt.Errorf("structs.Vector[Integer].WriteTo: %w", err)
		}

		return n + inc, w.Flush()
	default:
		return sk.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
func (sk *SecretKey) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		if sk.P == nil {
			sk.P = new(big.Int)
		}

		if sk.Q == nil {
			sk.Q = new(big.Int)
		}

		var inc int64

		for _, x := range []*big.Int{sk.P, sk.Q} {
			if inc, err = buffer.ReadBigInt(r, x); err != nil {
				return n + inc, fmt.Errorf("buffer.ReadBigInt: %w", err)
			}
			n += inc
		}

		if inc, err = sk.Ladder.ReadFrom(r); err != nil {
			return n + inc, fmt.Errorf("structs.Vector[Integer].ReadFrom: %w", err)
		}

		return n + inc, nil
	default:
		return sk.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (sk SecretKey) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(sk.BinarySize())
	_, err = sk.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (sk *SecretKey) UnmarshalBinary(p []byte) (err error) {
	_, err = sk.ReadFrom(buffer.NewBuffer(p))
	return
}
