package prs

import (
	"bufio"
	"fmt"
	"io"
	"math/big"

	"github.com/Pro7ech/prshss/utils/bignum"
	"github.com/Pro7ech/prshss/utils/buffer"
)

// Ciphertext is a PRS ciphertext: an element c = y^m * x^{2^k} mod n of Z_n^*.
type Ciphertext struct {
	Value *big.Int
}

// NewCiphertext allocates a new [Ciphertext] with value zero.
func NewCiphertext() *Ciphertext {
	return &Ciphertext{Value: new(big.Int)}
}

// Clone returns a deep copy of the object.
func (ct Ciphertext) Clone() *Ciphertext {
	return &Ciphertext{Value: bignum.NewInt(ct.Value)}
}

// Copy copies the input element on the receiver.
func (ct *Ciphertext) Copy(other *Ciphertext) {
	if ct.Value == nil {
		ct.Value = new(big.Int)
	}
	ct.Value.Set(other.Value)
}

// Equal performs a deep equal.
func (ct Ciphertext) Equal(other *Ciphertext) bool {
	return cmpNil(ct.Value, other.Value) == 0
}

// BinarySize returns the serialized size of the object in bytes.
func (ct Ciphertext) BinarySize() int {
	return buffer.BigIntBinarySize(ct.Value)
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
//
// Unless w implements the buffer.Writer interface (see prshss/utils/buffer/writer.go),
// it will be wrapped into a bufio.Writer.
func (ct Ciphertext) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:
		if n, err = buffer.WriteBigInt(w, ct.Value); err != nil {
			return n, fmt.Errorf("buffer.WriteBigInt: %w", err)
		}
		return n, w.Flush()
	default:
		return ct.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
//
// Unless r implements the buffer.Reader interface (see prshss/utils/buffer/reader.go),
// it will be wrapped into a bufio.Reader.
func (ct *Ciphertext) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:
		if ct.Value == nil {
			ct.Value = new(big.Int)
		}
		if n, err = buffer.ReadBigInt(r, ct.Value); err != nil {
			return n, fmt.Errorf("buffer.ReadBigInt: %w", err)
		}
		return
	default:
		return ct.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (ct Ciphertext) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(ct.BinarySize())
	_, err = ct.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (ct *Ciphertext) UnmarshalBinary(p []byte) (err error) {
	_, err = ct.ReadFrom(buffer.NewBuffer(p))
	return
}

// Plaintext is a PRS plaintext: an integer in [0, 2^k).
type Plaintext struct {
	Value *big.Int
}

// NewPlaintext allocates a new [Plaintext] storing m mod 2^k.
// Accepted types for m are those of [bignum.NewInt]; negative values
// are mapped to their representative in [0, 2^k).
func NewPlaintext(params Parameters, m interface{}) *Plaintext {
	v := bignum.NewInt(m)
	return &Plaintext{Value: bignum.ModPow2(v, v, params.K())}
}

// Clone returns a deep copy of the object.
func (pt Plaintext) Clone() *Plaintext {
	return &Plaintext{Value: bignum.NewInt(pt.Value)}
}

// Copy copies the input element on the receiver.
func (pt *Plaintext) Copy(other *Plaintext) {
	if pt.Value == nil {
		pt.Value = new(big.Int)
	}
	pt.Value.Set(other.Value)
}

// Equal performs a deep equal.
func (pt Plaintext) Equal(other *Plaintext) bool {
	return cmpNil(pt.Value, other.Value) == 0
}

// BinarySize returns the serialized size of the object in bytes.
func (pt Plaintext) BinarySize() int {
	return buffer.BigIntBinarySize(pt.Value)
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (pt Plaintext) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:
		if n, err = buffer.WriteBigInt(w, pt.Value); err != nil {
			return n, fmt.Errorf("buffer.WriteBigInt: %w", err)
		}
		return n, w.Flush()
	default:
		return pt.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
func (pt *Plaintext) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:
		if pt.Value == nil {
			pt.Value = new(big.Int)
		}
		if n, err = buffer.ReadBigInt(r, pt.Value); err != nil {
			return n, fmt.Errorf("buffer.ReadBigInt: %w", err)
		}
		return
	default:
		return pt.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (pt Plaintext) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(pt.BinarySize())
	_, err = pt.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (pt *Plaintext) UnmarshalBinary(p []byte) (err error) {
	_, err = pt.ReadFrom(buffer.NewBuffer(p))
	return
}

// cmpNil compares a and b, treating nil as zero.
func cmpNil(a, b *big.Int) int {
	zero := new(big.Int)
	if a == nil {
		a = zero
	}
	if b == nil {
		b = zero
	}
	return a.Cmp(b)
}
