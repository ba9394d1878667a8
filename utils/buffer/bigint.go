package buffer

import (
	"fmt"
	"math/big"
)

// maxBigIntBytes bounds the size of an encoded integer (2^27 bits).
const maxBigIntBytes = 1 << 24

// BigIntBinarySize returns the number of bytes used by
// [WriteBigInt] to serialize x: an 8-byte length followed
// by the big-endian magnitude. Only non-negative values are
// supported.
func BigIntBinarySize(x *big.Int) int {
	if x == nil {
		return 8
	}
	return 8 + (x.BitLen()+7)>>3
}

// WriteBigInt writes the non-negative integer x to w.
// A nil x is written as zero.
func WriteBigInt(w Writer, x *big.Int) (n int64, err error) {

	if x != nil && x.Sign() < 0 {
		return 0, fmt.Errorf("cannot WriteBigInt: x is negative")
	}

	var bytes []byte
	if x != nil {
		bytes = x.Bytes()
	}

	var inc int64
	if inc, err = WriteAsUint64(w, len(bytes)); err != nil {
		return n + inc, fmt.Errorf("buffer.WriteAsUint64: %w", err)
	}

	n += inc

	if inc, err = WriteUint8Slice(w, bytes); err != nil {
		return n + inc, fmt.Errorf("buffer.WriteUint8Slice: %w", err)
	}

	return n + inc, nil
}

// ReadBigInt reads an integer written by [WriteBigInt] from r
// and stores it in x.
func ReadBigInt(r Reader, x *big.Int) (n int64, err error) {

	if x == nil {
		return 0, fmt.Errorf("cannot ReadBigInt: x is nil")
	}

	var size int
	var inc int64
	if inc, err = ReadAsUint64(r, &size); err != nil {
		return n + inc, fmt.Errorf("buffer.ReadAsUint64: %w", err)
	}

	n += inc

	if size < 0 || size > maxBigIntBytes {
		return n, fmt.Errorf("cannot ReadBigInt: invalid encoded size %d", size)
	}

	bytes := make([]byte, size)
	if inc, err = ReadUint8Slice(r, bytes); err != nil {
		return n + inc, fmt.Errorf("buffer.ReadUint8Slice: %w", err)
	}

	x.SetBytes(bytes)

	return n + inc, nil
}
