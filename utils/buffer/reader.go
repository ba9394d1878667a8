package buffer

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/exp/constraints"
)

// ReadAsUint64 reads an uint64 from r and stores it in c as a T.
func ReadAsUint64[T constraints.Integer](r Reader, c *T) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadAsUint64: c is nil")
	}

	var v uint64
	if n, err = ReadUint64(r, &v); err != nil {
		return
	}

	*c = T(v)

	return
}

// ReadAsUint8 reads an uint8 from r and stores it in c as a T.
func ReadAsUint8[T constraints.Integer](r Reader, c *T) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadAsUint8: c is nil")
	}

	var v uint8
	if n, err = ReadUint8(r, &v); err != nil {
		return
	}

	*c = T(v)

	return
}

// ReadBool reads a single byte from r and stores c = (byte != 0).
func ReadBool(r Reader, c *bool) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadBool: c is nil")
	}

	var v uint8
	if n, err = ReadUint8(r, &v); err != nil {
		return
	}

	*c = v != 0

	return
}

// ReadUint8 reads a byte from r and stores it in c.
func ReadUint8(r Reader, c *uint8) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint8: c is nil")
	}

	var bb = [1]byte{}

	nint, err := io.ReadFull(r, bb[:])
	if err != nil {
		return int64(nint), err
	}

	*c = bb[0]

	return int64(nint), nil
}

// ReadUint64 reads an uint64 from r and stores it in c.
func ReadUint64(r Reader, c *uint64) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint64: c is nil")
	}

	var bb = [8]byte{}

	nint, err := io.ReadFull(r, bb[:])
	if err != nil {
		return int64(nint), err
	}

	*c = binary.LittleEndian.Uint64(bb[:])

	return int64(nint), nil
}

// ReadUint8Slice reads exactly len(c) bytes from r into c.
func ReadUint8Slice(r Reader, c []uint8) (n int64, err error) {
	nint, err := io.ReadFull(r, c)
	return int64(nint), err
}
