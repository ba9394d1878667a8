package buffer

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/exp/constraints"
)

// WriteAsUint64 casts c to an uint64 and writes it to w.
// User must ensure that c can be stored in an uint64.
func WriteAsUint64[T constraints.Integer](w Writer, c T) (n int64, err error) {
	return WriteUint64(w, uint64(c))
}

// WriteAsUint8 casts c to an uint8 and writes it to w.
// User must ensure that c can be stored in an uint8.
func WriteAsUint8[T constraints.Integer](w Writer, c T) (n int64, err error) {
	return WriteUint8(w, uint8(c))
}

// WriteBool writes c as a single byte to w.
func WriteBool(w Writer, c bool) (n int64, err error) {
	if c {
		return WriteUint8(w, 1)
	}
	return WriteUint8(w, 0)
}

// Write writes a slice of bytes to w.
func Write(w Writer, c []byte) (n int64, err error) {
	nint, err := w.Write(c)
	return int64(nint), err
}

// WriteUint8 writes a byte c to w.
func WriteUint8(w Writer, c uint8) (n int64, err error) {

	if w.Available() == 0 {
		if err = w.Flush(); err != nil {
			return
		}

		if w.Available() == 0 {
			return 0, fmt.Errorf("cannot WriteUint8: available buffer is zero even after flush")
		}
	}

	nint, err := w.Write([]byte{c})

	return int64(nint), err
}

// WriteUint64 writes an uint64 c to w.
func WriteUint64(w Writer, c uint64) (n int64, err error) {

	if w.Available()>>3 == 0 {
		if err = w.Flush(); err != nil {
			return
		}

		if w.Available()>>3 == 0 {
			return 0, fmt.Errorf("cannot WriteUint64: available buffer/8 is zero even after flush")
		}
	}

	buf := w.AvailableBuffer()[:8]

	binary.LittleEndian.PutUint64(buf, c)

	nint, err := w.Write(buf)

	return int64(nint), err
}

// WriteUint8Slice writes a slice of bytes c to w, flushing
// the internal buffer of w as many times as needed.
func WriteUint8Slice(w Writer, c []uint8) (n int64, err error) {

	for len(c) != 0 {

		available := w.Available()

		if available == 0 {

			if err = w.Flush(); err != nil {
				return
			}

			if available = w.Available(); available == 0 {
				return n, fmt.Errorf("cannot WriteUint8Slice: available buffer is zero even after flush")
			}
		}

		chunk := min(available, len(c))

		var inc int
		if inc, err = w.Write(c[:chunk]); err != nil {
			return n + int64(inc), err
		}

		n += int64(inc)
		c = c[chunk:]
	}

	return
}
