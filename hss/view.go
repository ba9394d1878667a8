package hss

import (
	"bufio"
	"fmt"
	"io"
	"math/big"

	"github.com/Pro7ech/prshss/prs"
	"github.com/Pro7ech/prshss/utils/buffer"
	"github.com/Pro7ech/prshss/utils/structs"
)

// PartyView is what a party receives from the dealer: the encryption of its
// own share of every variable, and the plaintext shares of the parties it sees.
// Known[v][j] is nil if the party does not know s_{v,j}; Known[v][Party] is always nil.
type PartyView struct {
	Party int
	Own   structs.Vector[prs.Ciphertext]
	Known [][]*big.Int
}

// Check returns an error wrapping [ErrInvalidView] if the receiver does not
// match the shape of plan or lacks a plaintext share plan requires.
func (view PartyView) Check(plan *Plan) (err error) {

	if view.Party < 0 || view.Party >= plan.Parties {
		return fmt.Errorf("%w: party %d out of range [0, %d)", ErrInvalidView, view.Party, plan.Parties)
	}

	if len(view.Own) != plan.Variables || len(view.Known) != plan.Variables {
		return fmt.Errorf("%w: expected %d variables but got %d ciphertexts and %d plaintext rows", ErrInvalidView, plan.Variables, len(view.Own), len(view.Known))
	}

	for v := 0; v < plan.Variables; v++ {

		if view.Own[v].Value == nil {
			return fmt.Errorf("%w: missing ciphertext for variable %d", ErrInvalidView, v)
		}

		if len(view.Known[v]) != plan.Parties {
			return fmt.Errorf("%w: variable %d has %d plaintext shares but there are %d parties", ErrInvalidView, v, len(view.Known[v]), plan.Parties)
		}

		for j := 0; j < plan.Parties; j++ {
			if plan.Required(view.Party, v, j) && view.Known[v][j] == nil {
				return fmt.Errorf("%w: party %d lacks the share of party %d for variable %d", ErrInvalidView, view.Party, j, v)
			}
		}
	}

	return
}

// Equal performs a deep equal.
func (view PartyView) Equal(other *PartyView) bool {

	if view.Party != other.Party || !view.Own.Equal(other.Own) || len(view.Known) != len(other.Known) {
		return false
	}

	for v := range view.Known {

		if len(view.Known[v]) != len(other.Known[v]) {
			return false
		}

		for j := range view.Known[v] {
			a, b := view.Known[v][j], other.Known[v][j]
			if (a == nil) != (b == nil) || (a != nil && a.Cmp(b) != 0) {
				return false
			}
		}
	}

	return true
}

// BinarySize returns the serialized size of the object in bytes.
func (view PartyView) BinarySize() (size int) {
	size = 8 + view.Own.BinarySize() + 8
	for v := range view.Known {
		size += 8
		for _, s := range view.Known[v] {
			size++
			if s != nil {
				size += buffer.BigIntBinarySize(s)
			}
		}
	}
	return
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (view PartyView) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		if inc, err = buffer.WriteAsUint64(w, view.Party); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteAsUint64: %w", err)
		}

		n += inc

		if inc, err = view.Own.WriteTo(w); err != nil {
			return n + inc, fmt.Errorf("structs.Vector[prs.Ciphertext].WriteTo: %w", err)
		}

		n += inc

		if inc, err = buffer.WriteAsUint64(w, len(view.Known)); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteAsUint64: %w", err)
		}

		n += inc

		for v := range view.Known {

			if inc, err = buffer.WriteAsUint64(w, len(view.Known[v])); err != nil {
				return n + inc, fmt.Errorf("buffer.WriteAsUint64: %w", err)
			}

			n += inc

			for _, s := range view.Known[v] {

				if inc, err = buffer.WriteBool(w, s != nil); err != nil {
					return n + inc, fmt.Errorf("buffer.WriteBool: %w", err)
				}

				n += inc

				if s != nil {
					if inc, err = buffer.WriteBigInt(w, s); err != nil {
						return n + inc, fmt.Errorf("buffer.WriteBigInt: %w", err)
					}
					n += inc
				}
			}
		}

		return n, w.Flush()

	default:
		return view.WriteTo(bufio.NewWriter(w))
	}
}

// maxViewSize bounds the number of variables and parties accepted by [PartyView.ReadFrom].
const maxViewSize = 1 << 16

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
func (view *PartyView) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var inc int64

		if inc, err = buffer.ReadAsUint64(r, &view.Party); err != nil {
			return n + inc, fmt.Errorf("buffer.ReadAsUint64: %w", err)
		}

		n += inc

		if inc, err = view.Own.ReadFrom(r); err != nil {
			return n + inc, fmt.Errorf("structs.Vector[prs.Ciphertext].ReadFrom: %w", err)
		}

		n += inc

		var rows int
		if inc, err = buffer.ReadAsUint64(r, &rows); err != nil {
			return n + inc, fmt.Errorf("buffer.ReadAsUint64: %w", err)
		}

		n += inc

		if rows < 0 || rows > maxViewSize {
			return n, fmt.Errorf("%w: invalid number of variables %d", ErrInvalidView, rows)
		}

		view.Known = make([][]*big.Int, rows)

		for v := range view.Known {

			var cols int
			if inc, err = buffer.ReadAsUint64(r, &cols); err != nil {
				return n + inc, fmt.Errorf("buffer.ReadAsUint64: %w", err)
			}

			n += inc

			if cols < 0 || cols > maxViewSize {
				return n, fmt.Errorf("%w: invalid number of parties %d", ErrInvalidView, cols)
			}

			view.Known[v] = make([]*big.Int, cols)

			for j := range view.Known[v] {

				var known bool
				if inc, err = buffer.ReadBool(r, &known); err != nil {
					return n + inc, fmt.Errorf("buffer.ReadBool: %w", err)
				}

				n += inc

				if known {
					view.Known[v][j] = new(big.Int)
					if inc, err = buffer.ReadBigInt(r, view.Known[v][j]); err != nil {
						return n + inc, fmt.Errorf("buffer.ReadBigInt: %w", err)
					}
					n += inc
				}
			}
		}

		return n, nil

	default:
		return view.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (view PartyView) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(view.BinarySize())
	_, err = view.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (view *PartyView) UnmarshalBinary(p []byte) (err error) {
	_, err = view.ReadFrom(buffer.NewBuffer(p))
	return
}
