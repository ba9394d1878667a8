// Package sampling implements secure and deterministic sampling of bytes and integers.
package sampling

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// deriveContext is the blake3 key-derivation context used by [Source.Derive].
const deriveContext = "prshss 2024-05 sampling.Source child seed"

// NewSeed returns a fresh 32-byte seed read from crypto/rand.
func NewSeed() (seed [32]byte) {
	if _, err := rand.Read(seed[:]); err != nil {
		// Sanity check, this error should not happen.
		panic(fmt.Errorf("crypto/rand.Read: %w", err))
	}
	return
}

// Source is a structure storing the parameters used to securely and *deterministically*
// generate sequences of random bytes from a 32-byte seed, using the blake2b XOF keyed with
// the seed. Two sources instantiated with the same seed produce the same stream.
//
// Reads are serialized by an internal mutex, so a Source can be shared without data races.
// The resulting stream is however only deterministic if the Source is read by a single
// goroutine: concurrent parties should each use their own Source (see [Source.Derive]).
type Source struct {
	mu   sync.Mutex
	seed [32]byte
	xof  blake2b.XOF
}

// NewSource instantiates a new [Source] from the given seed.
func NewSource(seed [32]byte) *Source {
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, seed[:])

	// Sanity check, this error should not happen (the key is always 32 bytes).
	if err != nil {
		panic(fmt.Errorf("blake2b.NewXOF: %w", err))
	}

	return &Source{seed: seed, xof: xof}
}

// Seed returns the seed of the receiver. It can be used with
// [NewSource] to instantiate a source producing the same stream.
func (s *Source) Seed() [32]byte {
	return s.seed
}

// Read fills p with the next len(p) bytes of the stream.
func (s *Source) Read(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.xof.Read(p)
}

// Reset resets the receiver to the beginning of its stream.
func (s *Source) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.xof.Reset()
}

// Uint64 returns the next 8 bytes of the stream as an uint64.
func (s *Source) Uint64() uint64 {
	var b [8]byte
	s.read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// NewSeed draws a new 32-byte seed from the stream of the receiver.
func (s *Source) NewSeed() (seed [32]byte) {
	s.read(seed[:])
	return
}

// NewSource returns a new [Source] seeded from the stream of the receiver.
func (s *Source) NewSource() *Source {
	return NewSource(s.NewSeed())
}

// Derive returns a new [Source] whose seed is derived from the seed of the
// receiver and the given label with the blake3 key-derivation function.
// The result depends neither on the current position of the receiver's stream
// nor on the order in which sources are derived, which makes it suitable to give
// each concurrent party its own reproducible stream.
func (s *Source) Derive(label string) *Source {
	material := make([]byte, 0, 32+len(label))
	material = append(material, s.seed[:]...)
	material = append(material, label...)
	var seed [32]byte
	blake3.DeriveKey(deriveContext, material, seed[:])
	return NewSource(seed)
}

// Bits returns a uniform integer in [0, 2^bits).
func (s *Source) Bits(bits int) (x *big.Int) {

	if bits <= 0 {
		return new(big.Int)
	}

	b := make([]byte, (bits+7)>>3)
	s.read(b)

	// Clears the excess most significant bits (big-endian).
	if excess := len(b)<<3 - bits; excess != 0 {
		b[0] &= 0xFF >> excess
	}

	return new(big.Int).SetBytes(b)
}

// Int returns a uniform integer in [0, max).
// The method panics if max <= 0.
func (s *Source) Int(max *big.Int) (x *big.Int) {

	if max.Sign() <= 0 {
		panic(fmt.Errorf("invalid max: must be > 0 but is %s", max.String()))
	}

	bits := new(big.Int).Sub(max, big.NewInt(1)).BitLen()

	for {
		if x = s.Bits(bits); x.Cmp(max) < 0 {
			return
		}
	}
}

func (s *Source) read(p []byte) {
	if _, err := s.Read(p); err != nil {
		// Sanity check, this error should not happen
		// (the blake2b XOF can produce up to 256GiB).
		panic(fmt.Errorf("sampling.Source.Read: %w", err))
	}
}
