package hss

import (
	"fmt"
)

// Compositions enumerates the weak compositions of an integer n into a fixed
// number of parts, i.e. all the tuples (e_0, ..., e_{parts-1}) of non-negative
// integers with e_0 + ... + e_{parts-1} = n, in reverse lexicographic order,
// starting from (n, 0, ..., 0) and ending with (0, ..., 0, n).
//
// Usage:
//
//	it := NewCompositions(n, parts)
//	for it.Next() {
//		e := it.Value()
//	}
type Compositions struct {
	current []int
	started bool
	done    bool
}

// NewCompositions returns a new iterator over the weak compositions of n into parts parts.
// The method panics if n < 0 or parts < 1.
func NewCompositions(n, parts int) *Compositions {

	if n < 0 || parts < 1 {
		panic(fmt.Errorf("invalid compositions: n must be >= 0 and parts >= 1 but are %d and %d", n, parts))
	}

	current := make([]int, parts)
	current[0] = n

	return &Compositions{current: current}
}

// Next advances the iterator and returns false once all compositions have been visited.
func (c *Compositions) Next() bool {

	if c.done {
		return false
	}

	if !c.started {
		c.started = true
		return true
	}

	e := c.current
	last := len(e) - 1

	tail := e[last]
	e[last] = 0

	// Rightmost non-zero part, excluding the last one.
	j := last - 1
	for j >= 0 && e[j] == 0 {
		j--
	}

	if j < 0 {
		e[last] = tail
		c.done = true
		return false
	}

	e[j]--
	e[j+1] = tail + 1

	return true
}

// Value returns a copy of the current composition.
func (c *Compositions) Value() []int {
	return append([]int(nil), c.current...)
}

// AllCompositions returns all the weak compositions of n into parts parts.
func AllCompositions(n, parts int) (all [][]int) {
	it := NewCompositions(n, parts)
	for it.Next() {
		all = append(all, it.Value())
	}
	return
}
