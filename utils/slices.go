// Package utils implements various helper functions.
package utils

import (
	"golang.org/x/exp/constraints"
)

// Sum returns the sum of the elements of s.
func Sum[V constraints.Integer](s []V) (sum V) {
	for _, v := range s {
		sum += v
	}
	return
}

// AllNonNegative returns true if no element of s is negative.
func AllNonNegative[V constraints.Signed](s []V) bool {
	for _, v := range s {
		if v < 0 {
			return false
		}
	}
	return true
}

// Matrix allocates a rows x cols matrix of V.
func Matrix[V any](rows, cols int) (m [][]V) {
	m = make([][]V, rows)
	for i := range m {
		m[i] = make([]V, cols)
	}
	return
}
