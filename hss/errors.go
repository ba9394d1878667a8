package hss

import (
	"errors"
)

var (
	// ErrDegreeUnsupported is returned by [NewPlan] when an expanded monomial
	// cannot be assigned to any party: every party would have to raise one of
	// its own encrypted shares to a power of two or more, or lacks the view
	// on a plaintext share the monomial involves.
	ErrDegreeUnsupported = errors.New("polynomial degree unsupported for this number of parties")

	// ErrVerificationMismatch is returned when a decoded result differs from
	// an independently computed expectation.
	ErrVerificationMismatch = errors.New("verification mismatch")

	// ErrInvalidView is returned when a [PartyView] does not match the shape
	// of a [Plan] or lacks a plaintext share the plan requires.
	ErrInvalidView = errors.New("invalid party view")

	// ErrInvalidPolynomial is returned when a [Polynomial] is malformed.
	ErrInvalidPolynomial = errors.New("invalid polynomial")
)
