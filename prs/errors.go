package prs

import (
	"errors"
)

var (
	// ErrParameter is returned when a parameter set or a per-call
	// argument (e.g. a blinding bit-size) is invalid.
	ErrParameter = errors.New("invalid parameter")

	// ErrGenerationExhausted is returned when a rejection-sampling loop
	// of the key generation exceeds [Parameters.MaxAttempts] attempts.
	ErrGenerationExhausted = errors.New("generation attempts exhausted")
)
