// Package hss implements homomorphic secret sharing over the PRS cryptosystem:
// a dealer additively splits secret inputs among N parties, every party
// homomorphically evaluates its part of a public low-degree polynomial, and a
// single decryption of the product of the contributions reveals the result.
package hss

import (
	"fmt"
	"math/big"

	"github.com/Pro7ech/prshss/utils"
)

// Term is a monomial Coeff * x_0^Degrees[0] * ... * x_{V-1}^Degrees[V-1].
type Term struct {
	Coeff   *big.Int
	Degrees []int
}

// Degree returns the total degree of the term.
func (t Term) Degree() int {
	return utils.Sum(t.Degrees)
}

// Polynomial is a public multivariate polynomial with integer coefficients
// in the variables x_0, ..., x_{Variables-1}.
type Polynomial struct {
	Variables int
	Terms     []Term
}

// NewPolynomial returns a new [Polynomial] in the given number of variables
// and checks its terms.
func NewPolynomial(variables int, terms ...Term) (*Polynomial, error) {
	p := &Polynomial{Variables: variables, Terms: terms}
	return p, p.Validate()
}

// Validate returns an error wrapping [ErrInvalidPolynomial] if the receiver is malformed.
func (p Polynomial) Validate() (err error) {

	if p.Variables < 1 {
		return fmt.Errorf("%w: number of variables must be >= 1 but is %d", ErrInvalidPolynomial, p.Variables)
	}

	for i, t := range p.Terms {

		if t.Coeff == nil {
			return fmt.Errorf("%w: term %d has no coefficient", ErrInvalidPolynomial, i)
		}

		if len(t.Degrees) != p.Variables {
			return fmt.Errorf("%w: term %d has %d degrees but the polynomial has %d variables", ErrInvalidPolynomial, i, len(t.Degrees), p.Variables)
		}

		if !utils.AllNonNegative(t.Degrees) {
			return fmt.Errorf("%w: term %d has a negative degree", ErrInvalidPolynomial, i)
		}
	}

	return
}

// Degree returns the total degree of the polynomial.
func (p Polynomial) Degree() (degree int) {
	for _, t := range p.Terms {
		degree = max(degree, t.Degree())
	}
	return
}

// Evaluate evaluates the polynomial in the clear on inputs. If modulus is not nil,
// the result is reduced into [0, modulus).
func (p Polynomial) Evaluate(inputs []*big.Int, modulus *big.Int) (res *big.Int, err error) {

	if err = p.Validate(); err != nil {
		return
	}

	if len(inputs) != p.Variables {
		return nil, fmt.Errorf("%w: expected %d inputs but got %d", ErrInvalidPolynomial, p.Variables, len(inputs))
	}

	res = new(big.Int)
	tmp := new(big.Int)

	for _, t := range p.Terms {

		mono := new(big.Int).Set(t.Coeff)

		for v, d := range t.Degrees {
			if d != 0 {
				mono.Mul(mono, tmp.Exp(inputs[v], big.NewInt(int64(d)), modulus))
			}
		}

		res.Add(res, mono)

		if modulus != nil {
			res.Mod(res, modulus)
		}
	}

	return
}
