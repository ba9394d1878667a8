package hss

import (
	"fmt"
	"math/big"

	"github.com/Pro7ech/prshss/utils"
	"github.com/Pro7ech/prshss/utils/bignum"
)

// Assignment is one monomial of the multinomial expansion of a [Term] over the
// additive shares x_v = s_{v,0} + ... + s_{v,N-1}, assigned to the party that
// evaluates it:
//
//	Weight * prod_{v, j} s_{v,j}^{Exponents[v][j]}
//
// The assigned party knows all the plaintext shares s_{v,j} with j != Party
// and a non-zero exponent. Its own shares appear with a total degree of at
// most one: if Residual >= 0, the monomial is linear in s_{v,Party} with
// v = Residual and is evaluated homomorphically on the party's ciphertext;
// otherwise it is a plaintext term.
type Assignment struct {
	Party     int
	Exponents [][]int
	Weight    *big.Int
	Residual  int
}

// Plan is the decomposition of a [Polynomial] into [Assignment] for a given
// number of parties and [Visibility]. A plan can be shared by all the parties:
// [Evaluator] only reads it. Its fields are not checked again after [NewPlan],
// so a plan must not be modified once built.
type Plan struct {
	Variables   int
	Parties     int
	Degree      int
	Assignments [][]Assignment // indexed by party

	// required[i][v][j] is true if party i needs the plaintext share s_{v,j}.
	required [][][]bool
}

// NewPlan expands every term coeff * prod_v x_v^{deg_v} of poly as the Cartesian
// product of the weak compositions of deg_v into parties parts, with weight
// coeff * prod_v multinomial(e_v), and assigns every expanded monomial to the
// lowest-index party i such that:
//   - the residual degree r_i = sum_v e_{v,i} is at most one
//   - i sees, according to visibility, every party j != i with a non-zero exponent.
//
// It returns an error wrapping [ErrDegreeUnsupported] if a monomial cannot be
// assigned, and an error wrapping [ErrInvalidPolynomial] if poly is malformed.
// If visibility is nil, [FullVisibility] is used.
func NewPlan(poly *Polynomial, visibility Visibility, parties int) (plan *Plan, err error) {

	if err = poly.Validate(); err != nil {
		return
	}

	if parties < 1 {
		return nil, fmt.Errorf("invalid number of parties: must be >= 1 but is %d", parties)
	}

	if visibility == nil {
		visibility = FullVisibility{}
	}

	V := poly.Variables

	plan = &Plan{
		Variables:   V,
		Parties:     parties,
		Degree:      poly.Degree(),
		Assignments: make([][]Assignment, parties),
		required:    make([][][]bool, parties),
	}

	for i := range plan.required {
		plan.required[i] = utils.Matrix[bool](V, parties)
	}

	for t, term := range poly.Terms {

		// Compositions of each degree, and their multinomial coefficient.
		comps := make([][][]int, V)
		multinomials := make([][]*big.Int, V)
		for v, d := range term.Degrees {
			comps[v] = AllCompositions(d, parties)
			multinomials[v] = make([]*big.Int, len(comps[v]))
			for c := range comps[v] {
				multinomials[v][c] = bignum.Multinomial(comps[v][c]...)
			}
		}

		// Odometer over the Cartesian product of the compositions.
		index := make([]int, V)

		for {

			exponents := make([][]int, V)
			weight := new(big.Int).Set(term.Coeff)
			for v := range exponents {
				exponents[v] = comps[v][index[v]]
				weight.Mul(weight, multinomials[v][index[v]])
			}

			party, residual, ok := assign(exponents, visibility, parties)

			if !ok {
				return nil, fmt.Errorf("%w: term %d (total degree %d) has monomial %v that no party can evaluate with %d parties", ErrDegreeUnsupported, t, term.Degree(), exponents, parties)
			}

			plan.Assignments[party] = append(plan.Assignments[party], Assignment{
				Party:     party,
				Exponents: exponents,
				Weight:    weight,
				Residual:  residual,
			})

			for v := range exponents {
				for j, e := range exponents[v] {
					if j != party && e != 0 {
						plan.required[party][v][j] = true
					}
				}
			}

			// Increments the odometer.
			v := 0
			for ; v < V; v++ {
				if index[v]++; index[v] < len(comps[v]) {
					break
				}
				index[v] = 0
			}

			if v == V {
				break
			}
		}
	}

	return
}

// assign returns the lowest-index party able to evaluate the monomial with the given
// exponents and the variable on which its residual degree is one (-1 if zero).
func assign(exponents [][]int, visibility Visibility, parties int) (party, residual int, ok bool) {

	for i := 0; i < parties; i++ {

		r := 0
		residual = -1
		for v := range exponents {
			if e := exponents[v][i]; e != 0 {
				r += e
				residual = v
			}
		}

		if r > 1 {
			continue
		}

		sees := true
		for v := 0; v < len(exponents) && sees; v++ {
			for j, e := range exponents[v] {
				if j != i && e != 0 && !visibility.Sees(i, j) {
					sees = false
					break
				}
			}
		}

		if sees {
			return i, residual, true
		}
	}

	return -1, -1, false
}

// Required returns true if party needs the plaintext share of party other for variable v.
func (p Plan) Required(party, v, other int) bool {
	return p.required[party][v][other]
}

// Len returns the total number of expanded monomials.
func (p Plan) Len() (n int) {
	for i := range p.Assignments {
		n += len(p.Assignments[i])
	}
	return
}
