package hss

import (
	"fmt"
	"math/big"

	"github.com/Pro7ech/prshss/prs"
	"github.com/Pro7ech/prshss/utils/bignum"
	"github.com/Pro7ech/prshss/utils/sampling"
	"github.com/Pro7ech/prshss/utils/structs"
)

// Range selects the distribution of the random additive shares.
type Range int

const (
	// RangeFull draws the random shares uniformly in [0, 2^K).
	RangeFull = Range(iota)
	// RangeInput draws the random shares uniformly in [0, input), with input
	// reduced mod 2^K, and falls back to [0, 2^K) if the reduced input is zero.
	// Shares drawn this way leak an upper bound on the input.
	RangeInput
)

// String returns the name of the range.
func (r Range) String() string {
	switch r {
	case RangeFull:
		return "Full"
	case RangeInput:
		return "Input"
	default:
		return fmt.Sprintf("Range(%d)", int(r))
	}
}

// ShareSet stores the additive shares of every input variable and their
// encryptions, indexed by [variable][party]. For every variable v,
// sum_j Plaintexts[v][j] = input_v mod 2^K.
type ShareSet struct {
	Plaintexts  [][]*big.Int
	Ciphertexts [][]*prs.Ciphertext
}

// Dealer splits secret inputs into additive shares, encrypts them and
// builds the view of every party.
type Dealer struct {
	Parties    int
	Range      Range
	Visibility Visibility

	params prs.Parameters
	enc    *prs.Encryptor
	source *sampling.Source
}

// NewDealer returns a new [Dealer] for the given number of parties, with
// [RangeFull] and [FullVisibility]. The shares and the encryption blinding
// factors are drawn from source; if source is nil, a new source is seeded
// from crypto/rand.
func NewDealer(params prs.Parameters, pk *prs.PublicKey, parties int, source *sampling.Source) *Dealer {

	if source == nil {
		source = sampling.NewSource(sampling.NewSeed())
	}

	return &Dealer{
		Parties:    parties,
		Range:      RangeFull,
		Visibility: FullVisibility{},
		params:     params,
		enc:        prs.NewEncryptor(params, pk, source.NewSource()),
		source:     source,
	}
}

// Split splits input into parties additive shares modulo 2^K: the first
// parties-1 shares are drawn according to [Dealer.Range] and the last one is
// input minus their sum. Every share is in [0, 2^K).
func (d Dealer) Split(input *big.Int, parties int) (shares []*big.Int, err error) {

	if parties < 1 {
		return nil, fmt.Errorf("%w: number of parties must be >= 1 but is %d", prs.ErrParameter, parties)
	}

	if input == nil {
		return nil, fmt.Errorf("cannot Split: input is nil")
	}

	k := d.params.K()

	in := bignum.ModPow2(new(big.Int), input, k)

	var bound *big.Int
	switch d.Range {
	case RangeFull:
		bound = bignum.Pow2(k)
	case RangeInput:
		if in.Sign() == 0 {
			bound = bignum.Pow2(k)
		} else {
			bound = in
		}
	default:
		return nil, fmt.Errorf("%w: unknown share range %s", prs.ErrParameter, d.Range)
	}

	shares = make([]*big.Int, parties)

	last := new(big.Int).Set(in)
	for j := 0; j < parties-1; j++ {
		shares[j] = d.source.Int(bound)
		last.Sub(last, shares[j])
	}

	shares[parties-1] = bignum.ModPow2(last, last, k)

	return
}

// Combine returns the sum of the shares mod 2^K.
func (d Dealer) Combine(shares []*big.Int) *big.Int {
	sum := new(big.Int)
	for _, s := range shares {
		sum.Add(sum, s)
	}
	return bignum.ModPow2(sum, sum, d.params.K())
}

// Share splits every input among [Dealer.Parties] parties and encrypts every
// share with fresh randomness.
func (d Dealer) Share(inputs []*big.Int) (set *ShareSet, err error) {

	set = &ShareSet{
		Plaintexts:  make([][]*big.Int, len(inputs)),
		Ciphertexts: make([][]*prs.Ciphertext, len(inputs)),
	}

	for v := range inputs {

		if set.Plaintexts[v], err = d.Split(inputs[v], d.Parties); err != nil {
			return nil, fmt.Errorf("input %d: %w", v, err)
		}

		set.Ciphertexts[v] = make([]*prs.Ciphertext, d.Parties)

		for j, s := range set.Plaintexts[v] {
			if set.Ciphertexts[v][j], err = d.enc.EncryptNew(&prs.Plaintext{Value: s}); err != nil {
				return nil, fmt.Errorf("input %d: share %d: %w", v, j, err)
			}
		}
	}

	return
}

// Views builds the view of every party on set: party i receives the encryption
// of all its own shares and the plaintext shares of the parties it sees
// according to [Dealer.Visibility].
func (d Dealer) Views(set *ShareSet) (views []*PartyView, err error) {

	visibility := d.Visibility
	if visibility == nil {
		visibility = FullVisibility{}
	}

	V := len(set.Plaintexts)

	if len(set.Ciphertexts) != V {
		return nil, fmt.Errorf("%w: share set has %d plaintext and %d ciphertext variables", ErrInvalidView, V, len(set.Ciphertexts))
	}

	views = make([]*PartyView, d.Parties)

	for i := range views {

		view := &PartyView{
			Party: i,
			Own:   make(structs.Vector[prs.Ciphertext], V),
			Known: make([][]*big.Int, V),
		}

		for v := 0; v < V; v++ {

			if len(set.Plaintexts[v]) != d.Parties || len(set.Ciphertexts[v]) != d.Parties {
				return nil, fmt.Errorf("%w: variable %d is not shared among %d parties", ErrInvalidView, v, d.Parties)
			}

			view.Own[v] = *set.Ciphertexts[v][i].Clone()

			view.Known[v] = make([]*big.Int, d.Parties)
			for j := range view.Known[v] {
				if j != i && visibility.Sees(i, j) {
					view.Known[v][j] = new(big.Int).Set(set.Plaintexts[v][j])
				}
			}
		}

		views[i] = view
	}

	return
}
