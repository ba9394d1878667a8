package hss

import (
	"context"
	"fmt"
	"math/big"
	"runtime"

	"github.com/Pro7ech/prshss/prs"
	"github.com/Pro7ech/prshss/utils/bignum"
	"github.com/Pro7ech/prshss/utils/concurrency"
	"github.com/Pro7ech/prshss/utils/sampling"
)

// Evaluator computes the contribution of a party to the evaluation of a [Plan].
// An Evaluator only holds read-only data and the source of its encryptor:
// use [Evaluator.WithSource] or [Evaluator.ShallowCopy] to evaluate several
// parties concurrently.
type Evaluator struct {
	*prs.Evaluator
}

// NewEvaluator instantiates a new [Evaluator] for the public key pk. The fresh
// encryptions of the plaintext terms are blinded with randomness drawn from
// source; if source is nil, a new source is seeded from crypto/rand.
func NewEvaluator(params prs.Parameters, pk *prs.PublicKey, source *sampling.Source) *Evaluator {
	return &Evaluator{
		Evaluator: prs.NewEvaluator(params, pk, source),
	}
}

// WithSource returns an instance of the receiver drawing its randomness from source.
// The returned object and the receiver can be used concurrently.
func (eval Evaluator) WithSource(source *sampling.Source) *Evaluator {
	eval.Evaluator = eval.Evaluator.WithSource(source)
	return &eval
}

// ShallowCopy creates a shallow copy of the receiver whose source is derived from
// the receiver's source. The receiver and the returned object can be used concurrently.
func (eval Evaluator) ShallowCopy() *Evaluator {
	eval.Evaluator = eval.Evaluator.ShallowCopy()
	return &eval
}

// Evaluate returns the contribution of view.Party to plan, an encryption of
//
//	sum_{a in plan.Assignments[view.Party]} a.Weight * prod_{v, j} s_{v,j}^{a.Exponents[v][j]}.
//
// Every assignment is reduced to a scalar K, the product of its weight and of the known
// plaintext shares, modulo 2^K. Scalars of plaintext terms are summed and encrypted once;
// scalars of terms linear in the party's own share of x_v are summed per variable and
// applied as a single exponentiation of the ciphertext of that share. Since
// Enc(a) * Enc(b) is an encryption of a + b, this equals the product of the per-term
// encryptions. The contribution is always blinded by a fresh encryption, so it reveals
// nothing about the shares even if the party has no assignment.
func (eval Evaluator) Evaluate(plan *Plan, view *PartyView) (opOut *prs.Ciphertext, err error) {

	if err = view.Check(plan); err != nil {
		return
	}

	params := eval.GetParameters()
	k := params.K()
	i := view.Party

	plain := new(big.Int)
	scalars := make([]*big.Int, plan.Variables)
	for v := range scalars {
		scalars[v] = new(big.Int)
	}

	K := new(big.Int)
	tmp := new(big.Int)
	modulus := bignum.Pow2(k)

	for _, a := range plan.Assignments[i] {

		K.Set(a.Weight)

		for v := range a.Exponents {
			for j, e := range a.Exponents[v] {
				if j != i && e != 0 {
					K.Mul(K, tmp.Exp(view.Known[v][j], big.NewInt(int64(e)), modulus))
					bignum.ModPow2(K, K, k)
				}
			}
		}

		if a.Residual < 0 {
			plain.Add(plain, K)
		} else {
			scalars[a.Residual].Add(scalars[a.Residual], K)
		}
	}

	if opOut, err = eval.EncryptNew(prs.NewPlaintext(params, plain)); err != nil {
		return nil, fmt.Errorf("EncryptNew: %w", err)
	}

	term := prs.NewCiphertext()

	for v, scalar := range scalars {
		if bignum.ModPow2(scalar, scalar, k).Sign() != 0 {
			eval.MulScalar(&view.Own[v], scalar, term)
			eval.Add(opOut, term, opOut)
		}
	}

	return
}

// EvaluateAll evaluates the contribution of every view concurrently and returns the
// contributions in the order of the views. The i-th view is evaluated with randomness
// drawn from sources[i]; if sources is nil, the source of each view is derived from
// the source of the receiver and the index of the party.
// The evaluation stops at the first error or when ctx is done.
func (eval Evaluator) EvaluateAll(ctx context.Context, plan *Plan, views []*PartyView, sources []*sampling.Source) (contributions []*prs.Ciphertext, err error) {

	if sources == nil {
		sources = make([]*sampling.Source, len(views))
		for i, view := range views {
			sources[i] = eval.GetSource().Derive(fmt.Sprintf("party-%d", view.Party))
		}
	}

	if len(sources) != len(views) {
		return nil, fmt.Errorf("invalid sources: expected %d but got %d", len(views), len(sources))
	}

	if len(views) == 0 {
		return
	}

	workers := make([]*Evaluator, min(runtime.NumCPU(), len(views)))
	for i := range workers {
		workers[i] = eval.ShallowCopy()
	}

	contributions = make([]*prs.Ciphertext, len(views))

	rm := concurrency.NewResourceManager(ctx, workers)

	for i := range views {
		rm.Run(func(worker *Evaluator) (err error) {
			if contributions[i], err = worker.WithSource(sources[i]).Evaluate(plan, views[i]); err != nil {
				return fmt.Errorf("party %d: %w", views[i].Party, err)
			}
			return
		})
	}

	if err = rm.Wait(); err != nil {
		return nil, err
	}

	return
}
