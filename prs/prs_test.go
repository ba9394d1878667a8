package prs

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/Pro7ech/prshss/utils/bignum"
	"github.com/Pro7ech/prshss/utils/buffer"
	"github.com/Pro7ech/prshss/utils/sampling"
)

var flagParamString = flag.String("params", "", "specify the test cryptographic parameters as a JSON string. Overrides -short and -long.")

func testString(params Parameters, opname string) string {
	return fmt.Sprintf("%s/K=%d/NBits=%d/BlindBits=%d/Strong=%t",
		opname,
		params.K(),
		params.NBits(),
		params.BlindBits(),
		params.StrongPrimes())
}

type TestContext struct {
	params Parameters
	source *sampling.Source
	kgen   *KeyGenerator
	enc    *Encryptor
	dec    *Decryptor
	eval   *Evaluator
	sk     *SecretKey
	pk     *PublicKey
}

func NewTestContext(params Parameters) (tc *TestContext, err error) {

	source := sampling.NewSource([32]byte{'p', 'r', 's'})

	kgen := NewKeyGenerator(params, source)

	sk, pk, err := kgen.GenKeyPairNew()
	if err != nil {
		return nil, err
	}

	return &TestContext{
		params: params,
		source: source,
		kgen:   kgen,
		enc:    NewEncryptor(params, pk, source.NewSource()),
		dec:    NewDecryptor(params, sk),
		eval:   NewEvaluator(params, pk, source.NewSource()),
		sk:     sk,
		pk:     pk,
	}, nil
}

func TestPRS(t *testing.T) {

	var err error

	defaultParamsLiteral := testInsecure

	if *flagParamString != "" {
		var jsonParams ParametersLiteral
		if err = json.Unmarshal([]byte(*flagParamString), &jsonParams); err != nil {
			t.Fatal(err)
		}
		defaultParamsLiteral = []ParametersLiteral{jsonParams} // the custom test suite reads the parameters from the -params flag
	}

	for _, paramsLit := range defaultParamsLiteral[:] {

		var params Parameters
		if params, err = NewParametersFromLiteral(paramsLit); err != nil {
			t.Fatal(err)
		}

		tc, err := NewTestContext(params)
		require.NoError(t, err)

		for _, testSet := range []func(tc *TestContext, t *testing.T){
			testKeyGenerator,
			testEncryptor,
			testEvaluator,
			testMarshaller,
		} {
			testSet(tc, t)
		}
	}

	testParameters(t)
	testGenerationExhausted(t)
}

func testParameters(t *testing.T) {

	t.Run("Parameters/Defaults", func(t *testing.T) {
		params, err := NewParametersFromLiteral(ParametersLiteral{K: 64, NBits: 1024})
		require.NoError(t, err)
		require.Equal(t, 64, params.BlindBits())
		require.Equal(t, 512, params.PBits())
		require.Equal(t, DefaultMaxAttempts, params.MaxAttempts())
		require.False(t, params.StrongPrimes())
		require.Equal(t, 0, params.MessageModulus().Cmp(bignum.Pow2(64)))
	})

	t.Run("Parameters/Invalid", func(t *testing.T) {
		for _, pl := range []ParametersLiteral{
			{K: 8, NBits: 1},
			{K: 0, NBits: 64},
			{K: 32, NBits: 64},
			{K: 40, NBits: 64},
			{K: 8, NBits: 64, BlindBits: 9},
			{K: 8, NBits: 64, BlindBits: -1},
			{K: 8, NBits: 64, MaxAttempts: -1},
		} {
			_, err := NewParametersFromLiteral(pl)
			require.ErrorIs(t, err, ErrParameter, "%+v", pl)
		}
	})

	t.Run("Parameters/JSON", func(t *testing.T) {

		params, err := NewParametersFromLiteral(ParametersLiteral{K: 16, NBits: 256, StrongPrimes: true})
		require.NoError(t, err)

		data, err := json.Marshal(params)
		require.NoError(t, err)

		var paramsNew Parameters
		require.NoError(t, json.Unmarshal(data, &paramsNew))
		require.True(t, params.Equal(&paramsNew))

		// Omitted fields are substituted with their default value.
		var paramsDefault Parameters
		require.NoError(t, json.Unmarshal([]byte(`{"K":16,"NBits":256}`), &paramsDefault))
		require.Equal(t, 16, paramsDefault.BlindBits())
		require.Empty(t, cmp.Diff(ParametersLiteral{K: 16, NBits: 256, BlindBits: 16, MaxAttempts: DefaultMaxAttempts}, paramsDefault.ParametersLiteral()))

		var paramsBad Parameters
		require.ErrorIs(t, json.Unmarshal([]byte(`{"K":200,"NBits":256}`), &paramsBad), ErrParameter)
	})

	t.Run("Parameters/Binary", func(t *testing.T) {
		params, err := NewParametersFromLiteral(ParametersLiteral{K: 16, NBits: 256, BlindBits: 4, MaxAttempts: 12})
		require.NoError(t, err)
		buffer.RequireSerializerCorrect(t, &params)
	})

	t.Run("Parameters/Centered", func(t *testing.T) {
		params, err := NewParametersFromLiteral(ParametersLiteral{K: 8, NBits: 64})
		require.NoError(t, err)
		for _, c := range []struct{ in, want int64 }{
			{0, 0},
			{127, 127},
			{128, 128},
			{129, -127},
			{255, -1},
			{256, 0},
			{-1, -1},
		} {
			require.Equal(t, c.want, params.Centered(big.NewInt(c.in)).Int64(), "%d", c.in)
		}
	})

	t.Run("Parameters/SecurityLevel", func(t *testing.T) {
		for _, c := range []struct {
			nBits int
			want  float64
		}{
			{512, 63.93},
			{1024, 86.77},
			{2048, 116.88},
			{3072, 138.74},
		} {
			params, err := NewParametersFromLiteral(ParametersLiteral{K: 64, NBits: c.nBits})
			require.NoError(t, err)
			require.InDelta(t, c.want, params.SecurityLevel(), 0.01)
		}
	})
}

func testKeyGenerator(tc *TestContext, t *testing.T) {

	params := tc.params
	sk := tc.sk
	pk := tc.pk
	k := params.K()

	t.Run(testString(params, "KeyGenerator/Validity"), func(t *testing.T) {

		one := big.NewInt(1)

		for _, prime := range []*big.Int{sk.P, sk.Q} {
			require.Equal(t, params.PBits(), prime.BitLen())
			require.True(t, prime.ProbablyPrime(MillerRabinRounds))
		}

		require.NotEqual(t, 0, sk.P.Cmp(sk.Q))

		// p = 1 mod 2^K
		require.Equal(t, 0, bignum.ModPow2(new(big.Int), sk.P, k).Cmp(one))

		if params.StrongPrimes() {
			for _, prime := range []*big.Int{sk.P, sk.Q} {
				require.Equal(t, 0, bignum.ModPow2(new(big.Int), prime, k).Cmp(one))
				r := new(big.Int).Rsh(prime, uint(k))
				require.True(t, r.ProbablyPrime(MillerRabinRounds))
			}
		} else {
			require.Equal(t, int64(3), new(big.Int).Mod(sk.Q, big.NewInt(4)).Int64())
		}

		require.Equal(t, 0, new(big.Int).Mul(sk.P, sk.Q).Cmp(pk.N))
		require.Equal(t, -1, pk.Y.Cmp(pk.N))
		require.Equal(t, 0, new(big.Int).GCD(nil, nil, pk.Y, pk.N).Cmp(one))
		require.Equal(t, -1, big.Jacobi(pk.Y, sk.P))
		require.Equal(t, -1, big.Jacobi(pk.Y, sk.Q))

		require.Len(t, sk.Ladder, k-1)
		require.Equal(t, k, pk.K)
		require.Equal(t, 0, pk.K2.Cmp(params.MessageModulus()))

		if k > 1 {
			// d_0 * y^{(p-1)/2^K} = 1 mod p
			e := new(big.Int).Rsh(new(big.Int).Sub(sk.P, one), uint(k))
			g := new(big.Int).Exp(pk.Y, e, sk.P)
			g.Mul(g, sk.Ladder[0].Int).Mod(g, sk.P)
			require.Equal(t, 0, g.Cmp(one))

			for i := 1; i < k-1; i++ {
				sq := new(big.Int).Mul(sk.Ladder[i-1].Int, sk.Ladder[i-1].Int)
				require.Equal(t, 0, sq.Mod(sq, sk.P).Cmp(sk.Ladder[i].Int))
			}
		}
	})

	t.Run(testString(params, "KeyGenerator/Deterministic"), func(t *testing.T) {
		seed := [32]byte{'s', 'e', 'e', 'd'}
		sk0, pk0, err := NewKeyGenerator(params, sampling.NewSource(seed)).GenKeyPairNew()
		require.NoError(t, err)
		sk1, pk1, err := NewKeyGenerator(params, sampling.NewSource(seed)).GenKeyPairNew()
		require.NoError(t, err)
		require.True(t, sk0.Equal(sk1))
		require.True(t, pk0.Equal(pk1))
	})

	t.Run(testString(params, "KeyGenerator/Zeroize"), func(t *testing.T) {
		skCopy := sk.Clone()
		skCopy.Zeroize()
		require.Zero(t, skCopy.P.Sign())
		require.Zero(t, skCopy.Q.Sign())
		require.Empty(t, skCopy.Ladder)
		// The original key is left untouched.
		require.NotZero(t, sk.P.Sign())
	})

	t.Run(testString(params, "Decryptor/InvalidKey"), func(t *testing.T) {

		require.NotPanics(t, func() { NewDecryptor(params, sk) })

		zeroized := sk.Clone()
		zeroized.Zeroize()
		require.Panics(t, func() { NewDecryptor(params, zeroized) })

		// Ladder of a key generated for K+1.
		longer := sk.Clone()
		longer.Ladder = append(longer.Ladder, Integer{Int: big.NewInt(1)})
		require.Panics(t, func() { NewDecryptor(params, longer) })

		if k > 1 {
			shorter := sk.Clone()
			shorter.Ladder = shorter.Ladder[:k-2]
			require.Panics(t, func() { NewDecryptor(params, shorter) })
		}

		require.Panics(t, func() { NewDecryptor(params, nil) })
	})
}

func testEncryptor(tc *TestContext, t *testing.T) {

	params := tc.params
	k := params.K()

	messages := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		new(big.Int).Sub(bignum.Pow2(k), big.NewInt(1)),
		bignum.Pow2(k - 1),
		tc.source.Bits(k),
		tc.source.Bits(k),
	}

	t.Run(testString(params, "Encryptor/RoundTrip"), func(t *testing.T) {
		for _, m := range messages {
			ct, err := tc.enc.EncryptNew(NewPlaintext(params, m))
			require.NoError(t, err)
			require.Equal(t, 0, tc.dec.DecryptNew(ct).Value.Cmp(m), "m=%s", m)
		}
	})

	t.Run(testString(params, "Encryptor/Negative"), func(t *testing.T) {
		ct, err := tc.enc.EncryptNew(NewPlaintext(params, -5))
		require.NoError(t, err)
		want := new(big.Int).Sub(bignum.Pow2(k), big.NewInt(5))
		want = bignum.ModPow2(want, want, k)
		require.Equal(t, 0, tc.dec.DecryptNew(ct).Value.Cmp(want))
	})

	t.Run(testString(params, "Encryptor/Probabilistic"), func(t *testing.T) {
		pt := NewPlaintext(params, 1)
		ct0, err := tc.enc.EncryptNew(pt)
		require.NoError(t, err)
		ct1, err := tc.enc.EncryptNew(pt)
		require.NoError(t, err)
		if params.BlindBits() > 1 {
			require.False(t, ct0.Equal(ct1))
		}
		require.True(t, tc.dec.DecryptNew(ct0).Equal(tc.dec.DecryptNew(ct1)))
	})

	t.Run(testString(params, "Encryptor/WithKey"), func(t *testing.T) {

		sk, pk, err := NewKeyGenerator(params, tc.source.NewSource()).GenKeyPairNew()
		require.NoError(t, err)
		require.False(t, pk.Equal(tc.pk))

		enc := tc.enc.WithKey(pk)
		require.True(t, enc.GetPublicKey().Equal(pk))
		require.True(t, tc.enc.GetPublicKey().Equal(tc.pk))
		require.Same(t, tc.enc.GetSource(), enc.GetSource())

		dec := tc.dec.WithKey(sk)

		m := tc.source.Bits(k)
		ct, err := enc.EncryptNew(NewPlaintext(params, m))
		require.NoError(t, err)
		require.Equal(t, 0, dec.DecryptNew(ct).Value.Cmp(m))
	})

	t.Run(testString(params, "Encryptor/BlindBits"), func(t *testing.T) {

		pt := NewPlaintext(params, 3)
		ct := NewCiphertext()

		require.ErrorIs(t, tc.enc.EncryptWithBlindBits(pt, 0, ct), ErrParameter)
		require.ErrorIs(t, tc.enc.EncryptWithBlindBits(pt, k+1, ct), ErrParameter)

		for _, blindBits := range []int{1, k} {
			require.NoError(t, tc.enc.EncryptWithBlindBits(pt, blindBits, ct))
			require.Equal(t, 0, tc.dec.DecryptNew(ct).Value.Cmp(pt.Value))
		}
	})
}

func testEvaluator(tc *TestContext, t *testing.T) {

	params := tc.params
	k := params.K()
	eval := tc.eval

	m0 := tc.source.Bits(k)
	m1 := tc.source.Bits(k)

	ct0, err := tc.enc.EncryptNew(NewPlaintext(params, m0))
	require.NoError(t, err)
	ct1, err := tc.enc.EncryptNew(NewPlaintext(params, m1))
	require.NoError(t, err)

	check := func(t *testing.T, ct *Ciphertext, want *big.Int) {
		want = bignum.ModPow2(new(big.Int), want, k)
		require.Equal(t, 0, tc.dec.DecryptNew(ct).Value.Cmp(want), "want=%s", want)
	}

	t.Run(testString(params, "Evaluator/Add"), func(t *testing.T) {
		check(t, eval.AddNew(ct0, ct1), new(big.Int).Add(m0, m1))
	})

	t.Run(testString(params, "Evaluator/Sub"), func(t *testing.T) {
		ct := NewCiphertext()
		require.NoError(t, eval.Sub(ct0, ct1, ct))
		check(t, ct, new(big.Int).Sub(m0, m1))
	})

	t.Run(testString(params, "Evaluator/Neg"), func(t *testing.T) {
		ct := NewCiphertext()
		require.NoError(t, eval.Neg(ct0, ct))
		check(t, ct, new(big.Int).Neg(m0))
	})

	t.Run(testString(params, "Evaluator/MulScalar"), func(t *testing.T) {
		for _, scalar := range []*big.Int{big.NewInt(0), big.NewInt(1), big.NewInt(3), big.NewInt(-7), tc.source.Bits(k + 8)} {
			check(t, eval.MulScalarNew(ct0, scalar), new(big.Int).Mul(m0, scalar))
		}
		check(t, eval.MulScalarNew(ct1, 100), new(big.Int).Mul(m1, big.NewInt(100)))
	})

	t.Run(testString(params, "Evaluator/AddPlain"), func(t *testing.T) {
		ct := NewCiphertext()
		eval.AddPlain(ct0, NewPlaintext(params, m1), ct)
		check(t, ct, new(big.Int).Add(m0, m1))
		eval.AddPlain(ct, -1, ct)
		check(t, ct, new(big.Int).Sub(new(big.Int).Add(m0, m1), big.NewInt(1)))
	})

	t.Run(testString(params, "Evaluator/Rerandomize"), func(t *testing.T) {
		ct := NewCiphertext()
		require.NoError(t, eval.Rerandomize(ct0, ct))
		check(t, ct, m0)
		if params.BlindBits() > 1 {
			require.False(t, ct.Equal(ct0))
		}
	})

	t.Run(testString(params, "Evaluator/ShallowCopy"), func(t *testing.T) {
		evalCpy := eval.ShallowCopy()
		ct := NewCiphertext()
		require.NoError(t, evalCpy.Rerandomize(ct1, ct))
		check(t, ct, m1)
	})
}

func testMarshaller(tc *TestContext, t *testing.T) {

	params := tc.params

	t.Run(testString(params, "Marshaller/Ciphertext"), func(t *testing.T) {
		ct, err := tc.enc.EncryptNew(NewPlaintext(params, 42))
		require.NoError(t, err)
		buffer.RequireSerializerCorrect(t, ct)
	})

	t.Run(testString(params, "Elements/Copy"), func(t *testing.T) {

		ct, err := tc.enc.EncryptNew(NewPlaintext(params, 5))
		require.NoError(t, err)

		ctCopy := new(Ciphertext)
		ctCopy.Copy(ct)
		require.True(t, ctCopy.Equal(ct))
		ct.Value.Add(ct.Value, big.NewInt(1))
		require.False(t, ctCopy.Equal(ct))

		pt := NewPlaintext(params, 5)
		ptCopy := NewPlaintext(params, 0)
		ptCopy.Copy(pt)
		require.True(t, ptCopy.Equal(pt))
		pt.Value.SetInt64(0)
		require.False(t, ptCopy.Equal(pt))

		ptCopy = new(Plaintext)
		ptCopy.Copy(pt)
		require.True(t, ptCopy.Equal(pt))
	})

	t.Run(testString(params, "Marshaller/Plaintext"), func(t *testing.T) {
		buffer.RequireSerializerCorrect(t, NewPlaintext(params, 42))
	})

	t.Run(testString(params, "Marshaller/PublicKey"), func(t *testing.T) {
		buffer.RequireSerializerCorrect(t, tc.pk)
	})

	t.Run(testString(params, "Marshaller/SecretKey"), func(t *testing.T) {
		buffer.RequireSerializerCorrect(t, tc.sk)
	})

	t.Run(testString(params, "Marshaller/DecryptWithDecodedKey"), func(t *testing.T) {

		data, err := tc.sk.MarshalBinary()
		require.NoError(t, err)

		sk := new(SecretKey)
		require.NoError(t, sk.UnmarshalBinary(data))

		ct, err := tc.enc.EncryptNew(NewPlaintext(params, 7))
		require.NoError(t, err)
		want := bignum.ModPow2(big.NewInt(7), big.NewInt(7), params.K())
		require.Equal(t, 0, NewDecryptor(params, sk).DecryptNew(ct).Value.Cmp(want))
	})
}

func testGenerationExhausted(t *testing.T) {
	t.Run("KeyGenerator/Exhausted", func(t *testing.T) {

		params, err := NewParametersFromLiteral(ParametersLiteral{K: 16, NBits: 512, MaxAttempts: 1})
		require.NoError(t, err)

		source := sampling.NewSource([32]byte{'x'})

		var exhausted int
		for i := 0; i < 16; i++ {
			_, _, err := NewKeyGenerator(params, source.NewSource()).GenKeyPairNew()
			if err != nil {
				require.True(t, errors.Is(err, ErrGenerationExhausted))
				exhausted++
			}
		}

		require.NotZero(t, exhausted)
	})
}
