package tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stb34101/pfok"
	"stb34101/rng"
	"stb34101/zz"
)

// TestReductionStrategiesAgreeOverPfokGeneratedModulus generates a real
// finite-field DH parameter set via pfok and cross-checks zz's plain,
// Barrett, and Montgomery reducers against each other and against plain
// division over that modulus — exercising pfok and zz.Reducer together
// rather than in isolation.
func TestReductionStrategiesAgreeOverPfokGeneratedModulus(t *testing.T) {
	params, err := pfok.Generate(96, 48, rng.System, nil)
	require.NoError(t, err)
	require.True(t, params.P.IsOdd())

	n := params.P.Hi()
	plain := zz.NewPlainReducer(params.P)
	barrett := zz.NewBarrettReducer(params.P)
	montgomery, err := zz.NewMontgomeryReducer(params.P)
	require.NoError(t, err)

	for i := 0; i < 16; i++ {
		buf := make([]byte, n*8*2)
		require.NoError(t, rng.System.Read(buf))
		x := zz.FromOctets(buf)

		want := zz.New(n)
		require.NoError(t, zz.Mod(want, x, params.P))

		gotPlain := zz.New(n)
		require.NoError(t, plain.Reduce(gotPlain, x))
		require.Equal(t, 0, zz.Cmp(want, gotPlain))

		gotBarrett := zz.New(n)
		require.NoError(t, barrett.Reduce(gotBarrett, x))
		require.Equal(t, 0, zz.Cmp(want, gotBarrett))

		xMont := zz.New(n)
		montgomery.ToMont(xMont, want)
		xBack := zz.New(n)
		montgomery.FromMont(xBack, xMont)
		require.Equal(t, 0, zz.Cmp(want, xBack))
	}
}

// TestPfokGeneratorGeneratesOrderQElement checks g^q == 1 (mod p) for a
// freshly generated parameter set at a second bit-length pair, the
// membership property bake/pfok's Diffie-Hellman exchange depends on.
func TestPfokGeneratorGeneratesOrderQElement(t *testing.T) {
	params, err := pfok.Generate(128, 40, rng.System, nil)
	require.NoError(t, err)

	n := params.P.Hi()
	got := zz.New(n)
	zz.ExpMod(got, params.G, params.Q, params.P)
	want := zz.New(n)
	want.SetWord(1)
	require.Equal(t, 0, zz.Cmp(got, want))
}
