package ecp

import (
	"testing"

	"stb34101/zz"
)

// toyCurve builds the textbook example y^2 = x^3 + 2x + 2 mod 17, with base
// point (5,1) of order 19 (Paar & Pelzl, "Understanding Cryptography",
// Example 9.3) — a small curve chosen so every coordinate fits a single
// octet, used purely to exercise the arithmetic paths below.
func toyCurve(t *testing.T, policy Policy) *Curve {
	t.Helper()
	params := Params{
		P:  []byte{17},
		A:  []byte{2},
		B:  []byte{2},
		Q:  []byte{19},
		Gx: []byte{5},
		Gy: []byte{1},
	}
	c, err := Bootstrap(params, policy, nil)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	return c
}

func TestBootstrapValidatesToyCurve(t *testing.T) {
	c := toyCurve(t, DefaultPolicy())
	if !c.IsOnCurveAffine(c.Gx, c.Gy) {
		t.Fatal("base point not reported on curve")
	}
}

func TestAddIsCommutative(t *testing.T) {
	c := toyCurve(t, DefaultPolicy())
	g := c.BasePoint()
	g2 := c.Double(g)

	lhs := c.Add(g, g2)
	rhs := c.Add(g2, g)
	if !c.Eq(lhs, rhs) {
		t.Fatal("g+g2 != g2+g")
	}
}

func TestScalarMulFastMatchesRepeatedAdd(t *testing.T) {
	c := toyCurve(t, DefaultPolicy())
	g := c.BasePoint()

	acc := Infinity(c.Field.N())
	for i := 0; i < 7; i++ {
		acc = c.Add(acc, g)
	}
	k := zz.Int{7}
	got := c.ScalarMulFast(k, g)
	if !c.Eq(acc, got) {
		t.Fatal("ScalarMulFast(7,G) != G+G+...+G (7 times)")
	}
}

func TestScalarMulOrderGivesInfinity(t *testing.T) {
	c := toyCurve(t, DefaultPolicy())
	g := c.BasePoint()
	r := c.ScalarMulFast(c.Order.Mod(), g)
	if !r.IsInfinity() {
		t.Fatal("q*G != infinity")
	}
}

func TestScalarMulSafeMatchesFast(t *testing.T) {
	cFast := toyCurve(t, DefaultPolicy())
	g := cFast.BasePoint()

	for _, k := range []uint64{1, 2, 3, 7, 11, 18} {
		kInt := zz.Int{zz.Word(k)}
		want := cFast.ScalarMulFast(kInt, g)

		x, y, ok := cFast.ToAffine(g)
		if !ok {
			t.Fatalf("k=%d: ToAffine(G) failed", k)
		}
		pp := AffineToProj(x, y, cFast.Field.N())
		got := cFast.ScalarMulSafe(kInt, pp)

		if want.IsInfinity() {
			if !got.IsInfinity() {
				t.Fatalf("k=%d: fast path is infinity, safe path is not", k)
			}
			continue
		}
		gx, gy, gok := cFast.ToAffine(want)
		if !gok {
			t.Fatalf("k=%d: ToAffine(fast result) failed", k)
		}
		px, py, pok := cFast.ProjToAffine(got)
		if !pok {
			t.Fatalf("k=%d: ProjToAffine(safe result) failed", k)
		}
		if zz.Cmp(gx, px) != 0 || zz.Cmp(gy, py) != 0 {
			t.Fatalf("k=%d: fast and safe scalar multiplication disagree", k)
		}
	}
}

func TestSumOfScalarMul(t *testing.T) {
	c := toyCurve(t, DefaultPolicy())
	g := c.BasePoint()
	h := c.Double(g)

	k1 := zz.Int{3}
	k2 := zz.Int{5}
	got := c.SumOfScalarMul(k1, g, k2, h)

	want := c.Add(c.ScalarMulFast(k1, g), c.ScalarMulFast(k2, h))
	if !c.Eq(got, want) {
		t.Fatal("SumOfScalarMul(k1,G,k2,H) != k1*G + k2*H")
	}
}
