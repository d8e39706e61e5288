package ecp

import (
	"stb34101/errs"
	"stb34101/zz"
)

// HashToField derives the field element(s) driving HashToCurve's map; bake's
// BPACE session supplies one backed by belt-WBL (spec.md §4.F/§6), keeping
// ecp itself independent of the belt package.
type HashToField func(msg []byte, n int) (zz.Int, error)

// HashToCurve maps msg to a curve point via the Shallue-van de
// Woestijne-Ulas map (bakeSWU), assuming p = 3 (mod 4) so that square roots
// reduce to a single exponentiation. z is a fixed non-quadratic-residue
// constant for the curve (a per-curve parameter of the standard, not
// derived here).
func (c *Curve) HashToCurve(msg []byte, z zz.Int, hashToField HashToField) (Point, error) {
	n := c.Field.N()
	if zz.Word(c.modWord(0))&3 != 3 {
		return Point{}, errs.New(errs.BadLogic, "ecp.HashToCurve: p must be 3 mod 4")
	}
	u, err := hashToField(msg, n)
	if err != nil {
		return Point{}, errs.Wrap(errs.BadInput, err, "ecp.HashToCurve: hash-to-field failed")
	}
	x, y := c.swuMap(u, z)
	return AffineToJacobian(x, y, n), nil
}

func (c *Curve) modWord(i int) zz.Word {
	m := c.Field.Mod()
	if i < len(m) {
		return m[i]
	}
	return 0
}

// swuMap implements the simplified SWU construction for a, b != 0.
func (c *Curve) swuMap(u, z zz.Int) (x, y zz.Int) {
	f := c.Field
	n := f.N()

	u2 := zz.New(n)
	f.Sqr(u2, u)
	zu2 := zz.New(n)
	f.Mul(zu2, z, u2)
	z2u4 := zz.New(n)
	f.Sqr(z2u4, zu2)
	tv1num := zz.New(n)
	f.Add(tv1num, z2u4, zu2)

	negBOverA := c.negBOverA()

	var x1 zz.Int
	if tv1num.IsZero() {
		zA := zz.New(n)
		f.Mul(zA, z, c.A)
		invZA := zz.New(n)
		_ = f.Inv(invZA, zA)
		negB := zz.New(n)
		f.Neg(negB, c.B)
		x1 = zz.New(n)
		f.Mul(x1, negB, invZA)
	} else {
		tv1 := zz.New(n)
		_ = f.Inv(tv1, tv1num)
		one := f.One()
		onePlus := zz.New(n)
		f.Add(onePlus, one, tv1)
		x1 = zz.New(n)
		f.Mul(x1, negBOverA, onePlus)
	}

	gx1 := c.curveRHS(x1)
	x2 := zz.New(n)
	f.Mul(x2, zu2, x1)
	gx2 := c.curveRHS(x2)

	sqrtGx1, isSquare1 := c.sqrtIf3Mod4(gx1)
	if isSquare1 {
		x = x1
		y = sqrtGx1
	} else {
		x = x2
		y, _ = c.sqrtIf3Mod4(gx2)
	}

	// Match the sign of y to the sign of u (parity of the least-significant
	// word, the standard convention when there is no total order on F_p).
	if (y[0] & 1) != (u[0] & 1) {
		neg := zz.New(n)
		f.Neg(neg, y)
		y = neg
	}
	return x, y
}

func (c *Curve) negBOverA() zz.Int {
	n := c.Field.N()
	negB := zz.New(n)
	c.Field.Neg(negB, c.B)
	invA := zz.New(n)
	_ = c.Field.Inv(invA, c.A)
	out := zz.New(n)
	c.Field.Mul(out, negB, invA)
	return out
}

// curveRHS computes x^3 + a*x + b.
func (c *Curve) curveRHS(x zz.Int) zz.Int {
	n := c.Field.N()
	f := c.Field
	x2 := zz.New(n)
	f.Sqr(x2, x)
	x3 := zz.New(n)
	f.Mul(x3, x2, x)
	ax := zz.New(n)
	f.Mul(ax, c.A, x)
	out := zz.New(n)
	f.Add(out, x3, ax)
	f.Add(out, out, c.B)
	return out
}

// sqrtIf3Mod4 returns a square root of g mod p (p == 3 mod 4) via
// g^((p+1)/4), together with whether g was actually a quadratic residue.
func (c *Curve) sqrtIf3Mod4(g zz.Int) (zz.Int, bool) {
	n := c.Field.N()
	p := c.Field.Mod()

	exp := zz.New(n + 1)
	one := zz.New(n + 1)
	one.SetWord(1)
	zz.Add(exp, p, one)
	shifted := zz.New(n + 1)
	zz.ShiftRight(shifted, exp, 2)

	root := zz.New(n)
	c.Field.Exp(root, g, shifted)

	check := zz.New(n)
	c.Field.Sqr(check, root)
	return root, c.Field.Eq(check, g)
}
