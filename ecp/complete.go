package ecp

import "stb34101/zz"

// ProjPoint is a curve point in ordinary projective coordinates (X:Y:Z)
// representing the affine point (X/Z, Y/Z); (0:1:0) is the point at
// infinity. This is the coordinate system the constant-time path uses,
// distinct from the Jacobian Point of point.go the fast path uses, because
// the complete addition law below (Renes-Costello-Batina) is stated over
// (X:Y:Z), not Jacobian coordinates.
type ProjPoint struct {
	X, Y, Z zz.Int
}

// AffineToProj lifts (x,y) to projective coordinates with Z=1.
func AffineToProj(x, y zz.Int, n int) ProjPoint {
	z := zz.New(n)
	z.SetWord(1)
	return ProjPoint{X: zz.Resize(x, n), Y: zz.Resize(y, n), Z: z}
}

// ProjInfinity returns the projective point at infinity, (0:1:0).
func ProjInfinity(n int) ProjPoint {
	y := zz.New(n)
	y.SetWord(1)
	return ProjPoint{X: zz.New(n), Y: y, Z: zz.New(n)}
}

func (p ProjPoint) IsInfinity() bool { return p.Z.IsZero() }

func (p ProjPoint) Clone() ProjPoint {
	return ProjPoint{X: p.X.Clone(), Y: p.Y.Clone(), Z: p.Z.Clone()}
}

// ProjToAffine converts a projective point to affine coordinates, returning
// ok=false for the point at infinity.
func (c *Curve) ProjToAffine(p ProjPoint) (x, y zz.Int, ok bool) {
	if p.IsInfinity() {
		return nil, nil, false
	}
	n := c.Field.N()
	zInv := zz.New(n)
	_ = c.Field.Inv(zInv, p.Z)
	x = zz.New(n)
	c.Field.Mul(x, p.X, zInv)
	y = zz.New(n)
	c.Field.Mul(y, p.Y, zInv)
	return x, y, true
}

// CompleteAdd computes p1+p2 (p1 == p2 included, i.e. doubling) using
// Algorithm 1 of Renes, Costello and Batina, "Complete addition formulas
// for prime order elliptic curves" (2016): a single sequence of field
// operations, with no data-dependent branch, valid for arbitrary a, b and
// for every combination of inputs including either being the point at
// infinity. This is what backs the constant-time scalar-multiplication
// ladder (spec.md §4.D's "safe" path).
func (c *Curve) CompleteAdd(p1, p2 ProjPoint) ProjPoint {
	n := c.Field.N()
	f := c.Field
	x1, y1, z1 := p1.X, p1.Y, p1.Z
	x2, y2, z2 := p2.X, p2.Y, p2.Z

	t0, t1, t2, t3, t4, t5 := zz.New(n), zz.New(n), zz.New(n), zz.New(n), zz.New(n), zz.New(n)
	x3, y3, z3 := zz.New(n), zz.New(n), zz.New(n)

	f.Mul(t0, x1, x2)
	f.Mul(t1, y1, y2)
	f.Mul(t2, z1, z2)
	f.Add(t3, x1, y1)
	f.Add(t4, x2, y2)
	f.Mul(t3, t3, t4)
	f.Add(t4, t0, t1)
	f.Sub(t3, t3, t4)
	f.Add(t4, x1, z1)
	f.Add(t5, x2, z2)
	f.Mul(t4, t4, t5)
	f.Add(t5, t0, t2)
	f.Sub(t4, t4, t5)
	f.Add(t5, y1, z1)
	f.Add(x3, y2, z2)
	f.Mul(t5, t5, x3)
	f.Add(x3, t1, t2)
	f.Sub(t5, t5, x3)
	f.Mul(z3, c.A, t4)
	f.Mul(x3, c.B3, t2)
	f.Add(z3, x3, z3)
	f.Sub(x3, t1, z3)
	f.Add(z3, t1, z3)
	f.Mul(y3, x3, z3)
	f.Add(t1, t0, t0)
	f.Add(t1, t1, t0)
	f.Mul(t2, c.A, t2)
	f.Mul(t4, c.B3, t4)
	f.Add(t1, t1, t2)
	f.Sub(t2, t0, t2)
	f.Mul(t2, c.A, t2)
	f.Add(t4, t4, t2)
	f.Mul(t0, t1, t4)
	f.Add(y3, y3, t0)
	f.Mul(t0, t5, t4)
	f.Mul(x3, t3, x3)
	f.Sub(x3, x3, t0)
	f.Mul(t0, t3, t1)
	f.Mul(z3, t5, z3)
	f.Add(z3, z3, t0)

	return ProjPoint{X: x3, Y: y3, Z: z3}
}

// cswapInt conditionally swaps a and b in place when mask is all-ones
// (branchless, via the xor-swap trick).
func cswapInt(mask zz.Word, a, b zz.Int) {
	for i := range a {
		t := mask & (a[i] ^ b[i])
		a[i] ^= t
		b[i] ^= t
	}
}

func cswapPoint(mask zz.Word, p, q *ProjPoint) {
	cswapInt(mask, p.X, q.X)
	cswapInt(mask, p.Y, q.Y)
	cswapInt(mask, p.Z, q.Z)
}

// ScalarMulSafe computes k*p via the constant-time "complete-formula"
// ladder (spec.md §4.D): every bit of k over a fixed width (the bit length
// of the curve order, independent of k's own value) drives one cswap +
// CompleteAdd + CompleteAdd + cswap step, so the sequence of field
// operations executed does not depend on k.
func (c *Curve) ScalarMulSafe(k zz.Int, p ProjPoint) ProjPoint {
	n := c.Field.N()
	width := c.Order.Mod().BitLen()
	r0 := ProjInfinity(n)
	r1 := p.Clone()
	for i := width - 1; i >= 0; i-- {
		mask := -zz.Word(k.Bit(i)) // all-ones iff bit is 1, else all-zeros
		cswapPoint(mask, &r0, &r1)
		r1 = c.CompleteAdd(r0, r1)
		r0 = c.CompleteAdd(r0, r0)
		cswapPoint(mask, &r0, &r1)
	}
	return r0
}
