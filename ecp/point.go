package ecp

import "stb34101/zz"

// Point is a curve point in Jacobian coordinates (X:Y:Z), representing the
// affine point (X/Z^2, Y/Z^3). Z == 0 denotes the point at infinity.
type Point struct {
	X, Y, Z zz.Int
}

// AffineToJacobian lifts (x,y) into Jacobian coordinates with Z=1.
func AffineToJacobian(x, y zz.Int, n int) Point {
	z := zz.New(n)
	z.SetWord(1)
	return Point{X: zz.Resize(x, n), Y: zz.Resize(y, n), Z: z}
}

// Infinity returns the point at infinity for an n-word field.
func Infinity(n int) Point {
	return Point{X: zz.New(n), Y: zz.New(n), Z: zz.New(n)}
}

// IsInfinity reports whether p is the point at infinity (Z == 0).
func (p Point) IsInfinity() bool { return p.Z.IsZero() }

// Clone returns an independent copy of p.
func (p Point) Clone() Point {
	return Point{X: p.X.Clone(), Y: p.Y.Clone(), Z: p.Z.Clone()}
}

// ToAffine converts p to affine coordinates (x, y) = (X/Z^2, Y/Z^3). Returns
// ok=false for the point at infinity (callers must check IsInfinity first
// when an affine representation is required unconditionally).
func (c *Curve) ToAffine(p Point) (x, y zz.Int, ok bool) {
	if p.IsInfinity() {
		return nil, nil, false
	}
	n := c.Field.N()
	zInv := zz.New(n)
	_ = c.Field.Inv(zInv, p.Z)
	zInv2 := zz.New(n)
	c.Field.Sqr(zInv2, zInv)
	zInv3 := zz.New(n)
	c.Field.Mul(zInv3, zInv2, zInv)

	x = zz.New(n)
	c.Field.Mul(x, p.X, zInv2)
	y = zz.New(n)
	c.Field.Mul(y, p.Y, zInv3)
	return x, y, true
}

// Double computes 2*p in Jacobian coordinates, for the curve's general a
// (spec.md §4.D's "general Weierstrass doubling", not the a=-3 shortcut).
// Not constant-time: used on the fast/variable-time path only.
func (c *Curve) Double(p Point) Point {
	n := c.Field.N()
	f := c.Field
	if p.IsInfinity() || p.Y.IsZero() {
		return Infinity(n)
	}

	y2 := zz.New(n)
	f.Sqr(y2, p.Y)
	s := zz.New(n)
	f.Mul(s, p.X, y2)
	f.Double(s, s)
	f.Double(s, s) // S = 4*X*Y^2

	x2 := zz.New(n)
	f.Sqr(x2, p.X)
	m := zz.New(n)
	f.Double(m, x2)
	f.Add(m, m, x2) // 3*X^2
	z2 := zz.New(n)
	f.Sqr(z2, p.Z)
	z4 := zz.New(n)
	f.Sqr(z4, z2)
	az4 := zz.New(n)
	f.Mul(az4, c.A, z4)
	f.Add(m, m, az4) // M = 3*X^2 + a*Z^4

	x3 := zz.New(n)
	f.Sqr(x3, m)
	twoS := zz.New(n)
	f.Double(twoS, s)
	f.Sub(x3, x3, twoS) // X3 = M^2 - 2S

	y4 := zz.New(n)
	f.Sqr(y4, y2)
	eight := zz.New(n)
	f.Double(eight, y4)
	f.Double(eight, eight)
	f.Double(eight, eight) // 8*Y^4

	sMinusX3 := zz.New(n)
	f.Sub(sMinusX3, s, x3)
	y3 := zz.New(n)
	f.Mul(y3, m, sMinusX3)
	f.Sub(y3, y3, eight)

	z3 := zz.New(n)
	f.Mul(z3, p.Y, p.Z)
	f.Double(z3, z3)

	return Point{X: x3, Y: y3, Z: z3}
}

// Add computes p1+p2 in Jacobian coordinates using the general (unequal-Z)
// addition law, falling back to Double when p1 == p2 and to the identity
// law when either operand is infinity. Not constant-time.
func (c *Curve) Add(p1, p2 Point) Point {
	n := c.Field.N()
	f := c.Field
	if p1.IsInfinity() {
		return p2.Clone()
	}
	if p2.IsInfinity() {
		return p1.Clone()
	}

	z1z1 := zz.New(n)
	f.Sqr(z1z1, p1.Z)
	z2z2 := zz.New(n)
	f.Sqr(z2z2, p2.Z)

	u1 := zz.New(n)
	f.Mul(u1, p1.X, z2z2)
	u2 := zz.New(n)
	f.Mul(u2, p2.X, z1z1)

	z2z2z2 := zz.New(n)
	f.Mul(z2z2z2, z2z2, p2.Z)
	z1z1z1 := zz.New(n)
	f.Mul(z1z1z1, z1z1, p1.Z)
	s1 := zz.New(n)
	f.Mul(s1, p1.Y, z2z2z2)
	s2 := zz.New(n)
	f.Mul(s2, p2.Y, z1z1z1)

	h := zz.New(n)
	f.Sub(h, u2, u1)
	r := zz.New(n)
	f.Sub(r, s2, s1)

	if h.IsZero() {
		if r.IsZero() {
			return c.Double(p1)
		}
		return Infinity(n)
	}

	i := zz.New(n)
	f.Double(i, h)
	f.Sqr(i, i)
	j := zz.New(n)
	f.Mul(j, h, i)
	v := zz.New(n)
	f.Mul(v, u1, i)

	x3 := zz.New(n)
	f.Sqr(x3, r)
	f.Sub(x3, x3, j)
	twoV := zz.New(n)
	f.Double(twoV, v)
	f.Sub(x3, x3, twoV)

	vMinusX3 := zz.New(n)
	f.Sub(vMinusX3, v, x3)
	y3 := zz.New(n)
	f.Mul(y3, r, vMinusX3)
	twoS1J := zz.New(n)
	f.Mul(twoS1J, s1, j)
	f.Double(twoS1J, twoS1J)
	f.Sub(y3, y3, twoS1J)

	z3 := zz.New(n)
	zsum := zz.New(n)
	f.Add(zsum, p1.Z, p2.Z)
	f.Sqr(zsum, zsum)
	f.Sub(zsum, zsum, z1z1)
	f.Sub(zsum, zsum, z2z2)
	f.Mul(z3, zsum, h)

	return Point{X: x3, Y: y3, Z: z3}
}

// Neg computes -p (the reflection of p across the x-axis).
func (c *Curve) Neg(p Point) Point {
	neg := zz.New(c.Field.N())
	c.Field.Neg(neg, p.Y)
	return Point{X: p.X.Clone(), Y: neg, Z: p.Z.Clone()}
}

// Eq reports whether p1 and p2 represent the same affine point, comparing
// cross products X1*Z2^2 == X2*Z1^2 and Y1*Z2^3 == Y2*Z1^3 so neither side
// needs an inversion.
func (c *Curve) Eq(p1, p2 Point) bool {
	if p1.IsInfinity() || p2.IsInfinity() {
		return p1.IsInfinity() == p2.IsInfinity()
	}
	n := c.Field.N()
	f := c.Field
	z1z1 := zz.New(n)
	f.Sqr(z1z1, p1.Z)
	z2z2 := zz.New(n)
	f.Sqr(z2z2, p2.Z)
	lx := zz.New(n)
	f.Mul(lx, p1.X, z2z2)
	rx := zz.New(n)
	f.Mul(rx, p2.X, z1z1)
	if !f.Eq(lx, rx) {
		return false
	}
	z1z1z1 := zz.New(n)
	f.Mul(z1z1z1, z1z1, p1.Z)
	z2z2z2 := zz.New(n)
	f.Mul(z2z2z2, z2z2, p2.Z)
	ly := zz.New(n)
	f.Mul(ly, p1.Y, z2z2z2)
	ry := zz.New(n)
	f.Mul(ry, p2.Y, z1z1z1)
	return f.Eq(ly, ry)
}
