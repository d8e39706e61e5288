// Package ecp implements elliptic curves in short Weierstrass form
// (y^2 = x^3 + a*x + b mod p) over a prime field, per spec.md §4.D: curve
// bootstrap/validation, affine and Jacobian coordinates, and both a fast
// (variable-time, wNAF) and a constant-time scalar multiplication path,
// selected by an explicit ecp.Policy value rather than the source's
// process-global flags. The constant-time path is a bit-by-bit ladder of
// conditional swaps and complete additions; it uses no windowed
// precomputation table.
package ecp

import (
	"stb34101/errs"
	"stb34101/qr"
	"stb34101/zz"
)

// Curve describes a short Weierstrass curve over F_p: y^2 = x^3 + a*x + b.
type Curve struct {
	Field *qr.Ring // the base field F_p
	Order *qr.Ring // the order-q ring the curve's scalars live in
	A, B  zz.Int   // curve coefficients, reduced mod p
	B3    zz.Int   // 3*B mod p, precomputed for CompleteAdd
	Gx, Gy zz.Int  // base point coordinates
	No    int      // octet length of a field element (spec.md §3's "no")
	Policy Policy
}

// Params is the wire-level description of a curve's standard parameters
// (the inputs to Bootstrap), matching the way std curve tables are usually
// published: big-endian octet strings of fixed width.
type Params struct {
	P, A, B, Q, Gx, Gy []byte
	Cofactor           uint64
	Seed               []byte // the belt-hash-derived seed binding b, may be nil
}

// Bootstrap validates a parameter set and constructs a Curve, checking: p
// odd, a and b reduced mod p, 4a^3+27b^2 != 0 (nonsingular), G on the
// curve, q*G == O, and (when hashB is given and Seed is present) b
// reproducible from Seed via the belt-hash binding. The bit length of p,
// its residue mod 4 and the primality of p and q are not checked.
func Bootstrap(p Params, policy Policy, hashB func(seed []byte, p, a []byte) ([]byte, error)) (*Curve, error) {
	field, err := qr.Create(zz.FromOctets(reverseOctets(p.P)))
	if err != nil {
		return nil, errs.Wrap(errs.BadParams, err, "ecp.Bootstrap: invalid field modulus")
	}
	if field.Mod().IsEven() {
		return nil, errs.New(errs.BadParams, "ecp.Bootstrap: p must be odd")
	}
	no := len(p.P)

	a := zz.FromOctets(reverseOctets(p.A))
	b := zz.FromOctets(reverseOctets(p.B))
	if zz.Cmp(a, field.Mod()) >= 0 || zz.Cmp(b, field.Mod()) >= 0 {
		return nil, errs.New(errs.BadParams, "ecp.Bootstrap: a or b not reduced mod p")
	}

	if hashB != nil && p.Seed != nil {
		want, err := hashB(p.Seed, p.P, p.A)
		if err != nil {
			return nil, errs.Wrap(errs.BadParams, err, "ecp.Bootstrap: seed binding hash failed")
		}
		if !bytesEqual(want, p.B) {
			return nil, errs.New(errs.BadParams, "ecp.Bootstrap: b does not match belt-hash(seed)")
		}
	}

	if err := checkNonsingular(field, a, b); err != nil {
		return nil, err
	}

	order, err := qr.Create(zz.FromOctets(reverseOctets(p.Q)))
	if err != nil {
		return nil, errs.Wrap(errs.BadParams, err, "ecp.Bootstrap: invalid order")
	}

	gx := zz.FromOctets(reverseOctets(p.Gx))
	gy := zz.FromOctets(reverseOctets(p.Gy))
	bTight := zz.Resize(b, field.N())
	b3 := zz.New(field.N())
	field.Double(b3, bTight)
	field.Add(b3, b3, bTight)
	c := &Curve{
		Field: field, Order: order,
		A: zz.Resize(a, field.N()), B: bTight, B3: b3,
		Gx: zz.Resize(gx, field.N()), Gy: zz.Resize(gy, field.N()),
		No: no, Policy: policy,
	}

	if !c.IsOnCurveAffine(c.Gx, c.Gy) {
		return nil, errs.New(errs.BadParams, "ecp.Bootstrap: base point not on curve")
	}
	if err := c.checkOrder(); err != nil {
		return nil, err
	}
	return c, nil
}

func checkNonsingular(field *qr.Ring, a, b zz.Int) error {
	n := field.N()
	a2 := zz.New(n)
	field.Mul(a2, a, a)
	a3 := zz.New(n)
	field.Mul(a3, a2, a)
	four := zz.New(n)
	four.SetWord(4)
	t1 := zz.New(n)
	field.Mul(t1, four, a3)

	b2 := zz.New(n)
	field.Mul(b2, b, b)
	twentySeven := zz.New(n)
	twentySeven.SetWord(27)
	t2 := zz.New(n)
	field.Mul(t2, twentySeven, b2)

	disc := zz.New(n)
	field.Add(disc, t1, t2)
	if disc.IsZero() {
		return errs.New(errs.BadParams, "ecp.Bootstrap: curve is singular (4a^3+27b^2 == 0)")
	}
	return nil
}

// checkOrder verifies q*G == O using the fast scalar-multiplication path
// (parameter validation is not secret-dependent).
func (c *Curve) checkOrder() error {
	g := c.BasePoint()
	r := c.ScalarMulFast(c.Order.Mod(), g)
	if !r.IsInfinity() {
		return errs.New(errs.BadParams, "ecp.Bootstrap: q*G != O")
	}
	return nil
}

// IsOnCurveAffine reports whether (x,y) satisfies y^2 = x^3+a*x+b mod p.
func (c *Curve) IsOnCurveAffine(x, y zz.Int) bool {
	n := c.Field.N()
	lhs := zz.New(n)
	c.Field.Mul(lhs, y, y)

	x2 := zz.New(n)
	c.Field.Mul(x2, x, x)
	x3 := zz.New(n)
	c.Field.Mul(x3, x2, x)
	ax := zz.New(n)
	c.Field.Mul(ax, c.A, x)
	rhs := zz.New(n)
	c.Field.Add(rhs, x3, ax)
	c.Field.Add(rhs, rhs, c.B)

	return c.Field.Eq(lhs, rhs)
}

// BasePoint returns G in Jacobian coordinates.
func (c *Curve) BasePoint() Point { return AffineToJacobian(c.Gx, c.Gy, c.Field.N()) }

// reverseOctets converts between Params' big-endian wire convention and
// zz's little-endian Int encoding (zz.FromOctets/ToOctets); it is its own
// inverse.
func reverseOctets(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
