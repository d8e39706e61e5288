package bign

import (
	"stb34101/belt"
	"stb34101/ecp"
	"stb34101/errs"
	"stb34101/rng"
	"stb34101/zz"
)

// Signature is a bign signature pair (S0, S1): S0 is the challenge reduced
// mod q, S1 the response scalar, both mod q (spec.md §4.I's supplemented
// Sign/Verify, built directly on ecp's scalar multiplication).
type Signature struct {
	S0 zz.Int
	S1 zz.Int
}

// Sign produces a signature over hash (the caller's pre-hashed message
// digest, oid-tagged into the challenge) under the long-term private key d.
// A fresh ephemeral k is drawn from src for every call.
func Sign(c *ecp.Curve, d zz.Int, oid string, hash []byte, src rng.Source) (*Signature, error) {
	q := c.Order.Mod()
	n := q.Hi()
	if n == 0 {
		n = 1
	}
	for {
		buf := make([]byte, (n+1)*8)
		if err := src.Read(buf); err != nil {
			return nil, errs.Wrap(errs.BadRNG, err, "bign.Sign: rng failed")
		}
		k := zz.New(n)
		if err := zz.Mod(k, zz.FromOctets(buf), q); err != nil {
			return nil, errs.Wrap(errs.BadRNG, err, "bign.Sign: reduction failed")
		}
		if k.IsZero() {
			continue
		}

		rPoint := c.ScalarMulFast(k, c.BasePoint())
		rx, _, ok := c.ToAffine(rPoint)
		if !ok {
			continue
		}

		e := challenge(q, n, oid, hash, rx, c.Field.N())
		if e.IsZero() {
			continue
		}

		// s1 = (k + e*d) mod q
		ed := zz.New(n)
		c.Order.Mul(ed, e, d)
		s1 := zz.New(n)
		c.Order.Add(s1, k, ed)
		if s1.IsZero() {
			continue
		}
		return &Signature{S0: e, S1: s1}, nil
	}
}

// Verify checks sig against hash and the long-term public point Q,
// recomputing the challenge from R' = S1*G - S0*Q via the two-term
// simultaneous multiply-add (spec.md §4.I).
func Verify(c *ecp.Curve, qx, qy zz.Int, oid string, hash []byte, sig *Signature) error {
	q := c.Order.Mod()
	n := q.Hi()
	if n == 0 {
		n = 1
	}
	if zz.Cmp(sig.S0, q) >= 0 || zz.Cmp(sig.S1, q) >= 0 || sig.S0.IsZero() || sig.S1.IsZero() {
		return errs.New(errs.Auth, "bign.Verify: signature component out of range")
	}

	negE := zz.New(n)
	c.Order.Neg(negE, sig.S0)

	qPoint := ecp.AffineToJacobian(qx, qy, c.Field.N())
	rPrime := c.SumOfScalarMul(sig.S1, c.BasePoint(), negE, qPoint)
	if rPrime.IsInfinity() {
		return errs.New(errs.Auth, "bign.Verify: recomputed point at infinity")
	}
	rx, _, ok := c.ToAffine(rPrime)
	if !ok {
		return errs.New(errs.Auth, "bign.Verify: recomputed point has no affine form")
	}

	e := challenge(q, n, oid, hash, rx, c.Field.N())
	if zz.Cmp(e, sig.S0) != 0 {
		return errs.New(errs.Auth, "bign.Verify: challenge mismatch")
	}
	return nil
}

// challenge computes e = belt-hash(oid || hash || rx) mod q, re-rolled to 1
// if the reduction happens to land on zero (a negligible-probability event
// for a real hash, handled explicitly rather than left as a latent
// edge case).
func challenge(q zz.Int, n int, oid string, hash []byte, rx zz.Int, no int) zz.Int {
	digest := belt.Hash([]byte(oid), hash, zz.ToOctets(rx, no))
	e := zz.New(n)
	_ = zz.Mod(e, zz.FromOctets(digest[:]), q)
	if e.IsZero() {
		e.SetWord(1)
	}
	return e
}
