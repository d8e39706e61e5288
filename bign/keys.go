package bign

import (
	"stb34101/ecp"
	"stb34101/errs"
	"stb34101/rng"
	"stb34101/zz"
)

// KeyPair is a long-term or ephemeral bign key pair: d is the private
// scalar in [1, q), Q = d*G its public point.
type KeyPair struct {
	D  zz.Int
	Qx zz.Int
	Qy zz.Int
}

// GenKeypair draws d uniformly from {1, ..., q-1} via src and sets Q = d*G.
func GenKeypair(c *ecp.Curve, src rng.Source) (*KeyPair, error) {
	q := c.Order.Mod()
	n := q.Hi()
	if n == 0 {
		n = 1
	}
	for {
		// Draw one extra word of randomness beyond q's width so the
		// reduction-mod-q bias is cryptographically negligible.
		buf := make([]byte, (n+1)*8)
		if err := src.Read(buf); err != nil {
			return nil, errs.Wrap(errs.BadRNG, err, "bign.GenKeypair: rng failed")
		}
		raw := zz.FromOctets(buf)
		rem := zz.New(n)
		if err := zz.Mod(rem, raw, q); err != nil {
			return nil, errs.Wrap(errs.BadRNG, err, "bign.GenKeypair: reduction failed")
		}
		d := rem
		if d.IsZero() {
			continue
		}
		qx, qy, ok := c.ToAffine(c.ScalarMulFast(d, c.BasePoint()))
		if !ok {
			continue
		}
		return &KeyPair{D: d, Qx: qx, Qy: qy}, nil
	}
}

// ValPubkey decodes and validates a public point: it must lie on the curve
// and not be the point at infinity. The subgroup check is implicit: every
// bign standard curve has cofactor 1, so on-curve already implies
// membership in the order-q subgroup.
func ValPubkey(c *ecp.Curve, qxBytes, qyBytes []byte) (zz.Int, zz.Int, error) {
	n := c.Field.N()
	qx := zz.Resize(zz.FromOctets(qxBytes), n)
	qy := zz.Resize(zz.FromOctets(qyBytes), n)
	if !c.IsOnCurveAffine(qx, qy) {
		return zz.Int{}, zz.Int{}, errs.New(errs.BadPubkey, "bign.ValPubkey: point not on curve")
	}
	return qx, qy, nil
}
