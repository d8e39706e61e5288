package ecp

import "stb34101/zz"

// Policy is the explicit, per-Curve configuration spec.md §9's design note
// replaces the source's process-global ecpDivp/ecPrecomp/ecSafe flags with:
// every call site that used to consult a global now reads Curve.Policy.
type Policy struct {
	// Safe forces the constant-time complete-formula ladder (ScalarMulSafe)
	// for every ScalarMul call, even when the scalar is not secret. False
	// selects the faster wNAF path (ScalarMulFast) by default.
	Safe bool

	// Window is the wNAF window width the fast path uses, in
	// [2, word.Bits/2]; 5 is a reasonable default for 256-bit scalars.
	Window uint
}

// DefaultPolicy is the fast (variable-time) policy with a window width of 5.
func DefaultPolicy() Policy { return Policy{Safe: false, Window: 5} }

// SafePolicy is the constant-time policy: Curve.ScalarMul then always takes
// the ScalarMulSafe path. bign.Sign and the bake sessions call
// ScalarMulFast directly, so their scalar multiplications do not follow
// the policy.
func SafePolicy() Policy { return Policy{Safe: true, Window: 5} }

// ScalarMul computes k*p, dispatching to the fast or constant-time path per
// c.Policy.Safe. Fast operates on Jacobian points, Safe on projective
// points; this converts as needed so callers see one coordinate-agnostic
// entry point.
func (c *Curve) ScalarMul(k zz.Int, p Point) Point {
	if c.Policy.Safe {
		n := c.Field.N()
		x, y, ok := c.ToAffine(p)
		var pp ProjPoint
		if !ok {
			pp = ProjInfinity(n)
		} else {
			pp = AffineToProj(x, y, n)
		}
		res := c.ScalarMulSafe(k, pp)
		rx, ry, rok := c.ProjToAffine(res)
		if !rok {
			return Infinity(n)
		}
		return AffineToJacobian(rx, ry, n)
	}
	return c.ScalarMulFast(k, p)
}
