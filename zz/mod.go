package zz

import (
	"stb34101/errs"
	"stb34101/internal/word"
)

// AddMod computes c = (a + b) mod mod with a single conditional
// subtraction, expressed branchlessly via word.Select (spec.md §4.B).
// a, b must already be reduced mod mod; mod must have exactly n = len(mod)
// significant words with mod[n-1] != 0.
func AddMod(c, a, b, mod Int) {
	n := len(mod)
	sum := New(n + 1)
	carry := Add(sum[:n], a, b)
	sum[n] = carry
	diff := New(n)
	borrow := Sub(diff, sum[:n], mod)
	mask := word.Mask(carry) | word.Mask(1-borrow)
	for i := 0; i < n; i++ {
		c[i] = word.Select(mask, diff[i], sum[i])
	}
}

// SubMod computes c = (a - b) mod mod with a single conditional addition.
func SubMod(c, a, b, mod Int) {
	n := len(mod)
	diff := New(n)
	borrow := Sub(diff, a, b)
	sum := New(n)
	Add(sum, diff, mod)
	mask := word.Mask(borrow)
	for i := 0; i < n; i++ {
		c[i] = word.Select(mask, sum[i], diff[i])
	}
}

// NegMod computes c = (-a) mod mod, i.e. 0 if a == 0 and mod-a otherwise.
func NegMod(c, a, mod Int) {
	n := len(mod)
	diff := New(n)
	Sub(diff, mod, a)
	var orAll Word
	for _, w := range a {
		orAll |= w
	}
	maskZero := word.Mask(word.IsZero(orAll))
	for i := 0; i < n; i++ {
		c[i] = word.Select(maskZero, 0, diff[i])
	}
}

// DoubleMod computes c = (2*a) mod mod.
func DoubleMod(c, a, mod Int) { AddMod(c, a, a, mod) }

// HalfMod computes c = (a/2) mod mod for an odd mod: a/2 if a is even,
// (a+mod)/2 if a is odd.
func HalfMod(c, a, mod Int) {
	n := len(mod)
	sum := New(n + 1)
	carry := Add(sum[:n], a, mod)
	sum[n] = carry
	mask := word.Mask(Word(a[0] & 1))
	chosen := New(n + 1)
	for i := 0; i < n; i++ {
		var av Word
		if i < len(a) {
			av = a[i]
		}
		chosen[i] = word.Select(mask, sum[i], av)
	}
	chosen[n] = word.Select(mask, sum[n], 0)
	ShiftRight(c, chosen, 1)
}

// ExpMod computes c = a^e mod mod via left-to-right square-and-multiply.
// Not constant-time: used for parameter validation and primality testing
// (pfok), never on a secret scalar.
func ExpMod(c, a, e, mod Int) {
	n := len(mod)
	result := New(n)
	result.SetWord(1)
	base := New(n)
	Copy(base, a)
	tmp := New(2 * n)
	for bit := e.BitLen() - 1; bit >= 0; bit-- {
		Sqr(tmp, result)
		_ = Mod(result, tmp, mod)
		if e.Bit(bit) == 1 {
			Mul(tmp, result[:result.Hi()], base[:base.Hi()])
			_ = Mod(result, tmp, mod)
		}
	}
	Copy(c, result)
}

// AlmostInvMod implements Kaliski's almost-inverse algorithm: it returns
// r = a⁻¹·2^k mod mod and the exponent k, with bitlen(mod) <= k <=
// 2*bitlen(mod), for 0 < a < mod and odd mod. Per spec.md's Open Questions,
// the stricter bound (a < mod, not merely a >= 0) is asserted at entry
// rather than accommodated silently.
func AlmostInvMod(out Int, a, mod Int) (k int, err error) {
	if mod.IsEven() {
		return 0, errs.New(errs.BadInput, "AlmostInvMod: mod must be odd")
	}
	if a.IsZero() {
		return 0, errs.New(errs.BadInput, "AlmostInvMod: a must be nonzero")
	}
	if Cmp(a, mod) >= 0 {
		return 0, errs.New(errs.BadInput, "AlmostInvMod: a must be < mod")
	}
	n := mod.Hi()
	u := mod.pad(n)
	v := a.pad(n)
	r := New(n)
	s := New(n)
	s.SetWord(1)

	for !v.IsZero() {
		switch {
		case u.IsEven():
			half(u)
			DoubleMod(s, s, mod)
		case v.IsEven():
			half(v)
			DoubleMod(r, r, mod)
		case Cmp(u, v) > 0:
			Sub(u, u, v)
			half(u)
			AddMod(r, r, s, mod)
			DoubleMod(s, s, mod)
		default:
			Sub(v, v, u)
			half(v)
			AddMod(s, s, r, mod)
			DoubleMod(r, r, mod)
		}
		k++
	}
	if !(u.Hi() == 1 && u[0] == 1) {
		return 0, errs.New(errs.BadInput, "AlmostInvMod: a is not invertible mod mod")
	}
	NegMod(out, r, mod)
	return k, nil
}

// InvMod computes c = a⁻¹ mod mod for an odd mod, via AlmostInvMod followed
// by k modular halvings to strip the 2^k factor.
func InvMod(c, a, mod Int) error {
	n := len(mod)
	almost := New(n)
	k, err := AlmostInvMod(almost, a, mod)
	if err != nil {
		return err
	}
	for i := 0; i < k; i++ {
		HalfMod(almost, almost, mod)
	}
	Copy(c, almost)
	return nil
}

// MulMod computes c = (a*b) mod mod using a plain Knuth-D reduction. This is
// the generic, non-ring-specialized multiply-then-reduce used by callers
// (pfok, tests) that have no qr.Ring handy; qr's dispatched rings use the
// faster reduction strategies of reduce.go instead.
func MulMod(c, a, b, mod Int) {
	n := len(mod)
	prod := New(a.Hi() + b.Hi())
	Mul(prod, a[:a.Hi()], b[:b.Hi()])
	r := New(n)
	q := New(prod.Hi() + 1)
	_ = Div(q, r, prod, mod)
	Copy(c, r)
}

// DivMod computes c = (a * b⁻¹) mod mod.
func DivMod(c, a, b, mod Int) error {
	n := len(mod)
	inv := New(n)
	if err := InvMod(inv, b, mod); err != nil {
		return err
	}
	MulMod(c, a, inv, mod)
	return nil
}
