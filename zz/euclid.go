package zz

// This file implements spec.md §4.B's Euclidean algorithms: binary gcd,
// extended gcd, coprimality and lcm. None of these are required to be
// constant-time (spec.md §4.B); they back parameter validation and modular
// inverse setup, not the secret-dependent scalar-multiplication paths.

// Gcd returns gcd(a, b) via the classic binary algorithm: strip a common
// power of two, then repeatedly strip powers of two from each operand and
// replace the larger by the difference.
func Gcd(a, b Int) Int {
	if a.IsZero() {
		return b.Clone()
	}
	if b.IsZero() {
		return a.Clone()
	}
	n := a.Hi()
	if b.Hi() > n {
		n = b.Hi()
	}
	x := New(n)
	y := New(n)
	Copy(x, a)
	Copy(y, b)

	shift := 0
	for x.IsEven() && y.IsEven() {
		half(x)
		half(y)
		shift++
	}
	for !x.IsZero() {
		for x.IsEven() {
			half(x)
		}
		for y.IsEven() {
			half(y)
		}
		if Cmp(x, y) >= 0 {
			Sub(x, x, y)
		} else {
			Sub(y, y, x)
		}
	}
	for i := 0; i < shift; i++ {
		ShiftLeft(y, y, 1)
	}
	return y
}

// IsCoprime reports whether gcd(a, b) == 1.
func IsCoprime(a, b Int) bool {
	g := Gcd(a, b)
	return g.Hi() == 1 && g[0] == 1
}

// Lcm returns lcm(a, b) = a*b/gcd(a,b), or zero if either operand is zero.
func Lcm(a, b Int) Int {
	if a.IsZero() || b.IsZero() {
		return New(1)
	}
	g := Gcd(a, b)
	q := New(a.Hi() + 1)
	r := New(g.Hi())
	_ = Div(q, r, a, g)
	prod := New(q.Hi() + b.Hi())
	Mul(prod, q[:q.Hi()], b)
	return prod
}

func half(x Int) { ShiftRight(x, x, 1) }

// sbig is a minimal sign+magnitude integer used only to bookkeep the
// Bézout coefficients of ExtGcd, which are naturally signed even though Int
// itself is nonnegative-only. Its four operations (add, sub, mul, by a
// nonnegative multi-word quotient) are implemented directly on top of the
// unsigned primitives above.
type sbig struct {
	neg bool
	mag Int
}

func sbigFromWord(w Word) sbig { return sbig{mag: Int{w}} }

func sbigAdd(a, b sbig) sbig {
	n := a.mag.Hi()
	if b.mag.Hi() > n {
		n = b.mag.Hi()
	}
	n++
	out := New(n)
	switch {
	case a.neg == b.neg:
		Add(out, a.mag, b.mag)
		return sbig{neg: a.neg && !out.IsZero(), mag: out}
	case Cmp(a.mag, b.mag) >= 0:
		Sub(out, a.mag, b.mag)
		return sbig{neg: a.neg && !out.IsZero(), mag: out}
	default:
		Sub(out, b.mag, a.mag)
		return sbig{neg: b.neg && !out.IsZero(), mag: out}
	}
}

func sbigNeg(a sbig) sbig {
	if a.mag.IsZero() {
		return a
	}
	return sbig{neg: !a.neg, mag: a.mag}
}

func sbigSub(a, b sbig) sbig { return sbigAdd(a, sbigNeg(b)) }

// sbigMulW multiplies the signed value a by the nonnegative multi-word value
// q (q.neg is ignored: the sign of q is folded in by the caller, since every
// call site here multiplies by a quotient taken from unsigned Div).
func sbigMulW(a sbig, q Int) sbig {
	if a.mag.IsZero() || q.IsZero() {
		return sbig{}
	}
	out := New(a.mag.Hi() + q.Hi())
	Mul(out, a.mag[:a.mag.Hi()], q[:q.Hi()])
	return sbig{neg: a.neg, mag: out}
}

// ExtGcd returns d = gcd(a, b) together with da and db, the nonnegative
// representatives of the Bézout coefficients reduced into their natural
// ranges: da in [0, b) satisfies a*da ≡ d (mod b), and db in [0, a)
// satisfies b*db ≡ d (mod a). It is computed via the textbook
// division-based extended Euclidean algorithm, carried out with signed
// Bézout coefficients (d = s0*a + t0*b) and folded down via reduceSigned at
// the end, since the raw s0, t0 alternate in sign and cannot be presented
// as a single nonnegative pair without that final reduction.
func ExtGcd(a, b Int) (d, da, db Int) {
	r0, r1 := a.Clone(), b.Clone()
	s0, s1 := sbigFromWord(1), sbig{}
	t0, t1 := sbig{}, sbigFromWord(1)

	for !r1.IsZero() {
		qn := r0.Hi() - r1.Hi() + 1
		if qn < 1 {
			qn = 1
		}
		q := New(qn)
		rem := New(r1.Hi())
		_ = Div(q, rem, r0, r1)

		qs1 := sbigMulW(s1, q)
		newS := sbigSub(s0, qs1)
		qt1 := sbigMulW(t1, q)
		newT := sbigSub(t0, qt1)

		r0, r1 = r1, rem
		s0, s1 = s1, newS
		t0, t1 = t1, newT
	}

	d = r0
	da = reduceSigned(s0, b)
	db = reduceSigned(t0, a)
	return d, da, db
}

// reduceSigned reduces the signed value s modulo m, returning the
// nonnegative representative in [0, m). m == 0 returns 0.
func reduceSigned(s sbig, m Int) Int {
	if m.IsZero() {
		return New(1)
	}
	n := m.Hi()
	rem := New(n)
	if !s.mag.IsZero() {
		q := New(s.mag.Hi() + 1)
		_ = Div(q, rem, s.mag, m)
	}
	if s.neg && !rem.IsZero() {
		out := New(n)
		Sub(out, m, rem)
		return out
	}
	return rem
}

// pad returns a copy of a zero-extended (or truncated) to n words.
func (a Int) pad(n int) Int {
	c := New(n)
	Copy(c, a)
	return c
}

// Resize returns a copy of a zero-extended (or truncated) to n words. It is
// the exported form of pad, for callers outside this package (qr, ecp) that
// need to normalize a value to a ring's fixed element width.
func Resize(a Int, n int) Int { return a.pad(n) }
