package zz

import "stb34101/errs"

// ReductionKind names one of the four reduction strategies a qr.Ring may
// dispatch to, chosen by zmCreate's auto-selection logic based on the
// modulus's shape and width (spec.md §4.B/§4.C).
type ReductionKind int

const (
	ReducePlain ReductionKind = iota
	ReduceCrandall
	ReduceBarrett
	ReduceMontgomery
)

func (k ReductionKind) String() string {
	switch k {
	case ReducePlain:
		return "plain"
	case ReduceCrandall:
		return "crandall"
	case ReduceBarrett:
		return "barrett"
	case ReduceMontgomery:
		return "montgomery"
	default:
		return "unknown"
	}
}

// Reducer bundles a modulus with the precomputed parameters one of the four
// reduction strategies needs, and the operations to reduce a double-width
// product down to n = len(Mod) words.
type Reducer struct {
	Kind ReductionKind
	Mod  Int
	N    int

	// Crandall: Mod == B^N - C, C a single word.
	C Word

	// Barrett: Mu == floor(B^(2N) / Mod), N+1 words.
	Mu Int

	// Montgomery: M0Inv == -Mod[0]^-1 mod B, R2 == (B^N)^2 mod Mod.
	M0Inv Word
	R2    Int
}

// NewPlainReducer builds a Reducer with no precomputation: every reduction
// falls through to a full Knuth-D division.
func NewPlainReducer(mod Int) *Reducer {
	return &Reducer{Kind: ReducePlain, Mod: mod.pad(mod.Hi()), N: mod.Hi()}
}

// NewCrandallReducer builds a Reducer for a modulus of the special form
// B^n - c with c a single word, verifying the shape at construction time.
func NewCrandallReducer(mod Int, c Word) (*Reducer, error) {
	n := mod.Hi()
	check := New(n)
	check.SetWord(c)
	Neg(check, check) // check = B^n - c, as an n-word two's complement
	if Cmp(check, mod) != 0 {
		return nil, errs.New(errs.BadParams, "zz.NewCrandallReducer: mod is not B^n - c")
	}
	return &Reducer{Kind: ReduceCrandall, Mod: mod.pad(n), N: n, C: c}, nil
}

// NewBarrettReducer builds a Reducer precomputing Mu = floor(B^(2n)/mod).
func NewBarrettReducer(mod Int) *Reducer {
	n := mod.Hi()
	num := New(2*n + 1)
	num[2*n] = 1
	mu := New(n + 2)
	rem := New(n)
	_ = Div(mu, rem, num, mod)
	return &Reducer{Kind: ReduceBarrett, Mod: mod.pad(n), N: n, Mu: mu}
}

// NewMontgomeryReducer builds a Reducer for an odd modulus, precomputing
// M0Inv = -mod[0]^-1 mod B (via a Newton-Raphson word inverse) and
// R2 = (B^n)^2 mod mod.
func NewMontgomeryReducer(mod Int) (*Reducer, error) {
	if mod.IsEven() {
		return nil, errs.New(errs.BadParams, "zz.NewMontgomeryReducer: mod must be odd")
	}
	n := mod.Hi()
	inv := invWord(mod[0])
	m0inv := -inv // -mod[0]^-1 mod B, via uint64 wraparound

	num := New(2*n + 1)
	num[2*n] = 1
	r2 := New(n)
	rem := New(n)
	_ = Div(New(n+2), rem, num, mod.pad(n))
	Copy(r2, rem)

	return &Reducer{Kind: ReduceMontgomery, Mod: mod.pad(n), N: n, M0Inv: m0inv, R2: r2}, nil
}

// invWord returns w^-1 mod 2^64 for odd w, via Newton-Raphson iteration
// (each pass doubles the number of correct bits, starting from the single
// correct bit every odd word has).
func invWord(w Word) Word {
	x := w
	for i := 0; i < 6; i++ {
		x = x * (2 - w*x)
	}
	return x
}

// Reduce computes out = x mod r.Mod for x of length up to 2*r.N, dispatching
// on r.Kind. out must have length r.N.
func (r *Reducer) Reduce(out Int, x Int) error {
	switch r.Kind {
	case ReducePlain:
		return Mod(out, x, r.Mod)
	case ReduceCrandall:
		return r.reduceCrandall(out, x)
	case ReduceBarrett:
		return r.reduceBarrett(out, x)
	case ReduceMontgomery:
		// x is not assumed to be a Montgomery-domain value; a generic
		// Reduce request falls back to plain division.
		return Mod(out, x, r.Mod)
	default:
		return errs.New(errs.BadLogic, "zz.Reducer.Reduce: unknown kind")
	}
}

// reduceCrandall folds x = hi*B^n + lo into lo + hi*C repeatedly until the
// value fits comfortably within a couple of words of Mod, then finishes with
// an exact division (cheap, since what remains is small).
func (r *Reducer) reduceCrandall(out Int, x Int) error {
	n := r.N
	cur := x.Clone()
	for cur.Hi() > n+1 {
		hiLen := cur.Hi() - n
		hi := New(hiLen)
		Copy(hi, cur[n:])
		lo := New(n)
		Copy(lo, cur[:n])

		prod := New(hiLen + 1)
		ov := MulW(prod[:hiLen], hi, r.C)
		prod[hiLen] = ov

		next := New(maxInt(n, hiLen+1) + 1)
		carry := Add(next[:n], lo, prod)
		if len(next) > n {
			AddW(next[n:], next[n:], carry)
			if hiLen+1 > n {
				Add(next[n:], next[n:], prod[n:])
			}
		}
		cur = next
	}
	return Mod(out, cur, r.Mod)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// reduceBarrett implements the standard Barrett reduction: x mod Mod for
// x of length up to 2n, using the precomputed Mu = floor(B^(2n)/Mod).
func (r *Reducer) reduceBarrett(out Int, x Int) error {
	n := r.N
	xp := x.pad(2 * n)
	muLen := len(r.Mu)

	q1 := New(n + 1)
	Copy(q1, xp[n-1:2*n])

	q2 := New((n + 1) + muLen)
	Mul(q2, q1, r.Mu)

	q3Len := len(q2) - (n + 1)
	if q3Len < 0 {
		q3Len = 0
	}
	q3 := New(q3Len)
	if q3Len > 0 {
		Copy(q3, q2[n+1:])
	}

	r1 := New(n + 1)
	Copy(r1, xp[:n+1])

	r2Full := New(len(q3) + n)
	Mul(r2Full, q3, r.Mod.pad(n))
	r2 := New(n + 1)
	Copy(r2, r2Full[:n+1])

	res := New(n + 1)
	borrow := Sub(res, r1, r2)
	if borrow != 0 {
		wrap := New(n + 2)
		wrap[n+1] = 1
		Add(res, res, wrap[:n+1])
	}

	for Cmp(res[:n], r.Mod) >= 0 || res.Hi() > n {
		Sub(res, res, r.Mod.pad(n+1))
	}
	Copy(out, res[:n])
	return nil
}

// MontMul computes out = a*b*R^-1 mod Mod for a Montgomery-strategy
// Reducer, where R = B^N. a and b are ordinary n-word values (Montgomery or
// plain domain is the caller's convention; MontMul itself is domain-agnostic
// REDC-of-a-product).
func (r *Reducer) MontMul(out, a, b Int) {
	n := r.N
	prod := New(2 * n)
	Mul(prod, a[:n], b[:n])
	r.redc(out, prod)
}

// redc implements textbook Montgomery reduction of a 2n-word value t,
// producing t*R^-1 mod Mod.
func (r *Reducer) redc(out Int, t Int) {
	n := r.N
	cur := New(2*n + 1)
	Copy(cur, t)
	for i := 0; i < n; i++ {
		m := cur[i] * r.M0Inv
		carry := AddMulW(cur[i:i+n], r.Mod[:n], m)
		j := i + n
		for carry != 0 {
			sum := cur[j] + carry
			if sum < cur[j] {
				carry = 1
			} else {
				carry = 0
			}
			cur[j] = sum
			j++
		}
	}
	result := New(n)
	Copy(result, cur[n:2*n+1])
	if cur[2*n] != 0 || Cmp(result, r.Mod) >= 0 {
		Sub(result, result, r.Mod)
	}
	Copy(out, result)
}

// ToMont converts a from plain to Montgomery domain: out = a*R mod Mod.
func (r *Reducer) ToMont(out, a Int) { r.MontMul(out, a, r.R2) }

// FromMont converts a from Montgomery to plain domain: out = a*R^-1 mod Mod.
func (r *Reducer) FromMont(out, a Int) {
	n := r.N
	padded := New(2 * n)
	Copy(padded, a)
	r.redc(out, padded)
}
