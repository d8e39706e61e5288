// Package qr implements the quotient-ring abstraction of spec.md §4.C: a
// descriptor binding a modulus to the reduction strategy (from zz.Reducer)
// best suited to its shape, exposed as a small uniform ring-arithmetic API
// (Add/Sub/Neg/Mul/Sqr/Inv/Div) so that ecp and bign never need to know
// whether a given field is reduced by Crandall folding, Barrett's algorithm,
// or Montgomery multiplication.
//
// This mirrors the way internal/kfield.Field bundles a modulus-shaped
// descriptor with Zero/One/Add/Mul/Inv methods, generalized from a fixed
// small extension field to an arbitrary-width prime (or odd/even composite)
// modulus dispatched across zz's four reduction strategies.
package qr

import (
	"stb34101/errs"
	"stb34101/zz"
)

// Ring is a quotient ring Z/modZ (or a finite field when mod is prime),
// bound to the reduction strategy zmCreate selected for mod's shape.
type Ring struct {
	mod     zz.Int
	n       int // word length of an element
	reducer *zz.Reducer
}

// Create builds a Ring for mod, auto-selecting a reduction strategy
// (spec.md §4.C's zmCreate): Crandall when mod has the B^n-c shape, else
// Montgomery when mod is odd, else Barrett as the general fallback.
func Create(mod zz.Int) (*Ring, error) {
	n := mod.Hi()
	if n == 0 {
		return nil, errs.New(errs.BadParams, "qr.Create: modulus must be nonzero")
	}
	tight := mod.Clone()[:n]

	if c, ok := crandallShape(tight, n); ok {
		red, err := zz.NewCrandallReducer(tight, c)
		if err == nil {
			return &Ring{mod: tight, n: n, reducer: red}, nil
		}
	}
	if tight.IsOdd() {
		red, err := zz.NewMontgomeryReducer(tight)
		if err != nil {
			return nil, errs.Wrap(errs.BadParams, err, "qr.Create: montgomery setup failed")
		}
		return &Ring{mod: tight, n: n, reducer: red}, nil
	}
	return &Ring{mod: tight, n: n, reducer: zz.NewBarrettReducer(tight)}, nil
}

// CreatePlain builds a Ring that always reduces by full division, bypassing
// auto-selection. Used for small or one-off moduli where precomputation
// would cost more than it saves.
func CreatePlain(mod zz.Int) *Ring {
	n := mod.Hi()
	tight := mod.Clone()[:n]
	return &Ring{mod: tight, n: n, reducer: zz.NewPlainReducer(tight)}
}

// crandallShape reports whether mod == B^n - c for some single-word c,
// returning c when true.
func crandallShape(mod zz.Int, n int) (zz.Word, bool) {
	universe := zz.New(n + 1)
	universe[n] = 1
	c := zz.New(n + 1)
	zz.Sub(c, universe, mod)
	if c.Hi() > 1 {
		return 0, false
	}
	var w zz.Word
	if len(c) > 0 {
		w = c[0]
	}
	return w, true
}

// N returns the element word length (the ring's "keep" advertisement: every
// element this Ring produces or accepts occupies exactly N words).
func (r *Ring) N() int { return r.n }

// Deep returns the scratch word length an Add/Sub/Mul/Sqr call needs beyond
// its output (spec.md §3's "deep" scratch advertisement): a double-width
// product buffer.
func (r *Ring) Deep() int { return 2 * r.n }

// Mod returns the ring's modulus (read-only; callers must not mutate it).
func (r *Ring) Mod() zz.Int { return r.mod }

// Kind reports which reduction strategy this Ring dispatches to.
func (r *Ring) Kind() zz.ReductionKind { return r.reducer.Kind }

func (r *Ring) Zero() zz.Int { return zz.New(r.n) }

func (r *Ring) One() zz.Int {
	e := zz.New(r.n)
	e.SetWord(1)
	return e
}

func (r *Ring) IsZero(a zz.Int) bool { return a.IsZero() }

func (r *Ring) Eq(a, b zz.Int) bool { return zz.Cmp(a, b) == 0 }

func (r *Ring) Add(c, a, b zz.Int) { zz.AddMod(c, a, b, r.mod) }

func (r *Ring) Sub(c, a, b zz.Int) { zz.SubMod(c, a, b, r.mod) }

func (r *Ring) Neg(c, a zz.Int) { zz.NegMod(c, a, r.mod) }

func (r *Ring) Double(c, a zz.Int) { zz.DoubleMod(c, a, r.mod) }

func (r *Ring) Half(c, a zz.Int) { zz.HalfMod(c, a, r.mod) }

// Mul computes c = (a*b) mod r.Mod(). A 4-word Ring always goes through
// mulMod256, whatever its strategy; other widths dispatch to the selected
// reduction strategy. For a Montgomery-strategy Ring, a and b are taken (and c
// returned) in plain domain: the Montgomery round trip happens internally so
// callers never observe the Montgomery representation.
func (r *Ring) Mul(c, a, b zz.Int) {
	n := r.n
	if n == fast256Words {
		mulMod256(c, a, b, r.mod)
		return
	}
	switch r.reducer.Kind {
	case zz.ReduceMontgomery:
		am := zz.New(n)
		bm := zz.New(n)
		r.reducer.ToMont(am, a)
		r.reducer.ToMont(bm, b)
		pm := zz.New(n)
		r.reducer.MontMul(pm, am, bm)
		r.reducer.FromMont(c, pm)
	default:
		prod := zz.New(2 * n)
		zz.Mul(prod, a[:n], b[:n])
		_ = r.reducer.Reduce(c, prod)
	}
}

func (r *Ring) Sqr(c, a zz.Int) { r.Mul(c, a, a) }

// Inv computes c = a^-1 mod r.Mod(). r.Mod() must be odd (the Kaliski
// almost-inverse algorithm zz.InvMod uses requires it); even moduli return
// errs.BadParams.
func (r *Ring) Inv(c, a zz.Int) error {
	if r.mod.IsEven() {
		return errs.New(errs.BadParams, "qr.Ring.Inv: modulus must be odd")
	}
	return zz.InvMod(c, a, r.mod)
}

// Div computes c = (a * b^-1) mod r.Mod().
func (r *Ring) Div(c, a, b zz.Int) error {
	inv := zz.New(r.n)
	if err := r.Inv(inv, b); err != nil {
		return err
	}
	r.Mul(c, a, inv)
	return nil
}

// Exp computes c = a^e mod r.Mod() via the ring's own modulus, independent
// of the selected reduction strategy (used for parameter validation, not a
// hot scalar-multiplication path).
func (r *Ring) Exp(c, a, e zz.Int) { zz.ExpMod(c, a, e, r.mod) }
