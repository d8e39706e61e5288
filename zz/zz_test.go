package zz

import (
	"math/big"
	"testing"

	"stb34101/rng"
)

func TestAddSubRoundTrip(t *testing.T) {
	a := Int{0xFFFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFF}
	b := Int{1, 0}
	c := New(2)
	carry := Add(c, a, b)
	if carry != 1 {
		t.Fatalf("carry = %d, want 1", carry)
	}
	if !c.IsZero() {
		t.Fatal("a+b did not wrap to zero")
	}

	back := New(2)
	Sub(back, a, a)
	if !back.IsZero() {
		t.Fatal("a-a is not zero")
	}
}

func TestMulSqrAgree(t *testing.T) {
	a := Int{123456789, 987654321}
	prod := New(4)
	Mul(prod, a, a)
	sqr := New(4)
	Sqr(sqr, a)
	if Cmp(prod, sqr) != 0 {
		t.Fatal("Mul(a,a) disagrees with Sqr(a)")
	}
}

func TestDivRecoversDividend(t *testing.T) {
	a := Int{0x1122334455667788, 0x99AABBCCDDEEFF00, 0x42}
	b := Int{0xFEDCBA9876543210, 0x1}
	q := New(3)
	r := New(2)
	if err := Div(q, r, a, b); err != nil {
		t.Fatalf("Div: %v", err)
	}

	prod := New(a.Hi() + 1)
	Mul(prod, q[:q.Hi()], b[:b.Hi()])
	back := New(3)
	Add(back, prod, r)
	if Cmp(a, back) != 0 {
		t.Fatal("q*b+r != a")
	}
	if Cmp(r, b) != -1 {
		t.Fatal("remainder is not smaller than the divisor")
	}
}

func TestDivBySingleWord(t *testing.T) {
	a := Int{0xFFFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFF}
	b := Int{7}
	q := New(2)
	r := New(1)
	if err := Div(q, r, a, b); err != nil {
		t.Fatalf("Div: %v", err)
	}

	prod := New(3)
	Mul(prod, q, b)
	back := New(2)
	Add(back, prod, r)
	if Cmp(a, back) != 0 {
		t.Fatal("q*b+r != a")
	}
}

func TestDivByZeroErrors(t *testing.T) {
	a := Int{1}
	b := Int{0}
	q := New(1)
	r := New(1)
	if err := Div(q, r, a, b); err == nil {
		t.Fatal("expected Div to reject a zero divisor")
	}
}

func TestGcdKnownValues(t *testing.T) {
	a := Int{48}
	b := Int{18}
	g := Gcd(a, b)
	if g[0] != 6 {
		t.Fatalf("gcd(48,18) = %d, want 6", g[0])
	}
	if !IsCoprime(Int{35}, Int{12}) {
		t.Fatal("35 and 12 should be coprime")
	}
	if IsCoprime(Int{35}, Int{14}) {
		t.Fatal("35 and 14 share a factor of 7")
	}
}

func TestExtGcdCongruences(t *testing.T) {
	a := Int{240}
	b := Int{46}
	d, da, db := ExtGcd(a, b)
	if d[0] != 2 {
		t.Fatalf("gcd(240,46) = %d, want 2", d[0])
	}
	if Cmp(da, b) != -1 {
		t.Fatal("da is not smaller than b")
	}
	if Cmp(db, a) != -1 {
		t.Fatal("db is not smaller than a")
	}

	// a*da mod b == d
	lhs := New(da.Hi() + a.Hi())
	Mul(lhs, da[:da.Hi()], a)
	rem := New(1)
	if err := Mod(rem, lhs, b); err != nil {
		t.Fatalf("Mod: %v", err)
	}
	if Cmp(rem, d) != 0 {
		t.Fatal("a*da mod b != gcd")
	}

	// b*db mod a == d
	rhs := New(db.Hi() + b.Hi())
	Mul(rhs, db[:db.Hi()], b)
	rem2 := New(1)
	if err := Mod(rem2, rhs, a); err != nil {
		t.Fatalf("Mod: %v", err)
	}
	if Cmp(rem2, d) != 0 {
		t.Fatal("b*db mod a != gcd")
	}
}

func TestAddModSubModRoundTrip(t *testing.T) {
	mod := Int{251} // prime
	a := Int{200}
	b := Int{100}
	sum := New(1)
	AddMod(sum, a, b, mod)
	if sum[0] != (200+100)%251 {
		t.Fatalf("sum[0] = %d, want %d", sum[0], (200+100)%251)
	}

	back := New(1)
	SubMod(back, sum, b, mod)
	if back[0] != 200 {
		t.Fatalf("back[0] = %d, want 200", back[0])
	}
}

func TestNegModAndHalfMod(t *testing.T) {
	mod := Int{251}
	a := Int{10}
	neg := New(1)
	NegMod(neg, a, mod)
	if neg[0] != 241 {
		t.Fatalf("neg[0] = %d, want 241", neg[0])
	}

	zero := New(1)
	NegMod(zero, Int{0}, mod)
	if !zero.IsZero() {
		t.Fatal("NegMod(0) should be zero")
	}

	half := New(1)
	HalfMod(half, Int{10}, mod)
	if half[0] != 5 {
		t.Fatalf("half[0] = %d, want 5", half[0])
	}

	halfOdd := New(1)
	HalfMod(halfOdd, Int{11}, mod)
	// (11+251)/2 = 131
	if halfOdd[0] != 131 {
		t.Fatalf("halfOdd[0] = %d, want 131", halfOdd[0])
	}
}

func TestInvModAgreesWithDivMod(t *testing.T) {
	mod := Int{251}
	a := Int{17}
	inv := New(1)
	if err := InvMod(inv, a, mod); err != nil {
		t.Fatalf("InvMod: %v", err)
	}

	check := New(1)
	MulMod(check, a, inv, mod)
	if check[0] != 1 {
		t.Fatalf("a*inv mod m = %d, want 1", check[0])
	}
}

func TestExpModSmall(t *testing.T) {
	mod := Int{251}
	base := Int{5}
	exp := Int{10}
	out := New(1)
	ExpMod(out, base, exp, mod)

	want := New(1)
	want.SetWord(1)
	for i := 0; i < 10; i++ {
		tmp := New(1)
		MulMod(tmp, want, base, mod)
		Copy(want, tmp)
	}
	if Cmp(out, want) != 0 {
		t.Fatal("ExpMod disagrees with repeated MulMod")
	}
}

func TestPlainReducerMatchesMod(t *testing.T) {
	mod := Int{0xFFFFFFFFFFFFFFC5} // close to 2^64
	x := Int{0x1122334455667788, 0x99AABBCCDDEEFF00}
	r := NewPlainReducer(mod)
	out := New(1)
	if err := r.Reduce(out, x); err != nil {
		t.Fatalf("Reduce: %v", err)
	}

	want := New(1)
	if err := Mod(want, x, mod); err != nil {
		t.Fatalf("Mod: %v", err)
	}
	if Cmp(out, want) != 0 {
		t.Fatal("plain reducer disagrees with Mod")
	}
}

func TestBarrettReducerMatchesMod(t *testing.T) {
	mod := Int{0xFFFFFFFFFFFFFFC5}
	x := Int{0x1122334455667788, 0x99AABBCCDDEEFF00}
	r := NewBarrettReducer(mod)
	out := New(1)
	if err := r.Reduce(out, x); err != nil {
		t.Fatalf("Reduce: %v", err)
	}

	want := New(1)
	if err := Mod(want, x, mod); err != nil {
		t.Fatalf("Mod: %v", err)
	}
	if Cmp(out, want) != 0 {
		t.Fatal("Barrett reducer disagrees with Mod")
	}
}

func TestMontgomeryRoundTrip(t *testing.T) {
	mod := Int{0xFFFFFFFFFFFFFFC5} // 2^64 - 59, prime
	r, err := NewMontgomeryReducer(mod)
	if err != nil {
		t.Fatalf("NewMontgomeryReducer: %v", err)
	}

	a := Int{12345}
	mont := New(1)
	r.ToMont(mont, a)
	back := New(1)
	r.FromMont(back, mont)
	if Cmp(a, back) != 0 {
		t.Fatal("ToMont/FromMont round trip changed the value")
	}
}

func TestMontMulMatchesMulMod(t *testing.T) {
	mod := Int{0xFFFFFFFFFFFFFFC5}
	r, err := NewMontgomeryReducer(mod)
	if err != nil {
		t.Fatalf("NewMontgomeryReducer: %v", err)
	}

	a := Int{111}
	b := Int{222}
	wantN := New(1)
	MulMod(wantN, a, b, mod)

	aMont := New(1)
	bMont := New(1)
	r.ToMont(aMont, a)
	r.ToMont(bMont, b)
	prodMont := New(1)
	r.MontMul(prodMont, aMont, bMont)
	got := New(1)
	r.FromMont(got, prodMont)

	if Cmp(got, wantN) != 0 {
		t.Fatal("Montgomery multiplication disagrees with MulMod")
	}
}

// TestExtGcdAgreesWithMathBigOnRandomInputs cross-checks ExtGcd's gcd
// output against math/big's reference GCD across random operands, the
// same cross-checking discipline bign-adjacent NTRU tooling in the
// example pack used for its own extended-gcd routine.
func TestExtGcdAgreesWithMathBigOnRandomInputs(t *testing.T) {
	for i := 0; i < 64; i++ {
		buf := make([]byte, 24)
		if err := rng.System.Read(buf); err != nil {
			t.Fatalf("rng.System.Read: %v", err)
		}
		a := Resize(FromOctets(buf[:12]), 2)
		b := Resize(FromOctets(buf[12:]), 2)
		if a.IsZero() || b.IsZero() {
			continue
		}

		d, _, _ := ExtGcd(a, b)

		bigA := new(big.Int).SetBytes(reverseBytes(ToOctets(a, len(a)*8)))
		bigB := new(big.Int).SetBytes(reverseBytes(ToOctets(b, len(b)*8)))
		wantD := new(big.Int).GCD(nil, nil, bigA, bigB)

		gotD := new(big.Int).SetBytes(reverseBytes(ToOctets(d, len(d)*8)))
		if wantD.Cmp(gotD) != 0 {
			t.Fatalf("gcd mismatch for a=%s b=%s", bigA, bigB)
		}
	}
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
