package qr

import (
	"testing"

	"stb34101/zz"
)

func TestCreateSelectsMontgomeryForGenericOddModulus(t *testing.T) {
	// A 192-bit odd modulus with no special shape.
	mod := zz.Int{0x1122334455667789, 0x99AABBCCDDEEFF00, 0x42}
	r, err := Create(mod)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.Kind() != zz.ReduceMontgomery {
		t.Fatalf("Kind() = %v, want ReduceMontgomery", r.Kind())
	}
}

func TestCreateSelectsCrandallForSpecialShape(t *testing.T) {
	mod := zz.Int{0xFFFFFFFFFFFFFFC5} // 2^64 - 59
	r, err := Create(mod)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.Kind() != zz.ReduceCrandall {
		t.Fatalf("Kind() = %v, want ReduceCrandall", r.Kind())
	}
}

func TestRingArithmeticAxioms(t *testing.T) {
	mod := zz.Int{0xFFFFFFFFFFFFFFC5}
	r, err := Create(mod)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	a := zz.Int{123456789}
	b := zz.Int{987654321}

	sum := r.Zero()
	r.Add(sum, a, b)
	back := r.Zero()
	r.Sub(back, sum, b)
	if !r.Eq(back, a) {
		t.Fatal("(a+b)-b != a")
	}

	prod := r.Zero()
	r.Mul(prod, a, b)
	inv := r.Zero()
	if err := r.Inv(inv, b); err != nil {
		t.Fatalf("Inv: %v", err)
	}
	recovered := r.Zero()
	r.Mul(recovered, prod, inv)
	if !r.Eq(recovered, a) {
		t.Fatal("(a*b)*b^-1 != a")
	}

	quot := r.Zero()
	if err := r.Div(quot, prod, b); err != nil {
		t.Fatalf("Div: %v", err)
	}
	if !r.Eq(quot, a) {
		t.Fatal("(a*b)/b != a")
	}
}

func TestRingDoubleHalfRoundTrip(t *testing.T) {
	mod := zz.Int{0xFFFFFFFFFFFFFFC5}
	r, err := Create(mod)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	a := zz.Int{4242}
	doubled := r.Zero()
	r.Double(doubled, a)
	halved := r.Zero()
	r.Half(halved, doubled)
	if !r.Eq(halved, a) {
		t.Fatal("half(double(a)) != a")
	}
}

func TestPlainRingMatchesSelected(t *testing.T) {
	mod := zz.Int{0xFFFFFFFFFFFFFFC5}
	sel, err := Create(mod)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	plain := CreatePlain(mod)

	a := zz.Int{111}
	b := zz.Int{222}

	wantProd := sel.Zero()
	sel.Mul(wantProd, a, b)
	gotProd := plain.Zero()
	plain.Mul(gotProd, a, b)
	if !sel.Eq(wantProd, gotProd) {
		t.Fatal("plain reducer disagrees with the auto-selected one")
	}
}
