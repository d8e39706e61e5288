package word

import "testing"

func TestPopCountMatchesFast(t *testing.T) {
	cases := []W{0, 1, 2, 0xFF, 0xAAAAAAAAAAAAAAAA, ^W(0)}
	for _, w := range cases {
		if got, want := PopCount(w), PopCountFast(w); got != want {
			t.Fatalf("PopCount(%x) = %d, want %d", w, got, want)
		}
	}
}

func TestParity(t *testing.T) {
	if Parity(0) != 0 {
		t.Fatal("parity(0) should be 0")
	}
	if Parity(1) != 1 {
		t.Fatal("parity(1) should be 1")
	}
	if Parity(3) != 0 {
		t.Fatal("parity(3) should be 0")
	}
}

func TestIsZeroAndEq(t *testing.T) {
	if IsZero(0) != 1 {
		t.Fatal("IsZero(0) should be 1")
	}
	if IsZero(5) != 0 {
		t.Fatal("IsZero(5) should be 0")
	}
	if Eq(7, 7) != 1 || Eq(7, 8) != 0 {
		t.Fatal("Eq mismatch")
	}
}

func TestSelectAndMask(t *testing.T) {
	if Select(Mask(1), 10, 20) != 10 {
		t.Fatal("Select(true) should return a")
	}
	if Select(Mask(0), 10, 20) != 20 {
		t.Fatal("Select(false) should return b")
	}
}

func TestBitLen(t *testing.T) {
	if BitLen(0) != 0 {
		t.Fatal("BitLen(0) should be 0")
	}
	if BitLen(1) != 1 {
		t.Fatal("BitLen(1) should be 1")
	}
	if BitLen(0x80) != 8 {
		t.Fatal("BitLen(0x80) should be 8")
	}
}
