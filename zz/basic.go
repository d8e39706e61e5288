package zz

import (
	"math/bits"
)

// Add computes c = a + b mod B^n plus a returned carry bit, where n =
// len(c) (a, b, c need not share length; shorter operands are treated as
// zero-extended). c may alias a or b.
func Add(c, a, b Int) Word {
	var carry uint64
	n := len(c)
	for i := 0; i < n; i++ {
		var av, bv uint64
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		var sum uint64
		sum, carry = bits.Add64(av, bv, carry)
		c[i] = sum
	}
	return Word(carry)
}

// AddW computes c = a + w mod B^n plus a returned carry bit.
func AddW(c, a Int, w Word) Word {
	carry := uint64(w)
	n := len(c)
	for i := 0; i < n; i++ {
		var av uint64
		if i < len(a) {
			av = a[i]
		}
		var sum uint64
		sum, carry = bits.Add64(av, 0, carry)
		c[i] = sum
	}
	return Word(carry)
}

// Sub computes c = a - b mod B^n plus a returned borrow bit (1 iff a < b as
// n-word values). c may alias a or b.
func Sub(c, a, b Int) Word {
	var borrow uint64
	n := len(c)
	for i := 0; i < n; i++ {
		var av, bv uint64
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		var diff uint64
		diff, borrow = bits.Sub64(av, bv, borrow)
		c[i] = diff
	}
	return Word(borrow)
}

// SubW computes c = a - w mod B^n plus a returned borrow bit.
func SubW(c, a Int, w Word) Word {
	borrow := uint64(w)
	n := len(c)
	for i := 0; i < n; i++ {
		var av uint64
		if i < len(a) {
			av = a[i]
		}
		var diff uint64
		diff, borrow = bits.Sub64(av, 0, borrow)
		c[i] = diff
	}
	return Word(borrow)
}

// Neg computes c = (-a) mod B^n, i.e. the n-word two's complement of a, and
// returns 1 iff a was nonzero (so callers can distinguish Neg(0) == 0 from a
// genuine wraparound).
func Neg(c, a Int) Word {
	n := len(c)
	zero := New(n)
	return Sub(c, zero, a)
}

// MulW computes c = a*w truncated to B^len(a) (c must have length len(a))
// and returns the overflow word.
func MulW(c, a Int, w Word) Word {
	var carry uint64
	for i := range a {
		hi, lo := bits.Mul64(uint64(a[i]), uint64(w))
		var sum uint64
		var cc uint64
		sum, cc = bits.Add64(lo, carry, 0)
		c[i] = sum
		carry = hi + cc
	}
	return Word(carry)
}

// AddMulW computes c += a*w (c and a have the same length n) and returns the
// carry word propagated out of position n-1.
func AddMulW(c, a Int, w Word) Word {
	var carry uint64
	for i := range a {
		hi, lo := bits.Mul64(uint64(a[i]), uint64(w))
		var cc1, cc2 uint64
		lo, cc1 = bits.Add64(lo, carry, 0)
		c[i], cc2 = bits.Add64(c[i], lo, 0)
		carry = hi + cc1 + cc2
	}
	return Word(carry)
}

// SubMulW computes c -= a*w (c and a have the same length n) and returns the
// borrow word propagated out of position n-1 (the "may under-run by one"
// case spec.md's division algorithm repairs with an add-back).
func SubMulW(c, a Int, w Word) Word {
	var borrow uint64
	for i := range a {
		hi, lo := bits.Mul64(uint64(a[i]), uint64(w))
		var cc1, cc2 uint64
		lo, cc1 = bits.Add64(lo, borrow, 0)
		c[i], cc2 = bits.Sub64(c[i], lo, 0)
		borrow = hi + cc1 + cc2
	}
	return Word(borrow)
}

// Mul computes c = a*b with len(c) == len(a)+len(b). c must not alias a or
// b.
func Mul(c, a, b Int) {
	for i := range c {
		c[i] = 0
	}
	for j, bj := range b {
		if bj == 0 {
			continue
		}
		carry := AddMulW(c[j:j+len(a)], a, bj)
		c[j+len(a)] += carry
	}
}

// Sqr computes c = a*a with len(c) == 2*len(a), using the doubling trick
// (cross products computed once and doubled, diagonal terms added once) so
// that squaring costs roughly half of a general Mul. It performs the same
// operations regardless of a's word values: no branch is taken on whether a
// word is zero, matching spec.md's "must not leak by skipping on zeros".
func Sqr(c, a Int) {
	n := len(a)
	for i := range c {
		c[i] = 0
	}
	// Cross terms a[i]*a[j], i<j, accumulated once then doubled.
	for i := 0; i < n; i++ {
		if i+1 >= n {
			continue
		}
		carry := AddMulW(c[2*i+1:i+n+1], a[i+1:n], a[i])
		c[i+n] += carry
	}
	// Double the cross-term accumulation.
	dcarry := Word(0)
	for i := 0; i < len(c); i++ {
		hi := c[i] >> (63)
		c[i] = (c[i] << 1) | dcarry
		dcarry = hi
	}
	// Add the diagonal terms a[i]^2.
	var carry uint64
	for i := 0; i < n; i++ {
		hi, lo := bits.Mul64(uint64(a[i]), uint64(a[i]))
		var cc1, cc2 uint64
		lo, cc1 = bits.Add64(lo, carry, 0)
		c[2*i], cc2 = bits.Add64(c[2*i], lo, 0)
		carry = hi + cc1 + cc2
		if 2*i+1 < len(c) {
			var cc3 uint64
			c[2*i+1], cc3 = bits.Add64(c[2*i+1], carry, 0)
			carry = cc3
		}
	}
}
