package zz

import (
	"math/bits"

	"stb34101/errs"
	"stb34101/internal/word"
)

// DivW computes q = a / w, returning the remainder, for a single-word
// divisor w != 0. q must have length len(a).
func DivW(q, a Int, w Word) Word {
	var rem uint64
	for i := len(a) - 1; i >= 0; i-- {
		var quo uint64
		quo, rem = bits.Div64(rem, uint64(a[i]), uint64(w))
		q[i] = Word(quo)
	}
	return Word(rem)
}

// Div computes q = ⌊a/b⌋ and r = a mod b via Knuth's Algorithm D (the
// normalize/estimate/correct/multiply-subtract/add-back scheme of
// spec.md §4.B), routing the single-word divisor case to the cheaper
// DivW. q must have length at least a.Hi()-b.Hi()+1; r must have length at
// least b.Hi(). Returns errs.BadInput if b is zero.
func Div(q, r, a, b Int) error {
	n := b.Hi()
	if n == 0 {
		return errs.New(errs.BadInput, "zz.Div: division by zero")
	}
	m := a.Hi()
	for i := range q {
		q[i] = 0
	}
	if m < n {
		Copy(r, a)
		return nil
	}
	if n == 1 {
		rem := DivW(q, a[:m], b[0])
		for i := m; i < len(q); i++ {
			q[i] = 0
		}
		Copy(r, Int{rem})
		return nil
	}

	s := uint(word.Bits) - uint(word.BitLen(b[n-1]))
	vn := New(n)
	ShiftLeft(vn, b[:n], s)

	un := New(m + 1)
	ShiftLeft(un, a[:m], s)

	mm := m - n
	for j := mm; j >= 0; j-- {
		var qhat, rhat uint64
		rhatFinite := true
		numHi := uint64(un[j+n])
		numLo := uint64(un[j+n-1])
		if numHi == uint64(vn[n-1]) {
			qhat = ^uint64(0)
			rhat = numLo + numHi
			rhatFinite = rhat >= numLo // false on overflow: rhat is "infinite", skip correction
		} else {
			qhat, rhat = bits.Div64(numHi, numLo, uint64(vn[n-1]))
		}
		for rhatFinite {
			hi, lo := bits.Mul64(qhat, uint64(vn[n-2]))
			if hi < rhat || (hi == rhat && lo <= uint64(un[j+n-2])) {
				break
			}
			qhat--
			newRhat := rhat + uint64(vn[n-1])
			if newRhat < rhat {
				break
			}
			rhat = newRhat
		}

		borrow := SubMulW(un[j:j+n], vn[:n], Word(qhat))
		if uint64(un[j+n]) < borrow {
			qhat--
			carry := Add(un[j:j+n], un[j:j+n], vn[:n])
			un[j+n] += carry
			un[j+n] -= Word(borrow)
		} else {
			un[j+n] -= Word(borrow)
		}
		q[j] = Word(qhat)
	}

	ShiftRight(r, un[:n], s)
	return nil
}

// Mod computes r = a mod b (a convenience wrapper around Div that discards
// the quotient).
func Mod(r, a, b Int) error {
	q := New(a.Hi() + 1)
	return Div(q, r, a, b)
}
