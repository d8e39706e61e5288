package ecp

import "stb34101/zz"

// ScalarMulFast computes k*p via windowed NAF scalar multiplication
// (spec.md §4.D's variable-time path): not safe for secret k, but several
// times faster than the constant-time ladder. Operates on Jacobian points.
func (c *Curve) ScalarMulFast(k zz.Int, p Point) Point {
	w := c.Policy.Window
	if w < 2 {
		w = 5
	}
	naf := computeNAF(k, w)

	tableSize := 1 << (w - 2)
	table := make([]Point, tableSize)
	table[0] = p.Clone()
	twiceP := c.Double(p)
	for i := 1; i < tableSize; i++ {
		table[i] = c.Add(table[i-1], twiceP)
	}

	r := Infinity(c.Field.N())
	for i := len(naf) - 1; i >= 0; i-- {
		r = c.Double(r)
		d := naf[i]
		if d == 0 {
			continue
		}
		abs := d
		if abs < 0 {
			abs = -abs
		}
		idx := (abs - 1) / 2
		pt := table[idx]
		if d < 0 {
			pt = c.Neg(pt)
		}
		r = c.Add(r, pt)
	}
	return r
}

// computeNAF returns the little-endian width-w non-adjacent form of k: a
// sequence of digits each either 0 or an odd value in
// [-(2^(w-1)-1), 2^(w-1)-1].
func computeNAF(k zz.Int, w uint) []int {
	var digits []int
	kk := k.Clone()
	modulus := int64(1) << w
	half := modulus / 2
	for !kk.IsZero() {
		if kk.IsOdd() {
			low := int64(kk[0] & zz.Word(modulus-1))
			d := low
			if d >= half {
				d -= modulus
			}
			if d >= 0 {
				zz.SubW(kk, kk, zz.Word(d))
			} else {
				zz.AddW(kk, kk, zz.Word(-d))
			}
			digits = append(digits, int(d))
		} else {
			digits = append(digits, 0)
		}
		shifted := zz.New(len(kk))
		zz.ShiftRight(shifted, kk, 1)
		kk = shifted
	}
	return digits
}

// SumOfScalarMul computes k1*p1 + k2*p2 via Shamir's trick (interleaved
// double-and-add over both scalars at once, sharing the doublings). Used by
// bake's combined-point verification steps; not constant-time.
func (c *Curve) SumOfScalarMul(k1 zz.Int, p1 Point, k2 zz.Int, p2 Point) Point {
	width := k1.BitLen()
	if k2.BitLen() > width {
		width = k2.BitLen()
	}
	sum := c.Add(p1, p2)
	r := Infinity(c.Field.N())
	for i := width - 1; i >= 0; i-- {
		r = c.Double(r)
		b1 := k1.Bit(i)
		b2 := k2.Bit(i)
		switch {
		case b1 == 1 && b2 == 1:
			r = c.Add(r, sum)
		case b1 == 1:
			r = c.Add(r, p1)
		case b2 == 1:
			r = c.Add(r, p2)
		}
	}
	return r
}
