package zz

import "stb34101/internal/word"

// ShiftLeft computes dst = src << s (0 <= s < Bits), zero-extending or
// truncating to len(dst). Any bits shifted out of len(dst) are discarded;
// callers that need the overflow size dst one word larger than src.
func ShiftLeft(dst, src Int, s uint) {
	if s == 0 {
		Copy(dst, src)
		return
	}
	var carry Word
	n := len(dst)
	for i := 0; i < n; i++ {
		var v Word
		if i < len(src) {
			v = src[i]
		}
		dst[i] = (v << s) | carry
		carry = v >> (word.Bits - s)
	}
}

// ShiftRight computes dst = src >> s (0 <= s < Bits), zero-extending or
// truncating to len(dst).
func ShiftRight(dst, src Int, s uint) {
	if s == 0 {
		Copy(dst, src)
		return
	}
	n := len(dst)
	for i := 0; i < n; i++ {
		var v, hi Word
		if i < len(src) {
			v = src[i]
		}
		if i+1 < len(src) {
			hi = src[i+1]
		}
		dst[i] = (v >> s) | (hi << (word.Bits - s))
	}
}
