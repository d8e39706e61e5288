package qr

import (
	"github.com/holiman/uint256"

	"stb34101/zz"
)

// fast256Words is the word count of a modulus narrow enough to fit in a
// fixed 4-limb uint256.Int: exactly the width of the l=128 standard curve's
// field, this module's most-exercised modulus.
const fast256Words = 4

// mulMod256 computes (a*b) mod mod using holiman/uint256's fixed-width
// arithmetic instead of zz's general word-slice reducers, as an accelerated
// backend for the one modulus width this module exercises constantly. a, b,
// and mod must each occupy at most fast256Words words; c is filled to its
// own length (the caller's ring word width), which must not exceed
// fast256Words.
func mulMod256(c, a, b, mod zz.Int) {
	ua := new(uint256.Int).SetBytes(reverseOctets(zz.ToOctets(a, 32)))
	ub := new(uint256.Int).SetBytes(reverseOctets(zz.ToOctets(b, 32)))
	um := new(uint256.Int).SetBytes(reverseOctets(zz.ToOctets(mod, 32)))

	prod := new(uint256.Int).MulMod(ua, ub, um)
	out := prod.Bytes32()
	copy(c, zz.FromOctets(reverseOctets(out[:])))
}

func reverseOctets(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
