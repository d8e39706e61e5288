package bign

import (
	"stb34101/belt"
	"stb34101/zz"
)

// beltSeedB implements spec.md §4.D's curve-to-seed binding:
//
//	b ≡ belt-hash(p‖a‖seed) ‖ belt-hash(p‖a‖seed+1) mod p
//
// seed, p and a are the big-endian octet strings ecp.Params already uses;
// the result is big-endian and sized like p, so it compares byte-for-byte
// against a published curve's B field. This is the hashB callback
// ecp.Bootstrap invokes when a Params value carries a Seed.
func beltSeedB(seed, p, a []byte) ([]byte, error) {
	h1 := belt.Hash(p, a, seed)
	h2 := belt.Hash(p, a, incrementOctets(seed))

	wide := make([]byte, 0, len(h1)+len(h2))
	wide = append(wide, h1[:]...)
	wide = append(wide, h2[:]...)

	wideInt := zz.FromOctets(reverseOctets(wide))
	pInt := zz.FromOctets(reverseOctets(p))

	out := zz.New(pInt.Hi())
	if err := zz.Mod(out, wideInt, pInt); err != nil {
		return nil, err
	}
	return reverseOctets(zz.ToOctets(out, len(p))), nil
}

// incrementOctets returns seed+1 as a big-endian octet string of the same
// width (the seeds this package generates are far too small to wrap).
func incrementOctets(seed []byte) []byte {
	n := zz.WordsForOctets(len(seed)) + 1
	s := zz.Resize(zz.FromOctets(reverseOctets(seed)), n)
	next := zz.New(n)
	zz.AddW(next, s, 1)
	return reverseOctets(zz.ToOctets(next, len(seed)))
}

// reverseOctets converts between Params' big-endian wire convention and
// zz's little-endian Int encoding; it is its own inverse.
func reverseOctets(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
