// Package bake implements the authenticated key-agreement protocol family
// built on top of ecp/bign/belt: BMQV (ephemeral-static MQV), BSTS
// (station-to-station) and BPACE (password-authenticated). Every protocol
// shares the same outer shape (Start, a handful of numbered Step
// functions, StepG to export the derived keys) and the same message-encode
// conventions, both collected here; the protocol-specific step logic lives
// in mqv.go, sts.go and pace.go.
package bake

import (
	"stb34101/ecp"
	"stb34101/errs"
	"stb34101/rng"
	"stb34101/zz"
)

// TagSize is the length in octets of every key-confirmation MAC tag.
const TagSize = 8

// SubkeySize is the length in octets of every derived subkey.
const SubkeySize = 32

// Settings collects the parameters shared by every bake protocol session:
// the optional hello strings bound into the key derivation, whether each
// side requests a key-confirmation tag, and the randomness source used for
// every ephemeral draw.
type Settings struct {
	HelloA []byte
	HelloB []byte
	Kca    bool
	Kcb    bool
	Rng    rng.Source
}

// Certificate is an opaque long-term-key carrier: the library never
// interprets Blob itself, it only ever asks Val to extract the committed
// public point.
type Certificate struct {
	Blob []byte
	Val  func(c *ecp.Curve, blob []byte) (qx, qy zz.Int, err error)
}

// securityLevel returns the "l" of spec.md §4.F: the protocol's half-order
// bit length (128 for a 256-bit order, 192 for a 384-bit order), which
// sizes both the MQV/STS blinding scalar and the PACE random strings.
func securityLevel(c *ecp.Curve) int {
	return c.Order.Mod().BitLen() / 2
}

// encodePoint renders (x, y) as the 2*no-octet little-endian wire form
// every bake message uses for a curve point (spec.md §6).
func encodePoint(c *ecp.Curve, x, y zz.Int) []byte {
	out := make([]byte, 2*c.No)
	copy(out[:c.No], zz.ToOctets(x, c.No))
	copy(out[c.No:], zz.ToOctets(y, c.No))
	return out
}

// decodePoint parses the 2*no-octet wire form back into a curve point and
// checks it is on-curve and not the point at infinity.
func decodePoint(c *ecp.Curve, buf []byte) (ecp.Point, zz.Int, zz.Int, error) {
	if len(buf) != 2*c.No {
		return ecp.Point{}, nil, nil, errs.New(errs.BadInput, "bake: point encoding has wrong length")
	}
	x := zz.Resize(zz.FromOctets(buf[:c.No]), c.Field.N())
	y := zz.Resize(zz.FromOctets(buf[c.No:]), c.Field.N())
	if !c.IsOnCurveAffine(x, y) {
		return ecp.Point{}, nil, nil, errs.New(errs.BadPoint, "bake: decoded point not on curve")
	}
	p := ecp.AffineToJacobian(x, y, c.Field.N())
	return p, x, y, nil
}

// blindScalar computes 2^l + t, the fixed-bit-length blinding value every
// MQV/STS-derived scalar is combined with, from a hash digest truncated to
// its low-order l/8 octets.
func blindScalar(l int, digest []byte) zz.Int {
	lBytes := l / 8
	if lBytes > len(digest) {
		lBytes = len(digest)
	}
	n := zz.WordsForOctets(l/8 + 1)
	t := zz.Resize(zz.FromOctets(digest[:lBytes]), n)
	two := zz.New(n)
	two.SetWord(1)
	shifted := zz.New(n)
	zz.ShiftLeft(shifted, two, uint(l))
	out := zz.New(n)
	zz.Add(out, shifted, t)
	return out
}

// drawScalar draws a uniformly random scalar in {1, ..., q-1} using src.
func drawScalar(c *ecp.Curve, src rng.Source) (zz.Int, error) {
	q := c.Order.Mod()
	n := q.Hi()
	if n == 0 {
		n = 1
	}
	for {
		buf := make([]byte, (n+1)*8)
		if err := src.Read(buf); err != nil {
			return nil, errs.Wrap(errs.BadRNG, err, "bake: rng failed")
		}
		d := zz.New(n)
		if err := zz.Mod(d, zz.FromOctets(buf), q); err != nil {
			return nil, errs.Wrap(errs.BadRNG, err, "bake: reduction failed")
		}
		if !d.IsZero() {
			return d, nil
		}
	}
}

// tag8 truncates a 32-octet MAC tag to the 8-octet wire form every bake
// confirmation message uses.
func tag8(full [32]byte) []byte {
	return full[:TagSize]
}
