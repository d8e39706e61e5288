package bign

import (
	"testing"

	"stb34101/ecp"
	"stb34101/rng"
	"stb34101/zz"
)

func TestStartBuildsEmbeddedCurves(t *testing.T) {
	for _, oid := range []string{OID128, OID192, OID256} {
		c, err := Start(oid, ecp.DefaultPolicy())
		if err != nil {
			t.Fatalf("Start(%s): %v", oid, err)
		}
		if !c.IsOnCurveAffine(c.Gx, c.Gy) {
			t.Fatalf("Start(%s): base point not on curve", oid)
		}
	}
}

func TestOID256CarriesAndReusesItsSeed(t *testing.T) {
	p, err := StdParams(OID256)
	if err != nil {
		t.Fatalf("StdParams(OID256): %v", err)
	}
	if len(p.Seed) == 0 {
		t.Fatal("OID256 params have no Seed; the belt-hash binding is unexercised")
	}

	again, err := StdParams(OID256)
	if err != nil {
		t.Fatalf("StdParams(OID256) second call: %v", err)
	}
	if string(again.B) != string(p.B) {
		t.Fatal("oid256Params is not stable across calls")
	}
}

func TestUnregisteredCurveErrors(t *testing.T) {
	_, err := Start("1.2.112.0.2.0.34.101.45.3.99", ecp.DefaultPolicy())
	if err == nil {
		t.Fatal("expected an error for an unregistered OID")
	}
}

func TestGenKeypairProducesValidPoint(t *testing.T) {
	c, err := Start(OID128, ecp.DefaultPolicy())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	kp, err := GenKeypair(c, rng.System)
	if err != nil {
		t.Fatalf("GenKeypair: %v", err)
	}
	if kp.D.IsZero() {
		t.Fatal("private scalar is zero")
	}
	if _, _, err := ValPubkey(c, zz.ToOctets(kp.Qx, c.No), zz.ToOctets(kp.Qy, c.No)); err != nil {
		t.Fatalf("ValPubkey: %v", err)
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	c, err := Start(OID128, ecp.DefaultPolicy())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	kp, err := GenKeypair(c, rng.System)
	if err != nil {
		t.Fatalf("GenKeypair: %v", err)
	}

	hash := []byte("a pre-hashed 32-byte message digest stand-in")
	sig, err := Sign(c, kp.D, OID128, hash, rng.System)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if err := Verify(c, kp.Qx, kp.Qy, OID128, hash, sig); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	c, err := Start(OID128, ecp.DefaultPolicy())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	kp, err := GenKeypair(c, rng.System)
	if err != nil {
		t.Fatalf("GenKeypair: %v", err)
	}

	hash := []byte("another message")
	sig, err := Sign(c, kp.D, OID128, hash, rng.System)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	tampered := *sig
	tampered.S1[0] ^= 1
	if err := Verify(c, kp.Qx, kp.Qy, OID128, hash, &tampered); err == nil {
		t.Fatal("expected Verify to reject a tampered signature")
	}
}

func TestVerifyRejectsWrongMessage(t *testing.T) {
	c, err := Start(OID128, ecp.DefaultPolicy())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	kp, err := GenKeypair(c, rng.System)
	if err != nil {
		t.Fatalf("GenKeypair: %v", err)
	}

	sig, err := Sign(c, kp.D, OID128, []byte("original"), rng.System)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := Verify(c, kp.Qx, kp.Qy, OID128, []byte("tampered"), sig); err == nil {
		t.Fatal("expected Verify to reject a different message")
	}
}

func TestVerifyRejectsWrongPubkey(t *testing.T) {
	c, err := Start(OID128, ecp.DefaultPolicy())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	kp1, err := GenKeypair(c, rng.System)
	if err != nil {
		t.Fatalf("GenKeypair 1: %v", err)
	}
	kp2, err := GenKeypair(c, rng.System)
	if err != nil {
		t.Fatalf("GenKeypair 2: %v", err)
	}

	hash := []byte("msg")
	sig, err := Sign(c, kp1.D, OID128, hash, rng.System)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := Verify(c, kp2.Qx, kp2.Qy, OID128, hash, sig); err == nil {
		t.Fatal("expected Verify to reject the wrong public key")
	}
}
