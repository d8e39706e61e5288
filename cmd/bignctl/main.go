// Command bignctl exercises bign key generation and signing from the
// command line: genkey produces a keypair over one of the embedded
// curves, sign/verify round-trip a hex-encoded message digest.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"

	"stb34101/bign"
	"stb34101/ecp"
	"stb34101/rng"
	"stb34101/zz"
)

func main() {
	oid := flag.String("oid", bign.OID128, "bign standard curve OID")
	mode := flag.String("mode", "genkey", "genkey | sign | verify")
	privHex := flag.String("priv", "", "hex-encoded private scalar (sign)")
	pubXHex := flag.String("pubx", "", "hex-encoded public x-coordinate (verify)")
	pubYHex := flag.String("puby", "", "hex-encoded public y-coordinate (verify)")
	sigS0Hex := flag.String("s0", "", "hex-encoded signature S0 (verify)")
	sigS1Hex := flag.String("s1", "", "hex-encoded signature S1 (verify)")
	digestHex := flag.String("digest", "", "hex-encoded message digest (sign/verify)")
	flag.Parse()

	c, err := bign.Start(*oid, ecp.DefaultPolicy())
	if err != nil {
		log.Fatalf("bignctl: start curve: %v", err)
	}

	switch *mode {
	case "genkey":
		kp, err := bign.GenKeypair(c, rng.System)
		if err != nil {
			log.Fatalf("bignctl: genkey: %v", err)
		}
		fmt.Printf("d  = %x\n", zz.ToOctets(kp.D, c.Order.Mod().Hi()*8))
		fmt.Printf("Qx = %x\n", zz.ToOctets(kp.Qx, c.No))
		fmt.Printf("Qy = %x\n", zz.ToOctets(kp.Qy, c.No))

	case "sign":
		d, digest := mustHexScalar(*privHex, c.Order.Mod().Hi()), mustHexBytes(*digestHex)
		sig, err := bign.Sign(c, d, *oid, digest, rng.System)
		if err != nil {
			log.Fatalf("bignctl: sign: %v", err)
		}
		fmt.Printf("S0 = %x\n", zz.ToOctets(sig.S0, c.Order.Mod().Hi()*8))
		fmt.Printf("S1 = %x\n", zz.ToOctets(sig.S1, c.Order.Mod().Hi()*8))

	case "verify":
		qx := zz.Resize(zz.FromOctets(mustHexBytes(*pubXHex)), c.Field.N())
		qy := zz.Resize(zz.FromOctets(mustHexBytes(*pubYHex)), c.Field.N())
		n := c.Order.Mod().Hi()
		sig := &bign.Signature{
			S0: zz.Resize(zz.FromOctets(mustHexBytes(*sigS0Hex)), n),
			S1: zz.Resize(zz.FromOctets(mustHexBytes(*sigS1Hex)), n),
		}
		digest := mustHexBytes(*digestHex)
		if err := bign.Verify(c, qx, qy, *oid, digest, sig); err != nil {
			log.Fatalf("bignctl: verify failed: %v", err)
		}
		fmt.Println("signature valid")

	default:
		log.Fatalf("bignctl: unknown mode %q", *mode)
	}
}

func mustHexBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		log.Fatalf("bignctl: invalid hex %q: %v", s, err)
	}
	return b
}

func mustHexScalar(s string, words int) zz.Int {
	return zz.Resize(zz.FromOctets(mustHexBytes(s)), words)
}
