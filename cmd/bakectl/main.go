// Command bakectl runs a bake key-agreement protocol between two local
// goroutines over an in-process pipe, for smoke-testing and demoing the
// library end to end without any real network transport.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"stb34101/bake"
	"stb34101/bign"
	"stb34101/driver"
	"stb34101/ecp"
	"stb34101/rng"
	"stb34101/zz"
)

// pipeTransport is a one-directional message channel pair adapted into a
// driver.Transport: Write pushes a whole message, Read drains it (possibly
// across several calls, for BSTS's chunked reads) before pulling the next.
type pipeTransport struct {
	in      <-chan []byte
	out     chan<- []byte
	pending []byte
}

func (t *pipeTransport) Write(buf []byte) error {
	cp := append([]byte(nil), buf...)
	t.out <- cp
	return nil
}

func (t *pipeTransport) Read(buf []byte) (int, error) {
	if len(t.pending) == 0 {
		msg, ok := <-t.in
		if !ok {
			return 0, driver.ErrMax
		}
		t.pending = msg
	}
	n := copy(buf, t.pending)
	t.pending = t.pending[n:]
	return n, nil
}

func newPipe() (a, b driver.Transport) {
	aToB := make(chan []byte, 8)
	bToA := make(chan []byte, 8)
	return &pipeTransport{in: bToA, out: aToB}, &pipeTransport{in: aToB, out: bToA}
}

func plainCert(c *ecp.Curve, qx, qy zz.Int) *bake.Certificate {
	blob := append(zz.ToOctets(qx, c.No), zz.ToOctets(qy, c.No)...)
	return &bake.Certificate{
		Blob: blob,
		Val: func(c *ecp.Curve, blob []byte) (zz.Int, zz.Int, error) {
			if len(blob) != 2*c.No {
				return nil, nil, errors.New("bakectl: malformed certificate blob")
			}
			x := zz.Resize(zz.FromOctets(blob[:c.No]), c.Field.N())
			y := zz.Resize(zz.FromOctets(blob[c.No:]), c.Field.N())
			return x, y, nil
		},
	}
}

func main() {
	oid := flag.String("oid", bign.OID128, "bign standard curve OID")
	protocol := flag.String("protocol", "mqv", "mqv | sts | pace")
	password := flag.String("password", "correct horse battery staple", "shared password (pace only)")
	flag.Parse()

	c, err := bign.Start(*oid, ecp.DefaultPolicy())
	if err != nil {
		log.Fatalf("bakectl: start curve: %v", err)
	}
	settings := bake.Settings{
		HelloA: []byte("bakectl-A"), HelloB: []byte("bakectl-B"),
		Kca: true, Kcb: true, Rng: rng.System,
	}
	tA, tB := newPipe()

	type result struct {
		key [bake.SubkeySize]byte
		err error
	}
	doneA := make(chan result, 1)
	doneB := make(chan result, 1)

	switch *protocol {
	case "mqv", "sts":
		kpA, err := bign.GenKeypair(c, rng.System)
		if err != nil {
			log.Fatalf("bakectl: genkey A: %v", err)
		}
		kpB, err := bign.GenKeypair(c, rng.System)
		if err != nil {
			log.Fatalf("bakectl: genkey B: %v", err)
		}
		certA := plainCert(c, kpA.Qx, kpA.Qy)
		certB := plainCert(c, kpB.Qx, kpB.Qy)

		if *protocol == "mqv" {
			go func() {
				k, err := driver.RunMQVA(c, settings, kpA.D, certA, certB, tA)
				doneA <- result{k, err}
			}()
			go func() {
				k, err := driver.RunMQVB(c, settings, kpB.D, certB, certA, tB)
				doneB <- result{k, err}
			}()
		} else {
			go func() {
				k, err := driver.RunSTSA(c, settings, kpA.D, certA, certB, tA)
				doneA <- result{k, err}
			}()
			go func() {
				k, err := driver.RunSTSB(c, settings, kpB.D, certB, certA, tB)
				doneB <- result{k, err}
			}()
		}

	case "pace":
		randLen := driver.RandLenForCurve(c)
		go func() {
			k, err := driver.RunPACEA(c, settings, []byte(*password), randLen, tA)
			doneA <- result{k, err}
		}()
		go func() {
			k, err := driver.RunPACEB(c, settings, []byte(*password), randLen, tB)
			doneB <- result{k, err}
		}()

	default:
		log.Fatalf("bakectl: unknown protocol %q", *protocol)
	}

	rA, rB := <-doneA, <-doneB
	if rA.err != nil {
		log.Fatalf("bakectl: party A failed: %v", rA.err)
	}
	if rB.err != nil {
		log.Fatalf("bakectl: party B failed: %v", rB.err)
	}
	if rA.key != rB.key {
		log.Fatalf("bakectl: derived keys disagree")
	}
	fmt.Printf("[bakectl] %s agreement succeeded, K0 = %x\n", *protocol, rA.key)
}
