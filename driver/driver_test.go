package driver

import (
	"testing"

	"stb34101/bake"
	"stb34101/bign"
	"stb34101/ecp"
	"stb34101/rng"
	"stb34101/zz"
)

// memTransport is a one-directional message channel pair wired into a
// Transport: Write pushes a whole message, Read drains it (possibly across
// several calls, for chunked reads) before pulling the next one.
type memTransport struct {
	in      <-chan []byte
	out     chan<- []byte
	pending []byte
}

func (t *memTransport) Write(buf []byte) error {
	cp := append([]byte(nil), buf...)
	t.out <- cp
	return nil
}

func (t *memTransport) Read(buf []byte) (int, error) {
	if len(t.pending) == 0 {
		msg, ok := <-t.in
		if !ok {
			return 0, ErrMax
		}
		t.pending = msg
	}
	n := copy(buf, t.pending)
	t.pending = t.pending[n:]
	return n, nil
}

func newPipe() (a, b Transport) {
	aToB := make(chan []byte, 8)
	bToA := make(chan []byte, 8)
	return &memTransport{in: bToA, out: aToB}, &memTransport{in: aToB, out: bToA}
}

func testCurve(t *testing.T) *ecp.Curve {
	t.Helper()
	c, err := bign.Start(bign.OID128, ecp.DefaultPolicy())
	if err != nil {
		t.Fatalf("bign.Start: %v", err)
	}
	return c
}

func simpleCert(c *ecp.Curve, qx, qy zz.Int) *bake.Certificate {
	blob := append(zz.ToOctets(qx, c.No), zz.ToOctets(qy, c.No)...)
	return &bake.Certificate{
		Blob: blob,
		Val: func(c *ecp.Curve, blob []byte) (zz.Int, zz.Int, error) {
			x := zz.Resize(zz.FromOctets(blob[:c.No]), c.Field.N())
			y := zz.Resize(zz.FromOctets(blob[c.No:]), c.Field.N())
			return x, y, nil
		},
	}
}

func TestRunMQVAgreesOnKeyOverTransport(t *testing.T) {
	c := testCurve(t)
	kpA, err := bign.GenKeypair(c, rng.System)
	if err != nil {
		t.Fatalf("GenKeypair A: %v", err)
	}
	kpB, err := bign.GenKeypair(c, rng.System)
	if err != nil {
		t.Fatalf("GenKeypair B: %v", err)
	}
	settings := bake.Settings{Kca: true, Kcb: true, Rng: rng.System}
	certA := simpleCert(c, kpA.Qx, kpA.Qy)
	certB := simpleCert(c, kpB.Qx, kpB.Qy)

	tA, tB := newPipe()
	type result struct {
		key [bake.SubkeySize]byte
		err error
	}
	doneA := make(chan result, 1)
	doneB := make(chan result, 1)
	go func() {
		k, err := RunMQVA(c, settings, kpA.D, certA, certB, tA)
		doneA <- result{k, err}
	}()
	go func() {
		k, err := RunMQVB(c, settings, kpB.D, certB, certA, tB)
		doneB <- result{k, err}
	}()
	rA := <-doneA
	rB := <-doneB
	if rA.err != nil {
		t.Fatalf("party A: %v", rA.err)
	}
	if rB.err != nil {
		t.Fatalf("party B: %v", rB.err)
	}
	if rA.key != rB.key {
		t.Fatal("derived keys disagree")
	}
}

func TestRunSTSAgreesOnKeyOverTransport(t *testing.T) {
	c := testCurve(t)
	kpA, err := bign.GenKeypair(c, rng.System)
	if err != nil {
		t.Fatalf("GenKeypair A: %v", err)
	}
	kpB, err := bign.GenKeypair(c, rng.System)
	if err != nil {
		t.Fatalf("GenKeypair B: %v", err)
	}
	settings := bake.Settings{Kca: true, Kcb: true, Rng: rng.System}
	certA := simpleCert(c, kpA.Qx, kpA.Qy)
	certB := simpleCert(c, kpB.Qx, kpB.Qy)

	tA, tB := newPipe()
	type result struct {
		key [bake.SubkeySize]byte
		err error
	}
	doneA := make(chan result, 1)
	doneB := make(chan result, 1)
	go func() {
		k, err := RunSTSA(c, settings, kpA.D, certA, certB, tA)
		doneA <- result{k, err}
	}()
	go func() {
		k, err := RunSTSB(c, settings, kpB.D, certB, certA, tB)
		doneB <- result{k, err}
	}()
	rA := <-doneA
	rB := <-doneB
	if rA.err != nil {
		t.Fatalf("party A: %v", rA.err)
	}
	if rB.err != nil {
		t.Fatalf("party B: %v", rB.err)
	}
	if rA.key != rB.key {
		t.Fatal("derived keys disagree")
	}
}

func TestRunPACEAgreesOnKeyOverTransport(t *testing.T) {
	c := testCurve(t)
	settings := bake.Settings{Kca: true, Kcb: true, Rng: rng.System}
	pwd := []byte("shared secret")
	randLen := RandLenForCurve(c)

	tA, tB := newPipe()
	type result struct {
		key [bake.SubkeySize]byte
		err error
	}
	doneA := make(chan result, 1)
	doneB := make(chan result, 1)
	go func() {
		k, err := RunPACEA(c, settings, pwd, randLen, tA)
		doneA <- result{k, err}
	}()
	go func() {
		k, err := RunPACEB(c, settings, pwd, randLen, tB)
		doneB <- result{k, err}
	}()
	rA := <-doneA
	rB := <-doneB
	if rA.err != nil {
		t.Fatalf("party A: %v", rA.err)
	}
	if rB.err != nil {
		t.Fatalf("party B: %v", rB.err)
	}
	if rA.key != rB.key {
		t.Fatal("derived keys disagree")
	}
}
