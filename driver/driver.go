// Package driver provides the chunked-transport runners of spec.md §4.G:
// bakeXRunA/bakeXRunB wrap a bake.Session's numbered Step functions behind
// a pair of read/write callbacks, so the protocol core itself never touches
// a socket or a file. BSTS's variable-length certificate-carrying messages
// are read in 512-octet chunks into a growable blob, bounded so a hostile
// peer cannot force unbounded memory growth.
package driver

import (
	"errors"
	"log"

	"github.com/zeebo/blake3"

	"stb34101/bake"
	"stb34101/ecp"
	"stb34101/errs"
	"stb34101/zz"
)

// ErrMax is the end-of-message sentinel a Transport's Read returns once a
// chunked message has been fully delivered; any other error aborts the run.
var ErrMax = errors.New("driver: end of message")

const chunkSize = 512

// maxBlobSize bounds BSTS's growable certificate-message blob so a peer
// that never signals ErrMax cannot exhaust memory.
const maxBlobSize = 64 * 1024

// Transport is the caller-supplied read/write surface every run function
// drives. Read must fill buf completely for a fixed-length message, or may
// return fewer bytes (with no error) followed eventually by ErrMax when
// used for a chunked read. Write must send all of buf.
type Transport interface {
	Read(buf []byte) (int, error)
	Write(buf []byte) error
}

// RandLenForCurve returns the l/4-octet length of BPACE's password-blinded
// random strings for a curve whose order has the standard 2l-bit width.
func RandLenForCurve(c *ecp.Curve) int {
	return c.Order.Mod().BitLen() / 2 / 4
}

func fingerprint(tag string, msg []byte) {
	sum := blake3.Sum256(msg)
	log.Printf("[bake] %s len=%d fp=%x", tag, len(msg), sum[:8])
}

func readFixed(t Transport, n int, tag string) ([]byte, error) {
	buf := make([]byte, n)
	got, err := t.Read(buf)
	if err != nil {
		return nil, errs.Wrap(errs.BadInput, err, "driver: read failed")
	}
	if got != n {
		return nil, errs.New(errs.BadInput, "driver: short read for %s (want %d, got %d)", tag, n, got)
	}
	fingerprint(tag, buf)
	return buf, nil
}

func writeMsg(t Transport, tag string, buf []byte) error {
	fingerprint(tag, buf)
	if err := t.Write(buf); err != nil {
		return errs.Wrap(errs.BadInput, err, "driver: write failed")
	}
	return nil
}

// readChunkedBlob accumulates a variable-length message (BSTS's M2/M3) in
// chunkSize pieces until Read signals ErrMax or returns a chunk shorter
// than chunkSize; a blob that outgrows maxBlobSize is an error.
func readChunkedBlob(t Transport, tag string) ([]byte, error) {
	var blob []byte
	for {
		chunk := make([]byte, chunkSize)
		n, err := t.Read(chunk)
		if n > 0 {
			blob = append(blob, chunk[:n]...)
			if len(blob) > maxBlobSize {
				return nil, errs.New(errs.OutOfMemory, "driver: %s exceeds max blob size", tag)
			}
		}
		if err != nil {
			if errors.Is(err, ErrMax) {
				fingerprint(tag, blob)
				return blob, nil
			}
			return nil, errs.Wrap(errs.BadInput, err, "driver: chunked read failed for %s", tag)
		}
		if n < chunkSize {
			fingerprint(tag, blob)
			return blob, nil
		}
	}
}

// RunMQVA drives party A's side of BMQV end to end over t, returning the
// derived session key.
func RunMQVA(c *ecp.Curve, settings bake.Settings, da zz.Int, ownCert, peerCert *bake.Certificate, t Transport) ([bake.SubkeySize]byte, error) {
	s, err := bake.StartMQVA(c, settings, da, ownCert, peerCert)
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	vb, err := readFixed(t, 2*c.No, "mqv-m1")
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	m2, err := s.Step3(vb)
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	if err := writeMsg(t, "mqv-m2", m2); err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	if settings.Kcb {
		m3, err := readFixed(t, bake.TagSize, "mqv-m3")
		if err != nil {
			return [bake.SubkeySize]byte{}, err
		}
		if err := s.Step5(m3); err != nil {
			return [bake.SubkeySize]byte{}, err
		}
	}
	return s.StepG()
}

// RunMQVB drives party B's side of BMQV end to end over t.
func RunMQVB(c *ecp.Curve, settings bake.Settings, db zz.Int, ownCert, peerCert *bake.Certificate, t Transport) ([bake.SubkeySize]byte, error) {
	s, err := bake.StartMQVB(c, settings, db, ownCert, peerCert)
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	m1, err := s.Step2()
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	if err := writeMsg(t, "mqv-m1", m1); err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	expect := 2 * c.No
	if settings.Kca {
		expect += bake.TagSize
	}
	m2, err := readFixed(t, expect, "mqv-m2")
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	m3, err := s.Step4(m2)
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	if settings.Kcb {
		if err := writeMsg(t, "mqv-m3", m3); err != nil {
			return [bake.SubkeySize]byte{}, err
		}
	}
	return s.StepG()
}

// RunSTSA drives party A's side of BSTS end to end over t, reading the
// variable-length M3 in 512-octet chunks.
func RunSTSA(c *ecp.Curve, settings bake.Settings, da zz.Int, ownCert, peerCert *bake.Certificate, t Transport) ([bake.SubkeySize]byte, error) {
	s, err := bake.StartSTSA(c, settings, da, ownCert, peerCert)
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	vb, err := readFixed(t, 2*c.No, "sts-m1")
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	m2, err := s.Step3(vb)
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	if err := writeMsg(t, "sts-m2", m2); err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	m3, err := readChunkedBlob(t, "sts-m3")
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	if err := s.Step5(m3); err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	return s.StepG(), nil
}

// RunSTSB drives party B's side of BSTS end to end over t, reading the
// variable-length M2 in 512-octet chunks.
func RunSTSB(c *ecp.Curve, settings bake.Settings, db zz.Int, ownCert, peerCert *bake.Certificate, t Transport) ([bake.SubkeySize]byte, error) {
	s, err := bake.StartSTSB(c, settings, db, ownCert, peerCert)
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	m1, err := s.Step2()
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	if err := writeMsg(t, "sts-m1", m1); err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	m2, err := readChunkedBlob(t, "sts-m2")
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	m3, err := s.Step4(m2)
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	if err := writeMsg(t, "sts-m3", m3); err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	return s.StepG(), nil
}

// RunPACEA drives party A's side of BPACE end to end over t. randLen is the
// l/4-octet length of the password-blinded random strings (spec.md
// §4.F.3), which the caller derives from its curve's security level
// (RandLenForCurve below).
func RunPACEA(c *ecp.Curve, settings bake.Settings, pwd []byte, randLen int, t Transport) ([bake.SubkeySize]byte, error) {
	s, err := bake.StartPACEA(c, settings, pwd)
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	yb, err := readFixed(t, randLen, "pace-m1")
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	m2, err := s.Step3(yb)
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	if err := writeMsg(t, "pace-m2", m2); err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	expect := 2 * c.No
	if settings.Kcb {
		expect += bake.TagSize
	}
	m3, err := readFixed(t, expect, "pace-m3")
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	m4, err := s.Step5(m3)
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	if settings.Kca {
		if err := writeMsg(t, "pace-m4", m4); err != nil {
			return [bake.SubkeySize]byte{}, err
		}
	}
	return s.StepG(), nil
}

// RunPACEB drives party B's side of BPACE end to end over t.
func RunPACEB(c *ecp.Curve, settings bake.Settings, pwd []byte, randLen int, t Transport) ([bake.SubkeySize]byte, error) {
	s, err := bake.StartPACEB(c, settings, pwd)
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	m1, err := s.Step2()
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	if err := writeMsg(t, "pace-m1", m1); err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	m2, err := readFixed(t, randLen+2*c.No, "pace-m2")
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	m3, err := s.Step4(m2)
	if err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	if err := writeMsg(t, "pace-m3", m3); err != nil {
		return [bake.SubkeySize]byte{}, err
	}
	if settings.Kca {
		m4, err := readFixed(t, bake.TagSize, "pace-m4")
		if err != nil {
			return [bake.SubkeySize]byte{}, err
		}
		if err := s.Step6(m4); err != nil {
			return [bake.SubkeySize]byte{}, err
		}
	}
	return s.StepG(), nil
}
