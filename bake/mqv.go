package bake

import (
	"stb34101/belt"
	"stb34101/ecp"
	"stb34101/errs"
	"stb34101/zz"
)

// MQVSession drives one side of the ephemeral-static MQV variant
// (spec.md §4.F.1): A signs with long-term da, B with db, each holding a
// certificate committing to its own Q. The three wire messages are
// Vb (B->A), Va [+Ta] (A->B), [Tb] (B->A).
type MQVSession struct {
	curve    *ecp.Curve
	settings Settings
	isA      bool
	l        int

	ownPriv  zz.Int
	ownCert  *Certificate
	peerCert *Certificate

	u    zz.Int
	ownV ecp.Point

	peerVx, peerVy zz.Int
	peerV          ecp.Point

	k0, k1 [SubkeySize]byte
	have1  bool
}

// StartMQVA begins party A's side: da is A's long-term private scalar,
// ownCert is A's certificate, peerCert validates B's certificate blob.
func StartMQVA(c *ecp.Curve, settings Settings, da zz.Int, ownCert, peerCert *Certificate) (*MQVSession, error) {
	return startMQV(c, settings, true, da, ownCert, peerCert)
}

// StartMQVB begins party B's side, symmetric to StartMQVA.
func StartMQVB(c *ecp.Curve, settings Settings, db zz.Int, ownCert, peerCert *Certificate) (*MQVSession, error) {
	return startMQV(c, settings, false, db, ownCert, peerCert)
}

func startMQV(c *ecp.Curve, settings Settings, isA bool, priv zz.Int, ownCert, peerCert *Certificate) (*MQVSession, error) {
	u, err := drawScalar(c, settings.Rng)
	if err != nil {
		return nil, err
	}
	v := c.ScalarMulFast(u, c.BasePoint())
	return &MQVSession{
		curve: c, settings: settings, isA: isA, l: securityLevel(c),
		ownPriv: priv, ownCert: ownCert, peerCert: peerCert,
		u: u, ownV: v,
	}, nil
}

// Step2 on B produces message 1, Vb.
func (s *MQVSession) Step2() ([]byte, error) {
	if s.isA {
		return nil, errs.New(errs.BadLogic, "bake.MQVSession.Step2: called on party A")
	}
	x, y, ok := s.curve.ToAffine(s.ownV)
	if !ok {
		return nil, errs.New(errs.BadLogic, "bake.MQVSession.Step2: ephemeral point has no affine form")
	}
	return encodePoint(s.curve, x, y), nil
}

// Step3 on A consumes Vb and produces message 2: Va [+ Ta].
func (s *MQVSession) Step3(vb []byte) ([]byte, error) {
	if !s.isA {
		return nil, errs.New(errs.BadLogic, "bake.MQVSession.Step3: called on party B")
	}
	if err := s.acceptPeerV(vb); err != nil {
		return nil, err
	}
	if err := s.deriveKeys(); err != nil {
		return nil, err
	}
	ax, ay, ok := s.curve.ToAffine(s.ownV)
	if !ok {
		return nil, errs.New(errs.BadLogic, "bake.MQVSession.Step3: ephemeral point has no affine form")
	}
	out := encodePoint(s.curve, ax, ay)
	if s.settings.Kca {
		full := belt.Tag(s.k1[:], zeros16())
		out = append(out, tag8(full)...)
	}
	return out, nil
}

// Step4 on B consumes message 2, validates Ta if present, and produces
// message 3: [Tb].
func (s *MQVSession) Step4(msg2 []byte) ([]byte, error) {
	if s.isA {
		return nil, errs.New(errs.BadLogic, "bake.MQVSession.Step4: called on party A")
	}
	pointLen := 2 * s.curve.No
	if len(msg2) < pointLen {
		return nil, errs.New(errs.BadInput, "bake.MQVSession.Step4: message too short")
	}
	if err := s.acceptPeerV(msg2[:pointLen]); err != nil {
		return nil, err
	}
	if err := s.deriveKeys(); err != nil {
		return nil, err
	}
	if s.settings.Kca {
		if len(msg2) != pointLen+TagSize {
			return nil, errs.New(errs.BadInput, "bake.MQVSession.Step4: missing confirmation tag")
		}
		want := belt.Tag(s.k1[:], zeros16())
		if !equalBytes(tag8(want), msg2[pointLen:]) {
			return nil, errs.New(errs.Auth, "bake.MQVSession.Step4: confirmation tag mismatch")
		}
	}
	if !s.settings.Kcb {
		return nil, nil
	}
	full := belt.Tag(s.k1[:], ones16())
	return tag8(full), nil
}

// Step5 on A consumes message 3 and validates Tb if present. This is the
// terminal step on A when Kcb is requested.
func (s *MQVSession) Step5(msg3 []byte) error {
	if !s.isA {
		return errs.New(errs.BadLogic, "bake.MQVSession.Step5: called on party B")
	}
	if !s.settings.Kcb {
		return nil
	}
	if len(msg3) != TagSize {
		return errs.New(errs.BadInput, "bake.MQVSession.Step5: missing confirmation tag")
	}
	want := belt.Tag(s.k1[:], ones16())
	if !equalBytes(tag8(want), msg3) {
		return errs.New(errs.Auth, "bake.MQVSession.Step5: confirmation tag mismatch")
	}
	return nil
}

// StepG exports the session key K0 once key agreement has completed.
func (s *MQVSession) StepG() ([SubkeySize]byte, error) {
	if !s.have1 && s.k0 == ([SubkeySize]byte{}) {
		return [SubkeySize]byte{}, errs.New(errs.BadLogic, "bake.MQVSession.StepG: keys not yet derived")
	}
	return s.k0, nil
}

func (s *MQVSession) acceptPeerV(buf []byte) error {
	p, x, y, err := decodePoint(s.curve, buf)
	if err != nil {
		return err
	}
	s.peerV, s.peerVx, s.peerVy = p, x, y
	return nil
}

// deriveKeys implements the shared B-and-A MQV key schedule: own V and
// peer V feed a blinding scalar t, which combines the own ephemeral and
// own long-term scalars into a single exponent multiplying (peerV -
// blind*peerQ); the raw shared point's encoding then drives belt-hash and
// belt-KRP to the two subkeys.
func (s *MQVSession) deriveKeys() error {
	peerQx, peerQy, err := s.peerCert.Val(s.curve, s.peerCert.Blob)
	if err != nil {
		return errs.Wrap(errs.BadCert, err, "bake.MQVSession: peer certificate validation failed")
	}
	peerQ := ecp.AffineToJacobian(peerQx, peerQy, s.curve.Field.N())

	var vaEnc, vbEnc []byte
	if s.isA {
		ax, ay, _ := s.curve.ToAffine(s.ownV)
		vaEnc = encodePoint(s.curve, ax, ay)
		vbEnc = encodePoint(s.curve, s.peerVx, s.peerVy)
	} else {
		vaEnc = encodePoint(s.curve, s.peerVx, s.peerVy)
		bx, by, _ := s.curve.ToAffine(s.ownV)
		vbEnc = encodePoint(s.curve, bx, by)
	}
	digest := belt.Hash(vaEnc, vbEnc)
	t := blindScalar(s.l, digest[:])

	// own = (u - t*d) mod q
	td := zz.New(s.curve.Order.Mod().Hi())
	s.curve.Order.Mul(td, t, s.ownPriv)
	own := zz.New(s.curve.Order.Mod().Hi())
	s.curve.Order.Sub(own, s.u, td)

	negT := zz.New(s.curve.Order.Mod().Hi())
	s.curve.Order.Neg(negT, t)
	blindedPeerQ := s.curve.ScalarMulFast(negT, peerQ)
	combined := s.curve.Add(s.peerV, blindedPeerQ)

	sharedPoint := s.curve.ScalarMulFast(own, combined)
	var kx, ky zz.Int
	var ok bool
	if sharedPoint.IsInfinity() {
		sharedPoint = s.curve.BasePoint()
	}
	kx, ky, ok = s.curve.ToAffine(sharedPoint)
	if !ok {
		return errs.New(errs.BadLogic, "bake.MQVSession: shared point has no affine form")
	}
	kEnc := encodePoint(s.curve, kx, ky)

	ownCertBlob, peerCertBlob := s.ownCert.Blob, s.peerCert.Blob
	certA, certB := ownCertBlob, peerCertBlob
	if !s.isA {
		certA, certB = peerCertBlob, ownCertBlob
	}
	kRaw := belt.Hash(kEnc, certA, certB, s.settings.HelloA, s.settings.HelloB)

	k0, err := belt.KRP(kRaw[:], []byte{0}, SubkeySize)
	if err != nil {
		return errs.Wrap(errs.BadLogic, err, "bake.MQVSession: K0 derivation failed")
	}
	copy(s.k0[:], k0)
	if s.settings.Kca || s.settings.Kcb {
		k1, err := belt.KRP(kRaw[:], []byte{1}, SubkeySize)
		if err != nil {
			return errs.Wrap(errs.BadLogic, err, "bake.MQVSession: K1 derivation failed")
		}
		copy(s.k1[:], k1)
		s.have1 = true
	}
	return nil
}

func zeros16() []byte { return make([]byte, 16) }
func ones16() []byte {
	b := make([]byte, 16)
	for i := range b {
		b[i] = 0xFF
	}
	return b
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	diff := byte(0)
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
