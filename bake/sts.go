package bake

import (
	"stb34101/belt"
	"stb34101/ecp"
	"stb34101/errs"
	"stb34101/zz"
)

// STSSession drives one side of the station-to-station protocol
// (spec.md §4.F.2). BSTS requires both key-confirmation flags; it
// authenticates with explicit MQV-style signatures over the ephemerals,
// encrypted and MACed alongside each side's certificate.
type STSSession struct {
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

	k0, k1, k2 [SubkeySize]byte
}

// StartSTSA begins party A's side of a station-to-station exchange.
func StartSTSA(c *ecp.Curve, settings Settings, da zz.Int, ownCert, peerCert *Certificate) (*STSSession, error) {
	if !settings.Kca || !settings.Kcb {
		return nil, errs.New(errs.BadLogic, "bake.StartSTSA: BSTS requires both Kca and Kcb")
	}
	return startSTS(c, settings, true, da, ownCert, peerCert)
}

// StartSTSB begins party B's side, symmetric to StartSTSA.
func StartSTSB(c *ecp.Curve, settings Settings, db zz.Int, ownCert, peerCert *Certificate) (*STSSession, error) {
	if !settings.Kca || !settings.Kcb {
		return nil, errs.New(errs.BadLogic, "bake.StartSTSB: BSTS requires both Kca and Kcb")
	}
	return startSTS(c, settings, false, db, ownCert, peerCert)
}

func startSTS(c *ecp.Curve, settings Settings, isA bool, priv zz.Int, ownCert, peerCert *Certificate) (*STSSession, error) {
	u, err := drawScalar(c, settings.Rng)
	if err != nil {
		return nil, err
	}
	v := c.ScalarMulFast(u, c.BasePoint())
	return &STSSession{
		curve: c, settings: settings, isA: isA, l: securityLevel(c),
		ownPriv: priv, ownCert: ownCert, peerCert: peerCert,
		u: u, ownV: v,
	}, nil
}

// Step2 on B produces message 1, Vb.
func (s *STSSession) Step2() ([]byte, error) {
	if s.isA {
		return nil, errs.New(errs.BadLogic, "bake.STSSession.Step2: called on party A")
	}
	x, y, ok := s.curve.ToAffine(s.ownV)
	if !ok {
		return nil, errs.New(errs.BadLogic, "bake.STSSession.Step2: ephemeral point has no affine form")
	}
	return encodePoint(s.curve, x, y), nil
}

// Step3 on A consumes Vb and produces message 2: Va || E_K2(sa || certA) ||
// MAC_K1(E_K2(sa || certA) || 0^128).
func (s *STSSession) Step3(vb []byte) ([]byte, error) {
	if !s.isA {
		return nil, errs.New(errs.BadLogic, "bake.STSSession.Step3: called on party B")
	}
	if err := s.acceptPeerV(vb); err != nil {
		return nil, err
	}
	if err := s.deriveSharedKeys(); err != nil {
		return nil, err
	}
	payload, err := s.sealOwn()
	if err != nil {
		return nil, err
	}
	ax, ay, ok := s.curve.ToAffine(s.ownV)
	if !ok {
		return nil, errs.New(errs.BadLogic, "bake.STSSession.Step3: ephemeral point has no affine form")
	}
	tag := belt.Tag(s.k1[:], payload, zeros16())
	out := append(encodePoint(s.curve, ax, ay), payload...)
	out = append(out, tag8(tag)...)
	return out, nil
}

// Step4 on B consumes message 2, authenticates and decrypts A's
// certificate payload, and produces message 3 with B's own sealed payload.
func (s *STSSession) Step4(msg2 []byte) ([]byte, error) {
	if s.isA {
		return nil, errs.New(errs.BadLogic, "bake.STSSession.Step4: called on party A")
	}
	pointLen := 2 * s.curve.No
	if len(msg2) < pointLen+TagSize {
		return nil, errs.New(errs.BadInput, "bake.STSSession.Step4: message too short")
	}
	if err := s.acceptPeerV(msg2[:pointLen]); err != nil {
		return nil, err
	}
	if err := s.deriveSharedKeys(); err != nil {
		return nil, err
	}
	payload := msg2[pointLen : len(msg2)-TagSize]
	wantTag := belt.Tag(s.k1[:], payload, zeros16())
	if !equalBytes(tag8(wantTag), msg2[len(msg2)-TagSize:]) {
		return nil, errs.New(errs.Auth, "bake.STSSession.Step4: confirmation tag mismatch")
	}
	if err := s.openPeer(payload); err != nil {
		return nil, err
	}

	outPayload, err := s.sealOwn()
	if err != nil {
		return nil, err
	}
	outTag := belt.Tag(s.k1[:], outPayload, ones16())
	return append(outPayload, tag8(outTag)...), nil
}

// Step5 on A consumes message 3 and authenticates/decrypts B's payload,
// completing the exchange.
func (s *STSSession) Step5(msg3 []byte) error {
	if !s.isA {
		return errs.New(errs.BadLogic, "bake.STSSession.Step5: called on party B")
	}
	if len(msg3) < TagSize {
		return errs.New(errs.BadInput, "bake.STSSession.Step5: message too short")
	}
	payload := msg3[:len(msg3)-TagSize]
	wantTag := belt.Tag(s.k1[:], payload, ones16())
	if !equalBytes(tag8(wantTag), msg3[len(msg3)-TagSize:]) {
		return errs.New(errs.Auth, "bake.STSSession.Step5: confirmation tag mismatch")
	}
	return s.openPeer(payload)
}

// StepG exports the session key K0.
func (s *STSSession) StepG() [SubkeySize]byte { return s.k0 }

func (s *STSSession) acceptPeerV(buf []byte) error {
	p, x, y, err := decodePoint(s.curve, buf)
	if err != nil {
		return err
	}
	s.peerV, s.peerVx, s.peerVy = p, x, y
	return nil
}

// deriveSharedKeys computes K = hash(<u*peerV> || helloA || helloB) and
// splits it into K0, K1, K2 via belt-KRP.
func (s *STSSession) deriveSharedKeys() error {
	shared := s.curve.ScalarMulFast(s.u, s.peerV)
	if shared.IsInfinity() {
		return errs.New(errs.BadLogic, "bake.STSSession: shared point at infinity")
	}
	sx, sy, ok := s.curve.ToAffine(shared)
	if !ok {
		return errs.New(errs.BadLogic, "bake.STSSession: shared point has no affine form")
	}
	digest := belt.Hash(encodePoint(s.curve, sx, sy), s.settings.HelloA, s.settings.HelloB)

	k0, err := belt.KRP(digest[:], []byte{0}, SubkeySize)
	if err != nil {
		return errs.Wrap(errs.BadLogic, err, "bake.STSSession: K0 derivation failed")
	}
	k1, err := belt.KRP(digest[:], []byte{1}, SubkeySize)
	if err != nil {
		return errs.Wrap(errs.BadLogic, err, "bake.STSSession: K1 derivation failed")
	}
	k2, err := belt.KRP(digest[:], []byte{2}, SubkeySize)
	if err != nil {
		return errs.Wrap(errs.BadLogic, err, "bake.STSSession: K2 derivation failed")
	}
	copy(s.k0[:], k0)
	copy(s.k1[:], k1)
	copy(s.k2[:], k2)
	return nil
}

// sealOwn computes s = (u - (2^l+t)*d) mod q, t from hash(Va||Vb), and
// returns E_K2(s || ownCert).
func (s *STSSession) sealOwn() ([]byte, error) {
	var vaEnc, vbEnc []byte
	ax, ay, _ := s.curve.ToAffine(s.ownV)
	if s.isA {
		vaEnc = encodePoint(s.curve, ax, ay)
		vbEnc = encodePoint(s.curve, s.peerVx, s.peerVy)
	} else {
		vaEnc = encodePoint(s.curve, s.peerVx, s.peerVy)
		vbEnc = encodePoint(s.curve, ax, ay)
	}
	digest := belt.Hash(vaEnc, vbEnc)
	t := blindScalar(s.l, digest[:])

	qOrder := s.curve.Order.Mod()
	td := zz.New(qOrder.Hi())
	s.curve.Order.Mul(td, t, s.ownPriv)
	sv := zz.New(qOrder.Hi())
	s.curve.Order.Sub(sv, s.u, td)

	plain := append(zz.ToOctets(sv, s.curve.No), s.ownCert.Blob...)
	cfb, err := belt.CFBEncryptStart(s.k2[:], zeros16())
	if err != nil {
		return nil, errs.Wrap(errs.BadLogic, err, "bake.STSSession.sealOwn: cipher init failed")
	}
	out := make([]byte, len(plain))
	cfb.Step(out, plain)
	return out, nil
}

// openPeer decrypts the peer's payload, range-checks s, recovers the
// peer's certificate and public point, and checks the algebraic identity
// s*G + (2^l+t)*Q == peerV.
func (s *STSSession) openPeer(payload []byte) error {
	if len(payload) < s.curve.No {
		return errs.New(errs.BadInput, "bake.STSSession.openPeer: payload too short")
	}
	cfb, err := belt.CFBDecryptStart(s.k2[:], zeros16())
	if err != nil {
		return errs.Wrap(errs.BadLogic, err, "bake.STSSession.openPeer: cipher init failed")
	}
	plain := make([]byte, len(payload))
	cfb.Step(plain, payload)

	sBytes, certBlob := plain[:s.curve.No], plain[s.curve.No:]
	sv := zz.Resize(zz.FromOctets(sBytes), s.curve.Order.Mod().Hi())
	if zz.Cmp(sv, s.curve.Order.Mod()) >= 0 {
		return errs.New(errs.Auth, "bake.STSSession.openPeer: s out of range")
	}

	peerCert := &Certificate{Blob: certBlob, Val: s.peerCert.Val}
	peerQx, peerQy, err := peerCert.Val(s.curve, certBlob)
	if err != nil {
		return errs.Wrap(errs.BadCert, err, "bake.STSSession.openPeer: certificate validation failed")
	}
	peerQ := ecp.AffineToJacobian(peerQx, peerQy, s.curve.Field.N())

	var vaEnc, vbEnc []byte
	ax, ay, _ := s.curve.ToAffine(s.ownV)
	if s.isA {
		vaEnc = encodePoint(s.curve, ax, ay)
		vbEnc = encodePoint(s.curve, s.peerVx, s.peerVy)
	} else {
		vaEnc = encodePoint(s.curve, s.peerVx, s.peerVy)
		vbEnc = encodePoint(s.curve, ax, ay)
	}
	digest := belt.Hash(vaEnc, vbEnc)
	t := blindScalar(s.l, digest[:])

	check := s.curve.SumOfScalarMul(sv, s.curve.BasePoint(), t, peerQ)
	if !s.curve.Eq(check, s.peerV) {
		return errs.New(errs.Auth, "bake.STSSession.openPeer: signature identity failed")
	}
	s.peerCert = peerCert
	return nil
}
