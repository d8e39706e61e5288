package bake

import (
	"stb34101/belt"
	"stb34101/ecp"
	"stb34101/errs"
	"stb34101/zz"
)

// PACESession drives one side of the password-authenticated protocol
// (spec.md §4.F.3). A 32-octet password-derived key K2 = belt-hash(pwd) is
// fixed at Start; the exchange binds both ephemerals to a point W derived
// from the password-encrypted random strings via hash-to-curve, so an
// eavesdropper without pwd cannot distinguish W from random.
type PACESession struct {
	curve    *ecp.Curve
	settings Settings
	isA      bool
	l        int
	k2       [SubkeySize]byte

	ownRandom  []byte
	peerRandom []byte

	w    ecp.Point
	u    zz.Int
	ownV ecp.Point

	peerVx, peerVy zz.Int
	peerV          ecp.Point

	k0, k1 [SubkeySize]byte
}

// StartPACEA begins party A's side with the shared password pwd.
func StartPACEA(c *ecp.Curve, settings Settings, pwd []byte) (*PACESession, error) {
	return startPACE(c, settings, true, pwd)
}

// StartPACEB begins party B's side, symmetric to StartPACEA.
func StartPACEB(c *ecp.Curve, settings Settings, pwd []byte) (*PACESession, error) {
	return startPACE(c, settings, false, pwd)
}

func startPACE(c *ecp.Curve, settings Settings, isA bool, pwd []byte) (*PACESession, error) {
	l := securityLevel(c)
	randLen := l / 4
	own := make([]byte, randLen)
	if err := settings.Rng.Read(own); err != nil {
		return nil, errs.Wrap(errs.BadRNG, err, "bake.PACESession: rng failed")
	}
	k2 := belt.Hash(pwd)
	return &PACESession{
		curve: c, settings: settings, isA: isA, l: l,
		k2: k2, ownRandom: own,
	}, nil
}

func (s *PACESession) cfbKey() []byte { return s.k2[:] }

// Step2 on B produces message 1, Yb = E_K2(Rb), from the Rb drawn when the
// session was created.
func (s *PACESession) Step2() ([]byte, error) {
	if s.isA {
		return nil, errs.New(errs.BadLogic, "bake.PACESession.Step2: called on party A")
	}
	return s.encryptRandom(s.ownRandom)
}

// Step3 on A consumes Yb, derives W = bakeSWU(Ra||Rb) from the Ra drawn
// when the session was created, and produces message 2:
// Ya = E_K2(Ra) || <Va>.
func (s *PACESession) Step3(yb []byte) ([]byte, error) {
	if !s.isA {
		return nil, errs.New(errs.BadLogic, "bake.PACESession.Step3: called on party B")
	}
	rb, err := s.decryptRandom(yb)
	if err != nil {
		return nil, err
	}
	s.peerRandom = rb
	if err := s.deriveW(s.ownRandom, rb); err != nil {
		return nil, err
	}
	u, err := drawScalar(s.curve, s.settings.Rng)
	if err != nil {
		return nil, err
	}
	s.u = u
	s.ownV = s.curve.ScalarMulFast(u, s.w)
	ya, err := s.encryptRandom(s.ownRandom)
	if err != nil {
		return nil, err
	}
	vx, vy, ok := s.curve.ToAffine(s.ownV)
	if !ok {
		return nil, errs.New(errs.BadLogic, "bake.PACESession.Step3: ephemeral point has no affine form")
	}
	return append(ya, encodePoint(s.curve, vx, vy)...), nil
}

// Step4 on B consumes message 2, derives W, draws its own ephemeral, and
// produces message 3: <Vb> [+ Tb].
func (s *PACESession) Step4(msg2 []byte) ([]byte, error) {
	if s.isA {
		return nil, errs.New(errs.BadLogic, "bake.PACESession.Step4: called on party A")
	}
	randLen := s.l / 4
	if len(msg2) < randLen {
		return nil, errs.New(errs.BadInput, "bake.PACESession.Step4: message too short")
	}
	ra, err := s.decryptRandom(msg2[:randLen])
	if err != nil {
		return nil, err
	}
	s.peerRandom = ra
	if err := s.deriveW(ra, s.ownRandom); err != nil {
		return nil, err
	}
	if err := s.acceptPeerV(msg2[randLen:]); err != nil {
		return nil, err
	}

	u, err := drawScalar(s.curve, s.settings.Rng)
	if err != nil {
		return nil, err
	}
	s.u = u
	s.ownV = s.curve.ScalarMulFast(u, s.w)

	if err := s.deriveKeys(); err != nil {
		return nil, err
	}

	vx, vy, ok := s.curve.ToAffine(s.ownV)
	if !ok {
		return nil, errs.New(errs.BadLogic, "bake.PACESession.Step4: ephemeral point has no affine form")
	}
	out := encodePoint(s.curve, vx, vy)
	if s.settings.Kcb {
		tag := belt.Tag(s.k1[:], zeros16())
		out = append(out, tag8(tag)...)
	}
	return out, nil
}

// Step5 on A consumes message 3, derives the session keys, validates Tb if
// present, and produces message 4: [Ta].
func (s *PACESession) Step5(msg3 []byte) ([]byte, error) {
	if !s.isA {
		return nil, errs.New(errs.BadLogic, "bake.PACESession.Step5: called on party B")
	}
	pointLen := 2 * s.curve.No
	if len(msg3) < pointLen {
		return nil, errs.New(errs.BadInput, "bake.PACESession.Step5: message too short")
	}
	if err := s.acceptPeerV(msg3[:pointLen]); err != nil {
		return nil, err
	}
	if err := s.deriveKeys(); err != nil {
		return nil, err
	}
	if s.settings.Kcb {
		if len(msg3) != pointLen+TagSize {
			return nil, errs.New(errs.BadInput, "bake.PACESession.Step5: missing confirmation tag")
		}
		want := belt.Tag(s.k1[:], zeros16())
		if !equalBytes(tag8(want), msg3[pointLen:]) {
			return nil, errs.New(errs.Auth, "bake.PACESession.Step5: confirmation tag mismatch")
		}
	}
	if !s.settings.Kca {
		return nil, nil
	}
	tag := belt.Tag(s.k1[:], ones16())
	return tag8(tag), nil
}

// Step6 on B consumes message 4 and validates Ta if present, completing the
// exchange.
func (s *PACESession) Step6(msg4 []byte) error {
	if s.isA {
		return errs.New(errs.BadLogic, "bake.PACESession.Step6: called on party A")
	}
	if !s.settings.Kca {
		return nil
	}
	if len(msg4) != TagSize {
		return errs.New(errs.BadInput, "bake.PACESession.Step6: missing confirmation tag")
	}
	want := belt.Tag(s.k1[:], ones16())
	if !equalBytes(tag8(want), msg4) {
		return errs.New(errs.Auth, "bake.PACESession.Step6: confirmation tag mismatch")
	}
	return nil
}

// StepG exports the session key K0.
func (s *PACESession) StepG() [SubkeySize]byte { return s.k0 }

func (s *PACESession) encryptRandom(r []byte) ([]byte, error) {
	cfb, err := belt.CFBEncryptStart(s.cfbKey(), zeros16())
	if err != nil {
		return nil, errs.Wrap(errs.BadLogic, err, "bake.PACESession: cipher init failed")
	}
	out := make([]byte, len(r))
	cfb.Step(out, r)
	return out, nil
}

func (s *PACESession) decryptRandom(enc []byte) ([]byte, error) {
	cfb, err := belt.CFBDecryptStart(s.cfbKey(), zeros16())
	if err != nil {
		return nil, errs.Wrap(errs.BadLogic, err, "bake.PACESession: cipher init failed")
	}
	out := make([]byte, len(enc))
	cfb.Step(out, enc)
	return out, nil
}

// deriveW maps the two parties' random strings to a non-identity curve
// point via the curve's SWU hash-to-curve map, seeded by a belt-WBL stream
// over ra||rb (bakeSWU of spec.md §4.F.3).
func (s *PACESession) deriveW(ra, rb []byte) error {
	// z = -1 mod p: guaranteed a non-quadratic-residue whenever p == 3 (mod
	// 4), the same precondition HashToCurve already enforces, so it is
	// always a valid SWU non-residue constant for the curves this package
	// bootstraps.
	z := zz.New(s.curve.Field.N())
	s.curve.Field.Neg(z, s.curve.Field.One())
	hashToField := func(msg []byte, n int) (zz.Int, error) {
		wbl, err := belt.WBLEncryptStart(s.k2[:], zeros16())
		if err != nil {
			return nil, err
		}
		scratch := make([]byte, len(msg))
		wbl.StepEncrypt(scratch, msg)
		digest := wbl.StepG()
		return zz.Resize(zz.FromOctets(digest[:]), n), nil
	}
	w, err := s.curve.HashToCurve(append(append([]byte{}, ra...), rb...), z, hashToField)
	if err != nil {
		return errs.Wrap(errs.BadLogic, err, "bake.PACESession.deriveW: hash-to-curve failed")
	}
	s.w = w
	return nil
}

func (s *PACESession) acceptPeerV(buf []byte) error {
	p, x, y, err := decodePoint(s.curve, buf)
	if err != nil {
		return err
	}
	s.peerV, s.peerVx, s.peerVy = p, x, y
	return nil
}

// deriveKeys computes K = u*peerV (== ua*Vb == ub*Va by construction) and
// splits hash(<K> || <Va> || <Vb> || helloA || helloB) into K0, K1 via
// belt-KRP.
func (s *PACESession) deriveKeys() error {
	shared := s.curve.ScalarMulFast(s.u, s.peerV)
	if shared.IsInfinity() {
		return errs.New(errs.BadLogic, "bake.PACESession: shared point at infinity")
	}
	kx, ky, ok := s.curve.ToAffine(shared)
	if !ok {
		return errs.New(errs.BadLogic, "bake.PACESession: shared point has no affine form")
	}

	var vaEnc, vbEnc []byte
	ax, ay, _ := s.curve.ToAffine(s.ownV)
	if s.isA {
		vaEnc = encodePoint(s.curve, ax, ay)
		vbEnc = encodePoint(s.curve, s.peerVx, s.peerVy)
	} else {
		vaEnc = encodePoint(s.curve, s.peerVx, s.peerVy)
		vbEnc = encodePoint(s.curve, ax, ay)
	}
	digest := belt.Hash(encodePoint(s.curve, kx, ky), vaEnc, vbEnc, s.settings.HelloA, s.settings.HelloB)

	k0, err := belt.KRP(digest[:], []byte{0}, SubkeySize)
	if err != nil {
		return errs.Wrap(errs.BadLogic, err, "bake.PACESession: K0 derivation failed")
	}
	k1, err := belt.KRP(digest[:], []byte{1}, SubkeySize)
	if err != nil {
		return errs.Wrap(errs.BadLogic, err, "bake.PACESession: K1 derivation failed")
	}
	copy(s.k0[:], k0)
	copy(s.k1[:], k1)
	return nil
}
