// Package belt is the external collaborator the bake/bign/ecp packages
// call into for hashing, key derivation and symmetric confidentiality —
// the block-cipher family itself is out of scope (spec.md's Non-goals): what
// this package provides is the API surface bake needs (Hash, KRP, ECB, CFB,
// KWP, MAC, WBL), backed by real library primitives rather than a from-
// scratch reimplementation of the original cipher.
package belt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"encoding/binary"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"

	"stb34101/errs"
)

// HashSize is the output width of Hash, in bytes.
const HashSize = 32

// HashState is a streaming hash, built via HashStart and fed with Step; it
// mirrors the Start/Step/StepG shape the rest of this module's streaming
// APIs use.
type HashState struct{ h hash.Hash }

// HashStart begins a new streaming hash.
func HashStart() *HashState { return &HashState{h: sha3.New256()} }

// Step feeds more data into the hash.
func (s *HashState) Step(data []byte) { s.h.Write(data) }

// StepG finalizes the hash and returns the digest.
func (s *HashState) StepG() [HashSize]byte {
	var out [HashSize]byte
	copy(out[:], s.h.Sum(nil))
	return out
}

// Hash is the one-shot convenience form of HashStart/Step/StepG.
func Hash(data ...[]byte) [HashSize]byte {
	s := HashStart()
	for _, d := range data {
		s.Step(d)
	}
	return s.StepG()
}

// KRP is the key-refreshing procedure: it derives n bytes of key material
// from key and info (spec.md §6's belt-KRP, backed by HKDF-SHA3-256).
func KRP(key, info []byte, n int) ([]byte, error) {
	r := hkdf.New(sha3.New256, key, nil, info)
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, errs.Wrap(errs.BadRNG, err, "belt.KRP: derivation failed")
	}
	return out, nil
}

func newBlock(key []byte) (cipher.Block, error) {
	b, err := aes.NewCipher(key)
	if err != nil {
		return nil, errs.Wrap(errs.BadParams, err, "belt: invalid key")
	}
	return b, nil
}

// BlockSize is the underlying block size every mode below operates on.
const BlockSize = aes.BlockSize

// ECB is unpadded electronic-codebook mode for fixed-width whole-block
// fields; no other package of this module calls it. It is not a bulk
// encryption mode — ECB's pattern leakage makes it inappropriate for that,
// which is why every other mode below exists.
type ECB struct{ block cipher.Block }

func NewECB(key []byte) (*ECB, error) {
	b, err := newBlock(key)
	if err != nil {
		return nil, err
	}
	return &ECB{block: b}, nil
}

func (e *ECB) Encrypt(dst, src []byte) error {
	if len(src)%BlockSize != 0 {
		return errs.New(errs.BadInput, "belt.ECB: src not a multiple of the block size")
	}
	for i := 0; i < len(src); i += BlockSize {
		e.block.Encrypt(dst[i:i+BlockSize], src[i:i+BlockSize])
	}
	return nil
}

func (e *ECB) Decrypt(dst, src []byte) error {
	if len(src)%BlockSize != 0 {
		return errs.New(errs.BadInput, "belt.ECB: src not a multiple of the block size")
	}
	for i := 0; i < len(src); i += BlockSize {
		e.block.Decrypt(dst[i:i+BlockSize], src[i:i+BlockSize])
	}
	return nil
}

// CFB is streaming cipher-feedback mode, used by bake's BSTS and BPACE
// sessions to encrypt their message payloads under K2.
type CFB struct{ stream cipher.Stream }

func CFBEncryptStart(key, iv []byte) (*CFB, error) {
	b, err := newBlock(key)
	if err != nil {
		return nil, err
	}
	return &CFB{stream: cipher.NewCFBEncrypter(b, iv)}, nil
}

func CFBDecryptStart(key, iv []byte) (*CFB, error) {
	b, err := newBlock(key)
	if err != nil {
		return nil, err
	}
	return &CFB{stream: cipher.NewCFBDecrypter(b, iv)}, nil
}

func (c *CFB) Step(dst, src []byte) { c.stream.XORKeyStream(dst, src) }

// MAC is a keyed message authentication code, used for bake's per-message
// integrity tag (spec.md §6's belt-MAC), backed by HMAC-SHA3-256.
type MAC struct{ h hash.Hash }

func MACStart(key []byte) *MAC { return &MAC{h: hmac.New(sha3.New256, key)} }

func (m *MAC) Step(data []byte) { m.h.Write(data) }

func (m *MAC) StepG() [HashSize]byte {
	var out [HashSize]byte
	copy(out[:], m.h.Sum(nil))
	return out
}

// Tag computes the one-shot MAC of data under key.
func Tag(key []byte, data ...[]byte) [HashSize]byte {
	m := MACStart(key)
	for _, d := range data {
		m.Step(d)
	}
	return m.StepG()
}

// VerifyTag reports whether tag authenticates data under key, in constant
// time.
func VerifyTag(key []byte, tag []byte, data ...[]byte) bool {
	got := Tag(key, data...)
	return hmac.Equal(got[:], tag)
}

// WBL is a streaming wide-block-like mode: a CFB keystream generator
// exposed with the Start/Step/StepG shape so input can be fed
// incrementally. Its caller in this module is bake's BPACE, which uses it
// to derive the field element for the hash-to-curve map.
type WBL struct {
	cfb *CFB
	mac *MAC
}

func WBLEncryptStart(key, iv []byte) (*WBL, error) {
	cfb, err := CFBEncryptStart(key, iv)
	if err != nil {
		return nil, err
	}
	macKey, err := KRP(key, []byte("wbl-mac"), 32)
	if err != nil {
		return nil, err
	}
	return &WBL{cfb: cfb, mac: MACStart(macKey)}, nil
}

func WBLDecryptStart(key, iv []byte) (*WBL, error) {
	cfb, err := CFBDecryptStart(key, iv)
	if err != nil {
		return nil, err
	}
	macKey, err := KRP(key, []byte("wbl-mac"), 32)
	if err != nil {
		return nil, err
	}
	return &WBL{cfb: cfb, mac: MACStart(macKey)}, nil
}

// StepEncrypt encrypts one chunk of plaintext and folds the ciphertext into
// the running MAC.
func (w *WBL) StepEncrypt(dst, src []byte) {
	w.cfb.Step(dst, src)
	w.mac.Step(dst)
}

// StepDecrypt folds one chunk of ciphertext into the running MAC and
// decrypts it.
func (w *WBL) StepDecrypt(dst, src []byte) {
	w.mac.Step(src)
	w.cfb.Step(dst, src)
}

// StepG finalizes and returns the transport MAC tag.
func (w *WBL) StepG() [HashSize]byte { return w.mac.StepG() }

// KWP wraps key material under kek with SP800-38F's KW-with-padding
// construction, used to protect exported/imported key blobs.
func KWP(kek, plaintext []byte) ([]byte, error) {
	block, err := newBlock(kek)
	if err != nil {
		return nil, err
	}
	if len(plaintext) == 0 || len(plaintext) > 1<<29 {
		return nil, errs.New(errs.BadInput, "belt.KWP: invalid plaintext length")
	}

	mli := make([]byte, 4)
	binary.BigEndian.PutUint32(mli, uint32(len(plaintext)))
	icv2 := []byte{0xA6, 0x59, 0x59, 0xA6}

	padded := len(plaintext)
	if padded%8 != 0 {
		padded += 8 - padded%8
	}
	p := make([]byte, padded)
	copy(p, plaintext)

	if padded <= 8 {
		block16 := make([]byte, 16)
		copy(block16[:4], icv2)
		copy(block16[4:8], mli)
		copy(block16[8:], p)
		out := make([]byte, 16)
		block.Encrypt(out, block16)
		return out, nil
	}

	n := padded / 8
	a := make([]byte, 8)
	copy(a[:4], icv2)
	copy(a[4:], mli)
	r := make([][]byte, n)
	for i := 0; i < n; i++ {
		r[i] = append([]byte(nil), p[i*8:(i+1)*8]...)
	}

	buf := make([]byte, 16)
	for j := 0; j < 6; j++ {
		for i := 0; i < n; i++ {
			copy(buf[:8], a)
			copy(buf[8:], r[i])
			enc := make([]byte, 16)
			block.Encrypt(enc, buf)
			t := uint64(n*j+i) + 1
			var tb [8]byte
			binary.BigEndian.PutUint64(tb[:], t)
			for k := 0; k < 8; k++ {
				a[k] = enc[k] ^ tb[k]
			}
			r[i] = enc[8:]
		}
	}

	out := make([]byte, 8+padded)
	copy(out[:8], a)
	for i := 0; i < n; i++ {
		copy(out[8+i*8:], r[i])
	}
	return out, nil
}

// KWPUnwrap reverses KWP, verifying the ICV/length fields and returning the
// original plaintext.
func KWPUnwrap(kek, wrapped []byte) ([]byte, error) {
	block, err := newBlock(kek)
	if err != nil {
		return nil, err
	}
	icv2 := []byte{0xA6, 0x59, 0x59, 0xA6}

	if len(wrapped) == 16 {
		dec := make([]byte, 16)
		block.Decrypt(dec, wrapped)
		if !constEq(dec[:4], icv2) {
			return nil, errs.New(errs.Auth, "belt.KWPUnwrap: bad ICV")
		}
		mli := binary.BigEndian.Uint32(dec[4:8])
		if mli > 8 {
			return nil, errs.New(errs.Auth, "belt.KWPUnwrap: bad length field")
		}
		return append([]byte(nil), dec[8:8+mli]...), nil
	}

	if len(wrapped) < 16 || (len(wrapped)-8)%8 != 0 {
		return nil, errs.New(errs.BadInput, "belt.KWPUnwrap: malformed input")
	}
	n := (len(wrapped) - 8) / 8
	a := append([]byte(nil), wrapped[:8]...)
	r := make([][]byte, n)
	for i := 0; i < n; i++ {
		r[i] = append([]byte(nil), wrapped[8+i*8:8+(i+1)*8]...)
	}

	buf := make([]byte, 16)
	for j := 5; j >= 0; j-- {
		for i := n - 1; i >= 0; i-- {
			t := uint64(n*j+i) + 1
			var tb [8]byte
			binary.BigEndian.PutUint64(tb[:], t)
			xored := make([]byte, 8)
			for k := 0; k < 8; k++ {
				xored[k] = a[k] ^ tb[k]
			}
			copy(buf[:8], xored)
			copy(buf[8:], r[i])
			dec := make([]byte, 16)
			block.Decrypt(dec, buf)
			a = dec[:8]
			r[i] = dec[8:]
		}
	}

	if !constEq(a[:4], icv2) {
		return nil, errs.New(errs.Auth, "belt.KWPUnwrap: bad ICV")
	}
	mli := binary.BigEndian.Uint32(a[4:8])
	full := make([]byte, n*8)
	for i := 0; i < n; i++ {
		copy(full[i*8:], r[i])
	}
	if int(mli) > len(full) {
		return nil, errs.New(errs.Auth, "belt.KWPUnwrap: bad length field")
	}
	return full[:mli], nil
}

func constEq(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
