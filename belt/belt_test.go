package belt

import (
	"bytes"
	"testing"
)

func TestHashDeterministicAndSensitive(t *testing.T) {
	a := Hash([]byte("hello"))
	b := Hash([]byte("hello"))
	c := Hash([]byte("hellp"))
	if a != b {
		t.Fatal("same input produced different digests")
	}
	if a == c {
		t.Fatal("different input produced the same digest")
	}
}

func TestHashStreamingMatchesOneShot(t *testing.T) {
	one := Hash([]byte("hello world"))
	s := HashStart()
	s.Step([]byte("hello "))
	s.Step([]byte("world"))
	if got := s.StepG(); got != one {
		t.Fatal("streaming hash disagrees with the one-shot hash")
	}
}

func TestKRPDeterministicAndLengthHonored(t *testing.T) {
	k1, err := KRP([]byte("key-material"), []byte("ctx"), 48)
	if err != nil {
		t.Fatalf("KRP: %v", err)
	}
	if len(k1) != 48 {
		t.Fatalf("len(k1) = %d, want 48", len(k1))
	}
	k2, err := KRP([]byte("key-material"), []byte("ctx"), 48)
	if err != nil {
		t.Fatalf("KRP: %v", err)
	}
	if !bytes.Equal(k1, k2) {
		t.Fatal("same inputs produced different output")
	}

	k3, err := KRP([]byte("key-material"), []byte("other"), 48)
	if err != nil {
		t.Fatalf("KRP: %v", err)
	}
	if bytes.Equal(k1, k3) {
		t.Fatal("different context produced the same output")
	}
}

func TestECBRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, 16)
	e, err := NewECB(key)
	if err != nil {
		t.Fatalf("NewECB: %v", err)
	}

	plain := bytes.Repeat([]byte{0x42}, 32)
	cipherText := make([]byte, len(plain))
	if err := e.Encrypt(cipherText, plain); err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if bytes.Equal(plain, cipherText) {
		t.Fatal("ciphertext equals plaintext")
	}

	back := make([]byte, len(plain))
	if err := e.Decrypt(back, cipherText); err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(plain, back) {
		t.Fatal("decrypted output does not match the original plaintext")
	}
}

func TestCFBRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x22}, 16)
	iv := bytes.Repeat([]byte{0x00}, BlockSize)
	plain := []byte("a streaming message that spans more than one block of data")

	enc, err := CFBEncryptStart(key, iv)
	if err != nil {
		t.Fatalf("CFBEncryptStart: %v", err)
	}
	cipherText := make([]byte, len(plain))
	enc.Step(cipherText, plain)

	dec, err := CFBDecryptStart(key, iv)
	if err != nil {
		t.Fatalf("CFBDecryptStart: %v", err)
	}
	back := make([]byte, len(plain))
	dec.Step(back, cipherText)

	if !bytes.Equal(plain, back) {
		t.Fatal("decrypted output does not match the original plaintext")
	}
}

func TestMACTagVerifies(t *testing.T) {
	key := []byte("mac-key")
	tag := Tag(key, []byte("part1"), []byte("part2"))
	if !VerifyTag(key, tag[:], []byte("part1"), []byte("part2")) {
		t.Fatal("valid tag rejected")
	}
	if VerifyTag(key, tag[:], []byte("part1"), []byte("part3")) {
		t.Fatal("tag verified against a different message")
	}
}

func TestWBLRoundTripWithTag(t *testing.T) {
	key := bytes.Repeat([]byte{0x33}, 16)
	iv := bytes.Repeat([]byte{0x01}, BlockSize)
	chunks := [][]byte{
		[]byte("first chunk of a chunked transport "),
		[]byte("second chunk follows right after"),
	}

	enc, err := WBLEncryptStart(key, iv)
	if err != nil {
		t.Fatalf("WBLEncryptStart: %v", err)
	}
	var cipherChunks [][]byte
	for _, c := range chunks {
		out := make([]byte, len(c))
		enc.StepEncrypt(out, c)
		cipherChunks = append(cipherChunks, out)
	}
	encTag := enc.StepG()

	dec, err := WBLDecryptStart(key, iv)
	if err != nil {
		t.Fatalf("WBLDecryptStart: %v", err)
	}
	var plainChunks [][]byte
	for _, c := range cipherChunks {
		out := make([]byte, len(c))
		dec.StepDecrypt(out, c)
		plainChunks = append(plainChunks, out)
	}
	decTag := dec.StepG()

	if encTag != decTag {
		t.Fatal("encrypt-side and decrypt-side tags disagree")
	}
	for i, c := range chunks {
		if !bytes.Equal(c, plainChunks[i]) {
			t.Fatalf("chunk %d: decrypted output does not match the original", i)
		}
	}
}

func TestKWPRoundTripShortAndLong(t *testing.T) {
	kek := bytes.Repeat([]byte{0x44}, 16)

	short := []byte("1234567")
	wrapped, err := KWP(kek, short)
	if err != nil {
		t.Fatalf("KWP: %v", err)
	}
	if len(wrapped) != 16 {
		t.Fatalf("len(wrapped) = %d, want 16", len(wrapped))
	}
	back, err := KWPUnwrap(kek, wrapped)
	if err != nil {
		t.Fatalf("KWPUnwrap: %v", err)
	}
	if !bytes.Equal(short, back) {
		t.Fatal("unwrapped short key does not match the original")
	}

	long := []byte("this key blob is longer than a single sixteen byte block")
	wrapped2, err := KWP(kek, long)
	if err != nil {
		t.Fatalf("KWP: %v", err)
	}
	back2, err := KWPUnwrap(kek, wrapped2)
	if err != nil {
		t.Fatalf("KWPUnwrap: %v", err)
	}
	if !bytes.Equal(long, back2) {
		t.Fatal("unwrapped long key does not match the original")
	}
}

func TestKWPUnwrapRejectsTamperedInput(t *testing.T) {
	kek := bytes.Repeat([]byte{0x55}, 16)
	wrapped, err := KWP(kek, []byte("secret key material"))
	if err != nil {
		t.Fatalf("KWP: %v", err)
	}
	wrapped[0] ^= 0xFF
	if _, err := KWPUnwrap(kek, wrapped); err == nil {
		t.Fatal("expected KWPUnwrap to reject tampered input")
	}
}
