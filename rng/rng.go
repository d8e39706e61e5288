// Package rng wraps the caller-supplied randomness callback described in
// spec.md §6: a function of signature (out_buf, n, state) -> void, whose
// refusal propagates untranslated as errs.BadRNG.
package rng

import (
	"crypto/rand"
	"io"

	"stb34101/errs"
)

// Source produces cryptographically secure randomness on demand. Read must
// fill buf completely or return a non-nil error; partial fills are treated
// as a failure by every caller in this module.
type Source interface {
	Read(buf []byte) error
}

// Func adapts a plain function to the Source interface, mirroring the
// spec's (out_buf, n, state) -> void callback shape collapsed to a single
// closure over state.
type Func func(buf []byte) error

// Read implements Source.
func (f Func) Read(buf []byte) error { return f(buf) }

// System is the default Source, backed by crypto/rand.
var System Source = Func(func(buf []byte) error {
	_, err := io.ReadFull(rand.Reader, buf)
	if err != nil {
		return errs.Wrap(errs.BadRNG, err, "system randomness source failed")
	}
	return nil
})

// Bytes draws n fresh octets from src.
func Bytes(src Source, n int) ([]byte, error) {
	if src == nil {
		return nil, errs.New(errs.BadRNG, "nil randomness source")
	}
	buf := make([]byte, n)
	if err := src.Read(buf); err != nil {
		return nil, errs.Wrap(errs.BadRNG, err, "randomness source refused")
	}
	return buf, nil
}
