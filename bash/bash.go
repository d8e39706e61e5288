// Package bash is the external collaborator sponge. No other package of this
// module calls it (bake uses belt; driver fingerprints with blake3). Like
// belt, the permutation itself is out of scope; what this package provides
// is the sponge API surface (Hash, Prg) backed by a real extendable-output
// function rather than a from-scratch reimplementation.
package bash

import (
	"io"

	"github.com/cloudflare/circl/xof"

	"stb34101/errs"
)

// State is a streaming sponge: Step absorbs, StepG/Squeeze produce output.
// It mirrors belt's Start/Step/StepG shape so bake's transcript code reads
// the same way regardless of which primitive it is calling into.
type State struct {
	x xof.XOF
}

// Start begins a new sponge session at the requested output width (the
// "bash-f[l]" family is parameterized by digest size the way belt.Hash is
// fixed at 256 bits; here l is in bits, matching spec.md §4.E's bashHash
// naming).
func Start(l int) *State {
	id := xof.SHAKE256
	if l <= 128 {
		id = xof.SHAKE128
	}
	return &State{x: id.New()}
}

// Step absorbs more input.
func (s *State) Step(data []byte) { s.x.Write(data) }

// StepG squeezes n bytes of output. Once squeezing has begun, further Step
// calls are invalid (the sponge has switched from absorbing to squeezing),
// mirroring the underlying construction.
func (s *State) StepG(n int) ([]byte, error) {
	out := make([]byte, n)
	if _, err := io.ReadFull(s.x, out); err != nil {
		return nil, errs.Wrap(errs.BadLogic, err, "bash: squeeze failed")
	}
	return out, nil
}

// Clone duplicates the sponge's current state, letting a caller branch a
// transcript (for example, to compute two different tags from the same
// prefix).
func (s *State) Clone() *State { return &State{x: s.x.Clone()} }

// Hash is the one-shot sponge hash of msg to an l-bit digest.
func Hash(msg []byte, l int) ([]byte, error) {
	s := Start(l)
	s.Step(msg)
	return s.StepG(l / 8)
}

// Prg is a one-shot deterministic pseudorandom generator seeded by key,
// producing n octets (spec.md §4.E's bashPrg). bake derives its keys with
// belt.KRP and does not call Prg.
func Prg(key []byte, n int) ([]byte, error) {
	s := Start(256)
	s.Step(key)
	return s.StepG(n)
}
