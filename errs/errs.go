// Package errs implements the error taxonomy of spec.md §7: a closed set of
// kinds shared by every public function in this module that can fail, so
// callers can branch on errs.Is(err, errs.BadPoint) instead of matching
// strings.
package errs

import (
	"errors"
	"fmt"
)

// Kind is one of the seven-plus-sentinel error kinds the core reports.
type Kind int

const (
	// BadInput marks a null/misaligned argument, an impossible length, or
	// an out-of-range enum value.
	BadInput Kind = iota + 1
	// BadParams marks a parameter set that fails mathematical validation
	// (curve, ring, pfok/stb99 seed).
	BadParams
	// BadRNG marks a randomness callback that refused or returned an error.
	BadRNG
	// BadPubkey marks a public key that does not decode or is out of range.
	BadPubkey
	// BadPrivkey marks a private key that does not decode or is out of range.
	BadPrivkey
	// BadPoint marks a decoded curve point that is not on the curve.
	BadPoint
	// BadCert marks a certificate whose val callback failed.
	BadCert
	// Auth marks a failed MAC or algebraic identity check.
	Auth
	// BadLogic marks a step invoked in a disallowed order.
	BadLogic
	// OutOfMemory marks an allocation or scratch-budget failure.
	OutOfMemory
	// Max names the transport's "this is the last chunk" condition. It is
	// not a failure. The driver package signals that condition with its own
	// driver.ErrMax value (returned by Transport.Read), not with this Kind.
	Max
)

func (k Kind) String() string {
	switch k {
	case BadInput:
		return "bad_input"
	case BadParams:
		return "bad_params"
	case BadRNG:
		return "bad_rng"
	case BadPubkey:
		return "bad_pubkey"
	case BadPrivkey:
		return "bad_privkey"
	case BadPoint:
		return "bad_point"
	case BadCert:
		return "bad_cert"
	case Auth:
		return "auth"
	case BadLogic:
		return "bad_logic"
	case OutOfMemory:
		return "out_of_memory"
	case Max:
		return "max"
	default:
		return "unknown"
	}
}

// Error wraps a Kind with context and an optional underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, errs.Auth) work directly against a Kind value.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && e.Kind == k
}

// Error implements the error interface for a bare Kind so that
// errors.Is(err, errs.Auth) and similar comparisons work without
// constructing an *Error first.
func (k Kind) Error() string { return k.String() }

// New constructs an *Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap constructs an *Error of the given kind around an existing error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Is reports whether err's kind matches k.
func Is(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return errors.Is(err, k)
}
