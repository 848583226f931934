// Package errs defines the error taxonomy shared by the wallet engine.
//
// Every error that crosses a package boundary carries a Kind so callers (and the
// HTTP layer) can tell "no data" from "failed", and a transient network failure
// from a wrong password. Match kinds with errors.Is against the sentinels below,
// or extract typed details with errors.As.
package errs

import (
	"errors"
	"fmt"
	"math/big"
	"time"
)

// Kind classifies an error.
type Kind string

const (
	KindUnknown           Kind = "UNKNOWN"
	KindValidation        Kind = "VALIDATION"
	KindInvalidSeed       Kind = "INVALID_SEED"
	KindAuth              Kind = "AUTH"
	KindRateLimited       Kind = "RATE_LIMITED"
	KindInsufficientFunds Kind = "INSUFFICIENT_FUNDS"
	KindNetwork           Kind = "NETWORK"
	KindRPC               Kind = "RPC"
	KindTimeout           Kind = "TIMEOUT"
	KindNotFound          Kind = "NOT_FOUND"
	KindFormat            Kind = "FORMAT"
	KindDecryption        Kind = "DECRYPTION"
)

// Error is a classified error with an optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind when target is a bare sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrInvalidSeed       = &Error{Kind: KindInvalidSeed}
	ErrAuth              = &Error{Kind: KindAuth}
	ErrRateLimited       = &Error{Kind: KindRateLimited}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds}
	ErrNetwork           = &Error{Kind: KindNetwork}
	ErrRPC               = &Error{Kind: KindRPC}
	ErrTimeout           = &Error{Kind: KindTimeout}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrFormat            = &Error{Kind: KindFormat}
	ErrDecryption        = &Error{Kind: KindDecryption}
)

func newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Validation returns a VALIDATION error.
func Validation(format string, args ...any) error { return newf(KindValidation, format, args...) }

// InvalidSeed returns an INVALID_SEED error.
func InvalidSeed(format string, args ...any) error { return newf(KindInvalidSeed, format, args...) }

// Auth returns an AUTH error.
func Auth(format string, args ...any) error { return newf(KindAuth, format, args...) }

// NotFound returns a NOT_FOUND error.
func NotFound(format string, args ...any) error { return newf(KindNotFound, format, args...) }

// Format returns a FORMAT error.
func Format(format string, args ...any) error { return newf(KindFormat, format, args...) }

// Timeout returns a TIMEOUT error.
func Timeout(format string, args ...any) error { return newf(KindTimeout, format, args...) }

// Network wraps a transport failure as a NETWORK error.
func Network(msg string, err error) error {
	return &Error{Kind: KindNetwork, Msg: msg, Err: err}
}

// Decryption is the single error returned for both a wrong password and a
// tampered ciphertext.
func Decryption() error {
	return &Error{Kind: KindDecryption, Msg: "decryption failed"}
}

// RateLimitedError is returned while authentication is locked out.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many failed attempts, retry after %v", e.RetryAfter.Round(time.Second))
}

func (e *RateLimitedError) Is(target error) bool { return target == ErrRateLimited }

// RPCError is an error object returned by a JSON-RPC endpoint.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (e *RPCError) Is(target error) bool { return target == ErrRPC }

// InsufficientFundsError reports the balance shortfall in base units.
type InsufficientFundsError struct {
	Have *big.Int
	Need *big.Int
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: have %s wei, need %s wei", e.Have, e.Need)
}

func (e *InsufficientFundsError) Is(target error) bool { return target == ErrInsufficientFunds }

var kinds = []*Error{
	ErrValidation, ErrInvalidSeed, ErrAuth, ErrRateLimited, ErrInsufficientFunds,
	ErrNetwork, ErrRPC, ErrTimeout, ErrNotFound, ErrFormat, ErrDecryption,
}

// KindOf returns the kind of err, or KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k.Kind
		}
	}
	return KindUnknown
}

// Retryable reports whether err is transient (network or RPC).
func Retryable(err error) bool {
	k := KindOf(err)
	return k == KindNetwork || k == KindRPC
}
