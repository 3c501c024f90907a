package wishlist

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies a wishlist failure.
type ErrorKind string

const (
	// KindAuthMissing means no identity was resolvable; no call was made.
	KindAuthMissing ErrorKind = "auth_missing"
	// KindNetwork covers transport failures and non-success responses.
	KindNetwork ErrorKind = "network"
	// KindTimeout means the remote did not answer within the call timeout.
	KindTimeout ErrorKind = "timeout"
	// KindIdentityChanged means the response belonged to an identity that is
	// no longer active and was discarded.
	KindIdentityChanged ErrorKind = "identity_changed"
)

// Error is returned by every Synchronizer and Remote operation.
type Error struct {
	Kind ErrorKind
	// Message is the server's message when it sent one.
	Message string
	// Status is the HTTP status for non-success responses, 0 otherwise.
	Status int
	Err    error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("wishlist: %s: %v", msg, e.Err)
	}
	return "wishlist: " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind, so errors.Is(err, ErrTimeout) works for any timeout.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Status == 0 && t.Err == nil
}

var (
	ErrAuthMissing     = &Error{Kind: KindAuthMissing}
	ErrNetwork         = &Error{Kind: KindNetwork}
	ErrTimeout         = &Error{Kind: KindTimeout}
	ErrIdentityChanged = &Error{Kind: KindIdentityChanged}
)

// KindOf returns the kind of err, or "" when err is not a wishlist error.
func KindOf(err error) ErrorKind {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Kind
	}
	return ""
}

// classify maps an arbitrary remote error onto the taxonomy.
func classify(err error) *Error {
	if err == nil {
		return nil
	}
	var werr *Error
	if errors.As(err, &werr) {
		return werr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &Error{Kind: KindTimeout, Err: err}
	}
	return &Error{Kind: KindNetwork, Err: err}
}
