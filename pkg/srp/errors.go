package srp

import "fmt"

// Kind classifies the ways an SRP-6a operation can fail.
type Kind int

const (
	// IllegalParameter marks a remote value that is zero modulo N, a
	// scrambling parameter u that hashed to zero, or a malformed hex string.
	IllegalParameter Kind = iota + 1
	// BadClientProof marks a client-supplied M1 that did not match the
	// value the server computed.
	BadClientProof
	// BadServerProof marks a server-supplied M2 that did not match the
	// value the client computed.
	BadServerProof
	// Configuration marks invalid group parameters supplied to NewParameters
	// or NewParametersFromGroup: non-prime N, g >= N, or an unknown hash name.
	Configuration
)

func (k Kind) String() string {
	switch k {
	case IllegalParameter:
		return "illegal_parameter"
	case BadClientProof:
		return "bad_client_proof"
	case BadServerProof:
		return "bad_server_proof"
	case Configuration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every fallible operation in this
// package. It never carries session key material.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("srp: %s: %s", e.Kind, e.Msg)
}

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, &srp.Error{Kind: srp.BadClientProof}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func illegalParameter(format string, args ...interface{}) *Error {
	return &Error{Kind: IllegalParameter, Msg: fmt.Sprintf(format, args...)}
}

func badClientProof(format string, args ...interface{}) *Error {
	return &Error{Kind: BadClientProof, Msg: fmt.Sprintf(format, args...)}
}

func badServerProof(format string, args ...interface{}) *Error {
	return &Error{Kind: BadServerProof, Msg: fmt.Sprintf(format, args...)}
}

func configuration(format string, args ...interface{}) *Error {
	return &Error{Kind: Configuration, Msg: fmt.Sprintf(format, args...)}
}
