// Package protoerr defines the error-kind taxonomy of spec §7, shaped on
// educationofjon-core/rhp/v2/transport.go's RPCError: a typed error that
// carries a stable Kind alongside a human description, comparable with
// errors.Is instead of string matching.
package protoerr

import "fmt"

// Kind classifies why an operation failed.
type Kind int

const (
	// KindConfig covers a bad address/port/username/path.
	KindConfig Kind = iota
	// KindFileIO covers open/read/size failures, an empty file, or a
	// plaintext longer than 65535 bytes.
	KindFileIO
	// KindTransport covers connect/send/recv/short-read failures.
	KindTransport
	// KindCryptoSize covers an unexpected RSA public-key serialization
	// length, or a decrypted AES key of the wrong length.
	KindCryptoSize
	// KindCryptoOp covers an underlying RSA/AES operation failure.
	KindCryptoOp
	// KindProtocol covers an unexpected response code, wrong payload size,
	// or a mismatched echoed id/filename/contentSize.
	KindProtocol
	// KindRegistrationRefused is response code 1601.
	KindRegistrationRefused
	// KindReconnectDenied is response code 1606.
	KindReconnectDenied
	// KindServerGenericError is response code 1607.
	KindServerGenericError
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "Config"
	case KindFileIO:
		return "FileIO"
	case KindTransport:
		return "Transport"
	case KindCryptoSize:
		return "CryptoSize"
	case KindCryptoOp:
		return "CryptoOp"
	case KindProtocol:
		return "Protocol"
	case KindRegistrationRefused:
		return "RegistrationRefused"
	case KindReconnectDenied:
		return "ReconnectDenied"
	case KindServerGenericError:
		return "ServerGenericError"
	default:
		return "Unknown"
	}
}

// Error is the protocol's error type: a Kind plus a human-readable
// description and an optional wrapped cause.
type Error struct {
	Kind        Kind
	Description string
	Cause       error
}

// New builds an *Error with no wrapped cause.
func New(kind Kind, description string) *Error {
	return &Error{Kind: kind, Description: description}
}

// Wrap builds an *Error that wraps cause, following the teacher's
// wrapErr/wrapResponseErr pattern of attaching a kind to an underlying
// failure rather than discarding it.
func Wrap(kind Kind, description string, cause error) *Error {
	return &Error{Kind: kind, Description: description, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Description, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Description)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind, so callers can
// write errors.Is(err, protoerr.New(protoerr.KindTransport, "")) without
// caring about Description or Cause.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}
