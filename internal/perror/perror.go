// Package perror defines the three-kind error taxonomy that terminates
// a frame parser's output stream: unsupported protocol, bad
// request/response framing, and a reserved server-error kind for
// features that are recognized but not implemented by the core.
package perror

import "github.com/pkg/errors"

// Kind distinguishes the three fatal error categories a parser can
// raise. Every Kind is terminal: once raised, the parser's output
// stream ends.
type Kind int

const (
	// KindUnsupportedProtocol is raised when the protocol token has the
	// HTTP/<digits>.<digits> shape but is not HTTP/1.0 or HTTP/1.1. Other
	// unrecognized tokens are reported as KindBadRequest/KindBadResponse.
	KindUnsupportedProtocol Kind = iota
	// KindBadRequest is raised by the server-side parser on malformed
	// framing (bad request line, bad header line, bad chunk size, ...).
	KindBadRequest
	// KindBadResponse is the client-side counterpart of KindBadRequest.
	KindBadResponse
	// KindServerError is reserved for features the core recognizes but
	// does not implement (e.g. multipart/byteranges). The core never
	// raises it for Content-Length or chunked framing.
	KindServerError
)

func (k Kind) String() string {
	switch k {
	case KindUnsupportedProtocol:
		return "unsupported_protocol"
	case KindBadRequest:
		return "bad_request"
	case KindBadResponse:
		return "bad_response"
	case KindServerError:
		return "server_error"
	default:
		return "unknown"
	}
}

// Error is the concrete error type surfaced on a parser's output
// stream. LooksHTTPish is only meaningful when Kind is
// KindUnsupportedProtocol: it distinguishes an HTTP/2-preface-shaped
// protocol token (true) from bytes that don't resemble HTTP at all
// (false), so an external collaborator can decide whether falling back
// to another protocol handler on the same bytes is worth trying.
type Error struct {
	Kind         Kind
	Reason       string
	LooksHTTPish bool
	cause        error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Kind.String() + ": " + e.Reason + ": " + e.cause.Error()
	}
	return e.Kind.String() + ": " + e.Reason
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(format string, args ...any) error {
	return errors.Errorf(format, args...)
}

// UnsupportedProtocol builds a KindUnsupportedProtocol error for the
// given protocol token.
func UnsupportedProtocol(token string, looksHTTPish bool) *Error {
	return &Error{
		Kind:         KindUnsupportedProtocol,
		Reason:       newError("unsupported protocol %q", token).Error(),
		LooksHTTPish: looksHTTPish,
	}
}

// BadRequest wraps reason as a KindBadRequest error.
func BadRequest(reason string) *Error {
	return &Error{Kind: KindBadRequest, Reason: reason}
}

// BadRequestf formats a KindBadRequest error.
func BadRequestf(format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Reason: newError(format, args...).Error()}
}

// BadResponse wraps reason as a KindBadResponse error.
func BadResponse(reason string) *Error {
	return &Error{Kind: KindBadResponse, Reason: reason}
}

// BadResponsef formats a KindBadResponse error.
func BadResponsef(format string, args ...any) *Error {
	return &Error{Kind: KindBadResponse, Reason: newError(format, args...).Error()}
}

// BadFraming picks BadRequest or BadResponse depending on server, so
// framing code shared between both parser roles does not need an
// if/else at every call site.
func BadFraming(server bool, format string, args ...any) *Error {
	if server {
		return BadRequestf(format, args...)
	}
	return BadResponsef(format, args...)
}

// ServerError builds a KindServerError error, wrapping cause for
// diagnostics.
func ServerError(reason string, cause error) *Error {
	return &Error{Kind: KindServerError, Reason: reason, cause: cause}
}
