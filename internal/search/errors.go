package search

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"

	"dashsearch/internal/api"
)

// ErrorKind classifies a failed search into what the user is told
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	ErrQueryTooShort
	ErrUnauthenticated
	ErrTimeout
	ErrUnreachable
	ErrUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNone:
		return "none"
	case ErrQueryTooShort:
		return "query_too_short"
	case ErrUnauthenticated:
		return "unauthenticated"
	case ErrTimeout:
		return "timeout"
	case ErrUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Message returns the user-facing text for the error banner
func (k ErrorKind) Message() string {
	switch k {
	case ErrNone:
		return ""
	case ErrQueryTooShort:
		return "Search needs at least 2 characters."
	case ErrUnauthenticated:
		return "Your session has expired. Sign in again to search."
	case ErrTimeout:
		return "The search took too long. Keep typing to try again."
	case ErrUnreachable:
		return "Cannot reach the server. Check your connection."
	default:
		return "Search failed. Please try again."
	}
}

// Classify maps a transport or backend error to an ErrorKind.
// cancelled is true when err comes from a superseded or closed request;
// such errors are never shown to the user.
func Classify(err error) (kind ErrorKind, cancelled bool) {
	if err == nil {
		return ErrNone, false
	}
	if errors.Is(err, context.Canceled) {
		return ErrNone, true
	}

	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Code {
		case http.StatusUnauthorized:
			return ErrUnauthenticated, false
		case http.StatusBadRequest:
			return ErrQueryTooShort, false
		default:
			return ErrUnknown, false
		}
	}
	if errors.Is(err, api.ErrNoToken) {
		return ErrUnauthenticated, false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout, false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout, false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrUnreachable, false
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrUnreachable, false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		// connection dropped before any response arrived
		return ErrUnreachable, false
	}

	return ErrUnknown, false
}
