// Package failure classifies errors returned by external dependencies
// (text-generation API, SMTP server) into a small set of kinds so callers can
// degrade without parsing error strings.
package failure

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
)

// Kind is the category of a dependency failure.
type Kind string

const (
	DependencyUnavailable Kind = "dependency_unavailable"
	AuthFailure           Kind = "auth_failure"
	Timeout               Kind = "timeout"
	Unknown               Kind = "unknown"
)

// Failure wraps a dependency error with its kind.
type Failure struct {
	Kind Kind
	Err  error
}

func (f *Failure) Error() string {
	if f == nil || f.Err == nil {
		return string(Unknown)
	}
	return f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// New wraps err with an explicit kind. A nil err yields nil.
func New(kind Kind, err error) *Failure {
	if err == nil {
		return nil
	}
	return &Failure{Kind: kind, Err: err}
}

// From returns err as a *Failure, classifying it with Classify when it does
// not already carry a kind.
func From(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: Classify(err), Err: err}
}

// KindOf reports the kind of err; Unknown for unclassified errors.
func KindOf(err error) Kind {
	if f := From(err); f != nil {
		return f.Kind
	}
	return ""
}

// Classify maps transport-level errors to a kind. Protocol-specific codes
// (HTTP status, SMTP reply) are handled by the callers that understand them.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return Timeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return DependencyUnavailable
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return DependencyUnavailable
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return Timeout
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "broken pipe"),
		strings.Contains(msg, "eof"):
		return DependencyUnavailable
	}
	return Unknown
}
