package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidConfig    = errors.New("invalid config")
	ErrNoCandidates     = errors.New("candidate source is empty")
	ErrInvalidCandidate = errors.New("invalid candidate label")
	ErrUnknownSuffix    = errors.New("no rdap service known for suffix")
)

// ErrorKind classifies a failed check.
type ErrorKind string

const (
	KindTimeout           ErrorKind = "timeout"
	KindNetwork           ErrorKind = "network"
	KindRateLimited       ErrorKind = "rate_limited"
	KindServer            ErrorKind = "server"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindUnexpectedStatus  ErrorKind = "unexpected_status"
	KindInvalidCandidate  ErrorKind = "invalid_candidate"
	KindCanceled          ErrorKind = "canceled"
)

func (k ErrorKind) Retryable() bool {
	switch k {
	case KindTimeout, KindNetwork, KindRateLimited, KindServer:
		return true
	default:
		return false
	}
}

// CheckError describes why a check failed.
type CheckError struct {
	Kind       ErrorKind     `json:"kind"`
	Domain     string        `json:"domain,omitempty"`
	StatusCode int           `json:"status_code,omitempty"`
	RetryAfter time.Duration `json:"retry_after,omitempty"`
	Err        error         `json:"-"`
}

func (e *CheckError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := string(e.Kind)
	if e.Domain != "" {
		base = fmt.Sprintf("%s: %s", e.Domain, e.Kind)
	}
	if e.StatusCode != 0 {
		base += fmt.Sprintf(" (status=%d)", e.StatusCode)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *CheckError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err is a *CheckError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}

// IsFatal reports whether err should abort a run before any check starts.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrNoCandidates)
}
