package scoring

import (
	"errors"
	"fmt"
)

// Kind classifies a scoring failure.
type Kind int

const (
	KindMissingCredential Kind = iota + 1
	KindTransport
	KindMalformedResponse
)

func (k Kind) String() string {
	switch k {
	case KindMissingCredential:
		return "missing credential"
	case KindTransport:
		return "transport"
	case KindMalformedResponse:
		return "malformed response"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrMissingCredential = errors.New("no API key configured for scoring")
	ErrTransport         = errors.New("scoring request failed")
	ErrMalformedResponse = errors.New("scoring response was not a valid score report")
)

// Error is returned by Client.Score. The attempt that produced it is left
// intact so the caller can retry.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.sentinel().Error()
	}
	return fmt.Sprintf("%s: %v", e.sentinel(), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindMissingCredential:
		return ErrMissingCredential
	case KindTransport:
		return ErrTransport
	default:
		return ErrMalformedResponse
	}
}
