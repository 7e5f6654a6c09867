package types

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrInvalidOption = goerr.New("invalid option")

	ErrMalformed           = goerr.New("malformed repository path")
	ErrNotFound            = goerr.New("repository not found")
	ErrUpstreamAuthFailed  = goerr.New("upstream authentication failed")
	ErrRateLimited         = goerr.New("upstream rate limit exceeded")
	ErrUpstreamUnavailable = goerr.New("upstream unavailable")
	ErrMissingTimestamp    = goerr.New("community metrics have no usable timestamp")
)

// ErrorKind is the machine readable name of a failure returned to callers.
type ErrorKind string

const (
	ErrKindMalformed           ErrorKind = "Malformed"
	ErrKindNotFound            ErrorKind = "NotFound"
	ErrKindUpstreamAuthFailed  ErrorKind = "UpstreamAuthFailed"
	ErrKindRateLimited         ErrorKind = "RateLimited"
	ErrKindUpstreamUnavailable ErrorKind = "UpstreamUnavailable"
	ErrKindMissingTimestamp    ErrorKind = "MissingTimestamp"
	ErrKindInternal            ErrorKind = "Internal"
)

var errorKinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrMalformed, ErrKindMalformed},
	{ErrNotFound, ErrKindNotFound},
	{ErrUpstreamAuthFailed, ErrKindUpstreamAuthFailed},
	{ErrRateLimited, ErrKindRateLimited},
	{ErrUpstreamUnavailable, ErrKindUpstreamUnavailable},
	{ErrMissingTimestamp, ErrKindMissingTimestamp},
}

// KindOf returns the kind of the first known sentinel found in err's chain,
// or ErrKindInternal.
func KindOf(err error) ErrorKind {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ErrKindInternal
}
