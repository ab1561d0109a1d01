package upstream

import (
	"errors"
	"log/slog"
	"time"

	"availability-engine/internal/pkg/errs"
)

type ErrorKind string

type Error struct {
	Kind       ErrorKind
	Status     int
	RetryAfter time.Duration
	msg        string
	err        error // wrapped low-level error
}

func (e Error) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e Error) Unwrap() error {
	return e.err
}

// Is lets callers classify upstream failures with the shared sentinels.
func (e Error) Is(target error) bool {
	switch e.Kind {
	case KindAuth:
		return target == errs.ErrAuth
	case KindTransport, KindTimeout, KindServer, KindClient, KindDecode:
		return target == errs.ErrUpstreamTransport
	case KindRateLimited:
		return target == errs.ErrRateLimitExceeded
	}
	return false
}

func wrapErr(logger *slog.Logger, kind ErrorKind, status int, msg string, err error) error {
	logger.Warn("Upstream error: "+msg,
		slog.String("kind", string(kind)),
		slog.Int("status", status),
	)

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return Error{Kind: kind, Status: status, msg: msg, err: err}
}

func IsKind(err error, kind ErrorKind) bool {
	var e Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

const (
	KindAuth        ErrorKind = "AUTH"
	KindTransport   ErrorKind = "TRANSPORT"
	KindTimeout     ErrorKind = "TIMEOUT"
	KindServer      ErrorKind = "SERVER"
	KindClient      ErrorKind = "CLIENT"
	KindRateLimited ErrorKind = "RATE_LIMITED"
	KindDecode      ErrorKind = "DECODE"
)
