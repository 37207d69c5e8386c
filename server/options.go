package server

import (
	"time"

	"github.com/ztun/ztun"
)

// AuthenticationType selects which branch of Server.HandleMessage's
// request-handling state machine a Server runs: spec.md's
// Server::new options name this "authentication_type".
type AuthenticationType int

const (
	// AuthNone skips authentication entirely.
	AuthNone AuthenticationType = iota
	// AuthShortTerm authenticates with a bare password, HMAC-only.
	AuthShortTerm
	// AuthLongTerm authenticates with username/realm/password and a
	// server-issued nonce.
	AuthLongTerm
)

func (a AuthenticationType) String() string {
	switch a {
	case AuthNone:
		return "none"
	case AuthShortTerm:
		return "short_term"
	case AuthLongTerm:
		return "long_term"
	default:
		return "unknown"
	}
}

// Options configures a Server. The zero value is usable: it selects
// AuthNone, realm "default", algorithms [MD5, SHA256], a logrus
// default logger, and a wall-clock Clock — exactly the defaults
// spec.md's Server::new documents.
type Options struct {
	AuthenticationType AuthenticationType
	Realm              string
	Algorithms         []stun.Algorithm
	Logger             Logger
	// Clock returns the current time in microseconds since the Unix
	// epoch; spec.md's CONCURRENCY & RESOURCE MODEL assumes it is
	// monotonically non-decreasing across consecutive calls. Defaults
	// to a wall-clock reading when nil.
	Clock func() uint64
}

func (o Options) withDefaults() Options {
	if o.Realm == "" {
		o.Realm = "default"
	}
	if len(o.Algorithms) == 0 {
		o.Algorithms = []stun.Algorithm{stun.AlgorithmMD5, stun.AlgorithmSHA256}
	}
	if o.Clock == nil {
		o.Clock = wallClockMicros
	}

	return o
}

func wallClockMicros() uint64 {
	return uint64(time.Now().UnixMicro()) //nolint:gosec // G115, monotonic wall clock never negative
}
