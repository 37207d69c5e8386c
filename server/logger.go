package server

import "github.com/sirupsen/logrus"

// Logger is used for logging formatted diagnostic messages. It has the
// shape of log.Printf: callers can pass any *log.Logger-alike without
// pulling in logrus.
type Logger interface {
	// Printf must have the same semantics as log.Printf.
	Printf(format string, args ...interface{})
}

var defaultLogger = logrus.New() //nolint:gochecknoglobals

func (s *Server) logger() Logger {
	if s.opts.Logger == nil {
		return defaultLogger
	}

	return s.opts.Logger
}
