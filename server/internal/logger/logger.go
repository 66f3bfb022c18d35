// Package logger provides the service's zerolog logger.
package logger

import (
	"io"
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

type options struct {
	out   io.Writer
	level zerolog.Level
}

// Option configures New.
type Option func(*options)

// WithWriter sends log lines to w instead of stdout.
func WithWriter(w io.Writer) Option { return func(o *options) { o.out = w } }

// WithLevel parses lvl ("debug", "info", ...); unknown values keep info.
func WithLevel(lvl string) Option {
	return func(o *options) {
		if l, err := zerolog.ParseLevel(lvl); err == nil && lvl != "" {
			o.level = l
		}
	}
}

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

// New returns a JSON logger tagged with serviceName. Error events logged
// with .Stack() carry a pkg/errors stack even for plain errors.
func New(serviceName string, opts ...Option) zerolog.Logger {
	o := options{out: os.Stdout, level: zerolog.InfoLevel}
	for _, opt := range opts {
		opt(&o)
	}

	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}

	return zerolog.New(o.out).Level(o.level).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}
