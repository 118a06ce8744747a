package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Prm groups Logger's parameters.
// Successful passing non-nil parameters to the NewLogger (if returned
// error is nil) leads to a valid Logger instance.
type Prm struct {
	level zapcore.Level

	// output encoding, "console" or "json"
	encoding string

	// do not prepend records with timestamps
	noTimestamp bool
}

const (
	// EncodingConsole is a human-readable log format.
	EncodingConsole = "console"
	// EncodingJSON is a machine-readable log format.
	EncodingJSON = "json"
)

// SetLevelString sets the minimum logging level. Default is
// "info".
//
// Returns an error if s is not a string representation of a
// supporting logging level.
func (p *Prm) SetLevelString(s string) error {
	return p.level.UnmarshalText([]byte(s))
}

// SetEncoding sets the log encoding: EncodingConsole (default) or
// EncodingJSON.
func (p *Prm) SetEncoding(s string) error {
	switch s = strings.ToLower(s); s {
	case "", EncodingConsole, EncodingJSON:
		p.encoding = s
		return nil
	default:
		return fmt.Errorf("unsupported log encoding %q", s)
	}
}

// DisableTimestamp drops timestamps from records.
func (p *Prm) DisableTimestamp() {
	p.noTimestamp = true
}

// NewLogger constructs a new zap logger instance. Constructing with nil
// parameters is safe: default values are used then.
//
// Logger is built from production logging configuration with:
//   - parameterized level;
//   - console (default) or JSON encoding;
//   - ISO8601 time encoding;
//   - all records written to stderr.
//
// Logger records a stack trace for all messages at or above fatal level.
func NewLogger(prm *Prm) (*zap.Logger, error) {
	if prm == nil {
		prm = new(Prm)
	}

	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(prm.level)
	c.Encoding = EncodingConsole
	if prm.encoding != "" {
		c.Encoding = prm.encoding
	}
	c.Sampling = nil
	c.OutputPaths = []string{"stderr"}
	c.ErrorOutputPaths = []string{"stderr"}
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if prm.noTimestamp {
		c.EncoderConfig.TimeKey = ""
	}

	lZap, err := c.Build(
		zap.AddStacktrace(zap.NewAtomicLevelAt(zap.FatalLevel)),
	)
	if err != nil {
		return nil, err
	}

	return lZap, nil
}
