package partstore

import (
	"io/fs"

	"go.uber.org/zap"
)

// Option is a Dir constructor's option.
type Option func(*Dir)

// WithPath sets the directory holding part files.
func WithPath(p string) Option {
	return func(d *Dir) {
		d.RootPath = p
	}
}

// WithPerm sets permission bits of created part files.
func WithPerm(p fs.FileMode) Option {
	return func(d *Dir) {
		d.Permissions = p
	}
}

// WithSuffix sets the file name suffix marking part files.
func WithSuffix(s string) Option {
	return func(d *Dir) {
		d.suffix = s
	}
}

// WithBufferSize sets the size of the buffer payload is copied through.
func WithBufferSize(n int) Option {
	return func(d *Dir) {
		if n > 0 {
			d.bufSize = n
		}
	}
}

// WithMaxKeyLen sets the largest key size accepted when reading part files.
// Files declaring longer keys are not considered valid parts.
func WithMaxKeyLen(n int) Option {
	return func(d *Dir) {
		if n > 0 {
			d.maxKeyLen = n
		}
	}
}

// WithNoSync disables O_SYNC when writing part files.
func WithNoSync(noSync bool) Option {
	return func(d *Dir) {
		d.noSync = noSync
	}
}

// WithStrict makes reading fail on the first malformed part file instead of
// skipping it.
func WithStrict(strict bool) Option {
	return func(d *Dir) {
		d.strict = strict
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dir) {
		d.log = l
	}
}
