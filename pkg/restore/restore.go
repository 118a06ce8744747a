// Package restore rebuilds original files from their parts.
package restore

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/nspcc-dev/fsp/pkg/fsp/pathkey"
	"github.com/nspcc-dev/fsp/pkg/partstore"
	"github.com/nspcc-dev/fsp/pkg/util"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrInvalidKey is returned for keys that cannot be mapped to a path inside
// the output directory.
var ErrInvalidKey = errors.New("invalid file key")

const (
	// DefaultFilePerm is the default permission of restored files.
	DefaultFilePerm fs.FileMode = 0o644
	// DefaultDirPerm is the default permission of created directories.
	DefaultDirPerm fs.FileMode = 0o755
)

// Restorer writes original files into the output directory reading part
// payloads from the part directory.
type Restorer struct {
	store *partstore.Dir
	root  string

	filePerm fs.FileMode
	dirPerm  fs.FileMode
	bufSize  int

	log *zap.Logger
}

// Option is a Restorer constructor's option.
type Option func(*Restorer)

// WithFilePerm sets permission bits of restored files.
func WithFilePerm(p fs.FileMode) Option {
	return func(r *Restorer) {
		r.filePerm = p
	}
}

// WithDirPerm sets permission bits of created directories.
func WithDirPerm(p fs.FileMode) Option {
	return func(r *Restorer) {
		r.dirPerm = p
	}
}

// WithBufferSize sets the size of the buffer payload is copied through.
func WithBufferSize(n int) Option {
	return func(r *Restorer) {
		if n > 0 {
			r.bufSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Restorer) {
		r.log = l
	}
}

// New returns Restorer reading parts from store and writing files under root.
func New(store *partstore.Dir, root string, opts ...Option) *Restorer {
	r := &Restorer{
		store:    store,
		root:     root,
		filePerm: DefaultFilePerm,
		dirPerm:  DefaultDirPerm,
		bufSize:  partstore.DefaultBufferSize,
		log:      zap.NewNop(),
	}
	for i := range opts {
		opts[i](r)
	}

	return r
}

// Restore writes the file identified by key concatenating payloads of parts
// in ascending sequence order and returns the path of the written file.
// Gaps and duplicates in sequence numbers are not detected. Missing parent
// directories are created, an existing file at the destination is replaced.
// parts slice is sorted in place.
func (r *Restorer) Restore(key string, parts []partstore.Part) (string, error) {
	segments, err := splitKey(key)
	if err != nil {
		return "", err
	}

	slices.SortStableFunc(parts, func(a, b partstore.Part) int {
		return cmp.Compare(a.Seq, b.Seq)
	})

	dir := r.root
	for _, s := range segments[:len(segments)-1] {
		dir = filepath.Join(dir, s)

		err = r.mkdir(dir)
		if err != nil {
			return "", err
		}
	}

	dst := filepath.Join(dir, segments[len(segments)-1])

	err = r.writeFile(dst, parts)
	if err != nil {
		return "", err
	}

	return dst, nil
}

// mkdir creates dir unless something already exists at this path.
func (r *Restorer) mkdir(dir string) error {
	_, err := os.Lstat(dir)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat directory: %w", err)
	}

	err = os.Mkdir(dir, r.dirPerm)
	if err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	r.log.Debug("directory created", zap.String("path", dir))

	return nil
}

func (r *Restorer) writeFile(dst string, parts []partstore.Part) (err error) {
	err = os.Remove(dst)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale file: %w", err)
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, r.filePerm)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))

	r.log.Debug("file created", zap.String("path", dst))

	buf := make([]byte, r.bufSize)

	for i := range parts {
		err = r.appendPart(f, parts[i], buf)
		if err != nil {
			return fmt.Errorf("append part #%d (%s): %w", parts[i].Seq, parts[i].Name, err)
		}
	}

	return nil
}

func (r *Restorer) appendPart(f *os.File, p partstore.Part, buf []byte) (err error) {
	rc, err := r.store.OpenPayload(p)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(rc))

	_, err = util.CopyBuffer(f, rc, buf)

	return err
}

// splitKey decodes key into path segments rejecting the ones that would
// escape the output directory.
func splitKey(key string) ([]string, error) {
	segments := pathkey.Decode(key)
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidKey)
	}

	for _, s := range segments {
		switch s {
		case "", ".", "..":
			return nil, fmt.Errorf("%w: %q segment in %q", ErrInvalidKey, s, key)
		}

		if strings.ContainsRune(s, '/') || strings.ContainsRune(s, filepath.Separator) {
			return nil, fmt.Errorf("%w: %q contains path separator", ErrInvalidKey, s)
		}
	}

	return segments, nil
}
