/*
Package partstore keeps part files in a flat directory.

Each part file holds a single frame (see package frame): a header naming the
original file and the part's sequence number followed by a slice of the
original file's bytes. File names are random and carry no information except
for a fixed suffix, so a directory may be filled by several runs and read back
in any order.
*/
package partstore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/nspcc-dev/fsp/pkg/fsp/frame"
	"github.com/nspcc-dev/fsp/pkg/util"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Dir represents a directory of part files.
type Dir struct {
	Info

	suffix    string
	bufSize   int
	maxKeyLen int
	noSync    bool
	strict    bool

	log *zap.Logger
}

// Info groups the information about the part directory.
type Info struct {
	// Permission bits of created part files.
	Permissions fs.FileMode

	// Full path to the directory.
	RootPath string
}

const (
	// DefaultSuffix marks part files.
	DefaultSuffix = ".fsp"
	// DefaultBufferSize is the default size of the payload copy buffer.
	DefaultBufferSize = 1024
	// DefaultPerm is the default permission of part files.
	DefaultPerm fs.FileMode = 0o640
)

// ErrShortPayload is returned by Put when the payload source ends before the
// declared length.
var ErrShortPayload = errors.New("payload source is shorter than declared")

// Part describes a part file found in the directory.
type Part struct {
	// Name is the file name relative to the directory.
	Name string
	// Seq is the sequence number from the header.
	Seq int64
	// Key is the key from the header.
	Key string
	// HeaderLen is the encoded header length.
	HeaderLen int64
	// PayloadLen is the number of payload bytes after the header.
	PayloadLen int64
}

// SkippedFile is a candidate file which has not been recognized as a part.
type SkippedFile struct {
	Name string
	Err  error
}

// Index is the content of the directory grouped by key.
type Index struct {
	// Parts maps keys to their parts in directory enumeration order.
	Parts map[string][]Part
	// Skipped lists files with the part suffix which do not hold a valid frame.
	Skipped []SkippedFile
}

// Keys returns sorted keys of the Index.
func (x *Index) Keys() []string {
	res := make([]string, 0, len(x.Parts))
	for k := range x.Parts {
		res = append(res, k)
	}

	sort.Strings(res)

	return res
}

// New creates a new Dir instance.
func New(opts ...Option) *Dir {
	d := &Dir{
		Info: Info{
			Permissions: DefaultPerm,
			RootPath:    "./",
		},
		suffix:    DefaultSuffix,
		bufSize:   DefaultBufferSize,
		maxKeyLen: frame.DefaultMaxKeyLen,
		noSync:    true,
		log:       zap.NewNop(),
	}
	for i := range opts {
		opts[i](d)
	}

	return d
}

// Put creates a new part file holding the header for key and seq followed by
// exactly length bytes read from payload. It returns the name of the created
// file. Put never touches existing files: a name collision leads to another
// attempt with a fresh name.
func (d *Dir) Put(key string, seq int64, payload io.Reader, length int64) (string, error) {
	hdr, err := frame.Header{Seq: seq, Key: key}.Marshal()
	if err != nil {
		return "", fmt.Errorf("encode header: %w", err)
	}

	const retryCount = 5
	for i := 0; i < retryCount; i++ {
		name := uuid.NewString() + d.suffix

		err = d.writePart(filepath.Join(d.RootPath, name), hdr, payload, length)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}

		d.log.Debug("part file created",
			zap.String("file", name),
			zap.Int64("seq", seq),
			zap.Int64("payload", length))

		return name, nil
	}

	return "", fmt.Errorf("couldn't create part file after %d attempts: %w", retryCount, err)
}

// writePart creates p exclusively and writes hdr and the payload into it.
// Incomplete file is removed on failure.
func (d *Dir) writePart(p string, hdr []byte, payload io.Reader, length int64) (err error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if !d.noSync {
		flags |= os.O_SYNC
	}

	f, err := os.OpenFile(p, flags, d.Permissions)
	if err != nil {
		return fmt.Errorf("create part file: %w", err)
	}

	defer func() {
		if err != nil {
			_ = os.Remove(p)
		}
	}()
	defer multierr.AppendInvoke(&err, multierr.Close(f))

	_, err = f.Write(hdr)
	if err != nil {
		return fmt.Errorf("write header to %q: %w", p, err)
	}

	_, err = util.CopyNBuffer(f, payload, length, make([]byte, d.bufSize))
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: %w", ErrShortPayload, err)
		}
		return fmt.Errorf("write payload to %q: %w", p, err)
	}

	return nil
}

// Iterate calls handler for every valid part file of the directory. Only
// regular files (or symlinks to them) with the part suffix are considered.
//
// A file which does not hold a valid frame is passed to errHandler, the
// iteration stops if it returns an error. If errHandler is nil, such files
// are logged and skipped, or fail the iteration in strict mode. Any other
// error (e.g. an unreadable file) stops the iteration.
func (d *Dir) Iterate(handler func(Part) error, errHandler func(name string, err error) error) error {
	entries, err := os.ReadDir(d.RootPath)
	if err != nil {
		return fmt.Errorf("read part directory: %w", err)
	}

	if errHandler == nil {
		errHandler = d.handleMalformed
	}

	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), d.suffix) {
			continue
		}

		regular, err := d.isRegular(e)
		if err != nil {
			return err
		}
		if !regular {
			continue
		}

		p, err := d.readPart(e.Name())
		if err != nil {
			if !isFrameError(err) {
				return err
			}

			err = errHandler(e.Name(), err)
			if err != nil {
				return err
			}

			continue
		}

		err = handler(p)
		if err != nil {
			return err
		}
	}

	return nil
}

// Scan reads all part files of the directory and groups them by key.
func (d *Dir) Scan() (*Index, error) {
	res := &Index{
		Parts: make(map[string][]Part),
	}

	err := d.Iterate(func(p Part) error {
		res.Parts[p.Key] = append(res.Parts[p.Key], p)
		return nil
	}, func(name string, err error) error {
		if hErr := d.handleMalformed(name, err); hErr != nil {
			return hErr
		}

		res.Skipped = append(res.Skipped, SkippedFile{Name: name, Err: err})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// OpenPayload opens the part file and positions it at the first payload byte.
// The header length is read from the file itself. The caller is responsible
// for closing the returned io.ReadCloser.
func (d *Dir) OpenPayload(p Part) (io.ReadCloser, error) {
	fPath := filepath.Join(d.RootPath, p.Name)

	f, err := os.Open(fPath)
	if err != nil {
		return nil, fmt.Errorf("open part file: %w", err)
	}

	l, err := frame.ReadLength(f)
	if err == nil && l < frame.HeaderFixedLen {
		err = fmt.Errorf("%w: length %d", frame.ErrMalformed, l)
	}
	if err == nil {
		_, err = f.Seek(l-frame.FieldSize, io.SeekCurrent)
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("skip header of %q: %w", fPath, err)
	}

	return f, nil
}

func (d *Dir) readPart(name string) (Part, error) {
	fPath := filepath.Join(d.RootPath, name)

	f, err := os.Open(fPath)
	if err != nil {
		return Part{}, fmt.Errorf("open part file: %w", err)
	}
	defer f.Close()

	hdr, l, err := frame.ReadHeader(f, d.maxKeyLen)
	if err != nil {
		return Part{}, fmt.Errorf("read header of %q: %w", fPath, err)
	}

	fi, err := f.Stat()
	if err != nil {
		return Part{}, fmt.Errorf("stat part file: %w", err)
	}

	return Part{
		Name:       name,
		Seq:        hdr.Seq,
		Key:        hdr.Key,
		HeaderLen:  l,
		PayloadLen: fi.Size() - l,
	}, nil
}

func (d *Dir) isRegular(e fs.DirEntry) (bool, error) {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.Type().IsRegular(), nil
	}

	fi, err := os.Stat(filepath.Join(d.RootPath, e.Name()))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat part file: %w", err)
	}

	return fi.Mode().IsRegular(), nil
}

func (d *Dir) handleMalformed(name string, err error) error {
	if d.strict {
		return fmt.Errorf("malformed part file %q: %w", name, err)
	}

	d.log.Warn("skipping malformed part file",
		zap.String("file", name),
		zap.Error(err))

	return nil
}

func isFrameError(err error) bool {
	return errors.Is(err, frame.ErrTruncated) ||
		errors.Is(err, frame.ErrKeyTooLong) ||
		errors.Is(err, frame.ErrMalformed)
}
