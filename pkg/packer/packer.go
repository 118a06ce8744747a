/*
Package packer splits files and directory trees into part files and restores
them back.

Packing walks the input, computes a split plan for every file and writes one
part file per planned part. Unpacking reads all part files of a directory,
groups them by key and concatenates payloads of every key in sequence order.
Both operations run sequentially; a failure leaves already written files in
place.
*/
package packer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nspcc-dev/fsp/pkg/fsp/split"
	"github.com/nspcc-dev/fsp/pkg/partstore"
	"github.com/nspcc-dev/fsp/pkg/restore"
	"github.com/nspcc-dev/fsp/pkg/util"
	"github.com/nspcc-dev/fsp/pkg/walk"
	"go.uber.org/zap"
)

// ErrNotDirectory is returned when unpacking input or output is not a
// directory.
var ErrNotDirectory = util.ErrNotDirectory

const dirPerm = 0o755

// Progress tracks the amount of packed data.
type Progress interface {
	// Start is called once with the total number of bytes to be packed.
	Start(total int64)
	// Proxy wraps the reader of every packed file.
	Proxy(io.Reader) io.Reader
	// Finish is called when packing ends, successfully or not.
	Finish()
}

type noProgress struct{}

func (noProgress) Start(int64)                 {}
func (noProgress) Proxy(r io.Reader) io.Reader { return r }
func (noProgress) Finish()                     {}

// Packer packs and unpacks files.
type Packer struct {
	cfg      Config
	log      *zap.Logger
	progress Progress
}

// Option is a Packer constructor's option.
type Option func(*Packer)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Packer) {
		p.log = l
	}
}

// WithProgress sets the progress tracker of Pack.
func WithProgress(pr Progress) Option {
	return func(p *Packer) {
		p.progress = pr
	}
}

// PackResult is the summary of Pack.
type PackResult struct {
	Files uint64
	Parts uint64
	Bytes uint64
}

// UnpackResult is the summary of Unpack.
type UnpackResult struct {
	Files uint64
	Parts uint64
	// SkippedParts is the number of files with the part suffix not
	// recognized as parts.
	SkippedParts uint64
	// SkippedKeys is the number of keys which cannot be restored inside
	// the output directory.
	SkippedKeys uint64
}

// New creates a new Packer. Zero numeric config values are replaced with
// defaults.
func New(cfg Config, opts ...Option) *Packer {
	def := DefaultConfig()
	if cfg.UnitSize == 0 {
		cfg.UnitSize = def.UnitSize
	}
	if cfg.MaxUnits == 0 {
		cfg.MaxUnits = def.MaxUnits
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = def.BufferSize
	}
	if cfg.Suffix == "" {
		cfg.Suffix = def.Suffix
	}
	if cfg.MaxKeyLen <= 0 {
		cfg.MaxKeyLen = def.MaxKeyLen
	}
	if cfg.Perm == 0 {
		cfg.Perm = def.Perm
	}

	p := &Packer{
		cfg:      cfg,
		log:      zap.NewNop(),
		progress: noProgress{},
	}
	for i := range opts {
		opts[i](p)
	}

	return p
}

func (p *Packer) store(dir string) *partstore.Dir {
	return partstore.New(
		partstore.WithPath(dir),
		partstore.WithPerm(p.cfg.Perm),
		partstore.WithSuffix(p.cfg.Suffix),
		partstore.WithBufferSize(int(p.cfg.BufferSize)),
		partstore.WithMaxKeyLen(p.cfg.MaxKeyLen),
		partstore.WithNoSync(p.cfg.NoSync),
		partstore.WithStrict(p.cfg.Strict),
		partstore.WithLogger(p.log),
	)
}

// Pack splits input file or all files under input directory into part files
// written to output directory. Relative paths are resolved against the
// working directory. The output directory is created if missing. Context is
// checked between parts.
func (p *Packer) Pack(ctx context.Context, input, output string) (PackResult, error) {
	var res PackResult

	input, output, err := absPaths(input, output)
	if err != nil {
		return res, err
	}

	var (
		entries []walk.Entry
		total   int64
	)

	err = walk.Walk(input, func(e walk.Entry) error {
		entries = append(entries, e)
		total += e.Size
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("list input files: %w", err)
	}

	err = util.EnsureDir(output, dirPerm)
	if err != nil {
		return res, fmt.Errorf("prepare output directory: %w", err)
	}

	store := p.store(output)

	p.progress.Start(total)
	defer p.progress.Finish()

	for _, e := range entries {
		n, err := p.packFile(ctx, store, e)
		res.Parts += n
		if err != nil {
			return res, fmt.Errorf("pack %q: %w", e.Path, err)
		}

		res.Files++
		res.Bytes += uint64(e.Size)
	}

	return res, nil
}

func (p *Packer) packFile(ctx context.Context, store *partstore.Dir, e walk.Entry) (uint64, error) {
	f, err := os.Open(e.Path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	plan := split.NewPlan(uint64(e.Size), p.cfg.UnitSize, p.cfg.MaxUnits)

	p.log.Debug("packing file",
		zap.String("path", e.Path),
		zap.String("key", e.Key),
		zap.Int64("length", e.Size),
		zap.Uint64("parts", plan.Count),
		zap.Uint64("part size", plan.Size))

	if len(e.Key) > p.cfg.MaxKeyLen {
		p.log.Warn("file key exceeds the limit, its parts will be ignored on unpacking",
			zap.String("key", e.Key),
			zap.Int("length", len(e.Key)),
			zap.Int("limit", p.cfg.MaxKeyLen))
	}

	src := p.progress.Proxy(f)

	var n uint64
	for i := uint64(0); i < plan.Count; i++ {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		_, err = store.Put(e.Key, int64(i+1), src, int64(plan.PartLen(i)))
		if err != nil {
			return n, fmt.Errorf("write part #%d: %w", i+1, err)
		}
		n++
	}

	return n, nil
}

// Unpack restores files from part files found in input directory under the
// output directory. Relative paths are resolved against the working
// directory. The output directory is created if missing.
//
// Part files which do not hold a valid frame are skipped unless Config.Strict
// is set. Keys which cannot be restored inside the output directory are
// skipped as well. Both cases are logged and counted in the result.
func (p *Packer) Unpack(ctx context.Context, input, output string) (UnpackResult, error) {
	var res UnpackResult

	input, output, err := absPaths(input, output)
	if err != nil {
		return res, err
	}

	fi, err := os.Stat(input)
	if err != nil {
		return res, fmt.Errorf("stat input: %w", err)
	}
	if !fi.IsDir() {
		return res, fmt.Errorf("input %q: %w", input, ErrNotDirectory)
	}

	err = util.EnsureDir(output, dirPerm)
	if err != nil {
		return res, fmt.Errorf("prepare output directory: %w", err)
	}

	store := p.store(input)

	idx, err := store.Scan()
	if err != nil {
		return res, fmt.Errorf("scan part files: %w", err)
	}

	res.SkippedParts = uint64(len(idx.Skipped))

	r := restore.New(store, output,
		restore.WithBufferSize(int(p.cfg.BufferSize)),
		restore.WithLogger(p.log),
	)

	for _, key := range idx.Keys() {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		parts := idx.Parts[key]

		p.log.Info("restoring file", zap.String("key", key), zap.Int("parts", len(parts)))

		_, err := r.Restore(key, parts)
		if errors.Is(err, restore.ErrInvalidKey) {
			p.log.Warn("skipping parts with invalid key", zap.String("key", key), zap.Error(err))
			res.SkippedKeys++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("restore %q: %w", key, err)
		}

		res.Files++
		res.Parts += uint64(len(parts))
	}

	return res, nil
}

func absPaths(input, output string) (string, string, error) {
	in, err := filepath.Abs(input)
	if err != nil {
		return "", "", fmt.Errorf("resolve input path: %w", err)
	}

	out, err := filepath.Abs(output)
	if err != nil {
		return "", "", fmt.Errorf("resolve output path: %w", err)
	}

	return in, out, nil
}
