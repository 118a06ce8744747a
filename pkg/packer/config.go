package packer

import (
	"io/fs"

	"github.com/nspcc-dev/fsp/pkg/fsp/frame"
	"github.com/nspcc-dev/fsp/pkg/partstore"
)

const (
	// DefaultUnitSize is the default size unit used to compute part count.
	DefaultUnitSize = 1 << 20
	// DefaultMaxUnits is the default number of size units per part.
	DefaultMaxUnits = 60
)

// Config groups packing and unpacking parameters.
type Config struct {
	// UnitSize is the size unit in bytes. File size is rounded up to whole
	// units before computing the number of parts.
	UnitSize uint64
	// MaxUnits is the largest number of units one part may hold.
	MaxUnits uint64
	// BufferSize is the size of buffers file data is streamed through.
	BufferSize uint64
	// Suffix marks part files.
	Suffix string
	// MaxKeyLen is the largest key accepted when reading part files. Parts
	// of files with longer keys are ignored on unpacking.
	MaxKeyLen int
	// Perm is the permission of created part files.
	Perm fs.FileMode
	// NoSync disables synchronous writes of part files.
	NoSync bool
	// Strict fails unpacking on malformed part files instead of skipping them.
	Strict bool
}

// DefaultConfig returns Config with default values.
func DefaultConfig() Config {
	return Config{
		UnitSize:   DefaultUnitSize,
		MaxUnits:   DefaultMaxUnits,
		BufferSize: partstore.DefaultBufferSize,
		Suffix:     partstore.DefaultSuffix,
		MaxKeyLen:  frame.DefaultMaxKeyLen,
		Perm:       partstore.DefaultPerm,
		NoSync:     true,
	}
}
