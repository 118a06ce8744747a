package partconfig

import (
	"io/fs"

	"github.com/nspcc-dev/fsp/cmd/fsp/config"
	"github.com/nspcc-dev/fsp/pkg/fsp/frame"
	"github.com/nspcc-dev/fsp/pkg/packer"
	"github.com/nspcc-dev/fsp/pkg/partstore"
)

const (
	subsection = "part"

	// UnitSizeDefault is a default size unit of the split plan.
	UnitSizeDefault = packer.DefaultUnitSize
	// MaxUnitsDefault is a default number of units per part.
	MaxUnitsDefault = packer.DefaultMaxUnits
	// BufferSizeDefault is a default size of the streaming buffer.
	BufferSizeDefault = partstore.DefaultBufferSize
	// SuffixDefault is a default part file suffix.
	SuffixDefault = partstore.DefaultSuffix
	// MaxKeyLenDefault is a default limit of keys accepted on reading.
	MaxKeyLenDefault = frame.DefaultMaxKeyLen
	// PermDefault is a default permission of part files.
	PermDefault = partstore.DefaultPerm
)

// UnitSize returns the value of "unit_size" config parameter
// from "part" section.
//
// Returns UnitSizeDefault if the value is not a positive size.
func UnitSize(c *config.Config) uint64 {
	if v := config.SizeInBytesSafe(c.Sub(subsection), "unit_size"); v > 0 {
		return v
	}

	return UnitSizeDefault
}

// MaxUnits returns the value of "max_units" config parameter
// from "part" section.
//
// Returns MaxUnitsDefault if the value is not a positive number.
func MaxUnits(c *config.Config) uint64 {
	if v := config.UintSafe(c.Sub(subsection), "max_units"); v > 0 {
		return v
	}

	return MaxUnitsDefault
}

// BufferSize returns the value of "buffer_size" config parameter
// from "part" section.
//
// Returns BufferSizeDefault if the value is not a positive size.
func BufferSize(c *config.Config) uint64 {
	if v := config.SizeInBytesSafe(c.Sub(subsection), "buffer_size"); v > 0 {
		return v
	}

	return BufferSizeDefault
}

// Suffix returns the value of "suffix" config parameter
// from "part" section.
//
// Returns SuffixDefault if the value is not a non-empty string.
func Suffix(c *config.Config) string {
	if v := config.StringSafe(c.Sub(subsection), "suffix"); v != "" {
		return v
	}

	return SuffixDefault
}

// MaxKeyLen returns the value of "max_key_len" config parameter
// from "part" section.
//
// Returns MaxKeyLenDefault if the value is not a positive number.
func MaxKeyLen(c *config.Config) int {
	if v := config.IntSafe(c.Sub(subsection), "max_key_len"); v > 0 {
		return int(v)
	}

	return MaxKeyLenDefault
}

// Perm returns the value of "perm" config parameter
// from "part" section.
//
// Returns PermDefault if the value is not set or invalid.
func Perm(c *config.Config) fs.FileMode {
	if v := config.FileModeSafe(c.Sub(subsection), "perm"); v != 0 {
		return v
	}

	return PermDefault
}

// NoSync returns the value of "no_sync" config parameter
// from "part" section.
//
// Returns true if the value is not set.
func NoSync(c *config.Config) bool {
	if c.Sub(subsection).Value("no_sync") == nil {
		return true
	}

	return config.BoolSafe(c.Sub(subsection), "no_sync")
}
