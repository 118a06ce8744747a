package config

import (
	"io/fs"
	"strconv"

	"github.com/nspcc-dev/fsp/cmd/fsp/config/internal"
	"github.com/spf13/cast"
)

// StringSafe reads configuration value
// from c by name and casts it to string.
//
// Returns "" if value can not be casted.
func StringSafe(c *Config, name string) string {
	return cast.ToString(c.Value(name))
}

// BoolSafe reads configuration value
// from c by name and casts it to bool.
//
// Returns false if value can not be casted.
func BoolSafe(c *Config, name string) bool {
	return cast.ToBool(c.Value(name))
}

// UintSafe reads configuration value
// from c by name and casts it to uint64.
//
// Returns 0 if value can not be casted.
func UintSafe(c *Config, name string) uint64 {
	return cast.ToUint64(c.Value(name))
}

// IntSafe reads configuration value
// from c by name and casts it to int64.
//
// Returns 0 if value can not be casted.
func IntSafe(c *Config, name string) int64 {
	return cast.ToInt64(c.Value(name))
}

// SizeInBytesSafe reads configuration value
// from c by name and casts it to size in bytes (uint64).
//
// The suffixes are supported (with or without 'b'): k, m, g, t.
// Returns 0 if a value can't be casted.
func SizeInBytesSafe(c *Config, name string) uint64 {
	s := StringSafe(c, name)
	return internal.ParseSizeInBytes(s)
}

// FileModeSafe reads configuration value
// from c by name and casts it to fs.FileMode.
// Strings are parsed as octal numbers ("0640"),
// numbers are taken as is.
//
// Returns 0 if a value can't be casted.
func FileModeSafe(c *Config, name string) fs.FileMode {
	switch v := c.Value(name).(type) {
	case string:
		m, err := strconv.ParseUint(v, 8, 32)
		if err != nil {
			return 0
		}
		return fs.FileMode(m).Perm()
	default:
		return fs.FileMode(cast.ToUint32(v)).Perm()
	}
}
