package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrNotDirectory is returned when a path expected to be a directory points to
// something else.
var ErrNotDirectory = errors.New("not a directory")

// MkdirAllX calls os.MkdirAll with the passed permissions
// but with +x for a user and a group. This makes the created
// dir openable regardless of the passed permissions.
func MkdirAllX(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm|0110)
}

// EnsureDir makes sure a directory exists at path creating it with MkdirAllX
// if needed. ErrNotDirectory is returned if path exists but is not a
// directory.
func EnsureDir(path string, perm fs.FileMode) error {
	fi, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return MkdirAllX(path, perm)
	case err != nil:
		return err
	case !fi.IsDir():
		return fmt.Errorf("%w: %s", ErrNotDirectory, path)
	default:
		return nil
	}
}
