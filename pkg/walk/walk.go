// Package walk enumerates files to be packed together with their keys.
package walk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nspcc-dev/fsp/pkg/fsp/pathkey"
)

// ErrSkip may be returned by the Walk handler to stop the walk without error.
var ErrSkip = errors.New("skip the rest")

// Entry is a regular file found by Walk.
type Entry struct {
	// Path is the file path.
	Path string
	// Key is the escaped key of the file relative to the walk root.
	Key string
	// Size is the file size in bytes.
	Size int64
}

type pending struct {
	path   string
	prefix string
}

// Walk calls fn for every regular file under root. A regular file root is
// reported alone with its escaped base name as the key. For a directory root,
// keys are relative to the root and do not include its name.
//
// Symbolic links to regular files are followed, links to directories and
// special files are ignored. The directory tree is traversed with an explicit
// stack; the order of reported entries must not be relied upon.
func Walk(root string, fn func(Entry) error) error {
	fi, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}

	switch {
	case fi.Mode().IsRegular():
		err = fn(Entry{
			Path: root,
			Key:  pathkey.EncodeSegment(filepath.Base(root)),
			Size: fi.Size(),
		})
		return ignoreSkip(err)
	case !fi.IsDir():
		return nil
	}

	stack := []pending{{path: root}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(cur.path)
		if err != nil {
			return fmt.Errorf("read directory: %w", err)
		}

		// reversed so that entries are popped in directory order
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]

			p := filepath.Join(cur.path, e.Name())
			key := pathkey.Join(cur.prefix, pathkey.EncodeSegment(e.Name()))

			switch t := e.Type(); {
			case t.IsDir():
				stack = append(stack, pending{path: p, prefix: key})
				continue
			case t.IsRegular(), t&fs.ModeSymlink != 0:
			default:
				continue
			}

			fi, err := os.Stat(p)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return fmt.Errorf("stat file: %w", err)
			}

			if !fi.Mode().IsRegular() {
				continue
			}

			err = fn(Entry{Path: p, Key: key, Size: fi.Size()})
			if err != nil {
				return ignoreSkip(err)
			}
		}
	}

	return nil
}

func ignoreSkip(err error) error {
	if errors.Is(err, ErrSkip) {
		return nil
	}

	return err
}
