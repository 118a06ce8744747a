package partstore_test

import (
	"bytes"
	"crypto/rand"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nspcc-dev/fsp/pkg/fsp/frame"
	"github.com/nspcc-dev/fsp/pkg/partstore"
	"github.com/stretchr/testify/require"
)

func newDir(t *testing.T, opts ...partstore.Option) *partstore.Dir {
	return partstore.New(append([]partstore.Option{partstore.WithPath(t.TempDir())}, opts...)...)
}

func randBytes(t *testing.T, n int) []byte {
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func readPayload(t *testing.T, d *partstore.Dir, p partstore.Part) []byte {
	rc, err := d.OpenPayload(p)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return data
}

func TestDir_Put(t *testing.T) {
	d := newDir(t, partstore.WithBufferSize(7))
	payload := randBytes(t, 100)

	src := bytes.NewReader(payload)

	name, err := d.Put(`dir/a\/b`, 1, src, 60)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(name, partstore.DefaultSuffix))
	require.EqualValues(t, 40, src.Len())

	raw, err := os.ReadFile(filepath.Join(d.RootPath, name))
	require.NoError(t, err)

	hdr, l, err := frame.ReadHeader(bytes.NewReader(raw), 0)
	require.NoError(t, err)
	require.Equal(t, frame.Header{Seq: 1, Key: `dir/a\/b`}, hdr)
	require.Equal(t, payload[:60], raw[l:])

	name2, err := d.Put(`dir/a\/b`, 2, src, 40)
	require.NoError(t, err)
	require.NotEqual(t, name, name2)

	fi, err := os.Stat(filepath.Join(d.RootPath, name2))
	require.NoError(t, err)
	require.Equal(t, partstore.DefaultPerm, fi.Mode().Perm())

	t.Run("empty payload", func(t *testing.T) {
		name, err := d.Put("empty", 1, bytes.NewReader(nil), 0)
		require.NoError(t, err)

		raw, err := os.ReadFile(filepath.Join(d.RootPath, name))
		require.NoError(t, err)
		require.Len(t, raw, frame.HeaderFixedLen+len("empty"))
	})

	t.Run("short payload", func(t *testing.T) {
		d := newDir(t)
		_, err := d.Put("short", 1, bytes.NewReader([]byte("abc")), 10)
		require.ErrorIs(t, err, partstore.ErrShortPayload)

		entries, err := os.ReadDir(d.RootPath)
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	t.Run("sequence out of range", func(t *testing.T) {
		_, err := d.Put("k", 1<<33, bytes.NewReader(nil), 0)
		require.ErrorIs(t, err, frame.ErrOutOfRange)
	})

	t.Run("missing directory", func(t *testing.T) {
		d := partstore.New(partstore.WithPath(filepath.Join(t.TempDir(), "missing")))
		_, err := d.Put("k", 1, bytes.NewReader(nil), 0)
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestDir_Scan(t *testing.T) {
	d := newDir(t)

	payloads := map[int64][]byte{
		3: []byte("third"),
		1: []byte("first"),
		2: []byte("second"),
	}
	for _, seq := range []int64{3, 1, 2} {
		_, err := d.Put("key", seq, bytes.NewReader(payloads[seq]), int64(len(payloads[seq])))
		require.NoError(t, err)
	}

	_, err := d.Put("other", 1, bytes.NewReader([]byte("x")), 1)
	require.NoError(t, err)

	// foreign and broken files
	require.NoError(t, os.WriteFile(filepath.Join(d.RootPath, "notes.txt"), []byte("hello"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(d.RootPath, "tiny"+partstore.DefaultSuffix), []byte{0, 0}, 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(d.RootPath, "dir"+partstore.DefaultSuffix), 0o700))

	idx, err := d.Scan()
	require.NoError(t, err)
	require.Equal(t, []string{"key", "other"}, idx.Keys())
	require.Len(t, idx.Parts["key"], 3)
	require.Len(t, idx.Parts["other"], 1)
	require.Len(t, idx.Skipped, 1)
	require.Equal(t, "tiny"+partstore.DefaultSuffix, idx.Skipped[0].Name)
	require.ErrorIs(t, idx.Skipped[0].Err, frame.ErrTruncated)

	for _, p := range idx.Parts["key"] {
		require.Equal(t, "key", p.Key)
		require.EqualValues(t, frame.HeaderFixedLen+len("key"), p.HeaderLen)
		require.EqualValues(t, len(payloads[p.Seq]), p.PayloadLen)
		require.Equal(t, payloads[p.Seq], readPayload(t, d, p))
	}

	t.Run("strict", func(t *testing.T) {
		strict := partstore.New(partstore.WithPath(d.RootPath), partstore.WithStrict(true))
		_, err := strict.Scan()
		require.ErrorIs(t, err, frame.ErrTruncated)
	})

	t.Run("custom suffix", func(t *testing.T) {
		other := partstore.New(partstore.WithPath(d.RootPath), partstore.WithSuffix(".txt"))
		idx, err := other.Scan()
		require.NoError(t, err)
		require.Empty(t, idx.Parts)
		require.Len(t, idx.Skipped, 1)
	})

	t.Run("missing directory", func(t *testing.T) {
		d := partstore.New(partstore.WithPath(filepath.Join(t.TempDir(), "missing")))
		_, err := d.Scan()
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestDir_MaxKeyLen(t *testing.T) {
	d := newDir(t, partstore.WithMaxKeyLen(8))

	_, err := d.Put(strings.Repeat("k", 9), 1, bytes.NewReader([]byte("data")), 4)
	require.NoError(t, err)
	_, err = d.Put(strings.Repeat("k", 8), 1, bytes.NewReader([]byte("data")), 4)
	require.NoError(t, err)

	idx, err := d.Scan()
	require.NoError(t, err)
	require.Equal(t, []string{"kkkkkkkk"}, idx.Keys())
	require.Len(t, idx.Skipped, 1)
	require.ErrorIs(t, idx.Skipped[0].Err, frame.ErrKeyTooLong)
}

func TestDir_Symlink(t *testing.T) {
	d := newDir(t)

	name, err := d.Put("key", 1, bytes.NewReader([]byte("data")), 4)
	require.NoError(t, err)

	target := filepath.Join(d.RootPath, name)
	moved := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.Rename(target, moved))
	require.NoError(t, os.Symlink(moved, target))
	require.NoError(t, os.Symlink(filepath.Join(d.RootPath, "nowhere"), filepath.Join(d.RootPath, "dangling"+partstore.DefaultSuffix)))

	idx, err := d.Scan()
	require.NoError(t, err)
	require.Len(t, idx.Parts["key"], 1)
	require.Equal(t, []byte("data"), readPayload(t, d, idx.Parts["key"][0]))
}

func TestDir_OpenPayload(t *testing.T) {
	d := newDir(t)

	name := "broken" + partstore.DefaultSuffix
	require.NoError(t, os.WriteFile(filepath.Join(d.RootPath, name), []byte{0, 0, 0, 0, 3, 1, 2, 3}, 0o600))

	_, err := d.OpenPayload(partstore.Part{Name: name})
	require.ErrorIs(t, err, frame.ErrMalformed)

	_, err = d.OpenPayload(partstore.Part{Name: "missing"})
	require.ErrorIs(t, err, os.ErrNotExist)
}
