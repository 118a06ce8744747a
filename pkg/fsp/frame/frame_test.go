package frame_test

import (
	"bytes"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/nspcc-dev/fsp/pkg/fsp/frame"
	"github.com/stretchr/testify/require"
)

func TestField(t *testing.T) {
	for _, tc := range []struct {
		n   int64
		enc []byte
	}{
		{n: 0, enc: []byte{0, 0, 0, 0, 0}},
		{n: 1, enc: []byte{0, 0, 0, 0, 1}},
		{n: 258, enc: []byte{0, 0, 0, 1, 2}},
		{n: -1, enc: []byte{1, 0, 0, 0, 1}},
		{n: math.MaxUint32, enc: []byte{0, 0xff, 0xff, 0xff, 0xff}},
		{n: -math.MaxUint32, enc: []byte{1, 0xff, 0xff, 0xff, 0xff}},
	} {
		f, err := frame.FieldOf(tc.n)
		require.NoError(t, err)

		b := make([]byte, frame.FieldSize)
		f.Put(b)
		require.Equal(t, tc.enc, b, tc.n)

		require.Equal(t, tc.n, frame.ParseField(b).Int64())
	}

	t.Run("out of range", func(t *testing.T) {
		for _, n := range []int64{math.MaxUint32 + 1, -math.MaxUint32 - 1, math.MaxInt64, math.MinInt64} {
			_, err := frame.FieldOf(n)
			require.ErrorIs(t, err, frame.ErrOutOfRange)
		}
	})

	t.Run("unknown sign byte", func(t *testing.T) {
		require.EqualValues(t, 7, frame.ParseField([]byte{2, 0, 0, 0, 7}).Int64())
	})
}

func TestHeader_Marshal(t *testing.T) {
	h := frame.Header{Seq: 3, Key: "dir/файл"}

	b, err := h.Marshal()
	require.NoError(t, err)

	keyLen := len("dir/файл")
	require.EqualValues(t, 10+keyLen, h.Len())
	require.Len(t, b, 10+keyLen)
	require.Equal(t, []byte{0, 0, 0, 0, byte(10 + keyLen)}, b[:5])
	require.Equal(t, []byte{0, 0, 0, 0, 3}, b[5:10])
	require.Equal(t, "dir/файл", string(b[10:]))

	var buf bytes.Buffer
	require.NoError(t, frame.WriteHeader(&buf, h))
	require.Equal(t, b, buf.Bytes())

	_, err = frame.Header{Seq: math.MaxUint32 + 1}.Marshal()
	require.ErrorIs(t, err, frame.ErrOutOfRange)
}

func TestReadHeader(t *testing.T) {
	encode := func(t *testing.T, h frame.Header, payload string) *bytes.Reader {
		var buf bytes.Buffer
		require.NoError(t, frame.WriteHeader(&buf, h))
		buf.WriteString(payload)
		return bytes.NewReader(buf.Bytes())
	}

	t.Run("valid", func(t *testing.T) {
		exp := frame.Header{Seq: 2, Key: `a\/b/c`}
		r := encode(t, exp, "payload")

		h, l, err := frame.ReadHeader(r, 0)
		require.NoError(t, err)
		require.Equal(t, exp, h)
		require.Equal(t, exp.Len(), l)

		rest, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Equal(t, "payload", string(rest))
	})

	t.Run("empty key", func(t *testing.T) {
		h, l, err := frame.ReadHeader(encode(t, frame.Header{Seq: 1}, ""), 0)
		require.NoError(t, err)
		require.Empty(t, h.Key)
		require.EqualValues(t, frame.HeaderFixedLen, l)
	})

	t.Run("truncated", func(t *testing.T) {
		full, err := frame.Header{Seq: 1, Key: "key"}.Marshal()
		require.NoError(t, err)

		for _, n := range []int{0, 4, 5, 9, 10, 12} {
			_, _, err := frame.ReadHeader(bytes.NewReader(full[:n]), 0)
			require.ErrorIs(t, err, frame.ErrTruncated, n)
		}
	})

	t.Run("key too long", func(t *testing.T) {
		r := encode(t, frame.Header{Seq: 1, Key: strings.Repeat("k", 11)}, "")
		_, _, err := frame.ReadHeader(r, 10)
		require.ErrorIs(t, err, frame.ErrKeyTooLong)

		r = encode(t, frame.Header{Seq: 1, Key: strings.Repeat("k", frame.DefaultMaxKeyLen+1)}, "")
		_, _, err = frame.ReadHeader(r, 0)
		require.ErrorIs(t, err, frame.ErrKeyTooLong)

		r = encode(t, frame.Header{Seq: 1, Key: strings.Repeat("k", frame.DefaultMaxKeyLen)}, "")
		_, _, err = frame.ReadHeader(r, 0)
		require.NoError(t, err)
	})

	t.Run("short length field", func(t *testing.T) {
		b := []byte{0, 0, 0, 0, 9, 0, 0, 0, 0, 1}
		_, _, err := frame.ReadHeader(bytes.NewReader(b), 0)
		require.ErrorIs(t, err, frame.ErrMalformed)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		b := []byte{0, 0, 0, 0, 12, 0, 0, 0, 0, 1, 0xff, 0xfe}
		_, _, err := frame.ReadHeader(bytes.NewReader(b), 0)
		require.ErrorIs(t, err, frame.ErrMalformed)
	})
}
