/*
Package frame implements the binary header of a part file.

Every part file starts with a header followed by the raw payload up to the end
of the file:

	+---------------+---------------+--------------------+---------+
	| length (5 B)  | sequence (5 B)| key (length-10 B)  | payload |
	+---------------+---------------+--------------------+---------+

Both numeric fields are encoded as a Field. The length covers the whole
header, so length is always 10 plus the size of the UTF-8 encoded key.
*/
package frame

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// HeaderFixedLen is the size of the numeric fields of the header.
const HeaderFixedLen = 2 * FieldSize

// DefaultMaxKeyLen is the default limit of key size accepted by ReadHeader.
const DefaultMaxKeyLen = 3000

var (
	// ErrTruncated is returned when the input ends inside the header.
	ErrTruncated = errors.New("truncated frame header")
	// ErrKeyTooLong is returned when the header declares a key longer than
	// the accepted limit.
	ErrKeyTooLong = errors.New("frame key is too long")
	// ErrMalformed is returned for headers that cannot be produced by a
	// writer: length below HeaderFixedLen or a key that is not valid UTF-8.
	ErrMalformed = errors.New("malformed frame header")
	// ErrOutOfRange is returned when a value does not fit into a Field.
	ErrOutOfRange = errors.New("value is out of field range")
)

// Header is the decoded header of a part file.
type Header struct {
	// Seq is a 1-based number of the part within the file it belongs to.
	Seq int64
	// Key identifies the original file, see package pathkey.
	Key string
}

// Len returns encoded header length.
func (h Header) Len() int64 {
	return HeaderFixedLen + int64(len(h.Key))
}

// Marshal encodes the header.
func (h Header) Marshal() ([]byte, error) {
	l, err := FieldOf(h.Len())
	if err != nil {
		return nil, fmt.Errorf("header length: %w", err)
	}

	seq, err := FieldOf(h.Seq)
	if err != nil {
		return nil, fmt.Errorf("sequence number: %w", err)
	}

	b := make([]byte, h.Len())
	l.Put(b)
	seq.Put(b[FieldSize:])
	copy(b[HeaderFixedLen:], h.Key)

	return b, nil
}

// WriteHeader writes encoded h to w.
func WriteHeader(w io.Writer, h Header) error {
	b, err := h.Marshal()
	if err != nil {
		return err
	}

	_, err = w.Write(b)
	return err
}

// ReadLength reads the length field of the header.
func ReadLength(r io.Reader) (int64, error) {
	var b [FieldSize]byte

	_, err := io.ReadFull(r, b[:])
	if err != nil {
		return 0, readErr("length", err)
	}

	return ParseField(b[:]).Int64(), nil
}

// ReadHeader reads and decodes the header from r leaving r positioned at the
// first payload byte. Keys longer than maxKeyLen are rejected with
// ErrKeyTooLong, non-positive maxKeyLen means DefaultMaxKeyLen. The encoded
// header length is returned along with the header.
func ReadHeader(r io.Reader, maxKeyLen int) (Header, int64, error) {
	if maxKeyLen <= 0 {
		maxKeyLen = DefaultMaxKeyLen
	}

	l, err := ReadLength(r)
	if err != nil {
		return Header{}, 0, err
	}

	var b [FieldSize]byte

	_, err = io.ReadFull(r, b[:])
	if err != nil {
		return Header{}, 0, readErr("sequence", err)
	}

	seq := ParseField(b[:]).Int64()

	keyLen := l - HeaderFixedLen
	switch {
	case keyLen > int64(maxKeyLen):
		return Header{}, 0, fmt.Errorf("%w: %d > %d", ErrKeyTooLong, keyLen, maxKeyLen)
	case keyLen < 0:
		return Header{}, 0, fmt.Errorf("%w: length %d", ErrMalformed, l)
	}

	key := make([]byte, keyLen)

	_, err = io.ReadFull(r, key)
	if err != nil {
		return Header{}, 0, readErr("key", err)
	}

	if !utf8.Valid(key) {
		return Header{}, 0, fmt.Errorf("%w: key is not valid UTF-8", ErrMalformed)
	}

	return Header{Seq: seq, Key: string(key)}, l, nil
}

func readErr(field string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s field", ErrTruncated, field)
	}

	return fmt.Errorf("read %s field: %w", field, err)
}
