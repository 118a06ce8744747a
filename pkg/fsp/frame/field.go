package frame

import (
	"encoding/binary"
	"fmt"
	"math"
)

// FieldSize is the encoded size of a Field in bytes.
const FieldSize = 5

// MaxMagnitude is the largest absolute value a Field can hold. Field values
// are limited to 32-bit magnitudes even though they are signed.
const MaxMagnitude = math.MaxUint32

// Field is a fixed-width signed integer of the frame header. It is encoded
// as a sign byte (1 for negative values, 0 otherwise) followed by a 4-byte
// big-endian magnitude.
type Field struct {
	Negative  bool
	Magnitude uint32
}

// FieldOf returns the Field representing n. ErrOutOfRange is returned if
// |n| exceeds MaxMagnitude.
func FieldOf(n int64) (Field, error) {
	var f Field

	mag := uint64(n)
	if n < 0 {
		f.Negative = true
		mag = -mag
	}

	if mag > MaxMagnitude {
		return Field{}, fmt.Errorf("%w: %d", ErrOutOfRange, n)
	}

	f.Magnitude = uint32(mag)

	return f, nil
}

// Int64 returns the integer value of the Field.
func (f Field) Int64() int64 {
	if f.Negative {
		return -int64(f.Magnitude)
	}

	return int64(f.Magnitude)
}

// Put encodes the Field into the first FieldSize bytes of b.
// Panics if b is shorter than FieldSize.
func (f Field) Put(b []byte) {
	_ = b[FieldSize-1]

	b[0] = 0
	if f.Negative {
		b[0] = 1
	}

	binary.BigEndian.PutUint32(b[1:FieldSize], f.Magnitude)
}

// ParseField decodes the Field from the first FieldSize bytes of b. Only the
// sign byte value 1 denotes a negative number, any other value is treated as
// a non-negative one. Panics if b is shorter than FieldSize.
func ParseField(b []byte) Field {
	_ = b[FieldSize-1]

	return Field{
		Negative:  b[0] == 1,
		Magnitude: binary.BigEndian.Uint32(b[1:FieldSize]),
	}
}
