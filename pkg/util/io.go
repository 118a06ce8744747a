package util

import (
	"fmt"
	"io"
)

// onlyWriter hides optional interfaces of the wrapped writer (io.ReaderFrom
// in particular) so that io.CopyBuffer really goes through the buffer.
type onlyWriter struct{ io.Writer }

// CopyNBuffer copies exactly n bytes from src to dst staging them through buf.
// Memory use does not depend on n. If src ends before n bytes are copied,
// io.ErrUnexpectedEOF is returned along with the number of bytes written.
// buf must not be empty.
func CopyNBuffer(dst io.Writer, src io.Reader, n int64, buf []byte) (int64, error) {
	if len(buf) == 0 {
		panic("zero-length copy buffer")
	}

	written, err := io.CopyBuffer(onlyWriter{dst}, io.LimitReader(src, n), buf)
	if err != nil {
		return written, err
	}

	if written < n {
		return written, fmt.Errorf("%w: %d of %d bytes", io.ErrUnexpectedEOF, written, n)
	}

	return written, nil
}

// CopyBuffer copies src to dst until EOF staging data through buf.
// buf must not be empty.
func CopyBuffer(dst io.Writer, src io.Reader, buf []byte) (int64, error) {
	if len(buf) == 0 {
		panic("zero-length copy buffer")
	}

	return io.CopyBuffer(onlyWriter{dst}, onlyReader{src}, buf)
}

// onlyReader hides io.WriterTo of the wrapped reader.
type onlyReader struct{ io.Reader }
