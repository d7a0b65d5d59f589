package ragged

import (
	"errors"
	"io"
)

// Buffer is an in-memory cdf.ReaderWriterAt. It grows on writes past its end.
type Buffer struct {
	data []byte
}

// NewBuffer wraps data, typically an existing netCDF file read into memory.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Bytes returns the buffer contents.
func (b *Buffer) Bytes() []byte { return b.data }

// ReadAt implements io.ReaderAt.
func (b *Buffer) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("ragged.Buffer.ReadAt: negative offset")
	}
	if off >= int64(len(b.data)) {
		return 0, io.EOF
	}

	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

// WriteAt implements io.WriterAt.
func (b *Buffer) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("ragged.Buffer.WriteAt: negative offset")
	}

	end := int(off) + len(p)
	if end > len(b.data) {
		b.data = append(b.data, make([]byte, end-len(b.data))...)
	}
	copy(b.data[off:], p)

	return len(p), nil
}
