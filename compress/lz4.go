package compress

import (
	"io"
	"sync"

	"github.com/iquod/wod/format"
	"github.com/pierrec/lz4/v4"
)

// lz4WriterPool pools lz4 frame writers for reuse.
// The lz4.Writer keeps its block buffers across Reset calls.
var lz4WriterPool = sync.Pool{
	New: func() any {
		return lz4.NewWriter(nil)
	},
}

// LZ4Compressor reads and writes LZ4 frames.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Type returns format.CompressionLZ4.
func (c LZ4Compressor) Type() format.CompressionType {
	return format.CompressionLZ4
}

// Compress compresses the input data into one LZ4 frame.
//
// Uses a pooled lz4.Writer for better performance.
//
// Returns:
//   - []byte: Compressed frame (nil if input is empty)
//   - error: Compression error if any
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return compressWith(data, func(w io.Writer) (io.WriteCloser, error) {
		lw, _ := lz4WriterPool.Get().(*lz4.Writer)
		lw.Reset(w)

		return &pooledLZ4Writer{Writer: lw}, nil
	})
}

// Decompress decompresses an LZ4 frame. The frame header carries what the
// reader needs, so no output size guess is involved.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return decompressWith(data, c.NewReader)
}

// NewReader returns a reader over an LZ4 frame stream.
func (c LZ4Compressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

// NewWriter returns an LZ4 frame writer.
func (c LZ4Compressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

type pooledLZ4Writer struct {
	*lz4.Writer
}

func (p *pooledLZ4Writer) Close() error {
	err := p.Writer.Close()
	lz4WriterPool.Put(p.Writer)

	return err
}
