package compress

import (
	"io"
	"sync"

	"github.com/iquod/wod/format"
	"github.com/klauspost/compress/gzip"
)

// gzipWriterPool pools gzip writers; each one holds sizeable compression tables.
var gzipWriterPool = sync.Pool{
	New: func() any {
		return gzip.NewWriter(nil)
	},
}

// GzipCompressor reads and writes gzip members, the format NOAA ships WOD
// archive files in.
type GzipCompressor struct{}

var _ Codec = (*GzipCompressor)(nil)

// NewGzipCompressor creates a new gzip compressor.
func NewGzipCompressor() GzipCompressor {
	return GzipCompressor{}
}

// Type returns format.CompressionGzip.
func (c GzipCompressor) Type() format.CompressionType {
	return format.CompressionGzip
}

// Compress compresses data into a single gzip member using a pooled writer.
func (c GzipCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return compressWith(data, func(w io.Writer) (io.WriteCloser, error) {
		gw, _ := gzipWriterPool.Get().(*gzip.Writer)
		gw.Reset(w)

		return &pooledGzipWriter{Writer: gw}, nil
	})
}

// Decompress decompresses every member of a gzip stream.
func (c GzipCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return decompressWith(data, c.NewReader)
}

// NewReader returns a reader over the concatenated members of a gzip stream.
func (c GzipCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}

	return gr, nil
}

// NewWriter returns a gzip writer at the default level.
func (c GzipCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

// pooledGzipWriter returns its writer to the pool once closed.
type pooledGzipWriter struct {
	*gzip.Writer
}

func (p *pooledGzipWriter) Close() error {
	err := p.Writer.Close()
	gzipWriterPool.Put(p.Writer)

	return err
}
