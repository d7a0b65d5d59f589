package compress

import "github.com/iquod/wod/format"

// ZstdCompressor reads and writes Zstandard frames.
//
// The pure-Go implementation from klauspost/compress is used by default.
// Building with the gozstd tag and cgo enabled switches to the libzstd binding
// from valyala/gozstd; both produce and accept standard frames.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// Type returns format.CompressionZstd.
func (c ZstdCompressor) Type() format.CompressionType {
	return format.CompressionZstd
}
