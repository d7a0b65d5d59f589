package compress

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/iquod/wod/format"
)

// Compressor compresses a whole buffer into one self-describing stream.
type Compressor interface {
	// Compress returns a newly allocated compressed copy of data.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
type Decompressor interface {
	// Decompress returns the original bytes of a stream produced by the matching
	// Compressor. It fails if data is corrupted or was written by another algorithm.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines whole-buffer and streaming compression for one algorithm.
//
// The streaming and whole-buffer forms share one wire format, so a file written
// through NewWriter can be read with Decompress and vice versa. Codecs are safe
// for concurrent use; the readers and writers they create are not.
type Codec interface {
	Compressor
	Decompressor

	// Type identifies the algorithm.
	Type() format.CompressionType
	// NewReader returns a reader that decompresses r.
	NewReader(r io.Reader) (io.ReadCloser, error)
	// NewWriter returns a writer that compresses into w. Close flushes the
	// final frame but does not close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

// CompressionStats describes one compression run.
type CompressionStats struct {
	Algorithm         format.CompressionType
	OriginalSize      int64
	CompressedSize    int64
	CompressionTimeNs int64
}

// CompressionRatio returns compressed size over original size, or 0 for empty input.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space saved as a percentage.
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// Measure compresses data with c and reports the outcome alongside the result.
func Measure(c Codec, data []byte) ([]byte, CompressionStats, error) {
	start := time.Now()
	out, err := c.Compress(data)
	if err != nil {
		return nil, CompressionStats{}, err
	}

	return out, CompressionStats{
		Algorithm:         c.Type(),
		OriginalSize:      int64(len(data)),
		CompressedSize:    int64(len(out)),
		CompressionTimeNs: time.Since(start).Nanoseconds(),
	}, nil
}

// CreateCodec creates a new Codec for the given compression type. target names
// the setting being configured and appears in the error.
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	case format.CompressionGzip:
		return NewGzipCompressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
	format.CompressionGzip: NewGzipCompressor(),
}

// GetCodec retrieves the shared built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// Stream magic numbers.
var (
	magicGzip   = []byte{0x1f, 0x8b}
	magicZstd   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4    = []byte{0x04, 0x22, 0x4d, 0x18}
	magicS2     = []byte("\xff\x06\x00\x00S2sTwO")
	magicSnappy = []byte("\xff\x06\x00\x00sNaPpY")
)

// DetectLength is the number of leading bytes Detect needs to recognize every format.
const DetectLength = 10

// Detect identifies the compression of a stream from its first bytes. Anything
// unrecognized, including plain WOD text, is reported as format.CompressionNone.
func Detect(prefix []byte) format.CompressionType {
	switch {
	case bytes.HasPrefix(prefix, magicGzip):
		return format.CompressionGzip
	case bytes.HasPrefix(prefix, magicZstd):
		return format.CompressionZstd
	case bytes.HasPrefix(prefix, magicLZ4):
		return format.CompressionLZ4
	case bytes.HasPrefix(prefix, magicS2), bytes.HasPrefix(prefix, magicSnappy):
		return format.CompressionS2
	default:
		return format.CompressionNone
	}
}

// ForPath guesses the compression of a file from its extension.
func ForPath(path string) format.CompressionType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return format.CompressionGzip
	case ".zst", ".zstd":
		return format.CompressionZstd
	case ".s2", ".sz":
		return format.CompressionS2
	case ".lz4":
		return format.CompressionLZ4
	default:
		return format.CompressionNone
	}
}

// NewReader sniffs the compression of r and returns a reader over the
// decompressed stream together with the detected type.
func NewReader(r io.Reader) (io.ReadCloser, format.CompressionType, error) {
	br := bufio.NewReader(r)
	prefix, err := br.Peek(DetectLength)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, format.CompressionNone, err
	}

	kind := Detect(prefix)
	codec, err := GetCodec(kind)
	if err != nil {
		return nil, kind, err
	}

	rc, err := codec.NewReader(br)
	if err != nil {
		return nil, kind, fmt.Errorf("open %s stream: %w", kind, err)
	}

	return rc, kind, nil
}

// Auto decompresses data whose compression is detected from its first bytes.
func Auto(data []byte) ([]byte, format.CompressionType, error) {
	kind := Detect(data)
	codec, err := GetCodec(kind)
	if err != nil {
		return nil, kind, err
	}

	out, err := codec.Decompress(data)

	return out, kind, err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// compressWith runs data through a streaming writer and returns the result.
func compressWith(data []byte, newWriter func(io.Writer) (io.WriteCloser, error)) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 64)

	w, err := newWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// decompressWith drains a streaming reader over data.
func decompressWith(data []byte, newReader func(io.Reader) (io.ReadCloser, error)) ([]byte, error) {
	r, err := newReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}
