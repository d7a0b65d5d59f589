// Package compress provides the compression codecs WOD archive files are
// distributed and stored with.
//
// NOAA publishes World Ocean Database extracts as gzip files; local mirrors often
// recompress them with a faster or denser algorithm. Every codec here writes a
// self-describing stream, so the algorithm can be detected from the first bytes
// of a file and records can be streamed without holding the whole archive.
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): plain WOD text
//   - Gzip (format.CompressionGzip): gzip members, the distribution format
//   - Zstd (format.CompressionZstd): Zstandard frames; best ratio for archives
//   - S2 (format.CompressionS2): S2 streams; also reads Snappy framed streams
//   - LZ4 (format.CompressionLZ4): LZ4 frames; fastest decompression
//
// # Architecture
//
//	type Codec interface {
//	    Compress(data []byte) ([]byte, error)
//	    Decompress(data []byte) ([]byte, error)
//	    Type() format.CompressionType
//	    NewReader(r io.Reader) (io.ReadCloser, error)
//	    NewWriter(w io.Writer) (io.WriteCloser, error)
//	}
//
// The whole-buffer and streaming forms of a codec share one wire format.
//
// # Detection
//
//	rc, kind, err := compress.NewReader(f)
//	if err != nil {
//	    return err
//	}
//	defer rc.Close()
//	sc, err := profile.NewScanner(rc)
//
// Detect inspects magic bytes; ForPath maps file extensions to an algorithm
// when writing.
//
// # Build Tags
//
// Zstandard uses the pure-Go klauspost/compress implementation. Building with
// -tags gozstd and cgo enabled switches to the libzstd binding.
//
// # Thread Safety
//
// Codecs are stateless and safe for concurrent use. Encoders and decoders are
// pooled internally. Readers and writers returned by NewReader and NewWriter
// belong to a single goroutine.
package compress
