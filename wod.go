// Package wod reads and writes World Ocean Database casts in the WOD ASCII
// format, in both the classic and the IQuOD (uncertainty-bearing) dialects.
//
// The format is a stream of self-sized records. Each record carries a primary
// header, a variable table, optional character data, secondary and biological
// headers and finally the depth levels. Every numeric field is a scaled decimal
// prefixed by its digit count and precision, so values round-trip exactly.
//
// # Basic Usage
//
// Decoding every cast of a file, compressed or not:
//
//	import "github.com/iquod/wod"
//
//	casts, err := wod.DecodeFile("ocldb1591.CTD")
//	for _, p := range casts {
//	    t := p.T()
//	    fmt.Println(p.UID(), p.NLevels(), t.Floats())
//	}
//
// Streaming a large file one cast at a time:
//
//	sc, _ := profile.NewScanner(r)
//	for p := range sc.All() {
//	    ...
//	}
//	if err := sc.Err(); err != nil { ... }
//
// Writing casts back, wrapped at 80 columns:
//
//	err := wod.EncodeAll(w, casts)
//
// # Packages
//
//   - profile: record model, decoder, encoder, scanner and indexing
//   - codec: the scaled-decimal field grammar
//   - section: the record sections
//   - view: flat projections, statistics, filters and spreadsheet export
//   - ragged: contiguous ragged-array tables and netCDF export
//   - compress: stream codecs for compressed WOD files
package wod

import (
	"fmt"
	"io"
	"os"

	"github.com/iquod/wod/compress"
	"github.com/iquod/wod/profile"
)

// Version is the library version reported by wodcat.
const Version = "0.3.0"

// Decode decodes the first cast in data.
func Decode(data []byte, opts ...profile.DecodeOption) (profile.Profile, error) {
	return profile.Decode(data, opts...)
}

// DecodeAll decodes every cast in data.
func DecodeAll(data []byte, opts ...profile.DecodeOption) ([]profile.Profile, error) {
	return profile.DecodeAll(data, opts...)
}

// ReadAll decodes every cast from r. Gzip, zstd, S2 and LZ4 streams are
// detected and decompressed.
func ReadAll(r io.Reader, opts ...profile.DecodeOption) ([]profile.Profile, error) {
	rc, _, err := compress.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	return profile.DecodeAll(data, opts...)
}

// DecodeFile decodes every cast of the named file.
func DecodeFile(path string, opts ...profile.DecodeOption) ([]profile.Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ps, err := ReadAll(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return ps, nil
}

// Encode encodes p as a single record.
func Encode(p profile.Profile, opts ...profile.EncodeOption) ([]byte, error) {
	return profile.Encode(p, opts...)
}

// EncodeAll writes every profile of ps to w.
func EncodeAll(w io.Writer, ps []profile.Profile, opts ...profile.EncodeOption) error {
	enc, err := profile.NewEncoder(w, opts...)
	if err != nil {
		return err
	}

	for _, p := range ps {
		if err := enc.Encode(p); err != nil {
			return err
		}
	}

	return nil
}
