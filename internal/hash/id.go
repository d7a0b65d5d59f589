// Package hash fingerprints raw cast records.
package hash

import "github.com/cespare/xxhash/v2"

// Record computes the xxHash64 of a record's raw bytes, line breaks included.
func Record(raw []byte) uint64 {
	return xxhash.Sum64(raw)
}

// Logical computes the xxHash64 of a record's logical characters, skipping line
// breaks, so the same record wrapped at different widths hashes the same.
func Logical(raw []byte) uint64 {
	d := xxhash.New()
	start := 0
	for i, b := range raw {
		if b == '\n' || b == '\r' {
			if i > start {
				_, _ = d.Write(raw[start:i])
			}
			start = i + 1
		}
	}
	if start < len(raw) {
		_, _ = d.Write(raw[start:])
	}

	return d.Sum64()
}
