package format

import "fmt"

type (
	Dialect         uint8
	FlagKind        uint8
	CompressionType uint8
)

const (
	Classic Dialect = 0x1 // Classic represents the WOD13 record layout, marker 'C'.
	IQuOD   Dialect = 0x2 // IQuOD represents the IQuOD 0.1 record layout, marker 'A'.

	FlagWOD        FlagKind = 0x1 // FlagWOD selects the WOD quality flag digit.
	FlagOriginator FlagKind = 0x2 // FlagOriginator selects the originator (IQuOD) flag digit.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
	CompressionGzip CompressionType = 0x5 // CompressionGzip represents gzip compression.
)

const (
	MarkerClassic byte = 'C'
	MarkerIQuOD   byte = 'A'
)

// ParseDialect maps a record version marker onto its dialect.
func ParseDialect(marker byte) (Dialect, error) {
	switch marker {
	case MarkerClassic:
		return Classic, nil
	case MarkerIQuOD:
		return IQuOD, nil
	default:
		return 0, fmt.Errorf("unknown dialect marker %q", marker)
	}
}

// Marker returns the version character written at the head of a record.
func (d Dialect) Marker() byte {
	if d == IQuOD {
		return MarkerIQuOD
	}

	return MarkerClassic
}

// HasUncertainty reports whether the dialect carries uncertainty fields and
// per-level metadata.
func (d Dialect) HasUncertainty() bool {
	return d == IQuOD
}

func (d Dialect) String() string {
	switch d {
	case Classic:
		return "Classic"
	case IQuOD:
		return "IQuOD"
	default:
		return "Unknown"
	}
}

func (k FlagKind) String() string {
	switch k {
	case FlagWOD:
		return "WOD"
	case FlagOriginator:
		return "Originator"
	default:
		return "Unknown"
	}
}

// ParseFlagKind accepts the names produced by String, case sensitive, plus the
// lower-case aliases used on command lines.
func ParseFlagKind(s string) (FlagKind, error) {
	switch s {
	case "WOD", "wod":
		return FlagWOD, nil
	case "Originator", "originator", "orig", "iquod":
		return FlagOriginator, nil
	default:
		return 0, fmt.Errorf("unknown flag kind %q", s)
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionGzip:
		return "Gzip"
	default:
		return "Unknown"
	}
}

// ParseCompressionType accepts the lower-case names used by configuration files.
func ParseCompressionType(s string) (CompressionType, error) {
	switch s {
	case "", "none", "None":
		return CompressionNone, nil
	case "zstd", "Zstd":
		return CompressionZstd, nil
	case "s2", "S2":
		return CompressionS2, nil
	case "lz4", "LZ4":
		return CompressionLZ4, nil
	case "gzip", "Gzip", "gz":
		return CompressionGzip, nil
	default:
		return 0, fmt.Errorf("unknown compression type %q", s)
	}
}
