package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/iquod/wod/format"
)

// compressionFlag is a --compression value. Unset means "pick from the output
// path, then from the configuration".
type compressionFlag struct {
	kind format.CompressionType
	set  bool
}

var _ pflag.Value = (*compressionFlag)(nil)

func (f *compressionFlag) String() string {
	if !f.set {
		return ""
	}

	return f.kind.String()
}

func (f *compressionFlag) Set(s string) error {
	kind, err := format.ParseCompressionType(s)
	if err != nil {
		return err
	}
	f.kind, f.set = kind, true

	return nil
}

func (f *compressionFlag) Type() string { return "codec" }

// exportFormat is the --format value of the export command.
type exportFormat string

const (
	formatNetCDF exportFormat = "netcdf"
	formatXLSX   exportFormat = "xlsx"
)

var _ pflag.Value = (*exportFormat)(nil)

func (f *exportFormat) String() string { return string(*f) }

func (f *exportFormat) Set(s string) error {
	switch v := exportFormat(strings.ToLower(s)); v {
	case formatNetCDF, formatXLSX:
		*f = v
		return nil
	default:
		return fmt.Errorf("unknown export format %q (want netcdf or xlsx)", s)
	}
}

func (f *exportFormat) Type() string { return "format" }

// addFilterFlag registers the shared --filter flag.
func addFilterFlag(fs *pflag.FlagSet, p *string) {
	fs.StringVar(p, "filter", "", `keep casts matching an expression, e.g. "latitude > 40 && max(t) < 10"`)
}
