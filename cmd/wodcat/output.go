package main

import (
	"io"
	"math"
	"os"
	"strconv"

	"github.com/iquod/wod/compress"
	"github.com/iquod/wod/format"
	"github.com/iquod/wod/profile"
)

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// createOutput opens path for writing, or wraps standard output for "-".
func (a *app) createOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{a.out}, nil
	}

	return os.Create(path)
}

// outputCompression picks the codec for path: an explicit flag wins, then the
// path extension, then the configuration.
func (a *app) outputCompression(path string, flag *compressionFlag) format.CompressionType {
	if flag.set {
		return flag.kind
	}
	if kind := compress.ForPath(path); kind != format.CompressionNone {
		return kind
	}

	return a.cfg.Compression()
}

// writeCasts encodes casts to path through the selected codec.
func (a *app) writeCasts(path string, flag *compressionFlag, casts []profile.Profile) (err error) {
	kind := a.outputCompression(path, flag)
	codec, err := compress.CreateCodec(kind, "output")
	if err != nil {
		return err
	}

	out, err := a.createOutput(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	cw, err := codec.NewWriter(out)
	if err != nil {
		return err
	}

	enc, err := profile.NewEncoder(cw, a.cfg.EncodeOptions()...)
	if err != nil {
		cw.Close()
		return err
	}
	for _, p := range casts {
		if err := enc.Encode(p); err != nil {
			cw.Close()
			return err
		}
	}

	if err := cw.Close(); err != nil {
		return err
	}

	a.log.WithField("path", path).WithField("compression", kind.String()).
		Infof("wrote %d casts", len(casts))

	return nil
}

// formatFloat renders v compactly, with "-" for NaN.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}
