package profile

import (
	"errors"
	"fmt"

	"github.com/iquod/wod/codec"
	"github.com/iquod/wod/errs"
	"github.com/iquod/wod/format"
	"github.com/iquod/wod/internal/options"
	"github.com/iquod/wod/section"
	"github.com/sirupsen/logrus"
)

// DecoderConfig holds the decoding options.
type DecoderConfig struct {
	logger       logrus.FieldLogger
	strictLength bool
}

// DecodeOption configures a Decoder.
type DecodeOption = options.Option[*DecoderConfig]

// WithLogger sets the logger that receives non-fatal findings, such as an
// unknown probe code. The default is the logrus standard logger.
func WithLogger(l logrus.FieldLogger) DecodeOption {
	return options.New(func(c *DecoderConfig) error {
		if l == nil {
			return errors.New("nil logger")
		}
		c.logger = l

		return nil
	})
}

// WithStrictLength controls whether the declared record size bounds the decode.
// It is enabled by default; disabling it lets records whose size field
// disagrees with their content decode as long as the grammar itself is intact.
//
// Only Decode, DecodeAll and Decoder.DecodeOne over a whole buffer honor a
// lenient size. Scanner, BuildIndex and DecodeIndexed locate records by their
// size prefix, so a record longer than its declared size still fails there.
func WithStrictLength(strict bool) DecodeOption {
	return options.NoError(func(c *DecoderConfig) {
		c.strictLength = strict
	})
}

// Decoder decodes cast records from cursors. A Decoder holds only configuration
// and may be shared between goroutines; each cursor must not be.
type Decoder struct {
	cfg DecoderConfig
}

// NewDecoder creates a Decoder with the given options.
func NewDecoder(opts ...DecodeOption) (*Decoder, error) {
	cfg := DecoderConfig{
		logger:       logrus.StandardLogger(),
		strictLength: true,
	}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return &Decoder{cfg: cfg}, nil
}

var defaultDecoder, _ = NewDecoder()

// DecodeOne decodes the record at the cursor with default options.
func DecodeOne(c *codec.Cursor) (Profile, Span, error) {
	return defaultDecoder.DecodeOne(c)
}

// Decode decodes the first record of data.
func Decode(data []byte, opts ...DecodeOption) (Profile, error) {
	dec, err := NewDecoder(opts...)
	if err != nil {
		return Profile{}, err
	}
	p, _, err := dec.DecodeOne(codec.NewCursor(data))

	return p, err
}

// DecodeAll decodes every record of data in order. On failure it returns the
// profiles decoded before the failing record together with the error.
func DecodeAll(data []byte, opts ...DecodeOption) ([]Profile, error) {
	dec, err := NewDecoder(opts...)
	if err != nil {
		return nil, err
	}

	var out []Profile
	c := codec.NewCursor(data)
	for !c.Done() {
		p, _, err := dec.DecodeOne(c)
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}

	return out, nil
}

// DecodeOne decodes one record starting at the cursor and advances the cursor
// past it and past the padding that completes its last line.
//
// Any grammar violation aborts the record. The error wraps one of the errs
// sentinels and a *errs.DecodeError locating the failing field. The cursor
// position after a failure is unspecified.
func (d *Decoder) DecodeOne(c *codec.Cursor) (Profile, Span, error) {
	c.SkipPadding()
	start := c.Offset()

	rec, err := d.decodeRecord(c)
	if err != nil {
		return Profile{}, Span{}, fmt.Errorf("record at offset %d: %w", start, err)
	}
	c.SkipPadding()
	span := Span{Start: start, End: c.Offset()}

	p, err := FromRecord(rec)
	if err != nil {
		return Profile{}, span, fmt.Errorf("record at offset %d: %w", start, err)
	}

	if _, perr := resolveProbe(rec.Secondary); perr != nil {
		d.cfg.logger.WithFields(logrus.Fields{
			"uid":    rec.Header.UID,
			"offset": start,
		}).WithError(perr).Warn("probe type resolved to absent")
	}

	return p, span, nil
}

func (d *Decoder) decodeRecord(c *codec.Cursor) (Record, error) {
	var rec Record

	start := c.Consumed()
	off := c.Offset()

	marker, err := c.ReadByte()
	if err != nil {
		return rec, errs.AtField(err, off, "version")
	}
	if rec.Dialect, err = format.ParseDialect(marker); err != nil {
		return rec, errs.AtField(fmt.Errorf("%w: marker %q", errs.ErrUnknownDialect, marker), off, "version")
	}

	size, err := codec.LengthPrefixedCount(c, "record size")
	if err != nil {
		return rec, err
	}

	outer := c.Limit()
	if d.cfg.strictLength {
		c.SetLimit(start + size)
	}
	defer c.SetLimit(outer)

	if err = rec.Header.Parse(c); err != nil {
		return rec, err
	}
	if rec.Variables, err = section.ParseVariableTable(c, rec.Dialect, rec.Header.NVariables); err != nil {
		return rec, err
	}
	if err = rec.Character.Parse(c); err != nil {
		return rec, err
	}
	if rec.Secondary, err = section.ParseSecondaryHeader(c); err != nil {
		return rec, err
	}
	if err = rec.Biological.Parse(c); err != nil {
		return rec, err
	}
	rec.Levels, err = section.ParseLevels(c, rec.Dialect, rec.Header.NLevels, rec.Header.NVariables)
	if err != nil {
		return rec, err
	}

	if d.cfg.strictLength {
		if got := c.Consumed() - start; got != size {
			return rec, errs.AtField(
				fmt.Errorf("%w: record declares %d characters, read %d", errs.ErrLengthMismatch, size, got),
				off, "record size")
		}
	}

	return rec, nil
}
