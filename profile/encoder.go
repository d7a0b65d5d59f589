package profile

import (
	"fmt"
	"io"
	"maps"

	"github.com/iquod/wod/codec"
	"github.com/iquod/wod/errs"
	"github.com/iquod/wod/internal/options"
	"github.com/iquod/wod/internal/pool"
	"github.com/iquod/wod/section"
)

// KeepPrecision leaves a decimal at the precision it already carries.
const KeepPrecision = -1

// EncoderConfig holds the encoding options.
type EncoderConfig struct {
	timePrecision     int
	positionPrecision int
	depthPrecision    int
	uncPrecision      int
	valuePrecision    map[int]int
	lineWidth         int
}

// EncodeOption configures an Encoder.
type EncodeOption = options.Option[*EncoderConfig]

func checkPrecision(p int) error {
	if p != KeepPrecision && (p < 0 || p > codec.MaxPrecision) {
		return fmt.Errorf("%w: precision %d outside 0-%d", errs.ErrEncodingOverflow, p, codec.MaxPrecision)
	}

	return nil
}

// WithTimePrecision sets the decimal places of the time of day.
func WithTimePrecision(p int) EncodeOption {
	return options.Named("time precision", func(c *EncoderConfig) error {
		if err := checkPrecision(p); err != nil {
			return err
		}
		c.timePrecision = p

		return nil
	})
}

// WithPositionPrecision sets the decimal places of latitude and longitude.
func WithPositionPrecision(p int) EncodeOption {
	return options.Named("position precision", func(c *EncoderConfig) error {
		if err := checkPrecision(p); err != nil {
			return err
		}
		c.positionPrecision = p

		return nil
	})
}

// WithDepthPrecision sets the decimal places of level depths.
func WithDepthPrecision(p int) EncodeOption {
	return options.Named("depth precision", func(c *EncoderConfig) error {
		if err := checkPrecision(p); err != nil {
			return err
		}
		c.depthPrecision = p

		return nil
	})
}

// WithValuePrecision sets the decimal places of the values of one variable.
func WithValuePrecision(code, p int) EncodeOption {
	return options.Named("value precision", func(c *EncoderConfig) error {
		if err := checkPrecision(p); err != nil {
			return err
		}
		if c.valuePrecision == nil {
			c.valuePrecision = make(map[int]int)
		}
		c.valuePrecision[code] = p

		return nil
	})
}

// WithUncertaintyPrecision sets the decimal places of depth and value uncertainties.
func WithUncertaintyPrecision(p int) EncodeOption {
	return options.Named("uncertainty precision", func(c *EncoderConfig) error {
		if err := checkPrecision(p); err != nil {
			return err
		}
		c.uncPrecision = p

		return nil
	})
}

// WithLineWidth sets the column width records are wrapped at. Zero writes each
// record on a single line. The default is codec.LineWidth.
func WithLineWidth(n int) EncodeOption {
	return options.Named("line width", func(c *EncoderConfig) error {
		if n < 0 {
			return fmt.Errorf("negative line width %d", n)
		}
		c.lineWidth = n

		return nil
	})
}

// Encoder writes profiles as wrapped WOD ASCII records.
type Encoder struct {
	w   io.Writer
	cfg EncoderConfig
}

// NewEncoder creates an Encoder writing to w.
//
// By default every decimal keeps its own precision, so a decoded profile
// re-encodes to the same characters.
func NewEncoder(w io.Writer, opts ...EncodeOption) (*Encoder, error) {
	cfg := EncoderConfig{
		timePrecision:     KeepPrecision,
		positionPrecision: KeepPrecision,
		depthPrecision:    KeepPrecision,
		uncPrecision:      KeepPrecision,
		lineWidth:         codec.LineWidth,
	}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	cfg.valuePrecision = maps.Clone(cfg.valuePrecision)

	return &Encoder{w: w, cfg: cfg}, nil
}

// Encode encodes p with the given options and returns the wrapped record.
func Encode(p Profile, opts ...EncodeOption) ([]byte, error) {
	enc, err := NewEncoder(io.Discard, opts...)
	if err != nil {
		return nil, err
	}

	return enc.Append(nil, p)
}

// Encode writes one record to the underlying writer.
func (e *Encoder) Encode(p Profile) error {
	buf := pool.GetStreamBuffer()
	defer pool.PutStreamBuffer(buf)

	out, err := e.Append(buf.B[:0], p)
	if err != nil {
		return err
	}
	buf.B = out
	_, err = buf.WriteTo(e.w)

	return err
}

// Append appends the wrapped record of p to dst.
func (e *Encoder) Append(dst []byte, p Profile) ([]byte, error) {
	rec, err := e.rescale(p.rec)
	if err != nil {
		return dst, fmt.Errorf("uid %d: %w", p.UID(), err)
	}

	body := codec.NewWriter()
	defer body.Release()

	if err := encodeSections(body, rec); err != nil {
		return dst, fmt.Errorf("uid %d: %w", p.UID(), err)
	}

	prefix, err := codec.SelfSizedPrefix(1 + body.Len())
	if err != nil {
		return dst, fmt.Errorf("uid %d: record size: %w", p.UID(), err)
	}

	logical := codec.NewWriter()
	defer logical.Release()

	_ = logical.WriteByte(rec.Dialect.Marker())
	logical.WriteString(prefix)
	_, _ = logical.Write(body.Bytes())

	return codec.AppendWrapped(dst, logical.Bytes(), e.cfg.lineWidth), nil
}

func encodeSections(w *codec.Writer, rec Record) error {
	if err := rec.Header.Encode(w); err != nil {
		return fmt.Errorf("primary header: %w", err)
	}
	if err := section.EncodeVariableTable(w, rec.Dialect, rec.Variables); err != nil {
		return fmt.Errorf("variable table: %w", err)
	}
	if err := rec.Character.Encode(w); err != nil {
		return fmt.Errorf("character data: %w", err)
	}
	if err := section.EncodeSecondaryHeader(w, rec.Secondary); err != nil {
		return fmt.Errorf("secondary header: %w", err)
	}
	if err := rec.Biological.Encode(w); err != nil {
		return fmt.Errorf("biological header: %w", err)
	}

	return section.EncodeLevels(w, rec.Dialect, rec.Levels)
}

func (e *Encoder) overridesPrecision() bool {
	c := e.cfg
	return c.timePrecision != KeepPrecision || c.positionPrecision != KeepPrecision ||
		c.depthPrecision != KeepPrecision || c.uncPrecision != KeepPrecision ||
		len(c.valuePrecision) > 0
}

// rescale returns rec with the configured precisions applied. rec is returned
// unchanged, not copied, when no precision is overridden.
func (e *Encoder) rescale(rec Record) (Record, error) {
	if !e.overridesPrecision() {
		return rec, nil
	}

	out := cloneRecord(rec)
	h := &out.Header

	var err error
	if h.Time, err = h.Time.WithPrecision(e.cfg.timePrecision); err != nil {
		return out, fmt.Errorf("time: %w", err)
	}
	if h.Latitude, err = h.Latitude.WithPrecision(e.cfg.positionPrecision); err != nil {
		return out, fmt.Errorf("latitude: %w", err)
	}
	if h.Longitude, err = h.Longitude.WithPrecision(e.cfg.positionPrecision); err != nil {
		return out, fmt.Errorf("longitude: %w", err)
	}

	for i := range out.Levels {
		lvl := &out.Levels[i]
		if lvl.Depth, err = lvl.Depth.WithPrecision(e.cfg.depthPrecision); err != nil {
			return out, fmt.Errorf("level %d depth: %w", i+1, err)
		}
		if lvl.DepthUnc, err = lvl.DepthUnc.WithPrecision(e.cfg.uncPrecision); err != nil {
			return out, fmt.Errorf("level %d depth uncertainty: %w", i+1, err)
		}
		for j := range lvl.Values {
			m := &lvl.Values[j]
			prec, ok := e.cfg.valuePrecision[out.Variables[j].Code]
			if ok {
				if m.Value, err = m.Value.WithPrecision(prec); err != nil {
					return out, fmt.Errorf("level %d variable %d: %w", i+1, out.Variables[j].Code, err)
				}
			}
			if m.Unc, err = m.Unc.WithPrecision(e.cfg.uncPrecision); err != nil {
				return out, fmt.Errorf("level %d variable %d uncertainty: %w", i+1, out.Variables[j].Code, err)
			}
		}
	}

	return out, nil
}
