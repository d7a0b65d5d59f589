package section

import (
	"fmt"

	"github.com/iquod/wod/codec"
	"github.com/iquod/wod/errs"
)

// PI names the principal investigator responsible for one variable. Negative
// variable codes refer to biological or other non-profile data.
type PI struct {
	VariableCode int
	Code         int
}

// CharacterData holds the optional character block: originator identifiers and
// the principal investigators. Empty strings mean the field was not supplied.
type CharacterData struct {
	OriginatorCruise  string
	OriginatorStation string
	PIs               []PI
}

// Empty reports whether the block carries no entries and is written as absent.
func (cd CharacterData) Empty() bool {
	return cd.OriginatorCruise == "" && cd.OriginatorStation == "" && len(cd.PIs) == 0
}

// Parse decodes the character data block. An absent block leaves cd empty.
func (cd *CharacterData) Parse(c *codec.Cursor) error {
	*cd = CharacterData{PIs: []PI{}}

	_, err := parseBlock(c, "character data", func() error {
		n, err := codec.Digits(c, CharEntryCountWidth, "character entry count")
		if err != nil {
			return err
		}

		for range n {
			off := c.Offset()
			kind, err := codec.Digits(c, CharTypeWidth, "character entry type")
			if err != nil {
				return err
			}

			switch kind {
			case CharOriginatorCruise, CharOriginatorStation:
				length, err := codec.Digits(c, TextLengthWidth, "character entry length")
				if err != nil {
					return err
				}
				text, err := codec.Text(c, length, "character entry")
				if err != nil {
					return err
				}
				if kind == CharOriginatorCruise {
					cd.OriginatorCruise = text
				} else {
					cd.OriginatorStation = text
				}
			case CharPrincipalInvestigators:
				pis, err := parsePIs(c)
				if err != nil {
					return err
				}
				cd.PIs = append(cd.PIs, pis...)
			default:
				return errs.AtField(fmt.Errorf("%w: character entry type %d", errs.ErrInvalidDigit, kind),
					off, "character entry type")
			}
		}

		return nil
	})

	return err
}

func parsePIs(c *codec.Cursor) ([]PI, error) {
	n, err := codec.Digits(c, PICountWidth, "pi count")
	if err != nil {
		return nil, err
	}

	pis := make([]PI, n)
	for i := range pis {
		v, err := codec.LengthPrefixedInt(c, "pi variable code")
		if err != nil {
			return nil, err
		}
		code, err := codec.LengthPrefixedInt(c, "pi code")
		if err != nil {
			return nil, err
		}
		pis[i] = PI{VariableCode: int(v), Code: int(code)}
	}

	return pis, nil
}

// Encode writes the character data block, or the absent marker when empty.
//
// The encoding is canonical rather than byte-preserving: an originator entry
// with empty text is not written, and all PIs go into a single type 3 entry
// even when the source split them over several. Decoding the output yields the
// same CharacterData.
func (cd CharacterData) Encode(w *codec.Writer) error {
	return writeBlock(w, cd.Empty(), func(bw *codec.Writer) error {
		entries := 0
		if cd.OriginatorCruise != "" {
			entries++
		}
		if cd.OriginatorStation != "" {
			entries++
		}
		if len(cd.PIs) > 0 {
			entries++
		}
		if err := bw.WriteDigits(entries, CharEntryCountWidth); err != nil {
			return err
		}

		for _, e := range []struct {
			kind int
			text string
		}{
			{CharOriginatorCruise, cd.OriginatorCruise},
			{CharOriginatorStation, cd.OriginatorStation},
		} {
			if e.text == "" {
				continue
			}
			if len(e.text) > maxTextLength {
				return fmt.Errorf("%w: character entry of %d characters", errs.ErrEncodingOverflow, len(e.text))
			}
			if err := bw.WriteDigits(e.kind, CharTypeWidth); err != nil {
				return err
			}
			if err := bw.WriteDigits(len(e.text), TextLengthWidth); err != nil {
				return err
			}
			bw.WriteString(e.text)
		}

		if len(cd.PIs) == 0 {
			return nil
		}
		if len(cd.PIs) > maxPICount {
			return fmt.Errorf("%w: %d principal investigators", errs.ErrEncodingOverflow, len(cd.PIs))
		}
		if err := bw.WriteDigits(CharPrincipalInvestigators, CharTypeWidth); err != nil {
			return err
		}
		if err := bw.WriteDigits(len(cd.PIs), PICountWidth); err != nil {
			return err
		}
		for _, pi := range cd.PIs {
			if err := bw.WriteLengthPrefixedInt(int64(pi.VariableCode)); err != nil {
				return err
			}
			if err := bw.WriteLengthPrefixedInt(int64(pi.Code)); err != nil {
				return err
			}
		}

		return nil
	})
}
