// Package profile decodes and encodes World Ocean Database casts.
//
// A cast is one record of a WOD ASCII file: a primary header, the variable
// table, optional character, secondary and biological blocks, then one row per
// depth level. Two dialects share this layout. Classic records start with 'C';
// IQuOD records start with 'A' and add uncertainties and per-level metadata.
//
// Decoding produces an immutable Profile:
//
//	p, err := profile.Decode(data)
//	if err != nil {
//		return err
//	}
//	t := p.T().Floats() // NaN where absent
//
// Whole files can be read with DecodeAll, streamed with a Scanner, or indexed
// with BuildIndex and decoded concurrently with DecodeIndexed.
//
// Encode and Encoder write profiles back out, wrapped at 80 columns. Without
// precision options every value keeps the precision it was decoded with, so
// decoding the output yields an equal Profile.
package profile
