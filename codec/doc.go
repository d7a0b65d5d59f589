// Package codec implements the field-level primitives of the WOD ASCII format.
//
// Two numeric encodings appear in every record:
//
//   - Length-prefixed integers: one digit L followed by L characters, for example
//     "567064" for 67064 and "5-5006" for -5006.
//   - Scaled decimals: either the missing marker '-', or three digits giving the
//     significant figures, the field width W and the precision P, followed by W
//     characters holding a signed integer. "4426193" decodes as 61.93.
//
// Cursor reads these fields from a buffer, skipping the line breaks that wrap
// records at 80 columns. Writer assembles them back into logical record text,
// and AppendWrapped re-wraps it into lines.
//
// Decoded scaled decimals are kept as Decimal values, which preserve the digits
// and the precision exactly and distinguish a missing value from zero.
package codec
