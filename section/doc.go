// Package section implements the grammar stages of a WOD cast record.
//
// A record is decoded in a fixed order, each stage consuming either a fixed
// width or a length it has just decoded:
//
//	version  'C' (classic WOD13) or 'A' (IQuOD 0.1)
//	size     length-prefixed total characters of the record
//	PrimaryHeader      uid, country, cruise, date, time, position, counts
//	variable table     code, QC flag, metadata entries per variable
//	CharacterData      originator cruise/station, principal investigators
//	secondary header   (code, value) entries
//	BiologicalHeader   (code, value) entries and taxa-specific sets
//	level data         depth and one measurement slot per variable, per level
//
// The optional blocks start with a size that counts its own prefix; a size of
// zero marks the block absent. The IQuOD dialect adds an uncertainty after every
// depth and value, an intelligent-metadata flag to every metadata entry, and a
// metadata block to every present measurement.
//
// Missing values are written as '-' and carry no flags. The version and size
// fields are handled by the profile package, which bounds the cursor to the
// record before invoking these parsers.
package section
