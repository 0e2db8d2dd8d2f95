// Package codec provides the matrix encodings understood by matrixvault:
// a line-oriented text format, a fixed little-endian binary layout, JSON and
// YAML arrays of rows. Each codec implements core.Codec and round-trips every
// matrix it can represent.
//
// File layouts:
//
//	text    "<rows> <cols>\n" then one line per row, values joined by the separator
//	binary  int32 rows | int32 cols | rows*cols float64, little-endian, no padding
//	json    [[1,2],[3,4]]
//	yaml    a sequence of sequences
//
// JSON and YAML cannot carry the column count of a matrix without rows, so a
// 0×n matrix decodes as 0×0.
package codec
