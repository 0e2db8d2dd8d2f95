package core

import "io"

// Codec defines how a matrix is written to and read from a byte stream.
// Implementations must round-trip: Decode(Encode(m)) equals m.
type Codec interface {
	// Name is the short format name used in configuration (e.g. "text").
	Name() string
	// Extension is the default file extension, including the dot.
	Extension() string
	// Encode writes m to w.
	Encode(w io.Writer, m *Matrix) error
	// Decode reads one matrix from r. No partial matrix is returned on error.
	Decode(r io.Reader) (*Matrix, error)
}
