package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrDimensionMismatch is returned when operand shapes are incompatible
	// (Add/Subtract with different shapes, Multiply with a.Cols != b.Rows).
	ErrDimensionMismatch = errors.New("matrixvault: dimension mismatch")

	// ErrOutOfRange indicates a row or column index outside the matrix bounds.
	ErrOutOfRange = errors.New("matrixvault: index out of range")

	// ErrBadShape is returned when raw values are not rectangular or the
	// requested dimensions are negative.
	ErrBadShape = errors.New("matrixvault: invalid shape")

	// ErrNilMatrix is returned when a nil *Matrix is passed as an operand.
	ErrNilMatrix = errors.New("matrixvault: nil matrix")

	// ErrFormat marks malformed serialized input.
	ErrFormat = errors.New("matrixvault: malformed input")

	// ErrUnexpectedEOF marks a stream that ended before the declared payload.
	ErrUnexpectedEOF = errors.New("matrixvault: unexpected end of stream")

	// ErrUnknownCodec is returned when a codec name or extension is not registered.
	ErrUnknownCodec = errors.New("matrixvault: unknown codec")

	// ErrReadOnly is returned by writes against a read-only repository.
	ErrReadOnly = errors.New("matrixvault: repository is read-only")
)

// FormatError describes malformed input found while decoding.
// Line is 1-based: the text line for line-oriented formats, the row for
// array formats, and 0 when not applicable.
type FormatError struct {
	Format string
	Line   int
	Offset int64
	Token  string
	Err    error
}

func (e *FormatError) Error() string {
	msg := e.Format + ": "
	switch {
	case e.Line > 0:
		msg += fmt.Sprintf("line %d: ", e.Line)
	case e.Offset > 0:
		msg += fmt.Sprintf("offset %d: ", e.Offset)
	}
	if e.Token != "" {
		msg += fmt.Sprintf("token %q: ", e.Token)
	}
	if e.Err != nil {
		msg += e.Err.Error()
	} else {
		msg += "malformed input"
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is reports FormatError as ErrFormat so callers can match any decode failure.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

func shapeErrorf(op string, a, b *Matrix) error {
	return fmt.Errorf("%s %dx%d and %dx%d: %w", op, a.rows, a.cols, b.rows, b.cols, ErrDimensionMismatch)
}
