package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/aretw0/matrixvault/pkg/core"
)

// JSON reads and writes a matrix as an array of row arrays.
type JSON struct {
	// Lenient accepts rows longer than the first row and ignores their extra
	// entries. Rows shorter than the first row are always rejected.
	Lenient bool
}

// NewJSON creates a JSON codec.
func NewJSON(lenient bool) *JSON {
	return &JSON{Lenient: lenient}
}

func (c *JSON) Name() string      { return "json" }
func (c *JSON) Extension() string { return ".json" }

func (c *JSON) Encode(w io.Writer, m *core.Matrix) error {
	if m == nil {
		return core.ErrNilMatrix
	}
	if err := checkFinite(c.Name(), m); err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(m.Values())
}

func (c *JSON) Decode(r io.Reader) (*core.Matrix, error) {
	var values [][]float64
	if err := json.NewDecoder(r).Decode(&values); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = core.ErrUnexpectedEOF
		}
		return nil, &core.FormatError{Format: c.Name(), Err: err}
	}
	if values == nil {
		return nil, &core.FormatError{Format: c.Name(), Token: "null", Err: errors.New("expected an array of rows")}
	}
	return fromRows(c.Name(), values, c.Lenient)
}

// fromRows builds a matrix whose column count is taken from the first row.
func fromRows(format string, values [][]float64, lenient bool) (*core.Matrix, error) {
	if len(values) == 0 {
		return core.Zero(0, 0), nil
	}
	cols := len(values[0])
	data := make([]float64, 0, len(values)*cols)
	for i, row := range values {
		switch {
		case len(row) == cols:
		case len(row) > cols && lenient:
			row = row[:cols]
		default:
			return nil, &core.FormatError{
				Format: format,
				Line:   i + 1,
				Err:    fmt.Errorf("row has %d values, first row has %d", len(row), cols),
			}
		}
		data = append(data, row...)
	}
	return core.NewFromData(len(values), cols, data)
}

func checkFinite(format string, m *core.Matrix) error {
	for _, v := range m.Data() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: cannot encode non-finite value %v", format, v)
		}
	}
	return nil
}
