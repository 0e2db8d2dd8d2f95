package codec

import (
	"errors"
	"io"

	"github.com/aretw0/matrixvault/pkg/core"
	"gopkg.in/yaml.v3"
)

// YAML reads and writes a matrix as a sequence of row sequences.
// Unlike JSON it can carry NaN and ±Inf.
type YAML struct {
	// Lenient has the same meaning as JSON.Lenient.
	Lenient bool
}

// NewYAML creates a YAML codec.
func NewYAML(lenient bool) *YAML {
	return &YAML{Lenient: lenient}
}

func (c *YAML) Name() string      { return "yaml" }
func (c *YAML) Extension() string { return ".yaml" }

func (c *YAML) Encode(w io.Writer, m *core.Matrix) error {
	if m == nil {
		return core.ErrNilMatrix
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(m.Values()); err != nil {
		return err
	}
	return encoder.Close()
}

func (c *YAML) Decode(r io.Reader) (*core.Matrix, error) {
	var values [][]float64
	if err := yaml.NewDecoder(r).Decode(&values); err != nil {
		if errors.Is(err, io.EOF) {
			err = core.ErrUnexpectedEOF
		}
		return nil, &core.FormatError{Format: c.Name(), Err: err}
	}
	if values == nil {
		return nil, &core.FormatError{Format: c.Name(), Token: "null", Err: errors.New("expected a sequence of rows")}
	}
	return fromRows(c.Name(), values, c.Lenient)
}
