package codec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/aretw0/matrixvault/pkg/core"
)

// HeaderSize is the size in bytes of the binary header (two int32).
const HeaderSize = 8

// Binary reads and writes the fixed little-endian layout:
// int32 rows, int32 cols, then rows*cols float64 in row-major order.
type Binary struct{}

// NewBinary creates a binary codec.
func NewBinary() *Binary {
	return &Binary{}
}

func (c *Binary) Name() string      { return "binary" }
func (c *Binary) Extension() string { return ".bin" }

func (c *Binary) Encode(w io.Writer, m *core.Matrix) error {
	if m == nil {
		return core.ErrNilMatrix
	}
	if m.Rows() > math.MaxInt32 || m.Cols() > math.MaxInt32 {
		return fmt.Errorf("binary: %dx%d does not fit int32 header", m.Rows(), m.Cols())
	}
	bw := bufio.NewWriter(w)
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[:4], uint32(m.Rows()))
	binary.LittleEndian.PutUint32(buf[4:], uint32(m.Cols()))
	if _, err := bw.Write(buf[:]); err != nil {
		return err
	}
	for _, v := range m.Data() {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (c *Binary) Decode(r io.Reader) (*core.Matrix, error) {
	br := bufio.NewReader(r)
	var buf [8]byte
	if _, err := io.ReadFull(br, buf[:]); err != nil {
		return nil, c.errorf(0, err)
	}
	rows := int32(binary.LittleEndian.Uint32(buf[:4]))
	cols := int32(binary.LittleEndian.Uint32(buf[4:]))
	if rows < 0 || cols < 0 {
		return nil, &core.FormatError{Format: c.Name(), Err: fmt.Errorf("negative dimensions %dx%d", rows, cols)}
	}

	n := int(rows) * int(cols)
	data := make([]float64, 0, min(n, maxPrealloc))
	for k := 0; k < n; k++ {
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			return nil, c.errorf(int64(HeaderSize+8*k), err)
		}
		data = append(data, math.Float64frombits(binary.LittleEndian.Uint64(buf[:])))
	}
	return core.NewFromData(int(rows), int(cols), data)
}

func (c *Binary) errorf(offset int64, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = core.ErrUnexpectedEOF
	}
	return &core.FormatError{Format: c.Name(), Offset: offset, Err: err}
}
