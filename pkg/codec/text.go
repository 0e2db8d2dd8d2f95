package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/matrixvault/pkg/core"
)

// DefaultSeparator separates values inside a text row.
const DefaultSeparator = ", "

// maxPrealloc bounds the up-front allocation driven by an untrusted header.
const maxPrealloc = 1 << 20

// Text reads and writes the line-oriented text layout.
type Text struct {
	// Separator between values of a row. Empty means DefaultSeparator.
	Separator string
}

// NewText creates a text codec with the given separator.
func NewText(sep string) *Text {
	return &Text{Separator: sep}
}

func (c *Text) Name() string      { return "text" }
func (c *Text) Extension() string { return ".txt" }

func (c *Text) sep() string {
	if c.Separator == "" {
		return DefaultSeparator
	}
	return c.Separator
}

func (c *Text) Encode(w io.Writer, m *core.Matrix) error {
	if m == nil {
		return core.ErrNilMatrix
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", m.Rows(), m.Cols())
	sep := c.sep()
	buf := make([]byte, 0, 32)
	for i := 0; i < m.Rows(); i++ {
		row, _ := m.Row(i)
		for j, v := range row {
			if j > 0 {
				bw.WriteString(sep)
			}
			buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
			bw.Write(buf)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func (c *Text) Decode(r io.Reader) (*core.Matrix, error) {
	br := bufio.NewReader(r)
	sep := c.sep()

	header, err := readLine(br)
	if err != nil {
		return nil, c.errorf(1, "", lineErr(err))
	}
	fields := strings.Fields(header)
	if len(fields) != 2 {
		return nil, c.errorf(1, header, errors.New("header must be \"<rows> <cols>\""))
	}
	rows, err := parseDim(fields[0])
	if err != nil {
		return nil, c.errorf(1, fields[0], err)
	}
	cols, err := parseDim(fields[1])
	if err != nil {
		return nil, c.errorf(1, fields[1], err)
	}
	if cols != 0 && rows > math.MaxInt/cols {
		return nil, c.errorf(1, header, errors.New("dimensions overflow"))
	}

	data := make([]float64, 0, min(rows*cols, maxPrealloc))
	for i := 0; i < rows; i++ {
		lineNo := i + 2
		line, err := readLine(br)
		if err != nil {
			return nil, c.errorf(lineNo, "", lineErr(err))
		}
		tokens := splitRow(line, sep)
		if len(tokens) != cols {
			return nil, c.errorf(lineNo, "", fmt.Errorf("got %d values, want %d", len(tokens), cols))
		}
		for _, tok := range tokens {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, c.errorf(lineNo, tok, errors.New("not a number"))
			}
			data = append(data, v)
		}
	}

	for lineNo := rows + 2; ; lineNo++ {
		line, err := readLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, c.errorf(lineNo, "", err)
		}
		if strings.TrimSpace(line) != "" {
			return nil, c.errorf(lineNo, "", errors.New("unexpected data after last row"))
		}
	}

	return core.NewFromData(rows, cols, data)
}

func (c *Text) errorf(line int, token string, err error) error {
	return &core.FormatError{Format: c.Name(), Line: line, Token: token, Err: err}
}

// readLine returns the next line without its terminator. A final line
// without a newline is returned normally; io.EOF is returned only when no
// data is left.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

func lineErr(err error) error {
	if errors.Is(err, io.EOF) {
		return core.ErrUnexpectedEOF
	}
	return err
}

// splitRow splits a row on sep, trimming blanks and dropping empty tokens.
func splitRow(line, sep string) []string {
	var out []string
	for _, tok := range strings.Split(line, sep) {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func parseDim(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("dimension is not an integer")
	}
	if n < 0 {
		return 0, errors.New("dimension is negative")
	}
	return n, nil
}
