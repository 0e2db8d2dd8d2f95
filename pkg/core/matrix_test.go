package core_test

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/matrixvault/pkg/core"
)

func TestNew_DefensiveCopy(t *testing.T) {
	raw := [][]float64{{1, 2}, {3, 4}}
	m, err := core.New(raw)
	require.NoError(t, err)

	raw[0][0] = 99
	v, err := m.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)

	values := m.Values()
	values[1][1] = -1
	v, _ = m.At(1, 1)
	require.Equal(t, 4.0, v, "Values must return a copy")
}

func TestNew_Ragged(t *testing.T) {
	_, err := core.New([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, core.ErrBadShape)
}

func TestNewFromData(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	m, err := core.NewFromData(2, 3, data)
	require.NoError(t, err)
	require.Equal(t, 2, m.Rows())
	require.Equal(t, 3, m.Cols())

	data[5] = 0
	v, _ := m.At(1, 2)
	require.Equal(t, 6.0, v)

	_, err = core.NewFromData(2, 2, data)
	require.ErrorIs(t, err, core.ErrBadShape)
	_, err = core.NewFromData(-1, 2, nil)
	require.ErrorIs(t, err, core.ErrBadShape)
}

func TestAt_OutOfRange(t *testing.T) {
	m := core.Zero(2, 3)
	for _, idx := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 3}} {
		_, err := m.At(idx[0], idx[1])
		require.ErrorIs(t, err, core.ErrOutOfRange, "At(%d,%d)", idx[0], idx[1])
	}
	_, err := m.Row(2)
	require.ErrorIs(t, err, core.ErrOutOfRange)
}

func TestZeroAndIdentity(t *testing.T) {
	z := core.Zero(2, 3)
	require.Equal(t, 2, z.Rows())
	require.Equal(t, 3, z.Cols())
	for _, v := range z.Data() {
		require.Zero(t, v)
	}
	require.True(t, core.ZeroSquare(3).Equals(core.Zero(3, 3)))

	id := core.Identity(3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v, _ := id.At(i, j)
			if i == j {
				require.Equal(t, 1.0, v)
			} else {
				require.Equal(t, 0.0, v)
			}
		}
	}

	require.Panics(t, func() { core.Zero(-1, 2) })
	require.Equal(t, 0, core.Identity(0).Rows())
}

func TestEquals(t *testing.T) {
	a := core.MustNew([][]float64{{1, 2}, {3, 4}})
	b := core.MustNew([][]float64{{1, 2}, {3, 4}})
	c := core.MustNew([][]float64{{1, 2}, {3, 5}})

	require.True(t, a.Equals(b))
	require.False(t, a.Equals(c))
	require.False(t, a.Equals(a.Transpose()))
	require.False(t, core.Zero(1, 4).Equals(core.Zero(4, 1)))
	require.False(t, a.Equals(nil))

	nan := core.MustNew([][]float64{{math.NaN()}})
	require.False(t, nan.Equals(nan), "NaN never equals NaN")

	pos := core.MustNew([][]float64{{0}})
	neg := core.MustNew([][]float64{{math.Copysign(0, -1)}})
	require.True(t, pos.Equals(neg))
	require.Equal(t, pos.HashCode(), neg.HashCode())
}

func TestHashCode_ConsistentWithEquals(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		a := core.Random(3, 4, rng)
		b, err := core.NewFromData(3, 4, a.Data())
		require.NoError(t, err)
		require.True(t, a.Equals(b))
		require.Equal(t, a.HashCode(), b.HashCode())
		require.Equal(t, a.HashCode(), a.HashCode(), "cached hash must be stable")
	}

	// Same data, different shape.
	require.NotEqual(t, core.Zero(2, 3).HashCode(), core.Zero(3, 2).HashCode())
}

func TestString(t *testing.T) {
	m := core.MustNew([][]float64{{1, 2.5}, {-3, 4}})
	require.Equal(t, "1, 2.5\n-3, 4\n", m.String())
	require.Equal(t, "", core.Zero(0, 0).String())
}

func TestRandom_Range(t *testing.T) {
	m := core.Random(10, 10, rand.New(rand.NewSource(1)))
	for _, v := range m.Data() {
		if v < -10 || v >= 10 {
			t.Fatalf("value %v outside [-10, 10)", v)
		}
	}
}

func TestFormatError(t *testing.T) {
	err := error(&core.FormatError{Format: "text", Line: 3, Token: "x", Err: errors.New("not a number")})
	require.ErrorIs(t, err, core.ErrFormat)
	require.Equal(t, `text: line 3: token "x": not a number`, err.Error())

	eof := error(&core.FormatError{Format: "binary", Offset: 16, Err: core.ErrUnexpectedEOF})
	require.ErrorIs(t, eof, core.ErrFormat)
	require.ErrorIs(t, eof, core.ErrUnexpectedEOF)
}

func TestSentinelsArePrefixed(t *testing.T) {
	for _, err := range []error{
		core.ErrDimensionMismatch, core.ErrOutOfRange, core.ErrBadShape, core.ErrNilMatrix,
		core.ErrFormat, core.ErrUnexpectedEOF, core.ErrUnknownCodec, core.ErrReadOnly,
	} {
		require.True(t, strings.HasPrefix(err.Error(), "matrixvault: "), err.Error())
	}
}
