package table

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SkipsCommentsAndBlankLines(t *testing.T) {
	input := "# header comment\n" +
		"  # indented comment\n" +
		"\n" +
		"0.9 284.4 -1117.3 1.9\n" +
		"\n" +
		"1.0 256.0 -1144.0 3.3\n"

	tbl, err := Parse(input)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, []float64{0.9, 284.4, -1117.3, 1.9}, tbl.Row(0))
	assert.Equal(t, []float64{1.0, 256.0, -1144.0, 3.3}, tbl.Row(1))
}

func TestParse_WrongColumnCount(t *testing.T) {
	_, err := Parse("1 2 3 4\n1 2 3\n")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMalformedTable)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
}

func TestParse_NonNumericToken(t *testing.T) {
	_, err := Parse("1.0 2.0 oops 4.0\n")
	require.ErrorIs(t, err, ErrMalformedTable)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Error(), "energia_potencial_media")
}

func TestParse_NoDataRows(t *testing.T) {
	for _, input := range []string{"", "\n\n", "# only\n# comments\n"} {
		_, err := Parse(input)
		assert.ErrorIs(t, err, ErrMalformedTable, "input %q", input)
	}
}

func TestParse_ScientificNotation(t *testing.T) {
	tbl, err := Parse("1e-3 2.5E+2 -3.1e0 4\n")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.001, 250, -3.1, 4}, tbl.Row(0))
}

func TestNew_RejectsWrongWidth(t *testing.T) {
	_, err := New([][]float64{{1, 2, 3}})
	require.ErrorIs(t, err, ErrMalformedTable)

	tbl, err := New([][]float64{{1, 2, 3, 4}})
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.NumRows())
}

func TestNew_CopiesRows(t *testing.T) {
	rows := [][]float64{{1, 2, 3, 4}}
	tbl, err := New(rows)
	require.NoError(t, err)

	rows[0][0] = 99
	assert.Equal(t, 1.0, tbl.At(0, 0))
}

func TestLoadBaseline(t *testing.T) {
	tbl, err := LoadBaseline(filepath.Join("testdata", "expected_output.txt"))
	require.NoError(t, err)
	require.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, 0.9, tbl.At(0, 0))
	assert.Equal(t, 3.331697, tbl.At(2, 3))
}

func TestLoadBaseline_MissingFile(t *testing.T) {
	_, err := LoadBaseline(filepath.Join("testdata", "nope.txt"))
	require.Error(t, err)
}
