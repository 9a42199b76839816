package csvimport

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParser(t *testing.T) {
	t.Run("UTF-8 BOM is stripped", func(t *testing.T) {
		p, err := NewParser(strings.NewReader("\xEF\xBB\xBFname,price\nNaan,2.50"))
		require.NoError(t, err)
		require.NoError(t, p.ParseHeader())
		assert.Equal(t, "name", p.Headers()[0])
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := NewParser(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("non UTF-8 content", func(t *testing.T) {
		_, err := NewParser(strings.NewReader("name\nCr\xe8me br\xfbl\xe9e"))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("custom delimiter", func(t *testing.T) {
		p, err := NewParser(strings.NewReader("name;price\nNaan;2.50"), WithDelimiter(';'))
		require.NoError(t, err)
		require.NoError(t, p.ParseHeader())
		assert.Equal(t, []string{"name", "price"}, p.Headers())
	})
}

func TestParser_ParseHeader(t *testing.T) {
	p, err := NewParser(strings.NewReader("  Name , PRICE,category\nNaan,2.50,Breads"))
	require.NoError(t, err)
	require.NoError(t, p.ParseHeader())

	assert.Equal(t, []string{"name", "price", "category"}, p.Headers())
	assert.True(t, p.HasHeader("price"))
	assert.False(t, p.HasHeader("description"))
	assert.Equal(t, []string{"description", "image_url"}, p.MissingHeaders([]string{"name", "description", "image_url"}))

	t.Run("blank header row", func(t *testing.T) {
		p, err := NewParser(strings.NewReader(",,\nx,y,z"))
		require.NoError(t, err)
		assert.ErrorIs(t, p.ParseHeader(), ErrMissingHeader)
	})
}

func TestParser_ReadRow(t *testing.T) {
	p, err := NewParser(strings.NewReader("name,price,category\n Naan ,2.50\n"))
	require.NoError(t, err)
	require.NoError(t, p.ParseHeader())

	row, err := p.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, 2, row.LineNumber)
	assert.Equal(t, "Naan", row.Get("name"))
	assert.Equal(t, "2.50", row.Get("price"))
	assert.Equal(t, "", row.Get("category"))

	_, err = p.ReadRow()
	assert.Equal(t, io.EOF, err)
}

func TestParser_ReadAllRows(t *testing.T) {
	t.Run("skips blank rows and keeps line numbers", func(t *testing.T) {
		csv := "name,price\nNaan,2.50\n,\nLassi,3.00\n"
		p, err := NewParser(strings.NewReader(csv))
		require.NoError(t, err)
		require.NoError(t, p.ParseHeader())

		rows, err := p.ReadAllRows()
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 2, rows[0].LineNumber)
		assert.Equal(t, 4, rows[1].LineNumber)
		assert.Equal(t, 3, p.TotalRows())
	})

	t.Run("row limit", func(t *testing.T) {
		csv := "name\na\nb\nc\n"
		p, err := NewParser(strings.NewReader(csv), WithMaxRows(2))
		require.NoError(t, err)
		require.NoError(t, p.ParseHeader())

		rows, err := p.ReadAllRows()
		assert.True(t, errors.Is(err, ErrTooManyRows))
		assert.Len(t, rows, 2)
	})

	t.Run("quoted fields", func(t *testing.T) {
		csv := "name,description\n\"Dal, Tadka\",\"Lentils with \"\"tadka\"\"\"\n"
		p, err := NewParser(strings.NewReader(csv))
		require.NoError(t, err)
		require.NoError(t, p.ParseHeader())

		rows, err := p.ReadAllRows()
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Dal, Tadka", rows[0].Get("name"))
		assert.Equal(t, `Lentils with "tadka"`, rows[0].Get("description"))
	})
}

func TestParser_LineNumbersAcrossEmptyLines(t *testing.T) {
	p, err := NewParser(strings.NewReader("name\n\n\nNaan\n"))
	require.NoError(t, err)
	require.NoError(t, p.ParseHeader())

	row, err := p.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, 4, row.LineNumber)
}
