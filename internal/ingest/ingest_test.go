package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/basket/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVDecoder(t *testing.T) {
	t.Run("header and rows", func(t *testing.T) {
		in := "date,product\n2024-01-01, Milk \n2024-01-01,Bread\n"
		records, err := CSVDecoder{}.Decode(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, []string{"date", "product"}, records[0].Names())
		v, _ := records[0].Get("product")
		assert.Equal(t, "Milk", v)
	})

	t.Run("short rows and blank lines skipped", func(t *testing.T) {
		in := "date,product,qty\n2024-01-01,milk,1\n\n2024-01-02,bread\n2024-01-03,eggs,2,extra\n"
		records, err := CSVDecoder{}.Decode(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, records, 2)
		v, _ := records[1].Get("product")
		assert.Equal(t, "eggs", v)
		assert.Len(t, records[1], 3)
	})

	t.Run("byte order mark stripped from header", func(t *testing.T) {
		in := "\ufeffdate,product\n2024-01-01,milk\n"
		records, err := CSVDecoder{}.Decode(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, records, 1)
		_, ok := records[0].Get("date")
		assert.True(t, ok)
	})

	t.Run("empty input", func(t *testing.T) {
		records, err := CSVDecoder{}.Decode(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, records)
		assert.NotNil(t, records)
	})

	t.Run("custom separator", func(t *testing.T) {
		in := "date;product\n2024-01-01;milk\n"
		records, err := CSVDecoder{Comma: ';'}.Decode(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, records, 1)
		v, _ := records[0].Get("product")
		assert.Equal(t, "milk", v)
	})
}

func TestJSONDecoder(t *testing.T) {
	t.Run("objects keep key order", func(t *testing.T) {
		in := `[{"product":"milk","date":"d1","qty":2},{"date":"d1","product":"bread"}]`
		records, err := JSONDecoder{}.Decode(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, []string{"product", "date", "qty"}, records[0].Names())
		assert.Equal(t, []string{"date", "product"}, records[1].Names())
		assert.True(t, schema.IsNumeric(records[0][2].Value))
	})

	t.Run("non-object row rejected", func(t *testing.T) {
		_, err := JSONDecoder{}.Decode(strings.NewReader(`[{"a":"x"}, 42]`))
		require.Error(t, err)
		var decErr *DecodeError
		require.True(t, errors.As(err, &decErr))
		assert.Equal(t, 1, decErr.Row)
	})

	t.Run("top-level object rejected", func(t *testing.T) {
		_, err := JSONDecoder{}.Decode(strings.NewReader(`{"a":"x"}`))
		var decErr *DecodeError
		require.True(t, errors.As(err, &decErr))
		assert.Equal(t, -1, decErr.Row)
	})

	t.Run("empty array", func(t *testing.T) {
		records, err := JSONDecoder{}.Decode(strings.NewReader(`[]`))
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestRead(t *testing.T) {
	t.Run("auto detects json", func(t *testing.T) {
		records, err := Read(strings.NewReader("  \n[{\"date\":\"d\",\"product\":\"p\"}]"), schema.AutoIn)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("auto falls back to csv", func(t *testing.T) {
		records, err := Read(strings.NewReader("date,product\nd,p\n"), schema.AutoIn)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := Read(strings.NewReader(""), schema.InputFormat("xlsx"))
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,product\nd1,milk\nd1,bread\n"), 0o644))

	records, err := ReadFile(path, schema.CSVIn)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = ReadFile(filepath.Join(dir, "missing.csv"), schema.CSVIn)
	assert.Error(t, err)
}
