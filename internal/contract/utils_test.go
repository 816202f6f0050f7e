package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "zero frequency", input: 0.0, expected: WeakValue},
		{name: "just before moderate", input: 0.099, expected: WeakValue},
		{name: "exactly moderate", input: 0.1, expected: ModerateValue},
		{name: "just before frequent", input: 0.249, expected: ModerateValue},
		{name: "exactly frequent", input: 0.25, expected: FrequentValue},
		{name: "just before strong", input: 0.499, expected: FrequentValue},
		{name: "exactly strong", input: 0.5, expected: StrongValue},
		{name: "above one from repeated items", input: 2.0, expected: StrongValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name      string
		frequency float64
		label     string
	}{
		{"weak", 0.05, WeakValue},
		{"moderate", 0.15, ModerateValue},
		{"frequent", 0.3, FrequentValue},
		{"strong", 0.9, StrongValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, GetColorLabel(tt.frequency), tt.label)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "out.csv")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		require.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})

	t.Run("missing directory fails", func(t *testing.T) {
		_, err := SelectOutputFile(filepath.Join(t.TempDir(), "nope", "out.csv"))
		assert.Error(t, err)
	})
}

func TestGetAnalysisDBFilePath(t *testing.T) {
	path := GetAnalysisDBFilePath()
	assert.True(t, strings.HasSuffix(path, ".basket_analysis.db"))
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{"short text untouched", "milk + bread", 20, "milk + bread"},
		{"long text truncated", "cottage cheese + sourdough bread", 12, "cottage c..."},
		{"multibyte runes", "кисело мляко + хляб", 8, "кисел..."},
		{"width too small", "milk + bread", 3, "milk + bread"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateText(tt.input, tt.width))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , ,"))
	assert.Equal(t, []string{"date", "day"}, SplitList("date, day"))
	assert.Equal(t, []string{"product", "sku"}, SplitList(",product,,sku ,"))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1", "True"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "FALSE", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}
