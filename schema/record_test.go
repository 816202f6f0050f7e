package schema

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOf(t *testing.T) {
	r := RecordOf("date", "2024-01-01", "item", "Bread", 42, "skipped", "qty", 3)
	assert.Equal(t, []string{"date", "item", "qty"}, r.Names())

	v, ok := r.Get("item")
	assert.True(t, ok)
	assert.Equal(t, "Bread", v)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRecordSetKeepsPosition(t *testing.T) {
	r := RecordOf("a", "1", "b", "2")
	r.Set("a", "changed")
	r.Set("c", "3")

	assert.Equal(t, []string{"a", "b", "c"}, r.Names())
	v, _ := r.Get("a")
	assert.Equal(t, "changed", v)
}

func TestRecordJSONPreservesOrder(t *testing.T) {
	t.Run("decode", func(t *testing.T) {
		var r Record
		require.NoError(t, json.Unmarshal([]byte(`{"zeta":"z","alpha":1,"mid":"m"}`), &r))
		assert.Equal(t, []string{"zeta", "alpha", "mid"}, r.Names())
		v, _ := r.Get("alpha")
		assert.Equal(t, float64(1), v)
	})

	t.Run("encode", func(t *testing.T) {
		data, err := json.Marshal(RecordOf("zeta", "z", "alpha", 1))
		require.NoError(t, err)
		assert.JSONEq(t, `{"zeta":"z","alpha":1}`, string(data))
		assert.Equal(t, `{"zeta":"z","alpha":1}`, string(data))
	})

	t.Run("decode rejects arrays", func(t *testing.T) {
		var r Record
		assert.Error(t, json.Unmarshal([]byte(`["a","b"]`), &r))
	})
}

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
		ok   bool
	}{
		{"string", "milk", "milk", true},
		{"float whole", float64(3), "3", true},
		{"float fraction", 2.5, "2.5", true},
		{"int", 7, "7", true},
		{"json number", json.Number("12.0"), "12.0", true},
		{"nil", nil, "", false},
		{"bool", true, "", false},
		{"map", map[string]any{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ValueString(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsScalar(t *testing.T) {
	assert.True(t, IsScalar("bread"))
	assert.True(t, IsScalar(3))
	assert.True(t, IsScalar(2.5))
	assert.True(t, IsScalar(json.Number("7")))
	assert.False(t, IsScalar(nil))
	assert.False(t, IsScalar(true))
	assert.False(t, IsScalar([]any{"a"}))
	assert.False(t, IsScalar(math.NaN()))
	assert.False(t, IsScalar(math.Inf(1)))
	assert.False(t, IsScalar(float32(math.Inf(-1))))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric(1))
	assert.True(t, IsNumeric(1.5))
	assert.True(t, IsNumeric(json.Number("1")))
	assert.False(t, IsNumeric("1"))
	assert.False(t, IsNumeric(nil))
}
