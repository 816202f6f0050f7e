package contract

import (
	"testing"

	"github.com/huangsam/basket/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		InputPathStr: "sales.csv",
		InputFormat:  "auto",
		Threshold:    DefaultThreshold,
		TopItems:     DefaultTopItems,
		Workers:      2,
		Precision:    DefaultPrecision,
		Output:       "text",
		Color:        "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "threshold of one", mutate: func(in *ConfigRawInput) { in.Threshold = 1 }},
		{name: "zero threshold", mutate: func(in *ConfigRawInput) { in.Threshold = 0 }, expectError: true},
		{name: "threshold above one", mutate: func(in *ConfigRawInput) { in.Threshold = 1.5 }, expectError: true},
		{name: "negative threshold", mutate: func(in *ConfigRawInput) { in.Threshold = -0.1 }, expectError: true},
		{name: "zero top items", mutate: func(in *ConfigRawInput) { in.TopItems = 0 }, expectError: true},
		{name: "too many top items", mutate: func(in *ConfigRawInput) { in.TopItems = MaxTopItems + 1 }, expectError: true},
		{name: "zero workers", mutate: func(in *ConfigRawInput) { in.Workers = 0 }, expectError: true},
		{name: "bad output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "parquet without file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "parquet with file", mutate: func(in *ConfigRawInput) {
			in.Output = "parquet"
			in.OutputFile = "out.parquet"
		}},
		{name: "bad precision", mutate: func(in *ConfigRawInput) { in.Precision = MaxPrecision + 1 }, expectError: true},
		{name: "bad color", mutate: func(in *ConfigRawInput) { in.Color = "sometimes" }, expectError: true},
		{name: "bad backend", mutate: func(in *ConfigRawInput) { in.AnalysisBackend = "oracle" }, expectError: true},
		{name: "mysql without dsn", mutate: func(in *ConfigRawInput) { in.AnalysisBackend = "mysql" }, expectError: true},
		{name: "bad input format", mutate: func(in *ConfigRawInput) { in.InputFormat = "xlsx" }, expectError: true},
		{name: "undetectable extension", mutate: func(in *ConfigRawInput) { in.InputPathStr = "sales.xlsx" }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRawInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	input := validRawInput()
	input.BasketFields = "day, date"
	input.ItemFields = "sku"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, "sales.csv", cfg.InputPath)
	assert.Equal(t, schema.CSVIn, cfg.InputFormat)
	assert.Equal(t, []string{"day", "date"}, cfg.BasketFields)
	assert.Equal(t, []string{"sku"}, cfg.ItemFields)
	assert.Equal(t, schema.DefaultUnkeyedLabel, cfg.UnkeyedLabel)
	assert.Equal(t, schema.NoneBackend, cfg.AnalysisBackend)
	assert.Equal(t, DefaultPreviewRows, cfg.PreviewRows)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidateStdin(t *testing.T) {
	t.Run("auto keeps auto for stdin", func(t *testing.T) {
		input := validRawInput()
		input.InputPathStr = "-"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, schema.AutoIn, cfg.InputFormat)
	})

	t.Run("explicit format wins over extension", func(t *testing.T) {
		input := validRawInput()
		input.InputPathStr = "records.txt"
		input.InputFormat = "JSON"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, schema.JSONIn, cfg.InputFormat)
	})
}

func TestDetectInputFormat(t *testing.T) {
	tests := []struct {
		path     string
		expected schema.InputFormat
		wantErr  bool
	}{
		{"sales.csv", schema.CSVIn, false},
		{"SALES.CSV", schema.CSVIn, false},
		{"dump.txt", schema.CSVIn, false},
		{"records.json", schema.JSONIn, false},
		{"book.xlsx", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectInputFormat(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite ignores dsn", schema.SQLiteBackend, "", false},
		{"none ignores dsn", schema.NoneBackend, "whatever", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/basket", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/basket", true},
		{"mysql missing db", schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=basket", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=basket", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, schema.NoneBackend, b)

	b, err = ParseBackend(" SQLite ")
	require.NoError(t, err)
	assert.Equal(t, schema.SQLiteBackend, b)

	_, err = ParseBackend("redis")
	assert.Error(t, err)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{BasketFields: []string{"date"}, ItemFields: []string{"sku"}, Threshold: 0.2}
	clone := cfg.Clone()
	clone.BasketFields[0] = "day"
	clone.Threshold = 0.3

	assert.Equal(t, "date", cfg.BasketFields[0])
	assert.Equal(t, 0.2, cfg.Threshold)
}

func TestConfigParams(t *testing.T) {
	cfg := &Config{InputPath: "a.csv", InputFormat: schema.CSVIn, Threshold: 0.1, TopItems: 5, Workers: 1}
	params := cfg.Params()
	assert.Equal(t, 0.1, params["threshold"])
	assert.Equal(t, "a.csv", params["input"])
	assert.NotContains(t, params, "basket_fields")

	cfg.BasketFields = []string{"day"}
	assert.Equal(t, []string{"day"}, cfg.Params()["basket_fields"])
}
