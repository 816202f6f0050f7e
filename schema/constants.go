package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// InputFormat represents the decoder used to turn an input file into records.
	InputFormat string

	// DatabaseBackend represents the database backend for analysis tracking.
	DatabaseBackend string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All input formats supported.
const (
	AutoIn InputFormat = "auto" // default, picked from the file extension
	CSVIn  InputFormat = "csv"
	JSONIn InputFormat = "json"
)

// All tracking backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidInputFormats lists all valid input formats.
var ValidInputFormats = map[InputFormat]struct{}{
	AutoIn: {},
	CSVIn:  {},
	JSONIn: {},
}

// ValidDatabaseBackends lists all valid tracking backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// CombinationSeparator joins the two items of a combination key.
const CombinationSeparator = " + "

// UnknownItem is the item key used when a record has no usable item value.
const UnknownItem = "unknown"

// DefaultUnkeyedLabel labels the basket of records without a resolvable basket key.
const DefaultUnkeyedLabel = "(unkeyed)"

// DefaultBasketFields are the field names tried, in order, for the basket key.
var DefaultBasketFields = []string{"date", "дата", "Date", "DATE", "datum", "fecha"}

// DefaultItemFields are the field names tried, in order, for the item identity.
var DefaultItemFields = []string{"product", "продукт", "Product", "PRODUCT", "item", "артикул", "name", "име"}
