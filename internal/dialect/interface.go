package dialect

import "column-detector/internal/config"

// Dialect abstracts warehouse-specific catalog access.
type Dialect interface {
	Name() string
	DriverName() string
	DSN(cfg config.Connection) (string, error)

	// Metadata Queries (Schema Introspection)
	//
	// TablesQuery yields one TABLE_NAME column of base tables sorted by name.
	// ColumnsQuery yields COLUMN_NAME, DATA_TYPE, IS_NULLABLE ('YES'/'NO'),
	// COLUMN_DEFAULT, CHARACTER_MAXIMUM_LENGTH, NUMERIC_PRECISION and
	// NUMERIC_SCALE in ordinal order. TableExistsQuery yields a single count.
	TablesQuery(database, schema string) (string, []any)
	ColumnsQuery(database, schema, table string) (string, []any)
	TableExistsQuery(database, schema, table string) (string, []any)

	// Sampling
	QuoteIdentifier(name string) string
	QualifiedTable(database, schema, table string) string
	SampleQuery(qualifiedTable, quotedColumn string, limit int) string

	// Helpers
	GetSchemaName(cfg config.Connection) string
	ClassifyError(err error) error
}
