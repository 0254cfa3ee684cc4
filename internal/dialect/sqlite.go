package dialect

import (
	"net/url"

	_ "github.com/mattn/go-sqlite3" // SQLite Driver

	"column-detector/internal/apperrors"
	"column-detector/internal/config"
)

// SQLiteDialect inspects a local database file. Database is the file path
// and there is a single schema, "main".
type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string { return config.DriverSQLite }

func (d *SQLiteDialect) DriverName() string { return "sqlite3" }

// DSN opens the file read-only through a URI filename, so a missing file
// fails to connect instead of being created.
func (d *SQLiteDialect) DSN(cfg config.Connection) (string, error) {
	q := url.Values{}
	q.Set("mode", "ro")
	for k, v := range cfg.Params {
		q.Set(k, v)
	}
	return "file:" + cfg.Database + "?" + q.Encode(), nil
}

func (d *SQLiteDialect) TablesQuery(database, schema string) (string, []any) {
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\' ORDER BY name`, nil
}

func (d *SQLiteDialect) ColumnsQuery(database, schema, table string) (string, []any) {
	return `SELECT name, type, CASE WHEN "notnull" = 1 THEN 'NO' ELSE 'YES' END, dflt_value, NULL, NULL, NULL FROM pragma_table_info(?) ORDER BY cid`, []any{table}
}

func (d *SQLiteDialect) TableExistsQuery(database, schema, table string) (string, []any) {
	return `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, []any{table}
}

// QuoteIdentifier uses backticks: SQLite reads an unknown double-quoted
// name as a string literal, which would hide a missing column.
func (d *SQLiteDialect) QuoteIdentifier(name string) string {
	return quoteWith(name, "`", "`")
}

func (d *SQLiteDialect) QualifiedTable(database, schema, table string) string {
	return d.QuoteIdentifier(table)
}

func (d *SQLiteDialect) SampleQuery(qualifiedTable, quotedColumn string, limit int) string {
	return limitQuery(sampleSelect(qualifiedTable, quotedColumn), limit)
}

func (d *SQLiteDialect) GetSchemaName(cfg config.Connection) string {
	return DefaultGetSchemaName(cfg.Schema, "main")
}

func (d *SQLiteDialect) ClassifyError(err error) error {
	return classifyByMessage(err, []messagePattern{
		{"no such table", apperrors.ErrTableNotFound},
		{"no such column", apperrors.ErrColumnNotFound},
		{"unable to open database", apperrors.ErrConnection},
		{"not authorized", apperrors.ErrPermission},
	})
}
