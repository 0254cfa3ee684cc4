package dialect

import (
	"errors"
	"net"
	"net/url"
	"strconv"

	"github.com/lib/pq"

	"column-detector/internal/apperrors"
	"column-detector/internal/config"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return config.DriverPostgres }

func (d *PostgresDialect) DriverName() string { return "postgres" }

func (d *PostgresDialect) DSN(cfg config.Connection) (string, error) {
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	q := url.Values{}
	q.Set("sslmode", "disable")
	for k, v := range cfg.Params {
		q.Set(k, v)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		Path:     "/" + cfg.Database,
		RawQuery: q.Encode(),
	}
	return u.String(), nil
}

func (d *PostgresDialect) TablesQuery(database, schema string) (string, []any) {
	return `SELECT table_name FROM information_schema.tables WHERE table_schema = $1 AND table_type = 'BASE TABLE' ORDER BY table_name`, []any{schema}
}

func (d *PostgresDialect) ColumnsQuery(database, schema, table string) (string, []any) {
	return `SELECT column_name, data_type, is_nullable, column_default, character_maximum_length, numeric_precision, numeric_scale FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`, []any{schema, table}
}

func (d *PostgresDialect) TableExistsQuery(database, schema, table string) (string, []any) {
	return `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2 AND table_type = 'BASE TABLE'`, []any{schema, table}
}

func (d *PostgresDialect) QuoteIdentifier(name string) string {
	return pq.QuoteIdentifier(name)
}

func (d *PostgresDialect) QualifiedTable(database, schema, table string) string {
	return d.QuoteIdentifier(schema) + "." + d.QuoteIdentifier(table)
}

func (d *PostgresDialect) SampleQuery(qualifiedTable, quotedColumn string, limit int) string {
	return limitQuery(sampleSelect(qualifiedTable, quotedColumn), limit)
}

func (d *PostgresDialect) GetSchemaName(cfg config.Connection) string {
	return DefaultGetSchemaName(cfg.Schema, "public")
}

func (d *PostgresDialect) ClassifyError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}
	switch pqErr.Code {
	case "42P01", "3F000": // undefined_table, invalid_schema_name
		return apperrors.ErrTableNotFound
	case "42703": // undefined_column
		return apperrors.ErrColumnNotFound
	case "42501": // insufficient_privilege
		return apperrors.ErrPermission
	case "28000", "28P01", "3D000": // auth failures, unknown database
		return apperrors.ErrConnection
	}
	return nil
}
