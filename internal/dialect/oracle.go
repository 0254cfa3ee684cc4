package dialect

import (
	"fmt"
	"strings"

	go_ora "github.com/sijms/go-ora/v2"

	"column-detector/internal/apperrors"
	"column-detector/internal/config"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string { return config.DriverOracle }

func (d *OracleDialect) DriverName() string { return "oracle" }

// DSN treats Database as the service name.
func (d *OracleDialect) DSN(cfg config.Connection) (string, error) {
	port := cfg.Port
	if port == 0 {
		port = 1521
	}
	return go_ora.BuildUrl(cfg.Host, port, cfg.Database, cfg.User, cfg.Password, cfg.Params), nil
}

// Oracle schemas are users; ALL_* views cover every owner the session can see.

func (d *OracleDialect) TablesQuery(database, schema string) (string, []any) {
	return `SELECT TABLE_NAME FROM ALL_TABLES WHERE OWNER = :1 ORDER BY TABLE_NAME`, []any{schema}
}

// DATA_DEFAULT is a LONG column and cannot be fetched portably, so the
// default is reported as NULL.
func (d *OracleDialect) ColumnsQuery(database, schema, table string) (string, []any) {
	return `SELECT COLUMN_NAME, DATA_TYPE, CASE NULLABLE WHEN 'Y' THEN 'YES' ELSE 'NO' END, NULL, CHAR_LENGTH, DATA_PRECISION, DATA_SCALE FROM ALL_TAB_COLUMNS WHERE OWNER = :1 AND TABLE_NAME = :2 ORDER BY COLUMN_ID`, []any{schema, table}
}

func (d *OracleDialect) TableExistsQuery(database, schema, table string) (string, []any) {
	return `SELECT COUNT(*) FROM ALL_TABLES WHERE OWNER = :1 AND TABLE_NAME = :2`, []any{schema, table}
}

func (d *OracleDialect) QuoteIdentifier(name string) string {
	return quoteWith(name, `"`, `"`)
}

func (d *OracleDialect) QualifiedTable(database, schema, table string) string {
	return d.QuoteIdentifier(schema) + "." + d.QuoteIdentifier(table)
}

func (d *OracleDialect) SampleQuery(qualifiedTable, quotedColumn string, limit int) string {
	return fmt.Sprintf("%s FETCH FIRST %d ROWS ONLY", sampleSelect(qualifiedTable, quotedColumn), limit)
}

// GetSchemaName defaults to the connecting user, upper-cased as Oracle
// stores it.
func (d *OracleDialect) GetSchemaName(cfg config.Connection) string {
	return strings.ToUpper(DefaultGetSchemaName(cfg.Schema, cfg.User))
}

func (d *OracleDialect) ClassifyError(err error) error {
	return classifyByMessage(err, []messagePattern{
		{"ora-00942", apperrors.ErrTableNotFound},
		{"ora-00904", apperrors.ErrColumnNotFound},
		{"ora-01031", apperrors.ErrPermission},
		{"ora-01017", apperrors.ErrConnection},
		{"ora-12514", apperrors.ErrConnection},
	})
}
