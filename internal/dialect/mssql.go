package dialect

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	_ "github.com/microsoft/go-mssqldb" // SQL Server Driver

	"column-detector/internal/apperrors"
	"column-detector/internal/config"
)

type MSSQLDialect struct{}

func (d *MSSQLDialect) Name() string { return config.DriverSQLServer }

func (d *MSSQLDialect) DriverName() string { return "sqlserver" }

func (d *MSSQLDialect) DSN(cfg config.Connection) (string, error) {
	port := cfg.Port
	if port == 0 {
		port = 1433
	}
	q := url.Values{}
	q.Set("database", cfg.Database)
	for k, v := range cfg.Params {
		q.Set(k, v)
	}
	u := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		RawQuery: q.Encode(),
	}
	return u.String(), nil
}

// go-mssqldb binds @p1, @p2 positionally.

func (d *MSSQLDialect) TablesQuery(database, schema string) (string, []any) {
	return `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = @p1 AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`, []any{schema}
}

func (d *MSSQLDialect) ColumnsQuery(database, schema, table string) (string, []any) {
	return `SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE, COLUMN_DEFAULT, CHARACTER_MAXIMUM_LENGTH, NUMERIC_PRECISION, NUMERIC_SCALE FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2 ORDER BY ORDINAL_POSITION`, []any{schema, table}
}

func (d *MSSQLDialect) TableExistsQuery(database, schema, table string) (string, []any) {
	return `SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2 AND TABLE_TYPE = 'BASE TABLE'`, []any{schema, table}
}

// QuoteIdentifier mirrors QUOTENAME: square brackets, ] escaped as ]].
func (d *MSSQLDialect) QuoteIdentifier(name string) string {
	return quoteWith(name, "[", "]")
}

func (d *MSSQLDialect) QualifiedTable(database, schema, table string) string {
	return d.QuoteIdentifier(schema) + "." + d.QuoteIdentifier(table)
}

func (d *MSSQLDialect) SampleQuery(qualifiedTable, quotedColumn string, limit int) string {
	return fmt.Sprintf("SELECT DISTINCT TOP (%d) %s FROM %s WHERE %s IS NOT NULL ORDER BY 1", limit, quotedColumn, qualifiedTable, quotedColumn)
}

func (d *MSSQLDialect) GetSchemaName(cfg config.Connection) string {
	return DefaultGetSchemaName(cfg.Schema, "dbo")
}

// sqlErrorNumber is implemented by mssql.Error.
type sqlErrorNumber interface {
	SQLErrorNumber() int32
}

func (d *MSSQLDialect) ClassifyError(err error) error {
	var numbered sqlErrorNumber
	if !errors.As(err, &numbered) {
		return nil
	}
	switch numbered.SQLErrorNumber() {
	case 208: // Invalid object name
		return apperrors.ErrTableNotFound
	case 207: // Invalid column name
		return apperrors.ErrColumnNotFound
	case 229, 230: // permission denied on object/column
		return apperrors.ErrPermission
	case 18456, 4060: // login failed, cannot open database
		return apperrors.ErrConnection
	}
	return nil
}
