package dialect

import (
	"errors"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"column-detector/internal/apperrors"
	"column-detector/internal/config"
)

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string { return config.DriverMySQL }

func (d *MysqlDialect) DriverName() string { return "mysql" }

func (d *MysqlDialect) DSN(cfg config.Connection) (string, error) {
	port := cfg.Port
	if port == 0 {
		port = 3306
	}
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	mc.DBName = cfg.Database
	if len(cfg.Params) > 0 {
		mc.Params = make(map[string]string, len(cfg.Params))
		for k, v := range cfg.Params {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN(), nil
}

func (d *MysqlDialect) TablesQuery(database, schema string) (string, []any) {
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`, []any{schema}
}

func (d *MysqlDialect) ColumnsQuery(database, schema, table string) (string, []any) {
	return `SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE, COLUMN_DEFAULT, CHARACTER_MAXIMUM_LENGTH, NUMERIC_PRECISION, NUMERIC_SCALE FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`, []any{schema, table}
}

func (d *MysqlDialect) TableExistsQuery(database, schema, table string) (string, []any) {
	return `SELECT COUNT(*) FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND TABLE_TYPE = 'BASE TABLE'`, []any{schema, table}
}

func (d *MysqlDialect) QuoteIdentifier(name string) string {
	return quoteWith(name, "`", "`")
}

func (d *MysqlDialect) QualifiedTable(database, schema, table string) string {
	return d.QuoteIdentifier(schema) + "." + d.QuoteIdentifier(table)
}

func (d *MysqlDialect) SampleQuery(qualifiedTable, quotedColumn string, limit int) string {
	return limitQuery(sampleSelect(qualifiedTable, quotedColumn), limit)
}

// GetSchemaName falls back to the database: in MySQL the two are the same
// namespace.
func (d *MysqlDialect) GetSchemaName(cfg config.Connection) string {
	return DefaultGetSchemaName(cfg.Schema, cfg.Database)
}

func (d *MysqlDialect) ClassifyError(err error) error {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return nil
	}
	switch myErr.Number {
	case 1146: // ER_NO_SUCH_TABLE
		return apperrors.ErrTableNotFound
	case 1054: // ER_BAD_FIELD_ERROR
		return apperrors.ErrColumnNotFound
	case 1142, 1143, 1044: // table/column/db access denied
		return apperrors.ErrPermission
	case 1045, 1049: // bad credentials, unknown database
		return apperrors.ErrConnection
	}
	return nil
}
