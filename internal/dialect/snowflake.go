package dialect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/snowflakedb/gosnowflake"

	"column-detector/internal/apperrors"
	"column-detector/internal/config"
)

type SnowflakeDialect struct{}

func (d *SnowflakeDialect) Name() string { return config.DriverSnowflake }

func (d *SnowflakeDialect) DriverName() string { return "snowflake" }

func (d *SnowflakeDialect) DSN(cfg config.Connection) (string, error) {
	sf := &gosnowflake.Config{
		Account:   cfg.Account,
		User:      cfg.User,
		Password:  cfg.Password,
		Warehouse: cfg.Warehouse,
		Role:      cfg.Role,
		Database:  cfg.Database,
		Schema:    cfg.Schema,
		Host:      cfg.Host,
		Port:      cfg.Port,
	}
	if len(cfg.Params) > 0 {
		sf.Params = make(map[string]*string, len(cfg.Params))
		for k, v := range cfg.Params {
			sf.Params[k] = &v
		}
	}
	dsn, err := gosnowflake.DSN(sf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidConfig, err)
	}
	return dsn, nil
}

// Database and schema are interpolated unquoted so Snowflake folds them to
// upper case the same way it does in the session; callers validate both
// with ValidateIdentifier first.
func (d *SnowflakeDialect) TablesQuery(database, schema string) (string, []any) {
	return fmt.Sprintf(`SELECT TABLE_NAME FROM %s.INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`, database), []any{schema}
}

func (d *SnowflakeDialect) ColumnsQuery(database, schema, table string) (string, []any) {
	return fmt.Sprintf(`SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE, COLUMN_DEFAULT, CHARACTER_MAXIMUM_LENGTH, NUMERIC_PRECISION, NUMERIC_SCALE FROM %s.INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`, database), []any{schema, table}
}

func (d *SnowflakeDialect) TableExistsQuery(database, schema, table string) (string, []any) {
	return fmt.Sprintf(`SELECT COUNT(*) FROM %s.INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND TABLE_TYPE = 'BASE TABLE'`, database), []any{schema, table}
}

func (d *SnowflakeDialect) QuoteIdentifier(name string) string {
	return quoteWith(name, `"`, `"`)
}

func (d *SnowflakeDialect) QualifiedTable(database, schema, table string) string {
	return database + "." + schema + "." + d.QuoteIdentifier(table)
}

func (d *SnowflakeDialect) SampleQuery(qualifiedTable, quotedColumn string, limit int) string {
	return limitQuery(sampleSelect(qualifiedTable, quotedColumn), limit)
}

// GetSchemaName upper-cases the schema, matching how INFORMATION_SCHEMA
// stores unquoted identifiers.
func (d *SnowflakeDialect) GetSchemaName(cfg config.Connection) string {
	return strings.ToUpper(DefaultGetSchemaName(cfg.Schema, "PUBLIC"))
}

// Snowflake error numbers.
const (
	sfInvalidIdentifier      = 904
	sfObjectNotFound         = 2003
	sfObjectNotFoundOrDenied = 2043
	sfInsufficientPrivileges = 3001
	sfIncorrectCredentials   = 390100
	sfUserLocked             = 390102
)

func (d *SnowflakeDialect) ClassifyError(err error) error {
	var sfErr *gosnowflake.SnowflakeError
	if !errors.As(err, &sfErr) {
		return classifyByMessage(err, []messagePattern{
			{"does not exist or not authorized", apperrors.ErrTableNotFound},
			{"invalid identifier", apperrors.ErrColumnNotFound},
			{"insufficient privileges", apperrors.ErrPermission},
		})
	}
	switch sfErr.Number {
	case sfInvalidIdentifier:
		return apperrors.ErrColumnNotFound
	case sfObjectNotFound, sfObjectNotFoundOrDenied:
		return apperrors.ErrTableNotFound
	case sfInsufficientPrivileges:
		return apperrors.ErrPermission
	case sfIncorrectCredentials, sfUserLocked:
		return apperrors.ErrConnection
	}
	return nil
}
