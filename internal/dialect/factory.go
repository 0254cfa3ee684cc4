package dialect

import (
	"fmt"
	"strings"

	"column-detector/internal/apperrors"
	"column-detector/internal/config"
)

// Get returns the Dialect implementation for a driver name.
func Get(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case config.DriverSnowflake, "":
		return &SnowflakeDialect{}, nil
	case config.DriverPostgres, "postgresql":
		return &PostgresDialect{}, nil
	case config.DriverMySQL:
		return &MysqlDialect{}, nil
	case config.DriverSQLServer, "mssql":
		return &MSSQLDialect{}, nil
	case config.DriverOracle:
		return &OracleDialect{}, nil
	case config.DriverSQLite, "sqlite3":
		return &SQLiteDialect{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedDriver, driver)
	}
}

// Ensure interface implementation
var _ Dialect = (*SnowflakeDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)
var _ Dialect = (*SQLiteDialect)(nil)
