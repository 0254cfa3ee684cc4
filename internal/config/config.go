package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"column-detector/internal/apperrors"
)

// Supported drivers.
const (
	DriverSnowflake = "snowflake"
	DriverPostgres  = "postgres"
	DriverMySQL     = "mysql"
	DriverSQLServer = "sqlserver"
	DriverOracle    = "oracle"
	DriverSQLite    = "sqlite"
)

const (
	DefaultSampleSize = 5
	DefaultOutput     = "snowflake_schema_analysis.csv"
)

type Config struct {
	Connection Connection `mapstructure:"connection"`
	Settings   Settings   `mapstructure:"settings"`
}

// Connection holds everything needed to open one warehouse session.
// Account, Warehouse and Role only apply to Snowflake; Host and Port to
// the server-based engines. For SQLite, Database is the file path.
type Connection struct {
	Driver    string            `mapstructure:"driver"`
	Account   string            `mapstructure:"account"`
	Host      string            `mapstructure:"host"`
	Port      int               `mapstructure:"port"`
	User      string            `mapstructure:"user"`
	Password  string            `mapstructure:"password"`
	Warehouse string            `mapstructure:"warehouse"`
	Role      string            `mapstructure:"role"`
	Database  string            `mapstructure:"database"`
	Schema    string            `mapstructure:"schema"`
	Params    map[string]string `mapstructure:"params"`
}

type Settings struct {
	SampleSize int      `mapstructure:"sample_size"`
	Tables     []string `mapstructure:"tables"`
	Output     string   `mapstructure:"output"`
	Format     string   `mapstructure:"format"`
}

// NewSnowflake builds a validated Snowflake connection from the six
// session fields.
func NewSnowflake(account, user, password, warehouse, database, schema string) (Connection, error) {
	c := Connection{
		Driver:    DriverSnowflake,
		Account:   account,
		User:      user,
		Password:  password,
		Warehouse: warehouse,
		Database:  database,
		Schema:    schema,
	}
	if err := c.Validate(); err != nil {
		return Connection{}, err
	}
	return c, nil
}

func requiredFields(driver string) ([]string, bool) {
	switch driver {
	case DriverSnowflake:
		return []string{"account", "user", "password", "warehouse", "database", "schema"}, true
	case DriverPostgres, DriverMySQL, DriverSQLServer, DriverOracle:
		return []string{"host", "user", "database"}, true
	case DriverSQLite:
		return []string{"database"}, true
	default:
		return nil, false
	}
}

func (c Connection) field(name string) string {
	switch name {
	case "account":
		return c.Account
	case "host":
		return c.Host
	case "user":
		return c.User
	case "password":
		return c.Password
	case "warehouse":
		return c.Warehouse
	case "database":
		return c.Database
	case "schema":
		return c.Schema
	}
	return ""
}

// Validate reports every required field the driver needs that is empty.
func (c Connection) Validate() error {
	required, ok := requiredFields(c.Driver)
	if !ok {
		return fmt.Errorf("%w: %q", apperrors.ErrUnsupportedDriver, c.Driver)
	}

	var missing []string
	for _, name := range required {
		if strings.TrimSpace(c.field(name)) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s requires %s", apperrors.ErrInvalidConfig, c.Driver, strings.Join(missing, ", "))
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", apperrors.ErrInvalidConfig, c.Port)
	}
	return nil
}

func (s Settings) Validate() error {
	if s.SampleSize < 0 {
		return fmt.Errorf("%w: %d", apperrors.ErrInvalidSampleSize, s.SampleSize)
	}
	for _, t := range s.Tables {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("%w: empty table name in settings.tables", apperrors.ErrInvalidConfig)
		}
	}
	return nil
}

var envBindings = map[string]string{
	"connection.driver":    "INSPECTOR_DRIVER",
	"connection.host":      "INSPECTOR_HOST",
	"connection.port":      "INSPECTOR_PORT",
	"connection.account":   "SNOWFLAKE_ACCOUNT",
	"connection.user":      "SNOWFLAKE_USER",
	"connection.password":  "SNOWFLAKE_PASSWORD",
	"connection.warehouse": "SNOWFLAKE_WAREHOUSE",
	"connection.role":      "SNOWFLAKE_ROLE",
	"connection.database":  "SNOWFLAKE_DATABASE",
	"connection.schema":    "SNOWFLAKE_SCHEMA",
}

// SetDefaults registers defaults and environment variable names on v.
func SetDefaults(v *viper.Viper) error {
	v.SetDefault("connection.driver", DriverSnowflake)
	v.SetDefault("settings.sample_size", DefaultSampleSize)
	v.SetDefault("settings.output", DefaultOutput)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s: %w", env, err)
		}
	}
	return nil
}

// Load decodes and validates the full configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidConfig, err)
	}

	cfg.Connection.Driver = strings.ToLower(strings.TrimSpace(cfg.Connection.Driver))
	if err := cfg.Connection.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
