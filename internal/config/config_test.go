package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"column-detector/internal/apperrors"
)

func TestNewSnowflake(t *testing.T) {
	c, err := NewSnowflake("acme", "reader", "pw", "WH", "ANALYTICS", "PUBLIC")
	require.NoError(t, err)
	assert.Equal(t, DriverSnowflake, c.Driver)
	assert.Equal(t, "ANALYTICS", c.Database)
}

func TestNewSnowflake_MissingFields(t *testing.T) {
	_, err := NewSnowflake("acme", "", "pw", "", "ANALYTICS", "PUBLIC")
	require.ErrorIs(t, err, apperrors.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "user, warehouse")
}

func TestConnectionValidate(t *testing.T) {
	tests := []struct {
		name string
		conn Connection
		want error
	}{
		{"sqlite needs only a path", Connection{Driver: DriverSQLite, Database: "wh.db"}, nil},
		{"sqlite without path", Connection{Driver: DriverSQLite}, apperrors.ErrInvalidConfig},
		{"postgres", Connection{Driver: DriverPostgres, Host: "h", User: "u", Database: "d"}, nil},
		{"mysql without host", Connection{Driver: DriverMySQL, User: "u", Database: "d"}, apperrors.ErrInvalidConfig},
		{"port out of range", Connection{Driver: DriverPostgres, Host: "h", User: "u", Database: "d", Port: 70000}, apperrors.ErrInvalidConfig},
		{"blank is missing", Connection{Driver: DriverSQLite, Database: "  "}, apperrors.ErrInvalidConfig},
		{"unknown driver", Connection{Driver: "db2"}, apperrors.ErrUnsupportedDriver},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conn.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSettingsValidate(t *testing.T) {
	assert.NoError(t, Settings{SampleSize: 0}.Validate())
	assert.ErrorIs(t, Settings{SampleSize: -1}.Validate(), apperrors.ErrInvalidSampleSize)
	assert.ErrorIs(t, Settings{Tables: []string{"USERS", " "}}.Validate(), apperrors.ErrInvalidConfig)
}

func setSnowflakeEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SNOWFLAKE_ACCOUNT", "acme")
	t.Setenv("SNOWFLAKE_USER", "reader")
	t.Setenv("SNOWFLAKE_PASSWORD", "pw")
	t.Setenv("SNOWFLAKE_WAREHOUSE", "WH")
	t.Setenv("SNOWFLAKE_DATABASE", "ANALYTICS")
	t.Setenv("SNOWFLAKE_SCHEMA", "PUBLIC")
}

func TestLoad_FromEnvironment(t *testing.T) {
	setSnowflakeEnv(t)
	t.Setenv("SNOWFLAKE_ROLE", "ANALYST")

	v := viper.New()
	require.NoError(t, SetDefaults(v))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, Connection{
		Driver:    DriverSnowflake,
		Account:   "acme",
		User:      "reader",
		Password:  "pw",
		Warehouse: "WH",
		Role:      "ANALYST",
		Database:  "ANALYTICS",
		Schema:    "PUBLIC",
	}, cfg.Connection)
	assert.Equal(t, DefaultSampleSize, cfg.Settings.SampleSize)
	assert.Equal(t, DefaultOutput, cfg.Settings.Output)
}

func TestLoad_MissingEnvironment(t *testing.T) {
	setSnowflakeEnv(t)
	t.Setenv("SNOWFLAKE_PASSWORD", "")

	v := viper.New()
	require.NoError(t, SetDefaults(v))

	_, err := Load(v)
	require.ErrorIs(t, err, apperrors.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "password")
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "column-detector.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
connection:
  driver: SQLite
  database: ./warehouse.db
settings:
  sample_size: 3
  tables: [USERS, ORDERS]
  format: xlsx
`), 0o644))

	v := viper.New()
	require.NoError(t, SetDefaults(v))
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Connection.Driver)
	assert.Equal(t, "./warehouse.db", cfg.Connection.Database)
	assert.Equal(t, 3, cfg.Settings.SampleSize)
	assert.Equal(t, []string{"USERS", "ORDERS"}, cfg.Settings.Tables)
	assert.Equal(t, "xlsx", cfg.Settings.Format)
	assert.Equal(t, DefaultOutput, cfg.Settings.Output)
}

func TestLoad_NegativeSampleSize(t *testing.T) {
	v := viper.New()
	require.NoError(t, SetDefaults(v))
	v.Set("connection.driver", DriverSQLite)
	v.Set("connection.database", "wh.db")
	v.Set("settings.sample_size", -2)

	_, err := Load(v)
	require.ErrorIs(t, err, apperrors.ErrInvalidSampleSize)
}
