package schema

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"column-detector/internal/apperrors"
	"column-detector/internal/config"
	"column-detector/internal/dialect"
)

// ProgressFunc is called before each table is analyzed. index is 0-based.
type ProgressFunc func(table string, index, total int)

type Option func(*Inspector)

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Inspector) {
		if logger != nil {
			i.logger = logger
		}
	}
}

func WithProgress(fn ProgressFunc) Option {
	return func(i *Inspector) {
		i.progress = fn
	}
}

// Inspector owns a single warehouse session and reads table, column and
// sample metadata through it. It is not safe for concurrent use.
type Inspector struct {
	cfg      config.Connection
	dialect  dialect.Dialect
	dsn      string
	schema   string
	db       *sql.DB
	logger   *zap.Logger
	progress ProgressFunc
}

// NewInspector validates cfg and resolves its dialect. It does not connect.
func NewInspector(cfg config.Connection, opts ...Option) (*Inspector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d, err := dialect.Get(cfg.Driver)
	if err != nil {
		return nil, err
	}

	schemaName := d.GetSchemaName(cfg)
	// Snowflake interpolates both names unquoted into catalog queries.
	if d.Name() == config.DriverSnowflake {
		if err := dialect.ValidateIdentifier(cfg.Database); err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		if err := dialect.ValidateIdentifier(schemaName); err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
	}

	dsn, err := d.DSN(cfg)
	if err != nil {
		return nil, err
	}

	i := &Inspector{
		cfg:     cfg,
		dialect: d,
		dsn:     dsn,
		schema:  schemaName,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

func (i *Inspector) Dialect() dialect.Dialect { return i.dialect }

// Schema is the resolved schema name used in catalog queries.
func (i *Inspector) Schema() string { return i.schema }

func (i *Inspector) Database() string { return i.cfg.Database }

func (i *Inspector) Connected() bool { return i.db != nil }

// Connect opens the session. Calling it on a connected inspector is a no-op.
func (i *Inspector) Connect(ctx context.Context) error {
	if i.db != nil {
		return nil
	}

	db, err := sql.Open(i.dialect.DriverName(), i.dsn)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", apperrors.ErrConnection, i.dialect.Name(), err)
	}
	// One session for the whole run.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("%w: %s %s.%s: %w", apperrors.ErrConnection, i.dialect.Name(), i.cfg.Database, i.schema, err)
	}

	i.db = db
	i.logger.Info("connected",
		zap.String("driver", i.dialect.Name()),
		zap.String("database", i.cfg.Database),
		zap.String("schema", i.schema))
	return nil
}

// Disconnect closes the session. It is a no-op when not connected.
func (i *Inspector) Disconnect() error {
	if i.db == nil {
		return nil
	}
	err := i.db.Close()
	i.db = nil
	if err != nil {
		return fmt.Errorf("close %s session: %w", i.dialect.Name(), err)
	}
	i.logger.Info("disconnected", zap.String("driver", i.dialect.Name()))
	return nil
}

func (i *Inspector) requireConn() error {
	if i.db == nil {
		return apperrors.ErrNotConnected
	}
	return nil
}

// classify prefixes err with the sentinel the dialect maps it to, if any.
func (i *Inspector) classify(err error) error {
	if kind := i.dialect.ClassifyError(err); kind != nil {
		return fmt.Errorf("%w: %w", kind, err)
	}
	return err
}

// ListTables returns the base tables of the configured schema, sorted by name.
func (i *Inspector) ListTables(ctx context.Context) ([]string, error) {
	if err := i.requireConn(); err != nil {
		return nil, err
	}

	query, args := i.dialect.TablesQuery(i.cfg.Database, i.schema)
	rows, err := i.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tables in %s: %w", i.schema, i.classify(err))
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", i.classify(err))
	}

	// Catalog collations differ between engines.
	slices.Sort(tables)
	return tables, nil
}

// GetTables is an alias of ListTables.
func (i *Inspector) GetTables(ctx context.Context) ([]string, error) {
	return i.ListTables(ctx)
}

// GetColumnsInfo returns the columns of a base table in ordinal order.
func (i *Inspector) GetColumnsInfo(ctx context.Context, table string) ([]ColumnInfo, error) {
	if err := i.requireConn(); err != nil {
		return nil, err
	}
	if err := dialect.ValidateQuotedIdentifier(table); err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}

	// Views are not inspected: the same base-table rule as ListTables.
	exists, err := i.tableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s.%s", apperrors.ErrTableNotFound, i.schema, table)
	}

	query, args := i.dialect.ColumnsQuery(i.cfg.Database, i.schema, table)
	rows, err := i.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get columns of %s: %w", table, i.classify(err))
	}
	defer rows.Close()

	var columns []ColumnInfo
	for rows.Next() {
		var (
			name                 string
			dataType, nullable   sql.NullString
			def                  sql.NullString
			charLen, prec, scale sql.NullInt64
		)
		if err := rows.Scan(&name, &dataType, &nullable, &def, &charLen, &prec, &scale); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", table, err)
		}
		columns = append(columns, ColumnInfo{
			Table:            table,
			Name:             name,
			DataType:         dataType.String,
			IsNullable:       strings.EqualFold(nullable.String, "YES"),
			Default:          nullString(def),
			CharMaxLength:    nullInt(charLen),
			NumericPrecision: nullInt(prec),
			NumericScale:     nullInt(scale),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns of %s: %w", table, i.classify(err))
	}
	return columns, nil
}

func (i *Inspector) tableExists(ctx context.Context, table string) (bool, error) {
	query, args := i.dialect.TableExistsQuery(i.cfg.Database, i.schema, table)
	var n int64
	if err := i.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("check table %s: %w", table, i.classify(err))
	}
	return n > 0, nil
}

// GetSampleValues returns up to n distinct non-null values of column as
// strings, in ascending order. n == 0 yields an empty slice without a query.
func (i *Inspector) GetSampleValues(ctx context.Context, table, column string, n int) ([]string, error) {
	if err := i.requireConn(); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrInvalidSampleSize, n)
	}
	if err := dialect.ValidateQuotedIdentifier(table); err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	if err := dialect.ValidateQuotedIdentifier(column); err != nil {
		return nil, fmt.Errorf("column: %w", err)
	}
	values := []string{}
	if n == 0 {
		return values, nil
	}

	query := i.dialect.SampleQuery(
		i.dialect.QualifiedTable(i.cfg.Database, i.schema, table),
		i.dialect.QuoteIdentifier(column),
		n,
	)
	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sample %s.%s: %w", table, column, i.classify(err))
	}
	defer rows.Close()

	var dataType string
	if types, err := rows.ColumnTypes(); err == nil && len(types) > 0 {
		dataType = types[0].DatabaseTypeName()
	}

	for rows.Next() && len(values) < n {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan sample (%s.%s): %w", table, column, err)
		}
		values = append(values, Stringify(v, dataType))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sample %s.%s: %w", table, column, i.classify(err))
	}
	return values, nil
}

// AnalyzeSchema collects columns and samples for every table, or only for
// the given tables when the list is non-empty. Requested names must exist;
// they are matched exactly first, then case-insensitively.
func (i *Inspector) AnalyzeSchema(ctx context.Context, sampleSize int, tables []string) (*Report, error) {
	if err := i.requireConn(); err != nil {
		return nil, err
	}
	if sampleSize < 0 {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrInvalidSampleSize, sampleSize)
	}

	targets, err := i.resolveTables(ctx, tables)
	if err != nil {
		return nil, err
	}
	i.logger.Info("analyzing schema",
		zap.String("schema", i.schema),
		zap.Int("tables", len(targets)),
		zap.Int("sample_size", sampleSize))

	report := &Report{
		Database:   i.cfg.Database,
		Schema:     i.schema,
		SampleSize: sampleSize,
		Tables:     make([]TableResult, 0, len(targets)),
	}
	for idx, table := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i.progress != nil {
			i.progress(table, idx, len(targets))
		}

		columns, err := i.GetColumnsInfo(ctx, table)
		if err != nil {
			return nil, err
		}

		result := TableResult{Name: table, Columns: make([]ColumnResult, 0, len(columns))}
		for _, col := range columns {
			values, err := i.GetSampleValues(ctx, table, col.Name, sampleSize)
			if err != nil {
				return nil, err
			}
			result.Columns = append(result.Columns, ColumnResult{
				Info:    col,
				Samples: SampleSet{Table: table, Column: col.Name, Values: values},
			})
			i.logger.Debug("sampled column",
				zap.String("table", table),
				zap.String("column", col.Name),
				zap.String("data_type", col.DataType),
				zap.Int("samples", len(values)))
		}
		report.Tables = append(report.Tables, result)
	}
	return report, nil
}

// resolveTables maps requested names onto catalog names. An empty request
// means every table.
func (i *Inspector) resolveTables(ctx context.Context, requested []string) ([]string, error) {
	all, err := i.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	if len(requested) == 0 {
		return all, nil
	}

	exact := make(map[string]bool, len(all))
	// upper-cased name -> catalog name
	folded := make(map[string]string, len(all))
	for _, t := range all {
		exact[t] = true
		folded[strings.ToUpper(t)] = t
	}

	seen := make(map[string]bool, len(requested))
	targets := make([]string, 0, len(requested))
	for _, req := range requested {
		name := strings.TrimSpace(req)
		if !exact[name] {
			canonical, ok := folded[strings.ToUpper(name)]
			if !ok {
				return nil, fmt.Errorf("%w: %s.%s", apperrors.ErrTableNotFound, i.schema, name)
			}
			name = canonical
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		targets = append(targets, name)
	}
	return targets, nil
}

// Stringify renders a scanned driver value for display. dataType is the
// column's database type name; it decides how time values are formatted.
// Binary values that are not valid UTF-8 are rendered as 0x-prefixed hex.
func Stringify(v any, dataType string) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		if utf8.Valid(val) {
			return string(val)
		}
		return "0x" + strings.ToUpper(hex.EncodeToString(val))
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case time.Time:
		return formatTime(val, dataType)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

const (
	timestampLayout   = "2006-01-02 15:04:05.999999999"
	timestampTZLayout = timestampLayout + " -07:00"
	timeOfDayLayout   = "15:04:05.999999999"
)

func formatTime(t time.Time, dataType string) string {
	typ := strings.ToUpper(strings.TrimSpace(dataType))
	switch {
	case typ == "DATE":
		return t.Format(time.DateOnly)
	case typ == "TIME":
		return t.Format(timeOfDayLayout)
	case hasTimeZone(typ):
		return t.Format(timestampTZLayout)
	}
	return t.Format(timestampLayout)
}

// hasTimeZone reports zone-aware timestamp types: TIMESTAMP_TZ/_LTZ,
// TIMESTAMPTZ, TIMESTAMP WITH [LOCAL] TIME ZONE, DATETIMEOFFSET.
func hasTimeZone(typ string) bool {
	if strings.Contains(typ, "WITHOUT") {
		return false
	}
	return strings.Contains(typ, "TZ") ||
		strings.Contains(typ, "TIME ZONE") ||
		typ == "DATETIMEOFFSET"
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullInt(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	n := ni.Int64
	return &n
}
