package report_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"column-detector/internal/apperrors"
	"column-detector/internal/report"
	"column-detector/internal/schema"
)

func ptr[T any](v T) *T { return &v }

func sampleReport() *schema.Report {
	col := func(table, name, typ string, nullable bool, values ...string) schema.ColumnResult {
		return schema.ColumnResult{
			Info:    schema.ColumnInfo{Table: table, Name: name, DataType: typ, IsNullable: nullable},
			Samples: schema.SampleSet{Table: table, Column: name, Values: values},
		}
	}

	orders := col("ORDERS", "AMOUNT", "NUMBER", true, "10.5", "99")
	orders.Info.NumericPrecision = ptr(int64(38))
	orders.Info.NumericScale = ptr(int64(2))

	return &schema.Report{
		Database:   "ANALYTICS",
		Schema:     "PUBLIC",
		SampleSize: 5,
		Tables: []schema.TableResult{
			{Name: "USERS", Columns: []schema.ColumnResult{
				col("USERS", "USER_ID", "NUMBER", false, "1", "2", "3"),
				col("USERS", "USER_NAME", "VARCHAR", true, "Alice", "Bob, Jr.", `Charlie "C"`),
			}},
			{Name: "ORDERS", Columns: []schema.ColumnResult{
				orders,
				col("ORDERS", "NOTE", "TEXT", true),
			}},
		},
	}
}

type tuple struct {
	table, column, dataType, nullable string
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("\uFEFF")), "missing BOM")

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\uFEFF")))).ReadAll()
	require.NoError(t, err)
	return records
}

func TestFlatten(t *testing.T) {
	rows := report.Flatten(sampleReport())
	require.Len(t, rows, 4)

	assert.Equal(t, report.Row{Table: "USERS", Column: "USER_ID", DataType: "NUMBER", Nullable: false, Samples: "1, 2, 3"}, rows[0])
	assert.Equal(t, "YES", rows[1].NullableLabel())
	assert.Equal(t, "NO", rows[0].NullableLabel())
	assert.Equal(t, "ORDERS", rows[2].Table)
	assert.Equal(t, "", rows[3].Samples)
	assert.Equal(t, []string{"ORDERS", "NOTE", "TEXT", "YES", ""}, rows[3].Cells())
}

func TestExportCSV_RoundTrip(t *testing.T) {
	rep := sampleReport()
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, report.ExportCSV(rep, path))

	records := readCSV(t, path)
	require.Len(t, records, 1+rep.ColumnCount())
	assert.Equal(t, report.Header, records[0])

	var want, got []tuple
	for _, table := range rep.Tables {
		for _, c := range table.Columns {
			nullable := "NO"
			if c.Info.IsNullable {
				nullable = "YES"
			}
			want = append(want, tuple{table.Name, c.Info.Name, c.Info.DataType, nullable})
		}
	}
	for _, rec := range records[1:] {
		require.Len(t, rec, 5)
		got = append(got, tuple{rec[0], rec[1], rec[2], rec[3]})
	}
	assert.Equal(t, want, got)

	// Values with commas and quotes survive CSV quoting.
	assert.Equal(t, `Alice, Bob, Jr., Charlie "C"`, records[2][4])
}

func TestExportCSV_Idempotent(t *testing.T) {
	rep := sampleReport()
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, report.ExportCSV(rep, path))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, report.ExportCSV(rep, path))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExportCSV_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale data\n", 100)), 0o644))

	require.NoError(t, report.ExportCSV(sampleReport(), path))

	records := readCSV(t, path)
	assert.Len(t, records, 5)
}

func TestExportCSV_Unwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "out.csv")

	err := report.ExportCSV(sampleReport(), path)
	require.ErrorIs(t, err, apperrors.ErrIO)
}

func TestWriteCSV_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, nil))
	assert.Equal(t, "\uFEFFテーブル名,カラム名,データ型,NULL許可,サンプル値\n", buf.String())
}

func TestExportExcel(t *testing.T) {
	rep := sampleReport()
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, report.ExportExcel(rep, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{report.SheetName}, f.GetSheetList())

	rows, err := f.GetRows(report.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1+rep.ColumnCount())
	assert.Equal(t, report.Header, rows[0])
	assert.Equal(t, []string{"USERS", "USER_ID", "NUMBER", "NO", "1, 2, 3"}, rows[1])
	assert.Equal(t, []string{"ORDERS", "AMOUNT", "NUMBER", "YES", "10.5, 99"}, rows[3])
}

func TestExportExcel_Unwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "out.xlsx")

	err := report.ExportExcel(sampleReport(), path)
	require.ErrorIs(t, err, apperrors.ErrIO)
}

func TestExportExcel_LongSamplesFitCell(t *testing.T) {
	long := strings.Repeat("あ", 20_000)
	rep := &schema.Report{Tables: []schema.TableResult{{
		Name: "DOCS",
		Columns: []schema.ColumnResult{{
			Info:    schema.ColumnInfo{Table: "DOCS", Name: "BODY", DataType: "TEXT", IsNullable: true},
			Samples: schema.SampleSet{Values: []string{long, long}},
		}},
	}}}
	path := filepath.Join(t.TempDir(), "long.xlsx")
	require.NoError(t, report.ExportExcel(rep, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue(report.SheetName, "E2")
	require.NoError(t, err)
	assert.Equal(t, excelize.TotalCellChars, utf8.RuneCountInString(value))
	assert.True(t, strings.HasPrefix(value, long))
}

func TestExportYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, report.ExportYAML(sampleReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Database string `yaml:"database"`
		Schema   string `yaml:"schema"`
		Tables   []struct {
			Name    string `yaml:"name"`
			Columns []struct {
				Name             string   `yaml:"name"`
				Meaning          string   `yaml:"meaning"`
				Nullable         bool     `yaml:"nullable"`
				NumericPrecision *int64   `yaml:"numeric_precision"`
				Samples          []string `yaml:"samples"`
			} `yaml:"columns"`
		} `yaml:"tables"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))

	assert.Equal(t, "ANALYTICS", doc.Database)
	require.Len(t, doc.Tables, 2)
	assert.Equal(t, "USERS", doc.Tables[0].Name)
	assert.Equal(t, "user name", doc.Tables[0].Columns[1].Meaning)
	assert.Equal(t, []string{"Alice", "Bob, Jr.", `Charlie "C"`}, doc.Tables[0].Columns[1].Samples)
	require.NotNil(t, doc.Tables[1].Columns[0].NumericPrecision)
	assert.Equal(t, int64(38), *doc.Tables[1].Columns[0].NumericPrecision)
	assert.Empty(t, doc.Tables[1].Columns[1].Samples)
	assert.NotContains(t, string(data), "char_max_length")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    report.Format
		wantErr bool
	}{
		{"csv", report.FormatCSV, false},
		{".CSV", report.FormatCSV, false},
		{"xlsx", report.FormatExcel, false},
		{"excel", report.FormatExcel, false},
		{"yml", report.FormatYAML, false},
		{"yaml", report.FormatYAML, false},
		{"parquet", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := report.ParseFormat(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, report.FormatExcel, report.FormatFromPath("out/analysis.xlsx"))
	assert.Equal(t, report.FormatYAML, report.FormatFromPath("analysis.yml"))
	assert.Equal(t, report.FormatCSV, report.FormatFromPath("snowflake_schema_analysis.csv"))
	assert.Equal(t, report.FormatCSV, report.FormatFromPath("no-extension"))
}

func TestExport_Dispatch(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, report.Export(sampleReport(), filepath.Join(dir, "a.csv"), report.FormatCSV))
	require.NoError(t, report.Export(sampleReport(), filepath.Join(dir, "a.yaml"), report.FormatYAML))

	err := report.Export(sampleReport(), filepath.Join(dir, "a.bin"), report.Format("bin"))
	require.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
}
