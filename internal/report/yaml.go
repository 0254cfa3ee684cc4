package report

import (
	"io"

	"gopkg.in/yaml.v3"

	"column-detector/internal/schema"
)

type yamlReport struct {
	Database   string      `yaml:"database"`
	Schema     string      `yaml:"schema"`
	SampleSize int         `yaml:"sample_size"`
	Tables     []yamlTable `yaml:"tables"`
}

type yamlTable struct {
	Name    string       `yaml:"name"`
	Columns []yamlColumn `yaml:"columns"`
}

type yamlColumn struct {
	Name             string   `yaml:"name"`
	Meaning          string   `yaml:"meaning"`
	DataType         string   `yaml:"data_type"`
	Nullable         bool     `yaml:"nullable"`
	Default          *string  `yaml:"default,omitempty"`
	CharMaxLength    *int64   `yaml:"char_max_length,omitempty"`
	NumericPrecision *int64   `yaml:"numeric_precision,omitempty"`
	NumericScale     *int64   `yaml:"numeric_scale,omitempty"`
	Samples          []string `yaml:"samples"`
}

func toYAML(rep *schema.Report) yamlReport {
	out := yamlReport{
		Database:   rep.Database,
		Schema:     rep.Schema,
		SampleSize: rep.SampleSize,
		Tables:     make([]yamlTable, 0, len(rep.Tables)),
	}
	for _, t := range rep.Tables {
		yt := yamlTable{Name: t.Name, Columns: make([]yamlColumn, 0, len(t.Columns))}
		for _, c := range t.Columns {
			samples := c.Samples.Values
			if samples == nil {
				samples = []string{}
			}
			yt.Columns = append(yt.Columns, yamlColumn{
				Name:             c.Info.Name,
				Meaning:          schema.ExpandName(c.Info.Name),
				DataType:         c.Info.DataType,
				Nullable:         c.Info.IsNullable,
				Default:          c.Info.Default,
				CharMaxLength:    c.Info.CharMaxLength,
				NumericPrecision: c.Info.NumericPrecision,
				NumericScale:     c.Info.NumericScale,
				Samples:          samples,
			})
		}
		out.Tables = append(out.Tables, yt)
	}
	return out
}

// WriteYAML renders the structured two-level report, keeping the full
// column metadata and the samples as a list.
func WriteYAML(w io.Writer, rep *schema.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toYAML(rep)); err != nil {
		return err
	}
	return enc.Close()
}

func ExportYAML(rep *schema.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteYAML(w, rep)
	})
}
