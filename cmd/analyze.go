package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"column-detector/internal/config"
	"column-detector/internal/report"
	"column-detector/internal/schema"
)

var (
	tables []string
	quiet  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the schema and export columns with sample values",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Filter tables strategy:
		// 1. Check CLI flag --tables
		// 2. If empty, check config settings.tables
		// 3. If both empty, process all tables.
		if len(tables) > 0 {
			cfg.Settings.Tables = tables
		}

		format, err := resolveFormat(cfg.Settings)
		if err != nil {
			return err
		}

		var bar *uiprogress.Bar
		progress := uiprogress.New()
		progress.SetOut(cmd.ErrOrStderr())
		onTable := func(table string, index, total int) {
			if quiet {
				return
			}
			if bar == nil {
				progress.Start()
				bar = progress.AddBar(total).AppendCompleted().PrependElapsed()
				bar.PrependFunc(func(b *uiprogress.Bar) string {
					return "Analyzing: "
				})
			}
			_ = bar.Set(index)
		}

		start := time.Now()
		var rep *schema.Report
		err = withInspector(cmd, cfg, []schema.Option{schema.WithProgress(onTable)}, func(ctx context.Context, in *schema.Inspector) error {
			var err error
			rep, err = in.AnalyzeSchema(ctx, cfg.Settings.SampleSize, cfg.Settings.Tables)
			if bar != nil {
				_ = bar.Set(bar.Total)
				progress.Stop()
			}
			return err
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !quiet {
			if err := printReport(out, rep); err != nil {
				return err
			}
		}

		if err := report.Export(rep, cfg.Settings.Output, format); err != nil {
			return err
		}
		logger.Info("report exported",
			zap.String("path", cfg.Settings.Output),
			zap.String("format", string(format)),
			zap.Duration("elapsed", time.Since(start)))

		color.New(color.FgGreen).Fprintf(out, "✓ Wrote %d tables / %d columns to '%s'\n",
			len(rep.Tables), rep.ColumnCount(), cfg.Settings.Output)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(analyzeCmd)

	// CLI Flags
	analyzeCmd.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "Specific tables to analyze (comma-separated)")
	analyzeCmd.Flags().IntP("sample-size", "n", config.DefaultSampleSize, "Number of sample values per column")
	analyzeCmd.Flags().StringP("output", "o", config.DefaultOutput, "Output file path")
	analyzeCmd.Flags().StringP("format", "f", "", "Output format: csv, xlsx or yaml (default: from output extension)")
	analyzeCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print progress or the result table")

	_ = v.BindPFlag("settings.sample_size", analyzeCmd.Flags().Lookup("sample-size"))
	_ = v.BindPFlag("settings.output", analyzeCmd.Flags().Lookup("output"))
	_ = v.BindPFlag("settings.format", analyzeCmd.Flags().Lookup("format"))
	// Slice flags are not bound; precedence is handled in RunE: Flag > Config > All.
}

// resolveFormat prefers an explicit format and falls back to the output
// file extension.
func resolveFormat(s config.Settings) (report.Format, error) {
	if s.Format != "" {
		return report.ParseFormat(s.Format)
	}
	return report.FormatFromPath(s.Output), nil
}

func printReport(w io.Writer, rep *schema.Report) error {
	title := color.New(color.Bold)
	title.Fprintln(w)
	title.Fprintf(w, "Analysis Result: %s.%s\n", rep.Database, rep.Schema)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tCOLUMN\tMEANING\tTYPE\tNULLABLE\tSAMPLES")
	for _, r := range report.Flatten(rep) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Table, r.Column, schema.ExpandName(r.Column), r.DataType, r.NullableLabel(), r.Samples)
	}
	return tw.Flush()
}
