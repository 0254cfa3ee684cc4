package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"column-detector/internal/config"
	"column-detector/internal/schema"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List base tables in the schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return withInspector(cmd, cfg, nil, func(ctx context.Context, in *schema.Inspector) error {
			names, err := in.ListTables(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		})
	},
}

var columnsCmd = &cobra.Command{
	Use:   "columns TABLE",
	Short: "Show column metadata of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return withInspector(cmd, cfg, nil, func(ctx context.Context, in *schema.Inspector) error {
			cols, err := in.GetColumnsInfo(ctx, args[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "COLUMN\tTYPE\tNULLABLE\tDEFAULT")
			for _, c := range cols {
				nullable := "NO"
				if c.IsNullable {
					nullable = "YES"
				}
				def := ""
				if c.Default != nil {
					def = *c.Default
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, c.DataType, nullable, def)
			}
			return tw.Flush()
		})
	},
}

var sampleSize int

var sampleCmd = &cobra.Command{
	Use:   "sample TABLE COLUMN",
	Short: "Show distinct sample values of a column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return withInspector(cmd, cfg, nil, func(ctx context.Context, in *schema.Inspector) error {
			values, err := in.GetSampleValues(ctx, args[0], args[1], sampleSize)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, val := range values {
				fmt.Fprintln(out, val)
			}
			return nil
		})
	},
}

func init() {
	RootCmd.AddCommand(tablesCmd, columnsCmd, sampleCmd)
	sampleCmd.Flags().IntVarP(&sampleSize, "count", "n", config.DefaultSampleSize, "Number of sample values")
}
