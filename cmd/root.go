package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"column-detector/internal/config"
)

var (
	v      = viper.New()
	logger = zap.NewNop()
)

var (
	cfgFile   string
	verbose   bool
	configErr error
)

var RootCmd = &cobra.Command{
	Use:   "column-detector",
	Short: "Schema column and sample value inspector",
	Long: `column-detector lists the tables and columns of one warehouse schema,
pulls a few distinct sample values per column and writes a flat report
(CSV, XLSX or YAML).

Connection settings come from flags, SNOWFLAKE_* environment variables
(a .env file in the working directory is read too) or column-detector.yaml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		logger = l
		logConfigSource(logger, v)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "✗ error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./column-detector.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	flags.String("driver", "", "snowflake, postgres, mysql, sqlserver, oracle or sqlite (default snowflake)")
	flags.String("account", "", "Snowflake account identifier")
	flags.String("user", "", "user name")
	flags.String("password", "", "password")
	flags.String("warehouse", "", "Snowflake warehouse")
	flags.String("role", "", "Snowflake role")
	flags.String("database", "", "database (file path for sqlite)")
	flags.String("schema", "", "schema to inspect")
	flags.String("host", "", "server host (non-Snowflake drivers)")
	flags.Int("port", 0, "server port (non-Snowflake drivers)")

	for _, name := range []string{"driver", "account", "user", "password", "warehouse", "role", "database", "schema", "host", "port"} {
		if err := v.BindPFlag("connection."+name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in .env, config file and ENV variables if set.
func initConfig() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			configErr = fmt.Errorf("failed to load .env file: %w", err)
			return
		}
	}

	if err := config.SetDefaults(v); err != nil {
		configErr = err
		return
	}

	if cfgFile != "" {
		// Use config file from the flag.
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			configErr = fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
		return
	}

	// 1. Executable Directory (Priority 1)
	if ex, err := os.Executable(); err == nil {
		v.AddConfigPath(filepath.Dir(ex))
	}
	// 2. Current Directory (Priority 2)
	v.AddConfigPath(".")
	v.SetConfigName("column-detector")
	v.SetConfigType("yaml")

	// If a config file is found, read it in. It is logged once the logger
	// is built in PersistentPreRunE.
	_ = v.ReadInConfig()
}

func logConfigSource(l *zap.Logger, vc *viper.Viper) {
	if path := vc.ConfigFileUsed(); path != "" {
		l.Debug("using config file", zap.String("path", path))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	return cfg.Build()
}
