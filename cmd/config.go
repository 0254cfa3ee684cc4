package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"column-detector/internal/config"
	"column-detector/internal/schema"
)

// loadConfig returns the active configuration (Flag > Env > Config > Default).
func loadConfig() (*config.Config, error) {
	if configErr != nil {
		return nil, configErr
	}
	return config.Load(v)
}

// withInspector connects an inspector for the duration of fn and always
// disconnects afterwards.
func withInspector(cmd *cobra.Command, cfg *config.Config, opts []schema.Option, fn func(ctx context.Context, in *schema.Inspector) error) (err error) {
	opts = append([]schema.Option{schema.WithLogger(logger)}, opts...)
	in, err := schema.NewInspector(cfg.Connection, opts...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := in.Connect(ctx); err != nil {
		return err
	}
	out := cmd.ErrOrStderr()
	color.New(color.FgGreen).Fprintf(out, "✓ Connected to %s (%s.%s)\n", in.Dialect().Name(), in.Database(), in.Schema())

	defer func() {
		if derr := in.Disconnect(); derr != nil && err == nil {
			err = fmt.Errorf("disconnect: %w", derr)
			return
		}
		color.New(color.FgGreen).Fprintln(out, "✓ Disconnected")
	}()

	return fn(ctx, in)
}
