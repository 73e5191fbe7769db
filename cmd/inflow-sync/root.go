package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/johnwards/inflowsync/internal/app"
	"github.com/johnwards/inflowsync/internal/config"
)

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, env map[string]string, stdout, stderr io.Writer) int {
	code := 0
	cmd := newRootCmd(env, stdout, stderr, &code)
	if args == nil {
		// cobra reads os.Args when given nil.
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return code
}

func newRootCmd(env map[string]string, stdout, stderr io.Writer, code *int) *cobra.Command {
	var (
		envFile  string
		logLevel string
	)

	root := &cobra.Command{
		Use:   "inflow-sync",
		Short: "Seed a local SQLite database from the Inflow Inventory API",
		Long: `inflow-sync pulls reference data, contacts, products and orders for one
Inflow company and writes them to ./data/inflow.sqlite.

Credentials are read from INFLOW_API_KEY and INFLOW_COMPANY_ID.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file merged under the process environment")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if envFile != "" {
			fileEnv, err := godotenv.Read(envFile)
			if err != nil {
				return fmt.Errorf("read env file: %w", err)
			}
			env = mergeEnv(fileEnv, env)
		}

		level := env["INFLOW_LOG_LEVEL"]
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		slog.SetDefault(app.NewLogger(stderr, level))
		return nil
	}

	root.RunE = func(cmd *cobra.Command, _ []string) error {
		*code = app.Run(cmd.Context(), env, app.DefaultDeps(stdout, stderr))
		return nil
	}

	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the last sync run and row counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Status(cmd.Context(), config.DefaultDBPath, stdout)
		},
	})

	return root
}

// mergeEnv layers over on top of base and returns a new map.
func mergeEnv(base, over map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(over))
	maps.Copy(out, base)
	maps.Copy(out, over)
	return out
}
