// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/tiered-events/internal/config"
	"github.com/carterperez-dev/templates/tiered-events/internal/core"
)

var Version = "dev"

type globalFlags struct {
	configPath string
	envFile    string
}

func main() {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "tierctl",
		Short:         "Operate the tiered events backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			err := godotenv.Load(flags.envFile)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load %s: %w", flags.envFile, err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before config")

	rootCmd.AddCommand(keygenCmd())
	rootCmd.AddCommand(migrateCmd(flags))
	rootCmd.AddCommand(seedCmd(flags))
	rootCmd.AddCommand(checkCmd(flags))
	rootCmd.AddCommand(pruneSessionsCmd(flags))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDatabase loads config and connects; callers close the result.
func openDatabase(ctx context.Context, flags *globalFlags) (*config.Config, *core.Database, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, err
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	return cfg, db, nil
}
