// AngelaMos | 2026
// commands.go

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/tiered-events/internal/auth"
	"github.com/carterperez-dev/templates/tiered-events/internal/core"
	"github.com/carterperez-dev/templates/tiered-events/internal/event"
	"github.com/carterperez-dev/templates/tiered-events/migrations"
)

func keygenCmd() *cobra.Command {
	var privatePath, publicPath string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate the ES256 key pair that signs session tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.GenerateKeyPair(privatePath, publicPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", privatePath, publicPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&privatePath, "private", "keys/private.pem", "private key output path")
	cmd.Flags().StringVar(&publicPath, "public", "keys/public.pem", "public key output path")

	return cmd
}

func migrateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDatabase(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := db.Migrate(cmd.Context(), migrations.FS)
			if err != nil {
				return err
			}

			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			return nil
		},
	}
}

func seedCmd(flags *globalFlags) *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert or refresh the demo event catalog",
		Long: `Insert or refresh the demo event catalog.

The catalog covers every membership tier. Event ids are derived from the
titles, so running seed again updates rows in place.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			from := time.Now().UTC().Truncate(24 * time.Hour)
			if start != "" {
				parsed, err := time.Parse(time.DateOnly, start)
				if err != nil {
					return fmt.Errorf("parse --start: %w", err)
				}
				from = parsed
			}

			_, db, err := openDatabase(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := event.NewRepository(db.DB)
			for _, e := range demoCatalog(from) {
				if err := repo.Upsert(cmd.Context(), &e); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s  %s\n",
					e.Tier, e.EventDate.Format(time.DateOnly), e.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first event date, YYYY-MM-DD (default today)")

	return cmd
}

func checkCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Probe the database, the event catalog and Redis",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			cfg, db, err := openDatabase(ctx, flags)
			if err != nil {
				return err
			}
			defer db.Close()

			count, err := event.NewRepository(db.DB).Count(ctx)
			if err != nil {
				return err
			}
			stats := db.Stats()
			fmt.Fprintf(out, "database  ok  events=%d open=%d in_use=%d idle=%d\n",
				count, stats.OpenConnections, stats.InUse, stats.Idle)

			rdb, err := core.NewRedis(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			defer rdb.Close()

			pool := rdb.PoolStats()
			fmt.Fprintf(out, "redis     ok  total=%d idle=%d hits=%d misses=%d\n",
				pool.TotalConns, pool.IdleConns, pool.Hits, pool.Misses)
			return nil
		},
	}
}

func pruneSessionsCmd(flags *globalFlags) *cobra.Command {
	var grace time.Duration

	cmd := &cobra.Command{
		Use:   "prune-sessions",
		Short: "Delete refresh tokens that expired before the grace window",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDatabase(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer db.Close()

			deleted, err := auth.NewRepository(db.DB).
				DeleteExpired(cmd.Context(), time.Now().Add(-grace))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d refresh tokens\n", deleted)
			return nil
		},
	}

	cmd.Flags().DurationVar(&grace, "grace", 24*time.Hour, "keep tokens expired more recently than this")

	return cmd
}
