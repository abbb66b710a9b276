package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/lefade-api/internal/config"
	dbpkg "github.com/BruksfildServices01/lefade-api/internal/db"
	"github.com/BruksfildServices01/lefade-api/internal/plans"
)

func migrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and sync the plan catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			db := dbpkg.NewDB(cfg)
			catalog := plans.NewCatalog(cfg.StripePriceStandard, cfg.StripePriceDeluxe)

			if err := dbpkg.Migrate(db, catalog); err != nil {
				return err
			}
			log.Info().Msg("migrations applied")
			return nil
		},
	}
}

func seedCmd(cfg *config.Config) *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample users, availability and a subscription",
		RunE: func(cmd *cobra.Command, args []string) error {
			db := dbpkg.NewDB(cfg)

			if !skipMigrate {
				catalog := plans.NewCatalog(cfg.StripePriceStandard, cfg.StripePriceDeluxe)
				if err := dbpkg.Migrate(db, catalog); err != nil {
					return err
				}
			}
			if err := dbpkg.Seed(cmd.Context(), db); err != nil {
				return err
			}
			log.Info().Msg("seed data loaded")
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "assume the schema is already up to date")
	return cmd
}
