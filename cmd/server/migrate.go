package main

import (
	"church_roster/internal/platform/database"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the members and admins tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			db, err := openDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)
			log.Info().Str("driver", cfg.DBDriver).Msg("migrations applied")
			return nil
		},
	}
}
