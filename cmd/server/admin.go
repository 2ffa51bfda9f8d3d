package main

import (
	"fmt"

	"church_roster/internal/app/service"
	"church_roster/internal/domain/repository"
	"church_roster/internal/platform/database"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func createAdminCommand() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Register an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			db, err := openDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			adminRepo := repository.NewSQLAdminRepository(db, cfg.DBQueryTimeout)
			// Registration never touches sessions.
			authService := service.NewAuthService(adminRepo, nil, cfg.SessionTTL, nil)
			if err := authService.Register(cmd.Context(), service.RegisterRequest{Username: username, Password: password}); err != nil {
				return fmt.Errorf("create-admin: %w", err)
			}
			log.Info().Str("username", username).Msg("admin registered")
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
