package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/idsync/internal/service"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, err := service.New(&cfg)
		if err != nil {
			return err
		}

		defer closeService(svc)

		log.Info().Str("engine", cfg.DB.GormEngine).Msg("database migrated")

		return nil
	},
}

func closeService(svc *service.Service) {
	if err := svc.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close database")
	}
}
