// Package app implements the main application commands.
package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/idsync/internal/config"
	"github.com/GoPowerDNS-Admin/idsync/internal/logger"
)

var (
	configPath  string // Path to the directory holding main.toml
	metricsFile string // Path of the textfile collector output

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "idsync",
		Short: "idsync keeps local users and roles in line with external identity providers",
		Long: `idsync materializes users authenticated by LDAP, OIDC or SAML as local
accounts and grants or revokes roles based on the attributes the identity
provider supplies, using the rules of the RoleMapping configuration.`,
		Args:              cobra.OnlyValidArgs,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return writeMetrics()
		},
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "directory containing main.toml")
	rootCmd.PersistentFlags().StringVar(
		&metricsFile,
		"metrics-file",
		"",
		"write prometheus metrics to this file when done (textfile collector format)",
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	if err = logger.Init(cfg.Log); err != nil {
		return err
	}

	log.Debug().Str("path", configPath).Bool("devMode", cfg.DevMode).Msg("config loaded")

	return nil
}

func writeMetrics() error {
	path := metricsFile
	if path == "" {
		path = cfg.Metrics.TextFile
	}

	if path == "" {
		return nil
	}

	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
