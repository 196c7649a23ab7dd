package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/idsync/internal/attribute"
	"github.com/GoPowerDNS-Admin/idsync/internal/auth"
	"github.com/GoPowerDNS-Admin/idsync/internal/logger"
)

var (
	oidcCode        string
	oidcAccessToken string

	oidcCmd = &cobra.Command{
		Use:   "oidc",
		Short: "Synchronize a user from an OpenID Connect provider",
		Long: `Synchronize a user from the claims of an OpenID Connect provider, either by
exchanging an authorization code (claims of the verified ID token) or by
calling the UserInfo endpoint with an access token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if oidcCode == "" && oidcAccessToken == "" {
				return errNoCredential
			}

			provider, err := auth.NewOIDCProvider(cmd.Context(), &cfg.Auth.OIDC, logger.Component("oidc"))
			if err != nil {
				return err
			}

			var store *attribute.Store

			if oidcCode != "" {
				store, err = provider.HandleCallback(cmd.Context(), oidcCode)
			} else {
				store, err = provider.UserInfo(cmd.Context(), oidcAccessToken)
			}

			if err != nil {
				return err
			}

			return synchronize(cmd, store, auth.OIDC)
		},
	}

	oidcURLCmd = &cobra.Command{
		Use:   "url",
		Short: "Print an authorization URL to obtain a code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			provider, err := auth.NewOIDCProvider(cmd.Context(), &cfg.Auth.OIDC, logger.Component("oidc"))
			if err != nil {
				return err
			}

			state, err := auth.GenerateStateToken()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), provider.AuthURL(state))

			return err
		},
	}
)

func init() { //nolint: gochecknoinits
	oidcCmd.Flags().StringVar(&oidcCode, "code", "", "authorization code returned to the redirect URL")
	oidcCmd.Flags().StringVar(&oidcAccessToken, "access-token", "", "access token for the UserInfo endpoint")
	oidcCmd.MarkFlagsMutuallyExclusive("code", "access-token")

	oidcCmd.AddCommand(oidcURLCmd)
	rootCmd.AddCommand(oidcCmd)
}
