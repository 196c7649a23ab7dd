package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/idsync/internal/attribute"
	"github.com/GoPowerDNS-Admin/idsync/internal/auth"
	"github.com/GoPowerDNS-Admin/idsync/internal/logger"
)

var (
	ldapPasswordStdin bool
	ldapTestOnly      bool

	ldapCmd = &cobra.Command{
		Use:   "ldap [username]",
		Short: "Synchronize a user from LDAP",
		Long: `Look up a user in LDAP and synchronize it. Without --password-stdin the
user is read with the service account; with it, the user has to bind with
the password read from the first line of stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := auth.NewLDAPProvider(&cfg.Auth.LDAP, cfg.Image.Attribute, logger.Component("ldap"))
			if err != nil {
				return err
			}

			if ldapTestOnly {
				if err = provider.TestConnection(); err != nil {
					return err
				}

				log.Info().Str("host", cfg.Auth.LDAP.Host).Msg("ldap connection ok")

				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("%w: username", errMissingArgument)
			}

			var store *attribute.Store

			if ldapPasswordStdin {
				password, errRead := readPassword(cmd.InOrStdin())
				if errRead != nil {
					return errRead
				}

				store, err = provider.Authenticate(args[0], password)
			} else {
				store, err = provider.Lookup(args[0])
			}

			if err != nil {
				return err
			}

			return synchronize(cmd, store, auth.LDAP)
		},
	}
)

func init() { //nolint: gochecknoinits
	ldapCmd.Flags().BoolVar(&ldapPasswordStdin, "password-stdin", false, "bind as the user with a password from stdin")
	ldapCmd.Flags().BoolVar(&ldapTestOnly, "test", false, "only test connection and service account bind")

	rootCmd.AddCommand(ldapCmd)
}

// readPassword returns the first line of r.
func readPassword(r io.Reader) (string, error) {
	password, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return strings.TrimRight(password, "\r\n"), nil
}
