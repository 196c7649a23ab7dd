package app

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/idsync/internal/db/models"
	"github.com/GoPowerDNS-Admin/idsync/internal/service"
)

var (
	roleDescription string

	rolesCmd = &cobra.Command{
		Use:   "roles",
		Short: "Manage the roles users can be mapped to",
	}

	rolesListCmd = &cobra.Command{
		Use:   "list",
		Short: "List all roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := service.New(&cfg)
			if err != nil {
				return err
			}

			defer closeService(svc)

			roles, err := svc.Roles.List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0) //nolint:mnd
			_, _ = fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")

			for _, role := range roles {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", role.ID, role.Name, role.Description)
			}

			return w.Flush()
		},
	}

	rolesCreateCmd = &cobra.Command{
		Use:   "create NAME",
		Short: "Create a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service.New(&cfg)
			if err != nil {
				return err
			}

			defer closeService(svc)

			role := models.Role{Name: args[0], Description: roleDescription}
			if err = svc.Roles.Create(cmd.Context(), &role); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created role %q with id %d\n", role.Name, role.ID)

			return err
		},
	}

	rolesAssignCmd = &cobra.Command{
		Use:   "assign USER_ID ROLE",
		Short: "Grant a role manually; the role mapping never revokes it",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}

			svc, err := service.New(&cfg)
			if err != nil {
				return err
			}

			defer closeService(svc)

			role, err := svc.Roles.FindByName(cmd.Context(), args[1])
			if err != nil {
				return err
			}

			if role == nil {
				return fmt.Errorf("%w: role %q", errNotFound, args[1])
			}

			if err = svc.Assignments.Assign(cmd.Context(), userID, role.ID); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "assigned role %q to user %d\n", role.Name, userID)

			return err
		},
	}

	rolesSeedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Create the roles named in the role mapping that do not exist yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := service.New(&cfg)
			if err != nil {
				return err
			}

			defer closeService(svc)

			created, err := svc.SeedRoles(cmd.Context())
			if err != nil {
				return err
			}

			for _, name := range created {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created role %q\n", name)
			}

			return nil
		},
	}
)

func init() { //nolint: gochecknoinits
	rolesCreateCmd.Flags().StringVarP(&roleDescription, "description", "d", "", "role description")

	rolesCmd.AddCommand(rolesListCmd, rolesCreateCmd, rolesAssignCmd, rolesSeedCmd)
	rootCmd.AddCommand(rolesCmd)
}
