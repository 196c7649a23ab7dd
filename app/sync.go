package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/idsync/internal/attribute"
	"github.com/GoPowerDNS-Admin/idsync/internal/db/models"
	"github.com/GoPowerDNS-Admin/idsync/internal/service"
)

var (
	authenticator  string
	attributesFile string

	syncCmd = &cobra.Command{
		Use:   "sync",
		Short: "Synchronize a user from a JSON attribute file",
		Long: `Synchronize a user from a JSON document mapping attribute names to lists
of values, as an identity provider would hand them over, e.g.

  {"external_id": ["jdoe"], "first_name": ["John"], "last_name": ["Doe"],
   "email": ["jdoe@example.org"], "groups": ["staff", null]}

Use "-" to read the document from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := readAttributes(cmd.InOrStdin(), attributesFile)
			if err != nil {
				return err
			}

			return synchronize(cmd, store, authenticator)
		},
	}
)

func init() { //nolint: gochecknoinits
	syncCmd.Flags().StringVarP(&authenticator, "authenticator", "a", "", "authenticator name, selects the role mapping")
	syncCmd.Flags().StringVarP(&attributesFile, "attributes", "f", "-", "JSON attribute file")
	_ = syncCmd.MarkFlagRequired("authenticator")

	rootCmd.AddCommand(syncCmd)
}

// readAttributes decodes a JSON attribute document from path or, for "-", from stdin.
func readAttributes(stdin io.Reader, path string) (*attribute.Store, error) {
	r := stdin

	if path != "-" {
		f, err := os.Open(path) //nolint:gosec // path is given by the operator
		if err != nil {
			return nil, fmt.Errorf("failed to open attribute file: %w", err)
		}

		defer func() { _ = f.Close() }()

		r = f
	}

	var doc map[string][]*string
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode attributes: %w", err)
	}

	store := attribute.New()

	for name, values := range doc {
		store.Add(name)

		for _, v := range values {
			store.AddValue(name, v)
		}
	}

	return store, nil
}

// synchronize runs a synchronization and prints the resulting user and roles.
func synchronize(cmd *cobra.Command, store *attribute.Store, authenticator string) error {
	svc, err := service.New(&cfg)
	if err != nil {
		return err
	}

	defer closeService(svc)

	user, err := svc.Synchronize(cmd.Context(), store, authenticator)
	if err != nil {
		return err
	}

	assignments, err := svc.Assignments.List(cmd.Context(), user.ID)
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), syncOutput(user, assignments))
}

type roleOutput struct {
	Name      string `json:"name"`
	Automatic bool   `json:"automatic"`
}

type userOutput struct {
	ID            uint64       `json:"id"`
	Authenticator string       `json:"authenticator"`
	ExternalID    string       `json:"externalId"`
	FirstName     string       `json:"firstName"`
	LastName      string       `json:"lastName"`
	Email         string       `json:"email"`
	Locale        string       `json:"locale"`
	Timezone      string       `json:"timezone"`
	HasImage      bool         `json:"hasImage"`
	Roles         []roleOutput `json:"roles"`
}

func syncOutput(user *models.User, assignments []models.RoleAssignment) userOutput {
	out := userOutput{
		ID:            user.ID,
		Authenticator: user.Authenticator,
		ExternalID:    user.ExternalID,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Email:         user.Email,
		Locale:        user.Locale,
		Timezone:      user.Timezone,
		HasImage:      user.ExternalImageHash != "",
		Roles:         make([]roleOutput, 0, len(assignments)),
	}

	for _, a := range assignments {
		out.Roles = append(out.Roles, roleOutput{Name: a.Role.Name, Automatic: a.Automatic})
	}

	return out
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
