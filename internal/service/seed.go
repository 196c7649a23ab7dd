package service

import (
	"context"
	"slices"
	"strings"

	"github.com/GoPowerDNS-Admin/idsync/internal/db/models"
)

// SeedRoles creates a role for every enabled role mapping entry whose name
// does not match an existing role. It returns the names of the created roles.
func (s *Service) SeedRoles(ctx context.Context) ([]string, error) {
	var created []string

	for _, name := range s.mappedRoleNames() {
		role, err := s.Roles.FindByName(ctx, name)
		if err != nil {
			return created, err
		}

		if role != nil {
			continue
		}

		if err = s.Roles.Create(ctx, &models.Role{
			Name:        name,
			Description: "created from role mapping",
		}); err != nil {
			return created, err
		}

		created = append(created, name)
	}

	if len(created) > 0 {
		s.log.Info().Strs("roles", created).Msg("seeded roles")
	}

	return created, nil
}

// mappedRoleNames returns the distinct names of all enabled entries,
// compared ignoring case, sorted by authenticator then configuration order.
func (s *Service) mappedRoleNames() []string {
	authenticators := make([]string, 0, len(s.cfg.RoleMapping))
	for a := range s.cfg.RoleMapping {
		authenticators = append(authenticators, a)
	}

	slices.Sort(authenticators)

	var names []string

	for _, a := range authenticators {
		for _, entry := range s.cfg.RoleMapping[a] {
			if entry.Disabled {
				continue
			}

			if !slices.ContainsFunc(names, func(n string) bool { return strings.EqualFold(n, entry.Name) }) {
				names = append(names, entry.Name)
			}
		}
	}

	return names
}
