// Package auth talks to the upstream identity providers and hands back what
// they know about a user as an attribute.Store.
//
// LDAPProvider binds against LDAP or Active Directory, reads the user entry
// and the groups the user is a member of. OIDCProvider exchanges an
// authorization code, verifies the ID token and flattens its claims.
//
// Both map the provider specific names onto the attribute names the
// synchronization relies on (external_id, first_name, last_name, email,
// image, groups) and keep every other attribute for role mapping.
//
// Example usage:
//
//	provider, err := auth.NewLDAPProvider(&cfg.Auth.LDAP, cfg.Image.Attribute, log)
//	store, err := provider.Authenticate(username, password)
//	user, err := synchronizer.Synchronize(ctx, store, auth.LDAP, cfg.Entries(auth.LDAP))
package auth

// Authenticator names used as the user key and the role mapping section.
const (
	LDAP = "ldap"
	OIDC = "oidc"
)
