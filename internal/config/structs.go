package config

import (
	"strings"

	"github.com/GoPowerDNS-Admin/idsync/internal/logger"
	"github.com/GoPowerDNS-Admin/idsync/internal/rolemapping"
)

// Config overall data structure.
type Config struct {
	DevMode  bool // enable dev mode for development
	DB       DB
	Log      logger.Log
	Defaults Defaults
	Image    Image
	Auth     Auth
	Metrics  Metrics

	// RoleMapping holds the ordered role mapping entries per authenticator.
	// Authenticator names are lower case.
	RoleMapping map[string][]rolemapping.Entry
}

// Defaults are applied to users created by a first synchronization.
type Defaults struct {
	Locale   string // e.g. "en"
	Timezone string // IANA name, e.g. "UTC"
}

// Image configures the profile image taken from the identity provider.
type Image struct {
	Enabled   bool
	Attribute string // attribute carrying the raw image bytes
	MaxBytes  int    // larger images are ignored
}

// Auth holds the identity provider settings.
type Auth struct {
	LDAP LDAPAuth
	OIDC OIDCAuth
}

// Metrics configures metric output of the command line tools.
type Metrics struct {
	// TextFile is written in the node_exporter textfile collector format after a run.
	TextFile string
}

// Entries returns the role mapping entries for an authenticator, or nil.
// Authenticator names are compared in lower case.
func (c *Config) Entries(authenticator string) []rolemapping.Entry {
	return c.RoleMapping[strings.ToLower(authenticator)]
}
