package config

// LDAPAuth holds LDAP/Active Directory settings.
type LDAPAuth struct {
	// Enabled indicates if LDAP authentication is enabled.
	Enabled bool
	// Host is the LDAP server hostname or IP address.
	Host string
	// Port is the LDAP server port (typically 389 for LDAP, 636 for LDAPS).
	Port int
	// UseSSL enables LDAPS (LDAP over SSL/TLS).
	UseSSL bool
	// UseTLS enables StartTLS to upgrade a plain LDAP connection.
	UseTLS bool
	// SkipVerify skips TLS certificate verification (insecure, for testing only).
	SkipVerify bool
	// BindDN is the distinguished name used for searches.
	BindDN string
	// BindPassword is the password for BindDN.
	BindPassword string
	// BaseDN is the base distinguished name for user searches.
	BaseDN string
	// UserFilter finds the user, e.g. "(uid={username})".
	UserFilter string
	// GroupBaseDN is the base distinguished name for group searches. Empty disables group lookup.
	GroupBaseDN string
	// GroupFilter finds the user's groups, e.g. "(member={userdn})".
	GroupFilter string
	// ExternalIDAttr holds the stable user identifier (e.g. "uid", "entryUUID").
	ExternalIDAttr string
	// EmailAttr holds the email address (e.g. "mail").
	EmailAttr string
	// FirstNameAttr holds the given name (e.g. "givenName").
	FirstNameAttr string
	// LastNameAttr holds the surname (e.g. "sn").
	LastNameAttr string
	// ImageAttr holds the profile photo (e.g. "jpegPhoto").
	ImageAttr string
	// Timeout is the connection timeout in seconds.
	Timeout int
	// SearchAttributes are the LDAP attributes fetched for role mapping; empty fetches all.
	SearchAttributes []string
}

// OIDCAuth holds OpenID Connect settings.
type OIDCAuth struct {
	// Enabled indicates if OIDC authentication is enabled.
	Enabled bool
	// ProviderURL is the issuer URL used for discovery.
	ProviderURL string
	// ClientID is the OAuth2 client identifier.
	ClientID string
	// ClientSecret is the OAuth2 client secret.
	ClientSecret string
	// RedirectURL is the OAuth2 callback URL.
	RedirectURL string
	// Scopes to request, default openid, profile and email.
	Scopes []string
	// GroupsClaim names the claim carrying the user's groups, default "groups".
	GroupsClaim string
}
