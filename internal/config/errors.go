package config

import (
	"errors"
)

var (
	// ErrEmptyLocale error if config defaults.locale is empty.
	ErrEmptyLocale = errors.New("config defaults.locale can not be empty")

	// ErrInvalidTimezone error if config defaults.timezone is not a known IANA zone.
	ErrInvalidTimezone = errors.New("config defaults.timezone is not a valid timezone")

	// ErrLDAPHostEmpty error if LDAP is enabled without a host.
	ErrLDAPHostEmpty = errors.New("config auth.ldap.host can not be empty when ldap is enabled")

	// ErrLDAPUserFilterEmpty error if LDAP is enabled without a user filter.
	ErrLDAPUserFilterEmpty = errors.New("config auth.ldap.userFilter can not be empty when ldap is enabled")

	// ErrOIDCProviderEmpty error if OIDC is enabled without a provider URL.
	ErrOIDCProviderEmpty = errors.New("config auth.oidc.providerURL can not be empty when oidc is enabled")
)
