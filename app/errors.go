package app

import "errors"

var (
	// errMissingArgument is returned when a command lacks a required argument.
	errMissingArgument = errors.New("missing argument")

	// errNotFound is returned when a named object does not exist.
	errNotFound = errors.New("not found")

	// errNoCredential is returned by the oidc command without code or access token.
	errNoCredential = errors.New("either --code or --access-token is required")
)
