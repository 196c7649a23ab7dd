// Package main provides the entry point of idsync, a tool that turns users
// authenticated by an external identity provider into local accounts and keeps
// their automatically mapped roles in sync with the provider's attributes.
// The commands are implemented in package app; configuration is read from
// etc/main.toml.
package main
