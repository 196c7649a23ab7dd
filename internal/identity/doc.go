// Package identity turns the attributes an external identity provider hands
// over at login into a local user.
//
// A synchronization finds or creates the user for (authenticator, external_id),
// checks the mandatory attributes, copies name and email, syncs the profile
// image and reconciles the automatically mapped roles. Only a missing mandatory
// attribute or a persistence failure aborts it; image and role problems are
// logged and heal on the next login.
package identity
