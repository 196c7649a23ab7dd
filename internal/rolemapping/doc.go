// Package rolemapping decides which roles an externally authenticated user
// should hold and keeps the user's automatic role assignments in line with it.
//
// # Configuration
//
// An installation configures an ordered list of entries per authenticator.
// Each entry names a candidate role and a list of rules:
//
//	[[RoleMapping.ldap]]
//	name = "admin"
//	all = true
//	  [[RoleMapping.ldap.rules]]
//	  attribute = "groups"
//	  regex = "/^cn=admins,/i"
//	  [[RoleMapping.ldap.rules]]
//	  attribute = "email"
//	  regex = "@university\\.org$"
//
// # Evaluation
//
// A rule is evaluated against every value of its attribute. The match result
// of each value is negated first when the rule sets not, and only then are the
// per-value results combined: with AND when the rule sets all, with OR
// otherwise. So all+not means "no value matches" and not alone means "at least
// one value does not match". A rule whose attribute was never supplied is false.
//
// An entry combines its rule results the same way using its own all flag.
// Disabled entries are skipped.
//
// # Reconciliation
//
// Matched names are resolved to roles case-insensitively; unknown names are
// dropped. Assignments flagged automatic are then made equal to the resolved
// set. Assignments granted by other means are left alone.
package rolemapping
