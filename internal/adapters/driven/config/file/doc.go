// Package file provides the TOML file implementation of the ConfigStore port.
//
// Example ~/.knots/config.toml:
//
//	[workspace]
//	dir = "/home/me/knots/postgres-prod"
//
//	[discovery]
//	timeout = 300
//	persist_schema = true
package file
