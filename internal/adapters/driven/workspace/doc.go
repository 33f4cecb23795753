// Package workspace implements the file layout the discovery subprocess
// shares with knots: staging the configuration artifact, reading the
// catalog back, and listing the knots directory.
//
// Layout, relative to the working directory:
//
//	config.json              scratch artifact, moved into docker/tap
//	docker/tap/config.json   staged configuration read by the tap
//	docker/tap/catalog.json  catalog written by the discovery command
//	knots/                   registered knots
package workspace
