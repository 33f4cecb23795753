// Package discovery runs a tap's discovery mode as an external shell command.
//
// The command is a text/template string rendered per run with the tap
// identity and the workspace paths, then executed with "sh -c" in the
// working directory. Any output on stderr fails the run, whatever the
// exit status.
package discovery
