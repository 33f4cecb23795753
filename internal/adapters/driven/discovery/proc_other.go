//go:build !unix

package discovery

import "os/exec"

// killGroup keeps the default behaviour of killing only the shell.
func killGroup(_ *exec.Cmd) {}
