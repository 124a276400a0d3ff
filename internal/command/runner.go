// Package command abstracts external tool invocation so probes and installs
// can be exercised in tests without a real Homebrew or mas on the host.
package command

import (
	"os/exec"
)

// Runner executes an external command and reports its combined output. The
// reconciler treats every external collaborator as exactly this: an
// installer or prober invoked by name with arguments.
type Runner interface {
	// Run executes name with args and returns combined stdout/stderr. A
	// non-zero exit is returned as the error from os/exec.
	Run(name string, args ...string) ([]byte, error)
	// LookPath resolves name on the search path.
	LookPath(name string) (string, error)
}

// ExecRunner runs commands on the local host via os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
