package main

import (
	"provision-mac/cmd"
)

// main delegates to cmd.Execute, which owns argument parsing and exit codes.
//
// provision-mac is a one-shot workstation provisioner: it reads a declarative
// YAML manifest, probes what is already in place (Homebrew packages, casks,
// Mac App Store apps, shell configuration fragments, cloned tool
// repositories, runtimes, fonts, git identities) and applies only the
// missing delta. Every item gets its own recorded outcome; one failed
// install never blocks the rest of the run, and running twice in a row
// leaves everything reported as already satisfied.
func main() {
	cmd.Execute()
}
