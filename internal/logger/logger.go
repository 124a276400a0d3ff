package logger

import (
	"github.com/fatih/color"
)

// Colored printf-style log functions. These behave like fmt.Printf but write
// with a color matching the log level, so a long provisioning run stays
// readable in the terminal.

// Info logs informational messages in green.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs warnings in bright magenta. Warnings never stop a run.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs item failures and other errors in red.
var Error = color.New(color.FgRed).PrintfFunc()

// Summary logs the end-of-run report lines in bold so the final counts stand
// out after a screenful of per-item output.
var Summary = color.New(color.Bold).PrintfFunc()

// Debug logs debug messages in cyan when enabled. It is assigned during Init:
// a cyan printf when --debug is set, otherwise a no-op.
var Debug func(format string, a ...any)

// Init configures debug logging. Must be called before any command runs.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}

func init() {
	// Safe default so packages logging before Init (e.g. in tests) don't hit
	// a nil function.
	Debug = func(format string, a ...any) {}
}
