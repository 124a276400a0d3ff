package environment

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"provision-mac/internal/logger"
)

// ErrUnsupportedOS is the hard precondition failure for non-macOS hosts.
var ErrUnsupportedOS = errors.New("this tool provisions macOS workstations only")

// WorkEmailEnv names the environment variable consulted before prompting.
const WorkEmailEnv = "PROVISION_WORK_EMAIL"

// DefaultBrewPrefixes are checked in order when no override is given:
// Apple silicon first, then Intel.
var DefaultBrewPrefixes = []string{"/opt/homebrew", "/usr/local"}

// Environment is the process-wide context resolved once at startup and
// passed into every component. Nothing in the core mutates it or reads
// ambient state behind its back.
type Environment struct {
	Home       string
	BrewPrefix string // empty until Homebrew is located or bootstrapped
	WorkEmail  string
}

// Options controls Resolve. Zero values fall back to the real host: the
// current GOOS, the user's home directory, the standard prefix candidates
// and standard input for the prompt.
type Options struct {
	GOOS             string
	Home             string
	BrewPrefix       string // override, skips candidate probing
	PrefixCandidates []string
	WorkEmail        string // override, skips env var and prompt
	NeedWorkEmail    bool   // an identity in the manifest wants it
	Stdin            io.Reader
}

// Resolve builds the Environment. A wrong operating system is the only error
// here; an unlocatable Homebrew prefix is left empty for the bootstrap step
// to resolve, and a blank work email is a soft warning.
func Resolve(opts Options) (Environment, error) {
	if opts.GOOS != "darwin" {
		return Environment{}, fmt.Errorf("%w (detected %s)", ErrUnsupportedOS, opts.GOOS)
	}

	home := opts.Home
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return Environment{}, fmt.Errorf("resolve home directory: %w", err)
		}
		home = h
	}

	env := Environment{Home: home}

	if opts.BrewPrefix != "" {
		env.BrewPrefix = opts.BrewPrefix
	} else {
		env.BrewPrefix = LocateBrewPrefix(opts.PrefixCandidates)
	}

	env.WorkEmail = opts.WorkEmail
	if env.WorkEmail == "" {
		env.WorkEmail = strings.TrimSpace(os.Getenv(WorkEmailEnv))
	}
	if env.WorkEmail == "" && opts.NeedWorkEmail {
		in := opts.Stdin
		if in == nil {
			in = os.Stdin
		}
		env.WorkEmail = promptWorkEmail(in)
		if env.WorkEmail == "" {
			logger.Warn("[WARN] No work email provided. Scoped git identities will be skipped.\n")
		}
	}

	return env, nil
}

// LocateBrewPrefix returns the first candidate prefix that actually contains
// a brew binary, or "" when none does. Nil candidates mean the defaults.
func LocateBrewPrefix(candidates []string) string {
	if candidates == nil {
		candidates = DefaultBrewPrefixes
	}
	for _, prefix := range candidates {
		if _, err := os.Stat(filepath.Join(prefix, "bin", "brew")); err == nil {
			logger.Debug("[DEBUG] Located Homebrew prefix at %s\n", prefix)
			return prefix
		}
	}
	return ""
}

// Expand replaces a leading ~ with the resolved home directory. Manifest
// paths are written with ~ so the same manifest works for every user.
func (e Environment) Expand(path string) string {
	if path == "~" {
		return e.Home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(e.Home, path[2:])
	}
	return path
}

// promptWorkEmail reads one line from in. This is the tool's single piece of
// interactive input.
func promptWorkEmail(in io.Reader) string {
	fmt.Print("Work email (leave blank to skip): ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}
