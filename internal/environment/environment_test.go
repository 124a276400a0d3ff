package environment

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provision-mac/internal/logger"
)

func init() {
	logger.Init(false)
}

func fakePrefix(t *testing.T) string {
	t.Helper()
	prefix := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(prefix, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(prefix, "bin", "brew"), []byte("#!/bin/bash\n"), 0755))
	return prefix
}

func TestResolveRejectsNonDarwin(t *testing.T) {
	for _, goos := range []string{"linux", "windows", "freebsd"} {
		_, err := Resolve(Options{GOOS: goos, Home: t.TempDir()})
		require.Error(t, err, goos)
		assert.ErrorIs(t, err, ErrUnsupportedOS)
		assert.Contains(t, err.Error(), goos)
	}
}

func TestResolveLocatesBrewPrefix(t *testing.T) {
	t.Setenv(WorkEmailEnv, "")
	prefix := fakePrefix(t)

	env, err := Resolve(Options{
		GOOS:             "darwin",
		Home:             t.TempDir(),
		PrefixCandidates: []string{"/nonexistent-prefix", prefix},
	})
	require.NoError(t, err)
	assert.Equal(t, prefix, env.BrewPrefix)
}

func TestResolveMissingBrewLeavesPrefixEmpty(t *testing.T) {
	t.Setenv(WorkEmailEnv, "")

	env, err := Resolve(Options{
		GOOS:             "darwin",
		Home:             t.TempDir(),
		PrefixCandidates: []string{"/nonexistent-prefix"},
	})
	require.NoError(t, err)
	assert.Empty(t, env.BrewPrefix)
}

func TestResolveBrewPrefixOverrideSkipsProbing(t *testing.T) {
	t.Setenv(WorkEmailEnv, "")

	env, err := Resolve(Options{
		GOOS:       "darwin",
		Home:       t.TempDir(),
		BrewPrefix: "/usr/local",
	})
	require.NoError(t, err)
	assert.Equal(t, "/usr/local", env.BrewPrefix)
}

func TestResolveWorkEmail(t *testing.T) {
	base := Options{
		GOOS:             "darwin",
		PrefixCandidates: []string{"/nonexistent-prefix"},
	}

	t.Run("override wins over the environment variable", func(t *testing.T) {
		t.Setenv(WorkEmailEnv, "env@corp.example")
		opts := base
		opts.Home = t.TempDir()
		opts.WorkEmail = "override@corp.example"
		env, err := Resolve(opts)
		require.NoError(t, err)
		assert.Equal(t, "override@corp.example", env.WorkEmail)
	})

	t.Run("environment variable is consulted before prompting", func(t *testing.T) {
		t.Setenv(WorkEmailEnv, " env@corp.example ")
		opts := base
		opts.Home = t.TempDir()
		opts.NeedWorkEmail = true
		env, err := Resolve(opts)
		require.NoError(t, err)
		assert.Equal(t, "env@corp.example", env.WorkEmail)
	})

	t.Run("prompts only when an identity needs it", func(t *testing.T) {
		t.Setenv(WorkEmailEnv, "")
		opts := base
		opts.Home = t.TempDir()
		opts.NeedWorkEmail = true
		opts.Stdin = strings.NewReader("typed@corp.example\n")
		env, err := Resolve(opts)
		require.NoError(t, err)
		assert.Equal(t, "typed@corp.example", env.WorkEmail)
	})

	t.Run("blank answer leaves the email empty", func(t *testing.T) {
		t.Setenv(WorkEmailEnv, "")
		opts := base
		opts.Home = t.TempDir()
		opts.NeedWorkEmail = true
		opts.Stdin = strings.NewReader("\n")
		env, err := Resolve(opts)
		require.NoError(t, err)
		assert.Empty(t, env.WorkEmail)
	})

	t.Run("no prompt when nothing needs the email", func(t *testing.T) {
		t.Setenv(WorkEmailEnv, "")
		opts := base
		opts.Home = t.TempDir()
		opts.Stdin = strings.NewReader("would-be-read@corp.example\n")
		env, err := Resolve(opts)
		require.NoError(t, err)
		assert.Empty(t, env.WorkEmail)
	})
}

func TestExpand(t *testing.T) {
	env := Environment{Home: "/Users/dev"}

	assert.Equal(t, "/Users/dev/.zshrc", env.Expand("~/.zshrc"))
	assert.Equal(t, "/Users/dev", env.Expand("~"))
	assert.Equal(t, "/etc/hosts", env.Expand("/etc/hosts"))
	assert.Equal(t, "relative/path", env.Expand("relative/path"))
	// Only a leading ~/ is home-relative; ~user expansion is not supported.
	assert.Equal(t, "~other/file", env.Expand("~other/file"))
}

func TestLocateBrewPrefixDefaultsAreOrdered(t *testing.T) {
	assert.Equal(t, []string{"/opt/homebrew", "/usr/local"}, DefaultBrewPrefixes)
}
