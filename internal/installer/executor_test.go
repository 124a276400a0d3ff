package installer

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provision-mac/internal/config"
	"provision-mac/internal/environment"
	"provision-mac/internal/logger"
	"provision-mac/internal/reconcile"
)

func init() {
	logger.Init(false)
}

type fakeRunner struct {
	outputs map[string][]byte
	errs    map[string]error
	paths   map[string]string
	calls   []string
}

func cmdKey(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

func (f *fakeRunner) Run(name string, args ...string) ([]byte, error) {
	k := cmdKey(name, args...)
	f.calls = append(f.calls, k)
	if err, ok := f.errs[k]; ok {
		return f.outputs[k], err
	}
	if out, ok := f.outputs[k]; ok {
		return out, nil
	}
	return nil, fmt.Errorf("unexpected command: %s", k)
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if p, ok := f.paths[name]; ok {
		return p, nil
	}
	return "", errors.New("executable file not found in $PATH")
}

func newExecutor(t *testing.T, runner *fakeRunner) *Executor {
	t.Helper()
	env := environment.Environment{Home: t.TempDir(), BrewPrefix: "/opt/homebrew"}
	return New(runner, env)
}

func TestApplyPackageRunsBrewInstall(t *testing.T) {
	runner := &fakeRunner{outputs: map[string][]byte{
		"/opt/homebrew/bin/brew install jq": []byte("installed jq\n"),
	}}
	e := newExecutor(t, runner)

	err := e.Apply(config.Item{Kind: config.KindPackage, Identifier: "jq"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/homebrew/bin/brew install jq"}, runner.calls)
}

func TestApplyCaskAddsCaskFlag(t *testing.T) {
	runner := &fakeRunner{outputs: map[string][]byte{
		"/opt/homebrew/bin/brew install --cask iterm2": nil,
	}}
	e := newExecutor(t, runner)

	err := e.Apply(config.Item{Kind: config.KindCask, Identifier: "iterm2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/homebrew/bin/brew install --cask iterm2"}, runner.calls)
}

func TestApplyPackageFailureCarriesBrewOutput(t *testing.T) {
	runner := &fakeRunner{
		outputs: map[string][]byte{"/opt/homebrew/bin/brew install nope": []byte("Error: No available formula\n")},
		errs:    map[string]error{"/opt/homebrew/bin/brew install nope": errors.New("exit status 1")},
	}
	e := newExecutor(t, runner)

	err := e.Apply(config.Item{Kind: config.KindPackage, Identifier: "nope"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, reconcile.ErrSkip)
	assert.Contains(t, err.Error(), "No available formula")
}

func TestApplyStoreAppSkipsWhenMasAbsent(t *testing.T) {
	e := newExecutor(t, &fakeRunner{})

	err := e.Apply(config.Item{Kind: config.KindStoreApp, Identifier: "497799835",
		StoreApp: &config.StoreApp{Name: "Xcode", ID: "497799835"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrSkip)
}

func TestApplyStoreAppInstallsViaMas(t *testing.T) {
	runner := &fakeRunner{
		outputs: map[string][]byte{"mas install 497799835": []byte("installed\n")},
		paths:   map[string]string{"mas": "/opt/homebrew/bin/mas"},
	}
	e := newExecutor(t, runner)

	err := e.Apply(config.Item{Kind: config.KindStoreApp, Identifier: "497799835",
		StoreApp: &config.StoreApp{Name: "Xcode", ID: "497799835"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"mas install 497799835"}, runner.calls)
}

func TestApplyFragmentWritesUnderExpandedHome(t *testing.T) {
	e := newExecutor(t, &fakeRunner{})

	err := e.Apply(config.Item{Kind: config.KindFragment, Identifier: "homebrew PATH",
		Fragment: &config.Fragment{
			TargetFile: "~/.zshrc",
			Marker:     "/opt/homebrew/bin",
			Content:    "export PATH=\"/opt/homebrew/bin:$PATH\"\n",
		}})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(e.env.Home, ".zshrc"))
	require.NoError(t, err)
	assert.Equal(t, "export PATH=\"/opt/homebrew/bin:$PATH\"\n", string(data))
}

func TestApplyGitIdentity(t *testing.T) {
	t.Run("skips without an email", func(t *testing.T) {
		e := newExecutor(t, &fakeRunner{})
		err := e.Apply(config.Item{Kind: config.KindGitIdentity, Identifier: "~/work",
			GitIdentity: &config.GitIdentity{Dir: "~/work"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, reconcile.ErrSkip)
	})

	t.Run("overwrites the scoped config", func(t *testing.T) {
		runner := &fakeRunner{}
		env := environment.Environment{Home: t.TempDir(), WorkEmail: "me@corp.example"}
		e := New(runner, env)

		item := config.Item{Kind: config.KindGitIdentity, Identifier: "~/work",
			GitIdentity: &config.GitIdentity{Dir: "~/work"}}
		require.NoError(t, e.Apply(item))

		path := filepath.Join(env.Home, "work", ".gitconfig")
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[user]\n\temail = me@corp.example\n", string(data))

		// A stale value is replaced wholesale, not appended to.
		require.NoError(t, os.WriteFile(path, []byte("[user]\n\temail = old@corp.example\n"), 0644))
		require.NoError(t, e.Apply(item))
		data, err = os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[user]\n\temail = me@corp.example\n", string(data))
	})
}

func TestApplyRuntime(t *testing.T) {
	rt := &config.Runtime{Name: "node", Version: "^20"}
	item := config.Item{Kind: config.KindRuntime, Identifier: "node", Runtime: rt}

	t.Run("skips when the version manager is absent", func(t *testing.T) {
		e := newExecutor(t, &fakeRunner{})
		err := e.Apply(item)
		require.Error(t, err)
		assert.ErrorIs(t, err, reconcile.ErrSkip)
	})

	t.Run("installs through the version manager", func(t *testing.T) {
		runner := &fakeRunner{}
		env := environment.Environment{Home: t.TempDir()}
		nvmScript := filepath.Join(env.Home, ".nvm", "nvm.sh")
		require.NoError(t, os.MkdirAll(filepath.Dir(nvmScript), 0755))
		require.NoError(t, os.WriteFile(nvmScript, []byte("# nvm"), 0644))

		expected := cmdKey("/bin/bash", "-lc", fmt.Sprintf(". %s && nvm install 20", nvmScript))
		runner.outputs = map[string][]byte{expected: []byte("Now using node v20\n")}

		e := New(runner, env)
		require.NoError(t, e.Apply(item))
		assert.Equal(t, []string{expected}, runner.calls)
	})
}

func TestVersionTarget(t *testing.T) {
	assert.Equal(t, "20", versionTarget("^20"))
	assert.Equal(t, "18.19", versionTarget("~18.19"))
	assert.Equal(t, "21.1.0", versionTarget(">= 21.1.0"))
	assert.Equal(t, "20", versionTarget("20"))
}

func TestEnsureHomebrewKeepsResolvedPrefix(t *testing.T) {
	runner := &fakeRunner{}
	env := environment.Environment{Home: t.TempDir(), BrewPrefix: "/opt/homebrew"}

	require.NoError(t, EnsureHomebrew(runner, &env))
	assert.Empty(t, runner.calls, "no install when the prefix is already known")
	assert.Equal(t, "/opt/homebrew", env.BrewPrefix)
}

func TestExtractZipAndCollectFontFiles(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "JetBrainsMono.zip")

	f, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range map[string]string{
		"fonts/ttf/JetBrainsMono-Regular.ttf": "ttf-bytes",
		"fonts/ttf/JetBrainsMono-Bold.ttf":    "ttf-bytes",
		"OFL.txt":                             "license",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	dest := filepath.Join(dir, "extracted")
	require.NoError(t, os.MkdirAll(dest, 0755))
	require.NoError(t, ExtractArchive(archive, dest))

	files, err := collectFontFiles(dest)
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, path := range files {
		assert.Equal(t, ".ttf", filepath.Ext(path))
	}
}

func TestExtractArchiveRejectsUnknownFormat(t *testing.T) {
	err := ExtractArchive("asset.rar", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported archive format")
}
