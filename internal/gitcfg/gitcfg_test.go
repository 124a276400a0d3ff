package gitcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderIdentity(t *testing.T) {
	assert.Equal(t, "[user]\n\temail = me@corp.example\n", RenderIdentity("me@corp.example"))
}

func TestWriteIdentityCreatesDirectoryAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "work", "client-a")

	require.NoError(t, WriteIdentity(dir, "me@corp.example"))

	data, err := os.ReadFile(IdentityPath(dir))
	require.NoError(t, err)
	assert.Equal(t, RenderIdentity("me@corp.example"), string(data))
}

func TestIdentityCurrent(t *testing.T) {
	dir := t.TempDir()

	current, err := IdentityCurrent(dir, "me@corp.example")
	require.NoError(t, err)
	assert.False(t, current, "no scoped config yet")

	require.NoError(t, WriteIdentity(dir, "me@corp.example"))

	current, err = IdentityCurrent(dir, "me@corp.example")
	require.NoError(t, err)
	assert.True(t, current)

	current, err = IdentityCurrent(dir, "other@corp.example")
	require.NoError(t, err)
	assert.False(t, current, "different email is not current")

	// Extra content means the file is not exactly the rendered stanza, so a
	// rewrite is due.
	require.NoError(t, os.WriteFile(IdentityPath(dir),
		[]byte(RenderIdentity("me@corp.example")+"[core]\n\teditor = vim\n"), 0644))
	current, err = IdentityCurrent(dir, "me@corp.example")
	require.NoError(t, err)
	assert.False(t, current)
}
