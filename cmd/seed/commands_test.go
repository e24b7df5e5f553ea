package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yoohoo/internal/auth"
)

func runSeed(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAdminHashCmd(t *testing.T) {
	out, err := runSeed(t, "admin-hash", "s3cret")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))
	assert.True(t, auth.CheckAdminKey(hash, "s3cret"))
	assert.False(t, auth.CheckAdminKey(hash, "wrong"))
}

func TestAdminHashCmd_RequiresKey(t *testing.T) {
	_, err := runSeed(t, "admin-hash")
	assert.Error(t, err)
}

func TestFlagsCmd(t *testing.T) {
	t.Setenv("FEATURE_DARK_MODE", "true")

	out, err := runSeed(t, "flags", "--env", "production")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "adminDashboard"), "output is sorted by name")

	fields := map[string]string{}
	for _, l := range lines {
		f := strings.Fields(l)
		require.Len(t, f, 2)
		fields[f[0]] = f[1]
	}
	assert.Equal(t, "true", fields["darkMode"])
	assert.Equal(t, "false", fields["aiRecommendations"])
	assert.Equal(t, "true", fields["booking"])
}
