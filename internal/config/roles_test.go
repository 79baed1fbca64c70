package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRolesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRolesEmptyPath(t *testing.T) {
	cfg, err := LoadRoles("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Roles)

	_, ok := cfg.Role("docu")
	assert.False(t, ok)
}

func TestLoadRolesFromFile(t *testing.T) {
	path := writeRolesFile(t, `
roles:
  - name: docu
    preamble: "You focus strictly on the documentary record."
    temperature: 0.4
  - name: sherlock
    preamble: "You probe weaknesses in the opposing narrative."
`)

	cfg, err := LoadRoles(path)
	require.NoError(t, err)
	require.Len(t, cfg.Roles, 2)

	docu, ok := cfg.Role("docu")
	require.True(t, ok)
	assert.Equal(t, "You focus strictly on the documentary record.", docu.Preamble)
	assert.InDelta(t, 0.4, docu.Temperature, 1e-9)
}

func TestLoadRolesExpandsEnvironment(t *testing.T) {
	t.Setenv("FIRM_NAME", "Acme Legal")
	path := writeRolesFile(t, `
roles:
  - name: coms
    preamble: "You write on behalf of ${FIRM_NAME}."
`)

	cfg, err := LoadRoles(path)
	require.NoError(t, err)

	coms, ok := cfg.Role("coms")
	require.True(t, ok)
	assert.Equal(t, "You write on behalf of Acme Legal.", coms.Preamble)
}

func TestLoadRolesMissingFile(t *testing.T) {
	_, err := LoadRoles(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadRolesValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "empty role name",
			content: "roles:\n  - name: \"\"\n    preamble: x\n",
			wantErr: "empty name",
		},
		{
			name:    "duplicate role",
			content: "roles:\n  - name: docu\n  - name: docu\n",
			wantErr: "duplicate role",
		},
		{
			name:    "temperature out of range",
			content: "roles:\n  - name: docu\n    temperature: 3.5\n",
			wantErr: "temperature out of range",
		},
		{
			name:    "not yaml",
			content: "{{{",
			wantErr: "parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRoles(writeRolesFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
